package service

import "context"

// Origin identifies where a verification request came from.
type Origin struct {
	BatchID string
	OrderID string
}

type originKey struct{}

// WithOrigin attaches the batch row a verification belongs to.
func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, originKey{}, o)
}

// OriginFrom returns the origin attached to ctx, if any.
func OriginFrom(ctx context.Context) Origin {
	o, _ := ctx.Value(originKey{}).(Origin)
	return o
}
