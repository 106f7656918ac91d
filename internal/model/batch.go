package model

// Row is one line of tabular batch input.
type Row struct {
	OrderID      string
	CustomerName string
	RawAddress   string
}

// Input converts the row into a verification request.
func (r Row) Input() RawInput {
	return RawInput{Address: r.RawAddress, CustomerName: r.CustomerName}
}

// RowResult pairs an input row with its verification record.
type RowResult struct {
	Row    Row
	Record VerificationRecord
	Err    error
}
