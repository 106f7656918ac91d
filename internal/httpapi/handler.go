package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Veraticus/pinpoint/internal/batch"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

const (
	maxVerifyBody = 64 << 10
	maxBatchBody  = 10 << 20
)

// Handler serves the verification endpoints.
type Handler struct {
	verifier service.Verifier
	driver   *batch.Driver
	logger   *slog.Logger
}

// NewHandler creates a handler. driver may be nil to disable the batch endpoint.
func NewHandler(verifier service.Verifier, driver *batch.Driver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{verifier: verifier, driver: driver, logger: logger}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r chi.Router, verifyTimeout time.Duration) {
	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.Timeout(verifyTimeout)).Post("/verify", h.handleVerify)
		if h.driver != nil {
			r.Post("/batch", h.handleBatch)
		}
	})
}

type verifyRequest struct {
	Address      string `json:"address"`
	CustomerName string `json:"customerName"`
}

// handleVerify handles POST /api/v1/verify.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)
	start := time.Now()

	var req verifyRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxVerifyBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be JSON with an address field")
		return
	}

	rec, err := h.verifier.Verify(ctx, model.RawInput{Address: req.Address, CustomerName: req.CustomerName})
	switch {
	case errors.Is(err, model.ErrEmptyAddress):
		writeError(w, http.StatusBadRequest, "Address is required")
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"error", err)
		writeJSON(w, http.StatusInternalServerError, rec)
		return
	}

	h.logger.InfoContext(ctx, "address verified",
		"request_id", requestID,
		"id", rec.ID,
		"pin", rec.PINValue(),
		"quality", rec.AddressQuality,
		"duration_ms", time.Since(start).Milliseconds())

	writeJSON(w, http.StatusOK, rec)
}

// handleBatch handles POST /api/v1/batch with a CSV body and answers with CSV.
func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := batch.ReadRows(io.LimitReader(r.Body, maxBatchBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid CSV: %v", err))
		return
	}

	report, err := h.driver.Run(ctx, rows)
	var abortErr *batch.AbortError
	switch {
	case errors.As(err, &abortErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Status:  model.StatusError,
			Message: "Batch stopped: the text extraction service rejected its credentials",
			Row:     abortErr.Row,
			OrderID: abortErr.OrderID,
		})
		return
	case err != nil:
		h.logger.WarnContext(ctx, "batch interrupted", "error", err, "completed", len(report.Results))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="verified.csv"`)
	w.Header().Set("X-Batch-ID", report.BatchID)
	if err := batch.NewCSVWriter(w).WriteResults(ctx, report.Results); err != nil {
		h.logger.WarnContext(ctx, "failed to write batch response", "batch_id", report.BatchID, "error", err)
	}
}
