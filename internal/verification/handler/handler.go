// Package handler maps the verification and lookup services onto HTTP
// routes. A mismatch rides back as a 200 result body; only missing records
// and bad input become error statuses.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	lookupmodels "motoreg/internal/lookup/models"
	"motoreg/internal/registration/models"
	"motoreg/internal/verification/service"
	"motoreg/pkg/platform/httputil"
)

// VerificationService is the slice of the comparator the handler needs.
type VerificationService interface {
	Verify(ctx context.Context, doc *models.RegistrationDocument) (service.Result, error)
	VerifyAll(ctx context.Context, doc *models.RegistrationDocument) (service.Result, error)
}

// LookupService is the slice of the secondary lookup verifier the handler needs.
type LookupService interface {
	VerifyLookup(ctx context.Context, submitted lookupmodels.LookupRecord) (bool, error)
}

// Handler wires verification endpoints to the services.
type Handler struct {
	verifier VerificationService
	lookup   LookupService
	logger   *slog.Logger
}

// New constructs an HTTP handler for the verification routes.
func New(verifier VerificationService, lookup LookupService, logger *slog.Logger) *Handler {
	return &Handler{verifier: verifier, lookup: lookup, logger: logger}
}

// Register mounts the verification routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/verify/full", h.handleVerifyFull)
	r.Post("/api/verify/report", h.handleVerifyReport)
	r.Post("/api/verify/lookup", h.handleVerifyLookup)
}

// verifyResponse reports the outcome of a full verification. Reason carries
// the first mismatch when Matched is false.
type verifyResponse struct {
	Matched bool   `json:"matched"`
	Reason  string `json:"reason,omitempty"`
}

func (h *Handler) handleVerifyFull(w http.ResponseWriter, r *http.Request) {
	var doc models.RegistrationDocument
	if err := httputil.DecodeJSON(w, r, &doc); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.verifier.Verify(r.Context(), &doc)
	if err != nil {
		h.logger.WarnContext(r.Context(), "verification failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	resp := verifyResponse{Matched: result.Matched}
	if len(result.Mismatches) > 0 {
		resp.Reason = result.Mismatches[0]
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVerifyReport(w http.ResponseWriter, r *http.Request) {
	var doc models.RegistrationDocument
	if err := httputil.DecodeJSON(w, r, &doc); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.verifier.VerifyAll(r.Context(), &doc)
	if err != nil {
		h.logger.WarnContext(r.Context(), "verification report failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// lookupResponse reports the persisted outcome of a secondary lookup.
type lookupResponse struct {
	Verified bool `json:"verified"`
}

func (h *Handler) handleVerifyLookup(w http.ResponseWriter, r *http.Request) {
	var record lookupmodels.LookupRecord
	if err := httputil.DecodeJSON(w, r, &record); err != nil {
		httputil.WriteError(w, err)
		return
	}

	verified, err := h.lookup.VerifyLookup(r.Context(), record)
	if err != nil {
		h.logger.WarnContext(r.Context(), "lookup verification failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, lookupResponse{Verified: verified})
}
