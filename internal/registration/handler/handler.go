// Package handler maps the registration service onto HTTP routes. It is a
// thin adapter: decode, call the service, translate the outcome.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"motoreg/internal/registration/models"
	id "motoreg/pkg/domain"
	"motoreg/pkg/platform/httputil"
)

// RegistrationService is the slice of the service the handler needs.
type RegistrationService interface {
	Register(ctx context.Context, doc *models.RegistrationDocument) (*models.Person, error)
	Update(ctx context.Context, doc *models.RegistrationDocument) (*models.Person, error)
	DeleteVehicle(ctx context.Context, vehicleID id.VehicleID, adminPassword string) error
}

// Handler wires registration endpoints to the service.
type Handler struct {
	service RegistrationService
	logger  *slog.Logger
}

// New constructs an HTTP handler for the registration routes.
func New(service RegistrationService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the registration routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/register/createRecord", h.handleCreate)
	r.Put("/api/register/updateRecord", h.handleUpdate)
	r.Delete("/api/register/vehicleDelete", h.handleDeleteVehicle)
}

// serverResponse is the envelope mutation endpoints return.
type serverResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	RegCode string `json:"reg_code,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var doc models.RegistrationDocument
	if err := httputil.DecodeJSON(w, r, &doc); err != nil {
		httputil.WriteError(w, err)
		return
	}

	person, err := h.service.Register(r.Context(), &doc)
	if err != nil {
		h.logger.WarnContext(r.Context(), "registration rejected", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, serverResponse{
		Status:  true,
		Message: "Registration successful",
		RegCode: person.RegCode,
	})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var doc models.RegistrationDocument
	if err := httputil.DecodeJSON(w, r, &doc); err != nil {
		httputil.WriteError(w, err)
		return
	}

	person, err := h.service.Update(r.Context(), &doc)
	if err != nil {
		h.logger.WarnContext(r.Context(), "update rejected", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, serverResponse{
		Status:  true,
		Message: "Update successful",
		RegCode: person.RegCode,
	})
}

func (h *Handler) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	var req DeleteVehicleRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	vehicleID, err := req.ParseVehicleID()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteVehicle(r.Context(), vehicleID, req.AdminPassword); err != nil {
		h.logger.WarnContext(r.Context(), "vehicle deletion rejected",
			"vehicle_id", req.VehicleID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, serverResponse{
		Status:  true,
		Message: "Vehicle with ID " + req.VehicleID + " was successfully deleted",
	})
}
