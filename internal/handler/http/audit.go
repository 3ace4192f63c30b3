package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pontocerto/ponto-backend-go/internal/domain/audit"
	"github.com/pontocerto/ponto-backend-go/internal/handler/http/response"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// AuditHandler exposes the append-only audit trail to admins.
type AuditHandler interface {
	ListByDateRange(w http.ResponseWriter, r *http.Request)
	ListByEntity(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	audits audit.Repository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audits audit.Repository) AuditHandler {
	return &auditHandlerImpl{audits: audits}
}

// ListByDateRange returns entries created in [start_date, end_date].
func (h *auditHandlerImpl) ListByDateRange(w http.ResponseWriter, r *http.Request) {
	start, okStart := validator.IsValidDate(r.URL.Query().Get("start_date"))
	end, okEnd := validator.IsValidDate(r.URL.Query().Get("end_date"))
	if !okStart || !okEnd || end.Before(start) {
		response.BadRequest(w, "start_date and end_date must be valid YYYY-MM-DD dates", nil)
		return
	}

	// Extend the end bound to cover the whole closing day.
	entries, err := h.audits.GetByDateRange(r.Context(), start, end.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// ListByEntity returns the trail of one entity.
func (h *auditHandlerImpl) ListByEntity(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	entityID := chi.URLParam(r, "entityID")
	if entityType == "" || entityID == "" {
		response.BadRequest(w, "entity type and id are required", nil)
		return
	}

	entries, err := h.audits.GetByEntity(r.Context(), entityType, entityID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}
