package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pontocerto/ponto-backend-go/internal/domain/adjustment"
	"github.com/pontocerto/ponto-backend-go/internal/domain/justification"
	"github.com/pontocerto/ponto-backend-go/internal/handler/http/middleware"
	"github.com/pontocerto/ponto-backend-go/internal/handler/http/response"
	"github.com/pontocerto/ponto-backend-go/internal/service/approval"
)

// ApprovalHandler covers justifications and punch adjustment requests.
type ApprovalHandler interface {
	CreateJustification(w http.ResponseWriter, r *http.Request)
	PendingJustifications(w http.ResponseWriter, r *http.Request)
	ApproveJustification(w http.ResponseWriter, r *http.Request)
	RejectJustification(w http.ResponseWriter, r *http.Request)

	CreateAdjustment(w http.ResponseWriter, r *http.Request)
	PendingAdjustments(w http.ResponseWriter, r *http.Request)
	ApproveAdjustment(w http.ResponseWriter, r *http.Request)
	RejectAdjustment(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	svc *approval.Service
}

// NewApprovalHandler creates a new approval handler
func NewApprovalHandler(svc *approval.Service) ApprovalHandler {
	return &approvalHandlerImpl{svc: svc}
}

// CreateJustification files a justification for the authenticated employee.
func (h *approvalHandlerImpl) CreateJustification(w http.ResponseWriter, r *http.Request) {
	var req justification.CreateJustificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = middleware.Subject(r)

	created, err := h.svc.CreateJustification(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Justification submitted", created)
}

// PendingJustifications lists the authenticated leader's review queue.
func (h *approvalHandlerImpl) PendingJustifications(w http.ResponseWriter, r *http.Request) {
	pending, err := h.svc.GetPendingJustifications(r.Context(), middleware.Subject(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, pending)
}

func (h *approvalHandlerImpl) ApproveJustification(w http.ResponseWriter, r *http.Request) {
	h.reviewJustification(w, r, true)
}

func (h *approvalHandlerImpl) RejectJustification(w http.ResponseWriter, r *http.Request) {
	h.reviewJustification(w, r, false)
}

func (h *approvalHandlerImpl) reviewJustification(w http.ResponseWriter, r *http.Request, approve bool) {
	var req justification.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.JustificationID = chi.URLParam(r, "id")
	req.ReviewerID = middleware.Subject(r)

	var err error
	if approve {
		err = h.svc.ApproveJustification(r.Context(), req)
	} else {
		err = h.svc.RejectJustification(r.Context(), req)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification reviewed", nil)
}

// CreateAdjustment files a punch adjustment request for the authenticated
// employee.
func (h *approvalHandlerImpl) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustment.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = middleware.Subject(r)

	created, err := h.svc.CreateAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment request submitted", created)
}

// PendingAdjustments lists the authenticated leader's adjustment queue.
func (h *approvalHandlerImpl) PendingAdjustments(w http.ResponseWriter, r *http.Request) {
	pending, err := h.svc.GetPendingAdjustments(r.Context(), middleware.Subject(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, pending)
}

// ApproveAdjustment merges the corrected punches and closes the request.
func (h *approvalHandlerImpl) ApproveAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustment.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.AdjustmentID = chi.URLParam(r, "id")
	req.ReviewerID = middleware.Subject(r)

	if err := h.svc.ApproveAdjustment(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment approved", nil)
}

// RejectAdjustment closes the request without touching the record.
func (h *approvalHandlerImpl) RejectAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustment.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.AdjustmentID = chi.URLParam(r, "id")
	req.ReviewerID = middleware.Subject(r)

	if err := h.svc.RejectAdjustment(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment rejected", nil)
}
