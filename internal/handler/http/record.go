package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/handler/http/middleware"
	"github.com/pontocerto/ponto-backend-go/internal/handler/http/response"
	"github.com/pontocerto/ponto-backend-go/internal/service/approval"
)

// RecordHandler defines the daily record handler interface
type RecordHandler interface {
	ListByDate(w http.ResponseWriter, r *http.Request)
	ListTeam(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type recordHandlerImpl struct {
	records     record.Repository
	approvalSvc *approval.Service
}

// NewRecordHandler creates a new daily record handler
func NewRecordHandler(records record.Repository, approvalSvc *approval.Service) RecordHandler {
	return &recordHandlerImpl{records: records, approvalSvc: approvalSvc}
}

// ListByDate returns every record for one calendar date (admin view).
func (h *recordHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	req := record.ListByDateRequest{Date: r.URL.Query().Get("date")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	records, err := h.records.GetByDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toRecordResponses(records))
}

// ListTeam returns the authenticated leader's team records for a date range.
func (h *recordHandlerImpl) ListTeam(w http.ResponseWriter, r *http.Request) {
	req := record.ListByLeaderRequest{
		LeaderID:  middleware.Subject(r),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	records, err := h.records.GetByLeaderAndDateRange(r.Context(), req.LeaderID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toRecordResponses(records))
}

// GetByID returns one record.
func (h *recordHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	rec, err := h.records.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record.ToResponse(rec))
}

// Decide resolves a sem_registro day as folga or falta.
func (h *recordHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	req := record.ManagerDecisionRequest{
		RecordID: chi.URLParam(r, "id"),
		Decision: body.Decision,
	}
	if err := h.approvalSvc.DecideNoRecord(r.Context(), req, middleware.Subject(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day classified", nil)
}

func toRecordResponses(records []record.DailyRecord) []record.DailyRecordResponse {
	responses := make([]record.DailyRecordResponse, len(records))
	for i, rec := range records {
		responses[i] = record.ToResponse(rec)
	}
	return responses
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}
