package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/handler/http/response"
)

// EmployeeHandler defines the employee admin handler interface
type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employees employee.Repository
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employees employee.Repository) EmployeeHandler {
	return &employeeHandlerImpl{employees: employees}
}

type employeeResponse struct {
	ID                   string    `json:"id"`
	FullName             string    `json:"full_name"`
	ExternalID           *string   `json:"external_id"`
	LeaderID             string    `json:"leader_id"`
	SecondaryLeaderID    *string   `json:"secondary_leader_id,omitempty"`
	IsApprentice         bool      `json:"is_apprentice"`
	ExpectedDailyMinutes int       `json:"expected_daily_minutes"`
	NoPunchRequired      bool      `json:"no_punch_required"`
	WorksSaturday        bool      `json:"works_saturday"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func toEmployeeResponse(emp employee.Employee) employeeResponse {
	return employeeResponse{
		ID:                   emp.ID,
		FullName:             emp.FullName,
		ExternalID:           emp.ExternalID,
		LeaderID:             emp.LeaderID,
		SecondaryLeaderID:    emp.SecondaryLeaderID,
		IsApprentice:         emp.IsApprentice,
		ExpectedDailyMinutes: emp.ExpectedDailyMinutes,
		NoPunchRequired:      emp.NoPunchRequired,
		WorksSaturday:        emp.WorksSaturday,
		CreatedAt:            emp.CreatedAt,
		UpdatedAt:            emp.UpdatedAt,
	}
}

// List returns every tracked employee.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.GetAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]employeeResponse, len(employees))
	for i, emp := range employees {
		responses[i] = toEmployeeResponse(emp)
	}
	response.Success(w, responses)
}

// GetByID returns one employee.
func (h *employeeHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	emp, err := h.employees.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toEmployeeResponse(emp))
}

// Update mutates the scheduling flags of one employee.
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.employees.Update(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated", nil)
}
