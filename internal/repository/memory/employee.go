// Package memory provides mutex-guarded in-memory implementations of the
// domain repositories. They back the service tests; production always runs
// on the PostgreSQL implementations.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
)

type EmployeeStore struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeStore(employees ...employee.Employee) *EmployeeStore {
	s := &EmployeeStore{employees: make(map[string]employee.Employee)}
	for _, emp := range employees {
		s.employees[emp.ID] = emp
	}
	return s
}

func (s *EmployeeStore) GetByID(_ context.Context, id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *EmployeeStore) GetAll(_ context.Context) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]employee.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		all = append(all, emp)
	}
	return all, nil
}

func (s *EmployeeStore) GetByExternalID(_ context.Context, externalID string) (*employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, emp := range s.employees {
		if emp.ExternalID != nil && *emp.ExternalID == externalID {
			e := emp
			return &e, nil
		}
	}
	return nil, nil
}

func (s *EmployeeStore) GetByName(_ context.Context, name string) (*employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	for _, emp := range s.employees {
		if strings.ToLower(strings.TrimSpace(emp.FullName)) == needle {
			e := emp
			return &e, nil
		}
	}
	return nil, nil
}

func (s *EmployeeStore) GetByLeader(_ context.Context, leaderID string) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []employee.Employee
	for _, emp := range s.employees {
		if emp.LeaderID == leaderID || (emp.SecondaryLeaderID != nil && *emp.SecondaryLeaderID == leaderID) {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (s *EmployeeStore) LinkExternalID(_ context.Context, id string, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.ExternalID = &externalID
	emp.UpdatedAt = time.Now()
	s.employees[id] = emp
	return nil
}

func (s *EmployeeStore) Update(_ context.Context, req employee.UpdateEmployeeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[req.ID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if req.LeaderID != nil {
		emp.LeaderID = *req.LeaderID
	}
	if req.SecondaryLeaderID != nil {
		emp.SecondaryLeaderID = req.SecondaryLeaderID
	}
	if req.IsApprentice != nil {
		emp.IsApprentice = *req.IsApprentice
	}
	if req.ExpectedDailyMinutes != nil {
		emp.ExpectedDailyMinutes = *req.ExpectedDailyMinutes
	}
	if req.NoPunchRequired != nil {
		emp.NoPunchRequired = *req.NoPunchRequired
	}
	if req.WorksSaturday != nil {
		emp.WorksSaturday = *req.WorksSaturday
	}
	emp.UpdatedAt = time.Now()
	s.employees[req.ID] = emp
	return nil
}

type LeaderStore struct {
	mu      sync.RWMutex
	leaders map[string]employee.Leader
}

func NewLeaderStore(leaders ...employee.Leader) *LeaderStore {
	s := &LeaderStore{leaders: make(map[string]employee.Leader)}
	for _, l := range leaders {
		s.leaders[l.ID] = l
	}
	return s
}

func (s *LeaderStore) GetByID(_ context.Context, id string) (employee.Leader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leaders[id]
	if !ok {
		return employee.Leader{}, employee.ErrLeaderNotFound
	}
	return l, nil
}

func (s *LeaderStore) GetAll(_ context.Context) ([]employee.Leader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]employee.Leader, 0, len(s.leaders))
	for _, l := range s.leaders {
		all = append(all, l)
	}
	return all, nil
}
