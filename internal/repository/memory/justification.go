package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pontocerto/ponto-backend-go/internal/domain/justification"
)

type JustificationStore struct {
	mu             sync.RWMutex
	justifications map[string]justification.Justification

	// employees resolves leader scoping; nil disables GetPendingByLeader.
	employees *EmployeeStore
}

func NewJustificationStore(employees *EmployeeStore) *JustificationStore {
	return &JustificationStore{
		justifications: make(map[string]justification.Justification),
		employees:      employees,
	}
}

func (s *JustificationStore) Create(_ context.Context, j justification.Justification) (justification.Justification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	j.ID = uuid.New().String()
	j.CreatedAt = now
	j.UpdatedAt = now
	s.justifications[j.ID] = j
	return j, nil
}

func (s *JustificationStore) GetByID(_ context.Context, id string) (justification.Justification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.justifications[id]
	if !ok {
		return justification.Justification{}, justification.ErrJustificationNotFound
	}
	return j, nil
}

func (s *JustificationStore) GetPendingByLeader(ctx context.Context, leaderID string) ([]justification.Justification, error) {
	if s.employees == nil {
		return nil, nil
	}
	team, err := s.employees.GetByLeader(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(team))
	for _, emp := range team {
		ids[emp.ID] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []justification.Justification
	for _, j := range s.justifications {
		if j.Status == justification.StatusPending && ids[j.EmployeeID] {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *JustificationStore) UpdateStatus(_ context.Context, req justification.ReviewUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.justifications[req.ID]
	if !ok {
		return justification.ErrJustificationNotFound
	}
	j.Status = req.Status
	j.ReviewerID = &req.ReviewerID
	j.ReviewerComment = &req.Comment
	reviewedAt := req.ReviewedAt
	j.ReviewedAt = &reviewedAt
	j.UpdatedAt = time.Now()
	s.justifications[req.ID] = j
	return nil
}

func (s *JustificationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.justifications[id]; !ok {
		return justification.ErrJustificationNotFound
	}
	delete(s.justifications, id)
	return nil
}
