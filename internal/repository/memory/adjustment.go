package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pontocerto/ponto-backend-go/internal/domain/adjustment"
)

type AdjustmentStore struct {
	mu          sync.RWMutex
	adjustments map[string]adjustment.PunchAdjustmentRequest

	// employees resolves leader scoping; nil disables GetPendingByLeader.
	employees *EmployeeStore
}

func NewAdjustmentStore(employees *EmployeeStore) *AdjustmentStore {
	return &AdjustmentStore{
		adjustments: make(map[string]adjustment.PunchAdjustmentRequest),
		employees:   employees,
	}
}

func (s *AdjustmentStore) Create(_ context.Context, req adjustment.PunchAdjustmentRequest) (adjustment.PunchAdjustmentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	req.ID = uuid.New().String()
	req.CreatedAt = now
	req.UpdatedAt = now
	s.adjustments[req.ID] = req
	return req, nil
}

func (s *AdjustmentStore) GetByID(_ context.Context, id string) (adjustment.PunchAdjustmentRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adj, ok := s.adjustments[id]
	if !ok {
		return adjustment.PunchAdjustmentRequest{}, adjustment.ErrAdjustmentNotFound
	}
	return adj, nil
}

func (s *AdjustmentStore) GetPendingByLeader(ctx context.Context, leaderID string) ([]adjustment.PunchAdjustmentRequest, error) {
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

	var out []adjustment.PunchAdjustmentRequest
	for _, adj := range s.adjustments {
		if adj.Status == adjustment.StatusPending && ids[adj.EmployeeID] {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (s *AdjustmentStore) UpdateStatus(_ context.Context, req adjustment.ReviewUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	adj, ok := s.adjustments[req.ID]
	if !ok {
		return adjustment.ErrAdjustmentNotFound
	}
	adj.Status = req.Status
	adj.ReviewerID = &req.ReviewerID
	adj.ReviewerComment = req.Comment
	adj.CorrectedPunch1 = req.CorrectedPunches[0]
	adj.CorrectedPunch2 = req.CorrectedPunches[1]
	adj.CorrectedPunch3 = req.CorrectedPunches[2]
	adj.CorrectedPunch4 = req.CorrectedPunches[3]
	reviewedAt := req.ReviewedAt
	adj.ReviewedAt = &reviewedAt
	adj.UpdatedAt = time.Now()
	s.adjustments[req.ID] = adj
	return nil
}
