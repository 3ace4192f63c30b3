package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
)

type RecordStore struct {
	mu      sync.RWMutex
	records map[string]record.DailyRecord

	// employees resolves leader scoping; nil disables GetByLeaderAndDateRange.
	employees *EmployeeStore
}

func NewRecordStore(employees *EmployeeStore) *RecordStore {
	return &RecordStore{
		records:   make(map[string]record.DailyRecord),
		employees: employees,
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (s *RecordStore) GetByID(_ context.Context, id string) (record.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return record.DailyRecord{}, record.ErrRecordNotFound
	}
	return rec, nil
}

func (s *RecordStore) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*record.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.EmployeeID == employeeID && dateKey(rec.Date) == dateKey(date) {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (s *RecordStore) Upsert(_ context.Context, rec record.DailyRecord) (record.DailyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, existing := range s.records {
		if existing.EmployeeID == rec.EmployeeID && dateKey(existing.Date) == dateKey(rec.Date) {
			rec.ID = id
			rec.AlertSent = existing.AlertSent
			rec.ManagerAlertSent = existing.ManagerAlertSent
			rec.CreatedAt = existing.CreatedAt
			rec.UpdatedAt = now
			s.records[id] = rec
			return rec, nil
		}
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *RecordStore) GetByDate(_ context.Context, date time.Time) ([]record.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []record.DailyRecord
	for _, rec := range s.records {
		if dateKey(rec.Date) == dateKey(date) {
			out = append(out, rec)
		}
	}
	sortByDate(out)
	return out, nil
}

func (s *RecordStore) GetByDateRange(_ context.Context, start, end time.Time) ([]record.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []record.DailyRecord
	for _, rec := range s.records {
		if inRange(rec.Date, start, end) {
			out = append(out, rec)
		}
	}
	sortByDate(out)
	return out, nil
}

func (s *RecordStore) GetByLeaderAndDateRange(ctx context.Context, leaderID string, start, end time.Time) ([]record.DailyRecord, error) {
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

	var out []record.DailyRecord
	for _, rec := range s.records {
		if ids[rec.EmployeeID] && inRange(rec.Date, start, end) {
			out = append(out, rec)
		}
	}
	sortByDate(out)
	return out, nil
}

func (s *RecordStore) SetClassification(_ context.Context, id string, classification record.Classification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return record.ErrRecordNotFound
	}
	rec.Classification = &classification
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func (s *RecordStore) MarkAlertSent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return record.ErrRecordNotFound
	}
	rec.AlertSent = true
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func (s *RecordStore) MarkManagerAlertSent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return record.ErrRecordNotFound
	}
	rec.ManagerAlertSent = true
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func (s *RecordStore) ApplyAdjustment(_ context.Context, id string, punches [4]*string, total, difference *int, classification *record.Classification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return record.ErrRecordNotFound
	}
	rec.Punch1, rec.Punch2, rec.Punch3, rec.Punch4 = punches[0], punches[1], punches[2], punches[3]
	rec.TotalWorkedMinutes = total
	rec.DifferenceMinutes = difference
	if classification != nil {
		rec.Classification = classification
	}
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func inRange(t, start, end time.Time) bool {
	k := dateKey(t)
	return k >= dateKey(start) && k <= dateKey(end)
}

func sortByDate(records []record.DailyRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})
}
