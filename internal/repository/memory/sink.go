package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
)

// SinkCall records one outbound notification observed by the SinkRecorder.
type SinkCall struct {
	Kind        string // deviation, missing_punch, late_start, late_punch, no_record, weekly_summary, justification_outcome, adjustment_outcome
	RecipientID string
	RecordID    string
	Slots       []string
	Detail      string
}

// SinkRecorder is a notification.Sink that remembers every call. Test
// double for the services that alert employees and leaders.
type SinkRecorder struct {
	mu    sync.Mutex
	calls []SinkCall

	// Err, when set, is returned by every notify method.
	Err error
}

func NewSinkRecorder() *SinkRecorder {
	return &SinkRecorder{}
}

func (s *SinkRecorder) record(call SinkCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.calls = append(s.calls, call)
	return nil
}

// Calls returns a copy of the recorded calls.
func (s *SinkRecorder) Calls() []SinkCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SinkCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsOfKind filters recorded calls by kind.
func (s *SinkRecorder) CallsOfKind(kind string) []SinkCall {
	var out []SinkCall
	for _, c := range s.Calls() {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (s *SinkRecorder) NotifyEmployeeDeviation(_ context.Context, emp employee.Employee, rec record.DailyRecord) error {
	return s.record(SinkCall{Kind: "deviation", RecipientID: emp.ID, RecordID: rec.ID})
}

func (s *SinkRecorder) NotifyEmployeeMissingPunch(_ context.Context, emp employee.Employee, rec record.DailyRecord, missingSlots []string) error {
	return s.record(SinkCall{Kind: "missing_punch", RecipientID: emp.ID, RecordID: rec.ID, Slots: missingSlots})
}

func (s *SinkRecorder) NotifyEmployeeLateStart(_ context.Context, emp employee.Employee, rec record.DailyRecord) error {
	return s.record(SinkCall{Kind: "late_start", RecipientID: emp.ID, RecordID: rec.ID})
}

func (s *SinkRecorder) NotifyEmployeeLatePunch(_ context.Context, emp employee.Employee, rec record.DailyRecord, slotName string) error {
	return s.record(SinkCall{Kind: "late_punch", RecipientID: emp.ID, RecordID: rec.ID, Slots: []string{slotName}})
}

func (s *SinkRecorder) NotifyManagerNoRecord(_ context.Context, leaderID string, emp employee.Employee, _ time.Time) error {
	return s.record(SinkCall{Kind: "no_record", RecipientID: leaderID, Detail: emp.ID})
}

func (s *SinkRecorder) NotifyManagerWeeklySummary(_ context.Context, leaderID string, _, _ time.Time, records []record.DailyRecord) error {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return s.record(SinkCall{Kind: "weekly_summary", RecipientID: leaderID, Slots: ids})
}

func (s *SinkRecorder) NotifyJustificationOutcome(_ context.Context, emp employee.Employee, rec record.DailyRecord, _, status, _ string) error {
	return s.record(SinkCall{Kind: "justification_outcome", RecipientID: emp.ID, RecordID: rec.ID, Detail: status})
}

func (s *SinkRecorder) NotifyAdjustmentOutcome(_ context.Context, emp employee.Employee, rec record.DailyRecord, status, _ string) error {
	return s.record(SinkCall{Kind: "adjustment_outcome", RecipientID: emp.ID, RecordID: rec.ID, Detail: status})
}
