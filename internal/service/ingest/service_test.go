package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/audit"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punchsource"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
	"github.com/pontocerto/ponto-backend-go/internal/repository/memory"
)

type stubSource struct {
	punches []punchsource.PunchPair
	err     error
}

func (s *stubSource) FetchEmployees(_ context.Context) ([]punchsource.ExternalEmployee, error) {
	return nil, nil
}

func (s *stubSource) FetchPunches(_ context.Context, _, _ time.Time) ([]punchsource.PunchPair, error) {
	return s.punches, s.err
}

func strPtr(s string) *string { return &s }

var monday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func engineCfg() config.EngineConfig {
	return config.EngineConfig{
		ToleranceMinutes:      10,
		AlertThresholdMinutes: 11,
		SaturdayMinutes:       240,
		LateStartCutoff:       "10:00",
		EveningCutoff:         "17:00",
		UTCOffsetHours:        -3,
	}
}

// millis renders a local "HH:MM" on the given date as epoch milliseconds in
// the engine's fixed UTC-3 offset.
func millis(date time.Time, clock string) int64 {
	parsed, _ := time.Parse("15:04", clock)
	loc := time.FixedZone("", -3*3600)
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc).UnixMilli()
}

func pair(extID, name string, date time.Time, in string, out *string) punchsource.PunchPair {
	p := punchsource.PunchPair{
		ExternalEmployeeID: extID,
		EmployeeName:       name,
		Date:               date,
		DateIn:             millis(date, in),
	}
	if out != nil {
		o := millis(date, *out)
		p.DateOut = &o
	}
	return p
}

func newFixture(punches []punchsource.PunchPair, employees ...employee.Employee) (*Service, *memory.RecordStore, *memory.EmployeeStore, *memory.AuditStore, *memory.SinkRecorder) {
	employeeStore := memory.NewEmployeeStore(employees...)
	recordStore := memory.NewRecordStore(employeeStore)
	auditStore := memory.NewAuditStore()
	sink := memory.NewSinkRecorder()
	cal := workcal.New(-3, nil)

	svc := NewService(&stubSource{punches: punches}, employeeStore, recordStore, auditStore, sink, cal, engineCfg())
	return svc, recordStore, employeeStore, auditStore, sink
}

func TestRun_FullWeekday(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", FullName: "Ana Souza", ExternalID: strPtr("ext-1"), LeaderID: "lead-1"}
	punches := []punchsource.PunchPair{
		pair("ext-1", "Ana Souza", monday, "08:00", strPtr("12:00")),
		pair("ext-1", "Ana Souza", monday, "14:00", strPtr("18:05")),
	}
	svc, records, _, _, sink := newFixture(punches, emp)

	require.NoError(t, svc.Run(context.Background(), monday))

	rec, err := records.GetByEmployeeAndDate(context.Background(), "emp-1", monday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "08:00", *rec.Punch1)
	assert.Equal(t, "12:00", *rec.Punch2)
	assert.Equal(t, "14:00", *rec.Punch3)
	assert.Equal(t, "18:05", *rec.Punch4)
	require.NotNil(t, rec.TotalWorkedMinutes)
	assert.Equal(t, 485, *rec.TotalWorkedMinutes)
	assert.Equal(t, 5, *rec.DifferenceMinutes)
	assert.Equal(t, record.ClassificationNormal, *rec.Classification)

	// Within tolerance: no alert.
	assert.Empty(t, sink.Calls())
	assert.False(t, rec.AlertSent)
}

func TestRun_DeviationAlertFiresOnce(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", FullName: "Ana Souza", ExternalID: strPtr("ext-1"), LeaderID: "lead-1"}
	punches := []punchsource.PunchPair{
		pair("ext-1", "Ana Souza", monday, "08:00", strPtr("12:00")),
		pair("ext-1", "Ana Souza", monday, "14:00", strPtr("18:20")),
	}
	svc, records, _, _, sink := newFixture(punches, emp)

	require.NoError(t, svc.Run(context.Background(), monday))
	require.Len(t, sink.CallsOfKind("deviation"), 1)

	rec, err := records.GetByEmployeeAndDate(context.Background(), "emp-1", monday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, record.ClassificationOvertime, *rec.Classification)
	assert.True(t, rec.AlertSent)

	// A second run for the same day must not re-alert and must converge on
	// the identical record.
	require.NoError(t, svc.Run(context.Background(), monday))
	assert.Len(t, sink.CallsOfKind("deviation"), 1)

	rerun, err := records.GetByEmployeeAndDate(context.Background(), "emp-1", monday)
	require.NoError(t, err)
	require.NotNil(t, rerun)
	assert.Equal(t, rec.ID, rerun.ID)
	assert.Equal(t, rec.Punch1, rerun.Punch1)
	assert.Equal(t, rec.Punch2, rerun.Punch2)
	assert.Equal(t, rec.Punch3, rerun.Punch3)
	assert.Equal(t, rec.Punch4, rerun.Punch4)
	assert.Equal(t, rec.TotalWorkedMinutes, rerun.TotalWorkedMinutes)
	assert.Equal(t, rec.DifferenceMinutes, rerun.DifferenceMinutes)
	assert.Equal(t, rec.Classification, rerun.Classification)
	assert.True(t, rerun.AlertSent)
}

func TestRun_UnmatchedEmployeeSkipped(t *testing.T) {
	punches := []punchsource.PunchPair{
		pair("ext-9", "Desconhecido", monday, "08:00", strPtr("12:00")),
	}
	svc, records, _, _, sink := newFixture(punches)

	require.NoError(t, svc.Run(context.Background(), monday))

	all, err := records.GetByDate(context.Background(), monday)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, sink.Calls())
}

func TestRun_NameMatchBackfillsExternalID(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", FullName: "Ana Souza", LeaderID: "lead-1"}
	punches := []punchsource.PunchPair{
		pair("ext-1", "ana souza", monday, "08:00", strPtr("12:00")),
	}
	svc, _, employees, auditStore, _ := newFixture(punches, emp)

	require.NoError(t, svc.Run(context.Background(), monday))

	linked, err := employees.GetByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	require.NotNil(t, linked)
	assert.Equal(t, "emp-1", linked.ID)
	assert.Contains(t, auditStore.Actions(), audit.ActionEmployeeLinked)
}

func TestRun_PairsSortedByEntryTime(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", FullName: "Ana Souza", ExternalID: strPtr("ext-1"), LeaderID: "lead-1"}
	// Afternoon pair delivered first.
	punches := []punchsource.PunchPair{
		pair("ext-1", "Ana Souza", monday, "14:00", strPtr("18:00")),
		pair("ext-1", "Ana Souza", monday, "08:00", strPtr("12:00")),
	}
	svc, records, _, _, _ := newFixture(punches, emp)

	require.NoError(t, svc.Run(context.Background(), monday))

	rec, err := records.GetByEmployeeAndDate(context.Background(), "emp-1", monday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "08:00", *rec.Punch1)
	assert.Equal(t, "14:00", *rec.Punch3)
}

func TestRun_OpenPairLeavesExitEmpty(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", FullName: "Ana Souza", ExternalID: strPtr("ext-1"), LeaderID: "lead-1"}
	punches := []punchsource.PunchPair{
		pair("ext-1", "Ana Souza", monday, "08:00", strPtr("12:00")),
		pair("ext-1", "Ana Souza", monday, "14:00", nil),
	}
	svc, records, _, _, _ := newFixture(punches, emp)

	require.NoError(t, svc.Run(context.Background(), monday))

	rec, err := records.GetByEmployeeAndDate(context.Background(), "emp-1", monday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "14:00", *rec.Punch3)
	assert.Nil(t, rec.Punch4)
	// Incomplete day: derived fields stay empty.
	assert.Nil(t, rec.TotalWorkedMinutes)
	assert.Nil(t, rec.Classification)
}

func TestRun_FetchFailureIsAudited(t *testing.T) {
	employeeStore := memory.NewEmployeeStore()
	recordStore := memory.NewRecordStore(employeeStore)
	auditStore := memory.NewAuditStore()
	svc := NewService(&stubSource{err: errors.New("provider down")}, employeeStore, recordStore, auditStore, nil, workcal.New(-3, nil), engineCfg())

	err := svc.Run(context.Background(), monday)
	require.Error(t, err)
	assert.Contains(t, auditStore.Actions(), audit.ActionIngestRunFailed)
}

func TestRun_NoSinkStillSetsGuard(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", FullName: "Ana Souza", ExternalID: strPtr("ext-1"), LeaderID: "lead-1"}
	punches := []punchsource.PunchPair{
		pair("ext-1", "Ana Souza", monday, "08:00", strPtr("12:00")),
		pair("ext-1", "Ana Souza", monday, "14:00", strPtr("18:20")),
	}
	employeeStore := memory.NewEmployeeStore(emp)
	recordStore := memory.NewRecordStore(employeeStore)
	svc := NewService(&stubSource{punches: punches}, employeeStore, recordStore, memory.NewAuditStore(), nil, workcal.New(-3, nil), engineCfg())

	require.NoError(t, svc.Run(context.Background(), monday))

	rec, err := recordStore.GetByEmployeeAndDate(context.Background(), "emp-1", monday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.AlertSent)
}
