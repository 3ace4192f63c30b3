package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/audit"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
	"github.com/pontocerto/ponto-backend-go/internal/repository/memory"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

var (
	monday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
)

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

type fixture struct {
	svc       *Service
	employees *memory.EmployeeStore
	records   *memory.RecordStore
	audits    *memory.AuditStore
	sink      *memory.SinkRecorder
}

func newFixture(employees ...employee.Employee) fixture {
	employeeStore := memory.NewEmployeeStore(employees...)
	leaderStore := memory.NewLeaderStore(employee.Leader{ID: "lead-1", FullName: "Carla Lima"})
	recordStore := memory.NewRecordStore(employeeStore)
	auditStore := memory.NewAuditStore()
	sink := memory.NewSinkRecorder()
	cal := workcal.New(-3, nil)

	svc := NewService(employeeStore, leaderStore, recordStore, auditStore, sink, cal, engineCfg())
	return fixture{svc: svc, employees: employeeStore, records: recordStore, audits: auditStore, sink: sink}
}

func (f fixture) seedRecord(t *testing.T, rec record.DailyRecord) record.DailyRecord {
	t.Helper()
	saved, err := f.records.Upsert(context.Background(), rec)
	require.NoError(t, err)
	return saved
}

func (f fixture) reload(t *testing.T, employeeID string, date time.Time) record.DailyRecord {
	t.Helper()
	rec, err := f.records.GetByEmployeeAndDate(context.Background(), employeeID, date)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return *rec
}

func worker() employee.Employee {
	return employee.Employee{ID: "emp-1", FullName: "Ana Souza", LeaderID: "lead-1"}
}

func TestRun_NoRecordGoesToManagerOnce(t *testing.T) {
	f := newFixture(worker())

	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec := f.reload(t, "emp-1", monday)
	require.NotNil(t, rec.Classification)
	assert.Equal(t, record.ClassificationSemRegistro, *rec.Classification)
	assert.True(t, rec.ManagerAlertSent)

	calls := f.sink.CallsOfKind("no_record")
	require.Len(t, calls, 1)
	assert.Equal(t, "lead-1", calls[0].RecipientID)

	// Second pass: record already flagged, manager not pinged again.
	require.NoError(t, f.svc.Run(context.Background(), monday))
	assert.Len(t, f.sink.CallsOfKind("no_record"), 1)
}

func TestRun_ManagerDecisionSurvivesRerun(t *testing.T) {
	f := newFixture(worker())

	require.NoError(t, f.svc.Run(context.Background(), monday))
	rec := f.reload(t, "emp-1", monday)
	require.NotNil(t, rec.Classification)
	require.Equal(t, record.ClassificationSemRegistro, *rec.Classification)

	// The leader resolves the day as folga.
	require.NoError(t, f.records.SetClassification(context.Background(), rec.ID, record.ClassificationFolga))

	// A later re-run must not reopen the decided day.
	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec = f.reload(t, "emp-1", monday)
	require.NotNil(t, rec.Classification)
	assert.Equal(t, record.ClassificationFolga, *rec.Classification)
	assert.Len(t, f.sink.CallsOfKind("no_record"), 1)
}

func TestRun_PartialPunchesBecomeAjuste(t *testing.T) {
	f := newFixture(worker())
	f.seedRecord(t, record.DailyRecord{
		EmployeeID: "emp-1",
		Date:       monday,
		Punch1:     strPtr("08:00"),
		Punch2:     strPtr("12:00"),
		Punch4:     strPtr("18:00"),
	})

	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec := f.reload(t, "emp-1", monday)
	assert.Equal(t, record.ClassificationAjuste, *rec.Classification)
	assert.True(t, rec.AlertSent)

	calls := f.sink.CallsOfKind("missing_punch")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"Retorno"}, calls[0].Slots)
}

func TestRun_LateFirstPunchFlagged(t *testing.T) {
	f := newFixture(worker())
	f.seedRecord(t, record.DailyRecord{
		EmployeeID: "emp-1",
		Date:       monday,
		Punch1:     strPtr("10:30"),
		Punch2:     strPtr("12:00"),
		Punch3:     strPtr("14:00"),
		Punch4:     strPtr("18:00"),
	})

	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec := f.reload(t, "emp-1", monday)
	assert.Equal(t, record.ClassificationAjuste, *rec.Classification)
	assert.Len(t, f.sink.CallsOfKind("late_start"), 1)
}

func TestRun_ApprenticeLateStartAllowed(t *testing.T) {
	apprentice := employee.Employee{ID: "emp-2", FullName: "João Prado", LeaderID: "lead-1", IsApprentice: true}
	f := newFixture(apprentice)
	normal := record.ClassificationNormal
	f.seedRecord(t, record.DailyRecord{
		EmployeeID:         "emp-2",
		Date:               monday,
		Punch1:             strPtr("13:00"),
		Punch2:             strPtr("17:05"),
		TotalWorkedMinutes: intPtr(245),
		DifferenceMinutes:  intPtr(5),
		Classification:     &normal,
	})

	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec := f.reload(t, "emp-2", monday)
	assert.Equal(t, record.ClassificationNormal, *rec.Classification)
	assert.Empty(t, f.sink.Calls())
}

func TestRun_EveningNonFinalPunchFlagged(t *testing.T) {
	f := newFixture(worker())
	f.seedRecord(t, record.DailyRecord{
		EmployeeID: "emp-1",
		Date:       monday,
		Punch1:     strPtr("08:00"),
		Punch2:     strPtr("12:00"),
		Punch3:     strPtr("17:30"),
		Punch4:     strPtr("21:00"),
	})

	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec := f.reload(t, "emp-1", monday)
	assert.Equal(t, record.ClassificationAjuste, *rec.Classification)

	calls := f.sink.CallsOfKind("late_punch")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"Retorno"}, calls[0].Slots)
}

func TestRun_CompleteNormalDayStands(t *testing.T) {
	f := newFixture(worker())
	normal := record.ClassificationNormal
	f.seedRecord(t, record.DailyRecord{
		EmployeeID:         "emp-1",
		Date:               monday,
		Punch1:             strPtr("08:00"),
		Punch2:             strPtr("12:00"),
		Punch3:             strPtr("14:00"),
		Punch4:             strPtr("18:05"),
		TotalWorkedMinutes: intPtr(485),
		DifferenceMinutes:  intPtr(5),
		Classification:     &normal,
	})

	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec := f.reload(t, "emp-1", monday)
	assert.Equal(t, record.ClassificationNormal, *rec.Classification)
	assert.Empty(t, f.sink.Calls())
	assert.NotContains(t, f.audits.Actions(), audit.ActionReconcileFinalized)
}

func TestRun_RestDayRecordBecomesFolga(t *testing.T) {
	f := newFixture(worker())
	f.seedRecord(t, record.DailyRecord{EmployeeID: "emp-1", Date: sunday})

	require.NoError(t, f.svc.Run(context.Background(), sunday))

	rec := f.reload(t, "emp-1", sunday)
	assert.Equal(t, record.ClassificationFolga, *rec.Classification)
	assert.Empty(t, f.sink.Calls())
}

func TestRun_NoPunchRequiredSkipped(t *testing.T) {
	exempt := worker()
	exempt.NoPunchRequired = true
	f := newFixture(exempt)

	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec, err := f.records.GetByEmployeeAndDate(context.Background(), "emp-1", monday)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, f.sink.Calls())
}

func TestRun_EmployeeAlertGuardRespected(t *testing.T) {
	f := newFixture(worker())
	seeded := f.seedRecord(t, record.DailyRecord{
		EmployeeID: "emp-1",
		Date:       monday,
		Punch1:     strPtr("08:00"),
		Punch2:     strPtr("12:00"),
	})
	require.NoError(t, f.records.MarkAlertSent(context.Background(), seeded.ID))

	require.NoError(t, f.svc.Run(context.Background(), monday))

	rec := f.reload(t, "emp-1", monday)
	assert.Equal(t, record.ClassificationAjuste, *rec.Classification)
	assert.Empty(t, f.sink.CallsOfKind("missing_punch"))
}

func TestRunWeekly_OnlyDeviationsSummarized(t *testing.T) {
	f := newFixture(worker())
	late := record.ClassificationLate
	normal := record.ClassificationNormal
	ajuste := record.ClassificationAjuste

	f.seedRecord(t, record.DailyRecord{
		EmployeeID: "emp-1", Date: monday,
		DifferenceMinutes: intPtr(-20), Classification: &late,
	})
	f.seedRecord(t, record.DailyRecord{
		EmployeeID: "emp-1", Date: monday.AddDate(0, 0, 1),
		DifferenceMinutes: intPtr(3), Classification: &normal,
	})
	f.seedRecord(t, record.DailyRecord{
		EmployeeID: "emp-1", Date: monday.AddDate(0, 0, 2),
		Classification: &ajuste,
	})

	require.NoError(t, f.svc.RunWeekly(context.Background(), monday, monday.AddDate(0, 0, 5)))

	calls := f.sink.CallsOfKind("weekly_summary")
	require.Len(t, calls, 1)
	assert.Equal(t, "lead-1", calls[0].RecipientID)
	assert.Len(t, calls[0].Slots, 1)
	assert.Contains(t, f.audits.Actions(), audit.ActionWeeklySummarySent)
}

func TestRunWeekly_QuietWeekSendsNothing(t *testing.T) {
	f := newFixture(worker())
	normal := record.ClassificationNormal
	f.seedRecord(t, record.DailyRecord{
		EmployeeID: "emp-1", Date: monday,
		DifferenceMinutes: intPtr(0), Classification: &normal,
	})

	require.NoError(t, f.svc.RunWeekly(context.Background(), monday, monday.AddDate(0, 0, 5)))
	assert.Empty(t, f.sink.Calls())
}
