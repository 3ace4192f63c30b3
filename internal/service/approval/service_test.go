package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/adjustment"
	"github.com/pontocerto/ponto-backend-go/internal/domain/audit"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/justification"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
	"github.com/pontocerto/ponto-backend-go/internal/repository/memory"
)

func strPtr(s string) *string { return &s }

var monday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	records *memory.RecordStore
	audits  *memory.AuditStore
	sink    *memory.SinkRecorder
}

func newFixture(t *testing.T) (fixture, record.DailyRecord) {
	t.Helper()

	employeeStore := memory.NewEmployeeStore(employee.Employee{
		ID: "emp-1", FullName: "Ana Souza", LeaderID: "lead-1",
	})
	recordStore := memory.NewRecordStore(employeeStore)
	auditStore := memory.NewAuditStore()
	sink := memory.NewSinkRecorder()

	svc := NewService(
		nil,
		memory.NewJustificationStore(employeeStore),
		memory.NewAdjustmentStore(employeeStore),
		recordStore,
		employeeStore,
		auditStore,
		sink,
		workcal.New(-3, nil),
		config.EngineConfig{
			ToleranceMinutes:      10,
			AlertThresholdMinutes: 11,
			SaturdayMinutes:       240,
			LateStartCutoff:       "10:00",
			EveningCutoff:         "17:00",
		},
	)

	ajuste := record.ClassificationAjuste
	rec, err := recordStore.Upsert(context.Background(), record.DailyRecord{
		EmployeeID:     "emp-1",
		Date:           monday,
		Punch1:         strPtr("08:00"),
		Punch2:         strPtr("12:00"),
		Punch4:         strPtr("18:05"),
		Classification: &ajuste,
	})
	require.NoError(t, err)

	return fixture{svc: svc, records: recordStore, audits: auditStore, sink: sink}, rec
}

func createJustification(t *testing.T, f fixture, recordID string) justification.JustificationResponse {
	t.Helper()
	created, err := f.svc.CreateJustification(context.Background(), justification.CreateJustificationRequest{
		RecordID:   recordID,
		EmployeeID: "emp-1",
		Type:       "late",
		Reason:     "Consulta médica",
	})
	require.NoError(t, err)
	return created
}

func createAdjustment(t *testing.T, f fixture, recordID string) adjustment.AdjustmentResponse {
	t.Helper()
	created, err := f.svc.CreateAdjustment(context.Background(), adjustment.CreateAdjustmentRequest{
		RecordID:     recordID,
		EmployeeID:   "emp-1",
		Type:         "missing_punch",
		MissingSlots: []string{"Retorno"},
		Reason:       "Esqueci de registrar a volta do almoço",
	})
	require.NoError(t, err)
	return created
}

func TestCreateJustification_UnknownRecordRejected(t *testing.T) {
	f, _ := newFixture(t)

	_, err := f.svc.CreateJustification(context.Background(), justification.CreateJustificationRequest{
		RecordID:   "missing",
		EmployeeID: "emp-1",
		Type:       "late",
		Reason:     "qualquer",
	})
	assert.ErrorIs(t, err, record.ErrRecordNotFound)
}

func TestApproveJustification(t *testing.T) {
	f, rec := newFixture(t)
	created := createJustification(t, f, rec.ID)

	err := f.svc.ApproveJustification(context.Background(), justification.ReviewRequest{
		JustificationID: created.ID,
		ReviewerID:      "lead-1",
		Comment:         "Atestado recebido",
	})
	require.NoError(t, err)

	pending, err := f.svc.GetPendingJustifications(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Contains(t, f.audits.Actions(), audit.ActionJustificationReviewed)

	calls := f.sink.CallsOfKind("justification_outcome")
	require.Len(t, calls, 1)
	assert.Equal(t, "approved", calls[0].Detail)
}

func TestReviewJustification_CommentRequiredBothWays(t *testing.T) {
	f, rec := newFixture(t)
	created := createJustification(t, f, rec.ID)

	err := f.svc.ApproveJustification(context.Background(), justification.ReviewRequest{
		JustificationID: created.ID, ReviewerID: "lead-1", Comment: "  ",
	})
	assert.ErrorIs(t, err, justification.ErrCommentRequired)

	err = f.svc.RejectJustification(context.Background(), justification.ReviewRequest{
		JustificationID: created.ID, ReviewerID: "lead-1",
	})
	assert.ErrorIs(t, err, justification.ErrCommentRequired)
}

func TestReviewJustification_TerminalStatesAreFinal(t *testing.T) {
	f, rec := newFixture(t)
	created := createJustification(t, f, rec.ID)

	require.NoError(t, f.svc.RejectJustification(context.Background(), justification.ReviewRequest{
		JustificationID: created.ID, ReviewerID: "lead-1", Comment: "Sem comprovante",
	}))

	err := f.svc.ApproveJustification(context.Background(), justification.ReviewRequest{
		JustificationID: created.ID, ReviewerID: "lead-1", Comment: "Mudei de ideia",
	})
	assert.ErrorIs(t, err, justification.ErrAlreadyProcessed)
}

func TestApproveAdjustment_WritesRunInOneTransaction(t *testing.T) {
	f, rec := newFixture(t)
	created := createAdjustment(t, f, rec.ID)

	txCalls := 0
	f.svc.tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		txCalls++
		return fn(ctx)
	}

	err := f.svc.ApproveAdjustment(context.Background(), adjustment.ApproveRequest{
		AdjustmentID: created.ID,
		ReviewerID:   "lead-1",
		Punch3:       strPtr("14:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, txCalls)
}

func TestApproveAdjustment_FailedTransactionChangesNothing(t *testing.T) {
	f, rec := newFixture(t)
	created := createAdjustment(t, f, rec.ID)

	f.svc.tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return errors.New("serialization failure")
	}

	err := f.svc.ApproveAdjustment(context.Background(), adjustment.ApproveRequest{
		AdjustmentID: created.ID,
		ReviewerID:   "lead-1",
		Punch3:       strPtr("14:00"),
	})
	require.Error(t, err)

	// Record untouched, request still pending, nobody notified.
	untouched, err := f.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.Punch3)
	assert.Equal(t, record.ClassificationAjuste, *untouched.Classification)

	pending, err := f.svc.GetPendingAdjustments(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Empty(t, f.sink.CallsOfKind("adjustment_outcome"))
}

func TestApproveAdjustment_MergesAndRecalculates(t *testing.T) {
	f, rec := newFixture(t)
	created := createAdjustment(t, f, rec.ID)

	err := f.svc.ApproveAdjustment(context.Background(), adjustment.ApproveRequest{
		AdjustmentID: created.ID,
		ReviewerID:   "lead-1",
		Punch3:       strPtr("14:00"),
	})
	require.NoError(t, err)

	updated, err := f.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "08:00", *updated.Punch1)
	assert.Equal(t, "14:00", *updated.Punch3)
	assert.Equal(t, "18:05", *updated.Punch4)
	require.NotNil(t, updated.TotalWorkedMinutes)
	assert.Equal(t, 485, *updated.TotalWorkedMinutes)
	assert.Equal(t, 5, *updated.DifferenceMinutes)
	assert.Equal(t, record.ClassificationNormal, *updated.Classification)

	assert.Contains(t, f.audits.Actions(), audit.ActionAdjustmentReviewed)

	calls := f.sink.CallsOfKind("adjustment_outcome")
	require.Len(t, calls, 1)
	assert.Equal(t, "approved", calls[0].Detail)
}

func TestApproveAdjustment_NeedsAtLeastOnePunch(t *testing.T) {
	f, rec := newFixture(t)
	created := createAdjustment(t, f, rec.ID)

	err := f.svc.ApproveAdjustment(context.Background(), adjustment.ApproveRequest{
		AdjustmentID: created.ID, ReviewerID: "lead-1",
	})
	assert.ErrorIs(t, err, adjustment.ErrNoCorrectedPunches)
}

func TestApproveAdjustment_RejectsBadClockValue(t *testing.T) {
	f, rec := newFixture(t)
	created := createAdjustment(t, f, rec.ID)

	err := f.svc.ApproveAdjustment(context.Background(), adjustment.ApproveRequest{
		AdjustmentID: created.ID, ReviewerID: "lead-1", Punch3: strPtr("25:00"),
	})
	require.Error(t, err)

	// The record must be untouched after a validation failure.
	untouched, err2 := f.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err2)
	assert.Nil(t, untouched.Punch3)
}

func TestRejectAdjustment(t *testing.T) {
	f, rec := newFixture(t)
	created := createAdjustment(t, f, rec.ID)

	err := f.svc.RejectAdjustment(context.Background(), adjustment.RejectRequest{
		AdjustmentID: created.ID, ReviewerID: "lead-1",
	})
	assert.ErrorIs(t, err, adjustment.ErrCommentRequired)

	require.NoError(t, f.svc.RejectAdjustment(context.Background(), adjustment.RejectRequest{
		AdjustmentID: created.ID, ReviewerID: "lead-1", Comment: "Horário não confere com a escala",
	}))

	untouched, err := f.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.Punch3)
	assert.Equal(t, record.ClassificationAjuste, *untouched.Classification)

	calls := f.sink.CallsOfKind("adjustment_outcome")
	require.Len(t, calls, 1)
	assert.Equal(t, "rejected", calls[0].Detail)
}

func TestRejectAdjustment_TerminalStatesAreFinal(t *testing.T) {
	f, rec := newFixture(t)
	created := createAdjustment(t, f, rec.ID)

	require.NoError(t, f.svc.RejectAdjustment(context.Background(), adjustment.RejectRequest{
		AdjustmentID: created.ID, ReviewerID: "lead-1", Comment: "Sem evidência",
	}))

	err := f.svc.ApproveAdjustment(context.Background(), adjustment.ApproveRequest{
		AdjustmentID: created.ID, ReviewerID: "lead-1", Punch3: strPtr("14:00"),
	})
	assert.ErrorIs(t, err, adjustment.ErrAlreadyProcessed)
}

func TestDecideNoRecord(t *testing.T) {
	f, rec := newFixture(t)

	// Not sem_registro yet.
	err := f.svc.DecideNoRecord(context.Background(), record.ManagerDecisionRequest{
		RecordID: rec.ID, Decision: "falta",
	}, "lead-1")
	assert.ErrorIs(t, err, record.ErrNotAwaitingDecision)

	require.NoError(t, f.records.SetClassification(context.Background(), rec.ID, record.ClassificationSemRegistro))

	require.NoError(t, f.svc.DecideNoRecord(context.Background(), record.ManagerDecisionRequest{
		RecordID: rec.ID, Decision: "falta",
	}, "lead-1"))

	updated, err := f.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ClassificationFalta, *updated.Classification)
	assert.Contains(t, f.audits.Actions(), audit.ActionManagerDecision)
}

func TestDecideNoRecord_OnlyFolgaOrFalta(t *testing.T) {
	f, rec := newFixture(t)
	require.NoError(t, f.records.SetClassification(context.Background(), rec.ID, record.ClassificationSemRegistro))

	err := f.svc.DecideNoRecord(context.Background(), record.ManagerDecisionRequest{
		RecordID: rec.ID, Decision: "normal",
	}, "lead-1")
	require.Error(t, err)
}
