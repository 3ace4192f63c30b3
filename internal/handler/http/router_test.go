package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/notification"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/jwt"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
	"github.com/pontocerto/ponto-backend-go/internal/repository/memory"
	approvalService "github.com/pontocerto/ponto-backend-go/internal/service/approval"
	notificationService "github.com/pontocerto/ponto-backend-go/internal/service/notification"
)

const routerTestSecret = "test-secret-key-for-jwt"

type routerFixture struct {
	server        *httptest.Server
	jwtSvc        jwt.Service
	employees     *memory.EmployeeStore
	records       *memory.RecordStore
	audits        *memory.AuditStore
	notifications *memory.NotificationStore
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()

	employeeStore := memory.NewEmployeeStore(employee.Employee{
		ID:                   "emp-1",
		FullName:             "Ana Souza",
		LeaderID:             "lead-1",
		ExpectedDailyMinutes: 480,
		WorksSaturday:        true,
	})
	recordStore := memory.NewRecordStore(employeeStore)
	justificationStore := memory.NewJustificationStore(employeeStore)
	adjustmentStore := memory.NewAdjustmentStore(employeeStore)
	auditStore := memory.NewAuditStore()
	notificationStore := memory.NewNotificationStore()

	notifSvc := notificationService.NewNotificationService(notificationStore, notificationService.Config{WorkerCount: 1})
	t.Cleanup(notifSvc.Stop)

	cal := workcal.New(-3, nil)
	engineCfg := config.EngineConfig{
		ToleranceMinutes:      10,
		AlertThresholdMinutes: 11,
		SaturdayMinutes:       240,
		LateStartCutoff:       "10:00",
		EveningCutoff:         "17:00",
		UTCOffsetHours:        -3,
	}
	approvalSvc := approvalService.NewService(
		nil, justificationStore, adjustmentStore, recordStore, employeeStore, auditStore, notifSvc, cal, engineCfg)

	jwtSvc := jwt.NewJWTService(routerTestSecret, "1h")
	router := NewRouter(config.AppConfig{Env: "test"}, jwtSvc, Handlers{
		Records:       NewRecordHandler(recordStore, approvalSvc),
		Approvals:     NewApprovalHandler(approvalSvc),
		Notifications: NewNotificationHandler(notifSvc),
		Employees:     NewEmployeeHandler(employeeStore),
		Audit:         NewAuditHandler(auditStore),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return routerFixture{
		server:        server,
		jwtSvc:        jwtSvc,
		employees:     employeeStore,
		records:       recordStore,
		audits:        auditStore,
		notifications: notificationStore,
	}
}

func (f routerFixture) token(t *testing.T, subjectID string, role jwt.Role) string {
	t.Helper()
	token, _, err := f.jwtSvc.GenerateAccessToken(subjectID, role)
	require.NoError(t, err)
	return token
}

func (f routerFixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func (f routerFixture) seedRecord(t *testing.T, rec record.DailyRecord) record.DailyRecord {
	t.Helper()
	saved, err := f.records.Upsert(context.Background(), rec)
	require.NoError(t, err)
	return saved
}

func testStrPtr(s string) *string { return &s }

func testClassPtr(c record.Classification) *record.Classification { return &c }

func TestRouter_MissingTokenRejected(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.do(t, http.MethodGet, "/api/v1/records/some-id", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_EmployeeCannotListAllRecords(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, "emp-1", jwt.RoleEmployee)

	resp := f.do(t, http.MethodGet, "/api/v1/records?date=2025-03-10", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_AdminListsRecordsByDate(t *testing.T) {
	f := newRouterFixture(t)
	f.seedRecord(t, record.DailyRecord{
		EmployeeID:     "emp-1",
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Punch1:         testStrPtr("08:00"),
		Classification: testClassPtr(record.ClassificationAjuste),
	})
	token := f.token(t, "admin-1", jwt.RoleAdmin)

	resp := f.do(t, http.MethodGet, "/api/v1/records?date=2025-03-10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	records, ok := envelope["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, records, 1)
	first := records[0].(map[string]interface{})
	assert.Equal(t, "emp-1", first["employee_id"])
	assert.Equal(t, "2025-03-10", first["date"])
}

func TestRouter_JustificationLifecycle(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.seedRecord(t, record.DailyRecord{
		EmployeeID:     "emp-1",
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Punch1:         testStrPtr("08:40"),
		Punch2:         testStrPtr("12:00"),
		Punch3:         testStrPtr("13:00"),
		Punch4:         testStrPtr("18:00"),
		Classification: testClassPtr(record.ClassificationLate),
	})

	employeeToken := f.token(t, "emp-1", jwt.RoleEmployee)
	leaderToken := f.token(t, "lead-1", jwt.RoleLeader)

	resp := f.do(t, http.MethodPost, "/api/v1/justifications", employeeToken, map[string]string{
		"record_id": rec.ID,
		"type":      "late",
		"reason":    "Consulta médica pela manhã",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeEnvelope(t, resp)["data"].(map[string]interface{})
	justificationID := created["id"].(string)
	assert.Equal(t, "pending", created["status"])

	// The employee cannot see the review queue.
	resp = f.do(t, http.MethodGet, "/api/v1/justifications/pending", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/justifications/pending", leaderToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pending := decodeEnvelope(t, resp)["data"].([]interface{})
	require.Len(t, pending, 1)

	// Approval without a comment is rejected.
	resp = f.do(t, http.MethodPost, "/api/v1/justifications/"+justificationID+"/approve", leaderToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/v1/justifications/"+justificationID+"/approve", leaderToken, map[string]string{
		"comment": "Atestado recebido",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/justifications/pending", leaderToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pending = decodeEnvelope(t, resp)["data"].([]interface{})
	assert.Empty(t, pending)
}

func TestRouter_ManagerDecisionOnNoRecordDay(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.seedRecord(t, record.DailyRecord{
		EmployeeID:     "emp-1",
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Classification: testClassPtr(record.ClassificationSemRegistro),
	})
	leaderToken := f.token(t, "lead-1", jwt.RoleLeader)

	resp := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/records/%s/decision", rec.ID), leaderToken, map[string]string{
		"decision": "falta",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/records/"+rec.ID, leaderToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeEnvelope(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "falta", data["classification"])
}

func TestRouter_DecisionRequiresLeaderRole(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.seedRecord(t, record.DailyRecord{
		EmployeeID:     "emp-1",
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Classification: testClassPtr(record.ClassificationSemRegistro),
	})
	employeeToken := f.token(t, "emp-1", jwt.RoleEmployee)

	resp := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/records/%s/decision", rec.ID), employeeToken, map[string]string{
		"decision": "falta",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_NotificationListCarriesPaginationMeta(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.notifications.Create(context.Background(), &notification.Notification{
		ID:          "notif-1",
		RecipientID: "emp-1",
		Recipient:   notification.RecipientEmployee,
		Title:       "Divergência de jornada",
		CreatedAt:   time.Now().UTC(),
	}))
	token := f.token(t, "emp-1", jwt.RoleEmployee)

	resp := f.do(t, http.MethodGet, "/api/v1/notifications?page=1&page_size=10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].([]interface{})
	require.Len(t, data, 1)

	meta, ok := envelope["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(10), meta["limit"])
	assert.Equal(t, float64(1), meta["total_items"])
	assert.Equal(t, float64(1), meta["total_pages"])
}

func TestRouter_NotificationsScopedToSubject(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, "emp-1", jwt.RoleEmployee)

	resp := f.do(t, http.MethodGet, "/api/v1/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeEnvelope(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["unread_count"])
}
