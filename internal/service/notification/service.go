// Package notification persists queued messages for employees and leaders.
// Writes go through a small worker pool that batches inserts; the rest of
// the engine only sees the Sink interface and never blocks on delivery.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/notification"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type Service struct {
	repo   notification.Repository
	config Config

	queue  chan notification.CreateNotificationRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService creates a notification service with background
// workers. The returned value also implements notification.Sink.
func NewNotificationService(repo notification.Repository, cfg Config) *Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &Service{
		repo:   repo,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("NotificationService: started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

// worker drains the queue into batched inserts.
func (s *Service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = newNotification(req)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("NotificationWorker: batch insert failed", "worker", id, "count", len(notifications), "error", err)
		} else {
			slog.Debug("NotificationWorker: inserted batch", "worker", id, "count", len(notifications))
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			flush()
			return
		}
	}
}

func newNotification(req notification.CreateNotificationRequest) *notification.Notification {
	return &notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: req.RecipientID,
		Recipient:   req.Recipient,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
}

// QueueNotification queues a notification for async processing. When the
// queue is full it falls back to a direct insert.
func (s *Service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return s.repo.Create(ctx, newNotification(req))
	}
}

// GetNotifications retrieves paginated notifications for a recipient
func (s *Service) GetNotifications(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByRecipient(ctx, recipientID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

// MarkAsRead marks specified notifications as read
func (s *Service) MarkAsRead(ctx context.Context, recipientID string, req notification.MarkAsReadRequest) error {
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, recipientID)
}

// Stop gracefully stops the notification service
func (s *Service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("NotificationService: stopped")
}

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// ========================================
// SINK
// ========================================

func (s *Service) NotifyEmployeeDeviation(ctx context.Context, emp employee.Employee, rec record.DailyRecord) error {
	diff := 0
	if rec.DifferenceMinutes != nil {
		diff = *rec.DifferenceMinutes
	}
	direction := "acima"
	if diff < 0 {
		direction = "abaixo"
	}
	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: emp.ID,
		Recipient:   notification.RecipientEmployee,
		Type:        notification.TypeEmployeeDeviation,
		Title:       "Divergência de jornada",
		Message: fmt.Sprintf("Sua jornada de %s ficou %d minutos %s do esperado. Envie uma justificativa, se necessário.",
			rec.Date.Format("02/01/2006"), absInt(diff), direction),
		Data: recordData(rec),
	})
}

func (s *Service) NotifyEmployeeMissingPunch(ctx context.Context, emp employee.Employee, rec record.DailyRecord, missingSlots []string) error {
	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: emp.ID,
		Recipient:   notification.RecipientEmployee,
		Type:        notification.TypeEmployeeMissingPunch,
		Title:       "Registro de ponto incompleto",
		Message: fmt.Sprintf("Faltam marcações em %s no dia %s. Solicite um ajuste de ponto.",
			strings.Join(missingSlots, ", "), rec.Date.Format("02/01/2006")),
		Data: withSlots(recordData(rec), missingSlots),
	})
}

func (s *Service) NotifyEmployeeLateStart(ctx context.Context, emp employee.Employee, rec record.DailyRecord) error {
	first := ""
	if rec.Punch1 != nil {
		first = *rec.Punch1
	}
	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: emp.ID,
		Recipient:   notification.RecipientEmployee,
		Type:        notification.TypeEmployeeLateStart,
		Title:       "Primeira marcação tardia",
		Message: fmt.Sprintf("Sua primeira marcação no dia %s foi às %s. Confirme se o registro está correto e solicite um ajuste, se necessário.",
			rec.Date.Format("02/01/2006"), first),
		Data: recordData(rec),
	})
}

func (s *Service) NotifyEmployeeLatePunch(ctx context.Context, emp employee.Employee, rec record.DailyRecord, slotName string) error {
	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: emp.ID,
		Recipient:   notification.RecipientEmployee,
		Type:        notification.TypeEmployeeLatePunch,
		Title:       "Marcação fora do horário habitual",
		Message: fmt.Sprintf("A marcação de %s no dia %s parece fora do horário habitual. Solicite um ajuste, se necessário.",
			slotName, rec.Date.Format("02/01/2006")),
		Data: withSlots(recordData(rec), []string{slotName}),
	})
}

func (s *Service) NotifyManagerNoRecord(ctx context.Context, leaderID string, emp employee.Employee, date time.Time) error {
	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: leaderID,
		Recipient:   notification.RecipientLeader,
		Type:        notification.TypeManagerNoRecord,
		Title:       "Dia sem registro de ponto",
		Message: fmt.Sprintf("%s não registrou ponto no dia %s. Classifique o dia como folga ou falta.",
			emp.FullName, date.Format("02/01/2006")),
		Data: map[string]interface{}{
			"employee_id": emp.ID,
			"date":        date.Format("2006-01-02"),
		},
	})
}

func (s *Service) NotifyManagerWeeklySummary(ctx context.Context, leaderID string, start, end time.Time, records []record.DailyRecord) error {
	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: leaderID,
		Recipient:   notification.RecipientLeader,
		Type:        notification.TypeManagerWeeklySummary,
		Title:       "Resumo semanal de divergências",
		Message: fmt.Sprintf("Sua equipe teve %d registro(s) com divergência entre %s e %s.",
			len(records), start.Format("02/01/2006"), end.Format("02/01/2006")),
		Data: map[string]interface{}{
			"week_start": start.Format("2006-01-02"),
			"week_end":   end.Format("2006-01-02"),
			"record_ids": recordIDs(records),
		},
	})
}

func (s *Service) NotifyJustificationOutcome(ctx context.Context, emp employee.Employee, rec record.DailyRecord, justificationType, status, reviewerComment string) error {
	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: emp.ID,
		Recipient:   notification.RecipientEmployee,
		Type:        notification.TypeJustificationOutcome,
		Title:       "Justificativa " + outcomeWord(status),
		Message: fmt.Sprintf("Sua justificativa de %s para o dia %s foi %s. Comentário: %s",
			justificationType, rec.Date.Format("02/01/2006"), outcomeWord(status), reviewerComment),
		Data: recordData(rec),
	})
}

func (s *Service) NotifyAdjustmentOutcome(ctx context.Context, emp employee.Employee, rec record.DailyRecord, status, reviewerComment string) error {
	message := fmt.Sprintf("Sua solicitação de ajuste para o dia %s foi %s.",
		rec.Date.Format("02/01/2006"), outcomeWord(status))
	if strings.TrimSpace(reviewerComment) != "" {
		message += " Comentário: " + reviewerComment
	}
	return s.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: emp.ID,
		Recipient:   notification.RecipientEmployee,
		Type:        notification.TypeAdjustmentOutcome,
		Title:       "Ajuste de ponto " + outcomeWord(status),
		Message:     message,
		Data:        recordData(rec),
	})
}

func outcomeWord(status string) string {
	if status == "approved" {
		return "aprovada"
	}
	return "recusada"
}

func recordData(rec record.DailyRecord) map[string]interface{} {
	return map[string]interface{}{
		"record_id": rec.ID,
		"date":      rec.Date.Format("2006-01-02"),
	}
}

func withSlots(data map[string]interface{}, slots []string) map[string]interface{} {
	data["slots"] = slots
	return data
}

func recordIDs(records []record.DailyRecord) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
