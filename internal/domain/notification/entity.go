package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeEmployeeDeviation    NotificationType = "employee_deviation"
	TypeEmployeeMissingPunch NotificationType = "employee_missing_punch"
	TypeEmployeeLateStart    NotificationType = "employee_late_start"
	TypeEmployeeLatePunch    NotificationType = "employee_late_punch"
	TypeManagerNoRecord      NotificationType = "manager_no_record"
	TypeManagerWeeklySummary NotificationType = "manager_weekly_summary"
	TypeJustificationOutcome NotificationType = "justification_outcome"
	TypeAdjustmentOutcome    NotificationType = "adjustment_outcome"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeEmployeeDeviation,
		TypeEmployeeMissingPunch,
		TypeEmployeeLateStart,
		TypeEmployeeLatePunch,
		TypeManagerNoRecord,
		TypeManagerWeeklySummary,
		TypeJustificationOutcome,
		TypeAdjustmentOutcome,
	}
}

// Notification is a persisted, queued message for an employee or a leader.
// Delivery is best-effort; the engine never depends on it for correctness.
type Notification struct {
	ID          string
	RecipientID string
	Recipient   RecipientKind
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// RecipientKind distinguishes employee-facing from leader-facing messages.
type RecipientKind string

const (
	RecipientEmployee RecipientKind = "employee"
	RecipientLeader   RecipientKind = "leader"
)
