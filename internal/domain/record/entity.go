package record

import (
	"time"
)

// Classification is the final outcome assigned to one employee-day.
type Classification string

const (
	ClassificationNormal      Classification = "normal"
	ClassificationLate        Classification = "late"
	ClassificationOvertime    Classification = "overtime"
	ClassificationAjuste      Classification = "ajuste"
	ClassificationFolga       Classification = "folga"
	ClassificationFalta       Classification = "falta"
	ClassificationSemRegistro Classification = "sem_registro"
)

// AllClassifications returns every valid classification value.
func AllClassifications() []Classification {
	return []Classification{
		ClassificationNormal,
		ClassificationLate,
		ClassificationOvertime,
		ClassificationAjuste,
		ClassificationFolga,
		ClassificationFalta,
		ClassificationSemRegistro,
	}
}

// IsValid reports whether c is one of the known classification values.
func (c Classification) IsValid() bool {
	switch c {
	case ClassificationNormal, ClassificationLate, ClassificationOvertime,
		ClassificationAjuste, ClassificationFolga, ClassificationFalta,
		ClassificationSemRegistro:
		return true
	}
	return false
}

// IsComputed reports whether c is produced by the hours calculation
// (as opposed to being asserted by the reconciler or a manager).
func (c Classification) IsComputed() bool {
	return c == ClassificationNormal || c == ClassificationLate || c == ClassificationOvertime
}

// DailyRecord is the reconciled punch state for one employee on one calendar
// date. There is at most one record per (employee, date). Punches are local
// wall-clock "HH:MM" strings; nil means the slot was never filled. Derived
// fields are nil whenever the punch set is incomplete for the day's required
// punch count.
type DailyRecord struct {
	ID         string
	EmployeeID string
	Date       time.Time

	Punch1 *string
	Punch2 *string
	Punch3 *string
	Punch4 *string

	TotalWorkedMinutes *int
	DifferenceMinutes  *int
	Classification     *Classification

	AlertSent        bool
	ManagerAlertSent bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for listings
	EmployeeName *string
}

// Punches returns the four punch slots in order.
func (r DailyRecord) Punches() [4]*string {
	return [4]*string{r.Punch1, r.Punch2, r.Punch3, r.Punch4}
}

// PunchCount counts the non-nil punch slots.
func (r DailyRecord) PunchCount() int {
	count := 0
	for _, p := range r.Punches() {
		if p != nil {
			count++
		}
	}
	return count
}

// SlotNames returns the human-facing name of each punch slot for a day that
// expects the given punch count (2 on Saturdays and for apprentices, 4 on
// regular weekdays).
func SlotNames(expectedPunches int) []string {
	if expectedPunches == 2 {
		return []string{"Entrada", "Saída"}
	}
	return []string{"Entrada", "Intervalo", "Retorno", "Saída"}
}

// MissingSlots names the expected punch slots that are still empty.
func (r DailyRecord) MissingSlots(expectedPunches int) []string {
	names := SlotNames(expectedPunches)
	punches := r.Punches()

	var missing []string
	for i := 0; i < expectedPunches && i < len(names); i++ {
		if punches[i] == nil {
			missing = append(missing, names[i])
		}
	}
	return missing
}
