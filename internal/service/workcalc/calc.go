// Package workcalc computes worked minutes and classifications from punch
// sets. Everything here is pure: no clocks, no I/O, no repository access.
package workcalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
)

// DayContext carries everything the calculation needs to know about one
// employee-day.
type DayContext struct {
	Date    time.Time
	Holiday bool

	IsApprentice         bool
	ExpectedDailyMinutes int

	SaturdayMinutes  int
	ToleranceMinutes int
}

// Result is the derived outcome for a complete punch set.
type Result struct {
	TotalMinutes      int
	DifferenceMinutes int
	Classification    record.Classification
}

// TwoPunchMode reports whether the day requires only an entry and an exit
// punch: Saturdays and apprentices (on any working day) skip the lunch pair.
func (c DayContext) TwoPunchMode() bool {
	return c.IsApprentice || c.Date.Weekday() == time.Saturday
}

// ExpectedPunches returns the punch count a complete day requires.
func (c DayContext) ExpectedPunches() int {
	if c.TwoPunchMode() {
		return 2
	}
	return 4
}

// ExpectedMinutes returns the workload the day is measured against. An
// apprentice working a Saturday owes the smaller of the two reduced
// workloads.
func (c DayContext) ExpectedMinutes() int {
	saturday := c.Date.Weekday() == time.Saturday
	switch {
	case c.IsApprentice && saturday:
		if c.ExpectedDailyMinutes < c.SaturdayMinutes {
			return c.ExpectedDailyMinutes
		}
		return c.SaturdayMinutes
	case saturday:
		return c.SaturdayMinutes
	case c.IsApprentice:
		return c.ExpectedDailyMinutes
	default:
		return c.ExpectedDailyMinutes
	}
}

// Calculate derives total worked minutes, the signed difference against the
// expected workload, and a classification. It returns nil on non-working
// days (Sunday or holiday) and whenever the punch set is incomplete for the
// day's mode; the caller must then store null derived fields.
func Calculate(punches [4]*string, ctx DayContext) *Result {
	if ctx.Date.Weekday() == time.Sunday || ctx.Holiday {
		return nil
	}

	var total int
	if ctx.TwoPunchMode() {
		if punches[0] == nil || punches[1] == nil {
			return nil
		}
		in, err1 := ParseClock(*punches[0])
		out, err2 := ParseClock(*punches[1])
		if err1 != nil || err2 != nil {
			return nil
		}
		total = out - in
	} else {
		for _, p := range punches {
			if p == nil {
				return nil
			}
		}
		p1, err1 := ParseClock(*punches[0])
		p2, err2 := ParseClock(*punches[1])
		p3, err3 := ParseClock(*punches[2])
		p4, err4 := ParseClock(*punches[3])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil
		}
		total = (p2 - p1) + (p4 - p3)
	}

	expected := ctx.ExpectedMinutes()
	difference := total - expected

	return &Result{
		TotalMinutes:      total,
		DifferenceMinutes: difference,
		Classification:    Classify(difference, ctx.ToleranceMinutes),
	}
}

// Classify maps a signed difference to normal, late or overtime. The band
// [-tolerance, +tolerance] is normal.
func Classify(difference, tolerance int) record.Classification {
	switch {
	case difference < -tolerance:
		return record.ClassificationLate
	case difference > tolerance:
		return record.ClassificationOvertime
	default:
		return record.ClassificationNormal
	}
}

// ParseClock converts "HH:MM" or "HH:MM:SS" to minutes since midnight.
// Seconds, when present, are discarded.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}

	return hour*60 + minute, nil
}
