package workcal

import (
	"fmt"
	"time"
)

// Calendar answers working-day questions for the punch engine. All dates are
// interpreted in a fixed UTC offset (no DST); Brazil dropped DST in 2019.
type Calendar struct {
	loc   *time.Location
	extra map[string]bool
}

// New builds a Calendar for the given fixed UTC offset. extraHolidays are
// additional "YYYY-MM-DD" dates (regional holidays, one-off closures).
func New(utcOffsetHours int, extraHolidays []string) *Calendar {
	name := fmt.Sprintf("UTC%+d", utcOffsetHours)
	extra := make(map[string]bool, len(extraHolidays))
	for _, d := range extraHolidays {
		extra[d] = true
	}
	return &Calendar{
		loc:   time.FixedZone(name, utcOffsetHours*3600),
		extra: extra,
	}
}

// Location returns the calendar's fixed time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today returns the current date at midnight in the calendar's zone.
func (c *Calendar) Today() time.Time {
	now := time.Now().In(c.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// IsHoliday reports whether date falls on a national or configured holiday.
func (c *Calendar) IsHoliday(date time.Time) bool {
	if c.extra[date.Format("2006-01-02")] {
		return true
	}

	month, day := date.Month(), date.Day()
	switch {
	case month == time.January && day == 1: // Confraternização Universal
		return true
	case month == time.April && day == 21: // Tiradentes
		return true
	case month == time.May && day == 1: // Dia do Trabalho
		return true
	case month == time.September && day == 7: // Independência
		return true
	case month == time.October && day == 12: // Nossa Senhora Aparecida
		return true
	case month == time.November && day == 2: // Finados
		return true
	case month == time.November && day == 15: // Proclamação da República
		return true
	case month == time.December && day == 25: // Natal
		return true
	}

	easterDay := easter(date.Year())
	for _, offset := range []int{-48, -47, -2, 60} { // Carnival Mon/Tue, Good Friday, Corpus Christi
		movable := easterDay.AddDate(0, 0, offset)
		if movable.Month() == month && movable.Day() == day {
			return true
		}
	}

	return false
}

// IsWorkingDay reports whether date is a working day for an employee with
// the given Saturday policy. Sundays and holidays are never working days.
func (c *Calendar) IsWorkingDay(date time.Time, worksSaturday bool) bool {
	switch date.Weekday() {
	case time.Sunday:
		return false
	case time.Saturday:
		if !worksSaturday {
			return false
		}
	}
	return !c.IsHoliday(date)
}

// IsSaturday reports whether date is a Saturday.
func IsSaturday(date time.Time) bool {
	return date.Weekday() == time.Saturday
}

// easter computes the Gregorian Easter Sunday for a year using the
// Meeus/Jones/Butcher algorithm.
func easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
