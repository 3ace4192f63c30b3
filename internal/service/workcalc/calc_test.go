package workcalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
)

func strPtr(s string) *string { return &s }

func weekdayCtx() DayContext {
	return DayContext{
		Date:                 time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), // Monday
		ExpectedDailyMinutes: 480,
		SaturdayMinutes:      240,
		ToleranceMinutes:     10,
	}
}

func saturdayCtx() DayContext {
	ctx := weekdayCtx()
	ctx.Date = time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC)
	return ctx
}

func TestCalculate_WeekdayNormal(t *testing.T) {
	// Scenario: 08:00-12:00 + 14:00-18:05 against 480 expected
	punches := [4]*string{strPtr("08:00"), strPtr("12:00"), strPtr("14:00"), strPtr("18:05")}

	res := Calculate(punches, weekdayCtx())
	require.NotNil(t, res)
	assert.Equal(t, 485, res.TotalMinutes)
	assert.Equal(t, 5, res.DifferenceMinutes)
	assert.Equal(t, record.ClassificationNormal, res.Classification)
}

func TestCalculate_WeekdayOvertime(t *testing.T) {
	punches := [4]*string{strPtr("08:00"), strPtr("12:00"), strPtr("14:00"), strPtr("18:20")}

	res := Calculate(punches, weekdayCtx())
	require.NotNil(t, res)
	assert.Equal(t, 500, res.TotalMinutes)
	assert.Equal(t, 20, res.DifferenceMinutes)
	assert.Equal(t, record.ClassificationOvertime, res.Classification)
}

func TestCalculate_SaturdayLate(t *testing.T) {
	// Scenario: Saturday 08:00-11:40 against the 240-minute Saturday workload
	punches := [4]*string{strPtr("08:00"), strPtr("11:40"), nil, nil}

	res := Calculate(punches, saturdayCtx())
	require.NotNil(t, res)
	assert.Equal(t, 220, res.TotalMinutes)
	assert.Equal(t, -20, res.DifferenceMinutes)
	assert.Equal(t, record.ClassificationLate, res.Classification)
}

func TestCalculate_IncompleteIsNilNotZero(t *testing.T) {
	// Three of four weekday punches
	punches := [4]*string{strPtr("08:00"), strPtr("12:00"), nil, strPtr("18:00")}
	assert.Nil(t, Calculate(punches, weekdayCtx()))

	// One Saturday punch
	punches = [4]*string{strPtr("08:00"), nil, nil, nil}
	assert.Nil(t, Calculate(punches, saturdayCtx()))

	// Zero punches
	assert.Nil(t, Calculate([4]*string{}, weekdayCtx()))
}

func TestCalculate_NonWorkingDays(t *testing.T) {
	punches := [4]*string{strPtr("08:00"), strPtr("12:00"), strPtr("14:00"), strPtr("18:00")}

	sunday := weekdayCtx()
	sunday.Date = time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, Calculate(punches, sunday))

	holiday := weekdayCtx()
	holiday.Holiday = true
	assert.Nil(t, Calculate(punches, holiday))
}

func TestCalculate_ApprenticeTwoPunchOnWeekday(t *testing.T) {
	ctx := weekdayCtx()
	ctx.IsApprentice = true
	ctx.ExpectedDailyMinutes = 240

	punches := [4]*string{strPtr("08:00"), strPtr("12:00"), nil, nil}
	res := Calculate(punches, ctx)
	require.NotNil(t, res)
	assert.Equal(t, 240, res.TotalMinutes)
	assert.Equal(t, 0, res.DifferenceMinutes)
	assert.Equal(t, record.ClassificationNormal, res.Classification)
}

func TestCalculate_ApprenticeSaturdayTakesSmallerWorkload(t *testing.T) {
	ctx := saturdayCtx()
	ctx.IsApprentice = true
	ctx.ExpectedDailyMinutes = 300

	assert.Equal(t, 240, ctx.ExpectedMinutes())

	ctx.ExpectedDailyMinutes = 180
	assert.Equal(t, 180, ctx.ExpectedMinutes())
}

func TestTwoPunchModeSelection(t *testing.T) {
	assert.False(t, weekdayCtx().TwoPunchMode())
	assert.True(t, saturdayCtx().TwoPunchMode())

	apprentice := weekdayCtx()
	apprentice.IsApprentice = true
	assert.True(t, apprentice.TwoPunchMode())

	assert.Equal(t, 4, weekdayCtx().ExpectedPunches())
	assert.Equal(t, 2, saturdayCtx().ExpectedPunches())
}

func TestClassify_SymmetricAroundZero(t *testing.T) {
	for d := -10; d <= 10; d++ {
		assert.Equal(t, record.ClassificationNormal, Classify(d, 10), "difference %d", d)
	}
	assert.Equal(t, record.ClassificationLate, Classify(-11, 10))
	assert.Equal(t, record.ClassificationOvertime, Classify(11, 10))
	assert.Equal(t, record.ClassificationLate, Classify(-500, 10))
	assert.Equal(t, record.ClassificationOvertime, Classify(500, 10))
}

func TestClassify_PureFunctionOfDifference(t *testing.T) {
	// Same difference, different totals: classification must agree.
	a := Calculate([4]*string{strPtr("08:00"), strPtr("12:00"), strPtr("14:00"), strPtr("18:20")}, weekdayCtx())
	b := Calculate([4]*string{strPtr("09:00"), strPtr("13:00"), strPtr("15:00"), strPtr("19:20")}, weekdayCtx())
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.DifferenceMinutes, b.DifferenceMinutes)
	assert.Equal(t, a.Classification, b.Classification)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"08:30:45", 510, false},
		{"24:00", 0, true},
		{"08:60", 0, true},
		{"0800", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
		} else {
			assert.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}
