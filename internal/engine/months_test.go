package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthKeys(months []CountedMonth) []MonthKey {
	keys := make([]MonthKey, 0, len(months))
	for _, m := range months {
		keys = append(keys, m.Key())
	}
	return keys
}

func TestPartitionMonthsExcludesShortFirstMonth(t *testing.T) {
	cfg := DefaultConfig()
	// Jan 22–31 is exactly 10 active days, which does not exceed the minimum.
	months := PartitionMonths(Span{Start: date(2024, time.January, 22), End: date(2024, time.May, 20)}, cfg)

	assert.Equal(t, []MonthKey{
		{2024, time.February},
		{2024, time.March},
		{2024, time.April},
		{2024, time.May},
	}, monthKeys(months))
}

func TestPartitionMonthsExcludesShortLastMonth(t *testing.T) {
	cfg := DefaultConfig()
	months := PartitionMonths(Span{Start: date(2024, time.January, 15), End: date(2024, time.May, 8)}, cfg)

	assert.Equal(t, []MonthKey{
		{2024, time.January},
		{2024, time.February},
		{2024, time.March},
		{2024, time.April},
	}, monthKeys(months))

	require.NotEmpty(t, months)
	assert.True(t, months[0].First)
	assert.Equal(t, 17, months[0].ActiveDays)
	assert.False(t, months[len(months)-1].Last, "May was excluded, April is not flagged as the last touched month")
}

func TestPartitionMonthsStrictInclusionBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDaysForInclusion = 10

	// Exactly 10 active days in December: excluded.
	months := PartitionMonths(Span{Start: date(2023, time.December, 22), End: date(2024, time.February, 15)}, cfg)
	assert.Equal(t, []MonthKey{{2024, time.January}, {2024, time.February}}, monthKeys(months))

	// 11 active days: included.
	months = PartitionMonths(Span{Start: date(2023, time.December, 21), End: date(2024, time.February, 15)}, cfg)
	assert.Equal(t, []MonthKey{{2023, time.December}, {2024, time.January}, {2024, time.February}}, monthKeys(months))
	assert.Equal(t, 11, months[0].ActiveDays)
}

func TestPartitionMonthsSingleMonthSpan(t *testing.T) {
	cfg := DefaultConfig()

	months := PartitionMonths(Span{Start: date(2024, time.June, 3), End: date(2024, time.June, 25)}, cfg)
	require.Len(t, months, 1)
	assert.True(t, months[0].First)
	assert.True(t, months[0].Last)
	assert.Equal(t, 23, months[0].ActiveDays)

	// A span inside one month with too few days produces no obligations.
	months = PartitionMonths(Span{Start: date(2024, time.June, 3), End: date(2024, time.June, 12)}, cfg)
	assert.Empty(t, months)
}

func TestPartitionMonthsDegenerateSpan(t *testing.T) {
	cfg := DefaultConfig()
	months := PartitionMonths(Span{Start: date(2024, time.June, 10), End: date(2024, time.June, 1)}, cfg)
	assert.Empty(t, months)
}

func TestPartitionMonthsLeapFebruary(t *testing.T) {
	cfg := DefaultConfig()
	months := PartitionMonths(Span{Start: date(2024, time.February, 1), End: date(2024, time.February, 29)}, cfg)
	require.Len(t, months, 1)
	assert.Equal(t, 29, months[0].ActiveDays)

	months = PartitionMonths(Span{Start: date(2023, time.February, 1), End: date(2023, time.March, 31)}, cfg)
	require.Len(t, months, 2)
	assert.Equal(t, 28, months[0].ActiveDays)
	assert.Equal(t, 31, months[1].ActiveDays)
}

func TestPartitionMonthsMultiYearSpan(t *testing.T) {
	cfg := DefaultConfig()
	months := PartitionMonths(Span{Start: date(2023, time.November, 1), End: date(2024, time.February, 28)}, cfg)
	assert.Equal(t, []MonthKey{
		{2023, time.November},
		{2023, time.December},
		{2024, time.January},
		{2024, time.February},
	}, monthKeys(months))
}

func TestPartitionMonthsInteriorMonthsAlwaysFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDaysForInclusion = 28
	// Interior months are never subject to the inclusion test even with an
	// extreme threshold.
	months := PartitionMonths(Span{Start: date(2024, time.January, 31), End: date(2024, time.April, 1)}, cfg)
	assert.Equal(t, []MonthKey{{2024, time.February}, {2024, time.March}}, monthKeys(months))
	assert.Equal(t, 29, months[0].ActiveDays)
}

func TestPartitionMonthsIgnoresTimeOfDay(t *testing.T) {
	cfg := DefaultConfig()
	span := Span{
		Start: time.Date(2024, time.January, 15, 23, 45, 0, 0, time.UTC),
		End:   time.Date(2024, time.May, 8, 1, 0, 0, 0, time.UTC),
	}
	assert.Equal(t,
		monthKeys(PartitionMonths(Span{Start: date(2024, time.January, 15), End: date(2024, time.May, 8)}, cfg)),
		monthKeys(PartitionMonths(span, cfg)))
}

func TestPartitionMonthsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	span := Span{Start: date(2024, time.January, 22), End: date(2024, time.May, 20)}
	first := PartitionMonths(span, cfg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, PartitionMonths(span, cfg))
	}
}
