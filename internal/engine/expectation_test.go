package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedReportsMidCycle(t *testing.T) {
	cfg := DefaultConfig()
	months := PartitionMonths(Span{Start: date(2024, time.January, 1), End: date(2024, time.May, 31)}, cfg)
	require.Len(t, months, 5)

	// As of Feb 10 only January's report (due Feb 5) has come due.
	counts := Expected(months, cfg, KindReport, date(2024, time.February, 10))
	assert.Equal(t, ExpectedCounts{Total: 5, SoFar: 1}, counts)
}

func TestExpectedTotalKnownBeforeStart(t *testing.T) {
	cfg := DefaultConfig()
	months := PartitionMonths(Span{Start: date(2024, time.January, 22), End: date(2024, time.May, 20)}, cfg)

	counts := Expected(months, cfg, KindReport, date(2023, time.June, 1))
	assert.Equal(t, 4, counts.Total)
	assert.Zero(t, counts.SoFar)

	counts = Expected(months, cfg, KindVisit, date(2023, time.June, 1))
	assert.Equal(t, 4, counts.Total)
	assert.Zero(t, counts.SoFar)
}

func TestExpectedVisitDueAtMonthEnd(t *testing.T) {
	cfg := DefaultConfig()
	months := PartitionMonths(Span{Start: date(2024, time.January, 1), End: date(2024, time.March, 31)}, cfg)

	// Jan 31 23:59:59 is the due instant; midday Jan 31 is before it.
	counts := Expected(months, cfg, KindVisit, time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC))
	assert.Zero(t, counts.SoFar)

	counts = Expected(months, cfg, KindVisit, date(2024, time.February, 1))
	assert.Equal(t, 1, counts.SoFar)
}

func TestExpectedMonotonicity(t *testing.T) {
	cfg := DefaultConfig()
	months := PartitionMonths(Span{Start: date(2024, time.January, 15), End: date(2024, time.December, 20)}, cfg)

	previous := 0
	for asOf := date(2024, time.January, 1); asOf.Before(date(2025, time.March, 1)); asOf = asOf.AddDate(0, 0, 7) {
		counts := Expected(months, cfg, KindReport, asOf)
		assert.GreaterOrEqual(t, counts.SoFar, previous)
		assert.LessOrEqual(t, counts.SoFar, counts.Total)
		previous = counts.SoFar
	}
	// Past the end of the span every obligation has come due.
	final := Expected(months, cfg, KindReport, date(2025, time.June, 1))
	assert.Equal(t, final.Total, final.SoFar)
}

func TestExpectedEmptyMonths(t *testing.T) {
	cfg := DefaultConfig()
	counts := Expected(nil, cfg, KindReport, date(2024, time.June, 1))
	assert.Equal(t, ExpectedCounts{}, counts)
}
