package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportTimelineMixedStates(t *testing.T) {
	cfg := DefaultConfig()
	span := Span{Start: date(2024, time.January, 15), End: date(2024, time.May, 8)}
	submitted := date(2024, time.February, 3)
	late := date(2024, time.March, 8)
	facts := map[MonthKey]ReportFact{
		{2024, time.January}:  {Year: 2024, Month: time.January, SubmittedAt: &submitted},
		{2024, time.February}: {Year: 2024, Month: time.February, SubmittedAt: &late},
		{2024, time.March}:    {Year: 2024, Month: time.March, Draft: true},
	}

	now := date(2024, time.April, 10)
	timeline := ReportTimeline(span, cfg, facts, now)
	require.Len(t, timeline, 4) // May is excluded by the partitioner

	assert.Equal(t, ReportApproved, timeline[0].State)
	assert.False(t, timeline[0].IsLate)

	assert.Equal(t, ReportApproved, timeline[1].State)
	assert.True(t, timeline[1].IsLate)
	assert.Equal(t, 3, timeline[1].DaysLate)

	assert.Equal(t, ReportDraft, timeline[2].State)

	// April's report is due May 5; as of Apr 10 it has not come due.
	assert.Equal(t, ReportNotStarted, timeline[3].State)
}

func TestVisitTimelineMixedStates(t *testing.T) {
	cfg := DefaultConfig()
	span := Span{Start: date(2024, time.January, 15), End: date(2024, time.May, 8)}
	facts := map[MonthKey]VisitFact{
		{2024, time.January}: {Year: 2024, Month: time.January, CompletedAt: date(2024, time.January, 20)},
	}

	now := date(2024, time.March, 10)
	timeline := VisitTimeline(span, cfg, facts, now)
	require.Len(t, timeline, 4)

	assert.Equal(t, VisitCompleted, timeline[0].State)
	assert.Equal(t, VisitOverdue, timeline[1].State) // February passed unvisited
	assert.Equal(t, VisitPending, timeline[2].State)
	assert.Equal(t, VisitUpcoming, timeline[3].State)
}

func TestTimelinesShareCanonicalOrdering(t *testing.T) {
	cfg := DefaultConfig()
	span := Span{Start: date(2023, time.November, 1), End: date(2024, time.March, 31)}
	now := date(2024, time.January, 1)

	reports := ReportTimeline(span, cfg, nil, now)
	visits := VisitTimeline(span, cfg, nil, now)
	require.Equal(t, len(reports), len(visits))
	for i := range reports {
		assert.Equal(t, reports[i].Obligation.Year, visits[i].Obligation.Year)
		assert.Equal(t, reports[i].Obligation.Month, visits[i].Obligation.Month)
	}
}

func TestTimelineEmptyForDegenerateSpan(t *testing.T) {
	cfg := DefaultConfig()
	span := Span{Start: date(2024, time.May, 10), End: date(2024, time.May, 1)}
	assert.Empty(t, ReportTimeline(span, cfg, nil, date(2024, time.June, 1)))
	assert.Empty(t, VisitTimeline(span, cfg, nil, date(2024, time.June, 1)))
}
