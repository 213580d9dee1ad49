package timerange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/timerange"
)

// fixedTimeProvider pins "now" for deterministic resolution.
type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

func newFixedResolver(now time.Time) *timerange.Resolver {
	return timerange.NewResolver(&fixedTimeProvider{now: now})
}

func TestResolveSymbolicRanges(t *testing.T) {
	// Reference now: 2024-03-15 10:30 UTC.
	resolver := newFixedResolver(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC))
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		label      timerange.Range
		start, end time.Time
	}{
		{timerange.RangeToday, day(2024, 3, 15), day(2024, 3, 15)},
		{timerange.RangeYesterday, day(2024, 3, 14), day(2024, 3, 14)},
		{timerange.RangeLast7Days, day(2024, 3, 8), day(2024, 3, 15)},
		{timerange.RangeLast30Days, day(2024, 2, 14), day(2024, 3, 15)},
		{timerange.RangeThisMonth, day(2024, 3, 1), day(2024, 3, 15)},
		{timerange.RangeLastMonth, day(2024, 2, 1), day(2024, 2, 29)},
		{timerange.RangeThisYear, day(2024, 1, 1), day(2024, 3, 15)},
	}

	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			start, end, err := resolver.Resolve(tt.label, "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestResolveLastMonthAcrossYearBoundary(t *testing.T) {
	resolver := newFixedResolver(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))

	start, end, err := resolver.Resolve(timerange.RangeLastMonth, "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestResolveCustomRange(t *testing.T) {
	resolver := newFixedResolver(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	start, end, err := resolver.Resolve(timerange.RangeCustom, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestResolveCustomValidation(t *testing.T) {
	resolver := newFixedResolver(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name       string
		start, end string
	}{
		{"missing both bounds", "", ""},
		{"missing end", "2024-01-01", ""},
		{"missing start", "", "2024-01-31"},
		{"unparseable start", "01/01/2024", "2024-01-31"},
		{"start after end", "2024-02-01", "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := resolver.Resolve(timerange.RangeCustom, tt.start, tt.end)
			var valErr *timerange.ValidationError
			require.ErrorAs(t, err, &valErr)
		})
	}
}

func TestResolveUnknownLabel(t *testing.T) {
	resolver := newFixedResolver(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	_, _, err := resolver.Resolve(timerange.Range("last_90_days"), "", "")
	var valErr *timerange.ValidationError
	require.ErrorAs(t, err, &valErr)
}
