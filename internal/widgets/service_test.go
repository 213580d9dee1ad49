package widgets

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/insights"
	"adboard/internal/timerange"
)

type stubLoader struct {
	records     []insights.InsightRecord
	err         error
	campaignIDs []uint
	from, to    time.Time
}

func (l *stubLoader) LoadRecordsForWidgets(campaignIDs []uint, from, to time.Time) ([]insights.InsightRecord, error) {
	l.campaignIDs = campaignIDs
	l.from = from
	l.to = to
	return l.records, l.err
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func fixedResolver() *timerange.Resolver {
	return timerange.NewResolver(fixedClock{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)})
}

func TestGetWidgetDataRendersPayload(t *testing.T) {
	loader := &stubLoader{records: []insights.InsightRecord{
		{Spend: 10.5},
		{Spend: 4.5},
	}}
	service := NewService(loader, fixedResolver())

	spec := &WidgetSpec{
		ID:        "spend",
		ChartType: ChartTypeMetric,
		Metrics:   []string{"spend"},
		TimeRange: timerange.RangeLast7Days,
	}
	payload, err := service.GetWidgetData(spec, Scope{CampaignIDs: []uint{3, 7}})
	require.NoError(t, err)

	metric, ok := payload.(MetricPayload)
	require.True(t, ok)
	assert.Equal(t, 15.0, metric.Value)
	assert.Equal(t, []uint{3, 7}, loader.campaignIDs)
}

func TestGetWidgetDataResolvesTimeRange(t *testing.T) {
	loader := &stubLoader{}
	service := NewService(loader, fixedResolver())

	spec := &WidgetSpec{
		ID:        "spend",
		ChartType: ChartTypeMetric,
		Metrics:   []string{"spend"},
		TimeRange: timerange.RangeYesterday,
	}
	_, err := service.GetWidgetData(spec, Scope{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", loader.from.Format(insights.DateLayout))
	assert.Equal(t, "2024-03-14", loader.to.Format(insights.DateLayout))
}

func TestGetWidgetDataScopeWindowOverridesWidgetRange(t *testing.T) {
	loader := &stubLoader{}
	service := NewService(loader, fixedResolver())

	spec := &WidgetSpec{
		ID:        "spend",
		ChartType: ChartTypeMetric,
		Metrics:   []string{"spend"},
		TimeRange: timerange.RangeLast30Days,
	}
	scope := Scope{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	_, err := service.GetWidgetData(spec, scope)
	require.NoError(t, err)
	assert.Equal(t, scope.From, loader.from)
	assert.Equal(t, scope.To, loader.to)
}

func TestGetWidgetDataValidatesBeforeLoading(t *testing.T) {
	loader := &stubLoader{err: errors.New("should not be called")}
	service := NewService(loader, fixedResolver())

	spec := &WidgetSpec{ID: "bad", ChartType: ChartType("donut"), Metrics: []string{"spend"}}
	_, err := service.GetWidgetData(spec, Scope{})
	assert.ErrorIs(t, err, ErrUnsupportedChartType)
	assert.True(t, loader.from.IsZero())
}

func TestGetWidgetDataPropagatesRangeErrors(t *testing.T) {
	service := NewService(&stubLoader{}, fixedResolver())

	spec := &WidgetSpec{
		ID:        "spend",
		ChartType: ChartTypeMetric,
		Metrics:   []string{"spend"},
		TimeRange: timerange.RangeCustom,
	}
	_, err := service.GetWidgetData(spec, Scope{})
	var verr *timerange.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGetWidgetDataPropagatesLoaderErrors(t *testing.T) {
	loader := &stubLoader{err: errors.New("db gone")}
	service := NewService(loader, fixedResolver())

	spec := &WidgetSpec{
		ID:        "spend",
		ChartType: ChartTypeMetric,
		Metrics:   []string{"spend"},
		TimeRange: timerange.RangeLast7Days,
	}
	_, err := service.GetWidgetData(spec, Scope{})
	assert.ErrorContains(t, err, "db gone")
}
