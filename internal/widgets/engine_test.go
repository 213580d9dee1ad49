package widgets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/insights"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(insights.DateLayout, s)
	require.NoError(t, err)
	return d
}

func sampleRecords(t *testing.T) []insights.InsightRecord {
	t.Helper()
	return []insights.InsightRecord{
		{CampaignID: 1, Date: day(t, "2024-01-01"), Impressions: 1000, Clicks: 40, Spend: 100},
		{CampaignID: 1, Date: day(t, "2024-01-02"), Impressions: 2000, Clicks: 60, Spend: 150},
	}
}

func TestAggregateMetricSum(t *testing.T) {
	spec := &WidgetSpec{ChartType: ChartTypeMetric, Metrics: []string{"spend"}, Aggregation: AggregationSum}

	payload, err := Aggregate(spec, sampleRecords(t))
	require.NoError(t, err)

	metric, ok := payload.(MetricPayload)
	require.True(t, ok)
	assert.InDelta(t, 250.0, metric.Value, 1e-9)
	assert.Equal(t, "spend", metric.Metric)
	assert.Equal(t, "currency", metric.Format)
}

func TestAggregateLineByDate(t *testing.T) {
	spec := &WidgetSpec{
		ChartType:   ChartTypeLine,
		Metrics:     []string{"spend"},
		Dimensions:  []string{"date"},
		Aggregation: AggregationSum,
	}

	payload, err := Aggregate(spec, sampleRecords(t))
	require.NoError(t, err)

	series, ok := payload.(SeriesPayload)
	require.True(t, ok)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, series.Labels)
	require.Len(t, series.Datasets, 1)
	assert.Equal(t, "spend", series.Datasets[0].Label)
	assert.Equal(t, []float64{100, 150}, series.Datasets[0].Data)
}

func TestAggregateBarMultiMetric(t *testing.T) {
	spec := &WidgetSpec{
		ChartType:  ChartTypeBar,
		Metrics:    []string{"impressions", "clicks"},
		Dimensions: []string{"date"},
	}

	payload, err := Aggregate(spec, sampleRecords(t))
	require.NoError(t, err)

	series := payload.(SeriesPayload)
	require.Len(t, series.Datasets, 2)
	assert.Equal(t, []float64{1000, 2000}, series.Datasets[0].Data)
	assert.Equal(t, []float64{40, 60}, series.Datasets[1].Data)
}

func TestAggregateGroupLabelsPreserveFirstSeenOrder(t *testing.T) {
	records := []insights.InsightRecord{
		{Date: day(t, "2024-01-01"), Dimensions: map[string]string{"publisher_platform": "instagram"}, Spend: 10},
		{Date: day(t, "2024-01-01"), Dimensions: map[string]string{"publisher_platform": "facebook"}, Spend: 20},
		{Date: day(t, "2024-01-02"), Dimensions: map[string]string{"publisher_platform": "instagram"}, Spend: 5},
	}
	spec := &WidgetSpec{
		ChartType:  ChartTypeBar,
		Metrics:    []string{"spend"},
		Dimensions: []string{"publisher_platform"},
	}

	payload, err := Aggregate(spec, records)
	require.NoError(t, err)

	series := payload.(SeriesPayload)
	assert.Equal(t, []string{"instagram", "facebook"}, series.Labels)
	assert.Equal(t, []float64{15, 20}, series.Datasets[0].Data)
}

func TestAggregatePie(t *testing.T) {
	records := []insights.InsightRecord{
		{Date: day(t, "2024-01-01"), Dimensions: map[string]string{"country": "US"}, Spend: 70},
		{Date: day(t, "2024-01-01"), Dimensions: map[string]string{"country": "DE"}, Spend: 30},
	}
	spec := &WidgetSpec{
		ChartType:  ChartTypePie,
		Metrics:    []string{"spend"},
		Dimensions: []string{"country"},
	}

	payload, err := Aggregate(spec, records)
	require.NoError(t, err)

	pie := payload.(PiePayload)
	assert.Equal(t, []string{"United States", "Germany"}, pie.Labels)
	assert.Equal(t, []float64{70, 30}, pie.Data)
}

func TestAggregateTableGrouped(t *testing.T) {
	spec := &WidgetSpec{
		ChartType:  ChartTypeTable,
		Metrics:    []string{"impressions", "clicks"},
		Dimensions: []string{"date"},
	}

	payload, err := Aggregate(spec, sampleRecords(t))
	require.NoError(t, err)

	table := payload.(TablePayload)
	assert.Equal(t, []string{"date", "impressions", "clicks"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []any{"2024-01-01", float64(1000), float64(40)}, table.Rows[0])
	assert.Equal(t, []any{"2024-01-02", float64(2000), float64(60)}, table.Rows[1])
}

func TestAggregateTableUngroupedRowPerRecord(t *testing.T) {
	spec := &WidgetSpec{ChartType: ChartTypeTable, Metrics: []string{"spend"}}

	payload, err := Aggregate(spec, sampleRecords(t))
	require.NoError(t, err)

	table := payload.(TablePayload)
	assert.Equal(t, []string{"spend"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []any{float64(100)}, table.Rows[0])
}

func TestAggregateGauge(t *testing.T) {
	min, max := 0.0, 10.0
	spec := &WidgetSpec{
		ChartType:   ChartTypeGauge,
		Metrics:     []string{"ctr"},
		Aggregation: AggregationAverage,
		GaugeMin:    &min,
		GaugeMax:    &max,
	}

	payload, err := Aggregate(spec, sampleRecords(t))
	require.NoError(t, err)

	gauge := payload.(GaugePayload)
	// Per-record CTRs are 4.0 and 3.0.
	assert.InDelta(t, 3.5, gauge.Value, 1e-9)
	assert.Equal(t, 0.0, gauge.Min)
	assert.Equal(t, 10.0, gauge.Max)
}

func TestAggregateFunctions(t *testing.T) {
	records := []insights.InsightRecord{
		{Date: day(t, "2024-01-01"), Spend: 10},
		{Date: day(t, "2024-01-02"), Spend: 30},
		{Date: day(t, "2024-01-03"), Spend: 20},
	}

	tests := []struct {
		agg  Aggregation
		want float64
	}{
		{AggregationSum, 60},
		{AggregationAverage, 20},
		{AggregationCount, 3},
		{AggregationMin, 10},
		{AggregationMax, 30},
		{AggregationMedian, 20},
	}

	for _, tc := range tests {
		t.Run(string(tc.agg), func(t *testing.T) {
			spec := &WidgetSpec{ChartType: ChartTypeMetric, Metrics: []string{"spend"}, Aggregation: tc.agg}
			payload, err := Aggregate(spec, records)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, payload.(MetricPayload).Value, 1e-9)
		})
	}
}

func TestAggregateMedianEvenCount(t *testing.T) {
	records := []insights.InsightRecord{
		{Date: day(t, "2024-01-01"), Spend: 10},
		{Date: day(t, "2024-01-02"), Spend: 40},
	}
	spec := &WidgetSpec{ChartType: ChartTypeMetric, Metrics: []string{"spend"}, Aggregation: AggregationMedian}

	payload, err := Aggregate(spec, records)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, payload.(MetricPayload).Value, 1e-9)
}

func TestAggregateFilters(t *testing.T) {
	records := []insights.InsightRecord{
		{Date: day(t, "2024-01-01"), Dimensions: map[string]string{"country": "US"}, Spend: 70},
		{Date: day(t, "2024-01-01"), Dimensions: map[string]string{"country": "DE"}, Spend: 30},
		{Date: day(t, "2024-01-02"), Spend: 99}, // no country dimension at all
	}
	spec := &WidgetSpec{
		ChartType: ChartTypeMetric,
		Metrics:   []string{"spend"},
		Filters:   map[string]string{"country": "US"},
	}

	payload, err := Aggregate(spec, records)
	require.NoError(t, err)

	// Records without the filtered key are excluded, not passed through.
	assert.InDelta(t, 70.0, payload.(MetricPayload).Value, 1e-9)
}

func TestAggregateEmptyPayloads(t *testing.T) {
	min, max := 0.0, 100.0
	none := []insights.InsightRecord{}

	tests := []struct {
		name string
		spec *WidgetSpec
		want ChartPayload
	}{
		{
			"metric",
			&WidgetSpec{ChartType: ChartTypeMetric, Metrics: []string{"spend"}},
			MetricPayload{Metric: "spend", Format: "currency"},
		},
		{
			"gauge",
			&WidgetSpec{ChartType: ChartTypeGauge, Metrics: []string{"ctr"}, GaugeMin: &min, GaugeMax: &max},
			GaugePayload{Min: 0, Max: 100, Metric: "ctr"},
		},
		{
			"line",
			&WidgetSpec{ChartType: ChartTypeLine, Metrics: []string{"spend"}, Dimensions: []string{"date"}},
			SeriesPayload{Labels: []string{}, Datasets: []Dataset{}},
		},
		{
			"pie",
			&WidgetSpec{ChartType: ChartTypePie, Metrics: []string{"spend"}, Dimensions: []string{"country"}},
			PiePayload{Labels: []string{}, Data: []float64{}},
		},
		{
			"table",
			&WidgetSpec{ChartType: ChartTypeTable, Metrics: []string{"spend"}},
			TablePayload{Columns: []string{"spend"}, Rows: [][]any{}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := Aggregate(tc.spec, none)
			require.NoError(t, err)
			assert.Equal(t, tc.want, payload)
		})
	}
}

func TestAggregateFilterToEmptyYieldsEmptyPayload(t *testing.T) {
	spec := &WidgetSpec{
		ChartType: ChartTypeMetric,
		Metrics:   []string{"spend"},
		Filters:   map[string]string{"country": "FR"},
	}

	payload, err := Aggregate(spec, sampleRecords(t))
	require.NoError(t, err)
	assert.Equal(t, MetricPayload{Metric: "spend", Format: "currency"}, payload)
}

func TestMetricFormat(t *testing.T) {
	assert.Equal(t, "percent", metricFormat("ctr"))
	assert.Equal(t, "currency", metricFormat("spend"))
	assert.Equal(t, "currency", metricFormat("cpa"))
	assert.Equal(t, "number", metricFormat("impressions"))
}
