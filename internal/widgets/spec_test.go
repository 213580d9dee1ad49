package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsUnknownChartType(t *testing.T) {
	spec := &WidgetSpec{ChartType: "heatmap", Metrics: []string{"spend"}}
	err := spec.Validate()
	require.ErrorIs(t, err, ErrUnsupportedChartType)
}

func TestValidateRequiresMetrics(t *testing.T) {
	spec := &WidgetSpec{ChartType: ChartTypeMetric}
	var verr *ValidationError
	require.ErrorAs(t, spec.Validate(), &verr)
	assert.Equal(t, "metrics", verr.Field)
}

func TestValidateRejectsUnknownAggregation(t *testing.T) {
	spec := &WidgetSpec{ChartType: ChartTypeMetric, Metrics: []string{"spend"}, Aggregation: "mode"}
	var verr *ValidationError
	require.ErrorAs(t, spec.Validate(), &verr)
	assert.Equal(t, "aggregation", verr.Field)
}

func TestValidateRejectsMultipleDimensions(t *testing.T) {
	spec := &WidgetSpec{
		ChartType:  ChartTypeBar,
		Metrics:    []string{"spend"},
		Dimensions: []string{"date", "country"},
	}
	var uerr *UnsupportedError
	require.ErrorAs(t, spec.Validate(), &uerr)
}

func TestValidatePieShape(t *testing.T) {
	spec := &WidgetSpec{
		ChartType:  ChartTypePie,
		Metrics:    []string{"spend", "clicks"},
		Dimensions: []string{"country"},
	}
	var verr *ValidationError
	require.ErrorAs(t, spec.Validate(), &verr)

	spec = &WidgetSpec{ChartType: ChartTypePie, Metrics: []string{"spend"}}
	require.ErrorAs(t, spec.Validate(), &verr)
	assert.Equal(t, "dimensions", verr.Field)
}

func TestValidateGaugeBounds(t *testing.T) {
	min, max := 0.0, 10.0

	spec := &WidgetSpec{ChartType: ChartTypeGauge, Metrics: []string{"ctr"}}
	var verr *ValidationError
	require.ErrorAs(t, spec.Validate(), &verr)

	spec = &WidgetSpec{ChartType: ChartTypeGauge, Metrics: []string{"ctr"}, GaugeMin: &max, GaugeMax: &min}
	require.ErrorAs(t, spec.Validate(), &verr)

	spec = &WidgetSpec{ChartType: ChartTypeGauge, Metrics: []string{"ctr"}, GaugeMin: &min, GaugeMax: &max}
	require.NoError(t, spec.Validate())
}

func TestAggregationDefaultsToSum(t *testing.T) {
	spec := &WidgetSpec{ChartType: ChartTypeMetric, Metrics: []string{"spend"}}
	assert.Equal(t, AggregationSum, spec.aggregation())
}
