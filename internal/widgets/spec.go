// Package widgets turns declarative widget specifications and canonical
// insight records into chart-ready payloads.
package widgets

import (
	"errors"
	"fmt"

	"adboard/internal/timerange"
)

// ChartType is the closed set of supported chart families.
type ChartType string

const (
	ChartTypeMetric ChartType = "metric"
	ChartTypeLine   ChartType = "line"
	ChartTypeBar    ChartType = "bar"
	ChartTypePie    ChartType = "pie"
	ChartTypeTable  ChartType = "table"
	ChartTypeGauge  ChartType = "gauge"
)

// Aggregation is the function applied to a metric's values within a group.
type Aggregation string

const (
	AggregationSum     Aggregation = "sum"
	AggregationAverage Aggregation = "average"
	AggregationCount   Aggregation = "count"
	AggregationMin     Aggregation = "min"
	AggregationMax     Aggregation = "max"
	AggregationMedian  Aggregation = "median"
)

// ErrUnsupportedChartType rejects chart families outside the closed set. There
// is deliberately no fallback shape.
var ErrUnsupportedChartType = errors.New("unsupported chart type")

// ValidationError reports a malformed widget spec, rejected before any data is
// touched.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid widget spec: %s: %s", e.Field, e.Msg)
}

// UnsupportedError reports a request for functionality the aggregation model
// does not have, such as multi-dimension grouping. It fails fast instead of
// silently dropping the extra dimensions.
type UnsupportedError struct {
	Msg string
}

func (e *UnsupportedError) Error() string { return e.Msg }

// Position describes where the widget sits on a dashboard grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// WidgetSpec is a stateless, declarative widget descriptor. It is treated as
// immutable for the duration of a rendering pass.
type WidgetSpec struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	ChartType   ChartType         `json:"chart_type"`
	Metrics     []string          `json:"metrics"`
	Dimensions  []string          `json:"dimensions,omitempty"`
	Aggregation Aggregation       `json:"aggregation"`
	Filters     map[string]string `json:"filters,omitempty"`

	TimeRange       timerange.Range `json:"time_range"`
	CustomStartDate string          `json:"custom_start_date,omitempty"`
	CustomEndDate   string          `json:"custom_end_date,omitempty"`

	// Gauge bounds are an explicit, required part of the spec; there is no
	// universal default range.
	GaugeMin *float64 `json:"gauge_min,omitempty"`
	GaugeMax *float64 `json:"gauge_max,omitempty"`

	RefreshSeconds int      `json:"refresh_seconds,omitempty"`
	Position       Position `json:"position"`
}

var validAggregations = map[Aggregation]bool{
	AggregationSum:     true,
	AggregationAverage: true,
	AggregationCount:   true,
	AggregationMin:     true,
	AggregationMax:     true,
	AggregationMedian:  true,
}

// Validate rejects malformed specs before any record is touched.
func (s *WidgetSpec) Validate() error {
	if _, ok := shapers[s.ChartType]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedChartType, s.ChartType)
	}
	if len(s.Metrics) == 0 {
		return &ValidationError{Field: "metrics", Msg: "at least one metric is required"}
	}
	if s.Aggregation != "" && !validAggregations[s.Aggregation] {
		return &ValidationError{Field: "aggregation", Msg: fmt.Sprintf("unknown aggregation %q", s.Aggregation)}
	}
	if len(s.Dimensions) > 1 {
		return &UnsupportedError{Msg: fmt.Sprintf("multi-dimension grouping is not supported (got %d dimensions)", len(s.Dimensions))}
	}
	switch s.ChartType {
	case ChartTypePie:
		if len(s.Metrics) != 1 {
			return &ValidationError{Field: "metrics", Msg: "pie charts require exactly one metric"}
		}
		if len(s.Dimensions) != 1 {
			return &ValidationError{Field: "dimensions", Msg: "pie charts require exactly one dimension"}
		}
	case ChartTypeGauge:
		if s.GaugeMin == nil || s.GaugeMax == nil {
			return &ValidationError{Field: "gauge_min/gauge_max", Msg: "gauge charts require explicit bounds"}
		}
		if *s.GaugeMin >= *s.GaugeMax {
			return &ValidationError{Field: "gauge_min/gauge_max", Msg: "gauge min must be below max"}
		}
	}
	return nil
}

// aggregation defaults to sum when the spec leaves it empty.
func (s *WidgetSpec) aggregation() Aggregation {
	if s.Aggregation == "" {
		return AggregationSum
	}
	return s.Aggregation
}

// groupDimension returns the grouping dimension, if any. Only the first
// dimension groups; Validate has already rejected specs with more than one.
func (s *WidgetSpec) groupDimension() (string, bool) {
	if len(s.Dimensions) == 0 {
		return "", false
	}
	return s.Dimensions[0], true
}
