package widgets

import (
	"sort"
	"strconv"

	"adboard/internal/insights"
)

// shapeFunc turns aggregated groups into one chart family's payload.
type shapeFunc func(spec *WidgetSpec, groups []group) (ChartPayload, error)

// shapers is the closed dispatch table over chart families. A chart type
// missing here is rejected by Validate before any data is touched.
var shapers = map[ChartType]shapeFunc{
	ChartTypeMetric: shapeMetric,
	ChartTypeGauge:  shapeGauge,
	ChartTypeLine:   shapeSeries,
	ChartTypeBar:    shapeSeries,
	ChartTypePie:    shapePie,
	ChartTypeTable:  shapeTable,
}

// group is one partition of the filtered records. Ungrouped specs produce a
// single group holding everything.
type group struct {
	key     string
	records []*insights.InsightRecord
}

// Aggregate applies the widget spec to an in-memory record set and returns the
// chart-shaped payload. A filtered-out-to-empty input yields the chart
// family's canonical empty payload, never an error.
func Aggregate(spec *WidgetSpec, records []insights.InsightRecord) (ChartPayload, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	filtered := filterRecords(spec, records)
	if len(filtered) == 0 {
		return emptyPayload(spec), nil
	}

	return shapers[spec.ChartType](spec, groupRecords(spec, filtered))
}

// filterRecords keeps records matching every equality filter. A filter key not
// present on a record excludes that record.
func filterRecords(spec *WidgetSpec, records []insights.InsightRecord) []*insights.InsightRecord {
	filtered := make([]*insights.InsightRecord, 0, len(records))
	for i := range records {
		if matchesFilters(spec, &records[i]) {
			filtered = append(filtered, &records[i])
		}
	}
	return filtered
}

func matchesFilters(spec *WidgetSpec, rec *insights.InsightRecord) bool {
	for key, want := range spec.Filters {
		if dim, ok := rec.DimensionValue(key); ok {
			if dim != want {
				return false
			}
			continue
		}
		if val, ok := rec.MetricValue(key); ok {
			wantNum, err := strconv.ParseFloat(want, 64)
			if err != nil || val != wantNum {
				return false
			}
			continue
		}
		return false
	}
	return true
}

// groupRecords partitions by the spec's grouping dimension, preserving the
// insertion order of first-seen keys for label ordering. Without a dimension
// the whole set is one group.
func groupRecords(spec *WidgetSpec, records []*insights.InsightRecord) []group {
	dimension, ok := spec.groupDimension()
	if !ok {
		return []group{{records: records}}
	}

	index := make(map[string]int)
	groups := make([]group, 0)
	for _, rec := range records {
		key, _ := rec.DimensionValue(dimension)
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].records = append(groups[i].records, rec)
	}
	return groups
}

// aggregate applies the spec's aggregation function to one metric across one
// group's records.
func aggregate(agg Aggregation, metric string, records []*insights.InsightRecord) float64 {
	if agg == AggregationCount {
		return float64(len(records))
	}

	values := make([]float64, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.MetricValue(metric); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}

	switch agg {
	case AggregationAverage:
		return sum(values) / float64(len(values))
	case AggregationMin:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case AggregationMax:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	case AggregationMedian:
		return median(values)
	default:
		return sum(values)
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func emptyPayload(spec *WidgetSpec) ChartPayload {
	switch spec.ChartType {
	case ChartTypeMetric:
		return MetricPayload{Metric: spec.Metrics[0], Format: metricFormat(spec.Metrics[0])}
	case ChartTypeGauge:
		return GaugePayload{Min: *spec.GaugeMin, Max: *spec.GaugeMax, Metric: spec.Metrics[0]}
	case ChartTypeLine, ChartTypeBar:
		return SeriesPayload{Labels: []string{}, Datasets: []Dataset{}}
	case ChartTypePie:
		return PiePayload{Labels: []string{}, Data: []float64{}}
	default:
		return TablePayload{Columns: tableColumns(spec), Rows: [][]any{}}
	}
}

func shapeMetric(spec *WidgetSpec, groups []group) (ChartPayload, error) {
	metric := spec.Metrics[0]
	return MetricPayload{
		Value:  aggregate(spec.aggregation(), metric, allRecords(groups)),
		Metric: metric,
		Format: metricFormat(metric),
	}, nil
}

func shapeGauge(spec *WidgetSpec, groups []group) (ChartPayload, error) {
	metric := spec.Metrics[0]
	return GaugePayload{
		Value:  aggregate(spec.aggregation(), metric, allRecords(groups)),
		Min:    *spec.GaugeMin,
		Max:    *spec.GaugeMax,
		Metric: metric,
	}, nil
}

func shapeSeries(spec *WidgetSpec, groups []group) (ChartPayload, error) {
	dimension, ok := spec.groupDimension()
	if !ok {
		// A series without a grouping dimension has nothing to plot along the
		// axis; this mirrors the empty shape rather than inventing one.
		return SeriesPayload{Labels: []string{}, Datasets: []Dataset{}}, nil
	}

	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = displayLabel(dimension, g.key)
	}

	datasets := make([]Dataset, 0, len(spec.Metrics))
	for _, metric := range spec.Metrics {
		data := make([]float64, len(groups))
		for i, g := range groups {
			data[i] = aggregate(spec.aggregation(), metric, g.records)
		}
		datasets = append(datasets, Dataset{Label: metric, Data: data})
	}

	return SeriesPayload{Labels: labels, Datasets: datasets}, nil
}

func shapePie(spec *WidgetSpec, groups []group) (ChartPayload, error) {
	dimension, _ := spec.groupDimension()
	metric := spec.Metrics[0]

	labels := make([]string, len(groups))
	data := make([]float64, len(groups))
	for i, g := range groups {
		labels[i] = displayLabel(dimension, g.key)
		data[i] = aggregate(spec.aggregation(), metric, g.records)
	}

	return PiePayload{Labels: labels, Data: data}, nil
}

func shapeTable(spec *WidgetSpec, groups []group) (ChartPayload, error) {
	columns := tableColumns(spec)

	var rows [][]any
	if _, grouped := spec.groupDimension(); grouped {
		rows = make([][]any, 0, len(groups))
		for _, g := range groups {
			row := make([]any, 0, len(columns))
			row = append(row, g.key)
			for _, metric := range spec.Metrics {
				row = append(row, aggregate(spec.aggregation(), metric, g.records))
			}
			rows = append(rows, row)
		}
	} else {
		// Ungrouped tables list one row per record.
		records := allRecords(groups)
		rows = make([][]any, 0, len(records))
		for _, rec := range records {
			row := make([]any, 0, len(columns))
			for _, metric := range spec.Metrics {
				v, _ := rec.MetricValue(metric)
				row = append(row, v)
			}
			rows = append(rows, row)
		}
	}

	return TablePayload{Columns: columns, Rows: rows}, nil
}

func tableColumns(spec *WidgetSpec) []string {
	columns := make([]string, 0, len(spec.Dimensions)+len(spec.Metrics))
	columns = append(columns, spec.Dimensions...)
	columns = append(columns, spec.Metrics...)
	return columns
}

func allRecords(groups []group) []*insights.InsightRecord {
	if len(groups) == 1 {
		return groups[0].records
	}
	var records []*insights.InsightRecord
	for _, g := range groups {
		records = append(records, g.records...)
	}
	return records
}

var currencyMetrics = map[string]bool{
	"spend":            true,
	"purchase_value":   true,
	"conversion_value": true,
	"cpc":              true,
	"cpm":              true,
	"cpa":              true,
}

func metricFormat(metric string) string {
	switch {
	case metric == "ctr":
		return "percent"
	case currencyMetrics[metric]:
		return "currency"
	default:
		return "number"
	}
}
