package widgets

// ChartPayload is the chart-shaped output of the aggregation engine,
// discriminated by chart family. The engine never retains a payload.
type ChartPayload interface {
	chartPayload()
}

// MetricPayload is the single-value shape.
type MetricPayload struct {
	Value  float64 `json:"value"`
	Metric string  `json:"metric"`
	Format string  `json:"format"`
}

// GaugePayload is the single-value shape with explicit bounds.
type GaugePayload struct {
	Value  float64 `json:"value"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Metric string  `json:"metric"`
}

// Dataset is one metric's series across the group labels.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// SeriesPayload is the line/bar shape: one dataset per requested metric, one
// data point per group.
type SeriesPayload struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// PiePayload is the pie shape: one slice per group.
type PiePayload struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// TablePayload is the tabular shape: dimension columns followed by metric
// columns, one row per group (or per record when ungrouped).
type TablePayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (MetricPayload) chartPayload() {}
func (GaugePayload) chartPayload()  {}
func (SeriesPayload) chartPayload() {}
func (PiePayload) chartPayload()    {}
func (TablePayload) chartPayload()  {}
