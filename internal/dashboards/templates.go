package dashboards

import (
	"adboard/internal/timerange"
	"adboard/internal/widgets"
)

// Template is a ready-made dashboard configuration a user can instantiate.
type Template struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Config      Dashboard `json:"config"`
}

func ptr(v float64) *float64 { return &v }

// BuiltinTemplates returns the predefined dashboards. Instantiating one goes
// through Store.Create, which assigns a fresh id.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Key:         "marketing_overview",
			Name:        "Marketing Overview",
			Description: "Campaign analysis across spend, conversions and engagement",
			Category:    "Marketing",
			Config:      marketingTemplate(),
		},
		{
			Key:         "sales_dashboard",
			Name:        "Sales Dashboard",
			Description: "Revenue and order analysis",
			Category:    "Sales",
			Config:      salesTemplate(),
		},
		{
			Key:         "financial_dashboard",
			Name:        "Financial Dashboard",
			Description: "Return on ad spend and cost metrics",
			Category:    "Finance",
			Config:      financialTemplate(),
		},
		{
			Key:         "performance_dashboard",
			Name:        "Performance Dashboard",
			Description: "Delivery and efficiency KPIs",
			Category:    "Performance",
			Config:      performanceTemplate(),
		},
	}
}

// TemplateByKey looks up one builtin template.
func TemplateByKey(key string) (Template, bool) {
	for _, t := range BuiltinTemplates() {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}

func marketingTemplate() Dashboard {
	return Dashboard{
		Name:        "Marketing Overview",
		Description: "Campaign analysis across spend, conversions and engagement",
		Layout:      "grid",
		Theme:       "light",
		Widgets: []widgets.WidgetSpec{
			{
				ID:          "total_spend",
				Title:       "Total Spend",
				ChartType:   widgets.ChartTypeMetric,
				Metrics:     []string{"spend"},
				Aggregation: widgets.AggregationSum,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 0, Y: 0, W: 3, H: 2},
			},
			{
				ID:          "total_conversions",
				Title:       "Conversions",
				ChartType:   widgets.ChartTypeMetric,
				Metrics:     []string{"conversions"},
				Aggregation: widgets.AggregationSum,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 3, Y: 0, W: 3, H: 2},
			},
			{
				ID:          "roas",
				Title:       "ROAS",
				ChartType:   widgets.ChartTypeGauge,
				Metrics:     []string{"roas"},
				Aggregation: widgets.AggregationAverage,
				TimeRange:   timerange.RangeLast30Days,
				GaugeMin:    ptr(0),
				GaugeMax:    ptr(10),
				Position:    widgets.Position{X: 6, Y: 0, W: 3, H: 2},
			},
			{
				ID:          "ctr",
				Title:       "CTR",
				ChartType:   widgets.ChartTypeGauge,
				Metrics:     []string{"ctr"},
				Aggregation: widgets.AggregationAverage,
				TimeRange:   timerange.RangeLast30Days,
				GaugeMin:    ptr(0),
				GaugeMax:    ptr(10),
				Position:    widgets.Position{X: 9, Y: 0, W: 3, H: 2},
			},
			{
				ID:         "spend_trend",
				Title:      "Spend Trend",
				ChartType:  widgets.ChartTypeLine,
				Metrics:    []string{"spend"},
				Dimensions: []string{"date"},
				TimeRange:  timerange.RangeLast30Days,
				Position:   widgets.Position{X: 0, Y: 2, W: 6, H: 4},
			},
			{
				ID:          "conversions_by_campaign",
				Title:       "Conversions by Campaign",
				ChartType:   widgets.ChartTypeBar,
				Metrics:     []string{"conversions"},
				Dimensions:  []string{"campaign_name"},
				Aggregation: widgets.AggregationSum,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 6, Y: 2, W: 6, H: 4},
			},
			{
				ID:         "performance_metrics",
				Title:      "Performance Metrics",
				ChartType:  widgets.ChartTypeTable,
				Metrics:    []string{"impressions", "clicks", "ctr", "cpc", "spend"},
				Dimensions: []string{"campaign_name"},
				TimeRange:  timerange.RangeLast30Days,
				Position:   widgets.Position{X: 0, Y: 6, W: 12, H: 4},
			},
		},
	}
}

func salesTemplate() Dashboard {
	return Dashboard{
		Name:        "Sales Dashboard",
		Description: "Revenue and order analysis",
		Layout:      "grid",
		Theme:       "light",
		Widgets: []widgets.WidgetSpec{
			{
				ID:          "total_revenue",
				Title:       "Total Revenue",
				ChartType:   widgets.ChartTypeMetric,
				Metrics:     []string{"purchase_value"},
				Aggregation: widgets.AggregationSum,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 0, Y: 0, W: 4, H: 2},
			},
			{
				ID:          "total_orders",
				Title:       "Total Orders",
				ChartType:   widgets.ChartTypeMetric,
				Metrics:     []string{"purchases"},
				Aggregation: widgets.AggregationSum,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 4, Y: 0, W: 4, H: 2},
			},
			{
				ID:          "avg_order_value",
				Title:       "Average Order Value",
				ChartType:   widgets.ChartTypeMetric,
				Metrics:     []string{"purchase_value"},
				Aggregation: widgets.AggregationAverage,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 8, Y: 0, W: 4, H: 2},
			},
			{
				ID:         "revenue_trend",
				Title:      "Revenue Trend",
				ChartType:  widgets.ChartTypeLine,
				Metrics:    []string{"purchase_value"},
				Dimensions: []string{"date"},
				TimeRange:  timerange.RangeLast30Days,
				Position:   widgets.Position{X: 0, Y: 2, W: 12, H: 4},
			},
		},
	}
}

func financialTemplate() Dashboard {
	return Dashboard{
		Name:        "Financial Dashboard",
		Description: "Return on ad spend and cost metrics",
		Layout:      "grid",
		Theme:       "light",
		Widgets: []widgets.WidgetSpec{
			{
				ID:          "roi",
				Title:       "ROAS",
				ChartType:   widgets.ChartTypeGauge,
				Metrics:     []string{"roas"},
				Aggregation: widgets.AggregationAverage,
				TimeRange:   timerange.RangeLast30Days,
				GaugeMin:    ptr(0),
				GaugeMax:    ptr(10),
				Position:    widgets.Position{X: 0, Y: 0, W: 6, H: 3},
			},
			{
				ID:          "revenue_vs_spend",
				Title:       "Revenue vs Spend",
				ChartType:   widgets.ChartTypeBar,
				Metrics:     []string{"purchase_value", "spend"},
				Dimensions:  []string{"date"},
				Aggregation: widgets.AggregationSum,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 6, Y: 0, W: 6, H: 3},
			},
			{
				ID:          "cost_per_conversion",
				Title:       "Cost per Conversion",
				ChartType:   widgets.ChartTypeLine,
				Metrics:     []string{"cpa"},
				Dimensions:  []string{"date"},
				Aggregation: widgets.AggregationAverage,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 0, Y: 3, W: 12, H: 4},
			},
		},
	}
}

func performanceTemplate() Dashboard {
	return Dashboard{
		Name:        "Performance Dashboard",
		Description: "Delivery and efficiency KPIs",
		Layout:      "grid",
		Theme:       "light",
		Widgets: []widgets.WidgetSpec{
			{
				ID:          "impressions",
				Title:       "Impressions",
				ChartType:   widgets.ChartTypeMetric,
				Metrics:     []string{"impressions"},
				Aggregation: widgets.AggregationSum,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 0, Y: 0, W: 3, H: 2},
			},
			{
				ID:          "clicks",
				Title:       "Clicks",
				ChartType:   widgets.ChartTypeMetric,
				Metrics:     []string{"clicks"},
				Aggregation: widgets.AggregationSum,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 3, Y: 0, W: 3, H: 2},
			},
			{
				ID:          "ctr_gauge",
				Title:       "CTR",
				ChartType:   widgets.ChartTypeGauge,
				Metrics:     []string{"ctr"},
				Aggregation: widgets.AggregationAverage,
				TimeRange:   timerange.RangeLast30Days,
				GaugeMin:    ptr(0),
				GaugeMax:    ptr(10),
				Position:    widgets.Position{X: 6, Y: 0, W: 3, H: 2},
			},
			{
				ID:          "cpc",
				Title:       "CPC",
				ChartType:   widgets.ChartTypeMetric,
				Metrics:     []string{"cpc"},
				Aggregation: widgets.AggregationAverage,
				TimeRange:   timerange.RangeLast30Days,
				Position:    widgets.Position{X: 9, Y: 0, W: 3, H: 2},
			},
			{
				ID:         "campaign_breakdown",
				Title:      "Campaign Breakdown",
				ChartType:  widgets.ChartTypeTable,
				Metrics:    []string{"ctr", "conversions", "spend"},
				Dimensions: []string{"campaign_name"},
				TimeRange:  timerange.RangeLast30Days,
				Position:   widgets.Position{X: 0, Y: 2, W: 12, H: 5},
			},
		},
	}
}
