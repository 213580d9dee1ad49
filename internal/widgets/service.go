package widgets

import (
	"time"

	"adboard/internal/insights"
	"adboard/internal/timerange"
)

// RecordLoader loads the insight records a widget may see. The campaigns
// store satisfies it.
type RecordLoader interface {
	LoadRecordsForWidgets(campaignIDs []uint, from, to time.Time) ([]insights.InsightRecord, error)
}

// Scope restricts a rendering pass to a set of campaigns. An empty ID list
// means all campaigns. When both From and To are set they override the
// widget's own time range, so a dashboard can pin all its widgets to one
// shared window.
type Scope struct {
	CampaignIDs []uint
	From, To    time.Time
}

// Service renders widget payloads from stored insight data.
type Service struct {
	loader   RecordLoader
	resolver *timerange.Resolver
}

func NewService(loader RecordLoader, resolver *timerange.Resolver) *Service {
	if resolver == nil {
		resolver = timerange.NewResolver()
	}
	return &Service{loader: loader, resolver: resolver}
}

// GetWidgetData resolves the widget's time range, loads the in-scope records
// and aggregates them into the chart payload.
func (s *Service) GetWidgetData(spec *WidgetSpec, scope Scope) (ChartPayload, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	from, to := scope.From, scope.To
	if from.IsZero() || to.IsZero() {
		var err error
		from, to, err = s.resolver.Resolve(spec.TimeRange, spec.CustomStartDate, spec.CustomEndDate)
		if err != nil {
			return nil, err
		}
	}

	records, err := s.loader.LoadRecordsForWidgets(scope.CampaignIDs, from, to)
	if err != nil {
		return nil, err
	}

	return Aggregate(spec, records)
}
