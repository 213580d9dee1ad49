// Package insights defines the canonical daily performance record and the
// boundary that converts raw ads-platform payloads into it.
package insights

import (
	"time"
)

// InsightRecord is one campaign x one calendar date x one breakdown combination.
// Base counters are the source of truth; ratio metrics (ctr, cpc, ...) are never
// stored and always recomputed from the counters, see Derive.
type InsightRecord struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"-"`
	CampaignID uint `gorm:"uniqueIndex:idx_campaign_date_breakdown;not null" json:"campaign_id"`

	// Date is the calendar day at midnight UTC.
	Date time.Time `gorm:"uniqueIndex:idx_campaign_date_breakdown;index;not null" json:"date"`

	// BreakdownKey is the canonical "k=v|k=v" form of Dimensions, "" when the
	// record has no breakdowns. Part of the unique key so that re-ingesting a
	// date overwrites in place.
	BreakdownKey string            `gorm:"uniqueIndex:idx_campaign_date_breakdown;default:''" json:"breakdown_key"`
	Dimensions   map[string]string `gorm:"serializer:json" json:"dimensions,omitempty"`

	Impressions      int64   `gorm:"default:0" json:"impressions"`
	Clicks           int64   `gorm:"default:0" json:"clicks"`
	Spend            float64 `gorm:"default:0" json:"spend"`
	Reach            int64   `gorm:"default:0" json:"reach"`
	Frequency        float64 `gorm:"default:0" json:"frequency"`
	LinkClicks       int64   `gorm:"default:0" json:"link_clicks"`
	UniqueLinkClicks int64   `gorm:"default:0" json:"unique_link_clicks"`

	VideoViews     int64 `gorm:"default:0" json:"video_views"`
	VideoViewsP25  int64 `gorm:"default:0" json:"video_views_p25"`
	VideoViewsP50  int64 `gorm:"default:0" json:"video_views_p50"`
	VideoViewsP75  int64 `gorm:"default:0" json:"video_views_p75"`
	VideoViewsP100 int64 `gorm:"default:0" json:"video_views_p100"`

	PostEngagement int64 `gorm:"default:0" json:"post_engagement"`
	PostReactions  int64 `gorm:"default:0" json:"post_reactions"`
	PostComments   int64 `gorm:"default:0" json:"post_comments"`
	PostShares     int64 `gorm:"default:0" json:"post_shares"`

	Leads         int64   `gorm:"default:0" json:"leads"`
	Purchases     int64   `gorm:"default:0" json:"purchases"`
	PurchaseValue float64 `gorm:"default:0" json:"purchase_value"`

	// Conversions and ConversionValue come from the source's generic conversion
	// fields. They are distinct counters from Leads/Purchases and are never
	// derived from them.
	Conversions     int64   `gorm:"default:0" json:"conversions"`
	ConversionValue float64 `gorm:"default:0" json:"conversion_value"`

	// Anomalous marks records with clicks > impressions. The values are kept
	// as delivered, never corrected.
	Anomalous bool `gorm:"default:false" json:"anomalous,omitempty"`

	// CampaignName is attached at read time for dimension grouping.
	CampaignName string `gorm:"-" json:"campaign_name,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DateLayout is the calendar-date wire format used across the module.
const DateLayout = "2006-01-02"

// MetricValue returns the named metric for this record. Ratio metrics are
// recomputed from the record's own counters on every call.
func (r *InsightRecord) MetricValue(name string) (float64, bool) {
	switch name {
	case "impressions":
		return float64(r.Impressions), true
	case "clicks":
		return float64(r.Clicks), true
	case "spend":
		return r.Spend, true
	case "reach":
		return float64(r.Reach), true
	case "frequency":
		return r.Frequency, true
	case "link_clicks":
		return float64(r.LinkClicks), true
	case "unique_link_clicks":
		return float64(r.UniqueLinkClicks), true
	case "video_views":
		return float64(r.VideoViews), true
	case "video_views_p25":
		return float64(r.VideoViewsP25), true
	case "video_views_p50":
		return float64(r.VideoViewsP50), true
	case "video_views_p75":
		return float64(r.VideoViewsP75), true
	case "video_views_p100":
		return float64(r.VideoViewsP100), true
	case "post_engagement":
		return float64(r.PostEngagement), true
	case "post_reactions":
		return float64(r.PostReactions), true
	case "post_comments":
		return float64(r.PostComments), true
	case "post_shares":
		return float64(r.PostShares), true
	case "leads":
		return float64(r.Leads), true
	case "purchases":
		return float64(r.Purchases), true
	case "purchase_value":
		return r.PurchaseValue, true
	case "conversions":
		return float64(r.Conversions), true
	case "conversion_value":
		return r.ConversionValue, true
	case "ctr", "cpc", "cpm", "cpa", "roas":
		d := Derive(r.Totals())
		switch name {
		case "ctr":
			return d.CTR, true
		case "cpc":
			return d.CPC, true
		case "cpm":
			return d.CPM, true
		case "cpa":
			return d.CPA, true
		default:
			return d.ROAS, true
		}
	}
	return 0, false
}

// DimensionValue returns the named dimension for this record. "date" and
// "campaign_name" are always addressable; everything else comes from the
// breakdown dimensions attached at normalization time.
func (r *InsightRecord) DimensionValue(name string) (string, bool) {
	switch name {
	case "date":
		return r.Date.Format(DateLayout), true
	case "campaign_name":
		if r.CampaignName == "" {
			return "", false
		}
		return r.CampaignName, true
	}
	v, ok := r.Dimensions[name]
	return v, ok
}

// Totals projects the record's base counters into the shape the derived-metric
// calculator consumes.
func (r *InsightRecord) Totals() Totals {
	return Totals{
		Impressions:   r.Impressions,
		Clicks:        r.Clicks,
		Spend:         r.Spend,
		Reach:         r.Reach,
		Conversions:   r.Conversions,
		PurchaseValue: r.PurchaseValue,
	}
}
