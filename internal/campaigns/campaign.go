// Package campaigns holds the ad account and campaign entities plus the
// gorm-backed store for their daily insight series.
package campaigns

import (
	"time"

	"adboard/internal/insights"
)

// Campaign status values as delivered by the ads platform.
const (
	StatusActive   = "ACTIVE"
	StatusPaused   = "PAUSED"
	StatusArchived = "ARCHIVED"
)

// AdAccount is one advertising account on the external platform.
type AdAccount struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID    string `gorm:"uniqueIndex;not null" json:"account_id"`
	Name         string `json:"name"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	AmountSpent  float64  `gorm:"default:0" json:"amount_spent"`
	Balance      float64  `gorm:"default:0" json:"balance"`
	SpendCap     *float64 `json:"spend_cap,omitempty"`
	BusinessName string   `json:"business_name,omitempty"`
	Timezone     string   `json:"timezone,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Campaign owns exactly one daily insight series. Its summary fields are
// recomputed as a pure function of the full stored series after every
// reconciliation pass, never patched incrementally.
type Campaign struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  uint   `gorm:"index;not null" json:"account_id"`
	CampaignID string `gorm:"uniqueIndex;not null" json:"campaign_id"`
	Name       string `gorm:"index" json:"name"`
	Objective  string `json:"objective,omitempty"`
	Status     string `gorm:"index" json:"status"`

	DailyBudget    *float64 `json:"daily_budget,omitempty"`
	LifetimeBudget *float64 `json:"lifetime_budget,omitempty"`

	// Summary over the entire stored series.
	TotalImpressions int64   `gorm:"default:0" json:"total_impressions"`
	TotalClicks      int64   `gorm:"default:0" json:"total_clicks"`
	TotalSpend       float64 `gorm:"default:0" json:"total_spend"`
	TotalReach       int64   `gorm:"default:0" json:"total_reach"`
	TotalConversions int64   `gorm:"default:0" json:"total_conversions"`
	CTR              float64 `gorm:"default:0" json:"ctr"`
	CPC              float64 `gorm:"default:0" json:"cpc"`
	CPM              float64 `gorm:"default:0" json:"cpm"`
	CPA              float64 `gorm:"default:0" json:"cpa"`
	ROAS             float64 `gorm:"default:0" json:"roas"`

	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ApplySummary writes a freshly folded summary onto the campaign.
func (c *Campaign) ApplySummary(totals insights.Totals, derived insights.Derived) {
	c.TotalImpressions = totals.Impressions
	c.TotalClicks = totals.Clicks
	c.TotalSpend = totals.Spend
	c.TotalReach = totals.Reach
	c.TotalConversions = totals.Conversions
	c.CTR = derived.CTR
	c.CPC = derived.CPC
	c.CPM = derived.CPM
	c.CPA = derived.CPA
	c.ROAS = derived.ROAS
}
