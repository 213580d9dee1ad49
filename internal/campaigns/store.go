package campaigns

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adboard/internal/insights"
)

// ErrNotFound is returned when a campaign id does not exist.
var ErrNotFound = errors.New("campaign not found")

// Store persists campaigns, accounts and their insight series. Operations are
// atomic at entity granularity from the caller's perspective.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadSeries returns a campaign's full stored series ordered by date then
// breakdown key.
func (s *Store) LoadSeries(campaignID uint) ([]insights.InsightRecord, error) {
	var records []insights.InsightRecord
	err := s.db.
		Where("campaign_id = ?", campaignID).
		Order("date, breakdown_key").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("loading series for campaign %d: %w", campaignID, err)
	}
	return records, nil
}

// LoadSeriesInRange returns the records whose date falls inside the inclusive
// [from, to] interval.
func (s *Store) LoadSeriesInRange(campaignID uint, from, to time.Time) ([]insights.InsightRecord, error) {
	var records []insights.InsightRecord
	err := s.db.
		Where("campaign_id = ? AND date BETWEEN ? AND ?", campaignID, from, to).
		Order("date, breakdown_key").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("loading series for campaign %d: %w", campaignID, err)
	}
	return records, nil
}

// UpsertRecord inserts or fully overwrites the record stored under the same
// (campaign, date, breakdown) key. Re-ingesting a date never duplicates and
// never merges field-by-field.
func (s *Store) UpsertRecord(rec *insights.InsightRecord) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "date"}, {Name: "breakdown_key"}},
		UpdateAll: true,
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("upserting insight for campaign %d on %s: %w",
			rec.CampaignID, rec.Date.Format(insights.DateLayout), err)
	}
	return nil
}

// SaveSummary writes the recomputed series summary onto the campaign row.
func (s *Store) SaveSummary(campaignID uint, totals insights.Totals, derived insights.Derived) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"total_impressions": totals.Impressions,
		"total_clicks":      totals.Clicks,
		"total_spend":       totals.Spend,
		"total_reach":       totals.Reach,
		"total_conversions": totals.Conversions,
		"ctr":               derived.CTR,
		"cpc":               derived.CPC,
		"cpm":               derived.CPM,
		"cpa":               derived.CPA,
		"roas":              derived.ROAS,
		"last_synced_at":    now,
	}
	if err := s.db.Model(&Campaign{}).Where("id = ?", campaignID).Updates(updates).Error; err != nil {
		return fmt.Errorf("saving summary for campaign %d: %w", campaignID, err)
	}
	return nil
}

// UpsertAccount creates or refreshes an ad account by its remote id.
func (s *Store) UpsertAccount(account *AdAccount) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		UpdateAll: true,
	}).Create(account).Error
	if err != nil {
		return fmt.Errorf("upserting ad account %s: %w", account.AccountID, err)
	}
	return nil
}

// UpsertCampaign creates or refreshes a campaign by its remote id. Summary
// fields are left untouched; only reconciliation writes those.
func (s *Store) UpsertCampaign(campaign *Campaign) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "campaign_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"account_id", "name", "objective", "status", "daily_budget", "lifetime_budget", "updated_at",
		}),
	}).Create(campaign).Error
	if err != nil {
		return fmt.Errorf("upserting campaign %s: %w", campaign.CampaignID, err)
	}
	return nil
}

// ListCampaigns returns all campaigns ordered by name.
func (s *Store) ListCampaigns() ([]Campaign, error) {
	var list []Campaign
	if err := s.db.Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	return list, nil
}

// ListActiveCampaigns returns the campaigns eligible for insight sync.
func (s *Store) ListActiveCampaigns() ([]Campaign, error) {
	var list []Campaign
	if err := s.db.Where("status = ?", StatusActive).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing active campaigns: %w", err)
	}
	return list, nil
}

// GetCampaign fetches one campaign by local id.
func (s *Store) GetCampaign(id uint) (*Campaign, error) {
	var campaign Campaign
	err := s.db.First(&campaign, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching campaign %d: %w", id, err)
	}
	return &campaign, nil
}

// LoadRecordsForWidgets returns all records in range across the given
// campaigns (all campaigns when ids is empty), with campaign names attached
// for dimension grouping.
func (s *Store) LoadRecordsForWidgets(campaignIDs []uint, from, to time.Time) ([]insights.InsightRecord, error) {
	query := s.db.Where("date BETWEEN ? AND ?", from, to)
	if len(campaignIDs) > 0 {
		query = query.Where("campaign_id IN ?", campaignIDs)
	}

	var records []insights.InsightRecord
	if err := query.Order("campaign_id, date, breakdown_key").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("loading widget records: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	var list []Campaign
	if err := s.db.Select("id", "name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("loading campaign names: %w", err)
	}
	names := make(map[uint]string, len(list))
	for _, c := range list {
		names[c.ID] = c.Name
	}
	for i := range records {
		records[i].CampaignName = names[records[i].CampaignID]
	}
	return records, nil
}

// DeleteRecordsBefore removes insight records older than the cutoff date, in
// batches so the database is never locked for long. Returns the number of
// deleted rows.
func (s *Store) DeleteRecordsBefore(cutoff time.Time, batchSize int) (int64, error) {
	var total int64
	for {
		result := s.db.
			Where("date < ?", cutoff).
			Limit(batchSize).
			Delete(&insights.InsightRecord{})
		if result.Error != nil {
			return total, fmt.Errorf("deleting old insight records: %w", result.Error)
		}
		total += result.RowsAffected
		if result.RowsAffected < int64(batchSize) {
			return total, nil
		}
	}
}
