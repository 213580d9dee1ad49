package campaigns_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/campaigns"
	"adboard/internal/insights"
	"adboard/internal/testsupport"
)

func day(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := time.Parse(insights.DateLayout, date)
	require.NoError(t, err)
	return d
}

func TestUpsertRecordOverwritesSameKey(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_1")
	campaign := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_1", "Store Test")

	first := &insights.InsightRecord{
		CampaignID:  campaign.ID,
		Date:        day(t, "2024-03-01"),
		Impressions: 1000,
		Clicks:      50,
		Spend:       12.5,
		Leads:       7,
	}
	require.NoError(t, store.UpsertRecord(first))

	// Revised figures for the same day replace the row wholesale; the old
	// leads count must not survive the overwrite.
	revised := &insights.InsightRecord{
		CampaignID:  campaign.ID,
		Date:        day(t, "2024-03-01"),
		Impressions: 1200,
		Clicks:      60,
		Spend:       14.0,
	}
	require.NoError(t, store.UpsertRecord(revised))

	series, err := store.LoadSeries(campaign.ID)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, int64(1200), series[0].Impressions)
	assert.Equal(t, int64(60), series[0].Clicks)
	assert.Equal(t, 14.0, series[0].Spend)
	assert.Equal(t, int64(0), series[0].Leads)
}

func TestUpsertRecordKeepsDistinctBreakdowns(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_2")
	campaign := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_2", "Breakdown Test")

	for _, country := range []string{"DE", "US"} {
		rec := &insights.InsightRecord{
			CampaignID:   campaign.ID,
			Date:         day(t, "2024-03-01"),
			BreakdownKey: "country=" + country,
			Dimensions:   map[string]string{"country": country},
			Impressions:  100,
		}
		require.NoError(t, store.UpsertRecord(rec))
	}

	series, err := store.LoadSeries(campaign.ID)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "country=DE", series[0].BreakdownKey)
	assert.Equal(t, "country=US", series[1].BreakdownKey)
	assert.Equal(t, "DE", series[0].Dimensions["country"])
}

func TestLoadSeriesOrdersByDate(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_3")
	campaign := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_3", "Order Test")

	for _, date := range []string{"2024-03-03", "2024-03-01", "2024-03-02"} {
		require.NoError(t, store.UpsertRecord(&insights.InsightRecord{
			CampaignID: campaign.ID,
			Date:       day(t, date),
		}))
	}

	series, err := store.LoadSeries(campaign.ID)
	require.NoError(t, err)
	require.Len(t, series, 3)
	var got []string
	for _, rec := range series {
		got = append(got, rec.Date.Format(insights.DateLayout))
	}
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03"}, got)
}

func TestLoadSeriesInRangeIsInclusive(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_4")
	campaign := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_4", "Range Test")

	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"} {
		require.NoError(t, store.UpsertRecord(&insights.InsightRecord{
			CampaignID: campaign.ID,
			Date:       day(t, date),
		}))
	}

	series, err := store.LoadSeriesInRange(campaign.ID, day(t, "2024-03-02"), day(t, "2024-03-03"))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2024-03-02", series[0].Date.Format(insights.DateLayout))
	assert.Equal(t, "2024-03-03", series[1].Date.Format(insights.DateLayout))
}

func TestSaveSummaryWritesCampaignRow(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_5")
	campaign := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_5", "Summary Test")

	totals := insights.Totals{Impressions: 10000, Clicks: 200, Spend: 150, Reach: 8000, Conversions: 20}
	require.NoError(t, store.SaveSummary(campaign.ID, totals, insights.Derive(totals)))

	stored, err := store.GetCampaign(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), stored.TotalImpressions)
	assert.Equal(t, int64(200), stored.TotalClicks)
	assert.Equal(t, 150.0, stored.TotalSpend)
	assert.Equal(t, int64(20), stored.TotalConversions)
	assert.InDelta(t, 2.0, stored.CTR, 0.0001)
	assert.InDelta(t, 0.75, stored.CPC, 0.0001)
	assert.NotNil(t, stored.LastSyncedAt)
}

func TestUpsertCampaignPreservesSummary(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_6")
	campaign := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_6", "Old Name")

	totals := insights.Totals{Impressions: 500, Clicks: 25, Spend: 10}
	require.NoError(t, store.SaveSummary(campaign.ID, totals, insights.Derive(totals)))

	// A metadata refresh from the platform must not clobber the folded summary.
	require.NoError(t, store.UpsertCampaign(&campaigns.Campaign{
		AccountID:  account.ID,
		CampaignID: "cmp_store_6",
		Name:       "New Name",
		Status:     campaigns.StatusPaused,
	}))

	stored, err := store.GetCampaign(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, campaigns.StatusPaused, stored.Status)
	assert.Equal(t, int64(500), stored.TotalImpressions)
	assert.Equal(t, int64(25), stored.TotalClicks)
}

func TestGetCampaignNotFound(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)

	_, err := store.GetCampaign(999999)
	assert.ErrorIs(t, err, campaigns.ErrNotFound)
}

func TestListActiveCampaigns(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_7")
	testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_7a", "Active One")
	paused := campaigns.Campaign{
		AccountID:  account.ID,
		CampaignID: "cmp_store_7b",
		Name:       "Paused One",
		Status:     campaigns.StatusPaused,
	}
	require.NoError(t, db.Create(&paused).Error)

	active, err := store.ListActiveCampaigns()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active One", active[0].Name)
}

func TestLoadRecordsForWidgetsAttachesCampaignNames(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_8")
	alpha := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_8a", "Alpha")
	beta := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_8b", "Beta")
	testsupport.CreateTestInsight(t, db, alpha.ID, "2024-03-01", 100, 10, 5)
	testsupport.CreateTestInsight(t, db, beta.ID, "2024-03-01", 200, 20, 8)

	records, err := store.LoadRecordsForWidgets(nil, day(t, "2024-03-01"), day(t, "2024-03-02"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha", records[0].CampaignName)
	assert.Equal(t, "Beta", records[1].CampaignName)

	onlyBeta, err := store.LoadRecordsForWidgets([]uint{beta.ID}, day(t, "2024-03-01"), day(t, "2024-03-02"))
	require.NoError(t, err)
	require.Len(t, onlyBeta, 1)
	assert.Equal(t, "Beta", onlyBeta[0].CampaignName)
}

func TestDeleteRecordsBefore(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := campaigns.NewStore(db)
	account := testsupport.CreateTestAccount(t, db, "act_store_9")
	campaign := testsupport.CreateTestCampaign(t, db, account.ID, "cmp_store_9", "Retention Test")

	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-06-01"} {
		testsupport.CreateTestInsight(t, db, campaign.ID, date, 100, 10, 1)
	}

	deleted, err := store.DeleteRecordsBefore(day(t, "2024-02-01"), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	remaining, err := store.LoadSeries(campaign.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "2024-06-01", remaining[0].Date.Format(insights.DateLayout))
}
