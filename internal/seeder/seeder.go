// Package seeder populates the database with realistic sample campaigns and
// insight series for development and demos.
package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"

	"adboard/internal/campaigns"
	"adboard/internal/insights"
	"adboard/internal/reconcile"
)

// Seeder handles the data seeding process. Generated batches go through the
// regular reconciliation path so the seeded summaries obey the same rules as
// synced data.
type Seeder struct {
	DBManager cartridge.DBManager
	Logger    *slog.Logger
	Days      int
}

// NewSeeder creates a new seeder instance
func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger, days int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if days <= 0 {
		days = 30
	}
	return &Seeder{
		DBManager: dbManager,
		Logger:    logger,
		Days:      days,
	}
}

type campaignProfile struct {
	name      string
	objective string
	status    string
	// Daily baselines; actual values jitter around these.
	impressions int
	ctr         float64
	spend       float64
}

var profiles = []campaignProfile{
	{"Summer Sale - Conversions", "OUTCOME_SALES", campaigns.StatusActive, 25000, 2.1, 180},
	{"Brand Awareness Q3", "OUTCOME_AWARENESS", campaigns.StatusActive, 90000, 0.6, 120},
	{"Retargeting - Cart Abandoners", "OUTCOME_SALES", campaigns.StatusActive, 8000, 3.4, 95},
	{"Lead Gen - Newsletter", "OUTCOME_LEADS", campaigns.StatusActive, 15000, 1.8, 60},
	{"Spring Promo (ended)", "OUTCOME_SALES", campaigns.StatusPaused, 30000, 1.9, 150},
}

// Run seeds one ad account with a set of campaigns and a daily insight
// series per campaign over the configured number of days.
func (s *Seeder) Run(ctx context.Context) error {
	start := time.Now()
	s.Logger.Info("Seeding sample campaign data...", slog.Int("days", s.Days))

	db := s.DBManager.GetConnection()
	store := campaigns.NewStore(db)

	account := &campaigns.AdAccount{
		AccountID:    "act_seed_000001",
		Name:         "Demo Ad Account",
		Currency:     "USD",
		Status:       "ACTIVE",
		BusinessName: "Demo Business",
		Timezone:     "UTC",
	}
	if err := store.UpsertAccount(account); err != nil {
		return fmt.Errorf("seeding account: %w", err)
	}

	reconciler := reconcile.NewReconciler(store, s.Logger)

	for i, profile := range profiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		campaign := &campaigns.Campaign{
			AccountID:  account.ID,
			CampaignID: fmt.Sprintf("seed_%06d", i+1),
			Name:       profile.name,
			Objective:  profile.objective,
			Status:     profile.status,
		}
		if err := store.UpsertCampaign(campaign); err != nil {
			return fmt.Errorf("seeding campaign %q: %w", profile.name, err)
		}

		var stored campaigns.Campaign
		if err := db.Where("campaign_id = ?", campaign.CampaignID).First(&stored).Error; err != nil {
			return fmt.Errorf("loading seeded campaign %q: %w", profile.name, err)
		}

		batch := s.generateSeries(profile)
		result, err := reconciler.Reconcile(ctx, stored.ID, batch, nil)
		if err != nil {
			return fmt.Errorf("reconciling seed data for %q: %w", profile.name, err)
		}

		s.Logger.Info("Seeded campaign",
			slog.String("name", profile.name),
			slog.Int("days", result.Upserted),
			slog.Int64("impressions", result.Totals.Impressions))
	}

	s.Logger.Info("Seeding completed", slog.Duration("elapsed", time.Since(start)))
	return nil
}

// generateSeries produces one raw daily record per day, jittered around the
// profile's baselines so charts look plausible.
func (s *Seeder) generateSeries(profile campaignProfile) []insights.RawInsight {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	batch := make([]insights.RawInsight, 0, s.Days)

	for d := s.Days; d >= 1; d-- {
		date := today.AddDate(0, 0, -d)

		impressions := jitterInt(profile.impressions, 0.35)
		clicks := int(float64(impressions) * jitter(profile.ctr, 0.25) / 100)
		spend := jitter(profile.spend, 0.30)
		purchases := clicks / 18
		leads := clicks / 12
		purchaseValue := float64(purchases) * jitter(55, 0.4)

		batch = append(batch, insights.RawInsight{
			"date":        date.Format(insights.DateLayout),
			"impressions": impressions,
			"clicks":      clicks,
			"spend":       spend,
			"reach":       int(float64(impressions) * 0.7),
			"frequency":   jitter(1.4, 0.1),
			"conversions": purchases + leads,
			"actions": []any{
				map[string]any{"action_type": "purchase", "value": purchases},
				map[string]any{"action_type": "lead", "value": leads},
				map[string]any{"action_type": "post_engagement", "value": clicks * 2},
			},
			"conversion_values": []any{
				map[string]any{"action_type": "purchase", "value": purchaseValue},
			},
		})
	}
	return batch
}

func jitter(base, spread float64) float64 {
	return base * (1 + (rand.Float64()*2-1)*spread)
}

func jitterInt(base int, spread float64) int {
	return int(jitter(float64(base), spread))
}
