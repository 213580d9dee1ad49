package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"adboard/internal/campaigns"
	"adboard/internal/config"
	"adboard/internal/database"
	"adboard/internal/metaads"
	"adboard/internal/pkg/async"
	"adboard/internal/reconcile"
)

// InsightSyncJob pulls fresh campaign data from the ads platform and
// reconciles it into the stored series.
type InsightSyncJob struct {
	dbManager *database.DBManager
	client    *metaads.Client
	logger    *slog.Logger
	cfg       *config.Config
}

func NewInsightSyncJob(dbManager *database.DBManager, client *metaads.Client, logger *slog.Logger, cfg *config.Config) *InsightSyncJob {
	return &InsightSyncJob{
		dbManager: dbManager,
		client:    client,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run refreshes accounts and campaigns, then fetches and reconciles the
// insight series for every active campaign over the lookback window. Each
// campaign syncs as its own task so one failing campaign never aborts the
// rest of the run.
func (j *InsightSyncJob) Run() error {
	ctx := context.Background()
	store := campaigns.NewStore(j.dbManager.GetConnection())

	j.logger.Info("Starting insight sync",
		slog.Int("lookbackDays", j.cfg.SyncLookbackDays),
		slog.Int("workers", j.cfg.SyncWorkers))

	if err := j.syncAccounts(ctx, store); err != nil {
		// Account metadata is cosmetic for widgets; keep going with what we
		// already have stored.
		j.logger.Warn("Account refresh failed, continuing with stored campaigns", slog.Any("error", err))
	}

	active, err := store.ListActiveCampaigns()
	if err != nil {
		return fmt.Errorf("listing active campaigns: %w", err)
	}
	if len(active) == 0 {
		j.logger.Info("No active campaigns to sync")
		return nil
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -j.cfg.SyncLookbackDays)
	breakdowns := j.breakdowns()
	reconciler := reconcile.NewReconciler(store, j.logger)

	tasks := make([]async.Task, 0, len(active))
	for _, campaign := range active {
		campaign := campaign
		tasks = append(tasks, async.Task{
			Name: campaign.CampaignID,
			Execute: func() (any, error) {
				raws, err := j.client.FetchInsights(ctx, campaign.CampaignID, from, to, breakdowns)
				if err != nil {
					return nil, err
				}
				return reconciler.Reconcile(ctx, campaign.ID, raws, breakdowns)
			},
		})
	}

	pool := async.NewPool(j.cfg.SyncWorkers)
	results := pool.Execute(ctx, tasks)

	synced, failed := 0, 0
	for name, result := range results {
		if result.Err != nil {
			failed++
			j.logger.Error("Campaign sync failed",
				slog.String("campaignID", name),
				slog.Any("error", result.Err))
			continue
		}
		synced++
		if r, ok := result.Data.(*reconcile.Result); ok && r.Skipped > 0 {
			j.logger.Warn("Campaign sync skipped records",
				slog.String("campaignID", name),
				slog.Int("skipped", r.Skipped))
		}
	}

	j.logger.Info("Insight sync finished",
		slog.Int("synced", synced),
		slog.Int("failed", failed))

	if failed > 0 && synced == 0 {
		return fmt.Errorf("insight sync failed for all %d campaigns", failed)
	}
	return nil
}

// syncAccounts refreshes ad account and campaign metadata from the platform.
func (j *InsightSyncJob) syncAccounts(ctx context.Context, store *campaigns.Store) error {
	accounts, err := j.client.FetchAdAccounts(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, remote := range accounts {
		account := &campaigns.AdAccount{
			AccountID:    remote.AccountID,
			Name:         remote.Name,
			Currency:     remote.Currency,
			Status:       remote.Status,
			AmountSpent:  metaads.ParseMinorUnits(remote.AmountSpent),
			Balance:      metaads.ParseMinorUnits(remote.Balance),
			BusinessName: remote.BusinessName,
			Timezone:     remote.Timezone,
			LastSyncedAt: &now,
		}
		if remote.SpendCap != "" {
			spendCap := metaads.ParseMinorUnits(remote.SpendCap)
			account.SpendCap = &spendCap
		}
		if err := store.UpsertAccount(account); err != nil {
			return err
		}

		remoteCampaigns, err := j.client.FetchCampaigns(ctx, remote.AccountID)
		if err != nil {
			return err
		}
		for _, rc := range remoteCampaigns {
			campaign := &campaigns.Campaign{
				AccountID:    account.ID,
				CampaignID:   rc.ID,
				Name:         rc.Name,
				Objective:    rc.Objective,
				Status:       rc.Status,
				LastSyncedAt: &now,
			}
			if rc.DailyBudget != "" {
				budget := metaads.ParseMinorUnits(rc.DailyBudget)
				campaign.DailyBudget = &budget
			}
			if rc.LifetimeBudget != "" {
				budget := metaads.ParseMinorUnits(rc.LifetimeBudget)
				campaign.LifetimeBudget = &budget
			}
			if err := store.UpsertCampaign(campaign); err != nil {
				return err
			}
		}
	}
	return nil
}

func (j *InsightSyncJob) breakdowns() []string {
	if j.cfg.SyncBreakdowns == "" {
		return nil
	}
	parts := strings.Split(j.cfg.SyncBreakdowns, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
