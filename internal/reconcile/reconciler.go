// Package reconcile merges batches of raw daily performance records into a
// campaign's stored series and keeps the campaign summary consistent with it.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"adboard/internal/insights"
)

// SeriesStore is the storage contract the reconciler depends on. Both
// operations are atomic at campaign granularity.
type SeriesStore interface {
	LoadSeries(campaignID uint) ([]insights.InsightRecord, error)
	UpsertRecord(rec *insights.InsightRecord) error
	SaveSummary(campaignID uint, totals insights.Totals, derived insights.Derived) error
}

// RecordReport describes one raw record that was excluded from a batch.
type RecordReport struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// Result summarizes one reconciliation pass. Skipped records are always
// reported alongside the upserted count.
type Result struct {
	CampaignID uint             `json:"campaign_id"`
	Upserted   int              `json:"upserted"`
	Skipped    int              `json:"skipped"`
	Reports    []RecordReport   `json:"reports,omitempty"`
	Totals     insights.Totals  `json:"totals"`
	Derived    insights.Derived `json:"derived"`
}

// Reconciler applies insight batches to campaign series. Distinct campaigns
// may be reconciled concurrently; writes to the same campaign are serialized
// because the summary recompute is not associative under interleaving.
type Reconciler struct {
	store  SeriesStore
	logger *slog.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewReconciler(store SeriesStore, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger,
		locks:  make(map[uint]*sync.Mutex),
	}
}

func (r *Reconciler) campaignLock(campaignID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[campaignID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[campaignID] = lock
	}
	return lock
}

// Reconcile normalizes the raw batch, upserts each surviving record into the
// campaign's series (a record for an already-stored date fully overwrites it),
// then recomputes the campaign summary by folding over the entire stored
// series. Records that fail normalization are reported and skipped without
// aborting the rest of the batch. The operation is idempotent: applying the
// same batch twice yields an identical series and summary.
func (r *Reconciler) Reconcile(ctx context.Context, campaignID uint, raws []insights.RawInsight, breakdowns []string) (*Result, error) {
	lock := r.campaignLock(campaignID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{CampaignID: campaignID}

	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := insights.Normalize(raw, breakdowns)
		if err != nil {
			result.Skipped++
			result.Reports = append(result.Reports, RecordReport{Index: i, Error: err.Error()})
			r.logger.Warn("Skipping insight record",
				slog.Uint64("campaignID", uint64(campaignID)),
				slog.Int("index", i),
				slog.Any("error", err))
			continue
		}

		rec.CampaignID = campaignID
		if err := r.store.UpsertRecord(&rec); err != nil {
			return nil, fmt.Errorf("reconciling campaign %d: %w", campaignID, err)
		}
		result.Upserted++
	}

	// Summary is a fold over the full stored series, not the incoming batch,
	// so partial syncs and backfills in any order converge on the same value.
	series, err := r.store.LoadSeries(campaignID)
	if err != nil {
		return nil, fmt.Errorf("reconciling campaign %d: %w", campaignID, err)
	}
	var totals insights.Totals
	for i := range series {
		totals.Add(series[i].Totals())
	}
	result.Totals = totals
	result.Derived = insights.Derive(totals)

	if err := r.store.SaveSummary(campaignID, result.Totals, result.Derived); err != nil {
		return nil, fmt.Errorf("reconciling campaign %d: %w", campaignID, err)
	}

	r.logger.Info("Reconciled insight batch",
		slog.Uint64("campaignID", uint64(campaignID)),
		slog.Int("upserted", result.Upserted),
		slog.Int("skipped", result.Skipped),
		slog.Int("seriesLen", len(series)))

	return result, nil
}
