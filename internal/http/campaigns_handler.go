package http

import (
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adboard/internal/campaigns"
	"adboard/internal/insights"
	"adboard/internal/reconcile"
)

// CampaignsIndexAction returns all known campaigns with their series summaries.
func CampaignsIndexAction(ctx *cartridge.Context) error {
	store := campaigns.NewStore(ctx.DB())

	list, err := store.ListCampaigns()
	if err != nil {
		ctx.Logger.Error("Failed to list campaigns", slog.Any("error", err))
		return renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"campaigns": list})
}

// CampaignShowAction returns a single campaign with its summary.
func CampaignShowAction(ctx *cartridge.Context) error {
	campaignID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid campaign ID"})
	}

	store := campaigns.NewStore(ctx.DB())
	campaign, err := store.GetCampaign(uint(campaignID))
	if err != nil {
		if err == campaigns.ErrNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
		}
		ctx.Logger.Error("Failed to load campaign", slog.Any("error", err), slog.Int("campaignID", campaignID))
		return renderError(ctx, err)
	}

	return ctx.JSON(campaign)
}

// CampaignInsightsAction returns a campaign's stored daily series, optionally
// limited to an inclusive from/to date window.
func CampaignInsightsAction(ctx *cartridge.Context) error {
	campaignID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid campaign ID"})
	}

	store := campaigns.NewStore(ctx.DB())

	fromStr := ctx.Query("from")
	toStr := ctx.Query("to")

	var records []insights.InsightRecord
	if fromStr != "" && toStr != "" {
		from, err := time.Parse(insights.DateLayout, fromStr)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from date, expected YYYY-MM-DD"})
		}
		to, err := time.Parse(insights.DateLayout, toStr)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to date, expected YYYY-MM-DD"})
		}
		records, err = store.LoadSeriesInRange(uint(campaignID), from, to)
		if err != nil {
			ctx.Logger.Error("Failed to load series", slog.Any("error", err), slog.Int("campaignID", campaignID))
			return renderError(ctx, err)
		}
	} else {
		records, err = store.LoadSeries(uint(campaignID))
		if err != nil {
			ctx.Logger.Error("Failed to load series", slog.Any("error", err), slog.Int("campaignID", campaignID))
			return renderError(ctx, err)
		}
	}

	return ctx.JSON(fiber.Map{"insights": records})
}

// campaignIngestBody is a manually supplied insight batch.
type campaignIngestBody struct {
	Records    []insights.RawInsight `json:"records"`
	Breakdowns []string              `json:"breakdowns,omitempty"`
}

// CampaignIngestAction reconciles a posted batch of raw insight records into
// the campaign's stored series and returns the reconciliation report.
func CampaignIngestAction(ctx *cartridge.Context) error {
	campaignID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid campaign ID"})
	}

	var body campaignIngestBody
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	store := campaigns.NewStore(ctx.DB())
	if _, err := store.GetCampaign(uint(campaignID)); err != nil {
		if err == campaigns.ErrNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
		}
		return renderError(ctx, err)
	}

	reconciler := reconcile.NewReconciler(store, ctx.Logger)
	result, err := reconciler.Reconcile(ctx.Ctx.Context(), uint(campaignID), body.Records, body.Breakdowns)
	if err != nil {
		ctx.Logger.Error("Reconciliation failed", slog.Any("error", err), slog.Int("campaignID", campaignID))
		return renderError(ctx, err)
	}

	return ctx.JSON(result)
}

// AccountsIndexAction returns the synced ad accounts.
func AccountsIndexAction(ctx *cartridge.Context) error {
	var accounts []campaigns.AdAccount
	if err := ctx.DB().Order("account_id").Find(&accounts).Error; err != nil {
		ctx.Logger.Error("Failed to list ad accounts", slog.Any("error", err))
		return renderError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"accounts": accounts})
}
