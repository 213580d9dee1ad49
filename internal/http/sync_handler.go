package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adboard/internal/config"
	"adboard/internal/database"
	"adboard/internal/jobs"
	"adboard/internal/metaads"
)

// SyncTriggerAction kicks off an insight sync outside the regular schedule.
// The sync runs in the background; the response only acknowledges the start.
func SyncTriggerAction(ctx *cartridge.Context) error {
	cfg := config.GetConfig()
	if cfg.MetaAccessToken == "" {
		return ctx.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
			"error": "Ads platform access token not configured",
		})
	}

	dbManager, ok := ctx.DBManager.(*database.DBManager)
	if !ok {
		ctx.Logger.Error("Unexpected DB manager type for sync trigger")
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	client := metaads.NewClient(cfg.MetaAPIBaseURL, cfg.MetaAccessToken, nil, ctx.Logger)
	job := jobs.NewInsightSyncJob(dbManager, client, ctx.Logger, cfg)

	go func() {
		if err := job.Run(); err != nil {
			ctx.Logger.Error("Manual insight sync failed", slog.Any("error", err))
		}
	}()

	ctx.Logger.Info("Manual insight sync triggered")
	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "sync started"})
}
