package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adboard/internal/dashboards"
)

// DashboardsIndexAction lists all stored dashboards.
func DashboardsIndexAction(ctx *cartridge.Context) error {
	store := dashboards.NewStore(ctx.DB())
	list, err := store.List()
	if err != nil {
		ctx.Logger.Error("Failed to list dashboards", slog.Any("error", err))
		return renderError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"dashboards": list})
}

// DashboardCreateAction creates a dashboard from the posted configuration.
func DashboardCreateAction(ctx *cartridge.Context) error {
	var dashboard dashboards.Dashboard
	if err := ctx.BodyParser(&dashboard); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	store := dashboards.NewStore(ctx.DB())
	if err := store.Create(&dashboard); err != nil {
		ctx.Logger.Warn("Dashboard creation rejected", slog.Any("error", err))
		return renderError(ctx, err)
	}

	ctx.Logger.Info("Dashboard created",
		slog.String("id", dashboard.ID),
		slog.String("name", dashboard.Name),
		slog.Int("widgets", len(dashboard.Widgets)))

	return ctx.Status(fiber.StatusCreated).JSON(dashboard)
}

// DashboardShowAction returns one dashboard by id.
func DashboardShowAction(ctx *cartridge.Context) error {
	id := ctx.Params("id")
	store := dashboards.NewStore(ctx.DB())

	dashboard, err := store.Get(id)
	if err != nil {
		if err == dashboards.ErrNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dashboard not found"})
		}
		ctx.Logger.Error("Failed to load dashboard", slog.Any("error", err), slog.String("id", id))
		return renderError(ctx, err)
	}

	return ctx.JSON(dashboard)
}

// DashboardUpdateAction replaces a dashboard's configuration.
func DashboardUpdateAction(ctx *cartridge.Context) error {
	id := ctx.Params("id")

	var dashboard dashboards.Dashboard
	if err := ctx.BodyParser(&dashboard); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	store := dashboards.NewStore(ctx.DB())
	if err := store.Update(id, &dashboard); err != nil {
		if err == dashboards.ErrNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dashboard not found"})
		}
		ctx.Logger.Warn("Dashboard update rejected", slog.Any("error", err), slog.String("id", id))
		return renderError(ctx, err)
	}

	ctx.Logger.Info("Dashboard updated", slog.String("id", id))
	return ctx.JSON(dashboard)
}

// DashboardDeleteAction removes a dashboard.
func DashboardDeleteAction(ctx *cartridge.Context) error {
	id := ctx.Params("id")
	store := dashboards.NewStore(ctx.DB())

	if err := store.Delete(id); err != nil {
		if err == dashboards.ErrNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dashboard not found"})
		}
		ctx.Logger.Error("Failed to delete dashboard", slog.Any("error", err), slog.String("id", id))
		return renderError(ctx, err)
	}

	ctx.Logger.Info("Dashboard deleted", slog.String("id", id))
	return ctx.SendStatus(fiber.StatusNoContent)
}

// DashboardTemplatesAction lists the builtin dashboard templates.
func DashboardTemplatesAction(ctx *cartridge.Context) error {
	return ctx.JSON(fiber.Map{"templates": dashboards.BuiltinTemplates()})
}

// DashboardFromTemplateAction instantiates a builtin template as a new
// stored dashboard.
func DashboardFromTemplateAction(ctx *cartridge.Context) error {
	key := ctx.Params("key")

	template, ok := dashboards.TemplateByKey(key)
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown template"})
	}

	dashboard := template.Config
	store := dashboards.NewStore(ctx.DB())
	if err := store.Create(&dashboard); err != nil {
		ctx.Logger.Error("Failed to instantiate template", slog.Any("error", err), slog.String("template", key))
		return renderError(ctx, err)
	}

	ctx.Logger.Info("Dashboard created from template",
		slog.String("id", dashboard.ID),
		slog.String("template", key))

	return ctx.Status(fiber.StatusCreated).JSON(dashboard)
}

// DashboardExportAction returns a dashboard configuration as a portable JSON
// document.
func DashboardExportAction(ctx *cartridge.Context) error {
	id := ctx.Params("id")
	store := dashboards.NewStore(ctx.DB())

	dashboard, err := store.Get(id)
	if err != nil {
		if err == dashboards.ErrNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dashboard not found"})
		}
		return renderError(ctx, err)
	}

	data, err := dashboard.Export()
	if err != nil {
		ctx.Logger.Error("Failed to export dashboard", slog.Any("error", err), slog.String("id", id))
		return renderError(ctx, err)
	}

	ctx.Ctx.Set("Content-Type", "application/json")
	ctx.Ctx.Set("Content-Disposition", "attachment; filename="+id+".json")
	return ctx.Ctx.Send(data)
}

// DashboardImportAction creates a dashboard from an exported configuration.
func DashboardImportAction(ctx *cartridge.Context) error {
	dashboard, err := dashboards.Import(ctx.Ctx.Body())
	if err != nil {
		ctx.Logger.Warn("Dashboard import rejected", slog.Any("error", err))
		return renderError(ctx, err)
	}

	store := dashboards.NewStore(ctx.DB())
	if err := store.Create(dashboard); err != nil {
		return renderError(ctx, err)
	}

	ctx.Logger.Info("Dashboard imported",
		slog.String("id", dashboard.ID),
		slog.String("name", dashboard.Name))

	return ctx.Status(fiber.StatusCreated).JSON(dashboard)
}
