package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adboard/internal/campaigns"
	"adboard/internal/insights"
	"adboard/internal/widgets"
)

// widgetDataBody is a widget rendering request: the widget spec plus an
// optional campaign scope. From/To, when both given, pin the widget to a
// shared dashboard-level window instead of its own time range.
type widgetDataBody struct {
	Widget      widgets.WidgetSpec `json:"widget"`
	CampaignIDs []uint             `json:"campaign_ids,omitempty"`
	From        string             `json:"from,omitempty"`
	To          string             `json:"to,omitempty"`
}

// WidgetDataAction resolves a widget spec against the stored insight series
// and returns the chart-shaped payload.
func WidgetDataAction(ctx *cartridge.Context) error {
	var body widgetDataBody
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scope := widgets.Scope{CampaignIDs: body.CampaignIDs}
	if body.From != "" && body.To != "" {
		from, err := time.Parse(insights.DateLayout, body.From)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from date, expected YYYY-MM-DD"})
		}
		to, err := time.Parse(insights.DateLayout, body.To)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to date, expected YYYY-MM-DD"})
		}
		scope.From, scope.To = from, to
	}

	store := campaigns.NewStore(ctx.DB())
	service := widgets.NewService(store, nil)

	payload, err := service.GetWidgetData(&body.Widget, scope)
	if err != nil {
		ctx.Logger.Warn("Widget data request rejected",
			slog.String("widgetID", body.Widget.ID),
			slog.String("chartType", string(body.Widget.ChartType)),
			slog.Any("error", err))
		return renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"widget_id": body.Widget.ID,
		"data":      payload,
	})
}
