package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"adboard/internal/metaads"
	"adboard/internal/timerange"
	"adboard/internal/widgets"
)

// renderError maps domain errors onto HTTP statuses. Malformed input is a
// client error, requests for unsupported functionality are rejected as
// unprocessable, and upstream platform failures surface as a bad gateway.
func renderError(ctx *cartridge.Context, err error) error {
	var (
		widgetErr      *widgets.ValidationError
		rangeErr       *timerange.ValidationError
		unsupportedErr *widgets.UnsupportedError
		transportErr   *metaads.TransportError
	)

	switch {
	case errors.As(err, &widgetErr), errors.As(err, &rangeErr):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, widgets.ErrUnsupportedChartType), errors.As(err, &unsupportedErr):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &transportErr):
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
