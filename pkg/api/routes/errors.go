package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/planner"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

func errorStatus(err error) int {
	var (
		noPassenger   *ticketoffice.NoSuchPassengerIdError
		noChoice      *ticketoffice.NoSuchItineraryChoiceError
		nonUnique     *ticketoffice.NonUniquePassengerNameError
		noStation     *network.NoSuchStationError
		noService     *network.NoSuchServiceError
		badDateFormat *planner.BadDateFormatError
		badTimeFormat *planner.BadTimeFormatError
		badFilter     *planner.BadFilterError
	)

	switch {
	case errors.As(err, &noPassenger), errors.As(err, &noStation), errors.As(err, &noService):
		return fiber.StatusNotFound
	case errors.As(err, &nonUnique):
		return fiber.StatusConflict
	case errors.As(err, &noChoice),
		errors.As(err, &badDateFormat),
		errors.As(err, &badTimeFormat),
		errors.As(err, &badFilter),
		errors.Is(err, ticketoffice.ErrInvalidPassengerName):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	c.Status(errorStatus(err))
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}

func sendBadRequest(c *fiber.Ctx, message string) error {
	c.Status(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

// sendReduced writes the basic fields of data, and the detailed ones too when the
// request asks for ?detailed=true
func sendReduced(c *fiber.Ctx, data interface{}) error {
	groups := []string{"basic"}
	if c.QueryBool("detailed", false) {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, data)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce response",
		})
	}

	return c.JSON(reduced)
}
