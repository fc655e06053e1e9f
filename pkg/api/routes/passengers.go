package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

type passengerRequest struct {
	Name string `json:"name"`
}

type commitRequest struct {
	Choice int `json:"choice"`
}

func PassengersRouter(router fiber.Router, office *ticketoffice.Office) {
	router.Get("/", func(c *fiber.Ctx) error {
		views := []PassengerView{}
		for _, passenger := range office.Passengers() {
			views = append(views, newPassengerView(passenger))
		}

		return sendReduced(c, views)
	})

	router.Post("/", func(c *fiber.Ctx) error {
		var requestBody passengerRequest
		if err := c.BodyParser(&requestBody); err != nil {
			return sendBadRequest(c, "Body should be a JSON object with a name")
		}

		passenger, err := office.RegisterPassenger(requestBody.Name)
		if err != nil {
			return sendError(c, err)
		}

		c.Status(fiber.StatusCreated)
		return sendReduced(c, newPassengerView(passenger))
	})

	router.Get("/:id", func(c *fiber.Ctx) error {
		id, err := passengerID(c)
		if err != nil {
			return sendBadRequest(c, err.Error())
		}

		passenger, err := office.Passenger(id)
		if err != nil {
			return sendError(c, err)
		}

		return sendReduced(c, newPassengerView(passenger))
	})

	router.Patch("/:id", func(c *fiber.Ctx) error {
		id, err := passengerID(c)
		if err != nil {
			return sendBadRequest(c, err.Error())
		}

		var requestBody passengerRequest
		if err := c.BodyParser(&requestBody); err != nil {
			return sendBadRequest(c, "Body should be a JSON object with a name")
		}

		if err := office.RenamePassenger(id, requestBody.Name); err != nil {
			return sendError(c, err)
		}

		passenger, err := office.Passenger(id)
		if err != nil {
			return sendError(c, err)
		}

		return sendReduced(c, newPassengerView(passenger))
	})

	router.Get("/:id/itineraries", func(c *fiber.Ctx) error {
		id, err := passengerID(c)
		if err != nil {
			return sendBadRequest(c, err.Error())
		}

		history, err := office.PassengerHistory(id)
		if err != nil {
			return sendError(c, err)
		}

		views := []ItineraryView{}
		for _, it := range history {
			views = append(views, newItineraryView(it, 0))
		}

		return sendReduced(c, views)
	})

	router.Post("/:id/itineraries", func(c *fiber.Ctx) error {
		id, err := passengerID(c)
		if err != nil {
			return sendBadRequest(c, err.Error())
		}

		var requestBody commitRequest
		if err := c.BodyParser(&requestBody); err != nil {
			return sendBadRequest(c, "Body should be a JSON object with a choice")
		}

		receipt, err := office.CommitChoice(id, requestBody.Choice)
		if err != nil {
			return sendError(c, err)
		}

		c.Status(fiber.StatusCreated)
		return c.JSON(fiber.Map{
			"applied_cost": receipt.AppliedCost,
			"category":     receipt.Category.Name,
			"sequence":     receipt.Itinerary.Sequence,
		})
	})
}

func passengerID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Parameter id should be an integer")
	}

	return id, nil
}
