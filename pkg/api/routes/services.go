package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

func ServicesRouter(router fiber.Router, office *ticketoffice.Office) {
	router.Get("/", func(c *fiber.Ctx) error {
		n := office.Network()
		return sendReduced(c, serviceViews(n, n.Services()))
	})

	router.Get("/:id", func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return sendBadRequest(c, "Parameter id should be an integer")
		}

		n := office.Network()

		service, err := n.Service(id)
		if err != nil {
			return sendError(c, err)
		}

		return sendReduced(c, newServiceView(n, service))
	})
}
