package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

type SnapshotFunc func(ctx context.Context) error

func AdminRouter(router fiber.Router, office *ticketoffice.Office, saveSnapshot SnapshotFunc) {
	router.Post("/reset", func(c *fiber.Ctx) error {
		office.Reset()

		return c.SendStatus(fiber.StatusNoContent)
	})

	router.Post("/snapshot", func(c *fiber.Ctx) error {
		if saveSnapshot == nil {
			c.Status(fiber.StatusNotImplemented)
			return c.JSON(fiber.Map{
				"error": "No snapshot store is configured",
			})
		}

		if err := saveSnapshot(c.UserContext()); err != nil {
			return sendError(c, err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	})
}
