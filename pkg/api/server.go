package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/ticketoffice/pkg/api/routes"
	"github.com/travigo/ticketoffice/pkg/http_server"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

type Options struct {
	// AdminAuth guards the admin routes, which are only mounted when it is set
	AdminAuth    fiber.Handler
	SaveSnapshot routes.SnapshotFunc
}

func NewApp(office *ticketoffice.Office, options Options) *fiber.App {
	webApp := fiber.New(fiber.Config{
		UnescapePath:          true,
		DisableStartupMessage: true,
	})
	webApp.Use(http_server.NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StationsRouter(group.Group("/stations"), office)
	routes.ServicesRouter(group.Group("/services"), office)
	routes.PassengersRouter(group.Group("/passengers"), office)
	routes.PlannerRouter(group.Group("/planner"), office)

	if options.AdminAuth != nil {
		routes.AdminRouter(group.Group("/admin", options.AdminAuth), office, options.SaveSnapshot)
	}

	return webApp
}
