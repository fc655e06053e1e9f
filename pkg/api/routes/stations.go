package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

func StationsRouter(router fiber.Router, office *ticketoffice.Office) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(office.Network().Stations())
	})

	router.Get("/:station/departures", func(c *fiber.Ctx) error {
		n := office.Network()

		services, err := n.ServicesDepartingFrom(c.Params("station"))
		if err != nil {
			return sendError(c, err)
		}

		return sendReduced(c, serviceViews(n, services))
	})

	router.Get("/:station/arrivals", func(c *fiber.Ctx) error {
		n := office.Network()

		services, err := n.ServicesArrivingAt(c.Params("station"))
		if err != nil {
			return sendError(c, err)
		}

		return sendReduced(c, serviceViews(n, services))
	})

	router.Get("/:station/calls", func(c *fiber.Ctx) error {
		calls, err := office.Network().ServicesTouching(c.Params("station"))
		if err != nil {
			return sendError(c, err)
		}

		views := []CallView{}
		for _, call := range calls {
			views = append(views, CallView{
				ServiceID: call.ServiceID,
				Time:      call.Stop.Clock(),
				Departs:   call.Stop.Next != network.NoStop,
			})
		}

		return sendReduced(c, views)
	})
}

func serviceViews(n *network.Network, services []*network.Service) []ServiceView {
	views := []ServiceView{}
	for _, service := range services {
		views = append(views, newServiceView(n, service))
	}

	return views
}
