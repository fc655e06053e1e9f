package routes

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/ticketoffice/pkg/planner"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
	"github.com/travigo/ticketoffice/pkg/util"
)

func PlannerRouter(router fiber.Router, office *ticketoffice.Office) {
	router.Get("/:origin/:destination", func(c *fiber.Ctx) error {
		passenger, err := strconv.Atoi(c.Query("passenger"))
		if err != nil {
			return sendBadRequest(c, "Parameter passenger should be an integer")
		}

		now := time.Now()
		date := c.Query("date", now.Format(util.DateFormat))
		minTime := c.Query("time", util.FormatClock(now))

		var filter *planner.Filter
		if c.Query("filter") != "" {
			if filter, err = planner.CompileFilter(c.Query("filter")); err != nil {
				return sendError(c, err)
			}
		}

		results, err := office.Search(passenger, c.Params("origin"), c.Params("destination"), date, minTime)
		if err != nil {
			return sendError(c, err)
		}

		views := []ItineraryView{}
		for i, it := range results {
			if filter != nil {
				matched, err := filter.Match(it)
				if err != nil {
					return sendError(c, err)
				}
				if !matched {
					continue
				}
			}

			// Choices keep their position in the full result so they can be committed
			views = append(views, newItineraryView(it, i+1))
		}

		return sendReduced(c, views)
	})
}
