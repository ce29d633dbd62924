package routes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/reconciler"
)

func PlannerRouter(router fiber.Router, orchestrator *reconciler.Orchestrator) {
	router.Get("/:origin/:destination", func(c *fiber.Ctx) error {
		return getPlanBetweenStops(c, orchestrator)
	})
}

func getPlanBetweenStops(c *fiber.Ctx, orchestrator *reconciler.Orchestrator) error {
	originIdentifier := c.Params("origin")
	destinationIdentifier := c.Params("destination")

	preference := reconciler.ParsePreference(c.Query("preference"))
	onePerVehicle := c.QueryBool("one_per_vehicle", false)
	detailed := c.QueryBool("detailed", false)

	now := time.Now()
	if datetimeString := c.Query("datetime"); datetimeString != "" {
		parsed, err := time.Parse(time.RFC3339, datetimeString)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter datetime should be an RFC3339/ISO8601 datetime",
			})
		}
		now = parsed
	}

	journeys, err := orchestrator.PlanJourneys(c.UserContext(), originIdentifier, destinationIdentifier, now)
	if err != nil {
		if errors.Is(err, reconciler.ErrNoTripsFound) {
			c.SendStatus(fiber.StatusNotFound)
		} else {
			c.SendStatus(fiber.StatusBadGateway)
		}
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if onePerVehicle {
		journeys = reconciler.SelectBestPerVehicle(journeys)
	}

	journeys = reconciler.SortJourneys(journeys, preference, now, reconciler.DefaultThresholds())

	marshalGroups := []string{"basic"}
	if detailed {
		marshalGroups = append(marshalGroups, "detailed")
	}

	journeysReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: marshalGroups,
	}, journeys)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not reduce journeys for response",
		})
	}

	return c.JSON(fiber.Map{
		"preference": preference,
		"count":      len(journeys),
		"journeys":   journeysReduced,
	})
}
