package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/account"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
)

func StopsRouter(router fiber.Router, client *tfnsw.Client, preferencesStore account.PreferencesStore) {
	router.Get("/search", func(c *fiber.Ctx) error {
		return searchStops(c, client)
	})
	router.Get("/:identifier/departures", func(c *fiber.Ctx) error {
		return getStopDepartures(c, client, preferencesStore)
	})
}

func searchStops(c *fiber.Ctx, client *tfnsw.Client) error {
	searchQuery := c.Query("q")

	if searchQuery == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter q must contain a search term",
		})
	}

	stops, err := client.SearchStops(c.UserContext(), searchQuery)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	results := []fiber.Map{}
	for _, stop := range stops {
		results = append(results, fiber.Map{
			"id":    stop.ID,
			"name":  stop.DisplayName(),
			"type":  stop.Type,
			"coord": stop.Coord,
		})
	}

	return c.JSON(results)
}

func getStopDepartures(c *fiber.Ctx, client *tfnsw.Client, preferencesStore account.PreferencesStore) error {
	stopIdentifier := c.Params("identifier")

	departures, err := client.StopDepartures(c.UserContext(), stopIdentifier)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	preferences, err := preferencesStore.Get(c.UserContext())
	if err != nil {
		preferences = account.DefaultPreferences()
	}

	stopName := ""
	results := []fiber.Map{}
	for _, departure := range departures {
		if stopName == "" {
			stopName = departure.Location.Name
		}

		status, delayMinutes := departure.Status()

		result := fiber.Map{
			"line":         departure.Transportation.LineName(),
			"platform":     departure.PlatformName(),
			"status":       status,
			"delayMinutes": delayMinutes,
		}

		if departure.Transportation.Product != nil {
			result["productClass"] = departure.Transportation.Product.Class
		}

		if departureTime, ok := departure.Time(); ok {
			result["departureTime"] = departureTime
			result["departureTimeFormatted"] = preferences.FormatTime(departureTime)
		}

		results = append(results, result)
	}

	return c.JSON(fiber.Map{
		"stop":       stopName,
		"departures": results,
	})
}
