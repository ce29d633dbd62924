package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/account"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/gtfsrt"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/realtime"
)

func VehiclesRouter(router fiber.Router, tracker *realtime.VehicleTracker, preferencesStore account.PreferencesStore) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getVehicles(c, tracker, preferencesStore)
	})
}

func getVehicles(c *fiber.Ctx, tracker *realtime.VehicleTracker, preferencesStore account.PreferencesStore) error {
	var modes []gtfsrt.Mode

	if modesQuery := c.Query("modes"); modesQuery != "" {
		for _, mode := range strings.Split(modesQuery, ",") {
			modes = append(modes, gtfsrt.Mode(mode))
		}
	} else {
		// No explicit filter; fall back to the modes enabled in the
		// stored display preferences
		preferences, err := preferencesStore.Get(c.UserContext())
		if err != nil {
			preferences = account.DefaultPreferences()
		}

		for _, mode := range preferences.EnabledModes() {
			modes = append(modes, gtfsrt.Mode(mode))
		}
	}

	vehicles, lastUpdated := tracker.Snapshot(modes)

	results := []fiber.Map{}
	for _, entity := range vehicles {
		position := entity.Vehicle.GetPosition()
		if position == nil {
			continue
		}

		result := fiber.Map{
			"id":        entity.ID,
			"mode":      entity.Mode,
			"latitude":  position.GetLatitude(),
			"longitude": position.GetLongitude(),
		}

		if trip := entity.Vehicle.GetTrip(); trip != nil {
			result["tripId"] = trip.GetTripId()
			result["routeId"] = trip.GetRouteId()
		}
		if label := entity.Vehicle.GetVehicle().GetLabel(); label != "" {
			result["label"] = label
		}

		results = append(results, result)
	}

	return c.JSON(fiber.Map{
		"lastUpdated": lastUpdated,
		"vehicles":    results,
	})
}
