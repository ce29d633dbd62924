package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/gtfsrt"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/realtime"
)

func TripsRouter(router fiber.Router, lookup realtime.Lookup) {
	router.Get("/:tripid/live", func(c *fiber.Ctx) error {
		return getLiveTrip(c, lookup)
	})
}

func getLiveTrip(c *fiber.Ctx, lookup realtime.Lookup) error {
	correlationID := c.Params("tripid")
	mode := gtfsrt.Mode(c.Query("mode", string(gtfsrt.ModeTrain)))

	liveTrip := lookup.LiveTrip(c.UserContext(), correlationID, mode)

	// A correlation miss is normal - the service just has no live data
	if !liveTrip.Found() {
		return c.JSON(fiber.Map{
			"found": false,
		})
	}

	response := fiber.Map{
		"found": true,
	}

	if liveTrip.Vehicle != nil {
		vehicle := fiber.Map{
			"id":   liveTrip.Vehicle.ID,
			"mode": liveTrip.Vehicle.Mode,
		}

		if position := liveTrip.Vehicle.Vehicle.GetPosition(); position != nil {
			vehicle["latitude"] = position.GetLatitude()
			vehicle["longitude"] = position.GetLongitude()
		}
		if trip := liveTrip.Vehicle.Vehicle.GetTrip(); trip != nil {
			vehicle["tripId"] = trip.GetTripId()
		}
		if label := liveTrip.Vehicle.Vehicle.GetVehicle().GetLabel(); label != "" {
			vehicle["label"] = label
		}

		response["vehicle"] = vehicle
	}

	if liveTrip.TripUpdate != nil {
		response["tripUpdate"] = fiber.Map{
			"id":              liveTrip.TripUpdate.ID,
			"mode":            liveTrip.TripUpdate.Mode,
			"stopUpdateCount": len(liveTrip.TripUpdate.TripUpdate.GetStopTimeUpdate()),
		}
	}

	if liveTrip.Delay != nil {
		response["delay"] = fiber.Map{
			"minutes":         liveTrip.Delay.Minutes,
			"aheadOfSchedule": liveTrip.Delay.AheadOfSchedule,
			"stopUpdateCount": liveTrip.Delay.StopUpdateCount,
		}
	}

	return c.JSON(response)
}
