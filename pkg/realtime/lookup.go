package realtime

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/gtfsrt"
)

// Feed is the slice of the GTFS-RT client the lookup needs
type Feed interface {
	VehiclePositions(ctx context.Context, mode gtfsrt.Mode) ([]gtfsrt.VehicleEntity, error)
	TripUpdates(ctx context.Context, mode gtfsrt.Mode) ([]gtfsrt.TripUpdateEntity, error)
}

// LiveTrip is the realtime state correlated to one scheduled journey.
// Either or both of Vehicle and TripUpdate may be nil.
type LiveTrip struct {
	Vehicle    *gtfsrt.VehicleEntity
	TripUpdate *gtfsrt.TripUpdateEntity
	Delay      *DelaySummary
}

func (t *LiveTrip) Found() bool {
	return t != nil && (t.Vehicle != nil || t.TripUpdate != nil)
}

type DelaySummary struct {
	Minutes         int
	AheadOfSchedule bool
	StopUpdateCount int
}

type Lookup struct {
	Feed Feed
}

// LiveTrip correlates a schedule-side trip identifier against the vehicle
// positions and trip updates feeds for a mode. The two feeds are fetched
// concurrently; when neither matches under the given mode hint the lookup
// retries once with the alternate mode, since trains and metro share an
// identifier namespace upstream. No match is a normal outcome, returned
// as an empty LiveTrip rather than an error.
func (l Lookup) LiveTrip(ctx context.Context, correlationID string, mode gtfsrt.Mode) *LiveTrip {
	if correlationID == "" {
		return &LiveTrip{}
	}

	trip := l.lookupMode(ctx, correlationID, mode)

	if !trip.Found() {
		if fallbackMode, ok := gtfsrt.FallbackMode(mode); ok {
			trip = l.lookupMode(ctx, correlationID, fallbackMode)
		}
	}

	if trip.TripUpdate != nil {
		trip.Delay = summariseDelay(trip.TripUpdate)
	}

	return trip
}

func (l Lookup) lookupMode(ctx context.Context, correlationID string, mode gtfsrt.Mode) *LiveTrip {
	trip := &LiveTrip{}

	var waitGroup conc.WaitGroup

	waitGroup.Go(func() {
		vehicles, err := l.Feed.VehiclePositions(ctx, mode)
		if err != nil {
			// A dead feed means no live data for this mode, nothing more
			log.Debug().Err(err).Str("mode", string(mode)).Msg("Vehicle positions feed unavailable")
			return
		}

		trip.Vehicle = FindVehicle(vehicles, correlationID)
	})

	waitGroup.Go(func() {
		updates, err := l.Feed.TripUpdates(ctx, mode)
		if err != nil {
			log.Debug().Err(err).Str("mode", string(mode)).Msg("Trip updates feed unavailable")
			return
		}

		trip.TripUpdate = FindTripUpdate(updates, correlationID)
	})

	waitGroup.Wait()

	return trip
}

// summariseDelay reports the delay at the first stop time update that
// carries one, in whole minutes
func summariseDelay(entity *gtfsrt.TripUpdateEntity) *DelaySummary {
	stopUpdates := entity.TripUpdate.GetStopTimeUpdate()
	if len(stopUpdates) == 0 {
		return nil
	}

	for _, stopUpdate := range stopUpdates {
		delay := stopUpdate.GetArrival().GetDelay()
		if delay == 0 {
			delay = stopUpdate.GetDeparture().GetDelay()
		}

		if delay != 0 {
			return &DelaySummary{
				Minutes:         int(math.Abs(math.Round(float64(delay) / 60))),
				AheadOfSchedule: delay < 0,
				StopUpdateCount: len(stopUpdates),
			}
		}
	}

	return &DelaySummary{StopUpdateCount: len(stopUpdates)}
}
