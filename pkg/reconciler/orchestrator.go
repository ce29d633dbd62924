package reconciler

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/util"
)

// ErrNoTripsFound is returned when every time window came back empty and
// the fallback query did too
var ErrNoTripsFound = errors.New("no trips found between the requested stops")

// TripPlanner is the slice of the upstream client the orchestrator needs
type TripPlanner interface {
	PlanTrips(ctx context.Context, originID string, destinationID string, at time.Time, opts tfnsw.TripOptions) ([]tfnsw.Journey, error)
}

// Orchestrator fans a trip query out across a fixed set of time windows so
// the combined result covers roughly the same span as the official app: the
// trailing six hours, the next two at high resolution, and a few hours
// beyond that.
type Orchestrator struct {
	Planner TripPlanner

	// Windows queried concurrently per batch; batches run sequentially
	// with a pause between them to stay under the upstream rate limit
	BatchSize  int
	BatchPause time.Duration

	// Requested trip count per window, and for the single fallback query
	WindowTripCount   int
	FallbackTripCount int
}

func NewOrchestrator(planner TripPlanner) *Orchestrator {
	return &Orchestrator{
		Planner: planner,

		BatchSize:  3,
		BatchPause: 100 * time.Millisecond,

		WindowTripCount:   150,
		FallbackTripCount: 300,
	}
}

// queryWindows returns the time points queried for a plan request:
// two-hourly over the trailing six hours up to now, half-hourly over the
// next two hours, then two-hourly out to five hours ahead.
func queryWindows(now time.Time) []time.Time {
	windows := []time.Time{}

	for hoursAgo := 6; hoursAgo > 0; hoursAgo -= 2 {
		windows = append(windows, now.Add(-time.Duration(hoursAgo)*time.Hour))
	}

	windows = append(windows, now)

	for minutesAhead := 30; minutesAhead <= 120; minutesAhead += 30 {
		windows = append(windows, now.Add(time.Duration(minutesAhead)*time.Minute))
	}
	for hoursAhead := 3; hoursAhead <= 6; hoursAhead += 2 {
		windows = append(windows, now.Add(time.Duration(hoursAhead)*time.Hour))
	}

	return windows
}

// PlanJourneys runs the full fan-out, tolerating individual window
// failures, and returns the deduplicated journey set. The result is
// deliberately unsorted - preference sorting happens downstream so a
// preference change doesn't require a re-fetch.
func (o *Orchestrator) PlanJourneys(ctx context.Context, originID string, destinationID string, now time.Time) ([]tfnsw.Journey, error) {
	windows := queryWindows(now)

	var journeys []tfnsw.Journey

	for start := 0; start < len(windows); start += o.BatchSize {
		end := start + o.BatchSize
		if end > len(windows) {
			end = len(windows)
		}

		batch := pool.NewWithResults[[]tfnsw.Journey]()

		for _, window := range windows[start:end] {
			window := window
			batch.Go(func() []tfnsw.Journey {
				result, err := o.Planner.PlanTrips(ctx, originID, destinationID, window, tfnsw.TripOptions{Count: o.WindowTripCount})
				if err != nil {
					// One bad window never aborts the whole plan
					log.Debug().Err(err).Time("window", window).Msg("Time window query failed")
					return nil
				}

				return result
			})
		}

		for _, result := range batch.Wait() {
			journeys = append(journeys, result...)
		}

		if end < len(windows) {
			select {
			case <-time.After(o.BatchPause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if len(journeys) == 0 {
		fallback, err := o.fallbackQuery(ctx, originID, destinationID, now)
		if err != nil {
			log.Warn().Err(err).Msg("Fallback trip query failed")
		}

		journeys = fallback
	}

	if len(journeys) == 0 {
		return nil, ErrNoTripsFound
	}

	journeys = Deduplicate(journeys)

	util.InPlaceFilter(&journeys, func(journey tfnsw.Journey) bool {
		_, ok := DepartureTime(journey)
		return ok
	})

	if len(journeys) == 0 {
		return nil, ErrNoTripsFound
	}

	return journeys, nil
}

// fallbackQuery is a last resort single query at "now" with a larger
// result count, retried a couple of times since by this point every
// window has already failed or come back empty
func (o *Orchestrator) fallbackQuery(ctx context.Context, originID string, destinationID string, now time.Time) ([]tfnsw.Journey, error) {
	var journeys []tfnsw.Journey

	retryBackoff := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)

	err := backoff.Retry(func() error {
		result, err := o.Planner.PlanTrips(ctx, originID, destinationID, now, tfnsw.TripOptions{Count: o.FallbackTripCount})
		if err != nil {
			return err
		}

		journeys = result
		return nil
	}, retryBackoff)

	return journeys, err
}
