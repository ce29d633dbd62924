package reconciler

import (
	"sort"
	"time"

	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/util"
)

type Preference string

const (
	// Every deduplicated journey, ordered by departure
	PreferenceAllStops Preference = "all_stops"
	// Only journeys arriving within a small window of the earliest
	// possible arrival
	PreferenceFastest Preference = "fastest"
	// Only limited-stops services, falling back to the fastest journeys
	// by duration when none exist on the route
	PreferenceLimitedStops Preference = "limited_stops"
)

func ParsePreference(value string) Preference {
	switch Preference(value) {
	case PreferenceFastest:
		return PreferenceFastest
	case PreferenceLimitedStops:
		return PreferenceLimitedStops
	default:
		return PreferenceAllStops
	}
}

// Thresholds are the policy constants behind the preference filters.
// They're heuristics, not derived from data, so they stay overridable.
type Thresholds struct {
	// How far behind the earliest arrival a journey may be and still
	// count as "fastest"
	FastestArrivalWindow time.Duration
	// Maximum intermediate stops for a service to count as limited-stops
	LimitedStopsMaxStops int
	// Multiplier on the minimum duration for the limited-stops fallback
	DurationTolerance float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		FastestArrivalWindow: 5 * time.Minute,
		LimitedStopsMaxStops: 5,
		DurationTolerance:    1.20,
	}
}

// SortJourneys applies a preference's filter and ordering to an already
// deduplicated journey list. The input is never mutated; an empty input
// yields an empty result for every preference.
func SortJourneys(journeys []tfnsw.Journey, preference Preference, now time.Time, thresholds Thresholds) []tfnsw.Journey {
	sorted := make([]tfnsw.Journey, len(journeys))
	copy(sorted, journeys)

	switch preference {
	case PreferenceFastest:
		return sortFastest(sorted, now, thresholds)
	case PreferenceLimitedStops:
		return sortLimitedStops(sorted, thresholds)
	default:
		sortByDeparture(sorted)
		return sorted
	}
}

func sortFastest(journeys []tfnsw.Journey, now time.Time, thresholds Thresholds) []tfnsw.Journey {
	// Already-departed journeys can't be the fastest way anywhere
	util.InPlaceFilter(&journeys, func(journey tfnsw.Journey) bool {
		departure, ok := DepartureTime(journey)
		return ok && !departure.Before(now)
	})

	if len(journeys) == 0 {
		return nil
	}

	var minArrival time.Time
	hasArrival := false
	for _, journey := range journeys {
		arrival, ok := ArrivalTime(journey)
		if !ok {
			continue
		}
		if !hasArrival || arrival.Before(minArrival) {
			minArrival = arrival
			hasArrival = true
		}
	}

	if !hasArrival {
		return nil
	}

	threshold := minArrival.Add(thresholds.FastestArrivalWindow)
	util.InPlaceFilter(&journeys, func(journey tfnsw.Journey) bool {
		arrival, ok := ArrivalTime(journey)
		return ok && !arrival.After(threshold)
	})

	sort.SliceStable(journeys, func(i, j int) bool {
		arrivalI, okI := ArrivalTime(journeys[i])
		arrivalJ, okJ := ArrivalTime(journeys[j])
		if !okI {
			return false
		}
		if !okJ {
			return true
		}

		return arrivalI.Before(arrivalJ)
	})

	return journeys
}

func sortLimitedStops(journeys []tfnsw.Journey, thresholds Thresholds) []tfnsw.Journey {
	if len(journeys) == 0 {
		return nil
	}

	limited := util.Filter(journeys, func(journey tfnsw.Journey) bool {
		return StopCount(journey) <= thresholds.LimitedStopsMaxStops
	})

	if len(limited) > 0 {
		journeys = limited
	} else {
		// No limited-stops services on this route; approximate with the
		// journeys near the minimum duration, since faster running usually
		// means fewer stops
		minDuration := Duration(journeys[0])
		for _, journey := range journeys[1:] {
			if duration := Duration(journey); duration < minDuration {
				minDuration = duration
			}
		}

		threshold := time.Duration(float64(minDuration) * thresholds.DurationTolerance)
		util.InPlaceFilter(&journeys, func(journey tfnsw.Journey) bool {
			return Duration(journey) <= threshold
		})
	}

	sortByDeparture(journeys)

	return journeys
}

// sortByDeparture stable-sorts ascending by departure time, with unknown
// departures ordered after every known one
func sortByDeparture(journeys []tfnsw.Journey) {
	sort.SliceStable(journeys, func(i, j int) bool {
		departureI, okI := DepartureTime(journeys[i])
		departureJ, okJ := DepartureTime(journeys[j])
		if !okI {
			return false
		}
		if !okJ {
			return true
		}

		return departureI.Before(departureJ)
	})
}
