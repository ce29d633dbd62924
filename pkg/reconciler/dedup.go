package reconciler

import (
	"fmt"
	"time"

	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
)

// Deduplicate collapses journeys that are semantically identical - same
// departure instant, arrival instant, route signature and primary leg
// count - keeping the first seen of each. Overlapping time-window queries
// routinely return the same journey several times.
//
// Journeys with no parseable departure time are dropped outright; they
// cannot be keyed safely and aren't displayable anyway.
func Deduplicate(journeys []tfnsw.Journey) []tfnsw.Journey {
	seen := map[string]bool{}
	var result []tfnsw.Journey

	for _, journey := range journeys {
		key, ok := dedupKey(journey)
		if !ok {
			continue
		}

		if !seen[key] {
			seen[key] = true
			result = append(result, journey)
		}
	}

	return result
}

func dedupKey(journey tfnsw.Journey) (string, bool) {
	departure, ok := DepartureTime(journey)
	if !ok {
		return "", false
	}

	arrivalPart := "unknown"
	if arrival, ok := ArrivalTime(journey); ok {
		arrivalPart = arrival.Format(time.RFC3339)
	}

	return fmt.Sprintf("%s-%s-%s-%d",
		departure.Format(time.RFC3339),
		arrivalPart,
		RouteSignature(journey),
		len(PrimaryLegs(journey)),
	), true
}
