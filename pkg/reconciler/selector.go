package reconciler

import (
	"fmt"
	"sort"
	"time"

	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
)

// SelectBestPerVehicle collapses journeys that represent the same physical
// service run down to one representative each. The planner often returns
// the same train several times with different leg framing - once direct,
// once routed through an interchange - and we only want the best version.
//
// Grouping is by correlation identifier, falling back to the departure
// timestamp. A journey with neither gets a key of its own: two truly
// unidentifiable journeys are deliberately never grouped together.
func SelectBestPerVehicle(journeys []tfnsw.Journey) []tfnsw.Journey {
	grouped := map[string][]tfnsw.Journey{}
	var groupOrder []string

	for i, journey := range journeys {
		key, ok := CorrelationID(journey)
		if !ok {
			if departure, hasDeparture := DepartureTime(journey); hasDeparture {
				key = departure.Format(time.RFC3339)
			} else {
				key = fmt.Sprintf("unkeyed-%d", i)
			}
		}

		if _, exists := grouped[key]; !exists {
			groupOrder = append(groupOrder, key)
		}
		grouped[key] = append(grouped[key], journey)
	}

	var result []tfnsw.Journey
	for _, key := range groupOrder {
		result = append(result, selectBestOfGroup(grouped[key]))
	}

	return result
}

func selectBestOfGroup(group []tfnsw.Journey) tfnsw.Journey {
	if len(group) == 1 {
		return group[0]
	}

	// A direct journey always beats one with changes, however fast the
	// connection looks on paper
	var directs []tfnsw.Journey
	for _, journey := range group {
		if IsDirect(journey) {
			directs = append(directs, journey)
		}
	}

	if len(directs) > 0 {
		sort.SliceStable(directs, func(i, j int) bool {
			return arrivalBefore(directs[i], directs[j])
		})

		return directs[0]
	}

	sorted := make([]tfnsw.Journey, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		legsI := len(PrimaryLegs(sorted[i]))
		legsJ := len(PrimaryLegs(sorted[j]))
		if legsI != legsJ {
			return legsI < legsJ
		}

		return arrivalBefore(sorted[i], sorted[j])
	})

	return sorted[0]
}

// arrivalBefore is a strict-weak ordering on arrival time that leaves
// journeys with unknown arrivals in their input order
func arrivalBefore(a tfnsw.Journey, b tfnsw.Journey) bool {
	arrivalA, okA := ArrivalTime(a)
	arrivalB, okB := ArrivalTime(b)
	if !okA || !okB {
		return false
	}

	return arrivalA.Before(arrivalB)
}
