package reconciler

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
)

// Product classes used by the trip planner for walking and footpath
// transfer pseudo-legs. Legs carrying these classes (or no product at all)
// represent no actual transport service and are excluded from every
// journey-level computation.
const (
	productClassFootpath = 99
	productClassWalk     = 100
)

// VeryLargeDuration is the sentinel returned for journeys whose duration
// cannot be determined, so duration comparisons rank them last
const VeryLargeDuration = 999999999 * time.Millisecond

// IsPrimaryLeg reports whether a leg represents actual transport rather
// than a walking transfer
func IsPrimaryLeg(leg tfnsw.Leg) bool {
	product := leg.Transportation.Product
	if product == nil {
		return false
	}

	return product.Class != productClassFootpath && product.Class != productClassWalk
}

// PrimaryLegs returns the journey's legs with walking/transfer pseudo-legs
// removed
func PrimaryLegs(journey tfnsw.Journey) []tfnsw.Leg {
	var legs []tfnsw.Leg
	for _, leg := range journey.Legs {
		if IsPrimaryLeg(leg) {
			legs = append(legs, leg)
		}
	}

	return legs
}

// IsDirect reports whether a journey involves no changes between services
func IsDirect(journey tfnsw.Journey) bool {
	return len(PrimaryLegs(journey)) <= 1
}

// DepartureTime returns the journey's departure, preferring the realtime
// estimate on the first leg's origin over the planned time. The second
// return value is false when neither timestamp is usable.
func DepartureTime(journey tfnsw.Journey) (time.Time, bool) {
	if len(journey.Legs) == 0 {
		return time.Time{}, false
	}

	origin := journey.Legs[0].Origin
	if estimated, ok := tfnsw.ParseTime(origin.DepartureTimeEstimated); ok {
		return estimated, true
	}

	return tfnsw.ParseTime(origin.DepartureTimePlanned)
}

// ArrivalTime returns the journey's arrival, preferring the realtime
// estimate on the last leg's destination over the planned time
func ArrivalTime(journey tfnsw.Journey) (time.Time, bool) {
	if len(journey.Legs) == 0 {
		return time.Time{}, false
	}

	destination := journey.Legs[len(journey.Legs)-1].Destination
	if estimated, ok := tfnsw.ParseTime(destination.ArrivalTimeEstimated); ok {
		return estimated, true
	}

	return tfnsw.ParseTime(destination.ArrivalTimePlanned)
}

// Duration returns the end to end journey duration, or VeryLargeDuration
// when either endpoint is unknown
func Duration(journey tfnsw.Journey) time.Duration {
	departure, hasDeparture := DepartureTime(journey)
	arrival, hasArrival := ArrivalTime(journey)

	if !hasDeparture || !hasArrival {
		return VeryLargeDuration
	}

	return arrival.Sub(departure)
}

// StopCount returns the number of intermediate stops on the journey's
// first primary leg. The stop sequence includes the origin and
// destination, which don't count as intermediate.
func StopCount(journey tfnsw.Journey) int {
	primaryLegs := PrimaryLegs(journey)
	if len(primaryLegs) == 0 {
		return 0
	}

	count := len(primaryLegs[0].StopSequence) - 2
	if count < 0 {
		return 0
	}

	return count
}

// CorrelationID returns the identifier used to tie the journey to the
// realtime feeds, taken from the first primary leg. The second return
// value is false when the journey carries no usable identifier.
func CorrelationID(journey tfnsw.Journey) (string, bool) {
	primaryLegs := PrimaryLegs(journey)
	if len(primaryLegs) == 0 {
		return "", false
	}

	transportation := primaryLegs[0].Transportation

	if transportation.Properties.RealtimeTripID != "" {
		return transportation.Properties.RealtimeTripID, true
	}
	if transportation.TripCode != 0 {
		return fmt.Sprint(transportation.TripCode), true
	}
	if transportation.ID != "" {
		return transportation.ID, true
	}

	return "", false
}

// RouteSignature derives a stable key describing which services a journey
// uses and where they terminate. Logically identical journeys produce the
// same signature regardless of which time-window query returned them.
func RouteSignature(journey tfnsw.Journey) string {
	var parts []string
	for _, leg := range PrimaryLegs(journey) {
		parts = append(parts, fmt.Sprintf("%s-%s", leg.Transportation.LineName(), leg.Destination.Name))
	}

	return strings.Join(parts, "|")
}
