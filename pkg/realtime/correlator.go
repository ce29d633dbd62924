package realtime

import (
	"strings"

	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/gtfsrt"
)

// Schedule-side trip identifiers are composite dot-separated strings,
// e.g. "96-N.1260.166.36.A.8.88166633". The realtime feeds key their
// entities differently per operator, so matching is a series of
// increasingly fuzzy layers evaluated strictly in order - the first layer
// with any match wins, and within a layer the first matching entity wins.

type identifierParts struct {
	full  string
	first string
	last  string
}

func splitIdentifier(identifier string) identifierParts {
	parts := identifierParts{full: identifier}

	segments := strings.Split(identifier, ".")
	if len(segments) > 0 {
		parts.last = segments[len(segments)-1]
	}
	if len(segments) > 1 {
		parts.first = segments[0]
	}

	return parts
}

// entityFields is the flattened view of a feed entity the match layers
// inspect
type entityFields struct {
	tripID   string
	routeID  string
	entityID string
	label    string
}

type matchLayer func(identifierParts, entityFields) bool

// Ordered from exact to loosest. The label layer only applies to vehicle
// positions - trip updates carry no human-readable vehicle label.
func matchLayers(includeLabel bool) []matchLayer {
	layers := []matchLayer{
		// Exact trip id equality
		func(id identifierParts, f entityFields) bool {
			return f.tripID == id.full
		},
		// Identifier's trailing segment within the trip id or entity id
		func(id identifierParts, f entityFields) bool {
			return id.last != "" && (strings.Contains(f.tripID, id.last) || strings.Contains(f.entityID, id.last))
		},
		// Identifier's leading segment within the trip id or entity id
		func(id identifierParts, f entityFields) bool {
			return id.first != "" && (strings.Contains(f.tripID, id.first) || strings.Contains(f.entityID, id.first))
		},
		// Entity's route id within the full identifier
		func(id identifierParts, f entityFields) bool {
			return f.routeID != "" && strings.Contains(id.full, f.routeID)
		},
	}

	if includeLabel {
		layers = append(layers, func(id identifierParts, f entityFields) bool {
			return f.label != "" && (strings.Contains(f.label, id.full) || (id.last != "" && strings.Contains(f.label, id.last)))
		})
	}

	return layers
}

// FindVehicle searches a vehicle positions feed for the entity matching a
// schedule-side trip identifier. A nil result means no live data, not an
// error.
func FindVehicle(entities []gtfsrt.VehicleEntity, correlationID string) *gtfsrt.VehicleEntity {
	if correlationID == "" {
		return nil
	}

	parts := splitIdentifier(correlationID)

	for _, layer := range matchLayers(true) {
		for i, entity := range entities {
			trip := entity.Vehicle.GetTrip()
			if trip == nil {
				continue
			}

			fields := entityFields{
				tripID:   trip.GetTripId(),
				routeID:  trip.GetRouteId(),
				entityID: entity.ID,
				label:    entity.Vehicle.GetVehicle().GetLabel(),
			}

			if layer(parts, fields) {
				return &entities[i]
			}
		}
	}

	return nil
}

// FindTripUpdate searches a trip updates feed for the entity matching a
// schedule-side trip identifier. A nil result means no live data, not an
// error.
func FindTripUpdate(entities []gtfsrt.TripUpdateEntity, correlationID string) *gtfsrt.TripUpdateEntity {
	if correlationID == "" {
		return nil
	}

	parts := splitIdentifier(correlationID)

	for _, layer := range matchLayers(false) {
		for i, entity := range entities {
			trip := entity.TripUpdate.GetTrip()
			if trip == nil {
				continue
			}

			fields := entityFields{
				tripID:   trip.GetTripId(),
				routeID:  trip.GetRouteId(),
				entityID: entity.ID,
			}

			if layer(parts, fields) {
				return &entities[i]
			}
		}
	}

	return nil
}
