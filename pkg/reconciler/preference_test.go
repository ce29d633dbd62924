package reconciler_test

import (
	"testing"
	"time"

	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/reconciler"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
)

func simpleJourney(departure string, arrival string) tfnsw.Journey {
	return tfnsw.Journey{Legs: []tfnsw.Leg{trainLeg("T1", "Central", departure, arrival)}}
}

func journeyWithStops(departure string, arrival string, intermediateStops int) tfnsw.Journey {
	leg := trainLeg("T1", "Central", departure, arrival)
	leg.StopSequence = make([]tfnsw.LegStop, intermediateStops+2)

	return tfnsw.Journey{Legs: []tfnsw.Leg{leg}}
}

func TestParsePreference(t *testing.T) {
	testCases := []struct {
		value string
		want  reconciler.Preference
	}{
		{"fastest", reconciler.PreferenceFastest},
		{"limited_stops", reconciler.PreferenceLimitedStops},
		{"all_stops", reconciler.PreferenceAllStops},
		{"", reconciler.PreferenceAllStops},
		{"nonsense", reconciler.PreferenceAllStops},
	}

	for _, testCase := range testCases {
		if got := reconciler.ParsePreference(testCase.value); got != testCase.want {
			t.Errorf("ParsePreference(%q) = %q, want %q", testCase.value, got, testCase.want)
		}
	}
}

func TestSortJourneysEmptyInput(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	for _, preference := range []reconciler.Preference{
		reconciler.PreferenceAllStops,
		reconciler.PreferenceFastest,
		reconciler.PreferenceLimitedStops,
	} {
		result := reconciler.SortJourneys(nil, preference, now, reconciler.DefaultThresholds())
		if len(result) != 0 {
			t.Errorf("preference %q: got %d journeys from empty input", preference, len(result))
		}
	}
}

func TestSortJourneysAllStopsOrdersByDeparture(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	journeys := []tfnsw.Journey{
		simpleJourney("2024-05-01T09:00:00Z", "2024-05-01T09:45:00Z"),
		simpleJourney("2024-05-01T08:00:00Z", "2024-05-01T08:45:00Z"),
		simpleJourney("2024-05-01T08:30:00Z", "2024-05-01T09:15:00Z"),
	}

	result := reconciler.SortJourneys(journeys, reconciler.PreferenceAllStops, now, reconciler.DefaultThresholds())

	if len(result) != 3 {
		t.Fatalf("got %d journeys, want 3", len(result))
	}

	var previous time.Time
	for i, journey := range result {
		departure, ok := reconciler.DepartureTime(journey)
		if !ok {
			t.Fatalf("journey %d lost its departure time", i)
		}
		if i > 0 && departure.Before(previous) {
			t.Errorf("journey %d departs %v, before the previous %v", i, departure, previous)
		}
		previous = departure
	}
}

func TestSortJourneysDoesNotMutateInput(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	journeys := []tfnsw.Journey{
		simpleJourney("2024-05-01T09:00:00Z", "2024-05-01T09:45:00Z"),
		simpleJourney("2024-05-01T08:00:00Z", "2024-05-01T08:45:00Z"),
	}

	reconciler.SortJourneys(journeys, reconciler.PreferenceAllStops, now, reconciler.DefaultThresholds())

	departure, _ := reconciler.DepartureTime(journeys[0])
	if departure.Hour() != 9 {
		t.Errorf("input slice was reordered")
	}
}

func TestSortJourneysFastestWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	// Arrivals at T, T+3m and T+6m: with a five minute window only the
	// first two qualify
	journeys := []tfnsw.Journey{
		simpleJourney("2024-05-01T08:10:00Z", "2024-05-01T08:46:00Z"),
		simpleJourney("2024-05-01T08:05:00Z", "2024-05-01T08:40:00Z"),
		simpleJourney("2024-05-01T08:08:00Z", "2024-05-01T08:43:00Z"),
	}

	result := reconciler.SortJourneys(journeys, reconciler.PreferenceFastest, now, reconciler.DefaultThresholds())

	if len(result) != 2 {
		t.Fatalf("got %d journeys, want 2 inside the arrival window", len(result))
	}

	first, _ := reconciler.ArrivalTime(result[0])
	second, _ := reconciler.ArrivalTime(result[1])
	if !first.Before(second) {
		t.Errorf("fastest results should be ordered by arrival: %v then %v", first, second)
	}
}

func TestSortJourneysFastestDropsDeparted(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	journeys := []tfnsw.Journey{
		simpleJourney("2024-05-01T07:30:00Z", "2024-05-01T07:50:00Z"),
		simpleJourney("2024-05-01T08:05:00Z", "2024-05-01T08:40:00Z"),
	}

	result := reconciler.SortJourneys(journeys, reconciler.PreferenceFastest, now, reconciler.DefaultThresholds())

	if len(result) != 1 {
		t.Fatalf("got %d journeys, want 1", len(result))
	}

	departure, _ := reconciler.DepartureTime(result[0])
	if departure.Before(now) {
		t.Errorf("an already departed journey survived the fastest filter")
	}
}

func TestSortJourneysLimitedStops(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	journeys := []tfnsw.Journey{
		journeyWithStops("2024-05-01T08:00:00Z", "2024-05-01T08:45:00Z", 12),
		journeyWithStops("2024-05-01T08:10:00Z", "2024-05-01T08:50:00Z", 3),
		journeyWithStops("2024-05-01T08:20:00Z", "2024-05-01T09:05:00Z", 5),
	}

	result := reconciler.SortJourneys(journeys, reconciler.PreferenceLimitedStops, now, reconciler.DefaultThresholds())

	if len(result) != 2 {
		t.Fatalf("got %d journeys, want the 2 with five or fewer stops", len(result))
	}
	for i, journey := range result {
		if stops := reconciler.StopCount(journey); stops > 5 {
			t.Errorf("journey %d has %d stops", i, stops)
		}
	}
}

func TestSortJourneysLimitedStopsDurationFallback(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	// Every journey is all-stops; durations 10m, 11m and 15m. With a
	// 1.20 tolerance on the 10m minimum, only the 15m journey is cut.
	journeys := []tfnsw.Journey{
		journeyWithStops("2024-05-01T08:00:00Z", "2024-05-01T08:10:00Z", 10),
		journeyWithStops("2024-05-01T08:05:00Z", "2024-05-01T08:16:00Z", 10),
		journeyWithStops("2024-05-01T08:10:00Z", "2024-05-01T08:25:00Z", 10),
	}

	result := reconciler.SortJourneys(journeys, reconciler.PreferenceLimitedStops, now, reconciler.DefaultThresholds())

	if len(result) != 2 {
		t.Fatalf("got %d journeys, want 2 within duration tolerance", len(result))
	}
	for i, journey := range result {
		if duration := reconciler.Duration(journey); duration > 12*time.Minute {
			t.Errorf("journey %d has duration %v, outside tolerance", i, duration)
		}
	}
}

func TestSortJourneysThresholdOverrides(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	thresholds := reconciler.Thresholds{
		FastestArrivalWindow: 10 * time.Minute,
		LimitedStopsMaxStops: 5,
		DurationTolerance:    1.20,
	}

	journeys := []tfnsw.Journey{
		simpleJourney("2024-05-01T08:05:00Z", "2024-05-01T08:40:00Z"),
		simpleJourney("2024-05-01T08:08:00Z", "2024-05-01T08:48:00Z"),
	}

	result := reconciler.SortJourneys(journeys, reconciler.PreferenceFastest, now, thresholds)

	if len(result) != 2 {
		t.Errorf("a widened arrival window should keep both journeys, got %d", len(result))
	}
}
