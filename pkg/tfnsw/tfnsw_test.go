package tfnsw_test

import (
	"testing"
	"time"

	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
)

func TestParseTime(t *testing.T) {
	parsed, ok := tfnsw.ParseTime("2024-05-01T08:30:00Z")
	if !ok {
		t.Fatalf("expected a valid timestamp to parse")
	}
	if want := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC); !parsed.Equal(want) {
		t.Errorf("ParseTime() = %v, want %v", parsed, want)
	}

	for _, value := range []string{"", "yesterday", "2024-05-01 08:30"} {
		if _, ok := tfnsw.ParseTime(value); ok {
			t.Errorf("ParseTime(%q) should not parse", value)
		}
	}
}

func TestFilterStopLocations(t *testing.T) {
	testCases := []struct {
		name     string
		location tfnsw.StopFinderLocation
		kept     bool
	}{
		{"stop type", tfnsw.StopFinderLocation{Type: "stop", Name: "Auburn"}, true},
		{"platform type", tfnsw.StopFinderLocation{Type: "platform", Name: "Auburn, Platform 1"}, true},
		{"global id poi", tfnsw.StopFinderLocation{Type: "poi", Name: "Opera House", IsGlobalID: true}, true},
		{"station by name", tfnsw.StopFinderLocation{Type: "locality", Name: "Central Station"}, true},
		{"wharf by name", tfnsw.StopFinderLocation{Type: "poi", Name: "Circular Quay Wharf 3"}, true},
		{"plain street", tfnsw.StopFinderLocation{Type: "street", Name: "George St"}, false},
		{"plain locality", tfnsw.StopFinderLocation{Type: "locality", Name: "Auburn"}, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := tfnsw.FilterStopLocations([]tfnsw.StopFinderLocation{testCase.location})

			if kept := len(result) == 1; kept != testCase.kept {
				t.Errorf("kept = %v, want %v", kept, testCase.kept)
			}
		})
	}
}

func TestKeySetForScope(t *testing.T) {
	full := tfnsw.KeySet{Base: "base", GTFS: "gtfs", TripUpdates: "updates", VehiclePositions: "vehicles"}
	baseOnly := tfnsw.KeySet{Base: "base"}
	withGTFS := tfnsw.KeySet{Base: "base", GTFS: "gtfs"}

	testCases := []struct {
		name  string
		keys  tfnsw.KeySet
		scope tfnsw.KeyScope
		want  string
	}{
		{"dedicated vehicle key", full, tfnsw.KeyScopeVehiclePositions, "vehicles"},
		{"dedicated updates key", full, tfnsw.KeyScopeTripUpdates, "updates"},
		{"trip planner uses base", full, tfnsw.KeyScopeTripPlanner, "base"},
		{"vehicle falls back to gtfs", withGTFS, tfnsw.KeyScopeVehiclePositions, "gtfs"},
		{"updates fall back to base", baseOnly, tfnsw.KeyScopeTripUpdates, "base"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.keys.ForScope(testCase.scope); got != testCase.want {
				t.Errorf("ForScope(%q) = %q, want %q", testCase.scope, got, testCase.want)
			}
		})
	}
}

func TestStopEventPlatformName(t *testing.T) {
	testCases := []struct {
		name  string
		event tfnsw.StopEvent
		want  string
	}{
		{
			"explicit platform field",
			tfnsw.StopEvent{Platform: "4", PlannedPlatform: "2"},
			"4",
		},
		{
			"planned platform fallback",
			tfnsw.StopEvent{PlannedPlatform: "2"},
			"2",
		},
		{
			"properties map",
			tfnsw.StopEvent{Properties: map[string]string{"platform": "6"}},
			"6",
		},
		{
			"parsed from location name",
			tfnsw.StopEvent{Location: tfnsw.LegStop{Name: "Auburn Station, Platform 4"}},
			"4",
		},
		{
			"no platform anywhere",
			tfnsw.StopEvent{Location: tfnsw.LegStop{Name: "Circular Quay, Wharf 2"}},
			"",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.PlatformName(); got != testCase.want {
				t.Errorf("PlatformName() = %q, want %q", got, testCase.want)
			}
		})
	}
}

func TestStopEventStatus(t *testing.T) {
	testCases := []struct {
		name      string
		planned   string
		estimated string
		want      tfnsw.DepartureStatus
		minutes   int
	}{
		{"on time exact", "2024-05-01T08:30:00Z", "2024-05-01T08:30:00Z", tfnsw.DepartureStatusOnTime, 0},
		{"two minutes is still on time", "2024-05-01T08:30:00Z", "2024-05-01T08:32:00Z", tfnsw.DepartureStatusOnTime, 2},
		{"three minutes is late", "2024-05-01T08:30:00Z", "2024-05-01T08:33:00Z", tfnsw.DepartureStatusLate, 3},
		{"one minute ahead is on time", "2024-05-01T08:30:00Z", "2024-05-01T08:29:00Z", tfnsw.DepartureStatusOnTime, -1},
		{"two minutes ahead is early", "2024-05-01T08:30:00Z", "2024-05-01T08:28:00Z", tfnsw.DepartureStatusEarly, -2},
		{"no estimate means on time", "2024-05-01T08:30:00Z", "", tfnsw.DepartureStatusOnTime, 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			event := tfnsw.StopEvent{
				DepartureTimePlanned:   testCase.planned,
				DepartureTimeEstimated: testCase.estimated,
			}

			status, minutes := event.Status()
			if status != testCase.want {
				t.Errorf("Status() = %q, want %q", status, testCase.want)
			}
			if minutes != testCase.minutes {
				t.Errorf("delay = %d minutes, want %d", minutes, testCase.minutes)
			}
		})
	}
}

func TestStopEventTimePrefersEstimated(t *testing.T) {
	event := tfnsw.StopEvent{
		DepartureTimePlanned:   "2024-05-01T08:30:00Z",
		DepartureTimeEstimated: "2024-05-01T08:33:00Z",
	}

	departure, ok := event.Time()
	if !ok {
		t.Fatalf("expected a departure time")
	}
	if departure.Minute() != 33 {
		t.Errorf("Time() = %v, want the realtime estimate", departure)
	}
}

func TestTransportationLineName(t *testing.T) {
	both := tfnsw.Transportation{Name: "Sydney Trains Network T1", DisassembledName: "T1"}
	if got := both.LineName(); got != "T1" {
		t.Errorf("LineName() = %q, want the short name", got)
	}

	nameOnly := tfnsw.Transportation{Name: "Sydney Trains Network T1"}
	if got := nameOnly.LineName(); got != "Sydney Trains Network T1" {
		t.Errorf("LineName() = %q, want the full name", got)
	}
}
