package tfnsw

import "time"

// Timestamps in rapidJSON responses are UTC instants, e.g. "2024-05-01T08:30:00Z"
const timeFormat = time.RFC3339

// ParseTime parses a rapidJSON timestamp. The second return value is false
// when the timestamp is absent or unparseable, which callers treat as an
// unknown time rather than an error.
func ParseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	parsed, err := time.Parse(timeFormat, value)
	if err != nil {
		return time.Time{}, false
	}

	return parsed, true
}

// StopFinderLocation is a single result from the stop_finder endpoint
type StopFinderLocation struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	DisassembledName string    `json:"disassembledName"`
	Type             string    `json:"type"`
	IsGlobalID       bool      `json:"isGlobalId"`
	MatchQuality     int       `json:"matchQuality"`
	Coord            []float64 `json:"coord"`
}

// DisplayName prefers the short station name over the fully assembled one
func (l StopFinderLocation) DisplayName() string {
	if l.DisassembledName != "" {
		return l.DisassembledName
	}

	return l.Name
}

type Journey struct {
	Legs []Leg `json:"legs" groups:"basic,detailed"`
}

type Leg struct {
	Duration       int            `json:"duration" groups:"basic,detailed"`
	Origin         LegStop        `json:"origin" groups:"basic,detailed"`
	Destination    LegStop        `json:"destination" groups:"basic,detailed"`
	Transportation Transportation `json:"transportation" groups:"basic,detailed"`

	// Ordered stops along the leg, including origin and destination
	StopSequence []LegStop `json:"stopSequence" groups:"detailed"`
}

type LegStop struct {
	ID               string    `json:"id" groups:"basic,detailed"`
	Name             string    `json:"name" groups:"basic,detailed"`
	DisassembledName string    `json:"disassembledName" groups:"basic,detailed"`
	Coord            []float64 `json:"coord" groups:"detailed"`

	DepartureTimePlanned   string `json:"departureTimePlanned" groups:"basic,detailed"`
	DepartureTimeEstimated string `json:"departureTimeEstimated" groups:"basic,detailed"`
	ArrivalTimePlanned     string `json:"arrivalTimePlanned" groups:"basic,detailed"`
	ArrivalTimeEstimated   string `json:"arrivalTimeEstimated" groups:"basic,detailed"`
}

type Transportation struct {
	ID               string                   `json:"id" groups:"basic,detailed"`
	Name             string                   `json:"name" groups:"basic,detailed"`
	DisassembledName string                   `json:"disassembledName" groups:"basic,detailed"`
	Number           string                   `json:"number" groups:"basic,detailed"`
	TripCode         int64                    `json:"tripCode" groups:"detailed"`
	Product          *Product                 `json:"product" groups:"basic,detailed"`
	Properties       TransportationProperties `json:"properties" groups:"detailed"`
}

// LineName prefers the short line name over the fully assembled one
func (t Transportation) LineName() string {
	if t.DisassembledName != "" {
		return t.DisassembledName
	}

	return t.Name
}

type Product struct {
	Class  int    `json:"class" groups:"basic,detailed"`
	Name   string `json:"name" groups:"basic,detailed"`
	IconID int    `json:"iconId" groups:"detailed"`
}

type TransportationProperties struct {
	RealtimeTripID string `json:"RealtimeTripId" groups:"detailed"`
}

// StopEvent is a single departure from the departure_mon endpoint
type StopEvent struct {
	Location LegStop `json:"location"`

	DepartureTimePlanned   string `json:"departureTimePlanned"`
	DepartureTimeEstimated string `json:"departureTimeEstimated"`

	Transportation Transportation `json:"transportation"`

	Platform        string            `json:"platform"`
	PlannedPlatform string            `json:"plannedPlatform"`
	Properties      map[string]string `json:"properties"`
}

type SystemMessage struct {
	Type   string `json:"type"`
	Module string `json:"module"`
	Code   int    `json:"code"`
	Text   string `json:"text"`
}
