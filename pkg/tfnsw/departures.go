package tfnsw

import (
	"math"
	"regexp"
	"time"
)

var platformPattern = regexp.MustCompile(`(?i)Platform\s+([0-9A-Za-z]+)`)

// PlatformName digs the platform out of a stop event. The departure_mon
// endpoint is inconsistent about where it puts it, so this tries the
// explicit fields first and falls back to parsing the location name
// (e.g. "Auburn Station, Platform 4").
func (e StopEvent) PlatformName() string {
	if e.Platform != "" {
		return e.Platform
	}
	if e.PlannedPlatform != "" {
		return e.PlannedPlatform
	}
	if e.Properties["platform"] != "" {
		return e.Properties["platform"]
	}
	if e.Properties["Platform"] != "" {
		return e.Properties["Platform"]
	}

	match := platformPattern.FindStringSubmatch(e.Location.Name)
	if len(match) == 2 {
		return match[1]
	}

	return ""
}

type DepartureStatus string

const (
	DepartureStatusOnTime DepartureStatus = "OnTime"
	DepartureStatusEarly  DepartureStatus = "Early"
	DepartureStatusLate   DepartureStatus = "Late"
)

// Status classifies a departure against its planned time. More than 2
// minutes behind counts as late, more than a minute ahead as early.
func (e StopEvent) Status() (DepartureStatus, int) {
	estimated, hasEstimated := ParseTime(e.DepartureTimeEstimated)
	planned, hasPlanned := ParseTime(e.DepartureTimePlanned)

	if !hasEstimated || !hasPlanned {
		return DepartureStatusOnTime, 0
	}

	delayMinutes := int(math.Round(estimated.Sub(planned).Minutes()))

	switch {
	case delayMinutes > 2:
		return DepartureStatusLate, delayMinutes
	case delayMinutes < -1:
		return DepartureStatusEarly, delayMinutes
	default:
		return DepartureStatusOnTime, delayMinutes
	}
}

// Time returns the best known departure time, preferring the realtime
// estimate over the planned time
func (e StopEvent) Time() (time.Time, bool) {
	if estimated, ok := ParseTime(e.DepartureTimeEstimated); ok {
		return estimated, true
	}

	return ParseTime(e.DepartureTimePlanned)
}
