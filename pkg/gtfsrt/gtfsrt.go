package gtfsrt

// Transport modes the Transport for NSW realtime feeds are split across.
// Trains and metro share the one feed upstream, as do the individual ferry
// and light rail operators we default to.

type Mode string

const (
	ModeTrain     Mode = "train"
	ModeMetro     Mode = "metro"
	ModeBus       Mode = "bus"
	ModeFerry     Mode = "ferry"
	ModeLightRail Mode = "lightrail"
)

func AllModes() []Mode {
	return []Mode{ModeTrain, ModeMetro, ModeBus, ModeLightRail, ModeFerry}
}

// FeedPath maps a transport mode onto the feed path segment used by both
// the vehicle positions and trip updates APIs
func FeedPath(mode Mode) string {
	switch mode {
	case ModeTrain, ModeMetro:
		return "nswtrains"
	case ModeFerry:
		return "ferries/sydneyferries"
	case ModeLightRail:
		return "lightrail/cbdandsoutheast"
	default:
		return "buses"
	}
}

// FallbackMode returns the alternate mode hint to retry a correlation
// lookup with. Trains and metro share a trip identifier namespace upstream
// so a miss on one is worth a retry on the other.
func FallbackMode(mode Mode) (Mode, bool) {
	switch mode {
	case ModeTrain:
		return ModeMetro, true
	case ModeMetro:
		return ModeTrain, true
	default:
		return "", false
	}
}
