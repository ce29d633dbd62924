package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/gtfsrt"
	"golang.org/x/exp/slices"
)

// VehicleTracker polls the vehicle positions feeds and keeps the latest
// complete snapshot for the live map. Every tick is a full fetch-and-
// replace: a failed mode contributes nothing to that tick and the previous
// snapshot is simply overwritten by whichever tick settles last.
type VehicleTracker struct {
	Feed        Feed
	Modes       []gtfsrt.Mode
	RefreshRate time.Duration

	snapshotMutex sync.RWMutex
	snapshot      []gtfsrt.VehicleEntity
	lastUpdated   time.Time
}

func NewVehicleTracker(feed Feed) *VehicleTracker {
	return &VehicleTracker{
		Feed:        feed,
		Modes:       gtfsrt.AllModes(),
		RefreshRate: 15 * time.Second,
	}
}

func (t *VehicleTracker) Run(ctx context.Context) {
	log.Info().Int("modes", len(t.Modes)).Str("refresh", t.RefreshRate.String()).Msg("Starting vehicle position tracker")

	for {
		startTime := time.Now()

		t.refresh(ctx)

		waitTime := t.RefreshRate - time.Since(startTime)
		if waitTime > 0 {
			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return
			}
		} else if ctx.Err() != nil {
			return
		}
	}
}

func (t *VehicleTracker) refresh(ctx context.Context) {
	vehicles := t.FetchVehicles(ctx, t.Modes)

	t.snapshotMutex.Lock()
	t.snapshot = vehicles
	t.lastUpdated = time.Now()
	t.snapshotMutex.Unlock()

	log.Debug().Int("vehicles", len(vehicles)).Msg("Refreshed vehicle snapshot")
}

// FetchVehicles fetches every requested mode's feed concurrently and
// flattens the results. A failed mode is just absent from the result.
func (t *VehicleTracker) FetchVehicles(ctx context.Context, modes []gtfsrt.Mode) []gtfsrt.VehicleEntity {
	fetchPool := pool.NewWithResults[[]gtfsrt.VehicleEntity]()

	for _, mode := range modes {
		mode := mode
		fetchPool.Go(func() []gtfsrt.VehicleEntity {
			vehicles, err := t.Feed.VehiclePositions(ctx, mode)
			if err != nil {
				log.Debug().Err(err).Str("mode", string(mode)).Msg("Vehicle positions fetch failed")
				return nil
			}

			return vehicles
		})
	}

	var flattened []gtfsrt.VehicleEntity
	for _, vehicles := range fetchPool.Wait() {
		flattened = append(flattened, vehicles...)
	}

	return flattened
}

// Snapshot returns the latest snapshot filtered down to the given modes,
// or the whole snapshot when modes is empty
func (t *VehicleTracker) Snapshot(modes []gtfsrt.Mode) ([]gtfsrt.VehicleEntity, time.Time) {
	t.snapshotMutex.RLock()
	defer t.snapshotMutex.RUnlock()

	if len(modes) == 0 {
		return slices.Clone(t.snapshot), t.lastUpdated
	}

	var filtered []gtfsrt.VehicleEntity
	for _, vehicle := range t.snapshot {
		if slices.Contains(modes, vehicle.Mode) {
			filtered = append(filtered, vehicle)
		}
	}

	return filtered, t.lastUpdated
}
