package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/account"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	server := miniredis.RunT(t)

	return redis.NewClient(&redis.Options{Addr: server.Addr()})
}

func TestFavouritesSaveAndList(t *testing.T) {
	store := account.FavouritesStore{Redis: testRedis(t)}
	ctx := context.Background()

	favourite, created, err := store.Save(ctx,
		account.FavouriteStop{ID: "10101100", Name: "Central Station"},
		account.FavouriteStop{ID: "10101331", Name: "Hornsby Station"},
	)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !created {
		t.Errorf("first save should report created")
	}
	if favourite.ID != "10101100-10101331" {
		t.Errorf("favourite id = %q", favourite.ID)
	}

	favourites, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(favourites) != 1 {
		t.Fatalf("got %d favourites, want 1", len(favourites))
	}
	if favourites[0].From.Name != "Central Station" || favourites[0].To.Name != "Hornsby Station" {
		t.Errorf("round-tripped favourite = %+v", favourites[0])
	}
}

func TestFavouritesSaveDuplicate(t *testing.T) {
	store := account.FavouritesStore{Redis: testRedis(t)}
	ctx := context.Background()

	from := account.FavouriteStop{ID: "10101100", Name: "Central Station"}
	to := account.FavouriteStop{ID: "10101331", Name: "Hornsby Station"}

	if _, _, err := store.Save(ctx, from, to); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	_, created, err := store.Save(ctx, from, to)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if created {
		t.Errorf("saving an existing pair should be a no-op")
	}

	favourites, _ := store.List(ctx)
	if len(favourites) != 1 {
		t.Errorf("got %d favourites after duplicate save, want 1", len(favourites))
	}
}

func TestFavouritesSaveRequiresBothStops(t *testing.T) {
	store := account.FavouritesStore{Redis: testRedis(t)}

	_, _, err := store.Save(context.Background(),
		account.FavouriteStop{Name: "Central Station"},
		account.FavouriteStop{ID: "10101331"},
	)
	if err == nil {
		t.Errorf("saving without an origin stop id should fail")
	}
}

func TestFavouritesRemove(t *testing.T) {
	store := account.FavouritesStore{Redis: testRedis(t)}
	ctx := context.Background()

	favourite, _, err := store.Save(ctx,
		account.FavouriteStop{ID: "10101100", Name: "Central Station"},
		account.FavouriteStop{ID: "10101331", Name: "Hornsby Station"},
	)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	removed, err := store.Remove(ctx, favourite.ID)
	if err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if !removed {
		t.Errorf("removing an existing favourite should report removed")
	}

	removed, err = store.Remove(ctx, favourite.ID)
	if err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if removed {
		t.Errorf("removing a missing favourite should report not removed")
	}
}

func TestFavouritesListSorted(t *testing.T) {
	store := account.FavouritesStore{Redis: testRedis(t)}
	ctx := context.Background()

	pairs := [][2]string{
		{"30", "40"},
		{"10", "20"},
		{"20", "30"},
	}
	for _, pair := range pairs {
		if _, _, err := store.Save(ctx, account.FavouriteStop{ID: pair[0]}, account.FavouriteStop{ID: pair[1]}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	favourites, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	for i := 1; i < len(favourites); i++ {
		if favourites[i-1].ID > favourites[i].ID {
			t.Errorf("favourites out of order: %q before %q", favourites[i-1].ID, favourites[i].ID)
		}
	}
}

func TestPreferencesDefaultWhenUnset(t *testing.T) {
	store := account.PreferencesStore{Redis: testRedis(t)}

	preferences, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if len(preferences.EnabledModes()) != 5 {
		t.Errorf("defaults should enable every mode, got %v", preferences.EnabledModes())
	}
	if preferences.Use24Hour {
		t.Errorf("defaults should use 12 hour time")
	}
	if !preferences.ShowDate {
		t.Errorf("defaults should show the date")
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	store := account.PreferencesStore{Redis: testRedis(t)}
	ctx := context.Background()

	saved := account.Preferences{
		ModeFilters: map[string]bool{"train": true, "ferry": true},
		Use24Hour:   true,
		ShowDate:    false,
	}

	if err := store.Set(ctx, saved); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	loaded, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if !loaded.Use24Hour || loaded.ShowDate {
		t.Errorf("loaded preferences = %+v", loaded)
	}

	modes := loaded.EnabledModes()
	if len(modes) != 2 {
		t.Errorf("enabled modes = %v, want train and ferry", modes)
	}
}

func TestFormatTime(t *testing.T) {
	at := time.Date(2024, 5, 1, 15, 4, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		preferences account.Preferences
		want        string
	}{
		{"12 hour with date", account.Preferences{ShowDate: true}, "Wed May 1, 3:04 PM"},
		{"24 hour with date", account.Preferences{Use24Hour: true, ShowDate: true}, "Wed May 1, 15:04"},
		{"12 hour time only", account.Preferences{}, "3:04 PM"},
		{"24 hour time only", account.Preferences{Use24Hour: true}, "15:04"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.preferences.FormatTime(at); got != testCase.want {
				t.Errorf("FormatTime() = %q, want %q", got, testCase.want)
			}
		})
	}
}
