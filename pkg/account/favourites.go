package account

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const favouritesKey = "account:favourite_trips"

type FavouriteStop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Favourite is a saved origin/destination pair. Its identifier is the
// composite of the two stop ids, which makes duplicate saves naturally
// idempotent.
type Favourite struct {
	ID   string        `json:"id"`
	From FavouriteStop `json:"from"`
	To   FavouriteStop `json:"to"`
}

type FavouritesStore struct {
	Redis *redis.Client
}

// Save stores a favourite route. Saving a pair that already exists is a
// no-op; the second return value reports whether anything new was written.
func (s FavouritesStore) Save(ctx context.Context, from FavouriteStop, to FavouriteStop) (Favourite, bool, error) {
	favourite := Favourite{
		ID:   fmt.Sprintf("%s-%s", from.ID, to.ID),
		From: from,
		To:   to,
	}

	if from.ID == "" || to.ID == "" {
		return Favourite{}, false, fmt.Errorf("favourite requires both an origin and a destination stop")
	}

	encoded, err := json.Marshal(favourite)
	if err != nil {
		return Favourite{}, false, err
	}

	created, err := s.Redis.HSetNX(ctx, favouritesKey, favourite.ID, encoded).Result()
	if err != nil {
		return Favourite{}, false, err
	}

	return favourite, created, nil
}

func (s FavouritesStore) List(ctx context.Context) ([]Favourite, error) {
	entries, err := s.Redis.HGetAll(ctx, favouritesKey).Result()
	if err != nil {
		return nil, err
	}

	favourites := []Favourite{}
	for _, raw := range entries {
		var favourite Favourite
		if err := json.Unmarshal([]byte(raw), &favourite); err != nil {
			continue
		}

		favourites = append(favourites, favourite)
	}

	sort.Slice(favourites, func(i, j int) bool {
		return favourites[i].ID < favourites[j].ID
	})

	return favourites, nil
}

func (s FavouritesStore) Remove(ctx context.Context, id string) (bool, error) {
	removed, err := s.Redis.HDel(ctx, favouritesKey, id).Result()
	if err != nil {
		return false, err
	}

	return removed > 0, nil
}
