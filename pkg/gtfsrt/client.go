package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/rs/zerolog/log"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/redis_client"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/util"
	"google.golang.org/protobuf/proto"
)

const defaultEndpoint = "https://api.transport.nsw.gov.au/v1/gtfs"

const feedCacheExpiration = 30 * time.Second

// VehicleEntity is a decoded vehicle position feed entity tagged with the
// mode whose feed it came from
type VehicleEntity struct {
	ID      string
	Mode    Mode
	Vehicle *gtfs.VehiclePosition
}

// TripUpdateEntity is a decoded trip update feed entity tagged with the
// mode whose feed it came from
type TripUpdateEntity struct {
	ID         string
	Mode       Mode
	TripUpdate *gtfs.TripUpdate
}

type Client struct {
	Endpoint string
	Keys     tfnsw.KeySet

	httpClient *http.Client
	feedCache  *cache.Cache[string]
}

func NewClient(endpoint string, keys tfnsw.KeySet) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	client := &Client{
		Endpoint: endpoint,
		Keys:     keys,

		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	// The feed cache lets several lookups within one poll interval share a
	// single download of the (large) protobuf feed
	if redis_client.Client != nil {
		redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(feedCacheExpiration))
		client.feedCache = cache.New[string](redisStore)
	}

	return client
}

func NewClientFromEnvironment() *Client {
	env := util.GetEnvironmentVariables()

	return NewClient(env["TNSW_GTFS_ENDPOINT"], tfnsw.KeySetFromEnvironment())
}

func (c *Client) fetchFeed(ctx context.Context, scope tfnsw.KeyScope, api string, mode Mode) (*gtfs.FeedMessage, error) {
	apiKey := c.Keys.ForScope(scope)
	if apiKey == "" {
		return nil, tfnsw.ErrMissingAPIKey
	}

	cacheKey := fmt.Sprintf("gtfsrt/%s/%s", api, FeedPath(mode))

	var body []byte
	if c.feedCache != nil {
		if cached, err := c.feedCache.Get(ctx, cacheKey); err == nil && cached != "" {
			body = []byte(cached)
		}
	}

	if body == nil {
		requestURL := fmt.Sprintf("%s/%s/%s", c.Endpoint, api, FeedPath(mode))

		req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", fmt.Sprintf("apikey %s", apiKey))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &tfnsw.APIError{StatusCode: resp.StatusCode}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if c.feedCache != nil {
			if err := c.feedCache.Set(ctx, cacheKey, string(body)); err != nil {
				log.Debug().Err(err).Str("key", cacheKey).Msg("Failed to cache feed snapshot")
			}
		}
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		return nil, fmt.Errorf("failed parsing GTFS-RT protobuf: %w", err)
	}

	return feed, nil
}

// VehiclePositions fetches and decodes the vehicle positions feed for a
// mode. Entities without a vehicle position are dropped.
func (c *Client) VehiclePositions(ctx context.Context, mode Mode) ([]VehicleEntity, error) {
	feed, err := c.fetchFeed(ctx, tfnsw.KeyScopeVehiclePositions, "vehiclepos", mode)
	if err != nil {
		return nil, err
	}

	var entities []VehicleEntity
	for _, entity := range feed.Entity {
		vehicle := entity.GetVehicle()
		if vehicle == nil {
			continue
		}

		entities = append(entities, VehicleEntity{
			ID:      entity.GetId(),
			Mode:    mode,
			Vehicle: vehicle,
		})
	}

	return entities, nil
}

// TripUpdates fetches and decodes the trip updates feed for a mode.
// Entities without a trip update are dropped.
func (c *Client) TripUpdates(ctx context.Context, mode Mode) ([]TripUpdateEntity, error) {
	feed, err := c.fetchFeed(ctx, tfnsw.KeyScopeTripUpdates, "realtime", mode)
	if err != nil {
		return nil, err
	}

	var entities []TripUpdateEntity
	for _, entity := range feed.Entity {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}

		entities = append(entities, TripUpdateEntity{
			ID:         entity.GetId(),
			Mode:       mode,
			TripUpdate: tripUpdate,
		})
	}

	return entities, nil
}
