package tfnsw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/util"
)

const defaultEndpoint = "https://api.transport.nsw.gov.au/v1/tp"

const apiVersion = "10.2.1.42"

var ErrMissingAPIKey = errors.New("API key not configured")

// APIError is a non-2xx response from the upstream Trip Planner API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trip planner API returned status %d: %s", e.StatusCode, util.FirstNonEmpty(e.Body, "no body"))
}

// KeyScope selects which API key a request authenticates with. Transport
// for NSW issues separate keys per product, with the base key usable as a
// fallback for all of them.
type KeyScope string

const (
	KeyScopeTripPlanner      KeyScope = "tp"
	KeyScopeTripUpdates      KeyScope = "trip_updates"
	KeyScopeVehiclePositions KeyScope = "vehicle_pos"
)

type KeySet struct {
	Base             string
	GTFS             string
	TripUpdates      string
	VehiclePositions string
}

func (k KeySet) ForScope(scope KeyScope) string {
	switch scope {
	case KeyScopeVehiclePositions:
		return util.FirstNonEmpty(k.VehiclePositions, k.GTFS, k.Base)
	case KeyScopeTripUpdates:
		return util.FirstNonEmpty(k.TripUpdates, k.GTFS, k.Base)
	default:
		return k.Base
	}
}

func KeySetFromEnvironment() KeySet {
	env := util.GetEnvironmentVariables()

	return KeySet{
		Base:             env["TNSW_API_KEY"],
		GTFS:             env["TNSW_GTFS_API_KEY"],
		TripUpdates:      env["TNSW_TRIP_UPDATES_API_KEY"],
		VehiclePositions: env["TNSW_VEHICLE_POS_API_KEY"],
	}
}

type Client struct {
	Endpoint string
	Keys     KeySet

	httpClient *http.Client
}

func NewClient(endpoint string, keys KeySet) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return &Client{
		Endpoint: endpoint,
		Keys:     keys,

		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func NewClientFromEnvironment() *Client {
	env := util.GetEnvironmentVariables()

	return NewClient(env["TNSW_API_ENDPOINT"], KeySetFromEnvironment())
}

func (c *Client) get(ctx context.Context, scope KeyScope, path string, query url.Values, response any) error {
	apiKey := c.Keys.ForScope(scope)
	if apiKey == "" {
		return ErrMissingAPIKey
	}

	requestURL := fmt.Sprintf("%s/%s?%s", c.Endpoint, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("apikey %s", apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: util.TrimString(string(body), 256)}
	}

	return json.Unmarshal(body, response)
}

// SearchStops queries the stop_finder endpoint and filters the results down
// to locations that represent boardable stops
func (c *Client) SearchStops(ctx context.Context, searchQuery string) ([]StopFinderLocation, error) {
	if searchQuery == "" {
		return nil, nil
	}

	query := url.Values{}
	query.Set("outputFormat", "rapidJSON")
	query.Set("type_sf", "any")
	query.Set("name_sf", searchQuery)
	query.Set("coordOutputFormat", "EPSG:4326")
	query.Set("TfNSWSF", "true")
	query.Set("version", apiVersion)

	var response struct {
		Locations []StopFinderLocation `json:"locations"`
	}
	if err := c.get(ctx, KeyScopeTripPlanner, "stop_finder", query, &response); err != nil {
		return nil, err
	}

	return FilterStopLocations(response.Locations), nil
}

var stopNamePattern = regexp.MustCompile(`(?i)(Station|Wharf|Stop|Interchange)`)

// FilterStopLocations keeps only locations that look like transport nodes.
// The stop_finder endpoint returns POIs, streets and localities alongside
// actual stops when queried with type_sf=any.
func FilterStopLocations(locations []StopFinderLocation) []StopFinderLocation {
	util.InPlaceFilter(&locations, func(location StopFinderLocation) bool {
		if location.Type == "stop" || location.Type == "platform" {
			return true
		}
		if location.IsGlobalID {
			return true
		}

		return stopNamePattern.MatchString(location.Name)
	})

	return locations
}

type TripOptions struct {
	// Number of trips the planner is asked to calculate, not a hard limit
	// on what it returns
	Count int
}

// PlanTrips queries the trip endpoint for journeys between two stops
// departing at the given time
func (c *Client) PlanTrips(ctx context.Context, originID string, destinationID string, at time.Time, opts TripOptions) ([]Journey, error) {
	count := opts.Count
	if count == 0 {
		count = 100
	}

	query := url.Values{}
	query.Set("outputFormat", "rapidJSON")
	query.Set("coordOutputFormat", "EPSG:4326")
	query.Set("depArrMacro", "dep")
	query.Set("itdDate", at.Format("20060102"))
	query.Set("itdTime", at.Format("1504"))
	query.Set("type_origin", "any")
	query.Set("name_origin", originID)
	query.Set("type_destination", "any")
	query.Set("name_destination", destinationID)
	query.Set("calcNumberOfTrips", fmt.Sprint(count))
	query.Set("version", apiVersion)

	var response struct {
		Journeys       []Journey       `json:"journeys"`
		SystemMessages []SystemMessage `json:"systemMessages"`
	}
	if err := c.get(ctx, KeyScopeTripPlanner, "trip", query, &response); err != nil {
		return nil, err
	}

	for _, message := range response.SystemMessages {
		if message.Type == "error" {
			log.Warn().Str("module", message.Module).Int("code", message.Code).Str("text", message.Text).Msg("Trip planner API system message")
		}
	}

	return response.Journeys, nil
}

// StopDepartures queries the departure_mon endpoint for realtime departures
// at a stop
func (c *Client) StopDepartures(ctx context.Context, stopID string) ([]StopEvent, error) {
	query := url.Values{}
	query.Set("outputFormat", "rapidJSON")
	query.Set("coordOutputFormat", "EPSG:4326")
	query.Set("mode", "direct")
	query.Set("type_dm", "stop")
	query.Set("name_dm", stopID)
	query.Set("departureMonitorMacro", "true")
	query.Set("itdDateTimeDepArr", "dep")
	query.Set("version", apiVersion)

	var response struct {
		StopEvents []StopEvent `json:"stopEvents"`
	}
	if err := c.get(ctx, KeyScopeTripPlanner, "departure_mon", query, &response); err != nil {
		return nil, err
	}

	return response.StopEvents, nil
}
