package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"dispatch-route-solver/internal/domain"
)

// Config carries the routing-service endpoint and behavior toggles. It is
// passed in at construction; the provider holds no mutable globals.
type Config struct {
	BaseURL    string
	APIKey     string
	Profile    string
	Preference string // "shortest" or "fastest"
	// MaxSpeedKMH is sent as the routing maximum speed; zero omits it.
	MaxSpeedKMH int
	Timeout     time.Duration
}

// DefaultConfig returns settings for the public OpenRouteService API.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://api.openrouteservice.org",
		Profile:     "driving-car",
		Preference:  "fastest",
		MaxSpeedKMH: 85,
		Timeout:     10 * time.Second,
	}
}

// ORSTravelTimeProvider implements TravelTimeProvider against the
// OpenRouteService directions endpoint. The highway flag maps to the
// avoid_features option, so each location pair is priced once per mode.
//
// The provider is safe for concurrent use.
type ORSTravelTimeProvider struct {
	session *http.Client
	cfg     Config
}

func NewORSTravelTimeProvider(cfg Config) (*ORSTravelTimeProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ORS base URL is empty")
	}
	if cfg.Profile == "" {
		cfg.Profile = "driving-car"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &ORSTravelTimeProvider{
		session: &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
	}, nil
}

type directionsRequest struct {
	Coordinates  [][]float64        `json:"coordinates"`
	Preference   string             `json:"preference,omitempty"`
	MaximumSpeed int                `json:"maximum_speed,omitempty"`
	Options      *directionsOptions `json:"options,omitempty"`
}

type directionsOptions struct {
	AvoidFeatures []string `json:"avoid_features"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
	Features []struct {
		Properties struct {
			Summary struct {
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// TravelTime returns the driving duration in whole seconds between two
// locations, avoiding limited-access roads unless allowHighways is set.
func (o *ORSTravelTimeProvider) TravelTime(
	ctx context.Context,
	from, to domain.Location,
	allowHighways bool,
) (int64, error) {
	if from == to {
		return 0, nil
	}

	body := directionsRequest{
		Coordinates:  [][]float64{from.CoordsToList(), to.CoordsToList()},
		Preference:   o.cfg.Preference,
		MaximumSpeed: o.cfg.MaxSpeedKMH,
	}
	if !allowHighways {
		body.Options = &directionsOptions{AvoidFeatures: []string{"highways"}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.cfg.BaseURL, o.cfg.Profile)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return 0, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return 0, fmt.Errorf("decode directions response: %w", err)
	}

	// The endpoint answers in two shapes depending on the requested
	// format: a routes array or a GeoJSON feature collection.
	var seconds float64
	switch {
	case len(dr.Routes) > 0:
		seconds = dr.Routes[0].Summary.Duration
	case len(dr.Features) > 0:
		seconds = dr.Features[0].Properties.Summary.Duration
	default:
		return 0, fmt.Errorf("directions response contains no route")
	}

	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("directions response duration %v is not usable", seconds)
	}

	return int64(math.Round(seconds)), nil
}
