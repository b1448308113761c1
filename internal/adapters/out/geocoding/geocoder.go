// Package geocoding resolves free-text addresses to coordinates.
//
// HTTPGeocoder talks to a Google-style geocoding endpoint:
//
//	GET {baseURL}?address=<text>&key=<apiKey>
//	{"status": "OK", "results": [{"geometry": {"location": {"lat": -1.29, "lng": 36.82}}}]}
//
// StaticGeocoder answers every address with one fixed point and is meant for
// local runs without an API key.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sendit/internal/core/domain/model/kernel"
)

var (
	// ErrAddressNotFound means the provider answered but knows no such place.
	ErrAddressNotFound = errors.New("geocoding: address not found")

	// ErrProviderFailed covers transport errors, non-2xx replies and replies
	// that cannot be decoded.
	ErrProviderFailed = errors.New("geocoding: provider failed")
)

const maxResponseBytes = 1 << 20

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type HTTPGeocoder struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPGeocoder builds a geocoder for baseURL. A nil client means
// http.DefaultClient; callers bound each call through ctx.
func NewHTTPGeocoder(baseURL, apiKey string, client *http.Client) (*HTTPGeocoder, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("geocoding: invalid base url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGeocoder{client: client, baseURL: baseURL, apiKey: apiKey}, nil
}

// Resolve returns the first result's location.
func (g *HTTPGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return kernel.GeoPoint{}, ErrAddressNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.requestURL(address), nil)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return kernel.GeoPoint{}, fmt.Errorf("%w: status %d", ErrProviderFailed, resp.StatusCode)
	}

	var body geocodeResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: decode: %v", ErrProviderFailed, err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return kernel.GeoPoint{}, ErrAddressNotFound
	default:
		return kernel.GeoPoint{}, fmt.Errorf("%w: provider status %s %s", ErrProviderFailed, body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return kernel.GeoPoint{}, ErrAddressNotFound
	}

	location := body.Results[0].Geometry.Location
	point, err := kernel.NewGeoPoint(location.Lat, location.Lng)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	return point, nil
}

func (g *HTTPGeocoder) requestURL(address string) string {
	params := url.Values{}
	params.Set("address", address)
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}

	sep := "?"
	if strings.Contains(g.baseURL, "?") {
		sep = "&"
	}
	return g.baseURL + sep + params.Encode()
}

// NairobiCentre is the default point for StaticGeocoder.
func NairobiCentre() kernel.GeoPoint {
	// Constant coordinates inside the valid range.
	p, _ := kernel.NewGeoPoint(-1.2921, 36.8219)
	return p
}

// StaticGeocoder resolves every non-blank address to one point.
type StaticGeocoder struct {
	point kernel.GeoPoint
}

func NewStaticGeocoder(point kernel.GeoPoint) StaticGeocoder {
	return StaticGeocoder{point: point}
}

func (g StaticGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if err := ctx.Err(); err != nil {
		return kernel.GeoPoint{}, err
	}
	if strings.TrimSpace(address) == "" {
		return kernel.GeoPoint{}, ErrAddressNotFound
	}
	return g.point, nil
}
