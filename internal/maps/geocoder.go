package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

var ErrNoResults = errors.New("geocode: no results")

// Geocoder resolves free-text addresses with the Google Geocoding API.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a Geocoder with the given API Key. Extra options (base URL,
// HTTP client) are passed through to the maps client.
func NewGeocoder(apiKey string, opts ...maps.ClientOption) (*Geocoder, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// Geocode returns the coordinates of the best match for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	res, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(res) == 0 {
		return 0, 0, ErrNoResults
	}
	loc := res[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
