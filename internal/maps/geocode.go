// README: Optional geocoder for admin-added locations without coordinates.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"fleetbook/internal/types"
)

// Geocoder resolves a location name to coordinates through the Google
// Geocoding API. It is optional: when no API key is configured the admin
// must supply coordinates explicitly.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a Geocoder with the given API key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// Resolve returns the coordinates of the named place, biased to India where
// the served routes are.
func (g *Geocoder) Resolve(ctx context.Context, name string) (types.Point, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: name,
		Region:  "IN",
	})
	if err != nil {
		return types.Point{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return types.Point{}, fmt.Errorf("no geocoding result for %q", name)
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
