// README: Google Maps provider for geocoding and driving directions.
package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"vtc/internal/types"
)

// GoogleProvider talks to Google Maps directly with a server-side API key.
type GoogleProvider struct {
	client *maps.Client
}

func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

// poiTypes are the Google result types accepted by the POI filter.
var poiTypes = []string{"airport", "point_of_interest", "establishment", "transit_station"}

func (p *GoogleProvider) Geocode(ctx context.Context, address, placeTypes string) ([]Feature, error) {
	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Region:   "es",
		Language: "es",
	})
	if err != nil {
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}

	features := make([]Feature, 0, len(results))
	for _, r := range results {
		if placeTypes == PlaceTypesPOI && !hasAnyType(r.Types, poiTypes) {
			continue
		}
		features = append(features, Feature{
			PlaceName:  r.FormattedAddress,
			Text:       r.FormattedAddress,
			Center:     [2]float64{r.Geometry.Location.Lng, r.Geometry.Location.Lat},
			PlaceTypes: r.Types,
		})
	}
	return features, nil
}

// Routes returns one entry per Google route, summing its legs.
func (p *GoogleProvider) Routes(ctx context.Context, from, to types.Coordinates) ([]Route, error) {
	routes, _, err := p.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      from.String(),
		Destination: to.String(),
		Mode:        maps.TravelModeDriving,
		Language:    "es",
		Region:      "es",
	})
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		if len(r.Legs) == 0 {
			continue
		}
		var route Route
		for _, leg := range r.Legs {
			route.DistanceMeters += float64(leg.Distance.Meters)
			route.DurationSeconds += leg.Duration.Seconds()
		}
		out = append(out, route)
	}
	return out, nil
}

func hasAnyType(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
