// README: Place autocomplete through Google Places text search.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Search runs a Places text search biased to Spain and keeps at most limit results.
// Results without a location are dropped.
func (p *GoogleProvider) Search(ctx context.Context, query, placeTypes string, limit int) ([]Feature, error) {
	r := &maps.TextSearchRequest{
		Query:    query,
		Language: "es",
		Region:   "es",
	}

	resp, err := p.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	var results []Feature
	for _, result := range resp.Results {
		if placeTypes == PlaceTypesPOI && !hasAnyType(result.Types, poiTypes) {
			continue
		}
		loc := result.Geometry.Location
		if loc.Lat == 0 && loc.Lng == 0 {
			continue
		}

		name := result.Name
		if result.FormattedAddress != "" {
			name = result.Name + ", " + result.FormattedAddress
		}
		results = append(results, Feature{
			PlaceName:  name,
			Text:       result.Name,
			Center:     [2]float64{loc.Lng, loc.Lat},
			PlaceTypes: result.Types,
		})

		if limit > 0 && len(results) >= limit {
			break
		}
	}

	return results, nil
}
