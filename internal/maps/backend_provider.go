// README: Geocoding, routing and vehicle-base provider that goes through the VTC backend proxy.
package maps

import (
	"context"
	"net/url"
	"strconv"

	"vtc/internal/types"
)

// apiClient is the subset of backend.Client used here.
type apiClient interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
}

// BackendProvider keeps the mapping API key on the server side.
type BackendProvider struct {
	client apiClient
}

func NewBackendProvider(client apiClient) *BackendProvider {
	return &BackendProvider{client: client}
}

type featureCollection struct {
	Features []Feature `json:"features"`
}

func (p *BackendProvider) Geocode(ctx context.Context, address, placeTypes string) ([]Feature, error) {
	var resp featureCollection
	params := url.Values{"address": {address}, "types": {placeTypes}}
	if err := p.client.Get(ctx, "/mapbox/geocode", params, &resp); err != nil {
		return nil, err
	}
	return resp.Features, nil
}

func (p *BackendProvider) Search(ctx context.Context, query, placeTypes string, limit int) ([]Feature, error) {
	var resp featureCollection
	params := url.Values{
		"query": {query},
		"types": {placeTypes},
		"limit": {strconv.Itoa(limit)},
	}
	if err := p.client.Get(ctx, "/mapbox/search", params, &resp); err != nil {
		return nil, err
	}
	return resp.Features, nil
}

func (p *BackendProvider) Routes(ctx context.Context, from, to types.Coordinates) ([]Route, error) {
	var resp struct {
		Routes []Route `json:"routes"`
	}
	params := url.Values{
		"from_lat": {formatCoord(from.Lat)},
		"from_lon": {formatCoord(from.Lng)},
		"to_lat":   {formatCoord(to.Lat)},
		"to_lon":   {formatCoord(to.Lng)},
	}
	if err := p.client.Get(ctx, "/mapbox/directions", params, &resp); err != nil {
		return nil, err
	}
	return resp.Routes, nil
}

func (p *BackendProvider) VehicleBase(ctx context.Context) (types.Coordinates, error) {
	var c types.Coordinates
	if err := p.client.Get(ctx, "/vehicle/base-coordinates", nil, &c); err != nil {
		return types.Coordinates{}, err
	}
	return c, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
