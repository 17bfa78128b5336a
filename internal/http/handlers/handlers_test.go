// README: Handler tests for estimate status mapping, price quotes, places and trips.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"vtc/internal/auth"
	"vtc/internal/backend"
	"vtc/internal/http/handlers"
	"vtc/internal/http/middleware"
	"vtc/internal/logging"
	"vtc/internal/maps"
	"vtc/internal/modules/estimate"
	"vtc/internal/modules/pricing"
	"vtc/internal/modules/trip"
	"vtc/internal/types"
)

type stubEstimator struct {
	res *estimate.Result
	err error
	got estimate.TripRequest
}

func (s *stubEstimator) Estimate(_ context.Context, req estimate.TripRequest) (*estimate.Result, error) {
	s.got = req
	return s.res, s.err
}

type stubPlaces struct {
	features []maps.Feature
	coords   map[string]types.Coordinates
	base     *types.Coordinates
}

func (s *stubPlaces) Search(context.Context, string, int) []maps.Feature { return s.features }

func (s *stubPlaces) GeocodeFiltered(_ context.Context, address string) (types.Coordinates, bool) {
	c, ok := s.coords[address]
	return c, ok
}

func (s *stubPlaces) VehicleBase(context.Context) (types.Coordinates, bool) {
	if s.base == nil {
		return types.Coordinates{}, false
	}
	return *s.base, true
}

type staticCatalog struct{ tariffs []pricing.Tariff }

func (c staticCatalog) Tariffs(context.Context) ([]pricing.Tariff, error) { return c.tariffs, nil }
func (c staticCatalog) Supplements(context.Context) ([]pricing.Supplement, error) {
	return []pricing.Supplement{}, nil
}

type noHolidays struct{}

func (noHolidays) IsHoliday(context.Context, types.Date) (bool, error) { return false, nil }

type stubTrips struct {
	trip      *trip.Trip
	err       error
	sess      auth.Session
	cancelled string
}

func (s *stubTrips) Create(_ context.Context, sess auth.Session, _ trip.CreateCommand) (*trip.Trip, string, error) {
	s.sess = sess
	return s.trip, "trip created", s.err
}

func (s *stubTrips) Get(_ context.Context, sess auth.Session, _ string) (*trip.Trip, error) {
	s.sess = sess
	return s.trip, s.err
}

func (s *stubTrips) List(_ context.Context, sess auth.Session, _, _ int) ([]trip.Trip, error) {
	s.sess = sess
	if s.err != nil {
		return nil, s.err
	}
	return []trip.Trip{*s.trip}, nil
}

func (s *stubTrips) Cancel(_ context.Context, sess auth.Session, id, _ string) (string, error) {
	s.sess = sess
	s.cancelled = id
	return "trip cancelled", s.err
}

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, raw string) (auth.Session, error) {
	if raw != "good" {
		return auth.Session{}, errors.New("bad token")
	}
	return auth.Session{UID: "uid-1", Token: raw}, nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(logging.Discard()))
	return r
}

func doRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestEstimate_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", &estimate.Failure{Kind: estimate.KindValidation, Message: estimate.MsgInvalidPassengers}, 422, "validation"},
		{"resolution", &estimate.Failure{Kind: estimate.KindResolution, Message: estimate.MsgOriginUnresolved}, 422, "resolution"},
		{"no tariff", &estimate.Failure{Kind: estimate.KindNoTariff, Message: estimate.MsgNoTariff}, 422, "no_tariff"},
		{"remote", &estimate.Failure{Kind: estimate.KindRemote, Message: "sin tarifa"}, 502, "remote"},
		{"network", fmt.Errorf("post: %w", backend.ErrNetwork), 502, "network"},
		{"timeout", &estimate.Failure{Kind: estimate.KindTimeout, Message: estimate.MsgTimedOut}, 504, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine()
			r.POST("/api/estimates", handlers.NewEstimateHandler(&stubEstimator{err: tt.err}).Estimate)
			w := doRequest(r, http.MethodPost, "/api/estimates", map[string]any{"pickupDate": "2026-10-19"}, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			body := decode(t, w)
			if body["kind"] != tt.wantKind || body["error"] == "" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestEstimate_IdleAndSuccess(t *testing.T) {
	r := newEngine()
	est := &stubEstimator{}
	r.POST("/api/estimates", handlers.NewEstimateHandler(est).Estimate)

	if w := doRequest(r, http.MethodPost, "/api/estimates", map[string]any{}, ""); w.Code != http.StatusNoContent {
		t.Errorf("idle status = %d, want 204", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/api/estimates", "{not json", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", w.Code)
	}

	est.res = &estimate.Result{Origin: "Plaza del Castillo", Destination: "Gran Vía"}
	est.res.Distances.DistancePickupToDestination = 407.12
	est.res.Distances.EstimatedDuration = 242
	est.res.Pricing.Total = 440
	w := doRequest(r, http.MethodPost, "/api/estimates", map[string]any{
		"origin":         map[string]any{"address": "Plaza del Castillo"},
		"destination":    map[string]any{"coordinates": map[string]any{"latitude": 40.42, "longitude": -3.7}},
		"pickupDate":     "2026-10-19",
		"pickupTime":     "10:00",
		"passengerCount": 2,
		"serviceType":    "one_way",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if est.got.Passengers != 2 || est.got.Destination.Coordinates.Lat != 40.42 {
		t.Errorf("decoded request = %+v", est.got)
	}
	display := decode(t, w)["display"].(map[string]any)
	if display["distance"] != "407.12 km" || display["duration"] != "4:02 H" || display["total"] != "440.00 €" {
		t.Errorf("display = %v", display)
	}
}

func TestPricingQuote(t *testing.T) {
	tariff := pricing.Tariff{ID: 1, Name: "Estándar día", BasePrice: 40, ServiceType: pricing.ServiceOneWay, Active: true}
	matcher := pricing.NewMatcher(pricing.NewFestiveDetector(noHolidays{}, nil), nil)
	svc := pricing.NewService(matcher, pricing.DefaultIVARate, nil)

	r := newEngine()
	r.POST("/api/pricing/quote", handlers.NewPricingHandler(svc, staticCatalog{tariffs: []pricing.Tariff{tariff}}).Quote)

	req := map[string]any{
		"serviceType":    "one_way",
		"passengerCount": 2,
		"pickupDate":     "2026-10-19",
		"pickupTime":     "10:00",
		"distances":      map[string]any{"distancePickupToDestination": 12.5},
	}
	w := doRequest(r, http.MethodPost, "/api/pricing/quote", req, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["total"] != 44.0 || body["deposit"] != 22.0 {
		t.Errorf("body = %v", body)
	}

	tests := []struct {
		name  string
		field string
		value any
	}{
		{"sunday has no tariff", "pickupDate", "2026-10-18"},
		{"bad time", "pickupTime", "7pm"},
		{"too many passengers", "passengerCount", 9},
		{"unknown service", "serviceType", "shuttle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := map[string]any{}
			for k, v := range req {
				bad[k] = v
			}
			bad[tt.field] = tt.value
			if w := doRequest(r, http.MethodPost, "/api/pricing/quote", bad, ""); w.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestPlaces(t *testing.T) {
	base := types.Coordinates{Lat: 42.8125, Lng: -1.6458}
	places := &stubPlaces{coords: map[string]types.Coordinates{"Pamplona": {Lat: 42.81, Lng: -1.64}}}
	h := handlers.NewPlacesHandler(places)
	r := newEngine()
	r.GET("/search", h.Search)
	r.GET("/geocode", h.Geocode)
	r.GET("/base", h.VehicleBase)

	w := doRequest(r, http.MethodGet, "/search?q=Pa", nil, "")
	if w.Code != http.StatusOK || w.Body.String() != `{"features":[]}` {
		t.Errorf("search = %d %s", w.Code, w.Body.String())
	}
	if w := doRequest(r, http.MethodGet, "/geocode?address=Pamplona", nil, ""); w.Code != http.StatusOK {
		t.Errorf("geocode status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/geocode?address=Nowhere", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown geocode status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/base", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("missing base status = %d", w.Code)
	}
	places.base = &base
	w = doRequest(r, http.MethodGet, "/base", nil, "")
	if w.Code != http.StatusOK || decode(t, w)["label"] != "42.8125,-1.6458" {
		t.Errorf("base = %d %s", w.Code, w.Body.String())
	}
}

func tripRouter(svc handlers.TripService) *gin.Engine {
	r := newEngine()
	h := handlers.NewTripHandler(svc)
	g := r.Group("/api/trips", middleware.Auth(stubVerifier{}))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/cancel", h.Cancel)
	return r
}

func TestTrips_Authenticated(t *testing.T) {
	svc := &stubTrips{trip: &trip.Trip{ID: "7", Status: trip.StatusPending}}
	r := tripRouter(svc)

	if w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{"origin": "a"}, "bad"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d", w.Code)
	}

	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{"origin": "a"}, "good")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	if svc.sess.UID != "uid-1" || svc.sess.Token != "good" {
		t.Errorf("session = %+v", svc.sess)
	}
	if w := doRequest(r, http.MethodGet, "/api/trips?page=2", nil, "good"); w.Code != http.StatusOK {
		t.Errorf("list status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/api/trips/7/cancel", nil, "good"); w.Code != http.StatusOK || svc.cancelled != "7" {
		t.Errorf("cancel status = %d, id = %q", w.Code, svc.cancelled)
	}
}

func TestTrips_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: origin", trip.ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("get: %w", trip.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: completed -> cancelled", trip.ErrInvalidState), http.StatusConflict},
		{trip.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("get: %w", backend.ErrTimeout), http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		r := tripRouter(&stubTrips{err: tt.err})
		if w := doRequest(r, http.MethodGet, "/api/trips/7", nil, "good"); w.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}
