package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"vtc/internal/types"
)

type stubAPI struct {
	bodies map[string]string
	err    error
	params map[string]url.Values
}

func (s *stubAPI) Get(_ context.Context, path string, params url.Values, out any) error {
	if s.params == nil {
		s.params = map[string]url.Values{}
	}
	s.params[path] = params
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.bodies[path]), out)
}

type memCache struct {
	data   map[string][]byte
	stores int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Load(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memCache) Store(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.stores++
	m.data[key] = raw
	return nil
}

type countingCatalog struct {
	tariffs []Tariff
	calls   int
}

func (c *countingCatalog) Tariffs(context.Context) ([]Tariff, error) {
	c.calls++
	return c.tariffs, nil
}

func (c *countingCatalog) Supplements(context.Context) ([]Supplement, error) {
	return []Supplement{}, nil
}

const tariffsJSON = `[
  {"id": 7, "nombre": "Nocturna", "precio_base": 55, "precio_iva": 60.5, "categoria": null,
   "tipo_servicio": "one_way", "distancia_minima": null, "distancia_maxima": 30,
   "hora_minima": "22:00:00", "hora_maxima": "06:00:00", "num_pasajeros_min": 1,
   "num_pasajeros_max": null, "es_festivo": false, "es_descuento": false, "activo": true}
]`

func TestBackendCatalog_DecodesWireNames(t *testing.T) {
	api := &stubAPI{bodies: map[string]string{"/tariffs": tariffsJSON}}
	got, err := NewBackendCatalog(api, nil).Tariffs(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("Tariffs() = %v, %v", got, err)
	}
	tr := got[0]
	if tr.Name != "Nocturna" || tr.BasePrice != 55 || tr.ServiceType != ServiceOneWay || !tr.Active {
		t.Errorf("tariff = %+v", tr)
	}
	if tr.MinDistanceKm != nil || tr.MaxDistanceKm == nil || *tr.MaxDistanceKm != 30 {
		t.Errorf("distance bounds = %v, %v", tr.MinDistanceKm, tr.MaxDistanceKm)
	}
	if min, max, ok := tr.HourRange(); !ok || min != 22 || max != 6 {
		t.Errorf("HourRange() = %d, %d, %v", min, max, ok)
	}
}

func TestBackendCatalog_FailsSoft(t *testing.T) {
	c := NewBackendCatalog(&stubAPI{err: errors.New("offline")}, nil)
	tariffs, err := c.Tariffs(context.Background())
	if err != nil || tariffs == nil || len(tariffs) != 0 {
		t.Errorf("Tariffs() = %v, %v; want empty list", tariffs, err)
	}
	supplements, err := c.Supplements(context.Background())
	if err != nil || supplements == nil || len(supplements) != 0 {
		t.Errorf("Supplements() = %v, %v; want empty list", supplements, err)
	}
}

func TestBackendHolidays_SendsDate(t *testing.T) {
	api := &stubAPI{bodies: map[string]string{"/holidays/check": `{"is_holiday": true, "reason": "San Fermín"}`}}
	got, err := NewBackendHolidays(api).IsHoliday(context.Background(), types.Date{Year: 2026, Month: 7, Day: 7})
	if err != nil || !got {
		t.Fatalf("IsHoliday() = %v, %v", got, err)
	}
	if d := api.params["/holidays/check"].Get("date"); d != "2026-07-07" {
		t.Errorf("date param = %q", d)
	}
}

func TestCachedCatalog(t *testing.T) {
	next := &countingCatalog{tariffs: []Tariff{standardTariff()}}
	cache := newMemCache()
	c := NewCachedCatalog(next, cache, nil)

	for i := 0; i < 3; i++ {
		got, err := c.Tariffs(context.Background())
		if err != nil || len(got) != 1 || got[0].Name != "Estándar día" {
			t.Fatalf("Tariffs() = %v, %v", got, err)
		}
	}
	if next.calls != 1 {
		t.Errorf("source calls = %d, want 1", next.calls)
	}

	empty := &countingCatalog{tariffs: []Tariff{}}
	c = NewCachedCatalog(empty, newMemCache(), nil)
	_, _ = c.Tariffs(context.Background())
	_, _ = c.Tariffs(context.Background())
	if empty.calls != 2 {
		t.Errorf("empty catalog must not be cached, source calls = %d", empty.calls)
	}
}

func TestCachedHolidays(t *testing.T) {
	ctx := context.Background()
	next := &stubHolidays{holiday: true}
	cache := newMemCache()
	h := NewCachedHolidays(next, cache, nil)

	for i := 0; i < 2; i++ {
		got, err := h.IsHoliday(ctx, monday)
		if err != nil || !got {
			t.Fatalf("IsHoliday() = %v, %v", got, err)
		}
	}
	if next.calls != 1 {
		t.Errorf("checker calls = %d, want 1", next.calls)
	}

	failing := &stubHolidays{err: errors.New("down")}
	h = NewCachedHolidays(failing, newMemCache(), nil)
	if _, err := h.IsHoliday(ctx, monday); err == nil {
		t.Error("expected checker error to propagate")
	}
	if _, err := h.IsHoliday(ctx, monday); err == nil || failing.calls != 2 {
		t.Errorf("errors must not be cached, calls = %d", failing.calls)
	}
}
