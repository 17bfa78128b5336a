package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"vtc/internal/modules/estimate"
	"vtc/internal/modules/pricing"
	"vtc/internal/types"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in   string
		want types.Location
	}{
		{"", types.Location{}},
		{"42.8125,-1.6458", types.Location{Coordinates: types.Coordinates{Lat: 42.8125, Lng: -1.6458}}},
		{" 40.42 , -3.7 ", types.Location{Coordinates: types.Coordinates{Lat: 40.42, Lng: -3.7}}},
		{"Calle Mayor, 5", types.Location{Address: "Calle Mayor, 5"}},
		{"Aeropuerto de Pamplona", types.Location{Address: "Aeropuerto de Pamplona"}},
	}
	for _, tt := range tests {
		if got := parseLocation(tt.in); got != tt.want {
			t.Errorf("parseLocation(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

type fixedEstimator struct {
	res *estimate.Result
	err error
}

func (e fixedEstimator) Estimate(context.Context, estimate.TripRequest) (*estimate.Result, error) {
	return e.res, e.err
}

type fixedBase struct {
	c  types.Coordinates
	ok bool
}

func (b fixedBase) VehicleBase(context.Context) (types.Coordinates, bool) { return b.c, b.ok }

func TestRun(t *testing.T) {
	result := &estimate.Result{
		Origin:         "42.8125,-1.6458",
		Destination:    "Gran Vía, Madrid",
		OriginFromBase: true,
		PickupDate:     "2026-10-19",
		PickupTime:     "10:00",
		Pricing: estimate.Pricing{
			Total:      44,
			TariffUsed: &estimate.TariffRef{ID: 9, Name: "Estándar"},
			Breakdown:  []pricing.BreakdownLine{{Concept: "Base fare", Amount: "40,00 €"}},
		},
	}

	tests := []struct {
		name       string
		est        fixedEstimator
		base       fixedBase
		wantCode   int
		wantStdout []string
		wantStderr string
	}{
		{
			name:       "result with known base",
			est:        fixedEstimator{res: result},
			base:       fixedBase{c: types.Coordinates{Lat: 42.8125, Lng: -1.6458}, ok: true},
			wantCode:   0,
			wantStdout: []string{"From:     Vehicle base", "Base:     42.8125,-1.6458", "To:       Gran Vía, Madrid", "Tariff:   Estándar", "Base fare"},
		},
		{
			name:       "idle request",
			est:        fixedEstimator{},
			wantCode:   2,
			wantStderr: "Nothing to estimate",
		},
		{
			name:       "failure",
			est:        fixedEstimator{err: &estimate.Failure{Kind: estimate.KindResolution, Message: estimate.MsgOriginUnresolved}},
			wantCode:   2,
			wantStderr: "Error (resolution): " + estimate.MsgOriginUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.est, tt.base, estimate.TripRequest{}, &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("code = %d, want %d (stderr %q)", code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout.String())
				}
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
