// README: Quoter that computes road distances and matches the tariff catalog in-process.
package estimate

import (
	"context"
	"errors"
	"fmt"

	"vtc/internal/maps"
	"vtc/internal/modules/pricing"
	"vtc/internal/types"
)

var errRouteUnavailable = errors.New("route unavailable")

type TripRouter interface {
	TripDistancesFor(ctx context.Context, pickup, destination types.Location) (maps.TripDistances, bool)
	TripDistancesFromBase(ctx context.Context, base types.Coordinates, destination types.Location) (maps.TripDistances, bool)
}

type Pricer interface {
	CalculatePrice(ctx context.Context, req pricing.PriceRequest, d maps.TripDistances, tariffs []pricing.Tariff, supplements []pricing.Supplement) (pricing.Calculation, error)
}

type LocalQuoter struct {
	routes  TripRouter
	catalog pricing.CatalogSource
	pricer  Pricer
}

func NewLocalQuoter(routes TripRouter, catalog pricing.CatalogSource, pricer Pricer) *LocalQuoter {
	return &LocalQuoter{routes: routes, catalog: catalog, pricer: pricer}
}

func (q *LocalQuoter) Quote(ctx context.Context, quote Quote) (Quotation, error) {
	var (
		distances maps.TripDistances
		ok        bool
	)
	if quote.Origin.FromBase {
		distances, ok = q.routes.TripDistancesFromBase(ctx, quote.Origin.Coordinates, quote.Destination.Location())
	} else {
		distances, ok = q.routes.TripDistancesFor(ctx, quote.Origin.Location(), quote.Destination.Location())
	}
	if !ok {
		if err := ctx.Err(); err != nil {
			return Quotation{}, err
		}
		return Quotation{}, errRouteUnavailable
	}

	tariffs, err := q.catalog.Tariffs(ctx)
	if err != nil {
		return Quotation{}, fmt.Errorf("load tariffs: %w", err)
	}
	supplements, err := q.catalog.Supplements(ctx)
	if err != nil {
		return Quotation{}, fmt.Errorf("load supplements: %w", err)
	}

	calc, err := q.pricer.CalculatePrice(ctx, pricing.PriceRequest{
		ServiceType: quote.ServiceType,
		Passengers:  quote.Passengers,
		Date:        quote.Date,
		Time:        quote.Time,
		Supplements: quote.Supplements,
	}, distances, tariffs, supplements)
	if err != nil {
		return Quotation{}, err
	}

	out := Quotation{
		Distances: distances,
		Pricing: Pricing{
			Subtotal:  calc.Subtotal,
			IVA:       calc.IVA,
			Total:     calc.Total,
			Deposit:   calc.Deposit,
			Breakdown: calc.Breakdown,
		},
	}
	if calc.TariffUsed != nil {
		out.Pricing.TariffUsed = &TariffRef{ID: calc.TariffUsed.ID, Name: calc.TariffUsed.Name}
	}
	return out, nil
}
