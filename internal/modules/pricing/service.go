// README: Price calculator. Matches a tariff, adds supplements and applies IVA and the deposit.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"vtc/internal/logging"
	"vtc/internal/maps"
	"vtc/internal/types"
)

const (
	DefaultIVARate = 0.10
	DepositRate    = 0.50
)

type Service struct {
	matcher *Matcher
	ivaRate float64
	log     *slog.Logger
}

func NewService(matcher *Matcher, ivaRate float64, log *slog.Logger) *Service {
	if ivaRate <= 0 {
		ivaRate = DefaultIVARate
	}
	return &Service{matcher: matcher, ivaRate: ivaRate, log: logging.OrDiscard(log)}
}

// CalculatePrice prices a trip against the given catalogs. The tariff is matched
// on the pickup->destination distance; the base leg is listed but not charged.
func (s *Service) CalculatePrice(ctx context.Context, req PriceRequest, d maps.TripDistances, tariffs []Tariff, supplements []Supplement) (Calculation, error) {
	if !req.ServiceType.Valid() {
		return Calculation{}, fmt.Errorf("%w: %q", ErrUnknownServiceType, req.ServiceType)
	}

	tariff, ok := s.matcher.FindMatchingTariff(ctx, MatchCriteria{
		ServiceType: req.ServiceType,
		Passengers:  req.Passengers,
		Hour:        req.Time.Hour,
		DistanceKm:  d.DistancePickupToDestination,
		Date:        req.Date,
	}, tariffs)
	if !ok {
		return Calculation{}, ErrNoApplicableTariff
	}

	subtotal := tariff.BasePrice
	lines := []BreakdownLine{
		moneyLine("Base fare", tariff.BasePrice),
		{Concept: "Tariff", Amount: tariff.Name},
	}

	if len(req.Supplements) > 0 {
		for _, sp := range supplements {
			if !sp.Active || !slices.Contains(req.Supplements, sp.Slug) {
				continue
			}
			subtotal += sp.Price
			lines = append(lines, moneyLine(sp.Name, sp.Price))
		}
	}

	if d.DistanceBaseToPickup > 0 {
		lines = append(lines, BreakdownLine{Concept: "Base to pickup distance", Amount: types.FormatKm(d.DistanceBaseToPickup)})
	}

	iva := subtotal * s.ivaRate
	total := subtotal + iva
	deposit := total * DepositRate

	lines = append(lines,
		moneyLine("Subtotal", subtotal),
		moneyLine(fmt.Sprintf("IVA (%.0f%%)", math.Round(s.ivaRate*100)), iva),
		moneyLine("Total", total),
		moneyLine(fmt.Sprintf("Deposit (%.0f%%)", DepositRate*100), deposit),
	)

	s.log.Info("price calculated",
		"tariff_id", tariff.ID,
		"service_type", req.ServiceType,
		"subtotal", subtotal,
		"total", total,
	)

	return Calculation{
		Subtotal:   subtotal,
		IVA:        iva,
		Total:      total,
		Deposit:    deposit,
		Breakdown:  lines,
		TariffUsed: tariff,
	}, nil
}
