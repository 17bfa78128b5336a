// README: Tariff matcher. Filters the catalog by service, festive day, passengers, distance and hour.
package pricing

import (
	"context"
	"log/slog"
	"time"

	"vtc/internal/logging"
	"vtc/internal/types"
)

// HolidayChecker answers whether a date is a public holiday.
type HolidayChecker interface {
	IsHoliday(ctx context.Context, date types.Date) (bool, error)
}

// FestiveDetector treats every Sunday as festive and asks the checker for other days.
type FestiveDetector struct {
	holidays HolidayChecker
	log      *slog.Logger
}

func NewFestiveDetector(holidays HolidayChecker, log *slog.Logger) *FestiveDetector {
	return &FestiveDetector{holidays: holidays, log: logging.OrDiscard(log)}
}

// IsFestive never fails: a checker error falls back to the Sunday rule.
func (d *FestiveDetector) IsFestive(ctx context.Context, date types.Date) bool {
	if date.Weekday() == time.Sunday {
		return true
	}
	if d == nil || d.holidays == nil {
		return false
	}
	holiday, err := d.holidays.IsHoliday(ctx, date)
	if err != nil {
		d.log.Warn("holiday check failed, using weekday rule", "date", date.String(), "error", err)
		return false
	}
	return holiday
}

type Matcher struct {
	festive *FestiveDetector
	log     *slog.Logger
}

func NewMatcher(festive *FestiveDetector, log *slog.Logger) *Matcher {
	return &Matcher{festive: festive, log: logging.OrDiscard(log)}
}

// FindMatchingTariff returns the first tariff, in catalog order, that satisfies c.
func (m *Matcher) FindMatchingTariff(ctx context.Context, c MatchCriteria, tariffs []Tariff) (*Tariff, bool) {
	festive := m.festive.IsFestive(ctx, c.Date)
	for i := range tariffs {
		if MatchesTariff(tariffs[i], c, festive) {
			t := tariffs[i]
			m.log.Debug("tariff selected", "tariff_id", t.ID, "tariff", t.Name, "festive", festive)
			return &t, true
		}
	}
	m.log.Warn("no tariff matches",
		"service_type", c.ServiceType,
		"passengers", c.Passengers,
		"hour", c.Hour,
		"distance_km", c.DistanceKm,
		"date", c.Date.String(),
		"festive", festive,
	)
	return nil, false
}

// MatchesTariff is the pure catalog filter. Range bounds are inclusive.
func MatchesTariff(t Tariff, c MatchCriteria, festive bool) bool {
	if !t.Active || t.Discount {
		return false
	}
	if t.ServiceType != c.ServiceType {
		return false
	}
	if t.Festive != festive {
		return false
	}
	if t.MinPassengers != nil && c.Passengers < *t.MinPassengers {
		return false
	}
	if t.MaxPassengers != nil && c.Passengers > *t.MaxPassengers {
		return false
	}
	if t.MinDistanceKm != nil && c.DistanceKm < *t.MinDistanceKm {
		return false
	}
	if t.MaxDistanceKm != nil && c.DistanceKm > *t.MaxDistanceKm {
		return false
	}
	if min, max, ok := t.HourRange(); ok {
		if min <= max {
			if c.Hour < min || c.Hour > max {
				return false
			}
		} else if c.Hour < min && c.Hour > max {
			// Overnight range such as 22-08: reject only hours strictly between max and min.
			return false
		}
	}
	return true
}
