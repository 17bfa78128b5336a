// README: Tariff catalog and holiday calendar backed by PostgreSQL.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vtc/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Tariffs returns every tariff ordered by id; the matcher filters inactive rows.
func (s *Store) Tariffs(ctx context.Context) ([]Tariff, error) {
	return s.ListTariffs(ctx)
}

func (s *Store) Supplements(ctx context.Context) ([]Supplement, error) {
	return s.ListSupplements(ctx)
}

func (s *Store) ListTariffs(ctx context.Context) ([]Tariff, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, nombre, precio_base, precio_iva, categoria, tipo_servicio,
		       distancia_minima, distancia_maxima,
		       to_char(hora_minima, 'HH24:MI:SS'), to_char(hora_maxima, 'HH24:MI:SS'),
		       num_pasajeros_min, num_pasajeros_max,
		       es_festivo, es_descuento, activo
		FROM tariffs
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tariffs: %w", err)
	}
	defer rows.Close()

	out := []Tariff{}
	for rows.Next() {
		var t Tariff
		var serviceType string
		if err := rows.Scan(
			&t.ID, &t.Name, &t.BasePrice, &t.PriceWithIVA, &t.Category, &serviceType,
			&t.MinDistanceKm, &t.MaxDistanceKm,
			&t.MinHour, &t.MaxHour,
			&t.MinPassengers, &t.MaxPassengers,
			&t.Festive, &t.Discount, &t.Active,
		); err != nil {
			return nil, fmt.Errorf("scan tariff: %w", err)
		}
		t.ServiceType = ServiceType(serviceType)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tariffs: %w", err)
	}
	return out, nil
}

func (s *Store) ListSupplements(ctx context.Context) ([]Supplement, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, slug, price, active
		FROM supplements
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query supplements: %w", err)
	}
	defer rows.Close()

	out := []Supplement{}
	for rows.Next() {
		var sp Supplement
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Slug, &sp.Price, &sp.Active); err != nil {
			return nil, fmt.Errorf("scan supplement: %w", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supplements: %w", err)
	}
	return out, nil
}

func (s *Store) IsHoliday(ctx context.Context, date types.Date) (bool, error) {
	day := time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, time.UTC)
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM holidays WHERE day = $1)`, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query holiday %s: %w", date, err)
	}
	return exists, nil
}
