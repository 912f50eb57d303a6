package postgres

import (
	"context"
	"errors"
	"fmt"

	"cbrates/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ObservationRepository struct {
	pool *pgxpool.Pool
}

func (r *ObservationRepository) Save(ctx context.Context, code string, rate float64) (domain.RateObservation, error) {
	const q = `
        insert into rate_observations (currency, rate)
        values ($1, $2)
        returning id, currency, rate, observed_at;
    `

	var obs domain.RateObservation
	if err := r.pool.QueryRow(ctx, q, code, rate).Scan(
		&obs.ID,
		&obs.Currency,
		&obs.Rate,
		&obs.ObservedAt,
	); err != nil {
		return domain.RateObservation{}, fmt.Errorf("failed to save rate for currency %q: %w", code, err)
	}
	return obs, nil
}

func (r *ObservationRepository) Latest(ctx context.Context, code string) (domain.RateObservation, error) {
	const q = `
        select id, currency, rate, observed_at
        from rate_observations
        where currency = $1
        order by observed_at desc, id desc
        limit 1;
    `

	var obs domain.RateObservation
	if err := r.pool.QueryRow(ctx, q, code).Scan(
		&obs.ID,
		&obs.Currency,
		&obs.Rate,
		&obs.ObservedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RateObservation{}, domain.ErrNoObservations
		}
		return domain.RateObservation{}, fmt.Errorf("failed to select latest rate for currency %q: %w", code, err)
	}
	return obs, nil
}

func (r *ObservationRepository) History(ctx context.Context, code string, limit int, excludeLatest bool) ([]domain.RateObservation, error) {
	const q = `
        select id, currency, rate, observed_at
        from rate_observations
        where currency = $1
        order by observed_at desc, id desc
        limit $2 offset $3;
    `

	offset := 0
	if excludeLatest {
		offset = 1
	}

	rows, err := r.pool.Query(ctx, q, code, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for currency %q: %w", code, err)
	}
	defer rows.Close()

	history := make([]domain.RateObservation, 0, limit)
	for rows.Next() {
		var obs domain.RateObservation
		if err = rows.Scan(&obs.ID, &obs.Currency, &obs.Rate, &obs.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		history = append(history, obs)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history for currency %q: %w", code, err)
	}
	return history, nil
}

func NewObservationRepository(pool *pgxpool.Pool) *ObservationRepository {
	return &ObservationRepository{pool: pool}
}
