package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
)

// PriceHistory is an append-only log of fetched prices, one row per product
// per fetch run. Optional: the generation pipeline never reads it, it exists
// for auditing price movement over time.
type PriceHistory struct {
	DB *pgxpool.Pool
}

func NewPriceHistory(ctx context.Context, databaseURL string) (*PriceHistory, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect price history store: %w", err)
	}
	return &PriceHistory{DB: pool}, nil
}

func (r *PriceHistory) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS price_history (
			id          BIGSERIAL PRIMARY KEY,
			run_id      TEXT NOT NULL,
			match_key   TEXT NOT NULL,
			price       TEXT NOT NULL,
			title       TEXT,
			fetched_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *PriceHistory) Append(ctx context.Context, runID string, e model.PriceEntry) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO price_history (run_id, match_key, price, title)
		VALUES ($1, $2, $3, $4)
	`, runID, e.MatchKey, e.Price, e.Title)
	return err
}

// Latest returns the most recent price recorded for a match key.
func (r *PriceHistory) Latest(ctx context.Context, matchKey string) (model.PriceEntry, error) {
	var e model.PriceEntry
	err := r.DB.QueryRow(ctx, `
		SELECT match_key, price, COALESCE(title, ''), fetched_at::text
		FROM price_history
		WHERE match_key = $1
		ORDER BY fetched_at DESC
		LIMIT 1
	`, matchKey).Scan(&e.MatchKey, &e.Price, &e.Title, &e.LastUpdated)
	if err != nil {
		return model.PriceEntry{}, err
	}
	return e, nil
}

func (r *PriceHistory) Close() {
	r.DB.Close()
}
