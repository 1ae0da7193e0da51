package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/roboquest/internal/data"
)

// ArchetypeRepository stores base stat rows. It implements data.StatProvider.
type ArchetypeRepository struct {
	pool *pgxpool.Pool
}

// NewArchetypeRepository creates a new archetype repository.
func NewArchetypeRepository(pool *pgxpool.Pool) *ArchetypeRepository {
	return &ArchetypeRepository{pool: pool}
}

// LookupBaseStats loads one row. Missing rows wrap data.ErrStatsNotFound.
func (r *ArchetypeRepository) LookupBaseStats(ctx context.Context, archetypeID string) (data.BaseStats, error) {
	row := data.BaseStats{ArchetypeID: archetypeID}
	err := r.pool.QueryRow(ctx,
		`SELECT base_health, base_damage, exp_reward
		 FROM archetype_stats WHERE archetype_id = $1`, archetypeID,
	).Scan(&row.BaseHealth, &row.BaseDamage, &row.ExpReward)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return data.BaseStats{}, fmt.Errorf("archetype %q: %w", archetypeID, data.ErrStatsNotFound)
		}
		return data.BaseStats{}, fmt.Errorf("loading archetype stats %q: %w", archetypeID, err)
	}
	return row, nil
}

// LoadAll loads every row ordered by id.
func (r *ArchetypeRepository) LoadAll(ctx context.Context) ([]data.BaseStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT archetype_id, base_health, base_damage, exp_reward
		 FROM archetype_stats ORDER BY archetype_id`)
	if err != nil {
		return nil, fmt.Errorf("loading all archetype stats: %w", err)
	}
	defer rows.Close()

	var out []data.BaseStats
	for rows.Next() {
		var s data.BaseStats
		if err := rows.Scan(&s.ArchetypeID, &s.BaseHealth, &s.BaseDamage, &s.ExpReward); err != nil {
			return nil, fmt.Errorf("scanning archetype stats: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating archetype stats: %w", err)
	}
	return out, nil
}

// Upsert inserts or replaces rows in a single transaction.
func (r *ArchetypeRepository) Upsert(ctx context.Context, stats []data.BaseStats) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archetype stats transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	batch := &pgx.Batch{}
	for _, s := range stats {
		batch.Queue(
			`INSERT INTO archetype_stats (archetype_id, base_health, base_damage, exp_reward, updated_at)
			 VALUES ($1, $2, $3, $4, now())
			 ON CONFLICT (archetype_id) DO UPDATE SET
			  base_health=$2, base_damage=$3, exp_reward=$4, updated_at=now()`,
			s.ArchetypeID, s.BaseHealth, s.BaseDamage, s.ExpReward,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for _, s := range stats {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return fmt.Errorf("upserting archetype %q: %w", s.ArchetypeID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close archetype stats batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archetype stats: %w", err)
	}

	slog.Info("archetype stats saved", "rows", len(stats))
	return nil
}

// Snapshot loads every row into an in-memory table.
func (r *ArchetypeRepository) Snapshot(ctx context.Context) (*data.StatTable, error) {
	rows, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return data.NewStatTable(rows...), nil
}
