package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EncounterRow is one combat-zone activation.
type EncounterRow struct {
	ID          uuid.UUID
	Zone        string
	TriggerID   uint32
	Spawned     int
	ActivatedAt time.Time
}

// EncounterRepository logs combat-zone activations.
type EncounterRepository struct {
	pool *pgxpool.Pool
}

// NewEncounterRepository creates a new encounter repository.
func NewEncounterRepository(pool *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{pool: pool}
}

// Record inserts an activation. Recording the same id twice is a no-op.
func (r *EncounterRepository) Record(ctx context.Context, e EncounterRow) error {
	if e.ActivatedAt.IsZero() {
		e.ActivatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO encounters (encounter_id, zone, trigger_id, spawned, activated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (encounter_id) DO NOTHING`,
		e.ID.String(), e.Zone, int64(e.TriggerID), e.Spawned, e.ActivatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording encounter %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns the latest activations of a zone, newest first.
func (r *EncounterRepository) Recent(ctx context.Context, zone string, limit int) ([]EncounterRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT encounter_id::text, zone, trigger_id, spawned, activated_at
		 FROM encounters WHERE zone = $1
		 ORDER BY activated_at DESC LIMIT $2`, zone, limit)
	if err != nil {
		return nil, fmt.Errorf("loading encounters for zone %q: %w", zone, err)
	}
	defer rows.Close()

	var out []EncounterRow
	for rows.Next() {
		var (
			id      string
			trigger int64
			row     EncounterRow
		)
		if err := rows.Scan(&id, &row.Zone, &trigger, &row.Spawned, &row.ActivatedAt); err != nil {
			return nil, fmt.Errorf("scanning encounter: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parsing encounter id %q: %w", id, err)
		}
		row.ID = parsed
		row.TriggerID = uint32(trigger)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating encounters: %w", err)
	}
	return out, nil
}
