package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const Schema = `
CREATE TABLE IF NOT EXISTS public.workout
(
    id       SERIAL PRIMARY KEY,
    date     TIMESTAMPTZ NOT NULL,
    type     VARCHAR     NOT NULL,
    duration INTEGER     NOT NULL,
    notes    TEXT
);

CREATE INDEX IF NOT EXISTS ix_workout_date ON public.workout USING btree (date);
`

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Migrate creates the workout table and its index, if missing.
func Migrate(ctx context.Context, db execer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply workouts schema: %w", err)
	}
	return nil
}
