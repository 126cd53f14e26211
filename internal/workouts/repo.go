package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/workouts/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
)

func (o SortOrder) sql() string {
	if o == OldestFirst {
		return "ASC"
	}
	return "DESC"
}

type ListParams struct {
	Filter
	Order SortOrder
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO workout (date, type, duration, notes)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		workout.Date, workout.Type, workout.Duration, workout.Notes,
	).Scan(&id); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workout.id", id))

	workout.ID = id
	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	workout := &Workout{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, date, type, duration, notes
			FROM workout
			WHERE id = $1;
		`, id).
		Scan(&workout.ID, &workout.Date, &workout.Type, &workout.Duration, &workout.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return workout, nil
}

func (r *Repo) Update(ctx context.Context, workout *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", workout.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout SET date = $1, type = $2, duration = $3, notes = $4 WHERE id = $5;`,
		workout.Date, workout.Type, workout.Duration, workout.Notes, workout.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// List returns the workouts matching params.Filter. Type and query matching is
// case-insensitive substring matching (ILIKE), with LIKE wildcards in the input escaped.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}
	span.SetAttributes(
		attribute.String("q", params.Query),
		attribute.String("type", params.Type),
		attribute.String("order", params.Order.sql()),
	)

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id, date, type, duration, notes
		FROM workout
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date < $2)
		  AND ($3::text = '' OR type ILIKE '%%' || $3 || '%%')
		  AND ($4::text = '' OR type ILIKE '%%' || $4 || '%%' OR notes ILIKE '%%' || $4 || '%%')
		ORDER BY date %s, id %s;
	`, params.Order.sql(), params.Order.sql()),
		params.Since(), params.Before(),
		escapeLike(params.Type), escapeLike(params.Query),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]Workout, 0)
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.Date, &w.Type, &w.Duration, &w.Notes); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}

// TotalDuration sums the minutes of all workouts with from <= date < to.
func (r *Repo) TotalDuration(ctx context.Context, from, to time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.totalduration")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	)

	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration), 0)
		FROM workout
		WHERE date >= $1 AND date < $2;
	`, from, to).Scan(&total); err != nil {
		return 0, err
	}
	return int(total), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
