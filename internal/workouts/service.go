package workouts

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/2beens/workouts/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=repo_mocks_test.go -package=workouts

type workoutsRepo interface {
	Add(ctx context.Context, workout Workout) (*Workout, error)
	Get(ctx context.Context, id int) (*Workout, error)
	Update(ctx context.Context, workout *Workout) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, params ListParams) ([]Workout, error)
	TotalDuration(ctx context.Context, from, to time.Time) (int, error)
}

// Overview is everything the listing page shows.
type Overview struct {
	Filter       Filter
	Workouts     []Workout
	Chart        ChartData
	TotalMinutes int
	Week         WeeklyProgress
}

type Service struct {
	repo              workoutsRepo
	weeklyGoalMinutes int
	now               func() time.Time
}

func NewService(repo workoutsRepo, weeklyGoalMinutes int) *Service {
	return &Service{
		repo:              repo,
		weeklyGoalMinutes: weeklyGoalMinutes,
		now:               time.Now,
	}
}

// Overview lists the filtered workouts (newest first) with their per-day chart data,
// and the unfiltered progress of the current week against the weekly goal.
func (s *Service) Overview(ctx context.Context, filter Filter) (_ *Overview, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.overview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workouts, err := s.repo.List(ctx, ListParams{
		Filter: filter,
		Order:  NewestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	week, err := s.WeeklyProgress(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, w := range workouts {
		total += w.Duration
	}
	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))

	return &Overview{
		Filter:       filter,
		Workouts:     workouts,
		Chart:        DayBuckets(workouts),
		TotalMinutes: total,
		Week:         week,
	}, nil
}

// WeeklyProgress sums all workouts of the current ISO week, in server local time.
func (s *Service) WeeklyProgress(ctx context.Context) (WeeklyProgress, error) {
	start, end := WeekBounds(s.now())
	minutes, err := s.repo.TotalDuration(ctx, start, end)
	if err != nil {
		return WeeklyProgress{}, fmt.Errorf("total duration of week %s: %w", start.Format(dayLayout), err)
	}

	return WeeklyProgress{
		Minutes:     minutes,
		GoalMinutes: s.weeklyGoalMinutes,
		Percent:     ProgressPercent(minutes, s.weeklyGoalMinutes),
		WeekStart:   start,
		WeekEnd:     end,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get workout %d: %w", id, err)
	}
	return workout, nil
}

func (s *Service) Create(ctx context.Context, in Input) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := s.repo.Add(ctx, in.workout(0))
	if err != nil {
		return nil, fmt.Errorf("add workout: %w", err)
	}
	return workout, nil
}

// Update overwrites date, type, duration and notes of the workout with the given id.
func (s *Service) Update(ctx context.Context, id int, in Input) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout := in.workout(id)
	if err := s.repo.Update(ctx, &workout); err != nil {
		return nil, fmt.Errorf("update workout %d: %w", id, err)
	}
	return &workout, nil
}

func (s *Service) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete workout %d: %w", id, err)
	}
	return nil
}

// Export writes all workouts, oldest first, as CSV. Returns the number of exported rows.
func (s *Service) Export(ctx context.Context, w io.Writer) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.export")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workouts, err := s.repo.List(ctx, ListParams{Order: OldestFirst})
	if err != nil {
		return 0, fmt.Errorf("list workouts: %w", err)
	}

	if err := WriteCSV(w, workouts); err != nil {
		return 0, err
	}
	return len(workouts), nil
}
