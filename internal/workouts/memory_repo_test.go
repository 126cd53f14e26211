package workouts

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// memoryRepo mimics Repo with a slice, applying the filter with Filter.Matches.
type memoryRepo struct {
	mutex    sync.Mutex
	lastID   int
	workouts map[int]Workout
	err      error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		workouts: make(map[int]Workout),
	}
}

var errStoreDown = errors.New("store down")

func (r *memoryRepo) Add(_ context.Context, workout Workout) (*Workout, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	r.lastID++
	workout.ID = r.lastID
	r.workouts[workout.ID] = workout
	return &workout, nil
}

func (r *memoryRepo) Get(_ context.Context, id int) (*Workout, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	workout, ok := r.workouts[id]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	return &workout, nil
}

func (r *memoryRepo) Update(_ context.Context, workout *Workout) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return r.err
	}

	if _, ok := r.workouts[workout.ID]; !ok {
		return ErrWorkoutNotFound
	}
	r.workouts[workout.ID] = *workout
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return r.err
	}

	if _, ok := r.workouts[id]; !ok {
		return ErrWorkoutNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *memoryRepo) List(_ context.Context, params ListParams) ([]Workout, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	workouts := make([]Workout, 0)
	for _, w := range r.workouts {
		if params.Matches(w) {
			workouts = append(workouts, w)
		}
	}
	sort.Slice(workouts, func(i, j int) bool {
		a, b := workouts[i], workouts[j]
		if !a.Date.Equal(b.Date) {
			if params.Order == OldestFirst {
				return a.Date.Before(b.Date)
			}
			return a.Date.After(b.Date)
		}
		if params.Order == OldestFirst {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	return workouts, nil
}

func (r *memoryRepo) TotalDuration(_ context.Context, from, to time.Time) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return 0, r.err
	}

	total := 0
	for _, w := range r.workouts {
		if !w.Date.Before(from) && w.Date.Before(to) {
			total += w.Duration
		}
	}
	return total, nil
}
