package workouts

import (
	"errors"
	"time"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// Workout is a single exercise session. ID is assigned by the store on creation.
type Workout struct {
	ID       int       `json:"id"`
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Duration int       `json:"duration"` // minutes
	Notes    *string   `json:"notes"`
}

// NotesText returns the notes, or an empty string when there are none.
func (w Workout) NotesText() string {
	if w.Notes == nil {
		return ""
	}
	return *w.Notes
}

// Day is the UTC calendar day of the workout, used as the chart bucket key.
func (w Workout) Day() string {
	return w.Date.UTC().Format(dayLayout)
}

const dayLayout = "2006-01-02"
