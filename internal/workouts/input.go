package workouts

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Input holds the coerced fields of a create or update form. Update replaces all of them.
type Input struct {
	Date     time.Time
	Type     string
	Duration int
	Notes    *string
}

// accepted date layouts; the ones without a zone are read as UTC
var inputDateLayouts = []string{
	dayLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseInput coerces the submitted form values. Dates and durations that cannot be
// coerced are rejected with ErrInvalidInput instead of being stored as garbage.
func ParseInput(form url.Values) (Input, error) {
	date, err := parseDate(form.Get("date"))
	if err != nil {
		return Input{}, err
	}

	durationStr := strings.TrimSpace(form.Get("duration"))
	// stored as a 32-bit INTEGER
	duration, err := strconv.ParseInt(durationStr, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return Input{}, fmt.Errorf("%w: duration [%s] out of range", ErrInvalidInput, durationStr)
	}
	if err != nil {
		return Input{}, fmt.Errorf("%w: duration [%s] is not a whole number", ErrInvalidInput, durationStr)
	}

	var notes *string
	if n := form.Get("notes"); n != "" {
		notes = &n
	}

	return Input{
		Date:     date,
		Type:     form.Get("type"),
		Duration: int(duration),
		Notes:    notes,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: date is empty", ErrInvalidInput)
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			// the edit form round-trips milliseconds only
			return t.Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date [%s]", ErrInvalidInput, value)
}

func (in Input) workout(id int) Workout {
	return Workout{
		ID:       id,
		Date:     in.Date,
		Type:     in.Type,
		Duration: in.Duration,
		Notes:    in.Notes,
	}
}
