package workouts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvDateLayout is ISO 8601 in UTC with millisecond precision
const csvDateLayout = "2006-01-02T15:04:05.000Z"

var csvHeader = []string{"id", "date", "type", "duration", "notes"}

// WriteCSV writes the header and one row per workout, in the given order.
// Fields containing commas, quotes or newlines are quoted, so any standard CSV reader
// gets the original strings back. Missing notes are written as an empty field.
func WriteCSV(w io.Writer, workouts []Workout) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, workout := range workouts {
		if err := cw.Write([]string{
			strconv.Itoa(workout.ID),
			workout.Date.UTC().Format(csvDateLayout),
			workout.Type,
			strconv.Itoa(workout.Duration),
			workout.NotesText(),
		}); err != nil {
			return fmt.Errorf("write csv row for workout %d: %w", workout.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
