package workouts

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Filter narrows down the listed workouts. All set conditions must hold.
type Filter struct {
	// From and To are UTC days, both inclusive.
	From *time.Time
	To   *time.Time
	// Query matches type or notes, case-insensitive substring.
	Query string
	// Type matches type, case-insensitive substring.
	Type string
}

// ParseFilter reads the from, to, q and type query params. Empty params are ignored,
// malformed dates are reported with ErrInvalidInput.
func ParseFilter(query url.Values) (Filter, error) {
	var f Filter

	from, err := parseFilterDay("from", query.Get("from"))
	if err != nil {
		return Filter{}, err
	}
	f.From = from

	to, err := parseFilterDay("to", query.Get("to"))
	if err != nil {
		return Filter{}, err
	}
	f.To = to

	f.Query = strings.TrimSpace(query.Get("q"))
	f.Type = strings.TrimSpace(query.Get("type"))

	return f, nil
}

func parseFilterDay(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(dayLayout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable %s date [%s]", ErrInvalidInput, name, value)
	}
	return &day, nil
}

// Since is the inclusive lower bound, nil when unbounded.
func (f Filter) Since() *time.Time {
	return f.From
}

// Before is the exclusive upper bound (the day after To), nil when unbounded.
func (f Filter) Before() *time.Time {
	if f.To == nil {
		return nil
	}
	before := f.To.AddDate(0, 0, 1)
	return &before
}

// Matches reports whether the workout satisfies the filter. The SQL repo implements
// the same conditions in its query.
func (f Filter) Matches(w Workout) bool {
	if since := f.Since(); since != nil && w.Date.Before(*since) {
		return false
	}
	if before := f.Before(); before != nil && !w.Date.Before(*before) {
		return false
	}
	if f.Type != "" && !containsFold(w.Type, f.Type) {
		return false
	}
	if f.Query != "" && !containsFold(w.Type, f.Query) && !containsFold(w.NotesText(), f.Query) {
		return false
	}
	return true
}

// containsFold compares rune windows with Unicode simple case folding, so
// matches do not depend on strings.ToLower changing byte lengths.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	n := utf8.RuneCountInString(substr)
	runes := []rune(s)
	for i := 0; i+n <= len(runes); i++ {
		if strings.EqualFold(string(runes[i:i+n]), substr) {
			return true
		}
	}
	return false
}
