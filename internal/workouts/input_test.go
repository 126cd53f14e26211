package workouts

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	in, err := ParseInput(url.Values{
		"date":     {"2024-01-01"},
		"type":     {"Running"},
		"duration": {"45"},
		"notes":    {"hills"},
	})
	require.NoError(t, err)
	assert.Equal(t, Input{
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:     "Running",
		Duration: 45,
		Notes:    strPtr("hills"),
	}, in)
}

func TestParseInput_Dates(t *testing.T) {
	testCases := map[string]time.Time{
		"2024-03-05":                time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		"2024-03-05T18:45":          time.Date(2024, 3, 5, 18, 45, 0, 0, time.UTC),
		"2024-03-05T18:45:10":       time.Date(2024, 3, 5, 18, 45, 10, 0, time.UTC),
		"2024-03-05T18:45:10Z":      time.Date(2024, 3, 5, 18, 45, 10, 0, time.UTC),
		"2024-03-05T18:45:10+02:00": time.Date(2024, 3, 5, 16, 45, 10, 0, time.UTC),
	}

	for value, want := range testCases {
		in, err := ParseInput(url.Values{"date": {value}, "duration": {"10"}})
		require.NoError(t, err, value)
		assert.True(t, want.Equal(in.Date), "%s: got %s", value, in.Date)
	}
}

func TestParseInput_EmptyNotesAreNil(t *testing.T) {
	in, err := ParseInput(url.Values{"date": {"2024-01-01"}, "duration": {"0"}, "notes": {""}})
	require.NoError(t, err)
	assert.Nil(t, in.Notes)
	assert.Zero(t, in.Duration)
}

func TestParseInput_NegativeDuration(t *testing.T) {
	in, err := ParseInput(url.Values{"date": {"2024-01-01"}, "duration": {" -5 "}})
	require.NoError(t, err)
	assert.Equal(t, -5, in.Duration)
}

func TestParseInput_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		form url.Values
	}{
		{name: "missing date", form: url.Values{"duration": {"10"}}},
		{name: "bad date", form: url.Values{"date": {"yesterday"}, "duration": {"10"}}},
		{name: "missing duration", form: url.Values{"date": {"2024-01-01"}}},
		{name: "fractional duration", form: url.Values{"date": {"2024-01-01"}, "duration": {"12.5"}}},
		{name: "text duration", form: url.Values{"date": {"2024-01-01"}, "duration": {"long"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseInput(tc.form)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseInput_DurationOutOfRange(t *testing.T) {
	for _, duration := range []string{"2147483648", "3000000000", "-2147483649"} {
		_, err := ParseInput(url.Values{"date": {"2024-01-01"}, "duration": {duration}})
		require.ErrorIs(t, err, ErrInvalidInput, duration)
		assert.Contains(t, err.Error(), "out of range")
	}

	in, err := ParseInput(url.Values{"date": {"2024-01-01"}, "duration": {"2147483647"}})
	require.NoError(t, err)
	assert.Equal(t, 2147483647, in.Duration)
}

func TestParseInput_EditFormDateRoundTrip(t *testing.T) {
	stored := []time.Time{
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 18, 45, 10, 0, time.UTC),
		time.Date(2024, 3, 5, 18, 45, 10, 250_000_000, time.UTC),
	}
	for _, date := range stored {
		// the edit form pre-fills a datetime-local value in UTC
		value := date.Format("2006-01-02T15:04:05.000")
		in, err := ParseInput(url.Values{"date": {value}, "duration": {"10"}})
		require.NoError(t, err, value)
		assert.True(t, date.Equal(in.Date), "%s: got %s", value, in.Date)
	}

	in, err := ParseInput(url.Values{"date": {"2024-03-05T18:45:10.123456Z"}, "duration": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 18, 45, 10, 123_000_000, time.UTC), in.Date)
}
