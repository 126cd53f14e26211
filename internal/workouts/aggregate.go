package workouts

import (
	"math"
	"sort"
	"time"
)

// ChartData holds parallel, day-ascending label and summed-minutes slices.
type ChartData struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// DayBuckets sums durations per UTC day. Days without workouts are left out.
func DayBuckets(workouts []Workout) ChartData {
	totals := make(map[string]int)
	for _, w := range workouts {
		totals[w.Day()] += w.Duration
	}

	labels := make([]string, 0, len(totals))
	for day := range totals {
		labels = append(labels, day)
	}
	sort.Strings(labels)

	data := make([]int, len(labels))
	for i, day := range labels {
		data[i] = totals[day]
	}

	return ChartData{
		Labels: labels,
		Data:   data,
	}
}

// WeekBounds returns the start of the ISO week (Monday 00:00) containing now, and the
// start of the next one, both in now's location.
func WeekBounds(now time.Time) (start, end time.Time) {
	sinceMonday := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	start = time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 7)
}

type WeeklyProgress struct {
	Minutes     int
	GoalMinutes int
	Percent     int
	WeekStart   time.Time
	WeekEnd     time.Time
}

// ProgressPercent is minutes/goal as a rounded percentage, clamped to [0, 100].
func ProgressPercent(minutes, goalMinutes int) int {
	if goalMinutes <= 0 {
		return 0
	}
	percent := int(math.Round(float64(minutes) / float64(goalMinutes) * 100))
	return max(0, min(100, percent))
}
