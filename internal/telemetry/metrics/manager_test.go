package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestManager_WorkoutMutated(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.WorkoutMutated(OpCreate)
	m.WorkoutMutated(OpCreate)
	m.WorkoutMutated(OpDelete)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterWorkoutMutations.WithLabelValues(OpCreate)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CounterWorkoutMutations.WithLabelValues(OpUpdate)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterWorkoutMutations.WithLabelValues(OpDelete)))

	families, err := reg.Gather()
	require.NoError(t, err)
	family := findFamily(families, "backend_test_server_workout_mutations")
	require.NotNil(t, family)
	assert.Equal(t, dto.MetricType_COUNTER, family.GetType())
	assert.Len(t, family.GetMetric(), 3)
}

func TestSetupPrometheus_ExtraCollectors(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workouts_extra_total",
		Help: "test collector",
	})
	extra.Inc()

	reg := SetupPrometheus(extra)
	families, err := reg.Gather()
	require.NoError(t, err)

	family := findFamily(families, "workouts_extra_total")
	require.NotNil(t, family)
	assert.Equal(t, float64(1), family.GetMetric()[0].GetCounter().GetValue())
	assert.NotNil(t, findFamily(families, "go_goroutines"))
}
