package integration_testing

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/2beens/workouts/internal"
	"github.com/2beens/workouts/internal/config"
	pkgtesting "github.com/2beens/workouts/pkg/testing"

	"github.com/stretchr/testify/require"
)

const (
	serverHost  = "127.0.0.1"
	serverPort  = 9000
	metricsPort = 9001
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

func getTestConfig(pg pkgtesting.Postgres, redisPort string, rateLimitPerMin int) *config.Config {
	cfg := config.Default()
	cfg.Environment = "test"
	cfg.Host = serverHost
	cfg.Port = serverPort
	cfg.LogLevel = "warn"
	cfg.PrometheusMetricsHost = serverHost
	cfg.PrometheusMetricsPort = strconv.Itoa(metricsPort)
	cfg.DatabaseURL = pg.DatabaseURL()
	cfg.PostgresDBName = pkgtesting.PostgresDBName
	cfg.AutoMigrate = true
	cfg.RedisHost = "localhost"
	cfg.RedisPort = redisPort
	cfg.RateLimitPerMin = rateLimitPerMin
	cfg.WeeklyGoalMinutes = 120
	return cfg
}

// startServer runs the whole service against fresh postgres and redis containers,
// and waits until it reports healthy.
func startServer(t *testing.T, rateLimitPerMin int) *internal.Server {
	t.Helper()

	pg := pkgtesting.StartPostgres(t)
	redisPort := pkgtesting.StartRedis(t)

	cfg := getTestConfig(pg, redisPort, rateLimitPerMin)
	server, err := internal.NewServer(
		t.Context(),
		internal.NewServerParams{
			Config:                  cfg,
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	require.NoError(t, err)

	server.Serve(cfg.Host, cfg.Port)
	t.Cleanup(server.GracefulShutdown)

	require.Eventually(t, func() bool {
		resp, err := http.Get(serverEndpoint + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 20*time.Second, 200*time.Millisecond, "server never became healthy")

	return server
}
