package testing

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

const (
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDBName   = "workouts"
)

// Postgres is a running postgres, either a dockertest container or an external one.
type Postgres struct {
	Host string
	Port string
}

func (p Postgres) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		PostgresUser, PostgresPassword, net.JoinHostPort(p.Host, p.Port), PostgresDBName,
	)
}

func newDockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "could not create new dockertest pool")

	// uses pool to try to connect to Docker
	require.NoError(t, pool.Client.Ping(), "could not ping dockertest pool")
	pool.MaxWait = 2 * time.Minute

	return pool
}

// StartPostgres runs a postgres container for the duration of the test. With POSTGRES_HOST
// set, that server is used instead (e.g. a CI service container), on port 5432.
func StartPostgres(t *testing.T) Postgres {
	t.Helper()

	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		t.Logf("using postgres host: %s", host)
		return Postgres{Host: host, Port: "5432"}
	}

	pool := newDockerPool(t)
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=" + PostgresUser,
			"POSTGRES_PASSWORD=" + PostgresPassword,
			"POSTGRES_DB=" + PostgresDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err, "dockerpool run postgres")
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purge postgres container: %s", err)
		}
	})
	require.NoError(t, resource.Expire(300))

	pg := Postgres{
		Host: "localhost",
		Port: resource.GetPort("5432/tcp"),
	}

	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		conn, err := pgx.Connect(ctx, pg.DatabaseURL())
		if err != nil {
			return err
		}
		defer conn.Close(ctx)
		return conn.Ping(ctx)
	})
	require.NoError(t, err, "postgres never became ready")

	return pg
}

// StartRedis runs a redis container for the duration of the test and returns its port.
func StartRedis(t *testing.T) string {
	t.Helper()

	pool := newDockerPool(t)
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	require.NoError(t, err, "run redis")
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purge redis container: %s", err)
		}
	})

	port := resource.GetPort("6379/tcp")
	err = pool.Retry(func() error {
		rdb := redis.NewClient(&redis.Options{
			Addr: net.JoinHostPort("localhost", port),
		})
		defer rdb.Close()
		return rdb.Ping(context.Background()).Err()
	})
	require.NoError(t, err, "redis never became ready")

	return port
}
