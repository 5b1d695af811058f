package pgcontainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/talx-hub/loyalty-ledger/internal/model"
)

const (
	defaultTag   = "17"
	pgPort       = "5432/tcp"
	testDBName   = "test"
	testUserName = "test"
	testPassword = "test"
	setupTimeout = 3 * time.Second
)

// PGContainer runs a throwaway PostgreSQL for integration tests.
type PGContainer struct {
	log       *slog.Logger
	pool      *dockertest.Pool
	container *dockertest.Resource
	hostPort  string
}

func New(log *slog.Logger) *PGContainer {
	return &PGContainer{log: log}
}

// imageTag reads POSTGRES_TAG from the environment or a .env file next to
// the tests.
func imageTag() string {
	_ = godotenv.Load(".env")
	if tag := os.Getenv("POSTGRES_TAG"); tag != "" {
		return tag
	}
	return defaultTag
}

func (c *PGContainer) RunContainer() error {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("failed to initialize a docker pool: %w", err)
	}
	c.pool = pool

	c.container, err = pool.RunWithOptions(
		&dockertest.RunOptions{
			Name:       "ledger-integration-tests-" + uuid.NewString()[:8],
			Repository: "postgres",
			Tag:        imageTag(),
			Env: []string{
				"POSTGRES_USER=postgres",
				"POSTGRES_PASSWORD=postgres",
			},
			ExposedPorts: []string{pgPort},
		},
		func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		},
	)
	if err != nil {
		return fmt.Errorf("failed to run postgres container: %w", err)
	}
	c.hostPort = c.container.GetHostPort(pgPort)

	pool.MaxWait = 10 * time.Second
	var conn *pgx.Conn
	if err = pool.Retry(func() error {
		conn, err = c.superUserConnection()
		return err
	}); err != nil {
		return fmt.Errorf("retry failed: %w", err)
	}
	defer func() {
		if err := conn.Close(context.TODO()); err != nil {
			c.log.LogAttrs(context.TODO(), slog.LevelError,
				"failed to close the DB connection",
				slog.Any(model.KeyLoggerError, err))
		}
	}()

	return createTestDB(conn)
}

// GetDSN points at the test database owned by the test user.
func (c *PGContainer) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		testUserName, testPassword, c.hostPort, testDBName)
}

func (c *PGContainer) Close() {
	if c.pool == nil || c.container == nil {
		return
	}
	if err := c.pool.Purge(c.container); err != nil {
		c.log.LogAttrs(context.TODO(), slog.LevelError,
			"failed to purge the postgres container",
			slog.Any(model.KeyLoggerError, err))
	}
}

func (c *PGContainer) superUserConnection() (*pgx.Conn, error) {
	if c.hostPort == "" {
		return nil, errors.New("container is not running")
	}
	dsn := fmt.Sprintf("postgres://postgres:postgres@%s/postgres?sslmode=disable", c.hostPort)
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to get a super user connection: %w", err)
	}
	return conn, nil
}

func createTestDB(conn *pgx.Conn) error {
	const (
		createUser = `CREATE USER %s PASSWORD '%s';`
		createDB   = `CREATE DATABASE %s OWNER %s ENCODING 'UTF8';`
	)

	ctx, cancel1 := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel1()
	if _, err := conn.Exec(ctx, fmt.Sprintf(createUser, testUserName, testPassword)); err != nil {
		return fmt.Errorf("failed to create a test user: %w", err)
	}

	ctx, cancel2 := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel2()
	if _, err := conn.Exec(ctx, fmt.Sprintf(createDB, testDBName, testUserName)); err != nil {
		return fmt.Errorf("failed to create a test DB: %w", err)
	}
	return nil
}
