package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer is a disposable PostgreSQL instance with a connected pool.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

type postgresOptions struct {
	image    string
	database string
	user     string
	password string
}

// PostgresOption customizes the container started by NewPostgresContainer.
type PostgresOption func(*postgresOptions)

// WithPostgresImage overrides the default postgres:16-alpine image.
func WithPostgresImage(image string) PostgresOption {
	return func(o *postgresOptions) { o.image = image }
}

// WithPostgresDatabase overrides the default churn_test database name.
func WithPostgresDatabase(name string) PostgresOption {
	return func(o *postgresOptions) { o.database = name }
}

// NewPostgresContainer starts PostgreSQL and returns once the pool answers a ping.
// Termination is registered with t.Cleanup.
func NewPostgresContainer(ctx context.Context, t *testing.T, opts ...PostgresOption) *PostgresContainer {
	t.Helper()

	o := postgresOptions{
		image:    "postgres:16-alpine",
		database: "churn_test",
		user:     "churn",
		password: "churn",
	}
	for _, opt := range opts {
		opt(&o)
	}

	container, err := postgres.Run(ctx, o.image,
		postgres.WithDatabase(o.database),
		postgres.WithUsername(o.user),
		postgres.WithPassword(o.password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	pc := &PostgresContainer{Container: container}
	t.Cleanup(func() { pc.Cleanup(t) })

	if pc.DSN, err = container.ConnectionString(ctx, "sslmode=disable"); err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	if pc.Pool, err = pgxpool.New(ctx, pc.DSN); err != nil {
		t.Fatalf("create pgxpool: %v", err)
	}
	if err := pc.Pool.Ping(ctx); err != nil {
		t.Fatalf("ping postgres: %v", err)
	}
	return pc
}

// Truncate empties the given tables between test cases.
func (pc *PostgresContainer) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	if len(tables) == 0 {
		return
	}

	ids := make([]string, 0, len(tables))
	for _, table := range tables {
		ids = append(ids, pgx.Identifier{table}.Sanitize())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := pc.Pool.Exec(ctx, "TRUNCATE "+strings.Join(ids, ", ")); err != nil {
		t.Fatalf("truncate %v: %v", tables, err)
	}
}

// Cleanup closes the pool and terminates the container. It is safe to call twice.
func (pc *PostgresContainer) Cleanup(t *testing.T) {
	t.Helper()

	if pc.Pool != nil {
		pc.Pool.Close()
		pc.Pool = nil
	}
	if pc.Container == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pc.Container.Terminate(ctx); err != nil {
		t.Logf("warning: failed to terminate postgres container: %v", err)
	}
	pc.Container = nil
}
