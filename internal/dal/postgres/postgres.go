package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/viper"
)

//go:embed migrations/*.sql
var migrations embed.FS

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
// Begin on a pgx.Tx opens a savepoint.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Client represents a Postgres client.
type Client struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// Pool returns the underlying connection pool.
func (p *Client) Pool() *pgxpool.Pool {
	return p.pool
}

// QueryTimeout is the upper bound applied to a single unit of store work.
func (p *Client) QueryTimeout() time.Duration {
	return p.queryTimeout
}

// Close closes the database connection for graceful shutdown.
func (p *Client) Close() {
	p.pool.Close()
}

// ConnString builds a connection string from the MEATSHOP_PG_* environment variables.
func ConnString() string {
	port := os.Getenv("MEATSHOP_PG_PORT")
	if port == "" {
		port = "5432"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("MEATSHOP_PG_HOST"),
		port,
		os.Getenv("MEATSHOP_PG_USER"),
		os.Getenv("MEATSHOP_PG_PASSWORD"),
		os.Getenv("MEATSHOP_PG_DB"),
	)
}

// NewClient connects to Postgres and applies the embedded migrations.
func NewClient(ctx context.Context, connStr string, queryTimeout time.Duration) (*Client, error) {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()

		return nil, err
	}

	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}

	return &Client{
		pool:         pool,
		queryTimeout: queryTimeout,
	}, nil
}

// MustNewClient creates a new Postgres client from the environment and config.
func MustNewClient() *Client {
	client, err := NewClient(
		context.Background(),
		ConnString(),
		time.Duration(viper.GetInt("postgres.query_timeout_ms"))*time.Millisecond,
	)
	if err != nil {
		panic(err)
	}

	return client
}

// Migrate runs goose migrations from the embedded SQL files.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose.SetDialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	dir := viper.GetString("postgres.migrations_path")
	if dir == "" {
		dir = "migrations"
	}

	if err := goose.UpContext(ctx, db, dir); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return fmt.Errorf("goose.Up: %w", err)
	}

	return nil
}
