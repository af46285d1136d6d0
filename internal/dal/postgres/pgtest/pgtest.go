// Package pgtest starts a disposable Postgres for repository integration suites.
package pgtest

import (
	"context"
	"fmt"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Start runs a postgres:17-alpine container, migrates it and returns a connected client.
// The caller terminates the container and closes the client.
func Start(ctx context.Context) (testcontainers.Container, *postgres.Client, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:17-alpine",
		tcpostgres.WithDatabase("meatshop"),
		tcpostgres.WithUsername("meatshop"),
		tcpostgres.WithPassword("meatshop"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, fmt.Errorf("container.ConnectionString: %w", err)
	}

	client, err := postgres.NewClient(ctx, connStr, 5*time.Second)
	if err != nil {
		return container, nil, fmt.Errorf("postgres.NewClient: %w", err)
	}

	return container, client, nil
}

// Truncate empties every domain table between tests.
func Truncate(ctx context.Context, client *postgres.Client) error {
	_, err := client.Pool().Exec(ctx,
		"TRUNCATE order_items, orders, product_variants, products, users, outbox RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	return nil
}
