package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/corray333/backend-labs/meatshop/internal/config"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/seed"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/identitysvc"
)

func main() {
	config.MustInit()

	postgresClient := postgres.MustNewClient()
	defer postgresClient.Close()

	catalog := catalogsvc.MustNewCatalogService(catalogsvc.WithPostgresClient(postgresClient))
	// The session returned by CreateAdmin is discarded.
	identity := identitysvc.MustNewIdentityService(
		identitysvc.WithPostgresClient(postgresClient),
		identitysvc.WithTokenIssuer(identitysvc.NewTokenIssuer("seed", 0)),
	)

	result, err := seed.Run(context.Background(), catalog, identity)
	if err != nil {
		slog.Error("Seeding failed", "error", err)
		postgresClient.Close()
		os.Exit(1)
	}

	slog.Info("Database seeding completed", "products", result.Products, "admin_created", result.AdminCreated)
}
