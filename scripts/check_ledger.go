//go:build ignore

// Command check_ledger verifies the recovery ledger is reachable and migrated,
// then prints how many subscription failures still need attention.
//
//	go run ./scripts/check_ledger.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	if err := repository.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var total, unresolved int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE resolved_at IS NULL) FROM subscription_failures`,
	).Scan(&total, &unresolved)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Ledger %s is up to date: %d failures recorded, %d unresolved\n", cfg.Database.Database, total, unresolved)
}
