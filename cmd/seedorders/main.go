// Command seedorders fills the database with a generated order population and
// the matching customer directory. It replaces whatever is in the tables, so
// it is meant for development and load-testing databases only.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tradewind-labs/orderstore-go/dashboard/config"
	"github.com/tradewind-labs/orderstore-go/orderstore"
	"github.com/tradewind-labs/orderstore-go/orderstore/postgresengine"
)

func main() {
	var (
		count      = flag.Int("count", 2000, "number of orders to generate")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "random seed for the generated population")
		configPath = flag.String("config", "", "optional config file path (environment overrides it)")
	)
	flag.Parse()

	if *count <= 0 {
		log.Fatalf("count must be positive, got %d", *count)
	}

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, cleanup, err := initializeOrderStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create order store: %v", err)
	}
	defer cleanup()

	rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // fixture data, not crypto

	orders := make([]orderstore.Order, 0, *count)
	for serialNumber := int64(1); serialNumber <= int64(*count); serialNumber++ {
		orders = append(orders, orderstore.GenerateRandomOrder(serialNumber, rng))
	}

	if err = store.SeedOrders(ctx, orders); err != nil {
		log.Fatalf("Failed to seed orders: %v", err)
	}

	customers := distinctCustomers(orders)
	if err = store.SeedCustomers(ctx, customers); err != nil {
		log.Fatalf("Failed to seed customers: %v", err)
	}

	log.Printf("Seeded %d orders and %d customers (seed=%d)", len(orders), len(customers), *seed)
}

// initializeOrderStore builds the store on the adapter selected via the
// DB_ADAPTER environment variable (default: pgx).
func initializeOrderStore(ctx context.Context, cfg config.Config) (*postgresengine.OrderStore, func(), error) {
	adapterType := strings.ToLower(os.Getenv("DB_ADAPTER"))
	if adapterType == "" {
		adapterType = "pgx"
	}

	log.Printf("Using database adapter: %s", adapterType)

	switch adapterType {
	case "pgx":
		pool, err := config.NewPGXPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pinging database: %w", err)
		}

		store, err := postgresengine.NewOrderStoreFromPGXPool(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store, pool.Close, nil

	case "sql", "sql.db":
		db, err := config.NewSQLDB(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewOrderStoreFromSQLDB(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case "sqlx":
		db, err := config.NewSQLX(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewOrderStoreFromSQLX(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown database adapter: %s (supported: pgx, sql, sqlx)", adapterType)
	}
}

// distinctCustomers collects the unique customer names appearing in the
// generated population, sorted for a stable directory.
func distinctCustomers(orders []orderstore.Order) []string {
	seen := make(map[string]struct{})

	for _, order := range orders {
		seen[order.Customer] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
