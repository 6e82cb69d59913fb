package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"neon-studio/internal/config"
	"neon-studio/internal/database"

	"github.com/rs/zerolog"
)

// Connects to the order journal configured in the environment, applies the
// schema and prints the most recent orders.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, zerolog.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	rows, err := pool.Query(ctx, `
		SELECT o.id::text, o.status, o.total_price::text, o.created_at, COUNT(i.id)
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		GROUP BY o.id
		ORDER BY o.created_at DESC
		LIMIT 10`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	fmt.Println("\nRecent orders:")
	for rows.Next() {
		var (
			id, status, total string
			createdAt         time.Time
			items             int
		)
		if err := rows.Scan(&id, &status, &total, &createdAt, &items); err != nil {
			fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  - %s %-9s %8s USD  %d item(s)  %s\n", id, status, total, items, createdAt.Format(time.RFC3339))
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Rows failed: %v\n", err)
		os.Exit(1)
	}
}
