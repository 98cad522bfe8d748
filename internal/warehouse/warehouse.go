// Package warehouse implements sink C1: columnar persistence of every
// published PriceUpdate into Postgres via pgx.
//
// Grounded directly on internal/db/postgres.go's Connect/pgxpool.New/
// Ping wiring and embedded-schema-file InitSchema pattern.
package warehouse

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/listenlabs/swapindexer-engine/pkg/models"
)

type Warehouse struct {
	pool *pgxpool.Pool
}

func Connect(connStr string) (*Warehouse, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to warehouse: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("warehouse ping failed: %v", err)
	}
	log.Println("Successfully connected to PostgreSQL for swap warehouse")
	return &Warehouse{pool: pool}, nil
}

func (w *Warehouse) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

// InitSchema loads and executes the warehouse's schema file, the same
// way the teacher's PostgresStore.InitSchema does for its own schema.
func (w *Warehouse) InitSchema() error {
	schemaBytes, err := os.ReadFile("internal/warehouse/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read warehouse schema file: %v", err)
	}
	if _, err := w.pool.Exec(context.Background(), string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute warehouse schema: %v", err)
	}
	log.Println("Swap warehouse schema initialized")
	return nil
}

// InsertPriceUpdate writes one columnar row per published price
// update.
func (w *Warehouse) InsertPriceUpdate(ctx context.Context, u models.PriceUpdate) error {
	_, err := w.pool.Exec(ctx, `
		INSERT INTO price_update (
			name, pubkey, price, market_cap, timestamp, slot,
			swap_amount, owner, signature, multi_hop, is_buy, is_pump
		) VALUES ($1, $2, $3, $4, to_timestamp($5), $6, $7, $8, $9, $10, $11, $12)
	`, u.Name, u.Pubkey, u.Price, u.MarketCap, u.Timestamp, u.Slot,
		u.SwapAmount, u.Owner, u.Signature, u.MultiHop, u.IsBuy, u.IsPump)
	if err != nil {
		return fmt.Errorf("insert price_update: %w", err)
	}
	return nil
}

func (w *Warehouse) Pool() *pgxpool.Pool { return w.pool }
