package database

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sonrisa/config"
)

// Pool is the global PostgreSQL connection pool. It stays nil when the
// database is unreachable at startup; the repository layer treats a nil pool
// as its degraded no-op mode and the process keeps serving conversations.
var Pool *pgxpool.Pool

// InitDB initializes the PostgreSQL connection pool. A missing or
// unparseable connection string is fatal; an unreachable server is not.
func InitDB() {
	url := config.EffectiveDatabaseURL()
	if url == "" {
		log.Fatalf("DATABASE_URL is not configured")
	}

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Fatalf("failed to parse database connection string: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Printf("failed to create database pool, running without persistence: %v", err)
		return
	}
	if err := pool.Ping(ctx); err != nil {
		log.Printf("failed to ping PostgreSQL, running without persistence: %v", err)
		pool.Close()
		return
	}

	Pool = pool
	log.Println("Connected to PostgreSQL successfully!")
}

// CloseDB drains the connection pool on shutdown.
func CloseDB() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
