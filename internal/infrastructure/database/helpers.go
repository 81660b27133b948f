package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// Ping checks the pool is alive with its own short timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close is idempotent.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	db.Pool.Close()
	db.Pool = nil

	log.Info().Msg("PostgreSQL pool closed")
	return nil
}

// PoolStats is the pool snapshot exposed by /api/health.
type PoolStats struct {
	TotalConns        int32  `json:"total_conns"`
	MaxConns          int32  `json:"max_conns"`
	AcquiredConns     int32  `json:"acquired_conns"`
	IdleConns         int32  `json:"idle_conns"`
	ConstructingConns int32  `json:"constructing_conns"`
	AcquireCount      int64  `json:"acquire_count"`
	EmptyAcquireCount int64  `json:"empty_acquire_count"`
	CanceledAcquires  int64  `json:"canceled_acquire_count"`
	AvgAcquire        string `json:"avg_acquire_duration"`
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:        raw.TotalConns(),
		MaxConns:          raw.MaxConns(),
		AcquiredConns:     raw.AcquiredConns(),
		IdleConns:         raw.IdleConns(),
		ConstructingConns: raw.ConstructingConns(),
		AcquireCount:      raw.AcquireCount(),
		EmptyAcquireCount: raw.EmptyAcquireCount(),
		CanceledAcquires:  raw.CanceledAcquireCount(),
		AvgAcquire:        calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()).String(),
	}, nil
}

func calculateAvgDuration(total time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}
