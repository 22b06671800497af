package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candelacafe/candela-api/pkg/config"
)

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de la app.
// Si está definido DATABASE_URL se usa como DSN completo; si no, se construye
// desde DB_HOST, DB_PORT, etc.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Registrar codec para NUMERIC/DECIMAL -> shopspring/decimal (todas las conexiones del pool).
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// MigrarEsquema crea las tablas si no existen: usuarios (una fila por cuenta)
// y documentos (una fila por tenant con el documento en una columna JSONB).
func MigrarEsquema(ctx context.Context, pool *pgxpool.Pool) error {
	sentencias := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			plan          TEXT NOT NULL DEFAULT 'free',
			plan_vence    TIMESTAMPTZ,
			rol           TEXT NOT NULL DEFAULT 'usuario',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS documentos (
			usuario_id  TEXT PRIMARY KEY REFERENCES usuarios(id),
			datos       JSONB NOT NULL DEFAULT '{}'::jsonb,
			actualizado TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, sql := range sentencias {
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("migrar esquema: %w", err)
		}
	}
	return nil
}
