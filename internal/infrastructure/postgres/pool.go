package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cafeteria-api/pkg/config"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

// slowQuery umbral a partir del cual una consulta se registra como lenta.
const slowQuery = 500 * time.Millisecond

// NewPool crea el pool PostgreSQL (DATABASE_URL o DB_*), registra el codec NUMERIC ->
// shopspring/decimal en cada conexión y traza consultas lentas o fallidas.
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.Tracer = newQueryTracer(log, slowQuery)

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// queryTracer implementa pgx.QueryTracer: registra errores y consultas que superan el umbral.
type queryTracer struct {
	log       *logger.Logger
	threshold time.Duration
	now       func() time.Time
}

func newQueryTracer(log *logger.Logger, threshold time.Duration) *queryTracer {
	return &queryTracer{log: log.Component("postgres"), threshold: threshold, now: time.Now}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: t.now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(start.at)
	switch {
	case data.Err != nil && !isNoRows(data.Err):
		t.log.Warn().Err(data.Err).Str("sql", compactSQL(start.sql)).Dur("elapsed", elapsed).Msg("consulta fallida")
	case elapsed >= t.threshold:
		t.log.Warn().Str("sql", compactSQL(start.sql)).Dur("elapsed", elapsed).Msg("consulta lenta")
	}
}
