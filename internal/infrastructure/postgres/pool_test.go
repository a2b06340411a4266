package postgres

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

func tracerWithClock(buf *bytes.Buffer, steps ...time.Time) *queryTracer {
	tr := newQueryTracer(logger.New(logger.Config{Env: "production", Output: buf}), slowQuery)
	i := 0
	tr.now = func() time.Time {
		t := steps[i]
		i++
		return t
	}
	return tr
}

func TestQueryTracer_RegistraLentasYFallidas(t *testing.T) {
	t0 := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	tr := tracerWithClock(&buf, t0, t0.Add(10*time.Millisecond))
	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	assert.Zero(t, buf.Len(), "consulta rápida y exitosa no se registra")

	buf.Reset()
	tr = tracerWithClock(&buf, t0, t0.Add(time.Second))
	ctx = tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT\n  SUM(quantity)\n FROM inventory_logs"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	assert.Contains(t, buf.String(), "consulta lenta")
	assert.Contains(t, buf.String(), "SELECT SUM(quantity) FROM inventory_logs")

	buf.Reset()
	tr = tracerWithClock(&buf, t0, t0.Add(time.Millisecond))
	ctx = tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "INSERT"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("conexión cerrada")})
	assert.Contains(t, buf.String(), "consulta fallida")

	buf.Reset()
	tr = tracerWithClock(&buf, t0, t0.Add(time.Millisecond))
	ctx = tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: pgx.ErrNoRows})
	assert.Zero(t, buf.Len(), "sin filas no es un fallo")
}

func TestCompactSQL_Recorta(t *testing.T) {
	long := "SELECT " + strings.Repeat("x, ", 100)
	got := compactSQL(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, got, 203)
}
