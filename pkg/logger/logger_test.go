package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

func TestLogger_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	l.Component("ledger").Info().Str("branch_id", "b1").Msg("asiento registrado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "b1", entry["branch_id"])
	assert.Equal(t, "asiento registrado", entry["message"])
}

func TestLogger_NivelFiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("no debe aparecer")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("sí aparece")
	assert.NotZero(t, buf.Len())
}

func TestLogger_NilComponentNoPanic(t *testing.T) {
	var l *logger.Logger
	assert.NotPanics(t, func() { l.Component("x").Info().Msg("descartado") })
}

func TestLogger_BranchYNivelDesconocido(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "WARNING?", Output: &buf})

	l.Component("transfers").Branch("br-7").Info().Msg("nivel por defecto: info")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "br-7", entry["branch_id"])
	assert.Equal(t, "transfers", entry["component"])
	assert.Equal(t, "info", entry["level"])
}
