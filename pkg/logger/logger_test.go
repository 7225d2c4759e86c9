package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/Distribuidores-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONConNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Env: "production", Level: "warn", Name: "api"})

	l.Info().Msg("no debe salir")
	l.Warn().Str("k", "v").Msg("visible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "visible", rec["message"])
	assert.Equal(t, "api", rec["service"])
	assert.Equal(t, "v", rec["k"])
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "debug"})
	c := l.Component("scheduler")
	c.Debug().Msg("tick")
	assert.Contains(t, buf.String(), `"component":"scheduler"`)
}
