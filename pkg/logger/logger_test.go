package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/equipamentos-api/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "equipamentos-api", Out: &buf})

	log.Component("import").Info().Int("line", 3).Msg("fila importada")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "equipamentos-api", ev["service"])
	assert.Equal(t, "import", ev["component"])
	assert.Equal(t, float64(3), ev["line"])
	assert.Equal(t, "info", ev["level"])
}

func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "WARN", Out: &buf})

	log.Info().Msg("oculto")
	log.Debug().Msg("oculto")
	log.Warn().Msg("visible")

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verbose", Out: &buf})

	log.Debug().Msg("oculto")
	log.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "oculto")
}

func TestNop_NoEscribe(t *testing.T) {
	log := logger.Nop()
	log.Error().Msg("nada")
}
