package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/equipamentos-api/internal/application/transfer"
)

func TestRenderMovementReport_GeneraPDF(t *testing.T) {
	g := NewMarotoReportRenderer("equipamentos-api")
	g.now = func() time.Time { return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC) }

	rows := make([][]string, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, []string{"Notebook Dell", "SN-1", "Entrada", "2", "10/03/2026, 09:00:00", "Ana", ""})
	}
	out, err := g.RenderMovementReport("Relatório de Movimentações", "01/03/2026 a 10/03/2026", transfer.MovementHeaders, rows)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestRenderMovementReport_FilasCortas(t *testing.T) {
	g := NewMarotoReportRenderer("equipamentos-api")
	out, err := g.RenderMovementReport("Relatório", "-", transfer.MovementHeaders, [][]string{{"Monitor"}})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderMovementReport_ColumnasInvalidas(t *testing.T) {
	g := NewMarotoReportRenderer("equipamentos-api")
	_, err := g.RenderMovementReport("Relatório", "-", []string{"Equipamento"}, nil)
	assert.Error(t, err)
}
