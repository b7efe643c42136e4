package spreadsheet_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/infrastructure/spreadsheet"
)

func TestWriteTable_LeerDeVuelta(t *testing.T) {
	codec := spreadsheet.NewCodec()
	data, err := codec.WriteTable("Movimentações", []string{"Equipamento", "Quantidade"}, [][]any{
		{"Notebook", 2},
		{"Monitor", 5},
	})
	require.NoError(t, err)

	rows, err := codec.ReadTable(data, "export.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Equipamento", "Quantidade"}, rows[0])
	assert.Equal(t, []string{"Monitor", "5"}, rows[2])
}

func TestWriteTable_EncabezadoEnNegrita(t *testing.T) {
	data, err := spreadsheet.NewCodec().WriteTable("Hoja", []string{"A", "B"}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Hoja"}, f.GetSheetList())

	styleID, err := f.GetCellStyle("Hoja", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestReadTable_CSV(t *testing.T) {
	codec := spreadsheet.NewCodec()

	rows, err := codec.ReadTable([]byte("\xef\xbb\xbfNome;Quantidade\nCabo HDMI;3\n"), "planilha.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Nome", "Quantidade"}, {"Cabo HDMI", "3"}}, rows)

	rows, err = codec.ReadTable([]byte("Nome,Descricao\nMouse,\"sem fio, USB\"\n"), "sem_extensao")
	require.NoError(t, err)
	assert.Equal(t, "sem fio, USB", rows[1][1])
}

func TestReadTable_FormatoNoReconocido(t *testing.T) {
	codec := spreadsheet.NewCodec()

	_, err := codec.ReadTable(nil, "vazio.xlsx")
	assert.True(t, errors.Is(err, domain.ErrUnrecognizedFormat))

	_, err = codec.ReadTable([]byte("PK\x03\x04 no es un zip"), "roto.xlsx")
	assert.True(t, errors.Is(err, domain.ErrUnrecognizedFormat))

	_, err = codec.ReadTable([]byte("a,\"b\nc"), "roto.csv")
	assert.True(t, errors.Is(err, domain.ErrUnrecognizedFormat))
}
