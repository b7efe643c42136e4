package transfer

// TableReader decodifica la primera hoja de un archivo tabular (xlsx o csv) en filas de celdas.
// La primera fila es el encabezado.
type TableReader interface {
	ReadTable(data []byte, filename string) ([][]string, error)
}

// TableWriter genera un libro con una sola hoja.
type TableWriter interface {
	WriteTable(sheet string, headers []string, rows [][]any) ([]byte, error)
}

// ReportRenderer genera el informe PDF de movimentações.
type ReportRenderer interface {
	RenderMovementReport(title, period string, headers []string, rows [][]string) ([]byte, error)
}
