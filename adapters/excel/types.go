package excel

// ExcelData represents a whole sheet or CSV file as raw cells
type ExcelData struct {
	Headers []string   // Column headers, lower-cased
	Rows    [][]string // Data rows, one cell per header
}
