package excel

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"nsfgstats/domain/core"
	"nsfgstats/domain/dataset"
	"nsfgstats/internal/errors"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      logrus.FieldLogger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, log logrus.FieldLogger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		log:      log.WithField("component", "DataReader"),
	}
}

// Source returns the file path
func (r *DataReader) Source() string {
	return r.filePath
}

// Load reads the file and converts it to a Frame. It satisfies
// ports.DatasetLoader.
func (r *DataReader) Load(ctx context.Context) (*dataset.Frame, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data.ToFrame()
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.log.WithField("file", r.filePath).Debugf("reading %s file", r.fileType)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(strings.ToUpper(r.fileType) + " file " + r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput("unsupported file type: " + r.fileType)
	}
}

// readExcelData reads the first sheet of a workbook
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	r.log.WithFields(logrus.Fields{
		"sheet":   sheets[0],
		"rows":    len(rows),
		"elapsed": time.Since(startTime).Round(time.Millisecond).String(),
	}).Debug("sheet read")

	if len(rows) < 2 {
		return nil, errors.InvalidInput("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}

	if len(rows) < 2 {
		return nil, errors.InvalidInput("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows splits off the header row and pads short rows with blanks
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		key, err := core.ParseVariableKey(header)
		if err != nil {
			return nil, errors.InvalidInput("column " + strconv.Itoa(i+1) + " has an empty header")
		}
		name := key.String()
		if seen[name] {
			return nil, errors.InvalidInput("duplicate column " + name)
		}
		seen[name] = true
		headers[i] = name
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := 0; j < len(headers) && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		dataRows = append(dataRows, cells)
	}

	r.log.WithFields(logrus.Fields{"columns": len(headers), "rows": len(dataRows)}).
		Infof("%s file processed", strings.ToUpper(r.fileType))

	return &ExcelData{Headers: headers, Rows: dataRows}, nil
}

// ToFrame converts the raw cells to a Frame. A column is numeric when
// every non-missing cell parses as a number; otherwise it stays text.
func (d *ExcelData) ToFrame() (*dataset.Frame, error) {
	frame := dataset.NewFrame()
	for j, name := range d.Headers {
		cells := make([]string, len(d.Rows))
		for i, row := range d.Rows {
			cells[i] = row[j]
		}

		if values, ok := parseNumericColumn(cells); ok {
			if err := frame.SetNumeric(name, values); err != nil {
				return nil, err
			}
			continue
		}
		if err := frame.SetText(name, cells); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

func isMissing(cell string) bool {
	switch strings.ToLower(cell) {
	case "", ".", "na", "nan":
		return true
	}
	return false
}

func parseNumericColumn(cells []string) ([]float64, bool) {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		if isMissing(cell) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
