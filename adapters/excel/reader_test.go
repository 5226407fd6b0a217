package excel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nsfgstats/internal/errors"
	"nsfgstats/internal/logging"
)

const pregCSV = `caseid,Outcome,birthord,totalwgt_lb
1,1,1,8.8125
1,1,2,7.875
2,4,,
6,1,1,NA
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	reader := NewDataReader(writeFile(t, "preg.csv", pregCSV), logging.Discard())

	data, err := reader.ReadData()
	require.NoError(t, err)
	assert.Equal(t, []string{"caseid", "outcome", "birthord", "totalwgt_lb"}, data.Headers)
	assert.Len(t, data.Rows, 4)
	assert.Equal(t, []string{"2", "4", "", ""}, data.Rows[2])
}

func TestLoadInfersColumnKinds(t *testing.T) {
	reader := NewDataReader(writeFile(t, "preg.csv", pregCSV+"x7,1,1,7.5\n"), logging.Discard())

	frame, err := reader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, frame.Len())

	_, err = frame.Column("caseid")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err), "caseid holds x7 so it stays text")

	weights, err := frame.Column("totalwgt_lb")
	require.NoError(t, err)
	assert.Equal(t, 8.8125, weights[0])
	assert.True(t, math.IsNaN(weights[2]))
	assert.True(t, math.IsNaN(weights[3]))
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preg.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"caseid", "prglngth", "birthord"},
		{1, 39, 1},
		{1, 39, 2},
		{2, 40},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	frame, err := NewDataReader(path, logging.Discard()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, frame.Len())

	h, err := frame.Hist("prglngth")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Freq(39))

	birthord, err := frame.Column("birthord")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(birthord[2]))
}

func TestReadDataErrors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.csv"), logging.Discard()).ReadData()
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = NewDataReader(writeFile(t, "header.csv", "a,b\n"), logging.Discard()).ReadData()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = NewDataReader(writeFile(t, "dup.csv", "a,A\n1,2\n"), logging.Discard()).ReadData()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column a")
}
