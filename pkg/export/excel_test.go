package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"date", "country", "sessions", "bounceRate"}, rows[0])
	assert.Equal(t, "Germany", rows[1][1])
	assert.Equal(t, "2025-06-01", rows[1][0])

	// Metric cells are stored as numbers, not shared strings.
	cellType, err := f.GetCellType(sheetName, "C2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.Equal(t, "120", rows[1][2])
}
