package export

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteZip(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2025-06-01")
	end, _ := time.Parse("2006-01-02", "2025-06-30")
	r := domain.DateRange{Start: start, End: end}

	var buf bytes.Buffer
	err := WriteZip(&buf, r, []Entry{
		{Name: "traffic", Table: sampleTable()},
		{Name: "devices", Table: sampleTable()},
	})
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)

	assert.Equal(t, "traffic_2025-06-01_2025-06-30.csv", reader.File[0].Name)
	assert.Equal(t, "devices_2025-06-01_2025-06-30.csv", reader.File[1].Name)

	rc, err := reader.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)

	var direct bytes.Buffer
	require.NoError(t, WriteCSV(&direct, sampleTable()))
	assert.Equal(t, direct.String(), string(content))
}

func TestWriteZip_NoEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteZip(&buf, domain.DateRange{}, nil))

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Empty(t, reader.File)
}
