package export

import (
	"fmt"
	"io"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/klauspost/compress/zip"
)

// Entry is one dataset in a ZIP bundle.
type Entry struct {
	Name  string
	Table *domain.Table
}

// WriteZip bundles several datasets into one deflated archive, each as a
// CSV named <dataset>_<start>_<end>.csv.
func WriteZip(w io.Writer, r domain.DateRange, entries []Entry) error {
	zw := zip.NewWriter(w)

	for _, e := range entries {
		f, err := zw.Create(Filename(e.Name, r, "csv"))
		if err != nil {
			return fmt.Errorf("create zip entry %q: %w", e.Name, err)
		}
		if err := WriteCSV(f, e.Table); err != nil {
			return fmt.Errorf("write zip entry %q: %w", e.Name, err)
		}
	}

	return zw.Close()
}
