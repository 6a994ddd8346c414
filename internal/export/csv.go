package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// WriteCSV writes a header line followed by one row per report
func WriteCSV(w io.Writer, reports []*models.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, row := range FlattenAll(reports) {
		if err := cw.Write(row.Strings()); err != nil {
			return fmt.Errorf("error writing CSV row for %s: %w", row.Repository, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
