package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// WriteParquet writes one row per report using the Row struct schema
func WriteParquet(w io.Writer, reports []*models.Report) error {
	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write(FlattenAll(reports)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
