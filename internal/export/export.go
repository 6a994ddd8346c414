// Package export renders reports as JSON, CSV, terminal tables and Parquet files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// Format names an output encoding
type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Formats lists every supported format
var Formats = []Format{FormatTable, FormatJSON, FormatCSV, FormatParquet}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q, expected one of %v", s, Formats)
}

// Row is the flattened, fixed-column form of a report.
// Score columns are nil when their section was not selected or failed.
type Row struct {
	Repository         string `parquet:"repository,snappy"`
	Stars              int64  `parquet:"stars,snappy"`
	Forks              int64  `parquet:"forks,snappy"`
	Language           string `parquet:"language,snappy"`
	InnovationScore    int32  `parquet:"innovation_score,snappy"`
	IsFork             bool   `parquet:"is_fork,snappy"`
	OriginalityPercent *int32 `parquet:"originality_percent,optional,snappy"`
	HealthScore        *int32 `parquet:"health_score,optional,snappy"`
	SecurityScore      *int32 `parquet:"security_score,optional,snappy"`
	ContributorCount   *int32 `parquet:"contributor_count,optional,snappy"`
	RedFlagCount       int32  `parquet:"red_flag_count,snappy"`
}

// Header is the column order used by CSV and table output
var Header = []string{
	"repository", "stars", "forks", "language", "innovation_score", "is_fork",
	"originality_percent", "health_score", "security_score", "contributor_count", "red_flag_count",
}

// Flatten converts a report into a row
func Flatten(r *models.Report) Row {
	row := Row{
		Repository:      r.Repository.FullName,
		Stars:           int64(r.Repository.Stars),
		Forks:           int64(r.Repository.Forks),
		Language:        r.Repository.Language,
		InnovationScore: int32(r.InnovationScore),
		IsFork:          r.Repository.IsFork,
		RedFlagCount:    int32(len(r.RedFlags)),
	}
	if r.Originality.OK() {
		row.OriginalityPercent = int32Ptr(r.Originality.Result.OriginalityScore)
	}
	if r.Activity.OK() {
		row.HealthScore = int32Ptr(r.Activity.Result.HealthScore)
		row.ContributorCount = int32Ptr(r.Activity.Result.ContributorCount)
	}
	if r.Security.OK() {
		row.SecurityScore = int32Ptr(r.Security.Result.SecurityScore)
	}
	return row
}

// FlattenAll flattens every report in order
func FlattenAll(reports []*models.Report) []Row {
	rows := make([]Row, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, Flatten(r))
	}
	return rows
}

// Strings renders the row as text cells in Header order; missing scores are empty
func (r Row) Strings() []string {
	return []string{
		r.Repository,
		strconv.FormatInt(r.Stars, 10),
		strconv.FormatInt(r.Forks, 10),
		r.Language,
		strconv.Itoa(int(r.InnovationScore)),
		strconv.FormatBool(r.IsFork),
		optional(r.OriginalityPercent),
		optional(r.HealthScore),
		optional(r.SecurityScore),
		optional(r.ContributorCount),
		strconv.Itoa(int(r.RedFlagCount)),
	}
}

// WriteJSON writes a single report as an object and several as an array
func WriteJSON(w io.Writer, reports []*models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

// Write dispatches on format
func Write(w io.Writer, format Format, reports []*models.Report) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, reports)
	case FormatCSV:
		return WriteCSV(w, reports)
	case FormatParquet:
		return WriteParquet(w, reports)
	default:
		return WriteTable(w, reports)
	}
}

func int32Ptr(v int) *int32 {
	n := int32(v)
	return &n
}

func optional(v *int32) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(int(*v))
}
