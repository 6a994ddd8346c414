package export

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

var (
	highColor   = color.New(color.FgRed, color.Bold)
	mediumColor = color.New(color.FgYellow)
	lowColor    = color.New(color.FgCyan)
	goodColor   = color.New(color.FgGreen)
)

// SeverityLabel returns the severity name coloured for the terminal
func SeverityLabel(s models.Severity) string {
	switch s {
	case models.SeverityHigh:
		return highColor.Sprint(string(s))
	case models.SeverityMedium:
		return mediumColor.Sprint(string(s))
	default:
		return lowColor.Sprint(string(s))
	}
}

// scoreLabel colours an innovation score by band
func scoreLabel(score int32) string {
	text := fmt.Sprintf("%d", score)
	switch {
	case score >= 70:
		return goodColor.Sprint(text)
	case score >= 40:
		return mediumColor.Sprint(text)
	default:
		return highColor.Sprint(text)
	}
}

// WriteTable prints a summary table of the reports followed by each report's red flags
func WriteTable(w io.Writer, reports []*models.Report) error {
	table := tablewriter.NewWriter(w)
	table.Header(Header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, row := range FlattenAll(reports) {
		cells := row.Strings()
		cells[4] = scoreLabel(row.InnovationScore)
		data = append(data, cells)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, r := range reports {
		if len(r.RedFlags) == 0 {
			continue
		}
		if err := writeFlags(w, r); err != nil {
			return err
		}
	}
	return nil
}

func writeFlags(w io.Writer, r *models.Report) error {
	if _, err := fmt.Fprintf(w, "\nRed flags for %s:\n", r.Repository.FullName); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Severity", "Source", "Message"})

	var data [][]string
	for _, f := range r.RedFlags {
		data = append(data, []string{SeverityLabel(f.Severity), f.Source, f.Message})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
