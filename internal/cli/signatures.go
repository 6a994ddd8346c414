package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/repo-vetter/internal/signatures"
)

func (a *app) signaturesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signatures",
		Short: "List the proof-of-work algorithms the scanner recognizes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"ID", "Name", "Rules", "Known projects"})

			var data [][]string
			for _, alg := range signatures.Catalog() {
				data = append(data, []string{
					alg.ID,
					alg.Name,
					strconv.Itoa(len(alg.Rules)),
					strings.Join(alg.KnownProjects, ", "),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "\nTemplate markers: %d\n", len(signatures.TemplateMarkers()))
			return err
		},
	}
}
