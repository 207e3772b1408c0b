package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listInactive bool
	areasJSON    bool
)

// areasCmd lists the configured areas.
var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List configured areas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		summaries, err := a.service().Areas(ctx, listInactive)
		if err != nil {
			return err
		}

		if areasJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRELATION\tCOUNTY\tSETTLEMENT\tACTIVE\tREPORTS")
		for _, s := range summaries {
			reports := make([]string, 0, len(s.Reports))
			for _, r := range s.Reports {
				reports = append(reports, string(r))
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%t\t%s\n",
				s.Name, s.OSMRelation, s.RefCounty, s.RefSettlement, s.Active, strings.Join(reports, ","))
		}
		return w.Flush()
	},
}

func init() {
	areasCmd.Flags().BoolVar(&listInactive, "all", false, "Include inactive areas")
	areasCmd.Flags().BoolVar(&areasJSON, "json", false, "Output JSON")
	RootCmd.AddCommand(areasCmd)
}
