package commands

import (
	"fmt"

	"github.com/gi-tools/growth-atlas/pkg/export"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

type queryCmd struct {
	factory ServiceFactory

	profile    string
	dataset    string
	metrics    []string
	dimensions []string
	ranges     rangeFlags
}

func NewQueryCmd(factory ServiceFactory) *cobra.Command {
	qc := &queryCmd{factory: factory}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a report and print the normalized table as CSV",
		RunE:  qc.run,
	}

	cmd.Flags().StringVar(&qc.profile, "profile", "", "Property profile name")
	cmd.Flags().StringVar(&qc.dataset, "dataset", "", "Catalog dataset to query")
	cmd.Flags().StringSliceVar(&qc.metrics, "metrics", nil, "Explicit metric list (alternative to --dataset)")
	cmd.Flags().StringSliceVar(&qc.dimensions, "dimensions", nil, "Explicit dimension list")
	cmd.Flags().StringVar(&qc.ranges.from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&qc.ranges.to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&qc.ranges.days, "days", 30, "Window length when --from is omitted")

	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (qc *queryCmd) run(cmd *cobra.Command, _ []string) error {
	r, err := qc.ranges.dateRange()
	if err != nil {
		return err
	}

	svc, err := qc.factory(cmd.Context())
	if err != nil {
		return err
	}

	table, err := svc.RunQuery(cmd.Context(), analytics.Query{
		Profile:    qc.profile,
		Range:      r,
		Dataset:    qc.dataset,
		Metrics:    qc.metrics,
		Dimensions: qc.dimensions,
	})
	if err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}

	if err := export.WriteCSV(cmd.OutOrStdout(), table); err != nil {
		return err
	}
	for _, d := range table.Diagnostics {
		cmd.PrintErrf("warning: row %d column %s: unparseable value %q treated as 0\n",
			d.Row, d.Column, d.Raw)
	}
	return nil
}
