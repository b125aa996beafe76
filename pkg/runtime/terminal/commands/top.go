package commands

import (
	"fmt"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

type topCmd struct {
	factory ServiceFactory
	handler Handler

	profile string
	dataset string
	groupBy string
	metric  string
	n       int
	ranges  rangeFlags
}

func NewTopCmd(factory ServiceFactory, handler Handler) *cobra.Command {
	tc := &topCmd{factory: factory, handler: handler}
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank the largest groups of a dimension by a summed metric",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.profile, "profile", "", "Property profile name")
	cmd.Flags().StringVar(&tc.dataset, "dataset", "traffic", "Catalog dataset to query")
	cmd.Flags().StringVar(&tc.groupBy, "group-by", "", "Dimension to group by")
	cmd.Flags().StringVar(&tc.metric, "metric", "sessions", "Metric to rank by")
	cmd.Flags().IntVar(&tc.n, "n", 10, "Number of groups to keep")
	cmd.Flags().StringVar(&tc.ranges.from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&tc.ranges.to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&tc.ranges.days, "days", 30, "Window length when --from is omitted")

	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("group-by")

	return cmd
}

func (tc *topCmd) run(cmd *cobra.Command, _ []string) error {
	r, err := tc.ranges.dateRange()
	if err != nil {
		return err
	}

	svc, err := tc.factory(cmd.Context())
	if err != nil {
		return err
	}

	groups, err := svc.Top(cmd.Context(),
		analytics.Query{Profile: tc.profile, Range: r, Dataset: tc.dataset},
		tc.groupBy, tc.metric, tc.n)
	if err != nil {
		return fmt.Errorf("failed to rank groups: %w", err)
	}

	section := domain.ReportSection{Title: fmt.Sprintf("Top %d by %s", tc.n, tc.metric)}
	for _, g := range groups {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        fmt.Sprintf("#%d %s", g.Rank, g.Key),
			Value:       fmt.Sprintf("%.0f", g.Value),
			Unit:        tc.metric,
			Description: fmt.Sprintf("grouped by %s", tc.groupBy),
		})
	}

	return tc.handler.Handle(&domain.Report{
		Title:    fmt.Sprintf("Top %s (%s)", tc.groupBy, tc.profile),
		Range:    r,
		Sections: []domain.ReportSection{section},
	})
}
