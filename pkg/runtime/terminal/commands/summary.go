package commands

import (
	"fmt"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

type summaryCmd struct {
	factory ServiceFactory
	handler Handler

	profile string
	dataset string
	metrics []string
	ranges  rangeFlags
}

func NewSummaryCmd(factory ServiceFactory, handler Handler) *cobra.Command {
	sc := &summaryCmd{factory: factory, handler: handler}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total the metrics of a dataset over a date range",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.profile, "profile", "", "Property profile name")
	cmd.Flags().StringVar(&sc.dataset, "dataset", "", "Catalog dataset to query")
	cmd.Flags().StringSliceVar(&sc.metrics, "metrics", nil, "Explicit metric list (alternative to --dataset)")
	cmd.Flags().StringVar(&sc.ranges.from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sc.ranges.to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&sc.ranges.days, "days", 30, "Window length when --from is omitted")

	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (sc *summaryCmd) run(cmd *cobra.Command, _ []string) error {
	r, err := sc.ranges.dateRange()
	if err != nil {
		return err
	}

	svc, err := sc.factory(cmd.Context())
	if err != nil {
		return err
	}

	summary, specs, err := svc.Summary(cmd.Context(), analytics.Query{
		Profile: sc.profile,
		Range:   r,
		Dataset: sc.dataset,
		Metrics: sc.metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to summarize: %w", err)
	}

	section := domain.ReportSection{Title: "Totals"}
	for _, spec := range specs {
		t := summary[spec.Name]
		desc := ""
		if t.Approximate {
			desc = "approximate: unweighted mean, no weight column in the report"
		}
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        spec.Name,
			Value:       fmt.Sprintf("%.2f", t.Value),
			Description: desc,
		})
	}

	return sc.handler.Handle(&domain.Report{
		Title:    fmt.Sprintf("KPI Summary (%s)", sc.profile),
		Range:    r,
		Sections: []domain.ReportSection{section},
	})
}
