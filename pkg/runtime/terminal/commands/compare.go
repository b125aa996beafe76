package commands

import (
	"fmt"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

type compareCmd struct {
	factory ServiceFactory
	handler Handler

	profile string
	dataset string
	metrics []string
	ranges  rangeFlags
}

func NewCompareCmd(factory ServiceFactory, handler Handler) *cobra.Command {
	cc := &compareCmd{factory: factory, handler: handler}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a period against the preceding period of equal length",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.profile, "profile", "", "Property profile name")
	cmd.Flags().StringVar(&cc.dataset, "dataset", "", "Catalog dataset to query")
	cmd.Flags().StringSliceVar(&cc.metrics, "metrics", nil, "Explicit metric list (alternative to --dataset)")
	cmd.Flags().StringVar(&cc.ranges.from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cc.ranges.to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&cc.ranges.days, "days", 30, "Window length when --from is omitted")

	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (cc *compareCmd) run(cmd *cobra.Command, _ []string) error {
	r, err := cc.ranges.dateRange()
	if err != nil {
		return err
	}

	svc, err := cc.factory(cmd.Context())
	if err != nil {
		return err
	}

	result, err := svc.Compare(cmd.Context(), analytics.Query{
		Profile: cc.profile,
		Range:   r,
		Dataset: cc.dataset,
		Metrics: cc.metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to compare periods: %w", err)
	}

	section := domain.ReportSection{
		Title: "Period over period",
		Summary: map[string]any{
			"prior period": fmt.Sprintf("%s to %s",
				result.PriorRange.Start.Format("2006-01-02"),
				result.PriorRange.End.Format("2006-01-02")),
		},
	}
	if result.Trend != nil {
		section.Summary["trend"] = string(result.Trend.Direction)
	}

	for _, m := range result.Metrics {
		delta := "n/a"
		if m.DeltaPercent != nil {
			delta = fmt.Sprintf("%+.1f%%", *m.DeltaPercent)
		}
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        m.Metric,
			Value:       fmt.Sprintf("%.2f", m.Current),
			Description: fmt.Sprintf("prior %.2f, change %s", m.Prior, delta),
		})
	}

	return cc.handler.Handle(&domain.Report{
		Title:    fmt.Sprintf("Period Comparison (%s)", cc.profile),
		Range:    r,
		Sections: []domain.ReportSection{section},
	})
}
