package commands

import (
	"fmt"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

type funnelCmd struct {
	factory ServiceFactory
	handler Handler

	profile string
	funnel  string
	ranges  rangeFlags
}

func NewFunnelCmd(factory ServiceFactory, handler Handler) *cobra.Command {
	fc := &funnelCmd{factory: factory, handler: handler}
	cmd := &cobra.Command{
		Use:   "funnel",
		Short: "Evaluate a conversion funnel over a date range",
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.profile, "profile", "", "Property profile name")
	cmd.Flags().StringVar(&fc.funnel, "funnel", "acquisition", "Catalog funnel name")
	cmd.Flags().StringVar(&fc.ranges.from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&fc.ranges.to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&fc.ranges.days, "days", 30, "Window length when --from is omitted")

	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (fc *funnelCmd) run(cmd *cobra.Command, _ []string) error {
	r, err := fc.ranges.dateRange()
	if err != nil {
		return err
	}

	svc, err := fc.factory(cmd.Context())
	if err != nil {
		return err
	}

	funnel, err := svc.Funnel(cmd.Context(), analytics.Query{Profile: fc.profile, Range: r}, fc.funnel)
	if err != nil {
		return fmt.Errorf("failed to build funnel: %w", err)
	}

	section := domain.ReportSection{Title: "Stages"}
	for _, s := range funnel.Stages {
		conv := ""
		if s.Conversion != nil {
			conv = fmt.Sprintf("conversion %.1f%%", *s.Conversion*100)
		}
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        s.Name,
			Value:       fmt.Sprintf("%.0f", s.Count),
			Description: conv,
		})
	}
	if len(funnel.Inversions) > 0 {
		section.Summary = map[string]any{
			"inversions": fmt.Sprintf("%v (stage count exceeds the previous stage; check tracking)", funnel.Inversions),
		}
	}

	return fc.handler.Handle(&domain.Report{
		Title:    fmt.Sprintf("Funnel %q (%s)", fc.funnel, fc.profile),
		Range:    r,
		Sections: []domain.ReportSection{section},
	})
}
