package commands

import (
	"fmt"
	"os"

	"github.com/gi-tools/growth-atlas/pkg/export"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

type exportCmd struct {
	factory ServiceFactory

	profile  string
	datasets []string
	format   string
	output   string
	ranges   rangeFlags
}

func NewExportCmd(factory ServiceFactory) *cobra.Command {
	ec := &exportCmd{factory: factory}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export datasets as CSV, XLSX, or a ZIP bundle",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.profile, "profile", "", "Property profile name")
	cmd.Flags().StringSliceVar(&ec.datasets, "datasets", []string{"temporal"}, "Catalog datasets to export")
	cmd.Flags().StringVar(&ec.format, "format", "csv", "Export format: csv, xlsx, or zip")
	cmd.Flags().StringVar(&ec.output, "output", "", "Output file (defaults to the conventional export name)")
	cmd.Flags().StringVar(&ec.ranges.from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ec.ranges.to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&ec.ranges.days, "days", 30, "Window length when --from is omitted")

	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (ec *exportCmd) run(cmd *cobra.Command, _ []string) error {
	r, err := ec.ranges.dateRange()
	if err != nil {
		return err
	}
	if len(ec.datasets) == 0 {
		return fmt.Errorf("--datasets must name at least one dataset")
	}
	if len(ec.datasets) > 1 && ec.format != "zip" {
		return fmt.Errorf("multiple datasets require --format zip")
	}

	svc, err := ec.factory(cmd.Context())
	if err != nil {
		return err
	}

	path := ec.output
	if path == "" {
		name := ec.datasets[0]
		if ec.format == "zip" {
			name = "datasets"
		}
		path = export.Filename(name, r, ec.format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch ec.format {
	case "csv", "xlsx":
		table, err := svc.RunQuery(cmd.Context(), analytics.Query{
			Profile: ec.profile,
			Range:   r,
			Dataset: ec.datasets[0],
		})
		if err != nil {
			return err
		}
		if ec.format == "csv" {
			err = export.WriteCSV(f, table)
		} else {
			err = export.WriteXLSX(f, table)
		}
		if err != nil {
			return err
		}
	case "zip":
		tables, err := svc.Bundle(cmd.Context(), ec.profile, r, ec.datasets)
		if err != nil {
			return err
		}
		entries := make([]export.Entry, 0, len(tables))
		for _, name := range ec.datasets {
			entries = append(entries, export.Entry{Name: name, Table: tables[name]})
		}
		if err := export.WriteZip(f, r, entries); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", ec.format)
	}

	cmd.Printf("wrote %s\n", path)
	return nil
}
