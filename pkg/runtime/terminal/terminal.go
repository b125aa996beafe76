package terminal

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/runtime/terminal/commands"
	"github.com/gi-tools/growth-atlas/pkg/runtime/terminal/export"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/gi-tools/growth-atlas/pkg/services/catalog"
	"github.com/gi-tools/growth-atlas/pkg/services/registry"
	"github.com/gi-tools/growth-atlas/pkg/services/report"
	"github.com/gi-tools/growth-atlas/pkg/services/report/fixture"
	"github.com/gi-tools/growth-atlas/pkg/services/report/ga4"
	"github.com/gi-tools/growth-atlas/pkg/store/reportcache"
	"github.com/spf13/cobra"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
)

// CLI represents the command-line interface
type CLI struct {
	output  io.Writer
	rootCmd *cobra.Command

	profilesPath string
	catalogPath  string
	cachePath    string
	useFixture   bool
	tableOutput  bool
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		output: opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "growth-atlas",
		Short: "GA4 growth analytics tool",
	}

	cmd.PersistentFlags().StringVar(&cli.profilesPath, "profiles", defaultProfilesPath(),
		"Path to the GA property profiles file")
	cmd.PersistentFlags().StringVar(&cli.catalogPath, "catalog", "",
		"Path to a catalog file (defaults to the built-in catalog)")
	cmd.PersistentFlags().StringVar(&cli.cachePath, "cache", "",
		"Path to a report cache database (caching disabled when empty)")
	cmd.PersistentFlags().BoolVar(&cli.useFixture, "fixture", false,
		"Use the deterministic fixture source instead of the GA4 API")
	cmd.PersistentFlags().BoolVar(&cli.tableOutput, "table", false,
		"Render reports as bordered tables")

	cmd.AddCommand(commands.NewPropertiesCmd(cli.newService))
	cmd.AddCommand(commands.NewQueryCmd(cli.newService))
	cmd.AddCommand(commands.NewSummaryCmd(cli.newService, cli))
	cmd.AddCommand(commands.NewCompareCmd(cli.newService, cli))
	cmd.AddCommand(commands.NewFunnelCmd(cli.newService, cli))
	cmd.AddCommand(commands.NewTopCmd(cli.newService, cli))
	cmd.AddCommand(commands.NewExportCmd(cli.newService))

	return cmd
}

// Handle renders a report with the renderer the --table flag selects.
// Commands invoke it at run time, after flag parsing.
func (cli *CLI) Handle(report *domain.Report) error {
	if cli.tableOutput {
		return export.NewReporter(cli.output).Handle(report)
	}
	return NewReporter(cli.output).Handle(report)
}

// newService assembles the analytics service from the persistent flags.
func (cli *CLI) newService(_ context.Context) (*analytics.Service, error) {
	reg, err := registry.NewRegistry(cli.profilesPath)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cli.catalogPath)
	if err != nil {
		return nil, err
	}

	factory := report.ClientFactory(ga4.NewClient)
	if cli.useFixture {
		factory = func(_ context.Context, profile domain.PropertyProfile) (report.Client, error) {
			return fixture.NewClient(profile), nil
		}
	}

	if cli.cachePath != "" {
		cache, err := reportcache.NewStore(reportcache.Settings{
			Path: cli.cachePath,
			TTL:  time.Hour,
		})
		if err != nil {
			return nil, err
		}
		inner := factory
		factory = func(ctx context.Context, profile domain.PropertyProfile) (report.Client, error) {
			client, err := inner(ctx, profile)
			if err != nil {
				return nil, err
			}
			return report.NewCachedClient(client, cache, profile.Name), nil
		}
	}

	return analytics.NewService(reg, cat, factory), nil
}

func defaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gaprofiles"
	}
	return home + "/.gaprofiles"
}
