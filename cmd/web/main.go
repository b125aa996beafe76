package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/server"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/gi-tools/growth-atlas/pkg/services/catalog"
	"github.com/gi-tools/growth-atlas/pkg/services/registry"
	"github.com/gi-tools/growth-atlas/pkg/services/report"
	"github.com/gi-tools/growth-atlas/pkg/services/report/fixture"
	"github.com/gi-tools/growth-atlas/pkg/services/report/ga4"
	"github.com/gi-tools/growth-atlas/pkg/store/reportcache"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	profilesPath string
	catalogPath  string
	cachePath    string
	useFixture   bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Growth Atlas",
		RunE:  runServer,
	}

	home, _ := os.UserHomeDir()
	defaultPath := fmt.Sprintf("%s/.gaprofiles", home)

	rootCmd.Flags().StringVarP(&profilesPath, "profiles", "p", defaultPath,
		"Path to the GA property profiles file (default is $HOME/.gaprofiles)")
	rootCmd.Flags().StringVar(&catalogPath, "catalog", "",
		"Path to a catalog file (defaults to the built-in catalog)")
	rootCmd.Flags().StringVar(&cachePath, "cache", "growth-atlas.db",
		"Path to the report cache database (caching disabled when empty)")
	rootCmd.Flags().BoolVar(&useFixture, "fixture", false,
		"Serve deterministic fixture data instead of calling the GA4 API")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CACHE_TTL", "1h")
	viper.AutomaticEnv()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	reg, err := registry.NewRegistry(profilesPath)
	if err != nil {
		return fmt.Errorf("failed to create profile registry: %w", err)
	}

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	factory := report.ClientFactory(ga4.NewClient)
	if useFixture {
		factory = func(_ context.Context, profile domain.PropertyProfile) (report.Client, error) {
			return fixture.NewClient(profile), nil
		}
	}

	if cachePath != "" {
		cache, err := reportcache.NewStore(reportcache.Settings{
			Path: cachePath,
			TTL:  viper.GetDuration("CACHE_TTL"),
		})
		if err != nil {
			return fmt.Errorf("failed to open report cache: %w", err)
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

	svc := analytics.NewService(reg, cat, factory)

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", profilesPath)
	logger.Info().Msgf("Found the following profiles:")
	profiles, _ := reg.GetProfiles(ctx)
	for _, profile := range profiles {
		logger.Info().Msgf("Name: `%s`, Property: `%s`", profile.Name, profile.PropertyID)
	}

	addr := net.JoinHostPort(viper.GetString("SERVER_HOST"), viper.GetString("SERVER_PORT"))

	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Analytics: svc,
		},
	})

	return api.Start()
}
