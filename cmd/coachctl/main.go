package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/coachkit/coachkit/api"
	"github.com/coachkit/coachkit/broadcast"
	"github.com/coachkit/coachkit/cache"
	"github.com/coachkit/coachkit/internal/config"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "coachctl",
		Short: "Command-line client for the coaching platform",
		Long: `coachctl talks to the coaching platform API with the same
optimistic stores the dashboards use: mutations apply locally first,
roll back on failure, and share one cache across commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		clientsCmd(),
		sessionsCmd(),
		tasksCmd(),
		plansCmd(),
		watchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the coachctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("coachctl %s\n", version)
		},
	}
}

// app bundles the shared collaborators every command needs.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	api   *api.Client
	cache *cache.Memory
	buses *broadcast.Registry
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	// Memory-cached transport so repeated reads within one command reuse
	// conditional responses.
	transport := httpcache.NewMemoryCacheTransport()
	httpClient := &http.Client{Transport: transport, Timeout: cfg.HTTPTimeout}

	opts := []api.Option{
		api.WithBaseURL(cfg.APIBaseURL),
		api.WithHTTPClient(httpClient),
		api.WithLogger(logger),
	}
	if cfg.APIToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken})
		opts = append(opts, api.WithTokenSource(ts))
	}

	return &app{
		cfg:   cfg,
		log:   logger,
		api:   api.New(opts...),
		cache: cache.NewMemory(),
		buses: broadcast.NewRegistry(),
	}, nil
}
