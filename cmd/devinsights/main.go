package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"DevInsights/internal/app"
	"DevInsights/internal/config"
	"DevInsights/internal/domain"
	"DevInsights/internal/export"
	"DevInsights/internal/logging"
	"DevInsights/internal/usecase"
)

var (
	cfgFile    string
	pages      int
	outputJSON bool
	xlsxPath   string
	every      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "devinsights",
	Short: "GitHub developer insight collector",
	Long: `Searches GitHub for developers matching a term, scrapes their public profiles
with a headless browser and asks a language model for a structured summary of each.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long:  `Serve GET /github-users and GET /health on the configured port.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var collectCmd = &cobra.Command{
	Use:   "collect [term]",
	Short: "Run one collection and print the result",
	Long:  `Run the search, scrape and analyze pipeline once. The term defaults to the configured search term.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCollect,
}

var watchCmd = &cobra.Command{
	Use:   "watch [term]",
	Short: "Run collections on a fixed interval",
	Long:  `Run the pipeline immediately and then every --every until interrupted, rewriting the --xlsx workbook after each run.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $DEVINSIGHTS_CONFIG)")

	for _, cmd := range []*cobra.Command{collectCmd, watchCmd} {
		cmd.Flags().IntVar(&pages, "pages", 0, "search result pages to harvest (default from config)")
		cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the profiles to this XLSX file")
	}
	collectCmd.Flags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	watchCmd.Flags().DurationVar(&every, "every", 24*time.Hour, "interval between runs")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context) (*app.Application, *slog.Logger, error) {
	if cfgFile != "" {
		if err := os.Setenv("DEVINSIGHTS_CONFIG", cfgFile); err != nil {
			return nil, nil, fmt.Errorf("set config path: %w", err)
		}
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(cfg.Logging.Level)
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize application: %w", err)
	}
	return application, logger, nil
}

func queryFromArgs(args []string) usecase.Query {
	q := usecase.Query{Pages: pages}
	if len(args) > 0 {
		q.SearchTerm = args[0]
	}
	return q
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, logger, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	if err := application.Serve(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	return nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, _, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	res, err := application.Collect(ctx, queryFromArgs(args))
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		if err := export.WriteXLSX(xlsxPath, res.Profiles); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return export.WriteJSON(out, res.Profiles)
	}

	export.WriteTable(out, res.Profiles)
	fmt.Fprintf(out, "\n%d profiles, %d analyzed, %d failed in %s\n",
		res.Total, res.Analyzed, res.Failed, res.Elapsed.Round(time.Second))
	if xlsxPath != "" {
		fmt.Fprintf(out, "Workbook written to %s\n", xlsxPath)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, logger, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	sink := func(trigger time.Time, profiles []domain.Profile, runErr error) {
		if runErr != nil {
			logger.Error("scheduled run failed", "trigger", trigger, "error", runErr)
			return
		}

		res := usecase.Summarize(profiles, time.Since(trigger))
		logger.Info("scheduled run finished", "profiles", res.Total, "analyzed", res.Analyzed, "failed", res.Failed)

		if xlsxPath != "" {
			if err := export.WriteXLSX(xlsxPath, profiles); err != nil {
				logger.Error("write workbook", "path", xlsxPath, "error", err)
			}
		}
	}

	return application.Watch(ctx, queryFromArgs(args), every, sink)
}
