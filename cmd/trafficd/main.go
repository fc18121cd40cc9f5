// Command trafficd analyzes daily junction survey CSV files.
//
// "analyze" runs one file (by date or explicit path) and writes the
// results report and histogram chart. "serve" starts the HTTP service
// with the operational endpoints and the analyze API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/junctionworks/traffic-survey-service/internal/adapter/csvfile"
	httpadapter "github.com/junctionworks/traffic-survey-service/internal/adapter/http"
	kafkaadapter "github.com/junctionworks/traffic-survey-service/internal/adapter/kafka"
	"github.com/junctionworks/traffic-survey-service/internal/config"
	"github.com/junctionworks/traffic-survey-service/internal/domain"
	"github.com/junctionworks/traffic-survey-service/internal/observability"
	"github.com/junctionworks/traffic-survey-service/internal/pipeline"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trafficd",
		Short: "Daily junction traffic survey analyzer",
		Long: `Analyzes daily traffic survey CSV exports from the Elm Avenue/Rabbit Road
and Hanley Highway/Westway junctions, producing a summary report and an
hour-by-junction histogram.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newPipeline builds the pipeline and its optional Kafka publisher from
// the environment config.
func newPipeline(cfg *config.Config) (*pipeline.Pipeline, func()) {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var publisher pipeline.EventPublisher
	cleanup := func() {}
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		cleanup = func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}
		logger.Info("event publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	return pipeline.New(cfg, publisher, logger, metrics), cleanup
}

func analyzeCmd() *cobra.Command {
	var (
		day, month, year int
		input            string
		dataDir          string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one survey file and write the report and chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}

			p, cleanup := newPipeline(cfg)
			defer cleanup()

			path := input
			if path == "" {
				path, err = resolveSurveyFile(cfg.DataDir, day, month, year, cmd)
				if err != nil {
					return err
				}
			}

			summary, err := p.ProcessFile(cmd.Context(), path)
			if err != nil {
				return err
			}

			for _, line := range domain.FormatReport(summary) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport saved to %s, chart saved to %s\n",
				cfg.ReportPath, cfg.ChartPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "survey day (1-31)")
	cmd.Flags().IntVar(&month, "month", 0, "survey month (1-12)")
	cmd.Flags().IntVar(&year, "year", 0, "survey year (2000-2024)")
	cmd.Flags().StringVar(&input, "input", "", "explicit survey file path (overrides date flags)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "survey directory (overrides DATA_DIR)")
	return cmd
}

// resolveSurveyFile finds the survey file for a date, prompting on stdin
// only when several files carry the same date stamp.
func resolveSurveyFile(dataDir string, day, month, year int, cmd *cobra.Command) (string, error) {
	if day == 0 && month == 0 && year == 0 {
		return "", errors.New("either --input or --day/--month/--year is required")
	}

	matches, err := csvfile.FindByDate(dataDir, day, month, year)
	if err != nil {
		return "", err
	}
	sort.Strings(matches)

	if len(matches) == 1 {
		return filepath.Join(dataDir, matches[0]), nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Multiple files match %s:\n", csvfile.DateStamp(day, month, year))
	for i, name := range matches {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%d] %s\n", i+1, name)
	}
	fmt.Fprint(cmd.OutOrStdout(), "Select a file number: ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return "", errors.New("no selection made")
	}
	choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || choice < 1 || choice > len(matches) {
		return "", fmt.Errorf("invalid selection %q", scanner.Text())
	}
	return filepath.Join(dataDir, matches[choice-1]), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
			p, cleanup := newPipeline(cfg)
			defer cleanup()

			srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server error", "error", err)
				}
			}()

			<-ctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}

			logger.Info("shutdown complete")
			return nil
		},
	}
}
