package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vilaca/treehouse-badges/internal/api"
	"github.com/vilaca/treehouse-badges/internal/api/treehouse"
	"github.com/vilaca/treehouse-badges/internal/config"
	"github.com/vilaca/treehouse-badges/internal/logging"
	"github.com/vilaca/treehouse-badges/internal/report"
	"github.com/vilaca/treehouse-badges/internal/service"
	"github.com/vilaca/treehouse-badges/internal/telemetry"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run reports on every username in args. Per-username failures are printed
// to stderr and do not make run fail.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	profileService := buildService(cfg, logger, metrics, stdout, stderr)

	logger.WithField("usernames", len(args)).Debug("Reporting profiles")
	runErr := profileService.ReportAll(ctx, args)

	if cfg.HasMetricsTextfile() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.WithError(err).Warn("Could not export metrics")
		}
	}

	return runErr
}

// buildService wires up all dependencies and returns the profile service.
// This is the composition root where all dependencies are created and injected.
func buildService(cfg *config.Config, logger *logrus.Logger, metrics *telemetry.Metrics, stdout, stderr io.Writer) *service.ProfileService {
	// No timeout: a hung connection blocks until the server gives up.
	httpClient := &http.Client{}

	client := treehouse.NewClient(api.ClientConfig{
		URLTemplate: cfg.Profile.URLTemplate,
		UserAgent:   cfg.Profile.UserAgent,
	}, httpClient)

	reporter := report.NewReporter(report.ReporterConfig{
		Out:      stdout,
		ErrOut:   stderr,
		Decoder:  report.NewDecoder(cfg.Profile.Category, cfg.MissingPointsPolicy()),
		Renderer: report.NewTextRenderer(),
	})

	return service.NewProfileService(client, reporter, metrics, logger)
}
