package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sla-pipeline/config"
	"sla-pipeline/filter"
	"sla-pipeline/formatter"
	"sla-pipeline/metrics"
	"sla-pipeline/pipeline"
	"sla-pipeline/server"
)

func main() {
	// Define flags
	dashboard := flag.String("dashboard", "chat", "Dashboard to report on: chat|voice|voice-sales")
	currentDir := flag.String("current", "", "Override the current-period export directory")
	beforeDir := flag.String("before", "", "Override the before-period export directory")
	format := flag.String("format", "text", "Output format: text|json|csv")
	serve := flag.Bool("serve", false, "Serve reports over HTTP instead of printing one")

	periods := flag.String("periods", "", "Comma-separated period filter (Current,Before)")
	skills := flag.String("skills", "", "Comma-separated skill filter")
	campaigns := flag.String("campaigns", "", "Comma-separated campaign filter (chat only)")
	hours := flag.String("hours", "", "Comma-separated hour filter (e.g. 9:00,10:00)")
	weekdays := flag.String("weekdays", "", "Comma-separated weekday filter")
	peaks := flag.String("peak", "", "Comma-separated peak filter (Peak,Off-Peak)")
	from := flag.String("from", "", "Start date, inclusive (YYYY-MM-DD)")
	to := flag.String("to", "", "End date, inclusive (YYYY-MM-DD)")

	metricsAddr := flag.String("metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")

	// Parse command-line flags
	flag.Parse()

	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			log.Info().Str("addr", *metricsAddr).Msg("metrics server listening")
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	registry := pipeline.NewRegistry(cfg, log.Logger)

	if *serve {
		srv := server.New(registry, cfg, log.Logger)
		log.Info().Str("port", cfg.Port).Msg("serving dashboard reports")
		if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
		return
	}

	// Validate format enum
	validFormats := map[string]bool{"text": true, "json": true, "csv": true}
	if !validFormats[*format] {
		fmt.Printf("Error: format must be one of: text, json, csv (got: %s)\n", *format)
		os.Exit(1)
	}

	p, err := registry.Get(*dashboard)
	if err != nil {
		fmt.Printf("Error: dashboard must be one of: %s (got: %s)\n",
			strings.Join(registry.Names(), ", "), *dashboard)
		os.Exit(1)
	}
	if *currentDir != "" {
		p.CurrentDir = *currentDir
	}
	if *beforeDir != "" {
		p.BeforeDir = *beforeDir
	}

	spec := filter.Spec{
		Periods:   splitList(*periods),
		Skills:    splitList(*skills),
		Campaigns: splitList(*campaigns),
		Hours:     splitList(*hours),
		Weekdays:  splitList(*weekdays),
		Peaks:     splitList(*peaks),
	}
	if spec.From, err = parseBound(*from); err != nil {
		fmt.Printf("Error: invalid -from date: %v\n", err)
		os.Exit(1)
	}
	if spec.To, err = parseBound(*to); err != nil {
		fmt.Printf("Error: invalid -to date: %v\n", err)
		os.Exit(1)
	}

	report, err := p.Report(spec)
	if err != nil {
		log.Fatal().Err(err).Str("dashboard", *dashboard).Msg("report failed")
	}

	// Output based on format
	switch *format {
	case "json":
		fmt.Print(formatter.FormatJSON(report))
	case "csv":
		fmt.Print(formatter.FormatCSV(report))
	default: // "text"
		fmt.Print(formatter.FormatText(report))
	}

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		jobName := "sla_pipeline"
		if err := push.New(*pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			fmt.Fprintf(os.Stderr, "Error pushing to Pushgateway: %v\n", err)
		} else {
			fmt.Println("\nMetrics successfully pushed to Pushgateway")
		}
	}

	if *wait && *metricsAddr != "" {
		fmt.Println("\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		// Wait for interrupt signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Println("\nExiting...")
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		// but typically batch jobs should use pushgateway or wait
		time.Sleep(100 * time.Millisecond)
	}
}

// splitList turns a comma-separated flag into an inclusion set; an empty
// flag leaves the dimension unconstrained.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseBound(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
