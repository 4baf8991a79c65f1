// Command pktsdr runs a chain plan against a captured WAV file and reports
// the decoded packets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/cwsl/pktsdr/internal/chain"
	"github.com/cwsl/pktsdr/internal/chainplan"
	"github.com/cwsl/pktsdr/internal/config"
	"github.com/cwsl/pktsdr/internal/diagnostics"
	"github.com/cwsl/pktsdr/internal/logging"
	"github.com/cwsl/pktsdr/internal/metrics"
	"github.com/cwsl/pktsdr/internal/mqttpub"
	"github.com/cwsl/pktsdr/internal/report"
	"github.com/cwsl/pktsdr/internal/wavio"
)

// Exit codes. 1 marks an unsupported config schema version (this build has
// no interpreter version to mismatch against, so the class is repurposed
// for a schema mismatch instead), 2 a wrong argument count, 3 an unreadable
// run configuration, 4 an unreadable audio file.
const (
	exitUnsupportedVersion = 1
	exitWrongArgs          = 2
	exitBadConfig          = 3
	exitBadAudio           = 4
)

// schemaVersion is this build's run-configuration schema version.
const schemaVersion = "1.0"

func main() {
	configPath := flag.String("config", "pktsdr.yaml", "Path to run configuration file")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "usage: pktsdr [-config path]\n")
		os.Exit(exitWrongArgs)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "pktsdr: %v\n", err)
		os.Exit(err.(exitError).code)
	}
}

// exitError pairs an error with the process exit code it should produce.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return exitError{exitBadConfig, fmt.Errorf("failed to load run configuration: %w", err)}
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := checkSchemaVersion(); err != nil {
		return exitError{exitUnsupportedVersion, err}
	}

	plan, err := chainplan.Load(cfg.Input.ChainPlanPath)
	if err != nil {
		return exitError{exitBadConfig, fmt.Errorf("failed to load chain plan: %w", err)}
	}

	audio, err := wavio.Read(cfg.Input.WAVPath)
	if err != nil {
		return exitError{exitBadAudio, fmt.Errorf("failed to load audio: %w", err)}
	}
	logger.Info("loaded capture", "path", cfg.Input.WAVPath, "sample_rate", audio.SampleRate, "samples", len(audio.Samples))

	if host, err := diagnostics.CaptureHost(); err == nil {
		logger.Debug("host snapshot", "cpu_pct", host.CPUPercent, "mem_used_pct", host.MemUsedPct)
	}

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		collector = metrics.NewCollector()
		if err := collector.Serve(cfg.MetricsAddr); err != nil {
			logger.Warn("metrics server failed to start", "error", err)
		} else {
			logger.Info("metrics server listening", "addr", cfg.MetricsAddr)
		}
	}

	var publisher *mqttpub.Publisher
	if cfg.MQTT.Broker != "" {
		publisher, err = mqttpub.Connect(cfg.MQTT.Broker, cfg.MQTT.Topic, "pktsdr")
		if err != nil {
			logger.Warn("MQTT publisher disabled", "error", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := chain.NewRunner(logger)
	correlationWindow := float64(audio.SampleRate) / cfg.CorrelationWindowDivisor
	result := runner.RunPlan(plan, audio.Samples, float64(audio.SampleRate), correlationWindow)

	logger.Info("run complete",
		"elapsed", result.Elapsed,
		"packets_good", result.Aggregator.CountGood(),
		"packets_bad", result.Aggregator.CountBad(),
	)

	if collector != nil {
		recordMetrics(collector, result)
	}

	if publisher != nil {
		publishUnique(publisher, result, logger)
	}

	if cfg.Output.PrintRawBad {
		report.RawBad(os.Stdout, result.Aggregator)
	}

	style := report.Style(cfg.Output.ReportStyle)
	if err := report.Write(os.Stdout, style, result.Aggregator); err != nil {
		logger.Error("failed to write report", "error", err)
	}

	if cfg.Output.ArchivePath != "" {
		if err := report.WriteArchive(cfg.Output.ArchivePath, result.Aggregator); err != nil {
			logger.Error("failed to write packet archive", "error", err)
		} else {
			logger.Info("wrote packet archive", "path", cfg.Output.ArchivePath)
		}
	}

	if collector != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_ = collector.Shutdown(shutdownCtx)
	}

	return nil
}

// checkSchemaVersion validates this build's run-configuration schema
// version parses as a well-formed semantic version, the same guard the
// chain plan applies per-record against chainplan.SupportedVersions.
func checkSchemaVersion() error {
	if _, err := version.NewVersion(schemaVersion); err != nil {
		return fmt.Errorf("unsupported run configuration schema version %q: %w", schemaVersion, err)
	}
	return nil
}

func recordMetrics(c *metrics.Collector, result chain.Result) {
	for _, batch := range result.Aggregator.RawBatches {
		for _, p := range batch {
			c.PacketsDecoded.WithLabelValues(p.SourceChain).Inc()
			if !p.ValidCRC {
				c.PacketsCRCBad.WithLabelValues(p.SourceChain).Inc()
			}
			if p.BytesCorrected > 0 {
				c.BytesCorrected.WithLabelValues(p.SourceChain).Add(float64(p.BytesCorrected))
				c.RSCorrections.WithLabelValues(p.SourceChain).Observe(float64(p.BytesCorrected))
			}
		}
	}
}

func publishUnique(p *mqttpub.Publisher, result chain.Result, logger interface {
	Warn(msg string, args ...any)
}) {
	for _, pkt := range result.Aggregator.UniquePackets {
		if err := p.Publish(pkt); err != nil {
			logger.Warn("MQTT publish failed", "error", err)
		}
	}
}
