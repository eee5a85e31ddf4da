package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chambtai-sys/Daily-Briefing-AI/internal/config"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/metrics"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/mixer"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/music"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/pipeline"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/resource"
	"github.com/chambtai-sys/Daily-Briefing-AI/internal/server"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "briefing-audio-service"
	serviceVersion    = "1.0.0"
)

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logging)

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	logger.Info("Configuration loaded",
		slog.Int("http_port", cfg.HTTP.Port),
		slog.String("http_address", cfg.HTTP.Address),
		slog.Int("voice_sample_rate", cfg.Audio.VoiceSampleRate),
		slog.Int("render_sample_rate", cfg.Mix.RenderSampleRate),
		slog.Float64("music_gain", cfg.Mix.MusicGain),
		slog.String("log_level", cfg.Logging.Level),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	store := resource.NewStore()

	synth := music.NewSynthesizer()
	synth.SetFades(cfg.Mix.FadeInSeconds, cfg.Mix.FadeOutSeconds)

	renderer := mixer.NewRenderer(logger, synth, cfg.Mix.RenderSampleRate, cfg.Mix.MusicGain)
	pipe := pipeline.New(logger, store, renderer, cfg.Audio.VoiceSampleRate)
	logger.Info("Mix pipeline initialized",
		slog.Int("render_sample_rate", renderer.SampleRate()),
	)

	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg, logger, pipe, store, appMetrics)
		logger.Info("HTTP API server initialized",
			slog.String("address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
		)

		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...")

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down")
	}

	logger.Info("Starting graceful shutdown...")

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
		}
	}

	released := store.ReleaseAll()
	logger.Info("Final statistics",
		slog.Int("resources_released", released),
	)

	logger.Info("Service stopped")
}

// initLogger creates and configures the structured logger based on configuration.
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
