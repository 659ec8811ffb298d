package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openmkt/campaign-export/pkg/client"
	"github.com/openmkt/campaign-export/pkg/config"
	"github.com/openmkt/campaign-export/pkg/export"
	"github.com/openmkt/campaign-export/pkg/logging"
	"github.com/openmkt/campaign-export/pkg/ratelimit"
	"github.com/openmkt/campaign-export/pkg/sink"
)

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "config.yaml"), "path to the YAML config file")
	testMode := flag.Bool("test", false, "stop after one page of campaigns")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		bootLogger := logging.Setup(logging.DefaultConfig())
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *testMode {
		cfg.Export.TestMode = true
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Redis is optional: without it, pages are fetched without the
	// response cache.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	apiClient, err := client.New(client.Config{
		BaseURL:  cfg.API.BaseURL,
		APIToken: cfg.API.Token,
		Redis:    redisClient,
		Timeout:  time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create campaign API client")
	}

	errorLog, err := sink.NewFileErrorLog(cfg.Output.ErrorLogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Output.ErrorLogPath).Msg("Failed to open error log")
	}
	defer errorLog.Close()

	exporter, err := export.NewExporter(apiClient, export.DriverConfig{
		BatchSize: cfg.Export.BatchSize,
		TestMode:  cfg.Export.TestMode,
		Filter:    cfg.Export.Filter,
		Limiter:   ratelimit.NewFixedInterval(time.Duration(cfg.Export.RequestIntervalMS) * time.Millisecond),
		Errors:    errorLog,
	}, sink.NewFileResult(cfg.Output.ResultPath), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create exporter")
	}

	logEvent := logger.Info().
		Str("base_url", cfg.API.BaseURL).
		Int("batch_size", cfg.Export.BatchSize).
		Bool("test_mode", cfg.Export.TestMode).
		Bool("filter_enabled", cfg.Export.Filter.Enabled)
	logEvent.Msg("Starting campaign export")

	if _, err := exporter.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Export failed")
		os.Exit(1)
	}

	summary := exporter.Summary()
	logSummary(logger, summary, cfg.Output.ResultPath)
}

func logSummary(logger zerolog.Logger, s export.RunSummary, resultPath string) {
	logger.Info().
		Int("total_fetched", s.TotalFetched).
		Int("total_kept", s.TotalKept).
		Int("total_with_errors", s.TotalWithErrors).
		Float64("duration_seconds", s.DurationSeconds).
		Str("result_path", resultPath).
		Msg("Export complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
