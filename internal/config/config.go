package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/corray333/cloud-kitchen/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MustInit loads .env and config.yaml into viper and installs the default logger.
func MustInit() {
	envErr := godotenv.Load("./.env")
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		panic("error while loading .env file: " + envErr.Error())
	}

	SetDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/kitchen")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic("error while reading config file: " + err.Error())
		}
	}
	SetupLogger()

	if envErr != nil {
		slog.Info("No .env file, using process environment")
	}
}

// SetDefaults registers the values used when a key is absent everywhere.
func SetDefaults() {
	viper.SetDefault("server.http.port", 8080)
	viper.SetDefault("server.http.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.http.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("server.http.cors.allowed_headers", []string{"Accept", "Content-Type", "X-Session-ID", "X-Request-Id"})
	viper.SetDefault("server.http.cors.exposed_headers", []string{"X-Session-ID", "X-Trace-ID"})
	viper.SetDefault("server.http.cors.max_age", 300)
	viper.SetDefault("server.shutdown_timeout_seconds", 10)
	viper.SetDefault("server.grpc.port", 9090)
	viper.SetDefault("storage.driver", "postgres")
	viper.SetDefault("postgres.migrations_path", "./migrations/kitchen")
	viper.SetDefault("audit.migrations_path", "./migrations/audit")
	viper.SetDefault("menu.seed_on_start", true)
	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.queue", "kitchen.order.events")
	viper.SetDefault("rabbitmq.consumer_tag", "kitchen-audit")
	viper.SetDefault("rabbitmq.outbox.poll_interval_seconds", 10)
	viper.SetDefault("rabbitmq.outbox.batch_size", 100)
	viper.SetDefault("rabbitmq.inbox.poll_interval_seconds", 10)
	viper.SetDefault("rabbitmq.inbox.batch_size", 100)
	viper.SetDefault("rabbitmq.inbox.max_retries", 5)
	viper.SetDefault("rabbitmq.consumer.concurrency", 50)
	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "http://jaeger:14268/api/traces")
	viper.SetDefault("otel.service_name", "cloud-kitchen")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

func SetupLogger() {
	handler := logger.NewHandler(&logger.Options{
		Level:      viper.GetString("logging.level"),
		Format:     viper.GetString("logging.format"),
		File:       viper.GetString("logging.file"),
		MaxSizeMB:  viper.GetInt("logging.max_size_mb"),
		MaxBackups: viper.GetInt("logging.max_backups"),
		MaxAgeDays: viper.GetInt("logging.max_age_days"),
		Compress:   viper.GetBool("logging.compress"),
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}
