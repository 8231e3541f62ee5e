package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the addon settings, read from the environment.
type Config struct {
	// AddonHost is the public (external) base URL where the addon is accessible.
	AddonHost string `env:"ADDON_HOST" envDefault:"http://127.0.0.1:3593"`
	// ServerListenAddr specifies the network address that the HTTP server will listen on.
	ServerListenAddr string `env:"SERVER_LISTEN_ADDR" envDefault:":3593"`

	ServiceName        string `env:"SERVICE_NAME" envDefault:"stremio-lastvideos"`
	ServiceEnvironment string `env:"SERVICE_ENVIRONMENT" envDefault:"lcl"`
	// OTLPExporterEndpoint is the OTLP grpc collector; logs go only to stdout and no telemetry is exported when empty.
	OTLPExporterEndpoint string     `env:"OTLP_EXPORTER_ENDPOINT"`
	LogLevel             slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	CacheDir      string `env:"CACHE_DIR" envDefault:".cache"`
	CacheInMemory bool   `env:"CACHE_IN_MEMORY" envDefault:"false"`

	// IMDBLookupEnabled makes the catalog fall back to IMDb for identifiers missing from the fixtures.
	IMDBLookupEnabled bool          `env:"IMDB_LOOKUP_ENABLED" envDefault:"false"`
	IMDBCacheTTL      time.Duration `env:"IMDB_CACHE_TTL" envDefault:"48h"`

	LokiHost              string        `env:"LOKI_HOST"`
	StatsWebsocketChannel string        `env:"STATS_WEBSOCKET_CHANNEL" envDefault:"stats"`
	StatsPollingInterval  time.Duration `env:"STATS_POLLING_INTERVAL" envDefault:"5m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to env.Parse: %w", err)
	}

	u, err := url.Parse(cfg.AddonHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ADDON_HOST: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ADDON_HOST %q, scheme and host are required", cfg.AddonHost)
	}
	cfg.AddonHost = fmt.Sprintf("%s://%s", u.Scheme, u.Host)

	return cfg, nil
}
