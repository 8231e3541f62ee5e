package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogero/stremio-lastvideos/internal"
	"github.com/ogero/stremio-lastvideos/internal/cache"
	"github.com/ogero/stremio-lastvideos/internal/common"
	"github.com/ogero/stremio-lastvideos/internal/config"
	"github.com/ogero/stremio-lastvideos/internal/loki"
	"github.com/ogero/stremio-lastvideos/internal/resolver"
	"github.com/ogero/stremio-lastvideos/pkg/imdb"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "0.1.0"

func main() {

	cfg, err := config.Load()
	if err != nil {
		common.Log.Error("Failed to config.Load", "err", err)
		os.Exit(1)
	}

	shutdownLogger, err := common.InitLogger(cfg.ServiceName, Version, cfg.ServiceEnvironment, cfg.OTLPExporterEndpoint, cfg.LogLevel)
	if err != nil {
		common.Log.Error("Failed to common.InitLogger", "err", err)
		os.Exit(1)
	}

	if cfg.OTLPExporterEndpoint != "" {
		shutdownInstrumentation, err := common.InitInstrumentation(cfg.ServiceName, Version, cfg.ServiceEnvironment, cfg.OTLPExporterEndpoint)
		if err != nil {
			common.Log.Error("Failed to common.InitInstrumentation", "err", err)
			os.Exit(1)
		}
		defer shutdownInstrumentation(context.Background())
	}

	manifest, err := internal.NewAddonManifest(Version)
	if err != nil {
		common.Log.Error("Failed to internal.NewAddonManifest", "err", err)
		os.Exit(1)
	}

	c, err := cache.Open(cfg.CacheDir, cfg.CacheInMemory)
	if err != nil {
		common.Log.Error("Failed to cache.Open", "err", err)
		os.Exit(1)
	}

	catalogResolver, err := resolver.NewFixtureCatalogResolver()
	if err != nil {
		common.Log.Error("Failed to resolver.NewFixtureCatalogResolver", "err", err)
		os.Exit(1)
	}
	if cfg.IMDBLookupEnabled {
		catalogResolver = resolver.NewChainCatalogResolver(
			catalogResolver,
			resolver.NewIMDBCatalogResolver(imdb.NewStalkrIMDB(), c, cfg.IMDBCacheTTL),
		)
	}

	streamResolver, err := resolver.NewFixtureStreamResolver()
	if err != nil {
		common.Log.Error("Failed to resolver.NewFixtureStreamResolver", "err", err)
		os.Exit(1)
	}

	var lokiClient loki.Loki
	if cfg.LokiHost != "" {
		lokiClient = loki.NewLoki(cfg.LokiHost, cfg.ServiceName, internal.LastVideosResolvedLogMessage, internal.StreamsResolvedLogMessage)
	}

	stremioService, err := internal.NewStremioService(manifest, catalogResolver, streamResolver, lokiClient, cfg.StatsWebsocketChannel)
	if err != nil {
		common.Log.Error("Failed to internal.NewStremioService", "err", err)
		os.Exit(1)
	}

	app, err := internal.NewApp(stremioService, manifest)
	if err != nil {
		common.Log.Error("Failed to internal.NewApp", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go stremioService.StartPollingStats(ctx, cfg.StatsPollingInterval)

	srv := &http.Server{
		Addr:    cfg.ServerListenAddr,
		Handler: otelhttp.NewHandler(internal.NewRouter(app), "addon"),
	}
	go func() {
		common.Log.Info("Listening", "addr", cfg.ServerListenAddr)
		common.Log.Info("Install at " + cfg.AddonHost + "/manifest.json")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.Log.Error("Failed to http.Server.ListenAndServe", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.Log.Error("Failed to http.Server.Shutdown", "err", err)
	}

	if err := stremioService.Shutdown(shutdownCtx); err != nil {
		common.Log.Error("Failed to internal.StremioService.Shutdown", "err", err)
	}

	if err := c.Close(); err != nil {
		common.Log.Error("Failed to cache.Close", "err", err)
	}

	common.Log.Info("Bye!")

	_ = shutdownLogger(shutdownCtx)
}
