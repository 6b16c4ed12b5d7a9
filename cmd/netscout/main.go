// Command netscout runs the NetScout network discovery server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/msptoolkit/netscout/internal/config"
	"github.com/msptoolkit/netscout/internal/discovery"
	"github.com/msptoolkit/netscout/internal/event"
	"github.com/msptoolkit/netscout/internal/registry"
	"github.com/msptoolkit/netscout/internal/server"
	"github.com/msptoolkit/netscout/internal/store"
	"github.com/msptoolkit/netscout/internal/version"
	"github.com/msptoolkit/netscout/internal/ws"
	"github.com/msptoolkit/netscout/pkg/plugin"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default: search ., ./configs, /etc/netscout)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion || (flag.NArg() > 0 && flag.Arg(0) == "version") {
		fmt.Println(version.Info())
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "netscout:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	v, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting netscout",
		zap.String("version", version.Short()),
		zap.String("config", v.ConfigFileUsed()),
	)

	var srvCfg server.Config
	if err := v.UnmarshalKey("server", &srvCfg); err != nil {
		return fmt.Errorf("unmarshal server config: %w", err)
	}

	dbPath := v.GetString("database.path")
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory %q: %w", dir, err)
		}
	}
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	bus := event.NewBus(logger.Named("bus"))
	rootCfg := config.New(v)

	reg := registry.New(logger.Named("registry"))
	if err := reg.Register(discovery.New()); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	depsFn := func(name string) plugin.Dependencies {
		return plugin.Dependencies{
			Config:  rootCfg.Sub("modules." + name),
			Logger:  logger.Named(name),
			Bus:     bus,
			Store:   db,
			Plugins: reg,
		}
	}
	if err := reg.InitAll(ctx, depsFn); err != nil {
		return err
	}
	if err := reg.StartAll(ctx); err != nil {
		return err
	}

	stream := ws.NewHandler(bus, []string{
		discovery.TopicScanStarted,
		discovery.TopicScanProgress,
		discovery.TopicScanCompleted,
		discovery.TopicDeviceFound,
	}, logger.Named("ws"))
	stream.Start()

	ready := func(ctx context.Context) error {
		return db.DB().PingContext(ctx)
	}
	srv := server.New(srvCfg.Addr(), reg, logger.Named("http"), ready, stream)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	stream.Stop()
	reg.StopAll(shutdownCtx)

	logger.Info("netscout stopped")
	return nil
}
