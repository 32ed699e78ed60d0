package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relayfs/relayfs/internal/logger"
	"github.com/relayfs/relayfs/internal/server"
	"github.com/relayfs/relayfs/pkg/config"
	"github.com/relayfs/relayfs/pkg/dispatch"
	"github.com/relayfs/relayfs/pkg/driver"
	"github.com/relayfs/relayfs/pkg/topology"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("relayfs: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		return err
	}

	table, err := config.CreateTopology(&cfg.Topology)
	if err != nil {
		return fmt.Errorf("build topology: %w", err)
	}
	resolver := topology.NewResolver(table)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	drivers, err := config.CreateDrivers(ctx, &cfg.Drivers)
	if err != nil {
		return fmt.Errorf("create drivers: %w", err)
	}

	registry := driver.NewRegistry()
	if err := registry.Replace(drivers); err != nil {
		return fmt.Errorf("register drivers: %w", err)
	}

	redirector := dispatch.NewRedirector(cfg.Topology.DialTimeout)
	dispatcher := dispatch.New(resolver, registry, redirector, cfg.Limits.MaxPathLength)

	logger.Info("starting relayfs: identity=%s peers=%d drivers=%v",
		resolver.Local(), len(cfg.Topology.Peers), cfg.Drivers.Enabled)

	srv := server.New(cfg.Server.ListenAddress, dispatcher)
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("relayfs stopped")
	return nil
}
