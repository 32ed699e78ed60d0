package config

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/relayfs/relayfs/pkg/driver"
	badgerDriver "github.com/relayfs/relayfs/pkg/driver/badger"
	memoryDriver "github.com/relayfs/relayfs/pkg/driver/memory"
	posixDriver "github.com/relayfs/relayfs/pkg/driver/posix"
	s3Driver "github.com/relayfs/relayfs/pkg/driver/s3"
	"github.com/relayfs/relayfs/pkg/topology"
)

// CreateDrivers constructs every enabled driver from its configuration
// section. The returned set is handed to the driver registry whole.
func CreateDrivers(ctx context.Context, cfg *DriversConfig) ([]driver.Driver, error) {
	drivers := make([]driver.Driver, 0, len(cfg.Enabled))

	for _, name := range cfg.Enabled {
		var (
			d   driver.Driver
			err error
		)

		switch name {
		case "posix":
			d, err = createPosixDriver(cfg.Posix)
		case "memory":
			d = memoryDriver.New()
		case "badger":
			d, err = createBadgerDriver(cfg.Badger)
		case "s3":
			d, err = createS3Driver(ctx, cfg.S3)
		default:
			err = fmt.Errorf("unknown driver type: %q", name)
		}

		if err != nil {
			return nil, fmt.Errorf("driver %q: %w", name, err)
		}
		drivers = append(drivers, d)
	}

	return drivers, nil
}

// CreateTopology builds the topology snapshot from configuration.
func CreateTopology(cfg *TopologyConfig) (*topology.Table, error) {
	peers := make([]topology.Peer, 0, len(cfg.Peers))
	for _, peer := range cfg.Peers {
		peers = append(peers, topology.Peer{Name: peer.Name, Address: peer.Address})
	}
	return topology.NewTable(cfg.Local, peers)
}

func createPosixDriver(options map[string]any) (driver.Driver, error) {
	type PosixDriverConfig struct {
		Root string `mapstructure:"root"`
	}

	var driverCfg PosixDriverConfig
	if err := mapstructure.Decode(options, &driverCfg); err != nil {
		return nil, fmt.Errorf("failed to decode posix driver config: %w", err)
	}

	return posixDriver.New(driverCfg.Root), nil
}

func createBadgerDriver(options map[string]any) (driver.Driver, error) {
	type BadgerDriverConfig struct {
		Path     string `mapstructure:"path"`
		InMemory bool   `mapstructure:"in_memory"`
	}

	var driverCfg BadgerDriverConfig
	if err := mapstructure.Decode(options, &driverCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger driver config: %w", err)
	}

	if driverCfg.Path == "" && !driverCfg.InMemory {
		return nil, fmt.Errorf("path is required")
	}

	return badgerDriver.New(badgerDriver.Options{
		Path:     driverCfg.Path,
		InMemory: driverCfg.InMemory,
	})
}

func createS3Driver(ctx context.Context, options map[string]any) (driver.Driver, error) {
	type S3DriverConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
	}

	var driverCfg S3DriverConfig
	if err := mapstructure.Decode(options, &driverCfg); err != nil {
		return nil, fmt.Errorf("failed to decode s3 driver config: %w", err)
	}

	return s3Driver.New(ctx, s3Driver.Config{
		Region:          driverCfg.Region,
		Bucket:          driverCfg.Bucket,
		KeyPrefix:       driverCfg.KeyPrefix,
		Endpoint:        driverCfg.Endpoint,
		AccessKeyID:     driverCfg.AccessKeyID,
		SecretAccessKey: driverCfg.SecretAccessKey,
	})
}
