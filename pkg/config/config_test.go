package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relayfs/relayfs/pkg/dispatch"
	"github.com/relayfs/relayfs/pkg/driver"
	"github.com/relayfs/relayfs/pkg/topology"
)

// writeConfig materializes a YAML document in a temp directory and returns
// its path.
func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"topology": map[string]any{"local": "alpha.cluster"},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("expected default level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected default format text, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("expected default output stdout, got %q", cfg.Logging.Output)
	}
	if cfg.Server.ListenAddress != topology.DefaultServiceAddress() {
		t.Errorf("unexpected default listen address %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("unexpected default shutdown timeout %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Topology.DialTimeout != dispatch.DefaultDialTimeout {
		t.Errorf("unexpected default dial timeout %v", cfg.Topology.DialTimeout)
	}
	if cfg.Limits.MaxPathLength != dispatch.DefaultMaxPathLength {
		t.Errorf("unexpected default max path length %d", cfg.Limits.MaxPathLength)
	}
	if len(cfg.Drivers.Enabled) != 1 || cfg.Drivers.Enabled[0] != "posix" {
		t.Errorf("unexpected default drivers %v", cfg.Drivers.Enabled)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"logging": map[string]any{
			"level":  "debug",
			"format": "json",
			"output": "stderr",
		},
		"server": map[string]any{
			"listen_address":   "0.0.0.0:12000",
			"shutdown_timeout": "5s",
		},
		"topology": map[string]any{
			"local":        "alpha.cluster:12000",
			"dial_timeout": "2s",
			"peers": []map[string]any{
				{"name": "beta", "address": "beta.cluster:12000"},
				{"name": "gamma", "address": "gamma.cluster"},
			},
		},
		"limits": map[string]any{"max_path_length": 4096},
		"drivers": map[string]any{
			"enabled": []string{"posix", "Memory"},
			"posix":   map[string]any{"root": "/srv/relayfs"},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("expected normalized level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("unexpected shutdown timeout %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Topology.DialTimeout != 2*time.Second {
		t.Errorf("unexpected dial timeout %v", cfg.Topology.DialTimeout)
	}
	if len(cfg.Topology.Peers) != 2 || cfg.Topology.Peers[0].Name != "beta" {
		t.Errorf("unexpected peers %+v", cfg.Topology.Peers)
	}
	if cfg.Limits.MaxPathLength != 4096 {
		t.Errorf("unexpected max path length %d", cfg.Limits.MaxPathLength)
	}
	if len(cfg.Drivers.Enabled) != 2 || cfg.Drivers.Enabled[1] != "memory" {
		t.Errorf("expected lowercased driver list, got %v", cfg.Drivers.Enabled)
	}
}

func TestLoadFailures(t *testing.T) {
	cases := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{
			name: "MissingLocalIdentity",
			doc:  map[string]any{"logging": map[string]any{"level": "INFO"}},
			want: "Topology.Local",
		},
		{
			name: "UnknownLogLevel",
			doc: map[string]any{
				"logging":  map[string]any{"level": "TRACE"},
				"topology": map[string]any{"local": "alpha.cluster"},
			},
			want: "oneof",
		},
		{
			name: "UnknownDriverType",
			doc: map[string]any{
				"topology": map[string]any{"local": "alpha.cluster"},
				"drivers":  map[string]any{"enabled": []string{"tape"}},
			},
			want: "oneof",
		},
		{
			name: "DuplicatePeerAfterCanonicalization",
			doc: map[string]any{
				"topology": map[string]any{
					"local": "alpha.cluster",
					"peers": []map[string]any{
						{"name": "b1", "address": "beta.cluster:11247"},
						{"name": "b2", "address": "BETA.cluster"},
					},
				},
			},
			want: "duplicate peer",
		},
		{
			name: "DuplicateDriver",
			doc: map[string]any{
				"topology": map[string]any{"local": "alpha.cluster"},
				"drivers":  map[string]any{"enabled": []string{"posix", "posix"}},
			},
			want: "duplicate driver",
		},
		{
			name: "UnparseableLocalIdentity",
			doc: map[string]any{
				"topology": map[string]any{"local": "alpha:notaport"},
			},
			want: "topology.local",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.doc))
			if err == nil {
				t.Fatal("expected Load to fail")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected Load to fail on malformed YAML")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	// The file is allowed to be absent; the resulting defaults-only config
	// still fails validation because the local identity is required.
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected validation failure without a local identity")
	}
	if !strings.Contains(err.Error(), "Topology.Local") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateTopology(t *testing.T) {
	table, err := CreateTopology(&TopologyConfig{
		Local: "alpha.cluster",
		Peers: []PeerConfig{{Name: "beta", Address: "beta.cluster"}},
	})
	if err != nil {
		t.Fatalf("CreateTopology failed: %v", err)
	}

	class, peer := table.Classify("beta.cluster:11247")
	if class != topology.ClassRemote || peer == nil || peer.Name != "beta" {
		t.Errorf("unexpected classification: class=%v peer=%+v", class, peer)
	}
}

func TestCreateDrivers(t *testing.T) {
	drivers, err := CreateDrivers(context.Background(), &DriversConfig{
		Enabled: []string{"posix", "memory", "badger"},
		Posix:   map[string]any{"root": t.TempDir()},
		Badger:  map[string]any{"in_memory": true},
	})
	if err != nil {
		t.Fatalf("CreateDrivers failed: %v", err)
	}

	if len(drivers) != 3 {
		t.Fatalf("expected 3 drivers, got %d", len(drivers))
	}

	types := map[driver.Type]bool{}
	for _, d := range drivers {
		types[d.Type()] = true
	}
	for _, want := range []driver.Type{driver.TypePosix, driver.TypeMemory, driver.TypeBadger} {
		if !types[want] {
			t.Errorf("missing driver type %v", want)
		}
	}
}

func TestCreateBadgerDriverRequiresPath(t *testing.T) {
	_, err := CreateDrivers(context.Background(), &DriversConfig{
		Enabled: []string{"badger"},
	})
	if err == nil {
		t.Fatal("expected error for badger without path")
	}
}
