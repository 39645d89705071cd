package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Web.Port != 8084 {
		t.Errorf("port = %d, want 8084", cfg.Web.Port)
	}
	if cfg.Messaging.EventsTopic != "mes.production.events" {
		t.Errorf("events topic = %q", cfg.Messaging.EventsTopic)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mescore.yaml")
	yaml := `
web:
  port: 9090
messaging:
  backend: kafka
  kafka:
    brokers: ["broker-1:9092"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Web.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Web.Port)
	}
	if cfg.Messaging.Backend != "kafka" {
		t.Errorf("backend = %q, want kafka", cfg.Messaging.Backend)
	}
	if len(cfg.Messaging.Kafka.Brokers) != 1 || cfg.Messaging.Kafka.Brokers[0] != "broker-1:9092" {
		t.Errorf("brokers = %v", cfg.Messaging.Kafka.Brokers)
	}
	// Untouched keys keep their defaults.
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
}
