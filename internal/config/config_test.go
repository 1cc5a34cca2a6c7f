package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{
			Provider:   "openai",
			APIKey:     "test-key",
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestValidate_InvalidDimensions(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Dimensions = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding dimensions")
	}
}

func TestValidate_ScoreFloorOutOfRange(t *testing.T) {
	for _, floor := range []float64{-0.1, 1.0, 1.5} {
		cfg := validConfig()
		cfg.Search.ScoreFloor = floor

		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for score_floor=%g", floor)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.SQLite.Path != "pocketmind.db" {
		t.Errorf("expected default sqlite path, got %q", cfg.SQLite.Path)
	}
	if cfg.Index.HNSWM != 32 {
		t.Errorf("expected HNSWM=32, got %d", cfg.Index.HNSWM)
	}
	if cfg.Index.HNSWEFConstruct != 400 {
		t.Errorf("expected HNSWEFConstruct=400, got %d", cfg.Index.HNSWEFConstruct)
	}
	if cfg.Search.AdapterTimeoutSec != 5 {
		t.Errorf("expected AdapterTimeoutSec=5, got %d", cfg.Search.AdapterTimeoutSec)
	}
	if cfg.Search.HistoryTimeoutSec != 2 {
		t.Errorf("expected HistoryTimeoutSec=2, got %d", cfg.Search.HistoryTimeoutSec)
	}
	if cfg.Embedding.CacheTTLHours != 24 {
		t.Errorf("expected CacheTTLHours=24, got %d", cfg.Embedding.CacheTTLHours)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:  DatabaseConfig{ReadinessTimeout: 15},
		SQLite:    SQLiteConfig{Path: "/var/lib/pocketmind/data.db"},
		Index:     IndexConfig{HNSWM: 16, HNSWEFConstruct: 200},
		Search:    SearchConfig{AdapterTimeoutSec: 3, ScoreFloor: 0.2, HistoryTimeoutSec: 1},
		Embedding: EmbeddingConfig{CacheTTLHours: 48},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.SQLite.Path != "/var/lib/pocketmind/data.db" {
		t.Errorf("expected custom sqlite path, got %q", cfg.SQLite.Path)
	}
	if cfg.Index.HNSWM != 16 {
		t.Errorf("expected HNSWM=16, got %d", cfg.Index.HNSWM)
	}
	if cfg.Search.AdapterTimeoutSec != 3 {
		t.Errorf("expected AdapterTimeoutSec=3, got %d", cfg.Search.AdapterTimeoutSec)
	}
	if cfg.Embedding.CacheTTLHours != 48 {
		t.Errorf("expected CacheTTLHours=48, got %d", cfg.Embedding.CacheTTLHours)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("POCKETMIND_TEST_KEY", "secret-value")

	in := []byte("api_key: ${POCKETMIND_TEST_KEY}\nbase_url: ${POCKETMIND_TEST_URL:-https://api.openai.com/v1}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret-value\nbase_url: https://api.openai.com/v1\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	yaml := `
http:
  port: 9090
database:
  addrs:
    - localhost:6379
sqlite:
  path: test.db
embedding:
  provider: openai
  api_key: test-key
  model: text-embedding-3-small
  dimensions: 1536
search:
  score_floor: 0.1
`
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.SQLite.Path != "test.db" {
		t.Errorf("expected sqlite path test.db, got %q", cfg.SQLite.Path)
	}
	if cfg.Search.ScoreFloor != 0.1 {
		t.Errorf("expected score_floor 0.1, got %g", cfg.Search.ScoreFloor)
	}
	// Defaults filled in for fields the file omits.
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected default read timeout, got %d", cfg.HTTP.ReadTimeoutSec)
	}
}
