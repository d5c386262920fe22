package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vocusapp/vocus/internal/domain"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	// The file now exists and is private to the user.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat written config: %v", err)
	}
	if info.Mode().Perm() != domain.SecureFilePermissions {
		t.Fatalf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(domain.SecureFilePermissions))
	}
}

func TestLoadReadsExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("preferences:\n  hybrid_mode: true\n  confidence_threshold: 0.85\n  daily_cloud_limit: 5\nremote:\n  endpoint: https://nlu.example.com/parse\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Preferences.ConfidenceThreshold != 0.85 {
		t.Fatalf("threshold = %v", cfg.Preferences.ConfidenceThreshold)
	}
	if cfg.Preferences.DailyCloudLimit != 5 {
		t.Fatalf("limit = %d", cfg.Preferences.DailyCloudLimit)
	}
	if cfg.Remote.Endpoint != "https://nlu.example.com/parse" {
		t.Fatalf("endpoint = %q", cfg.Remote.Endpoint)
	}
}

func TestLoadHydratesMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("preferences:\n  hybrid_mode: false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Preferences.HybridMode {
		t.Fatal("explicit false must be preserved")
	}
	if cfg.Preferences.ConfidenceThreshold != def.Preferences.ConfidenceThreshold {
		t.Fatalf("threshold = %v, want hydrated default", cfg.Preferences.ConfidenceThreshold)
	}
	if cfg.Voice.DebounceMS != def.Voice.DebounceMS {
		t.Fatalf("debounce = %d, want hydrated default", cfg.Voice.DebounceMS)
	}
	if cfg.Remote.APIKeyEnv != def.Remote.APIKeyEnv {
		t.Fatalf("api key env = %q, want hydrated default", cfg.Remote.APIKeyEnv)
	}
}

func TestPathHonorsEnvOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "elsewhere.yaml")
	t.Setenv("VOCUS_CONFIG", custom)

	if got := NewFileLoader("").Path(); got != custom {
		t.Fatalf("Path = %q, want %q", got, custom)
	}
}
