// Package config loads the YAML configuration file.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vocusapp/vocus/internal/domain"
)

// FileLoader loads YAML configuration from ~/.vocus/config.yaml
// (overridable via VOCUS_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is replaced with
// written defaults so the first run leaves an editable config behind.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Path returns the config file location this loader reads.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("VOCUS_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".vocus", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// DefaultConfig is the configuration written on first run.
func DefaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences: domain.Preferences{
			HybridMode:           true,
			ConfidenceThreshold:  domain.DefaultConfidenceThreshold,
			DailyCloudLimit:      domain.DefaultDailyCloudLimit,
			AllowDefaultDuration: true,
			DefaultBlockMinutes:  domain.DefaultBlockMinutes,
		},
		Conversation: domain.ConversationSettings{
			TTLMinutes: int(domain.DefaultContextTTL.Minutes()),
		},
		Voice: domain.VoiceSettings{
			DebounceMS: int(domain.DefaultDebounceDelay.Milliseconds()),
			WatchdogMS: int(domain.DefaultWatchdogDelay.Milliseconds()),
		},
		Execution: domain.ExecutionSettings{
			ConfirmBeforeApply: true,
			GraceSeconds:       int(domain.DefaultGracePeriod.Seconds()),
		},
		Remote: domain.RemoteSettings{
			APIKeyEnv:      "VOCUS_API_KEY",
			TimeoutSeconds: int(domain.DefaultRemoteTimeout.Seconds()),
		},
		Notifications: domain.NotificationSettings{
			PermissionGranted: true,
		},
	}
}

// hydrateDefaults backfills fields an older or hand-edited config left out.
func hydrateDefaults(cfg domain.Config) domain.Config {
	def := DefaultConfig()
	if cfg.Preferences.ConfidenceThreshold <= 0 {
		cfg.Preferences.ConfidenceThreshold = def.Preferences.ConfidenceThreshold
	}
	if cfg.Preferences.DailyCloudLimit <= 0 {
		cfg.Preferences.DailyCloudLimit = def.Preferences.DailyCloudLimit
	}
	if cfg.Preferences.DefaultBlockMinutes <= 0 {
		cfg.Preferences.DefaultBlockMinutes = def.Preferences.DefaultBlockMinutes
	}
	if cfg.Conversation.TTLMinutes <= 0 {
		cfg.Conversation.TTLMinutes = def.Conversation.TTLMinutes
	}
	if cfg.Voice.DebounceMS <= 0 {
		cfg.Voice.DebounceMS = def.Voice.DebounceMS
	}
	if cfg.Voice.WatchdogMS <= 0 {
		cfg.Voice.WatchdogMS = def.Voice.WatchdogMS
	}
	if cfg.Execution.GraceSeconds < 0 {
		cfg.Execution.GraceSeconds = def.Execution.GraceSeconds
	}
	if cfg.Remote.TimeoutSeconds <= 0 {
		cfg.Remote.TimeoutSeconds = def.Remote.TimeoutSeconds
	}
	if cfg.Remote.APIKeyEnv == "" {
		cfg.Remote.APIKeyEnv = def.Remote.APIKeyEnv
	}
	return cfg
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return path
}

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
