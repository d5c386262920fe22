package domain

// Config mirrors ~/.vocus/config.yaml.
type Config struct {
	ConfigFormatVersion string               `yaml:"config_format_version"`
	Preferences         Preferences          `yaml:"preferences"`
	Conversation        ConversationSettings `yaml:"conversation"`
	Voice               VoiceSettings        `yaml:"voice"`
	Execution           ExecutionSettings    `yaml:"execution"`
	Remote              RemoteSettings       `yaml:"remote"`
	Classifier          ClassifierSettings   `yaml:"classifier"`
	Notifications       NotificationSettings `yaml:"notifications"`
}

// Preferences captures user-level toggles for the parsing pipeline.
type Preferences struct {
	HybridMode           bool    `yaml:"hybrid_mode"`
	ConfidenceThreshold  float64 `yaml:"confidence_threshold"`
	DailyCloudLimit      int     `yaml:"daily_cloud_limit"`
	AllowDefaultDuration bool    `yaml:"allow_default_duration"`
	DefaultBlockMinutes  int     `yaml:"default_block_minutes"`
	Premium              bool    `yaml:"premium"`
}

// ConversationSettings bounds the follow-up context memory.
type ConversationSettings struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

// VoiceSettings tunes the speech-input session.
type VoiceSettings struct {
	DebounceMS int `yaml:"debounce_ms"`
	WatchdogMS int `yaml:"watchdog_ms"`
}

// ExecutionSettings controls the confirm/apply contract.
type ExecutionSettings struct {
	ConfirmBeforeApply bool `yaml:"confirm_before_apply"`
	GraceSeconds       int  `yaml:"grace_seconds"`
}

// RemoteSettings configures the remote NLU provider.
type RemoteSettings struct {
	Endpoint       string `yaml:"endpoint"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// ClassifierSettings points at the keyword rules file.
type ClassifierSettings struct {
	RulesFile string `yaml:"rules_file"`
}

// NotificationSettings stands in for the OS notification permission state.
type NotificationSettings struct {
	PermissionGranted bool `yaml:"permission_granted"`
}
