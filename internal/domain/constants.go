package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Pipeline defaults
const (
	// DefaultConfidenceThreshold gates local-vs-remote routing; a local
	// parse at or above it is used without consulting the remote parser.
	DefaultConfidenceThreshold = 0.7
	// DefaultParserConfidence is assumed when a parser returns no score.
	DefaultParserConfidence = 0.6
	// DefaultBlockMinutes backfills a missing duration on typed commands.
	DefaultBlockMinutes = 30
	// DefaultDailyCloudLimit caps remote parses per day for free users.
	DefaultDailyCloudLimit = 10
)

// Timing defaults
const (
	// DefaultContextTTL is how long the conversation context stays live.
	DefaultContextTTL = 5 * time.Minute
	// DefaultGracePeriod is the undo window between confirm and apply.
	DefaultGracePeriod = 10 * time.Second
	// DefaultDebounceDelay settles interim transcripts into one utterance.
	DefaultDebounceDelay = 400 * time.Millisecond
	// DefaultWatchdogDelay bounds "speech capture claimed to start but
	// never produced anything".
	DefaultWatchdogDelay = 4 * time.Second
	// DefaultRemoteTimeout bounds one remote parser call.
	DefaultRemoteTimeout = 10 * time.Second
)

// DayKeyFormat keys usage records by calendar day.
const DayKeyFormat = "2006-01-02"
