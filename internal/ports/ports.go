// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the command pipeline and
// external adapters (infrastructure). The pipeline depends only on these
// abstractions; storage engines, speech capture, the remote NLU provider and
// the native blocking/notification bridges are all swappable adapters.
package ports

import (
	"context"
	"time"

	"github.com/vocusapp/vocus/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.vocus/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Storage is opaque key-value persistence for conversation context, usage
// records, aliases, sessions and the undo ledger. Get reports presence
// explicitly so absent keys are not errors.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RemoteParser is the cloud NLU provider. Parse returns nil (no error) when
// the provider produced nothing usable; implementations must be
// timeout-bounded.
type RemoteParser interface {
	Available() bool
	Parse(ctx context.Context, text string) (*domain.RemoteParse, error)
}

// BlockingBackend is the native blocking bridge. Resolve maps an alias name
// to a blocking-capable resource token, or "" when unknown.
type BlockingBackend interface {
	Resolve(ctx context.Context, alias string) (string, error)
	Start(ctx context.Context, resource string, duration time.Duration) (sessionRef string, err error)
	Stop(ctx context.Context) error
}

// NotificationBackend schedules and cancels reminder notifications. All
// schedule calls return the ids needed for later cancellation.
type NotificationBackend interface {
	PermissionGranted(ctx context.Context) (bool, error)
	ScheduleOnce(ctx context.Context, message string, at time.Time) ([]string, error)
	ScheduleDaily(ctx context.Context, message string, clock string) ([]string, error)
	ScheduleWeekly(ctx context.Context, message string, days []string, clock string) ([]string, error)
	Cancel(ctx context.Context, ids []string) error
}

// PremiumStatus reports whether the current user bypasses the cloud quota.
type PremiumStatus interface {
	IsPremium(ctx context.Context) (bool, error)
}

// SpeechSource streams finalized and interim transcripts. Start returns once
// capture is running; results arrive on the callback until Stop or context
// cancellation.
type SpeechSource interface {
	Start(ctx context.Context, onResult func(text string, final bool), onError func(error)) error
	Stop() error
}

// AliasRegistry lists the blocking-target aliases known to the user. The
// classifier and clarification engine consume the names; the blocking
// backend resolves them.
type AliasRegistry interface {
	Names(ctx context.Context) ([]string, error)
	Lookup(ctx context.Context, name string) (resource string, ok bool, err error)
	Add(ctx context.Context, name string, resource string) error
	Remove(ctx context.Context, name string) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
