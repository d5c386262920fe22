package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vocusapp/vocus/internal/ports"
)

const sessionKey = "blocking:session"

// BlockSession is the persisted record of the active blocking session.
type BlockSession struct {
	Ref       string    `json:"ref"`
	Resource  string    `json:"resource"`
	StartedAt time.Time `json:"started_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// LocalBlocking implements ports.BlockingBackend against the alias registry
// and storage. It records sessions instead of driving an OS-level blocker,
// which keeps the pipeline fully exercisable on any machine.
type LocalBlocking struct {
	Aliases ports.AliasRegistry
	Storage ports.Storage
	Logger  ports.Logger
}

// Resolve maps an alias to its resource token; "" means unknown, which the
// planner turns into a noop plan.
func (b *LocalBlocking) Resolve(ctx context.Context, alias string) (string, error) {
	resource, ok, err := b.Aliases.Lookup(ctx, alias)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return resource, nil
}

// Start records the new session; any previous one is overwritten.
func (b *LocalBlocking) Start(ctx context.Context, resource string, duration time.Duration) (string, error) {
	now := time.Now()
	session := BlockSession{
		Ref:       uuid.NewString(),
		Resource:  resource,
		StartedAt: now,
		EndsAt:    now.Add(duration),
	}
	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := b.Storage.Set(ctx, sessionKey, data); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	if b.Logger != nil {
		b.Logger.Info("blocking session started", map[string]interface{}{
			"resource": resource, "ends_at": session.EndsAt,
		})
	}
	return session.Ref, nil
}

// Stop clears the active session; stopping with none active is not an
// error.
func (b *LocalBlocking) Stop(ctx context.Context) error {
	return b.Storage.Delete(ctx, sessionKey)
}

// Active returns the running session, nil when none (or it already
// elapsed).
func (b *LocalBlocking) Active(ctx context.Context) (*BlockSession, error) {
	data, ok, err := b.Storage.Get(ctx, sessionKey)
	if err != nil || !ok {
		return nil, err
	}
	var session BlockSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if time.Now().After(session.EndsAt) {
		return nil, nil
	}
	return &session, nil
}
