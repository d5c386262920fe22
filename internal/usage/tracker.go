// Package usage enforces the daily remote-parse quota. Counts are keyed by
// calendar day and reset lazily: a record dated before today simply reads
// as zero, no background job involved.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/ports"
)

const usageKey = "usage:cloud"

// Tracker reads and writes the per-day remote-parse counter.
//
// Failure modes are deliberately asymmetric: a storage error while reading
// a free user's count fails closed (no remote call), while a failing
// premium check fails open (assume premium). Frustrating a paying user over
// a transient read beats handing out free quota.
type Tracker struct {
	Storage ports.Storage
	Premium ports.PremiumStatus
	Limit   int
	Logger  ports.Logger

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// Today returns the usage record for the current day. A stored record from
// another day reads as zero.
func (t *Tracker) Today(ctx context.Context) (domain.UsageRecord, error) {
	today := t.now().Format(domain.DayKeyFormat)
	fresh := domain.UsageRecord{Date: today}

	data, ok, err := t.Storage.Get(ctx, usageKey)
	if err != nil {
		return fresh, fmt.Errorf("read usage record: %w", err)
	}
	if !ok {
		return fresh, nil
	}
	var rec domain.UsageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fresh, fmt.Errorf("decode usage record: %w", err)
	}
	if rec.Date != today {
		return fresh, nil
	}
	return rec, nil
}

// Remaining reports the remote-parse allowance for the current user.
func (t *Tracker) Remaining(ctx context.Context) domain.Quota {
	premium, err := t.Premium.IsPremium(ctx)
	if err != nil {
		t.warn("premium check failed, assuming premium", err)
		premium = true
	}
	if premium {
		return domain.Quota{Unlimited: true, CanUse: true}
	}

	rec, err := t.Today(ctx)
	if err != nil {
		t.warn("usage read failed, disabling cloud parsing", err)
		return domain.Quota{Limit: t.limit(), CanUse: false}
	}
	remaining := t.limit() - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return domain.Quota{
		Limit:     t.limit(),
		Used:      rec.Count,
		Remaining: remaining,
		CanUse:    remaining > 0,
	}
}

// Increment persists one more remote call under today's key.
func (t *Tracker) Increment(ctx context.Context) error {
	rec, err := t.Today(ctx)
	if err != nil {
		return err
	}
	rec.Count++
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode usage record: %w", err)
	}
	return t.Storage.Set(ctx, usageKey, data)
}

func (t *Tracker) limit() int {
	if t.Limit > 0 {
		return t.Limit
	}
	return domain.DefaultDailyCloudLimit
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Tracker) warn(msg string, err error) {
	if t.Logger != nil {
		t.Logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}
