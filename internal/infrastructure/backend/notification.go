package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vocusapp/vocus/internal/ports"
)

const notificationPrefix = "notification:"

// Notification is one scheduled reminder notification.
type Notification struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Kind     string    `json:"kind"` // once | daily | weekly
	At       time.Time `json:"at,omitempty"`
	Clock    string    `json:"clock,omitempty"`
	Days     []string  `json:"days,omitempty"`
	Created  time.Time `json:"created"`
}

// LocalNotifications implements ports.NotificationBackend by persisting
// scheduled notifications through the storage port. Permission mirrors the
// OS grant; here it is a config flag so the denial path stays testable.
type LocalNotifications struct {
	Storage ports.Storage
	Granted bool
	Logger  ports.Logger
}

// PermissionGranted implements ports.NotificationBackend.
func (n *LocalNotifications) PermissionGranted(context.Context) (bool, error) {
	return n.Granted, nil
}

// ScheduleOnce implements ports.NotificationBackend.
func (n *LocalNotifications) ScheduleOnce(ctx context.Context, message string, at time.Time) ([]string, error) {
	return n.store(ctx, Notification{Message: message, Kind: "once", At: at})
}

// ScheduleDaily implements ports.NotificationBackend.
func (n *LocalNotifications) ScheduleDaily(ctx context.Context, message string, clock string) ([]string, error) {
	return n.store(ctx, Notification{Message: message, Kind: "daily", Clock: clock})
}

// ScheduleWeekly schedules one notification per requested day so each is
// independently cancelable.
func (n *LocalNotifications) ScheduleWeekly(ctx context.Context, message string, days []string, clock string) ([]string, error) {
	var ids []string
	for _, day := range days {
		created, err := n.store(ctx, Notification{
			Message: message, Kind: "weekly", Clock: clock, Days: []string{day},
		})
		if err != nil {
			// Roll back partial scheduling so undo never has to guess.
			_ = n.Cancel(ctx, ids)
			return nil, err
		}
		ids = append(ids, created...)
	}
	return ids, nil
}

// Cancel implements ports.NotificationBackend.
func (n *LocalNotifications) Cancel(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := n.Storage.Delete(ctx, notificationPrefix+id); err != nil {
			return fmt.Errorf("cancel notification %s: %w", id, err)
		}
	}
	return nil
}

// Scheduled lists all stored notification ids for a given id set; used by
// tests to assert undo left nothing behind.
func (n *LocalNotifications) Scheduled(ctx context.Context, ids []string) ([]Notification, error) {
	var out []Notification
	for _, id := range ids {
		data, ok, err := n.Storage.Get(ctx, notificationPrefix+id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var notif Notification
		if err := json.Unmarshal(data, &notif); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", id, err)
		}
		out = append(out, notif)
	}
	return out, nil
}

func (n *LocalNotifications) store(ctx context.Context, notif Notification) ([]string, error) {
	notif.ID = uuid.NewString()
	notif.Created = time.Now()
	data, err := json.Marshal(notif)
	if err != nil {
		return nil, fmt.Errorf("encode notification: %w", err)
	}
	if err := n.Storage.Set(ctx, notificationPrefix+notif.ID, data); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}
	if n.Logger != nil {
		n.Logger.Info("notification scheduled", map[string]interface{}{
			"kind": notif.Kind, "id": notif.ID,
		})
	}
	return []string{notif.ID}, nil
}
