package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/infrastructure/storage"
	"github.com/vocusapp/vocus/internal/pkg/logger"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), 5*time.Minute, logger.NewNop())
	ctx := context.Background()

	err := store.Save(ctx, domain.ConversationContext{
		LastAction:          domain.ActionBlock,
		LastTarget:          "instagram",
		LastDurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a context")
	}
	if got.LastTarget != "instagram" || got.LastDurationMinutes != 30 {
		t.Fatalf("got %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("Save should stamp the context")
	}
}

func TestStoreExpiresLazilyOnLoad(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), 5*time.Minute, logger.NewNop())
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }

	if err := store.Save(ctx, domain.ConversationContext{LastTarget: "instagram"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Still fresh just inside the TTL.
	store.Now = func() time.Time { return now.Add(4 * time.Minute) }
	got, err := store.Load(ctx)
	if err != nil || got == nil {
		t.Fatalf("expected live context, got %v (err %v)", got, err)
	}

	// Reads as absent once the TTL elapses; the record is never touched.
	store.Now = func() time.Time { return now.Add(6 * time.Minute) }
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired context to read as absent, got %+v", got)
	}
}

func TestStoreClear(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), 5*time.Minute, logger.NewNop())
	ctx := context.Background()

	if err := store.Save(ctx, domain.ConversationContext{LastTarget: "instagram"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after clear, got %+v", got)
	}
}

func TestStoreLoadAbsentReturnsNil(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), 5*time.Minute, logger.NewNop())

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
