// Package backend hosts the local stand-ins for the native bridges: alias
// registry, blocking sessions and notification scheduling, all persisted
// through the storage port.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/vocusapp/vocus/internal/ports"
)

const aliasKey = "aliases"

// AliasStore keeps the blocking-target aliases as a JSON map in storage.
type AliasStore struct {
	Storage ports.Storage
}

// Names implements ports.AliasRegistry; names come back sorted for stable
// suggestion ordering.
func (a *AliasStore) Names(ctx context.Context) ([]string, error) {
	aliases, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Lookup implements ports.AliasRegistry; matching is case-insensitive.
func (a *AliasStore) Lookup(ctx context.Context, name string) (string, bool, error) {
	aliases, err := a.load(ctx)
	if err != nil {
		return "", false, err
	}
	resource, ok := aliases[normalize(name)]
	return resource, ok, nil
}

// Add implements ports.AliasRegistry.
func (a *AliasStore) Add(ctx context.Context, name string, resource string) error {
	aliases, err := a.load(ctx)
	if err != nil {
		return err
	}
	aliases[normalize(name)] = resource
	return a.save(ctx, aliases)
}

// Remove implements ports.AliasRegistry.
func (a *AliasStore) Remove(ctx context.Context, name string) error {
	aliases, err := a.load(ctx)
	if err != nil {
		return err
	}
	delete(aliases, normalize(name))
	return a.save(ctx, aliases)
}

func (a *AliasStore) load(ctx context.Context) (map[string]string, error) {
	data, ok, err := a.Storage.Get(ctx, aliasKey)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	if !ok {
		return map[string]string{}, nil
	}
	var aliases map[string]string
	if err := json.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("decode aliases: %w", err)
	}
	return aliases, nil
}

func (a *AliasStore) save(ctx context.Context, aliases map[string]string) error {
	data, err := json.Marshal(aliases)
	if err != nil {
		return fmt.Errorf("encode aliases: %w", err)
	}
	return a.Storage.Set(ctx, aliasKey, data)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
