/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storage

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/suparena/recordstore/datastore"
	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/models"
	"github.com/suparena/recordstore/registry"
	"github.com/suparena/recordstore/storagemodels"
)

// Registry is the identity-keyed set of live records plus the operations
// that persist it to, and restore it from, a single backend.
//
// Keys have the form "<Variant>.<id>". The registry owns every record it
// holds; callers get live pointers.
type Registry struct {
	mu      sync.RWMutex
	objects map[string]*models.Model
	store   datastore.DataStore
	catalog *registry.Catalog
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithCatalog replaces the default variant catalog.
func WithCatalog(c *registry.Catalog) Option {
	return func(r *Registry) {
		r.catalog = c
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// New returns an empty registry persisting to store.
func New(store datastore.DataStore, opts ...Option) *Registry {
	r := &Registry{
		objects: make(map[string]*models.Model),
		store:   store,
		catalog: registry.Default(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the variant catalog used for construction and reload.
func (r *Registry) Catalog() *registry.Catalog {
	return r.catalog
}

// Location describes the backend the registry persists to.
func (r *Registry) Location() string {
	return r.store.Location()
}

// All returns the registry's live map. Callers must treat it as read-only;
// it always reflects the current state.
func (r *Registry) All() map[string]*models.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.objects
}

// New stores m under its composite key, replacing any previous entry, and
// binds m so that its Save persists this registry.
func (r *Registry) New(m *models.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.Attach(r)
	r.objects[m.Key()] = m
}

// Create builds a fresh record of the named variant and registers it.
// Nothing is written to the backend.
func (r *Registry) Create(variant string) (*models.Model, error) {
	v, err := r.catalog.Lookup(variant)
	if err != nil {
		return nil, err
	}
	return models.New(v, r), nil
}

// Get returns the record stored under "<variant>.<id>".
func (r *Registry) Get(variant, id string) (*models.Model, error) {
	key := models.Key(variant, id)

	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.objects[key]
	if !ok {
		return nil, errors.NewNotFoundError(variant, key)
	}
	return m, nil
}

// Delete removes the record stored under "<variant>.<id>" from memory.
// Call Save to make the removal durable.
func (r *Registry) Delete(variant, id string) error {
	key := models.Key(variant, id)

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.objects[key]
	if !ok {
		return errors.NewNotFoundError(variant, key)
	}
	m.Attach(nil)
	delete(r.objects, key)
	return nil
}

// Keys returns every composite key in lexical order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.objects))
	for k := range r.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of records of the named variant, or of all
// records when variant is empty.
func (r *Registry) Count(variant string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if variant == "" {
		return len(r.objects)
	}
	n := 0
	for _, m := range r.objects {
		if m.Variant().Name() == variant {
			n++
		}
	}
	return n
}

// Clear drops every record from memory without touching the backend.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.objects {
		m.Attach(nil)
	}
	r.objects = make(map[string]*models.Model)
}

// Snapshot returns the transfer representation of every record.
func (r *Registry) Snapshot() storagemodels.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(storagemodels.Snapshot, len(r.objects))
	for key, m := range r.objects {
		snapshot[key] = m.ToDocument()
	}
	return snapshot
}

// Save writes the full record set to the backend in one operation.
func (r *Registry) Save(ctx context.Context) error {
	snapshot := r.Snapshot()
	if err := r.store.Store(ctx, snapshot); err != nil {
		return err
	}
	r.logger.Debug("registry: saved", "location", r.store.Location(), "records", len(snapshot))
	return nil
}

// Reload reads the backend and registers every stored record. Nothing
// stored yet is not an error.
//
// Reload is all-or-nothing: entries are rebuilt into a staging map and the
// first entry that cannot be rebuilt aborts the whole reload with a
// CorruptStoreError, leaving the live map untouched. On success staged
// records are merged into the live map, replacing entries with equal keys.
func (r *Registry) Reload(ctx context.Context) error {
	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	if len(snapshot) == 0 {
		r.logger.Debug("registry: nothing to reload", "location", r.store.Location())
		return nil
	}

	staged := make(map[string]*models.Model, len(snapshot))
	for _, key := range snapshot.Keys() {
		doc := snapshot[key]
		if doc == nil {
			return errors.NewCorruptStoreError(r.store.Location(), key, "entry is not an object", nil)
		}
		m, err := r.catalog.Rehydrate(doc)
		if err != nil {
			reason := "cannot rebuild record"
			if errors.IsUnknownVariant(err) {
				reason = "unrecognized variant tag"
			}
			return errors.NewCorruptStoreError(r.store.Location(), key, reason, err)
		}
		staged[m.Key()] = m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, m := range staged {
		m.Attach(r)
		r.objects[key] = m
	}

	r.logger.Debug("registry: reloaded", "location", r.store.Location(), "records", len(staged))
	return nil
}
