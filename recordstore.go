/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package recordstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/suparena/recordstore/config"
	"github.com/suparena/recordstore/datastore"
	"github.com/suparena/recordstore/datastore/ddb"
	"github.com/suparena/recordstore/datastore/file"
	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/storage"
)

// BackendFactory builds a datastore from configuration.
type BackendFactory func(ctx context.Context, cfg config.Config, logger *slog.Logger) (datastore.DataStore, error)

// Backends is a thread-safe set of named backend factories.
type Backends struct {
	mu        sync.RWMutex
	factories map[string]BackendFactory
}

// NewBackends returns an empty set of backend factories.
func NewBackends() *Backends {
	return &Backends{
		factories: make(map[string]BackendFactory),
	}
}

// DefaultBackends returns the file and dynamodb backends.
func DefaultBackends() *Backends {
	b := NewBackends()
	_ = b.Register(config.BackendFile, newFileBackend)
	_ = b.Register(config.BackendDynamoDB, newDynamoDBBackend)
	return b
}

// Register stores the factory under name.
func (b *Backends) Register(name string, f BackendFactory) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	name = strings.ToLower(name)
	if _, exists := b.factories[name]; exists {
		return errors.NewAlreadyExistsError("backend", name)
	}
	b.factories[name] = f
	return nil
}

// Get retrieves the factory registered under name.
func (b *Backends) Get(name string) (BackendFactory, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	f, exists := b.factories[strings.ToLower(name)]
	if !exists {
		return nil, errors.NewNotFoundError("backend", name)
	}
	return f, nil
}

// Names returns all registered backend names.
func (b *Backends) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.factories))
	for k := range b.factories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Open builds an empty registry over the backend named in cfg, using the
// default backends. Call Reload on the result to load persisted records.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage.Registry, error) {
	return OpenWith(ctx, DefaultBackends(), cfg, logger)
}

// OpenWith is Open with an explicit set of backends.
func OpenWith(ctx context.Context, backends *Backends, cfg config.Config, logger *slog.Logger) (*storage.Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factory, err := backends.Get(cfg.Backend)
	if err != nil {
		return nil, err
	}
	ds, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}

	logger.Debug("recordstore: opened", "backend", cfg.Backend, "location", ds.Location())
	return storage.New(ds, storage.WithLogger(logger)), nil
}

func newFileBackend(_ context.Context, cfg config.Config, logger *slog.Logger) (datastore.DataStore, error) {
	return file.New(cfg.FilePath, file.WithLogger(logger)), nil
}

func newDynamoDBBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (datastore.DataStore, error) {
	client, err := ddb.NewDynamoDBClient(ctx, ddb.ClientOptions{
		Region:    cfg.DynamoDB.Region,
		AccessKey: cfg.DynamoDB.AccessKey,
		SecretKey: cfg.DynamoDB.SecretKey,
		Endpoint:  cfg.DynamoDB.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return ddb.New(client, cfg.DynamoDB.Table, ddb.WithLogger(logger)), nil
}
