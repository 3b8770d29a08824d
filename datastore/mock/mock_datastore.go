/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.DataStore for testing
package mock

import (
	"context"
	"sync"

	"github.com/suparena/recordstore/storagemodels"
)

// DataStore is a mock implementation of datastore.DataStore for testing
type DataStore struct {
	mu         sync.RWMutex
	data       storagemodels.Snapshot
	loadError  error
	storeError error
	loads      int
	stores     int
}

// New creates a new, empty mock DataStore
func New() *DataStore {
	return &DataStore{}
}

// WithLoadError makes Load operations return an error
func (m *DataStore) WithLoadError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
	return m
}

// WithStoreError makes Store operations return an error
func (m *DataStore) WithStoreError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeError = err
	return m
}

// Location identifies the mock in logs
func (m *DataStore) Location() string {
	return "mock"
}

// Load returns a copy of the stored snapshot, or nil if nothing was stored
func (m *DataStore) Load(ctx context.Context) (storagemodels.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads++
	if m.loadError != nil {
		return nil, m.loadError
	}
	if m.data == nil {
		return nil, nil
	}
	return copySnapshot(m.data), nil
}

// Store replaces the stored snapshot with a copy of snapshot
func (m *DataStore) Store(ctx context.Context, snapshot storagemodels.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stores++
	if m.storeError != nil {
		return m.storeError
	}
	m.data = copySnapshot(snapshot)
	return nil
}

// Helper methods for testing

// SetData directly sets the stored snapshot (for testing)
func (m *DataStore) SetData(data storagemodels.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// GetData returns a copy of the stored snapshot (for testing)
func (m *DataStore) GetData() storagemodels.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySnapshot(m.data)
}

// Count returns the number of stored documents
func (m *DataStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Stores returns how many times Store was called
func (m *DataStore) Stores() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stores
}

// Loads returns how many times Load was called
func (m *DataStore) Loads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads
}

// Clear removes all data
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
}

func copySnapshot(s storagemodels.Snapshot) storagemodels.Snapshot {
	if s == nil {
		return nil
	}
	out := make(storagemodels.Snapshot, len(s))
	for k, doc := range s {
		d := make(storagemodels.Document, len(doc))
		for f, v := range doc {
			d[f] = v
		}
		out[k] = d
	}
	return out
}
