/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package file stores the record snapshot as one JSON document on disk.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/storagemodels"
)

// DefaultPath is the backing file used when none is configured.
const DefaultPath = "file.json"

// DataStore implements datastore.DataStore on a single JSON file.
type DataStore struct {
	path   string
	logger *slog.Logger
}

// Option configures a DataStore.
type Option func(*DataStore)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *DataStore) {
		d.logger = l
	}
}

// New returns a file datastore for path, or DefaultPath when path is empty.
func New(path string, opts ...Option) *DataStore {
	if path == "" {
		path = DefaultPath
	}
	d := &DataStore{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Location returns the backing file path.
func (d *DataStore) Location() string {
	return d.path
}

// Load reads and decodes the backing file. A missing file yields a nil
// snapshot. Numbers are decoded as json.Number so integers survive intact.
func (d *DataStore) Load(_ context.Context) (storagemodels.Snapshot, error) {
	b, err := os.ReadFile(d.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		d.logger.Debug("file: backing file not found", "path", d.path)
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewIOError("read", d.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.NewCorruptStoreError(d.path, "", "invalid JSON document", err)
	}
	if dec.More() {
		return nil, errors.NewCorruptStoreError(d.path, "", "trailing data after JSON document", nil)
	}

	snapshot := make(storagemodels.Snapshot, len(raw))
	for key, entry := range raw {
		doc, ok := entry.(map[string]any)
		if !ok {
			return nil, errors.NewCorruptStoreError(d.path, key, fmt.Sprintf("entry is %T, not an object", entry), nil)
		}
		snapshot[key] = doc
	}

	d.logger.Debug("file: loaded snapshot", "path", d.path, "records", len(snapshot))
	return snapshot, nil
}

// Store writes the whole snapshot to a temporary file next to the target and
// renames it into place, so a failed write leaves the previous file intact.
func (d *DataStore) Store(_ context.Context, snapshot storagemodels.Snapshot) error {
	if snapshot == nil {
		snapshot = storagemodels.Snapshot{}
	}
	b, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.NewIOError("encode", d.path, err)
	}

	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.NewIOError("mkdir", dir, err)
		}
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o600); err != nil {
		_ = os.Remove(tmp)
		return errors.NewIOError("write", tmp, err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return errors.NewIOError("rename", d.path, err)
	}

	d.logger.Debug("file: stored snapshot", "path", d.path, "records", len(snapshot))
	return nil
}
