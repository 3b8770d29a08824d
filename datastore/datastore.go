/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/recordstore/storagemodels"
)

// DataStore persists a whole snapshot at once. Store replaces everything the
// backend held before; Load returns a nil snapshot and no error when nothing
// has been stored yet.
type DataStore interface {
	Load(ctx context.Context) (storagemodels.Snapshot, error)

	Store(ctx context.Context, snapshot storagemodels.Snapshot) error

	// Location describes where the snapshot lives, for logs and errors.
	Location() string
}
