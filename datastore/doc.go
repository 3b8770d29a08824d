/*
Package datastore defines the backend interface of the record registry.

A DataStore moves a complete storagemodels.Snapshot in and out of durable
storage. There are no per-record writes: every save rewrites the full set.

	type DataStore interface {
	    Load(ctx context.Context) (storagemodels.Snapshot, error)
	    Store(ctx context.Context, snapshot storagemodels.Snapshot) error
	    Location() string
	}

Implementations:
  - file: a single JSON document on local disk (the default)
  - ddb: a DynamoDB table holding one item per record
  - mock: in-memory implementation with error injection for testing

Backends report unreadable content as errors.CorruptStoreError and failed
reads or writes as errors.IOError. A backend with nothing stored yet is not an
error.
*/
package datastore
