/*
Package storagemodels defines the transfer types exchanged between the record
registry and its backends.

Key Types:

Document:
The flattened, string-timestamped, type-tagged form of one record:

	storagemodels.Document{
	    "id":         "2c1f...",
	    "created_at": "2025-03-01T09:30:12.123456",
	    "updated_at": "2025-03-01T09:30:12.123456",
	    "__class__":  "Amenity",
	    "name":       "Wifi",
	}

Snapshot:
Every Document in the registry, keyed by the composite key "<Variant>.<id>".
A Snapshot is what a backend writes on save and returns on load.
*/
package storagemodels
