/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "sort"

// Reserved field names of the transfer representation.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	// FieldClass carries the variant tag. It only ever exists in a Document,
	// never as an attribute of a live record.
	FieldClass = "__class__"
)

// TimeLayout is the textual form of created_at and updated_at:
// ISO-8601 with microsecond precision and no zone. Values are local wall
// times, so two timestamps inside a DST fall-back hour may parse out of order.
const TimeLayout = "2006-01-02T15:04:05.000000"

// Document is the transfer representation of a single record.
type Document map[string]any

// Class returns the variant tag stored in the document, if it is a string.
func (d Document) Class() (string, bool) {
	v, ok := d[FieldClass]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Snapshot is the full persisted set, keyed by "<Variant>.<id>".
type Snapshot map[string]Document

// Keys returns the snapshot keys in lexical order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
