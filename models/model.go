/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/storagemodels"
)

// nowFunc is swapped out by tests that need a controlled clock.
var nowFunc = time.Now

func now() time.Time {
	return nowFunc().Truncate(time.Microsecond)
}

// Registrar receives freshly constructed records.
type Registrar interface {
	New(m *Model)
}

// Owner persists the full record set a record belongs to.
type Owner interface {
	Save(ctx context.Context) error
}

// Model is a single record: a variant, two system timestamps and an
// insertion-ordered attribute bag whose first three keys are always
// id, created_at and updated_at.
type Model struct {
	variant   *Variant
	keys      []string
	values    map[string]any
	defaults  map[string]any
	createdAt time.Time
	updatedAt time.Time
	owner     Owner
}

// New constructs a fresh record of variant v with a new id and the current
// time, and hands it to reg. reg may be nil for a detached record.
func New(v *Variant, reg Registrar) *Model {
	t := now()
	m := newModel(v)
	m.values[storagemodels.FieldID] = uuid.NewString()
	m.createdAt = t
	m.updatedAt = t
	if reg != nil {
		reg.New(m)
	}
	return m
}

// FromDocument rebuilds a record of variant v from its transfer
// representation. The __class__ field is discarded, timestamps are parsed with
// storagemodels.TimeLayout, declared attributes are coerced to their kind and
// any other field is kept as is. The record is not registered anywhere.
func FromDocument(v *Variant, doc storagemodels.Document) (*Model, error) {
	m := newModel(v)

	rawID, ok := doc[storagemodels.FieldID]
	if !ok {
		return nil, errors.NewParseError(storagemodels.FieldID, nil, fmt.Errorf("missing"))
	}
	id, ok := rawID.(string)
	if !ok || id == "" {
		return nil, errors.NewParseError(storagemodels.FieldID, rawID, fmt.Errorf("expected non-empty string"))
	}
	m.values[storagemodels.FieldID] = id

	var err error
	if m.createdAt, err = parseTimestamp(storagemodels.FieldCreatedAt, doc); err != nil {
		return nil, err
	}
	if m.updatedAt, err = parseTimestamp(storagemodels.FieldUpdatedAt, doc); err != nil {
		return nil, err
	}
	// Zone-less wall times can come back out of order across a DST
	// fall-back hour.
	if m.updatedAt.Before(m.createdAt) {
		m.updatedAt = m.createdAt
	}

	// Declared attributes first, in declaration order, then the rest sorted
	// so rehydration is deterministic.
	var extra []string
	for k := range doc {
		switch k {
		case storagemodels.FieldID, storagemodels.FieldCreatedAt, storagemodels.FieldUpdatedAt, storagemodels.FieldClass:
			continue
		}
		if _, declared := v.Attribute(k); !declared {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	for _, attr := range v.attrs {
		raw, ok := doc[attr.Name]
		if !ok {
			continue
		}
		val, err := attr.Coerce(raw)
		if err != nil {
			return nil, err
		}
		m.put(attr.Name, val)
	}
	for _, k := range extra {
		val, err := normalize(k, doc[k])
		if err != nil {
			return nil, err
		}
		m.put(k, val)
	}
	return m, nil
}

func newModel(v *Variant) *Model {
	return &Model{
		variant: v,
		keys: []string{
			storagemodels.FieldID,
			storagemodels.FieldCreatedAt,
			storagemodels.FieldUpdatedAt,
		},
		values:   make(map[string]any),
		defaults: v.defaults(),
	}
}

func parseTimestamp(field string, doc storagemodels.Document) (time.Time, error) {
	raw, ok := doc[field]
	if !ok {
		return time.Time{}, errors.NewParseError(field, nil, fmt.Errorf("missing"))
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, errors.NewParseError(field, raw, fmt.Errorf("expected string timestamp"))
	}
	t, err := time.ParseInLocation(storagemodels.TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, errors.NewParseError(field, s, err)
	}
	return t, nil
}

// Variant returns the record kind.
func (m *Model) Variant() *Variant {
	return m.variant
}

// ID returns the record identity.
func (m *Model) ID() string {
	id, _ := m.values[storagemodels.FieldID].(string)
	return id
}

// Key returns the composite registry key "<Variant>.<id>".
func (m *Model) Key() string {
	return Key(m.variant.Name(), m.ID())
}

// Key builds a composite registry key.
func Key(variant, id string) string {
	return variant + "." + id
}

// CreatedAt returns the construction time.
func (m *Model) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns the time of the last Save.
func (m *Model) UpdatedAt() time.Time {
	return m.updatedAt
}

// Attach binds the record to the registry that persists it.
func (m *Model) Attach(o Owner) {
	m.owner = o
}

// Get returns an attribute value. Declared attributes that were never set
// read as the record's own copy of the variant default.
func (m *Model) Get(name string) (any, bool) {
	switch name {
	case storagemodels.FieldCreatedAt:
		return m.createdAt, true
	case storagemodels.FieldUpdatedAt:
		return m.updatedAt, true
	}
	if v, ok := m.values[name]; ok {
		return v, true
	}
	v, ok := m.defaults[name]
	return v, ok
}

// IsSet reports whether name was assigned on this record.
func (m *Model) IsSet(name string) bool {
	switch name {
	case storagemodels.FieldCreatedAt, storagemodels.FieldUpdatedAt:
		return true
	}
	_, ok := m.values[name]
	return ok
}

// Set assigns an attribute. Declared attributes are coerced to their kind.
// id, the timestamps and __class__ cannot be assigned.
func (m *Model) Set(name string, value any) error {
	val, err := m.coerce(name, value)
	if err != nil {
		return err
	}
	m.put(name, val)
	return nil
}

// SetAll assigns several attributes at once. Every value is coerced before
// any is assigned, so on error the record is unchanged. New attributes are
// appended in name order.
func (m *Model) SetAll(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	coerced := make([]any, len(names))
	for i, name := range names {
		val, err := m.coerce(name, values[name])
		if err != nil {
			return err
		}
		coerced[i] = val
	}
	for i, name := range names {
		m.put(name, coerced[i])
	}
	return nil
}

func (m *Model) coerce(name string, value any) (any, error) {
	switch name {
	case "":
		return nil, errors.NewValidationError("", "missing attribute name")
	case storagemodels.FieldID, storagemodels.FieldCreatedAt, storagemodels.FieldUpdatedAt, storagemodels.FieldClass:
		return nil, errors.NewValidationError(name, "reserved attribute")
	}
	if attr, ok := m.variant.Attribute(name); ok {
		return attr.Coerce(value)
	}
	return normalize(name, value)
}

func (m *Model) put(name string, val any) {
	if _, exists := m.values[name]; !exists {
		m.keys = append(m.keys, name)
	}
	m.values[name] = val
}

// Attributes returns the names of every set attribute in assignment order.
func (m *Model) Attributes() []string {
	return append([]string(nil), m.keys...)
}

// Save stamps updated_at and asks the owning registry to persist every
// record it holds. A detached record only gets the new timestamp.
func (m *Model) Save(ctx context.Context) error {
	m.touch()
	if m.owner == nil {
		return nil
	}
	return m.owner.Save(ctx)
}

func (m *Model) touch() {
	t := now()
	if t.Before(m.createdAt) {
		t = m.createdAt
	}
	m.updatedAt = t
}

// ToDocument returns the transfer representation: every set attribute,
// timestamps as text and the variant tag under __class__. The record is
// not modified and the returned document shares no containers with it.
func (m *Model) ToDocument() storagemodels.Document {
	doc := make(storagemodels.Document, len(m.keys)+1)
	for _, k := range m.keys {
		doc[k] = m.transferValue(k)
	}
	doc[storagemodels.FieldClass] = m.variant.Name()
	return doc
}

func (m *Model) transferValue(k string) any {
	switch k {
	case storagemodels.FieldCreatedAt:
		return m.createdAt.Format(storagemodels.TimeLayout)
	case storagemodels.FieldUpdatedAt:
		return m.updatedAt.Format(storagemodels.TimeLayout)
	}
	return exportValue(m.values[k])
}

// String renders "[<Variant>] (<id>) {<attribute>: <value>, ...}" with
// attributes in assignment order.
func (m *Model) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] (%s) {", m.variant.Name(), m.ID())
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %s", k, renderValue(m.transferValue(k)))
	}
	b.WriteString("}")
	return b.String()
}

func renderValue(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
