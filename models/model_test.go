/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/storagemodels"
)

type recordingRegistrar struct {
	records []*Model
	saves   int
}

func (r *recordingRegistrar) New(m *Model) {
	r.records = append(r.records, m)
	m.Attach(r)
}

func (r *recordingRegistrar) Save(ctx context.Context) error {
	r.saves++
	return nil
}

// stepClock makes now() advance by one millisecond per call.
func stepClock(t *testing.T) {
	t.Helper()
	base := time.Date(2025, 3, 1, 9, 30, 12, 123456789, time.Local)
	calls := 0
	nowFunc = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}
	t.Cleanup(func() { nowFunc = time.Now })
}

func TestNew(t *testing.T) {
	t.Run("Fresh", func(t *testing.T) {
		reg := &recordingRegistrar{}
		m := New(Amenity, reg)

		require.Len(t, reg.records, 1)
		assert.Same(t, m, reg.records[0])
		assert.NotEmpty(t, m.ID())
		assert.Equal(t, "Amenity."+m.ID(), m.Key())
		assert.True(t, m.CreatedAt().Equal(m.UpdatedAt()))
		assert.Equal(t, []string{"id", "created_at", "updated_at"}, m.Attributes())
		assert.Equal(t, 0, reg.saves, "construction must not persist")
	})

	t.Run("UniqueIDs", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			id := New(BaseModel, nil).ID()
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %s", id)
			seen[id] = struct{}{}
		}
	})

	t.Run("MicrosecondPrecision", func(t *testing.T) {
		m := New(BaseModel, nil)
		assert.Equal(t, 0, m.CreatedAt().Nanosecond()%1000)
	})
}

func TestSave(t *testing.T) {
	stepClock(t)
	reg := &recordingRegistrar{}
	m := New(User, reg)
	created := m.CreatedAt()

	prev := m.UpdatedAt()
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Save(context.Background()))
		assert.True(t, m.UpdatedAt().After(prev), "updated_at must increase")
		assert.True(t, m.CreatedAt().Equal(created), "created_at must not change")
		prev = m.UpdatedAt()
	}
	assert.Equal(t, 3, reg.saves)
}

func TestSaveDetached(t *testing.T) {
	stepClock(t)
	m := New(State, nil)
	before := m.UpdatedAt()

	require.NoError(t, m.Save(context.Background()))
	assert.True(t, m.UpdatedAt().After(before))
}

func TestSaveClampsToCreatedAt(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	nowFunc = func() time.Time { return base }
	t.Cleanup(func() { nowFunc = time.Now })

	m := New(City, nil)
	nowFunc = func() time.Time { return base.Add(-time.Hour) }
	require.NoError(t, m.Save(context.Background()))

	assert.False(t, m.UpdatedAt().Before(m.CreatedAt()))
}

func TestSetAndGet(t *testing.T) {
	m := New(Place, nil)

	t.Run("DeclaredDefaults", func(t *testing.T) {
		v, ok := m.Get("number_rooms")
		require.True(t, ok)
		assert.Equal(t, 0, v)

		v, ok = m.Get("latitude")
		require.True(t, ok)
		assert.Equal(t, 0.0, v)

		assert.False(t, m.IsSet("number_rooms"))
		assert.NotContains(t, m.ToDocument(), "number_rooms")
	})

	t.Run("DeclaredCoercion", func(t *testing.T) {
		require.NoError(t, m.Set("number_rooms", float64(3)))
		v, _ := m.Get("number_rooms")
		assert.Equal(t, 3, v)

		err := m.Set("number_rooms", "three")
		assert.True(t, errors.IsParseError(err))
	})

	t.Run("DynamicAttribute", func(t *testing.T) {
		require.NoError(t, m.Set("pool", "heated"))
		assert.Contains(t, m.ToDocument(), "pool")
	})

	t.Run("ReservedFields", func(t *testing.T) {
		for _, name := range []string{"id", "created_at", "updated_at", "__class__"} {
			err := m.Set(name, "x")
			assert.True(t, errors.IsValidationError(err), name)
		}
		assert.NotEqual(t, "x", m.ID())
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		err := m.Set("callback", func() {})
		assert.True(t, errors.IsParseError(err))
	})
}

func TestListDefaultsAreNotShared(t *testing.T) {
	tagged := NewVariant("Tagged", AttributeSpec{Name: "tags", Kind: KindList, Default: []string{"new"}})
	a := New(tagged, nil)
	b := New(tagged, nil)

	va, _ := a.Get("tags")
	va.([]string)[0] = "changed"

	vb, _ := b.Get("tags")
	assert.Equal(t, []string{"new"}, vb)

	attr, _ := tagged.Attribute("tags")
	assert.Equal(t, []string{"new"}, attr.Default)
	assert.False(t, a.IsSet("tags"))
}

func TestToDocument(t *testing.T) {
	m := New(Place, nil)
	require.NoError(t, m.Set("name", "Loft"))
	require.NoError(t, m.Set("amenity_ids", []string{"a1"}))

	doc := m.ToDocument()

	assert.Equal(t, "Place", doc[storagemodels.FieldClass])
	assert.Equal(t, m.ID(), doc["id"])
	assert.Equal(t, m.CreatedAt().Format(storagemodels.TimeLayout), doc["created_at"])
	assert.Equal(t, "Loft", doc["name"])

	_, err := time.Parse(storagemodels.TimeLayout, doc["updated_at"].(string))
	assert.NoError(t, err)

	// mutating the document must not reach the record
	doc["amenity_ids"].([]string)[0] = "changed"
	doc["name"] = "Other"
	v, _ := m.Get("amenity_ids")
	assert.Equal(t, []string{"a1"}, v)
	v, _ = m.Get("name")
	assert.Equal(t, "Loft", v)
	_, hasClass := m.Get("__class__")
	assert.False(t, hasClass)
}

func TestFromDocument(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		m := New(Place, nil)
		require.NoError(t, m.Set("name", "Loft"))
		require.NoError(t, m.Set("max_guest", 4))
		require.NoError(t, m.Set("latitude", 37.77))
		require.NoError(t, m.Set("amenity_ids", []string{"a1", "a2"}))
		require.NoError(t, m.Set("nickname", "the loft"))

		back, err := FromDocument(Place, m.ToDocument())
		require.NoError(t, err)

		assert.Equal(t, m.ID(), back.ID())
		assert.True(t, m.CreatedAt().Equal(back.CreatedAt()))
		assert.True(t, m.UpdatedAt().Equal(back.UpdatedAt()))
		assert.Equal(t, m.ToDocument(), back.ToDocument())
	})

	t.Run("FromJSON", func(t *testing.T) {
		raw := `{"id":"p1","created_at":"2025-03-01T09:30:12.123456","updated_at":"2025-03-02T10:00:00.000001",
			"__class__":"Place","number_rooms":2,"latitude":1.5,"amenity_ids":["x"],"rating":4}`
		var doc storagemodels.Document
		dec := json.NewDecoder(stringsReader(raw))
		dec.UseNumber()
		require.NoError(t, dec.Decode(&doc))

		m, err := FromDocument(Place, doc)
		require.NoError(t, err)

		v, _ := m.Get("number_rooms")
		assert.Equal(t, 2, v)
		v, _ = m.Get("latitude")
		assert.Equal(t, 1.5, v)
		v, _ = m.Get("amenity_ids")
		assert.Equal(t, []string{"x"}, v)
		v, _ = m.Get("rating")
		assert.Equal(t, 4, v)
		assert.Equal(t, 123456000, m.CreatedAt().Nanosecond())
		assert.Equal(t, []string{"id", "created_at", "updated_at", "number_rooms", "latitude", "amenity_ids", "rating"}, m.Attributes())
	})

	t.Run("IncomingClassIgnored", func(t *testing.T) {
		doc := New(User, nil).ToDocument()
		doc[storagemodels.FieldClass] = "Review"

		m, err := FromDocument(User, doc)
		require.NoError(t, err)
		assert.Equal(t, "User", m.Variant().Name())
		assert.False(t, m.IsSet(storagemodels.FieldClass))
		assert.Equal(t, "User", m.ToDocument()[storagemodels.FieldClass])
	})

	t.Run("MalformedTimestamp", func(t *testing.T) {
		doc := New(User, nil).ToDocument()
		doc["created_at"] = "2025-03-01 09:30"

		_, err := FromDocument(User, doc)
		assert.True(t, errors.IsParseError(err))
	})

	t.Run("MissingFields", func(t *testing.T) {
		for _, field := range []string{"id", "created_at", "updated_at"} {
			doc := New(User, nil).ToDocument()
			delete(doc, field)

			_, err := FromDocument(User, doc)
			assert.True(t, errors.IsParseError(err), field)
		}
	})

	t.Run("WrongDeclaredKind", func(t *testing.T) {
		doc := New(Place, nil).ToDocument()
		doc["number_rooms"] = "many"

		_, err := FromDocument(Place, doc)
		assert.True(t, errors.IsParseError(err))
	})

	t.Run("NotRegistered", func(t *testing.T) {
		m, err := FromDocument(Amenity, New(Amenity, nil).ToDocument())
		require.NoError(t, err)
		require.NoError(t, m.Save(context.Background()))
	})
}

func TestString(t *testing.T) {
	m, err := FromDocument(Amenity, storagemodels.Document{
		"id":         "1234567890",
		"created_at": "2025-03-01T09:30:12.000001",
		"updated_at": "2025-03-01T09:30:12.000001",
	})
	require.NoError(t, err)
	require.NoError(t, m.Set("name", "Wifi"))
	require.NoError(t, m.Set("floor", 2))

	expected := fmt.Sprintf(`[Amenity] (1234567890) {"id": "1234567890", "created_at": "%[1]s", "updated_at": "%[1]s", "name": "Wifi", "floor": 2}`,
		"2025-03-01T09:30:12.000001")
	assert.Equal(t, expected, m.String())
}

func TestSetAll(t *testing.T) {
	t.Run("AppliesEverything", func(t *testing.T) {
		m := New(Place, nil)
		require.NoError(t, m.SetAll(map[string]any{
			"name":        "Loft",
			"max_guest":   json.Number("4"),
			"latitude":    2,
			"amenity_ids": []any{"a1"},
			"balcony":     true,
		}))

		v, _ := m.Get("max_guest")
		assert.Equal(t, 4, v)
		v, _ = m.Get("latitude")
		assert.Equal(t, 2.0, v)
		v, _ = m.Get("amenity_ids")
		assert.Equal(t, []string{"a1"}, v)
		assert.Equal(t, []string{"id", "created_at", "updated_at", "amenity_ids", "balcony", "latitude", "max_guest", "name"}, m.Attributes())
	})

	t.Run("UnchangedOnError", func(t *testing.T) {
		m := New(Place, nil)
		require.NoError(t, m.Set("name", "Loft"))
		doc := m.ToDocument()

		err := m.SetAll(map[string]any{"city_id": "c1", "number_rooms": true})
		assert.True(t, errors.IsParseError(err))

		err = m.SetAll(map[string]any{"city_id": "c1", "id": "x"})
		assert.True(t, errors.IsValidationError(err))

		err = m.SetAll(map[string]any{"aaa": "first", "hook": func() {}})
		assert.True(t, errors.IsParseError(err))

		assert.Equal(t, doc, m.ToDocument())
		assert.False(t, m.IsSet("city_id"))
		assert.False(t, m.IsSet("aaa"))
	})
}

func TestWholeFloatsStayFloats(t *testing.T) {
	m := New(Amenity, nil)
	require.NoError(t, m.Set("ratio", 3.0))
	require.NoError(t, m.Set("scores", []any{1.0, 1.5, 2}))

	doc := m.ToDocument()
	assert.Equal(t, json.Number("3.0"), doc["ratio"])
	assert.Equal(t, []any{json.Number("1.0"), 1.5, 2}, doc["scores"])
	assert.Contains(t, m.String(), `"ratio": 3.0`)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	dec := json.NewDecoder(stringsReader(string(b)))
	dec.UseNumber()
	var decoded storagemodels.Document
	require.NoError(t, dec.Decode(&decoded))

	back, err := FromDocument(Amenity, decoded)
	require.NoError(t, err)
	v, _ := back.Get("ratio")
	assert.Equal(t, 3.0, v)
	v, _ = back.Get("scores")
	assert.Equal(t, []any{1.0, 1.5, 2}, v)
	assert.Equal(t, doc, back.ToDocument())
}

func TestFromDocumentClampsUpdatedAt(t *testing.T) {
	// an hour apart, as across a DST fall-back
	m, err := FromDocument(State, storagemodels.Document{
		"id":         "s1",
		"created_at": "2025-11-02T01:30:00.000000",
		"updated_at": "2025-11-02T01:10:00.000000",
	})
	require.NoError(t, err)
	assert.True(t, m.UpdatedAt().Equal(m.CreatedAt()))
	assert.Equal(t, "2025-11-02T01:30:00.000000", m.ToDocument()["updated_at"])
}
