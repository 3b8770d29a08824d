/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

// Kind is the declared value type of a variant attribute.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// AttributeSpec declares one attribute of a variant.
type AttributeSpec struct {
	Name    string
	Kind    Kind
	Default any
	// Format optionally names a strfmt format the value must satisfy
	// when it is entered as text, e.g. "email".
	Format string
}

// Variant describes one record kind: its tag and its declared attributes.
type Variant struct {
	name  string
	attrs []AttributeSpec
	index map[string]int
}

// NewVariant creates a variant descriptor. Attribute order is kept.
func NewVariant(name string, attrs ...AttributeSpec) *Variant {
	v := &Variant{
		name:  name,
		attrs: append([]AttributeSpec(nil), attrs...),
		index: make(map[string]int, len(attrs)),
	}
	for i, a := range v.attrs {
		v.index[a.Name] = i
	}
	return v
}

// Name returns the variant tag.
func (v *Variant) Name() string {
	return v.name
}

// Attributes returns the declared attributes in declaration order.
func (v *Variant) Attributes() []AttributeSpec {
	return append([]AttributeSpec(nil), v.attrs...)
}

// Attribute looks up a declared attribute by name.
func (v *Variant) Attribute(name string) (AttributeSpec, bool) {
	i, ok := v.index[name]
	if !ok {
		return AttributeSpec{}, false
	}
	return v.attrs[i], true
}

// defaults returns a fresh map of the declared defaults. Containers are
// copied so no two records share a default list.
func (v *Variant) defaults() map[string]any {
	out := make(map[string]any, len(v.attrs))
	for _, a := range v.attrs {
		out[a.Name] = cloneValue(a.Default)
	}
	return out
}

func str(name string) AttributeSpec {
	return AttributeSpec{Name: name, Kind: KindString, Default: ""}
}

func integer(name string) AttributeSpec {
	return AttributeSpec{Name: name, Kind: KindInt, Default: 0}
}

func float(name string) AttributeSpec {
	return AttributeSpec{Name: name, Kind: KindFloat, Default: 0.0}
}

func list(name string) AttributeSpec {
	return AttributeSpec{Name: name, Kind: KindList, Default: []string{}}
}

// The closed set of record variants.
var (
	BaseModel = NewVariant("BaseModel")

	User = NewVariant("User",
		AttributeSpec{Name: "email", Kind: KindString, Default: "", Format: "email"},
		str("password"),
		str("first_name"),
		str("last_name"),
	)

	State = NewVariant("State",
		str("name"),
	)

	City = NewVariant("City",
		str("state_id"),
		str("name"),
	)

	Amenity = NewVariant("Amenity",
		str("name"),
	)

	Place = NewVariant("Place",
		str("city_id"),
		str("user_id"),
		str("name"),
		str("description"),
		integer("number_rooms"),
		integer("number_bathrooms"),
		integer("max_guest"),
		integer("price_by_night"),
		float("latitude"),
		float("longitude"),
		list("amenity_ids"),
	)

	Review = NewVariant("Review",
		str("place_id"),
		str("user_id"),
		str("text"),
	)
)

// Variants returns every built-in variant in a stable order.
func Variants() []*Variant {
	return []*Variant{BaseModel, User, State, City, Amenity, Place, Review}
}
