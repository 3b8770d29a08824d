/*
Package models defines the records kept by recordstore.

A record is a *Model: one Variant (BaseModel, User, State, City, Amenity, Place
or Review), an immutable id, a creation timestamp, a last-modified timestamp and
an insertion-ordered bag of attributes.

Records are built in one of two ways:

	// Fresh: new id and timestamps, handed to the registry.
	place := models.New(models.Place, reg)

	// Rehydration: rebuilt from a transfer representation, not registered.
	place, err := models.FromDocument(models.Place, doc)

The variant tag never lives on the record itself. It is synthesized as
"__class__" by ToDocument and discarded again by FromDocument.
*/
package models
