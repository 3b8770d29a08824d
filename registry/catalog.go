/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/models"
	"github.com/suparena/recordstore/storagemodels"
)

// Catalog is the closed mapping from a variant tag to its descriptor. It is
// filled once at startup and only read afterwards.
type Catalog struct {
	variants map[string]*models.Variant
	order    []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{variants: make(map[string]*models.Variant)}
}

// Default returns a catalog holding every built-in variant.
func Default() *Catalog {
	c := NewCatalog()
	for _, v := range models.Variants() {
		if err := c.Register(v); err != nil {
			panic(fmt.Sprintf("registry: %v", err))
		}
	}
	return c
}

// Register adds a variant. Registering the same tag twice is an error.
func (c *Catalog) Register(v *models.Variant) error {
	if _, exists := c.variants[v.Name()]; exists {
		return errors.NewAlreadyExistsError("variant", v.Name())
	}
	c.variants[v.Name()] = v
	c.order = append(c.order, v.Name())
	return nil
}

// Lookup returns the variant registered under name.
func (c *Catalog) Lookup(name string) (*models.Variant, error) {
	v, ok := c.variants[name]
	if !ok {
		return nil, errors.NewUnknownVariantError(name)
	}
	return v, nil
}

// Names returns the registered tags in registration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Rehydrate dispatches doc on its __class__ tag and rebuilds the record.
// A missing or unregistered tag yields an UnknownVariantError.
func (c *Catalog) Rehydrate(doc storagemodels.Document) (*models.Model, error) {
	tag, ok := doc.Class()
	if !ok {
		return nil, errors.NewUnknownVariantError(fmt.Sprintf("%v", doc[storagemodels.FieldClass]))
	}
	v, err := c.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return models.FromDocument(v, doc)
}
