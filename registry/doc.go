/*
Package registry holds the closed catalog of record variants.

The catalog maps a variant tag, as found in the "__class__" field of a stored
document, to the variant descriptor used to rebuild the record:

	catalog := registry.Default()
	rec, err := catalog.Rehydrate(doc)

Dispatch is an explicit map lookup. A tag that was not registered at startup
yields an UnknownVariantError; nothing found in a data file is ever evaluated.
*/
package registry
