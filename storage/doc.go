/*
Package storage implements the record registry: the in-memory, identity-keyed
map of every live record and the save/reload protocol that makes it durable.

	reg := storage.New(file.New("file.json"))
	if err := reg.Reload(ctx); err != nil {
	    return err
	}

	amenity, _ := reg.Create("Amenity")   // registered, not yet written
	_ = amenity.Set("name", "Wifi")
	_ = amenity.Save(ctx)                 // stamps updated_at, writes every record

Save always rewrites the full set. Reload dispatches each stored document on
its "__class__" tag through the closed registry.Catalog and either loads every
entry or none of them.

There is no coordination between processes sharing one backend: the last Save
wins.
*/
package storage
