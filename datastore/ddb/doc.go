/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The table follows a single-table layout with one item per record:

	PK         = "Place.4f1c..."   (composite registry key)
	SK         = "Place.4f1c..."   (same value: single object key)
	EntityType = "Place"
	id, created_at, updated_at, __class__, name, ...  (document fields)

Store has save-all semantics like the file backend: every document is put and
items whose key disappeared from the snapshot are deleted, in batches of 25.
Unprocessed items are returned as an IOError rather than retried.

	client, err := ddb.NewDynamoDBClient(ctx, ddb.ClientOptions{Region: "us-east-1"})
	store := ddb.New(client, "records")
*/
package ddb
