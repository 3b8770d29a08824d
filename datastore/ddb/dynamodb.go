/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/storagemodels"
)

const (
	attrPK         = "PK"
	attrSK         = "SK"
	attrEntityType = "EntityType"

	// maxBatchSize is the BatchWriteItem request limit.
	maxBatchSize = 25
)

// API is the part of the DynamoDB client the datastore uses.
type API interface {
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error)
}

// ClientOptions configures NewDynamoDBClient. Empty credentials fall back to
// the default AWS credential chain.
type ClientOptions struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// NewDynamoDBClient initializes a DynamoDB client.
func NewDynamoDBClient(ctx context.Context, opts ClientOptions) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// DataStore keeps the record snapshot in a DynamoDB table, one item per
// record. Each item carries PK = SK = "<Variant>.<id>" and EntityType =
// "<Variant>" next to the document fields.
type DataStore struct {
	client    API
	tableName string
	logger    *slog.Logger
}

// Option configures a DataStore.
type Option func(*DataStore)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *DataStore) {
		d.logger = l
	}
}

// New constructs a DataStore over tableName.
func New(client API, tableName string, opts ...Option) *DataStore {
	d := &DataStore{client: client, tableName: tableName, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Location returns the table name.
func (d *DataStore) Location() string {
	return "dynamodb://" + d.tableName
}

// Load scans the table and rebuilds the snapshot. An empty table yields a
// nil snapshot.
func (d *DataStore) Load(ctx context.Context) (storagemodels.Snapshot, error) {
	items, err := d.scan(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	snapshot := make(storagemodels.Snapshot, len(items))
	for _, item := range items {
		key, err := itemKey(item)
		if err != nil {
			return nil, errors.NewCorruptStoreError(d.Location(), "", "item without key", err)
		}

		body := make(map[string]types.AttributeValue, len(item))
		for k, v := range item {
			switch k {
			case attrPK, attrSK, attrEntityType:
				continue
			}
			body[k] = v
		}

		var doc map[string]any
		err = attributevalue.UnmarshalMapWithOptions(body, &doc, func(o *attributevalue.DecoderOptions) {
			o.UseNumber = true
		})
		if err != nil {
			return nil, errors.NewCorruptStoreError(d.Location(), key, "cannot decode item", err)
		}
		snapshot[key] = fromNumbers(doc).(map[string]any)
	}

	d.logger.Debug("ddb: loaded snapshot", "table", d.tableName, "records", len(snapshot))
	return snapshot, nil
}

// Store writes every document of the snapshot and deletes items whose key
// is no longer present. Unprocessed writes are reported, not retried.
//
// Requests are sent in batches of 25. Batches are not transactional: when a
// later batch fails, earlier batches stay applied and the table holds a mix
// of the previous and the new snapshot until the next successful Store.
func (d *DataStore) Store(ctx context.Context, snapshot storagemodels.Snapshot) error {
	existing, err := d.scan(ctx, aws.String(attrPK))
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(snapshot))
	for _, key := range snapshot.Keys() {
		doc := snapshot[key]
		av, err := attributevalue.MarshalMap(toNumbers(map[string]any(doc)))
		if err != nil {
			return errors.NewIOError("marshal", key, err)
		}
		tag, _ := doc.Class()
		av[attrPK] = &types.AttributeValueMemberS{Value: key}
		av[attrSK] = &types.AttributeValueMemberS{Value: key}
		av[attrEntityType] = &types.AttributeValueMemberS{Value: tag}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	stale := 0
	for _, item := range existing {
		key, err := itemKey(item)
		if err != nil {
			continue
		}
		if _, keep := snapshot[key]; keep {
			continue
		}
		stale++
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{
			Key: map[string]types.AttributeValue{
				attrPK: &types.AttributeValueMemberS{Value: key},
				attrSK: &types.AttributeValueMemberS{Value: key},
			},
		}})
	}

	for start := 0; start < len(requests); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(requests) {
			end = len(requests)
		}
		out, err := d.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{d.tableName: requests[start:end]},
		})
		if err != nil {
			return errors.NewIOError("BatchWriteItem", d.Location(), err)
		}
		if n := len(out.UnprocessedItems[d.tableName]); n > 0 {
			return errors.NewIOError("BatchWriteItem", d.Location(), fmt.Errorf("%d unprocessed write requests", n))
		}
	}

	d.logger.Debug("ddb: stored snapshot", "table", d.tableName, "records", len(snapshot), "deleted", stale)
	return nil
}

// scan reads every item of the table, following pagination.
func (d *DataStore) scan(ctx context.Context, projection *string) ([]map[string]types.AttributeValue, error) {
	input := &sdk.ScanInput{
		TableName:            &d.tableName,
		ProjectionExpression: projection,
	}

	var items []map[string]types.AttributeValue
	for {
		out, err := d.client.Scan(ctx, input)
		if err != nil {
			return nil, errors.NewIOError("Scan", d.Location(), err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func itemKey(item map[string]types.AttributeValue) (string, error) {
	pk, ok := item[attrPK].(*types.AttributeValueMemberS)
	if !ok || pk.Value == "" {
		return "", fmt.Errorf("missing string %s attribute", attrPK)
	}
	return pk.Value, nil
}

// toNumbers copies v, turning json.Number into attributevalue.Number so
// numbers are written as N rather than S.
func toNumbers(v any) any {
	switch tv := v.(type) {
	case json.Number:
		return attributevalue.Number(tv)
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = toNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = toNumbers(item)
		}
		return out
	default:
		return v
	}
}

// fromNumbers turns attributevalue.Number into json.Number so the registry
// sees the same number type as with the file backend.
func fromNumbers(v any) any {
	switch tv := v.(type) {
	case attributevalue.Number:
		return json.Number(tv)
	case map[string]any:
		for k, item := range tv {
			tv[k] = fromNumbers(item)
		}
		return tv
	case []any:
		for i, item := range tv {
			tv[i] = fromNumbers(item)
		}
		return tv
	default:
		return v
	}
}
