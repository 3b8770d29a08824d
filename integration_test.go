//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package recordstore_test

import (
	"context"
	"log"
	"testing"

	"github.com/joho/godotenv"

	"github.com/suparena/recordstore"
	"github.com/suparena/recordstore/config"
	"github.com/suparena/recordstore/logging"
)

func setupDynamoDBConfig(t *testing.T) config.Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DynamoDB.Table == "" {
		t.Skip("AWS_DDB_TABLE not set, skipping integration test")
	}
	cfg.Backend = config.BackendDynamoDB
	return cfg
}

func TestIntegrationDynamoDBRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := setupDynamoDBConfig(t)

	reg, err := recordstore.Open(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := reg.Reload(ctx); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}

	place, err := reg.Create("Place")
	if err != nil {
		t.Fatalf("Failed to create place: %v", err)
	}
	if err := place.Set("name", "Integration Loft"); err != nil {
		t.Fatal(err)
	}
	if err := place.Set("amenity_ids", []string{"a1", "a2"}); err != nil {
		t.Fatal(err)
	}
	if err := place.Save(ctx); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	fresh, err := recordstore.Open(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if err := fresh.Reload(ctx); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	got, err := fresh.Get("Place", place.ID())
	if err != nil {
		t.Fatalf("Reloaded store is missing the place: %v", err)
	}
	if v, _ := got.Get("name"); v != "Integration Loft" {
		t.Errorf("Expected name to round-trip, got %v", v)
	}

	// Clean up
	if err := fresh.Delete("Place", place.ID()); err != nil {
		t.Fatal(err)
	}
	if err := fresh.Save(ctx); err != nil {
		t.Fatalf("Failed to save after delete: %v", err)
	}
}
