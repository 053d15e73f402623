/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/dynamorepo/datastore/mock"
	"github.com/suparena/dynamorepo/datastore/testmodels"
	"github.com/suparena/dynamorepo/storagemodels"
)

type TestEntity struct {
	ID   string `dynamodbav:"id" ddbkey:"hash,autogenerate"`
	Name string `dynamodbav:"name"`
}

type Reading struct {
	Sensor string  `dynamodbav:"sensor" ddbkey:"hash"`
	At     int64   `dynamodbav:"at" ddbkey:"range"`
	Value  float64 `dynamodbav:"value"`
}

func TestMockDataStore(t *testing.T) {
	ctx := context.Background()

	t.Run("BasicOperations", func(t *testing.T) {
		mockStore := mock.New[TestEntity]()

		entity := &TestEntity{ID: "123", Name: "Test"}
		if err := mockStore.Save(ctx, entity); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		retrieved, err := mockStore.Load(ctx, "123")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if retrieved == nil || retrieved.ID != "123" || retrieved.Name != "Test" {
			t.Fatalf("Retrieved entity mismatch: %+v", retrieved)
		}

		if err := mockStore.Delete(ctx, entity); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		retrieved, err = mockStore.Load(ctx, "123")
		if err != nil || retrieved != nil {
			t.Fatalf("Expected absent entity, got: %+v, %v", retrieved, err)
		}

		if err := mockStore.Delete(ctx, entity); err != nil {
			t.Fatalf("Deleting an absent entity should succeed, got: %v", err)
		}
	})

	t.Run("AutoGeneratedKey", func(t *testing.T) {
		mockStore := mock.New[TestEntity]().WithIDGenerator(func() string { return "generated" })

		entity := &TestEntity{Name: "NoID"}
		if err := mockStore.Save(ctx, entity); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if entity.ID != "generated" {
			t.Fatalf("Expected generated ID, got %q", entity.ID)
		}
		if mockStore.Len() != 1 {
			t.Fatalf("Expected 1 entity, got %d", mockStore.Len())
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		saveErr := errors.New("save failed")
		deleteErr := errors.New("delete failed")
		loadErr := errors.New("load failed")
		mockStore := mock.New[TestEntity]().
			WithSaveError(saveErr).
			WithDeleteError(deleteErr).
			WithLoadError(loadErr)

		entity := &TestEntity{ID: "123", Name: "Test"}
		if err := mockStore.Save(ctx, entity); err != saveErr {
			t.Fatalf("Expected save error, got: %v", err)
		}
		if err := mockStore.Delete(ctx, entity); err != deleteErr {
			t.Fatalf("Expected delete error, got: %v", err)
		}
		if _, err := mockStore.Load(ctx, "123"); err != loadErr {
			t.Fatalf("Expected load error, got: %v", err)
		}
		if mockStore.Calls("Save") != 1 || mockStore.Calls("Delete") != 1 || mockStore.Calls("Load") != 1 {
			t.Fatalf("Unexpected call counts")
		}
	})

	t.Run("QueryByHashAndRange", func(t *testing.T) {
		mockStore := mock.New[Reading]()
		err := mockStore.SetData(
			Reading{Sensor: "s1", At: 10, Value: 1},
			Reading{Sensor: "s2", At: 10, Value: 2},
			Reading{Sensor: "s1", At: 20, Value: 3},
			Reading{Sensor: "s1", At: 30, Value: 4},
		)
		if err != nil {
			t.Fatalf("SetData failed: %v", err)
		}

		list, err := mockStore.Query(ctx, storagemodels.NewQuery("sensor", "s1").
			WithRange("at", storagemodels.RangeBetween, 15, 30))
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		items, err := list.Collect(ctx)
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if len(items) != 2 || items[0].At != 20 || items[1].At != 30 {
			t.Fatalf("Unexpected query result: %+v", items)
		}

		got, err := mockStore.LoadWithRange(ctx, "s2", 10)
		if err != nil || got == nil || got.Value != 2 {
			t.Fatalf("LoadWithRange mismatch: %+v, %v", got, err)
		}
		if _, err := mockStore.Load(ctx, "s2"); err == nil {
			t.Fatalf("Expected an error loading a composite key without range")
		}

		count, err := mockStore.Count(ctx, storagemodels.CountRequest{Query: storagemodels.NewQuery("sensor", "s1").WithLimit(2)})
		if err != nil || count != 2 {
			t.Fatalf("Expected limited count 2, got %d, %v", count, err)
		}
	})

	t.Run("ScanAndCount", func(t *testing.T) {
		mockStore := mock.New[TestEntity]()
		for _, name := range []string{"One", "Two", "Three"} {
			if err := mockStore.Save(ctx, &TestEntity{ID: name, Name: name}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}

		list, err := mockStore.Scan(ctx, storagemodels.NewScan().WithLimit(2))
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		items, _ := list.Collect(ctx)
		if len(items) != 2 || items[0].Name != "One" {
			t.Fatalf("Unexpected scan result: %+v", items)
		}

		count, err := mockStore.Count(ctx, storagemodels.CountRequest{Scan: storagemodels.NewScan()})
		if err != nil || count != 3 {
			t.Fatalf("Expected count 3, got %d, %v", count, err)
		}

		if _, err := mockStore.Count(ctx, storagemodels.CountRequest{ScanInput: &dynamodb.ScanInput{}}); err == nil {
			t.Fatalf("Expected native count to need a count func")
		}
		mockStore.WithCountFunc(func(context.Context, storagemodels.CountRequest) (int64, error) { return 42, nil })
		count, _ = mockStore.Count(ctx, storagemodels.CountRequest{ScanInput: &dynamodb.ScanInput{}})
		if count != 42 {
			t.Fatalf("Expected count func result, got %d", count)
		}
	})

	t.Run("CustomQueryFunc", func(t *testing.T) {
		mockStore := mock.New[TestEntity]().
			WithQueryFunc(func(ctx context.Context, expr *storagemodels.QueryExpression) ([]TestEntity, error) {
				return []TestEntity{{ID: "x", Name: expr.IndexName}}, nil
			})

		list, err := mockStore.Query(ctx, storagemodels.NewQuery("name", "n").OnIndex("ByName"))
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		items, _ := list.Collect(ctx)
		if len(items) != 1 || items[0].Name != "ByName" {
			t.Fatalf("Unexpected query result: %+v", items)
		}
	})

	t.Run("BatchWrite", func(t *testing.T) {
		mockStore := mock.New[TestEntity]()
		failed := mockStore.BatchWrite(ctx, []TestEntity{{ID: "1"}, {ID: "2"}}, nil)
		if len(failed) != 0 || mockStore.Len() != 2 {
			t.Fatalf("Unexpected batch result: %v, len %d", failed, mockStore.Len())
		}

		failed = mockStore.BatchWrite(ctx, nil, []TestEntity{{ID: "1"}})
		if len(failed) != 0 || mockStore.Len() != 1 {
			t.Fatalf("Unexpected batch delete result: %v, len %d", failed, mockStore.Len())
		}

		boom := errors.New("boom")
		mockStore.WithBatchError(boom)
		failed = mockStore.BatchWrite(ctx, []TestEntity{{ID: "3"}}, nil)
		if len(failed) != 1 || failed[0].Err != boom || mockStore.Len() != 1 {
			t.Fatalf("Expected one failed batch and no writes, got %v", failed)
		}
	})

	t.Run("WrappedKey", func(t *testing.T) {
		mockStore := mock.New[testmodels.PlayerRating]()
		rating := &testmodels.PlayerRating{
			Key:    testmodels.PlayerRatingKey{RatingSystemID: "rs", PlayerID: "p1"},
			Rating: 1200,
		}
		if err := mockStore.Save(ctx, rating); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		byValues, err := mockStore.LoadWithRange(ctx, "rs", "p1")
		if err != nil || byValues == nil {
			t.Fatalf("LoadWithRange failed: %+v, %v", byValues, err)
		}
		byCarrier, err := mockStore.Load(ctx, testmodels.PlayerRatingKey{RatingSystemID: "rs", PlayerID: "p1"})
		if err != nil || byCarrier == nil || byCarrier.Rating != 1200 {
			t.Fatalf("Load by carrier failed: %+v, %v", byCarrier, err)
		}
	})

	t.Run("GetKeyFunc", func(t *testing.T) {
		mockStore := mock.New[TestEntity]().
			WithGetKeyFunc(func(e TestEntity) string { return "custom-" + e.Name })
		if err := mockStore.Save(ctx, &TestEntity{ID: "1", Name: "a"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, ok := mockStore.GetData()["custom-a"]; !ok {
			t.Fatalf("Expected custom key, got %v", mockStore.GetData())
		}
	})
}
