/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamorepo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/suparena/dynamorepo/config"
	"github.com/suparena/dynamorepo/datastore/mock"
	"github.com/suparena/dynamorepo/repository"
)

// Test types
type TestUser struct {
	ID   string `dynamodbav:"id" ddbkey:"hash"`
	Name string `dynamodbav:"name"`
}

type TestProduct struct {
	SKU   string  `dynamodbav:"sku" ddbkey:"hash"`
	Price float64 `dynamodbav:"price"`
}

func newRepo[T any](t *testing.T) *repository.Repository[T] {
	t.Helper()
	repo, err := repository.New[T](mock.New[T]())
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	return repo
}

func TestTypedRepositories(t *testing.T) {
	tr := NewTypedRepositories[TestUser]()
	users := newRepo[TestUser](t)

	t.Run("Register", func(t *testing.T) {
		if err := tr.Register("users", users); err != nil {
			t.Fatalf("Failed to register repository: %v", err)
		}
		if err := tr.Register("users", users); err == nil {
			t.Fatal("Expected duplicate registration error")
		}
		if err := tr.Register("nil", nil); err == nil {
			t.Fatal("Expected nil repository error")
		}
	})

	t.Run("Get", func(t *testing.T) {
		got, err := tr.Get("users")
		if err != nil {
			t.Fatalf("Failed to get repository: %v", err)
		}
		if got != users {
			t.Fatal("Retrieved a different repository")
		}
		if _, err := tr.Get("missing"); err == nil {
			t.Fatal("Expected error for missing repository")
		}
	})

	t.Run("NamesAndRemove", func(t *testing.T) {
		if err := tr.Register("archive", newRepo[TestUser](t)); err != nil {
			t.Fatalf("Failed to register repository: %v", err)
		}
		if names := tr.Names(); strings.Join(names, ",") != "archive,users" {
			t.Fatalf("Expected [archive users], got %v", names)
		}
		if err := tr.Remove("archive"); err != nil {
			t.Fatalf("Failed to remove repository: %v", err)
		}
		if err := tr.Remove("archive"); err == nil {
			t.Fatal("Expected error removing a missing repository")
		}
	})
}

func TestRepositoriesByType(t *testing.T) {
	rs := NewRepositories()

	if err := Register(rs, "items", newRepo[TestUser](t)); err != nil {
		t.Fatalf("Failed to register user repository: %v", err)
	}
	if err := Register(rs, "items", newRepo[TestProduct](t)); err != nil {
		t.Fatalf("Same name for a different type should succeed: %v", err)
	}

	users, err := Get[TestUser](rs, "items")
	if err != nil || users == nil {
		t.Fatal("Failed to get user repository")
	}
	products, err := Get[TestProduct](rs, "items")
	if err != nil || products == nil {
		t.Fatal("Failed to get product repository")
	}
	if products.Metadata().HashKeyAttributeName() != "sku" {
		t.Fatalf("Expected product repository keyed by sku, got %s", products.Metadata().HashKeyAttributeName())
	}

	if For[*TestUser](rs) == nil || len(Names[*TestUser](rs)) != 0 {
		t.Fatal("Pointer types get their own registry entry")
	}

	if err := Remove[TestUser](rs, "items"); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}
	if len(Names[TestUser](rs)) != 0 || len(Names[TestProduct](rs)) != 1 {
		t.Fatal("Remove must only affect its own type")
	}

	ctx := context.Background()
	if err := products.Save(ctx, &TestProduct{SKU: "A-1", Price: 9.5}); err != nil {
		t.Fatalf("Save through registered repository failed: %v", err)
	}
	again, _ := Get[TestProduct](rs, "items")
	if p, err := again.FindByID(ctx, "A-1"); err != nil || p == nil || p.Price != 9.5 {
		t.Fatalf("Expected saved product, got %v (%v)", p, err)
	}
}

func TestRepositoriesConcurrentUse(t *testing.T) {
	rs := NewRepositories()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			if err := Register(rs, fmt.Sprintf("repo%d", id), newRepo[TestUser](t)); err != nil {
				t.Errorf("Register failed: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			Names[TestUser](rs)
		}()
	}
	wg.Wait()

	if names := Names[TestUser](rs); len(names) != 10 {
		t.Fatalf("Expected 10 repositories, got %d", len(names))
	}
}

func TestOpenRepositoryValidatesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AWS.Region = ""
	if _, err := OpenRepository[TestUser](context.Background(), cfg); err == nil {
		t.Fatal("Expected invalid configuration error")
	}

	cfg = config.DefaultConfig()
	cfg.Logging.Level = "chatty"
	if _, err := OpenRepository[TestUser](context.Background(), cfg); err == nil {
		t.Fatal("Expected invalid log level error")
	}
}

func TestVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version != Version {
		t.Fatalf("Expected version %s, got %s", Version, info.Version)
	}
	if info.GoVersion == "" {
		t.Fatal("GoVersion should default to the running toolchain")
	}
	if !strings.HasPrefix(info.String(), "dynamorepo "+Version) {
		t.Fatalf("Unexpected version string %q", info.String())
	}
}
