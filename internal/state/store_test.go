package state

import (
	"strconv"
	"sync"
	"testing"
)

// TestNewSQLiteStore tests store creation
func TestNewSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(DefaultOptions(":memory:"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	if _, err := store.Get("test", "k"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on an empty store, got %v", err)
	}
}

// TestNewSQLiteStore_FileBackend checks that data survives a reopen
func TestNewSQLiteStore_FileBackend(t *testing.T) {
	path := t.TempDir() + "/test.db"

	store, err := NewSQLiteStore(DefaultOptions(path))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.CreateBucket("test"); err != nil {
		t.Fatalf("create bucket: %v", err)
	}
	if err := store.Set("test", "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	store.Close()

	store2, err := NewSQLiteStore(DefaultOptions(path))
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer store2.Close()

	got, err := store2.Get("test", "k")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("expected v, got %q", got)
	}
	if err := store2.CreateBucket("test"); err != ErrBucketExists {
		t.Errorf("expected bucket to survive reopen, got %v", err)
	}
}

// TestBucketOperations tests bucket creation
func TestBucketOperations(t *testing.T) {
	store, _ := NewSQLiteStore(DefaultOptions(":memory:"))
	defer store.Close()

	if err := store.CreateBucket("test"); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}
	if err := store.CreateBucket("test"); err != ErrBucketExists {
		t.Errorf("expected ErrBucketExists, got %v", err)
	}
	if err := store.CreateBucket("alpha"); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}
}

// TestKeyValueOperations tests basic get/set/delete
func TestKeyValueOperations(t *testing.T) {
	store, _ := NewSQLiteStore(DefaultOptions(":memory:"))
	defer store.Close()
	store.CreateBucket("test")

	if err := store.Set("test", "key1", []byte("value1")); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	val, err := store.Get("test", "key1")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", val)
	}

	if err := store.Set("test", "key1", []byte("value2")); err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	val, _ = store.Get("test", "key1")
	if string(val) != "value2" {
		t.Errorf("expected value2, got %s", val)
	}

	if _, err := store.Get("test", "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.Delete("test", "key1"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := store.Get("test", "key1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete("test", "key1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSetRequiresBucket(t *testing.T) {
	store, _ := NewSQLiteStore(DefaultOptions(":memory:"))
	defer store.Close()

	if err := store.Set("nope", "k", []byte("v")); err != ErrBucketMissing {
		t.Errorf("expected ErrBucketMissing, got %v", err)
	}
	if _, err := store.Get("nope", "k"); err != ErrNotFound {
		t.Errorf("failed write must not store anything, got %v", err)
	}
}

// TestClosedStore tests operations on a closed store
func TestClosedStore(t *testing.T) {
	store, _ := NewSQLiteStore(DefaultOptions(":memory:"))
	store.CreateBucket("test")
	store.Close()

	if _, err := store.Get("test", "key"); err != ErrStoreClosed {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if err := store.Set("test", "key", []byte("v")); err != ErrStoreClosed {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if err := store.Delete("test", "key"); err != ErrStoreClosed {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("double close should be a no-op, got %v", err)
	}
}

// TestConcurrency tests concurrent access
func TestConcurrency(t *testing.T) {
	store, _ := NewSQLiteStore(DefaultOptions(":memory:"))
	defer store.Close()
	store.CreateBucket("test")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if err := store.Set("test", "shared", []byte(strconv.Itoa(i))); err != nil {
					t.Errorf("set: %v", err)
					return
				}
				store.Get("test", "shared")
			}
		}(i)
	}
	wg.Wait()

	got, err := store.Get("test", "shared")
	if err != nil {
		t.Fatalf("get after concurrent writes: %v", err)
	}
	if n, err := strconv.Atoi(string(got)); err != nil || n < 0 || n > 9 {
		t.Errorf("unexpected value after concurrent writes: %q", got)
	}
}
