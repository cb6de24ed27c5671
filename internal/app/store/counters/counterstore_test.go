package counterstore_test

import (
	"strings"
	"sync"
	"testing"

	counterstore "github.com/shulehub/shulehub/internal/app/store/counters"
	"github.com/shulehub/shulehub/internal/testutil"
)

func TestNext_Sequential(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := counterstore.New(db)

	for want := int64(1); want <= 3; want++ {
		got, err := store.Next(ctx, "test_counter")
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if got != want {
			t.Errorf("Next = %d, want %d", got, want)
		}
	}
}

func TestNext_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := counterstore.New(db)

	const workers = 10
	results := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := store.Next(ctx, "concurrent_counter")
			if err != nil {
				t.Errorf("Next failed: %v", err)
				return
			}
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for n := range results {
		if seen[n] {
			t.Errorf("duplicate sequence number %d", n)
		}
		seen[n] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d distinct values, got %d", workers, len(seen))
	}
}

func TestNextAdmissionNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := counterstore.New(db)

	first, err := store.NextAdmissionNumber(ctx)
	if err != nil {
		t.Fatalf("NextAdmissionNumber failed: %v", err)
	}
	if first != "ZOE-1" {
		t.Errorf("expected ZOE-1, got %q", first)
	}

	second, err := store.NextAdmissionNumber(ctx)
	if err != nil {
		t.Fatalf("NextAdmissionNumber failed: %v", err)
	}
	if second != "ZOE-2" {
		t.Errorf("expected ZOE-2, got %q", second)
	}
}

func TestNextApplicationNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := counterstore.New(db)

	n, err := store.NextApplicationNumber(ctx)
	if err != nil {
		t.Fatalf("NextApplicationNumber failed: %v", err)
	}
	if !strings.HasPrefix(n, "APP-") || !strings.HasSuffix(n, "-00001") {
		t.Errorf("unexpected application number %q", n)
	}
}
