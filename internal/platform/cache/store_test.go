package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreGetOrLoadCollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[string, string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errors.New("unexpected value " + v)
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStoreGetOrLoadReusesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore[int, int](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := store.GetOrLoad(context.Background(), 7, loader)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 42 {
			t.Fatalf("got %d, want 42", v)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStoreGetOrLoadDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string, string](time.Minute)
	var calls atomic.Int32
	boom := errors.New("upstream down")

	loader := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", boom
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("got err %v, want %v", err, boom)
	}

	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "recovered" {
		t.Fatalf("got %q, want %q", v, "recovered")
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore[string, int](10 * time.Millisecond)
	store.Set(context.Background(), "k", 1)

	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("fresh entry missing")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("expired entry still served")
	}
}

func TestStoreZeroTTLKeepsEntries(t *testing.T) {
	t.Parallel()

	store := NewStore[string, int](0)
	store.Set(context.Background(), "k", 1)

	time.Sleep(15 * time.Millisecond)

	v, ok := store.Get(context.Background(), "k")
	if !ok || v != 1 {
		t.Fatalf("got (%d, %t), want (1, true)", v, ok)
	}

	store.Delete(context.Background(), "k")
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("deleted entry still served")
	}
}
