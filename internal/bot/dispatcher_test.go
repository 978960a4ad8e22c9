package bot

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDispatcher_SerializesPerIdentity(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	d := newDispatcher[int](1000, 1000, func(ctx context.Context, identity string, item int) {
		mu.Lock()
		got = append(got, item)
		n := len(got)
		mu.Unlock()
		if n == 10 {
			close(done)
		}
	})

	for i := 0; i < 10; i++ {
		if !d.submit(ctx, "u1", i) {
			t.Fatalf("submit %d rejected", i)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handlers")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, got)
		}
	}
}

func TestDispatcher_IdentitiesRunIndependently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gate := make(chan struct{})
	fastDone := make(chan struct{})

	d := newDispatcher[string](1000, 1000, func(ctx context.Context, identity string, item string) {
		switch identity {
		case "slow":
			<-gate
		case "fast":
			close(fastDone)
		}
	})

	if !d.submit(ctx, "slow", "a") {
		t.Fatal("slow submit rejected")
	}
	if !d.submit(ctx, "fast", "b") {
		t.Fatal("fast submit rejected")
	}

	// The fast identity must complete while the slow one is blocked.
	select {
	case <-fastDone:
	case <-time.After(5 * time.Second):
		t.Fatal("fast identity starved by slow identity")
	}
	close(gate)
}

func TestDispatcher_ThrottlesPerIdentity(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	block := make(chan struct{})
	defer close(block)
	d := newDispatcher[int](0, 2, func(ctx context.Context, identity string, item int) {
		<-block
	})

	if !d.submit(ctx, "u", 1) || !d.submit(ctx, "u", 2) {
		t.Fatal("within-burst submits rejected")
	}
	if d.submit(ctx, "u", 3) {
		t.Fatal("over-burst submit accepted")
	}

	// Another identity has its own bucket.
	if !d.submit(ctx, "v", 1) {
		t.Fatal("independent identity throttled")
	}
}

func TestDispatcher_WaitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	d := newDispatcher[int](1000, 1000, func(ctx context.Context, identity string, item int) {})
	d.submit(ctx, "u", 1)

	cancel()
	finished := make(chan struct{})
	go func() {
		d.wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not return after cancel")
	}
}

func TestDispatcher_CoercesBurst(t *testing.T) {
	d := newDispatcher[int](1, 0, func(ctx context.Context, identity string, item int) {})
	if d.burst != 1 {
		t.Fatalf("burst = %d, want 1", d.burst)
	}
}
