package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/arthouse/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, model.Film{ID: "persona"}) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	job := <-q.Dequeue(ctx)
	if job.ID != "persona" {
		t.Errorf("expected persona, got %v", job.ID)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, model.Film{ID: "a"}) || !q.Enqueue(ctx, model.Film{ID: "b"}) {
		t.Fatal("expected first two enqueues to succeed")
	}
	if q.Enqueue(ctx, model.Film{ID: "c"}) {
		t.Error("expected enqueue beyond capacity to fail")
	}

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := q.EnqueueWait(waitCtx, model.Film{ID: "c"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestInMemoryQueue_EnqueueWaitUnblocksOnDrain(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := q.EnqueueWait(ctx, model.Film{ID: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- q.EnqueueWait(ctx, model.Film{ID: "b"}) }()

	jobs := q.Dequeue(ctx)
	got := []string{(<-jobs).ID, (<-jobs).ID}
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
	if err := <-errCh; err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInMemoryQueue_EnqueueWaitUnblocksOnClose(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()
	_ = q.EnqueueWait(ctx, model.Film{ID: "a"})

	errCh := make(chan error, 1)
	go func() { errCh <- q.EnqueueWait(ctx, model.Film{ID: "b"}) }()
	time.Sleep(10 * time.Millisecond)

	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked sender was not released by Close")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	const producers, perProducer = 4, 250
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				if err := q.EnqueueWait(ctx, model.Film{ID: fmt.Sprintf("p%d-%d", p, i)}); err != nil {
					t.Errorf("enqueue: %v", err)
					return
				}
			}
		}()
	}

	seen := make(chan string, producers*perProducer)
	var consumers sync.WaitGroup
	for range 3 {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for job := range q.Dequeue(ctx) {
				seen <- job.ID
			}
		}()
	}

	wg.Wait()
	_ = q.Close()
	consumers.Wait()
	close(seen)

	unique := map[string]bool{}
	for id := range seen {
		unique[id] = true
	}
	if len(unique) != producers*perProducer {
		t.Errorf("expected %d distinct jobs, got %d", producers*perProducer, len(unique))
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, model.Film{ID: "a"}) || !q.Enqueue(ctx, model.Film{ID: "b"}) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, model.Film{ID: "c"}) {
		t.Error("expected enqueue to fail after closing")
	}

	// Buffered jobs drain before the channel closes.
	var drained []string
	timeout := time.After(time.Second)
	jobs := q.Dequeue(ctx)
	for done := false; !done; {
		select {
		case job, ok := <-jobs:
			if !ok {
				done = true
				break
			}
			drained = append(drained, job.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to close")
		}
	}
	if len(drained) != 2 {
		t.Errorf("expected 2 drained jobs, got %v", drained)
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
