package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeResult struct {
	err error
}

func (r *fakeResult) Err() error { return r.err }

type fakeJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *atomic.Int32
}

func (j *fakeJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		j.executed.Add(1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &fakeResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &fakeResult{err: errors.New("job error")}
	}
	return &fakeResult{}
}

func TestNewPool_WorkerFloor(t *testing.T) {
	if got := NewPool(5).workers; got != 5 {
		t.Errorf("expected 5 workers, got %d", got)
	}
	if got := NewPool(0).workers; got != 1 {
		t.Errorf("expected 1 worker for 0 input, got %d", got)
	}
	if got := NewPool(-3).workers; got != 1 {
		t.Errorf("expected 1 worker for negative input, got %d", got)
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var executed atomic.Int32
	count := 10
	for i := 0; i < count; i++ {
		pool.Submit(&fakeJob{executed: &executed})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if executed.Load() != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed.Load())
	}
}

func TestPool_LargeBatchDoesNotDeadlock(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var executed atomic.Int32
	count := 500
	done := make(chan []Result)
	go func() {
		for i := 0; i < count; i++ {
			pool.Submit(&fakeJob{executed: &executed})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if len(results) != count {
			t.Errorf("expected %d results, got %d", count, len(results))
		}
	case <-time.After(10 * time.Second):
		t.Fatal("pool deadlocked on a large batch")
	}
}

func TestPool_ReportsJobErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&fakeJob{shouldErr: true})
	pool.Submit(&fakeJob{})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failed := 0
	for _, res := range results {
		if res.Err() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failed job, got %d", failed)
	}
}

func TestPool_ShutdownStopsWorkers(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	pool.Submit(&fakeJob{duration: time.Second})
	time.Sleep(10 * time.Millisecond)
	pool.Shutdown()

	// Submit after shutdown must not block.
	done := make(chan struct{})
	go func() {
		pool.Submit(&fakeJob{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after Shutdown")
	}
}
