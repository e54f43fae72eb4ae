package worker

import (
	"context"
	"sync"
)

// Job is a unit of work, such as verifying one claim from a batch file.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	Err() error
}

// Pool runs jobs on a fixed number of workers. Each worker owns its own
// session state, so jobs never share mutable state. Results accumulate in a
// collector rather than a channel, so submission never deadlocks against
// result delivery regardless of batch size.
type Pool struct {
	workers   int
	jobs      chan Job
	collector resultCollector
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// resultCollector accumulates results as workers finish.
type resultCollector struct {
	mu      sync.Mutex
	results []Result
}

func (c *resultCollector) add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

func (c *resultCollector) all() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.collector.add(job.Execute(p.ctx))
		}
	}
}

// Submit queues a job. Submissions after Shutdown are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for all workers, and returns every result.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	return p.collector.all()
}

// Shutdown stops the pool without waiting for queued jobs.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
