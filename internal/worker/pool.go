package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines. Results arrive in
// completion order, not submission order.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool whose jobs run under ctx. Canceling ctx has the
// same effect as Shutdown.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false if the pool was shut down first.
// Results must be drained (Wait or Results) concurrently once the queue fills.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Results exposes the result channel; it is closed after Wait or Shutdown
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close signals that no more jobs will be submitted and closes the result
// channel once every worker has exited
func (p *Pool) Close() {
	close(p.jobQueue)
	go func() {
		p.wg.Wait()
		p.closeResults()
		p.cancelFunc()
	}()
}

// Wait closes the queue and collects every remaining result
func (p *Pool) Wait() []Result {
	p.Close()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown stops the workers without waiting for queued jobs
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
