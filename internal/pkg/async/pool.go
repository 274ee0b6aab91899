// Package async runs a batch of named tasks on a bounded set of workers and
// collects each task's outcome under its name.
package async

import (
	"context"
	"sync"
)

// Task is one unit of work. Name keys the result in the map Execute returns,
// so it must be unique within a batch.
type Task struct {
	Name    string
	Execute func() (interface{}, error)
}

// Result is the outcome of a single task.
type Result struct {
	Name string
	Data interface{}
	Err  error
}

// Pool bounds how many tasks run concurrently. A Pool is reusable.
type Pool struct {
	workerCount int
}

func NewPool(workerCount int) *Pool {
	return &Pool{workerCount: workerCount}
}

// Execute runs the batch and blocks until every task has finished or the
// context is cancelled. On cancellation the map holds whatever results were
// collected before the cut-off.
func (p *Pool) Execute(ctx context.Context, tasks []Task) map[string]Result {
	pending := make(chan Task)
	// Buffered so workers never block handing over a result after the
	// collector has given up on a cancelled context.
	done := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case task, ok := <-pending:
					if !ok {
						return
					}
					data, err := task.Execute()
					done <- Result{Name: task.Name, Data: data, Err: err}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(pending)
		for _, task := range tasks {
			select {
			case pending <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make(map[string]Result, len(tasks))
	for range tasks {
		select {
		case result := <-done:
			results[result.Name] = result
		case <-ctx.Done():
			return results
		}
	}

	wg.Wait()
	return results
}
