package tasks

import (
	"context"
	"log/slog"
	"sync"
)

const DefaultConcurrency = 4

// Pool executes a fixed batch of tasks on a bounded number of workers.
// Every task is executed exactly once, cancelled or not.
type Pool struct {
	workerCount int
	failFast    bool
}

func NewPool(workerCount int, failFast bool) *Pool {
	if workerCount <= 0 {
		workerCount = DefaultConcurrency
	}
	return &Pool{workerCount: workerCount, failFast: failFast}
}

// Run blocks until all tasks have finished. With failFast the first task
// error cancels the context seen by the remaining tasks and is returned.
func (p *Pool) Run(ctx context.Context, tasks []TaskInterface) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	taskQueue := make(chan TaskInterface, len(tasks))
	for _, task := range tasks {
		taskQueue <- task
	}
	close(taskQueue)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	workers := min(p.workerCount, len(tasks))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for task := range taskQueue {
				if err := p.executeTask(ctx, id, task); err != nil && p.failFast {
					once.Do(func() {
						firstErr = err
						cancel()
					})
				}
			}
		}(i)
	}

	wg.Wait()

	return firstErr
}

func (p *Pool) executeTask(ctx context.Context, workerID int, task TaskInterface) error {
	task.Start()

	err := task.Execute(ctx)
	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "error", err)
	}

	return err
}
