// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/qissahq/qissa/internal/platform/constants"
)

// # Worker Pool

// Handler executes one claimed task. A nil return marks the task succeeded;
// an error schedules a retry or, once the attempt budget is spent, parks it
// as failed.
type Handler func(context context.Context, task *Task) error

// Options tunes the worker pool. Zero values select platform defaults.
type Options struct {
	// Workers is the number of concurrent claim loops.
	Workers int

	// Poll is how long an idle worker sleeps before checking the queue again.
	Poll time.Duration

	// RetryDelay is how long a failed task waits before its next attempt.
	RetryDelay time.Duration
}

// Worker drains the task queue with a fixed pool of goroutines.
type Worker struct {
	store    Store
	handlers map[string]Handler
	logger   *slog.Logger
	options  Options
}

// NewWorker constructs an idle worker pool; register handlers before Run.
func NewWorker(store Store, logger *slog.Logger, options Options) *Worker {
	if options.Workers <= 0 {
		options.Workers = 1
	}
	if options.Poll <= 0 {
		options.Poll = 2 * time.Second
	}
	if options.RetryDelay <= 0 {
		options.RetryDelay = constants.DefaultTaskRetryDelay
	}
	return &Worker{
		store:    store,
		handlers: make(map[string]Handler),
		logger:   logger,
		options:  options,
	}
}

// Register binds a handler to a task kind. Not safe to call after Run.
func (worker *Worker) Register(kind string, handler Handler) {
	worker.handlers[kind] = handler
}

/*
Run claims and executes tasks until the context is cancelled.

Description: Each goroutine loops claim-execute-settle. An empty queue backs
off for the poll interval; a claim error backs off the same way rather than
spinning against a broken database. Run blocks until every goroutine has
finished its in-flight task.

Parameters:
  - context: context.Context (cancellation stops the pool)
*/
func (worker *Worker) Run(context context.Context) {
	var group sync.WaitGroup
	for i := 0; i < worker.options.Workers; i++ {
		group.Add(1)
		go func() {
			defer group.Done()
			worker.loop(context)
		}()
	}
	group.Wait()
}

func (worker *Worker) loop(context context.Context) {
	for {
		select {
		case <-context.Done():
			return
		default:
		}

		task, err := worker.store.Claim(context)
		if err != nil {
			worker.logger.Error("task_claim_failed", slog.String("error", err.Error()))
			worker.idle(context)
			continue
		}
		if task == nil {
			worker.idle(context)
			continue
		}

		worker.execute(context, task)
	}
}

func (worker *Worker) idle(context context.Context) {
	timer := time.NewTimer(worker.options.Poll)
	defer timer.Stop()
	select {
	case <-context.Done():
	case <-timer.C:
	}
}

func (worker *Worker) execute(context context.Context, task *Task) {
	logger := worker.logger.With(
		slog.String("task_id", task.ID),
		slog.String("kind", task.Kind),
		slog.Int("attempt", task.Attempts),
	)

	err := worker.dispatch(context, task)
	if err == nil {
		if markErr := worker.store.MarkSucceeded(context, task.ID); markErr != nil {
			logger.Error("task_settle_failed", slog.String("error", markErr.Error()))
		}
		logger.Info("task_succeeded")
		return
	}

	// Unknown kinds and exhausted budgets both park the task; anything else
	// goes back on the queue after the retry delay.
	if task.Exhausted() || worker.handlers[task.Kind] == nil {
		if markErr := worker.store.MarkFailed(context, task.ID, err.Error()); markErr != nil {
			logger.Error("task_settle_failed", slog.String("error", markErr.Error()))
		}
		logger.Error("task_failed", slog.String("error", err.Error()))
		return
	}

	if retryErr := worker.store.Retry(context, task.ID, worker.options.RetryDelay, err.Error()); retryErr != nil {
		logger.Error("task_settle_failed", slog.String("error", retryErr.Error()))
	}
	logger.Warn("task_retry_scheduled",
		slog.String("error", err.Error()),
		slog.Duration("delay", worker.options.RetryDelay),
	)
}

func (worker *Worker) dispatch(context context.Context, task *Task) (err error) {
	handler, ok := worker.handlers[task.Kind]
	if !ok {
		return fmt.Errorf("tasks: no handler registered for kind %q", task.Kind)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("tasks: handler panic: %v\n%s", recovered, debug.Stack())
		}
	}()

	return handler(context, task)
}
