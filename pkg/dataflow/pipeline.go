// Package dataflow provides small generic channel stages with bounded
// concurrency and retry.
package dataflow

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Stream is a read-only channel of items.
type Stream[T any] <-chan T

// From emits items in order, stopping early if ctx is cancelled.
func From[T any](ctx context.Context, items ...T) Stream[T] {
	out := make(chan T, len(items))
	go func() {
		defer close(out)
		for _, item := range items {
			if !send(ctx, out, item) {
				return
			}
		}
	}()
	return out
}

// Generate emits fn(0) .. fn(n-1).
func Generate[T any](ctx context.Context, n int, fn func(i int) T) Stream[T] {
	out := make(chan T)
	go func() {
		defer close(out)
		for i := 0; i < n; i++ {
			if !send(ctx, out, fn(i)) {
				return
			}
		}
	}()
	return out
}

// Map transforms every item with fn on the configured number of workers.
// Output order is not preserved when workers > 1. Items whose fn still
// fails after retries are passed to the error handler and dropped.
func Map[In, Out any](ctx context.Context, input Stream[In], fn func(context.Context, In) (Out, error), opts ...Option) Stream[Out] {
	cfg := newConfig(opts)
	out := make(chan Out, cfg.bufferSize)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}
				var res Out
				err := cfg.attempt(ctx, func() error {
					var err error
					res, err = fn(ctx, msg)
					return err
				})
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					cfg.handle(err)
					continue
				}
				if !send(ctx, out, res) {
					return
				}
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Filter keeps items for which keep returns true.
func Filter[T any](ctx context.Context, input Stream[T], keep func(T) bool, opts ...Option) Stream[T] {
	return Map(ctx, input, func(_ context.Context, msg T) (T, error) {
		if keep(msg) {
			return msg, nil
		}
		return msg, errSkip
	}, append(opts, WithErrorHandler(func(err error) bool {
		return errors.Is(err, errSkip)
	}))...)
}

var errSkip = errors.New("skip item")

// ForEach runs fn for every item and blocks until input is drained or ctx
// is done. The first unhandled error is returned after the stream drains.
func ForEach[T any](ctx context.Context, input Stream[T], fn func(context.Context, T) error, opts ...Option) error {
	cfg := newConfig(opts)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}
				err := cfg.attempt(ctx, func() error { return fn(ctx, msg) })
				if err != nil && !cfg.handle(err) {
					errOnce.Do(func() { firstErr = err })
				}
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return firstErr
}

// Collect drains input into a slice.
func Collect[T any](ctx context.Context, input Stream[T]) ([]T, error) {
	var out []T
	err := ForEach(ctx, input, func(_ context.Context, v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

// send reports false when ctx ended before v was accepted.
func send[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- v:
		return true
	}
}

func (c *config) attempt(ctx context.Context, call func() error) error {
	err := call()
	for i := 1; err != nil && i <= c.maxRetries; i++ {
		if c.backoff != nil {
			t := time.NewTimer(c.backoff(i))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		err = call()
	}
	return err
}

func (c *config) handle(err error) bool {
	if c.errorHandler == nil {
		return false
	}
	return c.errorHandler(err)
}
