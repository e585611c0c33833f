package dataflow

import (
	"context"
	"sync"
)

// Merge interleaves values from every input until all of them are closed
// or ctx is done. Order across inputs is not preserved.
func Merge[T any](ctx context.Context, inputs ...Stream[T]) Stream[T] {
	out := make(chan T)

	var wg sync.WaitGroup
	forward := func(in Stream[T]) {
		defer wg.Done()
		for v := range in {
			if !send(ctx, out, v) {
				return
			}
		}
	}
	for _, in := range inputs {
		wg.Add(1)
		go forward(in)
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
