// Package buffer decouples producers from the session loop.
package buffer

import "github.com/drake/gridbench/internal/logging"

// Unbounded creates a channel buffer that grows as needed. It returns a
// write-only channel to feed items in and a read-only channel to read them
// out. Closing in flushes the queue and then closes out.
//
// initialCap sizes the backing slice; hardLimit is the number of queued
// items beyond which the oldest is dropped.
//
//	in, out := buffer.Unbounded[event.Event](64, 10000, log)
//	in <- ev
//	ev = <-out
func Unbounded[T any](initialCap, hardLimit int, log *logging.Logger) (chan<- T, <-chan T) {
	in := make(chan T, 10)
	out := make(chan T, 10)

	go func() {
		defer close(out)

		queue := make([]T, 0, initialCap)
		dropped := 0
		for {
			var next T
			var downstream chan T
			if len(queue) > 0 {
				next = queue[0]
				downstream = out
			}

			select {
			case val, ok := <-in:
				if !ok {
					for _, item := range queue {
						out <- item
					}
					return
				}
				if len(queue) >= hardLimit {
					if dropped == 0 {
						log.Warnf("buffer: queue limit %d reached, dropping oldest items", hardLimit)
					}
					dropped++
					queue = queue[1:]
				}
				queue = append(queue, val)

			case downstream <- next:
				queue = queue[1:]
				if len(queue) == 0 && dropped > 0 {
					log.Warnf("buffer: dropped %d items", dropped)
					dropped = 0
				}
			}
		}
	}()

	return in, out
}
