package provider

import (
	"context"
	"sync"
)

// Iterator provides pull-based sequential access to a stream of values.
// The consumer calls Next() to retrieve values one at a time.
// Close must be called when done to release resources.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Item is one element delivered through a ChanIterator.
type Item[T any] struct {
	Value T
	Err   error
}

// ChanIterator is an Iterator fed by a producer goroutine over a channel.
// The producer sends Items and closes the channel when finished; an Item
// carrying an error ends iteration with that error.
type ChanIterator[T any] struct {
	items  <-chan Item[T]
	cancel context.CancelFunc

	mu   sync.Mutex
	err  error
	done bool
}

// NewChanIterator wraps items. cancel is called on Close to stop the
// producer and may be nil.
func NewChanIterator[T any](items <-chan Item[T], cancel context.CancelFunc) *ChanIterator[T] {
	return &ChanIterator[T]{items: items, cancel: cancel}
}

// Next blocks until the producer delivers a value, the channel closes, or
// ctx is done.
func (it *ChanIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	it.mu.Lock()
	if it.done {
		err := it.err
		it.mu.Unlock()
		return zero, false, err
	}
	it.mu.Unlock()

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case item, ok := <-it.items:
		if !ok {
			it.finish(nil)
			return zero, false, nil
		}
		if item.Err != nil {
			it.finish(item.Err)
			return zero, false, item.Err
		}
		return item.Value, true, nil
	}
}

// Close stops the producer. Further calls to Next report exhaustion.
func (it *ChanIterator[T]) Close() error {
	it.finish(nil)
	if it.cancel != nil {
		it.cancel()
	}
	return nil
}

func (it *ChanIterator[T]) finish(err error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if !it.done {
		it.done = true
		it.err = err
	}
}

// Collect drains it into a slice and closes it.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Close()
	var out []T
	for {
		v, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
