// Package iterator cycles through a fixed list of values.
package iterator

// Iterator hands out Items in round-robin order, starting with the first.
// It is not safe for concurrent use.
type Iterator[T any] struct {
	Items []T
	index int
}

func (it *Iterator[T]) Next() T {
	n := len(it.Items)
	if n == 0 {
		var zero T
		return zero
	}
	v := it.Items[it.index%n]
	it.index = (it.index + 1) % n
	return v
}

// Peek returns the value the next call to Next will return.
func (it *Iterator[T]) Peek() T {
	n := len(it.Items)
	if n == 0 {
		var zero T
		return zero
	}
	return it.Items[it.index%n]
}
