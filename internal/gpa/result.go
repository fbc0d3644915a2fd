package gpa

// Result holds a backend value or records that the backend reported it
// as not found.
type Result[T any] struct {
	value T
	found bool
}

func Found[T any](value T) Result[T] {
	return Result[T]{value: value, found: true}
}

func NotFound[T any]() Result[T] {
	return Result[T]{}
}

// Get returns the value and whether it was found
func (r Result[T]) Get() (T, bool) {
	return r.value, r.found
}

func (r Result[T]) IsFound() bool {
	return r.found
}

// OrElse returns the value, or fallback when not found
func (r Result[T]) OrElse(fallback T) T {
	if !r.found {
		return fallback
	}
	return r.value
}
