package optional

// Optional is a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	present bool
	value   T
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

// Value returns the contained value, or the zero value of T when absent.
func (o Optional[T]) Value() T {
	return o.value
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
