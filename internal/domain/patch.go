package domain

// Patch represents a three-state optional update value: absent (leave the
// field untouched), clear (set the field to nothing), or set to a value.
// The zero Patch is absent.
type Patch[T any] struct {
	present bool
	clear   bool
	value   T
}

// SetTo returns a patch that sets the field to v.
func SetTo[T any](v T) Patch[T] {
	return Patch[T]{present: true, value: v}
}

// Clear returns a patch that clears the field.
func Clear[T any]() Patch[T] {
	return Patch[T]{present: true, clear: true}
}

// IsSet reports whether the patch carries any instruction at all.
func (p Patch[T]) IsSet() bool {
	return p.present
}

// IsClear reports whether the patch clears the field.
func (p Patch[T]) IsClear() bool {
	return p.present && p.clear
}

// Value returns the patch value and whether it holds one.
func (p Patch[T]) Value() (T, bool) {
	if !p.present || p.clear {
		var zero T
		return zero, false
	}
	return p.value, true
}

// ApplyPtr applies the patch to a pointer field, returning the new value.
// Absent returns current unchanged, clear returns nil, set returns &value.
func (p Patch[T]) ApplyPtr(current *T) *T {
	if !p.present {
		return current
	}
	if p.clear {
		return nil
	}
	v := p.value
	return &v
}
