package rule

// Value is a node attribute that is either a constant or computed from the
// node it is applied to.
type Value[N, T any] struct {
	constant T
	fn       func(N) T
}

// Const returns a Value that always resolves to v.
func Const[N, T any](v T) Value[N, T] {
	return Value[N, T]{constant: v}
}

// Computed returns a Value that resolves by calling fn with the node.
func Computed[N, T any](fn func(N) T) Value[N, T] {
	return Value[N, T]{fn: fn}
}

// Resolve returns the attribute for n.
func (v Value[N, T]) Resolve(n N) T {
	if v.fn != nil {
		return v.fn(n)
	}
	return v.constant
}

// IsComputed reports whether the value depends on the node.
func (v Value[N, T]) IsComputed() bool { return v.fn != nil }

// Constant returns the constant and true, or the zero value and false for a
// computed Value.
func (v Value[N, T]) Constant() (T, bool) {
	if v.fn != nil {
		var zero T
		return zero, false
	}
	return v.constant, true
}
