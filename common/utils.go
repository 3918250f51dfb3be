package common

// Coalesce returns the first argument that is not the zero value of T.
// With no non-zero argument it returns the zero value, so the last argument usually carries the default.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Number is the set of types Approach accepts.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Approach moves v toward target by at most step and never overshoots.
//
// Parameters:
//   - v: the current value
//   - target: the value to move toward
//   - step: the largest change allowed, expected to be non-negative
//
// Returns:
//   - T: the new value
func Approach[T Number](v, target, step T) T {
	if v < target {
		return min(v+step, target)
	}
	return max(v-step, target)
}
