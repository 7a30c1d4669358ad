package util

// Ptr returns a pointer to a copy of v, for optional fields such as
// per-field depth limits.
func Ptr[T any](v T) *T {
	return &v
}
