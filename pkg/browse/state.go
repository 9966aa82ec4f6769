package browse

import "slices"

// State is a snapshot of a controller's list
type State[T any] struct {
	Items     []T
	Token     Token
	IsLoading bool
}

// HasMore reports whether LoadMore may fetch another page
func (s State[T]) HasMore() bool {
	return !IsNone(s.Token)
}

func (s State[T]) clone() State[T] {
	s.Items = slices.Clone(s.Items)
	return s
}
