package browse

import "sync"

// GenericErrorMessage is shown for every failure, whatever its cause
const GenericErrorMessage = "Something went wrong"

// ErrorEvent reports a failed fetch to the presentation layer
type ErrorEvent struct {
	Err     error
	Message string
}

// UserMessage returns the text shown to the user for err
func UserMessage(err error) string {
	return GenericErrorMessage
}

func newErrorEvent(err error) ErrorEvent {
	return ErrorEvent{Err: err, Message: UserMessage(err)}
}

// conflated is a single-slot channel where a send replaces any value the
// consumer has not received yet. Sends never block.
type conflated[T any] struct {
	mu sync.Mutex
	ch chan T
}

func newConflated[T any]() *conflated[T] {
	return &conflated[T]{ch: make(chan T, 1)}
}

func (c *conflated[T]) send(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.ch:
	default:
	}
	c.ch <- v
}

func (c *conflated[T]) recv() <-chan T {
	return c.ch
}
