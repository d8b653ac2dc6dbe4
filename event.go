package geode

// Event is a synchronous multicast callback list. Listeners are invoked in
// connection order. Connecting or disconnecting a listener during Emit is
// safe: the in-flight Emit delivers to the listener set captured when it
// started, and the change takes effect for the next Emit.
//
// Event is not safe for concurrent use; geode is single-threaded and all
// delivery happens on the frame tick.
type Event[T any] struct {
	listeners []eventListener[T]
	nextID    int
}

type eventListener[T any] struct {
	id int
	fn func(T)
}

// Connect registers fn and returns a disconnect function. Calling the
// disconnect function more than once is a no-op.
func (e *Event[T]) Connect(fn func(T)) (disconnect func()) {
	if fn == nil {
		panic("geode: cannot connect a nil listener")
	}
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, eventListener[T]{id: id, fn: fn})
	return func() {
		for i, l := range e.listeners {
			if l.id == id {
				// Rebuild the slice rather than shifting in place so an
				// in-flight Emit keeps iterating its original snapshot.
				next := make([]eventListener[T], 0, len(e.listeners)-1)
				next = append(next, e.listeners[:i]...)
				next = append(next, e.listeners[i+1:]...)
				e.listeners = next
				return
			}
		}
	}
}

// Emit delivers v to every connected listener.
func (e *Event[T]) Emit(v T) {
	for _, l := range e.listeners {
		l.fn(v)
	}
}

// NumListeners returns the number of connected listeners.
func (e *Event[T]) NumListeners() int {
	return len(e.listeners)
}
