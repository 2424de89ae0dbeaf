package retriever

// Gate is a single-slot trigger. Any number of Signal calls made before
// the waiter consumes the slot collapse into one pending wakeup.
type Gate struct {
	ch chan struct{}
}

// NewGate returns a gate with nothing pending.
func NewGate() *Gate {
	return &Gate{ch: make(chan struct{}, 1)}
}

// Signal marks a wakeup pending. It never blocks.
func (g *Gate) Signal() {
	select {
	case g.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until a wakeup is pending and consumes it.
func (g *Gate) Wait() {
	<-g.ch
}

// Pending reports whether a wakeup is waiting to be consumed.
func (g *Gate) Pending() bool {
	return len(g.ch) > 0
}
