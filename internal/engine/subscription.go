package engine

const subscriptionBuffer = 16

// Subscription delivers engine snapshots to one consumer. Sends never
// block: when the consumer lags, intermediate snapshots are dropped and
// the consumer catches up on the next one.
type Subscription struct {
	C  <-chan Snapshot
	ch chan Snapshot
}

// Subscribe registers a new snapshot consumer, primed with the current
// state so it can render immediately.
func (e *Engine) Subscribe() *Subscription {
	snap := e.Snapshot()

	sub := &Subscription{ch: make(chan Snapshot, subscriptionBuffer)}
	sub.C = sub.ch

	e.subsMu.Lock()
	e.subs = append(e.subs, sub)
	e.subsMu.Unlock()

	sub.send(snap)
	return sub
}

// Unsubscribe removes a previously registered consumer.
func (e *Engine) Unsubscribe(sub *Subscription) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for i, s := range e.subs {
		if s == sub {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

func (e *Engine) notify(snap Snapshot) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		sub.send(snap)
	}
}

func (s *Subscription) send(snap Snapshot) {
	select {
	case s.ch <- snap:
	default:
	}
}
