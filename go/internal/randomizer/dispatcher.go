package randomizer

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// dispatcher delivers events to observers in enqueue order on its own goroutine.
// enqueue never blocks, so it is safe to call with the session lock held.
type dispatcher struct {
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []Event
	observers []Observer
	closed    bool
	done      chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{done: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

func (d *dispatcher) subscribe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

func (d *dispatcher) enqueue(e Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.queue = append(d.queue, e)
	d.cond.Signal()
}

// close delivers whatever is queued, then stops the goroutine and waits for it.
func (d *dispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Signal()
	d.mu.Unlock()
	<-d.done
}

func (d *dispatcher) run() {
	defer close(d.done)

	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 && d.closed {
			d.mu.Unlock()
			return
		}
		e := d.queue[0]
		d.queue = d.queue[1:]
		observers := make([]Observer, len(d.observers))
		copy(observers, d.observers)
		d.mu.Unlock()

		for _, o := range observers {
			deliver(o, e)
		}
	}
}

func deliver(o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("event_type", string(e.Type)).
				Msg("session observer panicked")
		}
	}()
	o.OnSessionEvent(e)
}
