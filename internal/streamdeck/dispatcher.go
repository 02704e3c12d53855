package streamdeck

import "sync"

const queueSize = 64

// dispatcher runs one queue per key context. Work for a context runs in
// arrival order; different contexts run concurrently.
type dispatcher struct {
	mu     sync.Mutex
	queues map[string]*queue
	// retired holds the done channel of a context's last closed queue
	// until its worker has drained it.
	retired map[string]chan struct{}
	wg      sync.WaitGroup
}

type queue struct {
	work chan func()
	done chan struct{}
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		queues:  make(map[string]*queue),
		retired: make(map[string]chan struct{}),
	}
}

// dispatch enqueues fn for contextID. When last is true the queue is
// retired after fn. A later event for the same context starts a new queue
// whose worker waits for the retired one to drain first.
func (d *dispatcher) dispatch(contextID string, fn func(), last bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[contextID]
	if !ok {
		q = &queue{
			work: make(chan func(), queueSize),
			done: make(chan struct{}),
		}
		prev := d.retired[contextID]
		delete(d.retired, contextID)
		d.queues[contextID] = q
		d.wg.Add(1)
		go d.run(contextID, q, prev)
	}

	q.work <- fn
	if last {
		delete(d.queues, contextID)
		close(q.work)
		d.retired[contextID] = q.done
	}
}

func (d *dispatcher) run(contextID string, q *queue, prev <-chan struct{}) {
	defer d.wg.Done()

	if prev != nil {
		<-prev
	}
	for fn := range q.work {
		fn()
	}
	// Closed before taking the lock: a successor may be waiting on it while
	// dispatch holds d.mu.
	close(q.done)

	d.mu.Lock()
	if d.retired[contextID] == q.done {
		delete(d.retired, contextID)
	}
	d.mu.Unlock()
}

// stop retires every queue and waits for queued work to finish.
func (d *dispatcher) stop() {
	d.mu.Lock()
	for id, q := range d.queues {
		close(q.work)
		delete(d.queues, id)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
