package input

import "sync"

// maxQueued bounds the events kept between two polls.
const maxQueued = 64

// Queue is a Source fed by a driver goroutine.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// Push appends events, dropping the oldest when the queue is full.
func (q *Queue) Push(events ...Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, events...)
	if over := len(q.events) - maxQueued; over > 0 {
		q.events = append(q.events[:0], q.events[over:]...)
	}
}

// PollEvents drains the queue.
func (q *Queue) PollEvents() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}
