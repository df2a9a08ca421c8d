package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification for the kiosk UI.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a notification stays visible when the caller
// does not choose one.
const DefaultDuration = 3 * time.Second

// Notification is a transient user-facing message.
type Notification struct {
	Message  string
	Kind     Kind
	Duration time.Duration
}

// Queue holds at most one visible notification. Enqueue replaces the
// current one (newest wins, no stacking); a notification not explicitly
// dismissed expires after its duration. Expiry is a cooperative timer, not
// a hard guarantee.
type Queue struct {
	mu      sync.Mutex
	current *Notification
	timer   *time.Timer

	// seq invalidates expiry timers belonging to replaced notifications.
	seq uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue shows a notification, replacing any currently visible one and
// cancelling its pending expiry.
func (q *Queue) Enqueue(message string, kind Kind, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultDuration
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}

	q.seq++
	seq := q.seq
	q.current = &Notification{
		Message:  message,
		Kind:     kind,
		Duration: duration,
	}

	q.timer = time.AfterFunc(duration, func() {
		q.expire(seq)
	})
}

func (q *Queue) expire(seq uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if seq != q.seq {
		return // a newer notification replaced this one
	}
	q.current = nil
	q.timer = nil
}

// Dismiss removes the current notification immediately and cancels its
// pending expiry.
func (q *Queue) Dismiss() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.seq++
	q.current = nil
}

// Current returns the visible notification, or nil.
func (q *Queue) Current() *Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return nil
	}
	cp := *q.current
	return &cp
}
