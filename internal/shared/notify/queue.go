// Package notify carries non-blocking operator notices from the engine to
// its UI callers. The engine never blocks on confirmation; it pushes a
// notice and moves on, and the UI drains the queue when it wants to.
package notify

import "sync"

// Level grades a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is one message for the operator.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Queue is a bounded FIFO of notices. When full, the oldest notice is
// dropped: a stale notice is worth less than a fresh one.
type Queue struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
}

// NewQueue builds a queue holding at most limit notices.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 32
	}
	return &Queue{limit: limit}
}

// Push appends a notice, evicting the oldest when the queue is full.
func (q *Queue) Push(level Level, message string) {
	if message == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.notices) >= q.limit {
		q.notices = q.notices[1:]
	}
	q.notices = append(q.notices, Notice{Level: level, Message: message})
}

// Drain returns every pending notice and empties the queue.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.notices
	q.notices = nil
	return drained
}

// Len returns the number of pending notices.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.notices)
}
