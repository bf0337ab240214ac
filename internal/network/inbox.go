package network

import "sync"

// inbox queues received chunks from a reader goroutine until the frame loop
// collects them.
type inbox struct {
	chunks [][]byte
	mu     sync.Mutex
}

func (q *inbox) Push(data []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.chunks = append(q.chunks, data)
}

// Pop removes the oldest chunk, or returns nil if there is none.
func (q *inbox) Pop() []byte {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.chunks) == 0 {
		return nil
	}
	next := q.chunks[0]
	q.chunks[0] = nil
	q.chunks = q.chunks[1:]
	return next
}

func (q *inbox) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chunks)
}
