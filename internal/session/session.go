// Package session tracks per-conversation state between messages.
package session

import "sync"

// Edits holds at most one pending text edit per conversation. An entry is
// created by an edit command and consumed by the next message in the same
// conversation. It lives in memory only; pending edits are lost on restart.
type Edits struct {
	mu      sync.Mutex
	pending map[int64]int64 // chat ID -> task ID
}

// NewEdits creates an empty edit registry
func NewEdits() *Edits {
	return &Edits{pending: make(map[int64]int64)}
}

// Begin marks taskID as awaiting new text in chatID, replacing any earlier entry
func (e *Edits) Begin(chatID, taskID int64) {
	e.mu.Lock()
	e.pending[chatID] = taskID
	e.mu.Unlock()
}

// Take removes and returns the pending task for chatID
func (e *Edits) Take(chatID int64) (taskID int64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	taskID, ok = e.pending[chatID]
	if ok {
		delete(e.pending, chatID)
	}
	return taskID, ok
}

// Pending returns the task awaiting text in chatID without consuming it
func (e *Edits) Pending(chatID int64) (taskID int64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	taskID, ok = e.pending[chatID]
	return taskID, ok
}

// Len returns the number of conversations with a pending edit
func (e *Edits) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}
