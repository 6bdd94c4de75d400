package bot

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tgienger/taskbot/internal/models"
)

// HandlerFunc processes one inbound message
type HandlerFunc func(ctx context.Context, msg models.Inbound)

// Router runs messages of the same chat strictly in arrival order while
// different chats proceed concurrently. Each chat with queued messages has
// one goroutine draining its lane; the goroutine exits once the lane is empty.
type Router struct {
	handle HandlerFunc
	log    *slog.Logger

	mu    sync.Mutex
	lanes map[int64][]models.Inbound
	wg    sync.WaitGroup
}

// NewRouter creates a router calling handle for every submitted message
func NewRouter(handle HandlerFunc, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		handle: handle,
		log:    logger,
		lanes:  make(map[int64][]models.Inbound),
	}
}

// Submit queues msg behind earlier messages of the same chat
func (r *Router) Submit(ctx context.Context, msg models.Inbound) {
	r.mu.Lock()
	if queue, busy := r.lanes[msg.ChatID]; busy {
		r.lanes[msg.ChatID] = append(queue, msg)
		r.mu.Unlock()
		return
	}
	r.lanes[msg.ChatID] = nil
	r.wg.Add(1)
	r.mu.Unlock()

	go r.drain(ctx, msg)
}

func (r *Router) drain(ctx context.Context, msg models.Inbound) {
	defer r.wg.Done()
	chatID := msg.ChatID
	for {
		r.run(ctx, msg)

		r.mu.Lock()
		queue := r.lanes[chatID]
		if len(queue) == 0 {
			delete(r.lanes, chatID)
			r.mu.Unlock()
			return
		}
		msg = queue[0]
		r.lanes[chatID] = queue[1:]
		r.mu.Unlock()
	}
}

func (r *Router) run(ctx context.Context, msg models.Inbound) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("lane handler panic", "chat_id", msg.ChatID, "panic", p)
		}
	}()
	r.handle(ctx, msg)
}

// Active returns the number of chats with messages in flight
func (r *Router) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lanes)
}

// Wait blocks until every lane has drained
func (r *Router) Wait() {
	r.wg.Wait()
}

// Sender delivers an outbound message to a chat
type Sender interface {
	Send(ctx context.Context, msg models.Outbound) error
}

// Deliver returns a handler that dispatches each message and sends every
// reply. Replies are sent independently: a failed send is logged, not
// retried, and does not stop the ones after it.
func (d *Dispatcher) Deliver(s Sender) HandlerFunc {
	return func(ctx context.Context, msg models.Inbound) {
		for i, out := range d.Handle(ctx, msg) {
			if err := s.Send(ctx, out); err != nil {
				d.log.Warn("send failed", "chat_id", out.ChatID, "part", i, "error", err)
			}
		}
	}
}
