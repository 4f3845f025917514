package api

import (
	"log/slog"
	"sync"
	"time"
)

const (
	defaultSubscriberBufferSize = 16
	defaultBroadcastBufferSize  = 64
)

// Notice tells connected clients the dataset changed and they should
// re-fetch with their current filter state.
type Notice struct {
	Type     string    `json:"type"`
	LoadedAt time.Time `json:"loaded_at"`
	Events   int       `json:"events"`
}

// NoticeReload is the notice type for dataset reloads.
const NoticeReload = "reload"

// Subscriber represents an SSE client connection.
type Subscriber struct {
	notices chan Notice
	done    chan struct{}
}

// Notices returns the channel for receiving notices.
func (s *Subscriber) Notices() <-chan Notice {
	return s.notices
}

// Done returns a channel that is closed when the subscriber is unsubscribed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Hub manages SSE subscribers and broadcasts reload notices.
// Uses 1 goroutine + channel management pattern for thread safety.
type Hub struct {
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan Notice
	stop       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once

	subscriberBufferSize int
	logger               *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubSubscriberBufferSize sets the buffer size for subscriber channels.
func WithHubSubscriberBufferSize(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.subscriberBufferSize = size
		}
	}
}

// WithHubLogger sets the logger for the Hub.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHub creates a new SSE hub.
// Call Run() to start the hub's event loop.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		register:             make(chan *Subscriber),
		unregister:           make(chan *Subscriber),
		broadcast:            make(chan Notice, defaultBroadcastBufferSize),
		stop:                 make(chan struct{}),
		stopped:              make(chan struct{}),
		subscriberBufferSize: defaultSubscriberBufferSize,
		logger:               slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the hub's event loop.
// This method blocks until Stop() is called.
// Should be called in a goroutine: go hub.Run()
func (h *Hub) Run() {
	clients := make(map[*Subscriber]struct{})
	defer close(h.stopped)

	for {
		select {
		case sub := <-h.register:
			clients[sub] = struct{}{}
			h.logger.Debug("subscriber registered", "count", len(clients))

		case sub := <-h.unregister:
			if _, ok := clients[sub]; ok {
				delete(clients, sub)
				close(sub.done)
				close(sub.notices)
				h.logger.Debug("subscriber unregistered", "count", len(clients))
			}

		case n := <-h.broadcast:
			for sub := range clients {
				select {
				case sub.notices <- n:
				default:
					// Channel full; the client will catch up on the next notice.
					h.logger.Warn("subscriber channel full, notice dropped",
						"notice_type", n.Type)
				}
			}

		case <-h.stop:
			for sub := range clients {
				close(sub.done)
				close(sub.notices)
			}
			return
		}
	}
}

// Stop stops the hub's event loop.
// Blocks until the hub has fully stopped.
// Safe to call multiple times (idempotent).
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.stopped
}

// Subscribe creates a new subscriber.
// The caller must call Unsubscribe when done.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		notices: make(chan Notice, h.subscriberBufferSize),
		done:    make(chan struct{}),
	}

	select {
	case h.register <- sub:
		return sub
	case <-h.stopped:
		// Hub is stopped, return a closed subscriber
		close(sub.done)
		close(sub.notices)
		return sub
	}
}

// Unsubscribe removes a subscriber.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	select {
	case h.unregister <- sub:
	case <-h.stopped:
	}
}

// Publish sends a notice to all subscribers.
// Non-blocking: if the broadcast channel is full, the notice is dropped.
func (h *Hub) Publish(n Notice) {
	select {
	case h.broadcast <- n:
	case <-h.stopped:
	default:
		h.logger.Warn("broadcast channel full, notice dropped",
			"notice_type", n.Type)
	}
}
