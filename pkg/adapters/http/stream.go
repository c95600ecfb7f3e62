package http

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/store"
)

// Event is the payload of one server-sent event.
type Event struct {
	Op        store.Op            `json:"op"`
	Diff      *domain.ProjectDiff `json:"diff,omitempty"`
	Selection *store.Selection    `json:"selection,omitempty"`
}

// StreamManager fans store changes out to SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
	}
}

// Subscribe registers a buffered channel. The returned func unregisters and closes it.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Broadcast delivers msg to every subscriber. Slow clients drop messages.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional watch parameter ("project", "selection") filters events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	watch := map[string]bool{}
	if v := r.URL.Query().Get("watch"); v != "" {
		for _, field := range strings.Split(v, ",") {
			watch[strings.TrimSpace(field)] = true
		}
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watch[eventTopic(msg)] {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func eventTopic(msg string) string {
	if strings.Contains(msg, `"op":"`+string(store.OpSelect)+`"`) {
		return "selection"
	}
	return "project"
}
