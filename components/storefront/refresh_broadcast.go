package storefront

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// PanelEvent announces a panel change to live page sessions.
type PanelEvent struct {
	Panel  string `json:"panel"`
	Reason string `json:"reason"`
}

// BroadcastHook fans out panel events to in-process subscribers.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]chan PanelEvent
	next int
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		subs: make(map[int]chan PanelEvent),
	}
}

// PanelUpdated broadcasts the event. Slow subscribers drop events rather
// than blocking the page flow that triggered the change.
func (h *BroadcastHook) PanelUpdated(event PanelEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel of panel events and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan PanelEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan PanelEvent, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// BroadcastView decorates a View so every panel mutation is announced to
// subscribers. Read-only calls pass through untouched.
type BroadcastView struct {
	View
	Hook *BroadcastHook
}

func (v BroadcastView) ReplacePanel(code, html string) {
	v.View.ReplacePanel(code, html)
	v.Hook.PanelUpdated(PanelEvent{Panel: code, Reason: "replace"})
}

func (v BroadcastView) ShowPanel(code string) {
	v.View.ShowPanel(code)
	v.Hook.PanelUpdated(PanelEvent{Panel: code, Reason: "show"})
}

func (v BroadcastView) HidePanel(code string) {
	v.View.HidePanel(code)
	v.Hook.PanelUpdated(PanelEvent{Panel: code, Reason: "hide"})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams panel events as JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for panel events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
