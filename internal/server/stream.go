package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// RescanEvent is pushed to SSE clients whenever a watched directory's
// frame set changes
type RescanEvent struct {
	SheetID    string     `json:"sheetId"`
	State      SheetState `json:"state"`
	FrameCount int        `json:"frameCount"`
	BestLoss   *float64   `json:"bestLoss,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// EventBroadcaster manages SSE connections for a sheet
type EventBroadcaster struct {
	mu        sync.RWMutex
	clients   map[string]map[chan RescanEvent]bool // sheetID -> set of client channels
	lastEvent map[string]RescanEvent               // sheetID -> last event for new clients
}

// NewEventBroadcaster creates a new event broadcaster
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		clients:   make(map[string]map[chan RescanEvent]bool),
		lastEvent: make(map[string]RescanEvent),
	}
}

// Subscribe adds a client to receive events for a sheet
func (eb *EventBroadcaster) Subscribe(sheetID string) chan RescanEvent {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan RescanEvent, 10) // Buffered to prevent blocking

	if eb.clients[sheetID] == nil {
		eb.clients[sheetID] = make(map[chan RescanEvent]bool)
	}
	eb.clients[sheetID][ch] = true

	// Send last event if available (for reconnecting clients)
	if lastEvent, ok := eb.lastEvent[sheetID]; ok {
		select {
		case ch <- lastEvent:
		default:
			// Channel full, skip
		}
	}

	slog.Debug("SSE client subscribed", "sheet_id", sheetID, "total_clients", len(eb.clients[sheetID]))
	return ch
}

// Unsubscribe removes a client from receiving events
func (eb *EventBroadcaster) Unsubscribe(sheetID string, ch chan RescanEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if clients, ok := eb.clients[sheetID]; ok {
		delete(clients, ch)
		close(ch)

		if len(clients) == 0 {
			delete(eb.clients, sheetID)
		}
	}

	slog.Debug("SSE client unsubscribed", "sheet_id", sheetID)
}

// Broadcast sends an event to all subscribed clients for a sheet
func (eb *EventBroadcaster) Broadcast(event RescanEvent) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	// Store last event
	eb.lastEvent[event.SheetID] = event

	clients, ok := eb.clients[event.SheetID]
	if !ok || len(clients) == 0 {
		return
	}

	slog.Debug("Broadcasting event", "sheet_id", event.SheetID, "clients", len(clients), "frames", event.FrameCount)

	for ch := range clients {
		select {
		case ch <- event:
			// Event sent successfully
		default:
			// Channel full, skip this client (prevents blocking)
			slog.Warn("SSE channel full, skipping event", "sheet_id", event.SheetID)
		}
	}
}

// handleSheetStream handles SSE connections for rescan events
func (s *Server) handleSheetStream(w http.ResponseWriter, r *http.Request, sheetID string) {
	sheet, exists := s.sheetManager.GetSheet(sheetID)
	if !exists {
		http.Error(w, "Sheet not found", http.StatusNotFound)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	eventChan := s.sheetManager.broadcaster.Subscribe(sheetID)
	defer s.sheetManager.broadcaster.Unsubscribe(sheetID, eventChan)

	// Send initial event with current sheet state
	initialEvent := RescanEvent{
		SheetID:    sheet.ID,
		State:      sheet.State,
		FrameCount: sheet.FrameCount,
		BestLoss:   sheet.BestLoss,
		Timestamp:  time.Now(),
	}

	if err := writeSSEEvent(w, initialEvent); err != nil {
		slog.Error("Failed to write initial SSE event", "error", err)
		return
	}
	flusher.Flush()

	// Set up ping ticker to keep connection alive
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("SSE client disconnected", "sheet_id", sheetID)
			return

		case event, ok := <-eventChan:
			if !ok {
				return
			}

			if err := writeSSEEvent(w, event); err != nil {
				slog.Error("Failed to write SSE event", "error", err)
				return
			}
			flusher.Flush()

		case <-pingTicker.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes an event in SSE format
func writeSSEEvent(w http.ResponseWriter, event RescanEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// SSE format: "data: {json}\n\n"
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
