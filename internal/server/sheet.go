package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SheetState represents the current state of a sheet session
type SheetState string

const (
	StateWatching SheetState = "watching"
	StateFailed   SheetState = "failed"
)

// SheetConfig configures a sheet session
type SheetConfig struct {
	Dir      string `json:"dir"`
	Cols     int    `json:"cols"`
	CellSize int    `json:"cellSize,omitempty"`
}

// Sheet is one watched frame directory
type Sheet struct {
	ID         string      `json:"id"`
	State      SheetState  `json:"state"`
	Config     SheetConfig `json:"config"`
	FrameCount int         `json:"frameCount"`
	BestLoss   *float64    `json:"bestLoss,omitempty"`
	LastScan   time.Time   `json:"lastScan,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	Error      string      `json:"error,omitempty"`
}

// BestLossString formats the best loss for display, or "-" when no
// frame carries a loss yet.
func (s *Sheet) BestLossString() string {
	if s.BestLoss == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *s.BestLoss)
}

// SheetManager manages the lifecycle of sheet sessions
type SheetManager struct {
	mu          sync.RWMutex
	sheets      map[string]*Sheet
	broadcaster *EventBroadcaster
}

// NewSheetManager creates a new SheetManager
func NewSheetManager() *SheetManager {
	return &SheetManager{
		sheets:      make(map[string]*Sheet),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateSheet creates a new sheet session for the given configuration
func (sm *SheetManager) CreateSheet(config SheetConfig) *Sheet {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sheet := &Sheet{
		ID:        uuid.New().String(),
		State:     StateWatching,
		Config:    config,
		CreatedAt: time.Now(),
	}

	sm.sheets[sheet.ID] = sheet
	snapshot := *sheet
	return &snapshot
}

// GetSheet retrieves a snapshot of a sheet by ID. The copy is taken
// under the lock, so callers can read or encode it while the watcher
// keeps mutating the stored sheet through UpdateSheet.
func (sm *SheetManager) GetSheet(id string) (*Sheet, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sheet, exists := sm.sheets[id]
	if !exists {
		return nil, false
	}
	snapshot := *sheet
	return &snapshot, true
}

// ListSheets returns snapshots of all sheet sessions.
func (sm *SheetManager) ListSheets() []*Sheet {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sheets := make([]*Sheet, 0, len(sm.sheets))
	for _, sheet := range sm.sheets {
		snapshot := *sheet
		sheets = append(sheets, &snapshot)
	}
	return sheets
}

// UpdateSheet atomically updates a sheet using the provided function
func (sm *SheetManager) UpdateSheet(id string, updateFn func(*Sheet)) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sheet, exists := sm.sheets[id]
	if !exists {
		return fmt.Errorf("sheet not found: %s", id)
	}

	updateFn(sheet)
	return nil
}
