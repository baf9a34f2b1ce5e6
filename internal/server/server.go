package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/framegrid/internal/frame"
	"github.com/cwbudde/framegrid/internal/sheet"
)

const defaultCols = 5

// Server represents the HTTP viewer
type Server struct {
	sheetManager *SheetManager
	addr         string
	interval     time.Duration
	server       *http.Server
	watchCtx     context.Context
	watchCancel  context.CancelFunc
}

// NewServer creates a new HTTP viewer. interval is the directory poll
// period for sheet watchers.
func NewServer(addr string, interval time.Duration) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		sheetManager: NewSheetManager(),
		addr:         addr,
		interval:     interval,
		watchCtx:     ctx,
		watchCancel:  cancel,
	}
}

// AddSheet creates a sheet session for dir and starts its watcher.
// Used by the CLI to preload a directory at startup.
func (s *Server) AddSheet(config SheetConfig) (*Sheet, error) {
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	sh := s.sheetManager.CreateSheet(config)
	rescan(s.sheetManager, sh.ID)
	go watchSheet(s.watchCtx, s.sheetManager, sh.ID, s.interval)

	slog.Info("Sheet created", "sheet_id", sh.ID, "dir", config.Dir, "cols", config.Cols)

	// Re-fetch so the caller sees the state of the initial scan.
	sh, _ = s.sheetManager.GetSheet(sh.ID)
	return sh, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Register UI routes
	mux.HandleFunc("/", s.handleIndex)

	// Register API routes
	mux.HandleFunc("/api/v1/sheets", s.handleSheets)
	mux.HandleFunc("/api/v1/sheets/", s.handleSheetsWithID)

	// Wrap with middleware
	handler := s.loggingMiddleware(s.corsMiddleware(mux))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: handler,
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and stops all watchers
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	s.watchCancel()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleSheets handles /api/v1/sheets
func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSheet(w, r)
	case http.MethodGet:
		s.handleListSheets(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSheetsWithID handles /api/v1/sheets/:id/*
func (s *Server) handleSheetsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/sheets/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Sheet ID required", http.StatusBadRequest)
		return
	}

	sheetID := parts[0]

	// Route based on subpath
	if len(parts) == 1 || parts[1] == "status" {
		s.handleGetSheetStatus(w, r, sheetID)
	} else if parts[1] == "sheet.png" {
		s.handleGetSheetImage(w, r, sheetID)
	} else if parts[1] == "frames" {
		s.handleGetFrames(w, r, sheetID)
	} else if parts[1] == "events" {
		s.handleSheetStream(w, r, sheetID)
	} else {
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func validateConfig(config *SheetConfig) error {
	if config.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if fi, err := os.Stat(config.Dir); err != nil {
		return fmt.Errorf("cannot access dir: %w", err)
	} else if !fi.IsDir() {
		return fmt.Errorf("not a directory: %s", config.Dir)
	}
	if config.Cols <= 0 {
		config.Cols = defaultCols
	}
	if config.CellSize <= 0 {
		config.CellSize = sheet.DefaultOptions().CellSize
	}
	return nil
}

// handleCreateSheet handles POST /api/v1/sheets
func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	var config SheetConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	sh, err := s.AddSheet(config)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sh)
}

// handleListSheets handles GET /api/v1/sheets
func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	sheets := s.sheetManager.ListSheets()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sheets)
}

// handleGetSheetStatus handles GET /api/v1/sheets/:id/status
func (s *Server) handleGetSheetStatus(w http.ResponseWriter, r *http.Request, sheetID string) {
	sh, exists := s.sheetManager.GetSheet(sheetID)
	if !exists {
		http.Error(w, "Sheet not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sh)
}

// handleGetSheetImage handles GET /api/v1/sheets/:id/sheet.png
func (s *Server) handleGetSheetImage(w http.ResponseWriter, r *http.Request, sheetID string) {
	sh, exists := s.sheetManager.GetSheet(sheetID)
	if !exists {
		http.Error(w, "Sheet not found", http.StatusNotFound)
		return
	}

	frames, err := frame.ScanDir(sh.Config.Dir)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to scan frames: %v", err), http.StatusInternalServerError)
		return
	}

	placement, err := frame.ComputePlacement(frames, sh.Config.Cols)
	if err != nil {
		if errors.Is(err, frame.ErrEmptyBatch) {
			http.Error(w, "No frames yet", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to compute placement: %v", err), http.StatusInternalServerError)
		return
	}

	img := sheet.Render(placement, sheet.Options{CellSize: sh.Config.CellSize, Captions: true})

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")

	if err := png.Encode(w, img); err != nil {
		slog.Error("Failed to encode PNG", "error", err)
	}
}

// handleGetFrames handles GET /api/v1/sheets/:id/frames
func (s *Server) handleGetFrames(w http.ResponseWriter, r *http.Request, sheetID string) {
	sh, exists := s.sheetManager.GetSheet(sheetID)
	if !exists {
		http.Error(w, "Sheet not found", http.StatusNotFound)
		return
	}

	infos, err := frame.ScanDirInfo(sh.Config.Dir)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to scan frames: %v", err), http.StatusInternalServerError)
		return
	}

	type frameInfo struct {
		Index  int      `json:"index"`
		Loss   *float64 `json:"loss,omitempty"`
		Width  int      `json:"width"`
		Height int      `json:"height"`
		Size   int64    `json:"size"`
	}

	out := make([]frameInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, frameInfo{
			Index:  info.Index,
			Loss:   info.Loss,
			Width:  info.Width,
			Height: info.Height,
			Size:   info.Size,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
