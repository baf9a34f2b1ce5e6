package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/cwbudde/framegrid/internal/frame"
)

// watchSheet polls the frame directory and broadcasts a rescan event
// whenever the frame set changes. The producing process keeps writing
// frames while it optimizes, so the sheet grows until the run finishes.
func watchSheet(ctx context.Context, sm *SheetManager, sheetID string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Watcher stopped", "sheet_id", sheetID)
			return
		case <-ticker.C:
			if changed, err := rescan(sm, sheetID); err != nil {
				slog.Warn("Rescan failed", "sheet_id", sheetID, "error", err)
			} else if changed {
				broadcastState(sm, sheetID)
			}
		}
	}
}

// rescan refreshes a sheet's frame count and best loss from disk.
// Returns whether anything changed since the last scan.
func rescan(sm *SheetManager, sheetID string) (bool, error) {
	sheet, exists := sm.GetSheet(sheetID)
	if !exists {
		return false, nil
	}

	infos, err := frame.ScanDirInfo(sheet.Config.Dir)
	if err != nil {
		sm.UpdateSheet(sheetID, func(s *Sheet) {
			s.State = StateFailed
			s.Error = err.Error()
		})
		return false, err
	}

	best := bestLoss(infos)
	changed := len(infos) != sheet.FrameCount ||
		!equalLoss(best, sheet.BestLoss) ||
		sheet.State != StateWatching

	sm.UpdateSheet(sheetID, func(s *Sheet) {
		s.State = StateWatching
		s.Error = ""
		s.FrameCount = len(infos)
		s.BestLoss = best
		s.LastScan = time.Now()
	})

	return changed, nil
}

func broadcastState(sm *SheetManager, sheetID string) {
	sheet, exists := sm.GetSheet(sheetID)
	if !exists {
		return
	}

	slog.Info("Frame set changed",
		"sheet_id", sheetID,
		"dir", sheet.Config.Dir,
		"frames", sheet.FrameCount,
	)

	sm.broadcaster.Broadcast(RescanEvent{
		SheetID:    sheet.ID,
		State:      sheet.State,
		FrameCount: sheet.FrameCount,
		BestLoss:   sheet.BestLoss,
		Timestamp:  time.Now(),
	})
}

// bestLoss returns the minimum loss across all loss-bearing frames.
func bestLoss(infos []frame.Info) *float64 {
	var best *float64
	for _, info := range infos {
		if info.Loss == nil {
			continue
		}
		if best == nil || *info.Loss < *best {
			v := *info.Loss
			best = &v
		}
	}
	return best
}

func equalLoss(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
