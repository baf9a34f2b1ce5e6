package main

import (
	"testing"
	"time"

	"github.com/cwbudde/framegrid/internal/frame"
)

func TestSelectFramesForDeletion_ByAge(t *testing.T) {
	now := time.Now()
	infos := []frame.Info{
		{Index: 0, ModTime: now.AddDate(0, 0, -30)}, // reference, 30 days old
		{Index: 10, ModTime: now.AddDate(0, 0, -10)},
		{Index: 20, ModTime: now.AddDate(0, 0, -5)},
		{Index: 30, ModTime: now.AddDate(0, 0, -1)},
	}

	// Delete frames older than 7 days
	toDelete := selectFramesForDeletion(infos, 0, 7)

	if len(toDelete) != 1 {
		t.Fatalf("Expected 1 frame to delete, got %d", len(toDelete))
	}
	if toDelete[0].Index != 10 {
		t.Errorf("Expected frame 10 to be selected, got %d", toDelete[0].Index)
	}
}

func TestSelectFramesForDeletion_ByCount(t *testing.T) {
	infos := []frame.Info{
		{Index: 0},
		{Index: 10},
		{Index: 20},
		{Index: 30},
		{Index: 40},
	}

	// Keep only last 2 frames besides the reference
	toDelete := selectFramesForDeletion(infos, 2, 0)

	if len(toDelete) != 2 {
		t.Fatalf("Expected 2 frames to delete, got %d", len(toDelete))
	}

	found10 := false
	found20 := false
	for _, info := range toDelete {
		if info.Index == 10 {
			found10 = true
		}
		if info.Index == 20 {
			found20 = true
		}
	}
	if !found10 || !found20 {
		t.Error("Expected frames 10 and 20 (lowest non-reference indices) to be selected")
	}
}

func TestSelectFramesForDeletion_NeverDeletesReference(t *testing.T) {
	now := time.Now()
	infos := []frame.Info{
		{Index: 5, ModTime: now.AddDate(0, 0, -100)},
		{Index: 10, ModTime: now.AddDate(0, 0, -100)},
	}

	// Aggressive policy: everything is too old and keep-last is 0
	toDelete := selectFramesForDeletion(infos, 0, 1)

	for _, info := range toDelete {
		if info.Index == 5 {
			t.Error("Reference frame (lowest index) must never be selected")
		}
	}
	if len(toDelete) != 1 {
		t.Errorf("Expected 1 frame to delete, got %d", len(toDelete))
	}
}

func TestSelectFramesForDeletion_Combined(t *testing.T) {
	now := time.Now()
	infos := []frame.Info{
		{Index: 0, ModTime: now.AddDate(0, 0, -30)},
		{Index: 10, ModTime: now.AddDate(0, 0, -10)},
		{Index: 20, ModTime: now.AddDate(0, 0, -5)},
		{Index: 30, ModTime: now.AddDate(0, 0, -2)},
		{Index: 40, ModTime: now.AddDate(0, 0, -1)},
	}

	// Delete older than 7 days AND keep only last 2
	toDelete := selectFramesForDeletion(infos, 2, 7)

	// Frame 10 selected by age, frames 10 and 20 by count
	if len(toDelete) != 2 {
		t.Errorf("Expected 2 frames to delete, got %d", len(toDelete))
	}
}

func TestSelectFramesForDeletion_Empty(t *testing.T) {
	if toDelete := selectFramesForDeletion(nil, 5, 5); toDelete != nil {
		t.Error("Expected no deletions for an empty frame set")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tt := range tests {
		result := formatBytes(tt.bytes)
		if result != tt.expected {
			t.Errorf("formatBytes(%d) = %s, expected %s", tt.bytes, result, tt.expected)
		}
	}
}
