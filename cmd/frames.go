package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/framegrid/internal/frame"
	"github.com/spf13/cobra"
)

var (
	keepLast      int
	olderThanDays int
	forceClean    bool
)

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Inspect and prune frame files",
	Long: `Inspect and prune the frame files of a render run.
A long optimization leaves hundreds of intermediate frames behind; clean
prunes them while always keeping the reference frame.`,
}

var listFramesCmd = &cobra.Command{
	Use:   "list [directory]",
	Short: "List all frames in a directory",
	Long:  `Display all frames with their index, loss, dimensions and file size.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runListFrames,
}

var cleanFramesCmd = &cobra.Command{
	Use:   "clean [directory]",
	Short: "Delete old frames",
	Long: `Delete intermediate frames based on retention policy.
You can keep only the last N frames by index or delete frames older than
N days. The reference frame (lowest index) is never deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCleanFrames,
}

func init() {
	rootCmd.AddCommand(framesCmd)
	framesCmd.AddCommand(listFramesCmd)
	framesCmd.AddCommand(cleanFramesCmd)

	cleanFramesCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the last N frames by index (0 = keep all)")
	cleanFramesCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete frames older than N days (0 = no age limit)")
	cleanFramesCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func runListFrames(cmd *cobra.Command, args []string) error {
	infos, err := frame.ScanDirInfo(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan frames: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No frames found.")
		return nil
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Index < infos[j].Index })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tLOSS\tDIMENSIONS\tSIZE\tFILE")
	fmt.Fprintln(w, "-----\t----\t----------\t----\t----")

	for _, info := range infos {
		loss := "-"
		if info.Loss != nil {
			loss = fmt.Sprintf("%.4f", *info.Loss)
		}
		fmt.Fprintf(w, "%d\t%s\t%dx%d\t%s\t%s\n",
			info.Index,
			loss,
			info.Width,
			info.Height,
			formatBytes(info.Size),
			info.Path,
		)
	}

	w.Flush()

	fmt.Printf("\nTotal frames: %d\n", len(infos))
	return nil
}

func runCleanFrames(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	infos, err := frame.ScanDirInfo(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan frames: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No frames to clean.")
		return nil
	}

	toDelete := selectFramesForDeletion(infos, keepLast, olderThanDays)

	if len(toDelete) == 0 {
		fmt.Println("No frames match deletion criteria.")
		return nil
	}

	fmt.Printf("Found %d frame(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Printf("  - %s (index %d, %s)\n",
			info.Path,
			info.Index,
			info.ModTime.Format("2006-01-02 15:04:05"),
		)
	}

	if !forceClean {
		fmt.Print("\nProceed with deletion? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted := 0
	failed := 0
	for _, info := range toDelete {
		if err := os.Remove(info.Path); err != nil {
			slog.Error("Failed to delete frame", "path", info.Path, "error", err)
			failed++
		} else {
			slog.Info("Deleted frame", "path", info.Path, "index", info.Index)
			deleted++
		}
	}

	fmt.Printf("\nDeleted %d frame(s), %d failed.\n", deleted, failed)
	return nil
}

// selectFramesForDeletion applies the retention policy. The frame with
// the lowest index is the reference and is never selected.
func selectFramesForDeletion(infos []frame.Info, keepLast, olderThanDays int) []frame.Info {
	if len(infos) == 0 {
		return nil
	}

	sorted := make([]frame.Info, len(infos))
	copy(sorted, infos)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	// sorted[0] is the reference frame and stays out of the candidate set.
	candidates := sorted[1:]

	selected := make(map[int]bool)

	if olderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -olderThanDays)
		for _, info := range candidates {
			if info.ModTime.Before(cutoff) {
				selected[info.Index] = true
			}
		}
	}

	if keepLast > 0 && len(candidates) > keepLast {
		// candidates are index-ascending, so everything before the
		// last keepLast entries goes.
		for _, info := range candidates[:len(candidates)-keepLast] {
			selected[info.Index] = true
		}
	}

	var toDelete []frame.Info
	for _, info := range candidates {
		if selected[info.Index] {
			toDelete = append(toDelete, info)
		}
	}

	return toDelete
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
