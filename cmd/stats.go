package main

import (
	"fmt"

	"github.com/cwbudde/framegrid/internal/frame"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [directory]",
	Short: "Summarize the loss trajectory of a frame directory",
	Long: `Computes loss statistics over all loss-bearing frames, ordered by
index: minimum, maximum, mean, standard deviation and the improvement
from the first frame to the last.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	infos, err := frame.ScanDirInfo(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan frames: %w", err)
	}

	s := frame.Summarize(infos)

	fmt.Printf("Frames: %d (%d with loss)\n", s.Frames, s.WithLoss)
	if s.WithLoss == 0 {
		fmt.Println("No loss values encoded in filenames.")
		return nil
	}

	fmt.Println()
	fmt.Println("Loss:")
	fmt.Printf("  Min:    %.4f\n", s.Min)
	fmt.Printf("  Max:    %.4f\n", s.Max)
	fmt.Printf("  Mean:   %.4f\n", s.Mean)
	fmt.Printf("  StdDev: %.4f\n", s.StdDev)
	fmt.Println()
	fmt.Printf("Trajectory: %.4f -> %.4f\n", s.First, s.Last)
	if s.First > 0 {
		fmt.Printf("Improvement: %.4f (%.1f%%)\n", s.Improvement, s.Improvement/s.First*100)
	} else {
		fmt.Printf("Improvement: %.4f\n", s.Improvement)
	}

	return nil
}
