package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/cwbudde/framegrid/internal/frame"
	"github.com/cwbudde/framegrid/internal/palette"
	"github.com/spf13/cobra"
)

var inspectMethod string

var inspectCmd = &cobra.Command{
	Use:   "inspect [directory]",
	Short: "Track per-frame color drift against the reference",
	Long: `Extracts the dominant color of every frame and reports its perceptual
(Lab) distance from the reference frame's dominant color. Useful when
the producing optimizer is converging on a color: drift should shrink
as the index grows.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectMethod, "method", "dominantcolor", "Extraction method (dominantcolor, kmeans)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	method, err := palette.ParseMethod(inspectMethod)
	if err != nil {
		return err
	}

	frames, err := frame.ScanDir(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan frames: %w", err)
	}

	if len(frames) == 0 {
		fmt.Println("No frames found.")
		return nil
	}

	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Index < frames[j].Index })

	refColors := palette.Extract(frames[0].Image, 1, method)
	if len(refColors) == 0 {
		return fmt.Errorf("failed to extract reference color")
	}
	refColor := refColors[0]

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tLOSS\tCOLOR\tDRIFT")
	fmt.Fprintln(w, "-----\t----\t-----\t-----")

	for _, f := range frames {
		loss := "-"
		if f.Loss != nil {
			loss = fmt.Sprintf("%.4f", *f.Loss)
		}

		colors := palette.Extract(f.Image, 1, method)
		if len(colors) == 0 {
			fmt.Fprintf(w, "%d\t%s\t?\t?\n", f.Index, loss)
			continue
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\n",
			f.Index,
			loss,
			colors[0].Hex(),
			palette.Drift(colors[0], refColor),
		)
	}

	w.Flush()

	fmt.Printf("\nReference: image %d, dominant color %s (%s)\n",
		frames[0].Index, refColor.Hex(), method)

	return nil
}
