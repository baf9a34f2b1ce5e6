package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/cwbudde/framegrid/internal/frame"
	"github.com/cwbudde/framegrid/internal/sheet"
	"github.com/spf13/cobra"
)

var (
	renderCols int
	renderOut  string
	renderCell int
	renderBare bool
)

var renderCmd = &cobra.Command{
	Use:   "render [directory]",
	Short: "Render a contact sheet from a frame directory",
	Long: `Loads every frame in the directory, places the lowest-numbered frame as
the reference on its own row and the rest in a grid below it, and writes
the contact sheet as a PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderCols, "cols", 5, "Number of columns in the grid")
	renderCmd.Flags().StringVar(&renderOut, "out", "sheet.png", "Output image path")
	renderCmd.Flags().IntVar(&renderCell, "cell", 256, "Cell size in pixels")
	renderCmd.Flags().BoolVar(&renderBare, "no-captions", false, "Omit index/loss captions")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	dir := args[0]
	slog.Info("Rendering contact sheet", "dir", dir, "cols", renderCols)

	frames, err := frame.ScanDir(dir)
	if err != nil {
		return fmt.Errorf("failed to scan frames: %w", err)
	}

	placement, err := frame.ComputePlacement(frames, renderCols)
	if err != nil {
		return fmt.Errorf("failed to compute placement: %w", err)
	}

	img := sheet.Render(placement, sheet.Options{
		CellSize: renderCell,
		Captions: !renderBare,
	})

	outFile, err := os.Create(renderOut)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer outFile.Close()

	if err := png.Encode(outFile, img); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	slog.Info("Contact sheet written",
		"out", renderOut,
		"frames", len(frames),
		"rows", placement.Rows,
		"blanks", placement.Blanks(),
	)

	fmt.Printf("Wrote %s (%d frames, reference %d, %dx%d grid)\n",
		renderOut, len(frames), placement.Reference.Index, placement.Rows, placement.Cols)

	return nil
}
