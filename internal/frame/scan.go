package frame

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "github.com/cwbudde/framegrid/internal/ppm"
)

// Info describes a frame file without its decoded pixels. Used for
// listing and pruning without paying the full decode cost.
type Info struct {
	Index   int
	Loss    *float64
	Path    string
	Width   int
	Height  int
	Size    int64
	ModTime time.Time
}

func frameExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ppm", ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// ScanDir loads and decodes every recognized frame file in dir.
// Files with non-image extensions are skipped; an image file whose stem
// does not follow the frame naming convention fails the whole scan.
// The returned frames are in directory order; ComputePlacement does the
// sorting.
func ScanDir(dir string) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var frames []Frame
	for _, entry := range entries {
		if entry.IsDir() || !frameExt(entry.Name()) {
			continue
		}

		name := entry.Name()
		stem, err := ParseStem(strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}

		path := filepath.Join(dir, name)
		img, err := loadImage(path)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}

		frames = append(frames, Frame{
			Index: stem.Index,
			Loss:  stem.Loss,
			Image: img,
			Path:  path,
		})
	}

	slog.Debug("Scanned frame directory", "dir", dir, "frames", len(frames))
	return frames, nil
}

// ScanDirInfo reads frame metadata (index, loss, dimensions, file size)
// for every recognized frame file in dir without decoding pixel data.
func ScanDirInfo(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !frameExt(entry.Name()) {
			continue
		}

		name := entry.Name()
		stem, err := ParseStem(strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}

		fi, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}

		path := filepath.Join(dir, name)
		cfg, err := loadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}

		infos = append(infos, Info{
			Index:   stem.Index,
			Loss:    stem.Loss,
			Path:    path,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}

	slog.Debug("Scanned frame metadata", "dir", dir, "frames", len(infos))
	return infos, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func loadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("failed to decode image config: %w", err)
	}
	return cfg, nil
}
