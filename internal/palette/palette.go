// Package palette extracts dominant colors from render frames so the
// color the optimizer is converging toward can be tracked numerically.
package palette

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Method selects the extraction algorithm.
type Method int

const (
	MethodDominant Method = iota
	MethodKMeans
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParseMethod parses the --method flag value.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "dominantcolor":
		return MethodDominant, nil
	case "kmeans":
		return MethodKMeans, nil
	}
	return MethodDominant, fmt.Errorf("unknown palette method: %s", s)
}

// Dominant returns the single most dominant color of img.
func Dominant(img image.Image) colorful.Color {
	c, _ := colorful.MakeColor(dominantcolor.Find(img))
	return c.Clamped()
}

// Drift returns the perceptual (Lab) distance between two colors.
func Drift(a, b colorful.Color) float64 {
	return a.DistanceLab(b)
}

// Extract returns up to k palette colors ordered by weight, strongest
// first. The kmeans method clusters a subsample of the pixels; the
// dominantcolor method uses the library's weighted candidates directly.
func Extract(img image.Image, k int, m Method) []colorful.Color {
	if k <= 0 {
		return nil
	}
	if m == MethodDominant && k == 1 {
		return []colorful.Color{Dominant(img)}
	}
	if m == MethodKMeans {
		if p := extractKMeans(img, k); len(p) != 0 {
			return p
		}
		// kmeans can fail on tiny or monochrome inputs
	}
	return extractDominant(img, k)
}

func extractDominant(img image.Image, k int) []colorful.Color {
	candidates := dominantcolor.FindWeight(img, k)
	out := make([]colorful.Color, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, col.Clamped())
	}
	return out
}

func extractKMeans(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large frames.
	const maxSamples = 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, maxSamples)
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) < k {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil || len(cc) == 0 {
		return nil
	}

	type sized struct {
		col colorful.Color
		n   int
	}
	out := make([]sized, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		out = append(out, sized{col: col, n: len(c.Observations)})
	}

	// Largest cluster first.
	sort.Slice(out, func(i, j int) bool { return out[i].n > out[j].n })

	result := make([]colorful.Color, 0, len(out))
	for _, s := range out {
		result = append(result, s.col)
	}
	return result
}
