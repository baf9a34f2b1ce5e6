package palette

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func solidImage(c color.NRGBA, w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"dominantcolor", MethodDominant, false},
		{"kmeans", MethodKMeans, false},
		{"median-cut", MethodDominant, true},
		{"", MethodDominant, true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMethodString(t *testing.T) {
	if MethodDominant.String() != "dominantcolor" {
		t.Errorf("MethodDominant.String() = %q", MethodDominant.String())
	}
	if MethodKMeans.String() != "kmeans" {
		t.Errorf("MethodKMeans.String() = %q", MethodKMeans.String())
	}
}

func TestDominant_SolidColor(t *testing.T) {
	img := solidImage(color.NRGBA{R: 200, G: 40, B: 40, A: 255}, 32, 32)

	got := Dominant(img)
	want, _ := colorful.MakeColor(color.NRGBA{R: 200, G: 40, B: 40, A: 255})

	if Drift(got, want) > 0.1 {
		t.Errorf("Dominant color %s too far from %s", got.Hex(), want.Hex())
	}
}

func TestDrift(t *testing.T) {
	red, _ := colorful.MakeColor(color.NRGBA{R: 255, A: 255})
	blue, _ := colorful.MakeColor(color.NRGBA{B: 255, A: 255})

	if d := Drift(red, red); d != 0 {
		t.Errorf("Drift of identical colors = %f, want 0", d)
	}
	if d := Drift(red, blue); d <= 0 {
		t.Errorf("Drift between red and blue = %f, want > 0", d)
	}
}

func TestExtract_Dominant(t *testing.T) {
	img := solidImage(color.NRGBA{R: 10, G: 120, B: 210, A: 255}, 32, 32)

	p := Extract(img, 3, MethodDominant)
	if len(p) == 0 {
		t.Fatal("Expected at least one palette color")
	}

	want, _ := colorful.MakeColor(color.NRGBA{R: 10, G: 120, B: 210, A: 255})
	if Drift(p[0], want) > 0.1 {
		t.Errorf("Strongest color %s too far from %s", p[0].Hex(), want.Hex())
	}
}

func TestExtract_SingleColorUsesDominant(t *testing.T) {
	img := solidImage(color.NRGBA{R: 64, G: 200, B: 90, A: 255}, 16, 16)

	p := Extract(img, 1, MethodDominant)
	if len(p) != 1 {
		t.Fatalf("Expected exactly one color, got %d", len(p))
	}
	if want := Dominant(img); p[0] != want {
		t.Errorf("Extract k=1 returned %s, Dominant returned %s", p[0].Hex(), want.Hex())
	}
}

func TestExtract_KMeansTwoTone(t *testing.T) {
	// Left half red, right half blue.
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if x < 16 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}

	p := Extract(img, 2, MethodKMeans)
	if len(p) == 0 {
		t.Fatal("Expected at least one palette color")
	}
	// The strongest swatch must be close to one of the two tones.
	red, _ := colorful.MakeColor(color.NRGBA{R: 255, A: 255})
	blue, _ := colorful.MakeColor(color.NRGBA{B: 255, A: 255})
	if Drift(p[0], red) > 0.2 && Drift(p[0], blue) > 0.2 {
		t.Errorf("Strongest color %s matches neither tone", p[0].Hex())
	}
}

func TestExtract_KMeansOrdersByWeight(t *testing.T) {
	// Three quarters red, one quarter blue: red must come first.
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if x < 24 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}

	p := Extract(img, 2, MethodKMeans)
	if len(p) == 0 {
		t.Fatal("Expected at least one palette color")
	}

	red, _ := colorful.MakeColor(color.NRGBA{R: 255, A: 255})
	if Drift(p[0], red) > 0.2 {
		t.Errorf("Strongest color %s should be the red majority", p[0].Hex())
	}
}

func TestExtract_ZeroK(t *testing.T) {
	img := solidImage(color.NRGBA{R: 255, A: 255}, 4, 4)
	if p := Extract(img, 0, MethodKMeans); p != nil {
		t.Error("Extract with k=0 should return nil")
	}
}
