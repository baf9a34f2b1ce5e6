// Package ppm implements a decoder and encoder for netpbm pixmap images,
// the P6 binary and P3 plain-text formats the ray tracer writes its
// frames in. The decoder is registered with the standard image registry,
// so image.Decode handles .ppm files once this package is imported.
package ppm

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"strconv"
)

// FormatError reports a malformed PPM stream.
type FormatError string

func (e FormatError) Error() string {
	return "ppm: invalid format: " + string(e)
}

const maxDimension = 1 << 20

type header struct {
	magic  string // "P6" or "P3"
	width  int
	height int
	maxVal int
}

func init() {
	image.RegisterFormat("ppm", "P6", Decode, DecodeConfig)
	image.RegisterFormat("ppm", "P3", Decode, DecodeConfig)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// readToken skips whitespace and '#' comments, then reads the next
// whitespace-delimited token. The delimiter after the token is consumed.
func readToken(r *bufio.Reader) (string, error) {
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if c == '#' {
			if _, err := r.ReadString('\n'); err != nil {
				return "", err
			}
			continue
		}
		if !isSpace(c) {
			if err := r.UnreadByte(); err != nil {
				return "", err
			}
			break
		}
	}

	var tok []byte
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if isSpace(c) {
			break
		}
		if c == '#' {
			if err := r.UnreadByte(); err != nil {
				return "", err
			}
			break
		}
		tok = append(tok, c)
	}
	if len(tok) == 0 {
		return "", FormatError("empty header token")
	}
	return string(tok), nil
}

func readHeaderInt(r *bufio.Reader, what string) (int, error) {
	tok, err := readToken(r)
	if err != nil {
		if err == io.EOF {
			return 0, FormatError("missing " + what)
		}
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, FormatError(what + " is not an integer")
	}
	return v, nil
}

func readHeader(r *bufio.Reader) (header, error) {
	magic := make([]byte, 2)
	if _, err := io.ReadFull(r, magic); err != nil {
		return header{}, FormatError("missing magic number")
	}
	h := header{magic: string(magic)}
	if h.magic != "P6" && h.magic != "P3" {
		return header{}, FormatError("unsupported magic number " + strconv.Quote(h.magic))
	}

	var err error
	if h.width, err = readHeaderInt(r, "width"); err != nil {
		return header{}, err
	}
	if h.height, err = readHeaderInt(r, "height"); err != nil {
		return header{}, err
	}
	if h.maxVal, err = readHeaderInt(r, "max value"); err != nil {
		return header{}, err
	}

	if h.width <= 0 || h.height <= 0 {
		return header{}, FormatError("non-positive dimensions")
	}
	if h.width > maxDimension || h.height > maxDimension {
		return header{}, FormatError("dimensions too large")
	}
	if h.maxVal <= 0 || h.maxVal > 65535 {
		return header{}, FormatError("max value out of range")
	}
	return h, nil
}

// DecodeConfig returns the color model and dimensions of a PPM image
// without decoding the raster.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}

	model := color.Model(color.NRGBAModel)
	if h.maxVal > 255 {
		model = color.NRGBA64Model
	}
	return image.Config{
		ColorModel: model,
		Width:      h.width,
		Height:     h.height,
	}, nil
}

// Decode reads a PPM image from r. 8-bit rasters decode to NRGBA,
// 16-bit rasters to NRGBA64; sample values are rescaled when the
// header's max value is not the full channel range.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	if h.magic == "P3" {
		return decodePlain(br, h)
	}
	return decodeRaw(br, h)
}

func decodeRaw(br *bufio.Reader, h header) (image.Image, error) {
	// readToken consumed the single whitespace byte after maxVal, so the
	// raster starts immediately.
	if h.maxVal > 255 {
		img := image.NewNRGBA64(image.Rect(0, 0, h.width, h.height))
		row := make([]byte, 6*h.width)
		for y := 0; y < h.height; y++ {
			if _, err := io.ReadFull(br, row); err != nil {
				return nil, FormatError("truncated raster")
			}
			for x := 0; x < h.width; x++ {
				r16 := scale16(int(row[6*x])<<8|int(row[6*x+1]), h.maxVal)
				g16 := scale16(int(row[6*x+2])<<8|int(row[6*x+3]), h.maxVal)
				b16 := scale16(int(row[6*x+4])<<8|int(row[6*x+5]), h.maxVal)
				img.SetNRGBA64(x, y, color.NRGBA64{R: r16, G: g16, B: b16, A: 0xffff})
			}
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	row := make([]byte, 3*h.width)
	for y := 0; y < h.height; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, FormatError("truncated raster")
		}
		for x := 0; x < h.width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: scale8(int(row[3*x]), h.maxVal),
				G: scale8(int(row[3*x+1]), h.maxVal),
				B: scale8(int(row[3*x+2]), h.maxVal),
				A: 0xff,
			})
		}
	}
	return img, nil
}

func decodePlain(br *bufio.Reader, h header) (image.Image, error) {
	sample := func() (int, error) {
		v, err := readHeaderInt(br, "sample")
		if err != nil {
			return 0, err
		}
		if v < 0 || v > h.maxVal {
			return 0, FormatError("sample out of range")
		}
		return v, nil
	}

	if h.maxVal > 255 {
		img := image.NewNRGBA64(image.Rect(0, 0, h.width, h.height))
		for y := 0; y < h.height; y++ {
			for x := 0; x < h.width; x++ {
				r, err := sample()
				if err != nil {
					return nil, err
				}
				g, err := sample()
				if err != nil {
					return nil, err
				}
				b, err := sample()
				if err != nil {
					return nil, err
				}
				img.SetNRGBA64(x, y, color.NRGBA64{
					R: scale16(r, h.maxVal),
					G: scale16(g, h.maxVal),
					B: scale16(b, h.maxVal),
					A: 0xffff,
				})
			}
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			r, err := sample()
			if err != nil {
				return nil, err
			}
			g, err := sample()
			if err != nil {
				return nil, err
			}
			b, err := sample()
			if err != nil {
				return nil, err
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: scale8(r, h.maxVal),
				G: scale8(g, h.maxVal),
				B: scale8(b, h.maxVal),
				A: 0xff,
			})
		}
	}
	return img, nil
}

func scale8(v, maxVal int) uint8 {
	if maxVal == 255 {
		return uint8(v)
	}
	return uint8(v * 255 / maxVal)
}

func scale16(v, maxVal int) uint16 {
	if maxVal == 65535 {
		return uint16(v)
	}
	return uint16(v * 65535 / maxVal)
}
