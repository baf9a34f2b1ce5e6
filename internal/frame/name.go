package frame

import (
	"strconv"
	"strings"
)

// Stem is a parsed frame filename stem: a frame index plus an optional
// loss value encoded in the name.
//
// Recognized segmentations (split on "_"):
//
//	"{index}"                  e.g. "12"
//	"{loss}_{index}"           e.g. "0.0431_12"
//	"{prefix}_{index}"         e.g. "output_12"
//	"{prefix}_{loss}_{index}"  e.g. "output_0.0431_12"
//
// Anything else fails with a NamingError.
type Stem struct {
	Index int
	Loss  *float64
}

// NamingError reports a filename stem that does not follow the frame
// naming convention.
type NamingError struct {
	Stem   string
	Reason string
}

func (e *NamingError) Error() string {
	return "unrecognized frame name " + strconv.Quote(e.Stem) + ": " + e.Reason
}

func (e *NamingError) Is(target error) bool {
	_, ok := target.(*NamingError)
	return ok
}

// ParseStem parses a filename stem (no extension) into its index and
// optional loss. The index is always the final segment and is compared
// numerically downstream, so zero padding and variable widths are fine.
func ParseStem(stem string) (Stem, error) {
	segs := strings.Split(stem, "_")

	switch len(segs) {
	case 1:
		idx, err := strconv.Atoi(segs[0])
		if err != nil {
			return Stem{}, &NamingError{Stem: stem, Reason: "index is not an integer"}
		}
		return Stem{Index: idx}, nil

	case 2:
		idx, err := strconv.Atoi(segs[1])
		if err != nil {
			return Stem{}, &NamingError{Stem: stem, Reason: "index is not an integer"}
		}
		// A numeric first segment is a loss value, anything else is an
		// opaque prefix (the tracer's own "output_12" style names).
		if loss, err := strconv.ParseFloat(segs[0], 64); err == nil {
			return Stem{Index: idx, Loss: &loss}, nil
		}
		return Stem{Index: idx}, nil

	case 3:
		idx, err := strconv.Atoi(segs[2])
		if err != nil {
			return Stem{}, &NamingError{Stem: stem, Reason: "index is not an integer"}
		}
		loss, err := strconv.ParseFloat(segs[1], 64)
		if err != nil {
			return Stem{}, &NamingError{Stem: stem, Reason: "loss is not a number"}
		}
		return Stem{Index: idx, Loss: &loss}, nil

	default:
		return Stem{}, &NamingError{Stem: stem, Reason: "expected 1 to 3 underscore-separated segments"}
	}
}
