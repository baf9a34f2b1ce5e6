// Package frame models a batch of numbered render frames and computes the
// deterministic contact-sheet placement for them.
package frame

import (
	"fmt"
	"image"
)

// ReferenceCaption is the fixed caption for the reference frame.
const ReferenceCaption = "Reference Image"

// Frame is one decoded render frame loaded from a batch directory.
// The pixel content is opaque to the layout engine.
type Frame struct {
	Index int
	Loss  *float64 // nil when the filename carried no loss
	Image image.Image
	Path  string
}

// Caption returns the display caption for a placed frame, e.g.
// "Image 12 Loss: 0.0431". The loss is formatted to 4 decimal places.
func (f Frame) Caption() string {
	if f.Loss != nil {
		return fmt.Sprintf("Image %d Loss: %.4f", f.Index, *f.Loss)
	}
	return fmt.Sprintf("Image %d", f.Index)
}
