package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"

	"github.com/fogleman/gg"
)

// ErrNoImages is returned when there is nothing to compose
var ErrNoImages = errors.New("no images to compose")

// Composer lays result cards side by side on a transparent canvas
type Composer struct {
	gap int
}

// NewComposer creates a composer leaving gap pixels between cards
func NewComposer(gap int) *Composer {
	return &Composer{gap: gap}
}

// Compose decodes every blob and draws them left to right, top aligned
func (c *Composer) Compose(blobs [][]byte) ([]byte, error) {
	if len(blobs) == 0 {
		return nil, ErrNoImages
	}

	images := make([]image.Image, 0, len(blobs))
	width, height := 0, 0
	for i, blob := range blobs {
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image %d: %w", i, err)
		}
		bounds := img.Bounds()
		width += bounds.Dx()
		if bounds.Dy() > height {
			height = bounds.Dy()
		}
		images = append(images, img)
	}
	width += c.gap * (len(images) - 1)

	dc := gg.NewContext(width, height)
	x := 0
	for _, img := range images {
		dc.DrawImage(img, x, 0)
		x += img.Bounds().Dx() + c.gap
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode composed image: %w", err)
	}
	return buf.Bytes(), nil
}
