// Package imaging normalizes uploaded photos before they are stored.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"atelier/internal/domain/services"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Processor scales images down to a maximum width and re-encodes them as JPEG.
type Processor struct {
	maxWidth int
	quality  int
}

// NewProcessor creates a processor
func NewProcessor(maxWidth, quality int) *Processor {
	return &Processor{maxWidth: maxWidth, quality: quality}
}

// Process decodes file, optionally resizes it, and encodes it as JPEG
func (p *Processor) Process(file *services.UploadedFile) (*services.ProcessedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if p.maxWidth > 0 && w > p.maxWidth {
		newH := max(1, h*p.maxWidth/w)
		dst := image.NewRGBA(image.Rect(0, 0, p.maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = p.maxWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return &services.ProcessedImage{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Extension:   ".jpg",
		Width:       w,
		Height:      h,
	}, nil
}
