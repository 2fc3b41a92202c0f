package explain

import (
	"bytes"
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
)

// Stub renders a small deterministic heatmap so the explanation stage can
// run end-to-end without the Grad-CAM service. The hot region is derived
// from a hash of the image bytes.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

const stubSize = 64

func (Stub) Render(ctx context.Context, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := fnv.New32a()
	h.Write(src)
	sum := h.Sum32()
	cx := int(sum % stubSize)
	cy := int((sum >> 8) % stubSize)

	img := image.NewRGBA(image.Rect(0, 0, stubSize, stubSize))
	for y := 0; y < stubSize; y++ {
		for x := 0; x < stubSize; x++ {
			dx, dy := x-cx, y-cy
			d := dx*dx + dy*dy
			heat := 255 - min(d, 255)
			img.Set(x, y, color.RGBA{R: uint8(heat), B: uint8(255 - heat), A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
