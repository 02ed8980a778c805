package raster

import (
	"image"
	"image/color"
	"sync"
)

// Buffer is the shared image buffer owned by a Renderer. It is initialized
// fully transparent and written to by rasterization workers under a single
// mutex; every other resource in the pipeline (edge tables, active edge
// tables, transformers) is worker-local.
//
// The buffer stores straight (non-premultiplied) alpha: Over's channel
// outputs are already divided by the result alpha, and image.NRGBA stores
// exactly those values. Storing them in an alpha-premultiplied image.RGBA
// would make the PNG encoder un-premultiply every partial-alpha pixel a
// second time, corrupting its RGB channels on save.
type Buffer struct {
	Img    *image.NRGBA
	mu     sync.Mutex
	Width  int
	Height int
}

// NewBuffer allocates a transparent width x height straight-alpha buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Img:    image.NewNRGBA(image.Rect(0, 0, width, height)),
		Width:  width,
		Height: height,
	}
}

// CompositeOver blends src over the destination pixel at (x, y) using the
// Porter-Duff "source over" operator, holding the buffer's mutex for the
// duration of the read-modify-write.
func (b *Buffer) CompositeOver(x, y int, src color.NRGBA) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.Img.PixOffset(x, y)
	pix := b.Img.Pix[idx : idx+4 : idx+4]
	dst := color.NRGBA{R: pix[0], G: pix[1], B: pix[2], A: pix[3]}

	out := Over(src, dst)

	pix[0], pix[1], pix[2], pix[3] = out.R, out.G, out.B, out.A
}

// Over composites src over dst using Porter-Duff "source over" semantics
// with channels pre-normalized by 255. If the resulting alpha is zero, dst is
// returned unchanged. Both the RGB channels and the alpha channel are
// truncated (not rounded) when re-quantized to u8, matching a direct
// float-to-int cast.
func Over(src, dst color.NRGBA) color.NRGBA {
	sa := float64(src.A) / 255.0
	da := float64(dst.A) / 255.0

	outA := sa + da*(1.0-sa)
	if outA == 0 {
		return dst
	}

	blend := func(s, d uint8) uint8 {
		sc := float64(s) * sa
		dc := float64(d) * da
		return uint8((sc + dc*(1.0-sa)) / outA)
	}

	return color.NRGBA{
		R: blend(src.R, dst.R),
		G: blend(src.G, dst.G),
		B: blend(src.B, dst.B),
		A: uint8(outA * 255.0),
	}
}
