// Package ycbcr bridges an image.Image cover image and the byte luminance
// plane the CORE codec operates on. Only the luma channel carries embedded
// data; chroma is carried through unmodified so the output image keeps its
// original colour, mirroring how original_source/src/video_decoder.cpp only
// ever touches the Y plane of a YUV frame.
package ycbcr

import (
	"image"
	"image/color"
)

// ChromaPlanes holds the Cb/Cr samples extracted alongside a luma plane, so
// ReconstructImage can rebuild a full-colour image around a modified luma
// plane without having re-decoded the cover image.
type ChromaPlanes struct {
	Cb, Cr         []float64
	Width, Height  int
	Stride         int
}

// ExtractLuma decodes img into a byte luma plane (stride-padded to a
// multiple of 8 in both dimensions is the caller's responsibility; this
// function only reports the image's own dimensions) plus the chroma
// needed to reconstruct it later. Uses BT.601 coefficients for RGB
// sources; YCbCr sources are read directly.
func ExtractLuma(img image.Image) (luma []byte, chroma *ChromaPlanes) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	stride := width

	luma = make([]byte, width*height)
	cb := make([]float64, width*height)
	cr := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*stride + x
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)

			if ycbcrColor, ok := c.(color.YCbCr); ok {
				luma[idx] = ycbcrColor.Y
				cb[idx] = float64(ycbcrColor.Cb)
				cr[idx] = float64(ycbcrColor.Cr)
				continue
			}

			r, g, b, _ := c.RGBA()
			r8 := float64(r >> 8)
			g8 := float64(g >> 8)
			b8 := float64(b >> 8)

			// BT.601: Y = 0.299R + 0.587G + 0.114B
			y64 := 0.299*r8 + 0.587*g8 + 0.114*b8
			luma[idx] = clampToUint8(y64)
			cb[idx] = -0.168736*r8 - 0.331264*g8 + 0.5*b8 + 128.0
			cr[idx] = 0.5*r8 - 0.418688*g8 - 0.081312*b8 + 128.0
		}
	}

	return luma, &ChromaPlanes{Cb: cb, Cr: cr, Width: width, Height: height, Stride: stride}
}

// ReconstructImage rebuilds an RGBA image from a (possibly modified) luma
// plane and the chroma captured by ExtractLuma. luma must share chroma's
// width, height and stride.
func ReconstructImage(luma []byte, chroma *ChromaPlanes) *image.RGBA {
	width, height := chroma.Width, chroma.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*chroma.Stride + x

			Y := float64(luma[idx])
			Cb := chroma.Cb[idx] - 128.0
			Cr := chroma.Cr[idx] - 128.0

			// YCbCr to RGB, BT.601 inverse.
			r := Y + 1.402*Cr
			g := Y - 0.344136*Cb - 0.714136*Cr
			b := Y + 1.772*Cb

			img.Set(x, y, color.RGBA{
				R: clampToUint8(r),
				G: clampToUint8(g),
				B: clampToUint8(b),
				A: 255,
			})
		}
	}

	return img
}

func clampToUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
