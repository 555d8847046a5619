// Package framecodec maps a byte buffer to and from a full luminance
// frame: tiling it into non-overlapping 8x8 blocks in raster order,
// packing BlocksPerByte consecutive blocks into each output byte
// (MSB-first), and running the inverse on decode.
//
// Per-block work is independent; EncodeFrame and DecodeFrame parallelise
// over byte indices using a fixed worker-stripe pool, following the
// "parallel-for, static scheduling" shape spec.md calls for, while each
// worker owns a disjoint contiguous byte range so output bytes land in
// strictly increasing index order regardless of scheduling.
package framecodec

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/arourke/lumacodec/internal/blockcodec"
)

// ErrInvalidDimensions indicates width or height is not a positive
// multiple of 8.
var ErrInvalidDimensions = errors.New("framecodec: width and height must be positive multiples of 8")

// FrameView borrows a luminance plane for read (Decode) or write (Encode).
// Width and Height are multiples of 8; Stride is the row length in bytes
// and must be >= Width. The caller owns Pix.
type FrameView struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// at returns the row-major offset of pixel (x, y) within Pix.
func (f *FrameView) at(x, y int) int {
	return y*f.Stride + x
}

// Layout holds the block/byte geometry derived from a frame size and
// bitsPerBlock, per spec.md §3.
type Layout struct {
	BlocksPerRow  int
	BlocksPerCol  int
	TotalBlocks   int
	BlocksPerByte int
	BytesPerFrame int
}

// NewLayout validates (width, height) and derives the block/byte geometry
// for bitsPerBlock.
func NewLayout(width, height, bitsPerBlock int) (Layout, error) {
	if width <= 0 || height <= 0 || width%8 != 0 || height%8 != 0 {
		return Layout{}, ErrInvalidDimensions
	}
	l := Layout{
		BlocksPerRow:  width / 8,
		BlocksPerCol:  height / 8,
		BlocksPerByte: 8 / bitsPerBlock,
	}
	l.TotalBlocks = l.BlocksPerRow * l.BlocksPerCol
	l.BytesPerFrame = l.TotalBlocks / l.BlocksPerByte
	return l, nil
}

// blockOrigin returns the pixel origin (x, y) of block index k, in raster
// order.
func (l Layout) blockOrigin(k int) (x, y int) {
	row := k / l.BlocksPerRow
	col := k % l.BlocksPerRow
	return col * 8, row * 8
}

// Codec encodes/decodes frames for one blockcodec.Codec + Layout pair.
type Codec struct {
	blocks *blockcodec.Codec
	layout Layout
}

// New builds a frame Codec for the given block codec and frame dimensions.
func New(blocks *blockcodec.Codec, width, height int) (*Codec, error) {
	layout, err := NewLayout(width, height, blocks.BitsPerBlock())
	if err != nil {
		return nil, err
	}
	return &Codec{blocks: blocks, layout: layout}, nil
}

// BytesPerFrame is the payload capacity of one frame.
func (c *Codec) BytesPerFrame() int {
	return c.layout.BytesPerFrame
}

// workerStripes splits [0, n) into at most runtime.NumCPU() contiguous,
// non-overlapping ranges, following the stripe shape used throughout
// svanichkin/babe's per-row YCbCr extraction.
func workerStripes(n int) [][2]int {
	if n <= 0 {
		return nil
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	perWorker := (n + workers - 1) / workers

	var stripes [][2]int
	for start := 0; start < n; start += perWorker {
		end := start + perWorker
		if end > n {
			end = n
		}
		stripes = append(stripes, [2]int{start, end})
	}
	return stripes
}

// EncodeFrame writes len(data) == BytesPerFrame() bytes into frame, one
// synthesised block per BlocksPerByte sub-pattern, high-order bits and
// earlier blocks first.
func (c *Codec) EncodeFrame(data []byte, frame *FrameView) error {
	if len(data) != c.layout.BytesPerFrame {
		return fmt.Errorf("framecodec: encode wants %d bytes, got %d", c.layout.BytesPerFrame, len(data))
	}

	bitsPerBlock := c.blocks.BitsPerBlock()
	blocksPerByte := c.layout.BlocksPerByte
	mask := (1 << bitsPerBlock) - 1

	var wg sync.WaitGroup
	for _, stripe := range workerStripes(len(data)) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for s := 0; s < blocksPerByte; s++ {
					shift := bitsPerBlock * (blocksPerByte - 1 - s)
					pattern := (int(data[i]) >> shift) & mask
					block := c.blocks.Synthesise(pattern)

					blockIdx := i*blocksPerByte + s
					ox, oy := c.layout.blockOrigin(blockIdx)
					for y := 0; y < 8; y++ {
						dst := frame.Pix[frame.at(ox, oy+y):]
						copy(dst[:8], block[y*8:y*8+8])
					}
				}
			}
		}(stripe[0], stripe[1])
	}
	wg.Wait()

	return nil
}

// DecodeFrame reads frame and returns exactly BytesPerFrame() bytes.
func (c *Codec) DecodeFrame(frame *FrameView) []byte {
	out := make([]byte, c.layout.BytesPerFrame)
	bitsPerBlock := c.blocks.BitsPerBlock()
	blocksPerByte := c.layout.BlocksPerByte

	var wg sync.WaitGroup
	for _, stripe := range workerStripes(len(out)) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				var b byte
				for s := 0; s < blocksPerByte; s++ {
					blockIdx := i*blocksPerByte + s
					ox, oy := c.layout.blockOrigin(blockIdx)

					var block [64]byte
					for y := 0; y < 8; y++ {
						src := frame.Pix[frame.at(ox, oy+y):]
						copy(block[y*8:y*8+8], src[:8])
					}

					pattern := c.blocks.Extract(block)
					b = (b << bitsPerBlock) | byte(pattern)
				}
				out[i] = b
			}
		}(stripe[0], stripe[1])
	}
	wg.Wait()

	return out
}
