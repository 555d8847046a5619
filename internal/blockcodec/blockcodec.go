// Package blockcodec synthesises and extracts the 8x8 luminance blocks that
// carry one bitsPerBlock pattern each. Synthesise materialises a full
// lookup table of 2^bitsPerBlock blocks once, at construction; Extract
// projects an observed block onto the decoder projection vectors and
// thresholds at zero.
package blockcodec

import (
	"github.com/arourke/lumacodec/internal/dcttable"
)

// Codec synthesises and extracts patterns for one dcttable.Tables
// configuration. Safe for concurrent use once constructed: the pattern
// table is built eagerly and never mutated.
type Codec struct {
	tables       *dcttable.Tables
	patternTable [][64]byte
}

// New builds the pattern lookup table for tables (one entry per pattern in
// [0, 2^bitsPerBlock)).
func New(tables *dcttable.Tables) *Codec {
	numPatterns := 1 << tables.BitsPerBlock
	c := &Codec{
		tables:       tables,
		patternTable: make([][64]byte, numPatterns),
	}
	for pattern := 0; pattern < numPatterns; pattern++ {
		c.patternTable[pattern] = synthesise(tables, pattern)
	}
	return c
}

// synthesise computes round(clamp(dcImage + sum_b sign_b*basis_b, 0, 255))
// for one pattern. Bit B-1-b of pattern maps to basis index b (MSB-first).
func synthesise(t *dcttable.Tables, pattern int) [64]byte {
	var block [64]byte
	for k := 0; k < 64; k++ {
		val := t.DCImage[k]
		for b := 0; b < t.BitsPerBlock; b++ {
			bit := (pattern >> (t.BitsPerBlock - 1 - b)) & 1
			sign := float32(-1)
			if bit == 1 {
				sign = 1
			}
			val += sign * t.EmbedBasis[b][k]
		}
		block[k] = clampRound(val)
	}
	return block
}

func clampRound(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

// Synthesise returns the precomputed 8x8 block (row-major, 64 bytes) for
// pattern. pattern must be in [0, 2^bitsPerBlock); out-of-range values are
// masked to that range.
func (c *Codec) Synthesise(pattern int) [64]byte {
	return c.patternTable[pattern&(len(c.patternTable)-1)]
}

// Extract recovers the bitsPerBlock pattern carried by an observed 8x8
// block (row-major, 64 bytes), by projecting onto the decoder vectors and
// thresholding at zero. Ties (sum == 0) decode as bit 0.
func (c *Codec) Extract(block [64]byte) int {
	var blockF [64]float32
	for k, v := range block {
		blockF[k] = float32(v)
	}

	pattern := 0
	for b := 0; b < c.tables.BitsPerBlock; b++ {
		var sum float32
		proj := c.tables.Projections[b]
		for k := 0; k < 64; k++ {
			sum += blockF[k] * proj[k]
		}
		bit := 0
		if sum > 0 {
			bit = 1
		}
		pattern = (pattern << 1) | bit
	}
	return pattern
}

// BitsPerBlock is the number of bits one block carries.
func (c *Codec) BitsPerBlock() int {
	return c.tables.BitsPerBlock
}
