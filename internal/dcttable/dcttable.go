// Package dcttable builds the read-only tables every other codec package
// projects pixels through: the 8x8 cosine matrix, the DC image and
// embedding basis images used to synthesise a block, and the decoder
// projection vectors used to recover bits from one.
//
// Everything here is a pure function of (bitsPerBlock, strength). Tables
// are built once, in NewTables, and never mutated afterwards — callers may
// share a *Tables across goroutines without synchronisation.
package dcttable

import (
	"errors"
	"math"
)

// ErrInvalidBitsPerBlock is returned when bitsPerBlock does not divide 8
// evenly or falls outside [1,4].
var ErrInvalidBitsPerBlock = errors.New("dcttable: bits per block must be one of 1, 2, 4 and divide 8 evenly")

// embedPositions lists the (u, v) DCT coefficient indices used to carry
// bits, MSB-first. Low-frequency, non-DC: chosen to balance invisibility
// against survival through lossy recompression.
var embedPositions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{0, 2},
}

// Tables holds every precomputed, immutable table for one (bitsPerBlock,
// strength) configuration.
type Tables struct {
	BitsPerBlock int
	Strength     float32

	// Cosine is C[i][j] = cos((2i+1)*j*pi/16).
	Cosine [8][8]float32

	// DCImage is the inverse-DCT of a constant 128 plane.
	DCImage [64]float32

	// EmbedBasis holds one 8x8 basis image per embedded bit, scaled by
	// strength, ready to be added or subtracted according to bit sign.
	EmbedBasis [4][64]float32

	// Projections holds one length-64 decoder projection vector per
	// embedded bit, orthogonal to the DC subspace and to each other.
	Projections [4][64]float32
}

// alpha is the DCT-II normalisation factor: 1/sqrt(2) at u=0, else 1.
func alpha(u int) float32 {
	if u == 0 {
		return 0.70710678118654752
	}
	return 1
}

// NewTables validates bitsPerBlock and builds the cosine table, DC image,
// embedding basis images and decoder projections for it.
func NewTables(bitsPerBlock int, strength float32) (*Tables, error) {
	if bitsPerBlock < 1 || bitsPerBlock > 4 || 8%bitsPerBlock != 0 {
		return nil, ErrInvalidBitsPerBlock
	}

	t := &Tables{BitsPerBlock: bitsPerBlock, Strength: strength}

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			t.Cosine[i][j] = float32(math.Cos(float64(2*i+1) * float64(j) * math.Pi / 16.0))
		}
	}

	const dcValue = 0.25 * 0.70710678118654752 * 0.70710678118654752 * 64.0 * 128.0
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			t.DCImage[x*8+y] = 0.25 * alpha(0) * alpha(0) * dcValue * t.Cosine[x][0] * t.Cosine[y][0]
		}
	}

	for b := 0; b < bitsPerBlock; b++ {
		u, v := embedPositions[b][0], embedPositions[b][1]
		scale := 0.25 * alpha(u) * alpha(v) * strength
		for x := 0; x < 8; x++ {
			for y := 0; y < 8; y++ {
				t.EmbedBasis[b][x*8+y] = scale * t.Cosine[x][u] * t.Cosine[y][v]
			}
		}
	}

	for b := 0; b < bitsPerBlock; b++ {
		u, v := embedPositions[b][0], embedPositions[b][1]
		for x := 0; x < 8; x++ {
			for y := 0; y < 8; y++ {
				t.Projections[b][x*8+y] = t.Cosine[x][u] * t.Cosine[y][v]
			}
		}
	}

	return t, nil
}
