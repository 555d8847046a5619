// Package lumacodec is the external interface to the data-to-pixels codec:
// build 8x8 luminance blocks carrying Config.BitsPerBlock payload bits, and
// recover those bits from observed blocks of a possibly lossy
// reconstruction, per spec.md §1.
//
// A Codec is stateless and synchronous past construction: EmbedDataIntoFrame
// and ExtractDataFromFrame hold no internal state across calls, and the
// tables a Codec wraps are built once per Codec and immutable afterwards.
package lumacodec

import (
	"github.com/arourke/lumacodec/internal/blockcodec"
	"github.com/arourke/lumacodec/internal/dcttable"
	"github.com/arourke/lumacodec/internal/framecodec"
)

// Codec embeds and extracts payloads for one validated Config.
type Codec struct {
	cfg   Config
	frame *framecodec.Codec
}

// NewCodec validates cfg and builds the cosine table, encoder basis,
// pattern table and decoder projections for it, exactly once. Returns a
// *ConfigurationError if cfg is invalid.
func NewCodec(cfg Config) (*Codec, error) {
	tables, err := dcttable.NewTables(cfg.BitsPerBlock, cfg.Strength)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	blocks := blockcodec.New(tables)

	frame, err := framecodec.New(blocks, cfg.Width, cfg.Height)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	return &Codec{cfg: cfg, frame: frame}, nil
}

// Config returns the validated configuration this codec was built from.
func (c *Codec) Config() Config {
	return c.cfg
}

// BytesPerFrame is the payload capacity of one frame: TOTAL_BLOCKS *
// BitsPerBlock / 8, per spec.md §3.
func (c *Codec) BytesPerFrame() int {
	return c.frame.BytesPerFrame()
}

// EmbedDataIntoFrame writes data into frame's luminance plane. len(data)
// must equal BytesPerFrame(); any other length returns a *BoundsError and
// leaves frame untouched.
func (c *Codec) EmbedDataIntoFrame(data []byte, frame *framecodec.FrameView) error {
	want := c.BytesPerFrame()
	if len(data) != want {
		return &BoundsError{Want: want, Got: len(data)}
	}
	return c.frame.EncodeFrame(data, frame)
}

// ExtractDataFromFrame reads frame's luminance plane and returns exactly
// BytesPerFrame() bytes.
func (c *Codec) ExtractDataFromFrame(frame *framecodec.FrameView) []byte {
	return c.frame.DecodeFrame(frame)
}

// FrameView is re-exported so callers of this package need not import
// internal/framecodec directly.
type FrameView = framecodec.FrameView
