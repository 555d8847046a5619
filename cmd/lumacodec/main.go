// Command lumacodec embeds a payload file into the luma plane of a cover
// image, or extracts one back out, driving pkg/lumacodec and pkg/lumastream
// over a single still image via internal/imgutil and internal/ycbcr.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arourke/lumacodec/internal/imgutil"
	"github.com/arourke/lumacodec/internal/ycbcr"
	"github.com/arourke/lumacodec/pkg/lumacodec"
	"github.com/arourke/lumacodec/pkg/lumastream"
)

type config struct {
	mode         string
	in           string
	out          string
	payload      string
	bitsPerBlock int
	strength     float64
	compress     bool
	outputFormat string
	jpegQuality  int
	width        int
	height       int
	logLevel     string
}

func main() {
	cfg := parseFlags()

	level, err := logrus.ParseLevel(cfg.logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	var runErr error
	switch cfg.mode {
	case "embed":
		runErr = runEmbed(cfg)
	case "extract":
		runErr = runExtract(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown -mode %q, want embed or extract\n", cfg.mode)
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "lumacodec:", runErr)
		os.Exit(1)
	}
}

func parseFlags() config {
	var cfg config

	flag.StringVar(&cfg.mode, "mode", "embed", "embed or extract")
	flag.StringVar(&cfg.in, "in", "", "input cover image path (embed) or carrier image path (extract)")
	flag.StringVar(&cfg.out, "out", "", "output image path (embed) or output payload path (extract)")
	flag.StringVar(&cfg.payload, "payload", "", "payload file to embed (embed mode only)")
	flag.IntVar(&cfg.bitsPerBlock, "bits-per-block", 4, "bits embedded per 8x8 block (1, 2, or 4)")
	flag.Float64Var(&cfg.strength, "strength", 12, "DCT embedding strength")
	flag.BoolVar(&cfg.compress, "compress", true, "zstd-compress the payload before embedding")
	flag.StringVar(&cfg.outputFormat, "format", "png", "output image format (embed mode only): png or jpeg")
	flag.IntVar(&cfg.jpegQuality, "jpeg-quality", 90, "JPEG quality if -format=jpeg")
	flag.IntVar(&cfg.width, "width", 0, "frame width; required only for .gray8 raw input/output")
	flag.IntVar(&cfg.height, "height", 0, "frame height; required only for .gray8 raw input/output")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "logrus level: debug, info, warn, error")
	flag.Parse()

	return cfg
}

// isRawGray8 reports whether path should be treated as a headerless,
// single-channel 8-bit plane rather than a decodable image container.
func isRawGray8(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gray8")
}

// loadCoverFrame reads path into a luma plane plus the chroma needed to
// reconstruct a colour image later. For .gray8 input, there is no chroma to
// preserve: the plane IS the cover, and chroma is nil.
func loadCoverFrame(cfg config, path string) (luma []byte, chroma *ycbcr.ChromaPlanes, width, height, stride int, err error) {
	if isRawGray8(path) {
		if cfg.width <= 0 || cfg.height <= 0 {
			return nil, nil, 0, 0, 0, fmt.Errorf("-width and -height are required for .gray8 input")
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, 0, 0, 0, fmt.Errorf("reading raw gray8 plane: %w", err)
		}
		want := cfg.width * cfg.height
		if len(raw) != want {
			return nil, nil, 0, 0, 0, fmt.Errorf("raw gray8 plane is %d bytes, want %d for %dx%d", len(raw), want, cfg.width, cfg.height)
		}
		return raw, nil, cfg.width, cfg.height, cfg.width, nil
	}

	img, _, err := imgutil.LoadImageFromFile(path)
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("decoding cover image: %w", err)
	}
	lumaPix, chromaPlanes := ycbcr.ExtractLuma(img)
	return lumaPix, chromaPlanes, chromaPlanes.Width, chromaPlanes.Height, chromaPlanes.Stride, nil
}

// saveOutputFrame writes frame back to path, either as a raw plane (when
// chroma is nil, i.e. the cover was a .gray8 plane) or by reconstructing a
// colour image around it and encoding to cfg.outputFormat.
func saveOutputFrame(cfg config, path string, frame *lumacodec.FrameView, chroma *ycbcr.ChromaPlanes) error {
	if chroma == nil {
		return os.WriteFile(path, frame.Pix, 0o644)
	}
	outputImg := ycbcr.ReconstructImage(frame.Pix, chroma)
	if err := imgutil.SaveImageToFile(outputImg, cfg.outputFormat, path, cfg.jpegQuality); err != nil {
		return fmt.Errorf("encoding output image: %w", err)
	}
	return nil
}

func runEmbed(cfg config) error {
	payload, err := os.ReadFile(cfg.payload)
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	luma, chroma, width, height, stride, err := loadCoverFrame(cfg, cfg.in)
	if err != nil {
		return err
	}

	codec, err := lumacodec.NewCodec(lumacodec.Config{
		BitsPerBlock: cfg.bitsPerBlock,
		Strength:     float32(cfg.strength),
		Width:        width,
		Height:       height,
	})
	if err != nil {
		return fmt.Errorf("configuring codec: %w", err)
	}

	frame := &lumacodec.FrameView{Pix: luma, Width: width, Height: height, Stride: stride}
	symbols, err := lumastream.Split(codec, payload, cfg.compress, 1)
	if err != nil {
		if errors.Is(err, lumastream.ErrTooManyFrames) {
			capacity := imgutil.CapacityBytes(width, height, cfg.bitsPerBlock)
			return fmt.Errorf("payload (possibly after compression) exceeds this cover image's %d-byte capacity", capacity)
		}
		return fmt.Errorf("splitting payload: %w", err)
	}
	if len(symbols) != 1 {
		return fmt.Errorf("payload requires %d frames, but a still image carries only one", len(symbols))
	}

	if err := codec.EmbedDataIntoFrame(symbols[0], frame); err != nil {
		return fmt.Errorf("embedding payload: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"cover":       cfg.in,
		"payload_len": len(payload),
		"width":       width,
		"height":      height,
	}).Info("embedded payload into cover image")

	return saveOutputFrame(cfg, cfg.out, frame, chroma)
}

func runExtract(cfg config) error {
	luma, chroma, width, height, stride, err := loadCoverFrame(cfg, cfg.in)
	if err != nil {
		return err
	}

	codec, err := lumacodec.NewCodec(lumacodec.Config{
		BitsPerBlock: cfg.bitsPerBlock,
		Strength:     float32(cfg.strength),
		Width:        width,
		Height:       height,
	})
	if err != nil {
		return fmt.Errorf("configuring codec: %w", err)
	}

	frame := &lumacodec.FrameView{Pix: luma, Width: width, Height: height, Stride: stride}
	_ = chroma // extraction never needs chroma; kept for symmetry with loadCoverFrame

	frameIndex := 0
	source := func() (*lumacodec.FrameView, bool, error) {
		if frameIndex > 0 {
			return nil, false, nil
		}
		frameIndex++
		return frame, true, nil
	}

	packets, err := lumastream.AssembleAll(codec, source)
	if err != nil {
		return fmt.Errorf("assembling packets: %w", err)
	}
	if len(packets) == 0 {
		return fmt.Errorf("no packets found in carrier image")
	}

	payload, err := lumastream.JoinPayload(packets, cfg.compress)
	if err != nil {
		return fmt.Errorf("joining payload: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"carrier":       cfg.in,
		"packets_found": len(packets),
		"payload_len":   len(payload),
	}).Info("extracted payload from carrier image")

	return os.WriteFile(cfg.out, payload, 0o644)
}
