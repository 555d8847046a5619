package lumastream

import (
	"bytes"
	"testing"

	"github.com/arourke/lumacodec/pkg/lumacodec"
)

func newTestCodec(t *testing.T, width, height int) *lumacodec.Codec {
	cfg := lumacodec.DefaultConfig()
	cfg.Width, cfg.Height = width, height
	codec, err := lumacodec.NewCodec(cfg)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return codec
}

// frameSourceFromBuffers turns a slice of pre-built frame byte buffers
// into a FrameSource by embedding each into a fresh FrameView, simulating
// what a real multi-frame video would look like after CORE encoding.
func frameSourceFromBuffers(t *testing.T, codec *lumacodec.Codec, width, height int, buffers [][]byte) FrameSource {
	frames := make([]*lumacodec.FrameView, len(buffers))
	for i, buf := range buffers {
		frame := &lumacodec.FrameView{
			Pix:    make([]byte, width*height),
			Width:  width,
			Height: height,
			Stride: width,
		}
		if err := codec.EmbedDataIntoFrame(buf, frame); err != nil {
			t.Fatalf("EmbedDataIntoFrame failed: %v", err)
		}
		frames[i] = frame
	}

	idx := 0
	return func() (*lumacodec.FrameView, bool, error) {
		if idx >= len(frames) {
			return nil, false, nil
		}
		f := frames[idx]
		idx++
		return f, true, nil
	}
}

func TestSplitAssembleJoinRoundTrip(t *testing.T) {
	const width, height = 256, 256
	codec := newTestCodec(t, width, height)

	payload := bytes.Repeat([]byte("the message travels across several frames. "), 20)

	frameBuffers, err := Split(codec, payload, false, 64)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(frameBuffers) == 0 {
		t.Fatal("Split produced zero frame buffers")
	}

	source := frameSourceFromBuffers(t, codec, width, height, frameBuffers)
	packets, err := AssembleAll(codec, source)
	if err != nil {
		t.Fatalf("AssembleAll failed: %v", err)
	}
	if len(packets) == 0 {
		t.Fatal("AssembleAll found zero packets")
	}

	got, err := JoinPayload(packets, false)
	if err != nil {
		t.Fatalf("JoinPayload failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("joined payload mismatch: got %d bytes, want %d bytes", len(got), len(payload))
	}
}

func TestSplitAssembleJoinRoundTrip_Compressed(t *testing.T) {
	const width, height = 256, 256
	codec := newTestCodec(t, width, height)

	payload := bytes.Repeat([]byte("compressible repeated content "), 40)

	frameBuffers, err := Split(codec, payload, true, 64)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	source := frameSourceFromBuffers(t, codec, width, height, frameBuffers)
	packets, err := AssembleAll(codec, source)
	if err != nil {
		t.Fatalf("AssembleAll failed: %v", err)
	}

	got, err := JoinPayload(packets, true)
	if err != nil {
		t.Fatalf("JoinPayload failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("decompressed payload mismatch: got %d bytes, want %d bytes", len(got), len(payload))
	}
}

// TestSplitAssembleJoinRoundTrip_EmptyCompressed covers the edge the
// length-prefix framing exists for: an empty payload, compressed, must
// still round-trip to an empty payload rather than making JoinPayload try
// to decompress the zero padding of its lone symbol.
func TestSplitAssembleJoinRoundTrip_EmptyCompressed(t *testing.T) {
	const width, height = 128, 128 // large enough that one frame holds a whole packet
	codec := newTestCodec(t, width, height)

	frameBuffers, err := Split(codec, nil, true, 8)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	source := frameSourceFromBuffers(t, codec, width, height, frameBuffers)
	packets, err := AssembleAll(codec, source)
	if err != nil {
		t.Fatalf("AssembleAll failed: %v", err)
	}

	got, err := JoinPayload(packets, true)
	if err != nil {
		t.Fatalf("JoinPayload failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("joined payload = %v, want empty", got)
	}
}

// TestSplitAssembleJoinRoundTrip_EmptyUncompressed covers the same edge
// without compression, where the length prefix alone must still produce
// an exact empty result rather than e.g. the raw zero padding.
func TestSplitAssembleJoinRoundTrip_EmptyUncompressed(t *testing.T) {
	const width, height = 128, 128 // large enough that one frame holds a whole packet
	codec := newTestCodec(t, width, height)

	frameBuffers, err := Split(codec, nil, false, 8)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	source := frameSourceFromBuffers(t, codec, width, height, frameBuffers)
	packets, err := AssembleAll(codec, source)
	if err != nil {
		t.Fatalf("AssembleAll failed: %v", err)
	}

	got, err := JoinPayload(packets, false)
	if err != nil {
		t.Fatalf("JoinPayload failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("joined payload = %v, want empty", got)
	}
}

func TestSplit_RejectsTooManyFrames(t *testing.T) {
	const width, height = 128, 128 // small frame, but still big enough to hold one packet
	codec := newTestCodec(t, width, height)

	payload := bytes.Repeat([]byte("x"), 10000)

	if _, err := Split(codec, payload, false, 1); err != ErrTooManyFrames {
		t.Errorf("expected ErrTooManyFrames, got %v", err)
	}
}

func TestSplit_RejectsFrameSmallerThanOnePacket(t *testing.T) {
	const width, height = 16, 16 // frame capacity (2 bytes) is smaller than a single packet
	codec := newTestCodec(t, width, height)

	if _, err := Split(codec, []byte("x"), false, 64); err == nil {
		t.Error("expected an error when frame capacity cannot hold one packet")
	}
}
