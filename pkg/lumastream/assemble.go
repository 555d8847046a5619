// Package lumastream sits above pkg/lumacodec: it assembles a packet
// sequence across several caller-supplied video frames, and splits a
// payload into the frame-sized buffers needed to embed it across however
// many frames it takes. Neither function decodes or demuxes video — that
// remains the caller's responsibility, per spec.md §1's video-container
// non-goal; this package only repeats the per-frame codec and packet
// framer over a sequence, the way original_source/src/video_decoder.cpp's
// decode_all_frames repeats decode_next_frame.
package lumastream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arourke/lumacodec/internal/packetframer"
	"github.com/arourke/lumacodec/pkg/lumacodec"
	"github.com/arourke/lumacodec/pkg/packet"
)

// ErrTruncatedPayload indicates the joined packet stream is shorter than
// the length prefix Split wrote ahead of the payload — either packets are
// missing or the stream was corrupted beyond what packet CRCs caught.
var ErrTruncatedPayload = errors.New("lumastream: joined packet stream is shorter than its declared payload length")

// FrameSource yields one frame view per call. It returns ok=false once
// exhausted; a non-nil error aborts assembly immediately.
type FrameSource func() (frame *lumacodec.FrameView, ok bool, err error)

// AssembleAll decodes every frame source yields, in order, extracting
// packets from each and concatenating them in frame order — the ordering
// guarantee spec.md §5 states: "across frames, the packet framer's output
// order equals the decoder's frame order."
func AssembleAll(codec *lumacodec.Codec, source FrameSource) ([][]byte, error) {
	var packets [][]byte
	frameIndex := 0
	for {
		frame, ok, err := source()
		if err != nil {
			return packets, err
		}
		if !ok {
			break
		}

		data := codec.ExtractDataFromFrame(frame)
		framePackets := packetframer.ExtractPackets(data)

		logrus.WithFields(logrus.Fields{
			"function":      "AssembleAll",
			"frame_index":   frameIndex,
			"packets_found": len(framePackets),
		}).Debug("decoded frame")

		packets = append(packets, framePackets...)
		frameIndex++
	}

	logrus.WithFields(logrus.Fields{
		"function":      "AssembleAll",
		"total_frames":  frameIndex,
		"total_packets": len(packets),
	}).Info("assembled packet stream")

	return packets, nil
}

// JoinPayload reassembles the original payload from a sequence of V2
// packets produced by Split, dropping the V2 header/CRC from each via
// pkg/packet.Parse, trimming the zero padding Split's last symbol carries
// down to the exact length its length prefix declares, and decompressing
// if decompress is true. Packets are assumed already in sequence order,
// e.g. as returned by AssembleAll.
func JoinPayload(packets [][]byte, decompress bool) ([]byte, error) {
	var buf bytes.Buffer
	for _, pkt := range packets {
		_, payload, err := packet.Parse(pkt)
		if err != nil {
			return nil, err
		}
		buf.Write(payload)
	}

	raw := buf.Bytes()
	if len(raw) < lengthPrefixSize {
		return nil, ErrTruncatedPayload
	}
	n := binary.LittleEndian.Uint32(raw[:lengthPrefixSize])
	raw = raw[lengthPrefixSize:]
	if uint64(n) > uint64(len(raw)) {
		return nil, ErrTruncatedPayload
	}
	content := raw[:n]

	if !decompress {
		out := make([]byte, len(content))
		copy(out, content)
		return out, nil
	}

	decoded, err := decompressPayload(content)
	if err != nil {
		return nil, fmt.Errorf("lumastream: decompressing joined payload: %w", err)
	}
	return decoded, nil
}
