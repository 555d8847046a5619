package lumastream

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arourke/lumacodec/internal/packetframer"
	"github.com/arourke/lumacodec/pkg/lumacodec"
	"github.com/arourke/lumacodec/pkg/packet"
)

// ErrTooManyFrames indicates payload would require more frames than
// maxFrames to carry, given codec's per-frame capacity. Split rejects
// rather than silently truncating.
var ErrTooManyFrames = errors.New("lumastream: payload requires more frames than allowed")

// lengthPrefixSize is the width of the little-endian byte count Split
// writes ahead of payload, so JoinPayload can trim the zero padding the
// last symbol carries before handing bytes to decompressPayload — padding
// that is not part of any zstd frame and would otherwise make the decoder
// choke looking for a second frame.
const lengthPrefixSize = 4

// Split divides payload into V2 packets and packs them into one byte
// buffer per output frame, each exactly codec.BytesPerFrame() long and
// ready to pass to codec.EmbedDataIntoFrame. If compress is true, payload
// is zstd-compressed first (spending codec capacity on compressed bytes
// rather than raw ones). Returns ErrTooManyFrames if the result would need
// more than maxFrames frames.
func Split(codec *lumacodec.Codec, payload []byte, compress bool, maxFrames int) ([][]byte, error) {
	if compress {
		payload = compressPayload(payload)
	}

	framed := make([]byte, lengthPrefixSize+len(payload))
	binary.LittleEndian.PutUint32(framed[:lengthPrefixSize], uint32(len(payload)))
	copy(framed[lengthPrefixSize:], payload)
	payload = framed

	numSymbols := (len(payload) + packetframer.SymbolSizeBytes - 1) / packetframer.SymbolSizeBytes

	packets := make([][]byte, 0, numSymbols)
	for i := 0; i < numSymbols; i++ {
		start := i * packetframer.SymbolSizeBytes
		end := start + packetframer.SymbolSizeBytes
		symbol := make([]byte, packetframer.SymbolSizeBytes)
		if start < len(payload) {
			copy(symbol, payload[start:min(end, len(payload))])
		}

		pkt, err := packet.BuildV2(uint16(i), uint16(numSymbols), 0, symbol)
		if err != nil {
			return nil, fmt.Errorf("lumastream: building packet %d: %w", i, err)
		}
		packets = append(packets, pkt)
	}

	frameCapacity := codec.BytesPerFrame()
	if frameCapacity <= 0 {
		return nil, fmt.Errorf("lumastream: codec reports non-positive frame capacity %d", frameCapacity)
	}

	packetSize := packetframer.HV2 + packetframer.SymbolSizeBytes
	packetsPerFrame := frameCapacity / packetSize
	if packetsPerFrame == 0 {
		return nil, fmt.Errorf("lumastream: frame capacity %d is smaller than one packet (%d bytes)", frameCapacity, packetSize)
	}

	numFrames := (len(packets) + packetsPerFrame - 1) / packetsPerFrame
	if numFrames > maxFrames {
		logrus.WithFields(logrus.Fields{
			"function":    "Split",
			"num_frames":  numFrames,
			"max_frames":  maxFrames,
			"payload_len": len(payload),
		}).Warn("payload rejected: exceeds frame budget")
		return nil, ErrTooManyFrames
	}

	frames := make([][]byte, numFrames)
	for i := 0; i < numFrames; i++ {
		buf := make([]byte, frameCapacity)
		start := i * packetsPerFrame
		end := min(start+packetsPerFrame, len(packets))
		offset := 0
		for _, pkt := range packets[start:end] {
			copy(buf[offset:], pkt)
			offset += packetSize
		}
		frames[i] = buf
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Split",
		"num_symbols": numSymbols,
		"num_frames":  numFrames,
	}).Debug("payload split into frame buffers")

	return frames, nil
}
