// Package packetframer scans the byte stream extracted from one frame,
// aligns on a magic number, determines packet size from the version byte,
// and emits the sequence of fixed-size packets found. It does not
// resynchronise after a gap: the first offset whose first four bytes are
// not MagicID stops the scan and whatever was found so far is returned.
package packetframer

import "encoding/binary"

const (
	// MagicID is the little-endian 32-bit sentinel every packet begins
	// with.
	MagicID uint32 = 0x474D554C

	// V1 and V2 are the reference version tags read from byte 4 of a
	// packet.
	V1 uint8 = 0x01
	V2 uint8 = 0x02

	// HV1 and HV2 are the header sizes, in bytes, for V1 and V2 packets.
	HV1 = 12
	HV2 = 16

	// SymbolSizeBytes is the payload size carried after the header.
	SymbolSizeBytes = 64
)

// PacketSize returns the size of a single packet, header plus payload, for
// the version byte found at offset 4 of raw. Unknown versions silently
// select the V1 size, per spec.md §9's open question.
func PacketSize(raw []byte) int {
	if len(raw) < 5 {
		return HV1 + SymbolSizeBytes
	}
	if raw[4] == V2 {
		return HV2 + SymbolSizeBytes
	}
	return HV1 + SymbolSizeBytes
}

// ExtractPackets walks raw at stride PacketSize(raw), starting at offset 0,
// stopping at the first offset whose first four little-endian bytes are
// not MagicID. It never returns an error: a short or malformed stream
// simply yields fewer (possibly zero) packets.
func ExtractPackets(raw []byte) [][]byte {
	packetSize := PacketSize(raw)
	if packetSize <= 0 {
		return nil
	}

	var packets [][]byte
	for offset := 0; offset+packetSize <= len(raw); offset += packetSize {
		if offset+4 > len(raw) {
			break
		}
		magic := binary.LittleEndian.Uint32(raw[offset : offset+4])
		if magic != MagicID {
			break
		}
		packets = append(packets, raw[offset:offset+packetSize])
	}
	return packets
}
