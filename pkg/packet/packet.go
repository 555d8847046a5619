// Package packet fixes the concrete V1/V2 wire layout spec.md §3/§6 leaves
// as deployment constants (see SPEC_FULL.md §5): magic, version, a small
// header, and a CRC-32/MPEG-2 checksum validated with
// internal/integrity.PacketCRC32C exactly as spec.md §4.6/§8.S5 describe.
package packet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/arourke/lumacodec/internal/integrity"
	"github.com/arourke/lumacodec/internal/packetframer"
)

// ErrPayloadSize indicates a payload that is not exactly SymbolSizeBytes
// long.
var ErrPayloadSize = errors.New("packet: payload must be exactly SymbolSizeBytes long")

// ErrTooShort indicates a packet shorter than its version's header.
var ErrTooShort = errors.New("packet: too short for its header")

// ErrCRCMismatch indicates PacketCRC32C did not match the stored checksum.
var ErrCRCMismatch = errors.New("packet: CRC-32/MPEG-2 mismatch")

// ErrUnknownVersion indicates a version byte other than V1 or V2.
var ErrUnknownVersion = errors.New("packet: unknown version")

const (
	// crcOffsetV1 and crcOffsetV2 are the byte offsets of the checksum
	// field within a V1/V2 header, per SPEC_FULL.md §5.
	crcOffsetV1 = 8
	crcOffsetV2 = 12
)

// Header is the parsed form of a packet's header, common to V1 and V2.
type Header struct {
	Version        uint8
	Flags          uint8
	SequenceNumber uint16
	// TotalSymbols is only meaningful for V2; zero for V1.
	TotalSymbols uint16
	PayloadCRC32 uint32
}

// BuildV1 constructs a complete V1 packet: MagicID(4) Version(1) Flags(1)
// SequenceNumber(2) PayloadCRC32(4), followed by payload.
func BuildV1(seq uint16, flags uint8, payload []byte) ([]byte, error) {
	if len(payload) != packetframer.SymbolSizeBytes {
		return nil, ErrPayloadSize
	}

	pkt := make([]byte, packetframer.HV1+packetframer.SymbolSizeBytes)
	binary.LittleEndian.PutUint32(pkt[0:4], packetframer.MagicID)
	pkt[4] = packetframer.V1
	pkt[5] = flags
	binary.BigEndian.PutUint16(pkt[6:8], seq)
	copy(pkt[packetframer.HV1:], payload)

	crc := integrity.PacketCRC32C(pkt[:packetframer.HV1], payload, crcOffsetV1, 4)
	binary.LittleEndian.PutUint32(pkt[crcOffsetV1:crcOffsetV1+4], crc)
	return pkt, nil
}

// BuildV2 constructs a complete V2 packet: MagicID(4) Version(1) Flags(1)
// SequenceNumber(2) TotalSymbols(2) Reserved(2) PayloadCRC32(4), followed
// by payload.
func BuildV2(seq, totalSymbols uint16, flags uint8, payload []byte) ([]byte, error) {
	if len(payload) != packetframer.SymbolSizeBytes {
		return nil, ErrPayloadSize
	}

	pkt := make([]byte, packetframer.HV2+packetframer.SymbolSizeBytes)
	binary.LittleEndian.PutUint32(pkt[0:4], packetframer.MagicID)
	pkt[4] = packetframer.V2
	pkt[5] = flags
	binary.BigEndian.PutUint16(pkt[6:8], seq)
	binary.BigEndian.PutUint16(pkt[8:10], totalSymbols)
	copy(pkt[packetframer.HV2:], payload)

	crc := integrity.PacketCRC32C(pkt[:packetframer.HV2], payload, crcOffsetV2, 4)
	binary.LittleEndian.PutUint32(pkt[crcOffsetV2:crcOffsetV2+4], crc)
	return pkt, nil
}

// Parse validates a packet's length against its version's header size,
// verifies its CRC, and returns the parsed header and payload.
func Parse(pkt []byte) (*Header, []byte, error) {
	if len(pkt) < 5 {
		return nil, nil, ErrTooShort
	}

	version := pkt[4]
	switch version {
	case packetframer.V1:
		headerSize := packetframer.HV1
		if len(pkt) < headerSize+packetframer.SymbolSizeBytes {
			return nil, nil, ErrTooShort
		}
		payload := pkt[headerSize : headerSize+packetframer.SymbolSizeBytes]
		if !integrity.VerifyPacketCRC32C(pkt[:headerSize], payload, crcOffsetV1, 4) {
			return nil, nil, ErrCRCMismatch
		}
		return &Header{
			Version:        version,
			Flags:          pkt[5],
			SequenceNumber: binary.BigEndian.Uint16(pkt[6:8]),
			PayloadCRC32:   binary.LittleEndian.Uint32(pkt[crcOffsetV1 : crcOffsetV1+4]),
		}, payload, nil

	case packetframer.V2:
		headerSize := packetframer.HV2
		if len(pkt) < headerSize+packetframer.SymbolSizeBytes {
			return nil, nil, ErrTooShort
		}
		payload := pkt[headerSize : headerSize+packetframer.SymbolSizeBytes]
		if !integrity.VerifyPacketCRC32C(pkt[:headerSize], payload, crcOffsetV2, 4) {
			return nil, nil, ErrCRCMismatch
		}
		return &Header{
			Version:        version,
			Flags:          pkt[5],
			SequenceNumber: binary.BigEndian.Uint16(pkt[6:8]),
			TotalSymbols:   binary.BigEndian.Uint16(pkt[8:10]),
			PayloadCRC32:   binary.LittleEndian.Uint32(pkt[crcOffsetV2 : crcOffsetV2+4]),
		}, payload, nil

	default:
		return nil, nil, fmt.Errorf("%w: %#x", ErrUnknownVersion, version)
	}
}
