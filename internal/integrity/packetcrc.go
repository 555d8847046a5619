package integrity

import "encoding/binary"

// PacketCRC32C computes the CRC-32/MPEG-2 checksum of
// header[0:crcOffset] || zeros(crcSize) || header[crcOffset+crcSize:] || payload,
// i.e. the header with its checksum field zeroed, concatenated with the
// payload. crcSize == 4 is the only supported value.
func PacketCRC32C(header, payload []byte, crcOffset, crcSize int) uint32 {
	crc := uint32(0xFFFFFFFF)
	crc = updateCRC32MPEG2(crc, header[:crcOffset])
	if crcSize == 4 {
		crc = updateCRC32MPEG2(crc, make([]byte, 4))
	}
	if after := crcOffset + crcSize; after < len(header) {
		crc = updateCRC32MPEG2(crc, header[after:])
	}
	crc = updateCRC32MPEG2(crc, payload)
	return crc
}

// VerifyPacketCRC32C reports whether the little-endian uint32 stored at
// header[crcOffset:crcOffset+4] equals PacketCRC32C(header, payload,
// crcOffset, crcSize). It returns false (never panics) for any
// ConfigurationError/BoundsError condition: crcSize != 4, or
// crcOffset+4 > len(header).
func VerifyPacketCRC32C(header, payload []byte, crcOffset, crcSize int) bool {
	if crcSize != 4 {
		return false
	}
	if crcOffset+4 > len(header) {
		return false
	}
	stored := binary.LittleEndian.Uint32(header[crcOffset : crcOffset+4])
	return stored == PacketCRC32C(header, payload, crcOffset, crcSize)
}
