package integrity

import "encoding/binary"

// crc32MPEG2Poly is the CRC-32/MPEG-2 generator polynomial: init
// 0xFFFFFFFF, no input/output reflection, no final XOR. This is not the
// same algorithm as the "Castagnoli" CRC-32C despite the historical name
// carried over from the reference implementation.
const crc32MPEG2Poly uint32 = 0x04C11DB7

var crc32MPEG2Table [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for bit := 0; bit < 8; bit++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ crc32MPEG2Poly
			} else {
				crc <<= 1
			}
		}
		crc32MPEG2Table[i] = crc
	}
}

// updateCRC32MPEG2 advances a running CRC-32/MPEG-2 register over data.
func updateCRC32MPEG2(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = (crc << 8) ^ crc32MPEG2Table[byte(crc>>24)^b]
	}
	return crc
}

// CRC32MPEG2 computes the CRC-32/MPEG-2 checksum of data. When seed is
// nonzero, the four little-endian bytes of seed are prepended to the input
// for the purpose of computation; when seed is zero, the standard initial
// register value (0xFFFFFFFF) starts directly on data. This means
// CRC32MPEG2(data, s) == CRC32MPEG2(append(le(s), data...), 0) for any s.
func CRC32MPEG2(data []byte, seed uint32) uint32 {
	crc := uint32(0xFFFFFFFF)
	if seed != 0 {
		var seedBytes [4]byte
		binary.LittleEndian.PutUint32(seedBytes[:], seed)
		crc = updateCRC32MPEG2(crc, seedBytes[:])
	}
	return updateCRC32MPEG2(crc, data)
}
