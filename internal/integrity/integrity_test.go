package integrity

import (
	"encoding/binary"
	"testing"
)

// TestSha256KnownAnswers matches spec.md §8 property 8.
func TestSha256KnownAnswers(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte(""), "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{[]byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tt := range tests {
		got := Hex(Sha256(tt.input))
		if got != tt.want {
			t.Errorf("Hex(Sha256(%q)) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestHexUsesShaCharacters(t *testing.T) {
	digest := Sha256([]byte("hello"))
	got := Hex(digest)
	if len(got) != 64 {
		t.Fatalf("Hex() length = %d, want 64", len(got))
	}
	for _, c := range got {
		if !containsRune(ShaCharacters, c) {
			t.Errorf("Hex() contains unexpected character %q", c)
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

// TestCRCSeedSymmetry matches spec.md §8.S6: a nonzero seed behaves as
// though its little-endian bytes were prepended to the data.
func TestCRCSeedSymmetry(t *testing.T) {
	data := []byte("the quick brown fox")

	if a, b := CRC32MPEG2(data, 0), CRC32MPEG2(data, 0); a != b {
		t.Errorf("CRC32MPEG2 is not deterministic: %d != %d", a, b)
	}

	for _, seed := range []uint32{1, 0xDEADBEEF, 0x12345678} {
		var le [4]byte
		binary.LittleEndian.PutUint32(le[:], seed)
		prepended := append(append([]byte{}, le[:]...), data...)

		got := CRC32MPEG2(data, seed)
		want := CRC32MPEG2(prepended, 0)
		if got != want {
			t.Errorf("seed=%#x: CRC32MPEG2(data, seed) = %d, want %d", seed, got, want)
		}
	}
}

// TestScenarioS5 matches spec.md §8.S5: verify succeeds with the checksum
// field set correctly and fails if any single bit of header or payload is
// flipped.
func TestScenarioS5(t *testing.T) {
	header := make([]byte, 16)
	for i := range header {
		header[i] = byte(i * 7)
	}
	payload := []byte("payload bytes for the crc test")
	const crcOffset, crcSize = 12, 4

	crc := PacketCRC32C(header, payload, crcOffset, crcSize)
	binary.LittleEndian.PutUint32(header[crcOffset:crcOffset+4], crc)

	if !VerifyPacketCRC32C(header, payload, crcOffset, crcSize) {
		t.Fatal("expected verify to succeed on an untampered packet")
	}

	// Flip a header bit outside the checksum field.
	corruptHeader := append([]byte{}, header...)
	corruptHeader[0] ^= 0x01
	if VerifyPacketCRC32C(corruptHeader, payload, crcOffset, crcSize) {
		t.Error("expected verify to fail after corrupting header")
	}

	// Flip a payload bit.
	corruptPayload := append([]byte{}, payload...)
	corruptPayload[0] ^= 0x01
	if VerifyPacketCRC32C(header, corruptPayload, crcOffset, crcSize) {
		t.Error("expected verify to fail after corrupting payload")
	}
}

func TestVerifyPacketCRC32C_RejectsBadCrcSize(t *testing.T) {
	header := make([]byte, 16)
	if VerifyPacketCRC32C(header, nil, 0, 2) {
		t.Error("expected false for crcSize != 4")
	}
}

func TestVerifyPacketCRC32C_RejectsOutOfBoundsOffset(t *testing.T) {
	header := make([]byte, 8)
	if VerifyPacketCRC32C(header, nil, 6, 4) {
		t.Error("expected false when crcOffset+4 > len(header)")
	}
}
