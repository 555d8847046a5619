package packetframer

import (
	"encoding/binary"
	"testing"
)

func buildPacket(version uint8) []byte {
	size := HV1 + SymbolSizeBytes
	if version == V2 {
		size = HV2 + SymbolSizeBytes
	}
	pkt := make([]byte, size)
	binary.LittleEndian.PutUint32(pkt[0:4], MagicID)
	pkt[4] = version
	return pkt
}

// TestScenarioS4 matches spec.md §8.S4: three concatenated V2 packets
// followed by 7 random trailing bytes yields exactly three packets, each
// HV2+SymbolSizeBytes long.
func TestScenarioS4(t *testing.T) {
	var raw []byte
	for i := 0; i < 3; i++ {
		raw = append(raw, buildPacket(V2)...)
	}
	raw = append(raw, []byte{1, 2, 3, 4, 5, 6, 7}...)

	packets := ExtractPackets(raw)
	if len(packets) != 3 {
		t.Fatalf("got %d packets, want 3", len(packets))
	}
	for i, p := range packets {
		if len(p) != HV2+SymbolSizeBytes {
			t.Errorf("packet %d has length %d, want %d", i, len(p), HV2+SymbolSizeBytes)
		}
	}
}

// TestFramerAlignment matches spec.md §8 property 6: n valid V1 packets
// followed by non-magic trailing bytes aligned at n*packetSize yields
// exactly those n packets.
func TestFramerAlignment(t *testing.T) {
	const n = 5
	var raw []byte
	for i := 0; i < n; i++ {
		raw = append(raw, buildPacket(V1)...)
	}
	raw = append(raw, []byte{0xFF, 0xFF, 0xFF, 0xFF}...)

	packets := ExtractPackets(raw)
	if len(packets) != n {
		t.Fatalf("got %d packets, want %d", len(packets), n)
	}
}

func TestExtractPackets_EmptyOnNoMagic(t *testing.T) {
	raw := make([]byte, HV1+SymbolSizeBytes)
	if packets := ExtractPackets(raw); packets != nil {
		t.Errorf("expected nil/empty packets, got %v", packets)
	}
}

func TestExtractPackets_TruncatesAtCorruptedPacket(t *testing.T) {
	good := buildPacket(V1)
	bad := buildPacket(V1)
	bad[0] ^= 0xFF // corrupt magic
	raw := append(append([]byte{}, good...), bad...)

	packets := ExtractPackets(raw)
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1 (framer must not resynchronise)", len(packets))
	}
}

func TestPacketSize_UnknownVersionSelectsV1(t *testing.T) {
	raw := buildPacket(V1)
	raw[4] = 0x7F // unknown version
	if got := PacketSize(raw); got != HV1+SymbolSizeBytes {
		t.Errorf("PacketSize() = %d, want %d for unknown version", got, HV1+SymbolSizeBytes)
	}
}

func TestPacketSize_ShortStream(t *testing.T) {
	if got := PacketSize([]byte{1, 2, 3}); got != HV1+SymbolSizeBytes {
		t.Errorf("PacketSize() = %d, want %d for short stream", got, HV1+SymbolSizeBytes)
	}
}
