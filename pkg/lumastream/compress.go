package lumastream

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// mustNewZstdEncoder and mustNewZstdDecoder mirror svanichkin/babe's
// constructors of the same name: one goroutine-unsafe-to-share-cheaply
// encoder/decoder per acquisition from the pool below.
func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

// zstdEncPool and zstdDecPool reuse encoders/decoders across Split/JoinPayload
// calls, the same sync.Pool shape babe's compressZstd/decompressZstd use to
// avoid paying zstd.NewWriter/NewReader's setup cost on every call.
var zstdEncPool = sync.Pool{
	New: func() any { return mustNewZstdEncoder() },
}

var zstdDecPool = sync.Pool{
	New: func() any { return mustNewZstdDecoder() },
}

// compressPayload zstd-compresses data. The encoder is built without
// zstd.WithZeroFrames, so empty input encodes to zero bytes rather than a
// frame; decompressPayload turns zero bytes back into an empty result, so
// empty payloads need no special case on either side.
func compressPayload(data []byte) []byte {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, nil)
	zstdEncPool.Put(enc)
	return out
}

// decompressPayload reverses compressPayload.
func decompressPayload(data []byte) ([]byte, error) {
	dec := zstdDecPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(data, nil)
	zstdDecPool.Put(dec)
	return out, err
}
