package machine

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/dxformat/dx"
)

// CompressionLevel selects the zstd speed/ratio trade-off.
type CompressionLevel int

const (
	LevelFast CompressionLevel = iota
	LevelDefault
	LevelHigh
)

var levelNames = [...]string{
	LevelFast:    "fast",
	LevelDefault: "default",
	LevelHigh:    "high",
}

func (l CompressionLevel) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("CompressionLevel(%d)", int(l))
}

// ParseCompressionLevel accepts the names returned by String.
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	for i, name := range levelNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return CompressionLevel(i), nil
		}
	}
	return 0, fmt.Errorf("machine: unknown compression level %q", s)
}

func (l CompressionLevel) encoderLevel() zstd.EncoderLevel {
	switch l {
	case LevelFast:
		return zstd.SpeedFastest
	case LevelHigh:
		return zstd.SpeedBestCompression
	}
	return zstd.SpeedDefault
}

// sizePrefix is the little-endian u32 original size ahead of the zstd frame.
const sizePrefix = 4

// Encoders and the decoder are shared; EncodeAll and DecodeAll are safe for
// concurrent use.
var (
	encoders    [len(levelNames)]*zstd.Encoder
	encoderErrs [len(levelNames)]error
	encoderOnce [len(levelNames)]sync.Once

	decoder     *zstd.Decoder
	decoderErr  error
	decoderOnce sync.Once
)

func encoderFor(l CompressionLevel) (*zstd.Encoder, error) {
	if l < 0 || int(l) >= len(levelNames) {
		return nil, fmt.Errorf("machine: unknown compression level %d", int(l))
	}
	encoderOnce[l].Do(func() {
		encoders[l], encoderErrs[l] = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(l.encoderLevel()),
			zstd.WithEncoderConcurrency(1))
	})
	return encoders[l], encoderErrs[l]
}

func sharedDecoder() (*zstd.Decoder, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(0),
			zstd.WithDecoderMaxMemory(uint64(dx.MaxInputSize)))
	})
	return decoder, decoderErr
}

// Compress encodes data as [u32 LE original size][zstd frame].
func Compress(data []byte, level CompressionLevel) ([]byte, error) {
	if err := dx.CheckInputSize(len(data)); err != nil {
		return nil, err
	}
	enc, err := encoderFor(level)
	if err != nil {
		return nil, err
	}
	out := make([]byte, sizePrefix, sizePrefix+len(data)/2+64)
	binary.LittleEndian.PutUint32(out, uint32(len(data)))
	return enc.EncodeAll(data, out), nil
}

// Decompress inflates a Compress envelope into a buffer aligned to
// PayloadAlignment, ready for a Deserializer.
func Decompress(wire []byte) (*AlignedBuffer, error) {
	if len(wire) < sizePrefix {
		return nil, &dx.BufferTooSmallError{Needed: sizePrefix, Available: len(wire)}
	}
	size := int(binary.LittleEndian.Uint32(wire))
	if err := dx.CheckInputSize(size); err != nil {
		return nil, err
	}
	if size == 0 && len(wire) == sizePrefix {
		return NewAlignedBuffer(0, PayloadAlignment), nil
	}
	dec, err := sharedDecoder()
	if err != nil {
		return nil, err
	}

	buf := NewAlignedBuffer(size, PayloadAlignment)
	out, err := dec.DecodeAll(wire[sizePrefix:], buf.Bytes()[:0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	// buf has no spare capacity, so a longer frame would have been
	// reallocated and shows up as a length mismatch.
	if len(out) != size {
		return nil, fmt.Errorf("%w: inflated to %d bytes, header says %d", ErrCorrupt, len(out), size)
	}
	return buf, nil
}
