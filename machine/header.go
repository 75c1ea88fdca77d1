package machine

import (
	"errors"
	"fmt"
)

const (
	// Version is the DXM format version this package reads.
	Version    uint8 = 1
	HeaderSize       = 4
)

// Header flags.
const (
	FlagCompressed uint8 = 1 << 0
)

// Magic opens every DXM artifact ("ZD").
var Magic = [2]byte{0x5A, 0x44}

var (
	ErrInvalidMagic       = errors.New("machine: invalid magic")
	ErrUnsupportedVersion = errors.New("machine: unsupported version")
	ErrCorrupt            = errors.New("machine: corrupt payload")
)

// Header is the fixed prefix of a DXM artifact. Its layout matches the
// bytes on disk, so it is read in place.
type Header struct {
	Magic   [2]byte
	Version uint8
	Flags   uint8
}

func (h Header) Compressed() bool {
	return h.Flags&FlagCompressed != 0
}

// ReadHeader reads and checks the header at the cursor. On failure the
// cursor does not move.
func ReadHeader(d *Deserializer) (Header, error) {
	start := d.Position()
	h, err := Read[Header](d)
	if err != nil {
		return Header{}, err
	}
	if h.Magic != Magic {
		d.pos = start
		return Header{}, fmt.Errorf("%w: expected [0x5A, 0x44], got [%#02x, %#02x]", ErrInvalidMagic, h.Magic[0], h.Magic[1])
	}
	if h.Version != Version {
		d.pos = start
		return Header{}, fmt.Errorf("%w: found %d, expected %d", ErrUnsupportedVersion, h.Version, Version)
	}
	return *h, nil
}

// AppendHeader appends the encoded header to dst.
func AppendHeader(dst []byte, h Header) []byte {
	return append(dst, h.Magic[0], h.Magic[1], h.Version, h.Flags)
}

// Pack wraps payload in a DXM artifact: a header followed by the payload,
// compressed when compress is set.
func Pack(payload []byte, compress bool, level CompressionLevel) ([]byte, error) {
	h := Header{Magic: Magic, Version: Version}
	if !compress {
		out := make([]byte, 0, HeaderSize+len(payload))
		return append(AppendHeader(out, h), payload...), nil
	}
	h.Flags |= FlagCompressed
	body, err := Compress(payload, level)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, HeaderSize+len(body))
	return append(AppendHeader(out, h), body...), nil
}

// Unpack reads the header of artifact and returns a Deserializer over its
// payload. Compressed payloads are inflated into an aligned buffer;
// otherwise the Deserializer shares artifact and starts after the header.
func Unpack(artifact []byte) (Header, *Deserializer, error) {
	d := NewDeserializer(artifact)
	h, err := ReadHeader(d)
	if err != nil {
		return Header{}, nil, err
	}
	if !h.Compressed() {
		return h, d, nil
	}
	buf, err := Decompress(artifact[d.Position():])
	if err != nil {
		return Header{}, nil, err
	}
	return h, NewDeserializer(buf.Bytes()), nil
}
