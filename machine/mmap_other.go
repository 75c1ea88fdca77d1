//go:build !unix

package machine

import (
	"io"
	"os"
)

func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	buf := NewAlignedBuffer(size, PayloadAlignment)
	if _, err := io.ReadFull(f, buf.Bytes()); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), nil, nil
}
