package machine

import (
	"fmt"
	"math"
	"os"

	"github.com/dxformat/dx"
)

// Mapping is a read-only view of a file. On unix systems the file is
// memory-mapped, so the view is page-aligned and shared with the page
// cache; elsewhere it is read into an AlignedBuffer.
type Mapping struct {
	data    []byte
	release func() error
}

// Open maps the file at path. Files larger than dx.MaxInputSize are
// rejected.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("machine: open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("machine: stat %s: %w", path, err)
	}
	if st.Size() > dx.MaxInputSize {
		return nil, &dx.InputTooLargeError{Size: int(min(st.Size(), math.MaxInt)), Max: dx.MaxInputSize}
	}
	if st.Size() == 0 {
		return &Mapping{data: []byte{}}, nil
	}

	data, release, err := mapFile(f, int(st.Size()))
	if err != nil {
		return nil, fmt.Errorf("machine: map %s: %w", path, err)
	}
	return &Mapping{data: data, release: release}, nil
}

// Bytes returns the mapped contents. The slice is invalid after Close.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Deserializer returns a new cursor over the mapped contents.
func (m *Mapping) Deserializer() *Deserializer {
	return NewDeserializer(m.data)
}

// Close releases the mapping. It is safe to call more than once.
func (m *Mapping) Close() error {
	release := m.release
	m.data, m.release = nil, nil
	if release == nil {
		return nil
	}
	return release()
}
