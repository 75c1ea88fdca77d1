package machine

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.dxm")
	data := make([]byte, 0, 32)
	for i := uint64(1); i <= 4; i++ {
		data = binary.NativeEndian.AppendUint64(data, i*10)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if len(m.Bytes()) != len(data) {
		t.Fatalf("Expected %d bytes, got %d", len(data), len(m.Bytes()))
	}
	vals, err := ReadSlice[uint64](m.Deserializer(), 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range vals {
		if v != uint64(i+1)*10 {
			t.Errorf("value %d: got %d", i, v)
		}
	}

	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if m.Bytes() != nil {
		t.Error("Bytes should be nil after Close")
	}
}

func TestOpen_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dxm")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Bytes()) != 0 || m.Deserializer().Remaining() != 0 {
		t.Error("Expected an empty mapping")
	}
	if err := m.Close(); err != nil {
		t.Error(err)
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
}
