package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("DX_LOG_NOCOLOR", "true")
	var stdout, stderr bytes.Buffer
	a := &app{stdout: &stdout, stderr: &stderr}
	code := a.run(args)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokens(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.dx", []byte("name:Alice\n# note\nage:30"))

	code, out, errOut := runCLI(t, "tokens", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := []string{
		`1:1	Ident("name")`,
		`1:5	Colon`,
		`1:6	Ident("Alice")`,
		`1:11	Newline`,
		`3:1	Ident("age")`,
		`3:4	Colon`,
		`3:5	Int(30)`,
	}
	got := strings.Split(strings.TrimSpace(out), "\n")
	if len(got) != len(want) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(want), len(got), out)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestTokens_InvalidNumber(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.dx", []byte("a:1\nb:2e"))
	code, _, errOut := runCLI(t, "tokens", path)
	if code != 1 {
		t.Fatalf("Expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "line 2, column 3") {
		t.Errorf("Expected a located error, got %q", errOut)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", []byte("Hello, 世界!"))
	bad := writeFile(t, dir, "bad.txt", []byte{'o', 'k', 0xED, 0xA0, 0x80})

	code, out, _ := runCLI(t, "validate", good)
	if code != 0 || !strings.Contains(out, "valid UTF-8, 14 bytes") {
		t.Errorf("good file: exit %d, %q", code, out)
	}

	code, _, errOut := runCLI(t, "validate", "--detailed", bad)
	if code != 1 || !strings.Contains(errOut, "encoded surrogate") {
		t.Errorf("bad file: exit %d, %q", code, errOut)
	}
}

func TestPackHeaderUnpack(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("row|"), 500)
	in := writeFile(t, dir, "payload.bin", payload)
	artifact := filepath.Join(dir, "payload.dxm")
	out := filepath.Join(dir, "payload.out")

	if code, _, errOut := runCLI(t, "pack", "--compress", "--level", "high", in, artifact); code != 0 {
		t.Fatalf("pack: exit %d: %s", code, errOut)
	}

	code, hdr, _ := runCLI(t, "header", artifact)
	if code != 0 || !strings.Contains(hdr, `magic="ZD" version=1`) || !strings.Contains(hdr, "compressed=true") {
		t.Errorf("header: exit %d, %q", code, hdr)
	}

	if code, _, errOut := runCLI(t, "unpack", artifact, out); code != 0 {
		t.Fatalf("unpack: exit %d: %s", code, errOut)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("unpacked payload differs from the input")
	}
}

func TestConfigLimit(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "dxinspect.toml", []byte("max_input_size = 4\n"))
	in := writeFile(t, dir, "doc.dx", []byte("a:12345"))

	code, _, errOut := runCLI(t, "-c", cfg, "tokens", in)
	if code != 1 || !strings.Contains(errOut, "input too large") {
		t.Errorf("Expected the configured limit to apply, got exit %d: %q", code, errOut)
	}
}

func TestUsageErrors(t *testing.T) {
	if code, _, _ := runCLI(t, "tokens"); code != 2 {
		t.Errorf("missing argument: expected exit 2, got %d", code)
	}
	if code, _, _ := runCLI(t, "frobnicate"); code != 2 {
		t.Errorf("unknown command: expected exit 2, got %d", code)
	}
	if code, out, _ := runCLI(t, "--help"); code != 0 || !strings.Contains(out, "tokens") {
		t.Errorf("help: exit %d, %q", code, out)
	}
}
