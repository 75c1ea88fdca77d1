package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dxformat/dx"
	"github.com/dxformat/dx/machine"
)

// errReported marks a failure that has already been logged with context.
var errReported = errors.New("reported")

type fileArg struct {
	File string `positional-arg-name:"file" required:"yes"`
}

type inOutArgs struct {
	Input  string `positional-arg-name:"input" required:"yes"`
	Output string `positional-arg-name:"output" required:"yes"`
}

// open maps path and applies the configured size limit.
func (a *app) open(path string) (*machine.Mapping, error) {
	m, err := machine.Open(path)
	if err != nil {
		return nil, err
	}
	if err := a.cfg.CheckSize(len(m.Bytes())); err != nil {
		m.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Debug().Str("file", path).Int("bytes", len(m.Bytes())).Msg("mapped")
	return m, nil
}

// report logs err with the location it points to in input.
func (a *app) report(path string, input []byte, err error) error {
	a.log.Error().Str("file", path).Msg(dx.Describe(input, err))
	return errReported
}

type tokensCmd struct {
	app  *app
	Args fileArg `positional-args:"yes"`
}

func (c *tokensCmd) Execute([]string) error {
	m, err := c.app.open(c.Args.File)
	if err != nil {
		return err
	}
	defer m.Close()
	input := m.Bytes()

	t := dx.NewTokenizer(input)
	lines := lineTracker{input: input, line: 1}
	count := 0
	for {
		tok, err := t.NextToken()
		if err != nil {
			return c.app.report(c.Args.File, input, err)
		}
		if tok.Type == dx.TokenEOF {
			break
		}
		line, col := lines.at(tok.Start)
		fmt.Fprintf(c.app.stdout, "%d:%d\t%v\n", line, col, tok)
		count++
	}
	c.app.log.Info().Str("file", c.Args.File).Int("tokens", count).Msg("tokenized")
	return nil
}

// lineTracker converts increasing offsets to line and column in linear
// total time.
type lineTracker struct {
	input     []byte
	pos       int
	line      int
	lineStart int
}

func (l *lineTracker) at(offset int) (line, col int) {
	seg := l.input[l.pos:offset]
	if n := bytes.Count(seg, []byte{'\n'}); n > 0 {
		l.line += n
		l.lineStart = l.pos + bytes.LastIndexByte(seg, '\n') + 1
	}
	l.pos = offset
	return l.line, offset - l.lineStart + 1
}

type validateCmd struct {
	app      *app
	Detailed []bool `short:"d" long:"detailed" description:"Report why an invalid sequence was rejected"`
	Args     fileArg `positional-args:"yes"`
}

func (c *validateCmd) Execute([]string) error {
	m, err := c.app.open(c.Args.File)
	if err != nil {
		return err
	}
	defer m.Close()
	input := m.Bytes()

	validate := dx.ValidateUTF8
	if len(c.Detailed) > 0 || c.app.cfg.DetailedUTF8 {
		validate = dx.ValidateUTF8Detailed
	}
	if _, err := validate(input); err != nil {
		return c.app.report(c.Args.File, input, err)
	}
	fmt.Fprintf(c.app.stdout, "%s: valid UTF-8, %d bytes\n", c.Args.File, len(input))
	return nil
}

type headerCmd struct {
	app  *app
	Args fileArg `positional-args:"yes"`
}

func (c *headerCmd) Execute([]string) error {
	m, err := c.app.open(c.Args.File)
	if err != nil {
		return err
	}
	defer m.Close()

	d := m.Deserializer()
	h, err := machine.ReadHeader(d)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Args.File, err)
	}
	fmt.Fprintf(c.app.stdout, "magic=%q version=%d flags=%#02x compressed=%v payload=%d\n",
		h.Magic[:], h.Version, h.Flags, h.Compressed(), d.Remaining())
	return nil
}

type packCmd struct {
	app      *app
	Compress []bool `short:"z" long:"compress" description:"Compress the payload with zstd"`
	Level    string `short:"l" long:"level" description:"Compression level: fast, default or high (overrides the config)"`
	Args     inOutArgs `positional-args:"yes"`
}

func (c *packCmd) Execute([]string) error {
	level := c.app.cfg.CompressionLevel
	if c.Level != "" {
		l, err := machine.ParseCompressionLevel(c.Level)
		if err != nil {
			return err
		}
		level = l
	}

	m, err := c.app.open(c.Args.Input)
	if err != nil {
		return err
	}
	defer m.Close()

	artifact, err := machine.Pack(m.Bytes(), len(c.Compress) > 0, level)
	if err != nil {
		return fmt.Errorf("pack %s: %w", c.Args.Input, err)
	}
	if err := os.WriteFile(c.Args.Output, artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Args.Output, err)
	}
	c.app.log.Info().Str("output", c.Args.Output).Int("payload", len(m.Bytes())).
		Int("artifact", len(artifact)).Bool("compressed", len(c.Compress) > 0).Msg("packed")
	return nil
}

type unpackCmd struct {
	app  *app
	Args inOutArgs `positional-args:"yes"`
}

func (c *unpackCmd) Execute([]string) error {
	m, err := c.app.open(c.Args.Input)
	if err != nil {
		return err
	}
	defer m.Close()

	h, d, err := machine.Unpack(m.Bytes())
	if err != nil {
		return fmt.Errorf("unpack %s: %w", c.Args.Input, err)
	}
	payload, err := d.ReadBytes(d.Remaining())
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Args.Output, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Args.Output, err)
	}
	c.app.log.Info().Str("output", c.Args.Output).Int("payload", len(payload)).
		Bool("compressed", h.Compressed()).Msg("unpacked")
	return nil
}
