// Command dxinspect tokenizes, validates and packs DX documents.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/dxformat/dx/internal/config"
	"github.com/dxformat/dx/internal/logging"
)

const appName = "dxinspect"

type Options struct {
	Config  string `short:"c" long:"config" description:"Path to a dxinspect.toml file (default: ./dxinspect.toml when present)"`
	Verbose []bool `short:"v" long:"verbose" description:"Enable debug logging"`
}

type app struct {
	opts   Options
	cfg    config.Config
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.run(os.Args[1:]))
}

// run parses args and executes the selected command, returning the exit
// status.
func (a *app) run(args []string) int {
	a.log = logging.New(appName, logging.DefaultConfig(), a.stderr)
	parser := a.newParser()
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			if ferr.Type == flags.ErrHelp {
				io.WriteString(a.stdout, ferr.Message+"\n")
				return 0
			}
			io.WriteString(a.stderr, ferr.Message+"\n")
			return 2
		}
		if errors.Is(err, errReported) {
			return 1
		}
		a.log.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

func (a *app) newParser() *flags.Parser {
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = appName

	parser.AddCommand("tokens", "Print the token stream of a DX document", "", &tokensCmd{app: a})
	parser.AddCommand("validate", "Check that a file is valid UTF-8", "", &validateCmd{app: a})
	parser.AddCommand("header", "Print the header of a DXM artifact", "", &headerCmd{app: a})
	parser.AddCommand("pack", "Wrap a payload in a DXM artifact", "", &packCmd{app: a})
	parser.AddCommand("unpack", "Extract the payload of a DXM artifact", "", &unpackCmd{app: a})

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := a.setup(); err != nil {
			return err
		}
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}
	return parser
}

// setup loads the configuration and builds the logger once flags are parsed.
func (a *app) setup() error {
	a.cfg = config.Default()
	path := a.opts.Config
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	lcfg := logging.DefaultConfig()
	lcfg.Level = a.cfg.LogLevel
	if len(a.opts.Verbose) > 0 {
		lcfg.Level = zerolog.DebugLevel
	}
	a.log = logging.New(appName, lcfg, a.stderr)
	a.log.Debug().Str("config", path).Int("max_input_size", a.cfg.MaxInputSize).
		Bool("detailed_utf8", a.cfg.DetailedUTF8).Stringer("compression_level", a.cfg.CompressionLevel).
		Msg("configured")
	return nil
}
