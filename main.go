package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jcorbin/eczema/internal/flushio"
	"github.com/jcorbin/eczema/internal/logio"
)

func main() {
	var log logio.Logger
	log.SetOutput(os.Stderr)
	if err := run(&log); err != nil {
		log.Errorf("%+v", err)
	}
	os.Exit(log.ExitCode())
}

func run(log *logio.Logger) error {
	ctx := context.Background()

	var (
		configPath  string
		source      string
		interactive bool
		trace       bool
		timeout     time.Duration
		colour      string
		teePath     string
		printConfig bool
		dump        bool
		maxDepth    int
	)
	flag.StringVar(&configPath, "config", "", "read settings from a YAML file")
	flag.StringVar(&source, "e", "", "evaluate source text, then exit unless -i is given")
	flag.BoolVar(&interactive, "i", false, "read console input after loading files and -e source")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit for console input")
	flag.StringVar(&colour, "colour", "", "colour output: auto, always or never")
	flag.StringVar(&teePath, "tee", "", "copy console output into a file")
	flag.BoolVar(&printConfig, "print-config", false, "print the effective settings and exit")
	flag.BoolVar(&dump, "dump", false, "log a dump of the final VM state")
	flag.IntVar(&maxDepth, "max-depth", 0, "limit how deeply words may nest (default 1024)")
	flag.Parse()

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if colour != "" {
		cfg.Colour = colour
		if err := cfg.validate(); err != nil {
			return err
		}
	}
	if printConfig {
		return cfg.Encode(os.Stdout)
	}

	var out io.Writer = os.Stdout
	if teePath != "" {
		f, err := os.Create(teePath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = flushio.WriteFlushers(
			flushio.NewWriteFlusher(os.Stdout),
			flushio.NewWriteFlusher(f))
	}
	term := newTerminal(out, cfg.useColour(os.Stdout), cfg.Styles)
	defer term.Flush()

	opts := []VMOption{
		WithConsole(term),
		WithEcho(cfg.Echo),
		WithMaxDepth(maxDepth),
	}
	if trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}

	repl := interactive || (source == "" && flag.NArg() == 0)
	if repl {
		if isTerminal(os.Stdin) {
			opts = append(opts, WithLines(newLineEditor(cfg.Prompt, cfg.History)))
		} else {
			opts = append(opts,
				WithInput(os.Stdin),
				WithFailureLog(log.Errorf))
		}
	}

	vm := New(opts...)
	defer vm.Close()
	InstallConsole(vm)
	if dump {
		defer dumpToLog(vm, log)
	}

	for _, path := range append(cfg.Preload, flag.Args()...) {
		if err := vm.ParseFile(path); err != nil {
			log.Errorf("%v: %v", path, err)
		}
	}
	if source != "" {
		if err := vm.Parse(source); err != nil {
			log.Errorf("-e: %v", err)
		}
	}
	if err := term.Flush(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if !repl {
		return nil
	}

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return vm.Run(ctx)
}

func dumpToLog(vm *VM, log *logio.Logger) {
	lw := logio.Writer{Logf: log.Leveledf("DUMP")}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw}.dump()
}
