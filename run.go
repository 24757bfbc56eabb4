package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/eczema/internal/fileinput"
	"github.com/jcorbin/eczema/internal/panicerr"
)

// LineReader supplies console input a line at a time; io.EOF ends it.
type LineReader interface {
	ReadLine() (string, error)
}

type locator interface {
	Location() fileinput.Location
}

// Run feeds every line from the VM's line source through Read until the
// source is exhausted or ctx is done. Failed lines are reported and
// skipped; only errors from the source itself end the run early.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("VM", func() error {
		return vm.run(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (vm *VM) run(ctx context.Context) error {
	if vm.lines == nil {
		return nil
	}
	defer vm.flush()

	lines := make(chan inputLine)
	parent := ctx
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(lines)
		for {
			text, err := vm.lines.ReadLine()
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return err
			}
			line := inputLine{text: text}
			if loc, ok := vm.lines.(locator); ok {
				line.loc = loc.Location().String()
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	eg.Go(func() error {
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				vm.readLine(line)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	// closing the source unblocks any read in progress when cancelled
	eg.Go(func() error {
		<-ctx.Done()
		if parent.Err() != nil {
			vm.Close()
		}
		return nil
	})

	return eg.Wait()
}

// inputLine is a line of input, along with where it was read from when the
// source can tell.
type inputLine struct {
	text string
	loc  string
}

func (vm *VM) readLine(line inputLine) {
	if err := vm.Read(line.text); err != nil && vm.failuref != nil {
		if line.loc != "" {
			vm.failuref("%v: %v", line.loc, err)
		} else {
			vm.failuref("%v", err)
		}
	}
	vm.flush()
}

func (vm *VM) flush() {
	if fl, ok := vm.console.(interface{ Flush() error }); ok {
		if err := fl.Flush(); err != nil {
			vm.logf("#", "flush error: %v", err)
		}
	}
}

// lineEditor reads lines from an interactive terminal, with history.
type lineEditor struct {
	state   *liner.State
	prompt  string
	history string
}

func newLineEditor(prompt, history string) *lineEditor {
	ed := &lineEditor{
		state:   liner.NewLiner(),
		prompt:  prompt,
		history: history,
	}
	ed.state.SetCtrlCAborts(true)
	if history != "" {
		if f, err := os.Open(history); err == nil {
			ed.state.ReadHistory(f)
			f.Close()
		}
	}
	return ed
}

// ReadLine prompts for a line; ^C abandons the line being edited and
// yields an empty one, ^D ends input.
func (ed *lineEditor) ReadLine() (string, error) {
	line, err := ed.state.Prompt(ed.prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		ed.state.AppendHistory(line)
	}
	return line, nil
}

// Close saves history and restores the terminal.
func (ed *lineEditor) Close() error {
	if ed.history != "" {
		if f, err := os.Create(ed.history); err == nil {
			ed.state.WriteHistory(f)
			f.Close()
		}
	}
	return ed.state.Close()
}
