package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jcorbin/eczema/internal/flushio"
	"github.com/jcorbin/eczema/internal/runeio"
)

// Console receives everything the VM writes, one line at a time, with a
// style hint naming how the line should be shown.
type Console interface {
	Write(text, style string)
}

// Style hints used by the VM and the CONSOLE vocabulary; a hint may also be
// a literal "#rgb" or "#rrggbb" colour.
const (
	StyleDefault   = "default"
	StyleError     = "error"
	StyleInput     = "input"
	StyleTimestamp = "timestamp"
	StyleTrace     = "trace"
)

var defaultStyles = map[string]string{
	StyleDefault:   "#ccc",
	StyleError:     "#f66",
	StyleInput:     "#6cf",
	StyleTimestamp: "#888",
	StyleTrace:     "#fc6",
}

// InstallConsole publishes the CONSOLE book, whose words write through
// the VM's console. READ is the entry point for console input: it echoes
// the line when the VM is configured to, then evaluates it.
func InstallConsole(vm *VM) *Book {
	book := vm.Publish("CONSOLE")
	vm.Register("WRITE", func(vm *VM) {
		vm.need(2)
		style := vm.PopText()
		vm.Write(stringify(vm.Pop()), style)
	}, false)
	vm.Register("ERROR", func(vm *VM) {
		vm.Write(stringify(vm.Pop()), StyleError)
	}, false)
	vm.Register("TIMESTAMP", (*VM).timestamp, false)
	vm.Register("INPUT", func(vm *VM) {
		vm.Write(vm.PopText(), StyleInput)
	}, false)
	vm.Register("READ", func(vm *VM) {
		line := vm.PopText()
		if vm.echo {
			vm.timestamp()
			vm.Write(line, StyleInput)
		}
		vm.parse("", line)
	}, false)
	return book
}

func (vm *VM) timestamp() {
	vm.Write(time.Now().UTC().Format(time.RFC1123), StyleTimestamp)
}

// terminal is a Console over a byte stream, rendering styles as 24-bit
// ANSI colours when colour is enabled.
type terminal struct {
	out    flushio.WriteFlusher
	styles map[string]string
	colour bool
	err    error
}

func newTerminal(w io.Writer, colour bool, styles map[string]string) *terminal {
	term := &terminal{
		out:    flushio.NewWriteFlusher(w),
		styles: make(map[string]string, len(defaultStyles)),
		colour: colour,
	}
	for name, hex := range defaultStyles {
		term.styles[name] = hex
	}
	for name, hex := range styles {
		term.styles[name] = hex
	}
	return term
}

func (term *terminal) Write(text, style string) {
	if term.err != nil {
		return
	}
	var sgr string
	if term.colour {
		hex, ok := term.styles[style]
		if !ok && strings.HasPrefix(style, "#") {
			hex = style
		}
		sgr, _ = ansiColour(hex)
	}
	if sgr != "" {
		term.write(sgr)
	}
	if term.err == nil {
		_, term.err = runeio.WriteVisibleString(term.out, text)
	}
	if sgr != "" {
		term.write("\x1b[0m")
	}
	term.write("\n")
}

func (term *terminal) write(s string) {
	if term.err == nil {
		_, term.err = io.WriteString(term.out, s)
	}
}

// Flush flushes buffered output, returning the first write error seen.
func (term *terminal) Flush() error {
	if err := term.out.Flush(); term.err == nil {
		term.err = err
	}
	return term.err
}

// ansiColour returns the SGR sequence selecting hex as foreground colour.
func ansiColour(hex string) (string, bool) {
	rgb, err := parseHexColour(hex)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", rgb[0], rgb[1], rgb[2]), true
}

func parseHexColour(hex string) ([3]uint8, error) {
	var rgb [3]uint8
	digits := strings.TrimPrefix(hex, "#")
	if digits == hex {
		return rgb, fmt.Errorf("colour %q must start with #", hex)
	}
	switch len(digits) {
	case 3:
		for i := range rgb {
			n, err := strconv.ParseUint(digits[i:i+1], 16, 8)
			if err != nil {
				return rgb, fmt.Errorf("invalid colour %q: %w", hex, err)
			}
			rgb[i] = uint8(n * 0x11)
		}
	case 6:
		for i := range rgb {
			n, err := strconv.ParseUint(digits[2*i:2*i+2], 16, 8)
			if err != nil {
				return rgb, fmt.Errorf("invalid colour %q: %w", hex, err)
			}
			rgb[i] = uint8(n)
		}
	default:
		return rgb, fmt.Errorf("invalid colour %q: want 3 or 6 hex digits", hex)
	}
	return rgb, nil
}
