package main

import (
	"io"

	"github.com/jcorbin/eczema/internal/fileinput"
)

// VMOption configures a VM under construction.
type VMOption interface{ apply(vm *VM) }

func (vm *VM) apply(opts ...VMOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

// WithLogf enables trace logging of execution and compilation.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

// WithFailureLog receives a line for every failed Run line.
func WithFailureLog(logfn func(mess string, args ...interface{})) VMOption {
	return failureLogOption(logfn)
}

// WithConsole directs VM output to console.
func WithConsole(console Console) VMOption { return consoleOption{console} }

// WithEcho makes READ echo each line, with a timestamp, before evaluating
// it.
func WithEcho(echo bool) VMOption { return echoOption(echo) }

// WithLines sets the line source consumed by Run.
func WithLines(lines LineReader) VMOption { return linesOption{lines} }

// WithInput queues readers, in order, as the line source consumed by Run.
func WithInput(rs ...io.Reader) VMOption { return inputOption(rs) }

// WithMaxDepth limits how many words may be executing at once; deeper
// calls fail with FrameOverflowError. Non-positive limits are ignored.
func WithMaxDepth(n int) VMOption { return maxDepthOption(n) }

type withLogfn func(mess string, args ...interface{})
type failureLogOption func(mess string, args ...interface{})
type consoleOption struct{ Console }
type echoOption bool
type linesOption struct{ LineReader }
type inputOption []io.Reader
type maxDepthOption int

func (logfn withLogfn) apply(vm *VM)        { vm.logfn = logfn }
func (logfn failureLogOption) apply(vm *VM) { vm.failuref = logfn }
func (o consoleOption) apply(vm *VM)        { vm.console = o.Console }
func (echo echoOption) apply(vm *VM)        { vm.echo = bool(echo) }

func (n maxDepthOption) apply(vm *VM) {
	if n > 0 {
		vm.maxDepth = int(n)
	}
}

func (o linesOption) apply(vm *VM)  { vm.lines = o.LineReader }
func (rs inputOption) apply(vm *VM) { vm.lines = &fileinput.Input{Queue: rs} }
