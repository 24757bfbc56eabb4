package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/jcorbin/eczema/internal/panicerr"
)

// Failure is an error caught at a word execution boundary, together with
// the frames that were live when it was raised.
type Failure struct {
	Err   error
	Trace []TraceFrame
}

func (f *Failure) Error() string { return f.Err.Error() }
func (f *Failure) Unwrap() error { return f.Err }

// TraceFrame is one line of a backtrace. Interpreted offsets point at the
// cell that was running, not the one after it.
type TraceFrame struct {
	Type   WordKind
	Offset int
	Token  string
}

func (tf TraceFrame) String() string {
	return fmt.Sprintf("%v %04d %v", tf.Type, tf.Offset, tf.Token)
}

// backtrace walks the frame stack innermost first, leaving out the root.
func (vm *VM) backtrace(skip int) []TraceFrame {
	var trace []TraceFrame
	for level := skip; level < vm.frames.Depth()-1; level++ {
		frame, _ := vm.frames.Get(level)
		tf := TraceFrame{Type: frame.Word.Type, Offset: frame.Offset, Token: frame.Word.Token}
		if tf.Type == Interpreted {
			tf.Offset--
		}
		trace = append(trace, tf)
	}
	return trace
}

// FrameOverflowError is returned when words nest more deeply than the
// VM's frame limit, as an unbounded recursion eventually does.
type FrameOverflowError struct {
	Limit int
}

func (err FrameOverflowError) Error() string {
	return fmt.Sprintf("frames overflow: more than %v nested words", err.Limit)
}

// execute runs word inside a recovery boundary with its own frame.
func (vm *VM) execute(word *Word) {
	if vm.frames.Depth()-1 >= vm.maxDepth {
		vm.halt(FrameOverflowError{vm.maxDepth})
	}
	frame := &Frame{Word: word}
	vm.frames.Push(frame)
	defer vm.frames.Drop()
	defer vm.recoverFailure()
	if vm.logfn != nil {
		vm.logf(">", "%v %v", word.Type, word.Token)
		defer vm.withLogPrefix("  ")()
	}
	word.run(vm, frame)
}

func (vm *VM) recoverFailure() {
	if e := recover(); e != nil {
		panic(vm.failure(e))
	}
}

// failure converts a recovered panic into a *Failure. The first boundary
// to see a failure records the trace and reports it to the console; outer
// boundaries pass it along untouched.
func (vm *VM) failure(e interface{}) *Failure {
	if f, ok := e.(*Failure); ok {
		return f
	}
	var err error
	switch e := e.(type) {
	case runtime.Error:
		err = panicerr.Wrap("VM", e)
	case error:
		err = e
	default:
		err = panicerr.Wrap("VM", e)
	}
	f := &Failure{Err: err, Trace: vm.backtrace(0)}
	vm.logf("!", "%v", err)
	if stack := panicerr.PanicStack(err); stack != "" {
		vm.logf("!", "%s", stack)
	}
	for _, tf := range f.Trace {
		vm.Write(tf.String(), StyleTrace)
	}
	vm.Write(failureMessage(err), StyleError)
	return f
}

// failureMessage keeps console reports to the first line of an error;
// wrapped panics carry a stack dump after it.
func failureMessage(err error) string {
	mess := err.Error()
	if i := strings.IndexByte(mess, '\n'); i >= 0 {
		mess = mess[:i]
	}
	return mess
}
