package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/eczema/internal/logio"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	opts    []VMOption
	units   []string
	lines   []string
	expect  []func(t *testing.T, vm *VM, out *testConsole)
	timeout time.Duration
	wantErr error

	exclusive bool
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

// withStack seeds the data stack before any input is evaluated.
func (vmt vmTestCase) withStack(values ...Value) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.data.Push(values...)
	}))
	return vmt
}

// withInput adds a unit of source, evaluated through Parse; units run in
// order, each after the last, even when one fails.
func (vmt vmTestCase) withInput(source ...string) vmTestCase {
	vmt.units = append(vmt.units, strings.Join(source, "\n"))
	return vmt
}

// withLines adds console input lines, fed through Run after every unit.
func (vmt vmTestCase) withLines(lines ...string) vmTestCase {
	vmt.lines = append(vmt.lines, lines...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

// expectError expects the last failing unit or line to fail with err.
func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectStack(values ...Value) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *testConsole) {
		want := append([]Value{}, values...)
		got := append([]Value{}, vm.Data()...)
		if diff := cmp.Diff(want, got, valueComparer); diff != "" {
			t.Errorf("expected data stack (-want +got):\n%s", diff)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectAux(values ...Value) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *testConsole) {
		want := append([]Value{}, values...)
		got := append([]Value{}, vm.Aux()...)
		if diff := cmp.Diff(want, got, valueComparer); diff != "" {
			t.Errorf("expected aux stack (-want +got):\n%s", diff)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectMode(mode Mode) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *testConsole) {
		assert.Equal(t, mode, vm.Mode(), "expected evaluator mode")
	})
	return vmt
}

// expectOutput expects the text of every console line, in any style.
func (vmt vmTestCase) expectOutput(lines ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, out *testConsole) {
		if lines == nil {
			lines = []string{}
		}
		assert.Equal(t, lines, out.texts(), "expected console output")
	})
	return vmt
}

// expectConsole expects every console line along with its style.
func (vmt vmTestCase) expectConsole(lines ...consoleLine) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, out *testConsole) {
		if lines == nil {
			lines = []consoleLine{}
		}
		assert.Equal(t, lines, out.lines, "expected console lines")
	})
	return vmt
}

func (vmt vmTestCase) expectWord(token string, cells ...Value) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *testConsole) {
		word := vm.Lookup(token)
		if !assert.NotNil(t, word, "expected word %q to be defined", token) {
			return
		}
		want := append([]Value{}, cells...)
		got := append([]Value{}, word.Cells().Items()...)
		if diff := cmp.Diff(want, got, valueComparer); diff != "" {
			t.Errorf("expected %q cells (-want +got):\n%s", token, diff)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectBooks(titles ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *testConsole) {
		assert.Equal(t, titles, vm.Books(), "expected pile, top first")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *testConsole) {
		var out strings.Builder
		vmDumper{
			vm:  vm,
			out: &out,
		}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) expectThat(expect func(t *testing.T, vm *VM)) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *testConsole) {
		expect(t, vm)
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	if testFails(func(t *testing.T) {
		vmt.runVMTest(context.Background(), t)
	}) {
		vmt.opts = append(vmt.opts, WithLogf(t.Logf))
		vmt.runVMTest(context.Background(), t)
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out testConsole
	vm := vmt.buildVM(&out)

	defer func() {
		if t.Failed() {
			dumpToTest(t, vm, &out)
		}
	}()

	err := vmt.runVM(ctx, vm)
	if vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm, &out)
		}
	}
}

// runVM evaluates every unit, then runs any lines, returning the last
// error seen.
func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (rerr error) {
	defer func() {
		if err := vm.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("vm.Close failed: %w", err)
		}
	}()

	for _, unit := range vmt.units {
		if err := vm.Parse(unit); err != nil {
			rerr = err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if vmt.lines == nil {
		return rerr
	}

	var failed error
	vm.failuref = func(mess string, args ...interface{}) {
		failed = lastFailure(args)
	}
	if err := vm.Run(ctx); err != nil {
		return err
	}
	if failed != nil {
		rerr = failed
	}
	return rerr
}

func lastFailure(args []interface{}) error {
	for i := len(args) - 1; i >= 0; i-- {
		if err, ok := args[i].(error); ok {
			return err
		}
	}
	return nil
}

func (vmt vmTestCase) buildVM(out *testConsole) *VM {
	opts := []VMOption{WithConsole(out)}
	if vmt.lines != nil {
		opts = append(opts, WithInput(NamedReader("lines", strings.NewReader(
			strings.Join(vmt.lines, "\n")+"\n"))))
	}
	opts = append(opts, vmt.opts...)
	vm := New(opts...)
	InstallConsole(vm)
	return vm
}

func dumpToTest(t *testing.T, vm *VM, out *testConsole) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw}.dump()
	for _, line := range out.lines {
		fmt.Fprintf(&lw, "out: %v\n", line)
	}
}

var valueComparer = cmp.Comparer(func(a, b Value) bool {
	return kindOf(a) == kindOf(b) && formatValue(a) == formatValue(b)
})

//// utilities

type consoleLine struct {
	text  string
	style string
}

func (cl consoleLine) String() string { return fmt.Sprintf("%v %q", cl.style, cl.text) }

func outLine(text string) consoleLine   { return consoleLine{text, StyleDefault} }
func errLine(text string) consoleLine   { return consoleLine{text, StyleError} }
func traceLine(text string) consoleLine { return consoleLine{text, StyleTrace} }

// testConsole records every line written to it.
type testConsole struct {
	lines []consoleLine
}

func (tc *testConsole) Write(text, style string) {
	tc.lines = append(tc.lines, consoleLine{text, style})
}

func (tc *testConsole) texts() []string {
	texts := make([]string, len(tc.lines))
	for i, line := range tc.lines {
		texts[i] = line.text
	}
	return texts
}

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}

// NamedReader gives r a Name, as input locations report it.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
