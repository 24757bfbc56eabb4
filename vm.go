package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Mode selects what the evaluator does with each token.
type Mode uint8

const (
	Interpret Mode = iota
	Compile
)

func (m Mode) String() string {
	switch m {
	case Interpret:
		return "interpret"
	case Compile:
		return "compile"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// UnrecognisedTokenError is returned for a token that is neither a local,
// a word, a string literal, nor a number.
type UnrecognisedTokenError struct {
	Token string
}

func (err UnrecognisedTokenError) Error() string {
	return fmt.Sprintf("unrecognised token: %v", err.Token)
}

// TypeError is returned when a word pops a value of the wrong kind.
type TypeError struct {
	Word string
	Want string
	Got  Kind
}

func (err TypeError) Error() string {
	return fmt.Sprintf("%v expected %v, got %v", err.Word, err.Want, err.Got)
}

var (
	// ErrNoDefinition is returned by words that amend the latest word when
	// the definition target has none.
	ErrNoDefinition = errors.New("no word under definition")

	errEndOfInput = errors.New("unexpected end of input")
	errNoCaller   = errors.New("no calling word")
)

const defaultMaxDepth = 1024

// VM is one runtime instance: the evaluator mode, the data, aux, frame and
// input stacks, the pile of books, and the current definition target.
type VM struct {
	logging

	console  Console
	echo     bool
	lines    LineReader
	failuref func(mess string, args ...interface{})
	maxDepth int

	closeOnce  sync.Once
	closeError error

	mode   Mode
	inputs Stack[*Input]
	data   Stack[Value]
	aux    Stack[Value]
	frames Stack[*Frame]
	pile   Pile
	book   *Book
}

// New builds a VM with its kernel vocabulary loaded.
func New(opts ...VMOption) *VM {
	vm := &VM{maxDepth: defaultMaxDepth}
	vm.inputs.Label = "input"
	vm.data.Label = "data"
	vm.aux.Label = "aux"
	vm.frames.Label = "frames"
	vm.pile.Label = "pile"
	vm.frames.Push(&Frame{Word: NewWord(Interpreted, "")})
	vm.apply(opts...)
	if err := vm.boot(); err != nil {
		panic(fmt.Errorf("kernel failed to load: %w", err))
	}
	return vm
}

// Close closes the line source when it is an io.Closer. Only the first
// call, or the cancellation of Run, closes it; later calls return the same
// error.
func (vm *VM) Close() error {
	vm.closeOnce.Do(func() {
		if cl, ok := vm.lines.(io.Closer); ok {
			vm.closeError = cl.Close()
		}
	})
	return vm.closeError
}

func (vm *VM) Mode() Mode      { return vm.mode }
func (vm *VM) Data() []Value   { return vm.data.Cells() }
func (vm *VM) Aux() []Value    { return vm.aux.Cells() }
func (vm *VM) Books() []string { return vm.pile.Titles() }

// Book returns the current definition target.
func (vm *VM) Book() *Book { return vm.book }

// Lookup searches the pile for token.
func (vm *VM) Lookup(token string) *Word { return vm.pile.Search(token) }

// Publish pushes a new book onto the pile and makes it the definition
// target.
func (vm *VM) Publish(title string) *Book {
	book := NewBook(title)
	vm.pile.Push(book)
	vm.book = book
	vm.logf("#", "publish %v", title)
	return book
}

// Register installs a native word into the definition target.
func (vm *VM) Register(token string, routine Routine, immediate bool) *Word {
	word := newNative(token, routine)
	word.Immediate = immediate
	vm.define(word)
	return word
}

func (vm *VM) define(word *Word) {
	if vm.book == nil {
		vm.halt(ErrNoDefinition)
	}
	vm.book.Add(word)
}

func (vm *VM) latest() *Word {
	if vm.book == nil || vm.book.Latest() == nil {
		vm.halt(ErrNoDefinition)
	}
	return vm.book.Latest()
}

// Write hands text to the console.
func (vm *VM) Write(text, style string) {
	if vm.console != nil {
		vm.console.Write(text, style)
	}
}

// Fail aborts the running word with err; it does not return.
func (vm *VM) Fail(err error) { vm.halt(err) }

func (vm *VM) halt(err error) { panic(err) }

func (vm *VM) haltif(err error) {
	if err != nil {
		vm.halt(err)
	}
}

func (vm *VM) Push(vs ...Value) { vm.data.Push(vs...) }

// Pop removes the top data value, failing on underflow.
func (vm *VM) Pop() Value {
	v, err := vm.data.Pop()
	vm.haltif(err)
	if v == nil {
		return Undefined
	}
	return v
}

func (vm *VM) need(n int) { vm.haltif(vm.data.need(n)) }

func (vm *VM) typeError(want string, got Value) {
	vm.halt(TypeError{Word: vm.running(), Want: want, Got: kindOf(got)})
}

// running names the innermost executing word.
func (vm *VM) running() string {
	if frame, ok := vm.frames.Top(); ok && frame.Word.Token != "" {
		return frame.Word.Token
	}
	return "top level"
}

func (vm *VM) PopNumber() Number {
	v := vm.Pop()
	n, ok := v.(Number)
	if !ok {
		vm.typeError("number", v)
	}
	return n
}

func (vm *VM) popInt() int { return int(vm.PopNumber()) }

func (vm *VM) PopText() string {
	switch v := vm.Pop().(type) {
	case Text:
		return string(v)
	case Token:
		return string(v)
	default:
		vm.typeError("text", v)
	}
	return ""
}

func (vm *VM) popList() *List {
	v := vm.Pop()
	l, ok := v.(*List)
	if !ok {
		vm.typeError("list", v)
	}
	return l
}

func (vm *VM) popWord() *Word {
	v := vm.Pop()
	w, ok := v.(*Word)
	if !ok {
		vm.typeError("word", v)
	}
	return w
}

// Next consumes the next token from the active source.
func (vm *VM) Next() (string, bool) {
	in, ok := vm.inputs.Top()
	if !ok {
		return "", false
	}
	return in.Next()
}

func (vm *VM) nextToken() string {
	token, ok := vm.Next()
	if !ok {
		vm.halt(errEndOfInput)
	}
	return token
}

// caller returns the frame of the word that invoked the running native.
func (vm *VM) caller() *Frame {
	frame, ok := vm.frames.Get(1)
	if !ok || vm.frames.Depth() < 3 {
		vm.halt(errNoCaller)
	}
	return frame
}

func (vm *VM) evaluate(token string) {
	if vm.mode == Compile {
		vm.compile(token)
	} else {
		vm.interpret(token)
	}
}

func (vm *VM) compile(token string) {
	if word := vm.pile.Search(token); word != nil && word.Immediate {
		vm.execute(word)
		return
	}
	latest := vm.latest()
	vm.logf("+", "%v %v", latest.Token, token)
	latest.Append(Token(token))
}

func (vm *VM) interpret(token string) {
	if frame, ok := vm.frames.Top(); ok {
		if v, ok := frame.Local(token); ok {
			vm.Push(v)
			return
		}
	}
	if word := vm.pile.Search(token); word != nil {
		vm.execute(word)
		return
	}
	if isString(token) {
		vm.Push(Text(dequote(token)))
		return
	}
	if n, ok := parseNumber(token); ok {
		vm.Push(n)
		return
	}
	vm.halt(UnrecognisedTokenError{token})
}

// evaluateCell runs one cell of a threaded word: tokens are evaluated,
// literal values are pushed or, while compiling, appended.
func (vm *VM) evaluateCell(cell Value) {
	if token, ok := cell.(Token); ok {
		vm.evaluate(string(token))
		return
	}
	if vm.mode == Compile {
		vm.latest().Append(cell)
		return
	}
	vm.Push(cell)
}

// parseNumber reads the longest decimal number that token starts with:
// an optional sign, then Infinity or digits with an optional fraction and
// exponent. Whatever follows the number is ignored, so "10px" is 10.
func parseNumber(token string) (Number, bool) {
	i := 0
	if i < len(token) && (token[i] == '+' || token[i] == '-') {
		i++
	}
	if strings.HasPrefix(token[i:], "Infinity") {
		if token[0] == '-' {
			return Number(math.Inf(-1)), true
		}
		return Number(math.Inf(1)), true
	}

	i, mantissa := skipDigits(token, i)
	if i < len(token) && token[i] == '.' {
		if j, n := skipDigits(token, i+1); mantissa > 0 || n > 0 {
			i, mantissa = j, mantissa+n
		}
	}
	if mantissa == 0 {
		return 0, false
	}
	if i < len(token) && (token[i] == 'e' || token[i] == 'E') {
		j := i + 1
		if j < len(token) && (token[j] == '+' || token[j] == '-') {
			j++
		}
		if k, n := skipDigits(token, j); n > 0 {
			i = k
		}
	}

	f, err := strconv.ParseFloat(token[:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return Number(f), true
}

func skipDigits(s string, i int) (int, int) {
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	return i, i - start
}

// parse evaluates every token of source, with source as the active input
// until it is exhausted.
func (vm *VM) parse(name, source string) {
	in := NewInput(name, source)
	vm.inputs.Push(in)
	defer vm.inputs.Drop()
	for token, ok := in.Next(); ok; token, ok = in.Next() {
		vm.evaluate(token)
	}
}

// Parse evaluates source as one top-level unit. A failure abandons the
// rest of the unit and is returned as a *Failure; the stacks, books and
// mode are left as the failure found them.
func (vm *VM) Parse(source string) error {
	return vm.unit(func() { vm.parse("", source) })
}

// ParseFile evaluates the contents of the file at path as one top-level
// unit.
func (vm *VM) ParseFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	vm.logf("#", "parse %v", path)
	return vm.unit(func() { vm.parse(path, string(source)) })
}

// Read evaluates one line of console input, through the READ word when
// one is defined.
func (vm *VM) Read(line string) error {
	return vm.unit(func() {
		if word := vm.pile.Search("READ"); word != nil {
			vm.Push(Text(line))
			vm.execute(word)
			return
		}
		vm.parse("", line)
	})
}

func (vm *VM) unit(f func()) (err error) {
	frames, inputs := vm.frames.Depth(), vm.inputs.Depth()
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		err = vm.failure(e)
		vm.logf("#", "abandoned unit: %v", err)
		for vm.frames.Depth() > frames {
			vm.frames.Drop()
		}
		for vm.inputs.Depth() > inputs {
			vm.inputs.Drop()
		}
	}()
	f()
	return nil
}
