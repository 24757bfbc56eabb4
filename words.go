package main

import (
	"errors"
	"fmt"
	"strings"
)

var errJumpTarget = errors.New("invalid jump target")

var coreWords = []native{
	{"CREATE", (*VM).create, false},
	{"POSTPONE", (*VM).postpone, true},
	{"]", (*VM).compileMode, false},
	{"[", (*VM).interpretMode, true},
	{"FINAL", (*VM).final, false},
	{"IMMEDIATE", (*VM).immediate, false},
	{"CODE", (*VM).code, false},
	{"MACRO:", (*VM).macro, false},
	{`\`, (*VM).lineComment, true},
	{"(", (*VM).comment, true},
	{"EXECUTE", (*VM).executeTop, false},
	{"EVALUATE", (*VM).evaluateText, false},
	{"WORD", (*VM).readWord, false},
	{"TOKENS", (*VM).tokens, false},
}

func (vm *VM) create()        { vm.define(NewWord(Interpreted, vm.nextToken())) }
func (vm *VM) postpone()      { vm.latest().Append(Token(vm.nextToken())) }
func (vm *VM) compileMode()   { vm.mode = Compile }
func (vm *VM) interpretMode() { vm.mode = Interpret }
func (vm *VM) final()         { vm.haltif(vm.latest().Finalize()) }
func (vm *VM) immediate()     { vm.latest().Immediate = true }
func (vm *VM) code()          { vm.latest().Type = Native }

// macro defines an immediate word from the raw tokens up to the next ;
func (vm *VM) macro() {
	word := NewWord(Interpreted, vm.nextToken())
	word.Immediate = true
	vm.define(word)
	for token, ok := vm.Next(); ok && token != ";"; token, ok = vm.Next() {
		word.Append(Token(token))
	}
}

func (vm *VM) lineComment() {
	if in, ok := vm.inputs.Top(); ok {
		in.SkipLine()
	}
}

func (vm *VM) comment() {
	for {
		if token, ok := vm.Next(); !ok || token == ")" {
			return
		}
	}
}

func (vm *VM) executeTop() {
	switch v := vm.Pop().(type) {
	case *Word:
		vm.execute(v)
	case Routine:
		v(vm)
	default:
		vm.typeError("word", v)
	}
}

func (vm *VM) evaluateText() { vm.parse("", vm.PopText()) }

func (vm *VM) readWord() {
	if token, ok := vm.Next(); ok {
		vm.Push(Text(token))
	} else {
		vm.Push(Undefined)
	}
}

func (vm *VM) tokens() {
	tokens := NewInput("", vm.PopText()).Tokens()
	list := NewList()
	for _, token := range tokens {
		list.Append(Text(token))
	}
	vm.Push(list)
}

var bookWords = []native{
	{"PUBLISH", (*VM).publish, false},
	{"BURN", (*VM).burn, false},
	{"USE", (*VM).use, false},
	{"BOOKS?", (*VM).booksQ, false},
	{"BOOK?", (*VM).bookQ, false},
	{"LATEST?", (*VM).latestQ, false},
	{"WORDS?", (*VM).wordsQ, false},
}

func (vm *VM) publish() { vm.Publish(vm.nextToken()) }

// burn hides the top book; when it was the definition target, the book
// now on top takes over.
func (vm *VM) burn() {
	book, err := vm.pile.Pop()
	vm.haltif(err)
	vm.logf("#", "burn %v", book.Title)
	if vm.book == book {
		vm.book, _ = vm.pile.Top()
	}
}

func (vm *VM) use() {
	book, err := vm.pile.Find(vm.nextToken())
	vm.haltif(err)
	vm.book = book
}

func (vm *VM) booksQ() {
	books := vm.pile.Cells()
	titles := make([]string, len(books))
	for i, book := range books {
		titles[i] = book.Title
	}
	vm.Write(strings.Join(titles, " "), StyleDefault)
}

func (vm *VM) bookQ() {
	if vm.book == nil {
		vm.halt(ErrNoDefinition)
	}
	vm.Write(vm.book.Title, StyleDefault)
}

func (vm *VM) latestQ() {
	if vm.book != nil {
		if word := vm.book.Latest(); word != nil {
			vm.Push(word)
			return
		}
	}
	vm.Push(Undefined)
}

func (vm *VM) wordsQ() {
	if vm.book == nil {
		vm.halt(ErrNoDefinition)
	}
	vm.Write(strings.Join(vm.book.Tokens(), " "), StyleDefault)
}

var wordWords = []native{
	{",", (*VM).comma, false},
	{"'", (*VM).tick, false},
	{"DEFINITION?", (*VM).definitionQ, false},
	{"FUNCTION?", (*VM).functionQ, false},
	{"CALL", (*VM).executeTop, false},
	{"DUMP", (*VM).dumpWord, false},
}

func (vm *VM) comma() {
	word := vm.latest()
	v := vm.Pop()
	vm.logf("+", "%v %v", word.Token, formatValue(v))
	word.Append(v)
}

func (vm *VM) tick() {
	if word := vm.pile.Search(vm.nextToken()); word != nil {
		vm.Push(word)
	} else {
		vm.Push(Undefined)
	}
}

func (vm *VM) definitionQ() { vm.Push(vm.popWord().Cells()) }

func (vm *VM) functionQ() {
	if routine := vm.popWord().Routine(); routine != nil {
		vm.Push(routine)
	} else {
		vm.Push(Undefined)
	}
}

func (vm *VM) dumpWord() {
	var sb strings.Builder
	vmDumper{vm: vm, out: &sb}.dump()
	for _, line := range strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n") {
		vm.Write(line, StyleDefault)
	}
}

var memoryWords = []native{
	{"{", (*VM).locals, false},
	{"VARIABLE", (*VM).variable, false},
	{":VARIABLE", (*VM).initVariable, false},
	{"VALUE", (*VM).value, false},
	{"TO", (*VM).to, false},
}

// locals binds the names between { and } in the calling word's own cells,
// skipping over them; names after -- are documentation only.
func (vm *VM) locals() {
	frame := vm.caller()
	var names []string
	declaring := true
	for !frame.done() {
		name := stringify(frame.advance())
		if name == "}" {
			break
		}
		if name == "--" {
			declaring = false
		} else if declaring {
			names = append(names, name)
		}
	}
	vm.need(len(names))
	for i := len(names) - 1; i >= 0; i-- {
		frame.Bind(names[i], vm.Pop())
	}
}

// dataWord defines a native word whose first cell is its data; it pushes
// the address of that cell as an index and a list, ready for ? and !
func (vm *VM) dataWord(token string, v Value) {
	word := NewWord(Native, token)
	word.Append(v)
	word.Boundary = 1
	word.routine = func(vm *VM) { vm.Push(Number(0), word.cells) }
	word.final = true
	vm.define(word)
}

func (vm *VM) variable() { vm.dataWord(vm.nextToken(), Number(0)) }

func (vm *VM) initVariable() {
	v := vm.Pop()
	vm.dataWord(vm.nextToken(), v)
}

func (vm *VM) value() {
	v := vm.Pop()
	word := NewWord(Native, vm.nextToken())
	word.Append(v)
	word.Boundary = 1
	word.routine = func(vm *VM) { vm.Push(word.cells.At(0)) }
	word.final = true
	vm.define(word)
}

func (vm *VM) to() {
	token := vm.nextToken()
	word := vm.pile.Search(token)
	if word == nil {
		vm.halt(UnrecognisedTokenError{token})
	}
	word.cells.Set(0, vm.Pop())
}

var flowWords = []native{
	{"BACKTRACE", (*VM).backtraceWord, false},
	{"EXIT", (*VM).exit, false},
	{"JUMP", (*VM).jump, false},
	{"JUMP?", (*VM).jumpIf, false},
}

func (vm *VM) backtraceWord() {
	for _, tf := range vm.backtrace(1) {
		vm.Write(tf.String(), StyleTrace)
	}
}

func (vm *VM) exit() {
	frame := vm.caller()
	frame.Offset = frame.Word.cells.Len()
}

func (vm *VM) jump() { vm.jumpTo(vm.caller()) }

func (vm *VM) jumpIf() {
	cond := vm.Pop()
	frame := vm.caller()
	if truthy(cond) {
		frame.Offset++
	} else {
		vm.jumpTo(frame)
	}
}

// jumpTo moves frame to the index held in the cell under its counter.
func (vm *VM) jumpTo(frame *Frame) {
	operand := frame.Word.cells.At(frame.Offset)
	target, ok := operand.(Number)
	if !ok || target < 0 || int(target) > frame.Word.cells.Len() {
		vm.halt(fmt.Errorf("%w %v in %v at %v", errJumpTarget, formatValue(operand), frame.Word.Token, frame.Offset))
	}
	frame.Offset = int(target)
}
