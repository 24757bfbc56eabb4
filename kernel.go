package main

import (
	"bytes"
	"io"
	"strings"
)

// kernelSource is eczema source text written out a line at a time, so that
// the commentary around each definition can live out here as Go comments.
type kernelSource struct {
	name  string
	lines func(line func(parts ...string))
}

func (ks kernelSource) Name() string { return ks.name }

func (ks kernelSource) WriteTo(w io.Writer) (n int64, err error) {
	if ks.lines == nil {
		return 0, nil
	}
	var buf bytes.Buffer
	ks.lines(func(parts ...string) {
		if err != nil {
			return
		}
		for _, s := range parts {
			buf.WriteString(s)
		}
		buf.WriteByte('\n')
		var m int64
		m, err = buf.WriteTo(w)
		n += m
	})
	return n, err
}

func (ks kernelSource) String() string {
	var sb strings.Builder
	ks.WriteTo(&sb)
	return sb.String()
}

type native struct {
	token     string
	routine   Routine
	immediate bool
}

// vocabulary is a book of the kernel: its native words are registered
// first, then its source is parsed with the book as definition target.
type vocabulary struct {
	title   string
	natives []native
	source  kernelSource
}

// boot publishes every kernel book in order, leaving the last one as the
// definition target.
func (vm *VM) boot() error {
	return vm.unit(func() {
		for _, vocab := range kernel() {
			vm.Publish(vocab.title)
			for _, n := range vocab.natives {
				vm.Register(n.token, n.routine, n.immediate)
			}
			if src := vocab.source.String(); src != "" {
				vm.parse(vocab.source.Name(), src)
			}
		}
	})
}

func kernel() []vocabulary {
	return []vocabulary{
		{"CORE", coreWords, coreSource},
		{"BOOK", bookWords, kernelSource{}},
		{"WORD", wordWords, wordSource},
		{"MEMORY", memoryWords, kernelSource{}},
		{"FLOW", flowWords, flowSource},
		{"STACK", stackWords, kernelSource{}},
		{"ARITHMETIC", arithmeticWords, kernelSource{}},
		{"COMPARE", compareWords, kernelSource{}},
		{"OBJECT", objectWords, objectSource},
		{"ARRAY", arrayWords, arraySource},
		{"STRING", stringWords, stringSource},
		{"TIME", timeWords, timeSource},
	}
}

var coreSource = kernelSource{"core.ecz", func(line func(parts ...string)) {
	// Everything past this point is built from a handful of primitives:
	// CREATE names a new word after the next token, ] and [ flip the
	// evaluator between compiling and interpreting, POSTPONE appends the
	// next token to the latest word no matter what it is, FINAL seals the
	// latest word, and IMMEDIATE marks it to run while compiling.
	//
	// So ; is a word whose body switches back to interpreting and seals
	// whatever was being defined. It has to be written out long hand, since
	// there is no : yet.
	line(`CREATE ; ] POSTPONE [ POSTPONE FINAL [ IMMEDIATE`)

	// Now : is just CREATE followed by ], and everything up to the next ;
	// gets appended to the new word.
	line(`CREATE : ] POSTPONE CREATE POSTPONE ] ;`)

	// CODE: is the same shape, but marks its word as native. There is no
	// way to turn source into host code, so finishing one with ; fails.
	line(`: CODE: CREATE POSTPONE CODE POSTPONE ] ;`)

	line(`: PARSE ( text -- ) EVALUATE ;`)
}}

var wordSource = kernelSource{"word.ecz", func(line func(parts ...string)) {
	// Print a word's cells, given its name.
	line(`: SEE ( "name" -- ) ' DEFINITION? " " JOIN . ;`)
	line(`: INSPECT ( item -- item ) DUP . ;`)
}}

var flowSource = kernelSource{"flow.ecz", func(line func(parts ...string)) {
	// Control flow compiles down to JUMP and JUMP?, each followed by a cell
	// holding the index to jump to. The opening word of a structure leaves
	// the index of its operand on the aux stack, with a 0 placeholder in
	// the cell itself; the closing word pops it and writes the current end
	// of the definition into it.
	//
	// These are macros: their bodies are compiled into the word under
	// definition, with [ ... ] stretches run at compile time.
	line(`MACRO: IF     JUMP? [ LATEST? DEFINITION? COUNT >A ] 0 ;`)
	line(`MACRO: THEN   [ LATEST? DEFINITION? COUNT A> LATEST? DEFINITION? ! ] ;`)

	// ELSE jumps unconditionally over the false branch, resolving the IF
	// to land just after its own operand; THEN then resolves the ELSE.
	line(`MACRO: ELSE   JUMP [ LATEST? DEFINITION? COUNT A> SWAP >A >A ] 0 THEN ;`)

	// Loops record where they begin, and jump back to it.
	line(`MACRO: BEGIN  [ LATEST? DEFINITION? COUNT >A ] ;`)
	line(`MACRO: UNTIL  JUMP? [ A> , ] ;`)
	line(`MACRO: AGAIN  JUMP [ A> , ] ;`)
	line(`MACRO: WHILE  IF ;`)
	line(`MACRO: REPEAT JUMP [ A> A> , >A ] THEN ;`)
}}

var objectSource = kernelSource{"object.ecz", func(line func(parts ...string)) {
	// <{ key value ... }> collects everything pushed between the brackets.
	line(`: <{ ( -- ) DEPTH >A ;`)
	line(`: }> ( -- object ) DEPTH A> - 2 / :OBJECT ;`)
	line(`: +! { addend key object -- } key object ? addend + key object ! ;`)
}}

var arraySource = kernelSource{"array.ecz", func(line func(parts ...string)) {
	line(`: <[ ( -- ) DEPTH >A ;`)
	line(`: ]> ( -- array ) DEPTH A> - :ARRAY ;`)
}}

var stringSource = kernelSource{"string.ecz", func(line func(parts ...string)) {
	line(`: MERGE { count glue -- string } count :ARRAY glue JOIN ;`)
}}

var timeSource = kernelSource{"time.ecz", func(line func(parts ...string)) {
	line(`86400 VALUE SECONDS/DAY`)
	line(`3600  VALUE SECONDS/HOUR`)
	line(`60    VALUE SECONDS/MINUTE`)
	line(`: DAYS?    { seconds -- days }    seconds SECONDS/DAY / FLOOR ;`)
	line(`: HOURS?   { seconds -- hours }   seconds SECONDS/DAY MOD SECONDS/HOUR / FLOOR ;`)
	line(`: MINUTES? { seconds -- minutes }`,
		` seconds SECONDS/DAY MOD SECONDS/HOUR MOD SECONDS/MINUTE / FLOOR ;`)
	line(`: SECONDS? { seconds -- seconds }`,
		` seconds SECONDS/DAY MOD SECONDS/HOUR MOD SECONDS/MINUTE MOD ;`)
}}
