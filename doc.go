/* Package main: eczema, a small FORTH-alike with dynamic values

Like any FORTH, eczema is a stack machine whose programs are sequences of
whitespace separated tokens. Each token is looked up as a _word_; words
either run immediately or, while a definition is open, are compiled into the
latest word to run later. Unlike a classic FORTH, the stacks do not hold
machine cells but dynamic values: numbers, text, booleans, lists, mappings,
undefined, and words themselves.

Section 1: Tokens

Source is split on spaces, tabs and newlines. A token starting with a double
quote runs to the next double quote, spaces and all, so that

	"hello world" .

prints "hello world". Inside a definition the quotes are kept on the token,
so that the string is only made into a value when the definition runs.

A token that names no word, is not quoted, and does not parse as a number is
an error: the rest of the line is abandoned, and the stacks are left as the
error found them.

Section 2: Books

Words live in books, and books are kept in a pile. Looking up a token
searches from the top of the pile down, so a book shadows the words of the
books beneath it. PUBLISH puts a new book on top and makes it the target of
new definitions; USE brings an existing one back to the top; BURN discards
one entirely.

The kernel is itself a pile of books: CORE, BOOK, WORD, MEMORY, FLOW, STACK,
ARITHMETIC, COMPARE, OBJECT, ARRAY, STRING and TIME. Each is some natively
coded words, followed by source text that builds the rest of the book out of
them; see kernel.go.

Section 3: Definitions

CREATE reads a token and adds a new empty word for it to the target book.
] switches the evaluator into compile mode, where each token is appended to
the latest word as-is, unless it names an IMMEDIATE word, which runs
instead. [ is immediate, and switches back. With these, and POSTPONE to
compile an immediate word rather than run it, the kernel defines:

	CREATE ; ] POSTPONE [ POSTPONE FINAL [ IMMEDIATE
	CREATE : ] POSTPONE CREATE POSTPONE ] ;

after which the familiar

	: SQUARE DUP * ;

works as expected.

Section 4: Control Flow

A compiled word is a list of cells, run from first to last. JUMP sets the
offset of its caller to the number compiled after it; JUMP? does so only when
the value it pops is false. IF, ELSE, THEN, BEGIN, UNTIL, AGAIN, WHILE and
REPEAT are immediate macros that compile jumps with a placeholder target,
remember where on the aux stack, and backpatch it once the target is known.

Section 5: Locals

Inside a definition,

	: SUMSQ { a b -- } a a * b b * + ;

pops the values for a and b into the running word's own frame; after that,
their names push the bound values. Names after -- are commentary.

Section 6: Failure

A word that fails unwinds every word that called it. The first to see the
failure records a backtrace, innermost first, and reports it together with
the error to the console. Definitions made before the failure remain.
*/
package main
