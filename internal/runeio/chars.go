package runeio

import (
	"errors"
	"strconv"
	"strings"
)

// Mnemonics for the C0 controls 0x00-0x1f and the C1 controls 0x80-0x9f,
// in codepoint order.
var (
	c0Names = strings.Fields(`
		NUL SOH STX ETX EOT ENQ ACK BEL BS  HT  NL  VT  NP  CR  SO  SI
		DLE DC1 DC2 DC3 DC4 NAK SYN ETB CAN EM  SUB ESC FS  GS  RS  US`)
	c1Names = strings.Fields(`
		PAD HOP BPH NBH IND NEL SSA ESA HTS HTJ VTS PLD PLU RI  SS2 SS3
		DCS PU1 PU2 STS CCH MW  SPA EPA SOS SGCI SCI CSI ST OSC PM  APC`)
)

// runeNames maps "<NAME>" mnemonics, upper cased, and caret forms to runes.
var runeNames = func() map[string]rune {
	names := make(map[string]rune, 2*(len(c0Names)+len(c1Names))+2)
	add := func(name string, r rune) {
		names["<"+name+">"] = r
		if caret := CaretForm(r); caret != "" {
			names[caret] = r
		}
	}
	for i, name := range c0Names {
		add(name, rune(i))
	}
	for i, name := range c1Names {
		add(name, rune(0x80+i))
	}
	add("SP", ' ')
	add("DEL", 0x7f)
	return names
}()

// LookupRune resolves a control mnemonic like <ESC> or <esc>, or a caret
// form like ^[ for ESC and ^[[ for CSI.
func LookupRune(name string) (rune, bool) {
	if strings.HasPrefix(name, "<") {
		name = strings.ToUpper(name)
	}
	r, ok := runeNames[name]
	return r, ok
}

// CaretForm returns the ^-escaped printable form of a control rune, or ""
// when r is printable.
func CaretForm(r rune) string {
	switch {
	case r < 0x20 || r == 0x7f:
		return "^" + string(r^0x40)
	case 0x80 <= r && r <= 0x9f:
		return "^[" + string(r^0xc0)
	}
	return ""
}

var errInvalidRune = errors.New(`rune literal must be "^X" "<NAME>" or 'X'`)

// UnquoteRune parses the operand of CHAR: a mnemonic or caret form as
// understood by LookupRune, or a single quoted character with Go escapes.
func UnquoteRune(token string) (rune, error) {
	if r, ok := LookupRune(token); ok {
		return r, nil
	}
	if len(token) < 3 || token[0] != '\'' {
		return 0, errInvalidRune
	}
	r, _, tail, err := strconv.UnquoteChar(token[1:], '\'')
	if err != nil {
		return 0, err
	}
	if tail != "'" {
		return 0, errInvalidRune
	}
	return r, nil
}
