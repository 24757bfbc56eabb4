package main

import "strings"

// Input is a tokenizing cursor over one unit of source text.
type Input struct {
	Name   string
	text   string
	offset int
}

func NewInput(name, text string) *Input {
	return &Input{Name: name, text: text}
}

func (in *Input) Text() string { return in.text }
func (in *Input) Offset() int  { return in.offset }

// Done reports whether only whitespace remains.
func (in *Input) Done() bool {
	in.skipSpace()
	return in.offset >= len(in.text)
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }

func (in *Input) skipSpace() {
	for in.offset < len(in.text) && isSpace(in.text[in.offset]) {
		in.offset++
	}
}

func (in *Input) nextSpace() int {
	i := in.offset
	for i < len(in.text) && !isSpace(in.text[i]) {
		i++
	}
	return i
}

// nextBoundary ends a quoted token after its closing quote; without one,
// the token is delimited by whitespace like any other.
func (in *Input) nextBoundary() int {
	if in.text[in.offset] == '"' {
		if i := strings.IndexByte(in.text[in.offset+1:], '"'); i >= 0 {
			return in.offset + 1 + i + 1
		}
	}
	return in.nextSpace()
}

// Next returns the next token, or false once the text is exhausted.
func (in *Input) Next() (string, bool) {
	in.skipSpace()
	if in.offset >= len(in.text) {
		return "", false
	}
	end := in.nextBoundary()
	token := in.text[in.offset:end]
	in.offset = end
	return token, true
}

// SkipLine discards everything through the next line feed.
func (in *Input) SkipLine() {
	if i := strings.IndexByte(in.text[in.offset:], '\n'); i >= 0 {
		in.offset += i + 1
	} else {
		in.offset = len(in.text)
	}
}

// Tokens consumes all remaining tokens.
func (in *Input) Tokens() (tokens []string) {
	for token, ok := in.Next(); ok; token, ok = in.Next() {
		tokens = append(tokens, token)
	}
	return tokens
}

func isString(token string) bool {
	return len(token) > 0 && token[0] == '"' && token[len(token)-1] == '"'
}

// dequote strips the quotes of a string literal token; a lone quote mark
// dequotes to the empty string.
func dequote(token string) string {
	if !isString(token) {
		return token
	}
	if len(token) < 2 {
		return ""
	}
	return token[1 : len(token)-1]
}
