package main

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

func formatNumber(n Number) string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp := s[:strings.IndexByte(s, 'e')+2], s[strings.IndexByte(s, 'e')+2:]
		return mant + strings.TrimLeft(exp, "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func quoteText(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(b)
}

// ErrCyclicValue is returned when printing a list or mapping that contains
// itself.
var ErrCyclicValue = errors.New("cyclic value")

// encodeValue renders v the way "." prints it: JSON for data, with
// undefined spelled out at top level and non-finite numbers as null.
func encodeValue(v Value) (string, error) {
	enc := valueEncoder{strict: true}
	enc.write(v, true)
	return enc.String(), enc.err
}

// formatValue is encodeValue for diagnostics: a list or mapping met again
// inside itself is written as [...] or {...} instead of failing.
func formatValue(v Value) string {
	var enc valueEncoder
	enc.write(v, true)
	return enc.String()
}

type valueEncoder struct {
	strings.Builder
	strict bool
	err    error

	// lists and mappings currently being written, outermost first
	open []Value
}

func (enc *valueEncoder) enter(v Value) bool {
	for _, o := range enc.open {
		if o == v {
			if enc.strict && enc.err == nil {
				enc.err = ErrCyclicValue
			}
			return false
		}
	}
	enc.open = append(enc.open, v)
	return true
}

func (enc *valueEncoder) leave() { enc.open = enc.open[:len(enc.open)-1] }

func (enc *valueEncoder) write(v Value, top bool) {
	if enc.err != nil {
		return
	}
	switch v := v.(type) {
	case nil, undefined, Routine:
		if top {
			enc.WriteString("undefined")
		} else {
			enc.WriteString("null")
		}
	case Number:
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			enc.WriteString("null")
		} else {
			enc.WriteString(formatNumber(v))
		}
	case Text:
		enc.WriteString(quoteText(string(v)))
	case Token:
		enc.WriteString(quoteText(string(v)))
	case Boolean:
		enc.WriteString(strconv.FormatBool(bool(v)))
	case *List:
		if !enc.enter(v) {
			enc.WriteString("[...]")
			return
		}
		defer enc.leave()
		enc.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				enc.WriteByte(',')
			}
			enc.write(item, false)
		}
		enc.WriteByte(']')
	case *Mapping:
		if !enc.enter(v) {
			enc.WriteString("{...}")
			return
		}
		defer enc.leave()
		enc.WriteByte('{')
		first := true
		for _, key := range v.Keys() {
			item := v.entries[key]
			if k := kindOf(item); k == KindUndefined || k == KindNative {
				continue
			}
			if !first {
				enc.WriteByte(',')
			}
			first = false
			enc.WriteString(quoteText(key))
			enc.WriteByte(':')
			enc.write(item, false)
		}
		enc.WriteByte('}')
	case *Word:
		enc.WriteString(`{"token":`)
		enc.WriteString(quoteText(v.Token))
		enc.WriteString(`,"type":`)
		enc.WriteString(quoteText(v.Type.String()))
		enc.WriteByte('}')
	default:
		enc.WriteString("null")
	}
}

// stringify converts v to text for concatenation and joining. A list met
// again inside itself contributes nothing.
func stringify(v Value) string {
	return stringifyIn(v, nil)
}

func stringifyIn(v Value, open []*List) string {
	switch v := v.(type) {
	case nil, undefined:
		return "undefined"
	case Text:
		return string(v)
	case Token:
		return string(v)
	case Number:
		return formatNumber(v)
	case Boolean:
		return strconv.FormatBool(bool(v))
	case *List:
		for _, o := range open {
			if o == v {
				return ""
			}
		}
		open = append(open, v)
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			if kindOf(item) != KindUndefined {
				parts[i] = stringifyIn(item, open)
			}
		}
		return strings.Join(parts, ",")
	case *Mapping:
		return "[object Object]"
	case *Word:
		return v.Token
	case Routine:
		return "[native code]"
	}
	return ""
}

// keyOf converts a value into a mapping key.
func keyOf(v Value) string {
	return stringify(v)
}
