package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jcorbin/eczema/internal/runeio"
)

var objectWords = []native{
	{"UNDEFINED", func(vm *VM) { vm.Push(Undefined) }, false},
	{"OBJECT", func(vm *VM) { vm.Push(NewMapping()) }, false},
	{":OBJECT", (*VM).makeObject, false},
	{"KEYS", (*VM).keys, false},
	{"VALUES", (*VM).values, false},
	{"DELETE", (*VM).delete, false},
	{"?", (*VM).fetch, false},
	{"!", (*VM).store, false},
}

// ( key value ... count -- object )
func (vm *VM) makeObject() {
	n := vm.popInt()
	vm.need(2 * n)
	m := NewMapping()
	for ; n > 0; n-- {
		v := vm.Pop()
		m.Set(keyOf(vm.Pop()), v)
	}
	vm.Push(m)
}

func (vm *VM) keys() {
	list := NewList()
	switch v := vm.Pop().(type) {
	case *Mapping:
		for _, key := range v.Keys() {
			list.Append(Text(key))
		}
	case *List:
		for i := range v.items {
			list.Append(Text(strconv.Itoa(i)))
		}
	default:
		vm.typeError("object", v)
	}
	vm.Push(list)
}

func (vm *VM) values() {
	list := NewList()
	switch v := vm.Pop().(type) {
	case *Mapping:
		for _, key := range v.Keys() {
			list.Append(v.entries[key])
		}
	case *List:
		list.Append(v.items...)
	default:
		vm.typeError("object", v)
	}
	vm.Push(list)
}

// ( key object -- )
func (vm *VM) delete() {
	vm.need(2)
	switch object := vm.Pop().(type) {
	case *Mapping:
		object.Delete(keyOf(vm.Pop()))
	case *List:
		if i, ok := indexOf(vm.Pop()); ok && i < object.Len() {
			object.Set(i, Undefined)
		}
	default:
		vm.typeError("object", object)
	}
}

// indexOf accepts whole, non-negative numbers as list indices.
func indexOf(v Value) (int, bool) {
	var f float64
	switch v := v.(type) {
	case Number:
		f = float64(v)
	case Text:
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return 0, false
		}
		f = float64(n)
	default:
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ( key object -- value )
func (vm *VM) fetch() {
	vm.need(2)
	object := vm.Pop()
	key := vm.Pop()
	vm.Push(vm.lookup(object, key))
}

func (vm *VM) lookup(object, key Value) Value {
	switch object := object.(type) {
	case *Mapping:
		if v, ok := object.Get(keyOf(key)); ok {
			return v
		}
	case *List:
		if i, ok := indexOf(key); ok {
			return object.At(i)
		}
		if key == Text("length") {
			return Number(object.Len())
		}
	case Text:
		runes := []rune(string(object))
		if i, ok := indexOf(key); ok && i < len(runes) {
			return Text(runes[i])
		}
		if key == Text("length") {
			return Number(len(runes))
		}
	case *Word:
		switch keyOf(key) {
		case "definition":
			return object.cells
		case "execute":
			if object.routine != nil {
				return object.routine
			}
		case "token":
			return Text(object.Token)
		case "immediate":
			return Boolean(object.Immediate)
		case "boundary":
			return Number(object.Boundary)
		}
	default:
		vm.typeError("object", object)
	}
	return Undefined
}

// ( value key object -- )
func (vm *VM) store() {
	vm.need(3)
	switch object := vm.Pop().(type) {
	case *Mapping:
		key := vm.Pop()
		object.Set(keyOf(key), vm.Pop())
	case *List:
		key := vm.Pop()
		i, ok := indexOf(key)
		if !ok {
			vm.halt(fmt.Errorf("invalid list index %v", formatValue(key)))
		}
		object.Set(i, vm.Pop())
	default:
		vm.typeError("object", object)
	}
}

var arrayWords = []native{
	{"ARRAY", func(vm *VM) { vm.Push(NewList()) }, false},
	{"TO-ARRAY", (*VM).toArray, false},
	{":ARRAY", (*VM).makeArray, false},
	{"SPREAD", func(vm *VM) { vm.Push(vm.popList().items...) }, false},
	{"CONCAT", (*VM).concat, false},
	{"COUNT", (*VM).count, false},
	{"PUSH", (*VM).pushItem, false},
	{"POP", func(vm *VM) { vm.Push(vm.popList().Pop()) }, false},
	{"REVERSE", func(vm *VM) { l := vm.popList(); l.Reverse(); vm.Push(l) }, false},
	{"SORT", func(vm *VM) { l := vm.popList(); l.Sort(); vm.Push(l) }, false},
	{"SPLICE#", (*VM).spliceCount, false},
	{"SPLICE", (*VM).splice, false},
	{"SLICE#", (*VM).sliceCount, false},
	{"SLICE", (*VM).slice, false},
	{"CONTAINS", (*VM).contains, false},
}

func (vm *VM) toArray() {
	switch v := vm.Pop().(type) {
	case *List:
		vm.Push(NewList(v.Items()...))
	case Text:
		list := NewList()
		for _, r := range string(v) {
			list.Append(Text(r))
		}
		vm.Push(list)
	case *Mapping:
		vm.Push(NewList())
	default:
		vm.typeError("iterable", v)
	}
}

// ( item ... count -- array )
func (vm *VM) makeArray() {
	n := vm.popInt()
	if n < 0 {
		n = 0
	}
	vm.need(n)
	items := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		items[i] = vm.Pop()
	}
	vm.Push(NewList(items...))
}

func (vm *VM) concat() {
	vm.need(2)
	y := vm.Pop()
	switch x := vm.Pop().(type) {
	case *List:
		z := NewList(x.Items()...)
		if l, ok := y.(*List); ok {
			z.Append(l.items...)
		} else {
			z.Append(y)
		}
		vm.Push(z)
	case Text:
		vm.Push(Text(string(x) + stringify(y)))
	default:
		vm.typeError("list", x)
	}
}

func (vm *VM) count() {
	switch v := vm.Pop().(type) {
	case *List:
		vm.Push(Number(v.Len()))
	case Text:
		vm.Push(Number(len([]rune(string(v)))))
	case *Mapping:
		vm.Push(Number(v.Len()))
	default:
		vm.typeError("list", v)
	}
}

// ( value array -- )
func (vm *VM) pushItem() {
	vm.need(2)
	list := vm.popList()
	list.Append(vm.Pop())
}

// ( index count array -- removed )
func (vm *VM) spliceCount() {
	vm.need(3)
	list := vm.popList()
	count := vm.popInt()
	vm.Push(list.Splice(vm.popInt(), count))
}

// ( index array -- removed )
func (vm *VM) splice() {
	vm.need(2)
	list := vm.popList()
	vm.Push(list.Splice(vm.popInt(), list.Len()))
}

// ( index count sequence -- sub )
func (vm *VM) sliceCount() {
	vm.need(3)
	seq := vm.Pop()
	count := vm.popInt()
	start := vm.popInt()
	vm.Push(vm.sliceOf(seq, start, start+count))
}

// ( index sequence -- sub )
func (vm *VM) slice() {
	vm.need(2)
	seq := vm.Pop()
	vm.Push(vm.sliceOf(seq, vm.popInt(), math.MaxInt32))
}

func (vm *VM) sliceOf(seq Value, start, end int) Value {
	switch seq := seq.(type) {
	case *List:
		return seq.Slice(start, end)
	case Text:
		runes := []rune(string(seq))
		start, end = sliceBounds(len(runes), start, end)
		return Text(runes[start:end])
	default:
		vm.typeError("list", seq)
	}
	return Undefined
}

// ( item sequence -- boolean )
func (vm *VM) contains() {
	vm.need(2)
	switch seq := vm.Pop().(type) {
	case *List:
		vm.Push(Boolean(seq.Index(vm.Pop()) >= 0))
	case Text:
		vm.Push(Boolean(strings.Contains(string(seq), stringify(vm.Pop()))))
	default:
		vm.typeError("list", seq)
	}
}

var stringWords = []native{
	{"JOIN", (*VM).join, false},
	{"TRIM", func(vm *VM) { vm.Push(Text(strings.TrimSpace(vm.PopText()))) }, false},
	{"FIT", (*VM).fit, false},
	{"SPLIT", (*VM).split, false},
	{"CHAR", (*VM).char, false},
}

// ( array glue -- string )
func (vm *VM) join() {
	vm.need(2)
	glue := vm.PopText()
	list := vm.popList()
	parts := make([]string, list.Len())
	for i, item := range list.items {
		if k := kindOf(item); k != KindUndefined {
			parts[i] = stringifyIn(item, []*List{list})
		}
	}
	vm.Push(Text(strings.Join(parts, glue)))
}

// fit pads or truncates a string on the left to the width of form, taking
// its padding from form: "7" "000" FIT leaves "007".
func (vm *VM) fit() {
	vm.need(2)
	form := []rune(vm.PopText())
	composite := append(form, []rune(vm.PopText())...)
	if n := len(form); n > 0 {
		composite = composite[len(composite)-n:]
	}
	vm.Push(Text(composite))
}

// ( string delimiter -- array )
func (vm *VM) split() {
	vm.need(2)
	delim := vm.PopText()
	list := NewList()
	for _, part := range strings.Split(vm.PopText(), delim) {
		list.Append(Text(part))
	}
	vm.Push(list)
}

// char pushes the text of the rune named by the next token: 'x', '\n',
// <ESC> and ^[ forms are all understood.
func (vm *VM) char() {
	token := vm.nextToken()
	r, err := runeio.UnquoteRune(token)
	if err != nil {
		vm.halt(fmt.Errorf("CHAR %v: %w", token, err))
	}
	vm.Push(Text(r))
}

var timeWords = []native{
	{"NOW", func(vm *VM) { vm.Push(Number(time.Now().UnixNano() / int64(time.Millisecond))) }, false},
	{"TIME", (*VM).time, false},
}

// time evaluates the next token, reporting how long it took.
func (vm *VM) time() {
	token := vm.nextToken()
	start := time.Now()
	vm.evaluate(token)
	elapsed := time.Since(start)
	vm.Write(fmt.Sprintf("%vms", formatNumber(Number(elapsed.Seconds()*1000))), StyleDefault)
}
