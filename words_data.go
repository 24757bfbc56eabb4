package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var stackWords = []native{
	{"DEPTH", (*VM).depth, false},
	{"CLEAR", (*VM).clear, false},
	{"DUP", (*VM).dup, false},
	{"DROP", (*VM).drop, false},
	{"SWAP", (*VM).swap, false},
	{"OVER", (*VM).over, false},
	{"NIP", (*VM).nip, false},
	{"TUCK", (*VM).tuck, false},
	{"ROLL", (*VM).roll, false},
	{"PICK", (*VM).pick, false},
	{"ROT", (*VM).rot, false},
	{"-ROT", (*VM).nrot, false},
	{".", (*VM).print, false},
	{".S", (*VM).printStack, false},
	{">A", (*VM).toAux, false},
	{"A>", (*VM).fromAux, false},
	{"A?", (*VM).auxTop, false},
	{".A", (*VM).printAux, false},
	{"ADROP", (*VM).auxDrop, false},
}

func (vm *VM) depth() { vm.Push(Number(vm.data.Depth())) }
func (vm *VM) clear() { vm.data.Clear() }
func (vm *VM) dup()   { vm.haltif(vm.data.Dup()) }
func (vm *VM) drop()  { vm.haltif(vm.data.Drop()) }
func (vm *VM) swap()  { vm.haltif(vm.data.Swap()) }
func (vm *VM) over()  { vm.haltif(vm.data.Over()) }
func (vm *VM) nip()   { vm.haltif(vm.data.Nip()) }
func (vm *VM) tuck()  { vm.haltif(vm.data.Tuck()) }
func (vm *VM) rot()   { vm.haltif(vm.data.Rot()) }
func (vm *VM) nrot()  { vm.haltif(vm.data.NRot()) }
func (vm *VM) roll()  { vm.haltif(vm.data.Roll(vm.popInt())) }
func (vm *VM) pick()  { vm.haltif(vm.data.Pick(vm.popInt())) }

func (vm *VM) print() {
	s, err := encodeValue(vm.Pop())
	vm.haltif(err)
	vm.Write(s, StyleDefault)
}

func (vm *VM) printStack() { vm.printState(&vm.data) }
func (vm *VM) printAux()   { vm.printState(&vm.aux) }

func (vm *VM) printState(s *Stack[Value]) {
	state, err := stackState(s)
	vm.haltif(err)
	vm.Write(state, StyleDefault)
}

func (vm *VM) toAux() { vm.aux.Push(vm.Pop()) }

func (vm *VM) fromAux() {
	v, err := vm.aux.Pop()
	vm.haltif(err)
	vm.Push(v)
}

func (vm *VM) auxTop() {
	if v, ok := vm.aux.Top(); ok {
		vm.Push(v)
	} else {
		vm.Push(Undefined)
	}
}

func (vm *VM) auxDrop() { vm.haltif(vm.aux.Drop()) }

// stackState renders a stack as "<depth> bottom ... top".
func stackState(s *Stack[Value]) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%d>", s.Depth())
	for _, v := range s.Cells() {
		enc, err := encodeValue(v)
		if err != nil {
			return "", fmt.Errorf("%v stack: %w", s.Label, err)
		}
		sb.WriteByte(' ')
		sb.WriteString(enc)
	}
	return sb.String(), nil
}

var arithmeticWords = []native{
	{"+", (*VM).add, false},
	{"-", (*VM).sub, false},
	{"*", (*VM).mul, false},
	{"/", (*VM).div, false},
	{"MOD", (*VM).mod, false},
	{"<<", (*VM).shl, false},
	{">>", (*VM).shr, false},
	{"AND", (*VM).and, false},
	{"OR", (*VM).or, false},
	{"XOR", (*VM).xor, false},
	{"INVERT", (*VM).invert, false},
	{"TRUE", func(vm *VM) { vm.Push(Boolean(true)) }, false},
	{"FALSE", func(vm *VM) { vm.Push(Boolean(false)) }, false},
	{"FLOOR", (*VM).floor, false},
	{"CEILING", (*VM).ceiling, false},
}

// toNumber coerces a value the way arithmetic sees it: booleans count as
// 0 or 1, numeric text parses, and anything else is NaN.
func toNumber(v Value) float64 {
	switch v := v.(type) {
	case Number:
		return float64(v)
	case Boolean:
		if v {
			return 1
		}
		return 0
	case Text:
		s := strings.TrimSpace(string(v))
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case *List:
		if len(v.items) == 0 {
			return 0
		}
		if len(v.items) == 1 {
			return toNumber(Text(stringify(v.items[0])))
		}
	}
	return math.NaN()
}

// toInt32 truncates modulo 2^32, as bitwise operators see numbers.
func toInt32(v Value) int32 {
	f := toNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(math.Mod(f, 1<<32)))))
}

func isTextual(v Value) bool {
	switch kindOf(v) {
	case KindText, KindToken, KindList, KindMapping, KindWord:
		return true
	}
	return false
}

func (vm *VM) operands() (x, y Value) {
	vm.need(2)
	y = vm.Pop()
	x = vm.Pop()
	return x, y
}

func (vm *VM) arith(op func(x, y float64) float64) {
	x, y := vm.operands()
	vm.Push(Number(op(toNumber(x), toNumber(y))))
}

// add concatenates when either side is text-like, and sums otherwise.
func (vm *VM) add() {
	x, y := vm.operands()
	if isTextual(x) || isTextual(y) {
		vm.Push(Text(stringify(x) + stringify(y)))
		return
	}
	vm.Push(Number(toNumber(x) + toNumber(y)))
}

func (vm *VM) sub() { vm.arith(func(x, y float64) float64 { return x - y }) }
func (vm *VM) mul() { vm.arith(func(x, y float64) float64 { return x * y }) }
func (vm *VM) div() { vm.arith(func(x, y float64) float64 { return x / y }) }
func (vm *VM) mod() { vm.arith(math.Mod) }

func (vm *VM) shl() {
	x, y := vm.operands()
	vm.Push(Number(toInt32(x) << (uint32(toInt32(y)) & 31)))
}

func (vm *VM) shr() {
	x, y := vm.operands()
	vm.Push(Number(toInt32(x) >> (uint32(toInt32(y)) & 31)))
}

// bitwise combines two booleans logically, and anything else as int32s.
func (vm *VM) bitwise(logical func(a, b bool) bool, op func(a, b int32) int32) {
	x, y := vm.operands()
	if a, ok := x.(Boolean); ok {
		if b, ok := y.(Boolean); ok {
			vm.Push(Boolean(logical(bool(a), bool(b))))
			return
		}
	}
	vm.Push(Number(op(toInt32(x), toInt32(y))))
}

func (vm *VM) and() {
	vm.bitwise(func(a, b bool) bool { return a && b }, func(a, b int32) int32 { return a & b })
}

func (vm *VM) or() {
	vm.bitwise(func(a, b bool) bool { return a || b }, func(a, b int32) int32 { return a | b })
}

func (vm *VM) xor() {
	vm.bitwise(func(a, b bool) bool { return a != b }, func(a, b int32) int32 { return a ^ b })
}

func (vm *VM) invert() {
	switch v := vm.Pop().(type) {
	case Boolean:
		vm.Push(!v)
	default:
		vm.Push(Number(^toInt32(v)))
	}
}

func (vm *VM) floor()   { vm.Push(Number(math.Floor(toNumber(vm.Pop())))) }
func (vm *VM) ceiling() { vm.Push(Number(math.Ceil(toNumber(vm.Pop())))) }

var compareWords = []native{
	{"=", func(vm *VM) { x, y := vm.operands(); vm.Push(Boolean(equal(x, y))) }, false},
	{"<>", func(vm *VM) { x, y := vm.operands(); vm.Push(Boolean(!equal(x, y))) }, false},
	{"<", func(vm *VM) { vm.compare(func(c int) bool { return c < 0 }) }, false},
	{"<=", func(vm *VM) { vm.compare(func(c int) bool { return c <= 0 }) }, false},
	{">", func(vm *VM) { vm.compare(func(c int) bool { return c > 0 }) }, false},
	{">=", func(vm *VM) { vm.compare(func(c int) bool { return c >= 0 }) }, false},
}

// compare orders two texts lexically and anything else numerically; any
// comparison against NaN is false.
func (vm *VM) compare(test func(c int) bool) {
	x, y := vm.operands()
	if a, ok := x.(Text); ok {
		if b, ok := y.(Text); ok {
			vm.Push(Boolean(test(strings.Compare(string(a), string(b)))))
			return
		}
	}
	a, b := toNumber(x), toNumber(y)
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		vm.Push(Boolean(false))
	case a < b:
		vm.Push(Boolean(test(-1)))
	case a > b:
		vm.Push(Boolean(test(1)))
	default:
		vm.Push(Boolean(test(0)))
	}
}
