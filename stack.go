package main

import "fmt"

// UnderflowError is returned when a stack holds fewer items than an
// operation requires; the stack is left unmodified.
type UnderflowError struct {
	Label string
}

func (err UnderflowError) Error() string { return fmt.Sprintf("%v underflow", err.Label) }

// Stack is a labeled LIFO sequence. Every shuffle checks its depth before
// touching any cell, and is otherwise a composition of pops and pushes.
type Stack[T any] struct {
	Label string
	cells []T
}

func (s *Stack[T]) need(n int) error {
	if len(s.cells) < n {
		return UnderflowError{s.Label}
	}
	return nil
}

func (s *Stack[T]) Depth() int { return len(s.cells) }

func (s *Stack[T]) Clear() {
	var zero T
	for i := range s.cells {
		s.cells[i] = zero
	}
	s.cells = s.cells[:0]
}

func (s *Stack[T]) Push(values ...T) { s.cells = append(s.cells, values...) }

func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if err := s.need(1); err != nil {
		return zero, err
	}
	i := len(s.cells) - 1
	v := s.cells[i]
	s.cells[i] = zero
	s.cells = s.cells[:i]
	return v, nil
}

func (s *Stack[T]) pop() T {
	v, _ := s.Pop()
	return v
}

// Top returns the top item without removing it.
func (s *Stack[T]) Top() (T, bool) { return s.Get(0) }

// Get returns the item n places below the top.
func (s *Stack[T]) Get(n int) (T, bool) {
	var zero T
	if n < 0 || n >= len(s.cells) {
		return zero, false
	}
	return s.cells[len(s.cells)-1-n], true
}

// Cells returns a bottom-to-top copy of the stack.
func (s *Stack[T]) Cells() []T { return append([]T(nil), s.cells...) }

func (s *Stack[T]) Drop() error {
	_, err := s.Pop()
	return err
}

// ( a -- a a )
func (s *Stack[T]) Dup() error {
	if err := s.need(1); err != nil {
		return err
	}
	a := s.pop()
	s.Push(a, a)
	return nil
}

// ( a b -- b a )
func (s *Stack[T]) Swap() error {
	if err := s.need(2); err != nil {
		return err
	}
	b, a := s.pop(), s.pop()
	s.Push(b, a)
	return nil
}

// ( a b -- a b a )
func (s *Stack[T]) Over() error {
	if err := s.need(2); err != nil {
		return err
	}
	b, a := s.pop(), s.pop()
	s.Push(a, b, a)
	return nil
}

// ( a b -- b )
func (s *Stack[T]) Nip() error {
	if err := s.need(2); err != nil {
		return err
	}
	b, _ := s.pop(), s.pop()
	s.Push(b)
	return nil
}

// ( a b -- b a b )
func (s *Stack[T]) Tuck() error {
	if err := s.need(2); err != nil {
		return err
	}
	b, a := s.pop(), s.pop()
	s.Push(b, a, b)
	return nil
}

// ( a b c -- b c a )
func (s *Stack[T]) Rot() error {
	if err := s.need(3); err != nil {
		return err
	}
	c, b, a := s.pop(), s.pop(), s.pop()
	s.Push(b, c, a)
	return nil
}

// ( a b c -- c a b )
func (s *Stack[T]) NRot() error {
	if err := s.need(3); err != nil {
		return err
	}
	c, b, a := s.pop(), s.pop(), s.pop()
	s.Push(c, a, b)
	return nil
}

// Pick pushes a copy of the item n places below the top.
func (s *Stack[T]) Pick(n int) error {
	if n < 0 {
		return fmt.Errorf("%v pick: negative depth %v", s.Label, n)
	}
	if err := s.need(n + 1); err != nil {
		return err
	}
	held := make([]T, n)
	for i := range held {
		held[i] = s.pop()
	}
	v := s.pop()
	s.Push(v)
	for i := n - 1; i >= 0; i-- {
		s.Push(held[i])
	}
	s.Push(v)
	return nil
}

// Roll moves the item n places below the top onto the top.
func (s *Stack[T]) Roll(n int) error {
	if n < 0 {
		return fmt.Errorf("%v roll: negative depth %v", s.Label, n)
	}
	if err := s.need(n + 1); err != nil {
		return err
	}
	held := make([]T, n)
	for i := range held {
		held[i] = s.pop()
	}
	v := s.pop()
	for i := n - 1; i >= 0; i-- {
		s.Push(held[i])
	}
	s.Push(v)
	return nil
}
