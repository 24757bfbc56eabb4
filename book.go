package main

import "fmt"

// BookNotFoundError is returned when no published book has a title.
type BookNotFoundError struct {
	Title string
}

func (err BookNotFoundError) Error() string { return fmt.Sprintf("book not found: %v", err.Title) }

// Book is a namespace of words, remembering the latest word added to it
// as the target of definition-mutating words.
type Book struct {
	Title  string
	latest *Word
	words  map[string]*Word
	tokens []string
}

func NewBook(title string) *Book {
	return &Book{Title: title, words: make(map[string]*Word)}
}

// Add installs word under its token, replacing any previous word of the
// same token, and makes it the latest.
func (book *Book) Add(word *Word) {
	if _, defined := book.words[word.Token]; !defined {
		book.tokens = append(book.tokens, word.Token)
	}
	book.words[word.Token] = word
	book.latest = word
}

func (book *Book) Get(token string) *Word { return book.words[token] }

func (book *Book) Latest() *Word { return book.latest }

// Tokens returns the book's tokens in first-definition order.
func (book *Book) Tokens() []string { return append([]string(nil), book.tokens...) }

func (book *Book) Len() int { return len(book.tokens) }

// Pile is the search order: the top book shadows those beneath it.
type Pile struct {
	Stack[*Book]
}

// Search returns the first word named token, scanning from the top.
func (pile *Pile) Search(token string) *Word {
	for i := 0; i < pile.Depth(); i++ {
		book, _ := pile.Get(i)
		if word := book.Get(token); word != nil {
			return word
		}
	}
	return nil
}

// Find promotes the book titled title to the top of the pile.
func (pile *Pile) Find(title string) (*Book, error) {
	for i := 0; i < pile.Depth(); i++ {
		if book, _ := pile.Get(i); book.Title == title {
			if err := pile.Roll(i); err != nil {
				return nil, err
			}
			return book, nil
		}
	}
	return nil, BookNotFoundError{title}
}

// Titles lists book titles from the top of the pile down.
func (pile *Pile) Titles() []string {
	titles := make([]string, pile.Depth())
	for i := range titles {
		book, _ := pile.Get(i)
		titles[i] = book.Title
	}
	return titles
}
