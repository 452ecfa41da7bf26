// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package token defines the lexical tokens of Polylang source, along with
// the position and span tracking used by every later compiler stage to
// report diagnostics and to capture method-body source ranges.
package token

import "strconv"

// Node is anything that spans a range of source text.
type Node interface {
	Begin() Pos
	End() Pos
}

// Pos describes a resolved position within a file.
type Pos struct {
	// File contains the path as given to the lexer, not necessarily absolute.
	File string
	// Line is the one-based line number.
	Line int
	// Col is the one-based column number, counted in runes.
	Col int
	// Offset is the zero-based byte offset from the start of the file.
	Offset int
}

// String returns the "file:line:col" form used in diagnostics.
func (p Pos) String() string {
	return p.File + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Span is a half-open [Begin, End) range of source text.
type Span struct {
	Begin Pos
	End   Pos
}

// NewSpan builds a Span.
func NewSpan(begin, end Pos) Span {
	return Span{Begin: begin, End: end}
}

type spanNode struct{ span Span }

func (n spanNode) Begin() Pos { return n.span.Begin }
func (n spanNode) End() Pos   { return n.span.End }

// NewNode wraps a Span as a Node, for building ad-hoc diagnostics.
func NewNode(begin, end Pos) Node {
	return spanNode{Span{Begin: begin, End: end}}
}
