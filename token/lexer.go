// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// runeWithPos remembers where a buffered rune came from, so the lexer can
// unread without losing position information (mirrors the teacher lexer's
// buffering scheme).
type runeWithPos struct {
	r      rune
	line   int
	col    int
	offset int
}

// Lexer turns Polylang source text into a stream of Tokens.
type Lexer struct {
	r      *bufio.Reader
	buf    []runeWithPos
	bufPos int
	pos    Pos
}

// NewLexer creates a Lexer reading from r. filename is only used for
// diagnostics (it need not refer to a real file on disk).
func NewLexer(filename string, r io.Reader) *Lexer {
	l := &Lexer{r: bufio.NewReader(r)}
	l.pos.File = filename
	l.pos.Line = 1
	l.pos.Col = 1

	return l
}

// Tokens lexes the entire input and returns every token, or the first
// lexical error encountered.
func Tokens(filename, src string) ([]Token, error) {
	l := NewLexer(filename, strings.NewReader(src))

	var out []Token

	for {
		tok, err := l.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}

			return nil, err
		}

		out = append(out, tok)
	}
}

// Next returns the next token, or io.EOF once the input is exhausted.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()

	begin := l.pos

	r, err := l.nextR()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Token{}, io.EOF
		}

		return Token{}, err
	}

	switch {
	case r == '"' || r == '\'':
		return l.lexString(begin, r)
	case unicode.IsDigit(r):
		l.prevR()
		return l.lexNumber(begin)
	case r == '$' || isIdentStart(r):
		l.prevR()
		return l.lexIdent(begin)
	default:
		l.prevR()
		return l.lexPunct(begin)
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		r, err := l.nextR()
		if err != nil {
			return
		}

		switch {
		case unicode.IsSpace(r):
			continue
		case r == '/':
			r2, err := l.nextR()
			if err == nil && r2 == '/' {
				for {
					r3, err := l.nextR()
					if err != nil || r3 == '\n' {
						break
					}
				}

				continue
			}

			if err == nil && r2 == '*' {
				l.skipBlockComment()
				continue
			}

			if err == nil {
				l.prevR()
			}

			l.prevR()

			return
		default:
			l.prevR()
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	prev := rune(0)

	for {
		r, err := l.nextR()
		if err != nil {
			return
		}

		if prev == '*' && r == '/' {
			return
		}

		prev = r
	}
}

func (l *Lexer) lexString(begin Pos, quote rune) (Token, error) {
	var sb strings.Builder

	for {
		r, err := l.nextR()
		if err != nil {
			return Token{}, NewLexicalError(NewSpan(begin, l.pos), "unterminated string literal").SetCause(err)
		}

		if r == quote {
			break
		}

		if r == '\\' {
			esc, err := l.nextR()
			if err != nil {
				return Token{}, NewLexicalError(NewSpan(begin, l.pos), "unterminated escape sequence")
			}

			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteRune(esc)
			default:
				return Token{}, NewLexicalError(NewSpan(begin, l.pos), "unknown escape sequence '\\%c'", esc)
			}

			continue
		}

		if r == '\n' {
			return Token{}, NewLexicalError(NewSpan(begin, l.pos), "string literal may not contain a raw newline")
		}

		sb.WriteRune(r)
	}

	return Token{Kind: String, Literal: sb.String(), Span: NewSpan(begin, l.pos)}, nil
}

func (l *Lexer) lexNumber(begin Pos) (Token, error) {
	var sb strings.Builder

	for {
		r, err := l.nextR()
		if err != nil {
			break
		}

		if unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}

		if r == '.' {
			next, err := l.nextR()
			if err == nil && unicode.IsDigit(next) {
				sb.WriteByte('.')
				sb.WriteRune(next)
				continue
			}

			if err == nil {
				l.prevR()
			}

			l.prevR()

			break
		}

		l.prevR()

		break
	}

	if sb.Len() == 0 {
		return Token{}, NewLexicalError(NewSpan(begin, l.pos), "malformed numeric literal")
	}

	return Token{Kind: Number, Literal: sb.String(), Span: NewSpan(begin, l.pos)}, nil
}

func (l *Lexer) lexIdent(begin Pos) (Token, error) {
	var sb strings.Builder

	r, _ := l.nextR()
	sb.WriteRune(r)

	for {
		r, err := l.nextR()
		if err != nil {
			break
		}

		if isIdentPart(r) {
			sb.WriteRune(r)
			continue
		}

		l.prevR()

		break
	}

	name := sb.String()
	span := NewSpan(begin, l.pos)

	switch {
	case TypeKeywords[name]:
		return Token{Kind: KeywordType, Literal: name, Span: span}, nil
	case Keywords[name]:
		return Token{Kind: Keyword, Literal: name, Span: span}, nil
	default:
		return Token{Kind: Ident, Literal: name, Span: span}, nil
	}
}

func (l *Lexer) lexPunct(begin Pos) (Token, error) {
	r1, err := l.nextR()
	if err != nil {
		return Token{}, err
	}

	r2, err2 := l.nextR()
	if err2 == nil {
		two := string(r1) + string(r2)
		for _, op := range compoundOperators {
			if op == two {
				return Token{Kind: Punct, Literal: two, Span: NewSpan(begin, l.pos)}, nil
			}
		}

		l.prevR()
	}

	if !strings.ContainsRune(singleCharPunct, r1) {
		return Token{}, NewLexicalError(NewSpan(begin, l.pos), "unexpected character '%c'", r1)
	}

	return Token{Kind: Punct, Literal: string(r1), Span: NewSpan(begin, l.pos)}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// nextR reads the next rune and advances the lexer position.
func (l *Lexer) nextR() (rune, error) {
	if l.bufPos < len(l.buf) {
		rp := l.buf[l.bufPos]
		l.bufPos++
		l.pos.Line = rp.line
		l.pos.Col = rp.col + 1
		l.pos.Offset = rp.offset + utf8.RuneLen(rp.r)

		if rp.r == '\n' {
			l.pos.Line++
			l.pos.Col = 1
		}

		return rp.r, nil
	}

	r, size, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}

	if r == unicode.ReplacementChar && size == 1 {
		return 0, NewLexicalError(NewSpan(l.pos, l.pos), "invalid UTF-8 sequence")
	}

	rp := runeWithPos{r: r, line: l.pos.Line, col: l.pos.Col, offset: l.pos.Offset}
	l.buf = append(l.buf, rp)
	l.bufPos++

	l.pos.Offset += size
	l.pos.Col++

	if r == '\n' {
		l.pos.Line++
		l.pos.Col = 1
	}

	return r, nil
}

// prevR unreads the most recently read rune.
func (l *Lexer) prevR() {
	l.bufPos--
	rp := l.buf[l.bufPos]
	l.pos.Line = rp.line
	l.pos.Col = rp.col
	l.pos.Offset = rp.offset
}

// Pos returns the lexer's current position.
func (l *Lexer) Pos() Pos {
	return l.pos
}
