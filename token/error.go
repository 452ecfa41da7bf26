// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// ErrLexical is the oops code family for malformed source text (spec §7
// "Lexical / parse").
const ErrLexical = "LEXICAL_ERROR"

// ErrParse is the oops code family for a source text that lexes cleanly but
// does not match the grammar.
const ErrParse = "PARSE_ERROR"

// PosError carries a single span and human-readable message, matching
// spec §7's "every error surfaces as a tagged value carrying a single
// human-readable message plus an optional source span".
type PosError struct {
	Code    string
	Span    Span
	Message string
	cause   error
}

// NewLexicalError builds a PosError tagged ErrLexical.
func NewLexicalError(span Span, format string, args ...any) *PosError {
	return &PosError{Code: ErrLexical, Span: span, Message: fmt.Sprintf(format, args...)}
}

// NewParseError builds a PosError tagged ErrParse.
func NewParseError(span Span, format string, args ...any) *PosError {
	return &PosError{Code: ErrParse, Span: span, Message: fmt.Sprintf(format, args...)}
}

func (e *PosError) SetCause(err error) *PosError {
	e.cause = err
	return e
}

func (e *PosError) Unwrap() error { return e.cause }

func (e *PosError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s: %s", e.Span.Begin, e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s: %s: %s", e.Span.Begin, e.Code, e.Message, e.cause.Error())
}

// Oops renders the PosError as a samber/oops error, attaching the span as
// structured context so callers that walk oops.Context can recover it
// without parsing the message (spec §7, ambient error handling).
func (e *PosError) Oops() error {
	b := oops.Code(e.Code).
		With("file", e.Span.Begin.File).
		With("begin", e.Span.Begin.String()).
		With("end", e.Span.End.String())

	if e.cause != nil {
		return b.Wrap(e.cause)
	}

	return b.Errorf("%s", e.Message)
}

// Explain renders a multi-line, source-quoting diagnostic in the style
// compilers print to a terminal: the offending line followed by a caret
// span under the exact columns at fault.
func Explain(err *PosError, source string) string {
	lines := strings.Split(source, "\n")

	lineNo := err.Span.Begin.Line - 1
	line := ""

	if lineNo >= 0 && lineNo < len(lines) {
		line = lines[lineNo]
	}

	indentWidth := len(strconv.Itoa(err.Span.Begin.Line))

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "error: %s\n", err.Message)
	fmt.Fprintf(sb, "%s--> %s\n", strings.Repeat(" ", indentWidth), err.Span.Begin)
	fmt.Fprintf(sb, "%s |\n", strings.Repeat(" ", indentWidth))
	fmt.Fprintf(sb, "%d | %s\n", err.Span.Begin.Line, line)
	fmt.Fprintf(sb, "%s |%s", strings.Repeat(" ", indentWidth), strings.Repeat(" ", err.Span.Begin.Col))

	width := err.Span.End.Col - err.Span.Begin.Col
	if width < 1 {
		width = 1
	}

	sb.WriteString(strings.Repeat("^", width))
	sb.WriteByte('\n')

	return sb.String()
}
