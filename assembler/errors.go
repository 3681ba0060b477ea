package assembler

import (
	"fmt"
	"strings"

	"github.com/irvm/iridium/parser"
)

// ErrorKind is the closed taxonomy of first-pass assembler failures.
// Structural parse failures ride the same kind via ParseError so
// every assembly failure surfaces through one Error type.
type ErrorKind int

const (
	ErrorParseError ErrorKind = iota
	ErrorNoSegmentDeclarationFound
	ErrorStringConstantDeclaredWithoutLabel
	ErrorSymbolAlreadyDeclared
	ErrorUnknownDirectiveFound
	ErrorInsufficientSections
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorParseError:
		return "ParseError"
	case ErrorNoSegmentDeclarationFound:
		return "NoSegmentDeclarationFound"
	case ErrorStringConstantDeclaredWithoutLabel:
		return "StringConstantDeclaredWithoutLabel"
	case ErrorSymbolAlreadyDeclared:
		return "SymbolAlreadyDeclared"
	case ErrorUnknownDirectiveFound:
		return "UnknownDirectiveFound"
	case ErrorInsufficientSections:
		return "InsufficientSections"
	default:
		return "Unknown"
	}
}

// Error is a single assembler failure: its kind plus the detail and
// source position that produced it.
type Error struct {
	Kind    ErrorKind
	Pos     parser.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

// ErrorList accumulates Errors across the first pass; assembly aborts
// before the second pass if the list is non-empty.
type ErrorList struct {
	Errors []*Error
}

func (el *ErrorList) add(kind ErrorKind, pos parser.Position, format string, args ...interface{}) {
	el.Errors = append(el.Errors, &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) Error() string {
	var sb strings.Builder
	for _, e := range el.Errors {
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}
