// Package tserr holds the errors a malformed problem can cause.
//
// Every error carries an ErrCode so tools can match on it, and the position
// in the problem file that caused it
package tserr

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
var enableDebugErrorPrinting = false

type ErrCode int

const (
	None ErrCode = iota
	Parse
	UnknownClass
	UnknownVariable
	TypeArity
	DuplicateClass
	DuplicateVariable
	InvalidClass
)

// Position locates an error in a problem file. Line and Column are 1-based,
// and zero when unknown
type Position struct {
	Line, Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Error interface {
	error
	Code() ErrCode
	Pos() Position

	withStack([]byte) Error
	getStack() []byte
}

func FormatWithCode(e Error) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		lines := strings.Split(string(e.getStack()), "\n")
		if len(lines) > 6 {
			return fmt.Sprintf("%s:(E%03d) %s", strings.TrimSpace(lines[6]), e.Code(), e.Error())
		}
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// FormatWithPosition prefixes FormatWithCode with the file name and position of e
func FormatWithPosition(e Error, file string) string {
	return fmt.Sprintf("%s:%s: %s", file, e.Pos(), FormatWithCode(e))
}

func New[E Error](err E) Error {
	return err.withStack(debug.Stack())
}

type NewParse struct {
	Position
	Source  string
	Message string
	stack   []byte
}

func (e NewParse) Error() string {
	if e.Source == "" {
		return "could not parse: " + e.Message
	}
	return fmt.Sprintf("could not parse '%s': %s", e.Source, e.Message)
}
func (e NewParse) Code() ErrCode    { return Parse }
func (e NewParse) Pos() Position    { return e.Position }
func (e NewParse) getStack() []byte { return e.stack }
func (e NewParse) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewUnknownClass struct {
	Position
	Name  string
	stack []byte
}

func (e NewUnknownClass) Error() string {
	return fmt.Sprintf("unknown class '%s'", e.Name)
}
func (e NewUnknownClass) Code() ErrCode    { return UnknownClass }
func (e NewUnknownClass) Pos() Position    { return e.Position }
func (e NewUnknownClass) getStack() []byte { return e.stack }
func (e NewUnknownClass) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewUnknownVariable struct {
	Position
	Name  string
	stack []byte
}

func (e NewUnknownVariable) Error() string {
	return fmt.Sprintf("type variable '%s' is not declared", e.Name)
}
func (e NewUnknownVariable) Code() ErrCode    { return UnknownVariable }
func (e NewUnknownVariable) Pos() Position    { return e.Position }
func (e NewUnknownVariable) getStack() []byte { return e.stack }
func (e NewUnknownVariable) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewTypeArity struct {
	Position
	Name             string
	Expected, Actual int
	stack            []byte
}

func (e NewTypeArity) Error() string {
	return fmt.Sprintf("class '%s' expects %d type arguments, found %d", e.Name, e.Expected, e.Actual)
}
func (e NewTypeArity) Code() ErrCode    { return TypeArity }
func (e NewTypeArity) Pos() Position    { return e.Position }
func (e NewTypeArity) getStack() []byte { return e.stack }
func (e NewTypeArity) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewDuplicateClass struct {
	Position
	Name  string
	stack []byte
}

func (e NewDuplicateClass) Error() string {
	return fmt.Sprintf("class '%s' is declared more than once", e.Name)
}
func (e NewDuplicateClass) Code() ErrCode    { return DuplicateClass }
func (e NewDuplicateClass) Pos() Position    { return e.Position }
func (e NewDuplicateClass) getStack() []byte { return e.stack }
func (e NewDuplicateClass) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewDuplicateVariable struct {
	Position
	Name  string
	stack []byte
}

func (e NewDuplicateVariable) Error() string {
	return fmt.Sprintf("type variable '%s' is declared more than once", e.Name)
}
func (e NewDuplicateVariable) Code() ErrCode    { return DuplicateVariable }
func (e NewDuplicateVariable) Pos() Position    { return e.Position }
func (e NewDuplicateVariable) getStack() []byte { return e.stack }
func (e NewDuplicateVariable) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

// NewInvalidClass is for class declarations the type universe rejects
type NewInvalidClass struct {
	Position
	Name   string
	Reason string
	stack  []byte
}

func (e NewInvalidClass) Error() string {
	return fmt.Sprintf("invalid class '%s': %s", e.Name, e.Reason)
}
func (e NewInvalidClass) Code() ErrCode    { return InvalidClass }
func (e NewInvalidClass) Pos() Position    { return e.Position }
func (e NewInvalidClass) getStack() []byte { return e.stack }
func (e NewInvalidClass) withStack(stack []byte) Error {
	e.stack = stack
	return e
}
