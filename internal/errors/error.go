package errors

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Category groups error codes.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryAssets  Category = "assets"
	CategoryAdapter Category = "adapter"
	CategoryServe   Category = "serve"
	CategoryCLI     Category = "cli"
)

// Location is a position in a project file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// PagewireError is a coded error with an explanation and a fix hint.
type PagewireError struct {
	// Code is the registry code (e.g. "E101").
	Code string

	Category Category

	// Message is a one-line summary.
	Message string

	// Detail explains the error.
	Detail string

	// Location points into the file that caused the error.
	Location *Location

	// Context holds the lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error.
	Wrapped error
}

// Error implements the error interface.
func (e *PagewireError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PagewireError) Unwrap() error {
	return e.Wrapped
}

// WithLocation points the error at file:line:column and loads the
// surrounding lines.
func (e *PagewireError) WithLocation(file string, line, column int) *PagewireError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 3)
	return e
}

// WithSuggestion sets the fix hint.
func (e *PagewireError) WithSuggestion(s string) *PagewireError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the explanation.
func (e *PagewireError) WithDetail(d string) *PagewireError {
	e.Detail = d
	return e
}

// Wrap sets the underlying error.
func (e *PagewireError) Wrap(err error) *PagewireError {
	e.Wrapped = err
	return e
}

// New creates a PagewireError from a registered code. Unknown codes yield
// an error with the message "Unknown error".
func New(code string) *PagewireError {
	t, ok := registry[code]
	if !ok {
		return &PagewireError{Code: code, Message: "Unknown error"}
	}
	return &PagewireError{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *PagewireError {
	return &PagewireError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as a PagewireError, wrapping it under code unless
// it already is one.
func FromError(err error, code string) *PagewireError {
	if err == nil {
		return nil
	}
	var pe *PagewireError
	if errors.As(err, &pe) {
		return pe
	}
	return New(code).Wrap(err)
}

// readContextLines returns up to size lines centred on target.
func readContextLines(filename string, target, size int) []string {
	f, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer f.Close()

	first := target - size/2
	last := target + size/2

	var lines []string
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan() && n <= last; n++ {
		if n >= first {
			lines = append(lines, scanner.Text())
		}
	}
	return lines
}
