package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for source problems. All of them abort the run.
var (
	// ErrSource indicates a source file could not be used.
	ErrSource = errors.New("source error")

	// ErrInvalidRow indicates a data row failed validation or conversion.
	ErrInvalidRow = errors.New("invalid row")

	// ErrCompetitionRows indicates a competition file did not hold exactly one competition.
	ErrCompetitionRows = errors.New("competition file must contain exactly one row")
)

// SourceError describes a problem with a source file.
type SourceError struct {
	File string
	Line int // 0 when the problem is not tied to a line
	Err  error
}

func (e *SourceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("source %s line %d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("source %s: %v", e.File, e.Err)
}

// Unwrap exposes both ErrSource and the underlying error.
func (e *SourceError) Unwrap() []error {
	return []error{ErrSource, e.Err}
}

func sourceErr(file string, line int, err error) error {
	return &SourceError{File: file, Line: line, Err: err}
}
