package source

import "fmt"

// Location ties an IR node back to the source construct it was generated
// from. It is carried by value so cloned instructions can rewrite their
// provenance without sharing state with the original.
type Location struct {
	File   string
	Line   int
	Column int
	Scope  ScopeID
}

// NewLocation creates a Location for the given file position.
func NewLocation(file string, line, column int) Location {
	return Location{File: file, Line: line, Column: column}
}

// WithScope returns a copy of the location attached to the given debug scope.
func (l Location) WithScope(scope ScopeID) Location {
	l.Scope = scope
	return l
}

// IsValid reports whether the location points at a real source position.
func (l Location) IsValid() bool {
	return l.Line > 0
}

func (l Location) String() string {
	if !l.IsValid() {
		return "location(unknown)"
	}
	if l.File == "" {
		return fmt.Sprintf("location(%d:%d)", l.Line, l.Column)
	}
	return fmt.Sprintf("location(%s:%d:%d)", l.File, l.Line, l.Column)
}
