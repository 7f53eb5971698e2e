package cfront

import "fmt"

// Location identifies a single point in the source text, the way
// tokens coming out of the lexer report where they were found.
type Location struct {
	Line   int
	Column int
	Cursor int
}

// String renders a location as "line:column", collapsing to just the
// column on the (common in tests) first line.
func (l Location) String() string {
	if l.Line <= 1 {
		return fmt.Sprintf("%d", l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span covers the source text between two locations, used to report
// where a syntax or semantic error happened.
type Span struct {
	Start Location
	End   Location
}

// NewSpan builds a Span from a start and end Location.
func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	if s.Start == s.End {
		return s.Start.String()
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s..%d", s.Start.String(), s.End.Column)
	}
	return fmt.Sprintf("%s..%s", s.Start.String(), s.End.String())
}
