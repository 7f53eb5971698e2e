package cfront

import "fmt"

// ErrorKind classifies a CompilerError into the taxonomy observed by
// the test suite: Syntax, TypeSpec, Lookup, Semantics or
// Unimplemented.
type ErrorKind int

const (
	// KindSyntax covers an unexpected token kind or value.
	KindSyntax ErrorKind = iota
	// KindTypeSpec covers multiple/empty/invalid type specifier
	// sets, duplicate qualifiers, multiple storage classes, tag-kind
	// mismatches and tag redefinitions.
	KindTypeSpec
	// KindLookup covers unknown names and redefinitions within the
	// same scope.
	KindLookup
	// KindSemantics covers expected-lvalue, operator type mismatch,
	// call arity mismatch and non-returning non-void functions.
	KindSemantics
	// KindUnimplemented is reserved for constructs recognized by the
	// parser but not lowered by the code generator.
	KindUnimplemented
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindTypeSpec:
		return "type error"
	case KindLookup:
		return "lookup error"
	case KindSemantics:
		return "semantic error"
	case KindUnimplemented:
		return "unimplemented"
	default:
		return "error"
	}
}

// CompilerError is the single error type raised by every stage of the
// front end. All front-end errors are fatal for the translation unit;
// there is no recovery or resynchronization.
type CompilerError struct {
	Kind    ErrorKind
	Message string
	Loc     Location
}

// Error renders "<message> @ <location>", in the same shape as the
// teacher's ParsingError.Error().
func (e CompilerError) Error() string {
	return fmt.Sprintf("%s @ %s", e.Message, e.Loc)
}

func newSyntaxError(loc Location, format string, args ...interface{}) error {
	return CompilerError{Kind: KindSyntax, Message: fmt.Sprintf(format, args...), Loc: loc}
}

func newTypeSpecError(loc Location, format string, args ...interface{}) error {
	return CompilerError{Kind: KindTypeSpec, Message: fmt.Sprintf(format, args...), Loc: loc}
}

func newLookupError(loc Location, format string, args ...interface{}) error {
	return CompilerError{Kind: KindLookup, Message: fmt.Sprintf(format, args...), Loc: loc}
}

func newSemanticError(loc Location, format string, args ...interface{}) error {
	return CompilerError{Kind: KindSemantics, Message: fmt.Sprintf(format, args...), Loc: loc}
}

func newUnimplementedError(loc Location, format string, args ...interface{}) error {
	return CompilerError{Kind: KindUnimplemented, Message: fmt.Sprintf(format, args...), Loc: loc}
}
