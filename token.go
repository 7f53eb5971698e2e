package cfront

// TokenKind tags what kind of lexeme a Token carries. Keywords and
// punctuation share their respective kinds regardless of spelling;
// callers match on Value for those two kinds.
type TokenKind int

const (
	KindIdentifier TokenKind = iota
	// KindTypeIdentifier is never produced by a lexer. It is
	// synthesized by the token stream adapter when an identifier
	// names a typedef (the "lexer hack", spec §4.1).
	KindTypeIdentifier
	KindInt
	KindChar
	KindString
	KindKeyword
	KindPunct
	KindEOF
)

func (k TokenKind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindTypeIdentifier:
		return "type-identifier"
	case KindInt:
		return "integer literal"
	case KindChar:
		return "character literal"
	case KindString:
		return "string literal"
	case KindKeyword:
		return "keyword"
	case KindPunct:
		return "punctuation"
	case KindEOF:
		return "end of input"
	default:
		return "token"
	}
}

// Token is the unit produced by the lexer: a kind tag, its spelling,
// and where it was found.
type Token struct {
	Kind  TokenKind
	Value string
	Loc   Location
}

// Lexer is the upstream collaborator (spec §6): anything that can
// hand back tokens one at a time, ending the stream with a KindEOF
// token. The preprocessor, trigraph handling and macro expansion all
// happen before a Lexer implementation ever sees the input.
type Lexer interface {
	Next() Token
}

// TokenStream is the peek/consume adapter described in spec §4.1. It
// owns no grammar knowledge; it buffers tokens from a Lexer and
// rewrites KindIdentifier to KindTypeIdentifier whenever the parser's
// typedef set already contains the spelling, consistently for both
// Peek and Consume.
type TokenStream struct {
	lexer    Lexer
	buf      []Token
	typedefs *typedefSet
}

// NewTokenStream adapts a Lexer, consulting typedefs (owned by the
// parser) on every peek and consume.
func NewTokenStream(lexer Lexer, typedefs *typedefSet) *TokenStream {
	return &TokenStream{lexer: lexer, typedefs: typedefs}
}

func (ts *TokenStream) fill(n int) {
	for len(ts.buf) <= n {
		ts.buf = append(ts.buf, ts.lexer.Next())
	}
}

// rewrite applies the typedef hack to a single buffered token.
func (ts *TokenStream) rewrite(tok Token) Token {
	if tok.Kind == KindIdentifier && ts.typedefs.has(tok.Value) {
		tok.Kind = KindTypeIdentifier
	}
	return tok
}

// Lookahead returns the n-th token from the current position without
// consuming anything; Lookahead(0) is the same token Peek would see.
func (ts *TokenStream) Lookahead(n int) Token {
	ts.fill(n)
	return ts.rewrite(ts.buf[n])
}

// PeekKind returns the kind of the next token.
func (ts *TokenStream) PeekKind() TokenKind { return ts.Lookahead(0).Kind }

// PeekValue returns the spelling of the next token.
func (ts *TokenStream) PeekValue() string { return ts.Lookahead(0).Value }

// AtEnd reports whether the stream is exhausted.
func (ts *TokenStream) AtEnd() bool { return ts.PeekKind() == KindEOF }

// Consume returns the next token and advances the stream.
func (ts *TokenStream) Consume() Token {
	ts.fill(0)
	tok := ts.rewrite(ts.buf[0])
	ts.buf = ts.buf[1:]
	return tok
}

// ConsumeKind consumes the next token, failing with a Syntax
// CompilerError if its kind does not match k.
func (ts *TokenStream) ConsumeKind(k TokenKind) (Token, error) {
	tok := ts.Lookahead(0)
	if tok.Kind != k {
		return Token{}, newSyntaxError(tok.Loc, "expected %s, got %s %q", k, tok.Kind, tok.Value)
	}
	return ts.Consume(), nil
}

// TryConsume consumes the next token and returns true iff its kind
// matches k; otherwise it leaves the stream untouched.
func (ts *TokenStream) TryConsume(k TokenKind) bool {
	if ts.PeekKind() != k {
		return false
	}
	ts.Consume()
	return true
}

// expect consumes the next token, failing unless its spelling is
// value (used for keywords and punctuation, whose Kind alone does not
// identify which keyword/punctuation mark was expected).
func (ts *TokenStream) expect(value string) (Token, error) {
	tok := ts.Lookahead(0)
	if tok.Value != value {
		return Token{}, newSyntaxError(tok.Loc, "expected %q, got %q", value, tok.Value)
	}
	return ts.Consume(), nil
}

// at reports whether the next token's spelling is value, without
// consuming it.
func (ts *TokenStream) at(value string) bool {
	return ts.PeekValue() == value
}

// tryExpect consumes the next token and returns true iff its spelling
// is value.
func (ts *TokenStream) tryExpect(value string) bool {
	if !ts.at(value) {
		return false
	}
	ts.Consume()
	return true
}
