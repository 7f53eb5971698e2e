package cfront

// StorageClass is the storage class of a declaration (spec §3): none,
// typedef, static, extern, register or auto.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageTypedef
	StorageStatic
	StorageExtern
	StorageRegister
	StorageAuto
)

func (s StorageClass) String() string {
	switch s {
	case StorageTypedef:
		return "typedef"
	case StorageStatic:
		return "static"
	case StorageExtern:
		return "extern"
	case StorageRegister:
		return "register"
	case StorageAuto:
		return "auto"
	default:
		return "none"
	}
}

// Declaration is the tagged variant of spec §3: Variable, Function,
// Typedef or Constant. Every declaration carries a name, a type, a
// storage class and the location it was declared at.
type Declaration interface {
	Name() string
	Type() CType
	Storage() StorageClass
	Location() Location
	IsFunction() bool
}

type declBase struct {
	name    string
	typ     CType
	storage StorageClass
	loc     Location
}

func (d declBase) Name() string          { return d.name }
func (d declBase) Type() CType           { return d.typ }
func (d declBase) Storage() StorageClass { return d.storage }
func (d declBase) Location() Location    { return d.loc }
func (d declBase) IsFunction() bool      { return false }

// VariableDecl is a local, global or parameter variable declaration,
// with an optional initializer expression.
type VariableDecl struct {
	declBase
	Init Expr
}

// NewVariableDecl builds a Variable declaration.
func NewVariableDecl(typ CType, name string, init Expr, storage StorageClass, loc Location) *VariableDecl {
	return &VariableDecl{declBase: declBase{name: name, typ: typ, storage: storage, loc: loc}, Init: init}
}

// FunctionDecl is a function declaration or definition; Body is nil
// for a bare declaration (prototype or function-typed parameter).
type FunctionDecl struct {
	declBase
	Params []*VariableDecl
	Body   Stmt
}

// NewFunctionDecl builds a Function declaration. typ must be a
// *FunctionType.
func NewFunctionDecl(typ CType, name string, storage StorageClass, loc Location) *FunctionDecl {
	return &FunctionDecl{declBase: declBase{name: name, typ: typ, storage: storage, loc: loc}}
}

func (d *FunctionDecl) IsFunction() bool { return true }

// TypedefDecl introduces name as an alias for typ.
type TypedefDecl struct {
	declBase
}

// NewTypedefDecl builds a Typedef declaration.
func NewTypedefDecl(typ CType, name string, loc Location) *TypedefDecl {
	return &TypedefDecl{declBase{name: name, typ: typ, storage: StorageTypedef, loc: loc}}
}

// ConstantDecl is an enum constant: a name bound to an (often
// synthesized) integer-valued expression.
type ConstantDecl struct {
	declBase
	Value Expr
}

// NewConstantDecl builds a Constant declaration (an enum member).
func NewConstantDecl(typ CType, name string, value Expr, loc Location) *ConstantDecl {
	return &ConstantDecl{declBase: declBase{name: name, typ: typ, storage: StorageNone, loc: loc}, Value: value}
}

// scopeFrame holds the two disjoint namespaces of a single lexical
// scope: ordinary identifiers and tags (struct/union/enum).
type scopeFrame struct {
	ordinary map[string]Declaration
	tags     map[string]CType
}

func newScopeFrame() *scopeFrame {
	return &scopeFrame{
		ordinary: map[string]Declaration{},
		tags:     map[string]CType{},
	}
}

// Scope is a stack of frames bracketing nested lexical scopes, per
// spec §3/§4.2. It always has at least one frame (the file scope).
type Scope struct {
	frames []*scopeFrame
}

// NewScope creates a scope with a single, file-level frame.
func NewScope() *Scope {
	return &Scope{frames: []*scopeFrame{newScopeFrame()}}
}

// Push enters a new nested frame (function body, compound statement).
func (s *Scope) Push() {
	s.frames = append(s.frames, newScopeFrame())
}

// Pop leaves the innermost frame. Popping the file scope is a
// programming error and panics, since no caller should ever do it.
func (s *Scope) Pop() {
	if len(s.frames) == 1 {
		panic("cfront: cannot pop the file scope")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Scope) top() *scopeFrame { return s.frames[len(s.frames)-1] }

// Insert adds decl to the innermost frame. Redefining a name already
// present in that same frame is rejected; shadowing a name from an
// outer frame is allowed.
func (s *Scope) Insert(decl Declaration) error {
	frame := s.top()
	if _, ok := frame.ordinary[decl.Name()]; ok {
		return newLookupError(decl.Location(), "redefinition of %q", decl.Name())
	}
	frame.ordinary[decl.Name()] = decl
	return nil
}

// IsDefined reports whether name is bound. With allScopes it walks
// outward through every enclosing frame; otherwise it only checks the
// innermost one.
func (s *Scope) IsDefined(name string, allScopes bool) bool {
	_, ok := s.lookup(name, allScopes)
	return ok
}

func (s *Scope) lookup(name string, allScopes bool) (Declaration, bool) {
	if allScopes {
		for i := len(s.frames) - 1; i >= 0; i-- {
			if d, ok := s.frames[i].ordinary[name]; ok {
				return d, true
			}
		}
		return nil, false
	}
	d, ok := s.top().ordinary[name]
	return d, ok
}

// Get returns the declaration bound to name, searching outward
// through every enclosing frame.
func (s *Scope) Get(name string) (Declaration, bool) {
	return s.lookup(name, true)
}

// InsertTag binds name to typ in the tag namespace of the innermost
// frame, entirely separate from the ordinary namespace (spec §9: "tag
// vs ordinary namespaces").
func (s *Scope) InsertTag(name string, typ CType) {
	s.top().tags[name] = typ
}

// GetTag looks a tag name up, searching outward through enclosing
// frames.
func (s *Scope) GetTag(name string) (CType, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, ok := s.frames[i].tags[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// typedefSet is the parser-owned table the token stream adapter
// consults to perform the lexer hack (spec §4.1/§9). It mirrors the
// original front end's behavior of tracking typedef names as one flat,
// whole-translation-unit set rather than scoping them block-locally.
type typedefSet struct {
	names map[string]struct{}
}

func newTypedefSet() *typedefSet {
	return &typedefSet{names: map[string]struct{}{
		// Recognized unconditionally, the way the reference front end
		// seeds its builtin va_list typedef before parsing begins.
		"__builtin_va_list": {},
	}}
}

func (t *typedefSet) add(name string)      { t.names[name] = struct{}{} }
func (t *typedefSet) has(name string) bool { _, ok := t.names[name]; return ok }
