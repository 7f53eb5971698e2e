package cfront

import "strconv"

// TranslationUnit is the parser's top-level result: every external
// declaration in source order plus the tag/enum-constant scope built
// while parsing them (spec §3/§4.4).
type TranslationUnit struct {
	Decls []Declaration
	Scope *Scope
}

// associativity of a binary operator in the precedence table below.
type associativity int

const (
	leftAssoc associativity = iota
	rightAssoc
)

type opInfo struct {
	assoc associativity
	prio  int
}

// prioMap is the operator-precedence table, grounded on the
// reference front end's prio_map: assignment forms bind loosest, then
// `?:`, then `||`, `&&`, the bitwise family, the relational
// operators, the shifts, and finally additive/multiplicative, which
// bind tightest. The comma operator of the grounding source is
// deliberately not carried over: spec.md's operator set never
// mentions it, and the only place the reference grammar would reach
// it (a bare top-level expression statement) is not exercised by any
// scenario this front end supports.
var prioMap = map[string]opInfo{
	"=":   {rightAssoc, 10},
	"+=":  {rightAssoc, 10},
	"-=":  {rightAssoc, 10},
	"*=":  {rightAssoc, 10},
	"/=":  {rightAssoc, 10},
	"%=":  {rightAssoc, 10},
	">>=": {rightAssoc, 10},
	"<<=": {rightAssoc, 10},
	"|=":  {rightAssoc, 10},
	"&=":  {rightAssoc, 10},
	"^=":  {rightAssoc, 10},
	"?":   {leftAssoc, 17},
	"||":  {leftAssoc, 20},
	"&&":  {leftAssoc, 30},
	"|":   {leftAssoc, 40},
	"^":   {leftAssoc, 50},
	"&":   {leftAssoc, 60},
	"<":   {leftAssoc, 70},
	"<=":  {leftAssoc, 70},
	">":   {leftAssoc, 70},
	">=":  {leftAssoc, 70},
	"!=":  {leftAssoc, 70},
	"==":  {leftAssoc, 70},
	">>":  {leftAssoc, 80},
	"<<":  {leftAssoc, 80},
	"+":   {leftAssoc, 90},
	"-":   {leftAssoc, 90},
	"*":   {leftAssoc, 100},
	"/":   {leftAssoc, 100},
	"%":   {leftAssoc, 100},
}

var unaryOps = map[string]bool{
	"!": true, "*": true, "+": true, "-": true, "~": true, "&": true,
	"--": true, "++": true,
}

var storageClassWords = map[string]StorageClass{
	"typedef": StorageTypedef, "static": StorageStatic, "extern": StorageExtern,
	"register": StorageRegister, "auto": StorageAuto,
}

var typeQualifierWords = map[string]Qualifiers{
	"const": QualConst, "volatile": QualVolatile, "restrict": QualRestrict,
}

var typeSpecifierWords = map[string]bool{
	"void": true, "char": true, "int": true, "float": true, "double": true,
	"short": true, "long": true, "signed": true, "unsigned": true,
}

// Parser is a recursive-descent parser over a TokenStream, building a
// typed AST (spec §4.4). It owns the typedef set (mutated the moment
// a typedef declarator commits, before later tokens are read) and a
// Scope used exactly the way the reference front end uses its own:
// only for tag names and enum constants. Ordinary variable/function
// declarations are not tracked here — the code generator keeps its
// own Scope for that (spec §4.5), mirroring the two independent scope
// objects of the grounding source.
type Parser struct {
	ts       *TokenStream
	typedefs *typedefSet
	// typedefTypes resolves a typedef name to its (already-known)
	// underlying type the moment a TYPE-ID token is seen; the
	// grounding source defers this to a later stage not present in
	// the retrieved excerpt, so this table is this front end's own
	// minimal bridge between "name is a typedef" (typedefs) and "name
	// resolves to this CType" (typedefTypes).
	typedefTypes map[string]CType
	scope        *Scope
	tc           *TypeContext
	cfg          *Config
	target       TargetInfo
}

// NewParser builds a Parser over lexer's tokens.
func NewParser(lexer Lexer, cfg *Config, target TargetInfo) *Parser {
	typedefs := newTypedefSet()
	return &Parser{
		ts:           NewTokenStream(lexer, typedefs),
		typedefs:     typedefs,
		typedefTypes: map[string]CType{},
		scope:        NewScope(),
		tc:           NewTypeContext(),
		cfg:          cfg,
		target:       target,
	}
}

// ParseTranslationUnit parses the whole input as a sequence of
// external declarations (spec §4.4 top level).
func (p *Parser) ParseTranslationUnit() (*TranslationUnit, error) {
	var decls []Declaration
	for !p.ts.AtEnd() {
		ds, err := p.parseDeclSpecifiers(true)
		if err != nil {
			return nil, err
		}
		if p.ts.tryExpect(";") {
			continue
		}
		group, err := p.parseDeclGroup(ds)
		if err != nil {
			return nil, err
		}
		decls = append(decls, group...)
	}
	return &TranslationUnit{Decls: decls, Scope: p.scope}, nil
}

// --- Declaration specifiers -------------------------------------------------

// declSpec is the intermediate result of parseDeclSpecifiers: the
// resolved type and storage class of a declaration, before any
// declarator (pointer/array/function modifiers, name) is applied.
type declSpec struct {
	Typ     CType
	Storage StorageClass
}

func (p *Parser) isDeclarationStart() bool {
	kind := p.ts.PeekKind()
	val := p.ts.PeekValue()
	if kind == KindTypeIdentifier {
		return true
	}
	if kind != KindKeyword {
		return false
	}
	if _, ok := storageClassWords[val]; ok {
		return true
	}
	if _, ok := typeQualifierWords[val]; ok {
		return true
	}
	if typeSpecifierWords[val] {
		return true
	}
	return val == "struct" || val == "union" || val == "enum"
}

// parseDeclSpecifiers collects storage classes, qualifiers, type
// specifiers and at most one of {typedef-name, struct/union, enum},
// in any order, then resolves the final type (spec §4.4).
func (p *Parser) parseDeclSpecifiers(allowStorage bool) (*declSpec, error) {
	ds := &declSpec{}
	var typ CType
	var quals Qualifiers
	specs := specifierSet{}
	var firstLoc Location
	haveLoc := false

loop:
	for {
		kind := p.ts.PeekKind()
		val := p.ts.PeekValue()
		loc := p.ts.Lookahead(0).Loc
		if !haveLoc {
			firstLoc, haveLoc = loc, true
		}

		if kind == KindTypeIdentifier {
			tok := p.ts.Consume()
			if typ != nil || !specs.empty() {
				return nil, newTypeSpecError(tok.Loc, "type already specified")
			}
			target, ok := p.typedefTypes[tok.Value]
			if !ok {
				return nil, newLookupError(tok.Loc, "unknown typedef name %q", tok.Value)
			}
			typ = NewTypedefAliasType(tok.Value, target)
			continue
		}

		if kind != KindKeyword {
			break loop
		}

		switch {
		case val == "enum":
			if typ != nil || !specs.empty() {
				return nil, newTypeSpecError(loc, "type already specified")
			}
			et, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			typ = et
		case val == "struct" || val == "union":
			if typ != nil || !specs.empty() {
				return nil, newTypeSpecError(loc, "type already specified")
			}
			st, err := p.parseStructOrUnion()
			if err != nil {
				return nil, err
			}
			typ = st
		case typeSpecifierWords[val]:
			p.ts.Consume()
			if typ != nil {
				return nil, newTypeSpecError(loc, "type already determined")
			}
			specs.add(val)
		default:
			if sc, ok := storageClassWords[val]; ok {
				tok := p.ts.Consume()
				if !allowStorage {
					return nil, newTypeSpecError(tok.Loc, "unexpected storage class %q", val)
				}
				if ds.Storage != StorageNone {
					return nil, newTypeSpecError(tok.Loc, "multiple storage classes")
				}
				ds.Storage = sc
				break
			}
			if bit, ok := typeQualifierWords[val]; ok {
				tok := p.ts.Consume()
				if quals.Has(bit) {
					return nil, newTypeSpecError(tok.Loc, "duplicate type qualifier %q", val)
				}
				quals |= bit
				break
			}
			if val == "inline" {
				p.ts.Consume() // accepted, not modeled further
				break
			}
			break loop
		}
	}

	if typ == nil {
		if specs.empty() {
			return nil, newTypeSpecError(firstLoc, "expected at least one type specifier")
		}
		canon, err := p.tc.Canonicalize(specs, firstLoc)
		if err != nil {
			return nil, err
		}
		typ = canon
	}
	typ.AddQualifiers(quals)
	ds.Typ = typ
	return ds, nil
}

// --- struct/union/enum -------------------------------------------------

func (p *Parser) parseStructOrUnion() (CType, error) {
	kw := p.ts.Consume()
	isUnion := kw.Value == "union"

	var typ *AggregateType
	switch {
	case p.ts.PeekKind() == KindIdentifier:
		tagTok := p.ts.Consume()
		if existing, ok := p.scope.GetTag(tagTok.Value); ok {
			at, ok2 := existing.(*AggregateType)
			if !ok2 || at.IsUnion != isUnion {
				return nil, newTypeSpecError(kw.Loc, "wrong tag kind for %q", tagTok.Value)
			}
			if at.Complete && p.ts.at("{") {
				return nil, newTypeSpecError(kw.Loc, "multiple definitions of %s %s", kw.Value, tagTok.Value)
			}
			typ = at
		} else {
			typ = NewAggregateType(isUnion, tagTok.Value)
			p.scope.InsertTag(tagTok.Value, typ)
		}
	case p.ts.at("{"):
		typ = NewAggregateType(isUnion, "")
	default:
		return nil, newSyntaxError(kw.Loc, "expected tag name or %s body", kw.Value)
	}

	if p.ts.at("{") {
		p.ts.Consume()
		var fields []*VariableDecl
		for !p.ts.at("}") {
			fieldDs, err := p.parseDeclSpecifiers(false)
			if err != nil {
				return nil, err
			}
			for {
				field, err := p.parseStructFieldDeclarator(fieldDs)
				if err != nil {
					return nil, err
				}
				fields = append(fields, field)
				if !p.ts.tryExpect(",") {
					break
				}
			}
			if _, err := p.ts.expect(";"); err != nil {
				return nil, err
			}
		}
		if _, err := p.ts.expect("}"); err != nil {
			return nil, err
		}
		typ.Fields = fields
		if wt, ok := p.target.(*WordTargetInfo); ok {
			wt.layoutAggregate(typ)
		}
	}
	return typ, nil
}

func (p *Parser) parseEnum() (CType, error) {
	kw := p.ts.Consume()

	var typ *EnumType
	switch {
	case p.ts.PeekKind() == KindIdentifier:
		tagTok := p.ts.Consume()
		if existing, ok := p.scope.GetTag(tagTok.Value); ok {
			et, ok2 := existing.(*EnumType)
			if !ok2 {
				return nil, newTypeSpecError(kw.Loc, "wrong tag kind for %q", tagTok.Value)
			}
			if et.Complete && p.ts.at("{") {
				return nil, newTypeSpecError(kw.Loc, "multiple definitions of enum %s", tagTok.Value)
			}
			typ = et
		} else {
			typ = NewEnumType(tagTok.Value)
			p.scope.InsertTag(tagTok.Value, typ)
		}
	case p.ts.at("{"):
		typ = NewEnumType("")
	default:
		return nil, newSyntaxError(kw.Loc, "expected tag name or enum body")
	}

	if p.ts.at("{") {
		p.ts.Consume()
		if p.ts.tryExpect("}") {
			return nil, newTypeSpecError(kw.Loc, "empty enum is not allowed")
		}
		var values []EnumValue
		for !p.ts.at("}") {
			nameTok, err := p.ts.ConsumeKind(KindIdentifier)
			if err != nil {
				return nil, err
			}
			var valExpr Expr
			if p.ts.tryExpect("=") {
				valExpr, err = p.parseConstantExpression()
				if err != nil {
					return nil, err
				}
			}
			values = append(values, EnumValue{Name: nameTok.Value, Expr: valExpr, Loc: nameTok.Loc})
			if !p.ts.tryExpect(",") {
				break
			}
		}
		if _, err := p.ts.expect("}"); err != nil {
			return nil, err
		}

		intType, err := p.tc.Canonicalize(specifierSet{"int": 1}, kw.Loc)
		if err != nil {
			return nil, err
		}
		var prev Expr
		one := NewLiteralExpr(LitInt, "1", 1, kw.Loc)
		for _, ev := range values {
			var val Expr
			switch {
			case ev.Expr != nil:
				val = ev.Expr
			case prev == nil:
				val = NewLiteralExpr(LitInt, "0", 0, ev.Loc)
			default:
				val = NewBinopExpr(prev, "+", one, ev.Loc)
			}
			if err := p.scope.Insert(NewConstantDecl(intType, ev.Name, val, ev.Loc)); err != nil {
				return nil, err
			}
			prev = val
		}
		typ.Values = values
		typ.Complete = true
	}
	return typ, nil
}

// --- Declarators -------------------------------------------------------

type modifierKind int

const (
	modPointer modifierKind = iota
	modArray
	modFunction
)

type typeModifier struct {
	kind     modifierKind
	quals    Qualifiers
	size     ArraySize
	params   []*VariableDecl
	variadic bool
}

// parseTypeModifiers parses the pointer prefix, the declarator core
// (a name, an abstract empty, or a parenthesized sub-declarator) and
// the trailing array/function suffixes, returning the modifier list
// in the order "middle ∥ suffixes ∥ reversed prefixes" that
// applyTypeModifiers expects (spec §4.4 step 4).
func (p *Parser) parseTypeModifiers(abstract bool) ([]typeModifier, *Token, error) {
	var firstModifiers []typeModifier
	for p.ts.tryExpect("*") {
		var quals Qualifiers
		for {
			val := p.ts.PeekValue()
			bit, ok := typeQualifierWords[val]
			if !ok || p.ts.PeekKind() != KindKeyword {
				break
			}
			p.ts.Consume()
			if quals.Has(bit) {
				return nil, nil, newTypeSpecError(p.ts.Lookahead(0).Loc, "duplicate type qualifier %q", val)
			}
			quals |= bit
		}
		firstModifiers = append(firstModifiers, typeModifier{kind: modPointer, quals: quals})
	}

	var middleModifiers []typeModifier
	var lastModifiers []typeModifier
	var name *Token

	switch {
	case p.ts.PeekKind() == KindIdentifier:
		tok := p.ts.Consume()
		name = &tok
	case p.ts.at("("):
		p.ts.Consume()
		if p.isDeclarationStart() || p.ts.at(")") {
			params, variadic, err := p.parseFunctionDeclaratorArgs()
			if err != nil {
				return nil, nil, err
			}
			lastModifiers = append(lastModifiers, typeModifier{kind: modFunction, params: params, variadic: variadic})
		} else {
			sub, subName, err := p.parseTypeModifiers(abstract)
			if err != nil {
				return nil, nil, err
			}
			middleModifiers = append(middleModifiers, sub...)
			name = subName
		}
		if _, err := p.ts.expect(")"); err != nil {
			return nil, nil, err
		}
	default:
		if !abstract {
			return nil, nil, newSyntaxError(p.ts.Lookahead(0).Loc, "expected a name")
		}
	}

suffixLoop:
	for {
		switch {
		case p.ts.at("("):
			p.ts.Consume()
			params, variadic, err := p.parseFunctionDeclaratorArgs()
			if err != nil {
				return nil, nil, err
			}
			if _, err := p.ts.expect(")"); err != nil {
				return nil, nil, err
			}
			lastModifiers = append(lastModifiers, typeModifier{kind: modFunction, params: params, variadic: variadic})
		case p.ts.at("["):
			p.ts.Consume()
			var size ArraySize
			switch {
			case p.ts.at("*"):
				p.ts.Consume()
				size = ArraySize{Kind: ArraySizeVLA}
			case p.ts.at("]"):
				size = ArraySize{Kind: ArraySizeNone}
			default:
				n, err := p.parseConstantExpression()
				if err != nil {
					return nil, nil, err
				}
				if lit, ok := n.(*LiteralExpr); ok && lit.Kind == LitInt {
					size = ArraySize{Kind: ArraySizeConst, Const: int(lit.IntVal)}
				} else {
					size = ArraySize{Kind: ArraySizeVLA, Expr: n}
				}
			}
			if _, err := p.ts.expect("]"); err != nil {
				return nil, nil, err
			}
			lastModifiers = append(lastModifiers, typeModifier{kind: modArray, size: size})
		default:
			break suffixLoop
		}
	}

	// Type modifiers: "go right when you can, go left when you must".
	for i, j := 0, len(firstModifiers)-1; i < j; i, j = i+1, j-1 {
		firstModifiers[i], firstModifiers[j] = firstModifiers[j], firstModifiers[i]
	}
	mods := append(append(middleModifiers, lastModifiers...), firstModifiers...)
	return mods, name, nil
}

// applyTypeModifiers wraps base in the modifiers, outermost first,
// applied in reverse order (spec §4.4 step 4 / §9).
func applyTypeModifiers(mods []typeModifier, base CType) CType {
	typ := base
	for i := len(mods) - 1; i >= 0; i-- {
		m := mods[i]
		switch m.kind {
		case modPointer:
			ptr := NewPointerType(typ)
			ptr.AddQualifiers(m.quals)
			typ = ptr
		case modArray:
			typ = NewArrayType(typ, m.size)
		case modFunction:
			typ = NewFunctionType(m.params, typ, m.variadic)
		}
	}
	return typ
}

// parseFunctionDeclaratorArgs parses a parameter list already
// positioned just past the opening `(`. An empty list (no `void`
// modeling distinction) and a trailing `...` are both accepted.
func (p *Parser) parseFunctionDeclaratorArgs() ([]*VariableDecl, bool, error) {
	var params []*VariableDecl
	if p.ts.at(")") {
		return params, false, nil
	}
	for {
		if p.ts.tryExpect("...") {
			return params, true, nil
		}
		ds, err := p.parseDeclSpecifiers(false)
		if err != nil {
			return nil, false, err
		}
		decl, err := p.parseDeclaratorFrom(ds, true)
		if err != nil {
			return nil, false, err
		}
		v, ok := decl.(*VariableDecl)
		if !ok {
			return nil, false, newSyntaxError(decl.Location(), "invalid parameter declarator")
		}
		params = append(params, v)
		if !p.ts.tryExpect(",") {
			break
		}
	}
	return params, false, nil
}

// parseDeclaratorFrom parses one declarator given an already-resolved
// declSpec, producing a full Declaration (spec §4.4 "declarators").
func (p *Parser) parseDeclaratorFrom(ds *declSpec, abstract bool) (Declaration, error) {
	mods, nameTok, err := p.parseTypeModifiers(abstract)
	if err != nil {
		return nil, err
	}
	typ := applyTypeModifiers(mods, ds.Typ)

	var name string
	var loc Location
	if nameTok != nil {
		name, loc = nameTok.Value, nameTok.Loc
	}

	var init Expr
	if p.ts.tryExpect("=") {
		init, err = p.parseVariableInitializer()
		if err != nil {
			return nil, err
		}
	}

	if ds.Storage == StorageTypedef {
		p.typedefs.add(name)
		p.typedefTypes[name] = typ
		return NewTypedefDecl(typ, name, loc), nil
	}
	if _, ok := typ.(*FunctionType); ok {
		return NewFunctionDecl(typ, name, ds.Storage, loc), nil
	}
	return NewVariableDecl(typ, name, init, ds.Storage, loc), nil
}

func (p *Parser) parseVariableInitializer() (Expr, error) {
	if !p.ts.at("{") {
		return p.parseAssignmentExpression()
	}
	start := p.ts.Consume()
	var items []Expr
	for !p.ts.at("}") {
		item, err := p.parseVariableInitializer()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.ts.tryExpect(",") {
			break
		}
	}
	if _, err := p.ts.expect("}"); err != nil {
		return nil, err
	}
	return NewInitListExpr(items, start.Loc), nil
}

func (p *Parser) parseStructFieldDeclarator(ds *declSpec) (*VariableDecl, error) {
	mods, nameTok, err := p.parseTypeModifiers(false)
	if err != nil {
		return nil, err
	}
	if nameTok == nil {
		return nil, newSyntaxError(p.ts.Lookahead(0).Loc, "expected field name")
	}
	typ := applyTypeModifiers(mods, ds.Typ)
	if p.ts.tryExpect(":") {
		// Bit-field width: parsed and discarded, as the front end
		// does not model sub-byte field layout.
		if _, err := p.parseConstantExpression(); err != nil {
			return nil, err
		}
	}
	return NewVariableDecl(typ, nameTok.Value, nil, StorageNone, nameTok.Loc), nil
}

// parseTypeName parses a type-name (declaration specifiers plus an
// abstract declarator), used by casts, sizeof, and nowhere else.
func (p *Parser) parseTypeName() (CType, error) {
	ds, err := p.parseDeclSpecifiers(false)
	if err != nil {
		return nil, err
	}
	mods, nameTok, err := p.parseTypeModifiers(true)
	if err != nil {
		return nil, err
	}
	if nameTok != nil {
		return nil, newSyntaxError(nameTok.Loc, "unexpected name in type name")
	}
	return applyTypeModifiers(mods, ds.Typ), nil
}

// --- Declaration groups -------------------------------------------------

func (p *Parser) isDeclaratorFollowing() bool {
	v := p.ts.PeekValue()
	return v == "," || v == ";" || v == "="
}

// parseDeclGroup parses everything after decl-specifiers: either a
// function definition, a typedef name list, or a comma-separated list
// of initialized variable declarators (spec §4.4 "declaration
// groups").
func (p *Parser) parseDeclGroup(ds *declSpec) ([]Declaration, error) {
	first, err := p.parseDeclaratorFrom(ds, false)
	if err != nil {
		return nil, err
	}

	if ds.Storage == StorageTypedef {
		decls := []Declaration{first}
		for p.ts.tryExpect(",") {
			d, err := p.parseDeclaratorFrom(ds, false)
			if err != nil {
				return nil, err
			}
			decls = append(decls, d)
		}
		if _, err := p.ts.expect(";"); err != nil {
			return nil, err
		}
		return decls, nil
	}

	if fn, ok := first.(*FunctionDecl); ok && !p.isDeclaratorFollowing() {
		body, err := p.parseCompoundStatement()
		if err != nil {
			return nil, err
		}
		fn.Body = body
		return []Declaration{fn}, nil
	}

	decls := []Declaration{first}
	for p.ts.tryExpect(",") {
		d, err := p.parseDeclaratorFrom(ds, false)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	return decls, nil
}

// parseDeclarationStatement parses a local declaration (spec §4.4,
// used from inside a compound statement).
func (p *Parser) parseDeclarationStatement() ([]Declaration, error) {
	ds, err := p.parseDeclSpecifiers(true)
	if err != nil {
		return nil, err
	}
	if p.ts.tryExpect(";") {
		return nil, nil
	}
	return p.parseDeclGroup(ds)
}

// --- Statements -------------------------------------------------------

func (p *Parser) parseStatementOrDeclaration() ([]Stmt, error) {
	if p.isDeclarationStart() {
		decls, err := p.parseDeclarationStatement()
		if err != nil {
			return nil, err
		}
		stmts := make([]Stmt, len(decls))
		for i, d := range decls {
			v, ok := d.(*VariableDecl)
			if !ok {
				return nil, newSyntaxError(d.Location(), "only variable declarations are allowed here")
			}
			stmts[i] = NewVarDeclStmt(v, v.Location())
		}
		return stmts, nil
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return []Stmt{stmt}, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	kind := p.ts.PeekKind()
	val := p.ts.PeekValue()
	if kind == KindKeyword {
		switch val {
		case "if":
			return p.parseIfStatement()
		case "while":
			return p.parseWhileStatement()
		case "do":
			return p.parseDoStatement()
		case "for":
			return p.parseForStatement()
		case "switch":
			return p.parseSwitchStatement()
		case "case":
			return p.parseCaseStatement()
		case "default":
			return p.parseDefaultStatement()
		case "break":
			return p.parseBreakStatement()
		case "continue":
			return p.parseContinueStatement()
		case "goto":
			return p.parseGotoStatement()
		case "return":
			return p.parseReturnStatement()
		}
	}
	if val == "{" && kind == KindPunct {
		return p.parseCompoundStatement()
	}
	if val == ";" && kind == KindPunct {
		loc := p.ts.Consume().Loc
		return NewEmptyStmt(loc), nil
	}
	if kind == KindIdentifier && p.ts.Lookahead(1).Value == ":" {
		nameTok := p.ts.Consume()
		p.ts.Consume()
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return NewLabelStmt(nameTok.Value, body, nameTok.Loc), nil
	}
	loc := p.ts.Lookahead(0).Loc
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	return NewExpressionStmt(expr, loc), nil
}

func (p *Parser) parseCompoundStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc // `{`
	var stmts []Stmt
	for !p.ts.at("}") {
		more, err := p.parseStatementOrDeclaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, more...)
	}
	if _, err := p.ts.expect("}"); err != nil {
		return nil, err
	}
	return NewCompoundStmt(stmts, loc), nil
}

func (p *Parser) parseIfStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	if _, err := p.ts.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.expect(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var els Stmt
	if p.ts.tryExpect("else") {
		els, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return NewIfStmt(cond, then, els, loc), nil
}

func (p *Parser) parseWhileStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	if _, err := p.ts.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return NewWhileStmt(cond, body, loc), nil
}

func (p *Parser) parseDoStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.expect("while"); err != nil {
		return nil, err
	}
	if _, err := p.ts.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.expect(")"); err != nil {
		return nil, err
	}
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	return NewDoWhileStmt(body, cond, loc), nil
}

func (p *Parser) parseForStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	if _, err := p.ts.expect("("); err != nil {
		return nil, err
	}
	var init, cond, post Expr
	var err error
	if !p.ts.at(";") {
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	if !p.ts.at(";") {
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	if !p.ts.at(")") {
		post, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.ts.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return NewForStmt(init, cond, post, body, loc), nil
}

func (p *Parser) parseSwitchStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	if _, err := p.ts.expect("("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return NewSwitchStmt(expr, body, loc), nil
}

func (p *Parser) parseCaseStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.expect(":"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return NewCaseStmt(value, body, loc), nil
}

func (p *Parser) parseDefaultStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	if _, err := p.ts.expect(":"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return NewDefaultStmt(body, loc), nil
}

func (p *Parser) parseBreakStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	return NewBreakStmt(loc), nil
}

func (p *Parser) parseContinueStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	return NewContinueStmt(loc), nil
}

func (p *Parser) parseGotoStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	nameTok, err := p.ts.ConsumeKind(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	return NewGotoStmt(nameTok.Value, loc), nil
}

func (p *Parser) parseReturnStatement() (Stmt, error) {
	loc := p.ts.Consume().Loc
	var value Expr
	if !p.ts.at(";") {
		var err error
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.ts.expect(";"); err != nil {
		return nil, err
	}
	return NewReturnStmt(value, loc), nil
}

// --- Expressions -------------------------------------------------------

func (p *Parser) parseExpression() (Expr, error) { return p.parseBinopWithPrecedence(0) }

func (p *Parser) parseAssignmentExpression() (Expr, error) { return p.parseBinopWithPrecedence(10) }

func (p *Parser) parseConstantExpression() (Expr, error) { return p.parseBinopWithPrecedence(17) }

// parseBinopWithPrecedence is the operator-precedence climb (spec
// §4.4). Faithfully to the grounding source, the recursive call for
// both the right-hand operand and the ternary's trailing arm uses the
// matched operator's own priority (not prio+1), which folds
// equal-priority chains right-associatively even for operators
// documented as left-associative above; this repository preserves
// that exact behavior rather than silently correcting it.
func (p *Parser) parseBinopWithPrecedence(prio int) (Expr, error) {
	lhs, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}
	for {
		val := p.ts.PeekValue()
		info, ok := prioMap[val]
		if !ok || p.ts.PeekKind() != KindPunct || info.prio < prio {
			break
		}
		opTok := p.ts.Consume()
		if val == "?" {
			middle, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.ts.expect(":"); err != nil {
				return nil, err
			}
			rhs, err := p.parseBinopWithPrecedence(info.prio)
			if err != nil {
				return nil, err
			}
			lhs = NewTernopExpr(lhs, middle, rhs, opTok.Loc)
		} else {
			rhs, err := p.parseBinopWithPrecedence(info.prio)
			if err != nil {
				return nil, err
			}
			lhs = NewBinopExpr(lhs, val, rhs, opTok.Loc)
		}
	}
	return lhs, nil
}

func (p *Parser) parsePrimaryExpression() (Expr, error) {
	expr, err := p.parsePrimaryCore()
	if err != nil {
		return nil, err
	}
	for {
		val := p.ts.PeekValue()
		if p.ts.PeekKind() != KindPunct {
			return expr, nil
		}
		switch val {
		case "++", "--":
			tok := p.ts.Consume()
			expr = NewUnopExpr(tok.Value, expr, false, tok.Loc)
		case "[":
			tok := p.ts.Consume()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.ts.expect("]"); err != nil {
				return nil, err
			}
			expr = NewArrayIndexExpr(expr, idx, tok.Loc)
		case ".":
			tok := p.ts.Consume()
			fieldTok, err := p.ts.ConsumeKind(KindIdentifier)
			if err != nil {
				return nil, err
			}
			expr = NewFieldSelectExpr(expr, fieldTok.Value, tok.Loc)
		case "->":
			tok := p.ts.Consume()
			fieldTok, err := p.ts.ConsumeKind(KindIdentifier)
			if err != nil {
				return nil, err
			}
			deref := NewUnopExpr("*", expr, true, tok.Loc)
			expr = NewFieldSelectExpr(deref, fieldTok.Value, tok.Loc)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimaryCore() (Expr, error) {
	kind := p.ts.PeekKind()
	val := p.ts.PeekValue()

	switch {
	case kind == KindIdentifier:
		tok := p.ts.Consume()
		if p.ts.at("(") {
			p.ts.Consume()
			var args []Expr
			for !p.ts.at(")") {
				a, err := p.parseAssignmentExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if !p.ts.at(")") {
					if _, err := p.ts.expect(","); err != nil {
						return nil, err
					}
				}
			}
			if _, err := p.ts.expect(")"); err != nil {
				return nil, err
			}
			return NewFunctionCallExpr(tok.Value, args, tok.Loc), nil
		}
		return NewVariableAccessExpr(tok.Value, tok.Loc), nil

	case kind == KindInt:
		tok := p.ts.Consume()
		n, _ := strconv.ParseInt(trimIntSuffix(tok.Value), 0, 64)
		return NewLiteralExpr(LitInt, tok.Value, n, tok.Loc), nil

	case kind == KindChar:
		tok := p.ts.Consume()
		var n int64
		if len(tok.Value) > 0 {
			n = int64(tok.Value[0])
		}
		return NewLiteralExpr(LitChar, tok.Value, n, tok.Loc), nil

	case kind == KindString:
		tok := p.ts.Consume()
		return NewLiteralExpr(LitString, tok.Value, 0, tok.Loc), nil

	case kind == KindPunct && unaryOps[val]:
		tok := p.ts.Consume()
		operand, err := p.parsePrimaryExpression()
		if err != nil {
			return nil, err
		}
		return NewUnopExpr(tok.Value, operand, true, tok.Loc), nil

	case kind == KindKeyword && val == "sizeof":
		loc := p.ts.Consume().Loc
		if p.ts.at("(") {
			p.ts.Consume()
			if p.isDeclarationStart() {
				typ, err := p.parseTypeName()
				if err != nil {
					return nil, err
				}
				if _, err := p.ts.expect(")"); err != nil {
					return nil, err
				}
				return NewSizeofType(typ, loc), nil
			}
			inner, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.ts.expect(")"); err != nil {
				return nil, err
			}
			return NewSizeofExpr(inner, loc), nil
		}
		inner, err := p.parsePrimaryExpression()
		if err != nil {
			return nil, err
		}
		return NewSizeofExpr(inner, loc), nil

	case kind == KindPunct && val == "(":
		loc := p.ts.Consume().Loc
		if p.isDeclarationStart() {
			target, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			if _, err := p.ts.expect(")"); err != nil {
				return nil, err
			}
			operand, err := p.parsePrimaryExpression()
			if err != nil {
				return nil, err
			}
			return NewCastExpr(target, operand, loc), nil
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.ts.expect(")"); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		tok := p.ts.Lookahead(0)
		return nil, newSyntaxError(tok.Loc, "unexpected token in expression: %q", tok.Value)
	}
}

func trimIntSuffix(s string) string {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c == 'u' || c == 'U' || c == 'l' || c == 'L' {
			i--
			continue
		}
		break
	}
	return s[:i]
}
