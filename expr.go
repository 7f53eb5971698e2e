package cfront

// Expr is the tagged variant of every AST expression node (spec §3).
// `typ` and `lvalue` are synthesized attributes: nil/false until the
// code generator lowers the node, after which `typ` is guaranteed
// non-nil (spec §8, invariant 4). Case-label values (folded by
// evalConstInt) and `sizeof` operands (typed by inferType) are not
// lowered and keep a nil `typ`.
type Expr interface {
	Loc() Location
	Typ() CType
	SetTyp(CType)
	Lvalue() bool
	SetLvalue(bool)
}

type exprBase struct {
	loc    Location
	typ    CType
	lvalue bool
}

func (e *exprBase) Loc() Location       { return e.loc }
func (e *exprBase) Typ() CType          { return e.typ }
func (e *exprBase) SetTyp(t CType)      { e.typ = t }
func (e *exprBase) Lvalue() bool        { return e.lvalue }
func (e *exprBase) SetLvalue(v bool)    { e.lvalue = v }

// LiteralKind distinguishes the three literal spellings the lexer can
// hand the parser.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitChar
	LitString
)

// LiteralExpr is an integer, character, or string literal.
type LiteralExpr struct {
	exprBase
	Kind  LiteralKind
	Value string
	// IntVal is the literal's numeric value for LitInt/LitChar; it is
	// meaningless for LitString.
	IntVal int64
}

// NewLiteralExpr builds a Literal node.
func NewLiteralExpr(kind LiteralKind, value string, intVal int64, loc Location) *LiteralExpr {
	e := &LiteralExpr{Kind: kind, Value: value, IntVal: intVal}
	e.loc = loc
	return e
}

// VariableAccessExpr names an ordinary identifier.
type VariableAccessExpr struct {
	exprBase
	Name string
}

func NewVariableAccessExpr(name string, loc Location) *VariableAccessExpr {
	e := &VariableAccessExpr{Name: name}
	e.loc = loc
	return e
}

// UnopExpr is a unary operator application. Prefix distinguishes
// `--x`/`++x` from their postfix `x--`/`x++` counterparts; every other
// unary operator (`! * + - ~ &`) is always prefix.
type UnopExpr struct {
	exprBase
	Op      string
	Operand Expr
	Prefix  bool
}

func NewUnopExpr(op string, operand Expr, prefix bool, loc Location) *UnopExpr {
	e := &UnopExpr{Op: op, Operand: operand, Prefix: prefix}
	e.loc = loc
	return e
}

// BinopExpr is a binary operator application, including assignment
// forms (`= += -= *= /= %= |= ^= &=`).
type BinopExpr struct {
	exprBase
	A, B Expr
	Op   string
}

func NewBinopExpr(a Expr, op string, b Expr, loc Location) *BinopExpr {
	e := &BinopExpr{A: a, B: b, Op: op}
	e.loc = loc
	return e
}

// TernopExpr is the `cond ? then : els` conditional expression.
type TernopExpr struct {
	exprBase
	Cond, Then, Else Expr
}

func NewTernopExpr(cond, then, els Expr, loc Location) *TernopExpr {
	e := &TernopExpr{Cond: cond, Then: then, Else: els}
	e.loc = loc
	return e
}

// FunctionCallExpr calls a named function with a list of argument
// expressions.
type FunctionCallExpr struct {
	exprBase
	Name string
	Args []Expr
}

func NewFunctionCallExpr(name string, args []Expr, loc Location) *FunctionCallExpr {
	e := &FunctionCallExpr{Name: name, Args: args}
	e.loc = loc
	return e
}

// ArrayIndexExpr is `base[index]`.
type ArrayIndexExpr struct {
	exprBase
	Base, Index Expr
}

func NewArrayIndexExpr(base, index Expr, loc Location) *ArrayIndexExpr {
	e := &ArrayIndexExpr{Base: base, Index: index}
	e.loc = loc
	return e
}

// FieldSelectExpr is `base.field`. A parsed `base->field` is desugared
// by the parser into FieldSelect(Unop("*", base), field) per spec
// §4.4, so this node never needs an arrow flag.
type FieldSelectExpr struct {
	exprBase
	Base  Expr
	Field string
}

func NewFieldSelectExpr(base Expr, field string, loc Location) *FieldSelectExpr {
	e := &FieldSelectExpr{Base: base, Field: field}
	e.loc = loc
	return e
}

// SizeofExpr is `sizeof(type-name)` when Type is non-nil, or
// `sizeof unary-expr` / `sizeof(expr)` when Operand is set instead.
type SizeofExpr struct {
	exprBase
	Type    CType
	Operand Expr
}

func NewSizeofType(t CType, loc Location) *SizeofExpr {
	e := &SizeofExpr{Type: t}
	e.loc = loc
	return e
}

func NewSizeofExpr(operand Expr, loc Location) *SizeofExpr {
	e := &SizeofExpr{Operand: operand}
	e.loc = loc
	return e
}

// InitListExpr is a brace-enclosed initializer list, `{ a, b, c }`,
// used as a VariableDecl's Init when the declarator's type is an
// array or aggregate.
type InitListExpr struct {
	exprBase
	Items []Expr
}

func NewInitListExpr(items []Expr, loc Location) *InitListExpr {
	e := &InitListExpr{Items: items}
	e.loc = loc
	return e
}

// CastExpr is `(target-type) operand`.
type CastExpr struct {
	exprBase
	Target  CType
	Operand Expr
}

func NewCastExpr(target CType, operand Expr, loc Location) *CastExpr {
	e := &CastExpr{Target: target, Operand: operand}
	e.loc = loc
	return e
}
