package cfront

import (
	"fmt"
	"strings"
)

// Qualifiers is the {const, volatile, restrict} qualifier set every
// type carries (spec §3).
type Qualifiers uint8

const (
	QualConst Qualifiers = 1 << iota
	QualVolatile
	QualRestrict
)

func (q Qualifiers) Has(bit Qualifiers) bool { return q&bit != 0 }

func (q Qualifiers) String() string {
	var parts []string
	if q.Has(QualConst) {
		parts = append(parts, "const")
	}
	if q.Has(QualVolatile) {
		parts = append(parts, "volatile")
	}
	if q.Has(QualRestrict) {
		parts = append(parts, "restrict")
	}
	return strings.Join(parts, " ")
}

// TypeKind tags the recursive type sum of spec §3.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindInteger
	KindFloating
	KindPointer
	KindArray
	KindFunction
	KindStruct
	KindUnion
	KindEnum
	KindTypedefAlias
)

// CType is the common interface implemented by every member of the C
// type sum.
type CType interface {
	TypeKind() TypeKind
	Qualifiers() Qualifiers
	AddQualifiers(q Qualifiers)
	String() string
}

type typeBase struct {
	quals Qualifiers
}

func (t *typeBase) Qualifiers() Qualifiers    { return t.quals }
func (t *typeBase) AddQualifiers(q Qualifiers) { t.quals |= q }

func qualPrefix(q Qualifiers) string {
	if q == 0 {
		return ""
	}
	return q.String() + " "
}

// VoidType is C's `void`.
type VoidType struct{ typeBase }

func NewVoidType() *VoidType                { return &VoidType{} }
func (*VoidType) TypeKind() TypeKind        { return KindVoid }
func (t *VoidType) String() string          { return qualPrefix(t.quals) + "void" }

// IntegerRank orders integer types the way the C standard's usual
// arithmetic conversions do, narrowest first.
type IntegerRank int

const (
	RankChar IntegerRank = iota
	RankShort
	RankInt
	RankLong
	RankLongLong
)

// IntegerType covers char/short/int/long (each optionally unsigned).
type IntegerType struct {
	typeBase
	Name     string
	Rank     IntegerRank
	Unsigned bool
}

func newIntegerType(name string, rank IntegerRank, unsigned bool) *IntegerType {
	return &IntegerType{Name: name, Rank: rank, Unsigned: unsigned}
}

func (*IntegerType) TypeKind() TypeKind { return KindInteger }
func (t *IntegerType) String() string   { return qualPrefix(t.quals) + t.Name }

// FloatingType covers float/double/long double.
type FloatingType struct {
	typeBase
	Name string
	// Wide distinguishes `double`/`long double` from `float`; used by
	// the IR type mapping only to pick i/f size, the front end itself
	// does not distinguish float precisions beyond this flag.
	Wide bool
}

func newFloatingType(name string, wide bool) *FloatingType {
	return &FloatingType{Name: name, Wide: wide}
}

func (*FloatingType) TypeKind() TypeKind { return KindFloating }
func (t *FloatingType) String() string   { return qualPrefix(t.quals) + t.Name }

// PointerType is a pointer to Elem.
type PointerType struct {
	typeBase
	Elem CType
}

func NewPointerType(elem CType) *PointerType { return &PointerType{Elem: elem} }
func (*PointerType) TypeKind() TypeKind      { return KindPointer }
func (t *PointerType) String() string        { return qualPrefix(t.quals) + t.Elem.String() + "*" }

// ArraySizeKind distinguishes the three array-size forms of spec §3.
type ArraySizeKind int

const (
	ArraySizeNone ArraySizeKind = iota
	ArraySizeConst
	ArraySizeVLA
)

// ArraySize holds either nothing, a compile-time constant length, or
// a variable-length-array size expression.
type ArraySize struct {
	Kind  ArraySizeKind
	Const int
	Expr  Expr
}

// ArrayType is an array of Elem, with a size that may be absent,
// constant, or variable-length.
type ArrayType struct {
	typeBase
	Elem CType
	Size ArraySize
}

func NewArrayType(elem CType, size ArraySize) *ArrayType {
	return &ArrayType{Elem: elem, Size: size}
}

func (*ArrayType) TypeKind() TypeKind { return KindArray }
func (t *ArrayType) String() string {
	switch t.Size.Kind {
	case ArraySizeConst:
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Size.Const)
	case ArraySizeVLA:
		return t.Elem.String() + "[*]"
	default:
		return t.Elem.String() + "[]"
	}
}

// FunctionType is a function signature: parameters, return type and a
// variadic flag.
type FunctionType struct {
	typeBase
	Params   []*VariableDecl
	Return   CType
	Variadic bool
}

func NewFunctionType(params []*VariableDecl, ret CType, variadic bool) *FunctionType {
	return &FunctionType{Params: params, Return: ret, Variadic: variadic}
}

func (*FunctionType) TypeKind() TypeKind { return KindFunction }
func (t *FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.Type().String()
	}
	variadic := ""
	if t.Variadic {
		variadic = ", ..."
	}
	return fmt.Sprintf("%s(%s%s)", t.Return.String(), strings.Join(parts, ", "), variadic)
}

// AggregateType is the shared representation of struct and union
// types: an optional tag, an ordered field list, and a completeness
// flag. Field byte offsets are filled in once the type is completed
// (sequential for struct, zero for every union member).
type AggregateType struct {
	typeBase
	IsUnion  bool
	Tag      string
	Fields   []*VariableDecl
	Offsets  []int
	Complete bool
}

func NewAggregateType(isUnion bool, tag string) *AggregateType {
	return &AggregateType{IsUnion: isUnion, Tag: tag}
}

func (t *AggregateType) TypeKind() TypeKind {
	if t.IsUnion {
		return KindUnion
	}
	return KindStruct
}

func (t *AggregateType) String() string {
	kw := "struct"
	if t.IsUnion {
		kw = "union"
	}
	if t.Tag == "" {
		return kw
	}
	return kw + " " + t.Tag
}

// FieldIndex returns the index of name within Fields, or -1.
func (t *AggregateType) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name() == name {
			return i
		}
	}
	return -1
}

// EnumValue is one (name, optional value expression) member of an
// enum body.
type EnumValue struct {
	Name string
	// Expr is nil when the constant defaults to previous+1 (or 0 for
	// the first constant).
	Expr Expr
	Loc  Location
}

// EnumType is an enum with an optional tag and member list.
type EnumType struct {
	typeBase
	Tag      string
	Values   []EnumValue
	Complete bool
}

func NewEnumType(tag string) *EnumType { return &EnumType{Tag: tag} }
func (*EnumType) TypeKind() TypeKind   { return KindEnum }
func (t *EnumType) String() string {
	if t.Tag == "" {
		return "enum"
	}
	return "enum " + t.Tag
}

// TypedefAliasType is a named reference into the typedef table,
// already resolved to its underlying type at construction time (a
// typedef name cannot be used before its definition in C, so there is
// no forward-reference case to defer).
type TypedefAliasType struct {
	typeBase
	Name   string
	Target CType
}

func NewTypedefAliasType(name string, target CType) *TypedefAliasType {
	return &TypedefAliasType{Name: name, Target: target}
}

func (*TypedefAliasType) TypeKind() TypeKind { return KindTypedefAlias }
func (t *TypedefAliasType) String() string   { return qualPrefix(t.quals) + t.Name }

// underlyingType unwraps typedef aliases so callers can inspect the
// real shape of a type without duplicating the unwrap loop everywhere.
func underlyingType(t CType) CType {
	for {
		alias, ok := t.(*TypedefAliasType)
		if !ok {
			return t
		}
		t = alias.Target
	}
}

// isIntegerType reports whether t (after unwrapping aliases) is an
// IntegerType.
func isIntegerType(t CType) (*IntegerType, bool) {
	it, ok := underlyingType(t).(*IntegerType)
	return it, ok
}
