package cfront

import "sort"

// specifierSet counts how many times each basic type specifier
// keyword (void, char, short, int, long, signed, unsigned, float,
// double) occurred in a declaration-specifier list. C allows
// `long long`, hence a count instead of a plain set.
type specifierSet map[string]int

func (s specifierSet) add(spec string) { s[spec]++ }

func (s specifierSet) empty() bool { return len(s) == 0 }

// sortedKeys is used only to build deterministic error messages.
func (s specifierSet) sortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TypeContext canonicalizes a multiset of primitive type specifiers
// into a concrete CType (spec §4.3). It owns no mutable state; it is
// a pure lookup table plus validation rules, kept as an empty struct
// so parsers can share one without synchronization.
type TypeContext struct{}

// NewTypeContext creates a TypeContext.
func NewTypeContext() *TypeContext { return &TypeContext{} }

// Canonicalize turns a specifier multiset into its CType, or a
// TypeSpec CompilerError naming the invalid/empty combination.
func (tc *TypeContext) Canonicalize(specs specifierSet, loc Location) (CType, error) {
	if specs.empty() {
		return nil, newTypeSpecError(loc, "expected at least one type specifier")
	}

	other := 0
	for k, n := range specs {
		switch k {
		case "signed", "unsigned", "char", "short", "long", "int":
			// counted below
		default:
			other += n
		}
	}
	longDouble := specs["double"] == 1 && specs["long"] == 1 && len(specs) == 2
	if other > 0 && !longDouble && (specs["char"]+specs["short"]+specs["long"]+specs["int"]+specs["signed"]+specs["unsigned"] > 0) {
		return nil, newTypeSpecError(loc, "invalid type specifier combination: %v", specs.sortedKeys())
	}

	switch {
	case specs["void"] == 1 && len(specs) == 1:
		return NewVoidType(), nil
	case specs["float"] == 1 && len(specs) == 1:
		return newFloatingType("float", false), nil
	case specs["double"] == 1 && specs["long"] == 0 && len(specs) == 1:
		return newFloatingType("double", true), nil
	case specs["double"] == 1 && specs["long"] == 1 && len(specs) == 2:
		return newFloatingType("long double", true), nil
	}

	unsigned := specs["unsigned"] > 0
	signed := specs["signed"] > 0
	if unsigned && signed {
		return nil, newTypeSpecError(loc, "both signed and unsigned specified")
	}

	switch {
	case specs["char"] == 1 && specs["short"] == 0 && specs["long"] == 0 && specs["int"] == 0:
		return newIntegerType(signedName("char", unsigned), RankChar, unsigned), nil
	case specs["short"] >= 1 && specs["long"] == 0:
		return newIntegerType(signedName("short", unsigned), RankShort, unsigned), nil
	case specs["long"] == 1 && specs["char"] == 0 && specs["short"] == 0:
		return newIntegerType(signedName("long", unsigned), RankLong, unsigned), nil
	case specs["long"] >= 2:
		return newIntegerType(signedName("long long", unsigned), RankLongLong, unsigned), nil
	case specs["char"] == 0 && specs["short"] == 0 && specs["long"] == 0:
		// Bare `int`, `signed`, `unsigned`, or `signed int` etc.
		return newIntegerType(signedName("int", unsigned), RankInt, unsigned), nil
	}

	return nil, newTypeSpecError(loc, "invalid type specifier combination: %v", specs.sortedKeys())
}

func signedName(base string, unsigned bool) string {
	if unsigned {
		return "unsigned " + base
	}
	return base
}
