package cfront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSrc(t *testing.T, src string) *Module {
	t.Helper()
	mod, err := CompileBytes([]byte(src), NewConfig(), DefaultTargetInfo())
	require.NoError(t, err)
	return mod
}

func findFunc(t *testing.T, mod *Module, name string) *Function {
	t.Helper()
	for _, fn := range mod.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no function %q in module", name)
	return nil
}

func TestEndToEndSimpleReturn(t *testing.T) {
	mod := compileSrc(t, `int f(int x){ return x + 1; }`)
	fn := findFunc(t, mod, "f")
	require.Len(t, fn.Blocks, 1, "no control flow, so sweep keeps exactly the entry block")
	entry := fn.Blocks[0]
	assert.True(t, entry.Terminated())
	_, ok := entry.Instrs[len(entry.Instrs)-1].(*Return)
	assert.True(t, ok, "function body must end in a Return")
}

func TestEndToEndIfElse(t *testing.T) {
	mod := compileSrc(t, `int g(int a, int b){ if (a < b) return a; else return b; }`)
	fn := findFunc(t, mod, "g")

	cjump, ok := fn.Entry.Instrs[len(fn.Entry.Instrs)-1].(*CJump)
	require.True(t, ok, "entry must end in a CJump")
	assert.Equal(t, "<", cjump.Op)

	for _, target := range []*Block{cjump.Yes, cjump.No} {
		require.True(t, target.Terminated())
		_, ok := target.Instrs[len(target.Instrs)-1].(*Return)
		assert.True(t, ok)
	}
	for _, b := range fn.Blocks {
		assert.NotEqual(t, 0, len(b.Instrs), "swept function must carry no empty trailing block")
	}
}

func TestEndToEndWhileLoop(t *testing.T) {
	mod := compileSrc(t, `int s(int n){
		int i = 0;
		int t = 0;
		while (i < n) {
			t = t + i;
			i = i + 1;
		}
		return t;
	}`)
	fn := findFunc(t, mod, "s")

	var sawCJump, sawReturn int
	for _, b := range fn.Blocks {
		switch b.Instrs[len(b.Instrs)-1].(type) {
		case *CJump:
			sawCJump++
		case *Return:
			sawReturn++
		}
	}
	assert.Equal(t, 1, sawCJump, "exactly one loop condition check")
	assert.Equal(t, 1, sawReturn, "exactly one return, after the loop")
}

func TestEndToEndTypedefGlobal(t *testing.T) {
	mod := compileSrc(t, `typedef int foo; foo bar;`)
	require.Len(t, mod.Vars, 1)
	assert.Equal(t, "bar", mod.Vars[0].Name)
	assert.Equal(t, 8, mod.Vars[0].Size)
}

func TestEndToEndShortCircuitAnd(t *testing.T) {
	mod := compileSrc(t, `int h(int x){ if (x > 0 && x < 10) return 1; return 0; }`)
	fn := findFunc(t, mod, "h")

	cjumps := 0
	for _, b := range fn.Blocks {
		if _, ok := b.Instrs[len(b.Instrs)-1].(*CJump); ok {
			cjumps++
		}
	}
	// One CJump per relational comparison (x>0, x<10), no extra one
	// for a materialized boolean of the `&&` itself.
	assert.Equal(t, 2, cjumps)
}

func TestEndToEndEmptyBodySwept(t *testing.T) {
	mod := compileSrc(t, `int k(){ }`)
	fn := findFunc(t, mod, "k")
	for _, b := range fn.Blocks {
		require.NotEmpty(t, b.Instrs)
		assert.True(t, b.Terminated())
	}
}

func TestEndToEndSwitchStatement(t *testing.T) {
	mod := compileSrc(t, `int classify(int x){
		switch (x) {
		case 1: return 10;
		case 2: return 20;
		default: return -1;
		}
	}`)
	fn := findFunc(t, mod, "classify")

	var returns int
	for _, b := range fn.Blocks {
		if _, ok := b.Instrs[len(b.Instrs)-1].(*Return); ok {
			returns++
		}
	}
	assert.Equal(t, 3, returns)
}

func TestEndToEndStructFieldAccess(t *testing.T) {
	mod := compileSrc(t, `
	struct point { int x; int y; };
	int getx(struct point p){ return p.x; }
	`)
	fn := findFunc(t, mod, "getx")
	assert.True(t, fn.Entry.Terminated())
}

func TestEndToEndArrayIndexing(t *testing.T) {
	mod := compileSrc(t, `int first(int arr[10]){ return arr[0]; }`)
	fn := findFunc(t, mod, "first")
	assert.True(t, fn.Entry.Terminated())
}

func TestMismatchedRankArithmeticRejected(t *testing.T) {
	_, err := CompileBytes([]byte(`int f(char c, long l){ return c + l; }`), NewConfig(), DefaultTargetInfo())
	require.Error(t, err)
	cerr, ok := err.(CompilerError)
	require.True(t, ok)
	assert.Equal(t, KindSemantics, cerr.Kind)
}

func TestSameRankArithmeticAccepted(t *testing.T) {
	mod := compileSrc(t, `int f(long a, long b){ return a + b; }`)
	fn := findFunc(t, mod, "f")
	assert.True(t, fn.Entry.Terminated())
}
