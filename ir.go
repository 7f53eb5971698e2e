package cfront

import "fmt"

// IRType is one of the four numeric types the front end currently
// produces (spec §6): i8 (C char), i64 (C int — the front end is
// word-sized), f64 (C floating) and ptr (C pointer).
type IRType int

const (
	TypeI8 IRType = iota
	TypeI64
	TypeF64
	TypePtr
)

func (t IRType) String() string {
	switch t {
	case TypeI8:
		return "i8"
	case TypeI64:
		return "i64"
	case TypeF64:
		return "f64"
	case TypePtr:
		return "ptr"
	default:
		return "?"
	}
}

// Value is anything an instruction can reference as an operand: a
// Parameter, or any instruction that produces a result.
type Value interface {
	ValueName() string
	ValueType() IRType
}

// Instruction is any IR op a Block can hold.
type Instruction interface {
	instrNode()
}

// isTerminator reports whether instr ends a block (Jump, CJump,
// Return or Exit — spec §3 invariant).
func isTerminator(instr Instruction) bool {
	switch instr.(type) {
	case *Jump, *CJump, *Return, *Exit:
		return true
	default:
		return false
	}
}

// Parameter is an incoming function argument, already a usable Value
// before any instruction executes.
type Parameter struct {
	NameStr string
	Typ     IRType
}

func (p *Parameter) instrNode()          {}
func (p *Parameter) ValueName() string   { return p.NameStr }
func (p *Parameter) ValueType() IRType   { return p.Typ }

// Alloc reserves Size bytes on the current function's frame and
// yields a ptr value naming that storage.
type Alloc struct {
	NameStr string
	Size    int
}

func (a *Alloc) instrNode()        {}
func (a *Alloc) ValueName() string { return a.NameStr }
func (a *Alloc) ValueType() IRType { return TypePtr }

// Load reads Typ-sized data from Addr.
type Load struct {
	Addr    Value
	NameStr string
	Typ     IRType
}

func (l *Load) instrNode()        {}
func (l *Load) ValueName() string { return l.NameStr }
func (l *Load) ValueType() IRType { return l.Typ }

// Store writes Val to Addr. It produces no value.
type Store struct {
	Val  Value
	Addr Value
}

func (*Store) instrNode() {}

// Const materializes a compile-time-known integer value (also used
// for char and pointer-null constants; there is no floating-point
// constant form).
type Const struct {
	IntVal  int64
	NameStr string
	Typ     IRType
}

func (c *Const) instrNode()        {}
func (c *Const) ValueName() string { return c.NameStr }
func (c *Const) ValueType() IRType { return c.Typ }

// Binop applies a binary operator to two same-typed operands.
type Binop struct {
	Lhs     Value
	Op      string
	Rhs     Value
	NameStr string
	Typ     IRType
}

func (b *Binop) instrNode()        {}
func (b *Binop) ValueName() string { return b.NameStr }
func (b *Binop) ValueType() IRType { return b.Typ }

// CJump is a conditional branch terminator: `if lhs op rhs goto yes
// else goto no`.
type CJump struct {
	Lhs, Rhs Value
	Op       string
	Yes, No  *Block
}

func (*CJump) instrNode() {}

// Jump is an unconditional branch terminator.
type Jump struct {
	Target *Block
}

func (*Jump) instrNode() {}

// Return is a value-returning terminator.
type Return struct {
	Val Value
}

func (*Return) instrNode() {}

// Exit is the void-function terminator.
type Exit struct{}

func (*Exit) instrNode() {}

// Phi selects a value depending on which predecessor block control
// arrived from. Incoming is populated with exactly one entry per
// predecessor of the Phi's own block (spec §8, invariant 3).
type Phi struct {
	NameStr  string
	Typ      IRType
	Incoming map[*Block]Value
	order    []*Block
}

func (p *Phi) instrNode()        {}
func (p *Phi) ValueName() string { return p.NameStr }
func (p *Phi) ValueType() IRType { return p.Typ }

// SetIncoming records the value control carries in from pred.
func (p *Phi) SetIncoming(pred *Block, v Value) {
	if p.Incoming == nil {
		p.Incoming = map[*Block]Value{}
	}
	if _, ok := p.Incoming[pred]; !ok {
		p.order = append(p.order, pred)
	}
	p.Incoming[pred] = v
}

// GlobalRef names a module-level Variable. It is a Value but never an
// Instruction: it is never appended to a block, only referenced as
// the Addr operand of a Load/Store wherever code touches a global.
type GlobalRef struct {
	Name string
}

func (g *GlobalRef) ValueName() string { return g.Name }
func (g *GlobalRef) ValueType() IRType { return TypePtr }

// Cast converts Val from one IRType to another (int widening/
// narrowing, int/float conversion, or a pointer/integer reinterpret),
// the IR counterpart of a C cast expression the four-way numeric
// model can't represent as a no-op.
type Cast struct {
	Val     Value
	NameStr string
	Typ     IRType
}

func (c *Cast) instrNode()        {}
func (c *Cast) ValueName() string { return c.NameStr }
func (c *Cast) ValueType() IRType { return c.Typ }

// FunctionCall calls a non-void function and yields its result.
type FunctionCall struct {
	Callee  string
	Args    []Value
	NameStr string
	Typ     IRType
}

func (f *FunctionCall) instrNode()        {}
func (f *FunctionCall) ValueName() string { return f.NameStr }
func (f *FunctionCall) ValueType() IRType { return f.Typ }

// ProcedureCall calls a void function; it produces no value.
type ProcedureCall struct {
	Callee string
	Args   []Value
}

func (*ProcedureCall) instrNode() {}

// Block is a maximal straight-line instruction sequence. A non-empty
// block ends in exactly one terminator (spec §3 invariant); an empty
// block may have none, and exists only transiently until the
// unreachable-block sweep at function end removes it.
type Block struct {
	id     int
	Label  string
	Instrs []Instruction
}

// Terminated reports whether the block already ends in a terminator.
func (b *Block) Terminated() bool {
	if len(b.Instrs) == 0 {
		return false
	}
	return isTerminator(b.Instrs[len(b.Instrs)-1])
}

// Targets returns the blocks this block's terminator can transfer
// control to, or nil if the block is untermined or ends the function.
func (b *Block) Targets() []*Block {
	if len(b.Instrs) == 0 {
		return nil
	}
	switch term := b.Instrs[len(b.Instrs)-1].(type) {
	case *Jump:
		return []*Block{term.Target}
	case *CJump:
		return []*Block{term.Yes, term.No}
	default:
		return nil
	}
}

func (b *Block) String() string { return b.Label }

// Variable is a file-scope (global) storage location. Init holds a
// scalar constant initializer when the declaration had one that
// folds at compile time; nil means zero-initialized. Aggregate/array
// initializers are a known scope limit (see DESIGN.md) — the
// variable is still sized correctly, just zero-initialized.
type Variable struct {
	Name string
	Size int
	Init *int64
}

// Function is either a typed function or a void procedure (the
// ReturnType field is only meaningful when !IsProcedure).
type Function struct {
	Name        string
	IsProcedure bool
	ReturnType  IRType
	Params      []*Parameter
	Entry       *Block
	Blocks      []*Block
}

// Module is the top-level unit the code generator produces, handed to
// the (out of scope, spec §1) downstream back end.
type Module struct {
	Name  string
	Vars  []*Variable
	Funcs []*Function
}

// AddVariable registers a global variable with the module.
func (m *Module) AddVariable(v *Variable) { m.Vars = append(m.Vars, v) }

// AddFunction registers a function or procedure with the module.
func (m *Module) AddFunction(f *Function) { m.Funcs = append(m.Funcs, f) }

// IRBuilder is the thin collaborator spec §2 assumes is available:
// fresh-block allocation, current-function/-block tracking, and
// instruction emission. It does not itself check for a terminator:
// Emit appends unconditionally, and the code generator keeps the "no
// instructions after terminator" invariant by testing Terminated()
// before emitting into a block that may already be closed.
type IRBuilder struct {
	Module  *Module
	fn      *Function
	block   *Block
	counter int
}

// NewIRBuilder creates a builder around a fresh, empty module.
func NewIRBuilder(moduleName string) *IRBuilder {
	return &IRBuilder{Module: &Module{Name: moduleName}}
}

func (b *IRBuilder) nextID() int {
	b.counter++
	return b.counter
}

// NewFunction starts a non-void function named name returning ret,
// registers it with the module, and returns it; the caller still
// needs to SetFunction/SetBlock to start emitting into it.
func (b *IRBuilder) NewFunction(name string, ret IRType) *Function {
	fn := &Function{Name: name, ReturnType: ret}
	b.Module.AddFunction(fn)
	return fn
}

// NewProcedure starts a void function.
func (b *IRBuilder) NewProcedure(name string) *Function {
	fn := &Function{Name: name, IsProcedure: true}
	b.Module.AddFunction(fn)
	return fn
}

// SetFunction makes fn the current function new blocks attach to.
func (b *IRBuilder) SetFunction(fn *Function) { b.fn = fn }

// CurrentFunction returns the function currently being built.
func (b *IRBuilder) CurrentFunction() *Function { return b.fn }

// NewBlock allocates a fresh, empty block registered with the current
// function (but not yet made current — call SetBlock for that).
func (b *IRBuilder) NewBlock() *Block {
	blk := &Block{id: b.nextID(), Label: fmt.Sprintf("block%d", b.counter)}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

// SetBlock makes blk the current block instructions are emitted into.
// Passing nil clears it (used when a trailing empty block is about to
// be dropped).
func (b *IRBuilder) SetBlock(blk *Block) { b.block = blk }

// CurrentBlock returns the block currently being emitted into.
func (b *IRBuilder) CurrentBlock() *Block { return b.block }

// Emit appends instr to the current block and returns it (instr
// itself implements Value when it produces a result, so callers can
// chain `v := b.Emit(&Load{...}).(Value)`, which is how codegen uses
// it).
func (b *IRBuilder) Emit(instr Instruction) Instruction {
	b.block.Instrs = append(b.block.Instrs, instr)
	return instr
}

// fresh returns a unique per-builder value name with the given hint,
// mirroring the teacher's convention of short, purpose-named temporaries.
func (b *IRBuilder) fresh(hint string) string {
	return fmt.Sprintf("%s%d", hint, b.nextID())
}

// reachableBlocks returns the blocks reachable from entry (BFS over
// each block's terminator targets), in discovery order, entry first.
func reachableBlocks(entry *Block) []*Block {
	if entry == nil {
		return nil
	}
	seen := map[*Block]bool{entry: true}
	queue := []*Block{entry}
	order := []*Block{entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range cur.Targets() {
			if !seen[t] {
				seen[t] = true
				queue = append(queue, t)
				order = append(order, t)
			}
		}
	}
	return order
}

// sweepUnreachable keeps only the blocks of fn reachable from its
// Entry and drops the rest — spec §3's "every IR basic block produced
// is either reachable from the function entry or deleted before the
// function is finalized".
func sweepUnreachable(fn *Function) {
	fn.Blocks = reachableBlocks(fn.Entry)
}
