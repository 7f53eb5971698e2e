package cfront

import (
	"fmt"
	"strings"
)

// irPrinter renders a Module as readable text for cmd/cfrontc's
// -output file and for debugging test failures; adapted from the teacher's
// treePrinter (tree_printer.go) write/writel helpers, simplified for
// IR's two-level function→block→instruction shape rather than a
// recursive AST tree.
type irPrinter struct {
	out strings.Builder
}

func (p *irPrinter) writel(format string, args ...interface{}) {
	fmt.Fprintf(&p.out, format, args...)
	p.out.WriteRune('\n')
}

// DumpModule renders mod's globals and every function's blocks and
// instructions, one function at a time, in the order the builder
// produced them.
func DumpModule(mod *Module) string {
	p := &irPrinter{}
	for _, v := range mod.Vars {
		if v.Init != nil {
			p.writel("global %s[%d] = %d", v.Name, v.Size, *v.Init)
		} else {
			p.writel("global %s[%d]", v.Name, v.Size)
		}
	}
	for _, fn := range mod.Funcs {
		p.dumpFunction(fn)
	}
	return p.out.String()
}

func (p *irPrinter) dumpFunction(fn *Function) {
	kind := fn.ReturnType.String()
	if fn.IsProcedure {
		kind = "void"
	}
	params := make([]string, len(fn.Params))
	for i, pr := range fn.Params {
		params[i] = fmt.Sprintf("%s:%s", pr.NameStr, pr.Typ)
	}
	p.writel("func %s %s(%s) {", kind, fn.Name, strings.Join(params, ", "))
	for _, b := range fn.Blocks {
		p.writel("  %s:", b.Label)
		for _, instr := range b.Instrs {
			p.writel("    %s", dumpInstr(instr))
		}
	}
	p.writel("}")
}

func dumpInstr(instr Instruction) string {
	switch v := instr.(type) {
	case *Alloc:
		return fmt.Sprintf("%s = alloc %d", v.NameStr, v.Size)
	case *Load:
		return fmt.Sprintf("%s = load %s, %s", v.NameStr, v.Typ, v.Addr.ValueName())
	case *Store:
		return fmt.Sprintf("store %s, %s", v.Val.ValueName(), v.Addr.ValueName())
	case *Const:
		return fmt.Sprintf("%s = const %s %d", v.NameStr, v.Typ, v.IntVal)
	case *Binop:
		return fmt.Sprintf("%s = %s %s %s", v.NameStr, v.Lhs.ValueName(), v.Op, v.Rhs.ValueName())
	case *Cast:
		return fmt.Sprintf("%s = cast %s to %s", v.NameStr, v.Val.ValueName(), v.Typ)
	case *CJump:
		return fmt.Sprintf("if %s %s %s goto %s else %s", v.Lhs.ValueName(), v.Op, v.Rhs.ValueName(), v.Yes.Label, v.No.Label)
	case *Jump:
		return fmt.Sprintf("goto %s", v.Target.Label)
	case *Return:
		if v.Val == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", v.Val.ValueName())
	case *Exit:
		return "exit"
	case *Phi:
		parts := make([]string, 0, len(v.Incoming))
		for _, pred := range v.order {
			parts = append(parts, fmt.Sprintf("%s:%s", pred.Label, v.Incoming[pred].ValueName()))
		}
		return fmt.Sprintf("%s = phi %s", v.NameStr, strings.Join(parts, ", "))
	case *FunctionCall:
		return fmt.Sprintf("%s = call %s(%s)", v.NameStr, v.Callee, dumpArgs(v.Args))
	case *ProcedureCall:
		return fmt.Sprintf("call %s(%s)", v.Callee, dumpArgs(v.Args))
	default:
		return fmt.Sprintf("%T", instr)
	}
}

func dumpArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.ValueName()
	}
	return strings.Join(parts, ", ")
}
