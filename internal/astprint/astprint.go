// Package astprint renders a parsed SPL AST as an indented human-readable
// tree, for the `--print-ast` driver flag. Grounded on the reference
// compiler's ast_printer.py (same two-space indent, same "Type\n  field:\n"
// shape) and on the teacher's env{buf, indent} + line() emitter idiom.
package astprint

import (
	"bytes"
	"fmt"

	"splc/internal/ast"
)

type env struct {
	buf    bytes.Buffer
	indent int
}

func (e *env) line(format string, a ...any) {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("  ")
	}
	fmt.Fprintf(&e.buf, format, a...)
	e.buf.WriteByte('\n')
}

// Print renders prog's full tree.
func Print(prog *ast.Program) string {
	e := &env{}
	e.program(prog)
	return e.buf.String()
}

func (e *env) program(p *ast.Program) {
	e.line("Program(node_id=%d)", p.NodeID)
	e.indent++
	e.line("globals: %v", p.Globals)
	for _, pd := range p.Procs {
		e.procDef(pd)
	}
	for _, fd := range p.Funcs {
		e.funcDef(fd)
	}
	e.main(p.Main)
	e.indent--
}

func (e *env) procDef(pd *ast.ProcDef) {
	e.line("ProcDef(node_id=%d, name=%s, params=%v)", pd.NodeID, pd.Name, pd.Params)
	e.indent++
	e.body(pd.Body)
	e.indent--
}

func (e *env) funcDef(fd *ast.FuncDef) {
	e.line("FuncDef(node_id=%d, name=%s, params=%v)", fd.NodeID, fd.Name, fd.Params)
	e.indent++
	e.body(fd.Body)
	e.line("return:")
	e.indent++
	e.atom(fd.Ret)
	e.indent--
	e.indent--
}

func (e *env) body(b *ast.Body) {
	e.line("Body(node_id=%d, locals=%v)", b.NodeID, b.Locals)
	e.indent++
	e.algo(b.Algo)
	e.indent--
}

func (e *env) main(m *ast.Main) {
	e.line("Main(node_id=%d, variables=%v)", m.NodeID, m.Variables)
	e.indent++
	e.algo(m.Algo)
	e.indent--
}

func (e *env) algo(a *ast.Algo) {
	e.line("Algo(node_id=%d) [%d instr]", a.NodeID, len(a.Instrs))
	e.indent++
	for i, instr := range a.Instrs {
		e.line("[%d]", i)
		e.indent++
		e.instr(instr)
		e.indent--
	}
	e.indent--
}

func (e *env) instr(instr ast.Instr) {
	switch n := instr.(type) {
	case *ast.Halt:
		e.line("Halt(node_id=%d)", n.NodeID)

	case *ast.Print:
		e.line("Print(node_id=%d)", n.NodeID)
		e.indent++
		e.output(n.Output)
		e.indent--

	case *ast.Call:
		e.call(n)

	case *ast.Assign:
		e.line("Assign(node_id=%d, target=%s)", n.NodeID, n.Target)
		e.indent++
		if n.CallRHS != nil {
			e.call(n.CallRHS)
		} else {
			e.term(n.TermRHS)
		}
		e.indent--

	case *ast.LoopWhile:
		e.line("LoopWhile(node_id=%d)", n.NodeID)
		e.indent++
		e.line("cond:")
		e.indent++
		e.term(n.Cond)
		e.indent--
		e.algo(n.Body)
		e.indent--

	case *ast.LoopDoUntil:
		e.line("LoopDoUntil(node_id=%d)", n.NodeID)
		e.indent++
		e.algo(n.Body)
		e.line("cond:")
		e.indent++
		e.term(n.Cond)
		e.indent--
		e.indent--

	case *ast.BranchIf:
		e.line("BranchIf(node_id=%d)", n.NodeID)
		e.indent++
		e.line("cond:")
		e.indent++
		e.term(n.Cond)
		e.indent--
		e.line("then:")
		e.indent++
		e.algo(n.Then)
		e.indent--
		if n.Else != nil {
			e.line("else:")
			e.indent++
			e.algo(n.Else)
			e.indent--
		}
		e.indent--

	default:
		e.line("<unknown instr>")
	}
}

func (e *env) call(c *ast.Call) {
	e.line("Call(node_id=%d, name=%s) [%d args]", c.NodeID, c.Name, len(c.Args))
	e.indent++
	for i, a := range c.Args {
		e.line("[%d]", i)
		e.indent++
		e.atom(a)
		e.indent--
	}
	e.indent--
}

func (e *env) term(t ast.Term) {
	switch n := t.(type) {
	case nil:
		e.line("None")
	case *ast.TermAtom:
		e.line("TermAtom(node_id=%d)", n.NodeID)
		e.indent++
		e.atom(n.Atom)
		e.indent--
	case *ast.TermUnary:
		e.line("TermUnary(node_id=%d, op=%s)", n.NodeID, n.Op)
		e.indent++
		e.term(n.Operand)
		e.indent--
	case *ast.TermBinary:
		e.line("TermBinary(node_id=%d, op=%s)", n.NodeID, n.Op)
		e.indent++
		e.term(n.Left)
		e.term(n.Right)
		e.indent--
	default:
		e.line("<unknown term>")
	}
}

func (e *env) atom(a ast.Atom) {
	switch n := a.(type) {
	case nil:
		e.line("None")
	case *ast.VarRef:
		resolved := "nil"
		if n.Resolved != nil {
			resolved = fmt.Sprintf("scope#%d:%s", n.Resolved.ScopeID, n.Resolved.Kind)
		}
		e.line("VarRef(node_id=%d, name=%s, resolved=%s)", n.NodeID, n.Name, resolved)
	case *ast.NumberLit:
		e.line("NumberLit(node_id=%d, value=%d)", n.NodeID, n.Value)
	default:
		e.line("<unknown atom>")
	}
}

func (e *env) output(o ast.Output) {
	switch n := o.(type) {
	case *ast.OutAtom:
		e.line("OutAtom(node_id=%d)", n.NodeID)
		e.indent++
		e.atom(n.Atom)
		e.indent--
	case *ast.OutString:
		e.line("OutString(node_id=%d, text=%q)", n.NodeID, n.Text)
	default:
		e.line("<unknown output>")
	}
}
