// Package codegen lowers a type-checked SPL program into an intermediate
// line-oriented pseudo-assembly: REM-labelled blocks, GOTO/IF...THEN jumps,
// and flat assignment/print/halt statements. internal/basicify then numbers
// these lines and resolves labels into a runnable BASIC listing.
//
// This is grounded on the reference compiler's codegen.py, with three of
// its bugs deliberately not reproduced: call inlining here actually
// substitutes parameter names with the call-site argument atoms; a
// function-call assignment rewrites the callee's trailing return into
// `target = <atom>` instead of guessing at the callee's first local; and
// do-until loops back while the condition is false, not true.
package codegen

import (
	"fmt"
	"strconv"

	"splc/internal/ast"
	"splc/internal/report"
)

// Generate lowers prog's main algorithm into intermediate text lines. prog
// must already have passed scope checking and type checking.
func Generate(prog *ast.Program) ([]string, error) {
	g := &generator{
		procs: map[string]*ast.ProcDef{},
		funcs: map[string]*ast.FuncDef{},
	}
	for _, pd := range prog.Procs {
		g.procs[pd.Name] = pd
	}
	for _, fd := range prog.Funcs {
		g.funcs[fd.Name] = fd
	}
	if err := g.genAlgo(prog.Main.Algo); err != nil {
		return nil, err
	}
	return g.lines, nil
}

type generator struct {
	procs      map[string]*ast.ProcDef
	funcs      map[string]*ast.FuncDef
	lines      []string
	labelCount int
	inlining   []string // names currently being inlined, for cycle detection
}

func (g *generator) emit(format string, args ...any) {
	g.lines = append(g.lines, fmt.Sprintf(format, args...))
}

func (g *generator) newLabel(prefix string) string {
	g.labelCount++
	return fmt.Sprintf("%s%d", prefix, g.labelCount)
}

func (g *generator) genAlgo(algo *ast.Algo) error {
	for _, instr := range algo.Instrs {
		if err := g.genInstr(instr); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) genInstr(instr ast.Instr) error {
	switch n := instr.(type) {
	case *ast.Halt:
		g.emit("STOP")
		return nil

	case *ast.Print:
		g.emit("PRINT %s", outputText(n.Output))
		return nil

	case *ast.Call:
		return g.genCallStatement(n)

	case *ast.Assign:
		return g.genAssign(n)

	case *ast.LoopWhile:
		return g.genWhile(n)

	case *ast.LoopDoUntil:
		return g.genDoUntil(n)

	case *ast.BranchIf:
		return g.genIf(n)

	default:
		return report.NewFatalNode(report.KindEmitterError, instr.ID(), "codegen: unhandled instruction")
	}
}

func (g *generator) genAssign(n *ast.Assign) error {
	if n.CallRHS != nil {
		return g.genFuncCallAssign(n)
	}
	g.emit("%s = %s", n.Target, termToText(n.TermRHS))
	return nil
}

func (g *generator) genCallStatement(call *ast.Call) error {
	pd, ok := g.procs[call.Name]
	if !ok {
		return report.NewFatalNode(report.KindEmitterError, call.NodeID, "undefined procedure '%s'", call.Name)
	}
	if err := g.pushInline(call.Name, call.NodeID); err != nil {
		return err
	}
	defer g.popInline()

	params := paramMap(pd.Params, call.Args)
	body := ast.CloneAlgo(pd.Body.Algo)
	substituteAlgo(body, params)

	g.emit("REM INLINE PROC %s", call.Name)
	if err := g.genAlgo(body); err != nil {
		return err
	}
	g.emit("REM ENDINLINE PROC %s", call.Name)
	return nil
}

func (g *generator) genFuncCallAssign(n *ast.Assign) error {
	call := n.CallRHS
	fd, ok := g.funcs[call.Name]
	if !ok {
		return report.NewFatalNode(report.KindEmitterError, call.NodeID, "undefined function '%s'", call.Name)
	}
	if err := g.pushInline(call.Name, call.NodeID); err != nil {
		return err
	}
	defer g.popInline()

	params := paramMap(fd.Params, call.Args)
	body := ast.CloneAlgo(fd.Body.Algo)
	substituteAlgo(body, params)
	ret := substituteAtom(ast.CloneAtom(fd.Ret), params)

	g.emit("REM INLINE FUNC %s", call.Name)
	if err := g.genAlgo(body); err != nil {
		return err
	}
	g.emit("%s = %s", n.Target, atomToText(ret))
	g.emit("REM ENDINLINE FUNC %s", call.Name)
	return nil
}

func (g *generator) pushInline(name string, nodeID int) error {
	for _, n := range g.inlining {
		if n == name {
			return report.NewFatalNode(report.KindRecursiveInline, nodeID, "recursive inlining of '%s'", name)
		}
	}
	g.inlining = append(g.inlining, name)
	return nil
}

func (g *generator) popInline() {
	g.inlining = g.inlining[:len(g.inlining)-1]
}

func paramMap(params []string, args []ast.Atom) map[string]ast.Atom {
	m := make(map[string]ast.Atom, len(params))
	for i, p := range params {
		m[p] = args[i]
	}
	return m
}

func (g *generator) genWhile(n *ast.LoopWhile) error {
	labelStart := g.newLabel("WH")
	labelBody := g.newLabel("WB")
	labelExit := g.newLabel("WE")

	g.emit("REM %s", labelStart)
	g.condGen(n.Cond, labelBody, labelExit)
	g.emit("REM %s", labelBody)
	if err := g.genAlgo(n.Body); err != nil {
		return err
	}
	g.emit("GOTO %s", labelStart)
	g.emit("REM %s", labelExit)
	return nil
}

// genDoUntil loops back to the top while the condition is false — the
// opposite polarity from the reference implementation, which jumped back
// when the condition held true. When the condition is a single bare
// relational (eq/>) term it is rendered as the literal one-line
// `IF NOT (<C>) THEN DO_n` form; every other condition (not, and/or) goes
// through condGen with a second DA_n label: true jumps to DA_n past the
// loop, false jumps back to DO_n.
func (g *generator) genDoUntil(n *ast.LoopDoUntil) error {
	labelDo := g.newLabel("DO")
	g.emit("REM %s", labelDo)
	if err := g.genAlgo(n.Body); err != nil {
		return err
	}

	if simple, ok := simpleCondText(n.Cond); ok {
		g.emit("IF NOT (%s) THEN %s", simple, labelDo)
		return nil
	}

	labelAfter := g.newLabel("DA")
	g.condGen(n.Cond, labelAfter, labelDo)
	g.emit("REM %s", labelAfter)
	return nil
}

func (g *generator) genIf(n *ast.BranchIf) error {
	labelThen := g.newLabel("T")
	labelExit := g.newLabel("X")

	if n.Else != nil {
		g.condGen(n.Cond, labelThen, "")
		if err := g.genAlgo(n.Else); err != nil {
			return err
		}
		g.emit("GOTO %s", labelExit)
		g.emit("REM %s", labelThen)
		if err := g.genAlgo(n.Then); err != nil {
			return err
		}
		g.emit("REM %s", labelExit)
		return nil
	}

	g.condGen(n.Cond, labelThen, labelExit)
	g.emit("REM %s", labelThen)
	if err := g.genAlgo(n.Then); err != nil {
		return err
	}
	g.emit("REM %s", labelExit)
	return nil
}

// termToText renders a Numeric-typed term (the only kind legal as an
// assignment RHS operand or a print/call-argument atom expression).
func termToText(t ast.Term) string {
	switch n := t.(type) {
	case *ast.TermAtom:
		return atomToText(n.Atom)
	case *ast.TermUnary:
		return fmt.Sprintf("(-%s)", termToText(n.Operand))
	case *ast.TermBinary:
		return fmt.Sprintf("(%s %s %s)", termToText(n.Left), numericSymbol(n.Op), termToText(n.Right))
	default:
		return ""
	}
}

func numericSymbol(op string) string {
	switch op {
	case "plus":
		return "+"
	case "minus":
		return "-"
	case "mult":
		return "*"
	case "div":
		return "/"
	default:
		return op
	}
}

func atomToText(a ast.Atom) string {
	switch n := a.(type) {
	case *ast.VarRef:
		return n.Name
	case *ast.NumberLit:
		return strconv.Itoa(n.Value)
	default:
		return ""
	}
}

func outputText(o ast.Output) string {
	switch n := o.(type) {
	case *ast.OutString:
		return fmt.Sprintf("%q", n.Text)
	case *ast.OutAtom:
		return atomToText(n.Atom)
	default:
		return ""
	}
}
