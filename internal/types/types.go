// Package types implements the type checker: an expression-tree walk that
// assigns a TypeKind to every term node and validates assignments,
// conditions, calls, and returns against spec.md §4.4's typing table.
package types

import (
	"fmt"

	"splc/internal/ast"
	"splc/internal/report"
)

// Kind is the closed set of SPL types.
type Kind string

const (
	Numeric Kind = "Numeric"
	Boolean Kind = "Boolean"
	String  Kind = "String"
	Void    Kind = "Void"
)

// Map is the auxiliary node_id → Kind table the checker populates.
type Map map[int]Kind

// Result bundles the type map with the checker's collected diagnostics.
type Result struct {
	Types       Map
	Diagnostics *report.Bag
}

type checker struct {
	types Map
	diags report.Bag
	procs map[string]int // name -> arity
	funcs map[string]int
}

// Check type-checks prog, which must already have passed scope checking
// (so every VarRef that matters is resolved and every variable is known to
// exist — the type checker never rejects on undeclared names, only on type
// mismatches).
func Check(prog *ast.Program) *Result {
	c := &checker{
		types: Map{},
		procs: map[string]int{},
		funcs: map[string]int{},
	}
	for _, pd := range prog.Procs {
		c.procs[pd.Name] = len(pd.Params)
	}
	for _, fd := range prog.Funcs {
		c.funcs[fd.Name] = len(fd.Params)
	}

	for _, pd := range prog.Procs {
		c.checkAlgo(pd.Body.Algo)
	}
	for _, fd := range prog.Funcs {
		c.checkAlgo(fd.Body.Algo)
		retType := c.typeOfAtom(fd.Ret)
		if retType != Numeric {
			c.errf(fd.Ret.ID(), "function '%s' must return Numeric, got %s", fd.Name, retType)
		}
	}
	c.checkAlgo(prog.Main.Algo)

	return &Result{Types: c.types, Diagnostics: &c.diags}
}

func (c *checker) errf(nodeID int, format string, args ...any) {
	c.diags.Add(report.Diagnostic{
		Kind:    report.KindTypeError,
		Message: fmt.Sprintf(format, args...),
		NodeID:  nodeID,
	})
}

func (c *checker) set(n interface{ ID() int }, k Kind) Kind {
	c.types[n.ID()] = k
	return k
}

func (c *checker) checkAlgo(algo *ast.Algo) {
	for _, instr := range algo.Instrs {
		c.checkInstr(instr)
	}
}

func (c *checker) checkInstr(instr ast.Instr) {
	switch n := instr.(type) {
	case *ast.Halt:
		// no type obligations

	case *ast.Print:
		switch out := n.Output.(type) {
		case *ast.OutString:
			c.set(out, String)
		case *ast.OutAtom:
			t := c.typeOfAtom(out.Atom)
			c.set(out, t)
			if t != Numeric && t != String {
				c.errf(out.ID(), "print accepts Numeric or String, got %s", t)
			}
		}

	case *ast.Call:
		c.checkCallArgs(n)
		c.checkCallTarget(n, c.procs, "procedure")

	case *ast.Assign:
		if n.CallRHS != nil {
			c.checkCallArgs(n.CallRHS)
			c.checkCallTarget(n.CallRHS, c.funcs, "function")
			// A function-call assignment's RHS type is always Numeric per
			// the call-context typing rule (function calls yield Numeric).
		} else {
			t := c.typeOfTerm(n.TermRHS)
			if t != Numeric {
				c.errf(n.NodeID, "assignment RHS must be Numeric, got %s", t)
			}
		}

	case *ast.LoopWhile:
		c.requireBoolean(n.Cond, "while")
		c.checkAlgo(n.Body)

	case *ast.LoopDoUntil:
		c.checkAlgo(n.Body)
		c.requireBoolean(n.Cond, "do-until")

	case *ast.BranchIf:
		c.requireBoolean(n.Cond, "if")
		c.checkAlgo(n.Then)
		if n.Else != nil {
			c.checkAlgo(n.Else)
		}
	}
}

// requireBoolean enforces the strict-boolean-condition decision: a bare
// Numeric atom as a while/do-until/if condition is rejected, not widened
// into a truthiness test.
func (c *checker) requireBoolean(cond ast.Term, construct string) {
	t := c.typeOfTerm(cond)
	if t != Boolean {
		c.errf(cond.ID(), "%s condition must be Boolean, got %s", construct, t)
	}
}

func (c *checker) checkCallArgs(call *ast.Call) {
	if len(call.Args) > 3 {
		c.errf(call.NodeID, "too many arguments: %d (max 3)", len(call.Args))
	}
	for _, a := range call.Args {
		if t := c.typeOfAtom(a); t != Numeric {
			c.errf(a.ID(), "call arguments must be Numeric, got %s", t)
		}
	}
}

func (c *checker) checkCallTarget(call *ast.Call, table map[string]int, label string) {
	arity, ok := table[call.Name]
	if !ok {
		c.errf(call.NodeID, "'%s' is not a known %s", call.Name, label)
		return
	}
	if arity != len(call.Args) {
		c.errf(call.NodeID, "%s '%s' arity mismatch: expected %d, got %d", label, call.Name, arity, len(call.Args))
	}
}

func (c *checker) typeOfTerm(t ast.Term) Kind {
	switch n := t.(type) {
	case *ast.TermAtom:
		return c.set(n, c.typeOfAtom(n.Atom))
	case *ast.TermUnary:
		operand := c.typeOfTerm(n.Operand)
		switch n.Op {
		case "neg":
			if operand != Numeric {
				c.errf(n.NodeID, "unary 'neg' requires Numeric, got %s", operand)
			}
			return c.set(n, Numeric)
		case "not":
			if operand != Boolean {
				c.errf(n.NodeID, "unary 'not' requires Boolean, got %s", operand)
			}
			return c.set(n, Boolean)
		default:
			c.errf(n.NodeID, "unknown unary operator %q", n.Op)
			return c.set(n, Void)
		}
	case *ast.TermBinary:
		lt := c.typeOfTerm(n.Left)
		rt := c.typeOfTerm(n.Right)
		switch n.Op {
		case "plus", "minus", "mult", "div":
			if lt != Numeric || rt != Numeric {
				c.errf(n.NodeID, "binary '%s' requires Numeric operands, got %s and %s", n.Op, lt, rt)
			}
			return c.set(n, Numeric)
		case "eq", ">":
			if lt != Numeric || rt != Numeric {
				c.errf(n.NodeID, "comparison '%s' requires Numeric operands, got %s and %s", n.Op, lt, rt)
			}
			return c.set(n, Boolean)
		case "or", "and":
			if lt != Boolean || rt != Boolean {
				c.errf(n.NodeID, "binary '%s' requires Boolean operands, got %s and %s", n.Op, lt, rt)
			}
			return c.set(n, Boolean)
		default:
			c.errf(n.NodeID, "unknown binary operator %q", n.Op)
			return c.set(n, Void)
		}
	default:
		return Void
	}
}

func (c *checker) typeOfAtom(a ast.Atom) Kind {
	switch n := a.(type) {
	case *ast.VarRef:
		// Every declared SPL variable is Numeric; the scope checker has
		// already validated that n resolves to a declaration.
		return c.set(n, Numeric)
	case *ast.NumberLit:
		return c.set(n, Numeric)
	default:
		return Void
	}
}
