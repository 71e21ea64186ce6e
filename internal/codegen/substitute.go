package codegen

import "splc/internal/ast"

// substituteAlgo rewrites every atom in algo that refers to a name in
// params, replacing it with a fresh clone of the corresponding argument
// atom. algo must already be a private clone (via ast.CloneAlgo): this
// mutates in place. Assign.Target is a bare string, not an Atom, and is
// never substituted — it names the callee's own local/global slot, which
// stays flat and untouched regardless of inlining.
func substituteAlgo(algo *ast.Algo, params map[string]ast.Atom) {
	for _, instr := range algo.Instrs {
		substituteInstr(instr, params)
	}
}

func substituteInstr(instr ast.Instr, params map[string]ast.Atom) {
	switch n := instr.(type) {
	case *ast.Halt:
	case *ast.Print:
		if oa, ok := n.Output.(*ast.OutAtom); ok {
			oa.Atom = substituteAtom(oa.Atom, params)
		}
	case *ast.Call:
		for i, a := range n.Args {
			n.Args[i] = substituteAtom(a, params)
		}
	case *ast.Assign:
		if n.CallRHS != nil {
			for i, a := range n.CallRHS.Args {
				n.CallRHS.Args[i] = substituteAtom(a, params)
			}
		} else {
			n.TermRHS = substituteTerm(n.TermRHS, params)
		}
	case *ast.LoopWhile:
		n.Cond = substituteTerm(n.Cond, params)
		substituteAlgo(n.Body, params)
	case *ast.LoopDoUntil:
		substituteAlgo(n.Body, params)
		n.Cond = substituteTerm(n.Cond, params)
	case *ast.BranchIf:
		n.Cond = substituteTerm(n.Cond, params)
		substituteAlgo(n.Then, params)
		if n.Else != nil {
			substituteAlgo(n.Else, params)
		}
	}
}

func substituteTerm(t ast.Term, params map[string]ast.Atom) ast.Term {
	switch n := t.(type) {
	case nil:
		return nil
	case *ast.TermAtom:
		n.Atom = substituteAtom(n.Atom, params)
		return n
	case *ast.TermUnary:
		n.Operand = substituteTerm(n.Operand, params)
		return n
	case *ast.TermBinary:
		n.Left = substituteTerm(n.Left, params)
		n.Right = substituteTerm(n.Right, params)
		return n
	default:
		return t
	}
}

func substituteAtom(a ast.Atom, params map[string]ast.Atom) ast.Atom {
	ref, ok := a.(*ast.VarRef)
	if !ok {
		return a
	}
	if repl, ok := params[ref.Name]; ok {
		return ast.CloneAtom(repl)
	}
	return a
}
