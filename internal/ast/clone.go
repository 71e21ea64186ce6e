package ast

// CloneAtom deep-copies a single atom. Exported for the code generator's
// parameter-substitution pass, which must give each substituted occurrence
// its own copy rather than aliasing one argument atom across every
// occurrence of the parameter it replaces.
func CloneAtom(a Atom) Atom {
	return cloneAtom(a)
}

// CloneAlgo deep-copies an Algo subtree. The code generator uses this to
// give every inlined call site its own independent copy of the callee's
// body, so substituting parameters or minting labels for one call site
// never mutates another.
func CloneAlgo(a *Algo) *Algo {
	if a == nil {
		return nil
	}
	out := &Algo{NodeID: a.NodeID}
	for _, instr := range a.Instrs {
		out.Instrs = append(out.Instrs, cloneInstr(instr))
	}
	return out
}

func cloneInstr(instr Instr) Instr {
	switch n := instr.(type) {
	case *Halt:
		return &Halt{NodeID: n.NodeID}
	case *Print:
		return &Print{NodeID: n.NodeID, Output: cloneOutput(n.Output)}
	case *Call:
		return cloneCall(n)
	case *Assign:
		out := &Assign{NodeID: n.NodeID, Target: n.Target, Resolved: n.Resolved}
		if n.CallRHS != nil {
			out.CallRHS = cloneCall(n.CallRHS)
		} else {
			out.TermRHS = cloneTerm(n.TermRHS)
		}
		return out
	case *LoopWhile:
		return &LoopWhile{NodeID: n.NodeID, Cond: cloneTerm(n.Cond), Body: CloneAlgo(n.Body)}
	case *LoopDoUntil:
		return &LoopDoUntil{NodeID: n.NodeID, Body: CloneAlgo(n.Body), Cond: cloneTerm(n.Cond)}
	case *BranchIf:
		out := &BranchIf{NodeID: n.NodeID, Cond: cloneTerm(n.Cond), Then: CloneAlgo(n.Then)}
		if n.Else != nil {
			out.Else = CloneAlgo(n.Else)
		}
		return out
	default:
		panic("ast: cloneInstr: unhandled instr variant")
	}
}

func cloneCall(n *Call) *Call {
	out := &Call{NodeID: n.NodeID, Name: n.Name}
	for _, a := range n.Args {
		out.Args = append(out.Args, cloneAtom(a))
	}
	return out
}

func cloneTerm(t Term) Term {
	switch n := t.(type) {
	case nil:
		return nil
	case *TermAtom:
		return &TermAtom{NodeID: n.NodeID, Atom: cloneAtom(n.Atom)}
	case *TermUnary:
		return &TermUnary{NodeID: n.NodeID, Op: n.Op, Operand: cloneTerm(n.Operand)}
	case *TermBinary:
		return &TermBinary{NodeID: n.NodeID, Left: cloneTerm(n.Left), Op: n.Op, Right: cloneTerm(n.Right)}
	default:
		panic("ast: cloneTerm: unhandled term variant")
	}
}

func cloneAtom(a Atom) Atom {
	switch n := a.(type) {
	case nil:
		return nil
	case *VarRef:
		return &VarRef{NodeID: n.NodeID, Name: n.Name, Resolved: n.Resolved}
	case *NumberLit:
		return &NumberLit{NodeID: n.NodeID, Value: n.Value}
	default:
		panic("ast: cloneAtom: unhandled atom variant")
	}
}

func cloneOutput(o Output) Output {
	switch n := o.(type) {
	case nil:
		return nil
	case *OutAtom:
		return &OutAtom{NodeID: n.NodeID, Atom: cloneAtom(n.Atom)}
	case *OutString:
		return &OutString{NodeID: n.NodeID, Text: n.Text}
	default:
		panic("ast: cloneOutput: unhandled output variant")
	}
}
