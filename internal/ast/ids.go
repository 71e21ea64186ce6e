package ast

// AssignIDs performs a single deterministic DFS pre-order pass over the
// whole tree, stamping every node with a unique, positive, monotonically
// increasing NodeID starting at 1. It is a separate pass run once,
// immediately after parsing completes — parsing itself never assigns ids.
// Running AssignIDs again on an already-id'd tree reassigns the same ids in
// the same order, so it is idempotent modulo the reassignment itself.
func AssignIDs(p *Program) {
	c := &idCounter{}
	c.program(p)
}

type idCounter struct {
	next int
}

func (c *idCounter) take() int {
	c.next++
	return c.next
}

func (c *idCounter) program(p *Program) {
	p.NodeID = c.take()
	for _, pd := range p.Procs {
		c.procDef(pd)
	}
	for _, fd := range p.Funcs {
		c.funcDef(fd)
	}
	if p.Main != nil {
		c.main(p.Main)
	}
}

func (c *idCounter) procDef(pd *ProcDef) {
	pd.NodeID = c.take()
	c.body(pd.Body)
}

func (c *idCounter) funcDef(fd *FuncDef) {
	fd.NodeID = c.take()
	c.body(fd.Body)
	c.atom(fd.Ret)
}

func (c *idCounter) body(b *Body) {
	b.NodeID = c.take()
	c.algo(b.Algo)
}

func (c *idCounter) main(m *Main) {
	m.NodeID = c.take()
	c.algo(m.Algo)
}

func (c *idCounter) algo(a *Algo) {
	a.NodeID = c.take()
	for _, instr := range a.Instrs {
		c.instr(instr)
	}
}

func (c *idCounter) instr(instr Instr) {
	instr.SetID(c.take())
	switch n := instr.(type) {
	case *Halt:
		// leaf
	case *Print:
		c.output(n.Output)
	case *Call:
		for _, a := range n.Args {
			c.atom(a)
		}
	case *Assign:
		if n.CallRHS != nil {
			n.CallRHS.SetID(c.take())
			for _, a := range n.CallRHS.Args {
				c.atom(a)
			}
		} else {
			c.term(n.TermRHS)
		}
	case *LoopWhile:
		c.term(n.Cond)
		c.algo(n.Body)
	case *LoopDoUntil:
		c.algo(n.Body)
		c.term(n.Cond)
	case *BranchIf:
		c.term(n.Cond)
		c.algo(n.Then)
		if n.Else != nil {
			c.algo(n.Else)
		}
	}
}

func (c *idCounter) term(t Term) {
	if t == nil {
		return
	}
	t.SetID(c.take())
	switch n := t.(type) {
	case *TermAtom:
		c.atom(n.Atom)
	case *TermUnary:
		c.term(n.Operand)
	case *TermBinary:
		c.term(n.Left)
		c.term(n.Right)
	}
}

func (c *idCounter) atom(a Atom) {
	if a == nil {
		return
	}
	a.SetID(c.take())
}

func (c *idCounter) output(o Output) {
	if o == nil {
		return
	}
	o.SetID(c.take())
	if oa, ok := o.(*OutAtom); ok {
		c.atom(oa.Atom)
	}
}
