// Package scopecheck builds the scope tree for a parsed, id-assigned SPL
// program and resolves every variable use to its declaration. It runs in
// three phases — base scopes, declarations, use resolution — as described
// in spec.md §4.3, implementing in full the use-resolution pass
// (param→local→global / main→global) that the reference implementation
// this was distilled from left unimplemented.
package scopecheck

import (
	"fmt"
	"sort"

	"splc/internal/ast"
	"splc/internal/report"
	"splc/internal/symtab"
)

// Result bundles the completed symbol table with the scope checker's
// collected diagnostics. The checker never aborts early: it always returns
// a complete (possibly partial) scope tree and resolution map.
type Result struct {
	Table       *symtab.SymbolTable
	Diagnostics *report.Bag
}

type checker struct {
	prog        *ast.Program
	st          *symtab.SymbolTable
	localScopes map[string]*symtab.Scope // def name -> its Local scope
	diags       report.Bag
}

// Check runs all three phases over prog, which must already have node_ids
// assigned via ast.AssignIDs.
func Check(prog *ast.Program) *Result {
	c := &checker{
		prog:        prog,
		st:          symtab.New(),
		localScopes: map[string]*symtab.Scope{},
	}

	// Phase B — declarations.
	c.collectGlobals()
	c.collectProcs()
	c.collectFuncs()
	c.collectMainVars()
	c.checkCrossCategoryClashes()
	c.buildLocalScopes()

	// Phase C — use resolution.
	c.resolveUses()

	return &Result{Table: c.st, Diagnostics: &c.diags}
}

// declare inserts name into scope, reporting DuplicateName and keeping the
// first declaration if name is already present locally in scope.
func (c *checker) declare(scope *symtab.Scope, name string, kind symtab.EntryKind, declNodeID int) *symtab.Entry {
	if existing, ok := scope.LookupLocal(name); ok {
		c.diags.Add(report.Diagnostic{
			Kind:      report.KindDuplicateName,
			Message:   fmt.Sprintf("'%s' is already declared in this scope (first at node #%d)", name, existing.DeclNodeID),
			NodeID:    declNodeID,
			ScopePath: scope.Path(),
		})
		return existing
	}
	return scope.Define(name, kind, declNodeID)
}

func (c *checker) collectGlobals() {
	for _, name := range c.prog.Globals {
		c.declare(c.st.Global, name, symtab.KindVar, c.prog.NodeID)
	}
}

func (c *checker) collectProcs() {
	for _, pd := range c.prog.Procs {
		if _, ok := c.st.Function.LookupLocal(pd.Name); ok {
			c.diags.Add(report.Diagnostic{
				Kind:      report.KindCrossCategoryClash,
				Message:   fmt.Sprintf("procedure '%s' conflicts with a function of the same name", pd.Name),
				NodeID:    pd.NodeID,
				ScopePath: c.st.Everywhere.Path(),
			})
		}
		c.declare(c.st.Procedure, pd.Name, symtab.KindProc, pd.NodeID)
	}
}

func (c *checker) collectFuncs() {
	for _, fd := range c.prog.Funcs {
		if _, ok := c.st.Procedure.LookupLocal(fd.Name); ok {
			c.diags.Add(report.Diagnostic{
				Kind:      report.KindCrossCategoryClash,
				Message:   fmt.Sprintf("function '%s' conflicts with a procedure of the same name", fd.Name),
				NodeID:    fd.NodeID,
				ScopePath: c.st.Everywhere.Path(),
			})
		}
		c.declare(c.st.Function, fd.Name, symtab.KindFunc, fd.NodeID)
	}
}

func (c *checker) collectMainVars() {
	for _, name := range c.prog.Main.Variables {
		c.declare(c.st.Main, name, symtab.KindVar, c.prog.Main.NodeID)
	}
}

// checkCrossCategoryClashes enforces, at Everywhere: no variable name
// (global or main) may equal any proc/func name; no proc name may equal
// any func name (already checked above while collecting).
func (c *checker) checkCrossCategoryClashes() {
	check := func(scope *symtab.Scope, label string) {
		names := make([]string, 0, len(scope.Table))
		for name := range scope.Table {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, ok := c.st.Procedure.LookupLocal(name); ok {
				c.diags.Add(report.Diagnostic{
					Kind:      report.KindCrossCategoryClash,
					Message:   fmt.Sprintf("%s variable '%s' conflicts with a procedure name", label, name),
					ScopePath: c.st.Everywhere.Path(),
				})
			}
			if _, ok := c.st.Function.LookupLocal(name); ok {
				c.diags.Add(report.Diagnostic{
					Kind:      report.KindCrossCategoryClash,
					Message:   fmt.Sprintf("%s variable '%s' conflicts with a function name", label, name),
					ScopePath: c.st.Everywhere.Path(),
				})
			}
		}
	}
	check(c.st.Global, "global")
	check(c.st.Main, "main")
}

func (c *checker) buildLocalScopes() {
	for _, pd := range c.prog.Procs {
		scope := c.st.NewLocal(pd.Name)
		c.localScopes[pd.Name] = scope
		c.populateParamsAndLocals(scope, pd.Name, "proc", pd.NodeID, pd.Params, pd.Body)
	}
	for _, fd := range c.prog.Funcs {
		scope := c.st.NewLocal(fd.Name)
		c.localScopes[fd.Name] = scope
		c.populateParamsAndLocals(scope, fd.Name, "func", fd.NodeID, fd.Params, fd.Body)
	}
}

func (c *checker) populateParamsAndLocals(scope *symtab.Scope, defName, defKindLabel string, defNodeID int, params []string, body *ast.Body) {
	seen := map[string]bool{}
	for _, p := range params {
		seen[p] = true
		c.declare(scope, p, symtab.KindParam, defNodeID)
	}
	for _, l := range body.Locals {
		if seen[l] {
			c.diags.Add(report.Diagnostic{
				Kind:      report.KindParamShadowed,
				Message:   fmt.Sprintf("local '%s' shadows a parameter of %s '%s'", l, defKindLabel, defName),
				NodeID:    body.NodeID,
				ScopePath: scope.Path(),
			})
			continue
		}
		c.declare(scope, l, symtab.KindVar, body.NodeID)
	}
}

// resolveUses walks every Algo in the program and mutates each VarRef's
// Resolved field in place.
func (c *checker) resolveUses() {
	for _, pd := range c.prog.Procs {
		c.resolveAlgo(pd.Body.Algo, c.localScopes[pd.Name])
	}
	for _, fd := range c.prog.Funcs {
		c.resolveAlgo(fd.Body.Algo, c.localScopes[fd.Name])
		c.resolveAtom(fd.Ret, c.localScopes[fd.Name])
	}
	c.resolveAlgo(c.prog.Main.Algo, c.st.Main)
}

func (c *checker) resolveAlgo(algo *ast.Algo, scope *symtab.Scope) {
	for _, instr := range algo.Instrs {
		c.resolveInstr(instr, scope)
	}
}

func (c *checker) resolveInstr(instr ast.Instr, scope *symtab.Scope) {
	switch n := instr.(type) {
	case *ast.Halt:
	case *ast.Print:
		if oa, ok := n.Output.(*ast.OutAtom); ok {
			c.resolveAtom(oa.Atom, scope)
		}
	case *ast.Call:
		for _, a := range n.Args {
			c.resolveAtom(a, scope)
		}
	case *ast.Assign:
		if n.CallRHS != nil {
			for _, a := range n.CallRHS.Args {
				c.resolveAtom(a, scope)
			}
		} else {
			c.resolveTerm(n.TermRHS, scope)
		}
		if e, ok := c.lookupFromScope(scope, n.Target); ok {
			n.Resolved = e
		} else {
			c.diags.Add(report.Diagnostic{
				Kind:      report.KindUndeclaredVariable,
				Message:   fmt.Sprintf("'%s' at node #%d in scope %s", n.Target, n.NodeID, scope.Path()),
				NodeID:    n.NodeID,
				ScopePath: scope.Path(),
			})
		}
	case *ast.LoopWhile:
		c.resolveTerm(n.Cond, scope)
		c.resolveAlgo(n.Body, scope)
	case *ast.LoopDoUntil:
		c.resolveAlgo(n.Body, scope)
		c.resolveTerm(n.Cond, scope)
	case *ast.BranchIf:
		c.resolveTerm(n.Cond, scope)
		c.resolveAlgo(n.Then, scope)
		if n.Else != nil {
			c.resolveAlgo(n.Else, scope)
		}
	}
}

func (c *checker) resolveTerm(t ast.Term, scope *symtab.Scope) {
	switch n := t.(type) {
	case nil:
	case *ast.TermAtom:
		c.resolveAtom(n.Atom, scope)
	case *ast.TermUnary:
		c.resolveTerm(n.Operand, scope)
	case *ast.TermBinary:
		c.resolveTerm(n.Left, scope)
		c.resolveTerm(n.Right, scope)
	}
}

func (c *checker) resolveAtom(a ast.Atom, scope *symtab.Scope) {
	ref, ok := a.(*ast.VarRef)
	if !ok {
		return
	}
	if e, ok := c.lookupFromScope(scope, ref.Name); ok {
		ref.Resolved = e
		return
	}
	c.diags.Add(report.Diagnostic{
		Kind:      report.KindUndeclaredVariable,
		Message:   fmt.Sprintf("'%s' at node #%d in scope %s", ref.Name, ref.NodeID, scope.Path()),
		NodeID:    ref.NodeID,
		ScopePath: scope.Path(),
	})
}

// lookupFromScope implements the fixed lookup order: from a proc/func Local
// scope, param → local → global (both live in the same Local.Table plus its
// Global parent, so a direct Resolve up the parent chain already gives
// param/local before global); from Main, main → global. Main's parent is
// Everywhere, not Global, so the Main case looks in Main's own table and
// then in Global explicitly. Procedure and Function scopes are never
// consulted here because they are not ancestors of a Local scope and the
// Main case never climbs past Main.
func (c *checker) lookupFromScope(scope *symtab.Scope, name string) (*symtab.Entry, bool) {
	if scope == c.st.Main {
		if e, ok := scope.LookupLocal(name); ok {
			return e, true
		}
		return c.st.Global.LookupLocal(name)
	}
	return scope.Resolve(name)
}
