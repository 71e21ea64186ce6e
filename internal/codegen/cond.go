package codegen

import "splc/internal/ast"

// condGen emits code that, once control reaches it, transfers to trueLabel
// when t evaluates true. When falseLabel is non-empty it also transfers to
// falseLabel on false; when falseLabel is "" the false path is left to fall
// through to whatever the caller emits next.
//
// and/or are lowered with genuine short-circuit semantics: the reference
// compiler's expansion silently tested the right operand regardless of the
// left operand's value, because its relational leaf case never emitted the
// `GOTO falseLabel` fallthrough-skip its own mid-labels depended on. The
// leaf case below emits it whenever a falseLabel is given, and the and/or
// cases mint an SK_n anchor to skip to when none is, which is what makes
// the recursion below correct.
func (g *generator) condGen(t ast.Term, trueLabel, falseLabel string) {
	switch n := t.(type) {
	case *ast.TermBinary:
		switch n.Op {
		case "eq", ">":
			g.emit("IF %s %s %s THEN %s", termToText(n.Left), condSymbol(n.Op), termToText(n.Right), trueLabel)
			if falseLabel != "" {
				g.emit("GOTO %s", falseLabel)
			}
		case "or":
			g.condGen(n.Left, trueLabel, "")
			g.condGen(n.Right, trueLabel, falseLabel)
		case "and":
			target := falseLabel
			anchorNeeded := target == ""
			if anchorNeeded {
				target = g.newLabel("SK")
			}
			g.condGen(&ast.TermUnary{Op: "not", Operand: n.Left}, target, "")
			g.condGen(n.Right, trueLabel, falseLabel)
			if anchorNeeded {
				g.emit("REM %s", target)
			}
		}

	case *ast.TermUnary:
		if n.Op != "not" {
			return
		}
		if rel, ok := n.Operand.(*ast.TermBinary); ok && (rel.Op == "eq" || rel.Op == ">") {
			g.emit("IF NOT %s %s %s THEN %s", termToText(rel.Left), condSymbol(rel.Op), termToText(rel.Right), trueLabel)
			if falseLabel != "" {
				g.emit("GOTO %s", falseLabel)
			}
			return
		}
		if falseLabel == "" {
			anchor := g.newLabel("SK")
			g.condGen(n.Operand, anchor, trueLabel)
			g.emit("REM %s", anchor)
			return
		}
		g.condGen(n.Operand, falseLabel, trueLabel)
	}
}

func condSymbol(op string) string {
	if op == "eq" {
		return "="
	}
	return op
}

// simpleCondText renders a bare relational condition (eq/>) as text, for
// the literal `IF NOT (<C>) THEN DO_n` form do-until uses when its
// condition isn't a compound and/or expression.
func simpleCondText(t ast.Term) (string, bool) {
	n, ok := t.(*ast.TermBinary)
	if !ok || (n.Op != "eq" && n.Op != ">") {
		return "", false
	}
	return termToText(n.Left) + " " + condSymbol(n.Op) + " " + termToText(n.Right), true
}
