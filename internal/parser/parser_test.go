package parser

import (
	"testing"

	"splc/internal/ast"

	"github.com/stretchr/testify/require"
)

func TestParseMinimalHello(t *testing.T) {
	prog, err := Parse(`glob { } proc { } func { } main { var { } halt }`)
	require.NoError(t, err)
	require.Empty(t, prog.Globals)
	require.Empty(t, prog.Procs)
	require.Empty(t, prog.Funcs)
	require.Len(t, prog.Main.Algo.Instrs, 1)
	_, ok := prog.Main.Algo.Instrs[0].(*ast.Halt)
	require.True(t, ok)
}

func TestParseSimpleAssignment(t *testing.T) {
	prog, err := Parse(`glob { } proc { } func { } main { var { x } x = 3 ; halt }`)
	require.NoError(t, err)
	require.Len(t, prog.Main.Algo.Instrs, 2)
	assign, ok := prog.Main.Algo.Instrs[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "x", assign.Target)
	termAtom, ok := assign.TermRHS.(*ast.TermAtom)
	require.True(t, ok)
	lit, ok := termAtom.Atom.(*ast.NumberLit)
	require.True(t, ok)
	require.Equal(t, 3, lit.Value)
}

func TestParseProcCallAndFuncCallAssign(t *testing.T) {
	src := `glob { } proc { p(x) { local { } halt } } func { f(a) { local { } print a ; return a } } main { var { y }
		p(1) ; y = f(2) ; halt }`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Procs, 1)
	require.Len(t, prog.Funcs, 1)
	require.Len(t, prog.Main.Algo.Instrs, 3)

	call, ok := prog.Main.Algo.Instrs[0].(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "p", call.Name)
	require.Len(t, call.Args, 1)

	assign, ok := prog.Main.Algo.Instrs[1].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "y", assign.Target)
	require.NotNil(t, assign.CallRHS)
	require.Equal(t, "f", assign.CallRHS.Name)
}

func TestParsePlainAssignmentOfVarNotMistakenForCall(t *testing.T) {
	// y = z ; the parser must not mistake this for a function call assign
	// just because z is an IDENT: only a following '(' makes it a call.
	prog, err := Parse(`glob { } proc { } func { } main { var { y z } y = z ; halt }`)
	require.NoError(t, err)
	assign, ok := prog.Main.Algo.Instrs[0].(*ast.Assign)
	require.True(t, ok)
	require.Nil(t, assign.CallRHS)
	termAtom, ok := assign.TermRHS.(*ast.TermAtom)
	require.True(t, ok)
	ref, ok := termAtom.Atom.(*ast.VarRef)
	require.True(t, ok)
	require.Equal(t, "z", ref.Name)
}

func TestParseWhileLoop(t *testing.T) {
	src := `glob { } proc { } func { } main { var { i }
		while ( i > 0 ) { print i ; i = ( i minus 1 ) } ; halt }`
	prog, err := Parse(src)
	require.NoError(t, err)
	loop, ok := prog.Main.Algo.Instrs[0].(*ast.LoopWhile)
	require.True(t, ok)
	require.Len(t, loop.Body.Instrs, 2)
}

func TestParseFunctionReturnNotAbsorbedBySemiGuard(t *testing.T) {
	// The ALGO guard must not consume the ';' before 'return' as another
	// instruction separator — 'return' is not in INSTR_START.
	prog, err := Parse(`glob { } proc { } func { f(a) { local { } print a ; return a } } main { var { } halt }`)
	require.NoError(t, err)
	require.Len(t, prog.Funcs, 1)
	require.Len(t, prog.Funcs[0].Body.Algo.Instrs, 1)
	ret, ok := prog.Funcs[0].Ret.(*ast.VarRef)
	require.True(t, ok)
	require.Equal(t, "a", ret.Name)
}

func TestParseIfElse(t *testing.T) {
	src := `glob { } proc { } func { } main { var { t }
		if ( t eq 0 ) { halt } else { print t } }`
	prog, err := Parse(src)
	require.NoError(t, err)
	branch, ok := prog.Main.Algo.Instrs[0].(*ast.BranchIf)
	require.True(t, ok)
	require.NotNil(t, branch.Else)
}

func TestParseUnaryAndBinaryTerms(t *testing.T) {
	src := `glob { } proc { } func { } main { var { x }
		x = ( neg 5 ) ; halt }`
	prog, err := Parse(src)
	require.NoError(t, err)
	assign := prog.Main.Algo.Instrs[0].(*ast.Assign)
	un, ok := assign.TermRHS.(*ast.TermUnary)
	require.True(t, ok)
	require.Equal(t, "neg", un.Op)
}

func TestParseMaxThreeBoundary(t *testing.T) {
	_, err := Parse(`glob { } proc { p(a b c) { local { } halt } } func { } main { var { } halt }`)
	require.NoError(t, err)

	// A fourth identifier in a param list is not consumed by MAXTHREE, so
	// the parser then expects ')' and fails on the extra IDENT.
	_, err = Parse(`glob { } proc { p(a b c d) { local { } halt } } func { } main { var { } halt }`)
	require.Error(t, err)
}

func TestParseSyntaxErrorPosition(t *testing.T) {
	_, err := Parse(`glob { proc { } func { } main { var { } halt }`)
	require.Error(t, err)
	// 'proc' at line 1, column 8 is where the closing '}' was expected.
	require.Contains(t, err.Error(), "(1:8)")
}
