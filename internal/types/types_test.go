package types

import (
	"strings"
	"testing"

	"splc/internal/ast"
	"splc/internal/parser"

	"github.com/stretchr/testify/require"
)

func check(t *testing.T, src string) *Result {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	ast.AssignIDs(prog)
	return Check(prog)
}

func containsAny(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestCheckAcceptsWellTypedProgram(t *testing.T) {
	r := check(t, `glob { total }
		proc { bump(x) { local { } total = ( total plus x ) ; halt } }
		func { double(n) { local { b } b = ( n plus n ) ; return b } }
		main { var { i }
			i = 0 ;
			while ( i > 0 ) { print i ; i = ( i minus 1 ) } ;
			if ( i eq 0 ) { halt } else { halt } }`)

	require.True(t, r.Diagnostics.Empty(), r.Diagnostics.Lines())
}

func TestCheckRejectsNumericWhileCondition(t *testing.T) {
	r := check(t, `glob { } proc { } func { } main { var { i } while i { halt } ; halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "while condition must be Boolean"))
}

func TestCheckRejectsNumericIfCondition(t *testing.T) {
	r := check(t, `glob { } proc { } func { } main { var { i } if i { halt } ; halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "if condition must be Boolean"))
}

func TestCheckRejectsBooleanAssignment(t *testing.T) {
	r := check(t, `glob { } proc { } func { } main { var { flag } flag = ( 1 eq 1 ) ; halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "assignment RHS must be Numeric"))
}

func TestCheckRejectsCallArityMismatch(t *testing.T) {
	r := check(t, `glob { } proc { p(a b) { local { } halt } } func { } main { var { } p ( 1 ) ; halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "arity mismatch"))
}

func TestCheckRejectsUnknownCallTarget(t *testing.T) {
	r := check(t, `glob { } proc { } func { } main { var { } ghost ( ) ; halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "is not a known procedure"))
}

func TestCheckAllowsAndOrOfComparisons(t *testing.T) {
	r := check(t, `glob { } proc { } func { } main { var { i }
		while ( ( i > 0 ) and ( i > 1 ) ) { halt } ; halt }`)

	require.True(t, r.Diagnostics.Empty(), r.Diagnostics.Lines())
}
