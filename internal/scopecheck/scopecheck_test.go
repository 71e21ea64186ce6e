package scopecheck

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

func TestCheckAcceptsWellScopedProgram(t *testing.T) {
	r := check(t, `glob { total }
		proc { bump(x) { local { } total = ( total plus x ) ; halt } }
		func { double(n) { local { } print n ; return n } }
		main { var { i }
			i = 0 ;
			while ( i > 0 ) { bump ( i ) ; i = ( i minus 1 ) } ;
			halt }`)

	require.True(t, r.Diagnostics.Empty(), r.Diagnostics.Lines())
}

func TestCheckReportsDuplicateGlobal(t *testing.T) {
	r := check(t, `glob { x x } proc { } func { } main { var { } halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "already declared"))
}

func TestCheckReportsProcFuncNameClash(t *testing.T) {
	r := check(t, `glob { }
		proc { p(x) { local { } halt } }
		func { p(x) { local { } print x ; return x } }
		main { var { } halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "conflicts with a function of the same name") ||
		containsAny(r.Diagnostics.Lines(), "conflicts with a procedure of the same name"))
}

func TestCheckReportsMainVarConflictsWithFunc(t *testing.T) {
	r := check(t, `glob { }
		proc { }
		func { inc(n) { local { } print n ; return n } }
		main { var { inc } halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "main variable 'inc' conflicts with a function name"))
}

func TestCheckReportsDuplicateParam(t *testing.T) {
	r := check(t, `glob { }
		proc { echo(a a) { local { } halt } }
		func { }
		main { var { } halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "already declared"))
}

func TestCheckReportsLocalShadowsParam(t *testing.T) {
	r := check(t, `glob { }
		proc { p(a) { local { a } halt } }
		func { }
		main { var { } halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "shadows a parameter of proc 'p'"))
}

func TestCheckReportsDuplicateLocal(t *testing.T) {
	r := check(t, `glob { }
		proc { p() { local { a a } halt } }
		func { }
		main { var { } halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "already declared"))
}

func TestCheckReportsUndeclaredVariable(t *testing.T) {
	r := check(t, `glob { } proc { } func { } main { var { } print missing ; halt }`)

	require.False(t, r.Diagnostics.Empty())
	require.True(t, containsAny(r.Diagnostics.Lines(), "'missing'"))
}

func TestCheckResolvesVarRefToDeclaration(t *testing.T) {
	prog, err := parser.Parse(`glob { total } proc { } func { } main { var { } print total ; halt }`)
	require.NoError(t, err)
	ast.AssignIDs(prog)
	r := Check(prog)
	require.True(t, r.Diagnostics.Empty(), r.Diagnostics.Lines())

	printInstr := prog.Main.Algo.Instrs[0].(*ast.Print)
	ref := printInstr.Output.(*ast.OutAtom).Atom.(*ast.VarRef)
	require.NotNil(t, ref.Resolved)
	require.Equal(t, "total", ref.Resolved.Name)
}
