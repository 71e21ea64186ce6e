package astprint

import (
	"strings"
	"testing"

	"splc/internal/ast"
	"splc/internal/parser"
	"splc/internal/scopecheck"

	"github.com/stretchr/testify/require"
)

func TestPrintIndentsNestedStructure(t *testing.T) {
	prog, err := parser.Parse(`glob { } proc { } func { } main { var { x }
		x = 3 ; print x ; halt }`)
	require.NoError(t, err)
	ast.AssignIDs(prog)
	sc := scopecheck.Check(prog)
	require.True(t, sc.Diagnostics.Empty())

	out := Print(prog)
	require.True(t, strings.HasPrefix(out, "Program(node_id=1)\n"))
	require.Contains(t, out, "\n  Main(node_id=2, variables=[x])\n    Algo(node_id=3) [3 instr]\n")
	require.Contains(t, out, "Assign(node_id=")
	require.Contains(t, out, "resolved=scope#")
	require.Contains(t, out, "NumberLit(node_id=")
}
