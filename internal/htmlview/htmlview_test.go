package htmlview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderAnchorsLabelsAndLinksJumps(t *testing.T) {
	out := Render([]string{
		"REM WH1",
		"IF i > 0 THEN WB2",
		"GOTO WE3",
		"REM WB2",
		"PRINT i",
		"REM WE3",
	})

	require.Contains(t, out, `<a id="WH1"></a>`)
	require.Contains(t, out, `<a id="WB2"></a>`)
	require.Contains(t, out, `<a id="WE3"></a>`)
	require.Contains(t, out, `THEN <a href="#WB2">WB2</a>`)
	require.Contains(t, out, `GOTO <a href="#WE3">WE3</a>`)
	require.Contains(t, out, "<title>Intermediate Code</title>")
}
