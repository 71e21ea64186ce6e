package basicify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmitNumbersAndResolvesWhileLoop(t *testing.T) {
	intermediate := []string{
		"REM WH1",
		"IF i > 0 THEN WB2",
		"GOTO WE3",
		"REM WB2",
		"PRINT i",
		"i = (i - 1)",
		"GOTO WH1",
		"REM WE3",
		"STOP",
	}

	numbered, err := Emit(intermediate)
	require.NoError(t, err)
	require.Equal(t, []Numbered{
		{10, "REM WH1"},
		{20, "IF i > 0 THEN 40"},
		{30, "GOTO 80"},
		{40, "REM WB2"},
		{50, "PRINT i"},
		{60, "i = (i - 1)"},
		{70, "GOTO 10"},
		{80, "REM WE3"},
		{90, "STOP"},
	}, numbered)
}

func TestEmitRetainsRemLinesAsNumberedLines(t *testing.T) {
	numbered, err := Emit([]string{"REM T1", "STOP", "REM X2"})
	require.NoError(t, err)
	require.Len(t, numbered, 3)
	require.Equal(t, 10, numbered[0].Line)
	require.Equal(t, "REM T1", numbered[0].Text)
	require.Equal(t, 20, numbered[1].Line)
	require.Equal(t, 30, numbered[2].Line)
}

func TestEmitUnresolvedLabelIsFatal(t *testing.T) {
	_, err := Emit([]string{"GOTO NOPE1", "STOP"})
	require.Error(t, err)
}

func TestEmitDuplicateLabelIsFatal(t *testing.T) {
	_, err := Emit([]string{"REM T1", "STOP", "REM T1"})
	require.Error(t, err)
}

func TestRenderFormatsLineSpaceStatement(t *testing.T) {
	out := Render([]Numbered{{10, "PRINT 1"}, {20, "STOP"}})
	require.Equal(t, "10 PRINT 1\n20 STOP\n", out)
}
