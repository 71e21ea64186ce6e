package lexer

import (
	"testing"

	"splc/internal/token"

	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := All(src)
	require.NoError(t, err)
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestKeywordsAndIdents(t *testing.T) {
	ks := kinds(t, "glob main var return if else while do until print halt neg not eq or and plus minus mult div >")
	require.Equal(t, token.Glob, ks[0])
	require.Equal(t, token.Main, ks[1])
	require.Equal(t, token.Var, ks[2])
	require.Equal(t, token.Return, ks[3])
	require.Equal(t, token.Div, ks[len(ks)-3])
	require.Equal(t, token.Gt, ks[len(ks)-2])
	require.Equal(t, token.EOF, ks[len(ks)-1])

	toks2, err := All("globe var1 eqeq plus1")
	require.NoError(t, err)
	for i, want := range []string{"globe", "var1", "eqeq", "plus1"} {
		require.Equal(t, token.IDENT, toks2[i].Kind)
		require.Equal(t, want, toks2[i].Lexeme)
	}
}

func TestNumbersValidAndTokenization(t *testing.T) {
	toks, err := All("0 7 42 999")
	require.NoError(t, err)
	for i, want := range []string{"0", "7", "42", "999"} {
		require.Equal(t, token.NUMBER, toks[i].Kind)
		require.Equal(t, want, toks[i].Lexeme)
	}

	toks2, err := All("01")
	require.NoError(t, err)
	require.Equal(t, token.NUMBER, toks2[0].Kind)
	require.Equal(t, "0", toks2[0].Lexeme)
	require.Equal(t, token.NUMBER, toks2[1].Kind)
	require.Equal(t, "1", toks2[1].Lexeme)
}

func TestStringsValid(t *testing.T) {
	toks, err := All(`"OK" "abc123" "A1B2C3" ""`)
	require.NoError(t, err)
	for i, want := range []string{"OK", "abc123", "A1B2C3", ""} {
		require.Equal(t, token.STRING, toks[i].Kind)
		require.Equal(t, want, toks[i].Lexeme)
	}
}

func TestStringsInvalidNonAlnum(t *testing.T) {
	_, err := All(`"ab_cd"`)
	require.Error(t, err)
	_, err = All(`"space here"`)
	require.Error(t, err)
}

func TestStringsBoundaryLength(t *testing.T) {
	long15 := "AAAAAAAAAAAAAAA" // 15 chars
	toks, err := All(`"` + long15 + `"`)
	require.NoError(t, err)
	require.Equal(t, long15, toks[0].Lexeme)

	_, err = All(`"ABCDEFGHIJKLMNOP"`) // 16 chars
	require.Error(t, err)
}

func TestStringsUnterminated(t *testing.T) {
	_, err := All(`"unterminated`)
	require.Error(t, err)
}

func TestPunctAndOps(t *testing.T) {
	ks := kinds(t, "{ } ( ) ; = >")
	require.Equal(t, []token.Kind{
		token.LBrace, token.RBrace, token.LParen, token.RParen,
		token.Semi, token.Assign, token.Gt, token.EOF,
	}, ks)
}

func TestWhitespaceAndPositions(t *testing.T) {
	toks, err := All("glob  { \n  x   \n}\n")
	require.NoError(t, err)
	require.Equal(t, token.Glob, toks[0].Kind)
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 1, toks[0].Col)
	require.Equal(t, token.LBrace, toks[1].Kind)
	require.Equal(t, 1, toks[1].Line)
	require.Equal(t, token.IDENT, toks[2].Kind)
	require.Equal(t, "x", toks[2].Lexeme)
	require.Equal(t, 2, toks[2].Line)
	require.Equal(t, 3, toks[2].Col)
	require.Equal(t, token.RBrace, toks[3].Kind)
	require.Equal(t, 3, toks[3].Line)
	require.Equal(t, 1, toks[3].Col)
	require.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

func TestUnknownCharacter(t *testing.T) {
	_, err := All("x & y")
	require.Error(t, err)
}
