package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrov/flatasm/internal/token"
)

func tokensOf(t *testing.T, src string) []token.Token {
	t.Helper()
	l := NewFromReadSeeker(strings.NewReader(src))
	var out []token.Token
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func TestDirectiveAndMnemonicClassification(t *testing.T) {
	toks := tokensOf(t, "@SetBitMode(16)\njmp start\n")
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Contains(t, kinds, token.ReservedSetBitMode)
	assert.Contains(t, kinds, token.InstructionJmp)
	assert.Contains(t, kinds, token.Identifier)
}

func TestNumericBases(t *testing.T) {
	toks := tokensOf(t, "0x1A 0b101 42")
	var numbers []string
	for _, tok := range toks {
		if tok.Kind == token.Number {
			numbers = append(numbers, tok.Lexeme)
		}
	}
	assert.Equal(t, []string{"0x1A", "0b101", "42"}, numbers)
}

func TestLineCommentDiscarded(t *testing.T) {
	toks := tokensOf(t, "ax ; a comment\n= 1")
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.NotContains(t, kinds, token.SymbolSemicolon)
}

func TestSlashSlashCommentDiscarded(t *testing.T) {
	toks := tokensOf(t, "ax // trailing\n")
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, token.NewLine, toks[1].Kind)
}

func TestFlatMultilineCommentTerminatesOnFirstStarSlash(t *testing.T) {
	toks := tokensOf(t, "/* one */ ax")
	assert.Equal(t, token.Identifier, toks[0].Kind)
}

func TestUnterminatedMultilineCommentFails(t *testing.T) {
	l := NewFromReadSeeker(strings.NewReader("/* never closes"))
	_, err := l.NextToken()
	require.Error(t, err)
}

func TestStringWithEscapedQuote(t *testing.T) {
	toks := tokensOf(t, `"a\"b"`)
	require.Equal(t, token.Literal, toks[0].Kind)
	assert.Equal(t, `a"b`, toks[0].Lexeme)
}

func TestUnterminatedStringFails(t *testing.T) {
	l := NewFromReadSeeker(strings.NewReader(`"no closing quote`))
	_, err := l.NextToken()
	require.Error(t, err)
}

func TestBareNewlineInStringFails(t *testing.T) {
	l := NewFromReadSeeker(strings.NewReader("\"line one\nline two\""))
	_, err := l.NextToken()
	require.Error(t, err)
}

func TestTripleQuotedMultilineString(t *testing.T) {
	toks := tokensOf(t, "\"\"\"line one\nline two\"\"\"")
	require.Equal(t, token.Literal, toks[0].Kind)
	assert.Equal(t, "line one\nline two", toks[0].Lexeme)
}

func TestReinitIsIdempotent(t *testing.T) {
	l := NewFromReadSeeker(strings.NewReader("ax = 1\n"))
	first, err := l.NextToken()
	require.NoError(t, err)
	require.NoError(t, l.Reinit())
	second, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSimpleSymbols(t *testing.T) {
	toks := tokensOf(t, "@ * : , = ( ) - + ;\n")
	want := []token.Kind{
		token.SymbolAt, token.SymbolAsterisk, token.SymbolColon, token.SymbolComma,
		token.SymbolEquals, token.SymbolLeftParenthesis, token.SymbolRightParenthesis,
		token.SymbolMinus, token.SymbolPlus,
	}
	var got []token.Kind
	for _, tok := range toks {
		if tok.Kind != token.NewLine && tok.Kind != token.EOF {
			got = append(got, tok.Kind)
		}
	}
	assert.Equal(t, want, got)
}
