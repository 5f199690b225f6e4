package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrov/flatasm/internal/codegen"
	"github.com/mpetrov/flatasm/internal/lexer"
)

func assemble(t *testing.T, src string) ([]byte, *codegen.Generator) {
	t.Helper()
	l := NewLexerFromString(src)
	var buf bytes.Buffer
	gen := codegen.New(&buf)
	p := New(l, gen)
	require.NoError(t, p.Assemble())
	return buf.Bytes(), gen
}

// NewLexerFromString is a small test helper living alongside the
// tests that need it rather than in the lexer package itself, since
// only tests construct a lexer directly over a string.
func NewLexerFromString(src string) *lexer.Lexer {
	return lexer.NewFromReadSeeker(strings.NewReader(src))
}

func TestEndToEndScenario1MoveAX(t *testing.T) {
	out, _ := assemble(t, "@SetBitMode(16)\nax = 0x1234\n")
	assert.Equal(t, []byte{0xB8, 0x34, 0x12}, out)
}

func TestEndToEndScenario2MoveAL(t *testing.T) {
	out, _ := assemble(t, "@SetBitMode(16)\nal = 0x7F\n")
	assert.Equal(t, []byte{0xB0, 0x7F}, out)
}

func TestEndToEndScenario3MoveEAX(t *testing.T) {
	out, _ := assemble(t, "@SetBitMode(16)\neax = 0x11223344\n")
	assert.Equal(t, []byte{0x66, 0xB8, 0x44, 0x33, 0x22, 0x11}, out)
}

func TestEndToEndScenario4SelfJump(t *testing.T) {
	out, _ := assemble(t, "@SetOrigin(0x7C00)\nL: jmp L\n")
	assert.Equal(t, []byte{0xEB, 0xFE}, out)
}

func TestEndToEndScenario5PadBytes(t *testing.T) {
	out, _ := assemble(t, "@SetBitMode(16)\n@PadBytes(4, 0x90)\n")
	assert.Equal(t, []byte{0x90, 0x90, 0x90, 0x90}, out)
}

func TestEndToEndScenario6BootSector(t *testing.T) {
	src := "@SetBitMode(16)\n@SetOrigin(0)\nstart:\n  ax = 0x1234\n  jmp start\n@PadBytes(510 - (@Current() - @Origin()))\n@DoubleWords(0xAA55)\n"
	out, _ := assemble(t, src)
	require.Len(t, out, 512)
	assert.Equal(t, []byte{0x55, 0xAA}, out[510:512])
}

func TestUnknownDirectiveFails(t *testing.T) {
	l := NewLexerFromString("@Nonsense(1)\n")
	gen := codegen.New(nil)
	p := New(l, gen)
	require.Error(t, p.Assemble())
}

func TestUnsupportedRegisterFails(t *testing.T) {
	l := NewLexerFromString("@SetBitMode(16)\nzzz = 0x1\n")
	gen := codegen.New(nil)
	p := New(l, gen)
	require.Error(t, p.Assemble())
}

func TestCompoundAssignmentIsUnimplemented(t *testing.T) {
	l := NewLexerFromString("@SetBitMode(16)\nax += 0x1\n")
	gen := codegen.New(nil)
	p := New(l, gen)
	require.Error(t, p.Assemble())
}

func TestOnStatementFiresForEveryStatementInBothPasses(t *testing.T) {
	l := NewLexerFromString("@SetBitMode(16)\nax = 0x1234\n")
	var buf bytes.Buffer
	gen := codegen.New(&buf)
	p := New(l, gen)

	var kinds []string
	p.OnStatement = func(kind, lexeme string) {
		kinds = append(kinds, kind)
	}
	require.NoError(t, p.Assemble())

	// one directive + one assignment statement, observed once per pass.
	require.Len(t, kinds, 4)
}

func TestOnPassCompleteFiresAfterEachPassWithPendingJumps(t *testing.T) {
	l := NewLexerFromString("@SetOrigin(0x7C00)\nL: jmp L\n")
	var buf bytes.Buffer
	gen := codegen.New(&buf)
	p := New(l, gen)

	var passes []codegen.Pass
	var sizes []int
	p.OnPassComplete = func(pass codegen.Pass, pending []codegen.PendingJumpInfo) {
		passes = append(passes, pass)
		require.Len(t, pending, 1)
		sizes = append(sizes, pending[0].Size)
	}
	require.NoError(t, p.Assemble())

	require.Len(t, passes, 2)
	assert.Equal(t, codegen.PassFirst, passes[0])
	assert.Equal(t, codegen.PassSecond, passes[1])
	assert.Equal(t, 2, sizes[0], "worst-case width reported after pass one")
	assert.Equal(t, 1, sizes[1], "tightened width reported after pass two")
}

func TestPadBytesConstExprNoPrecedenceLeftToRight(t *testing.T) {
	// 2 + 3 * 4 parses as 2 + (3 * 4) by right-recursion, i.e. 14,
	// not (2+3)*4 = 20 and not left-assoc (2+3)*4: spec mandates
	// each operator recurses right, so this is 2 + (3*4) = 14.
	out, _ := assemble(t, "@SetBitMode(16)\n@PadBytes(2 + 3 * 4)\n")
	assert.Len(t, out, 14)
}
