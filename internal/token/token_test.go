package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupDirectiveIsCaseSensitive(t *testing.T) {
	k, ok := LookupDirective("SetBitMode")
	assert.True(t, ok)
	assert.Equal(t, ReservedSetBitMode, k)

	_, ok = LookupDirective("setbitmode")
	assert.False(t, ok)
}

func TestLookupDirectiveOriginMapsToReservedStart(t *testing.T) {
	k, ok := LookupDirective("Origin")
	assert.True(t, ok)
	assert.Equal(t, ReservedStart, k)
}

func TestLookupMnemonicIsCaseInsensitiveOnLoweredInput(t *testing.T) {
	k, ok := LookupMnemonic("jmp")
	assert.True(t, ok)
	assert.Equal(t, InstructionJmp, k)

	_, ok = LookupMnemonic("JMP")
	assert.False(t, ok, "caller must lowercase before calling LookupMnemonic")
}

func TestUnknownIdentifierIsNotReserved(t *testing.T) {
	_, ok := LookupDirective("start")
	assert.False(t, ok)
	_, ok = LookupMnemonic("start")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "InstructionJmp", InstructionJmp.String())
	assert.Equal(t, "EOF", EOF.String())
}
