package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownRegister(t *testing.T) {
	r, ok := Resolve("ax")
	require.True(t, ok)
	assert.Equal(t, Bits16, r.Size)
	assert.True(t, r.Supports16)
	assert.True(t, r.Supports32)
	assert.True(t, r.Supports64)
}

func TestResolveUnknownRegister(t *testing.T) {
	_, ok := Resolve("nope")
	assert.False(t, ok)
}

func TestSupportsRegister(t *testing.T) {
	assert.True(t, SupportsRegister("rax"))
	assert.False(t, SupportsRegister("ymm0"))
}

func TestExtendedByteRegistersRejectedUnder16And32BitModes(t *testing.T) {
	r, ok := Resolve("r8b")
	require.True(t, ok)
	assert.False(t, SupportedByBitMode(r, Mode16))
	assert.False(t, SupportedByBitMode(r, Mode32))
	assert.True(t, SupportedByBitMode(r, Mode64))
}

func TestR16ThroughR31RequireAPX(t *testing.T) {
	r, ok := Resolve("r16")
	require.True(t, ok)
	require.Len(t, r.Extensions, 1)
	assert.Equal(t, ExtAPX, r.Extensions[0])

	r8, ok := Resolve("r8")
	require.True(t, ok)
	assert.Empty(t, r8.Extensions)
}

func TestRegisterIndexWithinOpcodeRange(t *testing.T) {
	for _, name := range []string{"al", "ax", "eax", "rax", "r15", "r31"} {
		r, ok := Resolve(name)
		require.True(t, ok, name)
		require.NotNil(t, r.RegisterIndex, name)
		assert.GreaterOrEqual(t, *r.RegisterIndex, 0)
		assert.LessOrEqual(t, *r.RegisterIndex, 7)
	}
}

func Test64BitLegacyRegistersOnlyLegalIn64BitMode(t *testing.T) {
	r, ok := Resolve("rbx")
	require.True(t, ok)
	assert.False(t, SupportedByBitMode(r, Mode16))
	assert.False(t, SupportedByBitMode(r, Mode32))
	assert.True(t, SupportedByBitMode(r, Mode64))
}
