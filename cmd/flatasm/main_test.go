package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleFile(t *testing.T, src string) []byte {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.asm")
	outPath := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(inPath, []byte(src), 0o644))

	require.NoError(t, run([]string{inPath, outPath}))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	return out
}

func TestCLIEndToEndScenario1(t *testing.T) {
	out := assembleFile(t, "@SetBitMode(16)\nax = 0x1234\n")
	assert.Equal(t, []byte{0xB8, 0x34, 0x12}, out)
}

func TestCLIEndToEndScenario4(t *testing.T) {
	out := assembleFile(t, "@SetOrigin(0x7C00)\nL: jmp L\n")
	assert.Equal(t, []byte{0xEB, 0xFE}, out)
}

func TestCLIEndToEndScenario6BootSector(t *testing.T) {
	src := "@SetBitMode(16)\n@SetOrigin(0)\nstart:\n  ax = 0x1234\n  jmp start\n@PadBytes(510 - (@Current() - @Origin()))\n@DoubleWords(0xAA55)\n"
	out := assembleFile(t, src)
	require.Len(t, out, 512)
	assert.Equal(t, []byte{0x55, 0xAA}, out[510:512])
}

func TestCLIRequiresTwoPositionalArguments(t *testing.T) {
	err := run([]string{"only-one-arg"})
	assert.Error(t, err)
}

func TestCLIRejectsRelativeInputPath(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{"relative-input.asm", filepath.Join(dir, "out.bin")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be absolute")
}

func TestCLIRejectsRelativeOutputPath(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.asm")
	require.NoError(t, os.WriteFile(inPath, []byte("@SetBitMode(16)\nax = 0x1234\n"), 0o644))

	err := run([]string{inPath, "relative-output.bin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be absolute")
}

func TestCLIMissingInputFileFails(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{filepath.Join(dir, "missing.asm"), filepath.Join(dir, "out.bin")})
	assert.Error(t, err)
}
