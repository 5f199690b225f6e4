package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpetrov/flatasm/internal/codegen"
)

func TestDisabledTracerWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, false)

	tr.Pass("pass one")
	tr.Statement("Identifier", "ax")
	tr.Symbols(map[string]int{"start": 0x7C00})
	tr.Bytes(0x7C00, []byte{0xB8, 0x34, 0x12})
	tr.PendingJumps(codegen.PassFirst, []codegen.PendingJumpInfo{{EmitAddress: 0x7C00, Size: 2, TargetName: "L"}})
	tr.Error(assert.AnError)

	assert.Zero(t, buf.Len())
}

func TestEnabledTracerStatement(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, true)
	tr.Statement("Identifier", "ax")
	assert.Contains(t, buf.String(), "Identifier")
	assert.Contains(t, buf.String(), "ax")
}

func TestEnabledTracerBytes(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, true)
	tr.Bytes(0x7C00, []byte{0xB8, 0x34, 0x12})
	assert.Contains(t, buf.String(), "7c00")
}

func TestEnabledTracerPendingJumps(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, true)
	addr := 0x7C00
	tr.PendingJumps(codegen.PassFirst, []codegen.PendingJumpInfo{
		{EmitAddress: 0x7C00, Size: 1, TargetName: "L", TargetAddr: &addr},
	})
	out := buf.String()
	assert.Contains(t, out, "L")
	assert.Contains(t, out, "pending jumps")
}
