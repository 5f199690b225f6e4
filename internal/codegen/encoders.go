// Instruction encoders: translate a resolved operand pair into actual
// x86 opcode bytes. Split out from generator.go because the
// specification treats "instruction encoders" as its own component,
// separate from the address-book-keeping code generator.
//
// Grounded on the teacher's UndefSymChain forward-reference
// bookkeeping (shared/assembler/assembler.go FirstPass/SecondPass) for
// how an as-yet-undefined jump target gets queued and revisited on the
// second pass, generalized from its single machine-word move into the
// register-immediate move family and short-jump opcode documented for
// this instruction subset; the REX/ModR/M byte layout referenced for a
// future 64-bit move is modeled on the retrieval pack's ascrivener-jam
// x86-64 JIT assembler, though that path is presently unimplemented.
package codegen

import (
	"github.com/mpetrov/flatasm/internal/asmerr"
	"github.com/mpetrov/flatasm/internal/cpu"
)

// jumpValueByteSize is the operand width a short-jump displacement is
// reserved at before tightening, keyed by the active bit mode.
func jumpValueByteSize(mode cpu.BitMode) int {
	switch mode {
	case cpu.Mode16:
		return 2
	case cpu.Mode32:
		return 4
	case cpu.Mode64:
		return 8
	default:
		return 2
	}
}

// EmitAssignment encodes `lhs = rhs` (spec.md §3's Operand pair).
// Only the fully specified case — a direct register destination and a
// constant right-hand side — reaches the opcode encoder; every other
// admitted combination (an indirect destination, or a right-hand side
// that is itself a register or address expression) is grammar-legal
// but stub-encoded: it emits nothing and must not fail.
func (g *Generator) EmitAssignment(lhs Operand, rhs Operand) error {
	if lhs.Access != Direct || lhs.Value.Kind != ValueIdentifier || rhs.Value.Kind != ValueConstant {
		return nil
	}
	registerName := lhs.Value.Identifier
	constantText := rhs.Value.Constant

	dst, ok := cpu.Resolve(registerName)
	if !ok {
		return asmerr.Newf(asmerr.UnsupportedRegister, "unknown register %q", registerName)
	}
	if !cpu.SupportedByBitMode(dst, g.BitMode) {
		return asmerr.Newf(asmerr.RegisterNotSupportedInBitMode, "register %q is not usable in %d-bit mode", registerName, g.BitMode)
	}
	if dst.RegisterIndex == nil {
		return asmerr.Newf(asmerr.UnsupportedRegister, "register %q has no opcode-index encoding", registerName)
	}
	idx := byte(*dst.RegisterIndex & 0x7)

	required, err := countBytes(constantText)
	if err != nil {
		return err
	}
	if required > int(dst.Size)/8 {
		return asmerr.Newf(asmerr.InternalException, "constant %q does not fit register %q", constantText, registerName)
	}

	switch dst.Size {
	case cpu.Bits8:
		imm, err := bytesFromValue(constantText, 1)
		if err != nil {
			return err
		}
		return g.EmitBytes(append([]byte{0xB0 + idx}, imm...))

	case cpu.Bits16:
		imm, err := bytesFromValue(constantText, 2)
		if err != nil {
			return err
		}
		return g.EmitBytes(append([]byte{0xB8 + idx}, imm...))

	case cpu.Bits32:
		imm, err := bytesFromValue(constantText, 4)
		if err != nil {
			return err
		}
		buf := []byte{}
		if g.BitMode == cpu.Mode16 {
			buf = append(buf, 0x66)
		}
		buf = append(buf, 0xB8+idx)
		buf = append(buf, imm...)
		return g.EmitBytes(buf)

	case cpu.Bits64:
		return asmerr.New(asmerr.Unimplemented, "64-bit register-immediate move is not yet implemented")

	default:
		return asmerr.Newf(asmerr.InternalException, "register %q has unrecognized size", registerName)
	}
}

// EmitJump encodes `jmp <operand>` (spec.md §4.2.3/§4.4.3): a
// constant operand is an absolute target, an identifier operand a
// label target.
func (g *Generator) EmitJump(operand Value) error {
	switch operand.Kind {
	case ValueConstant:
		return g.emitJumpToConstant(operand.Constant)
	case ValueIdentifier:
		return g.emitJumpToLabel(operand.Identifier)
	default:
		return asmerr.New(asmerr.InternalException, "invalid jump operand")
	}
}

// emitJumpToConstant encodes "jmp <numeric address>" per spec.md
// §4.4.3: the displacement is computed against the operand width
// implied by the current bit mode, not against the minimal width the
// constant itself would need.
func (g *Generator) emitJumpToConstant(targetText string) error {
	target, err := parseConstant(targetText)
	if err != nil {
		return err
	}
	minSize, err := countBytes(targetText)
	if err != nil {
		return err
	}
	valueByteSize := jumpValueByteSize(g.BitMode)
	if minSize > valueByteSize {
		return asmerr.Newf(asmerr.Unimplemented, "jump target %q requires a far jump", targetText)
	}

	emitAddr := g.CurrentAddress()
	disp := int64(target) - int64(emitAddr+1+valueByteSize)
	return g.EmitBytes(append([]byte{0xEB}, leBytes(disp, valueByteSize)...))
}

// emitJumpToLabel encodes "jmp <label>". Per the resolution recorded
// in this project's design notes, every identifier-target jump —
// defined or not yet defined — is routed through the worst-case-then-
// tighten pending-jump mechanism uniformly, so a single code path
// handles forward references and self/backward references alike.
//
// During pass one this reserves the bit-mode's worst-case displacement
// width and records a PendingJump to be tightened by
// finalizeFirstPass. During pass two it replays the already-finalized
// size and emits the resolved displacement.
func (g *Generator) emitJumpToLabel(labelName string) error {
	sym := g.lookupOrCreateSymbol(labelName)
	emitAddr := g.CurrentAddress()

	if g.Pass == PassFirst {
		worstCaseSize := jumpValueByteSize(g.BitMode)
		g.pendingJumps = append(g.pendingJumps, &PendingJump{
			EmitAddress: emitAddr,
			Size:        worstCaseSize,
			Target:      sym,
		})
		return g.EmitBytes(make([]byte, 1+worstCaseSize))
	}

	pj, err := g.nextPendingJump()
	if err != nil {
		return err
	}
	if sym.Address == nil {
		return asmerr.Newf(asmerr.InternalException, "undefined label %q referenced by jump", labelName)
	}
	disp := int64(*sym.Address - (emitAddr + 1 + pj.Size))
	out := append([]byte{0xEB}, leBytes(disp, pj.Size)...)
	return g.EmitBytes(out)
}

// nextPendingJump returns the next pending jump recorded during pass
// one, in the same source order pass two visits jumps in.
func (g *Generator) nextPendingJump() (*PendingJump, error) {
	if g.pendingCursor >= len(g.pendingJumps) {
		return nil, asmerr.New(asmerr.InternalException, "pass two visited more jumps than pass one recorded")
	}
	pj := g.pendingJumps[g.pendingCursor]
	g.pendingCursor++
	return pj, nil
}
