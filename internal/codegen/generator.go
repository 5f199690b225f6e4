// Package codegen implements the two-pass code generator: the address
// counter, the symbol table, the pending-jump list, and x86 opcode
// emission parameterized by bit mode. Bytes are only ever written to
// the output during pass two; pass one exists purely to compute label
// addresses and provisional jump sizes.
//
// Grounded on the teacher's shared/assembler/assembler.go two-pass
// structure (FirstPass building an UndefSymChain of forward
// references, SecondPass resolving them into the output buffer), with
// the chain-of-undefined-symbols idea generalized into the
// worst-case-then-tighten pending-jump mechanism the specification
// calls for, and the output widened from a trivial mov-immediate
// machine word into real x86 opcode bytes (modeled on the REX/ModRM
// encoder in the retrieval pack's ascrivener-jam x86 JIT assembler).
package codegen

import (
	"io"

	"github.com/mpetrov/flatasm/internal/asmerr"
	"github.com/mpetrov/flatasm/internal/cpu"
)

// Pass identifies which of the two generator passes is active.
type Pass int

const (
	PassFirst Pass = iota
	PassSecond
)

// Symbol is a named address derived from a label. Address is nil
// until the label is first defined.
type Symbol struct {
	Name    string
	Address *int
}

// PendingJump is recorded during pass one when a jump references a
// label; it is resolved (tightened) at the end of pass one and
// replayed in source order during pass two.
type PendingJump struct {
	EmitAddress int
	Size        int
	Target      *Symbol
}

// Generator holds all two-pass state described in spec.md §3.
type Generator struct {
	AddressOrigin  int
	AddressCounter int
	BitMode        cpu.BitMode
	Pass           Pass

	// OnEmit, if set, is called with the starting address and the
	// exact bytes of every pass-two emission — the diagnostics hook
	// spec_full.md §4.5 describes (address and bytes of each emission).
	OnEmit func(address int, bs []byte)

	labels        map[string]*Symbol
	pendingJumps  []*PendingJump
	pendingCursor int
	writer        io.Writer
}

// New builds a Generator that writes to w during pass two. w may be
// nil if the caller never intends to reach pass two (e.g. a
// pass-one-only dry run).
func New(w io.Writer) *Generator {
	return &Generator{
		BitMode: cpu.Mode16,
		labels:  make(map[string]*Symbol),
		writer:  w,
	}
}

// SetWriter attaches (or replaces) the pass-two output sink. The CLI
// shell does not use it: it creates its output file before pass one
// and hands that file to New, so the file is not opened lazily.
func (g *Generator) SetWriter(w io.Writer) {
	g.writer = w
}

// CurrentAddress is origin + counter.
func (g *Generator) CurrentAddress() int {
	return g.AddressOrigin + g.AddressCounter
}

// Symbols returns a snapshot of every defined label's address, for
// diagnostics and tests (spec_full.md §10's introspection accessor).
func (g *Generator) Symbols() map[string]int {
	out := make(map[string]int, len(g.labels))
	for name, sym := range g.labels {
		if sym.Address != nil {
			out[name] = *sym.Address
		}
	}
	return out
}

// PendingJumpInfo is a read-only snapshot of one PendingJump, safe to
// hand to a caller outside this package (it holds no pointer back into
// Generator's own bookkeeping).
type PendingJumpInfo struct {
	EmitAddress int
	Size        int
	TargetName  string
	TargetAddr  *int
}

// PendingJumps returns a snapshot of the pending-jump list in source
// order, for diagnostics (spec_full.md §4.5's "pending-jump list after
// each pass").
func (g *Generator) PendingJumps() []PendingJumpInfo {
	out := make([]PendingJumpInfo, len(g.pendingJumps))
	for i, pj := range g.pendingJumps {
		out[i] = PendingJumpInfo{
			EmitAddress: pj.EmitAddress,
			Size:        pj.Size,
			TargetName:  pj.Target.Name,
			TargetAddr:  pj.Target.Address,
		}
	}
	return out
}

func (g *Generator) ProcessSetBitMode(mode int) error {
	switch mode {
	case 16:
		g.BitMode = cpu.Mode16
	case 32:
		g.BitMode = cpu.Mode32
	case 64:
		g.BitMode = cpu.Mode64
	default:
		return asmerr.Newf(asmerr.InternalException, "unsupported bit mode %d", mode)
	}
	return nil
}

func (g *Generator) ProcessSetOrigin(addr int) {
	g.AddressOrigin = addr
}

// lookupOrCreateSymbol returns the named symbol, creating an
// unaddressed placeholder if this is the first reference.
func (g *Generator) lookupOrCreateSymbol(name string) *Symbol {
	sym, ok := g.labels[name]
	if !ok {
		sym = &Symbol{Name: name}
		g.labels[name] = sym
	}
	return sym
}

// ProcessLabel creates or updates the named symbol so that its address
// equals the current address.
func (g *Generator) ProcessLabel(name string) *Symbol {
	sym := g.lookupOrCreateSymbol(name)
	addr := g.CurrentAddress()
	sym.Address = &addr
	return sym
}

// ProcessPadBytes emits count copies of b.
func (g *Generator) ProcessPadBytes(count int, b byte) error {
	if count < 0 {
		return asmerr.Newf(asmerr.InternalException, "negative pad count %d", count)
	}
	buf := make([]byte, count)
	for i := range buf {
		buf[i] = b
	}
	return g.EmitBytes(buf)
}

// EmitDoubleWord emits the low two bytes of n, little-endian.
//
// This follows spec.md §9 open question 1 verbatim: the construct this
// assembler is modeled on emits only 2 bytes here despite the
// "double word" name (which would suggest 4). The ambiguity is
// preserved rather than silently "fixed" — flagged here as the source
// spec instructs, not resolved.
func (g *Generator) EmitDoubleWord(n int) error {
	return g.EmitBytes([]byte{byte(n & 0xFF), byte((n >> 8) & 0xFF)})
}

// EmitBytes advances the address counter by len(bs) and, only during
// pass two, writes bs to the output sink.
func (g *Generator) EmitBytes(bs []byte) error {
	startAddress := g.CurrentAddress()
	g.AddressCounter += len(bs)
	if g.Pass != PassSecond {
		return nil
	}
	if g.writer == nil {
		return asmerr.New(asmerr.InternalException, "pass two emission with no output sink attached")
	}
	if _, err := g.writer.Write(bs); err != nil {
		return asmerr.Newf(asmerr.InternalException, "write failed: %v", err)
	}
	if g.OnEmit != nil {
		g.OnEmit(startAddress, bs)
	}
	return nil
}

// NextPass transitions the generator from pass one to pass two: it
// runs finalizeFirstPass, then resets origin/counter/bit-mode exactly
// as spec.md §4.4.1 requires ("every emitting operation must advance
// the address counter by the same number of bytes in both passes").
// It fails if already in pass two.
func (g *Generator) NextPass() error {
	if g.Pass == PassSecond {
		return asmerr.New(asmerr.InvalidParsingPass, "next_pass called while already in pass two")
	}
	if err := g.finalizeFirstPass(); err != nil {
		return err
	}
	g.AddressOrigin = 0
	g.AddressCounter = 0
	g.BitMode = cpu.Mode16
	g.Pass = PassSecond
	g.pendingCursor = 0
	return nil
}

// finalizeFirstPass walks pending_jumps in order, shrinking each one
// to its minimal signed displacement width and shifting every symbol
// that sits at or beyond the original reservation's end by the
// resulting delta — the classic branch-tightening step (spec.md
// §4.4.1).
func (g *Generator) finalizeFirstPass() error {
	for _, pj := range g.pendingJumps {
		if pj.Target.Address == nil {
			return asmerr.Newf(asmerr.InternalException, "undefined label %q referenced by jump", pj.Target.Name)
		}
		originalSize := pj.Size
		originalEnd := pj.EmitAddress + 1 + originalSize

		newSize := requiredBytesForSignedInteger(int64(*pj.Target.Address - pj.EmitAddress))
		if newSize > originalSize {
			newSize = originalSize
		}
		if newSize < originalSize {
			delta := originalSize - newSize
			for _, sym := range g.labels {
				if sym.Address != nil && *sym.Address >= originalEnd {
					*sym.Address -= delta
				}
			}
		}
		pj.Size = newSize
	}
	return nil
}
