// Package diag provides verbose pretty-printed diagnostics for the
// assembler's CLI shell: token dispatch, resolved symbol table, and
// the pending-jump list. It is a leaf package — nothing in
// internal/codegen or internal/parser imports it — so the CLI shell
// passes in plain data snapshots gathered through those packages'
// public accessors.
//
// Grounded on the teacher's pp.Fprintf(os.Stderr, ...) diagnostic
// calls scattered through assembler/assembler.go and
// shared/assembler/assembler.go, and on debug/objdump.go's
// pp.Println(obj) for dumping a whole structure at once.
package diag

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp/v3"

	"github.com/mpetrov/flatasm/internal/codegen"
)

// Tracer emits verbose diagnostics to an io.Writer when enabled; when
// disabled every method is a no-op, so callers never need to branch on
// verbosity themselves.
type Tracer struct {
	enabled bool
	out     io.Writer
}

// New builds a Tracer writing to out. enabled mirrors the CLI's -v flag.
func New(out io.Writer, enabled bool) *Tracer {
	return &Tracer{enabled: enabled, out: out}
}

// Pass announces the start of a generator pass.
func (t *Tracer) Pass(name string) {
	if !t.enabled {
		return
	}
	pp.Fprintf(t.out, "-- %s --\n", name)
}

// Statement logs one dispatched statement's leading lexeme.
func (t *Tracer) Statement(kind string, lexeme string) {
	if !t.enabled {
		return
	}
	pp.Fprintf(t.out, "statement: %s %q\n", kind, lexeme)
}

// Symbols pretty-prints the finalized symbol table.
func (t *Tracer) Symbols(symbols map[string]int) {
	if !t.enabled {
		return
	}
	pp.Fprintf(t.out, "symbols: %v\n", symbols)
}

// Bytes logs a chunk of bytes as they are emitted during pass two.
func (t *Tracer) Bytes(address int, bs []byte) {
	if !t.enabled {
		return
	}
	fmt.Fprintf(t.out, "emit @0x%x: % x\n", address, bs)
}

// PendingJumps pretty-prints the pending-jump list as it stands at the
// end of a pass (worst-case widths after pass one, tightened and
// resolved after pass two).
func (t *Tracer) PendingJumps(pass codegen.Pass, pending []codegen.PendingJumpInfo) {
	if !t.enabled {
		return
	}
	pp.Fprintf(t.out, "pending jumps after pass %d: %v\n", pass, pending)
}

// Error pretty-prints a terminal error before the CLI shell aborts.
func (t *Tracer) Error(err error) {
	if !t.enabled {
		return
	}
	pp.Fprintln(t.out, err)
}
