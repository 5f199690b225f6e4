// Package cpu holds the static x86 register model: a table of
// registers keyed by name, each carrying its enum identity, its
// opcode-index (when it participates in opcode-plus-index encodings),
// its bit size, the bit-modes it is legal in, and any CPU extensions
// it requires.
//
// Grounded on the teacher's datatypes/registers.go register table
// (name, size, descriptive tags), generalized from the teacher's
// eight special-purpose registers to the full x86 GPR set the
// specification requires.
package cpu

// Size is the width of a register's content.
type Size int

const (
	Bits8 Size = 8
	Bits16 Size = 16
	Bits32 Size = 32
	Bits64 Size = 64
)

// Extension is a CPU feature a register requires to be addressable.
type Extension string

const (
	ExtAPX Extension = "APX"
)

// BitMode is the processor operating width governing default operand
// size and which registers are legal.
type BitMode int

const (
	Mode16 BitMode = 16
	Mode32 BitMode = 32
	Mode64 BitMode = 64
)

// Register is one entry of the static register table.
type Register struct {
	Name          string
	EnumID        string
	RegisterIndex *int // nil when the register has no opcode-plus-index form
	Size          Size
	Supports16    bool
	Supports32    bool
	Supports64    bool
	Extensions    []Extension
}

func idx(i int) *int { return &i }

// table is the closed set of registers the assembler recognizes.
var table = buildTable()

func buildTable() map[string]Register {
	t := make(map[string]Register)

	add := func(r Register) { t[r.Name] = r }

	// 8-bit legacy byte registers (no REX needed; indices 0-7).
	legacy8 := []string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}
	for i, name := range legacy8 {
		add(Register{
			Name: name, EnumID: "R8_" + name, RegisterIndex: idx(i),
			Size: Bits8, Supports16: true, Supports32: true, Supports64: true,
		})
	}

	// 8-bit REX-addressable low-byte registers sil/dil/bpl/spl (index 4-7
	// under REX, distinct from ah/ch/dh/bh which they alias without REX).
	rexLow8 := []string{"spl", "bpl", "sil", "dil"}
	for i, name := range rexLow8 {
		add(Register{
			Name: name, EnumID: "R8_" + name, RegisterIndex: idx(4 + i),
			Size: Bits8, Supports16: false, Supports32: false, Supports64: true,
		})
	}

	// r8b-r31b: extended 8-bit registers. r8-r15 need no extension;
	// r16-r31 require APX.
	for i := 8; i <= 31; i++ {
		exts := []Extension(nil)
		if i >= 16 {
			exts = []Extension{ExtAPX}
		}
		add(Register{
			Name: regName(i, "b"), EnumID: regEnum(i, "B"), RegisterIndex: idx(i % 8),
			Size: Bits8, Supports16: false, Supports32: false, Supports64: true,
			Extensions: exts,
		})
	}

	// 16-bit GPRs.
	legacy16 := []string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}
	for i, name := range legacy16 {
		add(Register{
			Name: name, EnumID: "R16_" + name, RegisterIndex: idx(i),
			Size: Bits16, Supports16: true, Supports32: true, Supports64: true,
		})
	}
	for i := 8; i <= 31; i++ {
		exts := []Extension(nil)
		if i >= 16 {
			exts = []Extension{ExtAPX}
		}
		add(Register{
			Name: regName(i, "w"), EnumID: regEnum(i, "W"), RegisterIndex: idx(i % 8),
			Size: Bits16, Supports16: false, Supports32: false, Supports64: true,
			Extensions: exts,
		})
	}

	// 32-bit GPRs.
	legacy32 := []string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"}
	for i, name := range legacy32 {
		add(Register{
			Name: name, EnumID: "R32_" + name, RegisterIndex: idx(i),
			Size: Bits32, Supports16: true, Supports32: true, Supports64: true,
		})
	}
	for i := 8; i <= 31; i++ {
		exts := []Extension(nil)
		if i >= 16 {
			exts = []Extension{ExtAPX}
		}
		add(Register{
			Name: regName(i, "d"), EnumID: regEnum(i, "D"), RegisterIndex: idx(i % 8),
			Size: Bits32, Supports16: false, Supports32: false, Supports64: true,
			Extensions: exts,
		})
	}

	// 64-bit GPRs (only legal in 64-bit mode).
	legacy64 := []string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi"}
	for i, name := range legacy64 {
		add(Register{
			Name: name, EnumID: "R64_" + name, RegisterIndex: idx(i),
			Size: Bits64, Supports16: false, Supports32: false, Supports64: true,
		})
	}
	for i := 8; i <= 31; i++ {
		exts := []Extension(nil)
		if i >= 16 {
			exts = []Extension{ExtAPX}
		}
		add(Register{
			Name: regName(i, ""), EnumID: regEnum(i, ""), RegisterIndex: idx(i % 8),
			Size: Bits64, Supports16: false, Supports32: false, Supports64: true,
			Extensions: exts,
		})
	}

	return t
}

func regName(n int, suffix string) string {
	return "r" + itoa(n) + suffix
}

func regEnum(n int, suffix string) string {
	return "R" + itoa(n) + suffix
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [3]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// SupportsRegister reports whether name is a known register.
func SupportsRegister(name string) bool {
	_, ok := table[name]
	return ok
}

// Resolve looks up a register by name.
func Resolve(name string) (Register, bool) {
	r, ok := table[name]
	return r, ok
}

// SupportedByBitMode reports whether r is usable under mode.
func SupportedByBitMode(r Register, mode BitMode) bool {
	switch mode {
	case Mode16:
		return r.Supports16
	case Mode32:
		return r.Supports32
	case Mode64:
		return r.Supports64
	default:
		return false
	}
}
