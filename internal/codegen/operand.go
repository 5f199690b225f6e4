package codegen

import "github.com/mpetrov/flatasm/internal/token"

// AccessType distinguishes a direct value from a memory dereference.
type AccessType int

const (
	Direct AccessType = iota
	Indirect
)

// ValueKind tags the Value union.
type ValueKind int

const (
	ValueIdentifier ValueKind = iota
	ValueConstant
)

// Value is the tagged union {identifier: string} | {constant: string}.
// Constants are carried in their textual form (e.g. "0x1337", "42",
// "0b1010") and parsed on demand so the originating base is still
// available when the generator decides a byte width.
type Value struct {
	Kind       ValueKind
	Identifier string
	Constant   string
}

// Operand is {access_type, value, optional token}.
type Operand struct {
	Access AccessType
	Value  Value
	Token  *token.Token
}
