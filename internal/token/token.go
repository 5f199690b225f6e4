// Package token defines the tagged token records produced by the
// tokenizer and consumed by the parser.
package token

import "github.com/mpetrov/flatasm/internal/asmerr"

// Kind is one tag from the closed token-kind set.
type Kind int

const (
	EOF Kind = iota
	NewLine

	Literal
	Identifier
	Number

	SymbolAt
	SymbolAsterisk
	SymbolColon
	SymbolComma
	SymbolDoubleQuote
	SymbolEquals
	SymbolForwardSlash
	SymbolLeftParenthesis
	SymbolRightParenthesis
	SymbolMinus
	SymbolPlus
	SymbolSemicolon

	ReservedBytes
	ReservedCurrent
	ReservedDoubleWords
	ReservedQuadWords
	ReservedPadBytes
	ReservedSetBitMode
	ReservedSetOrigin
	ReservedStart // lexeme "Origin"
	ReservedWords

	InstructionJmp
)

var kindNames = map[Kind]string{
	EOF:                   "EOF",
	NewLine:                "NewLine",
	Literal:                "Literal",
	Identifier:             "Identifier",
	Number:                 "Number",
	SymbolAt:               "SymbolAt",
	SymbolAsterisk:         "SymbolAsterisk",
	SymbolColon:            "SymbolColon",
	SymbolComma:            "SymbolComma",
	SymbolDoubleQuote:      "SymbolDoubleQuote",
	SymbolEquals:           "SymbolEquals",
	SymbolForwardSlash:     "SymbolForwardSlash",
	SymbolLeftParenthesis:  "SymbolLeftParanthesis",
	SymbolRightParenthesis: "SymbolRightParanthesis",
	SymbolMinus:            "SymbolMinus",
	SymbolPlus:             "SymbolPlus",
	SymbolSemicolon:        "SymbolSemicolon",
	ReservedBytes:          "ReservedBytes",
	ReservedCurrent:        "ReservedCurrent",
	ReservedDoubleWords:    "ReservedDoubleWords",
	ReservedQuadWords:      "ReservedQuadWords",
	ReservedPadBytes:       "ReservedPadBytes",
	ReservedSetBitMode:     "ReservedSetBitMode",
	ReservedSetOrigin:      "ReservedSetOrigin",
	ReservedStart:          "ReservedStart",
	ReservedWords:          "ReservedWords",
	InstructionJmp:         "InstructionJmp",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is a tagged record: a kind, the owned lexeme bytes that
// produced it, and its source location. Tokens crossing the
// tokenizer/parser boundary are always independently owned — the
// tokenizer never hands out a slice into its internal scratch buffer.
type Token struct {
	Kind     Kind
	Lexeme   string
	Location asmerr.Location
}

// Clone returns an independently owned copy of t. Since Lexeme is
// already a Go string (immutable, already copied out of the
// tokenizer's scratch buffer by the time a Token exists), Clone is a
// plain value copy; it exists so callers that must retain a token past
// the next read have an explicit, self-documenting call to make.
func (t Token) Clone() Token {
	return t
}

// reservedDirectives is the case-sensitive table of directive words.
var reservedDirectives = map[string]Kind{
	"Bytes":       ReservedBytes,
	"Current":     ReservedCurrent,
	"DoubleWords": ReservedDoubleWords,
	"PadBytes":    ReservedPadBytes,
	"QuadWords":   ReservedQuadWords,
	"SetBitMode":  ReservedSetBitMode,
	"SetOrigin":   ReservedSetOrigin,
	"Origin":      ReservedStart,
	"Words":       ReservedWords,
}

// LookupDirective returns the reserved directive kind for lexeme, if any.
func LookupDirective(lexeme string) (Kind, bool) {
	k, ok := reservedDirectives[lexeme]
	return k, ok
}

// mnemonics is the case-insensitive table of instruction mnemonics.
var mnemonics = map[string]Kind{
	"jmp": InstructionJmp,
}

// LookupMnemonic returns the reserved instruction kind for the
// lowercased lexeme, if any.
func LookupMnemonic(lowered string) (Kind, bool) {
	k, ok := mnemonics[lowered]
	return k, ok
}
