// Package lexer implements the byte-source tokenizer: it classifies
// byte sequences from the input file into a typed token stream with
// source locations, handling strings, comments, and decimal/hex/binary
// numeric literals.
package lexer

import (
	"io"
	"strings"
	"unicode"

	"github.com/mpetrov/flatasm/internal/asmerr"
	"github.com/mpetrov/flatasm/internal/token"
)

// Lexer is the tokenizer. It is re-initializable via Reinit so the
// parser can re-run pass two over the same source.
type Lexer struct {
	src *byteSource
}

// NewFromPath opens path and returns a Lexer over its contents.
func NewFromPath(path string) (*Lexer, error) {
	src, err := openFile(path)
	if err != nil {
		return nil, err
	}
	return &Lexer{src: src}, nil
}

// NewFromReadSeeker builds a Lexer directly over an in-memory or
// otherwise already-open seekable source, for tests.
func NewFromReadSeeker(rs io.ReadSeeker) *Lexer {
	return &Lexer{src: newByteSource(rs, nil)}
}

// Close releases the underlying file handle, if any.
func (l *Lexer) Close() error {
	return l.src.Close()
}

// Reinit seeks the source back to byte zero and clears all lookahead
// and location state.
func (l *Lexer) Reinit() error {
	return l.src.reinit()
}

var simpleSymbols = map[byte]token.Kind{
	'@': token.SymbolAt,
	'*': token.SymbolAsterisk,
	':': token.SymbolColon,
	',': token.SymbolComma,
	'"': token.SymbolDoubleQuote,
	'=': token.SymbolEquals,
	'(': token.SymbolLeftParenthesis,
	')': token.SymbolRightParenthesis,
	'-': token.SymbolMinus,
	'+': token.SymbolPlus,
	';': token.SymbolSemicolon,
}

func isSpace(b byte) bool { return b == ' ' || b == '\r' || b == '\t' }

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isAlnum(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// NextToken returns the next token, or the EOF sentinel once the
// stream is exhausted. Calling NextToken after EOF repeatedly yields
// EOF again.
func (l *Lexer) NextToken() (token.Token, error) {
	for {
		b, err := l.src.peekByte()
		if err == io.EOF {
			return token.Token{Kind: token.EOF, Location: l.src.location()}, nil
		}
		if err != nil {
			return token.Token{}, asmerr.Newf(asmerr.ReaderError, "read failed: %v", err)
		}
		if isSpace(b) {
			l.src.readByte()
			continue
		}
		if b == '\n' {
			loc := l.src.location()
			l.src.readByte()
			return token.Token{Kind: token.NewLine, Lexeme: "\n", Location: loc}, nil
		}
		return l.scanToken(b)
	}
}

func (l *Lexer) scanToken(first byte) (token.Token, error) {
	switch {
	case first == '"':
		return l.scanString()
	case first == ';':
		l.skipLineComment()
		return l.NextToken()
	case first == '/':
		return l.scanSlashOrComment()
	case isAlpha(first):
		return l.scanIdentifier()
	case isDigit(first):
		return l.scanNumber()
	default:
		loc := l.src.location()
		l.src.readByte()
		if kind, ok := simpleSymbols[first]; ok {
			return token.Token{Kind: kind, Lexeme: string(first), Location: loc}, nil
		}
		return token.Token{}, asmerr.Atf(asmerr.InvalidSymbol, loc, "unrecognized symbol %q", first)
	}
}

// scanSlashOrComment handles '/' which may introduce a "//" comment, a
// "/* ... */" comment, or stand alone as a division symbol.
func (l *Lexer) scanSlashOrComment() (token.Token, error) {
	startLoc := l.src.location()
	l.src.readByte() // consume the leading '/'
	next, err := l.src.peekByte()
	if err == nil && next == '/' {
		l.src.readByte()
		l.skipLineComment()
		return l.NextToken()
	}
	if err == nil && next == '*' {
		l.src.readByte()
		if err := l.skipMultilineComment(startLoc); err != nil {
			return token.Token{}, err
		}
		return l.NextToken()
	}
	return token.Token{Kind: token.SymbolForwardSlash, Lexeme: "/", Location: startLoc}, nil
}

func (l *Lexer) skipLineComment() {
	for {
		b, err := l.src.peekByte()
		if err != nil || b == '\n' {
			return
		}
		l.src.readByte()
	}
}

func (l *Lexer) skipMultilineComment(startLoc asmerr.Location) error {
	for {
		b, err := l.src.peekByte()
		if err != nil {
			return asmerr.At(asmerr.InvalidMultilineComment, startLoc, "unterminated multi-line comment")
		}
		l.src.readByte()
		if b != '*' {
			continue
		}
		nxt, err := l.src.peekByte()
		if err != nil {
			return asmerr.At(asmerr.InvalidMultilineComment, startLoc, "unterminated multi-line comment")
		}
		if nxt == '/' {
			l.src.readByte()
			return nil
		}
	}
}

// scanString handles both single-line "..." strings (with backslash
// escaping) and triple-quoted multi-line """...""" strings.
func (l *Lexer) scanString() (token.Token, error) {
	startLoc := l.src.location()
	l.src.readByte() // consume opening '"'

	if b2, err := l.src.peekByte(); err == nil && b2 == '"' {
		l.src.readByte()
		if b3, err := l.src.peekByte(); err == nil && b3 == '"' {
			l.src.readByte()
			return l.scanTripleQuotedString(startLoc)
		}
		// "" immediately closed: empty single-line string.
		return token.Token{Kind: token.Literal, Lexeme: "", Location: startLoc}, nil
	}

	var sb strings.Builder
	escaped := false
	for {
		b, err := l.src.readByte()
		if err != nil {
			return token.Token{}, asmerr.At(asmerr.InvalidString, startLoc, "unterminated string literal")
		}
		if b == '\n' {
			return token.Token{}, asmerr.At(asmerr.InvalidString, startLoc, "bare newline in string literal")
		}
		if escaped {
			sb.WriteByte(b)
			escaped = false
			continue
		}
		if b == '\\' {
			escaped = true
			continue
		}
		if b == '"' {
			return token.Token{Kind: token.Literal, Lexeme: sb.String(), Location: startLoc}, nil
		}
		sb.WriteByte(b)
	}
}

func (l *Lexer) scanTripleQuotedString(startLoc asmerr.Location) (token.Token, error) {
	var sb strings.Builder
	for {
		b, err := l.src.readByte()
		if err != nil {
			return token.Token{}, asmerr.At(asmerr.InvalidString, startLoc, "unterminated triple-quoted string")
		}
		if b != '"' {
			sb.WriteByte(b)
			continue
		}
		b2, err := l.src.peekByte()
		if err != nil || b2 != '"' {
			sb.WriteByte(b)
			continue
		}
		l.src.readByte()
		b3, err := l.src.peekByte()
		if err != nil || b3 != '"' {
			sb.WriteByte('"')
			sb.WriteByte('"')
			continue
		}
		l.src.readByte()
		return token.Token{Kind: token.Literal, Lexeme: sb.String(), Location: startLoc}, nil
	}
}

// scanIdentifier scans [A-Za-z][A-Za-z0-9]* and classifies it against
// the reserved-directive and instruction-mnemonic tables.
func (l *Lexer) scanIdentifier() (token.Token, error) {
	startLoc := l.src.location()
	var sb strings.Builder
	for {
		b, err := l.src.peekByte()
		if err != nil || !isAlnum(b) {
			break
		}
		l.src.readByte()
		sb.WriteByte(b)
	}
	lexeme := sb.String()

	if kind, ok := token.LookupDirective(lexeme); ok {
		return token.Token{Kind: kind, Lexeme: lexeme, Location: startLoc}, nil
	}
	lowered := strings.Map(unicode.ToLower, lexeme)
	if kind, ok := token.LookupMnemonic(lowered); ok {
		return token.Token{Kind: kind, Lexeme: lexeme, Location: startLoc}, nil
	}
	return token.Token{Kind: token.Identifier, Lexeme: lexeme, Location: startLoc}, nil
}

// scanNumber scans 0x[hex]+, 0b[01]+, or decimal [0-9]+. The base
// marker is only recognized at position 1 (immediately after a
// leading '0'). The returned lexeme retains its textual form including
// any base prefix, so later stages can size it base-aware.
func (l *Lexer) scanNumber() (token.Token, error) {
	startLoc := l.src.location()
	var sb strings.Builder

	first, _ := l.src.readByte()
	sb.WriteByte(first)

	if first == '0' {
		if next, err := l.src.peekByte(); err == nil && (next == 'x' || next == 'X') {
			l.src.readByte()
			sb.WriteByte(next)
			return l.scanDigitsWithPredicate(startLoc, &sb, isHexDigit, "hexadecimal")
		}
		if next, err := l.src.peekByte(); err == nil && next == 'b' {
			l.src.readByte()
			sb.WriteByte(next)
			return l.scanDigitsWithPredicate(startLoc, &sb, isBinaryDigit, "binary")
		}
	}

	for {
		b, err := l.src.peekByte()
		if err != nil || !isDigit(b) {
			break
		}
		l.src.readByte()
		sb.WriteByte(b)
	}
	return token.Token{Kind: token.Number, Lexeme: sb.String(), Location: startLoc}, nil
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isBinaryDigit(b byte) bool { return b == '0' || b == '1' }

func (l *Lexer) scanDigitsWithPredicate(startLoc asmerr.Location, sb *strings.Builder, pred func(byte) bool, baseName string) (token.Token, error) {
	count := 0
	for {
		b, err := l.src.peekByte()
		if err != nil || !pred(b) {
			break
		}
		l.src.readByte()
		sb.WriteByte(b)
		count++
	}
	if count == 0 {
		return token.Token{}, asmerr.Atf(asmerr.InvalidNumber, startLoc, "expected %s digits after base prefix", baseName)
	}
	return token.Token{Kind: token.Number, Lexeme: sb.String(), Location: startLoc}, nil
}
