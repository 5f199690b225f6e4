package parser

import (
	"github.com/mpetrov/flatasm/internal/asmerr"
	"github.com/mpetrov/flatasm/internal/codegen"
	"github.com/mpetrov/flatasm/internal/token"
)

// directive parses "@name(args)" per spec.md §4.2.1. The leading '@'
// has already been confirmed by the caller as the statement head but
// not yet consumed.
func (p *Parser) directive() error {
	if _, err := p.read(); err != nil { // consume '@'
		return err
	}
	nameTok, err := p.read()
	if err != nil {
		return err
	}
	switch nameTok.Kind {
	case token.ReservedSetBitMode:
		return p.directiveSetBitMode()
	case token.ReservedSetOrigin:
		return p.directiveSetOrigin()
	case token.ReservedPadBytes:
		return p.directivePadBytes()
	case token.ReservedDoubleWords:
		return p.directiveDoubleWords()
	case token.ReservedBytes, token.ReservedWords, token.ReservedQuadWords:
		return p.directiveStub()
	default:
		return asmerr.Atf(asmerr.InvalidDirective, nameTok.Location, "unknown directive %q", nameTok.Lexeme)
	}
}

func (p *Parser) directiveSetBitMode() error {
	if _, err := p.expect(token.SymbolLeftParenthesis); err != nil {
		return err
	}
	v, err := p.parseConstExpr()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.SymbolRightParenthesis); err != nil {
		return err
	}
	if err := p.gen.ProcessSetBitMode(int(v)); err != nil {
		return asmerr.WrapGenerator(err)
	}
	return nil
}

func (p *Parser) directiveSetOrigin() error {
	if _, err := p.expect(token.SymbolLeftParenthesis); err != nil {
		return err
	}
	v, err := p.parseConstExpr()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.SymbolRightParenthesis); err != nil {
		return err
	}
	p.gen.ProcessSetOrigin(int(v))
	return nil
}

// directivePadBytes parses "(count [, byte])"; byte defaults to 0x00.
func (p *Parser) directivePadBytes() error {
	if _, err := p.expect(token.SymbolLeftParenthesis); err != nil {
		return err
	}
	count, err := p.parseConstExpr()
	if err != nil {
		return err
	}
	padByte := int64(0)
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind == token.SymbolComma {
		if _, err := p.read(); err != nil {
			return err
		}
		padByte, err = p.parseConstExpr()
		if err != nil {
			return err
		}
	}
	if _, err := p.expect(token.SymbolRightParenthesis); err != nil {
		return err
	}
	if err := p.gen.ProcessPadBytes(int(count), byte(padByte)); err != nil {
		return asmerr.WrapGenerator(err)
	}
	return nil
}

// directiveDoubleWords parses "(n1, n2, …)", emitting each as it goes.
func (p *Parser) directiveDoubleWords() error {
	if _, err := p.expect(token.SymbolLeftParenthesis); err != nil {
		return err
	}
	for {
		v, err := p.parseConstExpr()
		if err != nil {
			return err
		}
		if err := p.gen.EmitDoubleWord(int(v)); err != nil {
			return asmerr.WrapGenerator(err)
		}
		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.Kind != token.SymbolComma {
			break
		}
		if _, err := p.read(); err != nil {
			return err
		}
	}
	if _, err := p.expect(token.SymbolRightParenthesis); err != nil {
		return err
	}
	return nil
}

// directiveStub handles Bytes/Words/QuadWords: reserved for future
// widening, currently accepting empty arguments and emitting nothing.
func (p *Parser) directiveStub() error {
	if _, err := p.expect(token.SymbolLeftParenthesis); err != nil {
		return err
	}
	if _, err := p.expect(token.SymbolRightParenthesis); err != nil {
		return err
	}
	return nil
}

// parseConstExpr implements the constant-expression grammar of
// spec.md §4.2.1: left-to-right, no operator precedence, each binary
// operator recursing right into another constExpr; division floors.
func (p *Parser) parseConstExpr() (int64, error) {
	t, err := p.peek()
	if err != nil {
		return 0, err
	}
	var lhs int64
	if t.Kind == token.SymbolLeftParenthesis {
		if _, err := p.read(); err != nil {
			return 0, err
		}
		lhs, err = p.parseConstExpr()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.SymbolRightParenthesis); err != nil {
			return 0, err
		}
	} else {
		lhs, err = p.parseConstValue()
		if err != nil {
			return 0, err
		}
	}
	return p.maybeContinueConstExpr(lhs)
}

func (p *Parser) maybeContinueConstExpr(lhs int64) (int64, error) {
	t, err := p.peek()
	if err != nil {
		return 0, err
	}
	var op token.Kind
	switch t.Kind {
	case token.SymbolPlus, token.SymbolMinus, token.SymbolAsterisk, token.SymbolForwardSlash:
		op = t.Kind
	default:
		return lhs, nil
	}
	if _, err := p.read(); err != nil {
		return 0, err
	}
	rhs, err := p.parseConstExpr()
	if err != nil {
		return 0, err
	}
	switch op {
	case token.SymbolPlus:
		return lhs + rhs, nil
	case token.SymbolMinus:
		return lhs - rhs, nil
	case token.SymbolAsterisk:
		return lhs * rhs, nil
	case token.SymbolForwardSlash:
		if rhs == 0 {
			return 0, asmerr.At(asmerr.InvalidNumber, t.Location, "division by zero in constant expression")
		}
		return floorDiv(lhs, rhs), nil
	default:
		return lhs, nil
	}
}

// parseConstValue parses `value := number | '@' Current '(' ')' | '@' Origin '(' ')'`.
func (p *Parser) parseConstValue() (int64, error) {
	t, err := p.read()
	if err != nil {
		return 0, err
	}
	switch t.Kind {
	case token.Number:
		v, err := codegen.ParseConstantText(t.Lexeme)
		if err != nil {
			return 0, err
		}
		return int64(v), nil
	case token.SymbolAt:
		nameTok, err := p.read()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.SymbolLeftParenthesis); err != nil {
			return 0, err
		}
		if _, err := p.expect(token.SymbolRightParenthesis); err != nil {
			return 0, err
		}
		switch nameTok.Kind {
		case token.ReservedCurrent:
			return int64(p.gen.CurrentAddress()), nil
		case token.ReservedStart:
			return int64(p.gen.AddressOrigin), nil
		default:
			return 0, asmerr.Atf(asmerr.UnexpectedToken, nameTok.Location, "expected Current or Origin, found %q", nameTok.Lexeme)
		}
	default:
		return 0, asmerr.Atf(asmerr.UnexpectedToken, t.Location, "expected number or '@', found %s", t.Kind)
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
