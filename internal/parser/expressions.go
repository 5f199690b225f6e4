package parser

import (
	"github.com/mpetrov/flatasm/internal/asmerr"
	"github.com/mpetrov/flatasm/internal/codegen"
	"github.com/mpetrov/flatasm/internal/token"
)

// labelOrExpression handles an `Identifier` statement head per
// spec.md §4.2.2: a trailing ':' defines a label (the rest of the
// line, if any, is then re-dispatched as its own statement);
// otherwise the identifier is the left-hand side of an expression.
func (p *Parser) labelOrExpression() error {
	idTok, err := p.read()
	if err != nil {
		return err
	}
	next, err := p.peek()
	if err != nil {
		return err
	}
	if next.Kind == token.SymbolColon {
		if _, err := p.read(); err != nil {
			return err
		}
		p.gen.ProcessLabel(idTok.Lexeme)
		rest, err := p.peek()
		if err != nil {
			return err
		}
		if rest.Kind == token.NewLine || rest.Kind == token.EOF {
			return nil
		}
		return p.statement(rest)
	}
	return p.expressionFromLHSIdentifier(idTok)
}

// expressionFromLHSIdentifier handles `register-identifier op rhs`.
func (p *Parser) expressionFromLHSIdentifier(lhsTok token.Token) error {
	opTok, err := p.read()
	if err != nil {
		return err
	}
	switch opTok.Kind {
	case token.SymbolEquals:
		lhs := codegen.Operand{
			Access: codegen.Direct,
			Value:  codegen.Value{Kind: codegen.ValueIdentifier, Identifier: lhsTok.Lexeme},
			Token:  &lhsTok,
		}
		return p.finishAssignment(lhs)
	case token.SymbolPlus, token.SymbolMinus:
		if _, err := p.expect(token.SymbolEquals); err != nil {
			return err
		}
		return asmerr.Atf(asmerr.Unimplemented, opTok.Location, "compound assignment %q= is not implemented", opTok.Lexeme)
	default:
		return asmerr.Atf(asmerr.UnexpectedToken, opTok.Location, "expected '=', found %s", opTok.Kind)
	}
}

// expressionHead handles a statement whose leading token is not an
// identifier: the only form this grammar admits is `'*' number '=' rhs`
// — an indirect memory write through a constant address.
func (p *Parser) expressionHead(head token.Token) error {
	if head.Kind != token.SymbolAsterisk {
		return asmerr.Atf(asmerr.UnexpectedToken, head.Location, "unexpected token %s", head.Kind)
	}
	if _, err := p.read(); err != nil { // consume '*'
		return err
	}
	numTok, err := p.expect(token.Number)
	if err != nil {
		return err
	}
	opTok, err := p.read()
	if err != nil {
		return err
	}
	if opTok.Kind != token.SymbolEquals {
		return asmerr.Atf(asmerr.UnexpectedToken, opTok.Location, "expected '=', found %s", opTok.Kind)
	}
	lhs := codegen.Operand{
		Access: codegen.Indirect,
		Value:  codegen.Value{Kind: codegen.ValueConstant, Constant: numTok.Lexeme},
		Token:  &numTok,
	}
	return p.finishAssignment(lhs)
}

// finishAssignment parses the right-hand side and hands the {lhs, rhs}
// operand pair to the generator. Only a direct register destination
// with a literal-number right-hand side is fully encoded (spec.md
// §4.4.2); every other admitted combination is grammar-complete but
// stub-encoded by the generator itself.
func (p *Parser) finishAssignment(lhs codegen.Operand) error {
	rhs, err := p.parseAssignmentRHS()
	if err != nil {
		return err
	}
	if err := p.gen.EmitAssignment(lhs, rhs); err != nil {
		return asmerr.WrapGenerator(err)
	}
	return nil
}

// parseAssignmentRHS parses
//
//	rhs := number | '*' (identifier|number) | register-identifier | '@' Current '(' ')' | '@' Origin '(' ')'
//
// returning a constant Operand for a bare literal (the only fully
// encoded case) and an identifier Operand — carrying no further
// meaning than "not a constant" — for every other admitted form.
func (p *Parser) parseAssignmentRHS() (codegen.Operand, error) {
	t, err := p.read()
	if err != nil {
		return codegen.Operand{}, err
	}
	switch t.Kind {
	case token.Number:
		return codegen.Operand{
			Access: codegen.Direct,
			Value:  codegen.Value{Kind: codegen.ValueConstant, Constant: t.Lexeme},
			Token:  &t,
		}, nil
	case token.Identifier:
		return codegen.Operand{
			Access: codegen.Direct,
			Value:  codegen.Value{Kind: codegen.ValueIdentifier, Identifier: t.Lexeme},
			Token:  &t,
		}, nil
	case token.SymbolAsterisk:
		operand, err := p.read()
		if err != nil {
			return codegen.Operand{}, err
		}
		if operand.Kind != token.Identifier && operand.Kind != token.Number {
			return codegen.Operand{}, asmerr.Atf(asmerr.UnexpectedToken, operand.Location, "expected identifier or number after '*', found %s", operand.Kind)
		}
		return codegen.Operand{Access: codegen.Indirect, Value: codegen.Value{Kind: codegen.ValueIdentifier, Identifier: operand.Lexeme}, Token: &operand}, nil
	case token.SymbolAt:
		nameTok, err := p.read()
		if err != nil {
			return codegen.Operand{}, err
		}
		if nameTok.Kind != token.ReservedCurrent && nameTok.Kind != token.ReservedStart {
			return codegen.Operand{}, asmerr.Atf(asmerr.UnexpectedToken, nameTok.Location, "expected Current or Origin, found %q", nameTok.Lexeme)
		}
		if _, err := p.expect(token.SymbolLeftParenthesis); err != nil {
			return codegen.Operand{}, err
		}
		if _, err := p.expect(token.SymbolRightParenthesis); err != nil {
			return codegen.Operand{}, err
		}
		return codegen.Operand{Access: codegen.Direct, Value: codegen.Value{Kind: codegen.ValueIdentifier, Identifier: nameTok.Lexeme}, Token: &nameTok}, nil
	default:
		return codegen.Operand{}, asmerr.Atf(asmerr.UnexpectedToken, t.Location, "unexpected right-hand side %s", t.Kind)
	}
}

// jumpInstruction handles `jmp <operand>` per spec.md §4.2.3.
func (p *Parser) jumpInstruction() error {
	if _, err := p.read(); err != nil { // consume 'jmp'
		return err
	}
	t, err := p.read()
	if err != nil {
		return err
	}
	var operand codegen.Value
	switch t.Kind {
	case token.Number:
		operand = codegen.Value{Kind: codegen.ValueConstant, Constant: t.Lexeme}
	case token.Identifier:
		operand = codegen.Value{Kind: codegen.ValueIdentifier, Identifier: t.Lexeme}
	default:
		return asmerr.Atf(asmerr.UnexpectedToken, t.Location, "expected jump target, found %s", t.Kind)
	}
	if err := p.gen.EmitJump(operand); err != nil {
		return asmerr.WrapGenerator(err)
	}
	return nil
}
