// Package parser implements the pull-based recursive-descent parser:
// one token of lookahead over the tokenizer, dispatching on token kind
// to directive, label, expression, and jump handlers and driving the
// code generator.
//
// Grounded on the teacher's shared/assembler/assembler.go top-level
// loop (InLine / parseAsmLine dispatching by leading token into
// directive handlers or instruction handling), generalized from its
// line-oriented string splitting into genuine token-stream
// lookahead, and widened to the constant-expression grammar and
// register/jump forms this assembler's syntax adds.
package parser

import (
	"github.com/mpetrov/flatasm/internal/asmerr"
	"github.com/mpetrov/flatasm/internal/codegen"
	"github.com/mpetrov/flatasm/internal/lexer"
	"github.com/mpetrov/flatasm/internal/token"
)

// Parser holds the one-token lookahead buffer over a Lexer and the
// Generator it drives.
type Parser struct {
	lex    *lexer.Lexer
	gen    *codegen.Generator
	peeked *token.Token

	// OnStatement, if set, is called with every statement's leading
	// token kind and lexeme before it is dispatched — the per-statement
	// half of spec_full.md §4.5's diagnostics commitment.
	OnStatement func(kind, lexeme string)

	// OnPassComplete, if set, is called with the pass that just
	// finished and a snapshot of the generator's pending-jump list —
	// the other half of spec_full.md §4.5's diagnostics commitment
	// ("the pending-jump list after each pass").
	OnPassComplete func(pass codegen.Pass, pending []codegen.PendingJumpInfo)
}

// New builds a Parser over lex, driving gen.
func New(lex *lexer.Lexer, gen *codegen.Generator) *Parser {
	return &Parser{lex: lex, gen: gen}
}

func (p *Parser) peek() (token.Token, error) {
	if p.peeked != nil {
		return *p.peeked, nil
	}
	t, err := p.lex.NextToken()
	if err != nil {
		return token.Token{}, err
	}
	p.peeked = &t
	return t, nil
}

func (p *Parser) read() (token.Token, error) {
	t, err := p.peek()
	if err != nil {
		return token.Token{}, err
	}
	p.peeked = nil
	return t, nil
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	t, err := p.read()
	if err != nil {
		return token.Token{}, err
	}
	if t.Kind != kind {
		return token.Token{}, asmerr.Atf(asmerr.UnexpectedToken, t.Location, "expected %s, found %s %q", kind, t.Kind, t.Lexeme)
	}
	return t, nil
}

// Assemble runs the parser to completion twice over the same source —
// pass one to compute label addresses and pending-jump sizes, pass
// two to emit final bytes — re-initializing the tokenizer and
// advancing the generator between them (spec.md §4.4.1).
func (p *Parser) Assemble() error {
	if err := p.runPass(); err != nil {
		return err
	}
	p.reportPassComplete()
	if err := p.lex.Reinit(); err != nil {
		return asmerr.Newf(asmerr.InternalException, "tokenizer reinit failed: %v", err)
	}
	p.peeked = nil
	if err := p.gen.NextPass(); err != nil {
		return asmerr.WrapGenerator(err)
	}
	if err := p.runPass(); err != nil {
		return err
	}
	p.reportPassComplete()
	return nil
}

func (p *Parser) reportPassComplete() {
	if p.OnPassComplete != nil {
		p.OnPassComplete(p.gen.Pass, p.gen.PendingJumps())
	}
}

// runPass drives one full pass over the token stream: skip blank
// lines, dispatch a statement, skip trailing blank lines, repeat until
// EOF.
func (p *Parser) runPass() error {
	for {
		if err := p.skipNewLines(); err != nil {
			return err
		}
		head, err := p.peek()
		if err != nil {
			return err
		}
		if head.Kind == token.EOF {
			return nil
		}
		if err := p.statement(head); err != nil {
			return err
		}
		if err := p.skipNewLines(); err != nil {
			return err
		}
	}
}

func (p *Parser) skipNewLines() error {
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.Kind != token.NewLine {
			return nil
		}
		if _, err := p.read(); err != nil {
			return err
		}
	}
}

// statement dispatches on the head token per spec.md §4.2.
func (p *Parser) statement(head token.Token) error {
	if p.OnStatement != nil {
		p.OnStatement(head.Kind.String(), head.Lexeme)
	}
	switch head.Kind {
	case token.SymbolAt:
		return p.directive()
	case token.InstructionJmp:
		return p.jumpInstruction()
	case token.Identifier:
		return p.labelOrExpression()
	default:
		return p.expressionHead(head)
	}
}
