package parser

import (
	"fmt"

	"github.com/irvm/iridium/vm"
)

// Parser parses Iridium assembly source into a Program using a small
// recursive-descent scheme: one token of lookahead is enough to decide
// label-decl vs. bare instruction, and directive-form vs. opcode-form.
type Parser struct {
	lexer        *Lexer
	currentToken Token
	peekToken    Token
	errors       *ErrorList
}

// NewParser creates a new parser over the given source.
func NewParser(input, filename string) *Parser {
	p := &Parser{
		lexer:  NewLexer(input, filename),
		errors: &ErrorList{},
	}
	// prime currentToken/peekToken
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.currentToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// Errors returns the accumulated parse errors, including any lexer
// errors (lexing happens lazily as the parser advances).
func (p *Parser) Errors() *ErrorList {
	merged := &ErrorList{}
	merged.Errors = append(merged.Errors, p.lexer.Errors().Errors...)
	merged.Errors = append(merged.Errors, p.errors.Errors...)
	return merged
}

func (p *Parser) addError(pos Position, kind ErrorKind, msg string) {
	p.errors.AddError(NewError(pos, kind, msg))
}

// ParseProgram parses the entire input: program := instruction+. It
// consumes as much input as possible; on a structural error it skips
// to the next plausible instruction boundary and keeps going, so a
// single mistake does not hide the rest of the program's errors.
func (p *Parser) ParseProgram() *Program {
	prog := &Program{}

	for p.currentToken.Type != TokenEOF {
		inst, ok := p.parseInstruction()
		if ok {
			prog.Instructions = append(prog.Instructions, inst)
			continue
		}
		// Resynchronize: skip the bad token and retry.
		if p.currentToken.Type == TokenEOF {
			break
		}
		p.advance()
	}

	return prog
}

// parseInstruction parses: instruction := opcode-form | directive-form,
// with an optional leading label-decl on either form.
func (p *Parser) parseInstruction() (*AssemblerInstruction, bool) {
	inst := &AssemblerInstruction{Pos: p.currentToken.Pos}

	if p.currentToken.Type == TokenIdent && p.peekToken.Type == TokenColon {
		inst.Label = p.currentToken.Literal
		p.advance() // consume identifier
		p.advance() // consume ':'
	}

	switch p.currentToken.Type {
	case TokenDirective:
		return p.parseDirectiveForm(inst)
	case TokenIdent:
		return p.parseOpcodeForm(inst)
	case TokenEOF:
		if inst.Label != "" {
			p.addError(inst.Pos, ErrorUnexpectedToken, fmt.Sprintf("label %q declared with no following instruction", inst.Label))
		}
		return nil, false
	default:
		p.addError(p.currentToken.Pos, ErrorUnexpectedToken,
			fmt.Sprintf("expected an opcode or directive, got %s", p.currentToken.Type))
		return nil, false
	}
}

func (p *Parser) parseDirectiveForm(inst *AssemblerInstruction) (*AssemblerInstruction, bool) {
	inst.Directive = p.currentToken.Literal
	p.advance() // consume directive token

	ops, ok := p.parseOperands()
	if !ok {
		return nil, false
	}
	inst.Operands = ops
	return inst, true
}

func (p *Parser) parseOpcodeForm(inst *AssemblerInstruction) (*AssemblerInstruction, bool) {
	inst.HasOpcode = true
	inst.Opcode = vm.MnemonicToOpcode(p.currentToken.Literal)
	p.advance() // consume mnemonic

	ops, ok := p.parseOperands()
	if !ok {
		return nil, false
	}
	inst.Operands = ops
	return inst, true
}

// parseOperands parses up to three operand? operand? operand? slots.
// An operand run ends at the next label-decl, directive, or mnemonic
// that starts a new instruction, or at EOF.
func (p *Parser) parseOperands() ([3]*Operand, bool) {
	var ops [3]*Operand
	for i := 0; i < 3; i++ {
		if !p.startsOperand() {
			break
		}
		op, ok := p.parseOperand()
		if !ok {
			return ops, false
		}
		ops[i] = op
	}
	return ops, true
}

func (p *Parser) startsOperand() bool {
	switch p.currentToken.Type {
	case TokenRegister, TokenInteger, TokenFloat, TokenLabelRef, TokenString:
		return true
	default:
		return false
	}
}

// parseOperand parses a single operand alternative. Float-immediate is
// tried before integer-immediate at the lexer level already (the `#`
// sigil decides the token type by lookahead), so here the dispatch is
// a flat switch over the token's already-resolved type; register and
// immediates are tried before label-usage simply because they have
// distinct sigils, matching the grammar's required alternation order.
func (p *Parser) parseOperand() (*Operand, bool) {
	tok := p.currentToken
	switch tok.Type {
	case TokenRegister:
		p.advance()
		return &Operand{Kind: OperandRegister, Register: tok.Register, Pos: tok.Pos}, true
	case TokenFloat:
		p.advance()
		return &Operand{Kind: OperandFloat, Float: tok.FloatValue, Pos: tok.Pos}, true
	case TokenInteger:
		p.advance()
		return &Operand{Kind: OperandInteger, Integer: tok.IntValue, Pos: tok.Pos}, true
	case TokenLabelRef:
		p.advance()
		return &Operand{Kind: OperandLabelUsage, Label: tok.Literal, Pos: tok.Pos}, true
	case TokenString:
		p.advance()
		return &Operand{Kind: OperandString, Text: tok.Literal, Pos: tok.Pos}, true
	default:
		p.addError(tok.Pos, ErrorUnexpectedToken, fmt.Sprintf("unexpected token in operand position: %s", tok.Type))
		return nil, false
	}
}
