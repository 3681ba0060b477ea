package assembler

import (
	"github.com/irvm/iridium/parser"
	"github.com/irvm/iridium/vm"
)

type section int

const (
	sectionNone section = iota
	sectionData
	sectionCode
)

// Assembler runs the two-pass assembly algorithm over a parsed
// Program: first pass lays out sections and resolves every label to
// a byte offset, second pass packs each instruction into its 4-byte
// wire encoding.
type Assembler struct {
	errors  ErrorList
	symbols *parser.SymbolTable

	sawData bool
	sawCode bool

	roData []byte
	roLen  uint32

	codeLen uint32 // running code-segment byte offset, tracked across pass one
}

// NewAssembler creates a fresh assembler, ready to assemble one
// program. Assembler state is not reused across calls: a new instance
// per Assemble call is what guarantees byte-identical output for
// identical input.
func NewAssembler() *Assembler {
	return &Assembler{symbols: parser.NewSymbolTable()}
}

// Assemble runs both passes over source and returns the resulting
// image, or the accumulated error list if pass one failed.
func Assemble(source, filename string) (*VMImage, *ErrorList) {
	p := parser.NewParser(source, filename)
	program := p.ParseProgram()
	if p.Errors().HasErrors() {
		el := &ErrorList{}
		for _, e := range p.Errors().Errors {
			el.add(ErrorParseError, e.Pos, "%s", e.Message)
		}
		return nil, el
	}

	asm := NewAssembler()
	return asm.assembleProgram(program)
}

func (a *Assembler) assembleProgram(program *parser.Program) (*VMImage, *ErrorList) {
	current := sectionNone

	for _, inst := range program.Instructions {
		if inst.IsSectionHeader() {
			switch inst.Directive {
			case "data":
				current = sectionData
				a.sawData = true
			case "code":
				current = sectionCode
				a.sawCode = true
			}
			continue
		}

		if inst.Label != "" && current == sectionNone {
			a.errors.add(ErrorNoSegmentDeclarationFound, inst.Pos, "instruction labeled %q appears before any .data/.code section", inst.Label)
			continue
		}

		if inst.Directive != "" {
			a.processDirective(inst, current)
			continue
		}

		// Opcode instruction: register its label (if any) at the
		// current code offset, then reserve 4 bytes for it.
		if inst.Label != "" {
			if !a.symbols.Declare(inst.Label, a.codeLen) {
				a.errors.add(ErrorSymbolAlreadyDeclared, inst.Pos, "label %q already declared", inst.Label)
			}
		}
		a.codeLen += 4
	}

	if !a.sawData || !a.sawCode {
		a.errors.add(ErrorInsufficientSections, parser.Position{}, "expected one .data and one .code section header, found data=%v code=%v", a.sawData, a.sawCode)
	}

	if a.errors.HasErrors() {
		return nil, &a.errors
	}

	code, encErrs := a.encodeSecondPass(program)
	if encErrs.HasErrors() {
		return nil, encErrs
	}

	return &VMImage{ROData: a.roData, Code: code}, &ErrorList{}
}

// processDirective handles a directive instruction (one bearing
// operands, as opposed to a bare section header). Only `asciiz` is
// recognized at this layer.
func (a *Assembler) processDirective(inst *parser.AssemblerInstruction, current section) {
	switch inst.Directive {
	case "asciiz":
		if inst.Label == "" {
			a.errors.add(ErrorStringConstantDeclaredWithoutLabel, inst.Pos, ".asciiz used without a preceding label")
			return
		}
		if inst.Operands[0] == nil || inst.Operands[0].Kind != parser.OperandString {
			a.errors.add(ErrorParseError, inst.Pos, ".asciiz requires a string literal operand")
			return
		}
		if !a.symbols.Declare(inst.Label, a.roLen) {
			a.errors.add(ErrorSymbolAlreadyDeclared, inst.Pos, "label %q already declared", inst.Label)
			return
		}
		text := inst.Operands[0].Text
		a.roData = append(a.roData, []byte(text)...)
		a.roData = append(a.roData, 0x00)
		a.roLen += uint32(len(text)) + 1
	default:
		a.errors.add(ErrorUnknownDirectiveFound, inst.Pos, "unknown directive %q", inst.Directive)
	}
}

// encodeSecondPass packs every opcode-bearing instruction into its
// 4-byte wire form. Section headers and directives were already fully
// handled in pass one and are no-ops here.
func (a *Assembler) encodeSecondPass(program *parser.Program) ([]byte, *ErrorList) {
	errs := &ErrorList{}
	code := make([]byte, 0, int(a.codeLen))

	for _, inst := range program.Instructions {
		if inst.IsSectionHeader() || inst.Directive != "" {
			continue
		}

		buf := [4]byte{byte(inst.Opcode)}
		pos := 1
		for _, operand := range inst.Operands {
			if operand == nil {
				break
			}
			switch operand.Kind {
			case parser.OperandRegister:
				if pos >= 4 {
					break
				}
				buf[pos] = operand.Register
				pos++
			case parser.OperandInteger:
				v := uint16(int32(operand.Integer))
				if pos+1 >= 4 {
					break
				}
				buf[pos] = byte(v >> 8)
				buf[pos+1] = byte(v)
				pos += 2
			case parser.OperandLabelUsage:
				offset, err := a.symbols.Lookup(operand.Label)
				if err != nil {
					errs.add(ErrorParseError, operand.Pos, "%s", err.Error())
					break
				}
				v := uint16(offset)
				if pos+1 >= 4 {
					break
				}
				buf[pos] = byte(v >> 8)
				buf[pos+1] = byte(v)
				pos += 2
			case parser.OperandFloat:
				// LOADF64 is the one opcode with a float-immediate
				// operand slot; per spec.md's preserved limitation it
				// reuses the 16-bit immediate path (an integer-valued
				// double only), the same truncation the integer
				// branch above performs. Any other opcode carrying a
				// float operand is a genuine encoder error.
				if inst.Opcode != vm.LOADF64 {
					errs.add(ErrorParseError, operand.Pos, "float operand not supported by the fixed encoder on opcode %s", inst.Opcode)
					break
				}
				v := uint16(int32(operand.Float))
				if pos+1 >= 4 {
					break
				}
				buf[pos] = byte(v >> 8)
				buf[pos+1] = byte(v)
				pos += 2
			case parser.OperandString:
				errs.add(ErrorParseError, operand.Pos, "string operand not valid outside .asciiz")
			}
		}
		code = append(code, buf[:]...)
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return code, errs
}
