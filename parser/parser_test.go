package parser

import (
	"testing"

	"github.com/irvm/iridium/vm"
)

func TestParseSectionHeaders(t *testing.T) {
	prog := NewParser(".data\n.code\n", "test").ParseProgram()
	if len(prog.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(prog.Instructions))
	}
	if !prog.Instructions[0].IsSectionHeader() || prog.Instructions[0].Directive != "data" {
		t.Errorf("instruction 0 = %+v, want data section header", prog.Instructions[0])
	}
	if !prog.Instructions[1].IsSectionHeader() || prog.Instructions[1].Directive != "code" {
		t.Errorf("instruction 1 = %+v, want code section header", prog.Instructions[1])
	}
}

func TestParseOpcodeWithOperands(t *testing.T) {
	p := NewParser("add $0 $1 $2", "test")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	if len(prog.Instructions) != 1 {
		t.Fatalf("got %d instructions, want 1", len(prog.Instructions))
	}
	inst := prog.Instructions[0]
	if inst.Opcode != vm.ADD {
		t.Errorf("opcode = %v, want ADD", inst.Opcode)
	}
	if inst.NumOperands() != 3 {
		t.Fatalf("got %d operands, want 3", inst.NumOperands())
	}
	for i, want := range []uint8{0, 1, 2} {
		if inst.Operands[i].Kind != OperandRegister || inst.Operands[i].Register != want {
			t.Errorf("operand %d = %+v, want register %d", i, inst.Operands[i], want)
		}
	}
}

func TestParseUnknownOpcodeYieldsIGL(t *testing.T) {
	p := NewParser("frobnicate $0", "test")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unknown mnemonics must not be parse errors: %v", p.Errors())
	}
	if prog.Instructions[0].Opcode != vm.IGL {
		t.Errorf("opcode = %v, want IGL", prog.Instructions[0].Opcode)
	}
}

func TestParseLabelDeclOnInstruction(t *testing.T) {
	p := NewParser("loop: inc $0", "test")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	inst := prog.Instructions[0]
	if inst.Label != "loop" {
		t.Errorf("label = %q, want loop", inst.Label)
	}
	if inst.Opcode != vm.INC {
		t.Errorf("opcode = %v, want INC", inst.Opcode)
	}
}

func TestParseAsciizDirective(t *testing.T) {
	p := NewParser("greet: .asciiz 'Hello'", "test")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	inst := prog.Instructions[0]
	if inst.Label != "greet" || inst.Directive != "asciiz" {
		t.Fatalf("instruction = %+v, want label greet, directive asciiz", inst)
	}
	if inst.Operands[0] == nil || inst.Operands[0].Kind != OperandString || inst.Operands[0].Text != "Hello" {
		t.Errorf("operand 0 = %+v, want string Hello", inst.Operands[0])
	}
}

func TestParseLabelUsageOperand(t *testing.T) {
	p := NewParser("jmpe @test", "test")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	op := prog.Instructions[0].Operands[0]
	if op.Kind != OperandLabelUsage || op.Label != "test" {
		t.Errorf("operand = %+v, want label usage 'test'", op)
	}
}

func TestParseFloatOperand(t *testing.T) {
	p := NewParser("loadf64 $0 #5.5", "test")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	op := prog.Instructions[0].Operands[1]
	if op.Kind != OperandFloat || op.Float != 5.5 {
		t.Errorf("operand = %+v, want float 5.5", op)
	}
}

func TestParseFullProgram(t *testing.T) {
	source := ".data\n.code\nload $0 #5\nload $1 #10\nadd $0 $1 $2\nhlt"
	p := NewParser(source, "test")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(prog.Instructions) != 6 {
		t.Fatalf("got %d instructions, want 6", len(prog.Instructions))
	}
}

func TestParseIdentifierWithoutColonIsOpcodeForm(t *testing.T) {
	// "loop" with no trailing colon is not a label declaration; it
	// parses as an opcode-form instruction (unknown mnemonic -> IGL)
	// taking $0 as its operand, not a structural error.
	p := NewParser("loop $0", "test")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if prog.Instructions[0].Label != "" {
		t.Errorf("label = %q, want empty", prog.Instructions[0].Label)
	}
}
