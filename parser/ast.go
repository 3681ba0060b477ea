package parser

import "github.com/irvm/iridium/vm"

// OperandKind identifies which alternative of the operand grammar a
// parsed Operand holds.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandInteger
	OperandFloat
	OperandLabelUsage
	OperandString
)

// Operand is a parsed operand: register, integer immediate, float
// immediate, label reference, or string literal. Exactly one set of
// fields is meaningful, selected by Kind.
type Operand struct {
	Kind     OperandKind
	Register uint8
	Integer  int32
	Float    float64
	Label    string
	Text     string
	Pos      Position
}

// AssemblerInstruction is one parsed line: an optional label
// declaration plus either a directive or an opcode, plus up to three
// operands filled left to right.
type AssemblerInstruction struct {
	Label     string // "" if this instruction bears no label
	Directive string // directive name without the leading '.'; "" if this is an opcode instruction
	HasOpcode bool
	Opcode    vm.Opcode
	Operands  [3]*Operand // nil entries mean the slot was not filled
	Pos       Position
}

// NumOperands returns how many of the three operand slots are filled.
func (ai *AssemblerInstruction) NumOperands() int {
	n := 0
	for _, op := range ai.Operands {
		if op != nil {
			n++
		}
	}
	return n
}

// IsSectionHeader reports whether this instruction is a zero-operand
// directive such as `.data` or `.code`.
func (ai *AssemblerInstruction) IsSectionHeader() bool {
	return ai.Directive != "" && ai.NumOperands() == 0
}

// Program is an ordered sequence of parsed instructions. Order is
// source order and is semantically significant: instruction addresses
// depend on it.
type Program struct {
	Instructions []*AssemblerInstruction
}
