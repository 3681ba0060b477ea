package vm

import (
	"fmt"
	"math"
	"os"
	"unicode/utf8"
)

// floatEpsilon is the tolerance used by the float equality opcodes
// (EQF64/NEQF64): direct equality on f64 is unreliable once a value
// has gone through float arithmetic, so they compare |a-b| against
// this tolerance instead of using `==`. GTF64/GTEF64/LTF64/LTEF64
// compare their operands directly.
const floatEpsilon = 1e-10

// executeInstruction fetches one opcode byte plus its operand bytes,
// dispatches on it, and reports whether the VM halted. The opcode
// byte and every operand byte, even unused padding, are always
// consumed here: every instruction is 4 bytes wide regardless of how
// many of those bytes a given opcode's semantics use.
func (v *VM) executeInstruction() (exitCode int32, halted bool) {
	opByte, err := v.fetchU8()
	if err != nil {
		return 1, true
	}
	op := Opcode(opByte)

	switch op {
	case LOAD:
		r, _ := v.fetchU8()
		imm, _ := v.fetchU16()
		v.Registers.Set(r, int32(imm))

	case ADD:
		r1, r2, rd := v.fetchThreeRegs()
		v.Registers.Set(rd, v.Registers.Get(r1)+v.Registers.Get(r2))
	case SUB:
		r1, r2, rd := v.fetchThreeRegs()
		v.Registers.Set(rd, v.Registers.Get(r1)-v.Registers.Get(r2))
	case MUL:
		r1, r2, rd := v.fetchThreeRegs()
		v.Registers.Set(rd, v.Registers.Get(r1)*v.Registers.Get(r2))
	case DIV:
		r1, r2, rd := v.fetchThreeRegs()
		a, b := v.Registers.Get(r1), v.Registers.Get(r2)
		if b == 0 {
			return 1, true
		}
		v.Registers.Set(rd, a/b)
		v.Registers.Remainder = a % b

	case HLT:
		return 0, true

	case JMP:
		r, _ := v.fetchU8()
		v.fetchU8()
		v.fetchU8()
		v.Registers.PC = uint32(v.Registers.Get(r))
	case JMPF:
		r, _ := v.fetchU8()
		v.fetchU8()
		v.fetchU8()
		v.Registers.PC += uint32(v.Registers.Get(r))
	case JMPB:
		r, _ := v.fetchU8()
		v.fetchU8()
		v.fetchU8()
		v.Registers.PC -= uint32(v.Registers.Get(r))

	case EQ:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.Get(r1) == v.Registers.Get(r2)
	case NEQ:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.Get(r1) != v.Registers.Get(r2)
	case GT:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.Get(r1) > v.Registers.Get(r2)
	case LT:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.Get(r1) < v.Registers.Get(r2)
	case GTE:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.Get(r1) >= v.Registers.Get(r2)
	case LTE:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.Get(r1) <= v.Registers.Get(r2)

	case JMPE:
		r, _ := v.fetchU8()
		v.fetchU8()
		v.fetchU8()
		if v.Registers.EqualFlag {
			v.Registers.PC = uint32(v.Registers.Get(r))
		}

	case NOP:
		v.fetchU8()
		v.fetchU8()
		v.fetchU8()

	case ALOC:
		r, _ := v.fetchU8()
		v.fetchU8()
		v.fetchU8()
		v.Heap.Grow(v.Registers.Get(r))

	case INC:
		r, _ := v.fetchU8()
		v.fetchU8()
		v.fetchU8()
		v.Registers.Set(r, v.Registers.Get(r)+1)
	case DEC:
		r, _ := v.fetchU8()
		v.fetchU8()
		v.fetchU8()
		v.Registers.Set(r, v.Registers.Get(r)-1)

	case DJMPE:
		imm, _ := v.fetchU16()
		v.fetchU8()
		if v.Registers.EqualFlag {
			v.Registers.PC = uint32(imm)
		}

	case PRTS:
		imm, _ := v.fetchU16()
		v.fetchU8()
		v.printString(uint32(imm))

	case LOADF64:
		r, _ := v.fetchU8()
		imm, _ := v.fetchU16()
		v.Registers.SetF(r, float64(imm))

	case ADDF64:
		r1, r2, rd := v.fetchThreeRegs()
		v.Registers.SetF(rd, v.Registers.GetF(r1)+v.Registers.GetF(r2))
	case SUBF64:
		r1, r2, rd := v.fetchThreeRegs()
		v.Registers.SetF(rd, v.Registers.GetF(r1)-v.Registers.GetF(r2))
	case MULF64:
		r1, r2, rd := v.fetchThreeRegs()
		v.Registers.SetF(rd, v.Registers.GetF(r1)*v.Registers.GetF(r2))
	case DIVF64:
		r1, r2, rd := v.fetchThreeRegs()
		v.Registers.SetF(rd, v.Registers.GetF(r1)/v.Registers.GetF(r2))

	case EQF64:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = math.Abs(v.Registers.GetF(r1)-v.Registers.GetF(r2)) < floatEpsilon
	case NEQF64:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = math.Abs(v.Registers.GetF(r1)-v.Registers.GetF(r2)) > floatEpsilon
	case GTF64:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.GetF(r1) > v.Registers.GetF(r2)
	case GTEF64:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.GetF(r1) >= v.Registers.GetF(r2)
	case LTF64:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.GetF(r1) < v.Registers.GetF(r2)
	case LTEF64:
		r1, r2, _ := v.fetchThreeRegs()
		v.Registers.EqualFlag = v.Registers.GetF(r1) <= v.Registers.GetF(r2)

	default: // IGL, including any opcode byte outside the defined range
		return 1, true
	}

	return 0, false
}

func (v *VM) fetchThreeRegs() (r1, r2, rd uint8) {
	r1, _ = v.fetchU8()
	r2, _ = v.fetchU8()
	rd, _ = v.fetchU8()
	return
}

// printString scans ro_data from offset until a 0x00 terminator and
// writes the bytes in between to standard output. A UTF-8 decoding
// error is reported but does not stop execution.
func (v *VM) printString(offset uint32) {
	ro := v.roData
	if int(offset) >= len(ro) {
		fmt.Fprintf(os.Stderr, "prts: offset %d out of range of ro data (len %d)\n", offset, len(ro))
		return
	}
	end := int(offset)
	for end < len(ro) && ro[end] != 0 {
		end++
	}
	if !utf8.Valid(ro[offset:end]) {
		fmt.Fprintf(os.Stderr, "prts: invalid UTF-8 in string at ro offset %d\n", offset)
		return
	}
	os.Stdout.Write(ro[offset:end])
}
