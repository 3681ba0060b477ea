package vm

import "fmt"

// Magic is the 4-byte signature every well-formed image starts with.
var Magic = [4]byte{0x45, 0x50, 0x49, 0x45}

// HeaderSize is the fixed size, in bytes, of the image header: magic
// prefix, little-endian RO length, and zero padding out to 64 bytes.
const HeaderSize = 64

// VM is a single Iridium virtual machine instance. Its state is
// entirely self-contained: the register file, the heap, the read-only
// data segment and the program image. Two VM values never share
// mutable state, so they may run on separate goroutines without
// synchronization (see the scheduler package).
type VM struct {
	Registers *Registers
	Heap      *Heap

	// CycleLimit caps how many instructions Run will execute before
	// forcing a Crash, guarding against runaway loops that cannot
	// otherwise be cancelled mid-instruction. Zero means unlimited.
	// main sets it from config for file runs; the REPL, TUI and remote
	// sessions leave it at zero.
	CycleLimit uint64

	image  []byte
	roData []byte

	events []VMEvent
}

// New creates an empty VM, ready to receive an image via AddBytes.
func New() *VM {
	return &VM{
		Registers: NewRegisters(),
		Heap:      NewHeap(),
	}
}

// AddBytes appends bytes to the VM's program image. Called once with
// a complete assembled image in the common case, but nothing prevents
// building the image incrementally.
func (v *VM) AddBytes(image []byte) {
	v.image = append(v.image, image...)
}

// Run validates the header, then repeatedly executes instructions
// until the program halts, crashes, or hits an illegal opcode. It
// returns the full event history of the run.
func (v *VM) Run() []VMEvent {
	v.events = append(v.events, StartEvent())

	if len(v.image) < HeaderSize {
		v.events = append(v.events, CrashEvent(1))
		return v.events
	}
	if v.image[0] != Magic[0] || v.image[1] != Magic[1] || v.image[2] != Magic[2] || v.image[3] != Magic[3] {
		v.events = append(v.events, CrashEvent(1))
		return v.events
	}

	roLen := uint32(v.image[4]) | uint32(v.image[5])<<8 | uint32(v.image[6])<<16 | uint32(v.image[7])<<24
	roStart := uint32(HeaderSize)
	roEnd := roStart + roLen
	if roEnd > uint32(len(v.image)) {
		v.events = append(v.events, CrashEvent(1))
		return v.events
	}
	v.roData = v.image[roStart:roEnd]
	v.Registers.PC = roEnd

	var cycles uint64
	for {
		if v.CycleLimit != 0 && cycles >= v.CycleLimit {
			v.events = append(v.events, CrashEvent(1))
			return v.events
		}
		exitCode, halted := v.executeInstruction()
		cycles++
		if halted {
			v.events = append(v.events, GracefulStopEvent(exitCode))
			return v.events
		}
	}
}

// RunOnce executes a single fetch/decode/dispatch step without any
// header validation, returning true if that step halted the VM. This
// is the primitive a REPL or single-stepping debugger front end uses:
// it assumes the caller has already positioned PC and populated ro
// data (or is running headerless code against an empty ro segment).
func (v *VM) RunOnce() (exitCode int32, halted bool) {
	return v.executeInstruction()
}

// ROData returns the VM's read-only data segment, as set by the most
// recent Run.
func (v *VM) ROData() []byte {
	return v.roData
}

// SetROData lets a caller (REPL, test) populate the ro segment
// directly when bypassing Run's header parsing.
func (v *VM) SetROData(data []byte) {
	v.roData = data
}

// SetCode lets a caller replace the executable portion of the image
// directly, used by RunOnce-driven callers that never assembled a
// full header.
func (v *VM) SetCode(code []byte) {
	v.image = code
	v.Registers.PC = 0
}

func (v *VM) fetchU8() (byte, error) {
	if int(v.Registers.PC) >= len(v.image) {
		return 0, fmt.Errorf("program counter %d out of range (image length %d)", v.Registers.PC, len(v.image))
	}
	b := v.image[v.Registers.PC]
	v.Registers.PC++
	return b, nil
}

func (v *VM) fetchU16() (uint16, error) {
	hi, err := v.fetchU8()
	if err != nil {
		return 0, err
	}
	lo, err := v.fetchU8()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
