package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irvm/iridium/assembler"
	"github.com/irvm/iridium/vm"
)

// S6 — floating-point ADD, end to end: assemble the source exactly as
// spec.md states it, then run the resulting image. This exercises the
// assembler's float-immediate encoding path, not a hand-built image.
func TestAssembleAndRunFloatAdd(t *testing.T) {
	source := ".data\n.code\nloadf64 $0 #5.0\nloadf64 $1 #10.0\naddf64 $0 $1 $2\nhlt"
	img, errs := assembler.Assemble(source, "test")
	require.False(t, errs.HasErrors(), "%v", errs)

	machine := vm.New()
	machine.AddBytes(img.Bytes())
	events := machine.Run()

	last := events[len(events)-1]
	assert.Equal(t, vm.EventGracefulStop, last.Kind)
	assert.Equal(t, int32(0), last.Code)
	assert.Equal(t, 15.0, machine.Registers.GetF(2))
}

// S1 — ADD, end to end, mirrors TestAssembleAndRunFloatAdd's
// assemble-then-run shape for the integer path.
func TestAssembleAndRunAdd(t *testing.T) {
	source := ".data\n.code\nload $0 #5\nload $1 #10\nadd $0 $1 $2\nhlt"
	img, errs := assembler.Assemble(source, "test")
	require.False(t, errs.HasErrors(), "%v", errs)

	machine := vm.New()
	machine.AddBytes(img.Bytes())
	events := machine.Run()

	last := events[len(events)-1]
	assert.Equal(t, vm.EventGracefulStop, last.Kind)
	assert.Equal(t, int32(0), last.Code)
	assert.Equal(t, int32(15), machine.Registers.Get(2))
}
