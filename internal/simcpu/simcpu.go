// Package simcpu is a host-only stand-in for the real naked-ISR/register
// bank glue, used by cmd/simstub to exercise the engine end to end
// without target hardware. It is not part of the on-target image.
package simcpu

import (
	"github.com/msalau/rx-gdb-stub/context"
	"github.com/msalau/rx-gdb-stub/mem"
)

// CPU bundles a context.FakeBank with a flat memory image, giving
// cmd/simstub something concrete to debug.
type CPU struct {
	Bank *context.FakeBank
	Mem  *mem.Flat
}

// New allocates a CPU with ramSize bytes of flat memory and a zeroed
// register bank.
func New(ramSize int) *CPU {
	return &CPU{
		Bank: context.NewFakeBank(),
		Mem:  mem.NewFlat(ramSize),
	}
}

// LoadProgram copies image into memory starting at addr and points the
// simulated frame PC at it, as if the target had just halted there.
func (c *CPU) LoadProgram(addr uint32, image []byte) {
	c.Mem.WriteBytes(addr, image)
	c.Bank.SetFramePC(addr)
	c.Bank.SetISP(uint32(len(c.Mem.Bytes)))
}
