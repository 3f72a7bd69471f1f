// Package isr exposes the three naked-ISR bodies of spec.md §4.7 as
// plain Go-callable functions. The actual naked prologue/epilogue — the
// asm that pushes the hardware exception frame and loads a
// regbank.Bank before jumping here — is board support package glue and
// out of scope (spec.md §1); what belongs in this repository is the
// save-enter-restore shape every one of the three handlers shares.
package isr

import (
	"github.com/msalau/rx-gdb-stub/context"
	"github.com/msalau/rx-gdb-stub/engine"
	"github.com/msalau/rx-gdb-stub/hexcodec"
	"github.com/msalau/rx-gdb-stub/packet"
	"github.com/msalau/rx-gdb-stub/regbank"
	"github.com/msalau/rx-gdb-stub/transport"
)

// breakByte is the host's break-in request while the target is Running
// (spec.md §6: "Break-in byte during Running: 0x03").
const breakByte = 0x03

// BreakpointTrap is the body of the software-breakpoint trap ISR: save,
// enter the engine reporting a Trap, restore.
func BreakpointTrap(bank regbank.Bank, e *engine.Engine) {
	context.Save(bank, e.Regs)
	e.Enter(engine.SignalTrap)
	context.Restore(e.Regs, bank)
}

// UARTReceive is the body of the UART RX-complete ISR. It clears the
// pending condition via clearRXPending, and only enters the engine if
// the received byte is the break-in request; any other byte arriving
// while Running is discarded, per spec.md §4.7.
func UARTReceive(bank regbank.Bank, e *engine.Engine, received byte, clearRXPending func()) {
	clearRXPending()
	if received != breakByte {
		return
	}
	context.Save(bank, e.Regs)
	e.Enter(engine.SignalInterrupt)
	context.Restore(e.Regs, bank)
}

// UARTError is the body of the UART error / line-break ISR. lineIsHigh
// polls the physical line condition, and the three clear callbacks
// mirror spec.md §4.7's "clear error and RX pending; drain data
// register; clear SSR" sequence, each supplied by the board support
// package since they touch peripheral registers this repository never
// names directly.
func UARTError(bank regbank.Bank, e *engine.Engine, lineIsHigh func() bool, clearErrorAndRXPending, drainDataRegister, clearStatus func()) {
	for !lineIsHigh() {
	}
	clearErrorAndRXPending()
	drainDataRegister()
	clearStatus()

	context.Save(bank, e.Regs)
	e.Enter(engine.SignalInterrupt)
	context.Restore(e.Regs, bank)
}

// DebugPuts implements the INT#1 side channel of spec.md §4.7: user
// code raises a software interrupt to print s on the host via an 'O'
// (output) packet, without otherwise entering the Stopped state.
func DebugPuts(t transport.Transport, s string) error {
	return packet.Send(t, EncodeOutput(s))
}

// EncodeOutput hex-encodes s into a GDB-style 'O' output packet body,
// the console-output side channel referenced by spec.md §4.7 and named
// explicitly in this repository's supplemented-features notes.
func EncodeOutput(s string) []byte {
	raw := []byte(s)
	out := make([]byte, 1+2*len(raw))
	out[0] = 'O'
	hexcodec.Encode(out[1:], raw)
	return out
}
