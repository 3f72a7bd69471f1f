// Package config holds the build-time constants of the stub.
//
// Unlike a hosted program, the stub has no filesystem and no command
// line: every value here is meant to be fixed at compile time by the
// board support package and baked into the image. The host simulator
// (cmd/simstub) is the one place that overrides these at runtime, via
// flags, to exercise the engine against different configurations.
package config

// Config bundles the values spec.md §6 Environment calls out as
// build-time configuration.
type Config struct {
	// BaudRate is the UART baud rate used by the transport. The core
	// never touches it directly; it is documentation for the BSP that
	// wires the UART peripheral.
	BaudRate uint32

	// PeripheralClockHz is the clock feeding the UART baud generator.
	PeripheralClockHz uint32

	// BreakOpcode is the single-byte trap instruction the step
	// controller plants to emulate single-stepping. It must be a
	// genuine illegal or reserved opcode on the target so that it always
	// traps, never executes as something else.
	BreakOpcode byte

	// BufferSize is the capacity of the packet buffer shared between
	// reception and transmission. spec.md §3 requires at least 512.
	BufferSize int
}

// Default returns the configuration used by the reference BSP: 38400
// baud off a 12 MHz peripheral clock, opcode 0x00 (BRK on this family)
// as the one-shot breakpoint, and a 512-byte packet buffer.
func Default() Config {
	return Config{
		BaudRate:          38400,
		PeripheralClockHz: 12_000_000,
		BreakOpcode:       0x00,
		BufferSize:        512,
	}
}
