package engine

// Signal is the stop reason reported in state-report 'T' packets
// (spec.md §4.6). The numeric values are the wire codes themselves.
type Signal byte

const (
	SignalInterrupt Signal = 0x02
	SignalTrap      Signal = 0x05
)
