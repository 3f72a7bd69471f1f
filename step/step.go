// Package step implements the software single-step mechanism of
// spec.md §4.5: plant a one-shot breakpoint opcode at the
// decode-computed next-PC, resume the target, and undo the patch once
// the planted trap fires.
package step

import (
	"github.com/msalau/rx-gdb-stub/config"
	"github.com/msalau/rx-gdb-stub/decode"
	"github.com/msalau/rx-gdb-stub/mem"
	"github.com/msalau/rx-gdb-stub/regs"
)

// Record remembers the one byte StartStep overwrote, so FinishStep can
// put it back before the engine reports the stop.
type Record struct {
	Address     uint32
	SavedOpcode byte
}

// StartStep computes the next PC from the current register file and
// plants cfg.BreakOpcode there, returning the patch to undo later. It
// does not touch PC itself — the target resumes from wherever it
// already is and runs until the planted trap fires. If the decoder
// returns the current PC (an instruction it cannot step), nothing is
// planted and the returned Record's Address equals PC.
func StartStep(f *regs.File, space mem.Space, cfg config.Config) Record {
	target := decode.NextPC(f.Get(regs.PC), f, space)
	rec := Record{
		Address:     target,
		SavedOpcode: space.ReadByte(target),
	}
	if target == f.Get(regs.PC) {
		return rec
	}
	space.WriteByte(target, cfg.BreakOpcode)
	return rec
}

// FinishStep restores the byte StartStep overwrote. It must be called
// exactly once per StartStep, whether or not the planted trap is what
// actually stopped the target (spec.md §4.5 edge case: an unrelated
// breakpoint or async entry can fire first).
func FinishStep(space mem.Space, rec Record) {
	space.WriteByte(rec.Address, rec.SavedOpcode)
}
