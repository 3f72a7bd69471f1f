// Package context implements the save/restore sequence of spec.md §4.3:
// moving CPU state between the hardware exception frame (reached
// through a regbank.Bank) and the engine's regs.File. Save and Restore
// are a matched pair — invoking one after the other with no
// intervening mutation must leave every architectural bit the halted
// program can observe unchanged (spec.md §8, property 3).
package context

import (
	"github.com/msalau/rx-gdb-stub/regbank"
	"github.com/msalau/rx-gdb-stub/regs"
)

// Save captures the CPU state reachable through bank into f. It mirrors
// the asm prologue's sequencing from spec.md §4.3: R1-R14 first, then
// the stack pointers, then PSW/PC/INTB/BPSW/BPC/FINTV/FPSW/ACC, and
// finally R0 is set to whichever of USP/ISP the PSW.U bit names as
// active — the register file's single source of truth for "the current
// stack pointer" while stopped.
func Save(bank regbank.Bank, f *regs.File) {
	for r := 1; r <= 14; r++ {
		f.Set(regs.Index(r), bank.GPR(r))
	}
	f.Set(regs.R15, bank.GPR(15))

	f.Set(regs.USP, bank.USP())
	f.Set(regs.ISP, bank.ISP())

	f.Set(regs.PSW, bank.FramePSW())
	f.Set(regs.PC, bank.FramePC())

	f.Set(regs.INTB, bank.CSRRead(regbank.CSRIntb))
	f.Set(regs.BPSW, bank.CSRRead(regbank.CSRBpsw))
	f.Set(regs.BPC, bank.CSRRead(regbank.CSRBpc))
	f.Set(regs.FINTV, bank.CSRRead(regbank.CSRFintv))
	f.Set(regs.FPSW, bank.CSRRead(regbank.CSRFpsw))

	f.SetAccLow(bank.AccLow())
	f.SetAccHigh(bank.AccHigh())

	if f.UserMode() {
		f.Set(regs.R0, f.Get(regs.USP))
	} else {
		f.Set(regs.R0, f.Get(regs.ISP))
	}
}

// Restore writes f back out through bank, mirroring Save in reverse so
// that the hardware's return-from-exception instruction resumes user
// code exactly where it left off (or wherever the engine explicitly
// redirected it via a 'G'/'P'/'c'/'s' packet). Per spec.md §4.3, R0 is
// written back to whichever of ISP/USP is active according to PSW.U —
// R0 itself is never a distinct physical register on this family.
func Restore(f *regs.File, bank regbank.Bank) {
	if f.UserMode() {
		bank.SetUSP(f.Get(regs.R0))
		bank.SetISP(f.Get(regs.ISP))
	} else {
		bank.SetISP(f.Get(regs.R0))
		bank.SetUSP(f.Get(regs.USP))
	}

	for r := 1; r <= 14; r++ {
		bank.SetGPR(r, f.Get(regs.Index(r)))
	}
	bank.SetGPR(15, f.Get(regs.R15))

	bank.SetFramePSW(f.Get(regs.PSW))
	bank.SetFramePC(f.Get(regs.PC))

	bank.CSRWrite(regbank.CSRIntb, f.Get(regs.INTB))
	bank.CSRWrite(regbank.CSRBpsw, f.Get(regs.BPSW))
	bank.CSRWrite(regbank.CSRBpc, f.Get(regs.BPC))
	bank.CSRWrite(regbank.CSRFintv, f.Get(regs.FINTV))
	bank.CSRWrite(regbank.CSRFpsw, f.Get(regs.FPSW))

	bank.SetAccLow(f.AccLow())
	bank.SetAccHigh(f.AccHigh())
}
