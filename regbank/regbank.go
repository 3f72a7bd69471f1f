// Package regbank defines the boundary between the naked-entry
// trampoline (architecture glue, owned by the board support package and
// out of scope for this repository per spec.md §1) and the context
// save/restore logic. It plays the same role here that the hypervisor
// package's KVM_GET_REGS/KVM_SET_REGS ioctl wrappers play for a VCPU: a
// narrow, typed accessor over raw CPU state that the engine never has
// to reach into assembly or a mmapped struct to use directly.
package regbank

// CSR names one of the control/status registers captured on entry,
// beyond the 16 general-purpose registers and the exception frame.
type CSR int

const (
	CSRIntb CSR = iota
	CSRBpsw
	CSRBpc
	CSRFintv
	CSRFpsw
)

// Bank is implemented by the board support package's naked-ISR glue. A
// naked handler pushes the CPU's exception frame and general-purpose
// registers to the stack before calling into Go; Bank is the read/write
// view context.Save and context.Restore use to move that state into and
// out of a regs.File, exactly as vcpu.go moves x86 state into and out
// of a VirtualMachine's guest via KvmRegs/KvmSregs.
type Bank interface {
	// GPR reads/writes general-purpose register r (r=1..15). r0 is not
	// moved through GPR by the save/restore sequence, since it shadows
	// the active stack pointer.
	GPR(r int) uint32
	SetGPR(r int, v uint32)

	// ActiveSP returns the stack pointer the CPU was using at the stop
	// point (USP or ISP depending on the mode the exception frame
	// records), and SetActiveSP writes it back on resume.
	ActiveSP() uint32
	SetActiveSP(v uint32)

	// USP and ISP read/write the two stack pointers directly, so that
	// the inactive one can be captured/restored too.
	USP() uint32
	SetUSP(v uint32)
	ISP() uint32
	SetISP(v uint32)

	// FramePC and FramePSW are PC and PSW as pushed onto the stack by
	// the hardware exception frame (spec.md §4.3: "pop exception-frame
	// PC and PSW").
	FramePC() uint32
	SetFramePC(v uint32)
	FramePSW() uint32
	SetFramePSW(v uint32)

	// CSRRead/CSRWrite access INTB, BPSW, BPC, FINTV, FPSW.
	CSRRead(c CSR) uint32
	CSRWrite(c CSR, v uint32)

	// AccLow/AccHigh access the two halves of the 64-bit
	// multiply-accumulate register.
	AccLow() uint32
	SetAccLow(v uint32)
	AccHigh() uint32
	SetAccHigh(v uint32)
}
