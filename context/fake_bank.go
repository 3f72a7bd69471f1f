package context

import "github.com/msalau/rx-gdb-stub/regbank"

// FakeBank is a plain-Go regbank.Bank used by tests and by the host
// simulator (cmd/simstub), standing in for the real naked-ISR glue a
// board support package would provide.
type FakeBank struct {
	gpr      [16]uint32
	usp, isp uint32
	framePC  uint32
	framePSW uint32
	csr      [5]uint32
	accLo    uint32
	accHi    uint32
}

func NewFakeBank() *FakeBank { return &FakeBank{} }

func (b *FakeBank) GPR(r int) uint32     { return b.gpr[r] }
func (b *FakeBank) SetGPR(r int, v uint32) { b.gpr[r] = v }

func (b *FakeBank) ActiveSP() uint32 {
	if b.framePSW&(1<<16) != 0 {
		return b.usp
	}
	return b.isp
}

func (b *FakeBank) SetActiveSP(v uint32) {
	if b.framePSW&(1<<16) != 0 {
		b.usp = v
	} else {
		b.isp = v
	}
}

func (b *FakeBank) USP() uint32      { return b.usp }
func (b *FakeBank) SetUSP(v uint32)  { b.usp = v }
func (b *FakeBank) ISP() uint32      { return b.isp }
func (b *FakeBank) SetISP(v uint32)  { b.isp = v }

func (b *FakeBank) FramePC() uint32     { return b.framePC }
func (b *FakeBank) SetFramePC(v uint32) { b.framePC = v }
func (b *FakeBank) FramePSW() uint32    { return b.framePSW }
func (b *FakeBank) SetFramePSW(v uint32) { b.framePSW = v }

func (b *FakeBank) CSRRead(c regbank.CSR) uint32    { return b.csr[c] }
func (b *FakeBank) CSRWrite(c regbank.CSR, v uint32) { b.csr[c] = v }

func (b *FakeBank) AccLow() uint32      { return b.accLo }
func (b *FakeBank) SetAccLow(v uint32)  { b.accLo = v }
func (b *FakeBank) AccHigh() uint32     { return b.accHi }
func (b *FakeBank) SetAccHigh(v uint32) { b.accHi = v }
