package context

import (
	"testing"

	"github.com/msalau/rx-gdb-stub/regs"
)

func TestSaveRestoreIdentity(t *testing.T) {
	bank := NewFakeBank()
	for r := 1; r <= 15; r++ {
		bank.SetGPR(r, uint32(0x10000000*r+r))
	}
	bank.SetUSP(0x00010000)
	bank.SetISP(0x00020000)
	bank.SetFramePC(0x00030004)
	bank.SetFramePSW(0x00000001) // interrupt mode, carry set
	bank.CSRWrite(0, 0x100)
	bank.CSRWrite(1, 0x200)
	bank.CSRWrite(2, 0x300)
	bank.CSRWrite(3, 0x400)
	bank.CSRWrite(4, 0x500)
	bank.SetAccLow(0x11111111)
	bank.SetAccHigh(0x22222222)

	before := *bank

	var f regs.File
	Save(bank, &f)
	Restore(&f, bank)

	if *bank != before {
		t.Fatalf("save/restore changed bank state: got %+v, want %+v", *bank, before)
	}
}

func TestSaveSelectsR0FromActiveStackPointer(t *testing.T) {
	bank := NewFakeBank()
	bank.SetUSP(0xAAAA)
	bank.SetISP(0xBBBB)

	bank.SetFramePSW(1 << 16) // user mode
	var f regs.File
	Save(bank, &f)
	if f.Get(regs.R0) != 0xAAAA {
		t.Fatalf("user mode: R0 = %#x, want USP 0xaaaa", f.Get(regs.R0))
	}

	bank.SetFramePSW(0) // interrupt mode
	Save(bank, &f)
	if f.Get(regs.R0) != 0xBBBB {
		t.Fatalf("interrupt mode: R0 = %#x, want ISP 0xbbbb", f.Get(regs.R0))
	}
}

func TestRestoreWritesR0ToActiveStackPointer(t *testing.T) {
	bank := NewFakeBank()
	var f regs.File
	f.Set(regs.PSW, 1<<16) // user mode
	f.Set(regs.R0, 0x1234)
	f.Set(regs.ISP, 0x5678)
	Restore(&f, bank)
	if bank.USP() != 0x1234 {
		t.Fatalf("USP = %#x, want 0x1234", bank.USP())
	}
	if bank.ISP() != 0x5678 {
		t.Fatalf("ISP = %#x, want 0x5678", bank.ISP())
	}
}
