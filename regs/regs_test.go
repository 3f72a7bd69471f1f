package regs

import "testing"

func TestAccSpansTwoWords(t *testing.T) {
	var f File
	f.SetAccLow(0xdeadbeef)
	f.SetAccHigh(0x0badf00d)
	if got := f.AccLow(); got != 0xdeadbeef {
		t.Fatalf("AccLow = %#x, want 0xdeadbeef", got)
	}
	if got := f.AccHigh(); got != 0x0badf00d {
		t.Fatalf("AccHigh = %#x, want 0x0badf00d", got)
	}
	if Size(ACC) != 8 {
		t.Fatalf("Size(ACC) = %d, want 8", Size(ACC))
	}
}

func TestOtherRegistersAreFourBytes(t *testing.T) {
	for idx := R0; idx < ACC; idx++ {
		if got := Size(idx); got != 4 {
			t.Fatalf("Size(%d) = %d, want 4", idx, got)
		}
	}
}

func TestValidRange(t *testing.T) {
	if !Valid(R0) || !Valid(ACC) {
		t.Fatalf("R0 and ACC must be valid indexes")
	}
	if Valid(Index(Count)) {
		t.Fatalf("Count is one past the last valid index")
	}
	if Valid(Index(-1)) {
		t.Fatalf("negative index must be invalid")
	}
}

func TestFlags(t *testing.T) {
	var f File
	f.Set(PSW, 1<<PSWBitC|1<<PSWBitO)
	if !f.FlagC() || f.FlagZ() || f.FlagS() || !f.FlagO() {
		t.Fatalf("flags decoded incorrectly from PSW=%#x", f.Get(PSW))
	}
}

func TestUserModeSelectsShadowRegister(t *testing.T) {
	var f File
	f.Set(PSW, 1<<PSWBitU)
	if !f.UserMode() {
		t.Fatalf("expected user mode with PSW.U set")
	}
	f.Set(PSW, 0)
	if f.UserMode() {
		t.Fatalf("expected interrupt mode with PSW.U clear")
	}
}

func TestWordsLengthMatchesWireWordCount(t *testing.T) {
	var f File
	if len(f.Words()) != NumWireWords {
		t.Fatalf("Words() len = %d, want %d", len(f.Words()), NumWireWords)
	}
}
