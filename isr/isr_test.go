package isr

import (
	"testing"

	"github.com/msalau/rx-gdb-stub/config"
	"github.com/msalau/rx-gdb-stub/context"
	"github.com/msalau/rx-gdb-stub/engine"
	"github.com/msalau/rx-gdb-stub/mem"
	"github.com/msalau/rx-gdb-stub/packet"
	"github.com/msalau/rx-gdb-stub/regs"
	"github.com/msalau/rx-gdb-stub/transport"
)

func newHarness() (*engine.Engine, *context.FakeBank, *transport.Loopback) {
	target, host := transport.NewLoopbackPair()
	var f regs.File
	e := &engine.Engine{
		Regs:      &f,
		Mem:       mem.NewFlat(4096),
		Transport: target,
		Buf:       packet.NewBuffer(512),
		Cfg:       config.Default(),
		RAMEnd:    4096,
	}
	return e, context.NewFakeBank(), host
}

func TestBreakpointTrapSavesAndRestores(t *testing.T) {
	e, bank, host := newHarness()
	bank.SetFramePC(0x1000)
	bank.SetGPR(3, 0x42)

	done := make(chan struct{})
	go func() {
		BreakpointTrap(bank, e)
		close(done)
	}()

	waitFrame(host)       // initial Trap state report
	host.PutByte('+')
	host.FeedString(ackedFrame("c"))
	<-done

	if bank.FramePC() != 0x1000 {
		t.Fatalf("FramePC = %#x, want unchanged 0x1000", bank.FramePC())
	}
	if bank.GPR(3) != 0x42 {
		t.Fatalf("GPR(3) = %#x, want unchanged 0x42", bank.GPR(3))
	}
}

func TestUARTReceiveIgnoresNonBreakBytes(t *testing.T) {
	e, bank, _ := newHarness()
	cleared := false
	UARTReceive(bank, e, 'x', func() { cleared = true })
	if !cleared {
		t.Fatalf("clearRXPending was not called")
	}
}

func ackedFrame(payload string) string {
	sum := 0
	for i := 0; i < len(payload); i++ {
		sum += int(payload[i])
	}
	const digits = "0123456789abcdef"
	return "$" + payload + "#" + string([]byte{digits[byte(sum)>>4], digits[byte(sum)&0xF]})
}

func waitFrame(host *transport.Loopback) []byte {
	var out []byte
	for {
		b, _ := host.GetByte()
		out = append(out, b)
		if len(out) >= 3 && out[len(out)-3] == '#' {
			return out
		}
	}
}
