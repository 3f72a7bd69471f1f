// Package engine implements the request/response protocol dispatcher of
// spec.md §4.6: the Running/Stopped state machine that every entry
// handler in package isr drives through a single Enter call.
//
// Grounded the way the teacher's VirtualMachine.Run KVM_EXIT dispatch
// loop is grounded — a blocking read, a switch on what came back, and a
// reply written before looping again — and on the standalone gdbServer
// in the retrieved emulator debug-stub example, which this package's
// command table follows closely.
package engine

import (
	"fmt"

	"github.com/msalau/rx-gdb-stub/config"
	"github.com/msalau/rx-gdb-stub/hexcodec"
	"github.com/msalau/rx-gdb-stub/mem"
	"github.com/msalau/rx-gdb-stub/packet"
	"github.com/msalau/rx-gdb-stub/regs"
	"github.com/msalau/rx-gdb-stub/step"
	"github.com/msalau/rx-gdb-stub/transport"
)

// NumRegs is the number of addressable register-file slots for 'p'/'P',
// i.e. everything up to and including ACC (spec.md §4.6: "E02 if index
// >= NUM_REGS").
const NumRegs = int(regs.ACC) + 1

// Engine owns the state spec.md §5 says is exclusive to the Stopped
// target: the register file, the packet buffer, and the in-flight step
// record, if any. One Engine is constructed at boot and handed to every
// entry handler.
type Engine struct {
	Regs      *regs.File
	Mem       mem.Space
	Transport transport.Transport
	Buf       *packet.Buffer
	Cfg       config.Config
	RAMEnd    uint32

	// Debug gates diagnostic logging, mirroring the teacher's
	// VirtualMachine.Debug bool exactly.
	Debug bool
	Log   func(format string, args ...any)

	pending *step.Record
}

func (e *Engine) logf(format string, args ...any) {
	if e.Debug && e.Log != nil {
		e.Log(format, args...)
	}
}

// Enter is the single entry point called by every naked ISR body in
// package isr, after context.Save has populated e.Regs and before
// context.Restore sends the (possibly mutated) register file back out.
// It returns once a 'c' or 's' packet has told the target to resume.
func (e *Engine) Enter(signal Signal) {
	if e.pending != nil {
		rec := *e.pending
		e.pending = nil
		if e.Regs.Get(regs.PC) == rec.Address+1 {
			e.Regs.Set(regs.PC, rec.Address)
		}
		step.FinishStep(e.Mem, rec)
		signal = SignalTrap
	}

	if err := packet.Send(e.Transport, e.stateReport(signal)); err != nil {
		e.logf("engine: state report send failed: %v", err)
		return
	}

	for {
		payload, err := e.Buf.Receive(e.Transport)
		if err != nil {
			e.logf("engine: receive failed: %v", err)
			return
		}
		if len(payload) == 0 {
			continue
		}

		resume, reply := e.dispatch(payload)
		if !resume {
			if err := packet.Send(e.Transport, reply); err != nil {
				e.logf("engine: reply send failed: %v", err)
				return
			}
		}
		if resume {
			return
		}
	}
}

// dispatch handles one received packet, returning whether the target
// should resume (no packet-loop reply follows) and, if not resuming,
// the reply payload to send (nil/empty means an empty-payload reply).
func (e *Engine) dispatch(p []byte) (resume bool, reply []byte) {
	switch p[0] {
	case '?':
		return false, e.stateReport(SignalTrap)
	case 'g':
		return false, e.readAllRegisters()
	case 'G':
		return false, e.writeAllRegisters(p[1:])
	case 'p':
		return false, e.readRegister(p[1:])
	case 'P':
		return false, e.writeRegister(p[1:])
	case 'm':
		return false, e.readMemory(p[1:])
	case 'M':
		return false, e.writeMemory(p[1:])
	case 'c':
		e.resumeAt(p[1:])
		return true, nil
	case 's':
		return e.singleStep(p[1:])
	case 'q':
		return false, e.query(p[1:])
	default:
		return false, nil // d, z, Z, and anything else: unsupported
	}
}

// ---- state report ----

func (e *Engine) stateReport(sig Signal) []byte {
	pc := e.Regs.Get(regs.PC)
	psw := e.Regs.Get(regs.PSW)
	return []byte(fmt.Sprintf("T%02x%s:%s;%s:%s;",
		byte(sig),
		regIndexToken(regs.PC), leHex32(pc),
		regIndexToken(regs.PSW), leHex32(psw)))
}

// regIndexToken formats a register's ordinal position as two hex
// digits, the way the original stub's prepare_state_report builds it
// from hexchars[(PC>>4)&0xF]/hexchars[PC&0xF] against the register
// enum value — e.g. PC (ordinal 19) is written "13", not decimal "19".
// See DESIGN.md's Open Question entry.
func regIndexToken(idx regs.Index) string {
	return fmt.Sprintf("%02x", int(idx))
}

func leHex32(v uint32) string {
	b := []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	dst := make([]byte, 8)
	hexcodec.Encode(dst, b)
	return string(dst)
}

// ---- register access ----

func (e *Engine) readAllRegisters() []byte {
	words := e.Regs.Words()
	raw := make([]byte, 4*len(words))
	for i, w := range words {
		raw[4*i] = byte(w)
		raw[4*i+1] = byte(w >> 8)
		raw[4*i+2] = byte(w >> 16)
		raw[4*i+3] = byte(w >> 24)
	}
	dst := make([]byte, 2*len(raw))
	hexcodec.Encode(dst, raw)
	return dst
}

func (e *Engine) writeAllRegisters(hex []byte) []byte {
	raw := make([]byte, regs.NumWireWords*4)
	n, ok := hexcodec.Decode(raw, hex)
	if !ok || n != len(raw) {
		return []byte("E01")
	}
	for i := 0; i < regs.NumWireWords; i++ {
		w := uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		e.Regs.Set(regs.Index(i), w)
	}
	return []byte("OK")
}

func (e *Engine) readRegister(hex []byte) []byte {
	idx, consumed := parseRegIndex(hex)
	if consumed == 0 || idx >= NumRegs {
		return []byte("E02")
	}
	ri := regs.Index(idx)
	size := regs.Size(ri)
	raw := make([]byte, size)
	if ri == regs.ACC {
		lo, hi := e.Regs.AccLow(), e.Regs.AccHigh()
		putLE32(raw[0:4], lo)
		putLE32(raw[4:8], hi)
	} else {
		putLE32(raw, e.Regs.Get(ri))
	}
	dst := make([]byte, 2*size)
	hexcodec.Encode(dst, raw)
	return dst
}

func (e *Engine) writeRegister(payload []byte) []byte {
	idx, consumed := parseRegIndex(payload)
	if consumed == 0 || consumed >= len(payload) || payload[consumed] != '=' {
		return []byte("E01")
	}
	if idx >= NumRegs {
		return []byte("E02")
	}
	ri := regs.Index(idx)
	hex := payload[consumed+1:]
	size := regs.Size(ri)
	raw := make([]byte, size)
	n, ok := hexcodec.Decode(raw, hex)
	if !ok || n != size {
		return []byte("E01")
	}
	if ri == regs.ACC {
		e.Regs.SetAccLow(getLE32(raw[0:4]))
		e.Regs.SetAccHigh(getLE32(raw[4:8]))
	} else {
		e.Regs.Set(ri, getLE32(raw))
	}
	return []byte("OK")
}

func putLE32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

func getLE32(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}

// ---- memory access ----

func (e *Engine) readMemory(payload []byte) []byte {
	addr, length, rest, ok := parseAddrLen(payload)
	if !ok || len(rest) != 0 {
		return []byte("E01")
	}
	raw := make([]byte, length)
	e.Mem.ReadBytes(addr, raw)
	dst := make([]byte, 2*length)
	hexcodec.Encode(dst, raw)
	return dst
}

func (e *Engine) writeMemory(payload []byte) []byte {
	addr, length, rest, ok := parseAddrLen(payload)
	if !ok || len(rest) == 0 || rest[0] != ':' {
		return []byte("E01")
	}
	if !mem.WithinRAM(addr, length, e.RAMEnd) {
		return []byte("E02")
	}
	data := make([]byte, length)
	n, ok := hexcodec.Decode(data, rest[1:])
	if !ok || uint32(n) != length {
		return []byte("E01")
	}
	e.Mem.WriteBytes(addr, data)
	return []byte("OK")
}

// parseRegIndex parses a register-index token the way the original
// stub's hex2int does: a run of hex digits, no fixed width. It is
// exactly hexcodec.ParseUint32 narrowed to int, kept as its own name
// since a register index and a memory address mean different things
// on the wire even though both are plain hex.
func parseRegIndex(s []byte) (value int, consumed int) {
	v, n := hexcodec.ParseUint32(s)
	return int(v), n
}

// parseAddrLen parses the common "<hex addr>,<hex len>" prefix shared by
// 'm' and 'M', returning whatever bytes follow the length field.
func parseAddrLen(payload []byte) (addr uint32, length uint32, rest []byte, ok bool) {
	a, n := hexcodec.ParseUint32(payload)
	if n == 0 || n >= len(payload) || payload[n] != ',' {
		return 0, 0, nil, false
	}
	l, m := hexcodec.ParseUint32(payload[n+1:])
	if m == 0 {
		return 0, 0, nil, false
	}
	return a, l, payload[n+1+m:], true
}

// ---- execution control ----

func (e *Engine) resumeAt(optAddr []byte) {
	if pc, n := hexcodec.ParseUint32(optAddr); n > 0 {
		e.Regs.Set(regs.PC, pc)
	}
}

func (e *Engine) singleStep(optAddr []byte) (resume bool, reply []byte) {
	e.resumeAt(optAddr)

	pc := e.Regs.Get(regs.PC)
	if e.Mem.ReadByte(pc) == e.Cfg.BreakOpcode {
		// Already sitting on a planted/user breakpoint: skip it rather
		// than stepping into it again (spec.md §4.6 's' notes).
		e.Regs.Set(regs.PC, pc+1)
		return false, e.stateReport(SignalTrap)
	}

	rec := step.StartStep(e.Regs, e.Mem, e.Cfg)
	if rec.Address != pc {
		e.pending = &rec
	}
	return true, nil
}

// ---- queries ----

func (e *Engine) query(payload []byte) []byte {
	switch {
	case hasPrefix(payload, "Supported"):
		return []byte(fmt.Sprintf("PacketSize=%x;swbreak+", e.Cfg.BufferSize))
	case hasPrefix(payload, "Offsets"):
		return []byte("Text=0;Data=0;Bss=0")
	default:
		return nil
	}
}

func hasPrefix(s []byte, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return string(s[:len(prefix)]) == prefix
}
