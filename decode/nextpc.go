// Package decode implements the next-PC computation of spec.md §4.4: a
// partial instruction decoder that, given the current PC and the PSW
// flags snapshotted at the stop point, returns the address of the
// dynamically-next instruction. It never executes anything — it is
// consulted only so the step controller can plant a one-shot
// breakpoint there.
//
// The opcode space is dense and highly irregular. NextPC dispatches with
// a plain switch on the leading opcode byte: the control-flow opcodes get
// bespoke handling, and straightLineLength computes the length of every
// other recognized family. Families lists the same byte ranges as data,
// for tests only.
package decode

import (
	"github.com/msalau/rx-gdb-stub/mem"
	"github.com/msalau/rx-gdb-stub/regs"
)

// Flags is the subset of PSW state the branch conditions need. regs.File
// already implements it.
type Flags interface {
	FlagC() bool
	FlagZ() bool
	FlagS() bool
	FlagO() bool
}

// NextPC computes the address of the instruction the CPU will execute
// after the one at pc, given the flags it stopped with and the general
// purpose registers (needed by the register-indirect control-flow
// forms). Memory is read through space. If the opcode at pc is not one
// of the recognized families, NextPC returns pc unchanged — spec.md
// §4.4 treats that as "unable to step this instruction".
func NextPC(pc uint32, f *regs.File, space mem.Space) uint32 {
	op0 := space.ReadByte(pc)

	switch {
	case op0 == 0x02: // RTS
		return rtsTarget(f, space)
	case op0 == 0x67: // RTSD-1
		return rtsdTarget(pc, f, space, 1)
	case op0 == 0x3F: // RTSD-2
		return rtsdTarget(pc, f, space, 2)
	case op0 == 0x75: // INT #n
		return intTarget(pc, f, space)
	case op0 == 0x7F:
		return decode7F(pc, f, space)

	case op0 >= 0x08 && op0 <= 0x0F: // unconditional branch, 3-bit disp
		return pc + uint32(remap3(op0&0x07))
	case op0 == 0x2E: // unconditional branch, signed 8-bit
		return uint32(int64(pc) + int64(sext8(space.ReadByte(pc+1))))
	case op0 == 0x38 || op0 == 0x39: // unconditional branch, signed 16-bit
		return uint32(int64(pc) + int64(sext16(read16(space, pc+1))))
	case op0 == 0x04 || op0 == 0x05: // unconditional branch, signed 24-bit
		return uint32(int64(pc) + int64(sext24(read24(space, pc+1))))

	case op0 >= 0x10 && op0 <= 0x1F: // conditional branch, short
		return condShort(pc, op0, f)
	case op0 >= 0x20 && op0 <= 0x2D: // conditional branch, 8-bit disp
		return condMedium(pc, op0, f, space)
	case op0 == 0x3A || op0 == 0x3B: // conditional branch, 16-bit disp
		return condLong(pc, op0, f, space)
	}

	return pc + uint32(straightLineLength(op0, pc, space))
}

// ---- control-flow helpers ----

func rtsTarget(f *regs.File, space mem.Space) uint32 {
	return read32(space, f.Get(regs.R0))
}

func rtsdTarget(pc uint32, f *regs.File, space mem.Space, form int) uint32 {
	var offset uint32
	if form == 1 {
		offset = uint32(space.ReadByte(pc + 1))
	} else {
		offset = uint32(space.ReadByte(pc + 2))
	}
	return read32(space, f.Get(regs.R0)+offset)
}

func intTarget(pc uint32, f *regs.File, space mem.Space) uint32 {
	n := space.ReadByte(pc + 1)
	return read32(space, f.Get(regs.INTB)+4*uint32(n))
}

// decode7F handles the 0x7F-prefixed extended register/control forms:
// JMP/JSR through register, BSR through register offset, RTFI, RTE.
func decode7F(pc uint32, f *regs.File, space mem.Space) uint32 {
	op2 := space.ReadByte(pc + 1)
	switch {
	case op2&0xF0 == 0x00: // 0x7F 0x0r : JMP Rr
		return gpr(f, int(op2&0x0F))
	case op2&0xF0 == 0x10: // 0x7F 0x1r : JSR Rr
		return gpr(f, int(op2&0x0F))
	case op2&0xF0 == 0x50: // 0x7F 0x5r : BSR Rr (PC-relative via register)
		return pc + 2 + gpr(f, int(op2&0x0F))
	case op2 == 0x94: // RTFI
		return f.Get(regs.BPC)
	case op2 == 0x95: // RTE
		return read32(space, f.Get(regs.ISP))
	default:
		return pc // unrecognized 0x7F extension
	}
}

func gpr(f *regs.File, r int) uint32 { return f.Get(regs.Index(r)) }

// ---- conditional branches ----

// condition evaluates one of the 14 medium-form predicates of spec.md
// §4.4, numbered in the order the spec lists them: BEQ, BNE, BGEU,
// BLTU, BGTU, BLEU, BPZ, BN, BGE, BLT, BGT, BLE, BO, BNO.
func condition(idx int, f Flags) bool {
	z, c, s, o := f.FlagZ(), f.FlagC(), f.FlagS(), f.FlagO()
	switch idx {
	case 0: // BEQ
		return z
	case 1: // BNE
		return !z
	case 2: // BGEU
		return c
	case 3: // BLTU
		return !c
	case 4: // BGTU
		return c && !z
	case 5: // BLEU
		return !(c && !z)
	case 6: // BPZ
		return !s
	case 7: // BN
		return s
	case 8: // BGE
		return !(s != o)
	case 9: // BLT
		return s != o
	case 10: // BGT
		return !((s != o) || z)
	case 11: // BLE
		return (s != o) || z
	case 12: // BO
		return o
	default: // BNO
		return !o
	}
}

// condShort handles the 0x10-0x1F short conditional branch family,
// which only distinguishes Z / not-Z: bit 3 clear selects BEQ (Z set),
// bit 3 set selects BNE (Z clear).
func condShort(pc uint32, op0 byte, f Flags) uint32 {
	taken := f.FlagZ()
	if op0&0x08 != 0 {
		taken = !taken
	}
	if taken {
		return pc + uint32(remap3(op0&0x07))
	}
	return pc + 1
}

func condMedium(pc uint32, op0 byte, f Flags, space mem.Space) uint32 {
	idx := int(op0 - 0x20)
	if condition(idx, f) {
		return uint32(int64(pc) + int64(sext8(space.ReadByte(pc+1))))
	}
	return pc + 2
}

func condLong(pc uint32, op0 byte, f Flags, space mem.Space) uint32 {
	taken := f.FlagZ()
	if op0 == 0x3B {
		taken = !taken
	}
	if taken {
		return uint32(int64(pc) + int64(sext16(read16(space, pc+1))))
	}
	return pc + 3
}

// remap3 implements the 3-bit short-displacement remap used by both the
// unconditional (0x08-0x0F) and conditional-short (0x10-0x1F) branch
// families: values 0, 1, 2 stand in for displacements 8, 9, 10 so that
// the 3-bit field can reach slightly further than its raw range.
func remap3(v byte) int {
	switch v {
	case 0:
		return 8
	case 1:
		return 9
	case 2:
		return 10
	default:
		return int(v)
	}
}

// ---- straight-line instruction length ----

// straightLineLength computes the encoded length of every
// non-control-flow family enumerated in spec.md §4.4. Families are
// checked most-specific first.
func straightLineLength(op0 byte, pc uint32, space mem.Space) int {
	switch {
	case op0 == 0x06: // extended memory arithmetic: SUB/CMP/ADD/MUL/AND/OR/SBB/ADC/DIV/...
		byte1 := space.ReadByte(pc + 1)
		ld := int(byte1 & 0x03)
		if ld == 3 {
			ld = 0
		}
		if byte1&0x20 != 0 {
			ld++
		}
		return 3 + ld

	case op0 >= 0x40 && op0 <= 0x5F:
		return 2 + dispLen(op0&0x03)

	case op0 >= 0x60 && op0 <= 0x6F: // excludes 0x67 (RTSD-1), handled above
		return 2

	case op0 >= 0x70 && op0 <= 0x77: // excludes 0x75 (INT), handled above
		return 2 + immLen(op0&0x03)

	case op0 >= 0x78 && op0 <= 0x7E:
		return 2

	case op0 >= 0x80 && op0 <= 0xBF: // MOV 1/MOV 2/MOVU 1, unconditionally 2 bytes
		return 2

	case op0 == 0xFB: // MOV 6
		byte1 := space.ReadByte(pc + 1)
		li := int((byte1 >> 2) & 0x03)
		if li == 0 {
			li = 4
		}
		return 2 + li

	case op0 == 0xF8 || op0 == 0xF9: // MOV 8
		byte1 := space.ReadByte(pc + 1)
		ld := int(op0 & 0x03)
		li := int((byte1 >> 2) & 0x03)
		if li == 0 {
			li = 4
		}
		return 2 + ld + li

	case op0 >= 0xF0 && op0 <= 0xF7: // BSET 1/BCLR 1/BTST 1/PUSH 2
		return 2 + int(op0&0x03)

	case op0 == 0xFC:
		return 3

	case op0 == 0xFD:
		byte1 := space.ReadByte(pc + 1)
		if byte1 == 0x72 {
			return 7 // FD 72 ... floating-point form
		}
		if byte1&0xF3 == 0x70 || byte1&0xF3 == 0x73 { // ADC 1/DIV 1/.../MVTC 1
			li := int(byte1 & 0x03)
			if li == 0 {
				li = 4
			}
			return 3 + li
		}
		return 3

	case op0 == 0xFE || op0 == 0xFF:
		return 3

	case op0 >= 0xC0 && op0 <= 0xFF: // MOV 7/9/11/13 catch-all
		lds := int(op0 & 0x03)
		ldd := int((op0 >> 2) & 0x03)
		if lds == 3 {
			lds = 0
		}
		if ldd == 3 {
			ldd = 0
		}
		return 2 + lds + ldd

	default:
		return 0 // unrecognized: caller adds 0, i.e. next-PC == pc
	}
}

// dispLen interprets a 2-bit ld/lds/ldd displacement-size selector: 0,
// 1, 2 are taken as that many displacement bytes; 3 means "no
// displacement" (register-direct addressing) per spec.md §4.4.
func dispLen(sel byte) int {
	if sel&0x3 == 3 {
		return 0
	}
	return int(sel & 0x3)
}

// immLen interprets a 2-bit li immediate-size selector the same way,
// except the value 3 means a 4-byte (long) immediate rather than none.
func immLen(sel byte) int {
	if sel&0x3 == 3 {
		return 4
	}
	return int(sel & 0x3)
}

// ---- little-endian memory helpers ----

func read16(space mem.Space, addr uint32) uint16 {
	var b [2]byte
	space.ReadBytes(addr, b[:])
	return uint16(b[0]) | uint16(b[1])<<8
}

func read24(space mem.Space, addr uint32) uint32 {
	var b [3]byte
	space.ReadBytes(addr, b[:])
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func read32(space mem.Space, addr uint32) uint32 {
	var b [4]byte
	space.ReadBytes(addr, b[:])
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func sext8(v byte) int32 { return int32(int8(v)) }
func sext16(v uint16) int32 { return int32(int16(v)) }
func sext24(v uint32) int32 {
	if v&0x800000 != 0 {
		v |= 0xFF000000
	}
	return int32(v)
}
