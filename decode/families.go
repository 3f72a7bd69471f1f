package decode

// Family describes one opcode-byte range from spec.md §4.4's
// enumeration, purely for self-checking: nextpc_test.go walks Families
// and confirms each entry has a non-empty range and MinBytes <=
// MaxBytes. The table is not total (bytes such as 0x00, 0x01 and 0x03
// belong to no entry) and some ranges overlap (0x67 within short-form,
// 0xF0-0xFF within two-byte-ld).
type Family struct {
	Name     string
	Lo, Hi   byte // inclusive opcode byte range
	MinBytes int
	MaxBytes int
}

// Families lists the opcode-byte ranges NextPC recognizes, in the order
// spec.md §4.4 presents them. It exists for tests, not for NextPC
// itself, which dispatches with a plain switch for clarity.
func Families() []Family {
	return []Family{
		{"rts", 0x02, 0x02, 1, 1},
		{"unconditional-branch-24", 0x04, 0x05, 4, 4},
		{"unconditional-branch-3bit", 0x08, 0x0F, 1, 1},
		{"conditional-branch-short", 0x10, 0x1F, 1, 1},
		{"conditional-branch-medium", 0x20, 0x2D, 2, 2},
		{"unconditional-branch-8bit", 0x2E, 0x2E, 2, 2},
		{"conditional-branch-long", 0x3A, 0x3B, 3, 3},
		{"unconditional-branch-16bit", 0x38, 0x39, 3, 3},
		{"rtsd-2", 0x3F, 0x3F, 3, 3},
		{"extended-arithmetic", 0x06, 0x06, 3, 6},
		{"alu-memory", 0x40, 0x5F, 2, 4},
		{"short-form", 0x60, 0x6F, 2, 2}, // 0x67 (rtsd-1) overridden specially
		{"immediate-op", 0x70, 0x77, 2, 6}, // 0x75 (int) overridden specially
		{"short-alu-stack", 0x78, 0x7E, 2, 2},
		{"extended-register", 0x7F, 0x7F, 2, 2},
		{"mov-movu", 0x80, 0xBF, 2, 2},
		{"two-byte-ld", 0xC0, 0xFF, 2, 7}, // 0xF0-0xFF overridden specially (BSET/BCLR/BTST/PUSH, MOV 6/8, FADD/FCMP/.../MVTC, MOV 10/12/ADD 4/MUL 4/OR 4/SUB 3)
	}
}
