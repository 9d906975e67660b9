package m68k

import "testing"

func TestDecodeRepresentatives(t *testing.T) {
	d := NewDecoder()

	tests := []struct {
		opcode uint16
		op     Operation
		size   Size
		length uint8
	}{
		{0x4e71, OpNop, 0, 2},
		{0x4e75, OpRts, 0, 2},
		{0x4e72, OpStop, 0, 4},
		{0x4e40, OpTrap, 0, 2},
		{0x4afc, OpIllegal, 0, 2},

		{0x7001, OpMoveQ, Long, 2},
		{0x103c, OpMove, Byte, 4},  // MOVE.B #imm,D0
		{0x2f00, OpMove, Long, 2},  // MOVE.L D0,-(A7)
		{0x3040, OpMoveA, Word, 2}, // MOVEA.W D0,A0
		{0x21c0, OpMove, Long, 4},  // MOVE.L D0,(xxx).W
		{0x23fc, OpMove, Long, 10}, // MOVE.L #imm,(xxx).L
		{0x40c0, OpMoveFromSR, Word, 2},
		{0x46fc, OpMoveToSR, Word, 4},

		{0xd089, OpAdd, Long, 2},  // ADD.L A1,D0
		{0xd1c9, OpAddA, Long, 2}, // ADDA.L A1,A0
		{0x0640, OpAddI, Word, 4}, // ADDI.W #imm,D0
		{0x5240, OpAddQ, Word, 2}, // ADDQ.W #1,D0
		{0xd340, OpAddX, Word, 2},
		{0x9089, OpSub, Long, 2},
		{0xb089, OpCmp, Long, 2},
		{0xb0c9, OpCmpA, Word, 2},
		{0xb308, OpCmpM, Byte, 2},
		{0xb141, OpEor, Word, 2},

		{0xc0c0, OpMulU, Word, 2},
		{0x81fc, OpDivS, Word, 4},
		{0x4840, OpSwap, Long, 2},
		{0x4850, OpPea, Long, 2}, // PEA (A0)
		{0x4880, OpExt, Word, 2},
		{0x48d0, OpMoveM, Long, 4}, // MOVEM.L regs,(A0)

		{0x50c8, OpDBcc, Word, 4},
		{0x50c0, OpScc, Byte, 2},
		{0x6000, OpBra, 0, 4},
		{0x6004, OpBra, 0, 2},
		{0x6100, OpBsr, 0, 4},
		{0x6700, OpBcc, 0, 4},

		{0xe350, OpRoxl, Word, 2},
		{0xe248, OpLsr, Word, 2},
		{0xe0d0, OpAsr, Word, 2}, // memory shift

		{0xc101, OpAbcd, Byte, 2},
		{0x8101, OpSbcd, Byte, 2},
		{0x4800, OpNbcd, Byte, 2},

		{0x0108, OpMoveP, Word, 4},
		{0x0840, OpBchg, Long, 4}, // static bit op on D0

		{0xa003, OpLineA, 0, 2},
		{0xf123, OpLineF, 0, 2},
		{0x7100, OpIllegal, 0, 2},
	}

	for _, tt := range tests {
		inst := d.Decode(tt.opcode)
		if inst.Op != tt.op {
			t.Errorf("opcode %04x: op = %d, want %d", tt.opcode, inst.Op, tt.op)
			continue
		}
		if tt.size != 0 && inst.Size != tt.size {
			t.Errorf("opcode %04x: size = %d, want %d", tt.opcode, inst.Size, tt.size)
		}
		if inst.Length != tt.length {
			t.Errorf("opcode %04x: length = %d, want %d", tt.opcode, inst.Length, tt.length)
		}
	}
}

func TestDecodeSpecificBeatsGeneral(t *testing.T) {
	d := NewDecoder()

	// ABCD lives inside the AND opcode space but must win its slots.
	if op := d.Decode(0xc101).Op; op != OpAbcd {
		t.Fatalf("0xc101 decoded as %d, want ABCD", op)
	}
	if op := d.Decode(0xc041).Op; op != OpAnd {
		t.Fatalf("0xc041 decoded as %d, want AND", op)
	}

	// CMPM inside the EOR space.
	if op := d.Decode(0xb308).Op; op != OpCmpM {
		t.Fatalf("0xb308 decoded as %d, want CMPM", op)
	}
	if op := d.Decode(0xb300).Op; op != OpEor {
		t.Fatalf("0xb300 decoded as %d, want EOR", op)
	}

	// DBcc inside the Scc space.
	if op := d.Decode(0x57c8).Op; op != OpDBcc {
		t.Fatalf("0x57c8 decoded as %d, want DBcc", op)
	}
	if op := d.Decode(0x57c0).Op; op != OpScc {
		t.Fatalf("0x57c0 decoded as %d, want Scc", op)
	}
}

func TestDecodeRejectsInvalidEA(t *testing.T) {
	d := NewDecoder()

	invalid := []uint16{
		0x41c0, // LEA with a data-register source
		0x50fa, // Scc on a PC-relative destination
		0x06c0, // ADDI with size field 3
		0x4808, // NBCD on an address register
	}
	names := []string{"LEA on Dn", "Scc pc-relative", "ADDI size 3", "NBCD on An"}
	for i, opcode := range invalid {
		if inst := d.Decode(opcode); inst.Valid() {
			t.Errorf("%s (%04x) decoded as %d, want illegal", names[i], opcode, inst.Op)
		}
	}
}

func TestDecoderIsPure(t *testing.T) {
	d := NewDecoder()
	first := d.Decode(0xd089)
	for i := 0; i < 3; i++ {
		if d.Decode(0xd089) != first {
			t.Fatal("decode must be deterministic and side-effect free")
		}
	}
}
