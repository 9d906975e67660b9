package m68k

import "testing"

func TestBsrRtsSymmetry(t *testing.T) {
	cpu, ram := newEnvironment(t)
	loadWords(t, ram, testStart,
		0x6100, 0x0006, // BSR.W subroutine
		0x7001, // MOVEQ #1,D0 after the return
		0x4e71,
		0x7407, // subroutine: MOVEQ #7,D2
		0x4e75, // RTS
	)

	step(t, cpu, 1) // BSR
	if cpu.regs.PC != testStart+8 {
		t.Fatalf("PC = %04x after BSR, want %04x", cpu.regs.PC, testStart+8)
	}
	if cpu.regs.A[7] != testStack-4 {
		t.Fatalf("SP = %04x after BSR, want return address pushed", cpu.regs.A[7])
	}
	ret, err := cpu.bus.Read(Long, cpu.regs.A[7])
	if err != nil {
		t.Fatal(err)
	}
	if ret != testStart+4 {
		t.Fatalf("pushed return address = %04x, want %04x", ret, testStart+4)
	}

	step(t, cpu, 2) // subroutine body, RTS
	if cpu.regs.D[2] != 7 {
		t.Fatalf("D2 = %d, want the subroutine body to run", cpu.regs.D[2])
	}
	if cpu.regs.PC != testStart+4 {
		t.Fatalf("PC = %04x after RTS, want %04x", cpu.regs.PC, testStart+4)
	}
	if cpu.regs.A[7] != testStack {
		t.Fatalf("SP = %04x after RTS, want the stack balanced at %04x", cpu.regs.A[7], testStack)
	}

	step(t, cpu, 1)
	if cpu.regs.D[0] != 1 {
		t.Fatalf("D0 = %d, want execution to resume after the call site", cpu.regs.D[0])
	}
}

func TestConditionalBranches(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16 // short form, displacement +4
		ccr    Status
		taken  bool
	}{
		{"beq zero set", 0x6704, srZero, true},
		{"beq zero clear", 0x6704, 0, false},
		{"bne zero clear", 0x6604, 0, true},
		{"bne zero set", 0x6604, srZero, false},
		{"bcs carry set", 0x6504, srCarry, true},
		{"bcc carry set", 0x6404, srCarry, false},
		{"bmi negative", 0x6b04, srNegative, true},
		{"bpl negative", 0x6a04, srNegative, false},
		{"bvs overflow", 0x6904, srOverflow, true},
		{"bhi above", 0x6204, 0, true},
		{"bhi equal", 0x6204, srZero, false},
		{"bls below-or-same", 0x6304, srCarry, true},
		{"blt n xor v", 0x6d04, srNegative, true},
		{"blt n and v", 0x6d04, srNegative | srOverflow, false},
		{"bge n and v", 0x6c04, srNegative | srOverflow, true},
		{"bgt greater", 0x6e04, 0, true},
		{"ble zero", 0x6f04, srZero, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cpu, ram := newEnvironment(t)
			loadWords(t, ram, testStart,
				tc.opcode,
				0x7001, // fall through: MOVEQ #1,D0
				0x4e71,
				0x7002, // branch target: MOVEQ #2,D0
			)
			cpu.setCCR(uint32(tc.ccr))

			step(t, cpu, 2)
			want := uint32(1)
			if tc.taken {
				want = 2
			}
			if cpu.regs.D[0] != want {
				t.Fatalf("D0 = %d with CCR %02x, want %d", cpu.regs.D[0], uint16(tc.ccr), want)
			}
		})
	}
}

func TestDbccLoopsUntilMinusOne(t *testing.T) {
	cpu, ram := newEnvironment(t)
	loadWords(t, ram, testStart,
		0x5281,         // loop: ADDQ.L #1,D1
		0x51ca, 0xfffc, // DBF D2,loop
		0x4e71,
	)
	cpu.regs.D[2] = 4

	step(t, cpu, 10) // five loop bodies, five DBF decrements
	if cpu.regs.D[1] != 5 {
		t.Fatalf("loop body ran %d times, want 5", cpu.regs.D[1])
	}
	if uint16(cpu.regs.D[2]) != 0xffff {
		t.Fatalf("counter = %04x, want ffff after passing zero", uint16(cpu.regs.D[2]))
	}
	if cpu.regs.PC != testStart+6 {
		t.Fatalf("PC = %04x, want the exhausted loop to fall through", cpu.regs.PC)
	}
}

func TestDbccTrueConditionFallsThrough(t *testing.T) {
	cpu, ram := newEnvironment(t)
	loadWords(t, ram, testStart, 0x50ca, 0xfffe, 0x4e71) // DBT D2,*-0
	cpu.regs.D[2] = 4

	step(t, cpu, 1)
	if cpu.regs.D[2] != 4 {
		t.Fatalf("D2 = %d, a true condition must not decrement", cpu.regs.D[2])
	}
	if cpu.regs.PC != testStart+4 {
		t.Fatalf("PC = %04x, want fall through past the displacement", cpu.regs.PC)
	}
}
