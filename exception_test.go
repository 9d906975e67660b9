package m68k

import "testing"

func TestVectorPriorities(t *testing.T) {
	if VecReset.Priority() != 7 {
		t.Fatalf("reset priority = %d, want 7", VecReset.Priority())
	}
	if got := Autovector(5).Priority(); got != 5 {
		t.Fatalf("level-5 autovector priority = %d, want 5", got)
	}
	if VecSpurious.Priority() != 5 {
		t.Fatalf("spurious priority = %d, want 5", VecSpurious.Priority())
	}
	if VecBusError.Priority() != 6 || VecTrap0.Priority() != 6 {
		t.Fatal("error and trap families must rank at priority 6")
	}
}

func TestControllerMasking(t *testing.T) {
	ec := NewExceptionController()
	if err := ec.Request(3, nil); err != nil {
		t.Fatal(err)
	}

	// Masked at level 3: stays pending.
	if _, _, ok := ec.Pending(Status(0).withInterruptMask(3)); ok {
		t.Fatal("level-3 request must stay masked at mask 3")
	}
	if !ec.HasPending() {
		t.Fatal("masked request should remain recorded")
	}

	// Lowering the mask releases it.
	level, vector, ok := ec.Pending(Status(0).withInterruptMask(2))
	if !ok || level != 3 || vector != Autovector(3) {
		t.Fatalf("got level %d vector %d ok=%v, want level 3 autovector", level, vector, ok)
	}
	if ec.HasPending() {
		t.Fatal("dispatched request must be consumed")
	}
	if !ec.InService(3) {
		t.Fatal("dispatched level must be marked in service")
	}

	ec.Acknowledge(3)
	if ec.InService(3) {
		t.Fatal("acknowledge must clear in-service state")
	}
}

func TestControllerPriorityOrder(t *testing.T) {
	ec := NewExceptionController()
	ec.Request(2, nil)
	ec.Request(6, nil)
	ec.Request(4, nil)

	order := []uint8{6, 4, 2}
	for _, want := range order {
		level, _, ok := ec.Pending(0)
		if !ok || level != want {
			t.Fatalf("got level %d ok=%v, want %d", level, ok, want)
		}
	}
}

func TestControllerVectoredRequest(t *testing.T) {
	ec := NewExceptionController()

	custom := VecTrap15
	if err := ec.Request(5, &custom); err != nil {
		t.Fatal(err)
	}
	_, vector, ok := ec.Pending(0)
	if !ok || vector != custom {
		t.Fatalf("vectored request returned %d, want %d", vector, custom)
	}

	if err := ec.Request(9, nil); err == nil {
		t.Fatal("level 9 must be rejected")
	}
	if err := ec.Request(0, nil); err != nil {
		t.Fatalf("level 0 must be a no-op, got %v", err)
	}
}

func TestNonMaskableLevelSeven(t *testing.T) {
	ec := NewExceptionController()
	ec.Request(7, nil)

	level, _, ok := ec.Pending(Status(0).withInterruptMask(7))
	if !ok || level != 7 {
		t.Fatal("level 7 must bypass a mask of 7")
	}
}

func TestExceptionTimingDefaults(t *testing.T) {
	ec := NewExceptionController()

	tests := []struct {
		vector Vector
		total  uint32
	}{
		{VecReset, 18},
		{VecBusError, 24},
		{VecAddressError, 24},
		{VecIllegal, 18},
		{Autovector(1), 20},
		{VecTrap0, 16},
	}
	for _, tt := range tests {
		if got := ec.Timing(tt.vector).Total(); got != tt.total {
			t.Errorf("vector %d timing = %d, want %d", tt.vector, got, tt.total)
		}
	}

	custom := ExceptionTiming{Acknowledge: 1, Process: 2, StackPush: 3, VectorFetch: 4}
	ec.SetTiming(VecTrap0, custom)
	if ec.Timing(VecTrap0) != custom {
		t.Fatal("SetTiming did not take")
	}
}

func TestVectorBaseRelocation(t *testing.T) {
	cpu, ram := newEnvironment(t)

	cpu.Exceptions().SetVectorBase(0x8000)
	ram.Write(Long, 0x8000+uint32(VecTrap0)*4, 0x4000)
	loadBytes(t, ram, cpu.regs.PC, assemble(t, "TRAP #0\n"))
	loadWords(t, ram, 0x4000, 0x4e71)

	step(t, cpu, 1)
	if cpu.regs.PC != 0x4000 {
		t.Fatalf("PC = %04x, want handler from relocated table", cpu.regs.PC)
	}
}

func TestUninitializedInterruptVector(t *testing.T) {
	cpu, ram := newEnvironment(t)
	// Level-2 autovector entry left zero; the uninitialized vector catches
	// it.
	ram.Write(Long, uint32(VecUninitialized)*4, 0x4000)
	loadWords(t, ram, 0x4000, 0x4e71)
	loadWords(t, ram, testStart, 0x4e71)

	cpu.setSR(cpu.regs.SR.withInterruptMask(0))
	if err := cpu.SetIRQ(2); err != nil {
		t.Fatal(err)
	}
	step(t, cpu, 1)
	if cpu.regs.PC != 0x4000 {
		t.Fatalf("PC = %04x, want uninitialized-interrupt handler", cpu.regs.PC)
	}
}

func TestExceptionStatsAccumulate(t *testing.T) {
	cpu, ram := newEnvironment(t)
	ram.Write(Long, uint32(VecTrap0)*4, 0x4000)
	loadBytes(t, ram, cpu.regs.PC, assemble(t, "TRAP #0\n"))
	loadWords(t, ram, 0x4000, 0x4e71)

	step(t, cpu, 1)
	stats := cpu.Exceptions().Stats()
	if stats.Count != 1 {
		t.Fatalf("dispatch count = %d, want 1", stats.Count)
	}
	if stats.Cycles != uint64(cpu.Exceptions().Timing(VecTrap0).Total()) {
		t.Fatalf("dispatch cycles = %d, want the trap total", stats.Cycles)
	}

	cpu.Exceptions().ResetStats()
	if cpu.Exceptions().Stats().Count != 0 {
		t.Fatal("ResetStats did not clear the counters")
	}
}
