package m68k

import "testing"

func TestMemoryRegionCosts(t *testing.T) {
	var tm Timing

	// One access per 2MiB region, plus the write penalty.
	costs := []uint32{4, 2, 5, 3, 4, 4, 5, 4}
	var want uint64
	for region, cost := range costs {
		address := uint32(region) << 21
		tm.AddMemoryCycles(address, false)
		want += uint64(cost)
		if tm.Cycles() != want {
			t.Fatalf("region %d read: cycles = %d, want %d", region, tm.Cycles(), want)
		}
	}

	tm.AddMemoryCycles(0, true)
	want += uint64(costs[0] + memoryWritePenalty)
	if tm.Cycles() != want {
		t.Fatalf("write: cycles = %d, want %d with penalty", tm.Cycles(), want)
	}
}

func TestWaitStatesAccumulate(t *testing.T) {
	var tm Timing
	tm.SetWaitStates(2)
	tm.AddMemoryCycles(0, false)

	stats := tm.Stats()
	if stats.WaitCycles != 2 {
		t.Fatalf("wait cycles = %d, want 2", stats.WaitCycles)
	}
	if tm.Cycles() != 4+2 {
		t.Fatalf("cycles = %d, want access cost plus waits", tm.Cycles())
	}
}

func TestPrefetchQueueTracksControlFlow(t *testing.T) {
	cpu, ram := newEnvironment(t)
	loadWords(t, ram, testStart,
		0x4e71, // NOP
		0x6002, // BRA.S +2
		0x4e71,
		0x4e71, // branch target
	)

	if got := cpu.Timing().PrefetchQueue(); got != 0 {
		t.Fatalf("queue = %d right after reset, want empty", got)
	}

	step(t, cpu, 1) // sequential NOP keeps the lookahead full
	if got := cpu.Timing().PrefetchQueue(); got != prefetchDepth {
		t.Fatalf("queue = %d after sequential instruction, want %d", got, prefetchDepth)
	}

	step(t, cpu, 1) // taken branch throws the lookahead away
	if got := cpu.Timing().PrefetchQueue(); got != 0 {
		t.Fatalf("queue = %d after taken branch, want empty", got)
	}

	step(t, cpu, 1) // the stream refills at the target
	if got := cpu.Timing().PrefetchQueue(); got != prefetchDepth {
		t.Fatalf("queue = %d at branch target, want %d", got, prefetchDepth)
	}
}

func TestSyncFlags(t *testing.T) {
	var tm Timing
	tm.SetTarget(1 << 32)

	if tm.ShouldSync() {
		t.Fatal("no sync due yet")
	}
	tm.RequestCoprocessorSync()
	if !tm.SyncPending() || !tm.ShouldSync() {
		t.Fatal("co-processor request must demand a sync")
	}

	before := tm.Cycles()
	tm.AcknowledgeCoprocessorSync()
	if tm.SyncPending() {
		t.Fatal("acknowledge must clear the flag")
	}
	if tm.Cycles() != before+3 {
		t.Fatalf("co-processor handshake charged %d cycles, want 3", tm.Cycles()-before)
	}

	tm.RequestDisplaySync()
	before = tm.Cycles()
	tm.AcknowledgeDisplaySync()
	if tm.Cycles() != before+4 {
		t.Fatalf("display handshake charged %d cycles, want 4", tm.Cycles()-before)
	}

	// Acknowledging without a pending request charges nothing.
	before = tm.Cycles()
	tm.AcknowledgeCoprocessorSync()
	if tm.Cycles() != before {
		t.Fatal("spurious acknowledge must be free")
	}
}

func TestRunCyclesBreaksOnSyncRequest(t *testing.T) {
	cpu, ram := newEnvironment(t)
	loadWords(t, ram, testStart, 0x4e71, 0x60fc) // NOP; BRA.S -4

	cpu.Timing().RequestDisplaySync()
	used, err := cpu.RunCycles(10000)
	if err != nil {
		t.Fatal(err)
	}
	if used != 0 {
		t.Fatalf("consumed %d cycles with a sync pending, want 0", used)
	}

	cpu.Timing().AcknowledgeDisplaySync()
	if _, err := cpu.RunCycles(50); err != nil {
		t.Fatal(err)
	}
	if cpu.Timing().Stats().Instructions == 0 {
		t.Fatal("no instructions retired after the sync cleared")
	}
}

func TestStatsSeparateCycleKinds(t *testing.T) {
	cpu, ram := newEnvironment(t)
	loadWords(t, ram, testStart, 0x4e71, 0x4e71)
	cpu.Timing().ResetStats()

	step(t, cpu, 2)
	stats := cpu.Timing().Stats()
	if stats.Instructions != 2 {
		t.Fatalf("instructions = %d, want 2", stats.Instructions)
	}
	if stats.InstructionCycles != 8 {
		t.Fatalf("instruction cycles = %d, want 8 for two NOPs", stats.InstructionCycles)
	}
	if stats.MemoryCycles != 8 {
		t.Fatalf("memory cycles = %d, want 8 for two opcode fetches", stats.MemoryCycles)
	}
	if got := uint64(stats.InstructionCycles + stats.MemoryCycles + stats.WaitCycles); cpu.Timing().Cycles()-cyclesAtReset(cpu) != got {
		t.Fatalf("cycle kinds do not sum: total since reset %d, parts %d",
			cpu.Timing().Cycles()-cyclesAtReset(cpu), got)
	}
}

// cyclesAtReset recomputes the cost of the reset sequence charged before
// the test body ran.
func cyclesAtReset(cpu *CPU) uint64 {
	resetTotal := uint64(cpu.Exceptions().Timing(VecReset).Total())
	return resetTotal + 2*(4+4) // two long vector reads of two words each
}
