package m68k

import "testing"

func TestSnapshotRoundTrip(t *testing.T) {
	cpu, ram := newEnvironment(t)

	loadWords(t, ram, testStart, 0x7a2a) // moveq #42,d5
	step(t, cpu, 1)

	cpu.regs.A[3] = 0xcafe
	cpu.Timing().SetWaitStates(2)
	cpu.Timing().SetTarget(5000)
	cpu.Timing().RequestCoprocessorSync()
	if err := cpu.RequestInterrupt(5, Vector(0x40)); err != nil {
		t.Fatalf("interrupt request failed: %v", err)
	}

	blob, err := cpu.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	// Disturb everything the snapshot should restore.
	cycles := cpu.Timing().Cycles()
	loadWords(t, ram, testStart+2, 0x4e71)
	step(t, cpu, 1)
	cpu.regs.D[5] = 0
	cpu.regs.A[3] = 0
	cpu.Timing().flushPrefetch()
	cpu.Timing().AcknowledgeCoprocessorSync()
	if err := cpu.SetIRQ(0); err != nil {
		t.Fatalf("failed to clear interrupts: %v", err)
	}

	if err := cpu.Restore(blob); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if cpu.regs.D[5] != 42 {
		t.Errorf("D5 = %d after restore, want 42", cpu.regs.D[5])
	}
	if cpu.regs.A[3] != 0xcafe {
		t.Errorf("A3 = %08x after restore, want 0000cafe", cpu.regs.A[3])
	}
	if cpu.regs.PC != testStart+2 {
		t.Errorf("PC = %08x after restore, want %08x", cpu.regs.PC, uint32(testStart+2))
	}
	if cpu.Timing().Cycles() != cycles {
		t.Errorf("cycle counter %d after restore, want %d", cpu.Timing().Cycles(), cycles)
	}
	if cpu.Timing().Target() != 5000 {
		t.Errorf("cycle target %d after restore, want 5000", cpu.Timing().Target())
	}
	if !cpu.Timing().SyncPending() {
		t.Error("coprocessor sync flag lost across restore")
	}
	if got := cpu.Timing().PrefetchQueue(); got != prefetchDepth {
		t.Errorf("prefetch queue = %d after restore, want %d", got, prefetchDepth)
	}
	if !cpu.Exceptions().HasPending() {
		t.Fatal("pending interrupt lost across restore")
	}
	level, vector, ok := cpu.Exceptions().Pending(Status(0x2000))
	if !ok || level != 5 || vector != Vector(0x40) {
		t.Errorf("pending request = level %d vector %d (%v), want level 5 vector 64", level, vector, ok)
	}
}

func TestSnapshotSurvivesStoppedState(t *testing.T) {
	cpu, ram := newEnvironment(t)

	loadWords(t, ram, testStart, 0x4e72, 0x2200) // stop #$2200
	step(t, cpu, 1)
	if !cpu.Stopped() {
		t.Fatal("CPU did not stop")
	}

	blob, err := cpu.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	restored, _ := newEnvironment(t)
	if err := restored.Restore(blob); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !restored.Stopped() {
		t.Error("stopped state lost across restore")
	}
	if uint16(restored.regs.SR) != 0x2200 {
		t.Errorf("SR = %04x after restore, want 2200", uint16(restored.regs.SR))
	}
}

func TestRestoreRejectsForeignBlobs(t *testing.T) {
	cpu, _ := newEnvironment(t)

	if err := cpu.Restore([]byte("not a snapshot")); err == nil {
		t.Error("restore accepted a blob without the magic header")
	}

	blob, err := cpu.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	blob[4] = 99
	if err := cpu.Restore(blob); err == nil {
		t.Error("restore accepted an unsupported version")
	}
	blob[4] = snapshotVersion
	if err := cpu.Restore(blob[:12]); err == nil {
		t.Error("restore accepted a truncated snapshot")
	}
}
