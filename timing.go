package m68k

// TimingStats are the read-only profiling counters of the timing model.
// They reset only on an explicit ResetStats call.
type TimingStats struct {
	InstructionCycles uint64
	MemoryCycles      uint64
	WaitCycles        uint64
	Instructions      uint64
}

// memoryRegionCycles is the base access cost per 2 MiB address region:
// cartridge ROM, work RAM, the VDP window, the Z80 window, expansion and
// reserved areas, and the I/O block. Writes pay a fixed 2-cycle penalty on
// top of the region cost.
var memoryRegionCycles = [8]uint32{
	4, // 0x000000-0x1FFFFF cartridge ROM
	2, // 0x200000-0x3FFFFF work RAM mirror
	5, // 0x400000-0x5FFFFF VDP window
	3, // 0x600000-0x7FFFFF Z80 window
	4, // 0x800000-0x9FFFFF expansion
	4, // 0xA00000-0xBFFFFF reserved
	5, // 0xC00000-0xDFFFFF I/O and control
	4, // 0xE00000-0xFFFFFF reserved
}

const memoryWritePenalty = 2

// prefetchDepth is the instruction lookahead of the 68000: two words.
const prefetchDepth = 2

// Timing accumulates consumed cycles and exposes the cooperative-scheduling
// signal an external driver polls between run slices. It never blocks or
// waits itself. All counters reset only on explicit request.
type Timing struct {
	current uint64
	target  uint64

	waitStates uint32
	prefetch   uint8

	lastSyncCycle  uint64
	coprocPending  bool
	displayPending bool

	stats TimingStats
}

// AddCycles accumulates instruction cycles into the running total.
func (t *Timing) AddCycles(n uint32) {
	t.current += uint64(n)
	t.stats.InstructionCycles += uint64(n)
}

// AddMemoryCycles charges a bus transaction: the region-dependent base cost
// plus the write penalty, counted both in the running total and in the
// memory-cycle profile counter.
func (t *Timing) AddMemoryCycles(address uint32, isWrite bool) {
	cycles := memoryRegionCycles[(address>>21)&7]
	if isWrite {
		cycles += memoryWritePenalty
	}
	t.current += uint64(cycles)
	t.stats.MemoryCycles += uint64(cycles)
	if t.waitStates != 0 {
		t.AddWaitCycles(t.waitStates)
	}
}

// AddWaitCycles charges externally imposed wait states.
func (t *Timing) AddWaitCycles(n uint32) {
	t.current += uint64(n)
	t.stats.WaitCycles += uint64(n)
}

func (t *Timing) countInstruction() {
	t.stats.Instructions++
}

// SetTarget sets the cycle budget ShouldSync reports against.
func (t *Timing) SetTarget(cycles uint64) {
	t.target = cycles
}

// Cycles returns the running cycle total since the last explicit reset.
func (t *Timing) Cycles() uint64 { return t.current }

// Target returns the current cycle budget.
func (t *Timing) Target() uint64 { return t.target }

// SetWaitStates configures the per-access wait states charged on top of
// device costs.
func (t *Timing) SetWaitStates(states uint32) { t.waitStates = states }

// PrefetchQueue reports how many words of the instruction lookahead are
// valid. Sequential execution keeps the queue full; a taken branch, an
// exception dispatch or a reset empties it until the stream refills.
func (t *Timing) PrefetchQueue() uint8 { return t.prefetch }

func (t *Timing) fillPrefetch()  { t.prefetch = prefetchDepth }
func (t *Timing) flushPrefetch() { t.prefetch = 0 }

// RequestCoprocessorSync flags a pending synchronization point with the
// co-processor CPU. The flag survives until acknowledged.
func (t *Timing) RequestCoprocessorSync() { t.coprocPending = true }

// RequestDisplaySync flags a pending synchronization point with the video
// chip.
func (t *Timing) RequestDisplaySync() { t.displayPending = true }

// SyncPending reports whether any cross-chip synchronization is outstanding.
func (t *Timing) SyncPending() bool {
	return t.coprocPending || t.displayPending
}

// AcknowledgeCoprocessorSync consumes a pending co-processor sync, charging
// the typical handshake wait.
func (t *Timing) AcknowledgeCoprocessorSync() {
	if t.coprocPending {
		t.AddWaitCycles(3)
		t.coprocPending = false
	}
}

// AcknowledgeDisplaySync consumes a pending display sync, charging the
// typical access wait.
func (t *Timing) AcknowledgeDisplaySync() {
	if t.displayPending {
		t.AddWaitCycles(4)
		t.displayPending = false
	}
}

// ShouldSync is the sole cooperative-scheduling signal the engine emits: it
// reports true once the accumulated cycles reach the caller-supplied target,
// or a cross-chip synchronization flag is pending.
func (t *Timing) ShouldSync() bool {
	return t.current >= t.target || t.SyncPending()
}

// MarkSync records the current cycle count as the last synchronization
// point.
func (t *Timing) MarkSync() {
	t.lastSyncCycle = t.current
}

// Stats returns a copy of the profiling counters.
func (t *Timing) Stats() TimingStats { return t.stats }

// ResetStats clears the profiling counters without touching the running
// cycle total.
func (t *Timing) ResetStats() {
	t.stats = TimingStats{}
}

// Reset clears the running counters, sync flags and stats. The driver calls
// this between runs; the core never resets timing implicitly.
func (t *Timing) Reset() {
	*t = Timing{}
}
