package m68k

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Snapshot serialization: a fixed header followed by big-endian fields in
// declaration order. Bus contents are deliberately excluded; devices own
// their memory and snapshot it themselves.
var snapshotMagic = [4]byte{'M', '6', '8', 'K'}

const snapshotVersion = 1

type snapshotState struct {
	D   [8]uint32
	A   [8]uint32
	PC  uint32
	SR  uint16
	IR  uint16
	SSP uint32
	USP uint32

	Stopped uint8
	Halted  uint8

	Cycles     uint64
	Target     uint64
	WaitStates uint32
	Prefetch   uint8

	InstructionCycles uint64
	MemoryCycles      uint64
	WaitCycles        uint64
	Instructions      uint64

	CoprocPending  uint8
	DisplayPending uint8

	// Pending interrupt lines: per level a presence flag, an autovector
	// flag and the supplied vector.
	Requests [8][3]uint8

	InService  uint8
	VectorBase uint32

	ExcCount  uint64
	ExcCycles uint64
}

// Snapshot captures the complete engine state as a flat byte blob.
func (cpu *CPU) Snapshot() ([]byte, error) {
	st := snapshotState{
		D:   cpu.regs.D,
		A:   cpu.regs.A,
		PC:  cpu.regs.PC,
		SR:  uint16(cpu.regs.SR),
		IR:  cpu.regs.IR,
		SSP: cpu.regs.SSP,
		USP: cpu.regs.USP,

		Cycles:     cpu.timing.current,
		Target:     cpu.timing.target,
		WaitStates: cpu.timing.waitStates,
		Prefetch:   cpu.timing.prefetch,

		InstructionCycles: cpu.timing.stats.InstructionCycles,
		MemoryCycles:      cpu.timing.stats.MemoryCycles,
		WaitCycles:        cpu.timing.stats.WaitCycles,
		Instructions:      cpu.timing.stats.Instructions,

		InService:  cpu.exc.inService,
		VectorBase: cpu.exc.vectorBase,
		ExcCount:   cpu.exc.stats.Count,
		ExcCycles:  cpu.exc.stats.Cycles,
	}
	if cpu.stopped {
		st.Stopped = 1
	}
	if cpu.halted {
		st.Halted = 1
	}
	if cpu.timing.coprocPending {
		st.CoprocPending = 1
	}
	if cpu.timing.displayPending {
		st.DisplayPending = 1
	}
	for level, req := range cpu.exc.requests {
		if req == nil {
			continue
		}
		st.Requests[level][0] = 1
		if req.autovector {
			st.Requests[level][1] = 1
		}
		st.Requests[level][2] = uint8(req.vector)
	}

	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	buf.WriteByte(snapshotVersion)
	if err := binary.Write(&buf, binary.BigEndian, &st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Restore replaces the engine state with a previously captured snapshot.
// The bus attachment, decoder table, handlers and per-vector timing are
// configuration, not state, and stay as they are.
func (cpu *CPU) Restore(blob []byte) error {
	if len(blob) < 5 || !bytes.Equal(blob[:4], snapshotMagic[:]) {
		return errors.New("m68k: not a snapshot")
	}
	if blob[4] != snapshotVersion {
		return fmt.Errorf("m68k: unsupported snapshot version %d", blob[4])
	}

	var st snapshotState
	if err := binary.Read(bytes.NewReader(blob[5:]), binary.BigEndian, &st); err != nil {
		return fmt.Errorf("m68k: truncated snapshot: %w", err)
	}

	cpu.regs = Registers{
		D:   st.D,
		A:   st.A,
		PC:  st.PC,
		SR:  Status(st.SR),
		IR:  st.IR,
		SSP: st.SSP,
		USP: st.USP,
	}
	cpu.stopped = st.Stopped != 0
	cpu.halted = st.Halted != 0

	cpu.timing.current = st.Cycles
	cpu.timing.target = st.Target
	cpu.timing.waitStates = st.WaitStates
	cpu.timing.prefetch = st.Prefetch
	cpu.timing.coprocPending = st.CoprocPending != 0
	cpu.timing.displayPending = st.DisplayPending != 0
	cpu.timing.stats = TimingStats{
		InstructionCycles: st.InstructionCycles,
		MemoryCycles:      st.MemoryCycles,
		WaitCycles:        st.WaitCycles,
		Instructions:      st.Instructions,
	}

	cpu.exc.ClearRequests()
	for level, req := range st.Requests {
		if req[0] == 0 {
			continue
		}
		if req[1] != 0 {
			cpu.exc.requests[level] = &interruptRequest{autovector: true}
		} else {
			cpu.exc.requests[level] = &interruptRequest{vector: Vector(req[2])}
		}
	}
	cpu.exc.recalcMaxLevel()
	cpu.exc.inService = st.InService
	cpu.exc.vectorBase = st.VectorBase
	cpu.exc.stats = ExceptionStats{Count: st.ExcCount, Cycles: st.ExcCycles}
	return nil
}
