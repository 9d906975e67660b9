package m68k

import "fmt"

// Register indices for the debug access API.
const (
	RegD0 = iota
	RegD1
	RegD2
	RegD3
	RegD4
	RegD5
	RegD6
	RegD7
	RegA0
	RegA1
	RegA2
	RegA3
	RegA4
	RegA5
	RegA6
	RegA7
	RegPC
	RegSR
)

// Registers represents the programmer visible registers of the 68000 CPU.
// A7 is the active stack pointer; the inactive one is shadowed in USP or SSP
// depending on the supervisor flag.
type Registers struct {
	D   [8]uint32
	A   [8]uint32
	PC  uint32
	SR  Status
	SSP uint32
	USP uint32
	IR  uint16 // raw opcode of the current instruction
}

// writeD stores value into data register reg at the given size, preserving
// the untouched upper bits.
func (regs *Registers) writeD(reg uint16, size Size, value uint32) {
	mask := size.mask()
	regs.D[reg] = (regs.D[reg] &^ mask) | (value & mask)
}

// writeA stores value into address register reg. Word-sized writes
// sign-extend to the full 32 bits; address registers have no byte form.
func (regs *Registers) writeA(reg uint16, size Size, value uint32) {
	if size == Word {
		value = Word.signExtend(value)
	}
	regs.A[reg] = value
}

func (regs *Registers) String() string {
	result := fmt.Sprintf("SR %04x PC %08x USP %08x SSP %08x SP %08x\n",
		uint16(regs.SR), regs.PC, regs.USP, regs.SSP, regs.A[7])
	for i := range regs.D {
		result += fmt.Sprintf("D%d %08x ", i, regs.D[i])
	}
	result += "\n"
	for i := range regs.A {
		result += fmt.Sprintf("A%d %08x ", i, regs.A[i])
	}
	result += "\n"

	return result
}

// GetRegister reads a register by debug index (RegD0..RegSR). Out-of-range
// indices return the documented sentinel 0xFFFFFFFF.
func (cpu *CPU) GetRegister(index int) uint32 {
	switch {
	case index >= RegD0 && index <= RegD7:
		return cpu.regs.D[index]
	case index >= RegA0 && index <= RegA7:
		return cpu.regs.A[index-RegA0]
	case index == RegPC:
		return cpu.regs.PC
	case index == RegSR:
		return uint32(cpu.regs.SR)
	default:
		return 0xffffffff
	}
}

// SetRegister writes a register by debug index. SR values are masked to
// 16 bits and routed through the supervisor-aware status update so the
// active stack pointer stays consistent. Out-of-range indices are ignored.
func (cpu *CPU) SetRegister(index int, value uint32) {
	switch {
	case index >= RegD0 && index <= RegD7:
		cpu.regs.D[index] = value
	case index >= RegA0 && index <= RegA7:
		cpu.regs.A[index-RegA0] = value
	case index == RegPC:
		cpu.regs.PC = value
	case index == RegSR:
		cpu.setSR(Status(value & 0xffff))
	}
}
