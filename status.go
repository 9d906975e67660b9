package m68k

// Status is the 16-bit status register. The low byte is the condition code
// register (X/N/Z/V/C), bits 8-10 hold the interrupt mask, bit 13 the
// supervisor flag and bit 15 the trace flag. The bit layout matches the
// hardware so snapshots stay wire compatible.
type Status uint16

const (
	srCarry    Status = 0x0001
	srOverflow Status = 0x0002
	srZero     Status = 0x0004
	srNegative Status = 0x0008
	srExtend   Status = 0x0010

	srInterruptMask Status = 0x0700
	srSupervisor    Status = 0x2000
	srTrace         Status = 0x8000

	srCCR Status = srCarry | srOverflow | srZero | srNegative | srExtend
)

func (s Status) Carry() bool      { return s&srCarry != 0 }
func (s Status) Overflow() bool   { return s&srOverflow != 0 }
func (s Status) Zero() bool       { return s&srZero != 0 }
func (s Status) Negative() bool   { return s&srNegative != 0 }
func (s Status) Extend() bool     { return s&srExtend != 0 }
func (s Status) Supervisor() bool { return s&srSupervisor != 0 }
func (s Status) Trace() bool      { return s&srTrace != 0 }

// InterruptMask returns the current interrupt priority level (0-7).
func (s Status) InterruptMask() uint8 {
	return uint8((s & srInterruptMask) >> 8)
}

func (s Status) withInterruptMask(level uint8) Status {
	return (s &^ srInterruptMask) | (Status(level&7) << 8)
}

// set returns s with the given flags set or cleared.
func (s Status) set(flags Status, on bool) Status {
	if on {
		return s | flags
	}
	return s &^ flags
}

// setNZ clears N/Z/V/C and derives N and Z from a result of the given size.
// Logical operations and plain moves use exactly this rule.
func (s Status) setNZ(result uint32, size Size) Status {
	s &^= srNegative | srZero | srOverflow | srCarry
	if size.isZero(result) {
		s |= srZero
	} else if size.isNegative(result) {
		s |= srNegative
	}
	return s
}
