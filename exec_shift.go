package m68k

// execShift runs the eight shift and rotate operations. The count comes
// from the descriptor for immediate forms, from a data register modulo 64
// for register forms, and is fixed at one for the memory forms. Shifting is
// done bit by bit, which keeps the carry, extend and ASL-overflow rules
// straightforward at counts well past the operand width.
func (cpu *CPU) execShift(inst Instruction) error {
	count := uint32(inst.Data)
	if count == 0 {
		count = cpu.regs.D[inst.Src.Reg] % 64
		cpu.timing.AddCycles(2 * count)
	}

	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	value, err := dst.read()
	if err != nil {
		return err
	}

	size := inst.Size
	sign := size.signBit()
	sr := cpu.regs.SR

	if count == 0 {
		// A zero register count still refreshes the codes: C clears
		// (ROX forms copy X instead), V clears, N and Z follow the
		// unchanged operand.
		carry := false
		if inst.Op == OpRoxl || inst.Op == OpRoxr {
			carry = sr.Extend()
		}
		sr = sr.set(srCarry, carry).set(srOverflow, false)
		sr = sr.set(srZero, size.isZero(value)).set(srNegative, size.isNegative(value))
		cpu.regs.SR = sr
		return nil
	}

	carry := false
	overflow := false
	x := sr.Extend()

	for i := uint32(0); i < count; i++ {
		switch inst.Op {
		case OpAsl, OpLsl:
			carry = value&sign != 0
			shifted := (value << 1) & size.mask()
			if inst.Op == OpAsl && (value&sign != shifted&sign) {
				overflow = true
			}
			value = shifted
			x = carry
		case OpAsr:
			carry = value&1 != 0
			value = value>>1 | value&sign
			x = carry
		case OpLsr:
			carry = value&1 != 0
			value >>= 1
			x = carry
		case OpRol:
			carry = value&sign != 0
			value = (value << 1) & size.mask()
			if carry {
				value |= 1
			}
		case OpRor:
			carry = value&1 != 0
			value >>= 1
			if carry {
				value |= sign
			}
		case OpRoxl:
			carry = value&sign != 0
			value = (value << 1) & size.mask()
			if x {
				value |= 1
			}
			x = carry
		case OpRoxr:
			carry = value&1 != 0
			value >>= 1
			if x {
				value |= sign
			}
			x = carry
		}
	}

	if err := dst.write(value); err != nil {
		return err
	}

	sr = sr.set(srCarry, carry)
	sr = sr.set(srOverflow, inst.Op == OpAsl && overflow)
	if inst.Op != OpRol && inst.Op != OpRor {
		sr = sr.set(srExtend, x)
	}
	sr = sr.set(srZero, size.isZero(value)).set(srNegative, size.isNegative(value))
	cpu.regs.SR = sr
	return nil
}
