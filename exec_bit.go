package m68k

// execBit runs the BTST/BCHG/BCLR/BSET family. On a data register the full
// 32 bits are addressable; in memory a single byte is, so the bit number
// wraps at 8. Only Z reflects the tested bit; the other codes are
// untouched.
func (cpu *CPU) execBit(inst Instruction) error {
	numSize := Byte
	if inst.Src.Mode == modeDataRegister {
		numSize = Long
	}
	src, err := cpu.resolveEA(inst.Src, numSize)
	if err != nil {
		return err
	}
	number, err := src.read()
	if err != nil {
		return err
	}

	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	value, err := dst.read()
	if err != nil {
		return err
	}

	number %= uint32(inst.Size.bits())
	bit := uint32(1) << number

	cpu.regs.SR = cpu.regs.SR.set(srZero, value&bit == 0)

	switch inst.Op {
	case OpBtst:
		return nil
	case OpBchg:
		value ^= bit
	case OpBclr:
		value &^= bit
	default:
		value |= bit
	}
	return dst.write(value)
}
