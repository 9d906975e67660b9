package m68k

func (cpu *CPU) execAdd(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, inst.Size)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}
	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	d, err := dst.read()
	if err != nil {
		return err
	}

	r := (d + s) & inst.Size.mask()
	if err := dst.write(r); err != nil {
		return err
	}
	cpu.regs.SR = addFlags(cpu.regs.SR, inst.Size, s, d, r, true)
	return nil
}

func (cpu *CPU) execSub(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, inst.Size)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}
	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	d, err := dst.read()
	if err != nil {
		return err
	}

	r := (d - s) & inst.Size.mask()
	if err := dst.write(r); err != nil {
		return err
	}
	cpu.regs.SR = subFlags(cpu.regs.SR, inst.Size, s, d, r, true)
	return nil
}

// execAddressArith handles ADDA/SUBA: the source sign-extends to 32 bits,
// the whole address register participates and no flags change.
func (cpu *CPU) execAddressArith(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, inst.Size)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}
	s = inst.Size.signExtend(s)

	reg := inst.Dst.Reg
	if inst.Op == OpAddA {
		cpu.regs.A[reg] += s
	} else {
		cpu.regs.A[reg] -= s
	}
	return nil
}

func (cpu *CPU) execQuickArith(inst Instruction) error {
	q := uint32(inst.Data)

	// Address register destinations behave like ADDA/SUBA regardless of
	// the coded size.
	if inst.Dst.Mode == modeAddrRegister {
		if inst.Op == OpAddQ {
			cpu.regs.A[inst.Dst.Reg] += q
		} else {
			cpu.regs.A[inst.Dst.Reg] -= q
		}
		return nil
	}

	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	d, err := dst.read()
	if err != nil {
		return err
	}

	var r uint32
	if inst.Op == OpAddQ {
		r = (d + q) & inst.Size.mask()
		cpu.regs.SR = addFlags(cpu.regs.SR, inst.Size, q, d, r, true)
	} else {
		r = (d - q) & inst.Size.mask()
		cpu.regs.SR = subFlags(cpu.regs.SR, inst.Size, q, d, r, true)
	}
	return dst.write(r)
}

// execExtendedArith handles ADDX/SUBX, folding the X flag into the
// operation and applying the sticky-zero rule.
func (cpu *CPU) execExtendedArith(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, inst.Size)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}
	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	d, err := dst.read()
	if err != nil {
		return err
	}

	var x uint32
	if cpu.regs.SR.Extend() {
		x = 1
	}

	var r uint32
	sr := cpu.regs.SR
	if inst.Op == OpAddX {
		r = (d + s + x) & inst.Size.mask()
		sr = addFlags(sr, inst.Size, s, d, r, true)
	} else {
		r = (d - s - x) & inst.Size.mask()
		sr = subFlags(sr, inst.Size, s, d, r, true)
	}
	// The flag helpers set Z absolutely; restore the sticky rule.
	sr = sr.set(srZero, cpu.regs.SR.Zero())
	sr = stickyZero(sr, inst.Size, r)

	if err := dst.write(r); err != nil {
		return err
	}
	cpu.regs.SR = sr
	return nil
}

func (cpu *CPU) execCmp(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, inst.Size)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}
	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	d, err := dst.read()
	if err != nil {
		return err
	}

	r := (d - s) & inst.Size.mask()
	cpu.regs.SR = subFlags(cpu.regs.SR, inst.Size, s, d, r, false)
	return nil
}

func (cpu *CPU) execCmpA(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, inst.Size)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}
	s = inst.Size.signExtend(s)

	d := cpu.regs.A[inst.Dst.Reg]
	r := d - s
	cpu.regs.SR = subFlags(cpu.regs.SR, Long, s, d, r, false)
	return nil
}

func (cpu *CPU) execNeg(inst Instruction) error {
	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	d, err := dst.read()
	if err != nil {
		return err
	}

	var x uint32
	if inst.Op == OpNegX && cpu.regs.SR.Extend() {
		x = 1
	}
	r := (0 - d - x) & inst.Size.mask()

	sr := subFlags(cpu.regs.SR, inst.Size, d, 0, r, true)
	if inst.Op == OpNegX {
		sr = sr.set(srZero, cpu.regs.SR.Zero())
		sr = stickyZero(sr, inst.Size, r)
	}

	if err := dst.write(r); err != nil {
		return err
	}
	cpu.regs.SR = sr
	return nil
}

func (cpu *CPU) execClr(inst Instruction) error {
	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	if err := dst.write(0); err != nil {
		return err
	}
	cpu.regs.SR = cpu.regs.SR.setNZ(0, inst.Size)
	return nil
}

func (cpu *CPU) execTst(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, inst.Size)
	if err != nil {
		return err
	}
	v, err := src.read()
	if err != nil {
		return err
	}
	cpu.regs.SR = cpu.regs.SR.setNZ(v, inst.Size)
	return nil
}

func (cpu *CPU) execMul(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, Word)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}

	reg := inst.Dst.Reg
	d := cpu.regs.D[reg] & 0xffff

	var product uint32
	if inst.Op == OpMulS {
		product = uint32(int32(int16(s)) * int32(int16(d)))
	} else {
		product = s * d
	}

	cpu.regs.D[reg] = product
	cpu.regs.SR = cpu.regs.SR.setNZ(product, Long)
	return nil
}

// execDiv performs 32/16 division producing a 16-bit quotient in the low
// word and the remainder in the high word of the destination. A zero
// divisor sets V, leaves the destination untouched and raises the
// zero-divide vector; quotient overflow sets V and also leaves the
// destination untouched, without trapping.
func (cpu *CPU) execDiv(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, Word)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}

	if s == 0 {
		cpu.regs.SR = cpu.regs.SR.set(srOverflow, true).set(srCarry, false)
		return exceptionError(VecZeroDivide)
	}

	reg := inst.Dst.Reg
	dividend := cpu.regs.D[reg]

	if inst.Op == OpDivS {
		q64 := int64(int32(dividend)) / int64(int16(s))
		rem := int64(int32(dividend)) % int64(int16(s))
		if q64 < -0x8000 || q64 > 0x7fff {
			cpu.regs.SR = cpu.regs.SR.set(srOverflow, true).set(srCarry, false)
			return nil
		}
		cpu.regs.D[reg] = uint32(rem)<<16 | uint32(q64)&0xffff
		cpu.regs.SR = cpu.regs.SR.setNZ(uint32(q64)&0xffff, Word)
		return nil
	}

	q := dividend / s
	rem := dividend % s
	if q > 0xffff {
		cpu.regs.SR = cpu.regs.SR.set(srOverflow, true).set(srCarry, false)
		return nil
	}
	cpu.regs.D[reg] = rem<<16 | q
	cpu.regs.SR = cpu.regs.SR.setNZ(q, Word)
	return nil
}

// execChk bounds-checks the low word of a data register and traps when it
// is negative or above the operand. N records which side failed.
func (cpu *CPU) execChk(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, Word)
	if err != nil {
		return err
	}
	bound, err := src.read()
	if err != nil {
		return err
	}

	value := int16(cpu.regs.D[inst.Dst.Reg])
	switch {
	case value < 0:
		cpu.regs.SR = cpu.regs.SR.set(srNegative, true)
		return exceptionError(VecCHK)
	case value > int16(bound):
		cpu.regs.SR = cpu.regs.SR.set(srNegative, false)
		return exceptionError(VecCHK)
	}
	return nil
}
