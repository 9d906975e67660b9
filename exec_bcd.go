package m68k

// execAbcd adds two packed binary-coded-decimal bytes with the extend bit.
// Z is sticky for multi-precision chains; N is set from the raw result the
// way the silicon happens to, even though the manual leaves it undefined.
func (cpu *CPU) execAbcd(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, Byte)
	if err != nil {
		return err
	}
	s, err := src.read()
	if err != nil {
		return err
	}
	dst, err := cpu.resolveEA(inst.Dst, Byte)
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

	low := (d & 0xf) + (s & 0xf) + x
	result := low + (d & 0xf0) + (s & 0xf0)
	if low > 9 {
		result += 6
	}
	carry := false
	if result > 0x99 {
		result -= 0xa0
		carry = true
	}
	result &= 0xff

	if err := dst.write(result); err != nil {
		return err
	}

	sr := cpu.regs.SR.set(srCarry|srExtend, carry)
	sr = stickyZero(sr, Byte, result)
	sr = sr.set(srNegative, Byte.isNegative(result))
	cpu.regs.SR = sr
	return nil
}

// execSbcd handles SBCD and, with an implicit zero minuend, NBCD.
func (cpu *CPU) execSbcd(inst Instruction) error {
	var s, d uint32
	var dst modifier
	var err error

	if inst.Op == OpNbcd {
		dst, err = cpu.resolveEA(inst.Dst, Byte)
		if err != nil {
			return err
		}
		s, err = dst.read()
		if err != nil {
			return err
		}
	} else {
		var src modifier
		src, err = cpu.resolveEA(inst.Src, Byte)
		if err != nil {
			return err
		}
		s, err = src.read()
		if err != nil {
			return err
		}
		dst, err = cpu.resolveEA(inst.Dst, Byte)
		if err != nil {
			return err
		}
		d, err = dst.read()
		if err != nil {
			return err
		}
	}

	var x int32
	if cpu.regs.SR.Extend() {
		x = 1
	}

	low := int32(d&0xf) - int32(s&0xf) - x
	result := low
	if low < 0 {
		result -= 6
	}
	result += int32(d&0xf0) - int32(s&0xf0)
	borrow := false
	if result < 0 {
		result += 0xa0
		borrow = true
	}
	value := uint32(result) & 0xff

	if err := dst.write(value); err != nil {
		return err
	}

	sr := cpu.regs.SR.set(srCarry|srExtend, borrow)
	sr = stickyZero(sr, Byte, value)
	sr = sr.set(srNegative, Byte.isNegative(value))
	cpu.regs.SR = sr
	return nil
}
