package m68k

func (cpu *CPU) execMove(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, inst.Size)
	if err != nil {
		return err
	}
	value, err := src.read()
	if err != nil {
		return err
	}

	// MOVEA sign-extends into the full address register and touches no
	// flags.
	if inst.Op == OpMoveA {
		cpu.regs.A[inst.Dst.Reg] = inst.Size.signExtend(value)
		return nil
	}

	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	if err := dst.write(value); err != nil {
		return err
	}
	cpu.regs.SR = cpu.regs.SR.setNZ(value, inst.Size)
	return nil
}

func (cpu *CPU) execMoveQ(inst Instruction) error {
	value := uint32(int32(int8(inst.Data)))
	cpu.regs.D[inst.Dst.Reg] = value
	cpu.regs.SR = cpu.regs.SR.setNZ(value, Long)
	return nil
}

// movemValue maps a register-list index to its transfer value. The
// standard order is D0-D7 then A0-A7; pre-decrement mode reverses it.
func (cpu *CPU) movemValue(index int) uint32 {
	if index < 8 {
		return cpu.regs.D[index]
	}
	return cpu.regs.A[index-8]
}

func (cpu *CPU) movemStore(index int, size Size, value uint32) {
	if index < 8 {
		cpu.regs.D[index] = size.signExtend(value)
	} else {
		cpu.regs.A[index-8] = size.signExtend(value)
	}
}

func (cpu *CPU) execMoveM(inst Instruction) error {
	mask, err := cpu.popPC(Word)
	if err != nil {
		return err
	}

	size := inst.Size
	step := uint32(size)
	spec := inst.Dst
	toMemory := inst.Data == 1

	if toMemory && spec.Mode == modePreDecrement {
		// Mask bit 0 names A7 in this mode; A7 stores first.
		address := cpu.regs.A[spec.Reg]
		for bit := 0; bit < 16; bit++ {
			if mask&(1<<bit) == 0 {
				continue
			}
			address -= step
			if err := cpu.write(size, address, cpu.movemValue(15-bit)); err != nil {
				return err
			}
		}
		cpu.regs.A[spec.Reg] = address
		return nil
	}

	var address uint32
	switch spec.Mode {
	case modeIndirect, modePostIncrement:
		address = cpu.regs.A[spec.Reg]
	default:
		m, err := cpu.resolveEA(spec, size)
		if err != nil {
			return err
		}
		address = m.computedAddress()
	}

	for bit := 0; bit < 16; bit++ {
		if mask&(1<<bit) == 0 {
			continue
		}
		if toMemory {
			if err := cpu.write(size, address, cpu.movemValue(bit)); err != nil {
				return err
			}
		} else {
			value, err := cpu.read(size, address)
			if err != nil {
				return err
			}
			cpu.movemStore(bit, size, value)
		}
		address += step
	}

	if spec.Mode == modePostIncrement && !toMemory {
		cpu.regs.A[spec.Reg] = address
	}
	return nil
}

// execMoveP transfers a word or long between a data register and alternate
// bytes of memory, high byte first, for 8-bit peripherals on a 16-bit bus.
func (cpu *CPU) execMoveP(inst Instruction) error {
	offset, err := cpu.popPC(Word)
	if err != nil {
		return err
	}
	address := uint32(int32(cpu.regs.A[inst.Src.Reg]) + int32(int16(offset)))
	bytes := int(inst.Size)

	if inst.Data == 1 { // register to memory
		value := cpu.regs.D[inst.Dst.Reg]
		for i := 0; i < bytes; i++ {
			shift := uint((bytes - 1 - i) * 8)
			if err := cpu.write(Byte, address+uint32(i*2), (value>>shift)&0xff); err != nil {
				return err
			}
		}
		return nil
	}

	var value uint32
	for i := 0; i < bytes; i++ {
		b, err := cpu.read(Byte, address+uint32(i*2))
		if err != nil {
			return err
		}
		value = value<<8 | b
	}
	cpu.regs.writeD(uint16(inst.Dst.Reg), inst.Size, value)
	return nil
}

func (cpu *CPU) execMoveFromSR(inst Instruction) error {
	dst, err := cpu.resolveEA(inst.Dst, Word)
	if err != nil {
		return err
	}
	return dst.write(uint32(cpu.regs.SR))
}

func (cpu *CPU) execMoveToSR(inst Instruction) error {
	if err := cpu.requirePrivilege(); err != nil {
		return err
	}
	src, err := cpu.resolveEA(inst.Src, Word)
	if err != nil {
		return err
	}
	value, err := src.read()
	if err != nil {
		return err
	}
	cpu.setSR(Status(value))
	return nil
}

func (cpu *CPU) execMoveToCCR(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, Word)
	if err != nil {
		return err
	}
	value, err := src.read()
	if err != nil {
		return err
	}
	cpu.setCCR(value)
	return nil
}

func (cpu *CPU) execMoveUSP(inst Instruction) error {
	if err := cpu.requirePrivilege(); err != nil {
		return err
	}
	if inst.Data == 0 {
		cpu.regs.USP = cpu.regs.A[inst.Src.Reg]
	} else {
		cpu.regs.A[inst.Dst.Reg] = cpu.regs.USP
	}
	return nil
}

func (cpu *CPU) execLea(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, Long)
	if err != nil {
		return err
	}
	cpu.regs.A[inst.Dst.Reg] = src.computedAddress()
	return nil
}

func (cpu *CPU) execPea(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, Long)
	if err != nil {
		return err
	}
	return cpu.push(Long, src.computedAddress())
}

func (cpu *CPU) execLink(inst Instruction) error {
	displacement, err := cpu.popPC(Word)
	if err != nil {
		return err
	}
	reg := inst.Src.Reg
	if err := cpu.push(Long, cpu.regs.A[reg]); err != nil {
		return err
	}
	cpu.regs.A[reg] = cpu.regs.A[7]
	cpu.regs.A[7] += uint32(int32(int16(displacement)))
	return nil
}

func (cpu *CPU) execUnlk(inst Instruction) error {
	reg := inst.Src.Reg
	cpu.regs.A[7] = cpu.regs.A[reg]
	value, err := cpu.pop(Long)
	if err != nil {
		return err
	}
	cpu.regs.A[reg] = value
	return nil
}

func (cpu *CPU) execSwap(inst Instruction) error {
	reg := inst.Dst.Reg
	value := cpu.regs.D[reg]>>16 | cpu.regs.D[reg]<<16
	cpu.regs.D[reg] = value
	cpu.regs.SR = cpu.regs.SR.setNZ(value, Long)
	return nil
}

func (cpu *CPU) execExt(inst Instruction) error {
	reg := inst.Dst.Reg
	if inst.Size == Word {
		value := Byte.signExtend(cpu.regs.D[reg]) & Word.mask()
		cpu.regs.writeD(uint16(reg), Word, value)
		cpu.regs.SR = cpu.regs.SR.setNZ(value, Word)
		return nil
	}
	value := Word.signExtend(cpu.regs.D[reg])
	cpu.regs.D[reg] = value
	cpu.regs.SR = cpu.regs.SR.setNZ(value, Long)
	return nil
}

func (cpu *CPU) execExg(inst Instruction) error {
	switch inst.Data {
	case 0:
		cpu.regs.D[inst.Src.Reg], cpu.regs.D[inst.Dst.Reg] =
			cpu.regs.D[inst.Dst.Reg], cpu.regs.D[inst.Src.Reg]
	case 1:
		cpu.regs.A[inst.Src.Reg], cpu.regs.A[inst.Dst.Reg] =
			cpu.regs.A[inst.Dst.Reg], cpu.regs.A[inst.Src.Reg]
	default:
		cpu.regs.D[inst.Src.Reg], cpu.regs.A[inst.Dst.Reg] =
			cpu.regs.A[inst.Dst.Reg], cpu.regs.D[inst.Src.Reg]
	}
	return nil
}

// execTas reads, tests and sets bit 7 in one indivisible bus operation in
// hardware; here the read and write are simply back to back.
func (cpu *CPU) execTas(inst Instruction) error {
	dst, err := cpu.resolveEA(inst.Dst, Byte)
	if err != nil {
		return err
	}
	value, err := dst.read()
	if err != nil {
		return err
	}
	cpu.regs.SR = cpu.regs.SR.setNZ(value, Byte)
	return dst.write(value | 0x80)
}
