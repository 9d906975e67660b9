package m68k

func (cpu *CPU) execLogical(inst Instruction) error {
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

	var r uint32
	switch inst.Op {
	case OpAnd, OpAndI:
		r = d & s
	case OpOr, OpOrI:
		r = d | s
	default:
		r = d ^ s
	}

	if err := dst.write(r); err != nil {
		return err
	}
	cpu.regs.SR = cpu.regs.SR.setNZ(r, inst.Size)
	return nil
}

func (cpu *CPU) execNot(inst Instruction) error {
	dst, err := cpu.resolveEA(inst.Dst, inst.Size)
	if err != nil {
		return err
	}
	d, err := dst.read()
	if err != nil {
		return err
	}
	r := ^d & inst.Size.mask()
	if err := dst.write(r); err != nil {
		return err
	}
	cpu.regs.SR = cpu.regs.SR.setNZ(r, inst.Size)
	return nil
}

func (cpu *CPU) execLogicalCCR(inst Instruction) error {
	imm, err := cpu.popPC(Byte)
	if err != nil {
		return err
	}
	ccr := uint32(cpu.regs.SR & srCCR)
	switch inst.Op {
	case OpOrICCR:
		ccr |= imm
	case OpAndICCR:
		ccr &= imm
	default:
		ccr ^= imm
	}
	cpu.setCCR(ccr)
	return nil
}

func (cpu *CPU) execLogicalSR(inst Instruction) error {
	if err := cpu.requirePrivilege(); err != nil {
		return err
	}
	imm, err := cpu.popPC(Word)
	if err != nil {
		return err
	}
	sr := uint32(cpu.regs.SR)
	switch inst.Op {
	case OpOrISR:
		sr |= imm
	case OpAndISR:
		sr &= imm
	default:
		sr ^= imm
	}
	cpu.setSR(Status(sr))
	return nil
}
