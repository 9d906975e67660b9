package m68k

// execBranch covers BRA, BSR and the fourteen Bcc forms. The displacement
// base is the address of the extension word, which is where the program
// counter sits after the opcode fetch.
func (cpu *CPU) execBranch(inst Instruction) error {
	base := cpu.regs.PC
	displacement := int32(int8(inst.Data))
	wordForm := inst.Data == 0
	if wordForm {
		w, err := cpu.popPC(Word)
		if err != nil {
			return err
		}
		displacement = int32(int16(w))
	}

	taken := true
	if inst.Op == OpBcc {
		taken = inst.Cond.holds(cpu.regs.SR)
	}
	if !taken {
		if wordForm {
			cpu.timing.AddCycles(2)
		}
		return nil
	}

	if inst.Op == OpBsr {
		if err := cpu.push(Long, cpu.regs.PC); err != nil {
			return err
		}
		cpu.timing.AddCycles(8)
	}
	cpu.regs.PC = base + uint32(displacement)
	return nil
}

// execDBcc: a true condition falls through; otherwise the counter register
// decrements and the loop branch is taken until it passes -1.
func (cpu *CPU) execDBcc(inst Instruction) error {
	base := cpu.regs.PC
	w, err := cpu.popPC(Word)
	if err != nil {
		return err
	}

	if inst.Cond.holds(cpu.regs.SR) {
		cpu.timing.AddCycles(2)
		return nil
	}

	reg := uint16(inst.Dst.Reg)
	counter := uint16(cpu.regs.D[reg]) - 1
	cpu.regs.writeD(reg, Word, uint32(counter))
	if counter == 0xffff {
		cpu.timing.AddCycles(4)
		return nil
	}

	cpu.regs.PC = base + uint32(int32(int16(w)))
	return nil
}

func (cpu *CPU) execScc(inst Instruction) error {
	dst, err := cpu.resolveEA(inst.Dst, Byte)
	if err != nil {
		return err
	}

	var value uint32
	if inst.Cond.holds(cpu.regs.SR) {
		value = 0xff
		if inst.Dst.Mode == modeDataRegister {
			cpu.timing.AddCycles(2)
		}
	}
	return dst.write(value)
}

func (cpu *CPU) execJump(inst Instruction) error {
	src, err := cpu.resolveEA(inst.Src, Long)
	if err != nil {
		return err
	}
	target := src.computedAddress()

	if inst.Op == OpJsr {
		if err := cpu.push(Long, cpu.regs.PC); err != nil {
			return err
		}
	}
	cpu.regs.PC = target
	return nil
}

func (cpu *CPU) execRts() error {
	pc, err := cpu.pop(Long)
	if err != nil {
		return err
	}
	cpu.regs.PC = pc
	return nil
}

func (cpu *CPU) execRtr() error {
	ccr, err := cpu.pop(Word)
	if err != nil {
		return err
	}
	pc, err := cpu.pop(Long)
	if err != nil {
		return err
	}
	cpu.setCCR(ccr)
	cpu.regs.PC = pc
	return nil
}

// execRte unwinds the exception frame pushed by dispatch: the saved status
// register first, then the return address.
func (cpu *CPU) execRte() error {
	if err := cpu.requirePrivilege(); err != nil {
		return err
	}
	sr, err := cpu.pop(Word)
	if err != nil {
		return err
	}
	pc, err := cpu.pop(Long)
	if err != nil {
		return err
	}
	cpu.setSR(Status(sr))
	cpu.regs.PC = pc
	return nil
}

// execStop loads the status register from the immediate word and idles the
// core until an interrupt above the new mask arrives.
func (cpu *CPU) execStop() error {
	if err := cpu.requirePrivilege(); err != nil {
		return err
	}
	imm, err := cpu.popPC(Word)
	if err != nil {
		return err
	}
	cpu.setSR(Status(imm))
	cpu.stopped = true
	return nil
}
