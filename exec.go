package m68k

// execute runs one decoded instruction. Extension words are consumed from
// the instruction stream as operands resolve, in encoding order: source
// first, then destination. Errors are typed faults that Step converts into
// exception dispatches.
func (cpu *CPU) execute(inst Instruction) error {
	switch inst.Op {
	case OpIllegal:
		return cpu.illegal(VecIllegal)
	case OpLineA:
		return cpu.illegal(VecLine1010)
	case OpLineF:
		return cpu.illegal(VecLine1111)

	case OpMove, OpMoveA:
		return cpu.execMove(inst)
	case OpMoveQ:
		return cpu.execMoveQ(inst)
	case OpMoveM:
		return cpu.execMoveM(inst)
	case OpMoveP:
		return cpu.execMoveP(inst)
	case OpMoveFromSR:
		return cpu.execMoveFromSR(inst)
	case OpMoveToSR:
		return cpu.execMoveToSR(inst)
	case OpMoveToCCR:
		return cpu.execMoveToCCR(inst)
	case OpMoveUSP:
		return cpu.execMoveUSP(inst)
	case OpLea:
		return cpu.execLea(inst)
	case OpPea:
		return cpu.execPea(inst)
	case OpLink:
		return cpu.execLink(inst)
	case OpUnlk:
		return cpu.execUnlk(inst)
	case OpSwap:
		return cpu.execSwap(inst)
	case OpExt:
		return cpu.execExt(inst)
	case OpExg:
		return cpu.execExg(inst)
	case OpTas:
		return cpu.execTas(inst)

	case OpAdd, OpAddI:
		return cpu.execAdd(inst)
	case OpSub, OpSubI:
		return cpu.execSub(inst)
	case OpAddA, OpSubA:
		return cpu.execAddressArith(inst)
	case OpAddQ, OpSubQ:
		return cpu.execQuickArith(inst)
	case OpAddX, OpSubX:
		return cpu.execExtendedArith(inst)
	case OpCmp, OpCmpI, OpCmpM:
		return cpu.execCmp(inst)
	case OpCmpA:
		return cpu.execCmpA(inst)
	case OpNeg, OpNegX:
		return cpu.execNeg(inst)
	case OpClr:
		return cpu.execClr(inst)
	case OpTst:
		return cpu.execTst(inst)
	case OpMulU, OpMulS:
		return cpu.execMul(inst)
	case OpDivU, OpDivS:
		return cpu.execDiv(inst)
	case OpChk:
		return cpu.execChk(inst)

	case OpAnd, OpAndI, OpOr, OpOrI, OpEor, OpEorI:
		return cpu.execLogical(inst)
	case OpNot:
		return cpu.execNot(inst)
	case OpOrICCR, OpAndICCR, OpEorICCR:
		return cpu.execLogicalCCR(inst)
	case OpOrISR, OpAndISR, OpEorISR:
		return cpu.execLogicalSR(inst)

	case OpBtst, OpBchg, OpBclr, OpBset:
		return cpu.execBit(inst)

	case OpAbcd:
		return cpu.execAbcd(inst)
	case OpSbcd, OpNbcd:
		return cpu.execSbcd(inst)

	case OpAsl, OpAsr, OpLsl, OpLsr, OpRol, OpRor, OpRoxl, OpRoxr:
		return cpu.execShift(inst)

	case OpBra, OpBsr, OpBcc:
		return cpu.execBranch(inst)
	case OpDBcc:
		return cpu.execDBcc(inst)
	case OpScc:
		return cpu.execScc(inst)
	case OpJmp, OpJsr:
		return cpu.execJump(inst)
	case OpRts:
		return cpu.execRts()
	case OpRtr:
		return cpu.execRtr()
	case OpRte:
		return cpu.execRte()
	case OpTrap:
		return exceptionError(VecTrap0 + Vector(inst.Data))
	case OpTrapV:
		if cpu.regs.SR.Overflow() {
			return exceptionError(VecTrapV)
		}
		return nil
	case OpStop:
		return cpu.execStop()
	case OpReset:
		if err := cpu.requirePrivilege(); err != nil {
			return err
		}
		cpu.bus.Reset()
		return nil
	case OpNop:
		return nil
	}

	return cpu.illegal(VecIllegal)
}

// illegal rewinds the program counter so the stacked frame names the
// unrecognized instruction itself, then raises the vector.
func (cpu *CPU) illegal(v Vector) error {
	cpu.regs.PC -= 2
	return exceptionError(v)
}

// requirePrivilege faults user-mode execution of a privileged instruction.
// Called before any extension words are consumed so the stacked program
// counter points at the violating opcode.
func (cpu *CPU) requirePrivilege() error {
	if !cpu.regs.SR.Supervisor() {
		cpu.regs.PC -= 2
		return exceptionError(VecPrivilege)
	}
	return nil
}

// addFlags derives all five condition codes for an addition from the sign
// bits of the operands and result. setX distinguishes ADD-family results
// from compares.
func addFlags(sr Status, size Size, src, dst, result uint32, setX bool) Status {
	sign := size.signBit()
	overflow := (src&dst&^result | ^src&^dst&result) & sign
	carry := (src&dst | ^result&dst | src&^result) & sign

	sr = sr.set(srOverflow, overflow != 0)
	sr = sr.set(srCarry, carry != 0)
	if setX {
		sr = sr.set(srExtend, carry != 0)
	}
	sr = sr.set(srZero, size.isZero(result))
	sr = sr.set(srNegative, size.isNegative(result))
	return sr
}

// subFlags is the subtraction counterpart for result = dst - src.
func subFlags(sr Status, size Size, src, dst, result uint32, setX bool) Status {
	sign := size.signBit()
	overflow := (^src&dst&^result | src&^dst&result) & sign
	borrow := (src&^dst | result&^dst | src&result) & sign

	sr = sr.set(srOverflow, overflow != 0)
	sr = sr.set(srCarry, borrow != 0)
	if setX {
		sr = sr.set(srExtend, borrow != 0)
	}
	sr = sr.set(srZero, size.isZero(result))
	sr = sr.set(srNegative, size.isNegative(result))
	return sr
}

// stickyZero applies the multi-precision zero rule: a non-zero result
// clears Z, a zero result leaves it alone so chained operations accumulate
// zero-ness correctly.
func stickyZero(sr Status, size Size, result uint32) Status {
	if !size.isZero(result) {
		return sr &^ srZero
	}
	return sr
}
