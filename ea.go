package m68k

// modifier is a resolved operand location: a register, a memory address or
// an immediate value. Resolution consumes any extension words from the
// instruction stream and applies post-increment/pre-decrement side effects;
// read and write then move data through the location.
type modifier interface {
	read() (uint32, error)
	write(uint32) error
	computedAddress() uint32
}

// eaCycleTable is the fixed extra cost of each addressing mode, indexed by
// mode and (for mode 7) the extended submode. Register-direct modes cost
// nothing; immediates cost 4 for byte/word and 8 for long.
var eaCycleTable = [8][8]uint32{
	{0, 0, 0, 0, 0, 0, 0, 0},         // Dn
	{0, 0, 0, 0, 0, 0, 0, 0},         // An
	{4, 4, 4, 4, 4, 4, 4, 4},         // (An)
	{4, 4, 4, 4, 4, 4, 4, 4},         // (An)+
	{6, 6, 6, 6, 6, 6, 6, 6},         // -(An)
	{8, 8, 8, 8, 8, 8, 8, 8},         // (d16,An)
	{10, 10, 10, 10, 10, 10, 10, 10}, // (d8,An,Xn)
	{8, 12, 8, 10, 0, 0, 0, 0},       // (xxx).W, (xxx).L, (d16,PC), (d8,PC,Xn), #<data>
}

func eaAccessCycles(spec EASpec, size Size) uint32 {
	if spec.Mode == modeExtended && spec.Reg == extImmediate {
		if size == Long {
			return 8
		}
		return 4
	}
	return eaCycleTable[spec.Mode][spec.Reg]
}

type dataRegOperand struct {
	cpu  *CPU
	reg  uint16
	size Size
}

func (o dataRegOperand) read() (uint32, error) {
	return o.cpu.regs.D[o.reg] & o.size.mask(), nil
}

func (o dataRegOperand) write(v uint32) error {
	o.cpu.regs.writeD(o.reg, o.size, v)
	return nil
}

func (o dataRegOperand) computedAddress() uint32 {
	panic("no address in register addressing mode")
}

type addrRegOperand struct {
	cpu  *CPU
	reg  uint16
	size Size
}

func (o addrRegOperand) read() (uint32, error) {
	return o.cpu.regs.A[o.reg] & o.size.mask(), nil
}

func (o addrRegOperand) write(v uint32) error {
	o.cpu.regs.writeA(o.reg, o.size, v)
	return nil
}

func (o addrRegOperand) computedAddress() uint32 {
	panic("no address in register addressing mode")
}

type memOperand struct {
	cpu     *CPU
	size    Size
	address uint32
}

func (o memOperand) read() (uint32, error) {
	return o.cpu.read(o.size, o.address)
}

func (o memOperand) write(v uint32) error {
	return o.cpu.write(o.size, o.address, v)
}

func (o memOperand) computedAddress() uint32 {
	return o.address
}

type immOperand struct {
	value uint32
}

func (o immOperand) read() (uint32, error) {
	return o.value, nil
}

func (o immOperand) write(uint32) error {
	panic("write on immediate addressing mode")
}

func (o immOperand) computedAddress() uint32 {
	panic("no address in immediate addressing mode")
}

// stackStep is the post-increment/pre-decrement step for a register: the
// operand size, except byte accesses through A7 step by two to preserve
// stack alignment.
func stackStep(reg uint16, size Size) uint32 {
	if size == Byte && reg == 7 {
		return 2
	}
	return uint32(size)
}

// resolveEA materializes the operand named by spec at the given size,
// consuming extension words and applying address-register side effects.
func (cpu *CPU) resolveEA(spec EASpec, size Size) (modifier, error) {
	reg := uint16(spec.Reg)
	switch spec.Mode {
	case modeDataRegister:
		return dataRegOperand{cpu, reg, size}, nil

	case modeAddrRegister:
		return addrRegOperand{cpu, reg, size}, nil

	case modeIndirect:
		return memOperand{cpu, size, cpu.regs.A[reg]}, nil

	case modePostIncrement:
		address := cpu.regs.A[reg]
		cpu.regs.A[reg] += stackStep(reg, size)
		return memOperand{cpu, size, address}, nil

	case modePreDecrement:
		cpu.regs.A[reg] -= stackStep(reg, size)
		return memOperand{cpu, size, cpu.regs.A[reg]}, nil

	case modeDisplacement:
		offset, err := cpu.popPC(Word)
		if err != nil {
			return nil, err
		}
		address := uint32(int32(cpu.regs.A[reg]) + int32(int16(offset)))
		return memOperand{cpu, size, address}, nil

	case modeIndex:
		address, err := cpu.indexedAddress(cpu.regs.A[reg])
		if err != nil {
			return nil, err
		}
		return memOperand{cpu, size, address}, nil

	default:
		return cpu.resolveExtendedEA(reg, size)
	}
}

func (cpu *CPU) resolveExtendedEA(reg uint16, size Size) (modifier, error) {
	switch reg {
	case extAbsoluteShort:
		address, err := cpu.popPC(Word)
		if err != nil {
			return nil, err
		}
		return memOperand{cpu, size, Word.signExtend(address)}, nil

	case extAbsoluteLong:
		address, err := cpu.popPC(Long)
		if err != nil {
			return nil, err
		}
		return memOperand{cpu, size, address}, nil

	case extPCDisplacement:
		base := cpu.regs.PC
		offset, err := cpu.popPC(Word)
		if err != nil {
			return nil, err
		}
		address := uint32(int32(base) + int32(int16(offset)))
		return memOperand{cpu, size, address}, nil

	case extPCIndex:
		address, err := cpu.indexedAddress(cpu.regs.PC)
		if err != nil {
			return nil, err
		}
		return memOperand{cpu, size, address}, nil

	case extImmediate:
		readSize := size
		if size == Byte {
			readSize = Word
		}
		value, err := cpu.popPC(readSize)
		if err != nil {
			return nil, err
		}
		if size == Byte {
			value &= 0xff
		}
		return immOperand{value}, nil

	default:
		return nil, AddressError(cpu.regs.PC)
	}
}

// indexedAddress resolves the (d8,An,Xn)/(d8,PC,Xn) brief extension word
// format:
//
//	 F  |  E D C   |  B  |  A 9  | 8 | 7 6 5 4 3 2 1 0
//	D/A | REGISTER | W/L | SCALE | 0 |  DISPLACEMENT
//
// D/A selects a data or address index register, W/L whether the index is
// sign-extended from a word or taken as a long. The 68000 ignores the scale
// field.
func (cpu *CPU) indexedAddress(base uint32) (uint32, error) {
	ext, err := cpu.popPC(Word)
	if err != nil {
		return 0, err
	}

	var index int32
	regField := (ext >> 12) & 0xf
	if regField < 8 {
		index = int32(cpu.regs.D[regField])
	} else {
		index = int32(cpu.regs.A[regField-8])
	}
	if ext&0x800 == 0 { // word-sized index
		index = int32(int16(index))
	}
	return uint32(int32(base) + index + int32(int8(ext))), nil
}
