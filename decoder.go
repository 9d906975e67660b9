package m68k

// Effective-address validity masks, one bit per addressing mode. Each
// instruction family registers the set of modes its EA field may take.
const (
	eaMaskDataRegister    uint16 = 0x0800
	eaMaskAddressRegister uint16 = 0x0400
	eaMaskIndirect        uint16 = 0x0200
	eaMaskPostIncrement   uint16 = 0x0100
	eaMaskPreDecrement    uint16 = 0x0080
	eaMaskDisplacement    uint16 = 0x0040
	eaMaskIndex           uint16 = 0x0020
	eaMaskAbsoluteShort   uint16 = 0x0010
	eaMaskAbsoluteLong    uint16 = 0x0008
	eaMaskImmediate       uint16 = 0x0004
	eaMaskPCDisplacement  uint16 = 0x0002
	eaMaskPCIndex         uint16 = 0x0001
)

const (
	eaMaskAll = eaMaskDataRegister | eaMaskAddressRegister | eaMaskIndirect |
		eaMaskPostIncrement | eaMaskPreDecrement | eaMaskDisplacement |
		eaMaskIndex | eaMaskAbsoluteShort | eaMaskAbsoluteLong |
		eaMaskImmediate | eaMaskPCDisplacement | eaMaskPCIndex

	// Alterable modes excluding address registers.
	eaMaskDataAlterable = eaMaskDataRegister | eaMaskIndirect | eaMaskPostIncrement |
		eaMaskPreDecrement | eaMaskDisplacement | eaMaskIndex |
		eaMaskAbsoluteShort | eaMaskAbsoluteLong

	eaMaskAlterable = eaMaskDataAlterable | eaMaskAddressRegister

	eaMaskMemoryAlterable = eaMaskDataAlterable &^ eaMaskDataRegister

	// Data addressing: everything except address-register direct.
	eaMaskData = eaMaskAll &^ eaMaskAddressRegister

	// Control addressing for JMP/JSR/LEA/PEA.
	eaMaskControl = eaMaskIndirect | eaMaskDisplacement | eaMaskIndex |
		eaMaskAbsoluteShort | eaMaskAbsoluteLong |
		eaMaskPCDisplacement | eaMaskPCIndex
)

func validEA(opcode, mask uint16) bool {
	if mask == 0 {
		return true
	}

	switch opcode & 0x3f {
	case 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07:
		return mask&eaMaskDataRegister != 0
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f:
		return mask&eaMaskAddressRegister != 0
	case 0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17:
		return mask&eaMaskIndirect != 0
	case 0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f:
		return mask&eaMaskPostIncrement != 0
	case 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27:
		return mask&eaMaskPreDecrement != 0
	case 0x28, 0x29, 0x2a, 0x2b, 0x2c, 0x2d, 0x2e, 0x2f:
		return mask&eaMaskDisplacement != 0
	case 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37:
		return mask&eaMaskIndex != 0
	case 0x38:
		return mask&eaMaskAbsoluteShort != 0
	case 0x39:
		return mask&eaMaskAbsoluteLong != 0
	case 0x3a:
		return mask&eaMaskPCDisplacement != 0
	case 0x3b:
		return mask&eaMaskPCIndex != 0
	case 0x3c:
		return mask&eaMaskImmediate != 0
	}
	return false
}

// Decoder maps 16-bit opcodes to immutable instruction descriptors. The
// full table is built once in NewDecoder; decoding afterwards is a plain
// array lookup with no side effects and no shared mutable state.
type Decoder struct {
	table []Instruction
}

// builder constructs a table under build, tracking which slots are taken so
// that earlier (more specific) registrations always win over later (more
// general) ones.
type builder struct {
	table    []Instruction
	occupied []bool
}

func NewDecoder() *Decoder {
	b := &builder{
		table:    make([]Instruction, 0x10000),
		occupied: make([]bool, 0x10000),
	}

	for opcode := 0; opcode < 0x10000; opcode++ {
		inst := Instruction{Opcode: uint16(opcode), Op: OpIllegal, Cycles: 4, Length: 2}
		switch opcode & 0xf000 {
		case 0xa000:
			inst.Op = OpLineA
		case 0xf000:
			inst.Op = OpLineF
		}
		b.table[opcode] = inst
	}

	b.fixedOpcodes()
	b.systemControl()
	b.registerPairs()
	b.mulDiv()
	b.bitAndMovep()
	b.immediates()
	b.miscGroup4()
	b.quickAndConditional()
	b.branches()
	b.moves()
	b.shiftsRotates()
	b.aluGroups()

	return &Decoder{table: b.table}
}

// Decode returns the descriptor for an opcode. Decoding is a pure function
// of the opcode bits; extension words are consumed later by the executor.
func (d *Decoder) Decode(opcode uint16) Instruction {
	return d.table[opcode]
}

// register fills every opcode slot matching match against mask (mask bits
// are fixed, the rest enumerate) whose EA field passes eaMask and that no
// earlier registration claimed.
func (b *builder) register(match, mask, eaMask uint16, build func(opcode uint16) Instruction) {
	for value := uint16(0); ; {
		opcode := match | value
		if (eaMask == 0 || validEA(opcode, eaMask)) && !b.occupied[opcode] {
			inst := build(opcode)
			inst.Opcode = opcode
			if inst.Length == 0 {
				inst.Length = 2
			}
			b.table[opcode] = inst
			b.occupied[opcode] = true
		}

		value = ((value | mask) + 1) & ^mask
		if value == 0 {
			return
		}
	}
}

func length(size Size, specs ...EASpec) uint8 {
	n := 2
	for _, s := range specs {
		n += s.extensionBytes(size)
	}
	return uint8(n)
}

func sizeFromBits(opcode uint16) Size {
	return opSizes[(opcode>>6)&0x3]
}

func fixed(op Operation, cycles uint32) func(uint16) Instruction {
	return func(uint16) Instruction {
		return Instruction{Op: op, Cycles: cycles, Length: 2}
	}
}

func (b *builder) fixedOpcodes() {
	b.register(0x4e70, 0xffff, 0, fixed(OpReset, 132))
	b.register(0x4e71, 0xffff, 0, fixed(OpNop, 4))
	b.register(0x4e72, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpStop, Cycles: 4, Length: 4}
	})
	b.register(0x4e73, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpRte, Cycles: 20, Length: 2, Branch: true}
	})
	b.register(0x4e75, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpRts, Cycles: 16, Length: 2, Branch: true}
	})
	b.register(0x4e76, 0xffff, 0, fixed(OpTrapV, 4))
	b.register(0x4e77, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpRtr, Cycles: 20, Length: 2, Branch: true}
	})

	// The designated ILLEGAL opcode keeps the illegal tag but claims its
	// slot so nothing more general absorbs it.
	b.register(0x4afc, 0xffff, 0, fixed(OpIllegal, 4))

	b.register(0x003c, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpOrICCR, Size: Byte, Cycles: 20, Length: 4}
	})
	b.register(0x007c, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpOrISR, Size: Word, Cycles: 20, Length: 4}
	})
	b.register(0x023c, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpAndICCR, Size: Byte, Cycles: 20, Length: 4}
	})
	b.register(0x027c, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpAndISR, Size: Word, Cycles: 20, Length: 4}
	})
	b.register(0x0a3c, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpEorICCR, Size: Byte, Cycles: 20, Length: 4}
	})
	b.register(0x0a7c, 0xffff, 0, func(uint16) Instruction {
		return Instruction{Op: OpEorISR, Size: Word, Cycles: 20, Length: 4}
	})
}

func (b *builder) systemControl() {
	b.register(0x4e40, 0xfff0, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpTrap, Data: opcode & 0xf, Cycles: 34, Length: 2, Branch: true}
	})

	// MOVE An,USP and MOVE USP,An. Data bit 0 encodes the direction.
	b.register(0x4e60, 0xfff8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpMoveUSP, Src: addrReg(opcode), Cycles: 4, Length: 2}
	})
	b.register(0x4e68, 0xfff8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpMoveUSP, Dst: addrReg(opcode), Data: 1, Cycles: 4, Length: 2}
	})

	b.register(0x4e50, 0xfff8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpLink, Src: addrReg(opcode), Cycles: 16, Length: 4}
	})
	b.register(0x4e58, 0xfff8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpUnlk, Src: addrReg(opcode), Cycles: 12, Length: 2}
	})
}

func (b *builder) registerPairs() {
	// ABCD/SBCD: bit 3 selects data registers or pre-decrement memory.
	bcd := func(op Operation) func(uint16) Instruction {
		return func(opcode uint16) Instruction {
			inst := Instruction{Op: op, Size: Byte, Cycles: 6}
			if opcode&0x0008 != 0 {
				inst.Src = EASpec{modePreDecrement, uint8(opcode & 7)}
				inst.Dst = EASpec{modePreDecrement, uint8((opcode >> 9) & 7)}
				inst.Cycles = 18
			} else {
				inst.Src = dataReg(opcode)
				inst.Dst = dataReg(opcode >> 9)
			}
			return inst
		}
	}
	b.register(0xc100, 0xf1f8, 0, bcd(OpAbcd))
	b.register(0xc108, 0xf1f8, 0, bcd(OpAbcd))
	b.register(0x8100, 0xf1f8, 0, bcd(OpSbcd))
	b.register(0x8108, 0xf1f8, 0, bcd(OpSbcd))

	// EXG. Data distinguishes the pairing: 0 Dx,Dy; 1 Ax,Ay; 2 Dx,Ay.
	b.register(0xc140, 0xf1f8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpExg, Size: Long, Src: dataReg(opcode >> 9), Dst: dataReg(opcode), Cycles: 6}
	})
	b.register(0xc148, 0xf1f8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpExg, Size: Long, Src: addrReg(opcode >> 9), Dst: addrReg(opcode), Data: 1, Cycles: 6}
	})
	b.register(0xc188, 0xf1f8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpExg, Size: Long, Src: dataReg(opcode >> 9), Dst: addrReg(opcode), Data: 2, Cycles: 8}
	})

	// CMPM (Ay)+,(Ax)+
	for size := uint16(0); size < 3; size++ {
		b.register(0xb108|size<<6, 0xf1f8, 0, func(opcode uint16) Instruction {
			s := sizeFromBits(opcode)
			cycles := uint32(12)
			if s == Long {
				cycles = 20
			}
			return Instruction{
				Op:     OpCmpM,
				Size:   s,
				Src:    EASpec{modePostIncrement, uint8(opcode & 7)},
				Dst:    EASpec{modePostIncrement, uint8((opcode >> 9) & 7)},
				Cycles: cycles,
			}
		})
	}

	// ADDX/SUBX: register or pre-decrement memory pairs.
	extended := func(op Operation) func(uint16) Instruction {
		return func(opcode uint16) Instruction {
			s := sizeFromBits(opcode)
			inst := Instruction{Op: op, Size: s}
			if opcode&0x0008 != 0 {
				inst.Src = EASpec{modePreDecrement, uint8(opcode & 7)}
				inst.Dst = EASpec{modePreDecrement, uint8((opcode >> 9) & 7)}
				inst.Cycles = 18
				if s == Long {
					inst.Cycles = 30
				}
			} else {
				inst.Src = dataReg(opcode)
				inst.Dst = dataReg(opcode >> 9)
				inst.Cycles = 4
				if s == Long {
					inst.Cycles = 8
				}
			}
			return inst
		}
	}
	for size := uint16(0); size < 3; size++ {
		b.register(0xd100|size<<6, 0xf1f8, 0, extended(OpAddX))
		b.register(0xd108|size<<6, 0xf1f8, 0, extended(OpAddX))
		b.register(0x9100|size<<6, 0xf1f8, 0, extended(OpSubX))
		b.register(0x9108|size<<6, 0xf1f8, 0, extended(OpSubX))
	}
}

func (b *builder) mulDiv() {
	mulDivIns := func(op Operation, base uint32) func(uint16) Instruction {
		return func(opcode uint16) Instruction {
			src := ea(opcode)
			return Instruction{
				Op:     op,
				Size:   Word,
				Src:    src,
				Dst:    dataReg(opcode >> 9),
				Cycles: base + eaAccessCycles(src, Word),
				Length: length(Word, src),
			}
		}
	}
	b.register(0x80c0, 0xf1c0, eaMaskData, mulDivIns(OpDivU, 140))
	b.register(0x81c0, 0xf1c0, eaMaskData, mulDivIns(OpDivS, 158))
	b.register(0xc0c0, 0xf1c0, eaMaskData, mulDivIns(OpMulU, 70))
	b.register(0xc1c0, 0xf1c0, eaMaskData, mulDivIns(OpMulS, 70))
}

func bitOpCycles(op Operation, dst EASpec, static bool) uint32 {
	if dst.Mode == modeDataRegister {
		base := uint32(4)
		if op != OpBtst {
			base = 8
		}
		if static {
			base += 4
		}
		return base
	}

	base := uint32(8)
	if op != OpBtst {
		base = 12
	}
	if static {
		base += 4
	}
	return base + eaAccessCycles(dst, Byte)
}

func (b *builder) bitAndMovep() {
	// MOVEP claims the mode-1 slots of the dynamic bit-op range first.
	// Data bit 0: direction (1 = register to memory); size from bit 6.
	for i, match := range []uint16{0x0108, 0x0148, 0x0188, 0x01c8} {
		dir := uint16(i) / 2 // 0 memory-to-register, 1 register-to-memory
		size := Word
		if i%2 == 1 {
			size = Long
		}
		cycles := uint32(16)
		if size == Long {
			cycles = 24
		}
		b.register(match, 0xf1f8, 0, func(opcode uint16) Instruction {
			return Instruction{
				Op:     OpMoveP,
				Size:   size,
				Src:    EASpec{modeDisplacement, uint8(opcode & 7)},
				Dst:    dataReg(opcode >> 9),
				Data:   dir,
				Cycles: cycles,
				Length: 4,
			}
		})
	}

	bitOps := [4]Operation{OpBtst, OpBchg, OpBclr, OpBset}

	// Dynamic bit number from a data register.
	for op := uint16(0); op < 4; op++ {
		tag := bitOps[op]
		b.register(0x0100|(op+4)<<6, 0xf1c0, eaMaskDataAlterable, func(opcode uint16) Instruction {
			dst := ea(opcode)
			size := Byte
			if dst.Mode == modeDataRegister {
				size = Long
			}
			return Instruction{
				Op:     tag,
				Size:   size,
				Src:    dataReg(opcode >> 9),
				Dst:    dst,
				Cycles: bitOpCycles(tag, dst, false),
				Length: length(size, dst),
			}
		})
	}

	// Static bit number from an immediate extension word.
	for op := uint16(0); op < 4; op++ {
		tag := bitOps[op]
		b.register(0x0800|op<<6, 0xffc0, eaMaskDataAlterable, func(opcode uint16) Instruction {
			dst := ea(opcode)
			size := Byte
			if dst.Mode == modeDataRegister {
				size = Long
			}
			return Instruction{
				Op:     tag,
				Size:   size,
				Src:    immediate(),
				Dst:    dst,
				Cycles: bitOpCycles(tag, dst, true),
				Length: 2 + 2 + uint8(dst.extensionBytes(size)),
			}
		})
	}
}

func (b *builder) immediates() {
	families := []struct {
		base uint16
		op   Operation
	}{
		{0x0000, OpOrI},
		{0x0200, OpAndI},
		{0x0400, OpSubI},
		{0x0600, OpAddI},
		{0x0a00, OpEorI},
		{0x0c00, OpCmpI},
	}

	for _, f := range families {
		op := f.op
		for size := uint16(0); size < 3; size++ {
			b.register(f.base|size<<6, 0xffc0, eaMaskDataAlterable, func(opcode uint16) Instruction {
				s := sizeFromBits(opcode)
				dst := ea(opcode)
				src := immediate()
				return Instruction{
					Op:     op,
					Size:   s,
					Src:    src,
					Dst:    dst,
					Cycles: 8 + eaAccessCycles(dst, s),
					Length: length(s, src, dst),
				}
			})
		}
	}
}

func (b *builder) miscGroup4() {
	// Single-register forms claim their slots before the EA-general ones.
	b.register(0x4840, 0xfff8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpSwap, Size: Long, Dst: dataReg(opcode), Cycles: 4}
	})
	b.register(0x4880, 0xfff8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpExt, Size: Word, Dst: dataReg(opcode), Cycles: 4}
	})
	b.register(0x48c0, 0xfff8, 0, func(opcode uint16) Instruction {
		return Instruction{Op: OpExt, Size: Long, Dst: dataReg(opcode), Cycles: 4}
	})

	b.register(0x4800, 0xffc0, eaMaskDataAlterable, func(opcode uint16) Instruction {
		dst := ea(opcode)
		cycles := uint32(6)
		if dst.Mode != modeDataRegister {
			cycles = 8 + eaAccessCycles(dst, Byte)
		}
		return Instruction{Op: OpNbcd, Size: Byte, Dst: dst, Cycles: cycles, Length: length(Byte, dst)}
	})

	b.register(0x4840, 0xffc0, eaMaskControl, func(opcode uint16) Instruction {
		src := ea(opcode)
		return Instruction{
			Op: OpPea, Size: Long, Src: src,
			Cycles: 8 + eaAccessCycles(src, Long),
			Length: length(Long, src),
		}
	})

	// MOVE from/to SR/CCR.
	b.register(0x40c0, 0xffc0, eaMaskDataAlterable, func(opcode uint16) Instruction {
		dst := ea(opcode)
		return Instruction{
			Op: OpMoveFromSR, Size: Word, Dst: dst,
			Cycles: 12 + eaAccessCycles(dst, Word),
			Length: length(Word, dst),
		}
	})
	b.register(0x44c0, 0xffc0, eaMaskData, func(opcode uint16) Instruction {
		src := ea(opcode)
		return Instruction{
			Op: OpMoveToCCR, Size: Byte, Src: src,
			Cycles: 12 + eaAccessCycles(src, Byte),
			Length: length(Byte, src),
		}
	})
	b.register(0x46c0, 0xffc0, eaMaskData, func(opcode uint16) Instruction {
		src := ea(opcode)
		return Instruction{
			Op: OpMoveToSR, Size: Word, Src: src,
			Cycles: 12 + eaAccessCycles(src, Word),
			Length: length(Word, src),
		}
	})

	singleOperand := func(op Operation) func(uint16) Instruction {
		return func(opcode uint16) Instruction {
			s := sizeFromBits(opcode)
			dst := ea(opcode)
			return Instruction{
				Op: op, Size: s, Dst: dst,
				Cycles: 4 + eaAccessCycles(dst, s),
				Length: length(s, dst),
			}
		}
	}
	for size := uint16(0); size < 3; size++ {
		b.register(0x4000|size<<6, 0xffc0, eaMaskDataAlterable, singleOperand(OpNegX))
		b.register(0x4200|size<<6, 0xffc0, eaMaskDataAlterable, singleOperand(OpClr))
		b.register(0x4400|size<<6, 0xffc0, eaMaskDataAlterable, singleOperand(OpNeg))
		b.register(0x4600|size<<6, 0xffc0, eaMaskDataAlterable, singleOperand(OpNot))
		b.register(0x4a00|size<<6, 0xffc0, eaMaskData, func(opcode uint16) Instruction {
			s := sizeFromBits(opcode)
			src := ea(opcode)
			return Instruction{
				Op: OpTst, Size: s, Src: src,
				Cycles: 4 + eaAccessCycles(src, s),
				Length: length(s, src),
			}
		})
	}

	b.register(0x4ac0, 0xffc0, eaMaskDataAlterable, func(opcode uint16) Instruction {
		dst := ea(opcode)
		return Instruction{
			Op: OpTas, Size: Byte, Dst: dst,
			Cycles: 4 + eaAccessCycles(dst, Byte),
			Length: length(Byte, dst),
		}
	})

	// MOVEM. Data bit 0: 1 = registers to memory.
	movem := func(toMemory uint16, s Size) func(uint16) Instruction {
		return func(opcode uint16) Instruction {
			spec := ea(opcode)
			base := uint32(12)
			if toMemory != 0 {
				base = 8
			}
			return Instruction{
				Op: OpMoveM, Size: s, Dst: spec, Data: toMemory,
				Cycles: base + eaAccessCycles(spec, s),
				Length: 2 + 2 + uint8(spec.extensionBytes(s)),
			}
		}
	}
	toMemoryMask := uint16(eaMaskIndirect | eaMaskPreDecrement | eaMaskDisplacement |
		eaMaskIndex | eaMaskAbsoluteShort | eaMaskAbsoluteLong)
	toRegistersMask := uint16(eaMaskIndirect | eaMaskPostIncrement | eaMaskDisplacement |
		eaMaskIndex | eaMaskAbsoluteShort | eaMaskAbsoluteLong |
		eaMaskPCDisplacement | eaMaskPCIndex)
	b.register(0x4880, 0xffc0, toMemoryMask, movem(1, Word))
	b.register(0x48c0, 0xffc0, toMemoryMask, movem(1, Long))
	b.register(0x4c80, 0xffc0, toRegistersMask, movem(0, Word))
	b.register(0x4cc0, 0xffc0, toRegistersMask, movem(0, Long))

	b.register(0x4180, 0xf1c0, eaMaskData, func(opcode uint16) Instruction {
		src := ea(opcode)
		return Instruction{
			Op: OpChk, Size: Word, Src: src, Dst: dataReg(opcode >> 9),
			Cycles: 10 + eaAccessCycles(src, Word),
			Length: length(Word, src),
		}
	})
	b.register(0x41c0, 0xf1c0, eaMaskControl, func(opcode uint16) Instruction {
		src := ea(opcode)
		return Instruction{
			Op: OpLea, Size: Long, Src: src, Dst: addrReg(opcode >> 9),
			Cycles: 4 + eaAccessCycles(src, Long),
			Length: length(Long, src),
		}
	})

	b.register(0x4e80, 0xffc0, eaMaskControl, func(opcode uint16) Instruction {
		src := ea(opcode)
		return Instruction{
			Op: OpJsr, Size: Long, Src: src,
			Cycles: 16 + eaAccessCycles(src, Long),
			Length: length(Long, src),
			Branch: true,
		}
	})
	b.register(0x4ec0, 0xffc0, eaMaskControl, func(opcode uint16) Instruction {
		src := ea(opcode)
		return Instruction{
			Op: OpJmp, Size: Long, Src: src,
			Cycles: 4 + eaAccessCycles(src, Long),
			Length: length(Long, src),
			Branch: true,
		}
	})
}

func (b *builder) quickAndConditional() {
	// DBcc claims its mode-1 slots before Scc.
	b.register(0x50c8, 0xf0f8, 0, func(opcode uint16) Instruction {
		return Instruction{
			Op:     OpDBcc,
			Size:   Word,
			Cond:   Condition((opcode >> 8) & 0xf),
			Dst:    dataReg(opcode),
			Cycles: 10,
			Length: 4,
			Branch: true,
		}
	})

	b.register(0x50c0, 0xf0c0, eaMaskDataAlterable, func(opcode uint16) Instruction {
		dst := ea(opcode)
		cycles := uint32(4)
		if dst.Mode != modeDataRegister {
			cycles = 8 + eaAccessCycles(dst, Byte)
		}
		return Instruction{
			Op:     OpScc,
			Size:   Byte,
			Cond:   Condition((opcode >> 8) & 0xf),
			Dst:    dst,
			Cycles: cycles,
			Length: length(Byte, dst),
		}
	})

	quick := func(op Operation) func(uint16) Instruction {
		return func(opcode uint16) Instruction {
			s := sizeFromBits(opcode)
			dst := ea(opcode)
			data := (opcode >> 9) & 7
			if data == 0 {
				data = 8
			}
			cycles := uint32(4)
			switch {
			case dst.Mode == modeAddrRegister:
				cycles = 8
			case dst.Mode == modeDataRegister && s == Long:
				cycles = 8
			case dst.Mode != modeDataRegister:
				cycles = 8 + eaAccessCycles(dst, s)
				if s == Long {
					cycles += 4
				}
			}
			return Instruction{
				Op: op, Size: s, Dst: dst, Data: data,
				Cycles: cycles,
				Length: length(s, dst),
			}
		}
	}
	for size := uint16(0); size < 3; size++ {
		mask := uint16(eaMaskAlterable)
		if size == 0 { // no byte operations on address registers
			mask &^= eaMaskAddressRegister
		}
		b.register(0x5000|size<<6, 0xf1c0, mask, quick(OpAddQ))
		b.register(0x5100|size<<6, 0xf1c0, mask, quick(OpSubQ))
	}
}

func (b *builder) branches() {
	for cond := uint16(0); cond < 16; cond++ {
		op := OpBcc
		switch cond {
		case 0:
			op = OpBra
		case 1:
			op = OpBsr
		}
		b.register(0x6000|cond<<8, 0xff00, 0, func(opcode uint16) Instruction {
			inst := Instruction{
				Op:     op,
				Cond:   Condition((opcode >> 8) & 0xf),
				Data:   opcode & 0xff,
				Cycles: 10,
				Length: 2,
				Branch: true,
			}
			if inst.Data == 0 { // 16-bit displacement follows
				inst.Length = 4
			}
			return inst
		})
	}
}

func (b *builder) moves() {
	b.register(0x7000, 0xf100, 0, func(opcode uint16) Instruction {
		return Instruction{
			Op:     OpMoveQ,
			Size:   Long,
			Dst:    dataReg(opcode >> 9),
			Data:   opcode & 0xff,
			Cycles: 4,
		}
	})

	movea := func(base uint16, s Size) {
		for dstReg := uint16(0); dstReg < 8; dstReg++ {
			b.register(base|dstReg<<9|1<<6, 0xffc0, eaMaskAll, func(opcode uint16) Instruction {
				src := ea(opcode)
				return Instruction{
					Op: OpMoveA, Size: s, Src: src, Dst: addrReg(opcode >> 9),
					Cycles: 4 + eaAccessCycles(src, s),
					Length: length(s, src),
				}
			})
		}
	}
	movea(0x3000, Word)
	movea(0x2000, Long)

	move := func(base uint16, s Size) {
		for dstMode := uint16(0); dstMode < 8; dstMode++ {
			if dstMode == 1 { // address register destinations are MOVEA
				continue
			}
			for dstReg := uint16(0); dstReg < 8; dstReg++ {
				// Destination must be alterable.
				if dstMode == 7 && dstReg > 1 {
					continue
				}
				b.register(base|dstReg<<9|dstMode<<6, 0xffc0, eaMaskAll, func(opcode uint16) Instruction {
					src := ea(opcode)
					dst := moveDestEA(opcode)
					return Instruction{
						Op: OpMove, Size: s, Src: src, Dst: dst,
						Cycles: 4 + eaAccessCycles(src, s) + eaAccessCycles(dst, s),
						Length: length(s, src, dst),
					}
				})
			}
		}
	}
	move(0x1000, Byte)
	move(0x3000, Word)
	move(0x2000, Long)
}

var shiftOps = [4][2]Operation{
	{OpAsr, OpAsl},
	{OpLsr, OpLsl},
	{OpRoxr, OpRoxl},
	{OpRor, OpRol},
}

func (b *builder) shiftsRotates() {
	// Memory forms: one-bit word shifts with the operation in bits 10-9.
	for op := uint16(0); op < 4; op++ {
		for dir := uint16(0); dir < 2; dir++ {
			tag := shiftOps[op][dir]
			b.register(0xe0c0|op<<9|dir<<8, 0xffc0, eaMaskMemoryAlterable, func(opcode uint16) Instruction {
				dst := ea(opcode)
				return Instruction{
					Op: tag, Size: Word, Dst: dst, Data: 1,
					Cycles: 8 + eaAccessCycles(dst, Word),
					Length: length(Word, dst),
				}
			})
		}
	}

	// Register forms. Data carries an immediate count of 1-8; Data of zero
	// means the count comes from the data register in Src.
	b.register(0xe000, 0xf000, 0, func(opcode uint16) Instruction {
		sizeField := (opcode >> 6) & 0x3
		if sizeField == 3 {
			// Memory-form slots with an EA the memory registration
			// rejected stay illegal.
			return Instruction{Op: OpIllegal, Cycles: 4}
		}

		operation := (opcode >> 3) & 0x3
		fromRegister := opcode&0x20 != 0
		dir := (opcode >> 8) & 0x1
		tag := shiftOps[operation][dir]

		inst := Instruction{
			Op:   tag,
			Size: opSizes[sizeField],
			Dst:  dataReg(opcode),
		}

		countField := (opcode >> 9) & 0x7
		if fromRegister {
			inst.Src = dataReg(countField)
			inst.Cycles = 6
		} else {
			count := countField
			if count == 0 {
				count = 8
			}
			inst.Data = count
			inst.Cycles = 6 + 2*uint32(count)
		}
		if inst.Size == Long {
			inst.Cycles += 2
		}
		return inst
	})
}

func (b *builder) aluGroups() {
	// CMP/CMPA and EOR share the 0xbxxx group; CMPM claimed its slots
	// earlier.
	for opmode := uint16(0); opmode <= 2; opmode++ {
		mask := uint16(eaMaskAll)
		if opmode == 0 { // no byte reads of address registers
			mask &^= eaMaskAddressRegister
		}
		b.register(0xb000|opmode<<6, 0xf1c0, mask, func(opcode uint16) Instruction {
			s := operandSizeFromOpmode((opcode >> 6) & 7)
			src := ea(opcode)
			return Instruction{
				Op: OpCmp, Size: s, Src: src, Dst: dataReg(opcode >> 9),
				Cycles: 4 + eaAccessCycles(src, s),
				Length: length(s, src),
			}
		})
	}
	for _, opmode := range []uint16{3, 7} {
		b.register(0xb000|opmode<<6, 0xf1c0, eaMaskAll, func(opcode uint16) Instruction {
			s := Word
			if (opcode>>6)&7 == 7 {
				s = Long
			}
			src := ea(opcode)
			return Instruction{
				Op: OpCmpA, Size: s, Src: src, Dst: addrReg(opcode >> 9),
				Cycles: 6 + eaAccessCycles(src, s),
				Length: length(s, src),
			}
		})
	}
	for size := uint16(0); size < 3; size++ {
		b.register(0xb100|size<<6, 0xf1c0, eaMaskDataAlterable, func(opcode uint16) Instruction {
			s := sizeFromBits(opcode)
			dst := ea(opcode)
			return Instruction{
				Op: OpEor, Size: s, Src: dataReg(opcode >> 9), Dst: dst,
				Cycles: 8 + eaAccessCycles(dst, s),
				Length: length(s, dst),
			}
		})
	}

	// ADD/SUB (with ADDA/SUBA) and AND/OR follow the same opmode layout:
	// 0-2 operate <ea> into Dn, 4-6 operate Dn into <ea>.
	binary := func(base uint16, op Operation, srcMask uint16) {
		for opmode := uint16(0); opmode <= 2; opmode++ {
			mask := srcMask
			if opmode == 0 {
				mask &^= eaMaskAddressRegister
			}
			b.register(base|opmode<<6, 0xf1c0, mask, func(opcode uint16) Instruction {
				s := operandSizeFromOpmode((opcode >> 6) & 7)
				src := ea(opcode)
				cycles := uint32(4)
				if s == Long {
					cycles = 6
				}
				return Instruction{
					Op: op, Size: s, Src: src, Dst: dataReg(opcode >> 9),
					Cycles: cycles + eaAccessCycles(src, s),
					Length: length(s, src),
				}
			})
		}
		for opmode := uint16(4); opmode <= 6; opmode++ {
			b.register(base|opmode<<6, 0xf1c0, eaMaskMemoryAlterable, func(opcode uint16) Instruction {
				s := operandSizeFromOpmode((opcode >> 6) & 7)
				dst := ea(opcode)
				cycles := uint32(8)
				if s == Long {
					cycles = 12
				}
				return Instruction{
					Op: op, Size: s, Src: dataReg(opcode >> 9), Dst: dst,
					Cycles: cycles + eaAccessCycles(dst, s),
					Length: length(s, dst),
				}
			})
		}
	}

	addressOp := func(base uint16, op Operation) {
		for _, opmode := range []uint16{3, 7} {
			b.register(base|opmode<<6, 0xf1c0, eaMaskAll, func(opcode uint16) Instruction {
				s := Word
				if (opcode>>6)&7 == 7 {
					s = Long
				}
				src := ea(opcode)
				return Instruction{
					Op: op, Size: s, Src: src, Dst: addrReg(opcode >> 9),
					Cycles: 8 + eaAccessCycles(src, s),
					Length: length(s, src),
				}
			})
		}
	}

	binary(0xd000, OpAdd, eaMaskAll)
	addressOp(0xd000, OpAddA)
	binary(0x9000, OpSub, eaMaskAll)
	addressOp(0x9000, OpSubA)
	binary(0xc000, OpAnd, eaMaskData)
	binary(0x8000, OpOr, eaMaskData)
}
