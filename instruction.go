package m68k

// Operation identifies the decoded operation kind of an opcode.
type Operation uint8

const (
	OpIllegal Operation = iota
	OpLineA
	OpLineF

	OpMove
	OpMoveA
	OpMoveQ
	OpMoveM
	OpMoveP
	OpMoveFromSR
	OpMoveToSR
	OpMoveToCCR
	OpMoveUSP

	OpAdd
	OpAddA
	OpAddI
	OpAddQ
	OpAddX
	OpSub
	OpSubA
	OpSubI
	OpSubQ
	OpSubX
	OpCmp
	OpCmpA
	OpCmpI
	OpCmpM
	OpNeg
	OpNegX
	OpClr
	OpTst
	OpMulU
	OpMulS
	OpDivU
	OpDivS

	OpAnd
	OpAndI
	OpOr
	OpOrI
	OpEor
	OpEorI
	OpNot
	OpOrICCR
	OpOrISR
	OpAndICCR
	OpAndISR
	OpEorICCR
	OpEorISR

	OpBtst
	OpBchg
	OpBclr
	OpBset
	OpTas

	OpAbcd
	OpSbcd
	OpNbcd

	OpAsl
	OpAsr
	OpLsl
	OpLsr
	OpRol
	OpRor
	OpRoxl
	OpRoxr

	OpBra
	OpBsr
	OpBcc
	OpDBcc
	OpScc
	OpJmp
	OpJsr
	OpRts
	OpRtr
	OpRte

	OpLea
	OpPea
	OpLink
	OpUnlk
	OpSwap
	OpExt
	OpExg
	OpChk
	OpTrap
	OpTrapV
	OpStop
	OpReset
	OpNop

	numOperations
)

// Condition is one of the 16 condition-code predicates used by Bcc, DBcc
// and Scc.
type Condition uint8

const (
	CondTrue         Condition = 0x0
	CondFalse        Condition = 0x1
	CondHigh         Condition = 0x2
	CondLowOrSame    Condition = 0x3
	CondCarryClear   Condition = 0x4
	CondCarrySet     Condition = 0x5
	CondNotEqual     Condition = 0x6
	CondEqual        Condition = 0x7
	CondOverflowClr  Condition = 0x8
	CondOverflowSet  Condition = 0x9
	CondPlus         Condition = 0xa
	CondMinus        Condition = 0xb
	CondGreaterEqual Condition = 0xc
	CondLessThan     Condition = 0xd
	CondGreaterThan  Condition = 0xe
	CondLessOrEqual  Condition = 0xf
)

// holds evaluates the predicate against the current condition codes.
func (c Condition) holds(sr Status) bool {
	n, z, v, cf := sr.Negative(), sr.Zero(), sr.Overflow(), sr.Carry()
	switch c {
	case CondTrue:
		return true
	case CondFalse:
		return false
	case CondHigh:
		return !cf && !z
	case CondLowOrSame:
		return cf || z
	case CondCarryClear:
		return !cf
	case CondCarrySet:
		return cf
	case CondNotEqual:
		return !z
	case CondEqual:
		return z
	case CondOverflowClr:
		return !v
	case CondOverflowSet:
		return v
	case CondPlus:
		return !n
	case CondMinus:
		return n
	case CondGreaterEqual:
		return n == v
	case CondLessThan:
		return n != v
	case CondGreaterThan:
		return !z && n == v
	default: // CondLessOrEqual
		return z || n != v
	}
}

// EASpec names an effective-address mode (0-7) and its register field. For
// mode 7 the register field selects the extended submode: 0 absolute short,
// 1 absolute long, 2 PC displacement, 3 PC index, 4 immediate.
type EASpec struct {
	Mode uint8
	Reg  uint8
}

const (
	modeDataRegister  = 0
	modeAddrRegister  = 1
	modeIndirect      = 2
	modePostIncrement = 3
	modePreDecrement  = 4
	modeDisplacement  = 5
	modeIndex         = 6
	modeExtended      = 7
	extAbsoluteShort  = 0
	extAbsoluteLong   = 1
	extPCDisplacement = 2
	extPCIndex        = 3
	extImmediate      = 4
)

func dataReg(reg uint16) EASpec { return EASpec{modeDataRegister, uint8(reg & 7)} }
func addrReg(reg uint16) EASpec { return EASpec{modeAddrRegister, uint8(reg & 7)} }
func immediate() EASpec         { return EASpec{modeExtended, extImmediate} }

// ea extracts the standard six-bit effective-address field of an opcode.
func ea(opcode uint16) EASpec {
	return EASpec{uint8((opcode >> 3) & 7), uint8(opcode & 7)}
}

// moveDestEA extracts the swapped destination field of a MOVE opcode
// (register in bits 11-9, mode in bits 8-6).
func moveDestEA(opcode uint16) EASpec {
	return EASpec{uint8((opcode >> 6) & 7), uint8((opcode >> 9) & 7)}
}

// extensionBytes is the number of extension bytes the mode consumes from
// the instruction stream for an operand of the given size.
func (s EASpec) extensionBytes(size Size) int {
	switch s.Mode {
	case modeDisplacement, modeIndex:
		return 2
	case modeExtended:
		switch s.Reg {
		case extAbsoluteShort, extPCDisplacement, extPCIndex:
			return 2
		case extAbsoluteLong:
			return 4
		case extImmediate:
			if size == Long {
				return 4
			}
			return 2
		}
	}
	return 0
}

func (s EASpec) isRegisterDirect() bool {
	return s.Mode == modeDataRegister || s.Mode == modeAddrRegister
}

// Instruction is the immutable decode result for one opcode. It is built
// once per opcode value when the decoder table is constructed and never
// mutated afterwards.
type Instruction struct {
	Opcode uint16
	Op     Operation
	Size   Size
	Src    EASpec
	Dst    EASpec
	Cond   Condition

	// Data carries the opcode-embedded payload: quick values, trap
	// numbers, shift counts, MOVEQ data, branch displacements.
	Data uint16

	// Cycles is the statically known base cost including effective-address
	// calculation. Data-dependent costs (shift counts, MOVEM register
	// lists, taken branches) are added by the executor.
	Cycles uint32

	// Length is the encoded instruction length in bytes (2 to 10).
	Length uint8

	// Branch marks control-transfer instructions for the timing model.
	Branch bool
}

// Valid reports whether the opcode decodes to a recognized instruction.
func (inst Instruction) Valid() bool {
	return inst.Op != OpIllegal && inst.Op != OpLineA && inst.Op != OpLineF
}
