package m68k

import (
	"fmt"
	"strings"
)

var opMnemonics = [numOperations]string{
	OpIllegal: "illegal",
	OpLineA:   "line-a",
	OpLineF:   "line-f",

	OpMove: "move", OpMoveA: "movea", OpMoveQ: "moveq", OpMoveM: "movem",
	OpMoveP: "movep", OpMoveFromSR: "move", OpMoveToSR: "move",
	OpMoveToCCR: "move", OpMoveUSP: "move",

	OpAdd: "add", OpAddA: "adda", OpAddI: "addi", OpAddQ: "addq", OpAddX: "addx",
	OpSub: "sub", OpSubA: "suba", OpSubI: "subi", OpSubQ: "subq", OpSubX: "subx",
	OpCmp: "cmp", OpCmpA: "cmpa", OpCmpI: "cmpi", OpCmpM: "cmpm",
	OpNeg: "neg", OpNegX: "negx", OpClr: "clr", OpTst: "tst",
	OpMulU: "mulu", OpMulS: "muls", OpDivU: "divu", OpDivS: "divs",

	OpAnd: "and", OpAndI: "andi", OpOr: "or", OpOrI: "ori",
	OpEor: "eor", OpEorI: "eori", OpNot: "not",
	OpOrICCR: "ori", OpOrISR: "ori", OpAndICCR: "andi", OpAndISR: "andi",
	OpEorICCR: "eori", OpEorISR: "eori",

	OpBtst: "btst", OpBchg: "bchg", OpBclr: "bclr", OpBset: "bset", OpTas: "tas",
	OpAbcd: "abcd", OpSbcd: "sbcd", OpNbcd: "nbcd",

	OpAsl: "asl", OpAsr: "asr", OpLsl: "lsl", OpLsr: "lsr",
	OpRol: "rol", OpRor: "ror", OpRoxl: "roxl", OpRoxr: "roxr",

	OpBra: "bra", OpBsr: "bsr", OpBcc: "b", OpDBcc: "db", OpScc: "s",
	OpJmp: "jmp", OpJsr: "jsr", OpRts: "rts", OpRtr: "rtr", OpRte: "rte",

	OpLea: "lea", OpPea: "pea", OpLink: "link", OpUnlk: "unlk",
	OpSwap: "swap", OpExt: "ext", OpExg: "exg", OpChk: "chk",
	OpTrap: "trap", OpTrapV: "trapv", OpStop: "stop", OpReset: "reset",
	OpNop: "nop",
}

var condMnemonics = [16]string{
	"t", "f", "hi", "ls", "cc", "cs", "ne", "eq",
	"vc", "vs", "pl", "mi", "ge", "lt", "gt", "le",
}

// Disassemble renders the instruction at the start of code, loaded at the
// given address, and reports how many bytes it spans. Truncated input
// renders as raw data words.
func (d *Decoder) Disassemble(code []byte, address uint32) (string, int) {
	if len(code) < 2 {
		return "dc.b ...", len(code)
	}
	opcode := uint16(code[0])<<8 | uint16(code[1])
	inst := d.table[opcode]

	if !inst.Valid() && inst.Op == OpIllegal {
		return fmt.Sprintf("dc.w $%04x", opcode), 2
	}
	if int(inst.Length) > len(code) {
		return fmt.Sprintf("dc.w $%04x", opcode), 2
	}

	text := d.render(inst, code[:inst.Length], address)
	return text, int(inst.Length)
}

func (d *Decoder) render(inst Instruction, code []byte, address uint32) string {
	name := opMnemonics[inst.Op]
	ext := &extReader{code: code, offset: 2}

	switch inst.Op {
	case OpLineA, OpLineF:
		return fmt.Sprintf("%s $%04x", name, inst.Opcode)
	case OpRts, OpRtr, OpRte, OpNop, OpReset, OpTrapV, OpIllegal:
		return name
	case OpTrap:
		return fmt.Sprintf("trap #%d", inst.Data)
	case OpStop:
		return fmt.Sprintf("stop #$%04x", ext.word())
	case OpMoveQ:
		return fmt.Sprintf("moveq #%d,d%d", int8(inst.Data), inst.Dst.Reg)
	case OpMoveUSP:
		if inst.Data == 0 {
			return fmt.Sprintf("move a%d,usp", inst.Src.Reg)
		}
		return fmt.Sprintf("move usp,a%d", inst.Dst.Reg)
	case OpMoveFromSR:
		return fmt.Sprintf("move sr,%s", formatEA(inst.Dst, Word, ext, address))
	case OpMoveToSR:
		return fmt.Sprintf("move %s,sr", formatEA(inst.Src, Word, ext, address))
	case OpMoveToCCR:
		return fmt.Sprintf("move %s,ccr", formatEA(inst.Src, Byte, ext, address))
	case OpOrICCR, OpAndICCR, OpEorICCR:
		return fmt.Sprintf("%s #$%02x,ccr", name, ext.word()&0xff)
	case OpOrISR, OpAndISR, OpEorISR:
		return fmt.Sprintf("%s #$%04x,sr", name, ext.word())
	case OpLink:
		return fmt.Sprintf("link a%d,#%d", inst.Src.Reg, int16(ext.word()))
	case OpUnlk:
		return fmt.Sprintf("unlk a%d", inst.Src.Reg)
	case OpSwap:
		return fmt.Sprintf("swap d%d", inst.Dst.Reg)
	case OpExt:
		return fmt.Sprintf("ext%s d%d", inst.Size.suffix(), inst.Dst.Reg)
	case OpBra, OpBsr, OpBcc:
		if inst.Op == OpBcc {
			name = "b" + condMnemonics[inst.Cond]
		}
		target := address + 2
		if inst.Data == 0 {
			target += uint32(int32(int16(ext.word())))
		} else {
			target += uint32(int32(int8(inst.Data)))
		}
		return fmt.Sprintf("%s $%x", name, target)
	case OpDBcc:
		target := address + 2 + uint32(int32(int16(ext.word())))
		return fmt.Sprintf("db%s d%d,$%x", condMnemonics[inst.Cond], inst.Dst.Reg, target)
	case OpScc:
		return fmt.Sprintf("s%s %s", condMnemonics[inst.Cond], formatEA(inst.Dst, Byte, ext, address))
	case OpMoveM:
		mask := ext.word()
		eaText := formatEA(inst.Dst, inst.Size, ext, address)
		list := movemList(mask, inst.Dst.Mode == modePreDecrement)
		if inst.Data == 1 {
			return fmt.Sprintf("movem%s %s,%s", inst.Size.suffix(), list, eaText)
		}
		return fmt.Sprintf("movem%s %s,%s", inst.Size.suffix(), eaText, list)
	case OpMoveP:
		disp := int16(ext.word())
		mem := fmt.Sprintf("%d(a%d)", disp, inst.Src.Reg)
		if inst.Data == 1 {
			return fmt.Sprintf("movep%s d%d,%s", inst.Size.suffix(), inst.Dst.Reg, mem)
		}
		return fmt.Sprintf("movep%s %s,d%d", inst.Size.suffix(), mem, inst.Dst.Reg)
	case OpAddQ, OpSubQ:
		return fmt.Sprintf("%s%s #%d,%s", name, inst.Size.suffix(), inst.Data,
			formatEA(inst.Dst, inst.Size, ext, address))
	case OpAsl, OpAsr, OpLsl, OpLsr, OpRol, OpRor, OpRoxl, OpRoxr:
		if inst.Dst.Mode != modeDataRegister {
			return fmt.Sprintf("%s%s %s", name, inst.Size.suffix(),
				formatEA(inst.Dst, inst.Size, ext, address))
		}
		if inst.Data != 0 {
			return fmt.Sprintf("%s%s #%d,d%d", name, inst.Size.suffix(), inst.Data, inst.Dst.Reg)
		}
		return fmt.Sprintf("%s%s d%d,d%d", name, inst.Size.suffix(), inst.Src.Reg, inst.Dst.Reg)
	}

	// Generic one- and two-operand rendering. Source extensions precede
	// destination extensions, matching the encoding.
	var operands []string
	if inst.Src != (EASpec{}) || hasSource(inst.Op) {
		size := inst.Size
		if inst.Op == OpBtst || inst.Op == OpBchg || inst.Op == OpBclr || inst.Op == OpBset {
			size = Byte
		}
		operands = append(operands, formatEA(inst.Src, size, ext, address))
	}
	if inst.Dst != (EASpec{}) || hasDestination(inst.Op) {
		operands = append(operands, formatEA(inst.Dst, inst.Size, ext, address))
	}
	if len(operands) == 0 {
		return name
	}
	return fmt.Sprintf("%s%s %s", name, inst.Size.suffix(), strings.Join(operands, ","))
}

// hasSource reports operations whose source operand may legitimately be
// the zero EASpec (data register zero).
func hasSource(op Operation) bool {
	switch op {
	case OpMove, OpMoveA, OpAdd, OpAddA, OpAddI, OpAddX, OpSub, OpSubA,
		OpSubI, OpSubX, OpCmp, OpCmpA, OpCmpI, OpCmpM, OpMulU, OpMulS,
		OpDivU, OpDivS, OpAnd, OpAndI, OpOr, OpOrI, OpEor, OpEorI,
		OpBtst, OpBchg, OpBclr, OpBset, OpAbcd, OpSbcd,
		OpLea, OpPea, OpJmp, OpJsr, OpChk, OpTst, OpExg:
		return true
	}
	return false
}

func hasDestination(op Operation) bool {
	switch op {
	case OpMove, OpMoveA, OpAdd, OpAddA, OpAddI, OpAddX, OpSub, OpSubA,
		OpSubI, OpSubX, OpCmp, OpCmpA, OpCmpI, OpCmpM, OpMulU, OpMulS,
		OpDivU, OpDivS, OpAnd, OpAndI, OpOr, OpOrI, OpEor, OpEorI,
		OpBtst, OpBchg, OpBclr, OpBset, OpAbcd, OpSbcd, OpNbcd,
		OpNeg, OpNegX, OpClr, OpNot, OpTas, OpLea, OpChk, OpExg:
		return true
	}
	return false
}

type extReader struct {
	code   []byte
	offset int
}

func (r *extReader) word() uint16 {
	if r.offset+2 > len(r.code) {
		return 0
	}
	w := uint16(r.code[r.offset])<<8 | uint16(r.code[r.offset+1])
	r.offset += 2
	return w
}

func (r *extReader) long() uint32 {
	return uint32(r.word())<<16 | uint32(r.word())
}

func formatEA(spec EASpec, size Size, ext *extReader, address uint32) string {
	switch spec.Mode {
	case modeDataRegister:
		return fmt.Sprintf("d%d", spec.Reg)
	case modeAddrRegister:
		return fmt.Sprintf("a%d", spec.Reg)
	case modeIndirect:
		return fmt.Sprintf("(a%d)", spec.Reg)
	case modePostIncrement:
		return fmt.Sprintf("(a%d)+", spec.Reg)
	case modePreDecrement:
		return fmt.Sprintf("-(a%d)", spec.Reg)
	case modeDisplacement:
		return fmt.Sprintf("%d(a%d)", int16(ext.word()), spec.Reg)
	case modeIndex:
		return formatIndex(ext.word(), fmt.Sprintf("a%d", spec.Reg))
	case modeExtended:
		switch spec.Reg {
		case extAbsoluteShort:
			return fmt.Sprintf("$%x.w", int16(ext.word()))
		case extAbsoluteLong:
			return fmt.Sprintf("$%x.l", ext.long())
		case extPCDisplacement:
			return fmt.Sprintf("%d(pc)", int16(ext.word()))
		case extPCIndex:
			return formatIndex(ext.word(), "pc")
		case extImmediate:
			if size == Long {
				return fmt.Sprintf("#$%x", ext.long())
			}
			return fmt.Sprintf("#$%x", ext.word()&uint16(size.mask()))
		}
	}
	return "?"
}

func formatIndex(ext uint16, base string) string {
	index := fmt.Sprintf("d%d", (ext>>12)&7)
	if ext&0x8000 != 0 {
		index = fmt.Sprintf("a%d", (ext>>12)&7)
	}
	suffix := ".w"
	if ext&0x0800 != 0 {
		suffix = ".l"
	}
	return fmt.Sprintf("%d(%s,%s%s)", int8(ext&0xff), base, index, suffix)
}

// movemList renders a register mask as d0-d7/a0-a7 ranges.
func movemList(mask uint16, reversed bool) string {
	present := [16]bool{}
	for bit := 0; bit < 16; bit++ {
		if mask&(1<<bit) == 0 {
			continue
		}
		if reversed {
			present[15-bit] = true
		} else {
			present[bit] = true
		}
	}

	var parts []string
	emit := func(kind string, base, from, to int) {
		if from == to {
			parts = append(parts, fmt.Sprintf("%s%d", kind, from-base))
		} else {
			parts = append(parts, fmt.Sprintf("%s%d-%s%d", kind, from-base, kind, to-base))
		}
	}
	for _, group := range []struct {
		kind  string
		start int
	}{{"d", 0}, {"a", 8}} {
		run := -1
		for i := group.start; i < group.start+8; i++ {
			if present[i] && run < 0 {
				run = i
			}
			if (!present[i] || i == group.start+7) && run >= 0 {
				end := i - 1
				if present[i] {
					end = i
				}
				emit(group.kind, group.start, run, end)
				run = -1
			}
		}
	}
	if len(parts) == 0 {
		return "#0"
	}
	return strings.Join(parts, "/")
}
