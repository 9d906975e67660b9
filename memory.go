package m68k

import "fmt"

// RAM is a simple flat memory device.
type RAM struct {
	offset uint32
	mem    []byte
}

func NewRAM(offset, size uint32) *RAM {
	return &RAM{offset: offset, mem: make([]byte, size)}
}

// WaitStates allows RAM to satisfy WaitStateDevice while imposing no
// additional delay.
func (ram *RAM) WaitStates(Size, uint32) uint32 { return 0 }

func (ram *RAM) Contains(address uint32) bool {
	return address >= ram.offset && address < ram.offset+uint32(len(ram.mem))
}

func (ram *RAM) rangeCheck(address uint32, s Size) bool {
	end := address + uint32(s) - 1
	return address >= ram.offset && end < ram.offset+uint32(len(ram.mem))
}

func (ram *RAM) Read(s Size, address uint32) (uint32, error) {
	if !ram.rangeCheck(address, s) {
		return 0, BusError(address)
	}
	idx := address - ram.offset
	switch s {
	case Byte:
		return uint32(ram.mem[idx]), nil
	case Word:
		return uint32(ram.mem[idx])<<8 | uint32(ram.mem[idx+1]), nil
	case Long:
		return uint32(ram.mem[idx])<<24 | uint32(ram.mem[idx+1])<<16 |
			uint32(ram.mem[idx+2])<<8 | uint32(ram.mem[idx+3]), nil
	}
	return 0, fmt.Errorf("unknown size %d", s)
}

func (ram *RAM) Write(s Size, address uint32, value uint32) error {
	if !ram.rangeCheck(address, s) {
		return BusError(address)
	}
	idx := address - ram.offset
	switch s {
	case Byte:
		ram.mem[idx] = uint8(value)
	case Word:
		ram.mem[idx] = uint8(value >> 8)
		ram.mem[idx+1] = uint8(value)
	case Long:
		ram.mem[idx] = uint8(value >> 24)
		ram.mem[idx+1] = uint8(value >> 16)
		ram.mem[idx+2] = uint8(value >> 8)
		ram.mem[idx+3] = uint8(value)
	}
	return nil
}

func (ram *RAM) Reset() {
	for i := range ram.mem {
		ram.mem[i] = 0
	}
}

// ROM is a read-only device backed by an immutable image. Writes fail with a
// bus error; Reset leaves the image untouched.
type ROM struct {
	offset uint32
	image  []byte
	waits  uint32
}

func NewROM(offset uint32, image []byte) *ROM {
	return &ROM{offset: offset, image: image}
}

// SetWaitStates configures the per-access wait states the ROM advertises,
// modelling slower cartridge memory.
func (rom *ROM) SetWaitStates(states uint32) { rom.waits = states }

func (rom *ROM) WaitStates(Size, uint32) uint32 { return rom.waits }

func (rom *ROM) Contains(address uint32) bool {
	return address >= rom.offset && address < rom.offset+uint32(len(rom.image))
}

func (rom *ROM) Read(s Size, address uint32) (uint32, error) {
	end := address + uint32(s) - 1
	if address < rom.offset || end >= rom.offset+uint32(len(rom.image)) {
		return 0, BusError(address)
	}
	idx := address - rom.offset
	switch s {
	case Byte:
		return uint32(rom.image[idx]), nil
	case Word:
		return uint32(rom.image[idx])<<8 | uint32(rom.image[idx+1]), nil
	case Long:
		return uint32(rom.image[idx])<<24 | uint32(rom.image[idx+1])<<16 |
			uint32(rom.image[idx+2])<<8 | uint32(rom.image[idx+3]), nil
	}
	return 0, fmt.Errorf("unknown size %d", s)
}

func (rom *ROM) Write(_ Size, address uint32, _ uint32) error {
	return BusError(address)
}

func (rom *ROM) Reset() {}

// ByteBus adapts an adapter that only supplies byte-granularity callbacks
// into a full AddressBus. Word and long accesses are composed from byte
// accesses in big-endian order. Nil callbacks degrade to the documented
// sentinel (0xFF per byte) on reads and to silent drops on writes.
type ByteBus struct {
	Base uint32
	Len  uint32

	ReadFunc  func(address uint32) uint8
	WriteFunc func(address uint32, value uint8)
	ResetFunc func()
}

func (b *ByteBus) Contains(address uint32) bool {
	return address >= b.Base && address < b.Base+b.Len
}

func (b *ByteBus) readByte(address uint32) uint32 {
	if b.ReadFunc == nil {
		return 0xff
	}
	return uint32(b.ReadFunc(address))
}

func (b *ByteBus) Read(s Size, address uint32) (uint32, error) {
	if (s == Word || s == Long) && address&1 != 0 {
		return 0, AddressError(address)
	}
	var value uint32
	for i := uint32(0); i < uint32(s); i++ {
		value = value<<8 | b.readByte(address+i)
	}
	return value, nil
}

func (b *ByteBus) Write(s Size, address uint32, value uint32) error {
	if (s == Word || s == Long) && address&1 != 0 {
		return AddressError(address)
	}
	if b.WriteFunc == nil {
		return nil
	}
	for i := uint32(0); i < uint32(s); i++ {
		shift := (uint32(s) - 1 - i) * 8
		b.WriteFunc(address+i, uint8(value>>shift))
	}
	return nil
}

func (b *ByteBus) Reset() {
	if b.ResetFunc != nil {
		b.ResetFunc()
	}
}

// WordBus adapts an adapter that only supplies word-granularity callbacks.
// Long accesses are composed from two word accesses in big-endian order;
// byte accesses extract the relevant half of the containing word.
type WordBus struct {
	Base uint32
	Len  uint32

	ReadFunc  func(address uint32) uint16
	WriteFunc func(address uint32, value uint16)
	ResetFunc func()
}

func (b *WordBus) Contains(address uint32) bool {
	return address >= b.Base && address < b.Base+b.Len
}

func (b *WordBus) readWord(address uint32) uint32 {
	if b.ReadFunc == nil {
		return 0xffff
	}
	return uint32(b.ReadFunc(address))
}

func (b *WordBus) Read(s Size, address uint32) (uint32, error) {
	switch s {
	case Byte:
		word := b.readWord(address &^ 1)
		if address&1 == 0 {
			return word >> 8, nil
		}
		return word & 0xff, nil
	case Word:
		if address&1 != 0 {
			return 0, AddressError(address)
		}
		return b.readWord(address), nil
	default:
		if address&1 != 0 {
			return 0, AddressError(address)
		}
		return b.readWord(address)<<16 | b.readWord(address+2), nil
	}
}

func (b *WordBus) Write(s Size, address uint32, value uint32) error {
	if s != Byte && address&1 != 0 {
		return AddressError(address)
	}
	if b.WriteFunc == nil {
		return nil
	}
	switch s {
	case Byte:
		aligned := address &^ 1
		word := b.readWord(aligned)
		if address&1 == 0 {
			word = (word & 0x00ff) | (value&0xff)<<8
		} else {
			word = (word & 0xff00) | value&0xff
		}
		b.WriteFunc(aligned, uint16(word))
	case Word:
		b.WriteFunc(address, uint16(value))
	default:
		b.WriteFunc(address, uint16(value>>16))
		b.WriteFunc(address+2, uint16(value))
	}
	return nil
}

func (b *WordBus) Reset() {
	if b.ResetFunc != nil {
		b.ResetFunc()
	}
}
