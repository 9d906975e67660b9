package m68k

import (
	"encoding/binary"
	"testing"
)

func TestBusAlignment(t *testing.T) {
	ram := NewRAM(0, 0x1000)
	bus := NewBus(ram)

	if _, err := bus.Read(Word, 1); err == nil {
		t.Fatal("odd word read must fault")
	} else {
		expectAddressError(t, err)
	}
	if err := bus.Write(Long, 3, 0); err == nil {
		t.Fatal("odd long write must fault")
	} else {
		expectAddressError(t, err)
	}
	if _, err := bus.Read(Byte, 1); err != nil {
		t.Fatalf("odd byte read must be fine, got %v", err)
	}
}

func TestBusUnmapped(t *testing.T) {
	ram := NewRAM(0x1000, 0x1000)
	bus := NewBus(ram)

	if _, err := bus.Read(Word, 0x4000); err == nil {
		t.Fatal("unmapped read must fault")
	} else {
		expectBusError(t, err)
	}
	if err := bus.Write(Word, 0x4000, 1); err == nil {
		t.Fatal("unmapped write must fault")
	} else {
		expectBusError(t, err)
	}
}

func TestBusWaitStatesFeedTiming(t *testing.T) {
	mem := NewRAM(0, 1024*64)
	bus := NewBus(mem)
	mem.Write(Long, 0, testStack)
	mem.Write(Long, 4, testStart)
	bus.SetWaitStates(3)

	cpu, err := NewCPU(bus)
	if err != nil {
		t.Fatal(err)
	}
	if err := cpu.Reset(); err != nil {
		t.Fatal(err)
	}

	// Reset fetches the SSP and PC vectors: two bus transactions.
	if got := cpu.Timing().Stats().WaitCycles; got != 6 {
		t.Fatalf("wait cycles = %d after reset, want 6", got)
	}

	loadWords(t, mem, testStart, 0x4e71)
	step(t, cpu, 1)
	if got := cpu.Timing().Stats().WaitCycles; got != 9 {
		t.Fatalf("wait cycles = %d after one opcode fetch, want 9", got)
	}
}

func TestROMWaitStatesFeedTiming(t *testing.T) {
	image := make([]byte, 0x3000)
	binary.BigEndian.PutUint32(image[0:], testStack)
	binary.BigEndian.PutUint32(image[4:], testStart)
	binary.BigEndian.PutUint16(image[testStart:], 0x4e71)

	rom := NewROM(0, image)
	rom.SetWaitStates(2)

	cpu, err := NewCPU(NewBus(rom))
	if err != nil {
		t.Fatal(err)
	}
	if err := cpu.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := cpu.Timing().Stats().WaitCycles; got != 4 {
		t.Fatalf("wait cycles = %d after reset, want 4 from the slow cartridge", got)
	}

	step(t, cpu, 1)
	if got := cpu.Timing().Stats().WaitCycles; got != 6 {
		t.Fatalf("wait cycles = %d after one opcode fetch, want 6", got)
	}
}

func TestRAMBigEndian(t *testing.T) {
	ram := NewRAM(0, 0x100)
	if err := ram.Write(Long, 0x10, 0x11223344); err != nil {
		t.Fatal(err)
	}

	hi, _ := ram.Read(Byte, 0x10)
	lo, _ := ram.Read(Byte, 0x13)
	if hi != 0x11 || lo != 0x44 {
		t.Fatalf("bytes %02x..%02x, want big-endian order", hi, lo)
	}
	w, _ := ram.Read(Word, 0x12)
	if w != 0x3344 {
		t.Fatalf("low word = %04x, want 3344", w)
	}
}

func TestROMRejectsWrites(t *testing.T) {
	rom := NewROM(0x8000, []byte{0x12, 0x34, 0x56, 0x78})

	v, err := rom.Read(Word, 0x8000)
	if err != nil || v != 0x1234 {
		t.Fatalf("ROM read = %04x, %v", v, err)
	}
	err = rom.Write(Word, 0x8000, 0)
	expectBusError(t, err)
}

func TestByteBusComposesWords(t *testing.T) {
	backing := make([]byte, 0x100)
	dev := &ByteBus{
		Base: 0x7000,
		Len:  0x100,
		ReadFunc: func(address uint32) uint8 {
			return backing[address-0x7000]
		},
		WriteFunc: func(address uint32, value uint8) {
			backing[address-0x7000] = value
		},
	}

	if err := dev.Write(Long, 0x7010, 0xcafebabe); err != nil {
		t.Fatal(err)
	}
	v, err := dev.Read(Long, 0x7010)
	if err != nil || v != 0xcafebabe {
		t.Fatalf("composed long = %08x, %v", v, err)
	}
	w, _ := dev.Read(Word, 0x7012)
	if w != 0xbabe {
		t.Fatalf("composed word = %04x, want babe", w)
	}
}

func TestByteBusNilCallbacksFloat(t *testing.T) {
	dev := &ByteBus{Base: 0, Len: 0x10}
	v, err := dev.Read(Word, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xffff {
		t.Fatalf("floating bus read = %04x, want ffff", v)
	}
	if err := dev.Write(Byte, 0, 1); err != nil {
		t.Fatalf("write to nil handler must be ignored, got %v", err)
	}
}

func TestWordBusComposesLongs(t *testing.T) {
	var store [0x80]uint16
	dev := &WordBus{
		Base: 0x6000,
		Len:  0x100,
		ReadFunc: func(address uint32) uint16 {
			return store[(address-0x6000)/2]
		},
		WriteFunc: func(address uint32, value uint16) {
			store[(address-0x6000)/2] = value
		},
	}

	if err := dev.Write(Long, 0x6000, 0x01020304); err != nil {
		t.Fatal(err)
	}
	if store[0] != 0x0102 || store[1] != 0x0304 {
		t.Fatalf("stored words %04x %04x, want 0102 0304", store[0], store[1])
	}

	// Byte writes read-modify-write the containing word.
	if err := dev.Write(Byte, 0x6001, 0xff); err != nil {
		t.Fatal(err)
	}
	if store[0] != 0x01ff {
		t.Fatalf("after byte write, word = %04x, want 01ff", store[0])
	}

	b, err := dev.Read(Byte, 0x6002)
	if err != nil || b != 0x03 {
		t.Fatalf("byte read = %02x, %v", b, err)
	}
}
