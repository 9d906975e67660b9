package m68k

import (
	"errors"
	"testing"

	asm "github.com/jenska/m68kasm"
)

const (
	testStack = 0x1000
	testStart = 0x2000
)

func newEnvironment(t *testing.T) (*CPU, *RAM) {
	t.Helper()

	memory := NewRAM(0, 1024*64)
	bus := NewBus(memory)
	memory.Write(Long, 0, testStack)
	memory.Write(Long, 4, testStart)

	processor, err := NewCPU(bus)
	if err != nil {
		t.Fatalf("Failed to create CPU: %v", err)
	}
	if err := processor.Reset(); err != nil {
		t.Fatalf("Failed to reset CPU: %v", err)
	}
	return processor, memory
}

func assemble(t *testing.T, source string) []byte {
	t.Helper()

	code, err := asm.AssembleString(source)
	if err != nil {
		t.Fatalf("Assembler failed: %v", err)
	}
	return code
}

func loadBytes(t *testing.T, ram *RAM, address uint32, code []byte) {
	t.Helper()
	for i := range code {
		if err := ram.Write(Byte, address+uint32(i), uint32(code[i])); err != nil {
			t.Fatalf("failed to write byte to %04x: %v", address+uint32(i), err)
		}
	}
}

func loadWords(t *testing.T, ram *RAM, address uint32, words ...uint16) {
	t.Helper()
	for i, w := range words {
		if err := ram.Write(Word, address+uint32(i*2), uint32(w)); err != nil {
			t.Fatalf("failed to write word to %04x: %v", address+uint32(i*2), err)
		}
	}
}

func step(t *testing.T, cpu *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		pc := cpu.regs.PC
		if err := cpu.Step(); err != nil {
			t.Fatalf("step %d failed at PC %04x: %v", i, pc, err)
		}
	}
}

func expectBusError(t *testing.T, err error) {
	t.Helper()
	var be BusError
	if err == nil || !errors.As(err, &be) {
		t.Fatalf("expected BusError, got %v", err)
	}
}

func expectAddressError(t *testing.T, err error) {
	t.Helper()
	var ae AddressError
	if err == nil || !errors.As(err, &ae) {
		t.Fatalf("expected AddressError, got %v", err)
	}
}
