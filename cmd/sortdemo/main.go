package main

import (
	"fmt"
	"log"

	asm "github.com/jenska/m68kasm"
	m68k "github.com/megaemu/m68k"
)

const (
	stackPointer = 0x8000
	startAddress = 0x2000
	dataAddress  = 0x4000
)

// Bubble sort over ten longwords at dataAddress, ending in a tight halt
// loop the driver can detect.
const program = `
	LEA $4000,A0
	MOVEQ #9,D7
pass:
	LEA $4000,A1
	MOVEQ #8,D6
	MOVEQ #0,D5
step:
	MOVE.L (A1),D0
	MOVE.L 4(A1),D1
	CMP.L D0,D1
	BGE noswap
	MOVE.L D1,(A1)
	MOVE.L D0,4(A1)
	MOVEQ #1,D5
noswap:
	ADDQ.L #4,A1
	SUBQ.W #1,D6
	BNE step
	TST.W D5
	BEQ halt
	SUBQ.W #1,D7
	BNE pass
halt:
	BRA halt
`

func main() {
	code, err := asm.AssembleString(program)
	if err != nil {
		log.Fatalf("assembly failed: %v", err)
	}

	ram := m68k.NewRAM(0, 0x10000)
	bus := m68k.NewBus(ram)

	mustWrite(ram, m68k.Long, 0, stackPointer)
	mustWrite(ram, m68k.Long, 4, startAddress)
	for i, b := range code {
		mustWrite(ram, m68k.Byte, startAddress+uint32(i), uint32(b))
	}

	values := []int32{170, -3, 99, 0, 42, -77, 8, 1000, -1, 5}
	for i, v := range values {
		mustWrite(ram, m68k.Long, dataAddress+uint32(i*4), uint32(v))
	}

	cpu, err := m68k.NewCPU(bus)
	if err != nil {
		log.Fatalf("cpu: %v", err)
	}
	if err := cpu.Reset(); err != nil {
		log.Fatalf("reset: %v", err)
	}

	// Run in fixed slices the way a machine driver would interleave the
	// core with its peripherals, until the halt loop pins the PC.
	var lastPC uint32
	for slice := 0; slice < 10000; slice++ {
		lastPC = cpu.Registers().PC
		if _, err := cpu.RunCycles(512); err != nil {
			log.Fatalf("execution failed at PC %06x: %v", lastPC, err)
		}
		if cpu.Registers().PC == lastPC {
			break
		}
	}

	fmt.Printf("sorted longwords at $%04x:\n", dataAddress)
	for i := range values {
		v, err := ram.Read(m68k.Long, dataAddress+uint32(i*4))
		if err != nil {
			log.Fatalf("readback: %v", err)
		}
		fmt.Printf("  [%d] = %d\n", i, int32(v))
	}

	stats := cpu.Timing().Stats()
	fmt.Printf("instructions: %d\n", stats.Instructions)
	fmt.Printf("cycles: %d total (%d instruction, %d memory, %d wait)\n",
		cpu.Timing().Cycles(), stats.InstructionCycles, stats.MemoryCycles, stats.WaitCycles)
	excStats := cpu.Exceptions().Stats()
	fmt.Printf("exceptions: %d dispatches, %d cycles\n", excStats.Count, excStats.Cycles)
}

func mustWrite(ram *m68k.RAM, size m68k.Size, address, value uint32) {
	if err := ram.Write(size, address, value); err != nil {
		log.Fatalf("write %06x: %v", address, err)
	}
}
