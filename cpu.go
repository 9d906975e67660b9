package m68k

import (
	"errors"
	"fmt"
)

// Only 24 address lines leave the chip.
const addressMask = 0x00ffffff

var (
	// ErrBreakpoint stops a RunCycles slice when the program counter hits a
	// registered breakpoint.
	ErrBreakpoint = errors.New("m68k: breakpoint")

	// ErrHalted reports a double fault: an exception raised while stacking a
	// previous exception frame. Only Reset recovers a halted core.
	ErrHalted = errors.New("m68k: halted by double fault")
)

// exceptionError routes an exception raised inside the executor (privilege
// violations, traps, zero divides) to the dispatcher in Step.
type exceptionError Vector

func (e exceptionError) Error() string {
	return fmt.Sprintf("m68k: exception vector %d", uint8(e))
}

// TraceFunc observes each instruction before it executes.
type TraceFunc func(pc uint32, inst Instruction, regs *Registers)

// CPU is a 68000 core: registers, a decoder table, the cycle-accounting
// timing model and the exception controller, attached to an address bus.
// It is not safe for concurrent use.
type CPU struct {
	regs   Registers
	bus    AddressBus
	dec    *Decoder
	timing Timing
	exc    *ExceptionController

	stopped bool
	halted  bool

	// streamEnd marks where the instruction stream stands after the last
	// popPC of the current Step; a final PC anywhere else means control
	// flow changed and the prefetch queue was thrown away.
	streamEnd uint32

	tracer      TraceFunc
	breakpoints map[uint32]struct{}
}

// NewCPU builds a core on the given bus. The core comes up halted-equivalent:
// call Reset to load the initial stack pointer and program counter from the
// vector table before stepping.
func NewCPU(bus AddressBus) (*CPU, error) {
	if bus == nil {
		return nil, errors.New("m68k: nil address bus")
	}
	cpu := &CPU{
		bus: bus,
		dec: NewDecoder(),
		exc: NewExceptionController(),
	}

	if b, ok := bus.(*Bus); ok {
		previous := b.waitHook
		b.SetWaitHook(func(states uint32) {
			if previous != nil {
				previous(states)
			}
			cpu.timing.AddWaitCycles(states)
		})
	}
	return cpu, nil
}

// Timing exposes the cycle model for drivers and co-processor glue.
func (cpu *CPU) Timing() *Timing { return &cpu.timing }

// Exceptions exposes the exception controller for handler and timing
// configuration.
func (cpu *CPU) Exceptions() *ExceptionController { return cpu.exc }

// Registers returns the live register file. Mutations take effect on the
// next Step; prefer SetRegister for the index-based debug interface.
func (cpu *CPU) Registers() *Registers { return &cpu.regs }

// Halted reports whether a double fault stopped the core.
func (cpu *CPU) Halted() bool { return cpu.halted }

// Stopped reports whether a STOP instruction is holding the core until an
// interrupt arrives.
func (cpu *CPU) Stopped() bool { return cpu.stopped }

// SetTracer installs a per-instruction observer, or removes it when nil.
func (cpu *CPU) SetTracer(fn TraceFunc) { cpu.tracer = fn }

// AddBreakpoint makes RunCycles return ErrBreakpoint before executing the
// instruction at address.
func (cpu *CPU) AddBreakpoint(address uint32) {
	if cpu.breakpoints == nil {
		cpu.breakpoints = make(map[uint32]struct{})
	}
	cpu.breakpoints[address&addressMask] = struct{}{}
}

func (cpu *CPU) RemoveBreakpoint(address uint32) {
	delete(cpu.breakpoints, address&addressMask)
}

// read performs a data read through the bus, charging the region-dependent
// memory cycles for each 16-bit access.
func (cpu *CPU) read(size Size, address uint32) (uint32, error) {
	address &= addressMask
	value, err := cpu.bus.Read(size, address)
	if err != nil {
		return 0, err
	}
	cpu.chargeMemory(size, address, false)
	return value, nil
}

func (cpu *CPU) write(size Size, address uint32, value uint32) error {
	address &= addressMask
	if err := cpu.bus.Write(size, address, value); err != nil {
		return err
	}
	cpu.chargeMemory(size, address, true)
	return nil
}

func (cpu *CPU) chargeMemory(size Size, address uint32, isWrite bool) {
	cpu.timing.AddMemoryCycles(address, isWrite)
	if size == Long {
		cpu.timing.AddMemoryCycles(address+2, isWrite)
	}
}

// popPC reads from the instruction stream and advances the program counter.
// Byte reads fetch a full extension word and keep the low half.
func (cpu *CPU) popPC(size Size) (uint32, error) {
	readSize := size
	if size == Byte {
		readSize = Word
	}
	value, err := cpu.read(readSize, cpu.regs.PC)
	if err != nil {
		return 0, err
	}
	cpu.regs.PC += uint32(readSize)
	cpu.streamEnd = cpu.regs.PC
	return value & size.mask(), nil
}

func (cpu *CPU) push(size Size, value uint32) error {
	cpu.regs.A[7] -= uint32(size)
	return cpu.write(size, cpu.regs.A[7], value)
}

func (cpu *CPU) pop(size Size) (uint32, error) {
	value, err := cpu.read(size, cpu.regs.A[7])
	if err != nil {
		return 0, err
	}
	cpu.regs.A[7] += uint32(size)
	return value, nil
}

// setSR installs a full status register, swapping the active stack pointer
// when the supervisor bit changes.
func (cpu *CPU) setSR(value Status) {
	value &= srCCR | srInterruptMask | srSupervisor | srTrace
	if value.Supervisor() != cpu.regs.SR.Supervisor() {
		if cpu.regs.SR.Supervisor() {
			cpu.regs.SSP = cpu.regs.A[7]
			cpu.regs.A[7] = cpu.regs.USP
		} else {
			cpu.regs.USP = cpu.regs.A[7]
			cpu.regs.A[7] = cpu.regs.SSP
		}
	}
	cpu.regs.SR = value
}

func (cpu *CPU) setCCR(value uint32) {
	cpu.regs.SR = (cpu.regs.SR &^ srCCR) | (Status(value) & srCCR)
}

// Reset performs the processor-side reset sequence: supervisor mode with the
// interrupt mask at 7, then the initial SSP and PC load from vectors 0 and 1.
// Attached devices are untouched; the RESET instruction and the platform
// driver own device resets, so a preloaded vector table survives.
func (cpu *CPU) Reset() error {
	cpu.stopped = false
	cpu.halted = false

	cpu.regs = Registers{SR: srSupervisor | srInterruptMask}

	base := cpu.exc.VectorBase()
	ssp, err := cpu.read(Long, base)
	if err != nil {
		return err
	}
	pc, err := cpu.read(Long, base+4)
	if err != nil {
		return err
	}
	cpu.regs.A[7] = ssp
	cpu.regs.SSP = ssp
	cpu.regs.PC = pc
	cpu.timing.flushPrefetch()

	cpu.timing.AddCycles(cpu.exc.Timing(VecReset).Total())
	return nil
}

// SetIRQ drives the interrupt priority lines with an autovectored request.
// Level 0 releases all pending request lines.
func (cpu *CPU) SetIRQ(level uint8) error {
	if level == 0 {
		cpu.exc.ClearRequests()
		return nil
	}
	if level > 7 {
		level = 7
	}
	return cpu.exc.Request(level, nil)
}

// RequestInterrupt posts a vectored interrupt, the peripheral supplying its
// own vector number during the acknowledge cycle.
func (cpu *CPU) RequestInterrupt(level uint8, vector Vector) error {
	return cpu.exc.Request(level, &vector)
}

// Step executes one instruction, or dispatches the highest pending
// exception instead when the controller holds one above the current mask.
// Exceptions are consulted before the fetch, so a pending interrupt always
// preempts the next instruction.
func (cpu *CPU) Step() error {
	if cpu.halted {
		return ErrHalted
	}

	if level, vector, ok := cpu.exc.Pending(cpu.regs.SR); ok {
		cpu.stopped = false
		return cpu.dispatch(vector, 0, level)
	}

	if cpu.stopped {
		// Idle until an interrupt arrives, still consuming time so the
		// driver's cycle slices terminate.
		cpu.timing.AddCycles(4)
		return nil
	}

	tracePending := cpu.regs.SR.Trace()
	pc := cpu.regs.PC

	opcode, err := cpu.popPC(Word)
	if err != nil {
		return cpu.fault(err)
	}
	cpu.regs.IR = uint16(opcode)

	inst := cpu.dec.Decode(uint16(opcode))
	if cpu.tracer != nil {
		cpu.tracer(pc, inst, &cpu.regs)
	}

	err = cpu.execute(inst)
	cpu.timing.AddCycles(inst.Cycles)
	cpu.timing.countInstruction()
	if err != nil {
		return cpu.fault(err)
	}

	if cpu.regs.PC == cpu.streamEnd {
		cpu.timing.fillPrefetch()
	} else {
		cpu.timing.flushPrefetch()
	}

	if tracePending && cpu.regs.SR.Trace() {
		return cpu.dispatch(VecTrace, 0, 0)
	}
	return nil
}

// fault converts executor errors into exception dispatches. Errors that are
// not CPU exceptions (a nil-device bus fault would still be a BusError, so
// in practice everything is) propagate unchanged.
func (cpu *CPU) fault(err error) error {
	var addrErr AddressError
	var busErr BusError
	var excErr exceptionError
	switch {
	case errors.As(err, &addrErr):
		return cpu.dispatch(VecAddressError, uint32(addrErr), 0)
	case errors.As(err, &busErr):
		return cpu.dispatch(VecBusError, uint32(busErr), 0)
	case errors.As(err, &excErr):
		return cpu.dispatch(Vector(excErr), 0, 0)
	}
	return err
}

// dispatch runs the four-phase exception sequence: acknowledge, internal
// processing, frame stacking, vector fetch. level is non-zero only for
// interrupts and raises the mask after the old status register is saved.
func (cpu *CPU) dispatch(vector Vector, faultAddress uint32, level uint8) error {
	t := cpu.exc.Timing(vector)
	info := ExceptionInfo{
		Vector:   vector,
		Priority: vector.Priority(),
		Group:    vector.Group(),
		Address:  faultAddress,
		SR:       cpu.regs.SR,
		PC:       cpu.regs.PC,
		Opcode:   cpu.regs.IR,
		Timing:   t,
	}

	cpu.timing.AddCycles(t.Acknowledge)

	sr := (cpu.regs.SR | srSupervisor) &^ srTrace
	if level > 0 {
		sr = sr.withInterruptMask(level)
	}
	cpu.setSR(sr)

	cpu.timing.AddCycles(t.Process)

	if err := cpu.push(Long, info.PC); err != nil {
		cpu.halted = true
		return ErrHalted
	}
	if err := cpu.push(Word, uint32(info.SR)); err != nil {
		cpu.halted = true
		return ErrHalted
	}

	cpu.timing.AddCycles(t.StackPush)

	target, err := cpu.read(Long, cpu.exc.VectorBase()+uint32(vector)*4)
	if err != nil {
		cpu.halted = true
		return ErrHalted
	}
	if target == 0 && vector >= VecSpurious && vector <= VecAutovector7 {
		// An interrupt through a never-initialized table entry takes the
		// uninitialized-interrupt vector instead of jumping to zero.
		target, err = cpu.read(Long, cpu.exc.VectorBase()+uint32(VecUninitialized)*4)
		if err != nil {
			cpu.halted = true
			return ErrHalted
		}
	}
	cpu.regs.PC = target
	cpu.timing.flushPrefetch()

	cpu.timing.AddCycles(t.VectorFetch)

	cpu.exc.recordDispatch(info)
	if h := cpu.exc.handlerFor(vector); h != nil {
		h(info)
	}
	return nil
}

// RunCycles executes instructions until at least budget cycles elapse, a
// synchronization flag demands control back, a breakpoint hits, or an
// unrecoverable fault occurs. It returns the cycles actually consumed; the
// overshoot of the final instruction carries into the running total, so
// back-to-back slices stay cycle accurate in aggregate.
func (cpu *CPU) RunCycles(budget uint64) (uint64, error) {
	start := cpu.timing.Cycles()
	cpu.timing.SetTarget(start + budget)

	for !cpu.timing.ShouldSync() {
		if !cpu.stopped {
			if _, hit := cpu.breakpoints[cpu.regs.PC&addressMask]; hit {
				return cpu.timing.Cycles() - start, ErrBreakpoint
			}
		}
		if err := cpu.Step(); err != nil {
			return cpu.timing.Cycles() - start, err
		}
	}

	cpu.timing.MarkSync()
	return cpu.timing.Cycles() - start, nil
}
