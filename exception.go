package m68k

import "fmt"

// Vector is a 68000 exception vector number.
type Vector uint8

const (
	VecReset         Vector = 0
	VecBusError      Vector = 2
	VecAddressError  Vector = 3
	VecIllegal       Vector = 4
	VecZeroDivide    Vector = 5
	VecCHK           Vector = 6
	VecTrapV         Vector = 7
	VecPrivilege     Vector = 8
	VecTrace         Vector = 9
	VecLine1010      Vector = 10
	VecLine1111      Vector = 11
	VecFormatError   Vector = 14
	VecUninitialized Vector = 15
	VecSpurious      Vector = 24
	VecAutovector1   Vector = 25
	VecAutovector7   Vector = 31
	VecTrap0         Vector = 32
	VecTrap15        Vector = 47

	numVectors = 64
)

const autoVectorBase = 24

// Autovector returns the vector fixed by an interrupt priority level (1-7).
func Autovector(level uint8) Vector {
	return Vector(autoVectorBase + (level & 7))
}

// Priority returns the numeric dispatch priority of the vector. Reset
// outranks everything; the bus/address error and illegal-instruction family
// comes next; autovector interrupts rank by their own level; traps order at
// the error-family level.
func (v Vector) Priority() uint8 {
	switch {
	case v == VecReset:
		return 7
	case v >= VecAutovector1 && v <= VecAutovector7:
		return uint8(v - autoVectorBase)
	case v == VecSpurious:
		return 5
	default:
		return 6
	}
}

// Group returns the priority group used when raising the interrupt mask
// during dispatch. Only exceptions beyond group 1 raise the mask to their
// own level.
func (v Vector) Group() uint8 {
	switch {
	case v == VecReset:
		return 7
	case v >= VecAutovector1 && v <= VecAutovector7:
		return uint8(v - autoVectorBase)
	default:
		return 6
	}
}

// maskable reports whether the vector belongs to the autovectored interrupt
// range, the only exception class subject to the interrupt mask.
func (v Vector) maskable() bool {
	return v >= VecAutovector1 && v <= VecAutovector7
}

// ExceptionTiming is the per-phase cycle breakdown of one exception
// dispatch.
type ExceptionTiming struct {
	Acknowledge uint32
	Process     uint32
	StackPush   uint32
	VectorFetch uint32
}

// Total is the full dispatch cost.
func (t ExceptionTiming) Total() uint32 {
	return t.Acknowledge + t.Process + t.StackPush + t.VectorFetch
}

// Default dispatch timings by exception family.
var (
	timingReset     = ExceptionTiming{4, 6, 4, 4}
	timingBusFault  = ExceptionTiming{6, 8, 6, 4}
	timingIllegal   = ExceptionTiming{4, 6, 4, 4}
	timingInterrupt = ExceptionTiming{6, 6, 4, 4}
	timingTrap      = ExceptionTiming{4, 4, 4, 4}
)

func defaultTiming(v Vector) ExceptionTiming {
	switch {
	case v == VecReset:
		return timingReset
	case v == VecBusError || v == VecAddressError:
		return timingBusFault
	case v >= VecSpurious && v <= VecAutovector7:
		return timingInterrupt
	case v >= VecTrap0 && v <= VecTrap15:
		return timingTrap
	default:
		return timingIllegal
	}
}

// ExceptionInfo describes one raised exception. It is created transiently
// for the dispatch and handed to any registered handler; only the aggregate
// statistics outlive it.
type ExceptionInfo struct {
	Vector   Vector
	Priority uint8
	Group    uint8

	// Address is the faulting address for bus and address errors, zero
	// otherwise.
	Address uint32

	// SR and PC are the values saved on the supervisor stack.
	SR Status
	PC uint32

	// Opcode is the instruction register at the time of the fault.
	Opcode uint16

	Timing ExceptionTiming
}

// ExceptionHandler observes a dispatched exception. Handlers run after the
// new program counter has been fetched from the vector table.
type ExceptionHandler func(ExceptionInfo)

// ExceptionStats aggregates dispatch counts and cycle costs.
type ExceptionStats struct {
	Count  uint64
	Cycles uint64
}

type interruptRequest struct {
	vector     Vector
	autovector bool
}

// ExceptionController tracks pending interrupt levels, in-service state,
// per-vector dispatch timing and handler callbacks. The CPU consults it
// before every instruction fetch.
type ExceptionController struct {
	requests [8]*interruptRequest
	maxLevel uint8

	inService  uint8
	vectorBase uint32

	handlers [numVectors]ExceptionHandler
	timing   [numVectors]ExceptionTiming

	stats ExceptionStats
}

func NewExceptionController() *ExceptionController {
	ec := &ExceptionController{}
	for v := 0; v < numVectors; v++ {
		ec.timing[v] = defaultTiming(Vector(v))
	}
	return ec
}

// Request records an interrupt request at the given level. A nil vector
// requests an autovectored interrupt; otherwise the supplied vector is used
// at dispatch. Level 0 is a no-op; levels above 7 are rejected.
func (ec *ExceptionController) Request(level uint8, vector *Vector) error {
	if level > 7 {
		return fmt.Errorf("invalid interrupt level %d", level)
	}
	if level == 0 {
		return nil
	}

	if level > ec.maxLevel {
		ec.maxLevel = level
	}

	if vector == nil {
		ec.requests[level] = &interruptRequest{autovector: true}
		return nil
	}

	ec.requests[level] = &interruptRequest{vector: *vector}
	return nil
}

// Pending returns the highest pending interrupt whose level exceeds the
// mask encoded in sr, consuming the request and marking it in service.
// Masked requests stay recorded and are re-evaluated on every call, so
// lowering the mask releases them. Level 7 is non-maskable.
func (ec *ExceptionController) Pending(sr Status) (uint8, Vector, bool) {
	interruptMask := sr.InterruptMask()
	if ec.maxLevel <= interruptMask && ec.maxLevel < 7 {
		return 0, 0, false
	}

	for level := uint8(7); level > 0; level-- {
		req := ec.requests[level]
		if req == nil || (level <= interruptMask && level < 7) {
			continue
		}

		ec.requests[level] = nil
		ec.recalcMaxLevel()
		ec.inService |= 1 << (level - 1)

		if req.autovector {
			return level, Autovector(level), true
		}
		return level, req.vector, true
	}

	return 0, 0, false
}

// ClearRequests drops every pending request, modeling release of the
// priority lines. In-service state is unaffected.
func (ec *ExceptionController) ClearRequests() {
	ec.requests = [8]*interruptRequest{}
	ec.maxLevel = 0
}

func (ec *ExceptionController) recalcMaxLevel() {
	ec.maxLevel = 0
	for l := uint8(7); l > 0; l-- {
		if ec.requests[l] != nil {
			ec.maxLevel = l
			break
		}
	}
}

// HasPending reports whether any interrupt request is recorded, serviceable
// or not.
func (ec *ExceptionController) HasPending() bool {
	return ec.maxLevel > 0
}

// Acknowledge clears the in-service flag of an interrupt level once the
// platform considers it handled. Returning from the handler alone does not
// clear it.
func (ec *ExceptionController) Acknowledge(level uint8) {
	if level > 0 && level <= 7 {
		ec.inService &^= 1 << (level - 1)
	}
}

// InService reports whether the given interrupt level is being serviced.
func (ec *ExceptionController) InService(level uint8) bool {
	if level == 0 || level > 7 {
		return false
	}
	return ec.inService&(1<<(level-1)) != 0
}

// SetHandler registers a callback for one exception vector. A nil handler
// removes the registration.
func (ec *ExceptionController) SetHandler(v Vector, handler ExceptionHandler) {
	if v < numVectors {
		ec.handlers[v] = handler
	}
}

func (ec *ExceptionController) handlerFor(v Vector) ExceptionHandler {
	if v < numVectors {
		return ec.handlers[v]
	}
	return nil
}

// SetTiming overrides the dispatch timing of one vector so platform glue
// can tune exception costs.
func (ec *ExceptionController) SetTiming(v Vector, timing ExceptionTiming) {
	if v < numVectors {
		ec.timing[v] = timing
	}
}

// Timing returns the dispatch timing of one vector.
func (ec *ExceptionController) Timing(v Vector) ExceptionTiming {
	if v < numVectors {
		return ec.timing[v]
	}
	return ExceptionTiming{}
}

// SetVectorBase relocates the exception vector table. Vector addresses are
// computed as base + number*4. A base of zero is the hardware default;
// pointing it at an unpopulated table is a caller configuration error.
func (ec *ExceptionController) SetVectorBase(base uint32) {
	ec.vectorBase = base
}

// VectorBase returns the current vector table base.
func (ec *ExceptionController) VectorBase() uint32 {
	return ec.vectorBase
}

func (ec *ExceptionController) recordDispatch(info ExceptionInfo) {
	ec.stats.Count++
	ec.stats.Cycles += uint64(info.Timing.Total())
}

// Stats returns the aggregate dispatch statistics.
func (ec *ExceptionController) Stats() ExceptionStats { return ec.stats }

// ResetStats clears the aggregate dispatch statistics.
func (ec *ExceptionController) ResetStats() {
	ec.stats = ExceptionStats{}
}
