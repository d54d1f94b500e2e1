package mips

// CPU is one emulated core: 32 general registers, the HI/LO multiply/
// divide registers, a program counter, a pending delay-slot target, and
// an attached CP0. A core exclusively owns all of these; Memory is only
// borrowed for the duration of one Step call. Memory does no locking, so
// cores sharing one Memory must not Step concurrently.
type CPU struct {
	Reg [32]uint32
	PC  uint32
	HI  uint32
	LO  uint32

	// AfterDelay is the single pending branch/jump target. When non-nil
	// at the start of Step, the instruction about to execute occupies
	// that branch's delay slot, and PC becomes *AfterDelay once this
	// step completes instead of PC+4.
	AfterDelay *uint32

	CP0 *COP0

	running bool
}

// NewCPU returns a core with zeroed registers, PC 0, and a fresh CP0.
func NewCPU() *CPU {
	return &CPU{CP0: NewCOP0()}
}

// GetReg reads a general-purpose register by index.
func (c *CPU) GetReg(i uint8) uint32 { return c.Reg[i] }

// SetReg writes a general-purpose register by index. Writes to $zero are
// discarded, matching real hardware (see DESIGN.md Open Question
// Decisions).
func (c *CPU) SetReg(i uint8, v uint32) {
	if i == 0 {
		return
	}
	c.Reg[i] = v
}

// raise routes an architectural exception through CP0 and redirects PC
// to the configured handler.
func (c *CPU) raise(code uint8, inDelaySlot bool) {
	c.PC = c.CP0.RaiseException(code, c.PC, inDelaySlot)
}

// Step fetches, decodes, and executes exactly one instruction, then
// advances PC per the delay-slot protocol in spec §4.2 (see DESIGN.md
// Open Question Decisions for the exact pending-target arithmetic and
// its worked derivation). It reports whether this instruction raised an
// architectural exception, so a host-level syscall handler knows when to
// inspect CP0.Reg(13) (Cause) and service the call.
func (c *CPU) Step(mem *Memory) (exception bool) {
	pending := c.AfterDelay
	c.AfterDelay = nil
	inDelaySlot := pending != nil

	word, _ := mem.GetWord(c.PC)
	Decode(word).Execute(c, mem, inDelaySlot)

	if c.CP0.took() {
		// Exception redirected PC already; the pending target survives
		// for whenever execution returns to this flow.
		c.AfterDelay = pending
		return true
	}

	if pending != nil {
		c.PC = *pending
	} else {
		c.PC += 4
	}
	return false
}

// Run steps the core until Stop is called or CP0.Halt becomes true. It
// is meant to be invoked from its own goroutine by the host, which stops
// it from a signal handler or after a syscall sets Halt.
func (c *CPU) Run(mem *Memory) {
	if c.running {
		return
	}
	c.running = true
	for c.running && !c.CP0.Halt {
		c.Step(mem)
	}
	c.running = false
}

// Stop requests that a concurrently running Run loop exit at its next
// opportunity.
func (c *CPU) Stop() {
	c.running = false
}
