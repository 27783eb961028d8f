// Package emulator owns the CPU and address space and drives them on
// behalf of the frontend: batched instruction stepping, halt/breakpoint
// state, and debugger command execution. All entry points serialise on one
// lock, so the CPU driver, frame driver, and debugger may call in from
// independent goroutines.
package emulator

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/khollbach/apple2go/cpu"
	"github.com/khollbach/apple2go/display"
	"github.com/khollbach/apple2go/memory"
)

// BatchSize is the instruction budget of one driver batch. At a ~3ms
// driver cadence this throttles the emulated CPU to roughly 300k
// instructions per second, approximating a 1 MHz 6502.
const BatchSize = 1000

// Emulator is the façade over the CPU and address space.
type Emulator struct {
	mu  sync.Mutex
	cpu *cpu.CPU
	mem *memory.AddressSpace

	halted               bool
	instructionsExecuted uint64
	breakpoints          map[uint16]bool

	// finish mode: run until the current subroutine returns.
	finishing   bool
	finishDepth int

	out io.Writer
}

// New returns an emulator executing from startAddr. Diagnostics go to
// stdout unless redirected with SetOutput.
func New(mem *memory.AddressSpace, startAddr uint16) *Emulator {
	c := cpu.NewCPU()
	c.PC = startAddr
	return &Emulator{
		cpu:         c,
		mem:         mem,
		breakpoints: make(map[uint16]bool),
		out:         os.Stdout,
	}
}

// SetOutput redirects debugger and diagnostic output.
func (e *Emulator) SetOutput(w io.Writer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.out = w
}

// Reset stages startAddr in the SOFTEV warm-start vector and points the
// CPU at the ROM RESET routine, which transfers control there after
// initialising machine state.
func (e *Emulator) Reset(startAddr uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cpu.PC = e.mem.SetSoftev(startAddr)
}

// AddBreakpoint pre-populates a breakpoint, without the toggle semantics
// of the debugger command.
func (e *Emulator) AddBreakpoint(addr uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.breakpoints[addr] = true
}

// Halted reports whether the emulator has stopped stepping.
func (e *Emulator) Halted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.halted
}

// InstructionsExecuted returns the running instruction count.
func (e *Emulator) InstructionsExecuted() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.instructionsExecuted
}

// CPUState returns a snapshot of the register file.
func (e *Emulator) CPUState() cpu.CPU {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.cpu
}

// ReadByte reads one byte through the address space. Like any bus access,
// reading the I/O page has the side effects the CPU would see.
func (e *Emulator) ReadByte(addr uint16) uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mem.Read(addr)
}

// PeekByte reads one byte without I/O side effects, for monitor views.
func (e *Emulator) PeekByte(addr uint16) uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mem.Peek(addr)
}

// Breakpoints returns a copy of the current breakpoint set.
func (e *Emulator) Breakpoints() map[uint16]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[uint16]bool, len(e.breakpoints))
	for addr := range e.breakpoints {
		out[addr] = true
	}
	return out
}

// Sim1000Instrs runs up to one batch of instructions, stopping early if a
// breakpoint check fires. Called from the CPU driver at its ~3ms cadence.
func (e *Emulator) Sim1000Instrs() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := 0; i < BatchSize && !e.halted; i++ {
		if e.checkBreakpoints() {
			e.halted = true
			fmt.Fprintln(e.out, e.dbgNextInstr())
			return
		}
		e.stepLocked()
	}
}

// checkBreakpoints decides whether to stop before executing the next
// instruction: BRK, an in-place loop, a user breakpoint, or the return
// point of a finish command. As a side effect it tracks the JSR/RTS depth
// while finish mode is active.
func (e *Emulator) checkBreakpoints() bool {
	m, _, err := cpu.Decode(e.mem.Read(e.cpu.PC))
	if err != nil {
		return true
	}
	if m == cpu.BRK {
		return true
	}
	if e.cpu.WouldHalt(e.mem) {
		return true
	}
	if e.breakpoints[e.cpu.PC] {
		return true
	}

	if e.finishing {
		switch m {
		case cpu.JSR:
			e.finishDepth++
		case cpu.RTS:
			if e.finishDepth == 0 {
				e.finishing = false
				return true
			}
			e.finishDepth--
		}
	}
	return false
}

// stepLocked executes one instruction; a CPU fault (invalid opcode,
// executed BRK, bad pointer arithmetic) halts the emulator with a
// diagnostic instead of propagating.
func (e *Emulator) stepLocked() {
	if err := e.cpu.Step(e.mem); err != nil {
		e.halted = true
		fmt.Fprintf(e.out, "cpu fault: %v\n", err)
		return
	}
	e.instructionsExecuted++
}

// DrawScreen derives a fresh frame from current RAM and switch state.
func (e *Emulator) DrawScreen() *display.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mem.DrawScreen()
}

// KeyDown forwards a key-press to the keyboard latch.
func (e *Emulator) KeyDown(ascii uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mem.KeyDown(ascii)
}

// AllKeysUp forwards an all-keys-released notification.
func (e *Emulator) AllKeysUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mem.AllKeysUp()
}

// dbgNextInstr renders a one-line disassembly of the next instruction:
// address, raw bytes, mnemonic, mode, and resolved operand.
func (e *Emulator) dbgNextInstr() string {
	m, mode, arg, err := e.cpu.NextInstr(e.mem)
	if err != nil {
		return err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%04x:", e.cpu.PC)
	n := int(mode.InstrLen())
	for i := 0; i < 3; i++ {
		if i < n {
			fmt.Fprintf(&sb, " %02x", e.mem.Read(e.cpu.PC+uint16(i)))
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteString(strings.Repeat(" ", 5))
	fmt.Fprintf(&sb, "%v  %-10v  %v", m, mode, arg)
	return sb.String()
}
