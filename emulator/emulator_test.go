package emulator_test

import (
	"io"
	"strings"
	"testing"

	"github.com/khollbach/apple2go/cpu"
	"github.com/khollbach/apple2go/emulator"
	"github.com/khollbach/apple2go/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEmulator loads program at $0000 and starts execution there, with
// diagnostics discarded.
func newEmulator(t *testing.T, program ...byte) *emulator.Emulator {
	t.Helper()
	mem, err := memory.New(program, 0)
	require.NoError(t, err)
	e := emulator.New(mem, 0)
	e.SetOutput(io.Discard)
	return e
}

// runUntilHalt drives batches until the emulator stops.
func runUntilHalt(t *testing.T, e *emulator.Emulator) {
	t.Helper()
	for i := 0; i < 1000 && !e.Halted(); i++ {
		e.Sim1000Instrs()
	}
	require.True(t, e.Halted(), "emulator never halted")
}

func TestAddOnePlusOne(t *testing.T) {
	// LDA #1; CLC; ADC #1; STA $00; JMP $0007 (halt trap)
	e := newEmulator(t, 0xa9, 0x01, 0x18, 0x69, 0x01, 0x85, 0x00, 0x4c, 0x07, 0x00)
	runUntilHalt(t, e)

	c := e.CPUState()
	assert.Equal(t, uint8(2), e.ReadByte(0x0000))
	assert.Equal(t, uint8(2), c.A)
	assert.False(t, c.Flags.IsSet(cpu.FlagC))
	assert.False(t, c.Flags.IsSet(cpu.FlagZ))
	assert.False(t, c.Flags.IsSet(cpu.FlagN))
}

func TestCountingLoop(t *testing.T) {
	// LDX #0; INX; BNE -3; JMP $0005 (halt trap)
	e := newEmulator(t, 0xa2, 0x00, 0xe8, 0xd0, 0xfd, 0x4c, 0x05, 0x00)
	runUntilHalt(t, e)

	c := e.CPUState()
	assert.Equal(t, uint16(0x0005), c.PC)
	assert.Equal(t, uint8(0), c.X)
	// LDX, then 256 INX/BNE pairs before the loop falls through.
	assert.Equal(t, uint64(513), e.InstructionsExecuted())
}

func TestStackRoundTrip(t *testing.T) {
	// LDA #$AA; PHA; LDA #$55; PLA; JMP $0007
	e := newEmulator(t, 0xa9, 0xaa, 0x48, 0xa9, 0x55, 0x68, 0x4c, 0x07, 0x00)
	runUntilHalt(t, e)

	c := e.CPUState()
	assert.Equal(t, uint8(0xaa), c.A)
	assert.Equal(t, uint8(0xff), c.SP)
}

func TestJSRRTS(t *testing.T) {
	// JSR $0005; JMP $0003 (halt trap); RTS
	e := newEmulator(t, 0x20, 0x05, 0x00, 0x4c, 0x03, 0x00, 0x60)
	runUntilHalt(t, e)

	c := e.CPUState()
	assert.Equal(t, uint16(0x0003), c.PC)
	assert.Equal(t, uint8(0xff), c.SP)
	// JSR pushed (address of its own last byte) little-endian.
	assert.Equal(t, uint8(0x02), e.ReadByte(0x01fe))
	assert.Equal(t, uint8(0x00), e.ReadByte(0x01ff))
}

func TestBRKHalts(t *testing.T) {
	e := newEmulator(t, 0x00)
	e.Sim1000Instrs()
	assert.True(t, e.Halted())
	// BRK is caught before executing; nothing ran.
	assert.Equal(t, uint64(0), e.InstructionsExecuted())
}

func TestInvalidOpcodeHalts(t *testing.T) {
	e := newEmulator(t, 0x02)
	e.Sim1000Instrs()
	assert.True(t, e.Halted())
}

func TestBreakpointStopsBatch(t *testing.T) {
	// NOP; NOP; NOP; JMP $0006
	e := newEmulator(t, 0xea, 0xea, 0xea, 0x4c, 0x06, 0x00)
	e.AddBreakpoint(0x0002)
	e.Sim1000Instrs()

	assert.True(t, e.Halted())
	assert.Equal(t, uint16(0x0002), e.CPUState().PC)
	assert.Equal(t, uint64(2), e.InstructionsExecuted())
}

func TestContinueStepsPastBreakpoint(t *testing.T) {
	// NOP; NOP; NOP; JMP $0003 (halt trap)
	e := newEmulator(t, 0xea, 0xea, 0xea, 0x4c, 0x03, 0x00)
	e.AddBreakpoint(0x0001)
	e.Sim1000Instrs()
	require.True(t, e.Halted())
	require.Equal(t, uint16(0x0001), e.CPUState().PC)

	// Continue executes the breakpointed instruction first, so resuming
	// actually progresses.
	e.Control(emulator.Command{Kind: emulator.Continue})
	assert.False(t, e.Halted())
	assert.Equal(t, uint16(0x0002), e.CPUState().PC)

	// The program then runs to its halt trap without re-breaking.
	runUntilHalt(t, e)
	assert.Equal(t, uint16(0x0003), e.CPUState().PC)
}

func TestStepCommand(t *testing.T) {
	e := newEmulator(t, 0xea, 0xea, 0x4c, 0x04, 0x00)
	e.Control(emulator.Command{Kind: emulator.Halt})
	require.True(t, e.Halted())

	e.Control(emulator.Command{Kind: emulator.Step})
	assert.True(t, e.Halted())
	assert.Equal(t, uint16(0x0001), e.CPUState().PC)
	assert.Equal(t, uint64(1), e.InstructionsExecuted())
}

func TestToggleBreakpoint(t *testing.T) {
	e := newEmulator(t)
	e.Control(emulator.Command{Kind: emulator.ToggleBreakpoint, Addr: 0x1234})
	assert.True(t, e.Breakpoints()[0x1234])
	e.Control(emulator.Command{Kind: emulator.ToggleBreakpoint, Addr: 0x1234})
	assert.False(t, e.Breakpoints()[0x1234])
}

func TestFinishRunsToReturn(t *testing.T) {
	// $0000: JSR $0006
	// $0003: JMP $0003 (halt trap)
	// $0006: NOP      <- breakpoint here
	// $0007: JSR $000c
	// $000a: NOP
	// $000b: RTS      <- finish stops here, not at the nested RTS
	// $000c: RTS
	e := newEmulator(t,
		0x20, 0x06, 0x00,
		0x4c, 0x03, 0x00,
		0xea,
		0x20, 0x0c, 0x00,
		0xea, 0x60,
		0x60,
	)
	e.AddBreakpoint(0x0006)
	e.Sim1000Instrs()
	require.True(t, e.Halted())
	require.Equal(t, uint16(0x0006), e.CPUState().PC)

	// Clear the breakpoint so finish mode can run back out.
	e.Control(emulator.Command{Kind: emulator.ToggleBreakpoint, Addr: 0x0006})
	e.Control(emulator.Command{Kind: emulator.Finish})
	require.False(t, e.Halted())
	e.Sim1000Instrs()

	assert.True(t, e.Halted())
	assert.Equal(t, uint16(0x000b), e.CPUState().PC)
}

func TestFinishIgnoredWhileRunning(t *testing.T) {
	e := newEmulator(t, 0xea, 0x4c, 0x01, 0x00)
	e.Control(emulator.Command{Kind: emulator.Finish})
	assert.False(t, e.Halted())
}

func TestKeyboardForwarding(t *testing.T) {
	e := newEmulator(t)
	e.KeyDown(0x41)
	assert.Equal(t, uint8(0xc1), e.ReadByte(0xc000))
	assert.Equal(t, uint8(0x80), e.ReadByte(0xc010))
	assert.Equal(t, uint8(0x41), e.ReadByte(0xc000))
	e.AllKeysUp()
	assert.Equal(t, uint8(0x00), e.ReadByte(0xc010))
}

func TestResetStagesSoftev(t *testing.T) {
	mem, err := memory.New(nil, 0)
	require.NoError(t, err)
	e := emulator.New(mem, 0)
	e.SetOutput(io.Discard)

	e.Reset(0x6000)
	c := e.CPUState()
	assert.Equal(t, uint16(0xfa62), c.PC)
	assert.Equal(t, uint8(0x00), e.ReadByte(0x03f2))
	assert.Equal(t, uint8(0x60), e.ReadByte(0x03f3))
}

func TestShowByteOutput(t *testing.T) {
	e := newEmulator(t, 0xab)
	var out strings.Builder
	e.SetOutput(&out)
	e.Control(emulator.Command{Kind: emulator.ShowByte, Addr: 0x0000})
	assert.Equal(t, "ram[$0000]: $ab\n", out.String())
}
