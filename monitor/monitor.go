// Package monitor is a terminal debugger frontend: register, flag, stack,
// memory, and disassembly panes over a running emulator, with breakpoint
// toggling and single-stepping.
package monitor

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/khollbach/apple2go/cpu"
	"github.com/khollbach/apple2go/emulator"
	"github.com/khollbach/apple2go/internal/disasm"
)

// refreshTick redraws the panes while the CPU driver runs in the
// background.
type refreshTick struct{}

func doRefresh() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return refreshTick{}
	})
}

// peekBus adapts the emulator's side-effect-free byte view to cpu.Bus for
// the disassembler. Writes are ignored.
type peekBus struct {
	emu *emulator.Emulator
}

func (b peekBus) Read(addr uint16) uint8         { return b.emu.PeekByte(addr) }
func (b peekBus) Write(addr uint16, value uint8) {}

// Model is the UI state.
type Model struct {
	emu *emulator.Emulator

	width  int
	height int

	locations  []disasm.Location
	scrollAddr uint16 // first disassembled address
	selected   int    // index into locations

	lastState  cpu.CPU   // previous CPU snapshot for change detection
	lastMemory [64]uint8 // visible memory (8 rows * 8 bytes)

	memoryAddress uint16 // start address for the memory pane
	activePane    string // "disasm", "memory"
	gotoInput     textinput.Model
	showingGoto   bool
}

const disasmLines = 20

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	changed   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(32)

	changedStyle = lipgloss.NewStyle().
			Foreground(changed).
			Bold(true)

	stackStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(32)

	disasmStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(44)

	currentLineStyle = lipgloss.NewStyle().
				Background(highlight).
				Foreground(lipgloss.Color("#ffffff"))

	selectedLineStyle = lipgloss.NewStyle().
				Foreground(highlight)

	memoryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(50)

	breakpointStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// New returns a monitor over emu. The CPU driver keeps running in the
// background; the monitor only views and controls it.
func New(emu *emulator.Emulator) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter hex address (e.g. FF00)"
	ti.CharLimit = 4
	ti.Width = 6

	m := &Model{
		emu:           emu,
		memoryAddress: 0,
		activePane:    "disasm",
		gotoInput:     ti,
	}
	m.relocate()
	m.captureMemoryState()
	return m
}

// Run blocks on the monitor UI until the user quits. Line-debugger output
// is discarded while the UI owns the terminal; the panes show the same
// state.
func Run(emu *emulator.Emulator) error {
	emu.SetOutput(io.Discard)
	p := tea.NewProgram(*New(emu))
	_, err := p.Run()
	return err
}

// relocate re-windows the disassembly around the current PC.
func (m *Model) relocate() {
	pc := m.emu.CPUState().PC
	m.scrollAddr = pc
	m.locations = disasm.Window(peekBus{m.emu}, m.scrollAddr, disasmLines)
	m.selected = 0
}

// rewindow re-reads instruction bytes without moving the scroll anchor.
func (m *Model) rewindow() {
	m.locations = disasm.Window(peekBus{m.emu}, m.scrollAddr, disasmLines)
	if m.selected >= len(m.locations) {
		m.selected = len(m.locations) - 1
	}
}

func (m *Model) captureMemoryState() {
	for i := 0; i < 64; i++ {
		m.lastMemory[i] = m.emu.PeekByte(m.memoryAddress + uint16(i))
	}
}

func (m Model) Init() tea.Cmd {
	return doRefresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshTick:
		state := m.emu.CPUState()
		if state.PC != m.lastState.PC {
			m.lastState = state
			m.relocate()
		} else {
			m.rewindow()
		}
		return m, doRefresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.showingGoto {
			switch msg.Type {
			case tea.KeyEnter:
				if addr, err := strconv.ParseUint(m.gotoInput.Value(), 16, 16); err == nil {
					m.memoryAddress = uint16(addr)
					m.captureMemoryState()
				}
				m.showingGoto = false
				return m, nil
			case tea.KeyEsc:
				m.showingGoto = false
				return m, nil
			}
			var cmd tea.Cmd
			m.gotoInput, cmd = m.gotoInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "g":
			m.showingGoto = true
			m.gotoInput.Focus()
			return m, textinput.Blink
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			// Single step.
			if m.emu.Halted() {
				m.lastState = m.emu.CPUState()
				m.captureMemoryState()
				m.emu.Control(emulator.Command{Kind: emulator.Step})
				m.relocate()
			}
		case "b":
			// Toggle breakpoint at the selected address.
			if m.selected < len(m.locations) {
				addr := m.locations[m.selected].PC
				m.emu.Control(emulator.Command{Kind: emulator.ToggleBreakpoint, Addr: addr})
			}
		case "c", "n":
			if m.emu.Halted() {
				m.emu.Control(emulator.Command{Kind: emulator.Continue})
			}
		case "p":
			if m.emu.Halted() {
				m.emu.Control(emulator.Command{Kind: emulator.Continue})
			} else {
				m.emu.Control(emulator.Command{Kind: emulator.Halt})
			}
		case "f":
			m.emu.Control(emulator.Command{Kind: emulator.Finish})

		case "tab":
			if m.activePane == "disasm" {
				m.activePane = "memory"
			} else {
				m.activePane = "disasm"
			}

		case "up":
			if m.activePane == "disasm" {
				if m.selected > 0 {
					m.selected--
				}
			} else if m.memoryAddress >= 8 {
				m.memoryAddress -= 8
				m.captureMemoryState()
			}
		case "down":
			if m.activePane == "disasm" {
				if m.selected < len(m.locations)-1 {
					m.selected++
				}
			} else if m.memoryAddress <= 0xfff8 {
				m.memoryAddress += 8
				m.captureMemoryState()
			}

		case "pgup":
			if m.activePane == "memory" {
				if m.memoryAddress >= 64 {
					m.memoryAddress -= 64
				} else {
					m.memoryAddress = 0
				}
				m.captureMemoryState()
			}
		case "pgdown":
			if m.activePane == "memory" {
				if m.memoryAddress <= 0xffc0 {
					m.memoryAddress += 64
				} else {
					m.memoryAddress = 0xffc0
				}
				m.captureMemoryState()
			}
		}
	}
	return m, nil
}

func (m Model) formatReg8(name string, current, last uint8) string {
	value := fmt.Sprintf("%s: $%02X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m Model) formatReg16(name string, current, last uint16) string {
	value := fmt.Sprintf("%s: $%04X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m Model) formatFlags(state cpu.CPU) string {
	flags := []struct {
		name string
		flag cpu.Flag
	}{
		{"N", cpu.FlagN},
		{"V", cpu.FlagV},
		{"B", cpu.FlagB},
		{"D", cpu.FlagD},
		{"I", cpu.FlagI},
		{"Z", cpu.FlagZ},
		{"C", cpu.FlagC},
	}

	var result strings.Builder
	for _, f := range flags {
		current := state.Flags.IsSet(f.flag)
		last := m.lastState.Flags.IsSet(f.flag)

		if current {
			if current != last {
				result.WriteString(changedStyle.Render(f.name + " "))
			} else {
				result.WriteString(f.name + " ")
			}
		} else {
			result.WriteString("- ")
		}
	}
	return result.String()
}

func (m Model) formatMemory() string {
	var result strings.Builder
	addr := m.memoryAddress

	for row := 0; row < 8; row++ {
		result.WriteString(fmt.Sprintf("$%04X: ", addr))

		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := m.emu.PeekByte(addr + uint16(col))
			lastValue := m.lastMemory[offset]

			if value != lastValue {
				result.WriteString(changedStyle.Render(fmt.Sprintf("%02X ", value)))
			} else {
				result.WriteString(fmt.Sprintf("%02X ", value))
			}
		}

		result.WriteString(" | ")
		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := m.emu.PeekByte(addr + uint16(col))
			lastValue := m.lastMemory[offset]

			ch := "."
			if value >= 32 && value <= 126 {
				ch = string(rune(value))
			}
			if value != lastValue {
				result.WriteString(changedStyle.Render(ch))
			} else {
				result.WriteString(ch)
			}
		}

		result.WriteString("\n")
		addr += 8
	}

	return result.String()
}

func (m Model) disassemble(state cpu.CPU) string {
	var result strings.Builder
	breakpoints := m.emu.Breakpoints()

	for i, l := range m.locations {
		line := l.String()
		switch {
		case breakpoints[l.PC] && l.PC == state.PC:
			line = currentLineStyle.Render("● " + line)
		case breakpoints[l.PC]:
			line = breakpointStyle.Render("● " + line)
		case l.PC == state.PC:
			line = currentLineStyle.Render(line)
		case i == m.selected:
			line = selectedLineStyle.Render(line)
		}

		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}

func (m Model) formatStack(state cpu.CPU) string {
	var result strings.Builder
	for i := uint16(0xff); i > uint16(state.SP); i-- {
		result.WriteString(fmt.Sprintf("$%02X: %02X\n", i, m.emu.PeekByte(0x0100+i)))
	}
	return result.String()
}

func (m Model) View() string {
	state := m.emu.CPUState()

	disasmPane := disasmStyle.Render(fmt.Sprintf(
		"Disassembly\n\n%s",
		m.disassemble(state),
	))

	cpuState := infoStyle.Render(fmt.Sprintf(
		"CPU State\n\n%s    %s    %s\n%s  %s\n\nFlags: %s\n\nInstructions: %d",
		m.formatReg8("A", state.A, m.lastState.A),
		m.formatReg8("X", state.X, m.lastState.X),
		m.formatReg8("Y", state.Y, m.lastState.Y),
		m.formatReg16("PC", state.PC, m.lastState.PC),
		m.formatReg8("SP", state.SP, m.lastState.SP),
		m.formatFlags(state),
		m.emu.InstructionsExecuted(),
	))

	stack := stackStyle.Render(fmt.Sprintf(
		"Stack\n\n%s",
		m.formatStack(state),
	))

	memoryPane := memoryStyle.Render(fmt.Sprintf(
		"Memory (↑↓ to scroll)\n\n%s",
		m.formatMemory(),
	))

	right := lipgloss.JoinVertical(
		lipgloss.Left,
		cpuState,
		stack,
		memoryPane,
	)

	var help string
	if m.emu.Halted() {
		help = titleStyle.Render(
			"s: step • c: continue • f: finish • b: toggle break • " +
				"↑↓: scroll • tab: switch pane • g: goto • q: quit",
		)
	} else {
		help = titleStyle.Render(
			"p: pause • q: quit",
		)
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		disasmPane,
		lipgloss.PlaceHorizontal(3, lipgloss.Left, right),
	)

	if m.showingGoto {
		dialog := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			Width(30).
			Render(
				"Go to address:\n\n" +
					m.gotoInput.View(),
			)

		return lipgloss.JoinVertical(
			lipgloss.Center,
			content,
			help,
			dialog,
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		help,
	)
}
