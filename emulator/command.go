package emulator

import (
	"fmt"
	"strings"
)

// CommandKind enumerates the debugger commands.
type CommandKind int

const (
	Halt CommandKind = iota
	Continue
	Step
	Finish
	CpuInfo
	ToggleBreakpoint
	ShowByte
	ShowRange
)

// Command is one parsed debugger command. Addr carries the argument of
// ToggleBreakpoint and ShowByte and the start of ShowRange; End is the
// inclusive end of ShowRange.
type Command struct {
	Kind CommandKind
	Addr uint16
	End  uint16
}

// ParseCommand parses one line of debugger input. Leading and trailing
// whitespace is ignored; an empty line means Step.
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(s)

	switch s {
	case "h", "halt":
		return Command{Kind: Halt}, nil
	case "c", "continue":
		return Command{Kind: Continue}, nil
	case "", "s", "step":
		return Command{Kind: Step}, nil
	case "f", "finish":
		return Command{Kind: Finish}, nil
	case "i", "info":
		return Command{Kind: CpuInfo}, nil
	}

	words := strings.Fields(s)
	if words[0] == "b" || words[0] == "break" {
		if len(words) != 2 {
			return Command{}, fmt.Errorf("expected 1 argument to break")
		}
		addr, err := DecodeU16(words[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: ToggleBreakpoint, Addr: addr}, nil
	}

	if start, end, ok := strings.Cut(s, "."); ok {
		startAddr, err := DecodeU16(start)
		if err != nil {
			return Command{}, err
		}
		endAddr, err := DecodeU16(end)
		if err != nil {
			return Command{}, err
		}
		if startAddr > endAddr {
			return Command{}, fmt.Errorf("range start $%04x after end $%04x", startAddr, endAddr)
		}
		return Command{Kind: ShowRange, Addr: startAddr, End: endAddr}, nil
	}

	if addr, err := DecodeU16(s); err == nil {
		return Command{Kind: ShowByte, Addr: addr}, nil
	}

	return Command{}, fmt.Errorf("invalid command: %q", s)
}

// Control executes one debugger command against the emulator.
func (e *Emulator) Control(cmd Command) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch cmd.Kind {
	case Halt:
		if e.halted {
			fmt.Fprintln(e.out, "already halted")
		} else {
			e.halted = true
			fmt.Fprintln(e.out, e.dbgNextInstr())
		}

	case Continue:
		if !e.halted {
			fmt.Fprintln(e.out, "already running")
			return
		}
		e.halted = false
		// Skip past the current breakpoint, instead of breaking right
		// away and going nowhere.
		if e.breakpoints[e.cpu.PC] {
			e.stepLocked()
		}

	case Step:
		if !e.halted {
			fmt.Fprintln(e.out, "halting")
			e.halted = true
		}
		e.stepLocked()
		fmt.Fprintln(e.out, e.dbgNextInstr())

	case Finish:
		if !e.halted {
			fmt.Fprintln(e.out, "already running; please halt first")
			return
		}
		if e.finishing {
			fmt.Fprintf(e.out, "warning: already trying to finish a function, current depth: %d\n", e.finishDepth)
			fmt.Fprintln(e.out, "overriding...")
		}
		e.halted = false
		e.finishing = true
		e.finishDepth = 0

	case CpuInfo:
		fmt.Fprintln(e.out, e.cpu.DebugString())

	case ToggleBreakpoint:
		if e.breakpoints[cmd.Addr] {
			delete(e.breakpoints, cmd.Addr)
			fmt.Fprintf(e.out, "cleared breakpoint $%04x\n", cmd.Addr)
		} else {
			e.breakpoints[cmd.Addr] = true
			fmt.Fprintf(e.out, "set breakpoint $%04x\n", cmd.Addr)
		}

	case ShowByte:
		fmt.Fprintf(e.out, "ram[$%04x]: $%02x\n", cmd.Addr, e.mem.Read(cmd.Addr))

	case ShowRange:
		e.showRange(cmd.Addr, cmd.End)
	}
}

// showRange dumps memory 16 bytes per row, aligned to a 16-byte boundary,
// with a gap at column 8 and blank lines at page and half-page boundaries.
func (e *Emulator) showRange(start, endInclusive uint16) {
	startRounded := start / 16 * 16

	for addr := uint32(startRounded); addr <= uint32(endInclusive); addr++ {
		a := uint16(addr)
		if a != startRounded {
			switch a % 16 {
			case 0:
				fmt.Fprintln(e.out)
			case 8:
				fmt.Fprint(e.out, "  ")
			default:
				fmt.Fprint(e.out, " ")
			}

			// One blank line at each half-page mark and each page boundary.
			if a%256 == 128 {
				fmt.Fprintln(e.out)
			}
			if a%256 == 0 {
				fmt.Fprintln(e.out)
			}
		}

		if a >= start {
			fmt.Fprintf(e.out, "%02x", e.mem.Read(a))
		} else {
			fmt.Fprint(e.out, "  ")
		}
	}

	fmt.Fprintln(e.out)
}
