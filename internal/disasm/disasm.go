// Package disasm renders 6502 machine code back into assembly text for the
// monitor and debugger views.
package disasm

import (
	"fmt"
	"strings"

	"github.com/khollbach/apple2go/cpu"
)

// Location is one decoded instruction site in memory.
type Location struct {
	PC           uint16
	Opcode       uint8
	OperandBytes []byte

	// Mnemonic and Mode are valid only when Known is true; unmapped
	// opcode bytes disassemble as raw data.
	Mnemonic cpu.Mnemonic
	Mode     cpu.Mode
	Known    bool
}

// At decodes the instruction at pc without mutating anything.
func At(bus cpu.Bus, pc uint16) Location {
	opcode := bus.Read(pc)
	l := Location{PC: pc, Opcode: opcode}

	m, mode, err := cpu.Decode(opcode)
	if err != nil {
		return l
	}
	l.Mnemonic, l.Mode, l.Known = m, mode, true

	operandLen := int(mode.InstrLen()) - 1
	if int(pc)+operandLen > 0xffff {
		// Incomplete instruction at the top of memory.
		l.Known = false
		return l
	}
	for i := 1; i <= operandLen; i++ {
		l.OperandBytes = append(l.OperandBytes, bus.Read(pc+uint16(i)))
	}
	return l
}

// Size returns the instruction length in bytes; invalid opcodes take one.
func (l Location) Size() int {
	if !l.Known {
		return 1
	}
	return int(l.Mode.InstrLen())
}

// String renders "$PC: hex-dump  MNEMONIC operand".
func (l Location) String() string {
	if !l.Known {
		return fmt.Sprintf("$%04X: %-8s  db $%02X", l.PC, fmt.Sprintf("%02X", l.Opcode), l.Opcode)
	}

	hex := fmt.Sprintf("%02X", l.Opcode)
	for _, b := range l.OperandBytes {
		hex += fmt.Sprintf(" %02X", b)
	}

	operand := l.formatOperand()
	if operand == "" {
		return fmt.Sprintf("$%04X: %-8s  %v", l.PC, hex, l.Mnemonic)
	}
	return fmt.Sprintf("$%04X: %-8s  %v %s", l.PC, hex, l.Mnemonic, operand)
}

func (l Location) formatOperand() string {
	b := l.OperandBytes
	switch l.Mode {
	case cpu.Implied:
		return ""
	case cpu.Accumulator:
		return "A"
	case cpu.Immediate:
		return fmt.Sprintf("#$%02X", b[0])
	case cpu.Relative:
		// Branch targets are relative to the following instruction.
		target := l.PC + 2 + uint16(int8(b[0]))
		return fmt.Sprintf("$%04X", target)
	case cpu.ZeroPage:
		return fmt.Sprintf("$%02X", b[0])
	case cpu.ZeroPageX:
		return fmt.Sprintf("$%02X,X", b[0])
	case cpu.ZeroPageY:
		return fmt.Sprintf("$%02X,Y", b[0])
	case cpu.Absolute:
		return fmt.Sprintf("$%02X%02X", b[1], b[0])
	case cpu.AbsoluteX:
		return fmt.Sprintf("$%02X%02X,X", b[1], b[0])
	case cpu.AbsoluteY:
		return fmt.Sprintf("$%02X%02X,Y", b[1], b[0])
	case cpu.Indirect:
		return fmt.Sprintf("($%02X%02X)", b[1], b[0])
	case cpu.XIndirect:
		return fmt.Sprintf("($%02X,X)", b[0])
	case cpu.IndirectY:
		return fmt.Sprintf("($%02X),Y", b[0])
	default:
		return "???"
	}
}

// Window decodes count consecutive instructions starting at start.
func Window(bus cpu.Bus, start uint16, count int) []Location {
	var out []Location
	pc := int(start)
	for len(out) < count && pc <= 0xffff {
		l := At(bus, uint16(pc))
		out = append(out, l)
		pc += l.Size()
	}
	return out
}

// Dump renders a range of memory as assembly, one instruction per line.
func Dump(bus cpu.Bus, start uint16, length int) string {
	var out strings.Builder
	pc := int(start)
	end := int(start) + length
	for pc < end && pc <= 0xffff {
		l := At(bus, uint16(pc))
		out.WriteString(l.String())
		out.WriteString("\n")
		pc += l.Size()
	}
	return out.String()
}
