package cpu

import "fmt"

// OperandKind tags which of the four places an operand can live.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandMemory
	OperandLiteral
	OperandAccumulator
)

// Operand is the resolved argument of one instruction: a memory address, an
// immediate literal, the accumulator, or nothing at all (Implied mode).
type Operand struct {
	kind  OperandKind
	addr  uint16
	value uint8
}

func (o Operand) String() string {
	switch o.kind {
	case OperandMemory:
		return fmt.Sprintf("Memory{addr: $%04x}", o.addr)
	case OperandLiteral:
		return fmt.Sprintf("Literal{value: $%02x}", o.value)
	case OperandAccumulator:
		return "Accumulator"
	default:
		return "None"
	}
}

// NewOperand resolves mode against the CPU's current PC/X/Y registers,
// reading 0, 1, or 2 operand bytes from bus immediately following the
// opcode.
//
// AbsoluteX, AbsoluteY, and IndirectY pointer arithmetic is checked and
// panics on u16 overflow, matching the "never silently corrupt state"
// discipline for those modes; Relative wraps within u16, and ZeroPageX,
// ZeroPageY, and XIndirect wrap within the zero page via ordinary uint8
// arithmetic, since that wraparound is the documented 6502 behavior, not a
// bug.
func NewOperand(c *CPU, bus Bus, mode Mode) Operand {
	var arg uint16
	switch mode.InstrLen() - 1 {
	case 0:
		arg = 0
	case 1:
		arg = uint16(bus.Read(c.PC + 1))
	case 2:
		arg = ReadWord(bus, c.PC+1)
	}

	switch mode {
	case Implied:
		return Operand{kind: OperandNone}
	case Accumulator:
		return Operand{kind: OperandAccumulator}
	case Immediate:
		return Operand{kind: OperandLiteral, value: uint8(arg)}

	case Relative:
		// Branch offset is relative to the address of the *next*
		// instruction, not the current one. This arithmetic wraps
		// within u16 rather than panicking on overflow.
		base := c.PC + 2
		offset := int8(uint8(arg))
		return Operand{kind: OperandMemory, addr: uint16(int32(base) + int32(offset))}

	case ZeroPage:
		return Operand{kind: OperandMemory, addr: arg}
	case ZeroPageX:
		return Operand{kind: OperandMemory, addr: uint16(uint8(arg) + c.X)}
	case ZeroPageY:
		return Operand{kind: OperandMemory, addr: uint16(uint8(arg) + c.Y)}

	case Absolute:
		return Operand{kind: OperandMemory, addr: arg}
	case AbsoluteX:
		return Operand{kind: OperandMemory, addr: checkedAdd16(arg, uint16(c.X))}
	case AbsoluteY:
		return Operand{kind: OperandMemory, addr: checkedAdd16(arg, uint16(c.Y))}

	case Indirect:
		return Operand{kind: OperandMemory, addr: ReadWord(bus, arg)}
	case XIndirect:
		return Operand{kind: OperandMemory, addr: ReadWord(bus, uint16(uint8(arg)+c.X))}
	case IndirectY:
		base := ReadWord(bus, arg)
		return Operand{kind: OperandMemory, addr: checkedAdd16(base, uint16(c.Y))}

	default:
		panic(fmt.Sprintf("unhandled addressing mode: %v", mode))
	}
}

// Get returns the operand's value. Valid for Memory, Literal, and
// Accumulator; panics for None.
func (o Operand) Get(c *CPU, bus Bus) uint8 {
	switch o.kind {
	case OperandMemory:
		return bus.Read(o.addr)
	case OperandLiteral:
		return o.value
	case OperandAccumulator:
		return c.A
	default:
		panic("operand is none; cannot get its value")
	}
}

// Set stores value into the operand's location. Valid for Memory and
// Accumulator; panics for Literal and None.
func (o Operand) Set(c *CPU, bus Bus, value uint8) {
	switch o.kind {
	case OperandMemory:
		bus.Write(o.addr, value)
	case OperandAccumulator:
		c.A = value
	case OperandLiteral:
		panic("cannot mutate a literal operand")
	default:
		panic("operand is none; cannot set its value")
	}
}

// Addr returns the resolved memory address. Valid only for Memory operands.
func (o Operand) Addr() uint16 {
	if o.kind != OperandMemory {
		panic(fmt.Sprintf("operand doesn't have a memory address: %v", o))
	}
	return o.addr
}

func checkedAdd16(a, b uint16) uint16 {
	sum := a + b
	if sum < a {
		panic(fmt.Sprintf("address overflow: $%04x + $%04x", a, b))
	}
	return sum
}

