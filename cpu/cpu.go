package cpu

import "fmt"

// CPU holds the 6502 register file. Memory is never embedded here; every
// access goes through the Bus passed to Step, so the address space's
// side-effecting I/O page stays authoritative.
type CPU struct {
	PC    uint16
	SP    uint8
	A, X, Y uint8
	Flags Flags
}

// NewCPU returns a CPU with SP at the top of the stack page and all other
// registers zeroed. Callers typically set PC afterward, either directly or
// via a loader's reset vector.
func NewCPU() *CPU {
	return &CPU{SP: 0xff}
}

// NextInstr decodes the instruction at PC without mutating CPU state.
func (c *CPU) NextInstr(bus Bus) (Mnemonic, Mode, Operand, error) {
	m, mode, err := Decode(bus.Read(c.PC))
	if err != nil {
		return 0, 0, Operand{}, err
	}
	arg := NewOperand(c, bus, mode)
	return m, mode, arg, nil
}

// Step decodes and executes one instruction, advancing PC unless the
// instruction itself wrote to PC (branches, JMP, JSR, RTS, RTI).
func (c *CPU) Step(bus Bus) error {
	m, mode, arg, err := c.NextInstr(bus)
	if err != nil {
		return err
	}

	pcSet := false
	switch m {
	case BRK:
		return fmt.Errorf("brk at $%04x", c.PC)
	case NOP:
		// no effect

	case TAX:
		c.X = c.Flags.UpdateNZ(c.A)
	case TXA:
		c.A = c.Flags.UpdateNZ(c.X)
	case TAY:
		c.Y = c.Flags.UpdateNZ(c.A)
	case TYA:
		c.A = c.Flags.UpdateNZ(c.Y)
	case TXS:
		c.SP = c.X
	case TSX:
		c.X = c.Flags.UpdateNZ(c.SP)

	case PHA:
		c.push(bus, c.A)
	case PLA:
		c.A = c.Flags.UpdateNZ(c.pop(bus))
	case PHP:
		bits := c.Flags.Bits() | uint8(FlagB) | uint8(FlagR)
		c.push(bus, bits)
	case PLP:
		c.Flags.SetBits(c.pop(bus))

	case LDA:
		c.A = c.Flags.UpdateNZ(arg.Get(c, bus))
	case LDX:
		c.X = c.Flags.UpdateNZ(arg.Get(c, bus))
	case LDY:
		c.Y = c.Flags.UpdateNZ(arg.Get(c, bus))
	case STA:
		arg.Set(c, bus, c.A)
	case STX:
		arg.Set(c, bus, c.X)
	case STY:
		arg.Set(c, bus, c.Y)

	case INX:
		c.X = c.Flags.UpdateNZ(c.X + 1)
	case DEX:
		c.X = c.Flags.UpdateNZ(c.X - 1)
	case INY:
		c.Y = c.Flags.UpdateNZ(c.Y + 1)
	case DEY:
		c.Y = c.Flags.UpdateNZ(c.Y - 1)
	case INC:
		v := c.Flags.UpdateNZ(arg.Get(c, bus) + 1)
		arg.Set(c, bus, v)
	case DEC:
		v := c.Flags.UpdateNZ(arg.Get(c, bus) - 1)
		arg.Set(c, bus, v)

	case CLC:
		c.Flags.Clear(FlagC)
	case SEC:
		c.Flags.Set(FlagC)
	case CLI:
		c.Flags.Clear(FlagI)
	case SEI:
		c.Flags.Set(FlagI)
	case CLV:
		c.Flags.Clear(FlagV)
	case CLD:
		c.Flags.Clear(FlagD)
	case SED:
		c.Flags.Set(FlagD)

	case AND:
		c.A = c.Flags.UpdateNZ(c.A & arg.Get(c, bus))
	case ORA:
		c.A = c.Flags.UpdateNZ(c.A | arg.Get(c, bus))
	case EOR:
		c.A = c.Flags.UpdateNZ(c.A ^ arg.Get(c, bus))

	case ADC:
		c.adc(bus, arg.Get(c, bus))
	case SBC:
		c.adc(bus, ^arg.Get(c, bus))
	case CMP:
		c.cmp(c.A, arg.Get(c, bus))
	case CPX:
		c.cmp(c.X, arg.Get(c, bus))
	case CPY:
		c.cmp(c.Y, arg.Get(c, bus))

	case ASL:
		c.Flags.Clear(FlagC)
		v := c.rol(arg.Get(c, bus))
		arg.Set(c, bus, v)
	case LSR:
		c.Flags.Clear(FlagC)
		v := c.ror(arg.Get(c, bus))
		arg.Set(c, bus, v)
	case ROL:
		v := c.rol(arg.Get(c, bus))
		arg.Set(c, bus, v)
	case ROR:
		v := c.ror(arg.Get(c, bus))
		arg.Set(c, bus, v)

	case BIT:
		v := arg.Get(c, bus)
		c.Flags.Assign(FlagN, v&0x80 != 0)
		c.Flags.Assign(FlagV, v&0x40 != 0)
		c.Flags.Assign(FlagZ, v&c.A == 0)

	case BPL, BMI, BVC, BVS, BCC, BCS, BNE, BEQ:
		if WouldBranch(m, c.Flags) {
			c.PC = arg.Addr()
			pcSet = true
		}

	case JMP:
		c.PC = arg.Addr()
		pcSet = true
	case JSR:
		returnAddrMinusOne := c.PC + 2
		c.push16(bus, returnAddrMinusOne)
		c.PC = arg.Addr()
		pcSet = true
	case RTS:
		c.PC = c.pop16(bus) + 1
		pcSet = true
	case RTI:
		c.Flags.SetBits(c.pop(bus))
		c.PC = c.pop16(bus)
		pcSet = true

	default:
		return fmt.Errorf("unhandled mnemonic: %v", m)
	}

	if !pcSet {
		c.PC += mode.InstrLen()
	}
	return nil
}

func (c *CPU) adc(bus Bus, operand uint8) {
	ret := Add(c.A, operand, c.Flags.IsSet(FlagC))
	c.A = c.Flags.UpdateNZ(ret.Sum)
	c.Flags.Assign(FlagC, ret.Carry)
	c.Flags.Assign(FlagV, ret.Overflow)
}

func (c *CPU) cmp(reg, operand uint8) {
	ret := Add(reg, ^operand, true)
	c.Flags.UpdateNZ(ret.Sum)
	c.Flags.Assign(FlagC, ret.Carry)
}

func (c *CPU) rol(arg uint8) uint8 {
	out, carry := ShlWithCarry(arg)
	if c.Flags.IsSet(FlagC) {
		out |= 1
	}
	c.Flags.UpdateNZ(out)
	c.Flags.Assign(FlagC, carry)
	return out
}

func (c *CPU) ror(arg uint8) uint8 {
	out, carry := ShrWithCarry(arg)
	if c.Flags.IsSet(FlagC) {
		out |= 0x80
	}
	c.Flags.UpdateNZ(out)
	c.Flags.Assign(FlagC, carry)
	return out
}

// WouldBranch reports whether the named branch mnemonic would be taken
// given the current flags.
func WouldBranch(branch Mnemonic, flags Flags) bool {
	var flag Flag
	var when bool
	switch branch {
	case BPL:
		flag, when = FlagN, false
	case BMI:
		flag, when = FlagN, true
	case BVC:
		flag, when = FlagV, false
	case BVS:
		flag, when = FlagV, true
	case BCC:
		flag, when = FlagC, false
	case BCS:
		flag, when = FlagC, true
	case BNE:
		flag, when = FlagZ, false
	case BEQ:
		flag, when = FlagZ, true
	default:
		panic(fmt.Sprintf("not a branch: %v", branch))
	}
	return flags.IsSet(flag) == when
}

// WouldHalt reports whether the next decoded instruction is a JMP absolute
// to the current PC, or a taken branch with a -2 displacement: both are an
// infinite loop in place, used by the emulator façade to detect a runaway
// (or gracefully halting) program. It never mutates CPU state.
func (c *CPU) WouldHalt(bus Bus) bool {
	m, mode, arg, err := c.NextInstr(bus)
	if err != nil {
		return false
	}
	absJmp := m == JMP && mode == Absolute
	activeBranch := mode == Relative && WouldBranch(m, c.Flags)
	return (absJmp || activeBranch) && arg.Addr() == c.PC
}

// Stack operations. The stack always lives at $0100-$01FF; SP wraps via
// ordinary uint8 arithmetic, so push after SP==0x00 wraps to 0xFF.
func (c *CPU) push(bus Bus, value uint8) {
	bus.Write(0x0100+uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pop(bus Bus) uint8 {
	c.SP++
	return bus.Read(0x0100 + uint16(c.SP))
}

// push16 pushes the high byte first, so the stack holds the word in
// little-endian order when read back bottom-up.
func (c *CPU) push16(bus Bus, word uint16) {
	c.push(bus, uint8(word>>8))
	c.push(bus, uint8(word))
}

func (c *CPU) pop16(bus Bus) uint16 {
	lo := c.pop(bus)
	hi := c.pop(bus)
	return uint16(lo) | uint16(hi)<<8
}

// DebugString renders the register file the way the CpuInfo debugger
// command presents it.
func (c *CPU) DebugString() string {
	return fmt.Sprintf(
		"pc: $%04x\nsp: $%02x\nflags: %08b\n       NV-BDIZC\na: $%02x\nx: $%02x\ny: $%02x",
		c.PC, c.SP, c.Flags.Bits(), c.A, c.X, c.Y,
	)
}
