// Package memory implements the Apple IIe 16-bit address space: 48 KiB of
// main RAM, the soft-switch/keyboard I/O page, the firmware ROM banks, and
// the optional language-card RAM overlay. It is the single funnel for every
// CPU byte access, so side-effecting I/O-page reads stay authoritative.
package memory

import (
	"fmt"

	"github.com/khollbach/apple2go/internal/romset"
	"github.com/khollbach/apple2go/memory/softswitch"
)

// mainRAMLen is the extent of main RAM: $0000-$BFFF.
const mainRAMLen = 0xc000

// AddressSpace dispatches reads and writes across RAM, I/O, ROM, and
// language-card RAM per the bank-select switches. It implements cpu.Bus.
type AddressSpace struct {
	ram  [mainRAMLen]byte
	io   *io
	roms roms
	lc   languageCard
}

// languageCard is the 16 KiB RAM bank that can overlay $D000-$FFFF, with a
// second 4 KiB bank shadowing $D000-$DFFF.
type languageCard struct {
	ram   [0x3000]byte // $D000-$FFFF
	bank2 [0x1000]byte // alternate $D000-$DFFF
}

// New returns an address space with the firmware ROMs installed and
// program copied into main RAM at loadAddr.
func New(program []byte, loadAddr uint16) (*AddressSpace, error) {
	a := &AddressSpace{
		io:   newIO(),
		roms: newRoms(),
	}
	if err := a.LoadProgram(program, loadAddr); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadProgram copies program into main RAM at loadAddr. The program must
// fit below the I/O and ROM ranges at $C000.
func (a *AddressSpace) LoadProgram(program []byte, loadAddr uint16) error {
	end := int(loadAddr) + len(program)
	if end > mainRAMLen {
		return fmt.Errorf(
			"program $%04x..$%04x overlaps the I/O and ROM ranges at $c000",
			loadAddr, end,
		)
	}
	copy(a.ram[loadAddr:], program)
	return nil
}

// Read returns the byte at addr. Reads in $C000-$C0FF may have side
// effects on the soft-switch and keyboard state.
func (a *AddressSpace) Read(addr uint16) uint8 {
	switch {
	case addr < mainRAMLen:
		return a.ram[addr]
	case addr < 0xc100:
		return a.io.read(addr)
	case addr < 0xd000:
		return a.roms.read(addr)
	default:
		if a.switches().IsSet(softswitch.Lcram) {
			return a.lc.read(addr, a.switches().IsSet(softswitch.Bank2))
		}
		return a.roms.read(addr)
	}
}

// Write stores value at addr. RAM writes always land; ROM-range writes are
// discarded unless language-card RAM write-enable is active.
func (a *AddressSpace) Write(addr uint16, value uint8) {
	switch {
	case addr < mainRAMLen:
		a.ram[addr] = value
	case addr < 0xc100:
		a.io.write(addr, value)
	case addr < 0xd000:
		// Peripheral ROM; discarded.
	default:
		if !a.switches().IsSet(softswitch.WriteProtect) {
			a.lc.write(addr, a.switches().IsSet(softswitch.Bank2), value)
		}
	}
}

// Peek reads addr without triggering I/O side effects, for debugger and
// monitor views. Soft-switch and keyboard addresses read as 0.
func (a *AddressSpace) Peek(addr uint16) uint8 {
	if 0xc000 <= addr && addr < 0xc100 {
		return 0
	}
	return a.Read(addr)
}

// ReadWord reads the little-endian word at addr, addr+1.
func (a *AddressSpace) ReadWord(addr uint16) uint16 {
	if addr == 0xffff {
		panic("ReadWord: address overflow at 0xffff")
	}
	lo := a.Read(addr)
	hi := a.Read(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (lc *languageCard) read(addr uint16, bank2 bool) uint8 {
	if addr < 0xe000 && bank2 {
		return lc.bank2[addr-0xd000]
	}
	return lc.ram[addr-0xd000]
}

func (lc *languageCard) write(addr uint16, bank2 bool, value uint8) {
	if addr < 0xe000 && bank2 {
		lc.bank2[addr-0xd000] = value
		return
	}
	lc.ram[addr-0xd000] = value
}

// SetSoftev writes the warm-start vector at $03F2-$03F4 (start address
// little-endian, then high byte XOR $A5) so the ROM reset routine will
// transfer control to startAddr, and returns the monitor RESET entry point
// to begin execution from.
func (a *AddressSpace) SetSoftev(startAddr uint16) uint16 {
	a.ram[0x03f2] = uint8(startAddr)
	a.ram[0x03f3] = uint8(startAddr >> 8)
	a.ram[0x03f4] = 0xa5 ^ a.ram[0x03f3]
	return romset.MonitorReset
}

// KeyDown records a key-press in the keyboard latch. ascii must be 7-bit.
func (a *AddressSpace) KeyDown(ascii uint8) {
	a.io.KeyDown(ascii)
}

// AllKeysUp clears the keyboard's any-key-down state.
func (a *AddressSpace) AllKeysUp() {
	a.io.AllKeysUp()
}

func (a *AddressSpace) switches() *softswitch.Bank {
	return a.io.switches
}
