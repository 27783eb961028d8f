// Package softswitch implements the $C000-$C0FF soft-switch table: a
// closed set of named boolean modes that Apple IIe memory-mapped I/O
// toggles via address access rather than data value.
//
// See Apple //e Technical Reference Manual, Appendix F, starting at
// page 258 (tables 2-10 and 4-6), the authoritative source for the
// address/operation table below.
package softswitch

import "log"

// Switch is one of the closed enumeration of named soft switches.
type Switch int

const (
	Altchar Switch = iota
	Col80
	Store80
	Page2
	Text
	Mixed
	Hires
	IouEnable
	Dhires
	WriteProtect // write-protect language-card RAM
	Bank2        // select bank 2 for $d000-$e000 in language-card RAM
	Lcram        // enable language-card RAM for reads instead of ROM
	Altzp
)

type operation int

const (
	opClear operation = iota
	opSet
	opQuery
)

type accessKind int

const (
	accessRead accessKind = iota
	accessWrite
	accessReadOrWrite
)

type tableEntry struct {
	lo   uint8
	kind accessKind
	sw   Switch
	op   operation
}

// Table 2-10 (display switches) and table 4-6 (bank select query switches).
var table = []tableEntry{
	{0x0e, accessWrite, Altchar, opClear},
	{0x0f, accessWrite, Altchar, opSet},
	{0x1e, accessRead, Altchar, opQuery},

	{0x0c, accessWrite, Col80, opClear},
	{0x0d, accessWrite, Col80, opSet},
	{0x1f, accessRead, Col80, opQuery},

	{0x00, accessWrite, Store80, opClear},
	{0x01, accessWrite, Store80, opSet},
	{0x18, accessRead, Store80, opQuery},

	{0x54, accessReadOrWrite, Page2, opClear},
	{0x55, accessReadOrWrite, Page2, opSet},
	{0x1c, accessRead, Page2, opQuery},

	{0x50, accessReadOrWrite, Text, opClear},
	{0x51, accessReadOrWrite, Text, opSet},
	{0x1a, accessRead, Text, opQuery},

	{0x52, accessReadOrWrite, Mixed, opClear},
	{0x53, accessReadOrWrite, Mixed, opSet},
	{0x1b, accessRead, Mixed, opQuery},

	{0x56, accessReadOrWrite, Hires, opClear},
	// Table 2-10's appendix version has a typo: $c059 instead of $c057.
	{0x57, accessReadOrWrite, Hires, opSet},
	{0x1d, accessRead, Hires, opQuery},

	{0x7e, accessWrite, IouEnable, opClear},
	{0x7f, accessWrite, IouEnable, opSet},
	{0x7e, accessRead, IouEnable, opQuery},

	{0x5e, accessReadOrWrite, Dhires, opClear},
	{0x5f, accessReadOrWrite, Dhires, opSet},
	{0x7f, accessRead, Dhires, opQuery},

	{0x11, accessRead, Bank2, opQuery},
	{0x12, accessRead, Lcram, opQuery},

	{0x08, accessWrite, Altzp, opClear},
	{0x09, accessWrite, Altzp, opSet},
	{0x16, accessRead, Altzp, opQuery},
}

func lookup(lo uint8, isWrite bool) (tableEntry, bool) {
	for _, e := range table {
		if e.lo != lo {
			continue
		}
		switch e.kind {
		case accessReadOrWrite:
			return e, true
		case accessRead:
			if !isWrite {
				return e, true
			}
		case accessWrite:
			if isWrite {
				return e, true
			}
		}
	}
	return tableEntry{}, false
}

// Bank holds the live boolean state of every switch.
type Bank struct {
	states map[Switch]bool
}

// NewBank returns a Bank with every switch false, the documented cold-start
// default.
func NewBank() *Bank {
	return &Bank{states: make(map[Switch]bool)}
}

func (b *Bank) IsSet(s Switch) bool {
	return b.states[s]
}

func (b *Bank) Assign(s Switch, value bool) {
	b.states[s] = value
}

// Read handles a read of addr, which must be in $C000-$C0FF. It returns
// the byte observed and whether addr maps to a known switch or bank-select
// address; unknown addresses are the caller's responsibility to log.
func (b *Bank) Read(addr uint16) (value uint8, handled bool) {
	return b.access(addr, true)
}

// Write handles a write to addr, returning whether it was recognized.
func (b *Bank) Write(addr uint16) (handled bool) {
	_, handled = b.access(addr, false)
	return handled
}

func (b *Bank) access(addr uint16, isRead bool) (uint8, bool) {
	lo := uint8(addr)
	if lo&0x80 != 0 {
		b.bankSelect(lo, isRead)
		return 0, true
	}

	entry, ok := lookup(lo, !isRead)
	if !ok {
		return 0, false
	}
	switch entry.op {
	case opClear:
		b.states[entry.sw] = false
	case opSet:
		b.states[entry.sw] = true
	case opQuery:
		if b.states[entry.sw] {
			return 0x80, true
		}
		return 0x00, true
	}
	return 0, true
}

// bankSelect decodes $C080-$C08F, bit pattern 1000_abcd where a clear
// selects bank 2 (set selects bank 1), d set enables writes, and c equal
// to d selects read-RAM (otherwise reads come from ROM).
// The two-consecutive-accesses requirement for enabling RAM writes is
// simplified to a single access.
func (b *Bank) bankSelect(lo uint8, isRead bool) {
	if !isRead {
		log.Printf("softswitch: write to bank-select address $c0%02x", lo)
	}

	bank1 := lo&0b1000 != 0
	b.states[Bank2] = !bank1

	writeEnable := lo&0b0001 != 0
	b.states[WriteProtect] = !writeEnable

	readRAM := (lo>>1)&1 == lo&1
	b.states[Lcram] = readRAM
}
