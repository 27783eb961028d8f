package memory

import (
	"fmt"

	"github.com/khollbach/apple2go/internal/romset"
)

// roms bundles the immutable firmware images backing the ROM-only ranges
// of the address space: Applesoft at $D000, the monitor at $F800, and the
// peripheral-card firmware at $C100-$CFFE.
type roms struct {
	applesoft []byte
	monitor   []byte
	c100      []byte
	selfTest  []byte
	c800      []byte
}

func newRoms() roms {
	return roms{
		applesoft: romset.Applesoft(),
		monitor:   romset.Monitor(),
		c100:      romset.C100(),
		selfTest:  romset.SelfTest(),
		c800:      romset.C800(),
	}
}

// read returns the ROM byte at addr. addr must be in $C100-$CFFE or
// $D000-$FFFF; the reserved byte $CFFF reads as 0.
func (r roms) read(addr uint16) uint8 {
	switch {
	case 0xc100 <= addr && addr < 0xc400:
		return r.c100[addr-0xc100]
	case 0xc400 <= addr && addr < 0xc800:
		return r.selfTest[addr-0xc400]
	case 0xc800 <= addr && addr < 0xcfff:
		return r.c800[addr-0xc800]
	case addr == 0xcfff:
		return 0
	case 0xd000 <= addr && addr < 0xf800:
		return r.applesoft[addr-0xd000]
	case addr >= 0xf800:
		return r.monitor[addr-0xf800]
	default:
		panic(fmt.Sprintf("address out of bounds for ROM: $%04x", addr))
	}
}
