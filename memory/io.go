package memory

import (
	"log"

	"github.com/khollbach/apple2go/memory/softswitch"
)

// io models the $C000-$C0FF page: the keyboard latch plus the soft-switch
// bank. Every access into this range must funnel through io so that a read
// of, say, $C050, flips the Text switch before the next frame is derived.
type io struct {
	mostRecentKey uint8
	strobe        bool
	anyKeyDown    bool

	switches *softswitch.Bank
}

func newIO() *io {
	return &io{switches: softswitch.NewBank()}
}

// KeyDown records a key-press. ascii must be a 7-bit ASCII code.
func (p *io) KeyDown(ascii uint8) {
	if ascii >= 0x80 {
		panic("KeyDown: ascii code must be 7-bit")
	}
	p.mostRecentKey = ascii
	p.strobe = true
	p.anyKeyDown = true
}

// AllKeysUp clears the "any key down" flag.
func (p *io) AllKeysUp() {
	p.anyKeyDown = false
}

func (p *io) read(addr uint16) uint8 {
	switch addr {
	case 0xc000:
		b := p.mostRecentKey
		if p.strobe {
			b |= 0x80
		}
		return b
	case 0xc010:
		p.strobe = false
		if p.anyKeyDown {
			return 0x80
		}
		return 0
	}

	if v, ok := p.switches.Read(addr); ok {
		return v
	}
	log.Printf("memory: read of undefined soft switch $%04x", addr)
	return 0
}

func (p *io) write(addr uint16, value uint8) {
	if addr == 0xc010 {
		p.strobe = false
		return
	}
	if p.switches.Write(addr) {
		return
	}
	log.Printf("memory: write of undefined soft switch $%04x = $%02x", addr, value)
}
