package memory_test

import (
	"testing"

	"github.com/khollbach/apple2go/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpace(t *testing.T) *memory.AddressSpace {
	t.Helper()
	a, err := memory.New(nil, 0)
	require.NoError(t, err)
	return a
}

func TestRAMRoundTrip(t *testing.T) {
	a := newSpace(t)
	for _, addr := range []uint16{0x0000, 0x00ff, 0x0200, 0xbfff} {
		a.Write(addr, 0x5a)
		assert.Equal(t, uint8(0x5a), a.Read(addr), "addr $%04x", addr)
	}
}

func TestLoadProgram(t *testing.T) {
	a, err := memory.New([]byte{0xa9, 0x01}, 0x0300)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xa9), a.Read(0x0300))
	assert.Equal(t, uint8(0x01), a.Read(0x0301))
}

func TestLoadProgramOverlapsROM(t *testing.T) {
	_, err := memory.New([]byte{1, 2, 3}, 0xbffe)
	assert.Error(t, err)
}

func TestReadWordLittleEndian(t *testing.T) {
	a := newSpace(t)
	a.Write(0x0010, 0x34)
	a.Write(0x0011, 0x12)
	assert.Equal(t, uint16(0x1234), a.ReadWord(0x0010))
	assert.Panics(t, func() { a.ReadWord(0xffff) })
}

func TestROMWritesDiscarded(t *testing.T) {
	a := newSpace(t)

	// Peripheral ROM is never writable.
	a.Write(0xc200, 0xab)
	assert.Equal(t, uint8(0x00), a.Read(0xc200))

	// $CFFF is reserved and reads as 0.
	assert.Equal(t, uint8(0x00), a.Read(0xcfff))
}

func TestLanguageCardReadSelect(t *testing.T) {
	a := newSpace(t)

	// At cold start writes land in language-card RAM (write-protect off)
	// but reads come from ROM.
	a.Write(0xe000, 0xab)
	assert.Equal(t, uint8(0x00), a.Read(0xe000))

	// $C080 enables RAM reads and write-protects the card.
	a.Read(0xc080)
	assert.Equal(t, uint8(0xab), a.Read(0xe000))

	a.Write(0xe000, 0xcd) // discarded: write protect is on
	assert.Equal(t, uint8(0xab), a.Read(0xe000))
}

func TestLanguageCardBank2Shadow(t *testing.T) {
	a := newSpace(t)

	// Cold start: bank 1 for $D000-$DFFF, writes enabled.
	a.Write(0xd000, 0x11)

	// $C083: bank 2, read RAM, writes enabled.
	a.Read(0xc083)
	a.Write(0xd000, 0x22)
	assert.Equal(t, uint8(0x22), a.Read(0xd000))

	// $C08B: back to bank 1, read RAM, writes enabled.
	a.Read(0xc08b)
	assert.Equal(t, uint8(0x11), a.Read(0xd000))

	// The shadow only covers $D000-$DFFF; $E000 and up is shared.
	a.Write(0xe123, 0x33)
	a.Read(0xc083)
	assert.Equal(t, uint8(0x33), a.Read(0xe123))
}

func TestSetSoftev(t *testing.T) {
	a := newSpace(t)
	pc := a.SetSoftev(0x6000)
	assert.Equal(t, uint16(0xfa62), pc)
	assert.Equal(t, uint8(0x00), a.Read(0x03f2))
	assert.Equal(t, uint8(0x60), a.Read(0x03f3))
	assert.Equal(t, uint8(0x60^0xa5), a.Read(0x03f4))
}
