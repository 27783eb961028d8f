package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyboardLatch(t *testing.T) {
	a := newSpace(t)

	a.KeyDown(0x41) // 'A'
	assert.Equal(t, uint8(0xc1), a.Read(0xc000), "key with strobe set")

	// Reading $C010 clears the strobe and reports any-key-down.
	assert.Equal(t, uint8(0x80), a.Read(0xc010))
	assert.Equal(t, uint8(0x41), a.Read(0xc000), "strobe cleared")

	a.AllKeysUp()
	assert.Equal(t, uint8(0x00), a.Read(0xc010))
}

func TestStrobeClearedByWrite(t *testing.T) {
	a := newSpace(t)
	a.KeyDown(0x0d)
	a.Write(0xc010, 0xff)
	assert.Equal(t, uint8(0x0d), a.Read(0xc000))
}

func TestKeyDownRejectsHighBit(t *testing.T) {
	a := newSpace(t)
	assert.Panics(t, func() { a.KeyDown(0x80) })
}

func TestRepeatedKeyDownsReplaceLatch(t *testing.T) {
	a := newSpace(t)
	a.KeyDown(0x41)
	a.KeyDown(0x42)
	assert.Equal(t, uint8(0xc2), a.Read(0xc000))
}

func TestUndefinedSoftSwitchReadsZero(t *testing.T) {
	a := newSpace(t)
	// The speaker toggle isn't a mode switch; reads return 0 and writes
	// are ignored rather than faulting.
	assert.Equal(t, uint8(0x00), a.Read(0xc030))
	a.Write(0xc030, 0xff)
}
