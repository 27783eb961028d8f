package memory_test

import (
	"testing"

	"github.com/khollbach/apple2go/display"
	"github.com/stretchr/testify/assert"
)

func TestDrawScreenLoresDefault(t *testing.T) {
	a := newSpace(t)
	a.Write(0x0400, 0x0f) // White top half at cell (0, 0) of page 1

	frame := a.DrawScreen()
	assert.Equal(t, display.White, frame[0][0])
	assert.Equal(t, display.Black, frame[0][7])
}

func TestDrawScreenTextSwitch(t *testing.T) {
	a := newSpace(t)
	a.Write(0x0400, 0xc1) // 'A'

	// Reading $C051 flips the TEXT switch before the next frame.
	a.Read(0xc051)
	frame := a.DrawScreen()
	assert.Equal(t, display.White, frame[0][3], "apex of the A glyph")
	assert.Equal(t, display.Black, frame[0][0])
}

func TestDrawScreenPage2(t *testing.T) {
	a := newSpace(t)
	a.Write(0x0800, 0x0f)

	frame := a.DrawScreen()
	assert.Equal(t, display.Black, frame[0][0], "page 1 is blank")

	a.Read(0xc055) // PAGE2 on
	frame = a.DrawScreen()
	assert.Equal(t, display.White, frame[0][0])
}

func TestDrawScreenHires(t *testing.T) {
	a := newSpace(t)
	a.Write(0x2000, 0b0000011)

	a.Read(0xc057) // HIRES on
	frame := a.DrawScreen()
	assert.Equal(t, display.White, frame[0][0])
	assert.Equal(t, display.White, frame[0][1])
}

func TestDrawScreenMixed(t *testing.T) {
	a := newSpace(t)
	// Fill all of page 1: LORES Green/Green blocks, or glyph 'L' as text.
	for addr := uint16(0x0400); addr < 0x0800; addr++ {
		a.Write(addr, 0xcc) // Green over Green / glyph 'L'
	}

	a.Read(0xc053) // MIXED on, TEXT off
	frame := a.DrawScreen()
	assert.Equal(t, display.Green, frame[0][0])
	// The bottom 32 scan-lines come from the text rendering: glyph
	// pixels are White or Black, never LORES Green.
	for y := display.Height - display.MixedRows; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			c := frame[y][x]
			if c != display.Black && c != display.White {
				t.Fatalf("mixed rows: frame[%d][%d] = %v", y, x, c)
			}
		}
	}
}

func TestDrawScreenPure(t *testing.T) {
	a := newSpace(t)
	a.Write(0x0400, 0x3c)
	f1 := a.DrawScreen()
	f2 := a.DrawScreen()
	assert.Equal(t, f1, f2)
}
