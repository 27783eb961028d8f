package display_test

import (
	"testing"

	"github.com/khollbach/apple2go/display"
	"github.com/stretchr/testify/assert"
)

func TestLoresNibbleSplit(t *testing.T) {
	page := make([]byte, 0x400)
	// Low nibble paints the top half of the cell, high nibble the bottom.
	page[0] = 0x1f // White over Magenta at cell (0, 0)

	frame := display.RenderLores(page)
	for y := 0; y < 4; y++ {
		for x := 0; x < 7; x++ {
			assert.Equal(t, display.White, frame[y][x], "top half y=%d x=%d", y, x)
		}
	}
	for y := 4; y < 8; y++ {
		for x := 0; x < 7; x++ {
			assert.Equal(t, display.Magenta, frame[y][x], "bottom half y=%d x=%d", y, x)
		}
	}
	// The neighboring cell is untouched.
	assert.Equal(t, display.Black, frame[0][7])
}

func TestLoresUnscrambling(t *testing.T) {
	page := make([]byte, 0x400)
	// The interleaved layout puts unscrambled row j*8+i at page offset
	// i*0x80 + j*40.
	page[0x80] = 0x0f      // row 1, col 0
	page[40] = 0x0f        // row 8, col 0
	page[0x80+2*40+5] = 0x0f // row 17, col 5

	frame := display.RenderLores(page)
	assert.Equal(t, display.White, frame[1*8][0])
	assert.Equal(t, display.White, frame[8*8][0])
	assert.Equal(t, display.White, frame[17*8][5*7])
	assert.Equal(t, display.Black, frame[0][0])
}

func TestLoresPageSizeChecked(t *testing.T) {
	assert.Panics(t, func() { display.RenderLores(make([]byte, 0x3ff)) })
}
