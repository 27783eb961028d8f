package memory_test

import (
	"testing"

	"github.com/khollbach/apple2go/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(offset uint16, bytes ...byte) []byte {
	out := []byte{
		uint8(offset), uint8(offset >> 8),
		uint8(len(bytes)), uint8(len(bytes) >> 8),
	}
	return append(out, bytes...)
}

func resetVectorBlock(start uint16) []byte {
	return block(0xfffa, 0, 0, uint8(start), uint8(start>>8), 0, 0)
}

func TestLoadImage(t *testing.T) {
	var image []byte
	image = append(image, block(0x0300, 0xa9, 0x02)...)
	image = append(image, block(0x0400, 0xff)...)
	image = append(image, resetVectorBlock(0x0300)...)

	a, start, err := memory.LoadImage(image)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0300), start)
	assert.Equal(t, uint8(0xa9), a.Read(0x0300))
	assert.Equal(t, uint8(0x02), a.Read(0x0301))
	assert.Equal(t, uint8(0xff), a.Read(0x0400))
}

func TestLoadImageZeroLengthBlocks(t *testing.T) {
	var image []byte
	image = append(image, block(0x1234)...) // length 0, legal no-op
	image = append(image, resetVectorBlock(0x2000)...)

	_, start, err := memory.LoadImage(image)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x2000), start)
}

func TestLoadImageMissingResetVector(t *testing.T) {
	_, _, err := memory.LoadImage(block(0x0300, 0xa9))
	assert.Error(t, err)
}

func TestLoadImageTruncatedHeader(t *testing.T) {
	_, _, err := memory.LoadImage([]byte{0x00, 0x03, 0x05})
	assert.Error(t, err)
}

func TestLoadImageTruncatedPayload(t *testing.T) {
	// Header declares one payload byte that never arrives.
	_, _, err := memory.LoadImage(block(0x0300, 0xa9)[:4])
	assert.Error(t, err)
}

func TestLoadImageOverlappingBlocks(t *testing.T) {
	var image []byte
	image = append(image, block(0x0300, 1, 2, 3)...)
	image = append(image, block(0x0302, 4)...)
	image = append(image, resetVectorBlock(0x0300)...)

	_, _, err := memory.LoadImage(image)
	assert.Error(t, err)
}
