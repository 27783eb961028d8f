package memory

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// The llvm-mos memory-image format: a sequence of blocks, each
// {offset:u16 LE, length:u16 LE, bytes[length]}, concatenated to EOF. The
// block at offset $FFFA with length 6 holds the 6502 vectors; its middle
// two bytes are the reset vector, i.e. the program start address.

const resetVectorOffset = 0xfffa

type imageBlock struct {
	offset uint16
	bytes  []byte
}

// LoadImage parses an llvm-mos memory image, returning an address space
// with every data block copied into main RAM, plus the start address from
// the reset-vector block.
func LoadImage(image []byte) (*AddressSpace, uint16, error) {
	blocks, err := parseImage(image)
	if err != nil {
		return nil, 0, err
	}

	var startAddr uint16
	haveStart := false
	var data []imageBlock
	for _, b := range blocks {
		if b.offset == resetVectorOffset && len(b.bytes) == 6 {
			startAddr = binary.LittleEndian.Uint16(b.bytes[2:4])
			haveStart = true
			continue
		}
		data = append(data, b)
	}
	if !haveStart {
		return nil, 0, fmt.Errorf("image has no reset-vector block at $%04x", resetVectorOffset)
	}

	if err := checkOverlap(data); err != nil {
		return nil, 0, err
	}

	a, err := New(nil, 0)
	if err != nil {
		return nil, 0, err
	}
	for _, b := range data {
		if err := a.LoadProgram(b.bytes, b.offset); err != nil {
			return nil, 0, err
		}
	}
	return a, startAddr, nil
}

func parseImage(image []byte) ([]imageBlock, error) {
	var blocks []imageBlock
	rest := image
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, fmt.Errorf("truncated block header: %d bytes left", len(rest))
		}
		offset := binary.LittleEndian.Uint16(rest[0:2])
		length := binary.LittleEndian.Uint16(rest[2:4])
		rest = rest[4:]

		if int(length) > len(rest) {
			return nil, fmt.Errorf(
				"truncated block at offset $%04x: %d bytes declared, %d left",
				offset, length, len(rest),
			)
		}
		if length == 0 {
			continue
		}
		blocks = append(blocks, imageBlock{offset: offset, bytes: rest[:length]})
		rest = rest[length:]
	}
	return blocks, nil
}

func checkOverlap(blocks []imageBlock) error {
	sorted := make([]imageBlock, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].offset < sorted[j].offset })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if int(prev.offset)+len(prev.bytes) > int(cur.offset) {
			return fmt.Errorf(
				"overlapping blocks at $%04x and $%04x", prev.offset, cur.offset,
			)
		}
	}
	return nil
}
