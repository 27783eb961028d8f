package display

// Text cell dimensions: 40x24 cells of 7x8 pixels each.
const (
	glyphW = 7
	glyphH = 8
)

// RenderText derives a full frame from a 1 KiB text page. Each screen byte
// is a glyph code: bit 7 is a display-attribute bit (ignored here), bits
// 6..0 select a 7x8 glyph. Lit glyph pixels render White on Black.
func RenderText(page []byte) *Frame {
	bytes := unscramble(page)

	frame := new(Frame)
	for row := 0; row < GrRows; row++ {
		for col := 0; col < GrCols; col++ {
			g := glyphFor(bytes[row][col] & 0x7f)
			paintGlyph(frame, row, col, g)
		}
	}
	return frame
}

func paintGlyph(frame *Frame, row, col int, g [glyphH]uint8) {
	for dy := 0; dy < glyphH; dy++ {
		for dx := 0; dx < glyphW; dx++ {
			c := Black
			if g[dy]&(1<<(glyphW-1-dx)) != 0 {
				c = White
			}
			frame[row*glyphH+dy][col*glyphW+dx] = c
		}
	}
}

// glyphFor maps a 7-bit glyph code to its pixel rows. Control codes
// ($00-$1F) and $7F render as a solid cursor block; lowercase shares the
// uppercase shapes, as on the unenhanced IIe primary character set.
func glyphFor(code uint8) [glyphH]uint8 {
	if code < 0x20 || code == 0x7f {
		return blockGlyph
	}
	if code >= 0x60 {
		code -= 0x20
	}
	return glyphs[code-0x20]
}

var blockGlyph = [glyphH]uint8{
	0b1111111, 0b1111111, 0b1111111, 0b1111111,
	0b1111111, 0b1111111, 0b1111111, 0b1111111,
}
