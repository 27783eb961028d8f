package memory

import (
	"github.com/khollbach/apple2go/display"
	"github.com/khollbach/apple2go/memory/softswitch"
)

// Display page extents in main RAM.
const (
	grPage1  = 0x0400 // text/LORES page 1, 1 KiB
	grPage2  = 0x0800
	hgrPage1 = 0x2000 // HIRES page 1, 8 KiB
	hgrPage2 = 0x4000
)

// DrawScreen derives a fresh frame from the current RAM contents and
// display switch state. It is a pure function of both; the caller owns the
// returned frame.
func (a *AddressSpace) DrawScreen() *display.Frame {
	sw := a.switches()
	text := sw.IsSet(softswitch.Text)
	hires := sw.IsSet(softswitch.Hires)
	mixed := sw.IsSet(softswitch.Mixed)
	page2 := sw.IsSet(softswitch.Page2)

	if text {
		return display.RenderText(a.grPage(page2))
	}

	var frame *display.Frame
	if hires {
		frame = display.RenderHires(a.hgrPage(page2))
	} else {
		frame = display.RenderLores(a.grPage(page2))
	}
	if mixed {
		display.OverlayMixed(frame, display.RenderText(a.grPage(page2)))
	}
	return frame
}

func (a *AddressSpace) grPage(page2 bool) []byte {
	if page2 {
		return a.ram[grPage2 : grPage2+0x400]
	}
	return a.ram[grPage1 : grPage1+0x400]
}

func (a *AddressSpace) hgrPage(page2 bool) []byte {
	if page2 {
		return a.ram[hgrPage2 : hgrPage2+0x2000]
	}
	return a.ram[hgrPage1 : hgrPage1+0x2000]
}
