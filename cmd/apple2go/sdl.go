package main

import (
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/khollbach/apple2go/display"
	"github.com/khollbach/apple2go/emulator"
)

// window owns the SDL resources for the emulated display: a streaming
// texture at the native 280x192 resolution, scaled up to the window size
// by the renderer.
type window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
}

func newWindow(scale int) (*window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}

	win, err := sdl.CreateWindow("Apple IIe",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(display.Width*scale), int32(display.Height*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, err
	}

	renderer, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		win.Destroy()
		return nil, err
	}

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_ABGR8888),
		sdl.TEXTUREACCESS_STREAMING,
		display.Width, display.Height)
	if err != nil {
		renderer.Destroy()
		win.Destroy()
		return nil, err
	}

	return &window{
		window:   win,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, display.Width*display.Height*4),
	}, nil
}

func (w *window) renderFrame(frame *display.Frame) error {
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			rgb := frame[y][x].RGB()
			offset := (y*display.Width + x) * 4
			w.pixels[offset+0] = rgb[0]
			w.pixels[offset+1] = rgb[1]
			w.pixels[offset+2] = rgb[2]
			w.pixels[offset+3] = 0xff
		}
	}

	if err := w.texture.Update(nil, unsafe.Pointer(&w.pixels[0]), display.Width*4); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return err
	}
	w.renderer.Present()
	return nil
}

func (w *window) cleanup() {
	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.window != nil {
		w.window.Destroy()
	}
	sdl.Quit()
}

// runWindow drives the frame cadence: poll input, redraw from RAM, repeat
// at ~60 Hz until the window closes.
func runWindow(emu *emulator.Emulator, scale int) error {
	w, err := newWindow(scale)
	if err != nil {
		return err
	}
	defer w.cleanup()

	ticker := time.NewTicker(16700 * time.Microsecond)
	defer ticker.Stop()

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				handleKey(emu, e)
			}
		}

		if err := w.renderFrame(emu.DrawScreen()); err != nil {
			return err
		}
		<-ticker.C
	}
}

// handleKey translates SDL keyboard events to the 7-bit ASCII codes the
// keyboard latch expects. Letters arrive uppercase, matching the IIe
// primary character set.
func handleKey(emu *emulator.Emulator, e *sdl.KeyboardEvent) {
	if e.Type == sdl.KEYUP {
		emu.AllKeysUp()
		return
	}

	var ascii uint8
	switch e.Keysym.Sym {
	case sdl.K_BACKSPACE:
		ascii = 0x7f
	case sdl.K_LEFT:
		ascii = 0x08
	case sdl.K_TAB:
		ascii = 0x09
	case sdl.K_DOWN:
		ascii = 0x0a
	case sdl.K_UP:
		ascii = 0x0b
	case sdl.K_RETURN:
		ascii = 0x0d
	case sdl.K_RIGHT:
		ascii = 0x15
	case sdl.K_ESCAPE:
		ascii = 0x1b
	case sdl.K_SPACE:
		ascii = 0x20
	default:
		sym := e.Keysym.Sym
		if sym < 0x20 || sym > 0x7e {
			return
		}
		ascii = uint8(sym)
		if ascii >= 'a' && ascii <= 'z' {
			ascii -= 0x20
		}
	}
	emu.KeyDown(ascii)
}
