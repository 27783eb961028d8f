// Package romset bundles the firmware images baked into the emulator at
// build time: Applesoft BASIC ($D000), the unenhanced IIe monitor F8 ROM
// ($F800), and the unenhanced IIe 80-column firmware ($C100 and $C800).
//
// The checked-in blobs are placeholders of the correct sizes, not genuine
// Apple firmware dumps (those are copyrighted and can't be redistributed).
// The placeholder monitor carries a minimal RESET routine at $FA62 that
// forces TEXT mode and transfers control through the SOFTEV warm-start
// vector, so programs loaded via the reset path still start correctly. A
// real build replaces these files with actual dumps; every byte layout
// below matches the originals.
package romset

import (
	_ "embed"
	"fmt"
)

// Sizes of the firmware images.
const (
	ApplesoftLen = 0x2800 // $D000-$F7FF
	MonitorLen   = 0x0800 // $F800-$FFFF
	C100Len      = 0x0300 // $C100-$C3FF
	SelfTestLen  = 0x0400 // $C400-$C7FF
	C800Len      = 0x07ff // $C800-$CFFE
)

//go:embed applesoft.bin
var applesoft []byte

//go:embed monitor.bin
var monitor []byte

// The 80-column firmware ships as one file: 0x300 bytes mapped at $C100
// followed by 0x7ff bytes mapped at $C800.
//
//go:embed c80col.bin
var c80col []byte

//go:embed selftest.bin
var selfTest []byte

// MonitorReset is the RESET entry point in the F8 ROM. The emulator begins
// execution here after a program is staged via the SOFTEV vector.
const MonitorReset = 0xfa62

func init() {
	check := func(name string, blob []byte, want int) {
		if len(blob) != want {
			panic(fmt.Sprintf("romset: %s is %d bytes, want %d", name, len(blob), want))
		}
	}
	check("applesoft.bin", applesoft, ApplesoftLen)
	check("monitor.bin", monitor, MonitorLen)
	check("c80col.bin", c80col, C100Len+C800Len)
	check("selftest.bin", selfTest, SelfTestLen)
}

// Applesoft returns the Applesoft BASIC ROM image.
func Applesoft() []byte { return applesoft }

// Monitor returns the monitor F8 ROM image.
func Monitor() []byte { return monitor }

// C100 returns the slice of the 80-column firmware mapped at $C100.
func C100() []byte { return c80col[:C100Len] }

// C800 returns the slice of the 80-column firmware mapped at $C800.
func C800() []byte { return c80col[C100Len:] }

// SelfTest returns the self-test firmware mapped at $C400.
func SelfTest() []byte { return selfTest }
