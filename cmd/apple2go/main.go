// Command apple2go runs a 6502 memory image on an emulated Apple IIe,
// presenting the 280x192 display in an SDL window (or the terminal monitor
// with --tui) while a line-based debugger reads commands from stdin.
//
// Usage:
//
//	apple2go [flags] <image-file>
//
// Without --raw-bytes the file is parsed as an llvm-mos memory image;
// with it, the file is a flat byte blob loaded and started at the given
// hex address. Without --raw-bytes, the legacy LOAD_ADDR environment
// variable selects a raw load instead; START_ADDR, when set, overrides the
// start address of either kind of raw load.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/khollbach/apple2go/emulator"
	"github.com/khollbach/apple2go/memory"
	"github.com/khollbach/apple2go/monitor"
)

// hexAddrList collects repeatable hex-address flags.
type hexAddrList []uint16

func (l *hexAddrList) String() string {
	return fmt.Sprint(*l)
}

func (l *hexAddrList) Set(s string) error {
	addr, err := emulator.DecodeU16(s)
	if err != nil {
		return err
	}
	*l = append(*l, addr)
	return nil
}

func main() {
	var breakpoints hexAddrList
	rawBytes := flag.String("raw-bytes", "", "treat the file as a flat blob loaded and started at this hex address")
	tui := flag.Bool("tui", false, "run the terminal monitor instead of the SDL window")
	scale := flag.Int("scale", 2, "integer pixel scale factor for the SDL window")
	flag.Var(&breakpoints, "breakpoint", "pre-set a breakpoint at this hex address (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image-file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	emu, err := load(flag.Arg(0), *rawBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for _, addr := range breakpoints {
		emu.AddBreakpoint(addr)
	}

	// CPU driver: ~300k instructions/second in 1000-step batches.
	go func() {
		ticker := time.NewTicker(3 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			emu.Sim1000Instrs()
		}
	}()

	if *tui {
		if err := monitor.Run(emu); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	go debuggerLoop(emu)

	if err := runWindow(emu, *scale); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// load builds the emulator from the image file, staged to start through
// the ROM reset routine.
func load(path, rawAddr string) (*emulator.Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var mem *memory.AddressSpace
	var startAddr uint16
	if rawAddr != "" {
		loadAddr, err := emulator.DecodeU16(rawAddr)
		if err != nil {
			return nil, fmt.Errorf("bad --raw-bytes address: %w", err)
		}
		startAddr = loadAddr
		if s := os.Getenv("START_ADDR"); s != "" {
			if startAddr, err = emulator.DecodeU16(s); err != nil {
				return nil, fmt.Errorf("bad START_ADDR: %w", err)
			}
		}
		mem, err = memory.New(data, loadAddr)
		if err != nil {
			return nil, err
		}
	} else if s := os.Getenv("LOAD_ADDR"); s != "" {
		// Legacy environment-variable interface.
		loadAddr, err := emulator.DecodeU16(s)
		if err != nil {
			return nil, fmt.Errorf("bad LOAD_ADDR: %w", err)
		}
		startAddr = loadAddr
		if s := os.Getenv("START_ADDR"); s != "" {
			if startAddr, err = emulator.DecodeU16(s); err != nil {
				return nil, fmt.Errorf("bad START_ADDR: %w", err)
			}
		}
		mem, err = memory.New(data, loadAddr)
		if err != nil {
			return nil, err
		}
	} else {
		mem, startAddr, err = memory.LoadImage(data)
		if err != nil {
			return nil, err
		}
	}

	emu := emulator.New(mem, 0)
	emu.Reset(startAddr)
	return emu, nil
}

// debuggerLoop reads debugger commands from stdin and executes them.
func debuggerLoop(emu *emulator.Emulator) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		cmd, err := emulator.ParseCommand(scanner.Text())
		if err != nil {
			fmt.Println(err)
		} else {
			emu.Control(cmd)
		}
		fmt.Print("> ")
	}
}
