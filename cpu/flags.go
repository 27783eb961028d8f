package cpu

// Flag identifies one bit of the 6502 status register.
type Flag uint8

const (
	FlagC Flag = 1 << 0 // Carry
	FlagZ Flag = 1 << 1 // Zero
	FlagI Flag = 1 << 2 // Interrupt disable
	FlagD Flag = 1 << 3 // Decimal mode (stored only, never consulted by arithmetic)
	FlagB Flag = 1 << 4 // Break
	FlagR Flag = 1 << 5 // Reserved, always reads as 1 via PHP
	FlagV Flag = 1 << 6 // Overflow
	FlagN Flag = 1 << 7 // Negative
)

// Flags is the packed 8-bit status register. Keeping it as a single byte
// rather than individual bools preserves PHP/PLP bit-for-bit semantics.
type Flags struct {
	bits uint8
}

func (f *Flags) Bits() uint8 {
	return f.bits
}

func (f *Flags) SetBits(b uint8) {
	f.bits = b
}

func (f *Flags) Set(flag Flag) {
	f.bits |= uint8(flag)
}

func (f *Flags) Clear(flag Flag) {
	f.bits &^= uint8(flag)
}

func (f *Flags) Assign(flag Flag, value bool) {
	if value {
		f.Set(flag)
	} else {
		f.Clear(flag)
	}
}

func (f *Flags) IsSet(flag Flag) bool {
	return f.bits&uint8(flag) != 0
}

// UpdateNZ sets Z iff value==0 and N iff bit 7 is set, then returns value
// unchanged so it can be chained into loads.
func (f *Flags) UpdateNZ(value uint8) uint8 {
	f.Assign(FlagZ, value == 0)
	f.Assign(FlagN, value&0x80 != 0)
	return value
}
