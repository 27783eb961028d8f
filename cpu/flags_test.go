package cpu_test

import (
	"testing"

	"github.com/khollbach/apple2go/cpu"
	"github.com/stretchr/testify/assert"
)

func TestFlagsSetClearAssign(t *testing.T) {
	var f cpu.Flags
	f.Set(cpu.FlagC)
	assert.True(t, f.IsSet(cpu.FlagC))
	f.Clear(cpu.FlagC)
	assert.False(t, f.IsSet(cpu.FlagC))
	f.Assign(cpu.FlagN, true)
	assert.True(t, f.IsSet(cpu.FlagN))
	f.Assign(cpu.FlagN, false)
	assert.False(t, f.IsSet(cpu.FlagN))
}

func TestUpdateNZ(t *testing.T) {
	tests := []struct {
		name    string
		value   uint8
		wantZ   bool
		wantN   bool
	}{
		{"zero", 0x00, true, false},
		{"positive", 0x01, false, false},
		{"negative boundary", 0x80, false, true},
		{"max", 0xff, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f cpu.Flags
			got := f.UpdateNZ(tt.value)
			assert.Equal(t, tt.value, got)
			assert.Equal(t, tt.wantZ, f.IsSet(cpu.FlagZ))
			assert.Equal(t, tt.wantN, f.IsSet(cpu.FlagN))
		})
	}
}

func TestPHPSetsBreakAndReservedOnPushedByteOnly(t *testing.T) {
	var f cpu.Flags
	f.SetBits(0x00)

	pushed := f.Bits() | uint8(cpu.FlagB) | uint8(cpu.FlagR)
	assert.Equal(t, uint8(0x30), pushed)
	assert.Equal(t, uint8(0x00), f.Bits(), "live flags must not be mutated by PHP")
}
