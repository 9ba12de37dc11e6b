package soc

import (
	"bytes"
	"testing"

	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/bus"
)

func TestMainRAMGatedByCacheGateBit(t *testing.T) {
	machine, err := PowerUp(4096)
	if err != nil {
		t.Fatalf("PowerUp: %v", err)
	}

	if _, err := machine.Bus.Write(bus.RangeRAMStart, []byte{0xAA}); err == nil {
		t.Fatal("expected main RAM to reject writes before the cache-gate bit is set")
	}

	if _, err := machine.Bus.Write(bus.RangeChipsetStart, []byte{cgBit}); err != nil {
		t.Fatalf("write memctl: %v", err)
	}

	if _, err := machine.Bus.Write(bus.RangeRAMStart, []byte{0xAA}); err != nil {
		t.Fatalf("expected main RAM write to succeed once gated open: %v", err)
	}
	got := make([]byte, 1)
	if _, err := machine.Bus.Read(bus.RangeRAMStart, got); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, []byte{0xAA}) {
		t.Fatalf("got %v, want [0xAA]", got)
	}
}

func TestCacheGateBitIsSticky(t *testing.T) {
	machine, err := PowerUp(4096)
	if err != nil {
		t.Fatalf("PowerUp: %v", err)
	}
	if _, err := machine.Bus.Write(bus.RangeChipsetStart, []byte{cgBit}); err != nil {
		t.Fatalf("set CG: %v", err)
	}

	// A write that would clear the CG bit is silently re-forced to 1.
	if _, err := machine.Bus.Write(bus.RangeChipsetStart, []byte{0x00}); err != nil {
		t.Fatalf("clear memctl: %v", err)
	}

	got := make([]byte, 1)
	if _, err := machine.Bus.Read(bus.RangeChipsetStart, got); err != nil {
		t.Fatalf("read memctl: %v", err)
	}
	if got[0]&cgBit == 0 {
		t.Fatalf("memctl = %#x, want the CG bit still set", got[0])
	}
}

func TestLoadFirmwareRejectsMissingFile(t *testing.T) {
	machine, err := PowerUp(4096)
	if err != nil {
		t.Fatalf("PowerUp: %v", err)
	}
	if err := machine.LoadFirmware("/nonexistent/path/to/firmware.bin"); err == nil {
		t.Fatal("expected an error loading a nonexistent firmware path")
	}
	_ = machine
}
