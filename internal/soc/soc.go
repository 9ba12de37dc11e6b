// Package soc wires the Y-64 bus peers (firmware ROM, per-core local
// cache, chipset registers, main RAM) to a bus.Router and a cpu.Domain,
// and loads firmware images into the ROM peer.
//
// Grounded on original_source/emul/src/soc.c: the ram/chipset read/write
// callbacks, the sticky CG (cache-gate) bit on chipset.memctl, and the
// flashrom_flash-then-bus_peer_set power-up order are ported directly;
// the SPI transaction dispatch soc.c wires alongside those callbacks is
// left out (see SPEC_FULL.md's resolved open question on microSD/SPI).
package soc

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/balloon"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/bus"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/cpu"
)

// Capacity constants ported from original_source/emul/inc/emul/{cpu,flashrom,soc}.h.
const (
	CacheStep   = 32
	CacheCap    = 65536 // DOMAIN_CACHE_SIZE
	ROMStep     = 8
	ROMCap      = 0x100000 // BIOS_FLASHROM_SIZE
	DefaultRAM  = 2 << 30  // 2 GiB, the emulator CLI's default -r
	chipsetSize = 16       // memctl (1 byte) + inert spi_ctl padding
	cgBit       = 1 << 0   // CS_MEMCTL_CG
)

// romPeer is a read-only view over a growable buffer; Flash populates it
// once at firmware-load time.
type romPeer struct {
	mem *balloon.Balloon
}

func newROMPeer() *romPeer {
	return &romPeer{mem: balloon.New(ROMStep, ROMCap)}
}

func (p *romPeer) Flash(buf []byte) error {
	_, err := p.mem.Write(0, buf)
	return err
}

func (p *romPeer) Read(addr uint64, buf []byte) (int, error) {
	return p.mem.Read(int(addr-bus.RangeROMStart), buf)
}

func (p *romPeer) Write(uint64, []byte) (int, error) {
	return 0, fmt.Errorf("soc: write to read-only firmware ROM")
}

// cachePeer is the per-core local cache: read/write-through to a
// growable buffer.
type cachePeer struct {
	mem *balloon.Balloon
}

func newCachePeer() *cachePeer {
	return &cachePeer{mem: balloon.New(CacheStep, CacheCap)}
}

func (p *cachePeer) Read(addr uint64, buf []byte) (int, error) {
	return p.mem.Read(int(addr-bus.RangeCacheStart), buf)
}

func (p *cachePeer) Write(addr uint64, buf []byte) (int, error) {
	return p.mem.Write(int(addr-bus.RangeCacheStart), buf)
}

// chipsetPeer holds the small chipset register file. memctl's CG
// (cache-gate) bit is sticky: once set, a write that would clear it is
// silently re-forced to 1, matching soc.c's ram_write gate check.
type chipsetPeer struct {
	regs [chipsetSize]byte
}

func newChipsetPeer() *chipsetPeer {
	return &chipsetPeer{}
}

func (p *chipsetPeer) cgSet() bool {
	return p.regs[0]&cgBit != 0
}

func (p *chipsetPeer) Read(addr uint64, buf []byte) (int, error) {
	off := int(addr - bus.RangeChipsetStart)
	n := len(buf)
	if off+n > len(p.regs) {
		n = len(p.regs) - off
	}
	if n < 0 {
		n = 0
	}
	copy(buf[:n], p.regs[off:off+n])
	return n, nil
}

func (p *chipsetPeer) Write(addr uint64, buf []byte) (int, error) {
	off := int(addr - bus.RangeChipsetStart)
	n := len(buf)
	if off+n > len(p.regs) {
		n = len(p.regs) - off
	}
	if n < 0 {
		return 0, nil
	}

	wasCG := p.cgSet()
	copy(p.regs[off:off+n], buf[:n])

	if wasCG && !p.cgSet() {
		p.regs[0] |= cgBit
	}
	return n, nil
}

// ramPeer is the main RAM balloon; access is rejected until the chipset's
// CG bit is set, matching original_source/emul/src/soc.c's ram_read/
// ram_write gate.
type ramPeer struct {
	mem     *balloon.Balloon
	chipset *chipsetPeer
}

func newRAMPeer(capBytes int, chipset *chipsetPeer) *ramPeer {
	return &ramPeer{mem: balloon.New(8, capBytes), chipset: chipset}
}

func (p *ramPeer) Read(addr uint64, buf []byte) (int, error) {
	if !p.chipset.cgSet() {
		return 0, fmt.Errorf("soc: main RAM access before cache-gate set")
	}
	return p.mem.Read(int(addr-bus.RangeRAMStart), buf)
}

func (p *ramPeer) Write(addr uint64, buf []byte) (int, error) {
	if !p.chipset.cgSet() {
		return 0, fmt.Errorf("soc: main RAM access before cache-gate set")
	}
	return p.mem.Write(int(addr-bus.RangeRAMStart), buf)
}

// SoC is a fully wired system-on-chip: bus, CPU, and the four peers from
// the original spec's §4.7.
type SoC struct {
	Bus *bus.Router
	CPU *cpu.Domain

	rom     *romPeer
	cache   *cachePeer
	chipset *chipsetPeer
	ram     *ramPeer
}

// PowerUp constructs a SoC with memCapBytes of main RAM and wires every
// peer to the bus before the CPU is reset, mirroring soc_power_up's
// ordering (peers installed, then cpu_power_up resets the domain).
func PowerUp(memCapBytes int) (*SoC, error) {
	router := bus.NewRouter()

	rom := newROMPeer()
	cache := newCachePeer()
	chipset := newChipsetPeer()
	ram := newRAMPeer(memCapBytes, chipset)

	if err := router.PeerSet(rom, bus.RangeROMStart); err != nil {
		return nil, err
	}
	if err := router.PeerSet(cache, bus.RangeCacheStart); err != nil {
		return nil, err
	}
	if err := router.PeerSet(chipset, bus.RangeChipsetStart); err != nil {
		return nil, err
	}
	if err := router.PeerSet(ram, bus.RangeRAMStart); err != nil {
		return nil, err
	}

	domain := cpu.New(0, router)

	return &SoC{Bus: router, CPU: domain, rom: rom, cache: cache, chipset: chipset, ram: ram}, nil
}

// LoadFirmware mmaps path read-only and flashes its contents into the ROM
// peer, matching the original spec's §6 firmware-loading contract: the
// file size must be strictly less than the local-cache size.
func (s *SoC) LoadFirmware(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size >= CacheCap {
		return fmt.Errorf("soc: firmware size %d must be strictly less than %d", size, CacheCap)
	}
	if size == 0 {
		return fmt.Errorf("soc: empty firmware file")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	defer unix.Munmap(data)

	return s.rom.Flash(data)
}
