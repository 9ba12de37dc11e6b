// Package bus implements the emulator's address->peer routing table.
//
// Grounded on original_source/emul/src/busctl.c: a fixed, small array of
// half-open ranges, linear lookup, install-once-per-range semantics. Per
// the original spec's "global singletons" design note, the Router here is
// an explicit value constructed and passed into the SoC rather than a
// module-local static array.
package bus

import "fmt"

// Error reports a routing failure (no device at an address, or a range
// already occupied).
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Peer is a bus-attached handler owning a half-open address range.
type Peer interface {
	Read(addr uint64, buf []byte) (int, error)
	Write(addr uint64, buf []byte) (int, error)
}

type rangeEntry struct {
	start, end uint64 // end == 0 means unbounded (main RAM)
	peer       Peer
}

// Router is the fixed memory map described in the original spec's §4.5:
// firmware ROM, local cache, chipset registers, main RAM.
type Router struct {
	ranges []rangeEntry
}

// Memory map addresses, ported from original_source/emul/src/busctl.c
// and soc.c.
const (
	RangeROMStart     = 0x00000000
	RangeROMEnd       = 0x00100000
	RangeCacheStart   = 0x00100000
	RangeCacheEnd     = 0x00101000
	RangeChipsetStart = 0x00110000
	RangeChipsetEnd   = 0x00111000
	RangeRAMStart     = 0x00116000
)

// NewRouter returns a Router pre-populated with the fixed, empty address
// ranges; PeerSet installs a handler into the range containing its
// address.
func NewRouter() *Router {
	return &Router{ranges: []rangeEntry{
		{start: RangeROMStart, end: RangeROMEnd},
		{start: RangeCacheStart, end: RangeCacheEnd},
		{start: RangeChipsetStart, end: RangeChipsetEnd},
		{start: RangeRAMStart, end: 0},
	}}
}

func (r *Router) findRange(addr uint64) *rangeEntry {
	for i := range r.ranges {
		e := &r.ranges[i]
		if addr >= e.start && (e.end == 0 || addr < e.end) {
			return e
		}
	}
	return nil
}

// PeerGet returns the peer installed at addr's range, or an error if no
// range contains addr or none is installed there yet.
func (r *Router) PeerGet(addr uint64) (Peer, error) {
	e := r.findRange(addr)
	if e == nil {
		return nil, &Error{Msg: fmt.Sprintf("no device at address %#x", addr)}
	}
	if e.peer == nil {
		return nil, &Error{Msg: fmt.Sprintf("no peer installed at address %#x", addr)}
	}
	return e.peer, nil
}

// PeerSet installs peer into the range containing addr. Re-installing
// into an already-occupied range is rejected.
func (r *Router) PeerSet(peer Peer, addr uint64) error {
	e := r.findRange(addr)
	if e == nil {
		return &Error{Msg: fmt.Sprintf("no device at address %#x", addr)}
	}
	if e.peer != nil {
		return &Error{Msg: fmt.Sprintf("peer already installed at address %#x", addr)}
	}
	e.peer = peer
	return nil
}

// Read/Write route a memory access through the peer owning addr's range.
func (r *Router) Read(addr uint64, buf []byte) (int, error) {
	p, err := r.PeerGet(addr)
	if err != nil {
		return 0, err
	}
	return p.Read(addr, buf)
}

func (r *Router) Write(addr uint64, buf []byte) (int, error) {
	p, err := r.PeerGet(addr)
	if err != nil {
		return 0, err
	}
	return p.Write(addr, buf)
}
