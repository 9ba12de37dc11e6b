package bus

import "testing"

type fakePeer struct {
	store map[uint64]byte
}

func newFakePeer() *fakePeer { return &fakePeer{store: map[uint64]byte{}} }

func (p *fakePeer) Read(addr uint64, buf []byte) (int, error) {
	for i := range buf {
		buf[i] = p.store[addr+uint64(i)]
	}
	return len(buf), nil
}

func (p *fakePeer) Write(addr uint64, buf []byte) (int, error) {
	for i, b := range buf {
		p.store[addr+uint64(i)] = b
	}
	return len(buf), nil
}

func TestRouteToInstalledPeer(t *testing.T) {
	r := NewRouter()
	p := newFakePeer()
	if err := r.PeerSet(p, RangeCacheStart); err != nil {
		t.Fatalf("PeerSet: %v", err)
	}
	if _, err := r.Write(RangeCacheStart+4, []byte{0xAB}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := make([]byte, 1)
	if _, err := r.Read(RangeCacheStart+4, got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got[0] != 0xAB {
		t.Fatalf("got %#x, want 0xAB", got[0])
	}
}

func TestDoubleInstallRejected(t *testing.T) {
	r := NewRouter()
	if err := r.PeerSet(newFakePeer(), RangeROMStart); err != nil {
		t.Fatalf("first PeerSet: %v", err)
	}
	if err := r.PeerSet(newFakePeer(), RangeROMStart); err == nil {
		t.Fatal("expected the second PeerSet to fail")
	}
}

func TestUnmappedAddressFails(t *testing.T) {
	r := NewRouter()
	if _, err := r.PeerGet(0x108000); err == nil {
		t.Fatal("expected an error for an address outside every range")
	}
}

func TestNoPeerInstalledYetFails(t *testing.T) {
	r := NewRouter()
	if _, err := r.PeerGet(RangeChipsetStart); err == nil {
		t.Fatal("expected an error for an empty range")
	}
}

func TestUnboundedRAMRange(t *testing.T) {
	r := NewRouter()
	p := newFakePeer()
	if err := r.PeerSet(p, RangeRAMStart); err != nil {
		t.Fatalf("PeerSet: %v", err)
	}
	if _, err := r.PeerGet(RangeRAMStart + 0x7FFFFFFF); err != nil {
		t.Fatalf("expected the RAM range to accept a far address, got %v", err)
	}
}
