package balloon

import (
	"bytes"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	b := New(8, 64)
	want := []byte{1, 2, 3, 4}
	if _, err := b.Write(2, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := make([]byte, 4)
	if _, err := b.Read(2, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGrowsByStepUpToCap(t *testing.T) {
	b := New(8, 32)
	if b.Len() != 8 {
		t.Fatalf("initial Len() = %d, want 8", b.Len())
	}
	if _, err := b.Write(10, []byte{0xFF}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if b.Len() != 16 {
		t.Fatalf("Len() after growth = %d, want 16", b.Len())
	}
}

func TestWriteBeyondCapFails(t *testing.T) {
	b := New(8, 16)
	if _, err := b.Write(20, []byte{1}); err == nil {
		t.Fatal("expected an error writing past cap")
	}
}

func TestDestroyDropsBackingStore(t *testing.T) {
	b := New(8, 16)
	b.Destroy()
	if b.Len() != 0 {
		t.Fatalf("Len() after Destroy() = %d, want 0", b.Len())
	}
}
