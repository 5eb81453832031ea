package vfs_test

import (
	"testing"

	"github.com/PapiCZ/minivsfs/vfs"
)

func TestSetAndGetBit(t *testing.T) {
	bitmap := vfs.NewBitmap(16)
	bitmap.SetBit(9)

	val, err := bitmap.GetBit(9)
	if err != nil {
		t.Fatal(err)
	}
	if !val {
		t.Fatal("written and read bit is not same!")
	}

	val, err = bitmap.GetBit(8)
	if err != nil {
		t.Fatal(err)
	}
	if val {
		t.Fatal("neighbouring bit was set")
	}

	if bitmap[1] != 0x02 {
		t.Errorf("bit 9 should live in byte 1 at position 1, got %08b", bitmap[1])
	}
}

func TestOutOfRangeFail(t *testing.T) {
	bitmap := vfs.NewBitmap(8)
	_, err := bitmap.GetBit(8)

	switch err.(type) {
	case vfs.OutOfRange:
		return
	default:
		t.Fatalf("bad error: %s\nexpected OutOfRange", err)
	}
}

func TestFindFreeBitInFullBitmap(t *testing.T) {
	bitmap := vfs.NewBitmap(64)
	for i := range bitmap {
		bitmap[i] = 0xFF
	}

	_, ok := bitmap.FindFreeBit(64)
	if ok {
		t.Fatal("found a free bit in a full bitmap")
	}
}

func TestFindFreeBitSingleClear(t *testing.T) {
	for _, k := range []uint64{0, 7, 8, 13, 63} {
		bitmap := vfs.NewBitmap(64)
		for i := range bitmap {
			bitmap[i] = 0xFF
		}
		bitmap[k/8] &^= 1 << (k % 8)

		position, ok := bitmap.FindFreeBit(64)
		if !ok || position != k {
			t.Errorf("expected free bit %d, got %d (found %v)", k, position, ok)
		}
	}
}

func TestFindFreeBitRespectsLimit(t *testing.T) {
	bitmap := vfs.NewBitmap(32)
	bitmap[0] = 0xFF
	bitmap[1] = 0x0F

	position, ok := bitmap.FindFreeBit(13)
	if !ok || position != 12 {
		t.Errorf("expected free bit 12, got %d (found %v)", position, ok)
	}

	_, ok = bitmap.FindFreeBit(12)
	if ok {
		t.Error("free bit beyond the limit was returned")
	}
}

func TestBitmapCount(t *testing.T) {
	bitmap := vfs.NewBitmap(32)
	if bitmap.Count() != 0 {
		t.Fatalf("new bitmap has %d bits set", bitmap.Count())
	}

	for _, position := range []uint64{0, 1, 9, 31} {
		bitmap.SetBit(position)
	}
	bitmap.SetBit(9)

	if bitmap.Count() != 4 {
		t.Errorf("expected 4 bits set, got %d", bitmap.Count())
	}
	if bitmap.Len() != 32 {
		t.Errorf("expected 32 bits, got %d", bitmap.Len())
	}
}
