package vfs_test

import (
	"testing"

	"github.com/PapiCZ/minivsfs/vfs"
)

func TestLayoutMinimalImage(t *testing.T) {
	layout, err := vfs.LayoutFor(180, 128)
	if err != nil {
		t.Fatal(err)
	}

	expected := vfs.Layout{
		TotalBlocks:       45,
		InodeCount:        128,
		InodeBitmapStart:  1,
		InodeBitmapBlocks: 1,
		DataBitmapStart:   2,
		DataBitmapBlocks:  1,
		InodeTableStart:   3,
		InodeTableBlocks:  4,
		DataRegionStart:   7,
		DataRegionBlocks:  38,
	}
	if layout != expected {
		t.Fatalf("layout %+v\nexpected %+v", layout, expected)
	}
	if layout.SizeBytes() != 180*1024 {
		t.Errorf("image size is %d bytes", layout.SizeBytes())
	}
}

func TestLayoutRoundsInodeTableUp(t *testing.T) {
	layout, err := vfs.LayoutFor(4096, 129)
	if err != nil {
		t.Fatal(err)
	}

	if layout.InodeTableBlocks != 5 {
		t.Errorf("129 inodes need 5 table blocks, got %d", layout.InodeTableBlocks)
	}
	if layout.DataRegionStart != 8 || layout.DataRegionBlocks != 1024-8 {
		t.Errorf("unexpected data region %d+%d", layout.DataRegionStart, layout.DataRegionBlocks)
	}
}

func TestLayoutRejectsBadArguments(t *testing.T) {
	cases := []struct {
		sizeKiB uint64
		inodes  uint64
	}{
		{176, 128},
		{4100, 128},
		{182, 128},
		{180, 127},
		{180, 513},
		{0, 0},
	}

	for _, c := range cases {
		_, err := vfs.LayoutFor(c.sizeKiB, c.inodes)
		if !vfs.IsValidationError(err) {
			t.Errorf("LayoutFor(%d, %d): expected validation error, got %v", c.sizeKiB, c.inodes, err)
		}
	}
}

func TestLayoutWithoutDataRegion(t *testing.T) {
	_, err := vfs.NewLayout(7, 128)

	switch err.(type) {
	case vfs.CapacityError:
		return
	default:
		t.Fatalf("bad error: %v\nexpected CapacityError", err)
	}
}
