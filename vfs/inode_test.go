package vfs_test

import (
	"encoding/binary"
	"testing"

	"github.com/PapiCZ/minivsfs/vfs"
)

func TestInodeFieldOffsets(t *testing.T) {
	inode := vfs.Inode{
		Mode:     vfs.ModeFile,
		Links:    1,
		Size:     10000,
		Mtime:    1700000000,
		ProjID:   3,
		XattrPtr: 0,
	}
	inode.Direct[0] = 8
	inode.Direct[11] = 19

	record := inode.Bytes()
	le := binary.LittleEndian

	if le.Uint16(record[0:]) != vfs.ModeFile || le.Uint16(record[2:]) != 1 {
		t.Errorf("mode or links at the wrong offset: % x", record[:4])
	}
	if le.Uint64(record[12:]) != 10000 {
		t.Errorf("size at the wrong offset: % x", record[12:20])
	}
	if le.Uint64(record[28:]) != 1700000000 {
		t.Errorf("mtime at the wrong offset: % x", record[28:36])
	}
	if le.Uint32(record[44:]) != 8 || le.Uint32(record[88:]) != 19 {
		t.Errorf("direct pointers at the wrong offset: % x", record[44:92])
	}
	if le.Uint32(record[104:]) != 3 {
		t.Errorf("proj_id at the wrong offset: % x", record[104:108])
	}

	decoded := vfs.DecodeInode(record[:])
	if decoded != inode {
		t.Errorf("decoded inode %+v\nexpected %+v", decoded, inode)
	}
}

func TestSaveAndLoadInode(t *testing.T) {
	fs := prepareFS(t, 180, 128)

	inode := vfs.Inode{Mode: vfs.ModeFile, Links: 1, Size: 5}
	inode.Direct[0] = 9
	err := vfs.MutableInode{Inode: &inode, InodePtr: 128}.Save(fs)
	if err != nil {
		t.Fatal(err)
	}

	// Inode 128 is the last slot of a 4 block table.
	ptr := vfs.InodePtrToVolumePtr(fs.Superblock, 128)
	if ptr != 7*vfs.BlockSize-vfs.InodeSize {
		t.Errorf("inode 128 lives at %d", ptr)
	}
	if vfs.VolumePtrToInodePtr(fs.Superblock, ptr) != 128 {
		t.Error("volume pointer does not map back to inode 128")
	}

	loaded, err := vfs.LoadMutableInode(fs, 128)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded.Inode != inode {
		t.Errorf("loaded inode %+v\nexpected %+v", *loaded.Inode, inode)
	}
}
