package vfs_test

import (
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/pkg/errors"
)

var formatTime = time.Unix(1700000000, 0)

func prepareFS(t *testing.T, sizeKiB, inodes uint64) *vfs.Filesystem {
	layout, err := vfs.LayoutFor(sizeKiB, inodes)
	if err != nil {
		t.Fatal(err)
	}

	fs, err := vfs.NewFilesystem(layout, vfs.FormatOptions{
		Seed: 42,
		Now:  func() time.Time { return formatTime },
	})
	if err != nil {
		t.Fatal(err)
	}

	return fs
}

func TestCreateMinimalFilesystem(t *testing.T) {
	fs := prepareFS(t, 180, 128)

	if fs.Volume.Size() != 180*1024 {
		t.Fatalf("volume has %d bytes", fs.Volume.Size())
	}

	block, err := fs.Volume.ReadBytes(0, vfs.BlockSize)
	if err != nil {
		t.Fatal(err)
	}
	s := vfs.DecodeSuperblock(block)

	if s.Magic != vfs.Magic || s.Version != 1 || s.BlockSize != vfs.BlockSize {
		t.Errorf("bad identification fields: %+v", s)
	}
	if s.TotalBlocks != 45 || s.InodeCount != 128 {
		t.Errorf("bad sizes: %d blocks, %d inodes", s.TotalBlocks, s.InodeCount)
	}
	if s.InodeTableBlocks != 4 || s.DataRegionStart != 7 || s.DataRegionBlocks != 38 {
		t.Errorf("bad regions: table %d blocks, data %d+%d", s.InodeTableBlocks, s.DataRegionStart, s.DataRegionBlocks)
	}
	if s.RootInode != 1 || s.MtimeEpoch != uint64(formatTime.Unix()) {
		t.Errorf("bad root %d or mtime %d", s.RootInode, s.MtimeEpoch)
	}
	if s.Flags != rand.New(rand.NewSource(42)).Uint32() {
		t.Errorf("flags 0x%08X do not come from the seed", s.Flags)
	}
	if !vfs.VerifySuperblockChecksum(block) {
		t.Error("superblock checksum does not verify")
	}

	if fs.InodeBitmap.Count() != 1 || fs.DataBitmap.Count() != 1 {
		t.Errorf("expected one inode and one block in use, got %d and %d",
			fs.InodeBitmap.Count(), fs.DataBitmap.Count())
	}
	if used, _ := fs.InodeBitmap.GetBit(0); !used {
		t.Error("root inode is not marked in the bitmap")
	}
	if used, _ := fs.DataBitmap.GetBit(0); !used {
		t.Error("root directory block is not marked in the bitmap")
	}
	if fs.FreeDataBlocks() != 37 {
		t.Errorf("expected 37 free data blocks, got %d", fs.FreeDataBlocks())
	}
}

func TestRootInodeAndDirectory(t *testing.T) {
	fs := prepareFS(t, 180, 128)

	root, err := vfs.LoadMutableInode(fs, vfs.RootInode)
	if err != nil {
		t.Fatal(err)
	}

	inode := root.Inode
	if !inode.IsDir() || inode.Links != 2 || inode.Size != 128 {
		t.Errorf("bad root inode: mode %o links %d size %d", inode.Mode, inode.Links, inode.Size)
	}
	if inode.Direct[0] != 7 || len(inode.UsedPtrs()) != 1 {
		t.Errorf("root directory should occupy block 7 only, got %v", inode.Direct)
	}
	if inode.Atime != uint64(formatTime.Unix()) || inode.XattrPtr != 0 {
		t.Errorf("bad root timestamps or xattr: %+v", inode)
	}

	record, err := fs.Volume.ReadBytes(vfs.InodePtrToVolumePtr(fs.Superblock, vfs.RootInode), vfs.InodeSize)
	if err != nil {
		t.Fatal(err)
	}
	if !vfs.VerifyInodeChecksum(record) {
		t.Error("root inode checksum does not verify")
	}

	entries, err := vfs.ReadAllDirectoryEntries(fs)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != vfs.EntriesPerBlock {
		t.Fatalf("expected %d slots, got %d", vfs.EntriesPerBlock, len(entries))
	}

	for i, name := range []string{".", ".."} {
		entry := entries[i]
		if entry.NameString() != name || entry.InodePtr != vfs.RootInode || entry.Type != vfs.TypeDirectory {
			t.Errorf("slot %d: %+v", i, entry)
		}
	}
	for i := 2; i < len(entries); i++ {
		if !entries[i].IsFree() {
			t.Errorf("slot %d is not free", i)
		}
	}

	region, err := vfs.RootDirectoryRegion(fs)
	if err != nil {
		t.Fatal(err)
	}
	block, err := fs.Volume.Slice(region)
	if err != nil {
		t.Fatal(err)
	}
	if !vfs.VerifyDirectoryEntryChecksum(block[:64]) || !vfs.VerifyDirectoryEntryChecksum(block[64:128]) {
		t.Error("directory entry checksums do not verify")
	}
}

func TestSameSeedSameFlags(t *testing.T) {
	a := prepareFS(t, 180, 128)
	b := prepareFS(t, 180, 128)

	if a.Superblock.Flags != b.Superblock.Flags {
		t.Error("flags differ for the same seed")
	}
}

func TestSaveAndLoadFilesystem(t *testing.T) {
	fs := prepareFS(t, 256, 256)
	path := filepath.Join(t.TempDir(), "disk.img")

	err := fs.WriteStructureToVolume(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !vfs.Exists(path) {
		t.Fatal("image was not written")
	}

	loaded, err := vfs.LoadFilesystem(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Superblock != fs.Superblock {
		t.Errorf("superblock %+v\nexpected %+v", loaded.Superblock, fs.Superblock)
	}
	if loaded.InodeBitmap.Count() != 1 || loaded.DataBitmap.Count() != 1 {
		t.Error("bitmaps were not mapped from the loaded image")
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	fs := prepareFS(t, 180, 128)
	data := fs.Volume.Bytes()
	data[0] ^= 0xFF

	_, err := vfs.NewFilesystemFromVolume(vfs.NewVolumeFromBytes(data))

	switch errors.Cause(err).(type) {
	case vfs.InvalidMagic:
		return
	default:
		t.Fatalf("bad error: %v\nexpected InvalidMagic", err)
	}
}

func TestLoadRejectsTruncatedImage(t *testing.T) {
	fs := prepareFS(t, 180, 128)
	path := filepath.Join(t.TempDir(), "short.img")

	err := ioutil.WriteFile(path, fs.Volume.Bytes()[:20*vfs.BlockSize], 0644)
	if err != nil {
		t.Fatal(err)
	}

	_, err = vfs.LoadFilesystem(path)
	if err == nil {
		t.Fatal("truncated image was accepted")
	}
	if vfs.ErrorClass(err) != vfs.ClassIO {
		t.Errorf("expected io error, got %s", vfs.ErrorClass(err))
	}
}

func TestLoadMissingImage(t *testing.T) {
	_, err := vfs.LoadFilesystem(filepath.Join(t.TempDir(), "missing.img"))
	if err == nil {
		t.Fatal("missing image was accepted")
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
