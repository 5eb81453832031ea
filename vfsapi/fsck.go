package vfsapi

import (
	"fmt"

	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/willf/bitset"
)

// Problem is one inconsistency found by FsCheck.
type Problem struct {
	Where  string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Where, p.Reason)
}

type CheckFailed struct {
	Problems []Problem
}

func (c CheckFailed) Error() string {
	if len(c.Problems) == 1 {
		return "filesystem check failed: " + c.Problems[0].String()
	}
	return fmt.Sprintf("filesystem check failed with %d problems, first: %s", len(c.Problems), c.Problems[0])
}

// FsCheck verifies every checksum reachable from the root directory, the
// inode fields, and that both bitmaps mark exactly the inodes and
// blocks that are referenced.
func FsCheck(fs *vfs.Filesystem) error {
	var problems []Problem
	report := func(where, format string, args ...interface{}) {
		problems = append(problems, Problem{Where: where, Reason: fmt.Sprintf(format, args...)})
	}

	sb := fs.Superblock
	block, err := fs.Volume.ReadBytes(0, vfs.BlockSize)
	if err != nil {
		return err
	}
	if !vfs.VerifySuperblockChecksum(block) {
		report("superblock", "checksum mismatch")
	}

	referencedInodes := bitset.New(uint(fs.InodeBitmap.Len()))
	referencedBlocks := bitset.New(uint(fs.DataBitmap.Len()))

	checkInode := func(inodePtr vfs.InodePtr) {
		where := fmt.Sprintf("inode %d", inodePtr)
		if inodePtr == 0 || uint64(inodePtr) > sb.InodeCount {
			report(where, "inode number out of range 1..%d", sb.InodeCount)
			return
		}
		if referencedInodes.Test(uint(inodePtr - 1)) {
			return
		}
		referencedInodes.Set(uint(inodePtr - 1))

		record, err := fs.Volume.ReadBytes(vfs.InodePtrToVolumePtr(sb, inodePtr), vfs.InodeSize)
		if err != nil {
			report(where, "%v", err)
			return
		}
		if !vfs.VerifyInodeChecksum(record) {
			report(where, "checksum mismatch")
		}

		inode := vfs.DecodeInode(record)
		if !inode.IsDir() && !inode.IsFile() {
			report(where, "invalid mode %o", inode.Mode)
		}
		if inode.XattrPtr != 0 {
			report(where, "xattr pointer is %d, expected 0", inode.XattrPtr)
		}

		used := inode.UsedPtrs()
		if inode.IsFile() && uint64(len(used)) != vfs.BlocksNeeded(inode.Size) {
			report(where, "size %d needs %d blocks but %d are referenced",
				inode.Size, vfs.BlocksNeeded(inode.Size), len(used))
		}

		for _, ptr := range used {
			if uint64(ptr) < sb.DataRegionStart || uint64(ptr) >= sb.DataRegionStart+sb.DataRegionBlocks {
				report(where, "block %d outside the data region", ptr)
				continue
			}
			index := uint(vfs.BlockPtrToDataIndex(sb, ptr))
			if referencedBlocks.Test(index) {
				report(where, "block %d is referenced twice", ptr)
			}
			referencedBlocks.Set(index)
		}
	}

	checkInode(vfs.RootInode)

	region, err := vfs.RootDirectoryRegion(fs)
	if err != nil {
		return err
	}
	entries, err := fs.Volume.Slice(region)
	if err != nil {
		return err
	}

	live := uint64(0)
	for i := 0; i < vfs.EntriesPerBlock; i++ {
		record := entries[i*vfs.DirectoryEntrySize : (i+1)*vfs.DirectoryEntrySize]
		entry := vfs.DecodeDirectoryEntry(record)
		if entry.IsFree() {
			continue
		}
		live++

		where := fmt.Sprintf("directory entry %d (%s)", i, entry.NameString())
		if !vfs.VerifyDirectoryEntryChecksum(record) {
			report(where, "checksum mismatch")
		}
		if entry.Type != vfs.TypeFile && entry.Type != vfs.TypeDirectory {
			report(where, "invalid type %d", entry.Type)
		}
		checkInode(entry.InodePtr)
	}

	root, err := vfs.LoadMutableInode(fs, vfs.RootInode)
	if err != nil {
		return err
	}
	if root.Inode.Size != live*vfs.DirectoryEntrySize {
		report("inode 1", "root size %d does not match %d entries", root.Inode.Size, live)
	}

	compareBitmap(fs.InodeBitmap, referencedInodes, func(i uint, onDisk bool) {
		if onDisk {
			report(fmt.Sprintf("inode %d", i+1), "marked used but not referenced")
		} else {
			report(fmt.Sprintf("inode %d", i+1), "referenced but marked free")
		}
	})
	compareBitmap(fs.DataBitmap, referencedBlocks, func(i uint, onDisk bool) {
		block := vfs.DataIndexToBlockPtr(sb, uint64(i))
		if onDisk {
			report(fmt.Sprintf("block %d", block), "marked used but not referenced")
		} else {
			report(fmt.Sprintf("block %d", block), "referenced but marked free")
		}
	})

	if len(problems) > 0 {
		return CheckFailed{Problems: problems}
	}
	return nil
}

func compareBitmap(bitmap vfs.Bitmap, referenced *bitset.BitSet, mismatch func(i uint, onDisk bool)) {
	onDisk := bitset.New(uint(bitmap.Len()))
	for i := uint64(0); i < bitmap.Len(); i++ {
		used, _ := bitmap.GetBit(i)
		if used {
			onDisk.Set(uint(i))
		}
	}

	diff := onDisk.SymmetricDifference(referenced)
	for i, ok := diff.NextSet(0); ok; i, ok = diff.NextSet(i + 1) {
		mismatch(i, onDisk.Test(i))
	}
}
