package vfs

import "github.com/PapiCZ/minivsfs/logging"

// FindFreeInode returns the lowest free inode number. The bitmap is left
// untouched; the caller marks the bit once everything else succeeded.
func FindFreeInode(fs *Filesystem) (InodePtr, error) {
	maxBits := fs.Superblock.InodeCount
	if maxBits > MaxBitmapBits {
		maxBits = MaxBitmapBits
	}

	position, ok := fs.InodeBitmap.FindFreeBit(maxBits)
	if !ok {
		return 0, capacityErrorf("no free inodes available")
	}

	logging.Debug("msg", "found free inode", "inode", position+1)
	return InodePtr(position + 1), nil
}

// FindFreeDataBlocks collects the first n clear data bitmap positions in one
// ascending scan over the data region and returns them as absolute block
// numbers. The bitmap is left untouched.
func FindFreeDataBlocks(fs *Filesystem, n uint64) ([]BlockPtr, error) {
	blocks := make([]BlockPtr, 0, n)
	if n == 0 {
		return blocks, nil
	}

	limit := fs.Superblock.DataRegionBlocks
	if limit > fs.DataBitmap.Len() {
		limit = fs.DataBitmap.Len()
	}

	for i := uint64(0); i < limit && uint64(len(blocks)) < n; i++ {
		used, err := fs.DataBitmap.GetBit(i)
		if err != nil {
			return nil, err
		}
		if !used {
			blocks = append(blocks, DataIndexToBlockPtr(fs.Superblock, i))
		}
	}

	if uint64(len(blocks)) < n {
		return nil, capacityErrorf("not enough free data blocks (need %d, found %d)", n, len(blocks))
	}

	logging.Debug("msg", "found free data blocks", "count", n, "first", blocks[0])
	return blocks, nil
}

// MarkAllocated sets the bitmap bits of an inode and its data blocks.
func MarkAllocated(fs *Filesystem, inodePtr InodePtr, blocks []BlockPtr) {
	fs.InodeBitmap.SetBit(uint64(inodePtr - 1))
	for _, block := range blocks {
		fs.DataBitmap.SetBit(BlockPtrToDataIndex(fs.Superblock, block))
	}
}
