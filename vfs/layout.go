package vfs

// Bounds accepted by the creation tool.
const (
	MinSizeKiB         = 180
	MaxSizeKiB         = 4096
	SizeGranularityKiB = 4
	MinInodes          = 128
	MaxInodes          = 512
)

// Each bitmap is a single block, which caps inodes and data blocks.
const MaxBitmapBits = BlockSize * 8

// Layout is the block map of an image: block 0 superblock, block 1 inode
// bitmap, block 2 data bitmap, then the inode table and the data region.
type Layout struct {
	TotalBlocks       uint64
	InodeCount        uint64
	InodeBitmapStart  uint64
	InodeBitmapBlocks uint64
	DataBitmapStart   uint64
	DataBitmapBlocks  uint64
	InodeTableStart   uint64
	InodeTableBlocks  uint64
	DataRegionStart   uint64
	DataRegionBlocks  uint64
}

// LayoutFor validates the requested size and inode count and computes the
// layout of an image of that size.
func LayoutFor(sizeKiB, inodeCount uint64) (Layout, error) {
	if sizeKiB < MinSizeKiB || sizeKiB > MaxSizeKiB {
		return Layout{}, validationErrorf("--size-kib must be between %d and %d", MinSizeKiB, MaxSizeKiB)
	}
	if sizeKiB%SizeGranularityKiB != 0 {
		return Layout{}, validationErrorf("--size-kib must be a multiple of %d", SizeGranularityKiB)
	}
	if inodeCount < MinInodes || inodeCount > MaxInodes {
		return Layout{}, validationErrorf("--inodes must be between %d and %d", MinInodes, MaxInodes)
	}

	return NewLayout(sizeKiB*1024/BlockSize, inodeCount)
}

func NewLayout(totalBlocks, inodeCount uint64) (Layout, error) {
	inodeTableBlocks := (inodeCount*InodeSize + BlockSize - 1) / BlockSize
	dataRegionStart := 3 + inodeTableBlocks

	if totalBlocks < dataRegionStart+1 {
		return Layout{}, capacityErrorf("not enough space for data region (%d blocks total, %d needed for metadata)",
			totalBlocks, dataRegionStart)
	}

	return Layout{
		TotalBlocks:       totalBlocks,
		InodeCount:        inodeCount,
		InodeBitmapStart:  1,
		InodeBitmapBlocks: 1,
		DataBitmapStart:   2,
		DataBitmapBlocks:  1,
		InodeTableStart:   3,
		InodeTableBlocks:  inodeTableBlocks,
		DataRegionStart:   dataRegionStart,
		DataRegionBlocks:  totalBlocks - dataRegionStart,
	}, nil
}

func (l Layout) SizeBytes() uint64 {
	return l.TotalBlocks * BlockSize
}
