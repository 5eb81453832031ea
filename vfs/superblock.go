package vfs

import (
	"encoding/binary"
)

const (
	Magic     = 0x4D565346
	Version   = 1
	BlockSize = 4096

	SuperblockSize = 116
)

// Byte offsets of the superblock fields inside block 0.
const (
	sbMagicOffset             = 0
	sbVersionOffset           = 4
	sbBlockSizeOffset         = 8
	sbTotalBlocksOffset       = 12
	sbInodeCountOffset        = 20
	sbInodeBitmapStartOffset  = 28
	sbInodeBitmapBlocksOffset = 36
	sbDataBitmapStartOffset   = 44
	sbDataBitmapBlocksOffset  = 52
	sbInodeTableStartOffset   = 60
	sbInodeTableBlocksOffset  = 68
	sbDataRegionStartOffset   = 76
	sbDataRegionBlocksOffset  = 84
	sbRootInodeOffset         = 92
	sbMtimeOffset             = 100
	sbFlagsOffset             = 108
	sbChecksumOffset          = 112
)

type Superblock struct {
	Magic             uint32
	Version           uint32
	BlockSize         uint32
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
	RootInode         uint64
	MtimeEpoch        uint64
	Flags             uint32
	Checksum          uint32
}

func NewPreparedSuperblock(layout Layout, mtime uint64, flags uint32) Superblock {
	return Superblock{
		Magic:             Magic,
		Version:           Version,
		BlockSize:         BlockSize,
		TotalBlocks:       layout.TotalBlocks,
		InodeCount:        layout.InodeCount,
		InodeBitmapStart:  layout.InodeBitmapStart,
		InodeBitmapBlocks: layout.InodeBitmapBlocks,
		DataBitmapStart:   layout.DataBitmapStart,
		DataBitmapBlocks:  layout.DataBitmapBlocks,
		InodeTableStart:   layout.InodeTableStart,
		InodeTableBlocks:  layout.InodeTableBlocks,
		DataRegionStart:   layout.DataRegionStart,
		DataRegionBlocks:  layout.DataRegionBlocks,
		RootInode:         uint64(RootInode),
		MtimeEpoch:        mtime,
		Flags:             flags,
	}
}

// Encode writes every field into the first SuperblockSize bytes of block.
// The rest of the block is left untouched.
func (s Superblock) Encode(block []byte) {
	le := binary.LittleEndian
	le.PutUint32(block[sbMagicOffset:], s.Magic)
	le.PutUint32(block[sbVersionOffset:], s.Version)
	le.PutUint32(block[sbBlockSizeOffset:], s.BlockSize)
	le.PutUint64(block[sbTotalBlocksOffset:], s.TotalBlocks)
	le.PutUint64(block[sbInodeCountOffset:], s.InodeCount)
	le.PutUint64(block[sbInodeBitmapStartOffset:], s.InodeBitmapStart)
	le.PutUint64(block[sbInodeBitmapBlocksOffset:], s.InodeBitmapBlocks)
	le.PutUint64(block[sbDataBitmapStartOffset:], s.DataBitmapStart)
	le.PutUint64(block[sbDataBitmapBlocksOffset:], s.DataBitmapBlocks)
	le.PutUint64(block[sbInodeTableStartOffset:], s.InodeTableStart)
	le.PutUint64(block[sbInodeTableBlocksOffset:], s.InodeTableBlocks)
	le.PutUint64(block[sbDataRegionStartOffset:], s.DataRegionStart)
	le.PutUint64(block[sbDataRegionBlocksOffset:], s.DataRegionBlocks)
	le.PutUint64(block[sbRootInodeOffset:], s.RootInode)
	le.PutUint64(block[sbMtimeOffset:], s.MtimeEpoch)
	le.PutUint32(block[sbFlagsOffset:], s.Flags)
	le.PutUint32(block[sbChecksumOffset:], s.Checksum)
}

func DecodeSuperblock(block []byte) Superblock {
	le := binary.LittleEndian
	return Superblock{
		Magic:             le.Uint32(block[sbMagicOffset:]),
		Version:           le.Uint32(block[sbVersionOffset:]),
		BlockSize:         le.Uint32(block[sbBlockSizeOffset:]),
		TotalBlocks:       le.Uint64(block[sbTotalBlocksOffset:]),
		InodeCount:        le.Uint64(block[sbInodeCountOffset:]),
		InodeBitmapStart:  le.Uint64(block[sbInodeBitmapStartOffset:]),
		InodeBitmapBlocks: le.Uint64(block[sbInodeBitmapBlocksOffset:]),
		DataBitmapStart:   le.Uint64(block[sbDataBitmapStartOffset:]),
		DataBitmapBlocks:  le.Uint64(block[sbDataBitmapBlocksOffset:]),
		InodeTableStart:   le.Uint64(block[sbInodeTableStartOffset:]),
		InodeTableBlocks:  le.Uint64(block[sbInodeTableBlocksOffset:]),
		DataRegionStart:   le.Uint64(block[sbDataRegionStartOffset:]),
		DataRegionBlocks:  le.Uint64(block[sbDataRegionBlocksOffset:]),
		RootInode:         le.Uint64(block[sbRootInodeOffset:]),
		MtimeEpoch:        le.Uint64(block[sbMtimeOffset:]),
		Flags:             le.Uint32(block[sbFlagsOffset:]),
		Checksum:          le.Uint32(block[sbChecksumOffset:]),
	}
}

// Save encodes the superblock into block 0 and finalizes its checksum. It
// must be the last write of any mutation since the checksum covers the
// whole block.
func (s *Superblock) Save(block []byte) {
	s.Encode(block)
	s.Checksum = FinalizeSuperblockChecksum(block)
}
