package vfs

import (
	"math/rand"
	"time"

	"github.com/PapiCZ/minivsfs/logging"
	"github.com/pkg/errors"
)

type Filesystem struct {
	Volume      *Volume
	Superblock  Superblock
	InodeBitmap Bitmap
	DataBitmap  Bitmap
}

type FormatOptions struct {
	// Seed feeds the generator behind the superblock flags word. Zero
	// means seed from the clock.
	Seed uint64
	Now  func() time.Time
}

func (o FormatOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// NewFilesystem builds a fresh image in memory: superblock, both bitmaps,
// the inode table with the root inode and the root directory block.
func NewFilesystem(layout Layout, opts FormatOptions) (*Filesystem, error) {
	if layout.DataRegionBlocks < 1 {
		return nil, capacityErrorf("not enough space for data region")
	}

	now := opts.now()
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(now.Unix())
	}
	flags := rand.New(rand.NewSource(int64(seed))).Uint32()

	fs := &Filesystem{
		Volume:     NewVolume(VolumePtr(layout.SizeBytes())),
		Superblock: NewPreparedSuperblock(layout, uint64(now.Unix()), flags),
	}

	err := fs.mapBitmaps()
	if err != nil {
		return nil, err
	}

	rootInode := Inode{
		Mode:   ModeDirectory,
		Links:  2,
		Size:   2 * DirectoryEntrySize,
		ProjID: 1,
	}
	rootInode.Touch(uint64(now.Unix()), true)
	rootInode.Direct[0] = BlockPtr(layout.DataRegionStart)

	err = MutableInode{Inode: &rootInode, InodePtr: RootInode}.Save(fs)
	if err != nil {
		return nil, err
	}

	err = InitRootDirectory(fs)
	if err != nil {
		return nil, err
	}

	fs.InodeBitmap.SetBit(uint64(RootInode - 1))
	fs.DataBitmap.SetBit(0)

	err = fs.SaveSuperblock()
	if err != nil {
		return nil, err
	}

	logging.Debug("msg", "formatted image", "total_blocks", layout.TotalBlocks,
		"inodes", layout.InodeCount, "data_region_start", layout.DataRegionStart,
		"data_region_blocks", layout.DataRegionBlocks, "flags", flags)

	return fs, nil
}

// NewFilesystemFromVolume opens an existing image. Region positions come from
// the stored superblock, not from a recomputed layout.
func NewFilesystemFromVolume(volume *Volume) (*Filesystem, error) {
	block, err := volume.ReadBytes(0, SuperblockSize)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read superblock")
	}

	sb := DecodeSuperblock(block)
	if sb.Magic != Magic {
		return nil, InvalidMagic{sb.Magic}
	}
	if sb.BlockSize != BlockSize {
		return nil, errors.Errorf("unsupported block size %d", sb.BlockSize)
	}

	fs := &Filesystem{
		Volume:     volume,
		Superblock: sb,
	}

	err = fs.mapBitmaps()
	if err != nil {
		return nil, err
	}

	_, err = volume.Slice(BlockRegion(sb.InodeTableStart, sb.InodeTableBlocks))
	if err != nil {
		return nil, errors.Wrap(err, "image truncated: inode table")
	}
	_, err = volume.Slice(BlockRegion(sb.DataRegionStart, sb.DataRegionBlocks))
	if err != nil {
		return nil, errors.Wrap(err, "image truncated: data region")
	}

	return fs, nil
}

// LoadFilesystem reads and opens the image at path.
func LoadFilesystem(path string) (*Filesystem, error) {
	volume, err := LoadVolume(path)
	if err != nil {
		return nil, err
	}

	fs, err := NewFilesystemFromVolume(volume)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open image %s", path)
	}

	return fs, nil
}

func (f *Filesystem) mapBitmaps() error {
	sb := f.Superblock

	inodeBitmap, err := f.Volume.Slice(BlockRegion(sb.InodeBitmapStart, sb.InodeBitmapBlocks))
	if err != nil {
		return errors.Wrap(err, "image truncated: inode bitmap")
	}

	dataBitmap, err := f.Volume.Slice(BlockRegion(sb.DataBitmapStart, sb.DataBitmapBlocks))
	if err != nil {
		return errors.Wrap(err, "image truncated: data bitmap")
	}

	f.InodeBitmap = inodeBitmap
	f.DataBitmap = dataBitmap
	return nil
}

// SaveSuperblock encodes the in-memory superblock into block 0 and
// finalizes its checksum.
func (f *Filesystem) SaveSuperblock() error {
	block, err := f.Volume.Slice(Region{Start: 0, Length: BlockSize})
	if err != nil {
		return err
	}

	f.Superblock.Save(block)
	return nil
}

// WriteStructureToVolume persists the whole image to path in one write.
func (f *Filesystem) WriteStructureToVolume(path string, wrap WrapWriter) error {
	return f.Volume.Save(path, wrap)
}

func (f *Filesystem) UsedInodes() uint64 {
	return f.InodeBitmap.Count()
}

func (f *Filesystem) FreeDataBlocks() uint64 {
	used := f.DataBitmap.Count()
	if used > f.Superblock.DataRegionBlocks {
		return 0
	}
	return f.Superblock.DataRegionBlocks - used
}
