package vfs

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	DirectoryEntrySize       = 64
	DirectoryEntryNameLength = 58
	MaxNameLength            = DirectoryEntryNameLength - 1
	EntriesPerBlock          = BlockSize / DirectoryEntrySize

	TypeFile      = 1
	TypeDirectory = 2
)

const (
	direntInodeOffset    = 0
	direntTypeOffset     = 4
	direntNameOffset     = 5
	direntChecksumOffset = 63
)

// DEPtr is the slot index of an entry inside the root directory block.
type DEPtr int

type DirectoryEntryNotFound struct {
	Name string
}

func (d DirectoryEntryNotFound) Error() string {
	return fmt.Sprintf("directory entry with name %s was not found", d.Name)
}

type DirectoryEntry struct {
	InodePtr InodePtr
	Type     uint8
	Name     [DirectoryEntryNameLength]byte
	Checksum uint8
}

func NewDirectoryEntry(name string, inodePtr InodePtr, entryType uint8) DirectoryEntry {
	return DirectoryEntry{
		InodePtr: inodePtr,
		Type:     entryType,
		Name:     StringNameToBytes(name),
	}
}

func (d DirectoryEntry) IsFree() bool {
	return d.InodePtr == 0
}

func (d DirectoryEntry) NameString() string {
	return CToGoString(d.Name[:])
}

func (d DirectoryEntry) Encode(record []byte) {
	binary.LittleEndian.PutUint32(record[direntInodeOffset:], uint32(d.InodePtr))
	record[direntTypeOffset] = d.Type
	copy(record[direntNameOffset:direntChecksumOffset], d.Name[:])
	record[direntChecksumOffset] = d.Checksum
}

func DecodeDirectoryEntry(record []byte) DirectoryEntry {
	d := DirectoryEntry{
		InodePtr: InodePtr(binary.LittleEndian.Uint32(record[direntInodeOffset:])),
		Type:     record[direntTypeOffset],
		Checksum: record[direntChecksumOffset],
	}
	copy(d.Name[:], record[direntNameOffset:direntChecksumOffset])
	return d
}

// Bytes encodes the entry and finalizes its checksum.
func (d *DirectoryEntry) Bytes() [DirectoryEntrySize]byte {
	var record [DirectoryEntrySize]byte
	d.Encode(record[:])
	d.Checksum = FinalizeDirectoryEntryChecksum(record[:])
	return record
}

// ValidateName checks that name fits a directory entry: non-empty, at most
// MaxNameLength bytes, no path separator or NUL, not "." or "..".
func ValidateName(name string) error {
	if len(name) == 0 {
		return validationErrorf("filename cannot be empty")
	}
	if len(name) > MaxNameLength {
		return validationErrorf("filename too long (%d characters, max %d)", len(name), MaxNameLength)
	}
	if strings.ContainsAny(name, "/\x00") {
		return validationErrorf("filename %q contains '/' or a NUL byte", name)
	}
	if name == "." || name == ".." {
		return validationErrorf("filename cannot be '.' or '..'")
	}
	return nil
}

func StringNameToBytes(name string) [DirectoryEntryNameLength]byte {
	var nameBytes [DirectoryEntryNameLength]byte
	copy(nameBytes[:MaxNameLength], name)
	return nameBytes
}

// RootDirectoryRegion is the single block holding the root directory.
func RootDirectoryRegion(fs *Filesystem) (Region, error) {
	root, err := LoadMutableInode(fs, RootInode)
	if err != nil {
		return Region{}, err
	}

	block := root.Inode.Direct[0]
	if uint64(block) < fs.Superblock.DataRegionStart ||
		uint64(block) >= fs.Superblock.DataRegionStart+fs.Superblock.DataRegionBlocks {
		return Region{}, OutOfRange{BlockPtrToVolumePtr(block), BlockToVolumePtr(fs.Superblock.TotalBlocks)}
	}

	return Region{Start: BlockPtrToVolumePtr(block), Length: BlockSize}, nil
}

func DirectoryEntryVolumePtr(region Region, dePtr DEPtr) VolumePtr {
	return region.Start + VolumePtr(dePtr)*DirectoryEntrySize
}

// ReadAllDirectoryEntries returns all 64 slots of the root directory block,
// free ones included.
func ReadAllDirectoryEntries(fs *Filesystem) ([]DirectoryEntry, error) {
	region, err := RootDirectoryRegion(fs)
	if err != nil {
		return nil, err
	}

	block, err := fs.Volume.Slice(region)
	if err != nil {
		return nil, err
	}

	directoryEntries := make([]DirectoryEntry, EntriesPerBlock)
	for i := range directoryEntries {
		directoryEntries[i] = DecodeDirectoryEntry(block[i*DirectoryEntrySize:])
	}

	return directoryEntries, nil
}

func FindFreeDirectoryEntry(fs *Filesystem) (DEPtr, error) {
	directoryEntries, err := ReadAllDirectoryEntries(fs)
	if err != nil {
		return 0, err
	}

	for i, directoryEntry := range directoryEntries {
		if directoryEntry.IsFree() {
			return DEPtr(i), nil
		}
	}

	return 0, capacityErrorf("root directory is full (%d entries)", EntriesPerBlock)
}

func FindDirectoryEntryByName(fs *Filesystem, name string) (DEPtr, DirectoryEntry, error) {
	directoryEntries, err := ReadAllDirectoryEntries(fs)
	if err != nil {
		return 0, DirectoryEntry{}, err
	}

	for i, directoryEntry := range directoryEntries {
		if !directoryEntry.IsFree() && directoryEntry.NameString() == name {
			return DEPtr(i), directoryEntry, nil
		}
	}

	return 0, DirectoryEntry{}, DirectoryEntryNotFound{name}
}

func SaveDirectoryEntry(fs *Filesystem, dePtr DEPtr, directoryEntry *DirectoryEntry) error {
	region, err := RootDirectoryRegion(fs)
	if err != nil {
		return err
	}

	record := directoryEntry.Bytes()
	return fs.Volume.WriteBytes(DirectoryEntryVolumePtr(region, dePtr), record[:])
}

// InitRootDirectory writes "." and ".." into the first two slots of the root
// directory block, both pointing at the root inode.
func InitRootDirectory(fs *Filesystem) error {
	entries := []DirectoryEntry{
		NewDirectoryEntry(".", RootInode, TypeDirectory),
		NewDirectoryEntry("..", RootInode, TypeDirectory),
	}

	for i := range entries {
		err := SaveDirectoryEntry(fs, DEPtr(i), &entries[i])
		if err != nil {
			return err
		}
	}

	return nil
}
