package vfs

import "encoding/binary"

const (
	InodeSize      = 128
	DirectPointers = 12

	ModeFile      = 0o100000
	ModeDirectory = 0o040000

	// Maximum file size reachable through direct pointers.
	MaxFileSize = DirectPointers * BlockSize
)

type InodePtr uint32
type BlockPtr uint32

const RootInode InodePtr = 1

const (
	inodeModeOffset       = 0
	inodeLinksOffset      = 2
	inodeUIDOffset        = 4
	inodeGIDOffset        = 8
	inodeSizeOffset       = 12
	inodeAtimeOffset      = 20
	inodeMtimeOffset      = 28
	inodeCtimeOffset      = 36
	inodeDirectOffset     = 44
	inodeReserved0Offset  = 92
	inodeReserved1Offset  = 96
	inodeReserved2Offset  = 100
	inodeProjIDOffset     = 104
	inodeUID16GID16Offset = 108
	inodeXattrPtrOffset   = 112
	inodeChecksumOffset   = 120
)

type Inode struct {
	Mode       uint16
	Links      uint16
	UID        uint32
	GID        uint32
	Size       uint64
	Atime      uint64
	Mtime      uint64
	Ctime      uint64
	Direct     [DirectPointers]BlockPtr
	Reserved0  uint32
	Reserved1  uint32
	Reserved2  uint32
	ProjID     uint32
	UID16GID16 uint32
	XattrPtr   uint64
	Checksum   uint64
}

func (i Inode) IsDir() bool {
	return i.Mode == ModeDirectory
}

func (i Inode) IsFile() bool {
	return i.Mode == ModeFile
}

// UsedPtrs returns the non-zero direct pointers in order.
func (i Inode) UsedPtrs() []BlockPtr {
	ptrs := make([]BlockPtr, 0, DirectPointers)
	for _, ptr := range i.Direct {
		if ptr != 0 {
			ptrs = append(ptrs, ptr)
		}
	}
	return ptrs
}

// Touch sets the given timestamps to now.
func (i *Inode) Touch(now uint64, atime bool) {
	if atime {
		i.Atime = now
	}
	i.Mtime = now
	i.Ctime = now
}

func (i Inode) Encode(record []byte) {
	le := binary.LittleEndian
	le.PutUint16(record[inodeModeOffset:], i.Mode)
	le.PutUint16(record[inodeLinksOffset:], i.Links)
	le.PutUint32(record[inodeUIDOffset:], i.UID)
	le.PutUint32(record[inodeGIDOffset:], i.GID)
	le.PutUint64(record[inodeSizeOffset:], i.Size)
	le.PutUint64(record[inodeAtimeOffset:], i.Atime)
	le.PutUint64(record[inodeMtimeOffset:], i.Mtime)
	le.PutUint64(record[inodeCtimeOffset:], i.Ctime)
	for n, ptr := range i.Direct {
		le.PutUint32(record[inodeDirectOffset+4*n:], uint32(ptr))
	}
	le.PutUint32(record[inodeReserved0Offset:], i.Reserved0)
	le.PutUint32(record[inodeReserved1Offset:], i.Reserved1)
	le.PutUint32(record[inodeReserved2Offset:], i.Reserved2)
	le.PutUint32(record[inodeProjIDOffset:], i.ProjID)
	le.PutUint32(record[inodeUID16GID16Offset:], i.UID16GID16)
	le.PutUint64(record[inodeXattrPtrOffset:], i.XattrPtr)
	le.PutUint64(record[inodeChecksumOffset:], i.Checksum)
}

func DecodeInode(record []byte) Inode {
	le := binary.LittleEndian
	inode := Inode{
		Mode:       le.Uint16(record[inodeModeOffset:]),
		Links:      le.Uint16(record[inodeLinksOffset:]),
		UID:        le.Uint32(record[inodeUIDOffset:]),
		GID:        le.Uint32(record[inodeGIDOffset:]),
		Size:       le.Uint64(record[inodeSizeOffset:]),
		Atime:      le.Uint64(record[inodeAtimeOffset:]),
		Mtime:      le.Uint64(record[inodeMtimeOffset:]),
		Ctime:      le.Uint64(record[inodeCtimeOffset:]),
		Reserved0:  le.Uint32(record[inodeReserved0Offset:]),
		Reserved1:  le.Uint32(record[inodeReserved1Offset:]),
		Reserved2:  le.Uint32(record[inodeReserved2Offset:]),
		ProjID:     le.Uint32(record[inodeProjIDOffset:]),
		UID16GID16: le.Uint32(record[inodeUID16GID16Offset:]),
		XattrPtr:   le.Uint64(record[inodeXattrPtrOffset:]),
		Checksum:   le.Uint64(record[inodeChecksumOffset:]),
	}
	for n := range inode.Direct {
		inode.Direct[n] = BlockPtr(le.Uint32(record[inodeDirectOffset+4*n:]))
	}
	return inode
}

// Bytes encodes the inode and finalizes its checksum.
func (i *Inode) Bytes() [InodeSize]byte {
	var record [InodeSize]byte
	i.Encode(record[:])
	i.Checksum = uint64(FinalizeInodeChecksum(record[:]))
	return record
}

// MutableInode is an inode together with its number, ready to be saved back
// into the inode table.
type MutableInode struct {
	Inode    *Inode
	InodePtr InodePtr
}

func (mi MutableInode) Save(fs *Filesystem) error {
	record := mi.Inode.Bytes()
	return fs.Volume.WriteBytes(InodePtrToVolumePtr(fs.Superblock, mi.InodePtr), record[:])
}

func LoadMutableInode(fs *Filesystem, inodePtr InodePtr) (MutableInode, error) {
	record, err := fs.Volume.ReadBytes(InodePtrToVolumePtr(fs.Superblock, inodePtr), InodeSize)
	if err != nil {
		return MutableInode{}, err
	}

	inode := DecodeInode(record)
	return MutableInode{
		Inode:    &inode,
		InodePtr: inodePtr,
	}, nil
}
