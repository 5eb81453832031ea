package vfs

// Inode numbers start at 1, slot 0 of the table holds inode 1.
func InodePtrToVolumePtr(sb Superblock, ptr InodePtr) VolumePtr {
	return BlockToVolumePtr(sb.InodeTableStart) + VolumePtr(ptr-1)*InodeSize
}

func VolumePtrToInodePtr(sb Superblock, ptr VolumePtr) InodePtr {
	return InodePtr((ptr-BlockToVolumePtr(sb.InodeTableStart))/InodeSize) + 1
}

func BlockToVolumePtr(block uint64) VolumePtr {
	return VolumePtr(block * BlockSize)
}

func BlockPtrToVolumePtr(ptr BlockPtr) VolumePtr {
	return BlockToVolumePtr(uint64(ptr))
}

// DataIndexToBlockPtr turns a data bitmap position into an absolute block
// number, the form stored in direct pointers.
func DataIndexToBlockPtr(sb Superblock, index uint64) BlockPtr {
	return BlockPtr(sb.DataRegionStart + index)
}

func BlockPtrToDataIndex(sb Superblock, ptr BlockPtr) uint64 {
	return uint64(ptr) - sb.DataRegionStart
}

func BlocksNeeded(size uint64) uint64 {
	return (size + BlockSize - 1) / BlockSize
}

func CToGoString(data []byte) string {
	n := -1
	for i, b := range data {
		if b == 0 {
			break
		}
		n = i
	}
	return string(data[:n+1])
}
