package vfsapi

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/PapiCZ/minivsfs/logging"
	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/pkg/errors"
)

type AddResult struct {
	Name     string
	InodePtr vfs.InodePtr
	Blocks   []vfs.BlockPtr
	Size     uint64
}

type AddOptions struct {
	Now  func() time.Time
	Wrap vfs.WrapWriter
}

func (o AddOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// CheckFileSize rejects files that need more blocks than the direct pointers
// can address.
func CheckFileSize(size uint64) error {
	blocksNeeded := vfs.BlocksNeeded(size)
	if blocksNeeded > vfs.DirectPointers {
		return vfs.NewCapacityError("file too large (needs %d blocks, max %d)", blocksNeeded, vfs.DirectPointers)
	}
	return nil
}

// AddFile stores data as a new file in the root directory of fs. Every check
// runs before the first byte of the image is touched, so a failed call
// leaves fs unchanged.
func AddFile(fs *vfs.Filesystem, name string, data []byte, now time.Time) (AddResult, error) {
	err := vfs.ValidateName(name)
	if err != nil {
		return AddResult{}, err
	}

	size := uint64(len(data))
	err = CheckFileSize(size)
	if err != nil {
		return AddResult{}, err
	}

	inodePtr, err := vfs.FindFreeInode(fs)
	if err != nil {
		return AddResult{}, err
	}

	blocks, err := vfs.FindFreeDataBlocks(fs, vfs.BlocksNeeded(size))
	if err != nil {
		return AddResult{}, err
	}

	dePtr, err := vfs.FindFreeDirectoryEntry(fs)
	if err != nil {
		return AddResult{}, err
	}

	root, err := vfs.LoadMutableInode(fs, vfs.RootInode)
	if err != nil {
		return AddResult{}, err
	}

	// Copy data, the final block is zero padded.
	for i, block := range blocks {
		start := uint64(i) * vfs.BlockSize
		end := start + vfs.BlockSize
		if end > size {
			end = size
		}

		buf := make([]byte, vfs.BlockSize)
		copy(buf, data[start:end])
		err = fs.Volume.WriteBytes(vfs.BlockPtrToVolumePtr(block), buf)
		if err != nil {
			return AddResult{}, err
		}
	}

	epoch := uint64(now.Unix())
	inode := vfs.Inode{
		Mode:  vfs.ModeFile,
		Links: 1,
		Size:  size,
	}
	inode.Touch(epoch, true)
	copy(inode.Direct[:], blocks)

	err = vfs.MutableInode{Inode: &inode, InodePtr: inodePtr}.Save(fs)
	if err != nil {
		return AddResult{}, err
	}

	entry := vfs.NewDirectoryEntry(name, inodePtr, vfs.TypeFile)
	err = vfs.SaveDirectoryEntry(fs, dePtr, &entry)
	if err != nil {
		return AddResult{}, err
	}

	root.Inode.Size += vfs.DirectoryEntrySize
	root.Inode.Links++
	root.Inode.Touch(epoch, false)
	err = root.Save(fs)
	if err != nil {
		return AddResult{}, err
	}

	vfs.MarkAllocated(fs, inodePtr, blocks)

	fs.Superblock.MtimeEpoch = epoch
	err = fs.SaveSuperblock()
	if err != nil {
		return AddResult{}, err
	}

	logging.Info("msg", "file added", "name", name, "inode", inodePtr, "size", size, "blocks", len(blocks))

	return AddResult{
		Name:     name,
		InodePtr: inodePtr,
		Blocks:   blocks,
		Size:     size,
	}, nil
}

// AddFileToImage reads the image at inputPath, adds the host file at
// filePath under its base name and writes the result to outputPath. The
// input image is never modified in place and nothing is written on failure.
func AddFileToImage(inputPath, outputPath, filePath string, opts AddOptions) (AddResult, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return AddResult{}, errors.Errorf("file '%s' not found", filePath)
		}
		return AddResult{}, errors.Wrapf(err, "cannot read file '%s'", filePath)
	}
	if !stat.Mode().IsRegular() {
		return AddResult{}, errors.Errorf("cannot read file '%s': not a regular file", filePath)
	}

	err = CheckFileSize(uint64(stat.Size()))
	if err != nil {
		return AddResult{}, err
	}

	name := filepath.Base(filePath)
	err = vfs.ValidateName(name)
	if err != nil {
		return AddResult{}, err
	}

	fs, err := vfs.LoadFilesystem(inputPath)
	if err != nil {
		return AddResult{}, err
	}

	data, err := ioutil.ReadFile(filePath)
	if err != nil {
		return AddResult{}, errors.Wrapf(err, "cannot read file '%s'", filePath)
	}
	if int64(len(data)) != stat.Size() {
		return AddResult{}, errors.Errorf("short read on '%s' (%d of %d bytes)", filePath, len(data), stat.Size())
	}

	result, err := AddFile(fs, name, data, opts.now())
	if err != nil {
		return AddResult{}, err
	}

	err = fs.WriteStructureToVolume(outputPath, opts.Wrap)
	if err != nil {
		return AddResult{}, err
	}

	return result, nil
}

// ReadFile returns the exact contents of the file stored under name.
func ReadFile(fs *vfs.Filesystem, name string) ([]byte, error) {
	mutableInode, err := GetInodeByName(fs, name)
	if err != nil {
		return nil, err
	}

	inode := mutableInode.Inode
	if inode.IsDir() {
		return nil, NotAFile{Name: name}
	}

	data := make([]byte, 0, inode.Size)
	remaining := inode.Size
	for _, block := range inode.Direct {
		if remaining == 0 {
			break
		}
		if block == 0 {
			return nil, errors.Errorf("file %s is shorter than its size %d", name, inode.Size)
		}

		n := uint64(vfs.BlockSize)
		if remaining < n {
			n = remaining
		}

		chunk, err := fs.Volume.ReadBytes(vfs.BlockPtrToVolumePtr(block), vfs.VolumePtr(n))
		if err != nil {
			return nil, err
		}
		data = append(data, chunk...)
		remaining -= n
	}

	if remaining != 0 {
		return nil, errors.Errorf("file %s is shorter than its size %d", name, inode.Size)
	}

	return data, nil
}

// ReadDir lists the used slots of the root directory in slot order.
func ReadDir(fs *vfs.Filesystem) ([]FileInfo, error) {
	fileInfos := make([]FileInfo, 0)

	directoryEntries, err := vfs.ReadAllDirectoryEntries(fs)
	if err != nil {
		return fileInfos, err
	}

	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsFree() {
			continue
		}

		mutableInode, err := vfs.LoadMutableInode(fs, directoryEntry.InodePtr)
		if err != nil {
			return fileInfos, err
		}

		fileInfos = append(fileInfos, FileInfo{
			name:     directoryEntry.NameString(),
			size:     mutableInode.Inode.Size,
			inodePtr: directoryEntry.InodePtr,
			isDir:    directoryEntry.Type == vfs.TypeDirectory,
		})
	}

	return fileInfos, nil
}
