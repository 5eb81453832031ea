package vfsapi

import "github.com/PapiCZ/minivsfs/vfs"

type FileInfo struct {
	name     string
	size     uint64
	inodePtr vfs.InodePtr
	isDir    bool
}

func (fi FileInfo) Name() string {
	return fi.name
}

func (fi FileInfo) Size() uint64 {
	return fi.size
}

func (fi FileInfo) InodePtr() vfs.InodePtr {
	return fi.inodePtr
}

func (fi FileInfo) IsDir() bool {
	return fi.isDir
}
