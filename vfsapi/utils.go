package vfsapi

import (
	"fmt"

	"github.com/PapiCZ/minivsfs/vfs"
)

type NotAFile struct {
	Name string
}

func (n NotAFile) Error() string {
	return fmt.Sprintf("%s is a directory", n.Name)
}

func GetInodeByName(fs *vfs.Filesystem, name string) (vfs.MutableInode, error) {
	_, directoryEntry, err := vfs.FindDirectoryEntryByName(fs, name)
	if err != nil {
		return vfs.MutableInode{}, err
	}

	return vfs.LoadMutableInode(fs, directoryEntry.InodePtr)
}
