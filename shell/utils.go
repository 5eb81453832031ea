package shell

import (
	"strconv"

	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/PapiCZ/minivsfs/vfsapi"
	"github.com/abiosoft/ishell"
	"github.com/pkg/errors"
)

func BlockPtrsToStrings(ptrs []vfs.BlockPtr) []string {
	strs := make([]string, 0)
	for _, ptr := range ptrs {
		strs = append(strs, strconv.Itoa(int(ptr)))
	}

	return strs
}

// filesystem returns the open image, or reports that there is none yet.
func filesystem(c *ishell.Context) (*vfs.Filesystem, bool) {
	fs := c.Get("fs").(*vfs.Filesystem)
	if fs.Volume == nil {
		c.Println("NO FILESYSTEM (use format first)")
		return nil, false
	}
	return fs, true
}

// save writes the whole image back to the volume path.
func save(c *ishell.Context) error {
	fs := c.Get("fs").(*vfs.Filesystem)
	path := c.Get("volume_path").(string)
	return fs.WriteStructureToVolume(path, nil)
}

func printError(c *ishell.Context, err error) {
	switch e := errors.Cause(err).(type) {
	case vfs.DirectoryEntryNotFound:
		c.Printf("FILE NOT FOUND (%s)\n", e.Name)
	case vfsapi.NotAFile:
		c.Printf("NOT A FILE (%s)\n", e.Name)
	case vfs.CapacityError:
		c.Printf("NOT ENOUGH AVAILABLE SPACE (%s)\n", e.Reason)
	case vfs.ValidationError:
		c.Printf("INVALID ARGUMENT (%s)\n", e.Reason)
	default:
		c.Err(err)
	}
}
