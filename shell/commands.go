package shell

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/PapiCZ/minivsfs/vfsapi"
	"github.com/abiosoft/ishell"
	"github.com/flynn-archive/go-shlex"
	"github.com/pkg/errors"
)

func Format(c *ishell.Context) {
	if len(c.Args) != 2 && len(c.Args) != 3 {
		c.Println("expected 2 or 3 arguments (size-kib inodes [seed])")
		return
	}

	var values [3]uint64
	for i, arg := range c.Args {
		value, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			c.Printf("INVALID NUMBER %s\n", arg)
			return
		}
		values[i] = value
	}

	layout, err := vfs.LayoutFor(values[0], values[1])
	if err != nil {
		printError(c, err)
		return
	}

	fs, err := vfs.NewFilesystem(layout, vfs.FormatOptions{Seed: values[2]})
	if err != nil {
		printError(c, err)
		return
	}

	*(c.Get("fs").(*vfs.Filesystem)) = *fs

	err = save(c)
	if err != nil {
		printError(c, err)
		return
	}

	c.Println("OK")
}

func Incp(c *ishell.Context) {
	if len(c.Args) != 1 && len(c.Args) != 2 {
		c.Println("expected 1 or 2 arguments (host-file [name])")
		return
	}

	fs, ok := filesystem(c)
	if !ok {
		return
	}

	hostSrc := c.Args[0]
	name := filepath.Base(hostSrc)
	if len(c.Args) == 2 {
		name = c.Args[1]
	}

	// Open file in host filesystem
	data, err := ioutil.ReadFile(hostSrc)
	if err != nil {
		if os.IsNotExist(err) {
			c.Println("FILE NOT FOUND (source does not exist)")
		} else {
			c.Err(err)
		}
		return
	}

	result, err := vfsapi.AddFile(fs, name, data, time.Now())
	if err != nil {
		printError(c, err)
		return
	}

	err = save(c)
	if err != nil {
		printError(c, err)
		return
	}

	c.Printf("OK (inode %d, %d blocks)\n", result.InodePtr, len(result.Blocks))
}

func Ls(c *ishell.Context) {
	fs, ok := filesystem(c)
	if !ok {
		return
	}

	files, err := vfsapi.ReadDir(fs)
	if err != nil {
		printError(c, err)
		return
	}

	for _, v := range files {
		if v.IsDir() {
			c.Printf("+ %s\n", v.Name())
		} else {
			c.Printf("- %s %d\n", v.Name(), v.Size())
		}
	}
}

func Cat(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	fs, ok := filesystem(c)
	if !ok {
		return
	}

	data, err := vfsapi.ReadFile(fs, c.Args[0])
	if err != nil {
		printError(c, err)
		return
	}

	c.Printf("%s", data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		c.Println()
	}
}

func Outcp(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Println("expected 2 arguments")
		return
	}

	fs, ok := filesystem(c)
	if !ok {
		return
	}

	vfsSrc := c.Args[0]
	hostDst := c.Args[1]

	data, err := vfsapi.ReadFile(fs, vfsSrc)
	if err != nil {
		printError(c, err)
		return
	}

	err = ioutil.WriteFile(hostDst, data, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			c.Println("PATH NOT FOUND (destination directory does not exist)")
		} else {
			c.Err(err)
		}
		return
	}

	c.Println("OK")
}

// Info prints the superblock summary, or the inode details of one file when
// a name is given.
func Info(c *ishell.Context) {
	if len(c.Args) > 1 {
		c.Println("expected at most 1 argument")
		return
	}

	fs, ok := filesystem(c)
	if !ok {
		return
	}

	if len(c.Args) == 0 {
		sb := fs.Superblock
		c.Printf("Total size: %d KB (%d blocks)\n", sb.TotalBlocks*vfs.BlockSize/1024, sb.TotalBlocks)
		c.Printf("Inodes: %d (%d used)\n", sb.InodeCount, fs.UsedInodes())
		c.Printf("Inode table: blocks %d..%d\n", sb.InodeTableStart, sb.InodeTableStart+sb.InodeTableBlocks-1)
		c.Printf("Data region: blocks %d..%d\n", sb.DataRegionStart, sb.DataRegionStart+sb.DataRegionBlocks-1)
		c.Printf("Data blocks available: %d\n", fs.FreeDataBlocks())
		c.Printf("Modified: %s\n", time.Unix(int64(sb.MtimeEpoch), 0).UTC().Format(time.RFC3339))
		c.Printf("Flags: 0x%08X\n", sb.Flags)
		return
	}

	name := c.Args[0]
	mutableInode, err := vfsapi.GetInodeByName(fs, name)
	if err != nil {
		printError(c, err)
		return
	}

	inode := mutableInode.Inode
	c.Printf("%s - %d - %d\n", name, inode.Size, mutableInode.InodePtr)
	c.Println("Direct pointers")
	c.Println(strings.Join(BlockPtrsToStrings(inode.UsedPtrs()), " "))
}

func Check(c *ishell.Context) {
	fs, ok := filesystem(c)
	if !ok {
		return
	}

	err := vfsapi.FsCheck(fs)
	if err != nil {
		if failed, ok := errors.Cause(err).(vfsapi.CheckFailed); ok {
			for _, problem := range failed.Problems {
				c.Println(problem)
			}
			c.Println("FILESYSTEM IS CORRUPTED")
			return
		}
		printError(c, err)
		return
	}

	c.Println("OK")
}

func Load(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	shell := c.Get("shell").(*ishell.Shell)

	path := c.Args[0]

	// Open file on host filesystem
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Println("FILE NOT FOUND (source does not exist)")
		} else {
			c.Err(err)
		}
		return
	}

	for _, line := range strings.Split(string(bytes), "\n") {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		c.Println(line)

		args, err := shlex.Split(line)
		if err != nil {
			c.Err(err)
			return
		}

		err = shell.Process(args...)
		if err != nil {
			c.Err(err)
			return
		}
	}
}
