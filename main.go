package main

import (
	"fmt"
	"os"

	"github.com/PapiCZ/minivsfs/logging"
	"github.com/PapiCZ/minivsfs/shell"
	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/abiosoft/ishell"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <image>\n", os.Args[0])
		os.Exit(1)
	}

	err := logging.Init(os.Stderr, "minivsfs", os.Getenv("MINIVSFS_LOG_LEVEL"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sh := ishell.New()
	sh.SetPrompt("/ > ")
	sh.Set("volume_path", os.Args[1])
	sh.Set("fs", &vfs.Filesystem{})
	sh.Set("shell", sh)

	path := sh.Get("volume_path").(string)
	if vfs.Exists(path) {
		// We want to load existing filesystem volume
		fs, err := vfs.LoadFilesystem(path)
		if err != nil {
			fmt.Println(err)
			return
		}

		*(sh.Get("fs").(*vfs.Filesystem)) = *fs
	}

	sh.AddCmd(&ishell.Cmd{
		Name: "format",
		Help: "format <size-kib> <inodes> [seed]",
		Func: shell.Format,
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "incp",
		Help: "incp <host-file> [name]",
		Func: shell.Incp,
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "ls",
		Help: "list the root directory",
		Func: shell.Ls,
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "cat",
		Help: "cat <name>",
		Func: shell.Cat,
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "outcp",
		Help: "outcp <name> <host-file>",
		Func: shell.Outcp,
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "info",
		Help: "info [name]",
		Func: shell.Info,
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "check",
		Help: "verify checksums and bitmaps",
		Func: shell.Check,
	})

	sh.AddCmd(&ishell.Cmd{
		Name: "load",
		Help: "load <script>",
		Func: shell.Load,
	})

	sh.Run()
}
