package commands

import (
	"fmt"
	"time"

	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/PapiCZ/minivsfs/vfsapi"
	"github.com/spf13/cobra"
)

type addOptions struct {
	commonOptions
	input  string
	output string
	file   string

	now func() time.Time
}

// NewAddCommand returns the insertion tool:
// mkfs_adder --input <image> --output <image> --file <path>
func NewAddCommand() *cobra.Command {
	o := &addOptions{now: time.Now}

	cmd := newCommand("mkfs_adder", "add a file to the root directory of a MiniVSFS image")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return o.run(cmd)
	}

	flags := cmd.Flags()
	flags.StringVar(&o.input, "input", "", "existing image to read")
	flags.StringVar(&o.output, "output", "", "image to write, may equal --input")
	flags.StringVar(&o.file, "file", "", "host file to embed")
	o.addFlags(flags)

	return cmd
}

func (o *addOptions) run(cmd *cobra.Command) error {
	cfg, err := o.load(cmd, "mkfs_adder")
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("input") {
		o.input = cfg.Adder.Input
	}
	if !flags.Changed("output") {
		o.output = cfg.Adder.Output
	}
	if !flags.Changed("file") {
		o.file = cfg.Adder.File
	}

	switch {
	case o.input == "":
		return vfs.NewValidationError("--input parameter required")
	case o.output == "":
		return vfs.NewValidationError("--output parameter required")
	case o.file == "":
		return vfs.NewValidationError("--file parameter required")
	}

	result, err := vfsapi.AddFileToImage(o.input, o.output, o.file, vfsapi.AddOptions{
		Now:  o.now,
		Wrap: o.wrapWriter(cmd),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File '%s' added to MiniVSFS image '%s' successfully\n", o.file, o.output)
	fmt.Fprintf(out, "Allocated inode: %d\n", result.InodePtr)
	fmt.Fprintf(out, "Allocated %d data blocks\n", len(result.Blocks))

	return nil
}
