package commands

import (
	"fmt"
	"io"

	"github.com/PapiCZ/minivsfs/config"
	"github.com/PapiCZ/minivsfs/logging"
	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type commonOptions struct {
	configPath string
	progress   bool
	logLevel   string
}

func (o *commonOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "", "YAML file with default values for the flags")
	flags.BoolVar(&o.progress, "progress", false, "show a progress bar while writing the image")
	flags.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn, error or none")
}

// load reads the config file, if any, fills in every common flag that was
// not given explicitly and initializes logging.
func (o *commonOptions) load(cmd *cobra.Command, component string) (config.Config, error) {
	cfg := config.Defaults()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if !flags.Changed("progress") {
		o.progress = cfg.Progress
	}
	if !flags.Changed("log-level") && cfg.LogLevel != "" {
		o.logLevel = cfg.LogLevel
	}

	err := logging.Init(cmd.ErrOrStderr(), component, o.logLevel)
	if err != nil {
		return cfg, vfs.NewValidationError("%v", err)
	}

	return cfg, nil
}

func (o *commonOptions) wrapWriter(cmd *cobra.Command) vfs.WrapWriter {
	if !o.progress {
		return nil
	}

	out := cmd.ErrOrStderr()
	return func(w io.Writer, size int64) io.Writer {
		bar := pb.New64(size)
		bar.Set(pb.Bytes, true)
		bar.SetWriter(out)
		bar.Start()
		return &progressWriter{Writer: w, bar: bar}
	}
}

type progressWriter struct {
	io.Writer
	bar *pb.ProgressBar
}

func (p *progressWriter) Write(data []byte) (int, error) {
	n, err := p.Writer.Write(data)
	p.bar.Add(n)
	if err != nil || p.bar.Current() >= p.bar.Total() {
		p.bar.Finish()
	}
	return n, err
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return vfs.NewValidationError("unknown argument: %s", args[0])
	}
	return nil
}

func flagError(cmd *cobra.Command, err error) error {
	return vfs.NewValidationError("%v", err)
}

func newCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(flagError)
	return cmd
}

// PrintError writes err to w, with a colored prefix on terminals.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %v\n", red("Error:"), err)
}

// Execute runs cmd with args and returns the process exit code: 0 on
// success, 1 on any validation, capacity or I/O failure.
func Execute(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		PrintError(cmd.ErrOrStderr(), err)
		if vfs.IsValidationError(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), cmd.UseLine())
		}
		logging.Debug("msg", "command failed", "class", vfs.ErrorClass(err), "err", err)
		return 1
	}

	return 0
}
