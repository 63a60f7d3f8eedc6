// Command storyboard prints video metadata reports and renders storyboard
// (contact sheet) images: a header with the report, a grid of evenly spaced
// thumbnails, and an optional footer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/storyboard/internal/check"
	"github.com/backmassage/storyboard/internal/config"
	"github.com/backmassage/storyboard/internal/display"
	"github.com/backmassage/storyboard/internal/logging"
	"github.com/backmassage/storyboard/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// app holds the state every command shares: the config being built and the
// exit status the command settled on.
type app struct {
	cfg    *config.Config
	flags  *config.Flags
	status int
}

func run(args []string) int {
	// Phase 1: Bootstrap. The config file is applied before flags are bound
	// because flag defaults are read from cfg; errors go straight to stderr
	// until the logger exists.
	cfg := config.DefaultConfig()
	path, required := configPath(args)
	if err := config.LoadFile(&cfg, path, required); err != nil {
		fmt.Fprintf(os.Stderr, "storyboard: %v\n", err)
		return 1
	}

	a := &app{cfg: &cfg, flags: config.NewFlags(&cfg)}
	root := a.rootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "storyboard: %v\n", err)
		return 1
	}
	return a.status
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storyboard [flags] <file|dir> [file|dir...]",
		Short: "Render storyboard images of video files.",
		Long: "Render a storyboard image for each video: a metadata header, a grid of\n" +
			"evenly spaced thumbnails, and an optional footer. Directories are searched\n" +
			"recursively for media files. The path of every image written is printed\n" +
			"on stdout.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runPipeline(args, pipeline.ModeStoryboard)
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	// Registered for --help only; configPath reads it before parsing.
	root.PersistentFlags().String("config", config.DefaultFilePath(), "Config file (KEY=value lines)")
	a.flags.DefineGlobal(root.PersistentFlags())
	a.flags.DefineStoryboard(root.Flags())

	root.AddCommand(a.metadataCmd(), a.checkCmd(), versionCmd())
	return root
}

func (a *app) metadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata <file|dir> [file|dir...]",
		Short: "Print the metadata report of each video",
		Long: "Print the metadata report of each video on stdout, separated by blank\n" +
			"lines. The report is the same text shown in the storyboard header.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPipeline(args, pipeline.ModeMetadata)
		},
	}
	a.flags.DefineMetadata(cmd.Flags())
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that ffmpeg and ffprobe are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := a.start(nil)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(os.Stderr, resolveVersion())
			ctx, stop := notifyContext(log)
			defer stop()
			if failed := check.RunCheck(ctx, a.cfg, log); failed > 0 {
				a.status = 1
			}
			return nil
		},
		DisableFlagsInUseLine: true,
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "storyboard %s (%s)\n", resolveVersion(), commit)
			return nil
		},
		DisableFlagsInUseLine: true,
	}
}

// start finalizes the config from the parsed flags and opens the logger.
func (a *app) start(args []string) (*logging.Logger, error) {
	a.flags.Apply()
	a.cfg.SetInputs(args)
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	return logging.NewLogger(a.cfg)
}

func (a *app) runPipeline(args []string, mode pipeline.Mode) error {
	log, err := a.start(args)
	if err != nil {
		return err
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	ver := resolveVersion()
	if mode == pipeline.ModeStoryboard {
		display.PrintBanner(os.Stderr, ver)
	}

	ctx, stop := notifyContext(log)
	defer stop()

	// Fail fast if the tools the mode needs are unavailable.
	if err := check.CheckDeps(ctx, a.cfg, mode == pipeline.ModeStoryboard); err != nil {
		log.Error("%v", err)
		a.status = 1
		return nil
	}

	// Phase 3: Run the batch.
	stats := pipeline.Run(ctx, a.cfg, log, pipeline.Options{Mode: mode, Version: ver})
	a.status = stats.ExitCode()
	return nil
}

// notifyContext cancels the returned context on SIGINT/SIGTERM so running
// ffmpeg and ffprobe processes are killed and the batch stops.
func notifyContext(log *logging.Logger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping…")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// configPath finds --config in args before cobra parses them. An explicit
// file must exist; the default location is optional.
func configPath(args []string) (path string, required bool) {
	for i, arg := range args {
		switch {
		case arg == "--":
			return config.DefaultFilePath(), false
		case arg == "--config" && i+1 < len(args):
			return args[i+1], true
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config="), true
		}
	}
	return config.DefaultFilePath(), false
}

func resolveVersion() string {
	if version != "" && version != "dev" {
		return strings.TrimPrefix(version, "v")
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}
	return "dev"
}
