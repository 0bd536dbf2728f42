package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cpconfirm/internal/cache"
	"github.com/roach88/cpconfirm/internal/config"
	"github.com/roach88/cpconfirm/internal/confirm"
	"github.com/roach88/cpconfirm/internal/progress"
)

// ConfirmOptions holds flags for the confirm command.
type ConfirmOptions struct {
	*RootOptions
	Source        string
	Destinations  []string
	Jobs          int
	OutFile       string
	PrintFound    bool
	NoProgressBar bool
	CachePath     string
	ConfigPath    string
}

// NewConfirmCommand creates the confirm command.
func NewConfirmCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfirmOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Verify every source file exists by content in the destinations",
		Long: `Verify that every file under the source directory has byte-identical
content somewhere among the destination directories.

Files are matched by content digest only, so renamed or relocated copies
still count. Exit code 0 means all files were found, 1 means some are
missing, 2 means the command could not run.

Example:
  cpconfirm confirm -s /data -d /backup1 -d /backup2 -j 8
  cpconfirm confirm -s /data -d /backup --print-found -o found.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfirm(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "source directory (required)")
	_ = cmd.MarkFlagRequired("source")
	cmd.Flags().StringArrayVarP(&opts.Destinations, "destination", "d", nil, "destination directory, repeatable (required)")
	_ = cmd.MarkFlagRequired("destination")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 1, "number of hash workers")
	cmd.Flags().StringVarP(&opts.OutFile, "out-file", "o", "", "write the found map JSON to this file")
	cmd.Flags().BoolVarP(&opts.PrintFound, "print-found", "f", false, "emit the found map when the copy is confirmed")
	cmd.Flags().BoolVar(&opts.NoProgressBar, "no-progress-bar", false, "disable the progress bar")
	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "path to the digest cache database")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	return cmd
}

func runConfirm(opts *ConfirmOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading configuration", err)
	}

	var hasher confirm.Hasher = confirm.NewBLAKE2b512Hasher(cfg.HashBuffer)
	if cfg.Cache != "" {
		db, err := cache.Open(cfg.Cache)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening digest cache", err)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing digest cache", "error", closeErr)
			}
		}()
		hasher = cache.NewCachingHasher(hasher, db)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// The bar writes to stderr so stdout stays clean for report output.
	// JSON mode always uses silent counters.
	var sink confirm.ProgressSink
	var counters *progress.Counters
	if cfg.NoProgressBar || opts.Format == "json" {
		counters = &progress.Counters{}
		sink = counters
	} else {
		sink = progress.NewBar(cmd.ErrOrStderr())
	}

	confirmer := confirm.New(
		confirm.WithWorkers(cfg.Jobs),
		confirm.WithHasher(hasher),
		confirm.WithFoundMap(opts.PrintFound),
		confirm.WithProgress(sink),
	)

	report, err := confirmer.Confirm(cmd.Context(), opts.Source, opts.Destinations)
	if err != nil {
		if opts.Format == "json" {
			_ = formatter.Error("E_CONFIG", err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "confirm failed", err)
	}

	formatter.VerboseLog("run %s: %d source files, %d destination files",
		report.RunID, report.SourceFiles, report.DestinationFiles)
	if counters != nil {
		formatter.VerboseLog("hash jobs completed: %d", counters.JobsDone.Load())
	}

	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		RenderText(cmd.OutOrStdout(), report, opts.Verbose)
	}

	if report.AllPresent && opts.PrintFound {
		if opts.OutFile != "" {
			if err := WriteFoundFile(opts.OutFile, report); err != nil {
				return WrapExitError(ExitCommandError, "writing found map", err)
			}
		} else if opts.Format != "json" {
			// JSON mode already embeds the found map in the report.
			if err := WriteFoundJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		}
	}

	if !report.AllPresent {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) missing from destinations", len(report.Missing)))
	}
	return nil
}

// loadConfig resolves the effective configuration: defaults, then the
// optional config file, then explicit command-line flags.
func loadConfig(opts *ConfirmOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = opts.Jobs
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache = opts.CachePath
	}
	if opts.NoProgressBar {
		cfg.NoProgressBar = true
	}

	// Floor rather than reject: asking for zero parallelism means "minimal",
	// not "none".
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	if cfg.Cache != "" {
		if _, err := os.Stat(cfg.Cache); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("cache path %s: %w", cfg.Cache, err)
		}
	}
	return cfg, nil
}
