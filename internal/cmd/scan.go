package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/harrison/dupfind/internal/config"
	"github.com/harrison/dupfind/internal/display"
	"github.com/harrison/dupfind/internal/fileutil"
	"github.com/harrison/dupfind/internal/finder"
	"github.com/harrison/dupfind/internal/logger"
	"github.com/harrison/dupfind/internal/report"
	"github.com/spf13/cobra"
)

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dir", "d", ".", "Directory to search in")
	cmd.Flags().StringP("pattern", "p", "*", "File pattern to search for (e.g., '*.jpg', 'img-*.png')")
	cmd.Flags().Bool("current-folder-only", false, "Search only in the given directory, not its subdirectories")
	cmd.Flags().Bool("check-contents", false, "Confirm size matches with a content hash")
	cmd.Flags().String("min-filesize", "0B", "Minimum file size to consider (e.g., 10MB, 1.5GB)")
	cmd.Flags().String("exclude", "", "Comma-separated keywords; files whose path contains one are skipped")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress printing of individual matches")
	cmd.Flags().BoolP("verbose", "v", false, "Show one line per duplicate group found")
	cmd.Flags().StringP("output", "o", "", "Write the list of duplicates to a plain-text file")
	cmd.Flags().String("csv", "", "Write duplicate details to a CSV file")
	cmd.Flags().String("json", "", "Write duplicate details to a JSON file")
	cmd.Flags().String("sqlite", "", "Write the scan and its duplicates to a SQLite database")
	cmd.Flags().IntP("workers", "w", runtime.NumCPU(), "Number of files hashed in parallel")
	cmd.Flags().Bool("no-progress", false, "Do not show a progress bar while hashing")
	cmd.Flags().String("config", "", "Path to config file (default: ./"+config.DefaultConfigFile+" if present)")
	cmd.Flags().String("log-level", "info", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-file", "", "Also append log lines to this file")
}

// loadConfig reads the config file and applies every flag the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr != nil {
			return nil, fmt.Errorf("%w: config file %s: %v", config.ErrInvalidConfig, configPath, statErr)
		}
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var o config.Overrides
	flags := cmd.Flags()

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	boolFlag := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	o.Dir = stringFlag("dir")
	o.Pattern = stringFlag("pattern")
	o.MinFileSize = stringFlag("min-filesize")
	o.Exclude = stringFlag("exclude")
	o.LogLevel = stringFlag("log-level")
	o.LogFile = stringFlag("log-file")
	o.TextOutput = stringFlag("output")
	o.CSVOutput = stringFlag("csv")
	o.JSONOutput = stringFlag("json")
	o.SQLiteOutput = stringFlag("sqlite")
	o.CheckContents = boolFlag("check-contents")
	o.Quiet = boolFlag("quiet")
	o.Verbose = boolFlag("verbose")

	if v := boolFlag("current-folder-only"); v != nil {
		recursive := !*v
		o.Recursive = &recursive
	}
	if v := boolFlag("no-progress"); v != nil {
		progress := !*v
		o.Progress = &progress
	}
	if flags.Changed("workers") {
		w, _ := flags.GetInt("workers")
		o.Workers = &w
	}

	cfg.MergeWithFlags(o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// reportTargets lists requested outputs in a fixed order
func reportTargets(out config.OutputConfig) []report.Target {
	var targets []report.Target
	if out.Text != "" {
		targets = append(targets, report.Target{Kind: report.KindText, Path: out.Text})
	}
	if out.CSV != "" {
		targets = append(targets, report.Target{Kind: report.KindCSV, Path: out.CSV})
	}
	if out.JSON != "" {
		targets = append(targets, report.Target{Kind: report.KindJSON, Path: out.JSON})
	}
	if out.SQLite != "" {
		targets = append(targets, report.Target{Kind: report.KindSQLite, Path: out.SQLite})
	}
	return targets
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root, err := fileutil.ResolveRoot(cfg.Dir)
	if err != nil {
		return err
	}
	if err := fileutil.ValidatePattern(cfg.Pattern); err != nil {
		return err
	}

	// The log file is only created once the run is known to be valid
	var log logger.Logger = logger.NewConsoleLogger(stderr, cfg.EffectiveLogLevel())
	if cfg.LogFile != "" {
		fileLog, err := logger.NewFileLogger(cfg.LogFile, cfg.EffectiveLogLevel())
		if err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		defer fileLog.Close()
		log = logger.NewMultiLogger(log, fileLog)
	}

	if !cfg.Quiet {
		display.PrintHeader(stdout, display.Header{
			Root:              root,
			Pattern:           cfg.Pattern,
			CurrentFolderOnly: !cfg.Recursive,
			CheckContents:     cfg.CheckContents,
			MinSize:           cfg.MinSize(),
			Exclude:           cfg.Exclude,
		})
	}

	progress := display.NewHashProgress(stderr,
		cfg.Progress && !cfg.Quiet && cfg.CheckContents && logger.IsTerminal(stderr))

	f := finder.New(finder.Options{
		Root:            root,
		Pattern:         cfg.Pattern,
		Recursive:       cfg.Recursive,
		CheckContents:   cfg.CheckContents,
		MinSize:         cfg.MinSize(),
		ExcludeKeywords: cfg.Exclude,
		Workers:         cfg.Workers,
		Progress:        progress.Update,
	}, log)

	result, err := f.Find(ctx)
	progress.Finish()
	if err != nil {
		return err
	}
	log.LogDebug(fmt.Sprintf("Scan %s finished in %s", result.ScanID, result.Stats.Duration))

	console := report.NewConsoleWriter(stdout, cfg.Quiet, logger.IsTerminal(stdout))
	console.WriteSets(result.Sets)

	writeErr := report.WriteAll(ctx, result, reportTargets(cfg.Outputs), log, console.Saved)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	display.PrintSummary(stdout, result.Stats, result.CheckedContents)

	var werr *report.WriteError
	if errors.As(writeErr, &werr) {
		files := make([]string, len(werr.Failed))
		for i, t := range werr.Failed {
			files[i] = t.Path
		}
		display.WarnUnwrittenOutputs(files).Display(stderr, logger.IsTerminal(stderr))
		return werr
	}

	return writeErr
}
