package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/autobrr/mktorr/internal/display"
	"github.com/autobrr/mktorr/internal/preset"
	"github.com/autobrr/mktorr/internal/torrent"
)

// createOptions encapsulates all command-line flag values for the
// create command.
type createOptions struct {
	trackers        []string
	webSeeds        []string
	excludePatterns []string
	pieceSize       int64
	comment         string
	outputPath      string
	source          string
	createdBy       string
	date            string
	presetName      string
	presetFile      string
	isPrivate       bool
	includeMD5      bool
	entropy         bool
	verbose         bool
	quiet           bool
}

var options createOptions

var createCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Create a new torrent file",
	Long: `Create a new torrent file from a file or directory.
Hidden files, zero-length files and files matching --exclude patterns are skipped.
Supports presets for commonly used settings.`,
	Args:                       cobra.ExactArgs(1),
	RunE:                       runCreate,
	DisableFlagsInUseLine:      true,
	SuggestionsMinimumDistance: 1,
	SilenceUsage:               true,
}

func init() {
	createCmd.Flags().SortFlags = false
	createCmd.Flags().StringArrayVarP(&options.trackers, "tracker", "t", nil, "tracker URL (can be specified multiple times)")
	createCmd.Flags().StringArrayVarP(&options.webSeeds, "web-seed", "w", nil, "web seed URL (can be specified multiple times)")
	createCmd.Flags().Int64VarP(&options.pieceSize, "piece-size", "s", 0, "piece size in bytes, power of two >= 16 KiB (automatic if not specified)")
	createCmd.Flags().BoolVarP(&options.isPrivate, "private", "p", false, "set private flag")
	createCmd.Flags().StringVar(&options.source, "source", "", "source string (useful for private trackers)")
	createCmd.Flags().StringVarP(&options.comment, "comment", "c", "", "add comment")
	createCmd.Flags().StringVarP(&options.date, "date", "d", "now", "torrent creation date: unix timestamp/none/now")
	createCmd.Flags().StringVar(&options.createdBy, "created-by", "", "override the created by field")
	createCmd.Flags().BoolVar(&options.includeMD5, "md5", false, "add per-file MD5 hashes")
	createCmd.Flags().BoolVarP(&options.entropy, "entropy", "e", false, "randomize info hash by adding entropy field")
	createCmd.Flags().StringArrayVarP(&options.excludePatterns, "exclude", "x", nil, "exclude files matching these glob patterns (can be specified multiple times)")
	createCmd.Flags().StringVarP(&options.outputPath, "output", "o", "", "output path, file or directory (default: <name>.torrent)")
	createCmd.Flags().StringVarP(&options.presetName, "preset", "P", "", "use preset from config")
	createCmd.Flags().StringVar(&options.presetFile, "preset-file", "", "preset config file (default ~/.config/mktorr/presets.yaml)")
	createCmd.Flags().BoolVarP(&options.verbose, "verbose", "v", false, "be verbose")
	createCmd.Flags().BoolVar(&options.quiet, "quiet", false, "reduced output mode (prints only the final torrent path)")
}

// parseCreationDate resolves the --date flag: "now", "none" or a unix
// timestamp.
func parseCreationDate(value string) (time.Time, error) {
	switch strings.ToLower(value) {
	case "", "none":
		return time.Time{}, nil
	case "now":
		return time.Now(), nil
	}
	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date value %q: expected unix timestamp, none or now", value)
	}
	return time.Unix(ts, 0), nil
}

// buildOptions merges preset values (when requested) with command-line
// flags; explicit flags win.
func buildOptions(cmd *cobra.Command, inputPath string) (torrent.Options, error) {
	opts := torrent.Options{
		Path:       inputPath,
		Trackers:   options.trackers,
		WebSeeds:   options.webSeeds,
		PieceSize:  options.pieceSize,
		Private:    options.isPrivate,
		Source:     options.source,
		Comment:    options.comment,
		CreatedBy:  options.createdBy,
		IncludeMD5: options.includeMD5,
		Entropy:    options.entropy,
		Exclude:    options.excludePatterns,
	}

	noDate := false
	if options.presetName != "" {
		presetPath, err := preset.FindPresetFile(options.presetFile)
		if err != nil {
			return opts, fmt.Errorf("could not find preset file: %w", err)
		}
		presets, err := preset.Load(presetPath)
		if err != nil {
			return opts, fmt.Errorf("could not load presets: %w", err)
		}
		presetOpts, err := presets.GetPreset(options.presetName)
		if err != nil {
			return opts, err
		}

		if !cmd.Flags().Changed("tracker") {
			opts.Trackers = presetOpts.Trackers
		}
		if !cmd.Flags().Changed("web-seed") {
			opts.WebSeeds = presetOpts.WebSeeds
		}
		if !cmd.Flags().Changed("piece-size") {
			opts.PieceSize = presetOpts.PieceSize
		}
		if !cmd.Flags().Changed("private") && presetOpts.Private != nil {
			opts.Private = *presetOpts.Private
		}
		if !cmd.Flags().Changed("comment") {
			opts.Comment = presetOpts.Comment
		}
		if !cmd.Flags().Changed("source") {
			opts.Source = presetOpts.Source
		}
		if !cmd.Flags().Changed("md5") && presetOpts.IncludeMD5 != nil {
			opts.IncludeMD5 = *presetOpts.IncludeMD5
		}
		if !cmd.Flags().Changed("entropy") && presetOpts.Entropy != nil {
			opts.Entropy = *presetOpts.Entropy
		}
		if !cmd.Flags().Changed("exclude") {
			opts.Exclude = presetOpts.Exclude
		}
		if !cmd.Flags().Changed("date") && presetOpts.NoDate != nil {
			noDate = *presetOpts.NoDate
		}
	}

	if !noDate {
		creationDate, err := parseCreationDate(options.date)
		if err != nil {
			return opts, err
		}
		opts.CreationDate = creationDate
	}

	return opts, nil
}

// resolveOutputPath derives the .torrent file location from the
// --output flag and the torrent name.
func resolveOutputPath(outputPath, name string) string {
	if outputPath == "" {
		return name + ".torrent"
	}
	if fi, err := os.Stat(outputPath); err == nil && fi.IsDir() {
		return filepath.Join(outputPath, name+".torrent")
	}
	if !strings.HasSuffix(outputPath, ".torrent") {
		return outputPath + ".torrent"
	}
	return outputPath
}

func runCreate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	d := display.NewDisplay(display.NewFormatter(options.verbose))
	d.SetQuiet(options.quiet)

	opts, err := buildOptions(cmd, args[0])
	if err != nil {
		return err
	}

	t, err := torrent.New(opts)
	if err != nil {
		return err
	}
	for _, warning := range t.Warnings() {
		d.ShowWarning(warning)
	}

	totalSize, fileCount, pieceSize, numPieces, err := t.Info()
	if err != nil {
		return err
	}

	d.ShowTorrentSummary(&display.Summary{
		Path:      t.Path(),
		Name:      t.Name(),
		TotalSize: totalSize,
		PieceSize: pieceSize,
		Pieces:    numPieces,
		Files:     fileCount,
		Trackers:  t.Trackers(),
		WebSeeds:  t.WebSeeds(),
		Private:   opts.Private,
		Source:    opts.Source,
		Comment:   opts.Comment,
		MD5:       opts.IncludeMD5,
	})

	// Ctrl-C requests cancellation through the progress callback; the
	// hasher checks it after every completed piece.
	var cancelled atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancelled.Store(true)
	}()

	d.ShowProgress(numPieces)
	err = t.Generate(func(path string, completed, total int) bool {
		d.UpdateProgress(completed)
		return cancelled.Load()
	})
	if err != nil {
		if errors.Is(err, torrent.ErrCancelled) {
			d.ShowWarning("generation cancelled, no torrent written")
		}
		return err
	}
	d.FinishProgress()

	outputPath := resolveOutputPath(options.outputPath, t.Name())
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()
	if err := t.Save(f); err != nil {
		return fmt.Errorf("error writing torrent file: %w", err)
	}

	hash, err := t.InfoHash()
	if err != nil {
		return err
	}
	magnet := ""
	if options.verbose {
		if magnet, err = t.Magnet(); err != nil {
			return err
		}
	}
	d.ShowInfoHash(hash.HexString(), magnet)
	d.ShowOutputPathWithTime(outputPath, time.Since(start))

	return nil
}
