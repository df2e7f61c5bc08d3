package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/ew2propresenter/internal/config"
	"github.com/roboco-io/ew2propresenter/internal/easyworship"
	"github.com/roboco-io/ew2propresenter/internal/pro6"
	"github.com/roboco-io/ew2propresenter/internal/song"
)

var (
	exportDatabase   string
	exportOutput     string
	exportIDs        []int64
	exportMappings   string
	exportDuplicates string
	exportLogFile    string
	exportVerbose    bool
	exportQuiet      bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export songs to ProPresenter 6 files",
	Long: `Export songs from an EasyWorship database to .pro6 files.

By default every song in the database is exported. Use --id to export
specific songs (repeatable).

Duplicate target files are handled per --duplicates: "ask" prompts for
each conflict, "skip", "overwrite" and "rename" apply without prompting.

Examples:
  ew2propresenter export --database ~/EasyWorship/Data --output ./pro6
  ew2propresenter export --id 12 --id 40 --output ./pro6
  ew2propresenter export --duplicates rename --output ./pro6`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDatabase, "database", "d", "", "EasyWorship database directory")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output directory (default: current directory)")
	exportCmd.Flags().Int64SliceVar(&exportIDs, "id", nil, "song id to export (repeatable; default: all)")
	exportCmd.Flags().StringVar(&exportMappings, "mappings", "", "section mapping file (JSON)")
	exportCmd.Flags().StringVar(&exportDuplicates, "duplicates", "", "duplicate handling: ask, skip, overwrite, rename")
	exportCmd.Flags().StringVar(&exportLogFile, "log", "", "write a detailed export log to this file")
	exportCmd.Flags().BoolVarP(&exportVerbose, "verbose", "v", false, "verbose output")
	exportCmd.Flags().BoolVarP(&exportQuiet, "quiet", "q", false, "quiet mode")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPath := resolveDatabasePath(exportDatabase, cfg)
	if dbPath == "" {
		return fmt.Errorf("no database directory given (use --database, the config file, or EASYWORSHIP_DB_PATH)")
	}

	outputDir := exportOutput
	if outputDir == "" {
		outputDir = cfg.Export.OutputDirectory
	}
	if outputDir == "" {
		outputDir = "."
	}

	db, err := easyworship.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// one snapshot of the mapping table for the whole batch
	table, err := loadMappingTable(exportMappings, cfg)
	if err != nil {
		return err
	}
	table = table.Clone()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	records, err := db.AllSongs(ctx)
	if err != nil {
		return err
	}
	records, err = filterByID(records, exportIDs)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no songs to export")
	}

	if !exportQuiet && exportVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Database: %s\n", dbPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "Output directory: %s\n", outputDir)
		fmt.Fprintf(cmd.ErrOrStderr(), "Songs selected: %d\n", len(records))
		fmt.Fprintf(cmd.ErrOrStderr(), "Section mappings: %d terms\n", table.Len())
	}

	logger, closeLog, err := exportLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	var items []pro6.BatchItem
	var skipped []string
	for _, rec := range records {
		raw, err := db.Lyrics(ctx, rec.ID)
		if err != nil {
			if errors.Is(err, easyworship.ErrNoLyrics) {
				skipped = append(skipped, fmt.Sprintf("%s: no lyrics", rec.Title))
				logger.Printf("skipped: id=%d title=%q: no lyrics", rec.ID, rec.Title)
				continue
			}
			return err
		}
		secs, err := processLyrics(raw, table, cfg)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", rec.Title, err))
			logger.Printf("skipped: id=%d title=%q: %v", rec.ID, rec.Title, err)
			continue
		}
		if !song.HasContent(secs) {
			skipped = append(skipped, fmt.Sprintf("%s: no usable lyric content", rec.Title))
			logger.Printf("skipped: id=%d title=%q: no usable lyric content", rec.ID, rec.Title)
			continue
		}
		items = append(items, pro6.BatchItem{Song: rec, Sections: secs})
	}

	exporter := pro6.New(exporterOptions(cfg), logger)

	var onProgress pro6.Progress
	if !exportQuiet {
		onProgress = func(done, total int, message string) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s\n", done, total, message)
		}
	}

	result := exporter.ExportBatch(ctx, items, outputDir, onProgress, duplicateResolver(cmd, cfg))

	printSummary(cmd, result, skipped)
	if len(result.Failures) > 0 {
		return fmt.Errorf("%d song(s) failed to export", len(result.Failures))
	}
	return nil
}

func resolveDatabasePath(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Database.Path != "" {
		return cfg.Database.Path
	}
	return config.GetEnvOrDefault("EASYWORSHIP_DB_PATH", "")
}

func filterByID(records []song.Record, ids []int64) ([]song.Record, error) {
	if len(ids) == 0 {
		return records, nil
	}
	byID := make(map[int64]song.Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	var out []song.Record
	for _, id := range ids {
		rec, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("song id %d not found in database", id)
		}
		out = append(out, rec)
	}
	return out, nil
}

func exporterOptions(cfg *config.Config) pro6.Options {
	return pro6.Options{
		FontName:                cfg.Export.Font.Family,
		FontSize:                cfg.Export.Font.Size,
		PreserveFormatting:      cfg.Export.PreserveFormatting,
		MaxLinesPerSlide:        cfg.Export.Slides.MaxLinesPerSlide,
		AutoBreakLongLines:      cfg.Export.Slides.AutoBreakLongLines,
		IncludeCCLIInFilename:   cfg.Export.IncludeCCLIInFilename,
		IncludeAuthorInFilename: cfg.Export.IncludeAuthorInFilename,
		OverwriteExisting:       cfg.Export.OverwriteExisting,
		RenamePattern:           cfg.Duplicate.RenamePattern,
	}
}

// exportLogger builds the batch logger: stderr when verbose, plus the
// --log file when given.
func exportLogger(stderr io.Writer) (*log.Logger, func(), error) {
	writers := []io.Writer{}
	if exportVerbose && !exportQuiet {
		writers = append(writers, stderr)
	}
	closeLog := func() {}
	if exportLogFile != "" {
		f, err := os.OpenFile(exportLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closeLog = func() { f.Close() }
	}
	if len(writers) == 0 {
		return log.New(io.Discard, "", 0), closeLog, nil
	}
	return log.New(io.MultiWriter(writers...), "", log.LstdFlags), closeLog, nil
}

// duplicateResolver turns the configured duplicate action into a batch
// resolver. The "ask" action prompts on the terminal for each conflict.
func duplicateResolver(cmd *cobra.Command, cfg *config.Config) pro6.Resolver {
	action := exportDuplicates
	if action == "" {
		action = cfg.Duplicate.DefaultAction
	}

	switch action {
	case "skip":
		return func(song.Record, string) pro6.Resolution {
			return pro6.Resolution{Decision: pro6.DecisionSkip, ApplyToAll: true}
		}
	case "overwrite":
		return func(song.Record, string) pro6.Resolution {
			return pro6.Resolution{Decision: pro6.DecisionOverwrite, ApplyToAll: true}
		}
	case "rename":
		return func(song.Record, string) pro6.Resolution {
			return pro6.Resolution{Decision: pro6.DecisionRenameAuto, ApplyToAll: true}
		}
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	remember := cfg.Duplicate.RememberChoice
	return func(rec song.Record, path string) pro6.Resolution {
		fmt.Fprintf(cmd.ErrOrStderr(), "File exists: %s\n", filepath.Base(path))
		for {
			fmt.Fprintf(cmd.ErrOrStderr(), "  [s]kip, [o]verwrite, [r]ename, [n]ew name, [c]ancel batch: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return pro6.Resolution{Decision: pro6.DecisionSkip}
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "s", "skip":
				return pro6.Resolution{Decision: pro6.DecisionSkip, ApplyToAll: remember}
			case "o", "overwrite":
				return pro6.Resolution{Decision: pro6.DecisionOverwrite, ApplyToAll: remember}
			case "r", "rename":
				return pro6.Resolution{Decision: pro6.DecisionRenameAuto, ApplyToAll: remember}
			case "n", "new":
				fmt.Fprintf(cmd.ErrOrStderr(), "  New name (without extension): ")
				name, err := reader.ReadString('\n')
				if err != nil || strings.TrimSpace(name) == "" {
					continue
				}
				return pro6.Resolution{
					Decision:   pro6.DecisionRenameCustom,
					CustomName: strings.TrimSpace(name),
				}
			case "c", "cancel":
				return pro6.Resolution{Decision: pro6.DecisionCancelBatch}
			}
		}
	}
}

func printSummary(cmd *cobra.Command, result pro6.BatchResult, skipped []string) {
	if exportQuiet {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nExported: %d  Skipped: %d  Failed: %d\n",
		len(result.Successes), len(skipped), len(result.Failures))

	const maxShown = 5
	show := func(label string, messages []string) {
		if len(messages) == 0 {
			return
		}
		fmt.Fprintf(out, "%s:\n", label)
		for i, msg := range messages {
			if i == maxShown {
				fmt.Fprintf(out, "  ... and %d more (see --log)\n", len(messages)-maxShown)
				break
			}
			fmt.Fprintf(out, "  %s\n", msg)
		}
	}
	show("Skipped", skipped)
	show("Failures", result.Failures)
}
