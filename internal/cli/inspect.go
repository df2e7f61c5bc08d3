package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/roboco-io/ew2propresenter/internal/config"
	"github.com/roboco-io/ew2propresenter/internal/easyworship"
	"github.com/roboco-io/ew2propresenter/internal/rtf"
	"github.com/roboco-io/ew2propresenter/internal/sections"
	"github.com/roboco-io/ew2propresenter/internal/song"
	"github.com/roboco-io/ew2propresenter/internal/textclean"
)

var (
	inspectDatabase string
	inspectMappings string
	inspectJSON     bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <song-id>",
	Short: "Show the processing stages for one song",
	Long: `Run the lyric pipeline on one song and show each stage: the raw
RTF from the database, the parsed plain text, the cleaned text, and the
detected sections. Useful for debugging section markers and character
recovery without writing any files.

Examples:
  ew2propresenter inspect 42
  ew2propresenter inspect 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectDatabase, "database", "d", "", "EasyWorship database directory")
	inspectCmd.Flags().StringVar(&inspectMappings, "mappings", "", "section mapping file (JSON)")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(inspectCmd)
}

// inspectReport is the JSON shape of the inspect output.
type inspectReport struct {
	Song        song.Record    `json:"song"`
	RawRTF      string         `json:"raw_rtf"`
	ParsedText  string         `json:"parsed_text"`
	CleanedText string         `json:"cleaned_text"`
	Sections    []song.Section `json:"sections"`
	HasSections bool           `json:"has_sections"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	var songID int64
	if _, err := fmt.Sscanf(args[0], "%d", &songID); err != nil {
		return fmt.Errorf("invalid song id: %s", args[0])
	}

	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPath := resolveDatabasePath(inspectDatabase, cfg)
	if dbPath == "" {
		return fmt.Errorf("no database directory given (use --database, the config file, or EASYWORSHIP_DB_PATH)")
	}

	db, err := easyworship.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	records, err := db.AllSongs(ctx)
	if err != nil {
		return err
	}
	records, err = filterByID(records, []int64{songID})
	if err != nil {
		return err
	}
	rec := records[0]

	raw, err := db.Lyrics(ctx, rec.ID)
	if err != nil {
		return err
	}

	report := inspectReport{Song: rec, RawRTF: raw}

	parsed, err := rtf.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse lyrics: %w", err)
	}
	if parsed != nil {
		report.ParsedText = parsed.PlainText
		report.CleanedText = textclean.CleanSong(parsed.PlainText, cfg.Sections.RemoveChords)

		table, err := loadMappingTable(inspectMappings, cfg)
		if err != nil {
			return err
		}
		mode := sections.ModeStandard
		if cfg.Sections.AdvancedDetection {
			mode = sections.ModeAdvanced
		}
		result := sections.Detect(report.CleanedText, table, mode)
		report.Sections = result.Sections
		report.HasSections = result.HasSections
	}

	if inspectJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Song #%d: %s\n", rec.ID, rec.Title)
	if rec.Author != "" {
		fmt.Fprintf(out, "Author: %s\n", rec.Author)
	}
	if rec.ReferenceNumber != "" {
		fmt.Fprintf(out, "CCLI: %s\n", rec.ReferenceNumber)
	}
	fmt.Fprintf(out, "\n--- Raw RTF (%d bytes) ---\n%s\n", len(raw), raw)
	fmt.Fprintf(out, "\n--- Parsed text ---\n%s\n", report.ParsedText)
	fmt.Fprintf(out, "\n--- Cleaned text ---\n%s\n", report.CleanedText)
	fmt.Fprintf(out, "\n--- Sections (%d, detected=%v) ---\n", len(report.Sections), report.HasSections)
	for i, sec := range report.Sections {
		fmt.Fprintf(out, "[%d] %s\n%s\n\n", i+1, sec.Type, sec.Content)
	}
	return nil
}
