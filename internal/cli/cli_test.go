package cli

import (
	"testing"

	"github.com/roboco-io/ew2propresenter/internal/config"
	"github.com/roboco-io/ew2propresenter/internal/pro6"
	"github.com/roboco-io/ew2propresenter/internal/song"
)

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "ew2propresenter" {
		t.Errorf("expected Use 'ew2propresenter', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestVersionCommand(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("expected Use 'version', got '%s'", versionCmd.Use)
	}
	if versionCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestExportCommandFlags(t *testing.T) {
	if exportCmd.Use != "export" {
		t.Errorf("expected Use 'export', got '%s'", exportCmd.Use)
	}

	flags := []string{"database", "output", "id", "mappings", "duplicates", "log", "verbose", "quiet"}
	for _, flag := range flags {
		if exportCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestInspectCommandFlags(t *testing.T) {
	if inspectCmd.Use != "inspect <song-id>" {
		t.Errorf("expected Use 'inspect <song-id>', got '%s'", inspectCmd.Use)
	}

	flags := []string{"database", "mappings", "json"}
	for _, flag := range flags {
		if inspectCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", configCmd.Use)
	}

	subcommands := []string{"show", "init", "set", "path"}
	for _, name := range subcommands {
		found := false
		for _, cmd := range configCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

func TestMappingsCommand(t *testing.T) {
	subcommands := []string{"show", "init", "languages"}
	for _, name := range subcommands {
		found := false
		for _, cmd := range mappingsCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

func TestFilterByID(t *testing.T) {
	records := []song.Record{
		{ID: 1, Title: "Amazing Grace"},
		{ID: 2, Title: "Be Thou My Vision"},
		{ID: 3, Title: "Cornerstone"},
	}

	t.Run("no filter returns all", func(t *testing.T) {
		out, err := filterByID(records, nil)
		if err != nil {
			t.Fatalf("filterByID: %v", err)
		}
		if len(out) != 3 {
			t.Errorf("expected 3 records, got %d", len(out))
		}
	})

	t.Run("selects in requested order", func(t *testing.T) {
		out, err := filterByID(records, []int64{3, 1})
		if err != nil {
			t.Fatalf("filterByID: %v", err)
		}
		if len(out) != 2 || out[0].ID != 3 || out[1].ID != 1 {
			t.Errorf("unexpected selection: %+v", out)
		}
	})

	t.Run("unknown id errors", func(t *testing.T) {
		if _, err := filterByID(records, []int64{99}); err == nil {
			t.Error("expected error for unknown id")
		}
	})
}

func TestProcessLyrics(t *testing.T) {
	cfg := config.DefaultConfig()
	table, err := loadMappingTable("", cfg)
	if err != nil {
		t.Fatalf("loadMappingTable: %v", err)
	}

	raw := `{\rtf1\ansi\deff0 {\fonttbl {\f0 Times New Roman;}}
verse\par
Djupt inne i hj\u228?rtat\par
\par
refr\u228?ng\par
En eld som brinner\par
}`

	secs, err := processLyrics(raw, table, cfg)
	if err != nil {
		t.Fatalf("processLyrics: %v", err)
	}
	if len(secs) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(secs), secs)
	}
	if secs[0].Type != "Verse" || secs[1].Type != "Chorus" {
		t.Errorf("unexpected section types: %q, %q", secs[0].Type, secs[1].Type)
	}
	if secs[0].Content != "Djupt inne i hjärtat" {
		t.Errorf("Swedish characters not recovered: %q", secs[0].Content)
	}
}

func TestProcessLyricsEmpty(t *testing.T) {
	cfg := config.DefaultConfig()
	table, err := loadMappingTable("", cfg)
	if err != nil {
		t.Fatalf("loadMappingTable: %v", err)
	}

	secs, err := processLyrics("   ", table, cfg)
	if err != nil {
		t.Fatalf("processLyrics: %v", err)
	}
	if secs != nil {
		t.Errorf("expected nil sections for blank input, got %+v", secs)
	}
}

func TestExporterOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Export.Font.Family = "Georgia"
	cfg.Export.Slides.MaxLinesPerSlide = 6

	opts := exporterOptions(cfg)
	if opts.FontName != "Georgia" {
		t.Errorf("expected font 'Georgia', got %s", opts.FontName)
	}
	if opts.MaxLinesPerSlide != 6 {
		t.Errorf("expected 6 lines per slide, got %d", opts.MaxLinesPerSlide)
	}
	if !opts.PreserveFormatting {
		t.Error("expected PreserveFormatting to carry over")
	}
}

func TestDuplicateResolverFixedActions(t *testing.T) {
	tests := []struct {
		action string
		want   pro6.Decision
	}{
		{"skip", pro6.DecisionSkip},
		{"overwrite", pro6.DecisionOverwrite},
		{"rename", pro6.DecisionRenameAuto},
	}

	for _, tc := range tests {
		t.Run(tc.action, func(t *testing.T) {
			oldValue := exportDuplicates
			defer func() { exportDuplicates = oldValue }()
			exportDuplicates = tc.action

			resolve := duplicateResolver(exportCmd, config.DefaultConfig())
			res := resolve(song.Record{Title: "x"}, "/tmp/x.pro6")
			if res.Decision != tc.want {
				t.Errorf("expected decision %v, got %v", tc.want, res.Decision)
			}
			if !res.ApplyToAll {
				t.Error("fixed actions should apply to all duplicates")
			}
		})
	}
}
