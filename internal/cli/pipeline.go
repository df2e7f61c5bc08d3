package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roboco-io/ew2propresenter/internal/config"
	"github.com/roboco-io/ew2propresenter/internal/rtf"
	"github.com/roboco-io/ew2propresenter/internal/sections"
	"github.com/roboco-io/ew2propresenter/internal/song"
	"github.com/roboco-io/ew2propresenter/internal/textclean"
)

// MappingsFileName is the section mapping document kept next to the config
// file.
const MappingsFileName = "section_mappings.json"

func defaultMappingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, config.ConfigDirName, MappingsFileName), nil
}

// loadMappingTable resolves the section mapping table: an explicit file
// wins, then the default mappings document if present, then the built-in
// lexicons for the configured languages.
func loadMappingTable(explicitPath string, cfg *config.Config) (*sections.Table, error) {
	path := explicitPath
	if path == "" {
		path = cfg.Sections.MappingFile
	}
	if path != "" {
		return sections.LoadTable(path)
	}

	defaultPath, err := defaultMappingsPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(defaultPath); err == nil {
		return sections.LoadTable(defaultPath)
	}

	if len(cfg.Sections.Languages) > 0 {
		return sections.MergedTable(cfg.Sections.Languages...), nil
	}
	return sections.DefaultTable(), nil
}

// processLyrics runs stages 1 to 3 on one raw RTF blob. A nil section
// slice with a nil error means the song has no usable content.
func processLyrics(raw string, table *sections.Table, cfg *config.Config) ([]song.Section, error) {
	parsed, err := rtf.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lyrics: %w", err)
	}
	if parsed == nil || !parsed.HasContent {
		return nil, nil
	}

	cleaned := textclean.CleanSong(parsed.PlainText, cfg.Sections.RemoveChords)
	if cleaned == "" {
		return nil, nil
	}

	mode := sections.ModeStandard
	if cfg.Sections.AdvancedDetection {
		mode = sections.ModeAdvanced
	}
	result := sections.Detect(cleaned, table, mode)
	return result.Sections, nil
}
