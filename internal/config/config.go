// Package config manages application configuration.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Export    ExportConfig    `yaml:"export"`
	Sections  SectionsConfig  `yaml:"sections"`
	Duplicate DuplicateConfig `yaml:"duplicate_handling"`
}

// DatabaseConfig locates the EasyWorship database directory.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig controls output location, filenames, and slide styling.
type ExportConfig struct {
	OutputDirectory         string       `yaml:"output_directory"`
	IncludeCCLIInFilename   bool         `yaml:"include_ccli_in_filename"`
	IncludeAuthorInFilename bool         `yaml:"include_author_in_filename"`
	OverwriteExisting       bool         `yaml:"overwrite_existing"`
	PreserveFormatting      bool         `yaml:"preserve_formatting"`
	Font                    FontConfig   `yaml:"font"`
	Slides                  SlidesConfig `yaml:"slides"`
}

// FontConfig is applied to slide text when preserve_formatting is on.
type FontConfig struct {
	Family string `yaml:"family"`
	Size   int    `yaml:"size"`
	Color  string `yaml:"color"`
}

// SlidesConfig controls how section content is cut into slides.
type SlidesConfig struct {
	MaxLinesPerSlide   int  `yaml:"max_lines_per_slide"`
	AutoBreakLongLines bool `yaml:"auto_break_long_lines"`
}

// SectionsConfig controls section detection and text cleanup.
type SectionsConfig struct {
	MappingFile       string   `yaml:"mapping_file"`
	Languages         []string `yaml:"languages"`
	AdvancedDetection bool     `yaml:"advanced_detection"`
	RemoveChords      bool     `yaml:"remove_chords"`
}

// DuplicateConfig controls what happens when a target file already exists.
// DefaultAction is one of "ask", "skip", "overwrite", "rename".
type DuplicateConfig struct {
	DefaultAction  string `yaml:"default_action"`
	RenamePattern  string `yaml:"rename_pattern"`
	RememberChoice bool   `yaml:"remember_choice"`
}

// Set assigns a configuration value by dot-notation key path, e.g.
// "export.font.size". Boolean and integer fields parse their values;
// unknown keys are an error.
func (c *Config) Set(key, value string) error {
	switch key {
	case "database.path":
		c.Database.Path = value
	case "export.output_directory":
		c.Export.OutputDirectory = value
	case "export.include_ccli_in_filename":
		return setBool(&c.Export.IncludeCCLIInFilename, key, value)
	case "export.include_author_in_filename":
		return setBool(&c.Export.IncludeAuthorInFilename, key, value)
	case "export.overwrite_existing":
		return setBool(&c.Export.OverwriteExisting, key, value)
	case "export.preserve_formatting":
		return setBool(&c.Export.PreserveFormatting, key, value)
	case "export.font.family":
		c.Export.Font.Family = value
	case "export.font.size":
		return setInt(&c.Export.Font.Size, key, value)
	case "export.font.color":
		c.Export.Font.Color = value
	case "export.slides.max_lines_per_slide":
		return setInt(&c.Export.Slides.MaxLinesPerSlide, key, value)
	case "export.slides.auto_break_long_lines":
		return setBool(&c.Export.Slides.AutoBreakLongLines, key, value)
	case "sections.mapping_file":
		c.Sections.MappingFile = value
	case "sections.languages":
		c.Sections.Languages = splitList(value)
	case "sections.advanced_detection":
		return setBool(&c.Sections.AdvancedDetection, key, value)
	case "sections.remove_chords":
		return setBool(&c.Sections.RemoveChords, key, value)
	case "duplicate_handling.default_action":
		switch value {
		case "ask", "skip", "overwrite", "rename":
			c.Duplicate.DefaultAction = value
		default:
			return fmt.Errorf("invalid value for %s: %q (want ask, skip, overwrite, or rename)", key, value)
		}
	case "duplicate_handling.rename_pattern":
		c.Duplicate.RenamePattern = value
	case "duplicate_handling.remember_choice":
		return setBool(&c.Duplicate.RememberChoice, key, value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for %s: %q", key, value)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for %s: %q", key, value)
	}
	*dst = n
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "${EASYWORSHIP_DB_PATH}",
		},
		Export: ExportConfig{
			OutputDirectory:    "",
			PreserveFormatting: true,
			Font: FontConfig{
				Family: "Arial",
				Size:   48,
				Color:  "#FFFFFF",
			},
			Slides: SlidesConfig{
				MaxLinesPerSlide:   4,
				AutoBreakLongLines: true,
			},
		},
		Sections: SectionsConfig{
			Languages:         []string{"swedish", "english"},
			AdvancedDetection: true,
		},
		Duplicate: DuplicateConfig{
			DefaultAction: "ask",
			RenamePattern: "{name}_{number}",
		},
	}
}
