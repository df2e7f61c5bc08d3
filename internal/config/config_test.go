package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Export.Font.Family != "Arial" {
		t.Errorf("expected default font 'Arial', got %s", cfg.Export.Font.Family)
	}
	if cfg.Export.Font.Size != 48 {
		t.Errorf("expected default font size 48, got %d", cfg.Export.Font.Size)
	}
	if cfg.Export.Slides.MaxLinesPerSlide != 4 {
		t.Errorf("expected max 4 lines per slide, got %d", cfg.Export.Slides.MaxLinesPerSlide)
	}
	if !cfg.Export.Slides.AutoBreakLongLines {
		t.Error("expected auto_break_long_lines to default to true")
	}
	if !cfg.Export.PreserveFormatting {
		t.Error("expected preserve_formatting to default to true")
	}
	if cfg.Duplicate.DefaultAction != "ask" {
		t.Errorf("expected duplicate default action 'ask', got %s", cfg.Duplicate.DefaultAction)
	}
	if cfg.Duplicate.RenamePattern != "{name}_{number}" {
		t.Errorf("expected rename pattern '{name}_{number}', got %s", cfg.Duplicate.RenamePattern)
	}
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name:  "database path",
			key:   "database.path",
			value: "/data/ew",
			check: func(c *Config) bool { return c.Database.Path == "/data/ew" },
		},
		{
			name:  "font size",
			key:   "export.font.size",
			value: "54",
			check: func(c *Config) bool { return c.Export.Font.Size == 54 },
		},
		{
			name:    "font size not a number",
			key:     "export.font.size",
			value:   "big",
			wantErr: true,
		},
		{
			name:  "overwrite flag",
			key:   "export.overwrite_existing",
			value: "true",
			check: func(c *Config) bool { return c.Export.OverwriteExisting },
		},
		{
			name:    "bad boolean",
			key:     "export.overwrite_existing",
			value:   "maybe",
			wantErr: true,
		},
		{
			name:  "languages list",
			key:   "sections.languages",
			value: "swedish, norwegian",
			check: func(c *Config) bool {
				return len(c.Sections.Languages) == 2 && c.Sections.Languages[1] == "norwegian"
			},
		},
		{
			name:  "duplicate action",
			key:   "duplicate_handling.default_action",
			value: "rename",
			check: func(c *Config) bool { return c.Duplicate.DefaultAction == "rename" },
		},
		{
			name:    "invalid duplicate action",
			key:     "duplicate_handling.default_action",
			value:   "explode",
			wantErr: true,
		},
		{
			name:    "unknown key",
			key:     "nonsense.key",
			value:   "x",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tc.key, tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Set(%q, %q): expected error", tc.key, tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q, %q): %v", tc.key, tc.value, err)
			}
			if !tc.check(cfg) {
				t.Errorf("Set(%q, %q) did not apply", tc.key, tc.value)
			}
		})
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := NewLoaderWithPath(configPath)

	cfg := DefaultConfig()
	cfg.Export.Font.Family = "Helvetica"

	if err := loader.Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if !loader.Exists() {
		t.Error("expected config file to exist after save")
	}

	loaded, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Export.Font.Family != "Helvetica" {
		t.Errorf("expected font 'Helvetica', got %s", loaded.Export.Font.Family)
	}
}

func TestLoader_LoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nonexistent", "config.yaml")

	loader := NewLoaderWithPath(configPath)

	// Should return default config when file doesn't exist
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if cfg.Export.Font.Family != "Arial" {
		t.Errorf("expected default font 'Arial', got %s", cfg.Export.Font.Family)
	}
}

func TestLoader_ExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_EW_DB", "/srv/easyworship/data")
	defer os.Unsetenv("TEST_EW_DB")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `database:
  path: ${TEST_EW_DB}
export:
  font:
    family: Arial
    size: 48
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoaderWithPath(configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "/srv/easyworship/data" {
		t.Errorf("expected expanded database path, got %s", cfg.Database.Path)
	}
}

func TestExpandEnvVars_UnsetVar(t *testing.T) {
	os.Unsetenv("UNSET_VAR_FOR_TEST")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `database:
  path: ${UNSET_VAR_FOR_TEST}
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoaderWithPath(configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Unset env var should result in empty string
	if cfg.Database.Path != "" {
		t.Errorf("expected empty path for unset env var, got %s", cfg.Database.Path)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if v := GetEnvOrDefault("TEST_VAR", "default"); v != "test-value" {
		t.Errorf("expected 'test-value', got %s", v)
	}
	if v := GetEnvOrDefault("NONEXISTENT_VAR", "default"); v != "default" {
		t.Errorf("expected 'default', got %s", v)
	}
}

func TestNewLoader(t *testing.T) {
	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("failed to create loader: %v", err)
	}

	path := loader.ConfigPath()
	if path == "" {
		t.Error("expected non-empty config path")
	}
	if filepath.Base(path) != ConfigFileName {
		t.Errorf("expected config file name %s, got %s", ConfigFileName, filepath.Base(path))
	}
}

func TestLoader_Init(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := NewLoaderWithPath(configPath)

	if err := loader.Init(); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}
	if !loader.Exists() {
		t.Error("expected config file to exist after init")
	}

	// Init again should fail
	if err := loader.Init(); err == nil {
		t.Error("expected error when initializing existing config")
	}
}

func TestLoader_LoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := "{{{{invalid yaml"
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoaderWithPath(configPath)
	if _, err := loader.Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
