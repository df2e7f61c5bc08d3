package pro6

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// FallbackFilename is used when a title sanitizes down to nothing.
const FallbackFilename = "Untitled_Song"

const maxFilenameLength = 200

var (
	reservedChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a song title safe for Windows and Unix
// filesystems: control characters are dropped, reserved characters become
// underscores, whitespace runs collapse to one space, and the result is
// trimmed of spaces and dots and capped at 200 characters.
func SanitizeFilename(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r < 32 || r == 127 {
			continue
		}
		sb.WriteRune(r)
	}
	cleaned := reservedChars.ReplaceAllString(sb.String(), "_")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " .")
	if runes := []rune(cleaned); len(runes) > maxFilenameLength {
		cleaned = strings.Trim(string(runes[:maxFilenameLength]), " .")
	}
	if cleaned == "" {
		return FallbackFilename
	}
	return cleaned
}

// fileName derives the output filename for a song from its title plus the
// configured CCLI/author suffixes.
func (e *Exporter) fileName(title, referenceNumber, author string) string {
	name := SanitizeFilename(title)
	if e.opts.IncludeCCLIInFilename && referenceNumber != "" {
		name += "_" + SanitizeFilename(referenceNumber)
	}
	if e.opts.IncludeAuthorInFilename && author != "" {
		name += "_" + SanitizeFilename(author)
	}
	return name + Extension
}

// autoRename finds the first free numbered variant of path using the rename
// pattern ("{name}_{number}" by default).
func autoRename(path, pattern string) string {
	if pattern == "" {
		pattern = "{name}_{number}"
	}
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext)

	for n := 1; ; n++ {
		stem := strings.ReplaceAll(pattern, "{name}", name)
		stem = strings.ReplaceAll(stem, "{number}", fmt.Sprintf("%d", n))
		candidate := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
