package sections

import (
	"strings"

	"github.com/roboco-io/ew2propresenter/internal/song"
)

// Mode selects the detection strategy.
type Mode int

const (
	// ModeStandard recognizes only explicit marker lines.
	ModeStandard Mode = iota
	// ModeAdvanced falls back to a repeated-paragraph heuristic when the
	// standard pass finds no real sections.
	ModeAdvanced
)

// Result is the outcome of a detection pass. HasSections is true when more
// than one section was found, or a single one that is not the default
// "verse" catch-all.
type Result struct {
	Sections    []song.Section
	HasSections bool
}

// Detect partitions cleaned lyric text into typed sections using the given
// mapping table. Text with no recognized markers becomes a single "verse"
// section containing everything.
func Detect(text string, table *Table, mode Mode) Result {
	result := detectStandard(text, table)
	if mode == ModeAdvanced && !result.HasSections {
		if heuristic := detectByRepetition(text); len(heuristic) > 0 {
			result.Sections = heuristic
			result.HasSections = true
		}
	}
	return result
}

func detectStandard(text string, table *Table) Result {
	if strings.TrimSpace(text) == "" {
		return Result{}
	}

	var sections []song.Section
	currentType := ""
	var buffer []string

	flush := func() {
		content := strings.TrimSpace(strings.Join(buffer, "\n"))
		if content == "" {
			return
		}
		sectionType := currentType
		if sectionType == "" {
			// content before the first marker
			sectionType = "verse"
		}
		sections = append(sections, song.Section{Type: sectionType, Content: content})
	}

	for _, line := range strings.Split(text, "\n") {
		label, ok := matchMarker(line, table)
		if !ok {
			buffer = append(buffer, line)
			continue
		}
		flush()
		currentType = label
		buffer = buffer[:0]
	}
	flush()

	if len(sections) == 0 {
		sections = append(sections, song.Section{
			Type:    "verse",
			Content: strings.TrimSpace(text),
		})
	}

	hasSections := len(sections) > 1 ||
		(len(sections) == 1 && sections[0].Type != "verse")

	return Result{Sections: sections, HasSections: hasSections}
}

// matchMarker reports whether a line is a section marker and returns the
// formatted canonical label. A marker is a table key alone, a key followed
// by a number ("vers 2"), or a key followed by a colon. Unknown words never
// start a section.
func matchMarker(line string, table *Table) (string, bool) {
	clean := strings.ToLower(strings.TrimSpace(line))
	if clean == "" {
		return "", false
	}

	if label, ok := table.Lookup(clean); ok {
		return label, true
	}

	// longest key first so "verse" is tried before "vers"
	for _, key := range table.Keys() {
		if !strings.HasPrefix(clean, key) {
			continue
		}
		rest := clean[len(key):]
		switch {
		case strings.HasPrefix(rest, ":"):
			label, _ := table.Lookup(key)
			return label, true
		case isDigits(strings.TrimSpace(rest)):
			// "vers 2" and "vers2" both mark a numbered section
			label, _ := table.Lookup(key)
			return table.FormatLabel(label, strings.TrimSpace(rest)), true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// detectByRepetition splits on blank-line paragraphs and labels the most
// repeated paragraph (appearing at least twice) as the chorus, everything
// else as verses, in document order. Ties on the repeat count go to the
// paragraph that appears first in the document.
func detectByRepetition(text string) []song.Section {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		if p := strings.TrimSpace(para); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) < 2 {
		return nil
	}

	counts := make(map[string]int, len(paragraphs))
	for _, p := range paragraphs {
		counts[p]++
	}

	chorus := ""
	best := 0
	for _, p := range paragraphs { // document order breaks ties
		if counts[p] > best {
			best = counts[p]
			chorus = p
		}
	}
	if best < 2 {
		chorus = ""
	}

	sections := make([]song.Section, 0, len(paragraphs))
	for _, p := range paragraphs {
		sectionType := "verse"
		if p == chorus {
			sectionType = "chorus"
		}
		sections = append(sections, song.Section{Type: sectionType, Content: p})
	}
	return sections
}
