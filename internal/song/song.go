// Package song defines the shared types flowing through the conversion
// pipeline: the song metadata record read from the EasyWorship database and
// the typed sections produced by section detection.
package song

// Record holds the metadata for one song as stored in Songs.db. Absent
// database fields are normalized to empty strings by the access layer.
type Record struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author,omitempty"`
	Copyright       string `json:"copyright,omitempty"`
	Administrator   string `json:"administrator,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"` // CCLI number
	Tags            string `json:"tags,omitempty"`
	Description     string `json:"description,omitempty"`
}

// Section is one detected song section in document order. Type is the
// canonical label ("Verse", "Chorus", ...), optionally carrying a trailing
// number ("Verse 2"), or the synthetic "verse" when no markers were found.
// Content is one or more non-empty lines joined by "\n"; sections with empty
// content are never emitted.
type Section struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// HasContent reports whether any section carries non-blank content.
// Export refuses songs for which this is false.
func HasContent(sections []Section) bool {
	for _, s := range sections {
		if !isBlank(s.Content) {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
