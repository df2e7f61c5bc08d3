// Package textclean normalizes plain text between the RTF parse and section
// detection: stray control characters, leftover RTF artifacts, whitespace,
// typographic punctuation, and the song-specific quirks (chord notations,
// repetition shorthand, line capitalization).
package textclean

import (
	"regexp"
	"strings"
	"unicode"
)

// unwantedChars are substituted rather than deleted: vertical tab and form
// feed act as line breaks in the source data, NBSP as a plain space.
var unwantedChars = strings.NewReplacer(
	"\x00", "",
	"\x0b", "\n",
	"\x0c", "\n",
	"\u00a0", " ",
	"\u2028", "\n",
	"\u2029", "\n\n",
)

var punctuation = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"–", "-",
	"—", "-",
	"…", "...",
)

var (
	rtfControlWords = regexp.MustCompile(`\\[a-z]+\d*`)
	rtfGroups       = regexp.MustCompile(`\{[^}]*\}`)
	rtfHexEscapes   = regexp.MustCompile(`\\'[0-9a-f]{2}`)

	spaceRuns = regexp.MustCompile(` {2,}`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes text. It is total: any input yields a string, empty input
// yields "". Applying it twice gives the same result as applying it once.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = stripArtifacts(text)
	text = unwantedChars.Replace(text)
	text = stripControlChars(text)
	text = normalizeWhitespace(text)
	text = normalizeLineBreaks(text)
	text = punctuation.Replace(text)

	return strings.TrimSpace(text)
}

// CleanSong runs Clean and then the song-specific pass: chord removal (when
// requested), repetition shorthand removal, sentence spacing, parenthesis
// trimming and per-line capitalization.
func CleanSong(text string, removeChords bool) string {
	text = Clean(text)
	if text == "" {
		return ""
	}

	if removeChords {
		text = stripChords(text)
	}
	text = stripRepetitionMarkers(text)
	text = fixSongFormatting(text)

	// removals can leave dangling spaces and blank lines behind
	return strings.TrimSpace(normalizeLineBreaks(text))
}

// stripArtifacts removes RTF control words and brace groups that survived
// the parse stage. Double-cleaning is intentional: malformed blobs leak
// fragments past the parser.
func stripArtifacts(text string) string {
	text = rtfControlWords.ReplaceAllString(text, "")
	text = rtfGroups.ReplaceAllString(text, "")
	text = rtfHexEscapes.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, `\{`, "{")
	text = strings.ReplaceAll(text, `\}`, "}")
	text = strings.ReplaceAll(text, `\\`, `\`)

	return text
}

func stripControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 || r == '\n' || r == '\t' {
			return r
		}
		return -1
	}, text)
}

func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\t", "  ")
	return spaceRuns.ReplaceAllString(text, " ")
}

func normalizeLineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// chordPattern matches chord symbols like C, G7, Am, F#m7, Bbsus4.
const chordPattern = `[A-G][#b]?(?:maj|min|m|dim|aug|sus|add)?[0-9]*`

var (
	bracketedChords = regexp.MustCompile(`\[` + chordPattern + `\]`)
	parenthesChords = regexp.MustCompile(`\(` + chordPattern + `\)`)
	lineStartChords = regexp.MustCompile(`(?m)^` + chordPattern + `\s+`)
	repetitionMarks = regexp.MustCompile(`(?mi)\(x\d+\)|\(\d+x\)|\[x\d+\]|\[\d+x\]|x\d+$`)
	sentenceSpacing = regexp.MustCompile(`([.!?])([A-Za-zÅÄÖåäö])`)
	parenOpenSpace  = regexp.MustCompile(`\(\s+`)
	parenCloseSpace = regexp.MustCompile(`\s+\)`)
)

func stripChords(text string) string {
	text = bracketedChords.ReplaceAllString(text, "")
	text = parenthesChords.ReplaceAllString(text, "")
	text = lineStartChords.ReplaceAllString(text, "")
	return text
}

func stripRepetitionMarkers(text string) string {
	return repetitionMarks.ReplaceAllString(text, "")
}

func fixSongFormatting(text string) string {
	text = sentenceSpacing.ReplaceAllString(text, "$1 $2")
	text = parenOpenSpace.ReplaceAllString(text, "(")
	text = parenCloseSpace.ReplaceAllString(text, ")")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = capitalizeLine(line)
	}
	return strings.Join(lines, "\n")
}

// capitalizeLine upper-cases the first non-whitespace rune of a line,
// leaving leading indentation in place.
func capitalizeLine(line string) string {
	runes := []rune(line)
	for i, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		if unicode.IsLower(r) {
			runes[i] = unicode.ToUpper(r)
			return string(runes)
		}
		return line
	}
	return line
}
