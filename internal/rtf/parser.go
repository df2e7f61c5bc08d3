// Package rtf converts the RTF lyric blobs stored in EasyWorship's
// SongWords.db into plain text. Only EasyWorship's dialect is handled: a
// small set of control words, cp1252 hex escapes, and the non-standard
// \uNNNN? Unicode escapes the application writes for Swedish characters.
package rtf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParsedText is the output of Parse. Lines preserves blank lines because
// they mark slide and section boundaries for the later pipeline stages.
type ParsedText struct {
	PlainText  string   `json:"plain_text"`
	Lines      []string `json:"lines"`
	HasContent bool     `json:"has_content"`
}

// unicodeOverrides maps escape code points that EasyWorship is known to
// mis-encode onto the characters it actually means. The table is
// authoritative and takes precedence over plain code point conversion;
// code 180 in particular is ambiguous in the source data (acute accent vs.
// an arbitrary quote) and the historical choice is kept as-is.
var unicodeOverrides = map[int]rune{
	228:  'ä',
	229:  'å',
	246:  'ö',
	180:  '´',
	8217: '\'',
	8220: '"',
	8221: '"',
	8211: '–',
	8212: '—',
}

var unicodeEscape = regexp.MustCompile(`\\u(-?\d+)\??`)

// Parse converts an RTF lyric blob to plain text. It returns (nil, nil) for
// empty or whitespace-only input, which means "no lyrics" rather than an
// error. Parse failures of the primary tokenizer fall back to a manual
// reduction; only if both fail is an error returned, and callers treat that
// the same as no usable content.
func Parse(raw string) (*ParsedText, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	text, err := rtfToText(raw)
	if err != nil {
		text, err = manualReduce(raw)
		if err != nil {
			return nil, fmt.Errorf("rtf parse failed: %w", err)
		}
	}

	text = recoverUnicode(text)
	text = tidy(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return &ParsedText{
		PlainText:  text,
		Lines:      lines,
		HasContent: strings.TrimSpace(text) != "",
	}, nil
}

// skipDestinations are RTF group destinations whose content never reaches
// the visible text.
var skipDestinations = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"themedata":  true,
	"generator":  true,
}

// rtfToText is the primary conversion path: a single pass over the input
// tracking group nesting, translating the control words EasyWorship emits
// and dropping everything else. \uN escapes are passed through verbatim so
// recoverUnicode can apply the override table afterwards.
func rtfToText(src string) (string, error) {
	if !strings.HasPrefix(strings.TrimLeft(src, " \t\r\n"), `{\rtf`) {
		return "", fmt.Errorf("not an RTF document")
	}

	var sb strings.Builder
	depth := 0
	skipDepth := 0 // group depth at which a skipped destination started

	i := 0
	for i < len(src) {
		c := src[i]
		switch c {
		case '{':
			depth++
			i++
		case '}':
			if depth == 0 {
				return "", fmt.Errorf("unbalanced group at offset %d", i)
			}
			if skipDepth == depth {
				skipDepth = 0
			}
			depth--
			i++
		case '\\':
			if i+1 >= len(src) {
				i++
				break
			}
			next := src[i+1]
			switch {
			case next == '{' || next == '}' || next == '\\':
				if skipDepth == 0 {
					sb.WriteByte(next)
				}
				i += 2
			case next == '\'':
				// \'hh cp1252 hex escape
				if i+3 < len(src) {
					if b, err := strconv.ParseUint(src[i+2:i+4], 16, 8); err == nil {
						if skipDepth == 0 {
							sb.WriteRune(cp1252ToRune(byte(b)))
						}
						i += 4
						continue
					}
				}
				i += 2
			case next == '*':
				// ignorable destination: skip the enclosing group
				if skipDepth == 0 {
					skipDepth = depth
				}
				i += 2
			case isLetter(next):
				word, param, n := readControlWord(src[i:])
				i += n
				if skipDepth != 0 {
					continue
				}
				switch word {
				case "par", "line":
					sb.WriteByte('\n')
				case "tab":
					sb.WriteByte('\t')
				case "u":
					// keep the escape text for recoverUnicode
					sb.WriteString(`\u` + param)
					if i < len(src) && src[i] == '?' {
						sb.WriteByte('?')
						i++
					}
				default:
					if skipDestinations[word] && skipDepth == 0 {
						skipDepth = depth
					}
				}
			default:
				// unknown escape like \~ or \-; drop it
				i += 2
			}
		case '\r', '\n':
			// raw line breaks in RTF source are not text
			i++
		default:
			if skipDepth == 0 {
				sb.WriteByte(c)
			}
			i++
		}
	}

	if depth != 0 {
		return "", fmt.Errorf("unterminated group (depth %d)", depth)
	}
	return sb.String(), nil
}

// readControlWord reads a control word starting at the backslash and returns
// the word, its numeric parameter as text ("" if absent), and the number of
// bytes consumed including a single trailing space delimiter.
func readControlWord(s string) (word, param string, n int) {
	i := 1 // past the backslash
	start := i
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	word = s[start:i]

	pStart := i
	if i < len(s) && s[i] == '-' {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	param = s[pStart:i]

	if i < len(s) && s[i] == ' ' {
		i++
	}
	return word, param, i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var (
	headerPattern      = regexp.MustCompile(`^\{\\rtf[^}]*\}`)
	fontTablePattern   = regexp.MustCompile(`\{\\fonttbl[^}]*\}`)
	colorTablePattern  = regexp.MustCompile(`\{\\colortbl[^}]*\}`)
	groupPattern       = regexp.MustCompile(`\{\\[^}]*\}`)
	controlWordPattern = regexp.MustCompile(`\\[a-z]+-?\d*\s?`)
)

// manualReduce is the fallback path: strip RTF structure with pattern
// replacement instead of real parsing. Coarse, but it keeps malformed blobs
// exportable.
func manualReduce(src string) (string, error) {
	text := src

	text = headerPattern.ReplaceAllString(text, "")
	text = strings.TrimSuffix(text, "}")

	text = strings.ReplaceAll(text, `\par`, "\n")
	text = strings.ReplaceAll(text, `\line`, "\n")

	text = fontTablePattern.ReplaceAllString(text, "")
	text = colorTablePattern.ReplaceAllString(text, "")
	text = groupPattern.ReplaceAllString(text, "")
	text = controlWordPattern.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, "{", "")
	text = strings.ReplaceAll(text, "}", "")

	text = strings.ReplaceAll(text, `\{`, "{")
	text = strings.ReplaceAll(text, `\}`, "}")
	text = strings.ReplaceAll(text, `\\`, `\`)

	return text, nil
}

// recoverUnicode decodes the \uNNNN? escapes EasyWorship leaves in lyric
// text. The override table wins; otherwise negative values get the 16-bit
// two's-complement correction before conversion.
func recoverUnicode(text string) string {
	return unicodeEscape.ReplaceAllStringFunc(text, func(match string) string {
		digits := strings.TrimSuffix(strings.TrimPrefix(match, `\u`), "?")
		code, err := strconv.Atoi(digits)
		if err != nil {
			return match
		}
		if r, ok := unicodeOverrides[code]; ok {
			return string(r)
		}
		if code < 0 {
			code += 65536
		}
		if code <= 0 || code > 0x10FFFF {
			return match
		}
		return string(rune(code))
	})
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// tidy normalizes line endings, collapses runs of blank lines and trims
// every line on the right before trimming the whole text.
func tidy(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// cp1252ToRune maps a Windows-1252 byte to its Unicode character. Bytes in
// 0x80..0x9F differ from Latin-1; everything else maps straight through.
func cp1252ToRune(b byte) rune {
	if r, ok := cp1252High[b]; ok {
		return r
	}
	return rune(b)
}

var cp1252High = map[byte]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„', 0x85: '…',
	0x86: '†', 0x87: '‡', 0x88: 'ˆ', 0x89: '‰', 0x8A: 'Š',
	0x8B: '‹', 0x8C: 'Œ', 0x8E: 'Ž', 0x91: '‘', 0x92: '’',
	0x93: '“', 0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›', 0x9C: 'œ',
	0x9E: 'ž', 0x9F: 'Ÿ',
}
