package pro6

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Default text styling applied when the export options carry none.
const (
	defaultFontName = "Arial"
	defaultFontSize = 60
)

// plainData encodes slide lines as CRLF-joined plain text, base64 encoded
// the way ProPresenter stores every text payload.
func plainData(lines []string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(lines, "\r\n")))
}

// rtfEscape makes a lyric line safe inside an RTF group. Non-ASCII runes
// become signed 16-bit \uN? escapes so the payload stays pure ANSI.
func rtfEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r > 127:
			n := int(r)
			if n > 32767 {
				n -= 65536
			}
			fmt.Fprintf(&sb, "\\u%d?", n)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// rtfData builds the ProPresenter RTF payload: a fixed four-slot font table
// (Times New Roman, Georgia, Arial, then the configured face in slot f4),
// a two-color table, and one centered paragraph group per lyric line. Font
// sizes are doubled because RTF measures in half-points.
func rtfData(lines []string, fontName string, fontSize int) string {
	if fontName == "" {
		fontName = defaultFontName
	}
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}

	rtfLines := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rtfLines = append(rtfLines,
			fmt.Sprintf(`{\cf2\ltrch %s}\li0\sa0\sb0\fi0\qc\par`, rtfEscape(line)))
	}
	body := strings.Join(rtfLines, `\r\n`)

	doc := fmt.Sprintf(`{\rtf1\prortf1\ansi\ansicpg1252\uc1\htmautsp\deff2`+
		`{\fonttbl{\f0\fcharset0 Times New Roman;}{\f2\fcharset0 Georgia;}{\f3\fcharset0 Arial;}{\f4\fcharset0 %s;}}`+
		`{\colortbl;\red0\green0\blue0;\red255\green255\blue255;}`+
		`\loch\hich\dbch\pard\slleading0\plain\ltrpar\itap0`+
		`{\lang1033\fs%d\f3\cf1 \cf1\qc`+
		`{\fs%d\f4 %s}\r\n}`,
		fontName, fontSize*2, fontSize*2, body)

	return base64.StdEncoding.EncodeToString([]byte(doc))
}

// xmlEscape covers the characters that must not appear raw in the flow
// document payload.
var xmlEscape = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// flowData builds the Windows FlowDocument payload: one centered Paragraph
// per lyric line, the whole fragment XML-escaped so it survives as element
// text, then base64 encoded.
func flowData(lines []string, fontName string, fontSize int) string {
	if fontName == "" {
		fontName = defaultFontName
	}
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}

	var paragraphs strings.Builder
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fmt.Fprintf(&paragraphs,
			`<Paragraph Margin="0,0,0,0" TextAlignment="Center" FontFamily="%s" FontSize="%d">`+
				`<Run FontFamily="%s" FontSize="%d" Foreground="#FFFFFFFF" Block.TextAlignment="Center">%s</Run></Paragraph>`,
			fontName, fontSize, fontName, fontSize, xmlEscape.Replace(line))
	}

	doc := `<FlowDocument TextAlignment="Center" PagePadding="5,0,5,0" AllowDrop="True" ` +
		`xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">` +
		paragraphs.String() + `</FlowDocument>`

	return base64.StdEncoding.EncodeToString([]byte(xmlEscape.Replace(doc)))
}

// rvFontFragment is the fixed font descriptor ProPresenter expects on every
// text element. The utf-16 declaration is part of the stored payload even
// though the bytes are encoded as UTF-8 before base64.
const rvFontFragment = `<?xml version="1.0" encoding="utf-16"?>` +
	`<RVFont xmlns:i="http://www.w3.org/2001/XMLSchema-instance" ` +
	`xmlns="http://schemas.datacontract.org/2004/07/ProPresenter.Common">` +
	`<Kerning>0</Kerning><LineSpacing>0</LineSpacing>` +
	`<OutlineColor xmlns:d2p1="http://schemas.datacontract.org/2004/07/System.Windows.Media">` +
	`<d2p1:A>255</d2p1:A><d2p1:B>0</d2p1:B><d2p1:G>0</d2p1:G><d2p1:R>0</d2p1:R>` +
	`<d2p1:ScA>1</d2p1:ScA><d2p1:ScB>0</d2p1:ScB><d2p1:ScG>0</d2p1:ScG><d2p1:ScR>0</d2p1:ScR>` +
	`</OutlineColor><OutlineWidth>0</OutlineWidth><Variants>Normal</Variants></RVFont>`

func fontData() string {
	return base64.StdEncoding.EncodeToString([]byte(rvFontFragment))
}
