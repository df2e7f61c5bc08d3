package pro6

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestGroupColor(t *testing.T) {
	tests := []struct {
		sectionType string
		want        string
	}{
		{"verse", "0 0 1 1"},
		{"Verse", "0 0 1 1"},
		{"Verse 2", "0 0 1 1"},
		{"chorus", "1 0.2 0.2 1"},
		{"refrain", "1 0.2 0.2 1"},
		{"bridge", "0.4 0.8 1 1"},
		{"Pre-Chorus", "0.6 0.2 0.8 1"},
		{"intro", "0.5 0.5 0.5 1"},
		{"outro", "0.5 0.5 0.5 1"},
		{"ending", "0.5 0.5 0.5 1"},
		{"tag", "1 0.6 0 1"},
		{"interlude", "0 0.8 0.2 1"},
		{"something else", "0 0 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.sectionType, func(t *testing.T) {
			if got := groupColor(tc.sectionType); got != tc.want {
				t.Errorf("groupColor(%q) = %q, want %q", tc.sectionType, got, tc.want)
			}
		})
	}
}

func TestGroupName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"verse", "Verse"},
		{"Verse 2", "Verse 2"},
		{"pre-chorus", "Pre-Chorus"},
		{"mellanspel takt 4", "Mellanspel Takt 4"},
		{"Chorus", "Chorus"},
	}
	for _, tc := range tests {
		if got := groupName(tc.input); got != tc.want {
			t.Errorf("groupName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestExpandSelfClosing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare tag",
			input: `<cues/>`,
			want:  `<cues></cues>`,
		},
		{
			name:  "tag with attributes",
			input: `<timeline duration="0" loop="0"/>`,
			want:  `<timeline duration="0" loop="0"></timeline>`,
		},
		{
			name:  "space before slash",
			input: `<timeCues />`,
			want:  `<timeCues></timeCues>`,
		},
		{
			name:  "already explicit left alone",
			input: `<groups></groups>`,
			want:  `<groups></groups>`,
		},
		{
			name:  "multiple in one document",
			input: `<a><timeCues/><mediaTracks/></a>`,
			want:  `<a><timeCues></timeCues><mediaTracks></mediaTracks></a>`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(expandSelfClosing([]byte(tc.input))); got != tc.want {
				t.Errorf("expandSelfClosing(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestDocumentTimestamp(t *testing.T) {
	ts := documentTimestamp(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC))
	if ts != "2024-03-15T10:30:00+00:00" {
		t.Errorf("documentTimestamp = %q", ts)
	}
}

func TestPlainData(t *testing.T) {
	got := plainData([]string{"line one", "line two"})
	decoded, err := base64.StdEncoding.DecodeString(got)
	if err != nil {
		t.Fatalf("not valid base64: %v", err)
	}
	if string(decoded) != "line one\r\nline two" {
		t.Errorf("decoded = %q", decoded)
	}
}

func TestRTFData(t *testing.T) {
	got := rtfData([]string{"Amazing grace", "how sweet"}, "", 0)
	decoded, err := base64.StdEncoding.DecodeString(got)
	if err != nil {
		t.Fatalf("not valid base64: %v", err)
	}
	doc := string(decoded)

	for _, want := range []string{
		`{\rtf1\prortf1\ansi\ansicpg1252\uc1\htmautsp\deff2`,
		`{\f0\fcharset0 Times New Roman;}`,
		`{\f2\fcharset0 Georgia;}`,
		`{\f3\fcharset0 Arial;}`,
		`{\f4\fcharset0 Arial;}`, // defaults applied
		`{\colortbl;\red0\green0\blue0;\red255\green255\blue255;}`,
		`\fs120`, // 60pt default in half-points
		`{\cf2\ltrch Amazing grace}\li0\sa0\sb0\fi0\qc\par`,
		`{\cf2\ltrch how sweet}\li0\sa0\sb0\fi0\qc\par`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("RTF payload missing %q:\n%s", want, doc)
		}
	}
	if !strings.HasSuffix(doc, "}") {
		t.Errorf("RTF payload should end with a closing brace: %q", doc[len(doc)-10:])
	}
}

func TestRTFDataConfiguredFont(t *testing.T) {
	got := rtfData([]string{"text"}, "Georgia", 48)
	decoded, _ := base64.StdEncoding.DecodeString(got)
	doc := string(decoded)

	if !strings.Contains(doc, `{\f4\fcharset0 Georgia;}`) {
		t.Errorf("configured font missing from font table:\n%s", doc)
	}
	if !strings.Contains(doc, `\fs96`) {
		t.Errorf("configured size not doubled to half-points:\n%s", doc)
	}
}

func TestRTFEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{`a\b`, `a\\b`},
		{"a{b}c", `a\{b\}c`},
		{"hjärta", `hj\u228?rta`},
		{"år", `\u229?r`},
	}
	for _, tc := range tests {
		if got := rtfEscape(tc.input); got != tc.want {
			t.Errorf("rtfEscape(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFlowData(t *testing.T) {
	got := flowData([]string{"He > all", `say "yes"`}, "Arial", 60)
	decoded, err := base64.StdEncoding.DecodeString(got)
	if err != nil {
		t.Fatalf("not valid base64: %v", err)
	}
	doc := string(decoded)

	// the whole fragment is escaped for storage as element text
	if !strings.Contains(doc, "&lt;FlowDocument") {
		t.Errorf("FlowDocument open tag not escaped:\n%s", doc)
	}
	if !strings.Contains(doc, "schemas.microsoft.com/winfx/2006/xaml/presentation") {
		t.Errorf("namespace missing:\n%s", doc)
	}
	if !strings.Contains(doc, "Paragraph") {
		t.Errorf("paragraphs missing:\n%s", doc)
	}
	// text content was escaped before the outer escape pass
	if !strings.Contains(doc, "He &amp;gt; all") {
		t.Errorf("inner text not double-escaped:\n%s", doc)
	}
}

func TestFontData(t *testing.T) {
	decoded, err := base64.StdEncoding.DecodeString(fontData())
	if err != nil {
		t.Fatalf("not valid base64: %v", err)
	}
	doc := string(decoded)

	for _, want := range []string{
		`<?xml version="1.0" encoding="utf-16"?>`,
		"<RVFont",
		"schemas.datacontract.org/2004/07/ProPresenter.Common",
		"<Kerning>0</Kerning>",
		"<Variants>Normal</Variants>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("font payload missing %q", want)
		}
	}

	// the payload is constant
	if fontData() != fontData() {
		t.Error("fontData must be deterministic")
	}
}
