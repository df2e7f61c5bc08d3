package textclean

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n\t ", ""},
		{"null bytes dropped", "a\x00b", "ab"},
		{"vertical tab becomes newline", "a\x0bb", "a\nb"},
		{"nbsp becomes space", "a\u00a0b", "a b"},
		{"control chars dropped", "a\x01\x02b", "ab"},
		{"tabs and space runs collapse", "a\tb    c", "a b c"},
		{"curly quotes straightened", "“hej” ‘du’", `"hej" 'du'`},
		{"dashes normalized", "a – b — c", "a - b - c"},
		{"ellipsis expanded", "vänta…", "vänta..."},
		{"rtf control word leftovers", `\pard hello \fs24 world`, "hello world"},
		{"rtf group leftovers", "{\\f0 junk}clean", "clean"},
		{"crlf normalized", "a\r\nb\rc", "a\nb\nc"},
		{"blank runs collapse", "a\n\n\n\nb", "a\n\nb"},
		{"swedish preserved", "hjärta år öga", "hjärta år öga"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.input); got != tc.want {
				t.Errorf("Clean(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Djupt inne i hjärtat\ndet finns en eld",
		"a\x00b\tc “quoted” – dashed…",
		"\\pard {\\f0 x} leftover\r\n\r\n\r\ntext",
	}
	for _, input := range inputs {
		once := Clean(input)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestCleanSong(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		removeChords bool
		want         string
	}{
		{
			name:  "capitalizes lines",
			input: "amazing grace\nhow sweet the sound",
			want:  "Amazing grace\nHow sweet the sound",
		},
		{
			name:  "keeps already capitalized",
			input: "Amazing Grace",
			want:  "Amazing Grace",
		},
		{
			name:  "repetition markers removed",
			input: "Sjung halleluja (x3)\nOm och om igen x2",
			want:  "Sjung halleluja\nOm och om igen",
		},
		{
			name:         "bracketed chords removed",
			input:        "[G]Amazing [C]grace",
			removeChords: true,
			want:         "Amazing grace",
		},
		{
			name:         "chords kept when disabled",
			input:        "[G]Amazing grace",
			removeChords: false,
			want:         "[G]Amazing grace",
		},
		{
			name:  "sentence spacing fixed",
			input: "Stor är din trofasthet.Herre min Gud",
			want:  "Stor är din trofasthet. Herre min Gud",
		},
		{
			name:  "parenthesis padding trimmed",
			input: "Halleluja ( igen )",
			want:  "Halleluja (igen)",
		},
		{
			name:  "swedish capitalization",
			input: "äran och priset",
			want:  "Äran och priset",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanSong(tc.input, tc.removeChords); got != tc.want {
				t.Errorf("CleanSong(%q, %v) = %q, want %q", tc.input, tc.removeChords, got, tc.want)
			}
		})
	}
}

func TestCleanSongIdempotent(t *testing.T) {
	inputs := []string{
		"sjung för herren (x3)\n\nom och om igen",
		"[G]vår [C]gud är stor x2",
		"refräng\nhan är värdig.vår kung",
	}
	for _, input := range inputs {
		once := CleanSong(input, true)
		twice := CleanSong(once, true)
		if once != twice {
			t.Errorf("CleanSong not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestStripChords(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[Am7]text", "text"},
		{"(F#m)text", "text"},
		{"G7 line starts with chord", "line starts with chord"},
		{"(Bbsus4)mid", "mid"},
		{"Gud är god", "Gud är god"}, // a word, not a chord line
	}
	for _, tc := range tests {
		if got := stripChords(tc.input); got != tc.want {
			t.Errorf("stripChords(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
