package song

import "testing"

func TestHasContent(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		want     bool
	}{
		{"nil", nil, false},
		{"empty slice", []Section{}, false},
		{"blank content", []Section{{Type: "Verse", Content: "  \n\t"}}, false},
		{"one real section", []Section{{Type: "Verse", Content: "text"}}, true},
		{
			"blank among real",
			[]Section{
				{Type: "Verse", Content: ""},
				{Type: "Chorus", Content: "sjung"},
			},
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasContent(tc.sections); got != tc.want {
				t.Errorf("HasContent = %v, want %v", got, tc.want)
			}
		})
	}
}
