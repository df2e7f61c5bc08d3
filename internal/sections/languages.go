package sections

import "sort"

// lexicons holds the built-in marker vocabularies per source language,
// mapping each language's section terms to the English canonical labels.
var lexicons = map[string]map[string]string{
	"swedish": {
		"vers":       "Verse",
		"refräng":    "Chorus",
		"refrang":    "Chorus", // spelling without diacritic
		"brygga":     "Bridge",
		"bro":        "Bridge",
		"förrefräng": "Pre-Chorus",
		"forrefrang": "Pre-Chorus",
		"stick":      "Bridge",
		"outro":      "Outro",
		"slut":       "Outro",
		"intro":      "Intro",
		"tag":        "Tag",
		"ending":     "Ending",
	},
	"norwegian": {
		"vers":        "Verse",
		"refreng":     "Chorus",
		"bro":         "Bridge",
		"bru":         "Bridge",
		"mellomspill": "Bridge",
		"intro":       "Intro",
		"outro":       "Outro",
		"slutt":       "Ending",
		"tag":         "Tag",
	},
	"danish": {
		"vers":       "Verse",
		"omkvæd":     "Chorus",
		"omkvaed":    "Chorus",
		"bro":        "Bridge",
		"mellemspil": "Bridge",
		"intro":      "Intro",
		"outro":      "Outro",
		"slutning":   "Ending",
		"tag":        "Tag",
	},
	"german": {
		"strophe":    "Verse",
		"vers":       "Verse",
		"refrain":    "Chorus",
		"brücke":     "Bridge",
		"brucke":     "Bridge",
		"vorrefrain": "Pre-Chorus",
		"intro":      "Intro",
		"outro":      "Outro",
		"schluss":    "Ending",
		"tag":        "Tag",
	},
	"french": {
		"couplet":     "Verse",
		"refrain":     "Chorus",
		"pont":        "Bridge",
		"pré-refrain": "Pre-Chorus",
		"pre-refrain": "Pre-Chorus",
		"prérefrain":  "Pre-Chorus",
		"intro":       "Intro",
		"outro":       "Outro",
		"final":       "Ending",
		"tag":         "Tag",
	},
	"spanish": {
		"verso":      "Verse",
		"estrofa":    "Verse",
		"coro":       "Chorus",
		"estribillo": "Chorus",
		"puente":     "Bridge",
		"pre-coro":   "Pre-Chorus",
		"precoro":    "Pre-Chorus",
		"intro":      "Intro",
		"outro":      "Outro",
		"final":      "Ending",
		"tag":        "Tag",
	},
	"english": {
		"verse":      "Verse",
		"chorus":     "Chorus",
		"bridge":     "Bridge",
		"pre-chorus": "Pre-Chorus",
		"prechorus":  "Pre-Chorus",
		"intro":      "Intro",
		"outro":      "Outro",
		"ending":     "Ending",
		"tag":        "Tag",
		"interlude":  "Interlude",
		"vamp":       "Vamp",
	},
}

// Languages returns the source languages with built-in lexicons, sorted.
func Languages() []string {
	names := make([]string, 0, len(lexicons))
	for name := range lexicons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lexicon returns the built-in marker vocabulary for one language.
func Lexicon(language string) (map[string]string, bool) {
	lex, ok := lexicons[language]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(lex))
	for k, v := range lex {
		out[k] = v
	}
	return out, true
}

// MergedTable builds a table from the lexicons of the given languages.
// When the same term appears in several languages the first listed language
// wins, so callers put their primary source language first. Unknown
// language names are skipped.
func MergedTable(languages ...string) *Table {
	merged := make(map[string]string)
	for _, lang := range languages {
		for term, label := range lexicons[lang] {
			if _, taken := merged[term]; !taken {
				merged[term] = label
			}
		}
	}
	return NewTable(merged, NumberRules{
		PreserveNumbers: true,
		StartFromOne:    true,
		Format:          DefaultNumberFormat,
	})
}
