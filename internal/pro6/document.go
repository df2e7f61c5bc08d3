package pro6

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// Extension is the ProPresenter 6 document file extension.
const Extension = ".pro6"

// Canvas dimensions and text padding. ProPresenter documents are authored
// against a fixed 1920x1080 canvas.
const (
	slideWidth  = 1920
	slideHeight = 1080
	textPadding = 20
)

// presentationDocument is the RVPresentationDocument root node. The
// attribute set is fixed; ProPresenter refuses documents with missing
// attributes.
type presentationDocument struct {
	XMLName                xml.Name `xml:"RVPresentationDocument"`
	Height                 int      `xml:"height,attr"`
	Width                  int      `xml:"width,attr"`
	VersionNumber          string   `xml:"versionNumber,attr"`
	DocType                string   `xml:"docType,attr"`
	CreatorCode            string   `xml:"creatorCode,attr"`
	LastDateUsed           string   `xml:"lastDateUsed,attr"`
	UsedCount              string   `xml:"usedCount,attr"`
	Category               string   `xml:"category,attr"`
	ResourcesDirectory     string   `xml:"resourcesDirectory,attr"`
	BackgroundColor        string   `xml:"backgroundColor,attr"`
	DrawingBackgroundColor string   `xml:"drawingBackgroundColor,attr"`
	Notes                  string   `xml:"notes,attr"`
	Artist                 string   `xml:"artist,attr"`
	Author                 string   `xml:"author,attr"`
	Album                  string   `xml:"album,attr"`
	CCLIDisplay            string   `xml:"CCLIDisplay,attr"`
	CCLIArtistCredits      string   `xml:"CCLIArtistCredits,attr"`
	CCLIPublisher          string   `xml:"CCLIPublisher,attr"`
	CCLICopyright          string   `xml:"CCLICopyright,attr"`
	CCLISongTitle          string   `xml:"CCLISongTitle,attr"`
	CCLIAuthor             string   `xml:"CCLIAuthor,attr"`
	CCLISongNumber         string   `xml:"CCLISongNumber,attr"`
	CCLILicenseNumber      string   `xml:"CCLILicenseNumber,attr"`
	Timeline               timeline `xml:"timeline"`
	Groups                 groups   `xml:"groups"`
}

type timeline struct {
	TimeOffset              string   `xml:"timeOffSet,attr"`
	SelectedMediaTrackIndex string   `xml:"selectedMediaTrackIndex,attr"`
	UnitOfMeasure           string   `xml:"unitOfMeasure,attr"`
	Duration                string   `xml:"duration,attr"`
	Loop                    string   `xml:"loop,attr"`
	TimeCues                struct{} `xml:"timeCues"`
	MediaTracks             struct{} `xml:"mediaTracks"`
}

type groups struct {
	Groupings []slideGrouping `xml:"RVSlideGrouping"`
}

type slideGrouping struct {
	Name         string         `xml:"name,attr"`
	UUID         string         `xml:"uuid,attr"`
	Color        string         `xml:"color,attr"`
	SerialNumber int            `xml:"serialNumber,attr"`
	Slides       []displaySlide `xml:"RVDisplaySlide"`
}

type displaySlide struct {
	BackgroundColor        string          `xml:"backgroundColor,attr"`
	Enabled                string          `xml:"enabled,attr"`
	HighlightColor         string          `xml:"highlightColor,attr"`
	HotKey                 string          `xml:"hotKey,attr"`
	Label                  string          `xml:"label,attr"`
	Notes                  string          `xml:"notes,attr"`
	SlideType              string          `xml:"slideType,attr"`
	SortIndex              int             `xml:"sort_index,attr"`
	UUID                   string          `xml:"UUID,attr"`
	DrawingBackgroundColor string          `xml:"drawingBackgroundColor,attr"`
	ChordChartPath         string          `xml:"chordChartPath,attr"`
	SerialNumber           int             `xml:"serialNumber,attr"`
	Cues                   struct{}        `xml:"cues"`
	DisplayElements        displayElements `xml:"displayElements"`
}

type displayElements struct {
	TextElements []textElement `xml:"RVTextElement"`
}

type textElement struct {
	DisplayDelay       string   `xml:"displayDelay,attr"`
	DisplayName        string   `xml:"displayName,attr"`
	Locked             string   `xml:"locked,attr"`
	Persistent         string   `xml:"persistent,attr"`
	TypeID             string   `xml:"typeID,attr"`
	FromTemplate       string   `xml:"fromTemplate,attr"`
	BezelRadius        string   `xml:"bezelRadius,attr"`
	DrawingFill        string   `xml:"drawingFill,attr"`
	DrawingShadow      string   `xml:"drawingShadow,attr"`
	DrawingStroke      string   `xml:"drawingStroke,attr"`
	FillColor          string   `xml:"fillColor,attr"`
	Rotation           string   `xml:"rotation,attr"`
	Source             string   `xml:"source,attr"`
	AdjustsHeightToFit string   `xml:"adjustsHeightToFit,attr"`
	VerticalAlignment  string   `xml:"verticalAlignment,attr"`
	Opacity            string   `xml:"opacity,attr"`
	UUID               string   `xml:"UUID,attr"`
	Position           position `xml:"position"`
	Size               size     `xml:"size"`
	Shadow             shadow   `xml:"shadow"`
	PlainText          string   `xml:"PlainText"`
	RTFData            string   `xml:"RTFData"`
	WinFlowData        string   `xml:"WinFlowData"`
	WinFontData        string   `xml:"WinFontData"`
}

type position struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
	Z int `xml:"z,attr"`
}

type size struct {
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

type shadow struct {
	ShadowColor      string `xml:"shadowColor,attr"`
	ShadowOffset     string `xml:"shadowOffset,attr"`
	ShadowBlurRadius string `xml:"shadowBlurRadius,attr"`
}

// groupColor returns the fixed palette color for a section type. The type
// may carry a trailing number ("Verse 2") which is ignored for coloring.
func groupColor(sectionType string) string {
	base := strings.ToLower(strings.TrimSpace(sectionType))
	if i := strings.LastIndexByte(base, ' '); i > 0 && isAllDigits(base[i+1:]) {
		base = base[:i]
	}
	switch base {
	case "verse":
		return "0 0 1 1"
	case "chorus", "refrain":
		return "1 0.2 0.2 1"
	case "bridge":
		return "0.4 0.8 1 1"
	case "pre-chorus":
		return "0.6 0.2 0.8 1"
	case "intro", "outro", "ending":
		return "0.5 0.5 0.5 1"
	case "tag":
		return "1 0.6 0 1"
	case "interlude":
		return "0 0.8 0.2 1"
	default:
		return "0 0 0 1"
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// groupName derives the slide group display name from a section type:
// recognized canonical labels pass through (numbers preserved), anything
// else is title-cased word by word.
func groupName(sectionType string) string {
	words := strings.Fields(sectionType)
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " ")
}

// titleCase capitalizes the first letter of each hyphen-separated part, so
// "pre-chorus" becomes "Pre-Chorus".
func titleCase(word string) string {
	parts := strings.Split(word, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		parts[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(parts, "-")
}

const timestampLayout = "2006-01-02T15:04:05+00:00"

func documentTimestamp(now time.Time) string {
	return now.UTC().Format(timestampLayout)
}

// selfClosingTags matches self-closing XML tags so they can be rewritten as
// explicit open/close pairs. ProPresenter's parser rejects self-closing
// container elements (<cues/>, <timeCues/>), so the rewrite runs after
// marshalling and again after pretty-printing, which can reintroduce the
// shorthand.
var selfClosingTags = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9._-]*)((?:\s[^<>]*[^<>/])?)\s*/>`)

func expandSelfClosing(doc []byte) []byte {
	return selfClosingTags.ReplaceAll(doc, []byte("<$1$2></$1>"))
}

// prettyPrint re-indents a marshalled document via a token round trip.
func prettyPrint(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	decoder := xml.NewDecoder(bytes.NewReader(doc))
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pretty print: %w", err)
		}
		if err := encoder.EncodeToken(token); err != nil {
			return nil, fmt.Errorf("pretty print: %w", err)
		}
	}
	if err := encoder.Flush(); err != nil {
		return nil, fmt.Errorf("pretty print: %w", err)
	}
	return buf.Bytes(), nil
}
