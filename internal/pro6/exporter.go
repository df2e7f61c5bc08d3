// Package pro6 serializes songs into ProPresenter 6 presentation documents.
// The consuming application is strict about the document shape, so the
// writer reproduces the exact attribute sets, payload encodings, and
// explicit open/close tag convention ProPresenter expects.
package pro6

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/roboco-io/ew2propresenter/internal/song"
)

// Options configures document styling and batch behavior.
type Options struct {
	// FontName and FontSize replace the Arial/60 defaults when
	// PreserveFormatting is set.
	FontName           string
	FontSize           int
	PreserveFormatting bool

	// MaxLinesPerSlide caps slide length when AutoBreakLongLines is set;
	// overlong natural chunks are split into consecutive runs of this size.
	MaxLinesPerSlide   int
	AutoBreakLongLines bool

	IncludeCCLIInFilename   bool
	IncludeAuthorInFilename bool

	// OverwriteExisting writes over duplicate target paths without
	// consulting the batch resolver.
	OverwriteExisting bool

	// RenamePattern shapes auto-renamed duplicates, "{name}_{number}" when
	// empty.
	RenamePattern string
}

// Decision is a duplicate-resolution choice for one target path.
type Decision int

const (
	DecisionSkip Decision = iota
	DecisionOverwrite
	DecisionRenameAuto
	DecisionRenameCustom
	DecisionCancelBatch
)

// Resolution is a resolver's answer. ApplyToAll remembers the decision for
// every later duplicate in the same batch.
type Resolution struct {
	Decision   Decision
	CustomName string
	ApplyToAll bool
}

// Resolver decides what to do about an already-existing target path. It is
// called synchronously between songs.
type Resolver func(rec song.Record, path string) Resolution

// Progress is invoked after each song completes and once more at the end.
type Progress func(done, total int, message string)

// BatchItem pairs a song with its detected sections.
type BatchItem struct {
	Song     song.Record
	Sections []song.Section
}

// BatchResult reports per-song outcomes. Failures carry the song title and
// the reason; successes carry written paths.
type BatchResult struct {
	Successes []string
	Failures  []string
}

// Exporter writes .pro6 documents.
type Exporter struct {
	opts   Options
	logger *log.Logger

	// overridden in tests for deterministic output
	newUUID func() string
	now     func() time.Time
}

// New builds an exporter. A zero MaxLinesPerSlide defaults to 4.
func New(opts Options, logger *log.Logger) *Exporter {
	if opts.MaxLinesPerSlide <= 0 {
		opts.MaxLinesPerSlide = 4
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Exporter{
		opts:    opts,
		logger:  logger,
		newUUID: func() string { return strings.ToUpper(uuid.NewString()) },
		now:     time.Now,
	}
}

// ExportSong writes one song to destDir and returns the written path. The
// destination directory is created if absent. An existing file at the
// target path is overwritten; duplicate resolution belongs to ExportBatch.
func (e *Exporter) ExportSong(rec song.Record, sections []song.Section, destDir string) (string, error) {
	if !song.HasContent(sections) {
		return "", fmt.Errorf("song %q has no lyric content to export", rec.Title)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(destDir, e.fileName(rec.Title, rec.ReferenceNumber, rec.Author))
	return path, e.write(rec, sections, path)
}

// ExportBatch runs ExportSong once per item in sequence. Failures are
// isolated per song, including panics in the per-song path. Cancellation
// via ctx is cooperative: it prevents starting the next song but does not
// interrupt one in flight.
func (e *Exporter) ExportBatch(ctx context.Context, items []BatchItem, destDir string, onProgress Progress, resolve Resolver) BatchResult {
	var result BatchResult
	var remembered *Resolution
	total := len(items)
	cancelled := false

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			e.logger.Printf("batch cancelled after %d of %d songs", i, total)
			break
		}

		path, err := e.exportOne(item, destDir, resolve, &remembered, &cancelled)
		switch {
		case cancelled:
			e.logger.Printf("batch cancelled by duplicate resolution at song %d (id=%d title=%q)",
				i+1, item.Song.ID, item.Song.Title)
		case err != nil:
			result.Failures = append(result.Failures,
				fmt.Sprintf("%s: %v", item.Song.Title, err))
			e.logger.Printf("export failed: id=%d title=%q: %v", item.Song.ID, item.Song.Title, err)
		case path != "":
			result.Successes = append(result.Successes, path)
		}
		if cancelled {
			break
		}
		if onProgress != nil {
			onProgress(i+1, total, fmt.Sprintf("Processed %q", item.Song.Title))
		}
	}

	if onProgress != nil {
		onProgress(total, total, "Export complete")
	}
	return result
}

// exportOne handles duplicate resolution and isolates panics. An empty
// returned path with a nil error means the song was skipped.
func (e *Exporter) exportOne(item BatchItem, destDir string, resolve Resolver, remembered **Resolution, cancelled *bool) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()

	rec := item.Song
	if !song.HasContent(item.Sections) {
		return "", fmt.Errorf("no lyric content to export")
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path = filepath.Join(destDir, e.fileName(rec.Title, rec.ReferenceNumber, rec.Author))
	if _, statErr := os.Stat(path); statErr == nil && !e.opts.OverwriteExisting {
		var res Resolution
		switch {
		case *remembered != nil:
			res = **remembered
		case resolve != nil:
			res = resolve(rec, path)
			if res.ApplyToAll {
				cp := res
				*remembered = &cp
			}
		default:
			res = Resolution{Decision: DecisionRenameAuto}
		}

		switch res.Decision {
		case DecisionSkip:
			e.logger.Printf("skipped duplicate: id=%d title=%q path=%s", rec.ID, rec.Title, path)
			return "", nil
		case DecisionOverwrite:
			// fall through to write
		case DecisionRenameAuto:
			path = autoRename(path, e.opts.RenamePattern)
		case DecisionRenameCustom:
			name := SanitizeFilename(res.CustomName)
			path = filepath.Join(destDir, name+Extension)
		case DecisionCancelBatch:
			*cancelled = true
			return "", nil
		}
	}

	return path, e.write(rec, item.Sections, path)
}

// write renders the document and writes it to path, classifying filesystem
// errors.
func (e *Exporter) write(rec song.Record, sections []song.Section, path string) error {
	data, err := e.renderDocument(rec, sections)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		if errors.Is(err, syscall.EINVAL) {
			e.logger.Printf("write failed: id=%d title=%q path=%s: %v", rec.ID, rec.Title, path, err)
			return fmt.Errorf("filename contains characters invalid on this filesystem: %s", filepath.Base(path))
		}
		e.logger.Printf("write failed: id=%d title=%q path=%s: %v", rec.ID, rec.Title, path, err)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	e.logger.Printf("exported: id=%d title=%q path=%s", rec.ID, rec.Title, path)
	return nil
}

// renderDocument builds and serializes the full presentation document.
func (e *Exporter) renderDocument(rec song.Record, sections []song.Section) ([]byte, error) {
	doc := e.buildDocument(rec, sections)

	raw, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	raw = expandSelfClosing(raw)

	pretty, err := prettyPrint(raw)
	if err != nil {
		return nil, err
	}
	// pretty-printing reintroduces self-closing shorthand for empty elements
	pretty = expandSelfClosing(pretty)

	out := make([]byte, 0, len(xml.Header)+len(pretty)+1)
	out = append(out, xml.Header...)
	out = append(out, pretty...)
	out = append(out, '\n')
	return out, nil
}

func (e *Exporter) buildDocument(rec song.Record, sections []song.Section) *presentationDocument {
	ccliDisplay := "0"
	if rec.ReferenceNumber != "" {
		ccliDisplay = "1"
	}

	doc := &presentationDocument{
		Height:                 slideHeight,
		Width:                  slideWidth,
		VersionNumber:          "600",
		DocType:                "0",
		CreatorCode:            "1349676880",
		LastDateUsed:           documentTimestamp(e.now()),
		UsedCount:              "0",
		Category:               "Song",
		BackgroundColor:        "0 0 0 1",
		DrawingBackgroundColor: "0",
		Notes:                  rec.Description,
		Artist:                 rec.Author,
		Author:                 rec.Author,
		CCLIDisplay:            ccliDisplay,
		CCLIArtistCredits:      rec.Author,
		CCLIPublisher:          rec.Administrator,
		CCLICopyright:          rec.Copyright,
		CCLISongTitle:          rec.Title,
		CCLIAuthor:             rec.Author,
		CCLISongNumber:         rec.ReferenceNumber,
		Timeline: timeline{
			TimeOffset:              "0",
			SelectedMediaTrackIndex: "0",
			UnitOfMeasure:           "60",
			Duration:                "0",
			Loop:                    "0",
		},
	}

	serial := 0
	for _, section := range sections {
		content := strings.TrimSpace(section.Content)
		if content == "" {
			continue
		}
		group := slideGrouping{
			Name:         groupName(section.Type),
			UUID:         e.newUUID(),
			Color:        groupColor(section.Type),
			SerialNumber: serial,
		}
		for i, slideLines := range e.splitSlides(content) {
			group.Slides = append(group.Slides, e.buildSlide(slideLines, serial*100+i))
		}
		doc.Groups.Groupings = append(doc.Groups.Groupings, group)
		serial++
	}
	return doc
}

// splitSlides cuts section content into per-slide line sets: blank lines
// delimit natural chunks, and overlong chunks are further split when
// auto-breaking is enabled.
func (e *Exporter) splitSlides(content string) [][]string {
	var slides [][]string
	for _, chunk := range strings.Split(content, "\n\n") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, strings.TrimSpace(line))
			}
		}
		if len(lines) == 0 {
			continue
		}
		if e.opts.AutoBreakLongLines && len(lines) > e.opts.MaxLinesPerSlide {
			for start := 0; start < len(lines); start += e.opts.MaxLinesPerSlide {
				end := start + e.opts.MaxLinesPerSlide
				if end > len(lines) {
					end = len(lines)
				}
				slides = append(slides, lines[start:end])
			}
			continue
		}
		slides = append(slides, lines)
	}
	return slides
}

func (e *Exporter) buildSlide(lines []string, serial int) displaySlide {
	fontName, fontSize := defaultFontName, defaultFontSize
	if e.opts.PreserveFormatting {
		if e.opts.FontName != "" {
			fontName = e.opts.FontName
		}
		if e.opts.FontSize > 0 {
			fontSize = e.opts.FontSize
		}
	}

	return displaySlide{
		BackgroundColor:        "0 0 0 0",
		Enabled:                "1",
		HighlightColor:         "0 0 0 0",
		SlideType:              "1",
		SortIndex:              serial,
		UUID:                   e.newUUID(),
		DrawingBackgroundColor: "0",
		SerialNumber:           serial,
		DisplayElements: displayElements{
			TextElements: []textElement{{
				DisplayDelay:       "0",
				DisplayName:        "Default",
				Locked:             "0",
				Persistent:         "0",
				TypeID:             "0",
				FromTemplate:       "0",
				BezelRadius:        "0",
				DrawingFill:        "0",
				DrawingShadow:      "1",
				DrawingStroke:      "0",
				FillColor:          "0 0 0 0",
				Rotation:           "0",
				AdjustsHeightToFit: "0",
				VerticalAlignment:  "0",
				Opacity:            "1",
				UUID:               e.newUUID(),
				Position:           position{X: textPadding, Y: textPadding},
				Size: size{
					Width:  slideWidth - 2*textPadding,
					Height: slideHeight - 2*textPadding,
				},
				Shadow: shadow{
					ShadowColor:      "0 0 0 1",
					ShadowOffset:     "0 0",
					ShadowBlurRadius: "5",
				},
				PlainText:   plainData(lines),
				RTFData:     rtfData(lines, fontName, fontSize),
				WinFlowData: flowData(lines, fontName, fontSize),
				WinFontData: fontData(),
			}},
		},
	}
}
