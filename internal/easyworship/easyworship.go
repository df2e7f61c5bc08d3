// Package easyworship reads song metadata and raw RTF lyrics from an
// EasyWorship database directory. EasyWorship stores songs in two SQLite
// files: Songs.db holds the song table, SongWords.db holds the word table
// with one RTF blob per song.
package easyworship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/roboco-io/ew2propresenter/internal/song"
)

const (
	songsFile = "Songs.db"
	wordsFile = "SongWords.db"
)

// ErrNoLyrics is returned when a song has no word table row.
var ErrNoLyrics = errors.New("song has no lyrics")

// Database is a read-only handle on an EasyWorship song database directory.
type Database struct {
	songs *sql.DB
	words *sql.DB
}

// Open validates the database directory and opens both files. The
// directory must contain Songs.db and SongWords.db with the expected
// tables.
func Open(dir string) (*Database, error) {
	songsPath := filepath.Join(dir, songsFile)
	wordsPath := filepath.Join(dir, wordsFile)
	for _, p := range []string{songsPath, wordsPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("not an EasyWorship database directory: %w", err)
		}
	}

	songs, err := sql.Open("sqlite", "file:"+songsPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", songsFile, err)
	}
	words, err := sql.Open("sqlite", "file:"+wordsPath+"?mode=ro")
	if err != nil {
		songs.Close()
		return nil, fmt.Errorf("failed to open %s: %w", wordsFile, err)
	}

	db := &Database{songs: songs, words: words}
	if err := db.validate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// validate probes both files for the tables EasyWorship uses.
func (d *Database) validate(ctx context.Context) error {
	var n int
	if err := d.songs.QueryRowContext(ctx, "SELECT COUNT(*) FROM song").Scan(&n); err != nil {
		return fmt.Errorf("%s has no song table: %w", songsFile, err)
	}
	if err := d.words.QueryRowContext(ctx, "SELECT COUNT(*) FROM word").Scan(&n); err != nil {
		return fmt.Errorf("%s has no word table: %w", wordsFile, err)
	}
	return nil
}

// Close releases both underlying database handles.
func (d *Database) Close() error {
	err := d.songs.Close()
	if werr := d.words.Close(); err == nil {
		err = werr
	}
	return err
}

// AllSongs returns every song's metadata ordered by title, case
// insensitively. Absent metadata fields are normalized to empty strings.
func (d *Database) AllSongs(ctx context.Context) ([]song.Record, error) {
	const query = `
		SELECT
			rowid,
			COALESCE(title, ''),
			COALESCE(author, ''),
			COALESCE(copyright, ''),
			COALESCE(administrator, ''),
			COALESCE(reference_number, ''),
			COALESCE(tags, ''),
			COALESCE(description, '')
		FROM song
		ORDER BY title COLLATE NOCASE`

	rows, err := d.songs.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var records []song.Record
	for rows.Next() {
		var rec song.Record
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Author, &rec.Copyright,
			&rec.Administrator, &rec.ReferenceNumber, &rec.Tags, &rec.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read songs: %w", err)
	}
	return records, nil
}

// Lyrics returns the raw RTF lyric blob for one song, or ErrNoLyrics when
// the word table has no row for it.
func (d *Database) Lyrics(ctx context.Context, songID int64) (string, error) {
	var words sql.NullString
	err := d.words.QueryRowContext(ctx,
		"SELECT words FROM word WHERE song_id = ?", songID).Scan(&words)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoLyrics
	}
	if err != nil {
		return "", fmt.Errorf("failed to query lyrics for song %d: %w", songID, err)
	}
	if !words.Valid {
		return "", ErrNoLyrics
	}
	return words.String, nil
}

// Count returns the number of songs in the database.
func (d *Database) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.songs.QueryRowContext(ctx, "SELECT COUNT(*) FROM song").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return n, nil
}
