package ingest

import (
	"os"

	"songbook/internal/domain/content"
)

type Warning struct {
	Path string
	Msg  string
}

// Ingest loads every song file under songsDir into a Song record.
// Data-quality problems come back as warnings; only I/O failures are errors.
func Ingest(songsDir string) ([]*content.Song, []Warning, error) {
	files, err := DiscoverSongs(songsDir)
	if err != nil {
		return nil, nil, err
	}

	var songs []*content.Song
	var warns []Warning
	for _, f := range files {
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, nil, err
		}
		song, w := ParseSong(string(raw), f.Name)
		warns = append(warns, w...)
		songs = append(songs, song)
	}
	return songs, warns, nil
}
