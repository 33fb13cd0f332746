package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"songbook/internal/domain/content"
)

const SongExtension = ".txt"

type TagPair struct {
	Key   string
	Value string
}

// SplitTagText 把歌曲文件切成 tag 行和歌词正文。
//
// 含冒号的行是 tag 行，第一个冒号前是 key，后面是 value，两边都去空白。
// 第一行不含冒号的行（空行也算）结束 tag 块，从这一行起到文件尾都是正文。
// 正文开头如果恰好有冒号，在前面插一个空行就能安全隔开，所以 value 里
// 不需要任何冒号转义语法。
func SplitTagText(raw string) ([]TagPair, string) {
	norm := strings.ReplaceAll(raw, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")
	lines := strings.Split(norm, "\n")

	var tags []TagPair
	i := 0
	for ; i < len(lines); i++ {
		key, value, ok := strings.Cut(lines[i], ":")
		if !ok {
			break
		}
		tags = append(tags, TagPair{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}

	body := strings.Trim(strings.Join(lines[i:], "\n"), "\n")
	return tags, body
}

var singleTags = map[string]struct{}{
	"copyright": {},
	"source":    {},
	"title":     {},
	"tune":      {},
}

var arrayTags = map[string]struct{}{
	"aka":  {},
	"see":  {},
	"tags": {},
}

// NewSong builds a Song from parsed tag pairs and the lyric body.
// fileName may be empty when there is no file context.
func NewSong(tags []TagPair, body string, fileName string) (*content.Song, []Warning) {
	debugName := fileName
	if debugName == "" {
		debugName = "<no file>"
	}

	var warns []Warning
	song := &content.Song{
		FileName:  fileName,
		RawLyrics: body,
	}

	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		key := strings.ToLower(t.Key)
		_, isSingle := singleTags[key]
		_, isArray := arrayTags[key]
		if !isSingle && !isArray {
			warns = append(warns, Warning{
				Path: debugName,
				Msg:  fmt.Sprintf("ignoring unrecognized tag %q", t.Key),
			})
			continue
		}
		if _, dup := seen[key]; dup {
			warns = append(warns, Warning{
				Path: debugName,
				Msg:  fmt.Sprintf("ignoring duplicate tag %q", key),
			})
			continue
		}
		seen[key] = struct{}{}

		switch key {
		case "copyright":
			song.Copyright = t.Value
		case "source":
			song.Source = t.Value
		case "title":
			song.Title = t.Value
		case "tune":
			song.Tune = t.Value
		case "aka":
			song.AKA = splitValues(t.Value)
		case "see":
			song.See = splitValues(t.Value)
		case "tags":
			song.Tags = splitValues(t.Value)
		}
	}

	if song.Title == "" {
		if fileName != "" {
			title := strings.ReplaceAll(fileName, "_", " ")
			title = strings.TrimSuffix(title, SongExtension)
			song.Title = title
		} else {
			song.Title = "Unknown"
		}
		warns = append(warns, Warning{
			Path: debugName,
			Msg:  fmt.Sprintf("no title found, falling back on %q", song.Title),
		})
	}

	return song, warns
}

// splitValues：逗号分隔，去空白，丢掉空段；顺序和重复都保留。
func splitValues(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ParseSong is the convenience path from raw file contents to a Song.
func ParseSong(raw string, fileName string) (*content.Song, []Warning) {
	tags, body := SplitTagText(raw)
	return NewSong(tags, body, fileName)
}

func isSongFile(name string) bool {
	return filepath.Ext(name) == SongExtension
}
