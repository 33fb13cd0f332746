package link

import (
	"fmt"

	"songbook/internal/domain/content"
)

type ResolutionKind int

const (
	Unresolved ResolutionKind = iota
	Resolved
	Ambiguous
)

// Resolution 是带标签的查找结果：Resolved 带命中的歌，Ambiguous 带选中的
// 那首和其余候选，Unresolved 什么都不带。Note 是可诊断信息，可能为空。
type Resolution struct {
	Kind         ResolutionKind
	Song         *content.Song
	Alternatives []*content.Song
	Note         string
}

// Linker resolves see-references and category tags into direct object links.
// It must only run after the SlugIndex and the category set are complete.
type Linker struct {
	Index      *SlugIndex
	Categories map[string]*content.Category
}

// SongForTitle finds the song a title refers to. Titles may differ slightly
// (capitalization, punctuation) as long as they share a slug; when several
// songs share the slug the filter narrows by exact title, then by exact
// title or AKA. An alias match never outranks a direct title match.
func (l *Linker) SongForTitle(title string) Resolution {
	slug := Slugify(title)
	cands := l.Index.Lookup(slug)
	if len(cands) == 0 {
		return Resolution{Kind: Unresolved}
	}
	if len(cands) == 1 {
		return Resolution{Kind: Resolved, Song: cands[0]}
	}

	var byTitle, byAlias []*content.Song
	seen := make(map[*content.Song]struct{}, len(cands))
	for _, s := range cands {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if s.Title == title {
			byTitle = append(byTitle, s)
			byAlias = append(byAlias, s)
		} else if s.HasAlias(title) {
			byAlias = append(byAlias, s)
		}
	}

	chosen := byAlias
	var note string
	if len(byTitle) >= 1 && len(byAlias) > len(byTitle) {
		// 同一个标题既是某首歌的正题又是另一首的 AKA，只认正题。
		chosen = byTitle
		note = fmt.Sprintf("title %q is both a song title and an alternate title (AKA), only using the direct title", title)
	}

	switch len(chosen) {
	case 0:
		return Resolution{
			Kind: Unresolved,
			Note: fmt.Sprintf("title %q has no exact matching song, but multiple songs share the slug %q", title, slug),
		}
	case 1:
		return Resolution{Kind: Resolved, Song: chosen[0], Note: note}
	default:
		if note != "" {
			note += "; "
		}
		note += fmt.Sprintf("title %q matches %d songs, picking the first", title, len(chosen))
		return Resolution{
			Kind:         Ambiguous,
			Song:         chosen[0],
			Alternatives: chosen[1:],
			Note:         note,
		}
	}
}

// CategoryForTag 按 slug 找分类，找不到就是没分类，不算错误。
func (l *Linker) CategoryForTag(name string) *content.Category {
	return l.Categories[Slugify(name)]
}

// Link runs the single cross-reference pass: every song's see list becomes
// SeeRefs, its tags list becomes Categories, and each resolved category gets
// the song appended to its member list in song-processing order.
func (l *Linker) Link(songs []*content.Song) []string {
	var warns []string
	for _, song := range songs {
		song.SeeRefs = make([]content.SeeRef, 0, len(song.See))
		for _, title := range song.See {
			res := l.SongForTitle(title)
			if res.Note != "" {
				warns = append(warns, res.Note)
			}
			if res.Kind == Unresolved {
				warns = append(warns, fmt.Sprintf("%q references song %q (%s), but no matching song found", song.Title, title, Slugify(title)))
				song.SeeRefs = append(song.SeeRefs, content.SeeRef{Title: title})
				continue
			}
			song.SeeRefs = append(song.SeeRefs, content.SeeRef{Title: title, Song: res.Song})
		}

		song.Categories = make([]content.CategoryRef, 0, len(song.Tags))
		for _, name := range song.Tags {
			cat := l.CategoryForTag(name)
			song.Categories = append(song.Categories, content.CategoryRef{Name: name, Category: cat})
			if cat != nil {
				cat.Songs = append(cat.Songs, song)
			}
		}
	}
	return warns
}
