package link

import (
	"fmt"

	"songbook/internal/domain/content"
)

// SlugIndex maps slugs to the songs reachable under them: every song by its
// primary title, plus every song by each of its AKA titles. A slug can
// therefore point at several songs; disambiguation is the Linker's job.
type SlugIndex struct {
	bySlug map[string][]*content.Song
}

// BuildSlugIndex assigns every song its final unique slug and registers the
// alias entries. Songs must come in a deterministic order; ties are broken by
// that order.
func BuildSlugIndex(songs []*content.Song) (*SlugIndex, []string) {
	var warns []string

	groups := make(map[string][]*content.Song)
	var order []string
	for _, s := range songs {
		base := Slugify(s.Title)
		if base == "" {
			base = "untitled"
			warns = append(warns, fmt.Sprintf("title %q reduces to an empty slug, using %q", s.Title, base))
		}
		if _, ok := groups[base]; !ok {
			order = append(order, base)
		}
		groups[base] = append(groups[base], s)
	}

	used := make(map[string]struct{}, len(groups))
	for slug := range groups {
		used[slug] = struct{}{}
	}

	// 组内第一首保留裸 slug，其余的从 -2 开始编号；计数器整组共用，
	// 撞上已占用的候选就继续递增，永远不会复用别人的后缀。
	for _, base := range order {
		group := groups[base]
		group[0].Slug = base
		n := 2
		for _, s := range group[1:] {
			for {
				cand := fmt.Sprintf("%s-%d", base, n)
				n++
				if _, taken := used[cand]; taken {
					continue
				}
				s.Slug = cand
				used[cand] = struct{}{}
				warns = append(warns, fmt.Sprintf("multiple songs share the slug %q, %q is using the slug %q instead", base, s.Title, cand))
				break
			}
		}
	}

	// AKA 注册不占用去重名额，别名撞上别人的主 slug 也没关系，
	// 查找时由精确匹配来裁决。
	for _, s := range songs {
		for _, alt := range s.AKA {
			slug := Slugify(alt)
			if slug == "" {
				continue
			}
			groups[slug] = append(groups[slug], s)
		}
	}

	return &SlugIndex{bySlug: groups}, warns
}

// Lookup returns every song registered under slug, primary titles first.
func (ix *SlugIndex) Lookup(slug string) []*content.Song {
	return ix.bySlug[slug]
}
