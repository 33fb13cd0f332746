package link

import (
	"fmt"

	"songbook/internal/domain/content"
)

// DiscoverCategories scans every song's tag values and creates exactly one
// Category per distinct slug, named with the most frequent original spelling.
// Frequency ties go to the spelling seen first.
func DiscoverCategories(songs []*content.Song) (map[string]*content.Category, []string) {
	type tally struct {
		counts map[string]int
		order  []string // 拼写首次出现的顺序，平票时用
	}

	var warns []string
	freq := make(map[string]*tally)
	var slugOrder []string

	for _, s := range songs {
		for _, name := range s.Tags {
			slug := Slugify(name)
			if slug == "" {
				warns = append(warns, fmt.Sprintf("tag %q reduces to an empty slug, skipping", name))
				continue
			}
			t := freq[slug]
			if t == nil {
				t = &tally{counts: make(map[string]int)}
				freq[slug] = t
				slugOrder = append(slugOrder, slug)
			}
			if _, seen := t.counts[name]; !seen {
				t.order = append(t.order, name)
			}
			t.counts[name]++
		}
	}

	cats := make(map[string]*content.Category, len(freq))
	for _, slug := range slugOrder {
		t := freq[slug]
		best := t.order[0]
		for _, name := range t.order[1:] {
			if t.counts[name] > t.counts[best] {
				best = name
			}
		}
		cats[slug] = &content.Category{Name: best, Slug: slug}
	}
	return cats, warns
}
