package link

import (
	"testing"

	"songbook/internal/domain/content"
)

func titled(title string) *content.Song {
	return &content.Song{Title: title}
}

func TestBuildSlugIndexUniquification(t *testing.T) {
	songs := []*content.Song{
		titled("Amazing Grace"),
		titled("Amazing Grace"),
		titled("Amazing grace"),
		titled("Other Song"),
	}
	_, warns := BuildSlugIndex(songs)

	if songs[0].Slug != "amazing-grace" {
		t.Errorf("first song slug = %q, want bare slug", songs[0].Slug)
	}
	if songs[1].Slug != "amazing-grace-2" {
		t.Errorf("second song slug = %q, want amazing-grace-2", songs[1].Slug)
	}
	if songs[2].Slug != "amazing-grace-3" {
		t.Errorf("third song slug = %q, want amazing-grace-3", songs[2].Slug)
	}
	if songs[3].Slug != "other-song" {
		t.Errorf("unrelated song slug = %q", songs[3].Slug)
	}
	if len(warns) != 2 {
		t.Errorf("warnings = %v, want one per renumbered song", warns)
	}

	seen := make(map[string]bool)
	for _, s := range songs {
		if s.Slug == "" {
			t.Errorf("song %q has empty slug", s.Title)
		}
		if seen[s.Slug] {
			t.Errorf("slug %q assigned twice", s.Slug)
		}
		seen[s.Slug] = true
	}
}

func TestBuildSlugIndexSkipsTakenSuffix(t *testing.T) {
	// 一首不相干的歌本来就叫 foo-2，去重时必须跳过这个候选。
	songs := []*content.Song{
		titled("Foo 2"), // slug foo-2
		titled("Foo"),
		titled("Foo"),
	}
	_, _ = BuildSlugIndex(songs)

	if songs[0].Slug != "foo-2" {
		t.Fatalf("unrelated song slug = %q", songs[0].Slug)
	}
	if songs[1].Slug != "foo" {
		t.Errorf("first group member slug = %q, want foo", songs[1].Slug)
	}
	if songs[2].Slug != "foo-3" {
		t.Errorf("renumbered slug = %q, want foo-3 (foo-2 is taken)", songs[2].Slug)
	}
}

func TestBuildSlugIndexEmptySlugFallback(t *testing.T) {
	songs := []*content.Song{titled("???")}
	_, warns := BuildSlugIndex(songs)
	if songs[0].Slug != "untitled" {
		t.Errorf("slug = %q, want untitled", songs[0].Slug)
	}
	if len(warns) == 0 {
		t.Error("empty slug fallback should be diagnosed")
	}
}

func TestBuildSlugIndexAliasLookup(t *testing.T) {
	a := titled("Real Title")
	a.AKA = []string{"Nickname"}
	b := titled("Another")
	ix, _ := BuildSlugIndex([]*content.Song{a, b})

	got := ix.Lookup("nickname")
	if len(got) != 1 || got[0] != a {
		t.Fatalf("Lookup(nickname) = %v, want the aliased song", got)
	}
	// 别名注册不占去重名额：主 slug 不受影响
	if a.Slug != "real-title" {
		t.Errorf("slug = %q, alias registration must not affect the primary slug", a.Slug)
	}
}
