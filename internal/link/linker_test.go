package link

import (
	"testing"

	"songbook/internal/domain/content"
)

func newLinker(t *testing.T, songs []*content.Song) *Linker {
	t.Helper()
	ix, _ := BuildSlugIndex(songs)
	cats, _ := DiscoverCategories(songs)
	return &Linker{Index: ix, Categories: cats}
}

func TestSongForTitleSimple(t *testing.T) {
	a := titled("Amazing Grace")
	lk := newLinker(t, []*content.Song{a, titled("Other")})

	// 大小写、标点不同但 slug 相同也能命中
	res := lk.SongForTitle("amazing grace!")
	if res.Kind != Resolved || res.Song != a {
		t.Fatalf("res = %+v, want Resolved(a)", res)
	}
}

func TestSongForTitleUnresolved(t *testing.T) {
	lk := newLinker(t, []*content.Song{titled("Something")})
	if res := lk.SongForTitle("No Such Song"); res.Kind != Unresolved {
		t.Fatalf("res = %+v, want Unresolved", res)
	}
}

func TestSongForTitleExactMatchAmongSharedSlug(t *testing.T) {
	a := titled("Amazing Grace")
	b := titled("Amazing grace")
	lk := newLinker(t, []*content.Song{a, b})

	if res := lk.SongForTitle("Amazing grace"); res.Kind != Resolved || res.Song != b {
		t.Fatalf("res = %+v, want exact-title match b", res)
	}
}

func TestSongForTitleSharedSlugNoExactMatch(t *testing.T) {
	a := titled("Amazing Grace")
	b := titled("Amazing grace")
	lk := newLinker(t, []*content.Song{a, b})

	res := lk.SongForTitle("AMAZING GRACE")
	if res.Kind != Unresolved {
		t.Fatalf("res = %+v, want Unresolved when no candidate matches exactly", res)
	}
	if res.Note == "" {
		t.Error("ambiguous shared slug without exact match should carry a note")
	}
}

func TestSongForTitleAliasOutranksLooseSlugMatch(t *testing.T) {
	// 一首不相干的歌的正题 slug 也是 foo，但查询串是另一首歌的 AKA：
	// 精确的别名匹配必须赢过“同 slug 随便挑一个”。
	aliased := titled("Real Title")
	aliased.AKA = []string{"Foo"}
	unrelated := titled("foo")
	lk := newLinker(t, []*content.Song{unrelated, aliased})

	res := lk.SongForTitle("Foo")
	if res.Kind != Resolved || res.Song != aliased {
		t.Fatalf("res = %+v, want the aliased song", res)
	}
}

func TestSongForTitleDirectTitleBeatsAlias(t *testing.T) {
	direct := titled("Foo")
	aliased := titled("Something Else")
	aliased.AKA = []string{"Foo"}
	lk := newLinker(t, []*content.Song{direct, aliased})

	res := lk.SongForTitle("Foo")
	if res.Kind != Resolved || res.Song != direct {
		t.Fatalf("res = %+v, want the directly titled song", res)
	}
	if res.Note == "" {
		t.Error("title/alias overlap should be diagnosed")
	}
}

func TestSongForTitleAmbiguousPicksFirst(t *testing.T) {
	a := titled("Same")
	b := titled("Same")
	lk := newLinker(t, []*content.Song{a, b})

	res := lk.SongForTitle("Same")
	if res.Kind != Ambiguous {
		t.Fatalf("res = %+v, want Ambiguous", res)
	}
	if res.Song != a {
		t.Error("ambiguous pick should be the first candidate")
	}
	if len(res.Alternatives) != 1 || res.Alternatives[0] != b {
		t.Errorf("Alternatives = %v", res.Alternatives)
	}
}

func TestLinkPopulatesReferences(t *testing.T) {
	a := titled("Amazing Grace")
	a.Tags = []string{"Hymns", "Classics"}
	b := titled("Other Song")
	b.See = []string{"Amazing Grace", "Missing Song"}

	songs := []*content.Song{a, b}
	lk := newLinker(t, songs)
	warns := lk.Link(songs)

	if len(b.SeeRefs) != 2 {
		t.Fatalf("SeeRefs = %v", b.SeeRefs)
	}
	if b.SeeRefs[0].Song != a {
		t.Error("resolved see-reference should point at the target song")
	}
	if b.SeeRefs[1].Song != nil {
		t.Error("unresolved see-reference should keep a nil song")
	}
	if b.SeeRefs[1].Title != "Missing Song" {
		t.Error("original title string should be preserved")
	}
	if len(warns) == 0 {
		t.Error("unresolved reference should be diagnosed")
	}

	if len(a.Categories) != 2 {
		t.Fatalf("Categories = %v", a.Categories)
	}
	for _, ref := range a.Categories {
		if ref.Category == nil {
			t.Fatalf("category %q not resolved", ref.Name)
		}
		found := false
		for _, member := range ref.Category.Songs {
			if member == a {
				found = true
			}
		}
		if !found {
			t.Errorf("category %q does not list the song as a member", ref.Name)
		}
	}
}
