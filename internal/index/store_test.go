package index

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"songbook/internal/domain/content"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "index.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func linkedFixture() ([]*content.Song, map[string]*content.Category) {
	hymns := &content.Category{Name: "Hymns", Slug: "hymns"}
	a := &content.Song{
		Title: "Amazing Grace",
		Slug:  "amazing-grace",
		AKA:   []string{"That Grace Song"},
		Tags:  []string{"Hymns"},
	}
	a.Categories = []content.CategoryRef{{Name: "Hymns", Category: hymns}}
	hymns.Songs = []*content.Song{a}

	b := &content.Song{
		Title:   "Other",
		Slug:    "other",
		See:     []string{"Amazing Grace"},
		SeeRefs: []content.SeeRef{{Title: "Amazing Grace", Song: a}},
	}
	return []*content.Song{a, b}, map[string]*content.Category{"hymns": hymns}
}

func TestStoreRebuildAndQuery(t *testing.T) {
	st := openTestStore(t)
	songs, cats := linkedFixture()
	if err := st.Rebuild(songs, cats); err != nil {
		t.Fatal(err)
	}

	m, err := st.GetSong("amazing-grace")
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != "Amazing Grace" {
		t.Errorf("Title = %q", m.Title)
	}
	if want := []string{"hymns"}; !reflect.DeepEqual(m.Categories, want) {
		t.Errorf("Categories = %v, want %v", m.Categories, want)
	}

	o, err := st.GetSong("other")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"amazing-grace"}; !reflect.DeepEqual(o.SeeSlugs, want) {
		t.Errorf("SeeSlugs = %v, want %v", o.SeeSlugs, want)
	}

	cm, err := st.GetCategory("hymns")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"amazing-grace"}; !reflect.DeepEqual(cm.Songs, want) {
		t.Errorf("category members = %v, want %v", cm.Songs, want)
	}

	if _, err := st.GetSong("missing"); err != ErrNotFound {
		t.Errorf("GetSong(missing) err = %v, want ErrNotFound", err)
	}
}

func TestStoreResolveAlias(t *testing.T) {
	st := openTestStore(t)
	songs, cats := linkedFixture()
	if err := st.Rebuild(songs, cats); err != nil {
		t.Fatal(err)
	}

	// 主 slug 原样返回
	if got, err := st.ResolveAlias("amazing-grace"); err != nil || got != "amazing-grace" {
		t.Errorf("ResolveAlias(primary) = %q, %v", got, err)
	}
	// 别名映射到正主
	if got, err := st.ResolveAlias("that-grace-song"); err != nil || got != "amazing-grace" {
		t.Errorf("ResolveAlias(alias) = %q, %v", got, err)
	}
	if _, err := st.ResolveAlias("nope"); err != ErrNotFound {
		t.Errorf("ResolveAlias(nope) err = %v, want ErrNotFound", err)
	}
}

func TestStoreListSongsSorted(t *testing.T) {
	st := openTestStore(t)
	songs, cats := linkedFixture()
	if err := st.Rebuild(songs, cats); err != nil {
		t.Fatal(err)
	}
	list, err := st.ListSongs()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Slug != "amazing-grace" || list[1].Slug != "other" {
		t.Errorf("ListSongs = %+v, want slug order", list)
	}
}

func TestStoreManifestRoundTrip(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.GetManifest(); err != ErrNotFound {
		t.Fatalf("fresh store manifest err = %v, want ErrNotFound", err)
	}

	in := Manifest{
		Generated: []string{"songs.html", "songs/a.html"},
		Copied:    []string{"css/style.css"},
		BuiltAt:   time.Now().Truncate(time.Second),
	}
	if err := st.PutManifest(in); err != nil {
		t.Fatal(err)
	}

	out, err := st.GetManifest()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out.Generated, in.Generated) || !reflect.DeepEqual(out.Copied, in.Copied) {
		t.Errorf("manifest = %+v, want %+v", out, in)
	}

	// Rebuild 不动 manifest
	songs, cats := linkedFixture()
	if err := st.Rebuild(songs, cats); err != nil {
		t.Fatal(err)
	}
	if _, err := st.GetManifest(); err != nil {
		t.Errorf("manifest lost after rebuild: %v", err)
	}
}
