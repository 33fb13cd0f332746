package index

import (
	"encoding/json"
	"time"

	"songbook/internal/domain/content"
	"songbook/internal/link"

	bolt "go.etcd.io/bbolt"
)

type SongMeta struct {
	Title    string
	Slug     string
	FileName string

	Copyright string
	Source    string
	Tune      string

	AKA  []string
	See  []string
	Tags []string

	SeeSlugs   []string // 解析成功的 see 引用目标
	Categories []string // category slugs
}

type CategoryMeta struct {
	Name  string
	Slug  string
	Songs []string // member slugs, in song-processing order
}

type Manifest struct {
	Generated []string
	Copied    []string
	BuiltAt   time.Time
}

// Rebuild drops and rewrites the song/alias/category buckets from a fully
// linked graph. Must only run after the Linker pass; the manifest bucket is
// left alone.
func (s *Store) Rebuild(songs []*content.Song, cats map[string]*content.Category) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bSong)
		_ = tx.DeleteBucket(bAlias)
		_ = tx.DeleteBucket(bCategory)

		songB, _ := tx.CreateBucket(bSong)
		aliasB, _ := tx.CreateBucket(bAlias)
		catB, _ := tx.CreateBucket(bCategory)

		for _, song := range songs {
			m := SongMeta{
				Title:     song.Title,
				Slug:      song.Slug,
				FileName:  song.FileName,
				Copyright: song.Copyright,
				Source:    song.Source,
				Tune:      song.Tune,
				AKA:       song.AKA,
				See:       song.See,
				Tags:      song.Tags,
			}
			for _, ref := range song.SeeRefs {
				if ref.Song != nil {
					m.SeeSlugs = append(m.SeeSlugs, ref.Song.Slug)
				}
			}
			for _, ref := range song.Categories {
				if ref.Category != nil {
					m.Categories = append(m.Categories, ref.Category.Slug)
				}
			}

			mb, err := json.Marshal(m)
			if err != nil {
				return err
			}
			if err := songB.Put([]byte(song.Slug), mb); err != nil {
				return err
			}

			for _, alt := range song.AKA {
				slug := link.Slugify(alt)
				if slug == "" || slug == song.Slug {
					continue
				}
				if err := aliasB.Put([]byte(slug), []byte(song.Slug)); err != nil {
					return err
				}
			}
		}

		for slug, cat := range cats {
			cm := CategoryMeta{Name: cat.Name, Slug: slug}
			for _, member := range cat.Songs {
				cm.Songs = append(cm.Songs, member.Slug)
			}
			cb, err := json.Marshal(cm)
			if err != nil {
				return err
			}
			if err := catB.Put([]byte(slug), cb); err != nil {
				return err
			}
		}
		return nil
	})
}

// PutManifest 记录本轮写出的文件集合，下一轮调和拿它当基线。
func (s *Store) PutManifest(m Manifest) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bManifest)
		if err != nil {
			return err
		}
		mb, err := json.Marshal(m)
		if err != nil {
			return err
		}
		return b.Put(manifestKey, mb)
	})
}
