package index

import (
	"encoding/json"
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("not found")

func (s *Store) GetSong(slug string) (SongMeta, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return SongMeta{}, ErrNotFound
	}
	var m SongMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bSong)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &m)
	})
	return m, err
}

// ResolveAlias 先当成主 slug 查，查不到再走 alias 桶。
func (s *Store) ResolveAlias(slugOrAlias string) (string, error) {
	slugOrAlias = strings.TrimSpace(slugOrAlias)
	if slugOrAlias == "" {
		return "", ErrNotFound
	}

	if _, err := s.GetSong(slugOrAlias); err == nil {
		return slugOrAlias, nil
	}

	var mapped string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bAlias)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slugOrAlias))
		if v == nil {
			return ErrNotFound
		}
		mapped = string(v)
		return nil
	})
	return mapped, err
}

// ListSongs 按 slug 字典序返回全部歌（bbolt 键序天然如此）。
func (s *Store) ListSongs() ([]SongMeta, error) {
	var out []SongMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bSong)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var m SongMeta
			if err := json.Unmarshal(v, &m); err != nil {
				return nil
			}
			out = append(out, m)
			return nil
		})
	})
	return out, err
}

func (s *Store) GetCategory(slug string) (CategoryMeta, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return CategoryMeta{}, ErrNotFound
	}
	var m CategoryMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bCategory)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &m)
	})
	return m, err
}

func (s *Store) ListCategories() ([]CategoryMeta, error) {
	var out []CategoryMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bCategory)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var m CategoryMeta
			if err := json.Unmarshal(v, &m); err != nil {
				return nil
			}
			out = append(out, m)
			return nil
		})
	})
	return out, err
}

func (s *Store) GetManifest() (Manifest, error) {
	var m Manifest
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bManifest)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(manifestKey)
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &m)
	})
	return m, err
}
