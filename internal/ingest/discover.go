package ingest

import (
	"os"
	"path/filepath"
	"sort"
)

type SourceFile struct {
	Name string
	Path string
}

// DiscoverSongs 只看 songsDir 的直接子文件，不递归。文件名字典序排序，
// 保证 slug 去重、分类名统计这些环节在任何平台上结果一致。
func DiscoverSongs(songsDir string) ([]SourceFile, error) {
	entries, err := os.ReadDir(songsDir)
	if err != nil {
		return nil, err
	}

	var out []SourceFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isSongFile(e.Name()) {
			continue
		}
		out = append(out, SourceFile{
			Name: e.Name(),
			Path: filepath.Join(songsDir, e.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
