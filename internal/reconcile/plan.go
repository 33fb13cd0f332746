package reconcile

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Sets 是相对目标目录的三组路径：本轮生成的页面、本轮拷贝的静态文件、
// 调用方点名保留的路径。
type Sets struct {
	Generated []string
	Copied    []string
	Kept      []string
}

// Plan is the pure decision output: what to delete (relative paths, in walk
// order) and which paths appear in both Generated and Copied. Applying it is
// a separate step, see Apply.
type Plan struct {
	Delete    []string
	Conflicts []string
}

func cleanRel(p string) string {
	p = path.Clean(filepath.ToSlash(strings.TrimSpace(p)))
	if p == "." || p == "/" || p == "" || strings.HasPrefix(p, "../") || p == ".." || path.IsAbs(p) {
		return ""
	}
	return p
}

// BuildPlan snapshots the tree under root and decides what has to go so that
// afterwards the leaf files are exactly preserve = Generated ∪ Copied ∪ Kept.
//
// preserve 路径本身整棵子树不碰；它们的祖先目录是“过路”目录，本身不删
// 但里面的其他孩子照删；其余一律进删除清单。root 不存在时清单为空。
func BuildPlan(root string, sets Sets) (Plan, error) {
	var plan Plan

	// generated ∩ copied：只报告，胜负由构建侧的 conflict policy 决定。
	gen := make(map[string]struct{}, len(sets.Generated))
	for _, p := range sets.Generated {
		if rel := cleanRel(p); rel != "" {
			gen[rel] = struct{}{}
		}
	}
	for _, p := range sets.Copied {
		rel := cleanRel(p)
		if rel == "" {
			continue
		}
		if _, ok := gen[rel]; ok {
			plan.Conflicts = append(plan.Conflicts, rel)
		}
	}
	sort.Strings(plan.Conflicts)

	preserve := make(map[string]struct{})
	pass := make(map[string]struct{})
	add := func(p string) {
		rel := cleanRel(p)
		if rel == "" {
			return
		}
		if _, err := os.Lstat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return // 只保留当前真实存在的路径
		}
		preserve[rel] = struct{}{}
		for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
			pass[dir] = struct{}{}
		}
	}
	for _, p := range sets.Generated {
		add(p)
	}
	for _, p := range sets.Copied {
		add(p)
	}
	for _, p := range sets.Kept {
		add(p)
	}

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(dir)))
		if err != nil {
			if dir == "." {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			// 走着走着目录没了，当作已经满足
			return nil
		}
		for _, e := range entries {
			rel := e.Name()
			if dir != "." {
				rel = path.Join(dir, e.Name())
			}
			if _, ok := preserve[rel]; ok {
				continue
			}
			if e.IsDir() {
				if _, ok := pass[rel]; ok {
					if err := walk(rel); err != nil {
						return err
					}
					continue
				}
			}
			plan.Delete = append(plan.Delete, rel)
		}
		return nil
	}
	if err := walk("."); err != nil {
		return Plan{}, err
	}
	return plan, nil
}
