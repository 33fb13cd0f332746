package build

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// CopyStatic 把 srcDir 整棵树拷到 outDir，返回写出的相对路径（斜杠分隔）。
// 没有 static 目录不算错。空目录不会被创建，反正调和阶段也会清掉。
func CopyStatic(srcDir, outDir string, logger *log.Logger) ([]string, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no static dir found", "path", srcDir)
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var copied []string
	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, rel)

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		in, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, in, 0o644); err != nil {
			return err
		}
		copied = append(copied, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}
