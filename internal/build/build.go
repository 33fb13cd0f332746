package build

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"songbook/internal/domain/config"
	"songbook/internal/domain/content"
	domainerr "songbook/internal/domain/errors"
	"songbook/internal/index"
	"songbook/internal/ingest"
	"songbook/internal/link"
	"songbook/internal/reconcile"
	"songbook/internal/render"
)

type Builder struct {
	Cfg   config.Config
	Store *index.Store
	Log   *log.Logger
}

type Result struct {
	Songs      int
	Categories int
	Generated  []string
	Copied     []string
	Deleted    int
	Conflicts  []string
}

// Run 跑一整轮：结构检查 → 载入 → 链接 → 渲染 → 拷贝静态文件 → 调和。
// 每轮都是从头开始的独立周期，不依赖上一轮留下的内存状态。
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	if err := b.checkSourceTree(); err != nil {
		return nil, err
	}

	songs, warns, err := ingest.Ingest(b.Cfg.SongsDir())
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	for _, w := range warns {
		b.Log.Warn(w.Msg, "file", w.Path)
	}
	b.Log.Info("parsed songs", "count", len(songs))

	ix, linkWarns := link.BuildSlugIndex(songs)
	cats, catWarns := link.DiscoverCategories(songs)
	lk := &link.Linker{Index: ix, Categories: cats}
	linkWarns = append(linkWarns, catWarns...)
	linkWarns = append(linkWarns, lk.Link(songs)...)
	for _, w := range linkWarns {
		b.Log.Warn(w)
	}
	b.Log.Info("songs in categories", "categories", len(cats))

	if b.Store != nil {
		if err := b.Store.Rebuild(songs, cats); err != nil {
			return nil, fmt.Errorf("index rebuild: %w", err)
		}
	}

	md := render.NewMarkdownRenderer()
	for _, song := range songs {
		htmlBytes, err := md.Render([]byte(song.RawLyrics))
		if err != nil {
			return nil, fmt.Errorf("render lyrics(%s): %w", song.Slug, err)
		}
		song.Lyrics = string(htmlBytes)
	}

	tpl, err := render.NewTemplateRenderer(b.Cfg.TemplatesDir())
	if err != nil {
		return nil, fmt.Errorf("load templates(%s): %w", b.Cfg.TemplatesDir(), err)
	}
	if missing := tpl.MissingRequired(); len(missing) > 0 {
		return nil, domainerr.Exitf(domainerr.ExitMissingTemplate, "missing required template: %s", missing[0])
	}

	dest := b.Cfg.Destination()
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir destination: %w", err)
	}

	// conflict policy 决定先写谁：后写的一方覆盖同名路径的文件内容。
	var generated, copied []string
	if b.Cfg.Build.ConflictPolicy == config.ConflictStatic {
		if generated, err = b.renderAll(ctx, tpl, dest, songs, cats); err != nil {
			return nil, err
		}
		if copied, err = CopyStatic(b.Cfg.StaticDir(), dest, b.Log); err != nil {
			return nil, fmt.Errorf("copy static: %w", err)
		}
	} else {
		if copied, err = CopyStatic(b.Cfg.StaticDir(), dest, b.Log); err != nil {
			return nil, fmt.Errorf("copy static: %w", err)
		}
		if generated, err = b.renderAll(ctx, tpl, dest, songs, cats); err != nil {
			return nil, err
		}
	}

	plan, err := reconcile.BuildPlan(dest, reconcile.Sets{
		Generated: generated,
		Copied:    copied,
		Kept:      b.Cfg.Build.Keep,
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile plan: %w", err)
	}
	for _, c := range plan.Conflicts {
		b.Log.Warn("path is both a generated page and a static file", "path", c, "winner", string(b.Cfg.Build.ConflictPolicy))
	}
	for _, w := range reconcile.Apply(dest, plan) {
		b.Log.Warn(w)
	}

	if b.Store != nil {
		if err := b.Store.PutManifest(index.Manifest{
			Generated: generated,
			Copied:    copied,
			BuiltAt:   now(),
		}); err != nil {
			return nil, fmt.Errorf("write manifest: %w", err)
		}
	}

	return &Result{
		Songs:      len(songs),
		Categories: len(cats),
		Generated:  generated,
		Copied:     copied,
		Deleted:    len(plan.Delete),
		Conflicts:  plan.Conflicts,
	}, nil
}

// checkSourceTree 验证结构性前置条件，失败直接带退出码中止。
func (b *Builder) checkSourceTree() error {
	src := b.Cfg.Build.SourceDir
	st, err := os.Stat(src)
	if err != nil {
		return domainerr.Exitf(domainerr.ExitMissingSource, "could not find source directory %q", src)
	}
	if !st.IsDir() {
		return domainerr.Exitf(domainerr.ExitSourceNotDir, "source %q is not a directory", src)
	}
	for _, sub := range []string{b.Cfg.SongsDir(), b.Cfg.TemplatesDir()} {
		st, err := os.Stat(sub)
		if err != nil || !st.IsDir() {
			return domainerr.Exitf(domainerr.ExitMissingSubdir, "source directory does not contain a %s subdirectory", filepath.Base(sub))
		}
	}
	return nil
}

// renderAll writes every page and returns the relative paths it created.
func (b *Builder) renderAll(
	ctx context.Context,
	tpl *render.TemplateRenderer,
	dest string,
	songs []*content.Song,
	cats map[string]*content.Category,
) ([]string, error) {
	var generated []string
	write := func(rel string, data []byte) error {
		if err := writeFile(dest, rel, data); err != nil {
			return err
		}
		generated = append(generated, rel)
		return nil
	}

	// 分类按 slug 排序，输出顺序才稳定。
	catSlugs := make([]string, 0, len(cats))
	for slug := range cats {
		catSlugs = append(catSlugs, slug)
	}
	sort.Strings(catSlugs)
	sorted := make([]*content.Category, 0, len(catSlugs))
	for _, slug := range catSlugs {
		sorted = append(sorted, cats[slug])
	}

	songsBytes, err := tpl.RenderSongs(ctx, render.SongsPage{
		Site:      b.Cfg.Site,
		Songs:     songs,
		Total:     len(songs),
		PageTitle: "Songs",
	})
	if err != nil {
		return nil, fmt.Errorf("render songs index: %w", err)
	}
	if err := write("songs.html", songsBytes); err != nil {
		return nil, err
	}

	catsBytes, err := tpl.RenderCategories(ctx, render.CategoriesPage{
		Site:       b.Cfg.Site,
		Categories: sorted,
		Total:      len(sorted),
		PageTitle:  "Categories",
	})
	if err != nil {
		return nil, fmt.Errorf("render categories index: %w", err)
	}
	if err := write("categories.html", catsBytes); err != nil {
		return nil, err
	}

	for _, song := range songs {
		pageBytes, err := tpl.RenderSong(ctx, render.SongPage{
			Site:      b.Cfg.Site,
			Song:      song,
			Lyrics:    template.HTML(song.Lyrics),
			PageTitle: song.Title,
		})
		if err != nil {
			return nil, fmt.Errorf("render song(%s): %w", song.Slug, err)
		}
		if err := write(path.Join("songs", song.Slug+".html"), pageBytes); err != nil {
			return nil, err
		}
	}

	for _, cat := range sorted {
		pageBytes, err := tpl.RenderCategory(ctx, render.CategoryPage{
			Site:      b.Cfg.Site,
			Category:  cat,
			PageTitle: cat.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("render category(%s): %w", cat.Slug, err)
		}
		if err := write(path.Join("categories", cat.Slug+".html"), pageBytes); err != nil {
			return nil, err
		}
	}

	// index.tmpl 是可选的，没有就不出首页。
	if tpl.Has("index.tmpl") {
		homeBytes, err := tpl.RenderHome(ctx, render.HomePage{
			Site:       b.Cfg.Site,
			Songs:      songs,
			Categories: sorted,
			Generated:  now(),
			PageTitle:  b.Cfg.Site.Title,
		})
		if err != nil {
			return nil, fmt.Errorf("render home: %w", err)
		}
		if err := write("index.html", homeBytes); err != nil {
			return nil, err
		}
	}

	return generated, nil
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func now() time.Time {
	return time.Now()
}
