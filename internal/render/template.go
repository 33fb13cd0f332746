package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"songbook/internal/domain/content"
)

// ErrTemplateNotFound：可选模板缺了就静默降级，必选模板缺了要中止整轮。
var ErrTemplateNotFound = errors.New("template not found")

// RequiredTemplates 缺一不可，由构建侧在渲染前检查。
var RequiredTemplates = []string{
	"song.tmpl",
	"songs.tmpl",
	"category.tmpl",
	"categories.tmpl",
}

type TemplateRenderer struct {
	tpl *template.Template
}

func NewTemplateRenderer(templateDir string) (*TemplateRenderer, error) {
	tpl := template.New("").Funcs(templateFuncs())

	matches, err := filepath.Glob(filepath.Join(templateDir, "*.tmpl"))
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		if tpl, err = tpl.ParseFiles(matches...); err != nil {
			return nil, err
		}
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"nowYear": func() int {
			return time.Now().Year()
		},
		"songURL": func(s *content.Song) string {
			return "/songs/" + s.Slug + ".html"
		},
		"categoryURL": func(c *content.Category) string {
			return "/categories/" + c.Slug + ".html"
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// MissingRequired 返回缺失的必选模板名。
func (r *TemplateRenderer) MissingRequired() []string {
	var missing []string
	for _, name := range RequiredTemplates {
		if r.tpl.Lookup(name) == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

func (r *TemplateRenderer) Has(name string) bool {
	return r.tpl.Lookup(name) != nil
}

func (r *TemplateRenderer) RenderSong(ctx context.Context, page SongPage) ([]byte, error) {
	return r.exec("song.tmpl", page)
}

func (r *TemplateRenderer) RenderSongs(ctx context.Context, page SongsPage) ([]byte, error) {
	return r.exec("songs.tmpl", page)
}

func (r *TemplateRenderer) RenderCategory(ctx context.Context, page CategoryPage) ([]byte, error) {
	return r.exec("category.tmpl", page)
}

func (r *TemplateRenderer) RenderCategories(ctx context.Context, page CategoriesPage) ([]byte, error) {
	return r.exec("categories.tmpl", page)
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("index.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
