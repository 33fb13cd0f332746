package render

import (
	"html/template"
	"time"

	"songbook/internal/domain/config"
	"songbook/internal/domain/content"
)

type SongPage struct {
	Site      config.SiteConfig
	Song      *content.Song
	Lyrics    template.HTML
	PageTitle string
}

type SongsPage struct {
	Site      config.SiteConfig
	Songs     []*content.Song
	Total     int
	PageTitle string
}

type CategoryPage struct {
	Site      config.SiteConfig
	Category  *content.Category
	PageTitle string
}

type CategoriesPage struct {
	Site       config.SiteConfig
	Categories []*content.Category
	Total      int
	PageTitle  string
}

type HomePage struct {
	Site       config.SiteConfig
	Songs      []*content.Song
	Categories []*content.Category
	Generated  time.Time
	PageTitle  string
}
