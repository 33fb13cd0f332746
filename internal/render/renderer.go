package render

import "context"

type Renderer interface {
	RenderSong(ctx context.Context, page SongPage) ([]byte, error)
	RenderSongs(ctx context.Context, page SongsPage) ([]byte, error)
	RenderCategory(ctx context.Context, page CategoryPage) ([]byte, error)
	RenderCategories(ctx context.Context, page CategoriesPage) ([]byte, error)
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
}
