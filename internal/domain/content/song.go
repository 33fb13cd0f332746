package content

// Song 是一首歌以及它的全部元数据。SeeRefs / Categories 由 link 阶段
// 一次性填充，之后不再变动。
type Song struct {
	FileName string
	Title    string
	Slug     string

	Copyright string
	Source    string
	Tune      string

	AKA  []string
	See  []string
	Tags []string

	RawLyrics string
	Lyrics    string // rendered HTML, filled by the markdown renderer

	SeeRefs    []SeeRef
	Categories []CategoryRef
}

// SeeRef 的 Song 为 nil 表示引用没有解析到任何歌。
type SeeRef struct {
	Title string
	Song  *Song
}

// CategoryRef 的 Category 为 nil 表示这个 tag 没有对应分类。
type CategoryRef struct {
	Name     string
	Category *Category
}

type Category struct {
	Name  string
	Slug  string
	Songs []*Song
}

func (s *Song) HasAlias(title string) bool {
	for _, a := range s.AKA {
		if a == title {
			return true
		}
	}
	return false
}
