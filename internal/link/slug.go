package link

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// 常见非 ASCII 字母的固定转写表，NFKD 分解覆盖不到的都在这里。
var translit = map[rune]string{
	'ø': "o",
	'ß': "ss",
	'œ': "ae",
	'–': "-",
	'—': "-",
	'“': `"`,
	'”': `"`,
	'‘': "'",
	'’': "'",
}

// Slugify turns a title into a URL-safe identifier: only lowercase ASCII
// alphanumerics, '_' and '-' survive. Accented letters are reduced to their
// base letter where possible ("Größe" -> "grosse"); anything else collapses
// into single hyphens, with leading/trailing hyphens stripped.
func Slugify(s string) string {
	s = strings.ToLower(s)

	var pre strings.Builder
	pre.Grow(len(s))
	for _, r := range s {
		if t, ok := translit[r]; ok {
			pre.WriteString(t)
			continue
		}
		pre.WriteRune(r)
	}

	decomposed := norm.NFKD.String(pre.String())

	var out []byte
	dash := false
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			out = append(out, byte(r))
			dash = false
		case unicode.Is(unicode.Mn, r):
			// 组合用变音符号直接丢掉，不产生连字符
		case r > unicode.MaxASCII:
			// 剩下的非 ASCII 字符也丢掉
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
