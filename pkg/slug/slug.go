package slug

import (
	"strings"
	"unicode"
)

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength int
	separator rune
}

// MaxLength truncates the slug to at most n runes. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// Separator sets the word separator. Default is '-'.
func Separator(r rune) Option {
	return func(c *config) { c.separator = r }
}

// Make converts a title into a lowercase URL-safe slug. Runs of
// non-alphanumeric characters collapse into a single separator, common Latin
// diacritics fold to ASCII, and leading/trailing separators are trimmed.
func Make(s string, opts ...Option) string {
	cfg := &config{separator: '-'}
	for _, opt := range opts {
		opt(cfg)
	}

	var b strings.Builder
	b.Grow(len(s))

	lastWasSep := true // suppress leading separator
	count := 0

	for _, r := range s {
		if cfg.maxLength > 0 && count >= cfg.maxLength {
			break
		}

		r = unicode.ToLower(r)
		if folded, ok := asciiFold[r]; ok {
			r = folded
		}

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasSep = false
			count++
			continue
		}

		if !lastWasSep {
			b.WriteRune(cfg.separator)
			lastWasSep = true
			count++
		}
	}

	return strings.TrimSuffix(b.String(), string(cfg.separator))
}

// asciiFold maps common lowercase Latin diacritics to ASCII. Input runes are
// lowercased before lookup, so only lowercase forms are listed.
var asciiFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a', 'ą': 'a',
	'ç': 'c', 'ć': 'c', 'č': 'c',
	'đ': 'd', 'ď': 'd',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ę': 'e', 'ě': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i', 'į': 'i',
	'ł': 'l',
	'ñ': 'n', 'ń': 'n', 'ň': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o',
	'ř': 'r',
	'ś': 's', 'š': 's', 'ș': 's', 'ß': 's',
	'ť': 't', 'ț': 't',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u', 'ů': 'u', 'ų': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ź': 'z', 'ž': 'z', 'ż': 'z',
	'æ': 'a', 'œ': 'o',
}
