package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/inkwell/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"punctuation collapses", "Go: the good parts!", "go-the-good-parts"},
		{"multiple spaces", "a   b", "a-b"},
		{"diacritics fold", "Crème Brûlée", "creme-brulee"},
		{"digits kept", "Top 10 tips", "top-10-tips"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.Make(tt.input))
		})
	}

	t.Run("max length truncates", func(t *testing.T) {
		got := slug.Make("a very long title indeed", slug.MaxLength(10))
		assert.LessOrEqual(t, len(got), 10)
		assert.Equal(t, "a-very-lon", got)
	})

	t.Run("custom separator", func(t *testing.T) {
		assert.Equal(t, "hello_world", slug.Make("Hello World", slug.Separator('_')))
	})
}
