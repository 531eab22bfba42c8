package markdown

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-sitegen/internal/items"
)

// TitleFromIdentifier derives a display title from the identifier stem when
// front matter carries none. "posts/going-faster.md" becomes "Going Faster".
func TitleFromIdentifier(id items.Identifier) string {
	stem := strings.NewReplacer("-", " ", "_", " ").Replace(id.Stem())
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return string(id)
	}
	return cases.Title(language.English).String(stem)
}
