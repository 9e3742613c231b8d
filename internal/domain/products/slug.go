package products

import "github.com/gosimple/slug"

// Slugify derives a URL slug from a product name. Vietnamese letters
// are transliterated before the usual lowercase/hyphen normalization,
// so "Trà Sữa" becomes "tra-sua" rather than being stripped.
func Slugify(name string) string {
	return slug.MakeLang(name, "vi")
}
