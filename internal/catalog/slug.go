package catalog

import "github.com/gosimple/slug"

func init() {
	// same cap the storefront always applied to generated slugs
	slug.MaxLength = 120
}

// Slugify derives the URL slug for a display name. Called explicitly at
// entity-construction time; there is no persistence-layer hook.
func Slugify(name string) string {
	return slug.MakeLang(name, "en")
}
