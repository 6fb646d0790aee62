package domain

// AllCategories is the slug that disables category filtering.
const AllCategories = "all"

type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count,omitempty"`
}

// IsAllCategories reports whether slug means "no filter".
func IsAllCategories(slug string) bool {
	return slug == "" || slug == AllCategories
}
