package models

// Category is an entry of the static OLX category registry.
// Slug is the URL path segment and may span several segments ("autos-e-pecas/carros-vans-e-utilitarios").
type Category struct {
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Region is a Brazilian federative unit usable as a search filter
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
