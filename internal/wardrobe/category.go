package wardrobe

import "strings"

// Category is one of the fixed wardrobe categories.
type Category string

const (
	Tops        Category = "tops"
	Bottoms     Category = "bottoms"
	Dresses     Category = "dresses"
	Outerwear   Category = "outerwear"
	Shoes       Category = "shoes"
	Accessories Category = "accessories"
)

// Categories lists every known category in canonical display order.
var Categories = []Category{Tops, Bottoms, Dresses, Outerwear, Shoes, Accessories}

// Valid reports whether c is exactly one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Tops, Bottoms, Dresses, Outerwear, Shoes, Accessories:
		return true
	}
	return false
}

// Label returns the capitalized display name.
func (c Category) Label() string {
	if c == "" {
		return "Uncategorized"
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseCategory normalizes user input ("Tops ", "SHOES") to a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}
