package models

import (
	"fmt"
	"strings"
	"time"
)

// Category buckets listings for the category filter endpoint.
type Category string

const (
	CategorySedan       Category = "sedan"
	CategorySUV         Category = "suv"
	CategoryHatchback   Category = "hatchback"
	CategoryCoupe       Category = "coupe"
	CategoryConvertible Category = "convertible"
	CategoryTruck       Category = "truck"
	CategoryVan         Category = "van"
)

// ParseCategory maps a request string onto a known Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategorySedan, CategorySUV, CategoryHatchback, CategoryCoupe,
		CategoryConvertible, CategoryTruck, CategoryVan:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Car is a vehicle listing.
type Car struct {
	ID          string
	Make        string
	Model       string
	Year        int
	Color       string
	Price       float64
	Description string
	IsSpecial   bool
	Category    Category
	Images      []CarImage
	CreatedAt   time.Time
}

// CarImage is one uploaded photo of a car. Path is relative to the blob
// store root; public URLs are derived at the HTTP layer.
type CarImage struct {
	ID    string
	CarID string
	Path  string
}
