package catalog

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must be positive")
)

// AllCategories is the category filter value that matches every product.
const AllCategories = "All"

// Product is a catalog entry as served by the remote commerce service.
// Discount is the original ("was") price; zero means the product is not discounted.
type Product struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Price            int64  `json:"price"`
	Discount         int64  `json:"discount,omitempty"`
	Description      string `json:"desc"`
	Image            string `json:"image"`
	Thumbnail1       string `json:"thumbnail1,omitempty"`
	Thumbnail2       string `json:"thumbnail2,omitempty"`
	Thumbnail3       string `json:"thumbnail3,omitempty"`
	Thumbnail4       string `json:"thumbnail4,omitempty"`
	Category         string `json:"typ"`
	Likes            int64  `json:"likes"`
	Rating           int    `json:"rates"`
	Sizes            string `json:"sizes,omitempty"`
	Color            string `json:"color,omitempty"`
	DescriptionTitle string `json:"description_title,omitempty"`
	DescriptionBox   string `json:"description_box,omitempty"`
}

// ProductType is a category tag known to the remote service.
type ProductType struct {
	ID   int64  `json:"id"`
	Name string `json:"typ"`
}

// HasDiscount reports whether the product carries a reference price above its price.
func (p Product) HasDiscount() bool {
	return p.Discount > 0 && p.Discount >= p.Price
}

// DiscountPercent returns the rounded saving relative to the reference price.
func (p Product) DiscountPercent() int {
	if !p.HasDiscount() {
		return 0
	}
	return int(math.Round(float64(p.Discount-p.Price) / float64(p.Discount) * 100))
}

// Thumbnails returns the non-empty thumbnail URIs in order.
func (p Product) Thumbnails() []string {
	var out []string
	for _, t := range []string{p.Thumbnail1, p.Thumbnail2, p.Thumbnail3, p.Thumbnail4} {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether query occurs in the title, description or category, ignoring case.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

// Normalize clears a reference price that is below the selling price.
// It returns true when the product was modified.
func (p *Product) Normalize() bool {
	if p.Discount != 0 && p.Discount < p.Price {
		p.Discount = 0
		return true
	}
	return false
}

// Validate checks the fields the state manager relies on.
func (p Product) Validate() error {
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
