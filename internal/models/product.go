package models

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Product represents an item for sale
type Product struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	PriceCents  int64  `yaml:"price_cents"`
	ImageURL    string `yaml:"image_url"`
}

// Catalog errors
var (
	ErrUnknownProduct   = errors.New("unknown product")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrDuplicateProduct = errors.New("duplicate product slug")
	ErrEmptyCatalog     = errors.New("catalog has no products")
)

// FormattedPrice returns the price in dollars, e.g. "$29.99"
func (p Product) FormattedPrice() string {
	return fmt.Sprintf("$%d.%02d", p.PriceCents/100, p.PriceCents%100)
}

// Validate checks the product fields
func (p Product) Validate() error {
	if p.Slug == "" {
		return fmt.Errorf("%w: slug cannot be empty", ErrInvalidProduct)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name cannot be empty for %s", ErrInvalidProduct, p.Slug)
	}
	if p.PriceCents <= 0 {
		return fmt.Errorf("%w: price must be positive for %s", ErrInvalidProduct, p.Slug)
	}
	return nil
}

// Catalog is an ordered set of products addressable by slug
type Catalog struct {
	products []Product
	bySlug   map[string]int
}

// NewCatalog creates a catalog, rejecting invalid or duplicate products
func NewCatalog(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		products: make([]Product, 0, len(products)),
		bySlug:   make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.bySlug[p.Slug]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.Slug)
		}
		c.bySlug[p.Slug] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// DefaultCatalog returns the Swag Labs product range
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Product{
		{
			Slug:        "sauce-labs-backpack",
			Name:        "Sauce Labs Backpack",
			Description: "carry.allTheThings() with the sleek, streamlined Sly Pack that melds uncompromising style with unequaled laptop and tablet protection.",
			PriceCents:  2999,
			ImageURL:    "/static/img/product-placeholder.svg",
		},
		{
			Slug:        "sauce-labs-bike-light",
			Name:        "Sauce Labs Bike Light",
			Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night. Water-resistant with 3 lighting modes, 1 AAA battery included.",
			PriceCents:  999,
			ImageURL:    "/static/img/product-placeholder.svg",
		},
		{
			Slug:        "sauce-labs-bolt-t-shirt",
			Name:        "Sauce Labs Bolt T-Shirt",
			Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt. From American Apparel, 100% ringspun combed cotton, heather gray with red bolt.",
			PriceCents:  1599,
			ImageURL:    "/static/img/product-placeholder.svg",
		},
		{
			Slug:        "sauce-labs-fleece-jacket",
			Name:        "Sauce Labs Fleece Jacket",
			Description: "It's not every day that you come across a midweight quarter-zip fleece jacket capable of handling everything from a relaxing day outdoors to a busy day at the office.",
			PriceCents:  4999,
			ImageURL:    "/static/img/product-placeholder.svg",
		},
		{
			Slug:        "sauce-labs-onesie",
			Name:        "Sauce Labs Onesie",
			Description: "Rib snap infant onesie for the junior automation engineer in development. Reinforced 3-snap bottom closure, two-needle hemmed sleeved and bottom won't unravel.",
			PriceCents:  799,
			ImageURL:    "/static/img/product-placeholder.svg",
		},
		{
			Slug:        "test.allthethings()-t-shirt-(red)",
			Name:        "Test.allTheThings() T-Shirt (Red)",
			Description: "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard to automate a few tests. Super-soft and comfy ringspun combed cotton.",
			PriceCents:  1599,
			ImageURL:    "/static/img/product-placeholder.svg",
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// catalogFile is the on-disk YAML layout
type catalogFile struct {
	Products []Product `yaml:"products"`
}

// ReadCatalog decodes a YAML catalog
func ReadCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewCatalog(f.Products)
}

// LoadCatalog reads a YAML catalog file
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// Products returns the products in display order
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Lookup finds a product by slug
func (c *Catalog) Lookup(slug string) (Product, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrUnknownProduct, slug)
	}
	return c.products[i], nil
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}
