package product

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Validation failures carry distinct messages so the admin form can surface
// exactly which field was rejected. No repository call is made when any of
// these fire.
var (
	ErrNameRequired        = errors.New("product name is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidPrice        = errors.New("valid price is required")
	ErrInvalidImageURL     = errors.New("valid image URL is required")
	ErrInvalidCategory     = errors.New("valid category is required")
	ErrInvalidStock        = errors.New("valid stock quantity is required")
)

// Form carries the raw admin product form fields. Price and Stock arrive as
// text exactly as typed; Parse owns the numeric validation.
type Form struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Stock       string `json:"stock"`
}

// Parse validates the form and converts it into catalog fields. The entered
// price is in major units and is stored as round(price * 100) minor units.
func (f Form) Parse() (Product, error) {
	var p Product

	name := strings.TrimSpace(f.Name)
	if name == "" {
		return p, ErrNameRequired
	}

	description := strings.TrimSpace(f.Description)
	if description == "" {
		return p, ErrDescriptionRequired
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return p, ErrInvalidPrice
	}

	imageURL := strings.TrimSpace(f.ImageURL)
	parsed, err := url.Parse(imageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return p, ErrInvalidImageURL
	}

	category := Category(f.Category)
	if !category.Valid() {
		return p, ErrInvalidCategory
	}

	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil || stock < 0 {
		return p, ErrInvalidStock
	}

	p.Name = name
	p.Description = description
	p.Price = int64(math.Round(price * 100))
	p.ImageURL = imageURL
	p.Category = category
	p.Stock = stock

	return p, nil
}
