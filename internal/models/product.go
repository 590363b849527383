package models

import "time"

// Product is a catalog entry keyed by its manufacturer part number
type Product struct {
	ID           int       `json:"id"`
	PartNumber   string    `json:"part_number"`
	Manufacturer string    `json:"manufacturer"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	ImageURL     string    `json:"image_url"`
	DatasheetURL string    `json:"datasheet_url"`
	MouserURL    string    `json:"mouser_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateProductRequest represents the request to create or update a product
type CreateProductRequest struct {
	PartNumber   string   `json:"part_number"`
	Manufacturer string   `json:"manufacturer"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Price        *float64 `json:"price"`
	Stock        int      `json:"stock"`
	ImageURL     string   `json:"image_url"`
	DatasheetURL string   `json:"datasheet_url"`
	MouserURL    string   `json:"mouser_url"`
}

// ProductListQuery holds the supported catalog filters
type ProductListQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// ProductPage is the paginated catalog response
type ProductPage struct {
	Products   []*Product `json:"products"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
}
