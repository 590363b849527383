package models

// ScrapeRequest triggers a single listing-page scrape
type ScrapeRequest struct {
	URL   string `json:"url"`
	Limit int    `json:"limit"`
}

// ScrapeItemError records why one scraped record could not be imported
type ScrapeItemError struct {
	PartNumber string `json:"part_number"`
	Error      string `json:"error"`
}

// ScrapeResult is the partial-success summary of one scrape/import run
type ScrapeResult struct {
	Success      bool              `json:"success"`
	Imported     int               `json:"imported"`
	Updated      int               `json:"updated"`
	Errors       int               `json:"errors"`
	Products     []*Product        `json:"products"`
	ErrorDetails []ScrapeItemError `json:"error_details"`
	Message      string            `json:"message"`
}

// BulkImportRequest triggers a multi-term, multi-page import run
type BulkImportRequest struct {
	SearchTerms     []string `json:"search_terms"`
	ProductsPerTerm int      `json:"products_per_term"`
	DelayMS         int      `json:"delay_ms"`
}

// BulkImportTermResult summarizes the outcome for one search term
type BulkImportTermResult struct {
	Term     string `json:"term"`
	Imported int    `json:"imported"`
	Error    string `json:"error,omitempty"`
}

// BulkImportResult is the aggregate summary of a bulk import run
type BulkImportResult struct {
	Success       bool                   `json:"success"`
	TotalImported int                    `json:"total_imported"`
	TotalErrors   int                    `json:"total_errors"`
	TermResults   []BulkImportTermResult `json:"term_results"`
}
