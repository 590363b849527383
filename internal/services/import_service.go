package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/metrics"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/scraper"
)

// DefaultSearchTerms seed a bulk import when the request names none
var DefaultSearchTerms = []string{
	"semiconductor", "resistor", "capacitor", "transistor",
	"diode", "IC", "microcontroller",
}

const (
	defaultScrapeLimit     = 10
	defaultProductsPerTerm = 100
	resultsPerSearchPage   = 50
	defaultBulkDelay       = 2 * time.Second
)

// CatalogUpserter is the subset of the product store the importer writes
// through. Upsert reports whether a new row was inserted.
type CatalogUpserter interface {
	Upsert(ctx context.Context, p *models.Product) (bool, error)
}

// PageScraper fetches and parses listing pages. Satisfied by
// *scraper.Scraper; an interface so imports can be tested without a
// network.
type PageScraper interface {
	ScrapePage(ctx context.Context, pageURL string, limit int) ([]scraper.Record, error)
	SearchURL(term string, page int) string
	WaitFor(ctx context.Context, delay time.Duration) error
}

// ProgressEvent is one step of a running import, pushed to any attached
// sink (the monitoring websocket feed)
type ProgressEvent struct {
	Stage    string    `json:"stage"`
	Term     string    `json:"term,omitempty"`
	Page     int       `json:"page,omitempty"`
	Imported int       `json:"imported"`
	Updated  int       `json:"updated"`
	Errors   int       `json:"errors"`
	Message  string    `json:"message,omitempty"`
	Time     time.Time `json:"time"`
}

type ProgressSink interface {
	Publish(event ProgressEvent)
}

// ImportService drives scrape-and-upsert imports from the distributor
// site into the product catalog
type ImportService struct {
	store   CatalogUpserter
	scraper PageScraper
	sink    ProgressSink
}

func NewImportService(store CatalogUpserter, sc PageScraper) *ImportService {
	return &ImportService{store: store, scraper: sc}
}

// SetProgressSink attaches a sink for live progress events. Must be called
// before any import starts.
func (s *ImportService) SetProgressSink(sink ProgressSink) {
	s.sink = sink
}

func (s *ImportService) publish(event ProgressEvent) {
	if s.sink == nil {
		return
	}
	event.Time = time.Now()
	s.sink.Publish(event)
}

// ImportFromURL scrapes one listing page and upserts every usable record.
// Individual record failures are collected, never aborting the run; a page
// that yields no records returns an unsuccessful result with guidance
// rather than an error.
func (s *ImportService) ImportFromURL(ctx context.Context, pageURL string, limit int) (*models.ScrapeResult, error) {
	if limit <= 0 {
		limit = defaultScrapeLimit
	}

	records, err := s.scraper.ScrapePage(ctx, pageURL, limit)
	if err != nil {
		metrics.ScrapePagesTotal.WithLabelValues("fetch_error").Inc()
		return nil, err
	}
	if len(records) == 0 {
		metrics.ScrapePagesTotal.WithLabelValues("empty").Inc()
		return &models.ScrapeResult{
			Success:      false,
			Products:     []*models.Product{},
			ErrorDetails: []models.ScrapeItemError{},
			Message:      "No products found. The page structure may have changed or the URL has no listings. Try a different URL or add products manually.",
		}, nil
	}
	metrics.ScrapePagesTotal.WithLabelValues("ok").Inc()

	result := s.importRecords(ctx, records)
	result.Success = true
	result.Message = fmt.Sprintf("Imported %d and updated %d product(s)", result.Imported, result.Updated)
	s.publish(ProgressEvent{
		Stage:    "page",
		Imported: result.Imported,
		Updated:  result.Updated,
		Errors:   result.Errors,
		Message:  result.Message,
	})
	return result, nil
}

func (s *ImportService) importRecords(ctx context.Context, records []scraper.Record) *models.ScrapeResult {
	result := &models.ScrapeResult{
		Products:     []*models.Product{},
		ErrorDetails: []models.ScrapeItemError{},
	}

	for _, rec := range records {
		if rec.PartNumber == "" || rec.Manufacturer == "" {
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, models.ScrapeItemError{
				PartNumber: rec.PartNumber,
				Error:      "missing part number or manufacturer",
			})
			metrics.ProductsImportedTotal.WithLabelValues("skipped").Inc()
			continue
		}

		product := productFromRecord(rec)
		inserted, err := s.store.Upsert(ctx, product)
		if err != nil {
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, models.ScrapeItemError{
				PartNumber: rec.PartNumber,
				Error:      err.Error(),
			})
			metrics.ProductsImportedTotal.WithLabelValues("failed").Inc()
			log.Printf("[ImportService] upsert %s failed: %v", rec.PartNumber, err)
			continue
		}
		if inserted {
			result.Imported++
			metrics.ProductsImportedTotal.WithLabelValues("imported").Inc()
		} else {
			result.Updated++
			metrics.ProductsImportedTotal.WithLabelValues("updated").Inc()
		}
		result.Products = append(result.Products, product)
	}
	return result
}

func productFromRecord(rec scraper.Record) *models.Product {
	return &models.Product{
		PartNumber:   rec.PartNumber,
		Manufacturer: rec.Manufacturer,
		Description:  rec.Description,
		Category:     rec.Category,
		Price:        rec.Price,
		ImageURL:     rec.ImageURL,
		MouserURL:    rec.ListingURL,
	}
}

// BulkImport walks search result pages for each term, upserting as it
// goes. Requests are spaced by the configured delay; a term that fails
// is recorded and the run moves on to the next one.
func (s *ImportService) BulkImport(ctx context.Context, req models.BulkImportRequest) (*models.BulkImportResult, error) {
	terms := req.SearchTerms
	if len(terms) == 0 {
		terms = DefaultSearchTerms
	}
	perTerm := req.ProductsPerTerm
	if perTerm <= 0 {
		perTerm = defaultProductsPerTerm
	}
	delay := time.Duration(req.DelayMS) * time.Millisecond
	if delay <= 0 {
		delay = defaultBulkDelay
	}
	maxPages := (perTerm + resultsPerSearchPage - 1) / resultsPerSearchPage

	result := &models.BulkImportResult{
		Success:     true,
		TermResults: make([]models.BulkImportTermResult, 0, len(terms)),
	}

	first := true
	for _, term := range terms {
		imported := 0
		var termErr error

		for page := 1; page <= maxPages && imported < perTerm; page++ {
			if !first {
				if err := s.scraper.WaitFor(ctx, delay); err != nil {
					return result, err
				}
			}
			first = false

			want := perTerm - imported
			if want > resultsPerSearchPage {
				want = resultsPerSearchPage
			}
			records, err := s.scraper.ScrapePage(ctx, s.scraper.SearchURL(term, page), want)
			if err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				metrics.ScrapePagesTotal.WithLabelValues("fetch_error").Inc()
				termErr = err
				log.Printf("[ImportService] term %q page %d failed: %v", term, page, err)
				break
			}
			if len(records) == 0 {
				metrics.ScrapePagesTotal.WithLabelValues("empty").Inc()
				break
			}
			metrics.ScrapePagesTotal.WithLabelValues("ok").Inc()

			pageResult := s.importRecords(ctx, records)
			imported += pageResult.Imported + pageResult.Updated
			result.TotalImported += pageResult.Imported + pageResult.Updated
			result.TotalErrors += pageResult.Errors

			s.publish(ProgressEvent{
				Stage:    "bulk",
				Term:     term,
				Page:     page,
				Imported: pageResult.Imported,
				Updated:  pageResult.Updated,
				Errors:   pageResult.Errors,
			})
		}

		termResult := models.BulkImportTermResult{Term: term, Imported: imported}
		if termErr != nil {
			termResult.Error = termErr.Error()
		}
		result.TermResults = append(result.TermResults, termResult)
	}

	s.publish(ProgressEvent{
		Stage:    "done",
		Imported: result.TotalImported,
		Errors:   result.TotalErrors,
		Message:  fmt.Sprintf("Bulk import finished: %d product(s) across %d term(s)", result.TotalImported, len(terms)),
	})
	return result, nil
}
