package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Record is one product listing row extracted from a page
type Record struct {
	PartNumber   string
	Manufacturer string
	Description  string
	Category     string
	Price        float64
	ImageURL     string
	ListingURL   string
}

// rowSelectors are tried in order; the first one that matches anything on
// the page decides the row set. The site's markup changes without notice,
// so each entry is a snapshot of a structure that has been observed.
var rowSelectors = []string{
	"tr[data-partnumber]",
	".SearchResultsRow",
	".product-row",
	".product-item",
	"[data-product-id]",
	"table tbody tr",
}

// fieldStrategy is one ranked way to pull a field out of a row. Strategies
// are evaluated in order and the first non-empty result wins.
type fieldStrategy struct {
	name    string
	extract func(*goquery.Selection) string
}

func cssText(selector string) fieldStrategy {
	return fieldStrategy{
		name: "css:" + selector,
		extract: func(s *goquery.Selection) string {
			return s.Find(selector).First().Text()
		},
	}
}

func ownAttr(attr string) fieldStrategy {
	return fieldStrategy{
		name: "attr:" + attr,
		extract: func(s *goquery.Selection) string {
			v, _ := s.Attr(attr)
			return v
		},
	}
}

func nthCell(n int) fieldStrategy {
	return fieldStrategy{
		name: "td:" + strconv.Itoa(n),
		extract: func(s *goquery.Selection) string {
			return s.Find("td").Eq(n).Text()
		},
	}
}

var lastCell = fieldStrategy{
	name: "td:last",
	extract: func(s *goquery.Selection) string {
		return s.Find("td").Last().Text()
	},
}

var detailLinkText = fieldStrategy{
	name: "detail-link",
	extract: func(s *goquery.Selection) string {
		return s.Find(`a[href*="/ProductDetail/"]`).First().Text()
	},
}

var (
	partNumberStrategies = []fieldStrategy{
		cssText(".mfr-part-num, .part-number, [data-part-number], .partNum"),
		ownAttr("data-partnumber"),
		nthCell(1),
		detailLinkText,
	}
	manufacturerStrategies = []fieldStrategy{
		cssText(".mfr-name, .manufacturer, [data-manufacturer], .mfr"),
		cssText(".brand"),
		nthCell(0),
	}
	descriptionStrategies = []fieldStrategy{
		cssText(".description, .product-description, [data-description], .desc"),
		cssText("h3, h4, .product-title"),
		nthCell(2),
	}
	priceStrategies = []fieldStrategy{
		cssText(".price, .pricing, [data-price], .unit-price"),
		cssText(".cost, .price-break"),
		lastCell,
	}
)

func firstNonEmpty(s *goquery.Selection, strategies []fieldStrategy) string {
	for _, strat := range strategies {
		if v := strings.TrimSpace(strat.extract(s)); v != "" {
			return v
		}
	}
	return ""
}

var (
	priceRe = regexp.MustCompile(`[\d,]+\.?\d*`)
	spaceRe = regexp.MustCompile(`\s+`)
	icRe    = regexp.MustCompile(`\bic\b`)
)

// parsePrice extracts the first numeric token from candidate price text,
// handling formats like "$1.23", "1.23" and "USD 1,234.56". Returns 0 when
// no number is present.
func parsePrice(text string) float64 {
	match := priceRe.FindString(text)
	if match == "" {
		return 0
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0
	}
	return price
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// truncateRunes cuts s to at most n runes so multi-byte characters are
// never split mid-sequence
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// inferCategory guesses a category label from description keywords
func inferCategory(description string) string {
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "resistor"):
		return "Resistor"
	case strings.Contains(desc, "capacitor"):
		return "Capacitor"
	case strings.Contains(desc, "transistor"):
		return "Transistor"
	case strings.Contains(desc, "diode"):
		return "Diode"
	case icRe.MatchString(desc), strings.Contains(desc, "integrated circuit"):
		return "Integrated Circuit"
	case strings.Contains(desc, "microcontroller"), strings.Contains(desc, "mcu"):
		return "Microcontroller"
	default:
		return "Semiconductor"
	}
}

// normalizeURL resolves scraped image/link URLs against the source site.
// Protocol-relative URLs get https, site-relative paths get the host.
func normalizeURL(raw, siteBase string) string {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "http"):
		return raw
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/"):
		return strings.TrimSuffix(siteBase, "/") + raw
	default:
		return strings.TrimSuffix(siteBase, "/") + "/" + raw
	}
}

// ExtractRecords parses a listing page and returns up to limit product
// records. siteBase (scheme://host) is used to absolutize relative URLs.
// A page where nothing matches yields an empty slice, not an error.
func ExtractRecords(html, siteBase string, limit int) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, selector := range rowSelectors {
		rows := doc.Find(selector)
		if rows.Length() == 0 {
			continue
		}
		rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
			if len(records) >= limit {
				return false
			}
			if rec, ok := extractRow(row, siteBase); ok {
				records = append(records, rec)
			}
			return true
		})
		break
	}

	// Last resort: any row-like element holding a product detail link
	if len(records) == 0 {
		records = fallbackExtract(doc, siteBase, limit)
	}
	return records, nil
}

func extractRow(row *goquery.Selection, siteBase string) (Record, bool) {
	partNumber := collapseSpace(firstNonEmpty(row, partNumberStrategies))
	manufacturer := collapseSpace(firstNonEmpty(row, manufacturerStrategies))
	if partNumber == "" || manufacturer == "" {
		return Record{}, false
	}

	description := collapseSpace(firstNonEmpty(row, descriptionStrategies))
	if description == "" {
		description = manufacturer + " " + partNumber
	}

	imageURL, _ := row.Find("img").First().Attr("src")
	if imageURL == "" {
		imageURL, _ = row.Find("img").First().Attr("data-src")
	}
	if imageURL == "" {
		imageURL, _ = row.Find("img").First().Attr("data-lazy-src")
	}

	listingURL, _ := row.Find(`a[href*="/ProductDetail/"]`).First().Attr("href")
	if listingURL == "" {
		listingURL, _ = row.Find("a").First().Attr("href")
	}

	return Record{
		PartNumber:   partNumber,
		Manufacturer: manufacturer,
		Description:  description,
		Category:     inferCategory(description),
		Price:        parsePrice(firstNonEmpty(row, priceStrategies)),
		ImageURL:     normalizeURL(imageURL, siteBase),
		ListingURL:   normalizeURL(listingURL, siteBase),
	}, true
}

func fallbackExtract(doc *goquery.Document, siteBase string, limit int) []Record {
	var records []Record
	doc.Find(`tr, .row, [class*="product"]`).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if len(records) >= limit {
			return false
		}

		text := collapseSpace(row.Text())
		if len(text) < 20 || len(text) > 500 {
			return true
		}

		link := row.Find(`a[href*="/ProductDetail/"]`).First()
		if link.Length() == 0 {
			return true
		}
		partNumber := collapseSpace(link.Text())
		if partNumber == "" {
			return true
		}

		manufacturer := collapseSpace(row.Find("td, .cell").First().Text())
		if manufacturer == "" {
			manufacturer = "Unknown"
		}

		description := truncateRunes(text, 200)

		href, _ := link.Attr("href")
		records = append(records, Record{
			PartNumber:   partNumber,
			Manufacturer: manufacturer,
			Description:  strings.TrimSpace(description),
			Category:     "Semiconductor",
			ListingURL:   normalizeURL(href, siteBase),
		})
		return true
	})
	return records
}
