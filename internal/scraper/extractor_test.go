package scraper

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteBase = "https://www.mouser.com"

func TestExtractRecordsDataPartnumberRows(t *testing.T) {
	html := `<html><body><table><tbody>
		<tr data-partnumber="LM358P">
			<td class="mfr-name">Texas Instruments</td>
			<td>LM358P</td>
			<td class="description">Dual Op-Amp IC</td>
			<td class="price">$0.45</td>
			<td><img src="//assets.mouser.com/images/lm358.jpg"></td>
			<td><a href="/ProductDetail/LM358P">LM358P</a></td>
		</tr>
	</tbody></table></body></html>`

	records, err := ExtractRecords(html, siteBase, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "LM358P", rec.PartNumber)
	assert.Equal(t, "Texas Instruments", rec.Manufacturer)
	assert.Equal(t, "Dual Op-Amp IC", rec.Description)
	assert.Equal(t, "Integrated Circuit", rec.Category)
	assert.Equal(t, 0.45, rec.Price)
	assert.Equal(t, "https://assets.mouser.com/images/lm358.jpg", rec.ImageURL)
	assert.Equal(t, "https://www.mouser.com/ProductDetail/LM358P", rec.ListingURL)
}

func TestExtractRecordsSelectorPriority(t *testing.T) {
	// Both a data-partnumber row and generic table rows exist; the higher
	// priority selector decides the row set and the generic row is ignored.
	html := `<html><body>
		<table><tbody>
			<tr data-partnumber="NE555">
				<td class="mfr-name">Signetics</td>
				<td>NE555</td>
			</tr>
			<tr>
				<td>Other Mfr</td>
				<td>OTHER-1</td>
			</tr>
		</tbody></table>
	</body></html>`

	records, err := ExtractRecords(html, siteBase, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "NE555", records[0].PartNumber)
}

func TestExtractRecordsClassBasedRows(t *testing.T) {
	html := `<html><body>
		<div class="SearchResultsRow">
			<span class="mfr-part-num">1N4148</span>
			<span class="mfr-name">Vishay</span>
			<span class="description">Small Signal Diode 100V</span>
			<span class="price">0.02</span>
		</div>
		<div class="SearchResultsRow">
			<span class="mfr-part-num">BC547</span>
			<span class="mfr-name">onsemi</span>
			<span class="description">NPN Transistor</span>
			<span class="price">0.10</span>
		</div>
	</body></html>`

	records, err := ExtractRecords(html, siteBase, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Diode", records[0].Category)
	assert.Equal(t, "Transistor", records[1].Category)
}

func TestExtractRecordsTableFallbackCells(t *testing.T) {
	// No class hooks at all; positional cells provide the fields
	html := `<html><body><table><tbody>
		<tr>
			<td>Yageo</td>
			<td>RC0805FR-0710KL</td>
			<td>Thick Film Resistor 10k</td>
			<td>1,234.56</td>
		</tr>
	</tbody></table></body></html>`

	records, err := ExtractRecords(html, siteBase, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "RC0805FR-0710KL", rec.PartNumber)
	assert.Equal(t, "Yageo", rec.Manufacturer)
	assert.Equal(t, "Thick Film Resistor 10k", rec.Description)
	assert.Equal(t, "Resistor", rec.Category)
	assert.Equal(t, 1234.56, rec.Price)
}

func TestExtractRecordsSkipsIncompleteRows(t *testing.T) {
	html := `<html><body>
		<div class="product-item">
			<span class="mfr-part-num">ATMEGA328P</span>
			<span class="mfr-name">Microchip</span>
			<span class="description">8-bit Microcontroller</span>
		</div>
		<div class="product-item">
			<span class="mfr-part-num">NO-MFR-1</span>
		</div>
		<div class="product-item">
			<span class="mfr-name">No Part Inc</span>
		</div>
	</body></html>`

	records, err := ExtractRecords(html, siteBase, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ATMEGA328P", records[0].PartNumber)
	assert.Equal(t, "Microcontroller", records[0].Category)
}

func TestExtractRecordsDescriptionFallback(t *testing.T) {
	html := `<html><body>
		<div class="product-row">
			<span class="mfr-part-num">XYZ-100</span>
			<span class="mfr-name">Acme</span>
		</div>
	</body></html>`

	records, err := ExtractRecords(html, siteBase, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme XYZ-100", records[0].Description)
	assert.Equal(t, "Semiconductor", records[0].Category)
}

func TestExtractRecordsHonorsLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		sb.WriteString(fmt.Sprintf(`<div class="product-row">
			<span class="mfr-part-num">PN-%d</span>
			<span class="mfr-name">Acme</span>
		</div>`, i))
	}
	sb.WriteString("</body></html>")

	records, err := ExtractRecords(sb.String(), siteBase, 5)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestExtractRecordsFallbackHeuristic(t *testing.T) {
	// None of the known row shapes match, but a generic element carries a
	// product detail link with enough surrounding text.
	html := `<html><body>
		<div class="listing-entry row">
			This is a long enough description of the component on offer.
			<a href="/ProductDetail/STM32F103">STM32F103</a>
		</div>
	</body></html>`

	records, err := ExtractRecords(html, siteBase, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "STM32F103", rec.PartNumber)
	assert.Equal(t, "Unknown", rec.Manufacturer)
	assert.Equal(t, "Semiconductor", rec.Category)
	assert.Equal(t, "https://www.mouser.com/ProductDetail/STM32F103", rec.ListingURL)
}

func TestExtractRecordsFallbackTruncatesOnRuneBoundary(t *testing.T) {
	// Ω is 2 bytes; the leading "x" puts every rune at an odd byte offset,
	// so any byte-index cut of this text lands mid-character.
	long := "x" + strings.Repeat("Ω", 220) + " end of description"
	html := `<html><body>
		<div class="row">` + long + `
			<a href="/ProductDetail/OMEGA-1">OMEGA-1</a>
		</div>
	</body></html>`

	records, err := ExtractRecords(html, siteBase, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.True(t, utf8.ValidString(records[0].Description))
	assert.LessOrEqual(t, utf8.RuneCountInString(records[0].Description), 200)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "abc", truncateRunes("abcde", 3))
	assert.Equal(t, "ΩΩ", truncateRunes("ΩΩΩΩ", 2))
	assert.True(t, utf8.ValidString(truncateRunes(strings.Repeat("Ω", 300), 200)))
}

func TestExtractRecordsEmptyPage(t *testing.T) {
	records, err := ExtractRecords("<html><body><p>Nothing here</p></body></html>", siteBase, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1.23", 1.23},
		{"1.23", 1.23},
		{"USD 1,234.56", 1234.56},
		{"Rs. 45", 45},
		{"from $0.045 each", 0.045},
		{"call for pricing", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parsePrice(tt.in), "input %q", tt.in)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Thick Film Resistor 10k", "Resistor"},
		{"Ceramic Capacitor 100nF", "Capacitor"},
		{"NPN Transistor TO-92", "Transistor"},
		{"Schottky diode 40V", "Diode"},
		{"Timer IC DIP-8", "Integrated Circuit"},
		{"8-bit Microcontroller", "Microcontroller"},
		{"Voltage regulator", "Semiconductor"},
		// "ic" must match as a word, not inside another one
		{"Classic device", "Semiconductor"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inferCategory(tt.desc), "description %q", tt.desc)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"https://example.com/x.jpg", "https://example.com/x.jpg"},
		{"//assets.mouser.com/x.jpg", "https://assets.mouser.com/x.jpg"},
		{"/ProductDetail/LM358", "https://www.mouser.com/ProductDetail/LM358"},
		{"images/x.jpg", "https://www.mouser.com/images/x.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeURL(tt.raw, siteBase), "raw %q", tt.raw)
	}
}
