package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// PatternExtractor recognizes the field layouts that listing-alert services
// commonly use. It is the default enrichment backend; deployments with an AI
// backend swap it out behind the Extractor interface.
type PatternExtractor struct{}

// NewPatternExtractor creates the default pattern-based backend.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

var (
	addressPatterns = compileAll(
		`(?i)\*\*Property Address:\*\*\s*(.+)`,
		`(?i)Address[:：]\s*([^\n\r]+)`,
		`(?i)Property Location[:：]\s*([^\n\r]+)`,
		`(?i)Located at[:：]?\s*([^\n\r]+)`,
		`(\d+\s+[^\n\r,]+,\s*[^\n\r,]+,\s*[A-Z]{2}\s*\d{5})`,
	)

	propertyTypePatterns = compileAll(
		`(?i)\*\*Property Type:\*\*\s*(.+)`,
		`(?i)Property Type[:：]\s*([^\n\r]+)`,
		`(?i)Type[:：]\s*([^\n\r]+)`,
		`(?i)(Single Family|Multifamily|Multi[- ]Family|Townhouse|Condo|Duplex|Triplex|Fourplex|SFR|MFR)`,
	)

	pricePatterns = compileAll(
		`(?i)\*\*Purchase Price:\*\*\s*\$?([\d,]+)`,
		`(?i)Purchase Price[:：]\s*\$?([\d,]+)`,
		`(?i)Listing Price[:：]\s*\$?([\d,]+)`,
		`(?i)Asking Price[:：]\s*\$?([\d,]+)`,
		`(?i)List Price[:：]\s*\$?([\d,]+)`,
		`(?i)Price[:：]\s*\$?([\d,]+)`,
	)

	rentPatterns = compileAll(
		`(?i)\*\*Estimated Monthly Rent:\*\*\s*\$?([\d,]+)`,
		`(?i)Monthly Rent[:：]\s*\$?([\d,]+)`,
		`(?i)Estimated Rent[:：]\s*\$?([\d,]+)`,
		`(?i)Projected Rent[:：]\s*\$?([\d,]+)`,
		`(?i)Rent[:：]\s*\$?([\d,]+)`,
		`(?i)\$\s*([\d,]+)\s*(?:/mo|per month|monthly)`,
	)

	bedroomPatterns = compileAll(
		`(?i)\*\*Bedrooms:\*\*\s*(\d+)`,
		`(?i)Bedrooms?[:：]\s*(\d+)`,
		`(?i)Beds?[:：]\s*(\d+)`,
		`(?i)(\d+)\s*(?:bed|bedroom|br)s?\b`,
	)

	bathroomPatterns = compileAll(
		`(?i)\*\*Bathrooms:\*\*\s*([\d.]+)`,
		`(?i)Bathrooms?[:：]\s*([\d.]+)`,
		`(?i)Baths?[:：]\s*([\d.]+)`,
		`(?i)([\d.]+)\s*(?:bath|bathroom|ba)s?\b`,
	)

	sqftPatterns = compileAll(
		`(?i)\*\*Square Footage:\*\*\s*([\d,]+)`,
		`(?i)Square Footage[:：]\s*([\d,]+)`,
		`(?i)([\d,]+)\s*(?:sq\.?\s*ft\.?|sqft|square feet)`,
		`(?i)Size[:：]\s*([\d,]+)\s*(?:sq\.?\s*ft\.?|sqft)`,
	)

	yearPatterns = compileAll(
		`(?i)\*\*Year Built:\*\*\s*(\d{4})`,
		`(?i)Year Built[:：]\s*(\d{4})`,
		`(?i)Built[:：]?\s*(?:in\s*)?(\d{4})`,
	)

	urlPatterns = compileAll(
		`(?i)\*\*Listing URL:\*\*\s*(\S+)`,
		`(?i)(?:Listing\s+)?URL[:：]\s*(\S+)`,
		`(https?://\S+)`,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// Extract pulls listing fields out of the subject and body. It never fails:
// fields the patterns cannot find stay zero.
func (e *PatternExtractor) Extract(ctx context.Context, subject, body string) (*DealFields, error) {
	content := subject + "\n" + body

	fields := &DealFields{
		Address:       firstMatch(addressPatterns, content),
		PropertyType:  normalizePropertyType(firstMatch(propertyTypePatterns, content)),
		PurchasePrice: matchAmount(pricePatterns, content),
		MonthlyRent:   matchAmount(rentPatterns, content),
		Bedrooms:      int(matchNumber(bedroomPatterns, content)),
		Bathrooms:     matchNumber(bathroomPatterns, content),
		SquareFootage: int(matchAmount(sqftPatterns, content)),
		YearBuilt:     int(matchNumber(yearPatterns, content)),
		ListingURL:    firstMatch(urlPatterns, content),
	}

	fields.City, fields.State, fields.ZipCode = splitAddress(fields.Address)

	return fields, nil
}

func firstMatch(patterns []*regexp.Regexp, content string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func matchAmount(patterns []*regexp.Regexp, content string) float64 {
	for _, p := range patterns {
		m := p.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		raw := strings.NewReplacer(",", "", "$", "").Replace(m[1])
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return 0
}

func matchNumber(patterns []*regexp.Regexp, content string) float64 {
	for _, p := range patterns {
		m := p.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	return 0
}

// splitAddress breaks "street, city, ST 12345" into components. Partial
// addresses yield partial results.
func splitAddress(address string) (city, state, zip string) {
	if address == "" {
		return "", "", ""
	}

	parts := strings.Split(address, ", ")
	if len(parts) >= 2 {
		city = strings.TrimSpace(parts[1])
	}
	if len(parts) >= 3 {
		stateZip := strings.Fields(parts[2])
		if len(stateZip) > 0 {
			state = stateZip[0]
		}
		if len(stateZip) > 1 {
			zip = stateZip[1]
		}
	}
	return city, state, zip
}

var propertyTypeAliases = map[string]string{
	"sfr":                       "single-family",
	"sf":                        "single-family",
	"single family":             "single-family",
	"single family residential": "single-family",
	"singlefamily":              "single-family",
	"mfr":                       "multi-family",
	"mf":                        "multi-family",
	"multifamily":               "multi-family",
	"multi family":              "multi-family",
	"multi-family":              "multi-family",
	"multifamily residential":   "multi-family",
	"townhome":                  "townhouse",
	"town home":                 "townhouse",
	"condominium":               "condo",
	"4plex":                     "fourplex",
}

func normalizePropertyType(propertyType string) string {
	if propertyType == "" {
		return ""
	}

	normalized := strings.ToLower(strings.TrimSpace(propertyType))
	// Strip trailing noise like "Home" or "House"
	for _, suffix := range []string{" home", " house", " property", " residence"} {
		normalized = strings.TrimSuffix(normalized, suffix)
	}

	if canonical, ok := propertyTypeAliases[normalized]; ok {
		return canonical
	}

	switch {
	case strings.Contains(normalized, "single") && strings.Contains(normalized, "family"):
		return "single-family"
	case strings.Contains(normalized, "multi") && strings.Contains(normalized, "family"):
		return "multi-family"
	}

	return strings.ReplaceAll(normalized, " ", "-")
}
