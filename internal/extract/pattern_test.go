package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAlert = `**Property Address:** 123 Main St, Springfield, IL 62704
**Property Type:** Single Family Home
**Purchase Price:** $250,000
**Estimated Monthly Rent:** $1,850
**Bedrooms:** 3
**Bathrooms:** 2.5
**Square Footage:** 1,450 sqft
**Year Built:** 1998
**Listing URL:** https://listings.example.com/123-main-st
`

func TestPatternExtractor_StructuredAlert(t *testing.T) {
	fields, err := NewPatternExtractor().Extract(context.Background(), "New Listing Alert", sampleAlert)
	require.NoError(t, err)

	assert.Equal(t, "123 Main St, Springfield, IL 62704", fields.Address)
	assert.Equal(t, "Springfield", fields.City)
	assert.Equal(t, "IL", fields.State)
	assert.Equal(t, "62704", fields.ZipCode)
	assert.Equal(t, "single-family", fields.PropertyType)
	assert.Equal(t, 250000.0, fields.PurchasePrice)
	assert.Equal(t, 1850.0, fields.MonthlyRent)
	assert.Equal(t, 3, fields.Bedrooms)
	assert.Equal(t, 2.5, fields.Bathrooms)
	assert.Equal(t, 1450, fields.SquareFootage)
	assert.Equal(t, 1998, fields.YearBuilt)
	assert.Equal(t, "https://listings.example.com/123-main-st", fields.ListingURL)
}

func TestPatternExtractor_LooseFormat(t *testing.T) {
	body := `Check out this one!
Address: 44 Oak Ave, Portland, OR 97201
Asking Price: $410,000
3 beds, 2 baths, 1,900 sq ft
Built in 1975
https://www.zillow.example.com/homedetails/44-oak`

	fields, err := NewPatternExtractor().Extract(context.Background(), "Off-market duplex", body)
	require.NoError(t, err)

	assert.Equal(t, "44 Oak Ave, Portland, OR 97201", fields.Address)
	assert.Equal(t, 410000.0, fields.PurchasePrice)
	assert.Equal(t, 3, fields.Bedrooms)
	assert.Equal(t, 2.0, fields.Bathrooms)
	assert.Equal(t, 1900, fields.SquareFootage)
	assert.Equal(t, 1975, fields.YearBuilt)
}

func TestPatternExtractor_NothingRecognized(t *testing.T) {
	fields, err := NewPatternExtractor().Extract(context.Background(), "Lunch on Friday?", "See you at noon.")
	require.NoError(t, err)

	assert.True(t, fields.Empty(), "unrecognizable content yields the empty sentinel, not an error")
}

func TestNormalizePropertyType(t *testing.T) {
	tests := map[string]string{
		"SFR":                "single-family",
		"Single Family Home": "single-family",
		"Multi Family":       "multi-family",
		"MFR":                "multi-family",
		"Townhome":           "townhouse",
		"Condominium":        "condo",
		"Duplex":             "duplex",
		"4plex":              "fourplex",
		"Mobile Home":        "mobile",
		"":                   "",
	}

	for input, want := range tests {
		if got := normalizePropertyType(input); got != want {
			t.Errorf("normalizePropertyType(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSplitAddress_Partial(t *testing.T) {
	city, state, zip := splitAddress("44 Oak Ave, Portland")
	assert.Equal(t, "Portland", city)
	assert.Empty(t, state)
	assert.Empty(t, zip)

	city, state, zip = splitAddress("")
	assert.Empty(t, city)
	assert.Empty(t, state)
	assert.Empty(t, zip)
}
