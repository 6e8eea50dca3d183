// Package extract runs the enrichment step of the ingestion pipeline under a
// hard wall-clock deadline, degrading to an empty result instead of holding
// the request hostage to a slow backend.
package extract

import "encoding/json"

// DealFields is the structured enrichment extracted from a forwarded listing
// email. Every field is best-effort; the zero value is the explicit "no
// enrichment" sentinel and downstream consumers treat it as a normal case.
type DealFields struct {
	Address       string  `json:"address,omitempty"`
	City          string  `json:"city,omitempty"`
	State         string  `json:"state,omitempty"`
	ZipCode       string  `json:"zip_code,omitempty"`
	PropertyType  string  `json:"property_type,omitempty"`
	PurchasePrice float64 `json:"purchase_price,omitempty"`
	MonthlyRent   float64 `json:"monthly_rent,omitempty"`
	Bedrooms      int     `json:"bedrooms,omitempty"`
	Bathrooms     float64 `json:"bathrooms,omitempty"`
	SquareFootage int     `json:"square_footage,omitempty"`
	YearBuilt     int     `json:"year_built,omitempty"`
	ListingURL    string  `json:"listing_url,omitempty"`
}

// Empty reports whether no field was extracted.
func (f *DealFields) Empty() bool {
	return f == nil || *f == DealFields{}
}

// MarshalFields serializes fields for persistence; the empty sentinel
// serializes to nil so the stored record carries no enrichment blob at all.
func MarshalFields(f *DealFields) json.RawMessage {
	if f.Empty() {
		return nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return data
}
