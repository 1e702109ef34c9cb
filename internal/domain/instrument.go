// Package domain defines core data structures of the duration tracking pipeline.
package domain

// Instrument is one tracked ETF.
type Instrument struct {
	// Code is the technical identifier used in the series header.
	Code string
	// Name is the friendly name the source pages report.
	Name string
	// URL is the product page the duration figure is scraped from.
	URL string
}
