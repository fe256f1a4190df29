package model

// Extraction is the structured data pulled out of OCR text.
type Extraction struct {
	Amount  *float64 // nil when no currency-shaped token was found
	RawText string
	Items   []string
}
