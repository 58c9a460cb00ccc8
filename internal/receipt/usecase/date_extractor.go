package usecase

import (
	"regexp"

	receiptdomain "receipt-backend/internal/receipt/domain"
)

// dateRegex matches 2024-01-31, 31/1/2024 and 31-Jan-2024.
var dateRegex = regexp.MustCompile(`(?i)(\d{4}-\d{2}-\d{2})|(\d{1,2}/\d{1,2}/\d{4})|(\d{1,2}-(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)-\d{4})`)

// ExtractDate returns the first date found in text exactly as written, or the
// not-detected placeholder.
func ExtractDate(text string) string {
	if m := dateRegex.FindString(text); m != "" {
		return m
	}
	return receiptdomain.OCRDateNotDetected
}
