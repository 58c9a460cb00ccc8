package domain

// Outcome is the terminal state of an accepted upload.
type Outcome string

const (
	OutcomeSuccess Outcome = "Success"
	// OutcomePartialSuccess means the image is stored but no ledger row was written.
	OutcomePartialSuccess Outcome = "PartialSuccess"
)

// Placeholders written to the date column when no date could be read.
// OCRDateNoText also covers OCR being turned off.
const (
	OCRDateNoText      = "No Text Found"
	OCRDateError       = "OCR Error"
	OCRDateNotDetected = "N/A"
)

// Receipt is one stored upload and the ledger row describing it.
type Receipt struct {
	UploadedAt    string
	OCRDate       string
	Amount        string
	Category      string
	PaymentMethod string
	FileName      string
	FileID        string
}

// LedgerRow returns the row in ledger column order.
func (r *Receipt) LedgerRow() []interface{} {
	return []interface{}{
		r.UploadedAt,
		r.OCRDate,
		r.Amount,
		r.Category,
		r.PaymentMethod,
		r.FileName,
		r.FileID,
	}
}

type UploadResult struct {
	Outcome Outcome
	Message string
	Receipt *Receipt
	// Cause is set on a partial success and says why the ledger row is missing.
	Cause error
}
