package dto

import receiptdomain "receipt-backend/internal/receipt/domain"

// FilePayload is the uploaded image held in memory for one request.
type FilePayload struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadRequest struct {
	Category      string
	Amount        string
	PaymentMethod string
	File          *FilePayload
	// FileTooLarge is set when the body exceeded the upload limit and File was dropped.
	FileTooLarge bool
}

type UploadResponse struct {
	Message       string `json:"message"`
	FileID        string `json:"fileId"`
	FileName      string `json:"fileName"`
	OCRDate       string `json:"ocrDate"`
	AmountEntered string `json:"amountEntered"`
}

type PaymentMethodsResponse struct {
	Methods []string `json:"methods"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUploadResponse(result *receiptdomain.UploadResult) *UploadResponse {
	return &UploadResponse{
		Message:       result.Message,
		FileID:        result.Receipt.FileID,
		FileName:      result.Receipt.FileName,
		OCRDate:       result.Receipt.OCRDate,
		AmountEntered: result.Receipt.Amount,
	}
}
