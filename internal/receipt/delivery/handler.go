package delivery

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	authdelivery "receipt-backend/internal/auth/delivery"
	receiptdomain "receipt-backend/internal/receipt/domain"
	receiptdto "receipt-backend/internal/receipt/dto"
	"receipt-backend/internal/receipt/usecase"
	"receipt-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// formOverhead leaves room for the text fields and multipart framing.
const formOverhead = 64 << 10

type ReceiptHandler struct {
	uploadUsecase  usecase.UploadUsecase
	maxUploadBytes int64
}

func NewReceiptHandler(uploadUsecase usecase.UploadUsecase, maxUploadBytes int64) *ReceiptHandler {
	return &ReceiptHandler{
		uploadUsecase:  uploadUsecase,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *ReceiptHandler) Upload(c *gin.Context) {
	logger.Sugar.Infow("received upload request", "session", authdelivery.CurrentSession(c).ID)
	req := h.readUpload(c)

	result, err := h.uploadUsecase.Upload(c.Request.Context(), authdelivery.CurrentSession(c), req)
	// The token guard may have refreshed or destroyed the session.
	authdelivery.CommitSession(c)
	if err != nil {
		var uploadErr *receiptdomain.UploadError
		if errors.As(err, &uploadErr) {
			c.JSON(uploadErr.Status, receiptdto.MessageResponse{Message: uploadErr.Message})
			return
		}
		logger.Sugar.Errorw("error during upload process", "error", err)
		c.JSON(http.StatusInternalServerError, receiptdto.MessageResponse{Message: "Failed to process upload."})
		return
	}

	c.JSON(http.StatusOK, receiptdto.NewUploadResponse(result))
}

// readUpload collects the multipart fields. A missing or unreadable body
// yields an empty request so validation reports it.
func (h *ReceiptHandler) readUpload(c *gin.Context) *receiptdto.UploadRequest {
	req := &receiptdto.UploadRequest{}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+formOverhead)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			req.FileTooLarge = true
		} else {
			logger.Sugar.Debugw("upload body is not a multipart form", "error", err)
		}
		return req
	}

	req.Category = firstValue(form, "category")
	req.Amount = firstValue(form, "amount")
	req.PaymentMethod = firstValue(form, "paymentMethod")

	files := form.File["receiptImage"]
	if len(files) == 0 {
		return req
	}
	if h.maxUploadBytes > 0 && files[0].Size > h.maxUploadBytes {
		req.FileTooLarge = true
		return req
	}
	payload, err := readFile(files[0])
	if err != nil {
		logger.Sugar.Errorw("failed to read uploaded file", "error", err)
		return req
	}
	req.File = payload
	return req
}

func (h *ReceiptHandler) PaymentMethods(c *gin.Context) {
	if !authdelivery.CurrentSession(c).IsLoggedIn {
		c.JSON(http.StatusUnauthorized, receiptdto.MessageResponse{Message: "User not authenticated."})
		return
	}
	c.JSON(http.StatusOK, receiptdto.PaymentMethodsResponse{Methods: h.uploadUsecase.PaymentMethods()})
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readFile(fh *multipart.FileHeader) (*receiptdto.FilePayload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &receiptdto.FilePayload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
