package usecase

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	authdomain "receipt-backend/internal/auth/domain"
	authusecase "receipt-backend/internal/auth/usecase"
	receiptdomain "receipt-backend/internal/receipt/domain"
	receiptdto "receipt-backend/internal/receipt/dto"
	"receipt-backend/pkg/gdrive"
	"receipt-backend/pkg/logger"
)

const (
	msgNotAuthenticated = "User not authenticated."
	msgNoFile           = "No file uploaded."
	msgFileTooLarge     = "Uploaded file is too large."
	msgNoCategory       = "Category is required."
	msgBadAmount        = "Valid positive amount is required."
	msgBadPayment       = "Invalid payment method selected."
	msgNoWorkspace      = "Could not connect to Google services."
	msgUploadFailed     = "Failed to upload receipt to Google Drive."

	msgLedgerAppended = "Data added to Google Sheet."
	msgLedgerFailed   = "Failed to add data to Google Sheet."
	msgLedgerSkipped  = "Skipped Sheet update (SPREADSHEET_ID not configured)."
)

type UploadConfig struct {
	AppFolderName  string
	PaymentMethods []string
	Location       *time.Location
	CallTimeout    time.Duration
}

// uploadUsecase implements UploadUsecase interface
type uploadUsecase struct {
	guard      authusecase.TokenGuard
	workspaces WorkspaceFactory
	folders    *FolderResolver
	cfg        UploadConfig
	now        func() time.Time
}

func NewUploadUsecase(guard authusecase.TokenGuard, workspaces WorkspaceFactory, folders *FolderResolver, cfg UploadConfig) UploadUsecase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &uploadUsecase{
		guard:      guard,
		workspaces: workspaces,
		folders:    folders,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (u *uploadUsecase) PaymentMethods() []string {
	return slices.Clone(u.cfg.PaymentMethods)
}

// Upload stores the receipt image and appends its ledger row. Storing the image
// is required; the ledger row is best effort and its failure yields a partial success.
func (u *uploadUsecase) Upload(ctx context.Context, sess *authdomain.Session, req *receiptdto.UploadRequest) (*receiptdomain.UploadResult, error) {
	if sess == nil || !sess.IsLoggedIn {
		return nil, receiptdomain.NewAuthError(authdomain.ErrUnauthenticated, msgNotAuthenticated)
	}

	receipt, err := u.validate(req)
	if err != nil {
		return nil, err
	}
	receipt.UploadedAt, receipt.FileName = u.derive(req.File)
	contentType := effectiveContentType(req.File.ContentType, req.File.Data)
	logger.Sugar.Infow("processing upload",
		"timestamp", receipt.UploadedAt,
		"category", receipt.Category,
		"amount", receipt.Amount,
		"payment_method", receipt.PaymentMethod,
		"file", receipt.FileName,
	)

	tok, err := u.guard.EnsureValidToken(ctx, sess)
	if err != nil {
		return nil, receiptdomain.NewAuthError(err, err.Error())
	}

	ws, err := u.workspaces.Open(ctx, tok)
	if err != nil {
		logger.Sugar.Errorw("failed to create Google clients", "error", err)
		return nil, receiptdomain.NewStorageError(msgNoWorkspace, err)
	}

	receipt.OCRDate = u.recognizeDate(ctx, ws.Recognizer, req.File.Data)

	folderID, err := u.resolveCategoryFolder(ctx, ws.Store, sess, receipt.Category)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := withTimeout(ctx, u.cfg.CallTimeout)
	fileID, err := ws.Store.Upload(callCtx, receipt.FileName, folderID, contentType, bytes.NewReader(req.File.Data))
	cancel()
	if err != nil {
		logger.Sugar.Errorw("error uploading receipt", "file", receipt.FileName, "error", err)
		return nil, receiptdomain.NewUploadFailedError(msgUploadFailed, err)
	}
	receipt.FileID = fileID
	logger.Sugar.Infow("receipt uploaded", "file", receipt.FileName, "file_id", fileID)

	return u.appendLedger(ctx, ws.Ledger, receipt), nil
}

// validate checks the fields in a fixed order and stops at the first problem.
func (u *uploadUsecase) validate(req *receiptdto.UploadRequest) (*receiptdomain.Receipt, error) {
	if req == nil {
		return nil, receiptdomain.NewValidationError(msgNoFile)
	}
	if req.FileTooLarge {
		return nil, receiptdomain.NewValidationError(msgFileTooLarge)
	}
	if req.File == nil || len(req.File.Data) == 0 {
		return nil, receiptdomain.NewValidationError(msgNoFile)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, receiptdomain.NewValidationError(msgNoCategory)
	}

	amount, ok := parseAmount(req.Amount)
	if !ok {
		logger.Sugar.Warnw("invalid amount received from client", "amount", req.Amount)
		return nil, receiptdomain.NewValidationError(msgBadAmount)
	}

	if !slices.Contains(u.cfg.PaymentMethods, req.PaymentMethod) {
		logger.Sugar.Warnw("invalid payment method submitted", "payment_method", req.PaymentMethod)
		return nil, receiptdomain.NewValidationError(msgBadPayment)
	}

	return &receiptdomain.Receipt{
		Category:      category,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
	}, nil
}

func (u *uploadUsecase) derive(file *receiptdto.FilePayload) (display, fileName string) {
	display, stamp := timestamps(u.now(), u.cfg.Location)
	return display, stamp + fileExtension(file.Name, file.ContentType)
}

func (u *uploadUsecase) recognizeDate(ctx context.Context, recognizer TextRecognizer, image []byte) string {
	if recognizer == nil {
		return receiptdomain.OCRDateNoText
	}

	callCtx, cancel := withTimeout(ctx, u.cfg.CallTimeout)
	defer cancel()
	text, err := recognizer.DetectText(callCtx, image)
	if err != nil {
		logger.Sugar.Errorw("error during text detection", "error", err)
		return receiptdomain.OCRDateError
	}
	if strings.TrimSpace(text) == "" {
		return receiptdomain.OCRDateNoText
	}
	date := ExtractDate(text)
	logger.Sugar.Infow("OCR extracted date", "date", date)
	return date
}

func (u *uploadUsecase) resolveCategoryFolder(ctx context.Context, store ObjectStore, sess *authdomain.Session, category string) (string, error) {
	scope := sess.ID
	if sess.User != nil && sess.User.ExternalID != "" {
		scope = sess.User.ExternalID
	}

	mainID, err := u.folders.Resolve(ctx, store, scope, u.cfg.AppFolderName, gdrive.RootFolderID)
	if err != nil {
		return "", receiptdomain.NewStorageError("Could not find/create main folder: "+u.cfg.AppFolderName, err)
	}
	categoryID, err := u.folders.Resolve(ctx, store, scope, category, mainID)
	if err != nil {
		return "", receiptdomain.NewStorageError("Could not find/create category folder: "+category, err)
	}
	return categoryID, nil
}

func (u *uploadUsecase) appendLedger(ctx context.Context, ledger Ledger, receipt *receiptdomain.Receipt) *receiptdomain.UploadResult {
	if ledger == nil {
		logger.Sugar.Warnw(msgLedgerSkipped)
		return partial(receipt, msgLedgerSkipped, receiptdomain.ErrLedgerNotConfigured)
	}

	callCtx, cancel := withTimeout(ctx, u.cfg.CallTimeout)
	defer cancel()
	if err := ledger.AppendRow(callCtx, receipt.LedgerRow()); err != nil {
		logger.Sugar.Errorw("error appending to Google Sheet", "file_id", receipt.FileID, "error", err)
		return partial(receipt, msgLedgerFailed, fmt.Errorf("%w: %w", receiptdomain.ErrLedgerAppendFailed, err))
	}
	logger.Sugar.Infow("Google Sheet append successful", "file_id", receipt.FileID)
	return &receiptdomain.UploadResult{
		Outcome: receiptdomain.OutcomeSuccess,
		Message: "Upload successful! " + msgLedgerAppended,
		Receipt: receipt,
	}
}

func partial(receipt *receiptdomain.Receipt, reason string, cause error) *receiptdomain.UploadResult {
	return &receiptdomain.UploadResult{
		Outcome: receiptdomain.OutcomePartialSuccess,
		Message: "Upload successful! " + reason,
		Receipt: receipt,
		Cause:   cause,
	}
}
