package handlers

import (
	"context"
	"errors"
	"io"

	"receipt-rewards/internal/dto"
	"receipt-rewards/internal/receipt"
	"receipt-rewards/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReceiptService interface {
	Submit(ctx context.Context, userID uuid.UUID, fileName string, file io.Reader) (*dto.SubmitReceiptResponse, error)
	Analyze(text string) *dto.AnalyzeReceiptResponse
	List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.ReceiptListResponse, error)
}

type ReceiptHandler struct {
	receiptService ReceiptService
	logger         *zap.Logger
}

func NewReceiptHandler(receiptService ReceiptService, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		logger:         logger,
	}
}

// SubmitReceipt godoc
// @Summary Submit a receipt
// @Description Upload a receipt photo, PDF or text file. Qualifying purchases earn points.
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param receipt formData file true "Receipt file (jpg, png, pdf or txt)"
// @Security Bearer
// @Success 201 {object} dto.SubmitReceiptResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} dto.SubmissionErrorResponse
// @Failure 413 {object} map[string]string
// @Failure 422 {object} dto.SubmissionErrorResponse
// @Router /api/v1/receipts [post]
func (h *ReceiptHandler) SubmitReceipt(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		file, err = c.FormFile("file")
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Receipt file is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	resp, err := h.receiptService.Submit(c.Context(), userID, file.Filename, src)
	if err != nil {
		return h.submissionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AnalyzeReceipt godoc
// @Summary Analyze receipt text
// @Description Score pasted receipt text without storing it or awarding points
// @Tags receipts
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeReceiptRequest true "Receipt text"
// @Security Bearer
// @Success 200 {object} dto.AnalyzeReceiptResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/receipts/analyze [post]
func (h *ReceiptHandler) AnalyzeReceipt(c *fiber.Ctx) error {
	var req dto.AnalyzeReceiptRequest
	if body, ok := bindJSON(c, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	return c.JSON(h.receiptService.Analyze(req.Text))
}

// ListReceipts godoc
// @Summary List accepted receipts
// @Description Get the user's accepted receipts, newest first
// @Tags receipts
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {object} dto.ReceiptListResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/receipts [get]
func (h *ReceiptHandler) ListReceipts(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.receiptService.List(c.Context(), userID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		h.logger.Error("Failed to list receipts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list receipts",
		})
	}

	return c.JSON(resp)
}

func (h *ReceiptHandler) submissionError(c *fiber.Ctx, err error) error {
	if se, ok := receipt.AsSubmissionError(err); ok {
		status := fiber.StatusUnprocessableEntity
		if se.Kind == receipt.KindDuplicateDetected {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(dto.SubmissionErrorResponse{
			Error:           submissionMessage(se.Kind),
			ErrorKind:       string(se.Kind),
			Details:         se.Details,
			RemediationHint: se.Hint,
		})
	}

	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "File is too large",
		})
	case errors.Is(err, service.ErrEmptyFile):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is empty",
		})
	}

	h.logger.Error("Receipt submission failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to process receipt",
	})
}

func submissionMessage(kind receipt.ErrorKind) string {
	switch kind {
	case receipt.KindExtractionFailed:
		return "Could not read the receipt"
	case receipt.KindCorruptionDetected:
		return "The receipt text is unreadable"
	case receipt.KindDuplicateDetected:
		return "Duplicate receipt"
	default:
		return "Receipt does not qualify"
	}
}
