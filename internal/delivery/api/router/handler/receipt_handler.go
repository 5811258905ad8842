package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"frutas/internal/delivery/api/middleware"
	"frutas/internal/delivery/api/response"
	"frutas/internal/delivery/api/validator"
	"frutas/internal/domain/service"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReceiptHandlerParams holds dependencies for ReceiptHandler, injected by Fx.
type ReceiptHandlerParams struct {
	fx.In

	ReceiptUC     usecase.ReceiptUsecase
	UserUC        usecase.UserUsecase
	QRCodeService service.QRCodeService
	Logger        *slog.Logger
}

// ReceiptHandler serves finalization at the till and claiming by customers.
type ReceiptHandler struct {
	receiptUC     usecase.ReceiptUsecase
	userUC        usecase.UserUsecase
	qrCodeService service.QRCodeService
	logger        *slog.Logger
}

func NewReceiptHandler(params ReceiptHandlerParams) *ReceiptHandler {
	return &ReceiptHandler{
		receiptUC:     params.ReceiptUC,
		userUC:        params.UserUC,
		qrCodeService: params.QRCodeService,
		logger:        params.Logger,
	}
}

type ReceiptLineRequest struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required,gt=0"`
	Quantity   int   `json:"quantity"`
}

// FinalizeReceiptRequest is the cart sent by the point of sale. Quantity bounds
// are checked by the use case so every bad line is reported together.
type FinalizeReceiptRequest struct {
	Items []ReceiptLineRequest `json:"items" validate:"required,min=1,dive"`
}

type ClaimReceiptRequest struct {
	Code string `json:"code" validate:"required"`
}

type ClaimReceiptResponse struct {
	Receipt    *ReceiptResponse `json:"receipt"`
	NewBalance int              `json:"new_balance"`
}

func (h *ReceiptHandler) FinalizeReceipt(c echo.Context) error {
	var req FinalizeReceiptRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid receipt input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.Problems(err))
	}

	lines := make([]usecase.ReceiptLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, usecase.ReceiptLineInput{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
	}

	receipt, err := h.receiptUC.FinalizeReceipt(c.Request().Context(), lines)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	resp := newReceiptResponse(receipt)
	resp.ClaimURL = h.qrCodeService.ClaimURL(receipt.Code)

	return response.Success(c, http.StatusCreated, resp)
}

// ClaimReceipt binds the receipt to the caller. The profile row is created on
// first use so new customers can claim right after signing up.
func (h *ReceiptHandler) ClaimReceipt(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Invalid user ID in token")
	}

	var req ClaimReceiptRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid claim input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.Problems(err))
	}

	ctx := c.Request().Context()
	if _, err := h.userUC.EnsureUser(ctx, principal); err != nil {
		return response.HandleAppError(c, err)
	}

	result, err := h.receiptUC.ClaimReceipt(ctx, req.Code, principal.UserID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &ClaimReceiptResponse{
		Receipt:    newReceiptResponse(result.Receipt),
		NewBalance: result.NewBalance,
	})
}

func (h *ReceiptHandler) ListReceipts(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return response.BindingError(c, "Invalid pagination parameters")
	}

	receipts, err := h.receiptUC.ListReceipts(c.Request().Context(), opts)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(receipts, newReceiptResponse))
}

func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "Invalid receipt ID")
	}

	receipt, err := h.receiptUC.GetReceipt(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newReceiptResponse(receipt))
}

// ReceiptQR returns the printable PNG for a receipt code.
func (h *ReceiptHandler) ReceiptQR(c echo.Context) error {
	code := strings.ToUpper(c.Param("code"))

	png, err := h.receiptUC.ReceiptQR(c.Request().Context(), code)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	c.Response().Header().Set("Content-Disposition", `inline; filename="`+code+`.png"`)

	return c.Blob(http.StatusOK, "image/png", png)
}
