package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/marktline/billing-service/internal/delivery/http/dto/request"
	"github.com/marktline/billing-service/internal/domain"
	billingUsecase "github.com/marktline/billing-service/internal/usecase/billing"
)

type BillingHandler struct {
	uc       billingUsecase.BillingUsecase
	validate *validator.Validate
}

func NewBillingHandler(uc billingUsecase.BillingUsecase) *BillingHandler {
	return &BillingHandler{
		uc:       uc,
		validate: validator.New(),
	}
}

func (h *BillingHandler) RunTask(c echo.Context) error {
	var req request.RunTaskRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.NewValidationError("invalid request body"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return writeError(c, domain.NewValidationError(err.Error()))
	}

	reports, err := h.uc.Run(c.Request().Context(), billingUsecase.TaskType(req.TaskType), req.ExecuteNow)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reports": reports})
}

func (h *BillingHandler) Overview(c echo.Context) error {
	overview, err := h.uc.Overview(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, overview)
}

func (h *BillingHandler) SellerSnapshot(c echo.Context) error {
	snapshot, err := h.uc.SellerSnapshot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}
